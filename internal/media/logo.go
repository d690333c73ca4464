package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/chai2010/webp"
	"golang.org/x/image/draw"
)

const (
	MaxLogoBytes = 5 << 20
	LogoMaxSide  = 512
	webpQuality  = 80
)

var ErrUnsupportedImage = errors.New("unsupported image")

type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// LogoStore normalizes clinic logos to WebP and uploads them to S3.
type LogoStore struct {
	client        objectPutter
	bucket        string
	publicBaseURL string
	now           func() time.Time
}

type S3Options struct {
	Bucket        string
	Region        string
	Endpoint      string // empty = AWS
	AccessKey     string
	SecretKey     string
	PublicBaseURL string
}

func NewLogoStore(opts S3Options) *LogoStore {
	cfg := aws.Config{
		Region:      opts.Region,
		Credentials: credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})

	base := opts.PublicBaseURL
	if base == "" {
		base = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", opts.Bucket, opts.Region)
	}

	return &LogoStore{
		client:        client,
		bucket:        opts.Bucket,
		publicBaseURL: strings.TrimRight(base, "/"),
		now:           time.Now,
	}
}

// Upload stores the logo of clinicID and returns its public URL.
func (s *LogoStore) Upload(ctx context.Context, clinicID uint, r io.Reader) (string, error) {
	data, err := EncodeLogo(r)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("clinics/%d/logo-%d.webp", clinicID, s.now().Unix())

	if _, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(s.bucket),
		Key:          aws.String(key),
		Body:         bytes.NewReader(data),
		ContentType:  aws.String("image/webp"),
		CacheControl: aws.String("public, max-age=31536000, immutable"),
	}); err != nil {
		return "", fmt.Errorf("upload logo: %w", err)
	}

	return s.publicBaseURL + "/" + key, nil
}

// EncodeLogo decodes a PNG or JPEG, fits it into LogoMaxSide and re-encodes
// it as WebP.
func EncodeLogo(r io.Reader) ([]byte, error) {
	src, _, err := image.Decode(io.LimitReader(r, MaxLogoBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}

	img := fit(src, LogoMaxSide)

	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, &webp.Options{Quality: webpQuality}); err != nil {
		return nil, fmt.Errorf("encode webp: %w", err)
	}
	return buf.Bytes(), nil
}

// fit scales src down so its longest side is at most side. Smaller images are
// returned untouched.
func fit(src image.Image, side int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= side && h <= side {
		return src
	}

	if w >= h {
		h = h * side / w
		w = side
	} else {
		w = w * side / h
		h = side
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}
