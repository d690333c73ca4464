package media

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/chai2010/webp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngOf(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestEncodeLogoResizesLargeImages(t *testing.T) {
	out, err := EncodeLogo(bytes.NewReader(pngOf(t, 1024, 256)))
	require.NoError(t, err)

	cfg, err := webp.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 512, cfg.Width)
	assert.Equal(t, 128, cfg.Height)
}

func TestEncodeLogoKeepsSmallImages(t *testing.T) {
	out, err := EncodeLogo(bytes.NewReader(pngOf(t, 100, 60)))
	require.NoError(t, err)

	cfg, err := webp.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.Width)
	assert.Equal(t, 60, cfg.Height)
}

func TestEncodeLogoRejectsGarbage(t *testing.T) {
	_, err := EncodeLogo(strings.NewReader("definitely not an image"))
	assert.ErrorIs(t, err, ErrUnsupportedImage)
}

type fakeS3 struct {
	in   *s3.PutObjectInput
	body []byte
	err  error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.in = in
	f.body, _ = io.ReadAll(in.Body)
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

func TestLogoStoreUpload(t *testing.T) {
	fake := &fakeS3{}
	store := &LogoStore{
		client:        fake,
		bucket:        "logos",
		publicBaseURL: "https://cdn.example.com",
		now:           func() time.Time { return time.Unix(1760000000, 0) },
	}

	url, err := store.Upload(context.Background(), 7, bytes.NewReader(pngOf(t, 64, 64)))
	require.NoError(t, err)

	assert.Equal(t, "https://cdn.example.com/clinics/7/logo-1760000000.webp", url)
	assert.Equal(t, "logos", *fake.in.Bucket)
	assert.Equal(t, "clinics/7/logo-1760000000.webp", *fake.in.Key)
	assert.Equal(t, "image/webp", *fake.in.ContentType)
	assert.NotEmpty(t, fake.body)
}

func TestLogoStoreUploadFailure(t *testing.T) {
	store := &LogoStore{client: &fakeS3{err: errors.New("access denied")}, bucket: "logos", now: time.Now}

	_, err := store.Upload(context.Background(), 7, bytes.NewReader(pngOf(t, 8, 8)))
	assert.Error(t, err)
}

func TestNewLogoStoreDefaultsPublicURL(t *testing.T) {
	store := NewLogoStore(S3Options{Bucket: "logos", Region: "sa-east-1"})
	assert.Equal(t, "https://logos.s3.sa-east-1.amazonaws.com", store.publicBaseURL)
}
