package appointment

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Crockford base32: no I, L, O or U, so refs survive being read over the phone.
const refAlphabet = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

const refSuffixLen = 6

// MaxBookingRefAttempts bounds regeneration after a booking_ref collision.
const MaxBookingRefAttempts = 5

type RefGenerator func(day time.Time) string

// NewBookingRef returns "<YYMMDD>-<6 random chars>", e.g. "261015-7KQ2MX".
func NewBookingRef(day time.Time) string {
	id := uuid.New()

	var b strings.Builder
	b.Grow(len("060102-") + refSuffixLen)
	b.WriteString(day.Format("060102"))
	b.WriteByte('-')
	for i := 0; i < refSuffixLen; i++ {
		b.WriteByte(refAlphabet[int(id[i])%len(refAlphabet)])
	}
	return b.String()
}

// NormalizeBookingRef upper-cases and trims user input.
func NormalizeBookingRef(ref string) string {
	return strings.ToUpper(strings.TrimSpace(ref))
}
