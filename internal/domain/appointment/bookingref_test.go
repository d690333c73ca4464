package appointment

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewBookingRefFormat(t *testing.T) {
	day := time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)
	pattern := regexp.MustCompile(`^261015-[0-9A-HJKMNP-TV-Z]{6}$`)

	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		ref := NewBookingRef(day)
		assert.Regexp(t, pattern, ref)
		seen[ref] = true
	}

	// 32^6 combinations; 200 draws colliding would point at a broken generator
	assert.Greater(t, len(seen), 195)
}

func TestNormalizeBookingRef(t *testing.T) {
	assert.Equal(t, "261015-7KQ2MX", NormalizeBookingRef("  261015-7kq2mx "))
}
