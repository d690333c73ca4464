package appointment

import "time"

type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always returns the same instant. Used by tests and the seed tool.
type FixedClock struct {
	At time.Time
}

func (c FixedClock) Now() time.Time { return c.At }
