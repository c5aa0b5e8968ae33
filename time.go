package hawk

import "time"

// SystemClock is the default Clock, reading the OS clock via time.Now.
type SystemClock struct{}

// NowMillis implements Clock.
func (SystemClock) NowMillis() int64 {
	return time.Now().UnixNano() / int64(time.Millisecond)
}

// OffsetClock wraps another Clock and adds a fixed offset, in
// milliseconds, to every reading. Useful when the local clock is known
// to drift from the server's.
type OffsetClock struct {
	Clock      Clock
	OffsetMsec int64
}

// NowMillis implements Clock.
func (c OffsetClock) NowMillis() int64 {
	base := c.Clock
	if base == nil {
		base = SystemClock{}
	}
	return base.NowMillis() + c.OffsetMsec
}

// nowMillis resolves a possibly-nil Clock to SystemClock before reading it.
func nowMillis(c Clock) int64 {
	if c == nil {
		return SystemClock{}.NowMillis()
	}
	return c.NowMillis()
}

// nowSeconds is floor(now_ms / 1000).
func nowSeconds(c Clock) int64 {
	return nowMillis(c) / 1000
}
