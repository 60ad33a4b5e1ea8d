package dispenser

import "go.uber.org/atomic"

// Counter hands out token sequence numbers starting at 1.
// It never goes backwards and has no upper bound.
type Counter struct {
	last atomic.Uint64
}

// NextLabel advances the counter and returns the new sequence number
// together with its label.
func (c *Counter) NextLabel() (uint64, string) {
	n := c.last.Inc()
	return n, FormatLabel(n)
}

// TotalIssued returns the last number handed out.
func (c *Counter) TotalIssued() uint64 {
	return c.last.Load()
}
