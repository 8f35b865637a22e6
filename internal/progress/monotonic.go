package progress

// Monotonic clamps a jittery percentage stream to the maximum seen so far.
// Negative (unknown) values are passed through without changing the maximum.
type Monotonic struct {
	max  float64
	seen bool
}

// Observe records p and returns the value to display.
func (m *Monotonic) Observe(p float64) float64 {
	if p < 0 {
		if m.seen {
			return m.max
		}
		return p
	}
	if p > 100 {
		p = 100
	}
	if !m.seen || p > m.max {
		m.max = p
		m.seen = true
	}
	return m.max
}

// Reset forgets the maximum, for the next operation.
func (m *Monotonic) Reset() {
	m.max = 0
	m.seen = false
}
