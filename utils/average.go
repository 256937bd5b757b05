package utils

// RollingWindow keeps the most recent samples in a fixed-size ring.
type RollingWindow struct {
	data  []float64
	pos   int
	count int
}

// NewRollingWindow returns a window holding at most numSamples values.
func NewRollingWindow(numSamples int) *RollingWindow {
	if numSamples < 1 {
		numSamples = 1
	}
	return &RollingWindow{data: make([]float64, numSamples)}
}

// NumSamples returns the capacity of the window.
func (rw *RollingWindow) NumSamples() int {
	return len(rw.data)
}

// Len returns how many values are currently held.
func (rw *RollingWindow) Len() int {
	return rw.count
}

// Add records x, evicting the oldest value once full.
func (rw *RollingWindow) Add(x float64) {
	rw.data[rw.pos] = x
	rw.pos++
	if rw.pos >= len(rw.data) {
		rw.pos = 0
	}
	if rw.count < len(rw.data) {
		rw.count++
	}
}

// Values returns a copy of the held values, oldest first.
func (rw *RollingWindow) Values() []float64 {
	out := make([]float64, 0, rw.count)
	start := rw.pos - rw.count
	if start < 0 {
		start += len(rw.data)
	}
	for i := 0; i < rw.count; i++ {
		out = append(out, rw.data[(start+i)%len(rw.data)])
	}
	return out
}

// Average returns the mean of the held values, or 0 when empty.
func (rw *RollingWindow) Average() float64 {
	if rw.count == 0 {
		return 0
	}
	sum := 0.
	for _, v := range rw.Values() {
		sum += v
	}
	return sum / float64(rw.count)
}
