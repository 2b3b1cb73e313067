// Package indicator derives momentum series from per-window scalars.
package indicator

// SMA maintains a simple moving average over the last window inputs using a running
// sum, so each update is O(1). An output is produced only once the window is full.
type SMA struct {
	window int
	ring   []float64
	next   int
	count  int
	sum    float64
	out    []float64
}

// NewSMA builds a simple moving average over the given window size.
func NewSMA(window int) *SMA {
	if window < 1 {
		window = 1
	}
	return &SMA{
		window: window,
		ring:   make([]float64, window),
	}
}

// Update feeds one input value. Once window inputs have been seen, the mean of the
// last window inputs is appended to the output series.
func (s *SMA) Update(v float64) {
	if s.count == s.window {
		s.sum -= s.ring[s.next]
	} else {
		s.count++
	}
	s.ring[s.next] = v
	s.next = (s.next + 1) % s.window
	s.sum += v

	if s.count == s.window {
		s.out = append(s.out, s.sum/float64(s.window))
	}
}

// Last returns the most recent average, reporting false before the window fills.
func (s *SMA) Last() (float64, bool) {
	if len(s.out) == 0 {
		return 0, false
	}
	return s.out[len(s.out)-1], true
}

// Series returns a copy of the produced averages, oldest first.
func (s *SMA) Series() []float64 {
	out := make([]float64, len(s.out))
	copy(out, s.out)
	return out
}

// Slope reports the k-horizon slope of the produced averages.
func (s *SMA) Slope(k int) (float64, bool) {
	return Slope(s.out, k)
}

// EMA maintains an exponential moving average with smoothing 2/(span+1). The average
// is seeded with the first input value, then follows the standard recursion
// ema = alpha*x + (1-alpha)*ema.
type EMA struct {
	alpha  float64
	value  float64
	seeded bool
	out    []float64
}

// NewEMA builds an exponential moving average for the given span.
func NewEMA(span int) *EMA {
	if span < 1 {
		span = 1
	}
	return &EMA{alpha: 2.0 / float64(span+1)}
}

// Update feeds one input value and appends the new average to the output series.
func (e *EMA) Update(v float64) {
	if !e.seeded {
		e.value = v
		e.seeded = true
	} else {
		e.value = e.alpha*v + (1-e.alpha)*e.value
	}
	e.out = append(e.out, e.value)
}

// Last returns the most recent average, reporting false before any input.
func (e *EMA) Last() (float64, bool) {
	if !e.seeded {
		return 0, false
	}
	return e.value, true
}

// Series returns a copy of the produced averages, oldest first.
func (e *EMA) Series() []float64 {
	out := make([]float64, len(e.out))
	copy(out, e.out)
	return out
}

// Slope reports the k-horizon slope of the produced averages.
func (e *EMA) Slope(k int) (float64, bool) {
	return Slope(e.out, k)
}

// Slope is the difference between the latest value and the value k-1 entries back,
// a cheap momentum proxy. It is undefined while fewer than k values exist.
func Slope(series []float64, k int) (float64, bool) {
	if k < 1 || len(series) < k {
		return 0, false
	}
	return series[len(series)-1] - series[len(series)-k], true
}
