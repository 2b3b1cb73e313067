package window

import "sync"

// Boundary carries the reduced scalars of one completed window. Sentiment is always
// present (0 when the window saw no mentions); Price is only meaningful when
// PriceFilled is true, since a window with no trades leaves a gap in the price series.
type Boundary struct {
	Sentiment   float64
	Price       float64
	PriceFilled bool
}

// Accumulator buffers raw per-stream samples between window boundaries and reduces
// each buffer to its arithmetic mean when a boundary fires. Record calls are safe from
// producer goroutines and never block on the reducer beyond a short critical section.
type Accumulator struct {
	mu        sync.Mutex
	sentiment []float64
	price     []float64

	sentimentSeries *Series
	priceSeries     *Series
}

// NewAccumulator builds an accumulator whose window series use the supplied
// retention policy (0 = unbounded).
func NewAccumulator(retention int) *Accumulator {
	return &Accumulator{
		sentimentSeries: NewSeries(retention),
		priceSeries:     NewSeries(retention),
	}
}

// RecordSentiment buffers one sentiment magnitude for the current window.
func (a *Accumulator) RecordSentiment(v float64) {
	a.mu.Lock()
	a.sentiment = append(a.sentiment, v)
	a.mu.Unlock()
}

// RecordPrice buffers one trade price for the current window.
func (a *Accumulator) RecordPrice(v float64) {
	a.mu.Lock()
	a.price = append(a.price, v)
	a.mu.Unlock()
}

// Reduce closes the current window: the mean of each non-empty buffer is appended to
// that stream's series, an idle sentiment window records a neutral 0, an idle price
// window records nothing. Both buffers are cleared atomically with the reduction.
// The very first boundary reduces whatever partial data accumulated since start.
func (a *Accumulator) Reduce() Boundary {
	a.mu.Lock()
	sentiment := a.sentiment
	price := a.price
	a.sentiment = nil
	a.price = nil
	a.mu.Unlock()

	b := Boundary{}
	b.Sentiment = mean(sentiment) // 0 for an empty window, by convention
	a.sentimentSeries.Append(b.Sentiment)

	if len(price) > 0 {
		b.Price = mean(price)
		b.PriceFilled = true
		a.priceSeries.Append(b.Price)
	}
	return b
}

// SentimentSeries exposes the per-window sentiment means.
func (a *Accumulator) SentimentSeries() *Series { return a.sentimentSeries }

// PriceSeries exposes the per-window trade price means.
func (a *Accumulator) PriceSeries() *Series { return a.priceSeries }

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
