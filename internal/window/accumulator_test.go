package window

import (
	"math"
	"sync"
	"testing"
)

func TestReduceComputesMean(t *testing.T) {
	acc := NewAccumulator(0)
	for _, v := range []float64{2, 4, 6} {
		acc.RecordPrice(v)
	}
	for _, v := range []float64{-10, 30} {
		acc.RecordSentiment(v)
	}

	b := acc.Reduce()
	if !b.PriceFilled {
		t.Fatalf("expected price window to be filled")
	}
	if math.Abs(b.Price-4) > 1e-9 {
		t.Fatalf("expected price mean 4, got %f", b.Price)
	}
	if math.Abs(b.Sentiment-10) > 1e-9 {
		t.Fatalf("expected sentiment mean 10, got %f", b.Sentiment)
	}
	if acc.PriceSeries().Len() != 1 || acc.SentimentSeries().Len() != 1 {
		t.Fatalf("expected one entry per series")
	}
}

func TestReduceEmptySentimentAppendsZero(t *testing.T) {
	acc := NewAccumulator(0)
	acc.RecordPrice(100)

	b := acc.Reduce()
	if b.Sentiment != 0 {
		t.Fatalf("expected neutral sentiment, got %f", b.Sentiment)
	}
	if acc.SentimentSeries().Len() != 1 {
		t.Fatalf("expected placeholder entry in sentiment series")
	}
	if got, _ := acc.SentimentSeries().Last(); got != 0 {
		t.Fatalf("expected 0 placeholder, got %f", got)
	}
}

func TestReduceEmptyPriceLeavesGap(t *testing.T) {
	acc := NewAccumulator(0)
	acc.RecordSentiment(5)

	b := acc.Reduce()
	if b.PriceFilled {
		t.Fatalf("expected unfilled price window")
	}
	if acc.PriceSeries().Len() != 0 {
		t.Fatalf("expected price series unchanged, got len %d", acc.PriceSeries().Len())
	}
}

func TestReduceClearsBuffers(t *testing.T) {
	acc := NewAccumulator(0)
	acc.RecordPrice(10)
	acc.RecordSentiment(1)
	acc.Reduce()

	b := acc.Reduce()
	if b.PriceFilled {
		t.Fatalf("expected empty price buffer after reduction")
	}
	if b.Sentiment != 0 {
		t.Fatalf("expected empty sentiment buffer after reduction, got %f", b.Sentiment)
	}
}

func TestRecordConcurrentWithReduce(t *testing.T) {
	acc := NewAccumulator(0)
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			acc.RecordPrice(float64(i))
			acc.RecordSentiment(float64(i))
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			acc.Reduce()
		}
	}()
	wg.Wait()

	acc.Reduce()
	total := 0.0
	for _, v := range acc.SentimentSeries().Values() {
		total += v
	}
	if math.IsNaN(total) {
		t.Fatalf("series corrupted by concurrent access")
	}
}

func TestSeriesRetention(t *testing.T) {
	s := NewSeries(3)
	for i := 1; i <= 5; i++ {
		s.Append(float64(i))
	}
	values := s.Values()
	if len(values) != 3 {
		t.Fatalf("expected 3 retained values, got %d", len(values))
	}
	if values[0] != 3 || values[2] != 5 {
		t.Fatalf("expected oldest retained value 3 and newest 5, got %+v", values)
	}
}

func TestSeriesLastEmpty(t *testing.T) {
	s := NewSeries(0)
	if _, ok := s.Last(); ok {
		t.Fatalf("expected no last value on empty series")
	}
	s.Append(7)
	if v, ok := s.Last(); !ok || v != 7 {
		t.Fatalf("expected last value 7, got %f ok=%v", v, ok)
	}
}
