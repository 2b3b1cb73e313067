package indicator

import (
	"math"
	"testing"
)

func TestSMAUndefinedBeforeWindowFills(t *testing.T) {
	sma := NewSMA(3)
	sma.Update(1)
	sma.Update(2)
	if _, ok := sma.Last(); ok {
		t.Fatalf("expected no SMA with 2 of 3 inputs")
	}

	sma.Update(3)
	v, ok := sma.Last()
	if !ok {
		t.Fatalf("expected SMA once window filled")
	}
	if math.Abs(v-2) > 1e-9 {
		t.Fatalf("expected SMA 2, got %f", v)
	}
}

func TestSMATracksLastWindow(t *testing.T) {
	sma := NewSMA(2)
	inputs := []float64{10, 20, 30, 40}
	for _, v := range inputs {
		sma.Update(v)
	}
	v, _ := sma.Last()
	if math.Abs(v-35) > 1e-9 {
		t.Fatalf("expected mean of last two inputs 35, got %f", v)
	}
	series := sma.Series()
	if len(series) != 3 {
		t.Fatalf("expected 3 outputs, got %d", len(series))
	}
	if math.Abs(series[0]-15) > 1e-9 {
		t.Fatalf("expected first output 15, got %f", series[0])
	}
}

func TestSMAWindowOne(t *testing.T) {
	sma := NewSMA(1)
	sma.Update(42)
	v, ok := sma.Last()
	if !ok || v != 42 {
		t.Fatalf("expected SMA(1) to echo input, got %f ok=%v", v, ok)
	}
}

func TestEMAConvergesOnConstantInput(t *testing.T) {
	ema := NewEMA(12)
	ema.Update(500) // seed far from the constant
	for i := 0; i < 100; i++ {
		ema.Update(42)
	}
	v, ok := ema.Last()
	if !ok {
		t.Fatalf("expected EMA value")
	}
	if math.Abs(v-42) > 1e-6 {
		t.Fatalf("expected convergence to 42, got %f", v)
	}
}

func TestEMASeedIsFirstValue(t *testing.T) {
	ema := NewEMA(26)
	if _, ok := ema.Last(); ok {
		t.Fatalf("expected no EMA before first input")
	}
	ema.Update(101.5)
	v, _ := ema.Last()
	if v != 101.5 {
		t.Fatalf("expected seed equal to first value, got %f", v)
	}
}

func TestEMARecursion(t *testing.T) {
	ema := NewEMA(3) // alpha = 0.5
	ema.Update(10)
	ema.Update(20)
	v, _ := ema.Last()
	if math.Abs(v-15) > 1e-9 {
		t.Fatalf("expected 0.5*20 + 0.5*10 = 15, got %f", v)
	}
}

func TestSlope(t *testing.T) {
	series := []float64{1, 2, 4}

	if _, ok := Slope(series, 4); ok {
		t.Fatalf("expected undefined slope with fewer than k points")
	}
	v, ok := Slope(series, 3)
	if !ok || v != 3 {
		t.Fatalf("expected slope 3, got %f ok=%v", v, ok)
	}

	rising := []float64{1, 2, 3, 4, 5}
	if v, _ := Slope(rising, 3); v <= 0 {
		t.Fatalf("expected positive slope on rising series, got %f", v)
	}
	falling := []float64{5, 4, 3, 2, 1}
	if v, _ := Slope(falling, 3); v >= 0 {
		t.Fatalf("expected negative slope on falling series, got %f", v)
	}
}
