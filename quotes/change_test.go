package quotes

import (
	"testing"

	"stock-movers/models"
)

func TestPercentChangeBasisSwitch(t *testing.T) {
	tests := []struct {
		name      string
		period    models.Period
		price     float64
		prevClose float64
		samples   []float64
		want      float64
		ok        bool
	}{
		{"live uses first sample", models.Live, 12, 0, []float64{10, 12}, 20.0, true},
		{"1D uses first sample over prev close", models.OneDay, 12, 11, []float64{10, 12}, 20.0, true},
		{"1Y uses previous close", models.OneYear, 8, 10, []float64{9, 8}, -20.0, true},
		{"1W ignores first sample", models.OneWeek, 8, 10, []float64{4, 8}, -20.0, true},
		{"intraday falls back to prev close", models.Live, 11, 10, nil, 10.0, true},
		{"long period falls back to first sample", models.FiveYears, 15, 0, []float64{0, 10, 15}, 50.0, true},
		{"no basis", models.OneMonth, 15, 0, nil, 0, false},
		{"no price", models.OneMonth, 0, 10, []float64{10}, 0, false},
	}
	for _, tt := range tests {
		got, ok := PercentChange(tt.period, tt.price, tt.prevClose, tt.samples)
		if ok != tt.ok {
			t.Errorf("%s: ok = %v, want %v", tt.name, ok, tt.ok)
			continue
		}
		if got != tt.want {
			t.Errorf("%s: got %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestPercentChangeRounds(t *testing.T) {
	got, _ := PercentChange(models.OneYear, 10, 3, nil)
	if got != 233.3333 {
		t.Errorf("Expected 233.3333, got %v", got)
	}
}

func TestTrailingAverage(t *testing.T) {
	if got := TrailingAverage([]float64{10, 0, 20}, 99); got != 15 {
		t.Errorf("Expected 15, got %v", got)
	}
	if got := TrailingAverage(nil, 42); got != 42 {
		t.Errorf("Expected price when no samples, got %v", got)
	}
}
