package collector

import (
	"math"
	"strings"
	"testing"
	"time"

	"MarketBoard/internal/model"
)

func point(day, hour int, close float64) model.PricePoint {
	return model.PricePoint{
		Time:  time.Date(2025, 3, day, hour, 0, 0, 0, time.UTC),
		Close: close,
	}
}

func TestNormalizeSeries_SortsAndCollapsesDates(t *testing.T) {
	points, err := NormalizeSeries("AAA", []model.PricePoint{
		point(5, 21, 103),
		point(3, 14, 101),
		point(4, 5, 102),
	})
	if err != nil {
		t.Fatalf("NormalizeSeries: %v", err)
	}
	if len(points) != 3 {
		t.Fatalf("expected 3 points, got %d", len(points))
	}
	for i, p := range points {
		wantDay := i + 3
		want := time.Date(2025, 3, wantDay, 0, 0, 0, 0, time.UTC)
		if !p.Time.Equal(want) {
			t.Errorf("point %d: expected %s, got %s", i, want, p.Time)
		}
	}
}

func TestNormalizeSeries_DedupesKeepingFirst(t *testing.T) {
	points, err := NormalizeSeries("AAA", []model.PricePoint{
		point(3, 20, 101),
		point(3, 9, 999), // same trading date, later in input: dropped
		point(4, 9, 102),
	})
	if err != nil {
		t.Fatalf("NormalizeSeries: %v", err)
	}
	if len(points) != 2 {
		t.Fatalf("expected 2 points after dedup, got %d", len(points))
	}
	if points[0].Close != 101 {
		t.Errorf("expected first occurrence kept (101), got %g", points[0].Close)
	}
}

func TestNormalizeSeries_DropsNaN(t *testing.T) {
	points, err := NormalizeSeries("AAA", []model.PricePoint{
		point(3, 0, 101),
		point(4, 0, math.NaN()),
		point(5, 0, 103),
	})
	if err != nil {
		t.Fatalf("NormalizeSeries: %v", err)
	}
	if len(points) != 2 {
		t.Fatalf("expected NaN close dropped, got %d points", len(points))
	}
	if points[0].Close != 101 || points[1].Close != 103 {
		t.Errorf("unexpected points after NaN drop: %v", points)
	}
}

func TestNormalizeSeries_RejectsNonPositive(t *testing.T) {
	tests := []struct {
		name  string
		close float64
	}{
		{"zero", 0},
		{"negative", -4.2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NormalizeSeries("XYZ", []model.PricePoint{
				point(3, 0, 101),
				point(4, 0, tt.close),
			})
			if err == nil {
				t.Fatal("expected data-quality error")
			}
			if !strings.Contains(err.Error(), "XYZ") || !strings.Contains(err.Error(), "2025-03-04") {
				t.Errorf("error should name ticker and date: %v", err)
			}
		})
	}
}

func TestNormalizeSeries_Empty(t *testing.T) {
	points, err := NormalizeSeries("AAA", nil)
	if err != nil {
		t.Fatalf("NormalizeSeries: %v", err)
	}
	if len(points) != 0 {
		t.Errorf("expected empty output, got %d points", len(points))
	}
}
