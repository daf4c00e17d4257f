package provider

import (
	"math"
	"testing"
	"time"

	"github.com/guttosm/investhelper/internal/domain/models"
)

func TestClean(t *testing.T) {
	d := func(day, hour int) time.Time { return time.Date(2024, 3, day, hour, 0, 0, 0, time.UTC) }
	in := models.PriceHistory{
		{Date: d(3, 14), AdjClose: 12},
		{Date: d(1, 14), AdjClose: 10},
		{Date: d(2, 14), AdjClose: 0},
		{Date: d(4, 14), AdjClose: math.NaN()},
		{Date: d(3, 20), Open: 12.5, Close: 13.2, AdjClose: 13, Volume: 900}, // same day, last wins
		{Date: d(5, 14), AdjClose: math.Inf(1)},
	}
	out, dropped := Clean(in)
	if dropped != 4 {
		t.Fatalf("dropped=%d, want 4", dropped)
	}
	if len(out) != 2 {
		t.Fatalf("len=%d, want 2: %+v", len(out), out)
	}
	if !out[0].Date.Equal(d(1, 0)) || out[0].AdjClose != 10 {
		t.Fatalf("unexpected first bar %+v", out[0])
	}
	if !out[1].Date.Equal(d(3, 0)) || out[1].AdjClose != 13 {
		t.Fatalf("unexpected second bar %+v", out[1])
	}
	if out[1].Open != 12.5 || out[1].Close != 13.2 || out[1].Volume != 900 {
		t.Fatalf("session values lost: %+v", out[1])
	}
}

func TestDateOf(t *testing.T) {
	loc := time.FixedZone("TPE", 8*3600)
	in := time.Date(2024, 5, 6, 9, 0, 0, 0, loc) // 01:00 UTC same day
	want := time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC)
	if got := DateOf(in); !got.Equal(want) {
		t.Fatalf("DateOf=%v, want %v", got, want)
	}
}
