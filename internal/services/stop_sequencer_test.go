package services

import (
	"route-creator/internal/domain"
	"testing"
)

func TestSequenceStopsNearestFirst(t *testing.T) {
	origin := domain.Coordinates{Lon: 0, Lat: 0}
	stops := []domain.Coordinates{
		{Lon: 3, Lat: 0},
		{Lon: 1, Lat: 0},
		{Lon: 2, Lat: 0},
	}

	got := SequenceStops(origin, stops)

	want := []domain.Coordinates{{Lon: 1}, {Lon: 2}, {Lon: 3}}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("stop %d = %+v, want %+v", i, got[i], want[i])
		}
	}
	if stops[0] != (domain.Coordinates{Lon: 3}) {
		t.Fatalf("input was modified: %+v", stops)
	}
}

func TestSequenceStopsTieKeepsInputOrder(t *testing.T) {
	origin := domain.Coordinates{Lon: 0, Lat: 0}
	a := domain.Coordinates{Lon: 0, Lat: 1}
	b := domain.Coordinates{Lon: 0, Lat: -1}

	got := SequenceStops(origin, []domain.Coordinates{a, b})
	if got[0] != a {
		t.Fatalf("expected first-listed stop on tie, got %+v", got[0])
	}

	got = SequenceStops(origin, []domain.Coordinates{b, a})
	if got[0] != b {
		t.Fatalf("expected first-listed stop on tie, got %+v", got[0])
	}
}

func TestSequenceStopsIsPermutation(t *testing.T) {
	stops := []domain.Coordinates{
		{Lon: 10, Lat: 10}, {Lon: -5, Lat: 2}, {Lon: 10, Lat: 10},
		{Lon: 0.5, Lat: 0.5}, {Lon: 170, Lat: -40}, {Lon: -120, Lat: 35},
	}

	got := SequenceStops(domain.Coordinates{}, stops)
	if len(got) != len(stops) {
		t.Fatalf("len = %d, want %d", len(got), len(stops))
	}

	count := map[domain.Coordinates]int{}
	for _, s := range stops {
		count[s]++
	}
	for _, s := range got {
		count[s]--
	}
	for c, n := range count {
		if n != 0 {
			t.Fatalf("coordinate %+v count off by %d", c, n)
		}
	}
}

func TestSequenceStopsEmpty(t *testing.T) {
	if got := SequenceStops(domain.Coordinates{}, nil); len(got) != 0 {
		t.Fatalf("expected empty, got %v", got)
	}
}
