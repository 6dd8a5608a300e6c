package models

import (
	"math"
	"testing"
)

func TestDistanceKmZero(t *testing.T) {
	points := []Coordinate{
		{Lat: 0, Lng: 0},
		{Lat: 28.6139, Lng: 77.2090},
		{Lat: -33.8688, Lng: 151.2093},
	}
	for _, p := range points {
		if d := p.DistanceKm(p); d != 0 {
			t.Errorf("DistanceKm(%v, %v) = %v, want 0", p, p, d)
		}
	}
}

func TestDistanceKmSymmetry(t *testing.T) {
	pairs := []struct{ a, b Coordinate }{
		{Coordinate{0, 0}, Coordinate{0, 1}},
		{Coordinate{28.6139, 77.2090}, Coordinate{19.0760, 72.8777}},
		{Coordinate{51.5074, -0.1278}, Coordinate{40.7128, -74.0060}},
	}
	for _, p := range pairs {
		ab := p.a.DistanceKm(p.b)
		ba := p.b.DistanceKm(p.a)
		if math.Abs(ab-ba) > 1e-9 {
			t.Errorf("distance not symmetric: %v vs %v", ab, ba)
		}
	}
}

func TestDistanceKmKnownValues(t *testing.T) {
	tests := []struct {
		name string
		a, b Coordinate
		want float64
	}{
		// One degree of longitude on the equator.
		{"equator degree", Coordinate{0, 0}, Coordinate{0, 1}, 111.19},
		// Delhi to Mumbai.
		{"delhi mumbai", Coordinate{28.6139, 77.2090}, Coordinate{19.0760, 72.8777}, 1153.0},
	}
	for _, tt := range tests {
		got := tt.a.DistanceKm(tt.b)
		if math.Abs(got-tt.want) > tt.want*0.01 {
			t.Errorf("%s: DistanceKm = %v, want ~%v", tt.name, got, tt.want)
		}
	}
}

func TestCoordinateValidate(t *testing.T) {
	valid := []Coordinate{{0, 0}, {90, 180}, {-90, -180}, {28.6, 77.2}}
	for _, c := range valid {
		if err := c.Validate(); err != nil {
			t.Errorf("Validate(%v) = %v, want nil", c, err)
		}
	}

	invalid := []Coordinate{{91, 0}, {-90.1, 0}, {0, 181}, {0, -180.5}}
	for _, c := range invalid {
		if err := c.Validate(); err == nil {
			t.Errorf("Validate(%v) = nil, want error", c)
		}
	}
}
