package geo

import (
	"math"
	"testing"
)

func TestDistanceKm_ZeroDistance(t *testing.T) {
	d := DistanceKm(10, 20, 10, 20)
	if d < 0 || d > 1e-9 {
		t.Fatalf("same point expected ~0, got %v", d)
	}
}

func TestDistanceKm_Symmetric(t *testing.T) {
	pairs := [][4]float64{
		{-6.2, 106.8, -6.9, 107.6},
		{51.5, -0.12, 48.85, 2.35},
		{0, 0, 0, 180},
	}
	for _, p := range pairs {
		ab := DistanceKm(p[0], p[1], p[2], p[3])
		ba := DistanceKm(p[2], p[3], p[0], p[1])
		if math.Abs(ab-ba) > 1e-9 {
			t.Fatalf("distance not symmetric: %v vs %v", ab, ba)
		}
	}
}

func TestDistanceKm_KnownDistance(t *testing.T) {
	// One degree of latitude along a meridian is ~111.19 km on a 6371 km sphere.
	d := DistanceKm(0, 0, 1, 0)
	if math.Abs(d-111.19) > 0.1 {
		t.Fatalf("1 degree of latitude = %v km, want ~111.19", d)
	}
}

func TestEstimatedMinutes(t *testing.T) {
	cases := map[float64]int{
		0:    0,
		1.0:  3,
		4.0:  12,
		10.0: 30,
		2.5:  8, // rounds 7.5 up
	}
	for km, want := range cases {
		if got := EstimatedMinutes(km); got != want {
			t.Fatalf("EstimatedMinutes(%v) = %d, want %d", km, got, want)
		}
	}
}
