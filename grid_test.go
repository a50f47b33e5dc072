/*
Copyright © 2024 the velgrid authors.
This file is part of velgrid.

velgrid is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

velgrid is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with velgrid.  If not, see <http://www.gnu.org/licenses/>.
*/

package velgrid

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/seismodel/velgrid/coords"
)

// testModel builds a 2×2×2 model with radius ∈ {6361, 6371} km, colatitude
// ∈ {0.5, 0.6} rad, and azimuth ∈ {1.0, 1.1} rad. Every corner holds
// Vp = 5 and Vs = 3 except the (6371, 0.6, 1.1) corner, which holds Vp = 7
// and Vs = 4.
func testModel(t *testing.T) *Model {
	t.Helper()
	points := testPoints()
	m, err := NewModel(points, nil)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func testPoints() []Point {
	var points []Point
	for _, r := range []float64{6361, 6371} {
		for _, theta := range []float64{0.5, 0.6} {
			for _, phi := range []float64{1.0, 1.1} {
				p := Point{
					Geographic: coords.Spherical{R: r, Theta: theta, Phi: phi}.Geographic(),
					Vp:         5, Vs: 3,
				}
				if r == 6371 && theta == 0.6 && phi == 1.1 {
					p.Vp, p.Vs = 7, 4
				}
				points = append(points, p)
			}
		}
	}
	return points
}

func TestNewModel(t *testing.T) {
	// Grid construction must not depend on point-cloud ordering.
	points := testPoints()
	rand.New(rand.NewSource(1)).Shuffle(len(points), func(i, j int) {
		points[i], points[j] = points[j], points[i]
	})
	m, err := NewModel(points, nil)
	if err != nil {
		t.Fatal(err)
	}

	nR, nTheta, nPhi := m.Shape()
	if nR != 2 || nTheta != 2 || nPhi != 2 {
		t.Fatalf("shape: want (2, 2, 2), got (%d, %d, %d)", nR, nTheta, nPhi)
	}

	// The divergent corner must land at the last index on every axis.
	if v := m.vp.Get(1, 1, 1); v != 7 {
		t.Errorf("Vp at (1,1,1): want 7, got %g", v)
	}
	if v := m.vs.Get(1, 1, 1); v != 4 {
		t.Errorf("Vs at (1,1,1): want 4, got %g", v)
	}
	if v := m.vp.Get(0, 1, 1); v != 5 {
		t.Errorf("Vp at (0,1,1): want 5, got %g", v)
	}
}

// TestMonotonicAxes checks that after construction every axis coordinate
// sequence is strictly ascending, holding the other two indices fixed at
// any value.
func TestMonotonicAxes(t *testing.T) {
	m := testModel(t)
	nodes := m.Nodes()
	nR, nTheta, nPhi := m.Shape()
	for j := 0; j < nTheta; j++ {
		for k := 0; k < nPhi; k++ {
			for i := 1; i < nR; i++ {
				if nodes.Get(i, j, k, 0) <= nodes.Get(i-1, j, k, 0) {
					t.Errorf("radius axis not strictly ascending at (%d,%d,%d)", i, j, k)
				}
			}
		}
	}
	for i := 0; i < nR; i++ {
		for k := 0; k < nPhi; k++ {
			for j := 1; j < nTheta; j++ {
				if nodes.Get(i, j, k, 1) <= nodes.Get(i, j-1, k, 1) {
					t.Errorf("colatitude axis not strictly ascending at (%d,%d,%d)", i, j, k)
				}
			}
		}
	}
	for i := 0; i < nR; i++ {
		for j := 0; j < nTheta; j++ {
			for k := 1; k < nPhi; k++ {
				if nodes.Get(i, j, k, 2) <= nodes.Get(i, j, k-1, 2) {
					t.Errorf("azimuth axis not strictly ascending at (%d,%d,%d)", i, j, k)
				}
			}
		}
	}
}

func TestNewModelNotRectilinear(t *testing.T) {
	points := testPoints()
	_, err := NewModel(points[:len(points)-1], nil)
	if !errors.Is(err, ErrNotRectilinear) {
		t.Errorf("want ErrNotRectilinear, got %v", err)
	}

	// A displaced node keeps the point count but breaks the Cartesian
	// product.
	points = testPoints()
	points[0].Depth += 1
	_, err = NewModel(points, nil)
	if !errors.Is(err, ErrNotRectilinear) {
		t.Errorf("displaced node: want ErrNotRectilinear, got %v", err)
	}

	if _, err := NewModel(nil, nil); err == nil {
		t.Error("empty point cloud: want error, got nil")
	}
}

func TestGridDescriptor(t *testing.T) {
	m := testModel(t)
	g := m.Grid()
	want := RegularGrid{
		NR: 2, NTheta: 2, NPhi: 2,
		DR: 10, DTheta: g.DTheta, DPhi: g.DPhi,
		RMin: 6361, RMax: 6371,
		ThetaMin: g.ThetaMin, ThetaMax: g.ThetaMax,
		PhiMin: g.PhiMin, PhiMax: g.PhiMax,
	}
	if g != want {
		t.Errorf("descriptor: want %+v, got %+v", want, g)
	}
	const tol = 1e-12
	if math.Abs(g.DTheta-0.1) > tol || math.Abs(g.DPhi-0.1) > tol {
		t.Errorf("angular spacing: want (0.1, 0.1), got (%g, %g)", g.DTheta, g.DPhi)
	}
	if math.Abs(g.ThetaMin-0.5) > tol || math.Abs(g.ThetaMax-0.6) > tol {
		t.Errorf("colatitude bounds: want (0.5, 0.6), got (%g, %g)", g.ThetaMin, g.ThetaMax)
	}
	if math.Abs(g.PhiMin-1.0) > tol || math.Abs(g.PhiMax-1.1) > tol {
		t.Errorf("azimuth bounds: want (1.0, 1.1), got (%g, %g)", g.PhiMin, g.PhiMax)
	}
}

func TestBounds(t *testing.T) {
	m := testModel(t)
	b := m.Bounds()
	const rad2deg = 180 / math.Pi
	const tol = 1e-9
	if math.Abs(b.Min.Y-(90-0.6*rad2deg)) > tol || math.Abs(b.Max.Y-(90-0.5*rad2deg)) > tol {
		t.Errorf("latitude bounds: got (%g, %g)", b.Min.Y, b.Max.Y)
	}
	if math.Abs(b.Min.X-1.0*rad2deg) > tol || math.Abs(b.Max.X-1.1*rad2deg) > tol {
		t.Errorf("longitude bounds: got (%g, %g)", b.Min.X, b.Max.X)
	}
}

func TestSurfaceDefault(t *testing.T) {
	m := testModel(t)
	if r := m.Surface()(33.5, -116.5); r != coords.EarthRadius {
		t.Errorf("default topography: want %g, got %g", coords.EarthRadius, r)
	}
	opts := &Options{Topography: func(lat, lon float64) float64 { return coords.EarthRadius + 1.5 }}
	m2, err := NewModel(testPoints(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if r := m2.Surface()(33.5, -116.5); r != coords.EarthRadius+1.5 {
		t.Errorf("custom topography: want %g, got %g", coords.EarthRadius+1.5, r)
	}
}

func TestParsePhase(t *testing.T) {
	for _, c := range []struct {
		in, want string
	}{
		{"P", PhaseP}, {"p", PhaseP}, {"VP", PhaseP}, {"vp", PhaseP},
		{"S", PhaseS}, {"s", PhaseS}, {"VS", PhaseS}, {"vs", PhaseS},
	} {
		got, err := ParsePhase(c.in)
		if err != nil {
			t.Errorf("ParsePhase(%q): %v", c.in, err)
		}
		if got != c.want {
			t.Errorf("ParsePhase(%q): want %q, got %q", c.in, c.want, got)
		}
	}
	for _, in := range []string{"", "Q", "PS", "velocity"} {
		if _, err := ParsePhase(in); !errors.Is(err, ErrUnknownPhase) {
			t.Errorf("ParsePhase(%q): want ErrUnknownPhase, got %v", in, err)
		}
	}
}
