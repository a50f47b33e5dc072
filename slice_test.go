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
	"testing"

	"github.com/seismodel/velgrid/coords"
)

func TestExtractSlice(t *testing.T) {
	m := testModel(t)
	origin := coords.Spherical{R: 6366, Theta: 0.55, Phi: 1.05}.Geographic()
	spec := SliceSpec{
		Origin: origin,
		Length: 20,
		ZMin:   0,
		ZMax:   10,
		NX:     5,
		NZ:     3,
	}
	sl, err := m.ExtractSlice("P", spec)
	if err != nil {
		t.Fatal(err)
	}
	if sl.Values.Shape[0] != 3 || sl.Values.Shape[1] != 5 {
		t.Fatalf("values shape: want [3 5], got %v", sl.Values.Shape)
	}
	if len(sl.Local.Shape) != 3 || sl.Local.Shape[2] != 3 {
		t.Fatalf("local shape: want [3 5 3], got %v", sl.Local.Shape)
	}

	// With zero strike the plane runs north-south: east is identically
	// zero and north spans ±length.
	for iz := 0; iz < spec.NZ; iz++ {
		for ix := 0; ix < spec.NX; ix++ {
			if e := sl.Local.Get(iz, ix, 1); e != 0 {
				t.Errorf("east at (%d,%d): want 0, got %g", iz, ix, e)
			}
		}
	}
	if n0, n4 := sl.Local.Get(0, 0, 0), sl.Local.Get(0, 4, 0); n0 != -20 || n4 != 20 {
		t.Errorf("north range: want (-20, 20), got (%g, %g)", n0, n4)
	}
	if d0, d2 := sl.Local.Get(0, 0, 2), sl.Local.Get(2, 0, 2); d0 != 0 || d2 != 10 {
		t.Errorf("down range: want (0, 10), got (%g, %g)", d0, d2)
	}

	// Every slice value must equal a direct query at the reported
	// geographic coordinate.
	for iz := 0; iz < spec.NZ; iz++ {
		for ix := 0; ix < spec.NX; ix++ {
			g := coords.Geographic{
				Lat:   sl.Geo.Get(iz, ix, 0),
				Lon:   sl.Geo.Get(iz, ix, 1),
				Depth: sl.Geo.Get(iz, ix, 2),
			}
			want, err := m.VelocityAt("P", g)
			if err != nil {
				t.Fatal(err)
			}
			if got := sl.Values.Get(iz, ix); got != want {
				t.Errorf("value at (%d,%d): want %g, got %g", iz, ix, want, got)
			}
		}
	}

	// The plane's central sample sits at the origin.
	g := coords.Geographic{
		Lat:   sl.Geo.Get(0, 2, 0),
		Lon:   sl.Geo.Get(0, 2, 1),
		Depth: sl.Geo.Get(0, 2, 2),
	}
	const tol = 1e-9
	if math.Abs(g.Lat-origin.Lat) > tol || math.Abs(g.Lon-origin.Lon) > tol ||
		math.Abs(g.Depth-origin.Depth) > tol {
		t.Errorf("central sample: want %+v, got %+v", origin, g)
	}
}

// TestExtractSliceStrike checks that the strike parameter rotates the
// slice plane: a 90° strike runs the plane west-east.
func TestExtractSliceStrike(t *testing.T) {
	m := testModel(t)
	origin := coords.Spherical{R: 6366, Theta: 0.55, Phi: 1.05}.Geographic()
	sl, err := m.ExtractSlice("P", SliceSpec{
		Origin: origin,
		Strike: 90,
		Length: 20,
		ZMax:   10,
		NX:     5,
		NZ:     2,
	})
	if err != nil {
		t.Fatal(err)
	}
	const tol = 1e-12
	for ix, want := range []float64{-20, -10, 0, 10, 20} {
		if e := sl.Local.Get(0, ix, 1); math.Abs(e-want) > tol {
			t.Errorf("east at column %d: want %g, got %g", ix, want, e)
		}
		// cos(90°) is not exactly zero in floating point, but the
		// northward component must be negligible.
		if n := sl.Local.Get(0, ix, 0); math.Abs(n) > 1e-12 {
			t.Errorf("north at column %d: want ~0, got %g", ix, n)
		}
	}

	// Eastward displacement moves the sample toward greater longitude.
	lonWest := sl.Geo.Get(0, 0, 1)
	lonEast := sl.Geo.Get(0, 4, 1)
	if !(lonWest < origin.Lon && origin.Lon < lonEast) {
		t.Errorf("longitude span: want %g < %g < %g", lonWest, origin.Lon, lonEast)
	}
}

func TestExtractSliceErrors(t *testing.T) {
	m := testModel(t)
	if _, err := m.ExtractSlice("P", SliceSpec{NX: 0, NZ: 5}); err == nil {
		t.Error("zero sample count: want error, got nil")
	}
	_, err := m.ExtractSlice("Q", SliceSpec{NX: 2, NZ: 2})
	if !errors.Is(err, ErrUnknownPhase) {
		t.Errorf("want ErrUnknownPhase, got %v", err)
	}
}
