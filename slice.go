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
	"fmt"
	"math"

	"github.com/ctessum/sparse"
	"github.com/seismodel/velgrid/coords"
)

// SliceSpec describes an oriented vertical slice through the model.
type SliceSpec struct {
	// Origin anchors the slice plane.
	Origin coords.Geographic

	// Strike is the horizontal orientation of the slice plane
	// [degrees clockwise from north]. Zero gives a north-south slice.
	Strike float64

	// Length is the horizontal half-length of the slice [km]: the plane
	// extends Length on either side of the origin.
	Length float64

	// ZMin and ZMax are the depth range of the slice [km].
	ZMin, ZMax float64

	// NX and NZ are the horizontal and vertical sample counts.
	NX, NZ int
}

// A Slice is a vertical cross-section through the model: the interpolated
// values on a 2D lattice of sample points spanning the slice plane, together
// with the local tangent-plane and geographic coordinates of every point,
// so that a caller can render the slice without recomputing its geometry.
type Slice struct {
	// Values has shape (nZ, nX).
	Values *sparse.DenseArray

	// Local has shape (nZ, nX, 3), holding the (north, east, down)
	// coordinates [km] of each sample point relative to the origin.
	Local *sparse.DenseArray

	// Geo has shape (nZ, nX, 3), holding the (latitude, longitude,
	// depth) coordinates of each sample point.
	Geo *sparse.DenseArray
}

// ExtractSlice extracts a vertical slice of the given phase's velocity
// field. The slice plane passes through spec.Origin along spec.Strike;
// sample points are spaced uniformly in the local tangent-plane frame
// anchored at the origin.
func (m *Model) ExtractSlice(phase string, spec SliceSpec) (*Slice, error) {
	if spec.NX < 1 || spec.NZ < 1 {
		return nil, fmt.Errorf("velgrid.Model.ExtractSlice: sample counts must be positive, got (%d, %d)", spec.NX, spec.NZ)
	}
	n := span(-spec.Length, spec.Length, spec.NX)
	d := span(spec.ZMin, spec.ZMax, spec.NZ)
	sinS, cosS := math.Sincos(spec.Strike * math.Pi / 180)
	frame := coords.NewFrame(spec.Origin)

	local := sparse.ZerosDense(spec.NZ, spec.NX, 3)
	geo := sparse.ZerosDense(spec.NZ, spec.NX, 3)
	for iz := 0; iz < spec.NZ; iz++ {
		for ix := 0; ix < spec.NX; ix++ {
			p := coords.NED{N: n[ix] * cosS, E: n[ix] * sinS, D: d[iz]}
			g := frame.Geographic(p)
			local.Set(p.N, iz, ix, 0)
			local.Set(p.E, iz, ix, 1)
			local.Set(p.D, iz, ix, 2)
			geo.Set(g.Lat, iz, ix, 0)
			geo.Set(g.Lon, iz, ix, 1)
			geo.Set(g.Depth, iz, ix, 2)
		}
	}

	vv, err := m.Velocity(phase, geo)
	if err != nil {
		return nil, fmt.Errorf("velgrid.Model.ExtractSlice: %w", err)
	}
	return &Slice{Values: vv, Local: local, Geo: geo}, nil
}
