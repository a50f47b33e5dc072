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

	"github.com/ctessum/sparse"
	"github.com/seismodel/velgrid/coords"
)

// velocity returns the trilinearly interpolated value of the field vv at
// the spherical coordinate s. The eight surrounding node values are reduced
// pairwise along the radial axis, then colatitude, then azimuth.
func (m *Model) velocity(vv *sparse.DenseArray, s coords.Spherical) float64 {
	br := locate(m.rAxis, s.R)
	bt := locate(m.thetaAxis, s.Theta)
	bp := locate(m.phiAxis, s.Phi)

	v000 := vv.Get(br.i0, bt.i0, bp.i0)
	v001 := vv.Get(br.i0, bt.i0, bp.i1)
	v010 := vv.Get(br.i0, bt.i1, bp.i0)
	v011 := vv.Get(br.i0, bt.i1, bp.i1)
	v100 := vv.Get(br.i1, bt.i0, bp.i0)
	v101 := vv.Get(br.i1, bt.i0, bp.i1)
	v110 := vv.Get(br.i1, bt.i1, bp.i0)
	v111 := vv.Get(br.i1, bt.i1, bp.i1)

	fr := br.frac()
	v00 := v000 + (v100-v000)*fr
	v01 := v001 + (v101-v001)*fr
	v10 := v010 + (v110-v010)*fr
	v11 := v011 + (v111-v011)*fr

	ft := bt.frac()
	v0 := v00 + (v10-v00)*ft
	v1 := v01 + (v11-v01)*ft

	return v0 + (v1-v0)*bp.frac()
}

// VelocityAt returns the velocity [km/s] of the given phase at a single
// geographic coordinate.
func (m *Model) VelocityAt(phase string, g coords.Geographic) (float64, error) {
	vv, err := m.field(phase)
	if err != nil {
		return 0, fmt.Errorf("velgrid.Model.VelocityAt: %w", err)
	}
	return m.velocity(vv, g.Spherical()), nil
}

// Velocity returns the velocity [km/s] of the given phase at every
// coordinate in pts. pts may have any leading shape but its trailing
// dimension must be 3, holding (latitude, longitude, depth) triples; the
// result has the leading shape of pts.
func (m *Model) Velocity(phase string, pts *sparse.DenseArray) (*sparse.DenseArray, error) {
	vv, err := m.field(phase)
	if err != nil {
		return nil, fmt.Errorf("velgrid.Model.Velocity: %w", err)
	}
	nd := len(pts.Shape)
	if nd == 0 || pts.Shape[nd-1] != 3 {
		return nil, fmt.Errorf("velgrid.Model.Velocity: trailing dimension of coordinate array must be 3, got shape %v", pts.Shape)
	}
	out := sparse.ZerosDense(pts.Shape[:nd-1]...)
	for i := range out.Elements {
		g := coords.Geographic{
			Lat:   pts.Elements[3*i],
			Lon:   pts.Elements[3*i+1],
			Depth: pts.Elements[3*i+2],
		}
		out.Elements[i] = m.velocity(vv, g.Spherical())
	}
	return out, nil
}
