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
	"gonum.org/v1/gonum/floats"
)

// Regrid resamples the model onto the target lattice, which must have shape
// (nR, nTheta, nPhi, 3) with each trailing triple holding spherical
// (radius, colatitude, azimuth) coordinates. Every value field is
// interpolated at every target node, then the model's lattice, value fields,
// and regular-grid descriptor are replaced as a unit. The operation is not
// reversible.
func (m *Model) Regrid(nodes *sparse.DenseArray) error {
	if len(nodes.Shape) != 4 || nodes.Shape[3] != 3 {
		return fmt.Errorf("velgrid.Model.Regrid: target lattice must have shape (nR, nTheta, nPhi, 3), got %v", nodes.Shape)
	}
	nR, nTheta, nPhi := nodes.Shape[0], nodes.Shape[1], nodes.Shape[2]
	vp := sparse.ZerosDense(nR, nTheta, nPhi)
	vs := sparse.ZerosDense(nR, nTheta, nPhi)
	for q := 0; q < nR*nTheta*nPhi; q++ {
		s := coords.Spherical{
			R:     nodes.Elements[3*q],
			Theta: nodes.Elements[3*q+1],
			Phi:   nodes.Elements[3*q+2],
		}
		vp.Elements[q] = m.velocity(m.vp, s)
		vs.Elements[q] = m.velocity(m.vs, s)
	}
	// The model owns its arrays exclusively; don't share the caller's.
	m.setGrid(nodes.Copy(), vp, vs)
	return nil
}

// Regularize resamples the model onto a uniform lattice with the given
// per-axis node counts, spanning the current model's per-axis bounds.
func (m *Model) Regularize(nR, nTheta, nPhi int) error {
	if nR < 1 || nTheta < 1 || nPhi < 1 {
		return fmt.Errorf("velgrid.Model.Regularize: node counts must be positive, got (%d, %d, %d)", nR, nTheta, nPhi)
	}
	r := span(m.grid.RMin, m.grid.RMax, nR)
	theta := span(m.grid.ThetaMin, m.grid.ThetaMax, nTheta)
	phi := span(m.grid.PhiMin, m.grid.PhiMax, nPhi)

	nodes := sparse.ZerosDense(nR, nTheta, nPhi, 3)
	q := 0
	for i := 0; i < nR; i++ {
		for j := 0; j < nTheta; j++ {
			for k := 0; k < nPhi; k++ {
				nodes.Elements[q] = r[i]
				nodes.Elements[q+1] = theta[j]
				nodes.Elements[q+2] = phi[k]
				q += 3
			}
		}
	}
	return m.Regrid(nodes)
}

// span returns n evenly spaced values from min to max inclusive.
func span(min, max float64, n int) []float64 {
	if n == 1 {
		return []float64{min}
	}
	return floats.Span(make([]float64, n), min, max)
}
