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
	"sort"

	"github.com/ctessum/geom"
	"github.com/ctessum/sparse"
	"github.com/seismodel/velgrid/coords"
	"gonum.org/v1/gonum/floats"
)

// Topography returns the radius of the Earth's surface [km] at the given
// latitude and longitude [degrees].
type Topography func(lat, lon float64) float64

// Options holds optional parameters for model construction.
type Options struct {
	// Topography gives the surface of the model domain. If nil, a
	// constant radius of coords.EarthRadius is used. The surface is kept
	// as a reference for callers; the query path does not consult it
	// (out-of-domain queries clamp to the boundary instead).
	Topography Topography

	// UCVMVpColumn and UCVMVsColumn select the columns of a UCVM table
	// from which the P and S velocities are read. They default to
	// "cmb_vp" and "cmb_vs".
	UCVMVpColumn, UCVMVsColumn string
}

func (o *Options) topography() Topography {
	if o == nil || o.Topography == nil {
		return func(lat, lon float64) float64 { return coords.EarthRadius }
	}
	return o.Topography
}

// A Point is one record of a point cloud: a geographic sampling location
// and the velocity [km/s] of each phase there.
type Point struct {
	coords.Geographic
	Vp, Vs float64
}

// RegularGrid describes the lattice of a freshly resampled model: per-axis
// node counts, the uniform per-axis spacing (taking the first/last-node
// spacing as representative), and per-axis bounds. It is recomputed as a
// unit whenever the lattice is replaced.
type RegularGrid struct {
	NR, NTheta, NPhi   int
	DR, DTheta, DPhi   float64
	RMin, RMax         float64
	ThetaMin, ThetaMax float64
	PhiMin, PhiMax     float64
}

// A Model is a queryable container for seismic velocities in a 3D volume.
//
// The model owns its arrays exclusively: accessors return copies, and
// Regrid/Regularize replace the lattice and value fields as a unit.
// Queries are read-only and safe to run concurrently with each other, but
// callers must serialize resampling against any other use.
type Model struct {
	// nodes has shape (nR, nTheta, nPhi, 3); each trailing triple is
	// (radius, colatitude, azimuth). The lattice is rectilinear: the
	// coordinate along each axis depends only on that axis's index.
	nodes *sparse.DenseArray

	// vp and vs have shape (nR, nTheta, nPhi), co-indexed with nodes.
	vp, vs *sparse.DenseArray

	// Per-axis coordinate sequences, strictly ascending.
	rAxis, thetaAxis, phiAxis []float64

	grid RegularGrid
	topo Topography
}

// NewModel builds a model from a point cloud. The cloud must be
// rectilinear: its coordinates, transformed to spherical, must form the
// full Cartesian product of the three per-axis coordinate sets. A cloud
// that is not rectilinear is rejected with ErrNotRectilinear.
func NewModel(points []Point, opts *Options) (*Model, error) {
	if len(points) == 0 {
		return nil, fmt.Errorf("velgrid.NewModel: empty point cloud")
	}
	type record struct {
		s      coords.Spherical
		vp, vs float64
	}
	recs := make([]record, len(points))
	for i, p := range points {
		recs[i] = record{p.Geographic.Spherical(), p.Vp, p.Vs}
	}
	sort.Slice(recs, func(i, j int) bool {
		a, b := recs[i].s, recs[j].s
		if a.R != b.R {
			return a.R < b.R
		}
		if a.Theta != b.Theta {
			return a.Theta < b.Theta
		}
		return a.Phi < b.Phi
	})

	r := make([]float64, len(recs))
	theta := make([]float64, len(recs))
	phi := make([]float64, len(recs))
	for i, rec := range recs {
		r[i], theta[i], phi[i] = rec.s.R, rec.s.Theta, rec.s.Phi
	}
	nR := countDistinct(r)
	nTheta := countDistinct(theta)
	nPhi := countDistinct(phi)
	if nR*nTheta*nPhi != len(recs) {
		return nil, fmt.Errorf("velgrid.NewModel: %w: %d points != %d × %d × %d nodes",
			ErrNotRectilinear, len(recs), nR, nTheta, nPhi)
	}

	nodes := sparse.ZerosDense(nR, nTheta, nPhi, 3)
	vp := sparse.ZerosDense(nR, nTheta, nPhi)
	vs := sparse.ZerosDense(nR, nTheta, nPhi)
	for q, rec := range recs {
		nodes.Elements[3*q] = rec.s.R
		nodes.Elements[3*q+1] = rec.s.Theta
		nodes.Elements[3*q+2] = rec.s.Phi
		vp.Elements[q] = rec.vp
		vs.Elements[q] = rec.vs
	}

	m := &Model{topo: opts.topography()}
	m.setGrid(nodes, vp, vs)
	return m, nil
}

// setGrid replaces the lattice and value fields as a unit and recomputes
// the axis sequences and the regular-grid descriptor from the new lattice.
func (m *Model) setGrid(nodes, vp, vs *sparse.DenseArray) {
	m.nodes, m.vp, m.vs = nodes, vp, vs

	nR, nTheta, nPhi := nodes.Shape[0], nodes.Shape[1], nodes.Shape[2]
	m.rAxis = make([]float64, nR)
	for i := 0; i < nR; i++ {
		m.rAxis[i] = nodes.Get(i, 0, 0, 0)
	}
	m.thetaAxis = make([]float64, nTheta)
	for j := 0; j < nTheta; j++ {
		m.thetaAxis[j] = nodes.Get(0, j, 0, 1)
	}
	m.phiAxis = make([]float64, nPhi)
	for k := 0; k < nPhi; k++ {
		m.phiAxis[k] = nodes.Get(0, 0, k, 2)
	}

	m.grid = RegularGrid{
		NR: nR, NTheta: nTheta, NPhi: nPhi,
		DR:     spacing(m.rAxis),
		DTheta: spacing(m.thetaAxis),
		DPhi:   spacing(m.phiAxis),
		RMin:   floats.Min(m.rAxis), RMax: floats.Max(m.rAxis),
		ThetaMin: floats.Min(m.thetaAxis), ThetaMax: floats.Max(m.thetaAxis),
		PhiMin: floats.Min(m.phiAxis), PhiMax: floats.Max(m.phiAxis),
	}
}

// Shape returns the per-axis node counts (nR, nTheta, nPhi).
func (m *Model) Shape() (int, int, int) {
	return m.grid.NR, m.grid.NTheta, m.grid.NPhi
}

// Grid returns the regular-grid descriptor of the current lattice.
func (m *Model) Grid() RegularGrid { return m.grid }

// Nodes returns a copy of the node lattice, shape (nR, nTheta, nPhi, 3).
func (m *Model) Nodes() *sparse.DenseArray { return m.nodes.Copy() }

// Field returns a copy of the value field for the given phase.
func (m *Model) Field(phase string) (*sparse.DenseArray, error) {
	f, err := m.field(phase)
	if err != nil {
		return nil, fmt.Errorf("velgrid.Model.Field: %w", err)
	}
	return f.Copy(), nil
}

// Surface returns the topography the model was constructed with.
func (m *Model) Surface() Topography { return m.topo }

// Bounds returns the horizontal geographic extent of the model domain
// as (longitude, latitude) bounds [degrees].
func (m *Model) Bounds() *geom.Bounds {
	// Colatitude ascends as latitude descends.
	nw := coords.Spherical{R: m.grid.RMax, Theta: m.grid.ThetaMin, Phi: m.grid.PhiMin}.Geographic()
	se := coords.Spherical{R: m.grid.RMax, Theta: m.grid.ThetaMax, Phi: m.grid.PhiMax}.Geographic()
	return &geom.Bounds{
		Min: geom.Point{X: nw.Lon, Y: se.Lat},
		Max: geom.Point{X: se.Lon, Y: nw.Lat},
	}
}

func (m *Model) field(phase string) (*sparse.DenseArray, error) {
	p, err := ParsePhase(phase)
	if err != nil {
		return nil, err
	}
	if p == PhaseP {
		return m.vp, nil
	}
	return m.vs, nil
}

// countDistinct returns the number of distinct values in a.
func countDistinct(a []float64) int {
	b := make([]float64, len(a))
	copy(b, a)
	sort.Float64s(b)
	n := 0
	for i, v := range b {
		if i == 0 || v != b[i-1] {
			n++
		}
	}
	return n
}

// spacing returns the uniform spacing implied by the first and last
// elements of axis, or 0 for a degenerate single-node axis.
func spacing(axis []float64) float64 {
	if len(axis) < 2 {
		return 0
	}
	return (axis[len(axis)-1] - axis[0]) / float64(len(axis)-1)
}
