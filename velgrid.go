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

// Package velgrid is a queryable container for seismic wave velocities
// sampled on a three-dimensional spatial grid.
//
// A Model holds a rectilinear lattice of grid nodes in spherical coordinates
// together with one velocity field per seismic phase (compressional P and
// shear S). The model answers point queries by trilinear interpolation over
// the eight grid nodes surrounding the query point, and supports resampling
// onto arbitrary target lattices and extraction of oriented vertical slices.
//
// Queries outside the lattice's bounding box are clamped to the nearest
// boundary value; they do not fail and they are not extrapolated.
package velgrid

import (
	"errors"
	"fmt"
	"strings"
)

// Version gives the version number.
const Version = "0.1.0"

// Seismic phase identifiers, as normalized by ParsePhase.
const (
	PhaseP = "P"
	PhaseS = "S"
)

var (
	// ErrUnknownFormat indicates a file format tag that the package does
	// not recognize.
	ErrUnknownFormat = errors.New("unrecognized format")

	// ErrNotImplemented indicates a file format tag that the package
	// recognizes but cannot decode.
	ErrNotImplemented = errors.New("format not implemented")

	// ErrUnknownPhase indicates an invalid seismic phase identifier.
	ErrUnknownPhase = errors.New("unrecognized phase")

	// ErrNotRectilinear indicates a point cloud whose coordinates do not
	// form the full Cartesian product of its per-axis coordinate sets.
	ErrNotRectilinear = errors.New("point cloud is not rectilinear")
)

// ParsePhase normalizes a seismic phase identifier. It accepts "P" and "VP"
// for compressional waves and "S" and "VS" for shear waves, ignoring case.
func ParsePhase(phase string) (string, error) {
	switch strings.ToUpper(phase) {
	case "P", "VP":
		return PhaseP, nil
	case "S", "VS":
		return PhaseS, nil
	}
	return "", fmt.Errorf("velgrid.ParsePhase: %w: %s", ErrUnknownPhase, phase)
}
