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

import "sort"

// A bracket locates a query value between two adjacent elements of an axis
// coordinate sequence. For a degenerate bracket (exact match or out-of-range
// clamp) i0 == i1 and (width, offset) = (1, 0), so the interpolation step
// degenerates to selecting the value at that index exactly.
type bracket struct {
	i0, i1        int
	width, offset float64
}

// frac returns the fractional position of the query within the bracket.
func (b bracket) frac() float64 { return b.offset / b.width }

// locate finds the bracketing indices of q in the monotonically ascending
// coordinate sequence axis. Queries matching a node exactly yield a
// degenerate bracket at that node; queries outside the axis range clamp to
// the nearest boundary rather than extrapolating.
func locate(axis []float64, q float64) bracket {
	i := sort.SearchFloat64s(axis, q)
	switch {
	case i < len(axis) && axis[i] == q:
		return bracket{i0: i, i1: i, width: 1}
	case i == 0:
		return bracket{i0: 0, i1: 0, width: 1}
	case i == len(axis):
		return bracket{i0: i - 1, i1: i - 1, width: 1}
	}
	return bracket{i0: i - 1, i1: i, width: axis[i] - axis[i-1], offset: q - axis[i-1]}
}
