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
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/seismodel/velgrid/coords"
)

// A Table is a flat tabular representation of a model: one row per grid
// node, with both the geographic and the spherical coordinates of the node
// alongside its velocities. All columns have the same length.
type Table struct {
	Lat, Lon, Depth []float64
	Vp, Vs          []float64
	R, Theta, Phi   []float64
}

// tableColumns names the Table columns in row order.
var tableColumns = []string{"lat", "lon", "depth", "Vp", "Vs", "R", "theta", "phi"}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.Lat) }

func (t *Table) columns() [][]float64 {
	return [][]float64{t.Lat, t.Lon, t.Depth, t.Vp, t.Vs, t.R, t.Theta, t.Phi}
}

// Table flattens the model into its tabular representation, sorted by
// (latitude, longitude, depth) ascending.
func (m *Model) Table() *Table {
	n := len(m.vp.Elements)
	t := &Table{
		Lat: make([]float64, n), Lon: make([]float64, n), Depth: make([]float64, n),
		Vp: make([]float64, n), Vs: make([]float64, n),
		R: make([]float64, n), Theta: make([]float64, n), Phi: make([]float64, n),
	}
	for q := 0; q < n; q++ {
		s := coords.Spherical{
			R:     m.nodes.Elements[3*q],
			Theta: m.nodes.Elements[3*q+1],
			Phi:   m.nodes.Elements[3*q+2],
		}
		g := s.Geographic()
		t.Lat[q], t.Lon[q], t.Depth[q] = g.Lat, g.Lon, g.Depth
		t.Vp[q], t.Vs[q] = m.vp.Elements[q], m.vs.Elements[q]
		t.R[q], t.Theta[q], t.Phi[q] = s.R, s.Theta, s.Phi
	}

	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	sort.Slice(perm, func(i, j int) bool {
		a, b := perm[i], perm[j]
		if t.Lat[a] != t.Lat[b] {
			return t.Lat[a] < t.Lat[b]
		}
		if t.Lon[a] != t.Lon[b] {
			return t.Lon[a] < t.Lon[b]
		}
		return t.Depth[a] < t.Depth[b]
	})
	for _, col := range t.columns() {
		tmp := make([]float64, n)
		for i, p := range perm {
			tmp[i] = col[p]
		}
		copy(col, tmp)
	}
	return t
}

// NewModelFromTable builds a model from the geographic coordinate and
// velocity columns of t. The spherical coordinate columns are ignored; they
// are recomputed during grid construction.
func NewModelFromTable(t *Table, opts *Options) (*Model, error) {
	for _, col := range t.columns() {
		if col != nil && len(col) != t.Len() {
			return nil, fmt.Errorf("velgrid.NewModelFromTable: ragged table: column lengths differ")
		}
	}
	points := make([]Point, t.Len())
	for i := range points {
		points[i] = Point{
			Geographic: coords.Geographic{Lat: t.Lat[i], Lon: t.Lon[i], Depth: t.Depth[i]},
			Vp:         t.Vp[i],
			Vs:         t.Vs[i],
		}
	}
	m, err := NewModel(points, opts)
	if err != nil {
		return nil, fmt.Errorf("velgrid.NewModelFromTable: %w", err)
	}
	return m, nil
}

// Write writes the table to w as whitespace-delimited text with a header
// row naming the columns.
func (t *Table) Write(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, strings.Join(tableColumns, " "))
	cols := t.columns()
	for i := 0; i < t.Len(); i++ {
		for j, col := range cols {
			if j > 0 {
				fmt.Fprint(bw, " ")
			}
			fmt.Fprintf(bw, "%g", col[i])
		}
		fmt.Fprintln(bw)
	}
	return bw.Flush()
}

// ReadTable reads a table written by Table.Write.
func ReadTable(r io.Reader) (*Table, error) {
	scan := bufio.NewScanner(r)
	scan.Buffer(make([]byte, 1024*1024), 1024*1024)
	if !scan.Scan() {
		if err := scan.Err(); err != nil {
			return nil, fmt.Errorf("velgrid.ReadTable: %v", err)
		}
		return nil, fmt.Errorf("velgrid.ReadTable: %v", io.ErrUnexpectedEOF)
	}
	if got := strings.Fields(scan.Text()); len(got) != len(tableColumns) {
		return nil, fmt.Errorf("velgrid.ReadTable: header has %d columns, want %d", len(got), len(tableColumns))
	}
	t := new(Table)
	cols := []*[]float64{&t.Lat, &t.Lon, &t.Depth, &t.Vp, &t.Vs, &t.R, &t.Theta, &t.Phi}
	line := 1
	for scan.Scan() {
		line++
		fields := strings.Fields(scan.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) != len(tableColumns) {
			return nil, fmt.Errorf("velgrid.ReadTable: line %d: got %d fields, want %d",
				line, len(fields), len(tableColumns))
		}
		for j, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("velgrid.ReadTable: line %d, column %s: %v",
					line, tableColumns[j], err)
			}
			*cols[j] = append(*cols[j], v)
		}
	}
	if err := scan.Err(); err != nil {
		return nil, fmt.Errorf("velgrid.ReadTable: %v", err)
	}
	return t, nil
}
