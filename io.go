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
	"os"
	"strconv"
	"strings"

	"github.com/ctessum/cdf"
	"github.com/ctessum/sparse"
	"github.com/seismodel/velgrid/coords"
)

// Open reads a velocity model from the file at path. The format tag is
// case-insensitive; the recognized tags are:
//
//	FANG             row-ordered text grid (longitude, latitude, and depth
//	                 header lines followed by per-depth, per-latitude rows
//	                 of Vp and then Vs)
//	UCVM, SCEC-UCVM  whitespace-delimited 17-column UCVM query output
//	NCF              the native NetCDF bundle written by Model.Save
//	FM3D, FMM3D      recognized but not implemented
//	ABZ, ABZ2015,
//	ABZ15            recognized but not implemented
//
// Unimplemented tags fail with ErrNotImplemented; anything else fails with
// ErrUnknownFormat.
func Open(path, format string, opts *Options) (*Model, error) {
	switch strings.ToUpper(format) {
	case "FANG":
		return readFang(path, opts)
	case "UCVM", "SCEC-UCVM":
		return readUCVM(path, opts)
	case "NCF":
		return readNCF(path, opts)
	case "FM3D", "FMM3D", "ABZ", "ABZ2015", "ABZ15":
		return nil, fmt.Errorf("velgrid.Open: %w: %s", ErrNotImplemented, format)
	}
	return nil, fmt.Errorf("velgrid.Open: %w: %s", ErrUnknownFormat, format)
}

// Save serializes the node lattice and both value fields to w as a NetCDF
// bundle. The bundle stores float64 values and round-trips exactly through
// Open with the "NCF" format tag. This is the only durable artifact the
// model produces.
func (m *Model) Save(w *os.File) error {
	h := cdf.NewHeader(
		[]string{"r", "theta", "phi", "coord"},
		[]int{m.grid.NR, m.grid.NTheta, m.grid.NPhi, 3})
	h.AddAttribute("", "comment", "velgrid seismic velocity model")
	h.AddAttribute("", "earth_radius", []float64{coords.EarthRadius})
	h.AddAttribute("", "grid_spacing", []float64{m.grid.DR, m.grid.DTheta, m.grid.DPhi})
	h.AddAttribute("", "grid_min", []float64{m.grid.RMin, m.grid.ThetaMin, m.grid.PhiMin})
	h.AddAttribute("", "grid_max", []float64{m.grid.RMax, m.grid.ThetaMax, m.grid.PhiMax})

	h.AddVariable("nodes", []string{"r", "theta", "phi", "coord"}, []float64{0})
	h.AddAttribute("nodes", "description", "grid node spherical coordinates (radius, colatitude, azimuth)")
	h.AddAttribute("nodes", "units", "km, rad, rad")
	for _, phase := range []string{"Vp", "Vs"} {
		h.AddVariable(phase, []string{"r", "theta", "phi"}, []float64{0})
		h.AddAttribute(phase, "description", phase+" seismic velocity")
		h.AddAttribute(phase, "units", "km/s")
	}
	h.Define()

	f, err := cdf.Create(w, h) // writes the header to w
	if err != nil {
		return fmt.Errorf("velgrid.Model.Save: %v", err)
	}
	for _, v := range []struct {
		name string
		data *sparse.DenseArray
	}{
		{"nodes", m.nodes}, {"Vp", m.vp}, {"Vs", m.vs},
	} {
		if err := writeNCF(f, v.name, v.data); err != nil {
			return fmt.Errorf("velgrid.Model.Save: writing variable %s: %v", v.name, err)
		}
	}
	if err := cdf.UpdateNumRecs(w); err != nil {
		return fmt.Errorf("velgrid.Model.Save: %v", err)
	}
	return nil
}

func readNCF(path string, opts *Options) (*Model, error) {
	ff, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("velgrid: opening NCF file: %v", err)
	}
	defer ff.Close()
	f, err := cdf.Open(ff)
	if err != nil {
		return nil, fmt.Errorf("velgrid: reading NCF header: %v", err)
	}
	nodes, err := readNCFVar(f, "nodes")
	if err != nil {
		return nil, err
	}
	vp, err := readNCFVar(f, "Vp")
	if err != nil {
		return nil, err
	}
	vs, err := readNCFVar(f, "Vs")
	if err != nil {
		return nil, err
	}
	m := &Model{topo: opts.topography()}
	m.setGrid(nodes, vp, vs)
	return m, nil
}

func readNCFVar(f *cdf.File, name string) (*sparse.DenseArray, error) {
	dims := f.Header.Lengths(name)
	arr := sparse.ZerosDense(dims...)
	r := f.Reader(name, nil, nil)
	if _, err := r.Read(arr.Elements); err != nil {
		return nil, fmt.Errorf("velgrid: reading NCF variable %s: %v", name, err)
	}
	return arr, nil
}

// writeNCF writes one variable to a NetCDF file.
func writeNCF(f *cdf.File, name string, data *sparse.DenseArray) error {
	// Check that data matches dimensions.
	n := 1
	for _, v := range data.Shape {
		n *= v
	}
	if len(data.Elements) != n {
		return fmt.Errorf("dims are %d but array length is %d", n, len(data.Elements))
	}
	end := f.Header.Lengths(name)
	start := make([]int, len(end))
	w := f.Writer(name, start, end)
	_, err := w.Write(data.Elements)
	return err
}

// readFang reads a text grid with three header lines (longitudes,
// latitudes, depths) followed by one row of per-longitude values for each
// (depth, latitude) pair: all the Vp rows, then all the Vs rows, in the
// same order.
func readFang(path string, opts *Options) (*Model, error) {
	ff, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("velgrid: opening FANG file: %v", err)
	}
	defer ff.Close()
	scan := bufio.NewScanner(ff)
	scan.Buffer(make([]byte, 1024*1024), 1024*1024)

	lon, err := scanFloats(scan)
	if err != nil {
		return nil, fmt.Errorf("velgrid: reading FANG longitudes: %v", err)
	}
	lat, err := scanFloats(scan)
	if err != nil {
		return nil, fmt.Errorf("velgrid: reading FANG latitudes: %v", err)
	}
	depth, err := scanFloats(scan)
	if err != nil {
		return nil, fmt.Errorf("velgrid: reading FANG depths: %v", err)
	}

	readBlock := func(phase string) ([]float64, error) {
		vv := make([]float64, len(lat)*len(lon)*len(depth))
		for idepth := range depth {
			for ilat := range lat {
				row, err := scanFloats(scan)
				if err != nil {
					return nil, fmt.Errorf("velgrid: reading FANG %s block (depth %d, latitude %d): %v",
						phase, idepth, ilat, err)
				}
				if len(row) != len(lon) {
					return nil, fmt.Errorf("velgrid: FANG %s block (depth %d, latitude %d): got %d values, want %d",
						phase, idepth, ilat, len(row), len(lon))
				}
				for ilon, v := range row {
					vv[(ilat*len(lon)+ilon)*len(depth)+idepth] = v
				}
			}
		}
		return vv, nil
	}
	vp, err := readBlock("Vp")
	if err != nil {
		return nil, err
	}
	vs, err := readBlock("Vs")
	if err != nil {
		return nil, err
	}

	points := make([]Point, 0, len(lat)*len(lon)*len(depth))
	for ilat := range lat {
		for ilon := range lon {
			for idepth := range depth {
				q := (ilat*len(lon)+ilon)*len(depth) + idepth
				points = append(points, Point{
					Geographic: coords.Geographic{Lat: lat[ilat], Lon: lon[ilon], Depth: depth[idepth]},
					Vp:         vp[q],
					Vs:         vs[q],
				})
			}
		}
	}
	m, err := NewModel(points, opts)
	if err != nil {
		return nil, fmt.Errorf("velgrid: building model from FANG file: %w", err)
	}
	return m, nil
}

// ucvmColumns is the fixed positional schema of UCVM query output.
var ucvmColumns = []string{
	"lon", "lat", "Z", "surf", "vs30", "crustal", "cr_vp", "cr_vs", "cr_rho",
	"gtl", "gtl_vp", "gtl_vs", "gtl_rho", "cmb_algo", "cmb_vp", "cmb_vs", "cmb_rho",
}

func ucvmColumn(name string) (int, error) {
	for i, c := range ucvmColumns {
		if c == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("velgrid: no UCVM column named %q", name)
}

// readUCVM reads whitespace-delimited UCVM query output. Depths and
// velocities are converted from meters and meters per second to kilometers
// and kilometers per second; the geology metadata columns are discarded.
func readUCVM(path string, opts *Options) (*Model, error) {
	vpName, vsName := "cmb_vp", "cmb_vs"
	if opts != nil && opts.UCVMVpColumn != "" {
		vpName = opts.UCVMVpColumn
	}
	if opts != nil && opts.UCVMVsColumn != "" {
		vsName = opts.UCVMVsColumn
	}
	iVp, err := ucvmColumn(vpName)
	if err != nil {
		return nil, err
	}
	iVs, err := ucvmColumn(vsName)
	if err != nil {
		return nil, err
	}

	ff, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("velgrid: opening UCVM file: %v", err)
	}
	defer ff.Close()
	scan := bufio.NewScanner(ff)
	scan.Buffer(make([]byte, 1024*1024), 1024*1024)

	var points []Point
	line := 0
	for scan.Scan() {
		line++
		fields := strings.Fields(scan.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) != len(ucvmColumns) {
			return nil, fmt.Errorf("velgrid: UCVM file line %d: got %d fields, want %d",
				line, len(fields), len(ucvmColumns))
		}
		var p Point
		for _, c := range []struct {
			i     int
			v     *float64
			scale float64
		}{
			{1, &p.Lat, 1},
			{0, &p.Lon, 1},
			{2, &p.Depth, 1e-3}, // m to km
			{iVp, &p.Vp, 1e-3},  // m/s to km/s
			{iVs, &p.Vs, 1e-3},
		} {
			v, err := strconv.ParseFloat(fields[c.i], 64)
			if err != nil {
				return nil, fmt.Errorf("velgrid: UCVM file line %d, column %s: %v",
					line, ucvmColumns[c.i], err)
			}
			*c.v = v * c.scale
		}
		points = append(points, p)
	}
	if err := scan.Err(); err != nil {
		return nil, fmt.Errorf("velgrid: reading UCVM file: %v", err)
	}
	m, err := NewModel(points, opts)
	if err != nil {
		return nil, fmt.Errorf("velgrid: building model from UCVM file: %w", err)
	}
	return m, nil
}

// scanFloats reads the next line and parses it as whitespace-separated
// floating point numbers.
func scanFloats(scan *bufio.Scanner) ([]float64, error) {
	if !scan.Scan() {
		if err := scan.Err(); err != nil {
			return nil, err
		}
		return nil, io.ErrUnexpectedEOF
	}
	fields := strings.Fields(scan.Text())
	out := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
