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

package velgridutil

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/seismodel/velgrid"
)

const fangFixture = `-117 -116
33 34
0 10
5 5
5 5
5 5
5 5
3 3
3 3
3 3
3 3
`

func TestParseOrigin(t *testing.T) {
	g, err := parseOrigin("33.5, -116.5, 10")
	if err != nil {
		t.Fatal(err)
	}
	if g.Lat != 33.5 || g.Lon != -116.5 || g.Depth != 10 {
		t.Errorf("want (33.5, -116.5, 10), got %+v", g)
	}
	for _, bad := range []string{"", "1,2", "1,2,3,4", "a,b,c"} {
		if _, err := parseOrigin(bad); err == nil {
			t.Errorf("parseOrigin(%q): want error, got nil", bad)
		}
	}
}

func TestConvertCommand(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "VpVs.dat")
	if err := os.WriteFile(in, []byte(fangFixture), 0644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "model.ncf")

	Root.SetArgs([]string{"convert", "--in", in, "--format", "FANG", "--out", out})
	if err := Root.Execute(); err != nil {
		t.Fatal(err)
	}

	m, err := velgrid.Open(out, "NCF", nil)
	if err != nil {
		t.Fatal(err)
	}
	nR, nTheta, nPhi := m.Shape()
	if nR != 2 || nTheta != 2 || nPhi != 2 {
		t.Errorf("shape: want (2, 2, 2), got (%d, %d, %d)", nR, nTheta, nPhi)
	}
}

// TestRegridCommand checks that commands sharing option names read the
// values parsed from their own flags: in, format, and out are registered
// on several flagsets, and each command must see its own instances.
func TestRegridCommand(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "VpVs.dat")
	if err := os.WriteFile(in, []byte(fangFixture), 0644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "regridded.ncf")

	Root.SetArgs([]string{"regrid", "--in", in, "--format", "FANG", "--out", out,
		"--nr", "3", "--ntheta", "3", "--nphi", "3"})
	if err := Root.Execute(); err != nil {
		t.Fatal(err)
	}

	m, err := velgrid.Open(out, "NCF", nil)
	if err != nil {
		t.Fatal(err)
	}
	nR, nTheta, nPhi := m.Shape()
	if nR != 3 || nTheta != 3 || nPhi != 3 {
		t.Errorf("shape: want (3, 3, 3), got (%d, %d, %d)", nR, nTheta, nPhi)
	}
}

func TestSchemaCommand(t *testing.T) {
	var buf bytes.Buffer
	Root.SetOut(&buf)
	defer Root.SetOut(nil)
	Root.SetArgs([]string{"schema"})
	if err := Root.Execute(); err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(buf.Bytes(), []byte("# velgrid")) {
		t.Errorf("schema output missing header: %q", buf.String())
	}
}
