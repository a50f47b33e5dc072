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

// Package schema provides keyed lookup of structured field and relation
// metadata from resources packaged with the library. The metadata is for
// documentation only; nothing in the velocity-model engine depends on it.
package schema

import (
	"embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

//go:embed data/*.json
var data embed.FS

// An Attribute describes one field of a relation.
type Attribute struct {
	DType  string `json:"dtype"`
	Format string `json:"format"`
	Null   string `json:"null"`
	Width  int    `json:"width"`
}

// A Schema is a set of named relations and the attributes of their fields.
type Schema struct {
	Attributes map[string]Attribute `json:"Attributes"`
	Relations  map[string][]string  `json:"Relations"`
}

// Get returns the named schema, merged with its extension schema
// ("<name>.ext") if one is packaged.
func Get(name string) (*Schema, error) {
	s, err := load(name)
	if err != nil {
		return nil, fmt.Errorf("schema.Get: %v", err)
	}
	if ext, err := load(name + ".ext"); err == nil {
		for k, v := range ext.Attributes {
			s.Attributes[k] = v
		}
		for k, v := range ext.Relations {
			s.Relations[k] = v
		}
	}
	return s, nil
}

func load(name string) (*Schema, error) {
	b, err := data.ReadFile("data/" + name + ".json")
	if err != nil {
		return nil, err
	}
	s := new(Schema)
	if err := json.Unmarshal(b, s); err != nil {
		return nil, fmt.Errorf("parsing schema %s: %v", name, err)
	}
	return s, nil
}

// Document renders the named schema as a markdown document.
func Document(name string) (string, error) {
	s, err := Get(name)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n", name)
	b.WriteString("## Relations/tables\n")
	rels := make([]string, 0, len(s.Relations))
	for rel := range s.Relations {
		rels = append(rels, rel)
	}
	sort.Strings(rels)
	for _, rel := range rels {
		fmt.Fprintf(&b, "### %s\n", rel)
		b.WriteString(strings.Join(s.Relations[rel], ", ") + "\n")
	}
	b.WriteString("## Attributes/fields\n")
	b.WriteString("field|dtype|format|null|width\n")
	b.WriteString("---|---|---|---|---\n")
	attrs := make([]string, 0, len(s.Attributes))
	for attr := range s.Attributes {
		attrs = append(attrs, attr)
	}
	sort.Strings(attrs)
	for _, name := range attrs {
		a := s.Attributes[name]
		fmt.Fprintf(&b, "%s|%s|%s|%s|%d\n", name, a.DType, a.Format, a.Null, a.Width)
	}
	return b.String(), nil
}
