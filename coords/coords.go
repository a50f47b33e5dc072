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

// Package coords converts between the coordinate representations used by the
// velocity model: geographic (latitude, longitude, depth), Earth-centered
// spherical (radius, colatitude, azimuth), and local tangent-plane
// (north, east, down) frames anchored at a geographic origin.
//
// A spherical Earth of radius EarthRadius is assumed throughout. Angles in
// geographic coordinates are in degrees; angles in spherical coordinates are
// in radians. All distances are in kilometers.
package coords

import "math"

// EarthRadius is the mean Earth radius [km].
const EarthRadius = 6371.0

const deg2rad = math.Pi / 180

// Geographic is a position given as latitude [degrees north], longitude
// [degrees east], and depth below the reference sphere [km, positive down].
type Geographic struct {
	Lat, Lon, Depth float64
}

// Spherical is a position given as radius from the Earth's center [km],
// colatitude [radians from the north pole], and azimuth [radians east of
// the prime meridian].
type Spherical struct {
	R, Theta, Phi float64
}

// NED is a position in a local tangent-plane frame: kilometers north, east,
// and down relative to the frame origin.
type NED struct {
	N, E, D float64
}

// Spherical converts g to spherical coordinates.
func (g Geographic) Spherical() Spherical {
	return Spherical{
		R:     EarthRadius - g.Depth,
		Theta: math.Pi/2 - g.Lat*deg2rad,
		Phi:   g.Lon * deg2rad,
	}
}

// Geographic converts s to geographic coordinates.
func (s Spherical) Geographic() Geographic {
	return Geographic{
		Lat:   (math.Pi/2 - s.Theta) / deg2rad,
		Lon:   s.Phi / deg2rad,
		Depth: EarthRadius - s.R,
	}
}

// ToSpherical converts each element of pts to spherical coordinates.
func ToSpherical(pts []Geographic) []Spherical {
	out := make([]Spherical, len(pts))
	for i, p := range pts {
		out[i] = p.Spherical()
	}
	return out
}

// ToGeographic converts each element of pts to geographic coordinates.
func ToGeographic(pts []Spherical) []Geographic {
	out := make([]Geographic, len(pts))
	for i, p := range pts {
		out[i] = p.Geographic()
	}
	return out
}

// cartesian is an Earth-centered position [km]: the x axis points at the
// intersection of the equator and prime meridian, the z axis at the north
// pole.
type cartesian struct {
	x, y, z float64
}

func (g Geographic) cartesian() cartesian {
	r := EarthRadius - g.Depth
	lat := g.Lat * deg2rad
	lon := g.Lon * deg2rad
	return cartesian{
		x: r * math.Cos(lat) * math.Cos(lon),
		y: r * math.Cos(lat) * math.Sin(lon),
		z: r * math.Sin(lat),
	}
}

func (c cartesian) geographic() Geographic {
	r := math.Sqrt(c.x*c.x + c.y*c.y + c.z*c.z)
	return Geographic{
		Lat:   math.Asin(c.z/r) / deg2rad,
		Lon:   math.Atan2(c.y, c.x) / deg2rad,
		Depth: EarthRadius - r,
	}
}

// A Frame is a local north-east-down tangent-plane frame anchored at a
// geographic origin.
type Frame struct {
	origin  cartesian
	n, e, d cartesian // frame unit vectors in Earth-centered coordinates
}

// NewFrame returns a tangent-plane frame anchored at origin.
func NewFrame(origin Geographic) *Frame {
	lat := origin.Lat * deg2rad
	lon := origin.Lon * deg2rad
	sinLat, cosLat := math.Sincos(lat)
	sinLon, cosLon := math.Sincos(lon)
	return &Frame{
		origin: origin.cartesian(),
		n:      cartesian{-sinLat * cosLon, -sinLat * sinLon, cosLat},
		e:      cartesian{-sinLon, cosLon, 0},
		d:      cartesian{-cosLat * cosLon, -cosLat * sinLon, -sinLat},
	}
}

// Geographic converts the frame-local position p to geographic coordinates.
func (f *Frame) Geographic(p NED) Geographic {
	c := cartesian{
		x: f.origin.x + p.N*f.n.x + p.E*f.e.x + p.D*f.d.x,
		y: f.origin.y + p.N*f.n.y + p.E*f.e.y + p.D*f.d.y,
		z: f.origin.z + p.N*f.n.z + p.E*f.e.z + p.D*f.d.z,
	}
	return c.geographic()
}

// NED converts the geographic position g to frame-local coordinates.
func (f *Frame) NED(g Geographic) NED {
	c := g.cartesian()
	dx := c.x - f.origin.x
	dy := c.y - f.origin.y
	dz := c.z - f.origin.z
	return NED{
		N: dx*f.n.x + dy*f.n.y + dz*f.n.z,
		E: dx*f.e.x + dy*f.e.y + dz*f.e.z,
		D: dx*f.d.x + dy*f.d.y + dz*f.d.z,
	}
}
