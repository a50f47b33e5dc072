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

// Package velgridutil holds the command-line interface to the velgrid
// velocity-model library.
package velgridutil

import (
	"fmt"
	"os"
	"strings"

	"github.com/GaryBoone/GoStats/stats"
	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/seismodel/velgrid"
	"github.com/seismodel/velgrid/coords"
	"github.com/seismodel/velgrid/schema"
)

var log = logrus.StandardLogger()

// Cfg holds configuration information.
var Cfg *viper.Viper

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	// Options are the configuration options available to velgrid.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name:       "config",
			usage:      "config specifies the configuration file location.",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name:       "in",
			usage:      "in specifies the input model file.",
			shorthand:  "i",
			defaultVal: "",
			flagsets: []*pflag.FlagSet{convertCmd.Flags(), regridCmd.Flags(),
				sliceCmd.Flags(), describeCmd.Flags()},
		},
		{
			name: "format",
			usage: `format specifies the input model format
              (FANG, UCVM, or NCF).`,
			shorthand:  "f",
			defaultVal: "NCF",
			flagsets: []*pflag.FlagSet{convertCmd.Flags(), regridCmd.Flags(),
				sliceCmd.Flags(), describeCmd.Flags()},
		},
		{
			name:       "out",
			usage:      "out specifies the output file.",
			shorthand:  "o",
			defaultVal: "",
			flagsets: []*pflag.FlagSet{convertCmd.Flags(), regridCmd.Flags(),
				sliceCmd.Flags()},
		},
		{
			name: "table",
			usage: `table directs convert to write the flat tabular text
              representation instead of the native NCF bundle.`,
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{convertCmd.Flags()},
		},
		{
			name:       "nr",
			usage:      "nr is the radial node count of the resampled grid.",
			defaultVal: 25,
			flagsets:   []*pflag.FlagSet{regridCmd.Flags()},
		},
		{
			name:       "ntheta",
			usage:      "ntheta is the colatitude node count of the resampled grid.",
			defaultVal: 25,
			flagsets:   []*pflag.FlagSet{regridCmd.Flags()},
		},
		{
			name:       "nphi",
			usage:      "nphi is the azimuth node count of the resampled grid.",
			defaultVal: 25,
			flagsets:   []*pflag.FlagSet{regridCmd.Flags()},
		},
		{
			name:       "phase",
			usage:      "phase is the seismic phase to query (P, VP, S, or VS).",
			shorthand:  "p",
			defaultVal: "P",
			flagsets:   []*pflag.FlagSet{sliceCmd.Flags(), describeCmd.Flags()},
		},
		{
			name: "origin",
			usage: `origin is the slice origin as comma-separated
              latitude,longitude,depth.`,
			defaultVal: "33.5,-116.5,0",
			flagsets:   []*pflag.FlagSet{sliceCmd.Flags()},
		},
		{
			name:       "strike",
			usage:      "strike is the slice orientation in degrees clockwise from north.",
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{sliceCmd.Flags()},
		},
		{
			name:       "length",
			usage:      "length is the horizontal half-length of the slice in km.",
			defaultVal: 50.0,
			flagsets:   []*pflag.FlagSet{sliceCmd.Flags()},
		},
		{
			name:       "zmin",
			usage:      "zmin is the top of the slice in km.",
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{sliceCmd.Flags()},
		},
		{
			name:       "zmax",
			usage:      "zmax is the bottom of the slice in km.",
			defaultVal: 25.0,
			flagsets:   []*pflag.FlagSet{sliceCmd.Flags()},
		},
		{
			name:       "nx",
			usage:      "nx is the horizontal sample count of the slice.",
			defaultVal: 25,
			flagsets:   []*pflag.FlagSet{sliceCmd.Flags()},
		},
		{
			name:       "nz",
			usage:      "nz is the vertical sample count of the slice.",
			defaultVal: 25,
			flagsets:   []*pflag.FlagSet{sliceCmd.Flags()},
		},
	}

	Cfg = viper.New()
	for _, option := range options {
		for _, set := range option.flagsets {
			switch v := option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, v, option.usage)
				} else {
					set.StringP(option.name, option.shorthand, v, option.usage)
				}
			case float64:
				set.Float64(option.name, v, option.usage)
			case int:
				set.Int(option.name, v, option.usage)
			case bool:
				set.Bool(option.name, v, option.usage)
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(convertCmd)
	Root.AddCommand(regridCmd)
	Root.AddCommand(sliceCmd)
	Root.AddCommand(describeCmd)
	Root.AddCommand(schemaCmd)
}

// setConfig finds and reads in the configuration file, if there is one.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("velgrid: problem reading configuration file: %v", err)
		}
	}
	return nil
}

// openModel reads the input model named by the "in" and "format" options.
func openModel() (*velgrid.Model, error) {
	path := Cfg.GetString("in")
	if path == "" {
		return nil, fmt.Errorf("velgrid: no input model specified; use --in")
	}
	format := Cfg.GetString("format")
	log.Infof("reading %s model from %s", strings.ToUpper(format), path)
	return velgrid.Open(path, format, nil)
}

// parseOrigin parses a comma-separated latitude,longitude,depth triple.
func parseOrigin(s string) (coords.Geographic, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return coords.Geographic{}, fmt.Errorf("velgrid: origin must be lat,lon,depth; got %q", s)
	}
	vals := make([]float64, 3)
	for i, p := range parts {
		v, err := cast.ToFloat64E(strings.TrimSpace(p))
		if err != nil {
			return coords.Geographic{}, fmt.Errorf("velgrid: parsing origin %q: %v", s, err)
		}
		vals[i] = v
	}
	return coords.Geographic{Lat: vals[0], Lon: vals[1], Depth: vals[2]}, nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "velgrid",
	Short: "A queryable container for gridded seismic velocity models.",
	Long: `velgrid reads seismic velocity models sampled on 3D spatial grids and
answers point queries, resampling requests, and vertical slice extraction
against them. Use the subcommands specified below to access the model
functionality.

Configuration can be changed by using a configuration file (and providing
the path to the file using the --config flag) or by using command-line
arguments.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		// Options shared between commands are registered on one flagset
		// per command, but viper keeps only the most recent binding per
		// key. Rebind the invoking command's flag instances so its
		// parsed values are the ones read back.
		cmd.Flags().VisitAll(func(f *pflag.Flag) {
			Cfg.BindPFlag(f.Name, f)
		})
		return setConfig()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("velgrid v%s\n", velgrid.Version)
	},
	DisableAutoGenTag: true,
}

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert a velocity model between formats.",
	Long: `convert reads a velocity model in any supported input format and writes
it either as the native NCF bundle or, with --table, as the flat tabular
text representation sorted by geographic coordinate.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := openModel()
		if err != nil {
			return err
		}
		out := Cfg.GetString("out")
		if out == "" {
			return fmt.Errorf("velgrid: no output file specified; use --out")
		}
		f, err := os.Create(out)
		if err != nil {
			return err
		}
		defer f.Close()
		if Cfg.GetBool("table") {
			log.Infof("writing tabular model to %s", out)
			return m.Table().Write(f)
		}
		log.Infof("writing NCF model to %s", out)
		return m.Save(f)
	},
	DisableAutoGenTag: true,
}

var regridCmd = &cobra.Command{
	Use:   "regrid",
	Short: "Resample a velocity model onto a uniform grid.",
	Long: `regrid resamples a velocity model onto a uniform lattice spanning the
model's current bounds, with the requested per-axis node counts, and writes
the result as the native NCF bundle.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := openModel()
		if err != nil {
			return err
		}
		nr, ntheta, nphi := Cfg.GetInt("nr"), Cfg.GetInt("ntheta"), Cfg.GetInt("nphi")
		log.Infof("resampling onto a %d × %d × %d grid", nr, ntheta, nphi)
		if err := m.Regularize(nr, ntheta, nphi); err != nil {
			return err
		}
		out := Cfg.GetString("out")
		if out == "" {
			return fmt.Errorf("velgrid: no output file specified; use --out")
		}
		f, err := os.Create(out)
		if err != nil {
			return err
		}
		defer f.Close()
		return m.Save(f)
	},
	DisableAutoGenTag: true,
}

var sliceCmd = &cobra.Command{
	Use:   "slice",
	Short: "Extract a vertical slice from a velocity model.",
	Long: `slice extracts a vertical cross-section through the model along the
requested strike and writes one row per sample point with its local-plane
coordinates, geographic coordinates, and velocity.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := openModel()
		if err != nil {
			return err
		}
		origin, err := parseOrigin(Cfg.GetString("origin"))
		if err != nil {
			return err
		}
		sl, err := m.ExtractSlice(Cfg.GetString("phase"), velgrid.SliceSpec{
			Origin: origin,
			Strike: Cfg.GetFloat64("strike"),
			Length: Cfg.GetFloat64("length"),
			ZMin:   Cfg.GetFloat64("zmin"),
			ZMax:   Cfg.GetFloat64("zmax"),
			NX:     Cfg.GetInt("nx"),
			NZ:     Cfg.GetInt("nz"),
		})
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		if out := Cfg.GetString("out"); out != "" {
			f, err := os.Create(out)
			if err != nil {
				return err
			}
			defer f.Close()
			w = f
		}
		fmt.Fprintln(w, "north east down lat lon depth V")
		for q, v := range sl.Values.Elements {
			fmt.Fprintf(w, "%g %g %g %g %g %g %g\n",
				sl.Local.Elements[3*q], sl.Local.Elements[3*q+1], sl.Local.Elements[3*q+2],
				sl.Geo.Elements[3*q], sl.Geo.Elements[3*q+1], sl.Geo.Elements[3*q+2], v)
		}
		return nil
	},
	DisableAutoGenTag: true,
}

var describeCmd = &cobra.Command{
	Use:   "describe",
	Short: "Summarize a velocity model.",
	Long: `describe prints the grid descriptor and summary statistics of the
requested phase's velocity field.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := openModel()
		if err != nil {
			return err
		}
		field, err := m.Field(Cfg.GetString("phase"))
		if err != nil {
			return err
		}
		g := m.Grid()
		cmd.Printf("grid: %d × %d × %d nodes\n", g.NR, g.NTheta, g.NPhi)
		cmd.Printf("radius [km]:       %g to %g, spacing %g\n", g.RMin, g.RMax, g.DR)
		cmd.Printf("colatitude [rad]:  %g to %g, spacing %g\n", g.ThetaMin, g.ThetaMax, g.DTheta)
		cmd.Printf("azimuth [rad]:     %g to %g, spacing %g\n", g.PhiMin, g.PhiMax, g.DPhi)
		cmd.Printf("bounds [deg]:      %+v\n", m.Bounds())
		cmd.Printf("velocity [km/s]:   min %g, max %g, mean %g, stddev %g\n",
			stats.StatsMin(field.Elements), stats.StatsMax(field.Elements),
			stats.StatsMean(field.Elements), stats.StatsSampleStandardDeviation(field.Elements))
		return nil
	},
	DisableAutoGenTag: true,
}

var schemaCmd = &cobra.Command{
	Use:   "schema [name]",
	Short: "Print the documentation for a packaged data schema.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := "velgrid"
		if len(args) > 0 {
			name = args[0]
		}
		doc, err := schema.Document(name)
		if err != nil {
			return err
		}
		cmd.Print(doc)
		return nil
	},
	DisableAutoGenTag: true,
}
