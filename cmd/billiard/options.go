package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "BILLIARD"

type options struct {
	Demo      string
	TableFile string
	Steps     int
	Epsilon   float64
	PNG       string
	List      bool
	NoColor   bool

	// Overrides of the demo's initial state; nil keeps the demo default.
	Component *int
	S         *float64
	Theta     *float64
}

// loadOptions resolves flags, then BILLIARD_* environment variables, then an
// optional --config yaml file, then defaults.
func loadOptions(args []string, stderr io.Writer) (options, error) {
	fs := pflag.NewFlagSet("billiard", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.String("config", "", "yaml file with default option values")
	fs.String("demo", "sinai", "built-in demo table")
	fs.String("table", "", "table file (.yaml, .yml or .json); overrides --demo geometry")
	fs.Int("steps", 50, "maximum number of collisions")
	fs.Float64("epsilon", 1e-8, "self-intersection threshold")
	fs.String("png", "", "write a rendering of the trajectory to this file")
	fs.Bool("list", false, "list built-in demos and exit")
	fs.Bool("no-color", false, "disable ANSI colours")
	fs.Int("component", 0, "initial component index")
	fs.Float64("s", 0, "initial arc-length")
	fs.Float64("theta", 0, "initial angle from the tangent, radians")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(fs); err != nil {
		return options{}, err
	}
	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return options{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	opts := options{
		Demo:      v.GetString("demo"),
		TableFile: v.GetString("table"),
		Steps:     v.GetInt("steps"),
		Epsilon:   v.GetFloat64("epsilon"),
		PNG:       v.GetString("png"),
		List:      v.GetBool("list"),
		NoColor:   v.GetBool("no-color"),
	}
	explicit := func(key string) bool {
		_, env := os.LookupEnv(envPrefix + "_" + strings.ToUpper(key))
		return fs.Changed(key) || v.InConfig(key) || env
	}
	if explicit("component") {
		c := v.GetInt("component")
		opts.Component = &c
	}
	if explicit("s") {
		s := v.GetFloat64("s")
		opts.S = &s
	}
	if explicit("theta") {
		th := v.GetFloat64("theta")
		opts.Theta = &th
	}
	return opts, nil
}
