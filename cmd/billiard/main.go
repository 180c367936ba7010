// Command billiard runs a trajectory on a built-in or file-defined table and
// prints one row per collision.
package main

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/playpool/billiard/internal/dynamics"
	"github.com/playpool/billiard/internal/geometry"
	"github.com/playpool/billiard/internal/render"
	"github.com/playpool/billiard/internal/tables"
	"github.com/spf13/pflag"
)

const (
	colorOuter    = "\x1b[97m"
	colorObstacle = "\x1b[96m"
	colorReset    = "\x1b[0m"
)

func main() {
	color := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	if err := run(os.Args[1:], os.Stdout, os.Stderr, color); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, "billiard:", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer, color bool) error {
	opts, err := loadOptions(args, stderr)
	if err != nil {
		return err
	}
	if opts.NoColor {
		color = false
	}

	if opts.List {
		for _, d := range tables.Demos() {
			fmt.Fprintf(stdout, "%-10s %s\n", d.Name, d.Description)
		}
		return nil
	}

	demo, ok := tables.LookupDemo(opts.Demo)
	if !ok {
		return fmt.Errorf("unknown demo %q (have %s)", opts.Demo, strings.Join(tables.DemoNames(), ", "))
	}
	spec := demo.Spec
	if opts.TableFile != "" {
		if spec, err = tables.LoadFile(opts.TableFile); err != nil {
			return err
		}
	}
	if opts.Steps <= 0 {
		return errors.New("--steps must be greater than 0")
	}
	if math.IsNaN(opts.Epsilon) || math.IsInf(opts.Epsilon, 0) || opts.Epsilon <= 0 {
		return errors.New("--epsilon must be a finite positive number")
	}

	table, err := spec.Build()
	if err != nil {
		return fmt.Errorf("build table: %w", err)
	}

	initial := dynamics.BoundaryState{ComponentIndex: demo.ComponentIndex, S: demo.S, Theta: demo.Theta}
	if opts.Component != nil {
		initial.ComponentIndex = *opts.Component
	}
	if opts.S != nil {
		initial.S = *opts.S
	}
	if opts.Theta != nil {
		initial.Theta = *opts.Theta
	}

	traj, err := dynamics.Run(table, initial, opts.Steps, opts.Epsilon)
	if err != nil {
		return err
	}
	printTrajectory(stdout, traj, color)

	if opts.PNG != "" {
		if err := writePNG(opts.PNG, table, initial, traj); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "wrote %s\n", opts.PNG)
	}
	return nil
}

func printTrajectory(w io.Writer, traj dynamics.Trajectory, color bool) {
	fmt.Fprintf(w, "%-6s %-6s %-8s %10s %12s %12s %12s\n", "step", "comp", "seg", "s", "theta", "x", "y")
	for step, c := range traj.Collisions {
		pre, post := "", ""
		if color {
			pre, post = colorOuter, colorReset
			if c.ComponentIndex != 0 {
				pre = colorObstacle
			}
		}
		fmt.Fprintf(w, "%s%-6d %-6d %-8d %10.6f %12.6f %12.6f %12.6f%s\n",
			pre, step, c.ComponentIndex, c.SegmentIndex, c.S, c.Theta, c.HitPoint.X, c.HitPoint.Y, post)
	}
	fmt.Fprintf(w, "%d collisions, termination: %s\n", len(traj.Collisions), traj.Termination)
}

func writePNG(path string, table *geometry.Table, initial dynamics.BoundaryState, traj dynamics.Trajectory) error {
	points := make([]geometry.Vec2, 0, len(traj.Collisions)+1)
	if ws, err := initial.ToWorld(table); err == nil {
		points = append(points, ws.Position)
	}
	for _, c := range traj.Collisions {
		points = append(points, c.HitPoint)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := render.WritePNG(f, table, points, render.DefaultOptions()); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
