package render

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"github.com/playpool/billiard/internal/geometry"
	"golang.org/x/image/vector"
)

type Options struct {
	Width   int
	Height  int
	Padding float64
	// Stroke widths in pixels.
	BoundaryWidth   float64
	TrajectoryWidth float64
}

func DefaultOptions() Options {
	return Options{
		Width:           800,
		Height:          800,
		Padding:         24,
		BoundaryWidth:   3,
		TrajectoryWidth: 1.2,
	}
}

var (
	background    = color.RGBA{0xff, 0xff, 0xff, 0xff}
	outerColor    = color.RGBA{0x20, 0x20, 0x20, 0xff}
	obstacleColor = color.RGBA{0x00, 0x8b, 0x8b, 0xff}
	pathColor     = color.NRGBA{0xd0, 0x30, 0x30, 0xc0}
	hitColor      = color.RGBA{0x30, 0x30, 0xd0, 0xff}
)

// Draw renders the table boundary and the polyline through path.
func Draw(table *geometry.Table, path []geometry.Vec2, opts Options) *image.RGBA {
	if opts.Width <= 0 || opts.Height <= 0 {
		def := DefaultOptions()
		opts.Width, opts.Height = def.Width, def.Height
	}
	dst := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)

	outlines := make([][]geometry.Vec2, 0, table.ComponentCount())
	for _, c := range table.Components() {
		outlines = append(outlines, Outline(c))
	}
	view := fit(outlines, opts)

	r := vector.NewRasterizer(opts.Width, opts.Height)
	for i, pts := range outlines {
		col := outerColor
		if i > 0 {
			col = obstacleColor
		}
		stroke(r, dst, view.project(pts), opts.BoundaryWidth, col)
	}

	if len(path) > 1 {
		stroke(r, dst, view.project(path), opts.TrajectoryWidth, pathColor)
	}
	for _, p := range view.project(path) {
		dot(r, dst, p, opts.TrajectoryWidth*1.5, hitColor)
	}
	return dst
}

func WritePNG(w io.Writer, table *geometry.Table, path []geometry.Vec2, opts Options) error {
	return png.Encode(w, Draw(table, path, opts))
}

// Outline samples a closed component: line endpoints as-is, arcs at roughly
// one point per 3 degrees of sweep.
func Outline(c *geometry.BoundaryComponent) []geometry.Vec2 {
	var pts []geometry.Vec2
	for _, seg := range c.Segments() {
		switch s := seg.(type) {
		case geometry.LineSegment:
			pts = append(pts, s.Start(), s.End())
		case geometry.CircularArcSegment:
			n := max(8, int(math.Ceil(s.Sweep()*60/math.Pi-1e-9)))
			for i := 0; i <= n; i++ {
				pts = append(pts, s.PointAt(s.Length()*float64(i)/float64(n)))
			}
		}
	}
	return pts
}

type viewport struct {
	minX, maxY float64
	scale      float64
	offX, offY float64
}

func fit(outlines [][]geometry.Vec2, opts Options) viewport {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, pts := range outlines {
		for _, p := range pts {
			minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
			minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
		}
	}
	if math.IsInf(minX, 1) {
		minX, minY, maxX, maxY = 0, 0, 1, 1
	}

	w := float64(opts.Width) - 2*opts.Padding
	h := float64(opts.Height) - 2*opts.Padding
	dx := math.Max(maxX-minX, 1e-9)
	dy := math.Max(maxY-minY, 1e-9)
	scale := math.Min(w/dx, h/dy)

	return viewport{
		minX:  minX,
		maxY:  maxY,
		scale: scale,
		offX:  opts.Padding + (w-dx*scale)/2,
		offY:  opts.Padding + (h-dy*scale)/2,
	}
}

// project maps world points to pixel space, flipping y.
func (v viewport) project(pts []geometry.Vec2) []geometry.Vec2 {
	out := make([]geometry.Vec2, len(pts))
	for i, p := range pts {
		out[i] = geometry.Vec2{
			X: v.offX + (p.X-v.minX)*v.scale,
			Y: v.offY + (v.maxY-p.Y)*v.scale,
		}
	}
	return out
}

// stroke fills one quad per polyline edge.
func stroke(r *vector.Rasterizer, dst draw.Image, pts []geometry.Vec2, width float64, col color.Color) {
	b := dst.Bounds()
	r.Reset(b.Dx(), b.Dy())
	r.DrawOp = draw.Over

	hw := width / 2
	for i := 1; i < len(pts); i++ {
		a, c := pts[i-1], pts[i]
		d, ok := c.Sub(a).TryNormalized()
		if !ok {
			continue
		}
		n := d.Perp().Scale(hw)
		moveTo(r, a.Add(n))
		lineTo(r, c.Add(n))
		lineTo(r, c.Sub(n))
		lineTo(r, a.Sub(n))
		r.ClosePath()
	}
	r.Draw(dst, b, image.NewUniform(col), image.Point{})
}

func dot(r *vector.Rasterizer, dst draw.Image, p geometry.Vec2, radius float64, col color.Color) {
	b := dst.Bounds()
	r.Reset(b.Dx(), b.Dy())
	r.DrawOp = draw.Over

	const n = 12
	for i := 0; i <= n; i++ {
		sin, cos := math.Sincos(2 * math.Pi * float64(i) / n)
		q := geometry.Vec2{X: p.X + radius*cos, Y: p.Y + radius*sin}
		if i == 0 {
			moveTo(r, q)
		} else {
			lineTo(r, q)
		}
	}
	r.ClosePath()
	r.Draw(dst, b, image.NewUniform(col), image.Point{})
}

func moveTo(r *vector.Rasterizer, p geometry.Vec2) { r.MoveTo(float32(p.X), float32(p.Y)) }
func lineTo(r *vector.Rasterizer, p geometry.Vec2) { r.LineTo(float32(p.X), float32(p.Y)) }
