package layout

import "github.com/matzehuels/pedigree/pkg/pedigree"

// Source yields uniform values in [0, 1). *rand.Rand satisfies it.
type Source interface {
	Float64() float64
}

// AdHoc returns the top-left position of a new node of kind k: centered on
// the middle of the visible canvas, offset on each axis by a value drawn
// uniformly from [-Jitter, Jitter]. A nil rnd disables jitter.
func AdHoc(v pedigree.Viewport, canvas Size, k pedigree.Kind, rnd Source, opts Options) pedigree.Point {
	if canvas.Width <= 0 || canvas.Height <= 0 {
		canvas = DefaultCanvas
	}
	c := v.ToDocument(pedigree.Point{X: canvas.Width / 2, Y: canvas.Height / 2})
	w, h := opts.Geometry.SizeFor(k)
	p := pedigree.Point{X: c.X - w/2, Y: c.Y - h/2}
	if rnd != nil && opts.Jitter > 0 {
		p.X += (rnd.Float64()*2 - 1) * opts.Jitter
		p.Y += (rnd.Float64()*2 - 1) * opts.Jitter
	}
	return p
}
