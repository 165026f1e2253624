package export

import (
	"fmt"
	"strings"
	"time"

	perrors "github.com/matzehuels/pedigree/pkg/errors"
	"github.com/matzehuels/pedigree/pkg/pedigree"
	"github.com/matzehuels/pedigree/pkg/render"
)

// Format selects the artifact type.
type Format string

const (
	FormatPNG  Format = "png"
	FormatSVG  Format = "svg"
	FormatJSON Format = "json"
	FormatDOT  Format = "dot"
)

// Formats lists every supported format.
var Formats = []Format{FormatPNG, FormatSVG, FormatJSON, FormatDOT}

// ParseFormat accepts a format name or file extension, case-insensitively.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "."))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", perrors.New(perrors.ErrCodeInvalidInput, "unknown export format %q (want png, svg, json or dot)", s)
}

// Raster reports whether f is a pixel format.
func (f Format) Raster() bool { return f == FormatPNG }

// Visual reports whether f draws the chart, as opposed to dumping data.
func (f Format) Visual() bool { return f != FormatJSON }

// ContentType returns the MIME type of artifacts in format f.
func (f Format) ContentType() string {
	switch f {
	case FormatPNG:
		return "image/png"
	case FormatSVG:
		return "image/svg+xml"
	case FormatJSON:
		return "application/json"
	case FormatDOT:
		return "text/vnd.graphviz"
	}
	return "application/octet-stream"
}

// Export defaults.
const (
	DefaultBackground = "#ffffff"
	DefaultPadding    = 20.0
	DefaultPixelRatio = 2.0
	DefaultQuality    = 1.0

	// FilenamePrefix starts every generated artifact name.
	FilenamePrefix = "pedigree-chart-"
)

// Options controls how descriptors are built.
type Options struct {
	Background string
	PixelRatio float64
	Quality    float64

	// Padding is the margin around the chart bounds. Nil means
	// DefaultPadding; use [Pad] for an explicit value, including 0.
	Padding *float64

	// Now returns the timestamp used in filenames. Nil means time.Now.
	Now func() time.Time
}

// DefaultOptions returns white background, 20 unit padding and 2x pixels.
func DefaultOptions() Options {
	return Options{
		Background: DefaultBackground,
		Padding:    Pad(DefaultPadding),
		PixelRatio: DefaultPixelRatio,
		Quality:    DefaultQuality,
	}
}

// Pad returns a padding value for [Options].
func Pad(v float64) *float64 { return &v }

// PaddingOrDefault returns the padding in effect, never negative.
func (o Options) PaddingOrDefault() float64 {
	if o.Padding == nil {
		return DefaultPadding
	}
	return max(*o.Padding, 0)
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Background == "" {
		o.Background = d.Background
	}
	o.Padding = Pad(o.PaddingOrDefault())
	if o.PixelRatio <= 0 {
		o.PixelRatio = d.PixelRatio
	}
	if o.Quality <= 0 || o.Quality > 1 {
		o.Quality = d.Quality
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// Descriptor is the logical capture region handed to a renderer: what part
// of document space to draw, on what background, at what resolution, and
// under what name the artifact will be saved.
type Descriptor struct {
	Region     pedigree.Rect `json:"region"`
	Background string        `json:"background"`
	Format     Format        `json:"format"`
	PixelRatio float64       `json:"pixelRatio"`
	Quality    float64       `json:"quality"`
	Filename   string        `json:"filename"`
}

// PixelSize returns the output size in device pixels for raster formats and
// in document units otherwise.
func (d Descriptor) PixelSize() (w, h int) {
	scale := 1.0
	if d.Format.Raster() {
		scale = d.PixelRatio
	}
	return ceil(d.Region.Width * scale), ceil(d.Region.Height * scale)
}

func ceil(v float64) int {
	n := int(v)
	if float64(n) < v {
		n++
	}
	if n < 1 {
		n = 1
	}
	return n
}

// Describe computes the descriptor for exporting doc as format f. The
// region is the tight box around every drawn element grown by the padding.
// Visual formats reject an empty document.
func Describe(doc pedigree.Document, f Format, opts Options) (Descriptor, error) {
	opts = opts.withDefaults()
	d := Descriptor{
		Background: opts.Background,
		Format:     f,
		PixelRatio: opts.PixelRatio,
		Quality:    opts.Quality,
		Filename:   Filename(f, opts.Now()),
	}
	bounds, ok := render.Bounds(doc)
	if !ok {
		if f.Visual() {
			return Descriptor{}, perrors.New(perrors.ErrCodeInvalidInput, "nothing to export")
		}
		return d, nil
	}
	d.Region = bounds.Inset(*opts.Padding)
	return d, nil
}

// FilenameLayout is the timestamp layout used in artifact names before
// colons are replaced.
const FilenameLayout = "2006-01-02T15:04:05.000Z"

// Filename returns the artifact name for format f at time t, e.g.
// "pedigree-chart-2024-03-09T14-05-00.123Z.png". The timestamp is UTC with
// colons replaced so the name is safe on every filesystem.
func Filename(f Format, t time.Time) string {
	stamp := strings.ReplaceAll(t.UTC().Format(FilenameLayout), ":", "-")
	return fmt.Sprintf("%s%s.%s", FilenamePrefix, stamp, f)
}
