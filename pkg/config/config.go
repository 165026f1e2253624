// Package config loads editor configuration from TOML or YAML files.
//
// Every field has a default, so a config file only needs the values it
// changes:
//
//	# ~/.config/pedigree/config.toml
//	[arrange]
//	mode = "layered"
//
//	[export]
//	pixel_ratio = 3
//	engine = "rsvg"
//
// The same file in YAML:
//
//	arrange:
//	  mode: layered
//	export:
//	  pixel_ratio: 3
//	  engine: rsvg
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	perrors "github.com/matzehuels/pedigree/pkg/errors"
	"github.com/matzehuels/pedigree/pkg/export"
	"github.com/matzehuels/pedigree/pkg/pedigree"
	"github.com/matzehuels/pedigree/pkg/pedigree/layout"
)

// Config is the complete editor configuration.
type Config struct {
	Geometry Geometry `toml:"geometry" yaml:"geometry"`
	Arrange  Arrange  `toml:"arrange" yaml:"arrange"`
	Export   Export   `toml:"export" yaml:"export"`
	Cache    Cache    `toml:"cache" yaml:"cache"`
	Server   Server   `toml:"server" yaml:"server"`
	Log      Log      `toml:"log" yaml:"log"`
}

// Geometry is the base node size.
type Geometry struct {
	NodeWidth  float64 `toml:"node_width" yaml:"node_width" validate:"gt=0,lte=500"`
	NodeHeight float64 `toml:"node_height" yaml:"node_height" validate:"gt=0,lte=500"`
}

// Arrange holds placement and auto-arrange spacing.
type Arrange struct {
	Mode         string  `toml:"mode" yaml:"mode" validate:"oneof=roots layered generations"`
	VerticalGap  float64 `toml:"vertical_gap" yaml:"vertical_gap" validate:"gte=0"`
	SiblingGap   float64 `toml:"sibling_gap" yaml:"sibling_gap" validate:"gte=0"`
	Jitter       float64 `toml:"jitter" yaml:"jitter" validate:"gte=0"`
	RowX         float64 `toml:"row_x" yaml:"row_x"`
	RowY         float64 `toml:"row_y" yaml:"row_y"`
	RowSpacing   float64 `toml:"row_spacing" yaml:"row_spacing" validate:"gt=0"`
	CanvasWidth  float64 `toml:"canvas_width" yaml:"canvas_width" validate:"gt=0"`
	CanvasHeight float64 `toml:"canvas_height" yaml:"canvas_height" validate:"gt=0"`
}

// Export holds artifact settings.
type Export struct {
	Background string  `toml:"background" yaml:"background" validate:"required,chartcolor"`
	Padding    float64 `toml:"padding" yaml:"padding" validate:"gte=0"`
	PixelRatio float64 `toml:"pixel_ratio" yaml:"pixel_ratio" validate:"gt=0,lte=8"`
	Quality    float64 `toml:"quality" yaml:"quality" validate:"gt=0,lte=1"`
	Dir        string  `toml:"dir" yaml:"dir"`

	// Engine selects the PNG renderer: "native" draws directly, "rsvg"
	// converts the SVG with rsvg-convert.
	Engine      string `toml:"engine" yaml:"engine" validate:"oneof=native rsvg"`
	EmbedFont   bool   `toml:"embed_font" yaml:"embed_font"`
	DOTDetailed bool   `toml:"dot_detailed" yaml:"dot_detailed"`
}

// Cache configures the artifact cache.
type Cache struct {
	Disabled bool     `toml:"disabled" yaml:"disabled"`
	Dir      string   `toml:"dir" yaml:"dir"`
	TTL      Duration `toml:"ttl" yaml:"ttl"`

	// Namespace prefixes every cache key, so that setups sharing one cache
	// directory never read each other's artifacts.
	Namespace string `toml:"namespace" yaml:"namespace" validate:"max=64"`
}

// Server configures `pedigree serve`.
type Server struct {
	Addr  string `toml:"addr" yaml:"addr" validate:"required,hostname_port"`
	Watch bool   `toml:"watch" yaml:"watch"`
}

// Log configures logging.
type Log struct {
	Level      string `toml:"level" yaml:"level" validate:"oneof=debug info warn error"`
	Timestamps bool   `toml:"timestamps" yaml:"timestamps"`
}

// Duration is a time.Duration written as a string such as "24h".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler for TOML and YAML.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the built-in configuration.
func Default() Config {
	eo := export.DefaultOptions()
	lo := layout.DefaultOptions()
	return Config{
		Geometry: Geometry{NodeWidth: pedigree.DefaultNodeWidth, NodeHeight: pedigree.DefaultNodeHeight},
		Arrange: Arrange{
			Mode:         layout.ModeRoots.String(),
			VerticalGap:  lo.VerticalGap,
			SiblingGap:   lo.SiblingGap,
			Jitter:       lo.Jitter,
			RowX:         lo.RowX,
			RowY:         lo.RowY,
			RowSpacing:   lo.RowSpacing,
			CanvasWidth:  layout.DefaultCanvasWidth,
			CanvasHeight: layout.DefaultCanvasHeight,
		},
		Export: Export{
			Background: eo.Background,
			Padding:    eo.PaddingOrDefault(),
			PixelRatio: eo.PixelRatio,
			Quality:    eo.Quality,
			Dir:        ".",
			Engine:     "native",
		},
		Cache:  Cache{TTL: Duration{24 * time.Hour}},
		Server: Server{Addr: "127.0.0.1:7070"},
		Log:    Log{Level: "info", Timestamps: true},
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("chartcolor", func(fl validator.FieldLevel) bool {
		return perrors.ValidateColor(fl.Field().String()) == nil
	})
	return v
}

// Validate checks every field.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var fields validator.ValidationErrors
		if errors.As(err, &fields) && len(fields) > 0 {
			fe := fields[0]
			return perrors.Wrap(perrors.ErrCodeInvalidInput, err, "config: %s fails %q", fe.Namespace(), fe.Tag())
		}
		return perrors.Wrap(perrors.ErrCodeInvalidInput, err, "config")
	}
	return nil
}

// Load reads path on top of the defaults. The format is chosen by
// extension: .toml, .yaml or .yml.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, perrors.Wrap(perrors.ErrCodeIO, err, "read config %s", path)
	}
	return Parse(data, filepath.Ext(path))
}

// Parse decodes data in the format named by ext on top of the defaults.
func Parse(data []byte, ext string) (Config, error) {
	c := Default()
	var err error
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "toml":
		_, err = toml.Decode(string(data), &c)
	case "yaml", "yml":
		err = yaml.Unmarshal(data, &c)
	default:
		return Config{}, perrors.New(perrors.ErrCodeInvalidInput, "unsupported config format %q (want .toml, .yaml or .yml)", ext)
	}
	if err != nil {
		return Config{}, perrors.Wrap(perrors.ErrCodeInvalidFormat, err, "parse config")
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// DefaultPath returns $XDG_CONFIG_HOME/pedigree/config.toml, falling back
// to ~/.config/pedigree/config.toml.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "pedigree", "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locate config: %w", err)
	}
	return filepath.Join(home, ".config", "pedigree", "config.toml"), nil
}

// LoadDefault loads the config at [DefaultPath]. A missing file yields the
// defaults.
func LoadDefault() (Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return Default(), nil
	}
	c, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return c, err
}

// LayoutOptions returns the placement options.
func (c Config) LayoutOptions() layout.Options {
	return layout.Options{
		Geometry:    c.PedigreeGeometry(),
		VerticalGap: c.Arrange.VerticalGap,
		SiblingGap:  c.Arrange.SiblingGap,
		Jitter:      c.Arrange.Jitter,
		RowX:        c.Arrange.RowX,
		RowY:        c.Arrange.RowY,
		RowSpacing:  c.Arrange.RowSpacing,
	}
}

// PedigreeGeometry returns the base node geometry.
func (c Config) PedigreeGeometry() pedigree.Geometry {
	return pedigree.Geometry{NodeWidth: c.Geometry.NodeWidth, NodeHeight: c.Geometry.NodeHeight}
}

// ArrangeMode returns the parsed default arrange mode.
func (c Config) ArrangeMode() layout.Mode {
	m, _ := layout.ParseMode(c.Arrange.Mode)
	return m
}

// Canvas returns the assumed canvas size.
func (c Config) Canvas() layout.Size {
	return layout.Size{Width: c.Arrange.CanvasWidth, Height: c.Arrange.CanvasHeight}
}

// ExportOptions returns descriptor options.
func (c Config) ExportOptions() export.Options {
	return export.Options{
		Background: c.Export.Background,
		Padding:    export.Pad(c.Export.Padding),
		PixelRatio: c.Export.PixelRatio,
		Quality:    c.Export.Quality,
	}
}
