package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	perrors "github.com/matzehuels/pedigree/pkg/errors"
	"github.com/matzehuels/pedigree/pkg/export"
	"github.com/matzehuels/pedigree/pkg/pedigree/layout"
)

func TestDefault(t *testing.T) {
	c := Default()
	if err := c.Validate(); err != nil {
		t.Fatalf("Default().Validate() error: %v", err)
	}
	if c.LayoutOptions() != layout.DefaultOptions() {
		t.Errorf("LayoutOptions() = %+v, want defaults", c.LayoutOptions())
	}
	if c.Canvas() != layout.DefaultCanvas {
		t.Errorf("Canvas() = %+v", c.Canvas())
	}
	if c.ArrangeMode() != layout.ModeRoots {
		t.Errorf("ArrangeMode() = %v", c.ArrangeMode())
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		ext  string
		data string
	}{
		{"TOML", ".toml", `
[arrange]
mode = "layered"

[export]
pixel_ratio = 3
engine = "rsvg"

[cache]
ttl = "90m"
`},
		{"YAML", ".yaml", `
arrange:
  mode: layered
export:
  pixel_ratio: 3
  engine: rsvg
cache:
  ttl: 90m
`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Parse([]byte(tt.data), tt.ext)
			if err != nil {
				t.Fatalf("Parse() error: %v", err)
			}
			if c.ArrangeMode() != layout.ModeLayered {
				t.Errorf("mode = %q", c.Arrange.Mode)
			}
			if c.Export.PixelRatio != 3 || c.Export.Engine != "rsvg" {
				t.Errorf("export = %+v", c.Export)
			}
			if c.Cache.TTL.Duration != 90*time.Minute {
				t.Errorf("ttl = %v", c.Cache.TTL)
			}
			// Untouched values keep their defaults.
			if c.Arrange.SiblingGap != layout.DefaultSiblingGap || c.Export.Background != "#ffffff" {
				t.Errorf("defaults lost: %+v", c)
			}
		})
	}
}

func TestExportOptions_ZeroPadding(t *testing.T) {
	c, err := Parse([]byte("[export]\npadding = 0\n"), ".toml")
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if got := c.ExportOptions().PaddingOrDefault(); got != 0 {
		t.Errorf("padding = %v, want 0", got)
	}
	if got := Default().ExportOptions().PaddingOrDefault(); got != export.DefaultPadding {
		t.Errorf("default padding = %v, want %v", got, export.DefaultPadding)
	}
}

func TestParse_Rejects(t *testing.T) {
	tests := []struct {
		name string
		ext  string
		data string
		code perrors.Code
	}{
		{"Extension", ".ini", "", perrors.ErrCodeInvalidInput},
		{"Syntax", ".toml", "[export", perrors.ErrCodeInvalidFormat},
		{"Mode", ".yaml", "arrange:\n  mode: spiral\n", perrors.ErrCodeInvalidInput},
		{"Background", ".toml", "[export]\nbackground = \"white\"\n", perrors.ErrCodeInvalidInput},
		{"PixelRatio", ".toml", "[export]\npixel_ratio = 0\n", perrors.ErrCodeInvalidInput},
		{"Addr", ".yaml", "server:\n  addr: nowhere\n", perrors.ErrCodeInvalidInput},
		{"TTL", ".toml", "[cache]\nttl = \"soon\"\n", perrors.ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data), tt.ext)
			if got := perrors.GetCode(err); got != tt.code {
				t.Errorf("code = %q, want %q (%v)", got, tt.code, err)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pedigree.yml")
	if err := os.WriteFile(path, []byte("log:\n  level: debug\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if c.Log.Level != "debug" {
		t.Errorf("level = %q", c.Log.Level)
	}
}

func TestLoadDefault(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	c, err := LoadDefault()
	if err != nil {
		t.Fatalf("LoadDefault() without a file error: %v", err)
	}
	if c != Default() {
		t.Error("missing file did not yield defaults")
	}

	path, _ := DefaultPath()
	if path != filepath.Join(dir, "pedigree", "config.toml") {
		t.Errorf("DefaultPath() = %q", path)
	}
	_ = os.MkdirAll(filepath.Dir(path), 0o755)
	_ = os.WriteFile(path, []byte("[geometry]\nnode_width = 60\nnode_height = 60\n"), 0o644)
	c, err = LoadDefault()
	if err != nil {
		t.Fatal(err)
	}
	if w, h := c.PedigreeGeometry().SizeFor(0); w != 48 || h != 48 {
		t.Errorf("unknown size = %vx%v, want 48x48", w, h)
	}
}

func TestLoad_Example(t *testing.T) {
	c, err := Load(filepath.Join("..", "..", "examples", "config.toml"))
	if err != nil {
		t.Fatalf("Load(examples/config.toml): %v", err)
	}
	if c.ArrangeMode() != layout.ModeLayered || c.Export.Dir != "charts" || !c.Server.Watch {
		t.Errorf("example config = %+v", c)
	}
	if c.Cache.TTL.Duration != 24*time.Hour {
		t.Errorf("ttl = %v, want 24h", c.Cache.TTL.Duration)
	}
}
