package render

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
)

// RSVGConvert is the name of the librsvg command line converter.
const RSVGConvert = "rsvg-convert"

// HasRSVG reports whether rsvg-convert is on PATH.
func HasRSVG() bool {
	_, err := exec.LookPath(RSVGConvert)
	return err == nil
}

// ToPNG converts an SVG document to PNG at the given scale.
// A scale of 2.0 produces a 2x resolution image suitable for high-DPI displays.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func ToPNG(ctx context.Context, svg []byte, scale float64) ([]byte, error) {
	if scale <= 0 {
		scale = 1
	}
	return convert(ctx, svg, "-f", "png", "-z", strconv.FormatFloat(scale, 'f', -1, 64))
}

func convert(ctx context.Context, svg []byte, args ...string) ([]byte, error) {
	path, err := exec.LookPath(RSVGConvert)
	if err != nil {
		return nil, fmt.Errorf("%s not found (install librsvg): %w", RSVGConvert, err)
	}

	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Stdin = bytes.NewReader(svg)
	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := bytes.TrimSpace(stderr.Bytes()); len(msg) > 0 {
			return nil, fmt.Errorf("%s: %w: %s", RSVGConvert, err, msg)
		}
		return nil, fmt.Errorf("%s: %w", RSVGConvert, err)
	}
	return out.Bytes(), nil
}
