package pedigree

import (
	"fmt"
	"strings"
)

// Kind is the variant of an individual. It determines the drawn symbol and
// the default size of the node.
type Kind int

const (
	// KindUnknown is an individual of unknown sex, drawn as a diamond at
	// [UnknownScale] of the base size.
	KindUnknown Kind = iota
	// KindMale is drawn as a square.
	KindMale
	// KindFemale is drawn as a circle.
	KindFemale
)

var kindNames = map[Kind]string{
	KindUnknown: "unknown",
	KindMale:    "male",
	KindFemale:  "female",
}

// String returns the persisted lowercase name ("male", "female", "unknown").
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Valid reports whether k is one of the declared kinds.
func (k Kind) Valid() bool {
	_, ok := kindNames[k]
	return ok
}

// DefaultLabel returns the capitalized kind name used as the label of a
// newly created individual.
func (k Kind) DefaultLabel() string {
	switch k {
	case KindMale:
		return "Male"
	case KindFemale:
		return "Female"
	default:
		return "Unknown"
	}
}

// ParseKind parses a kind name case-insensitively.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if strings.EqualFold(s, name) {
			return k, nil
		}
	}
	return KindUnknown, fmt.Errorf("%w: %q", ErrInvalidKind, s)
}

// ChildLabel is the placeholder label given to a child created between two
// parents.
const ChildLabel = "Child"

// IsPlaceholderLabel reports whether label is one of the labels the editor
// assigns on its own. Retyping re-derives such labels from the new kind and
// keeps anything else the user typed.
func IsPlaceholderLabel(label string) bool {
	switch label {
	case "Male", "Female", "Unknown", ChildLabel:
		return true
	}
	return false
}

// Handle is one of the four fixed attachment points on a node.
type Handle string

const (
	HandleTop    Handle = "t"
	HandleBottom Handle = "b"
	HandleLeft   Handle = "l"
	HandleRight  Handle = "r"
)

// Valid reports whether h is one of t, b, l, r.
func (h Handle) Valid() bool {
	switch h {
	case HandleTop, HandleBottom, HandleLeft, HandleRight:
		return true
	}
	return false
}

// ParseHandle accepts both the short form ("b") and the long form ("bottom").
func ParseHandle(s string) (Handle, error) {
	switch strings.ToLower(s) {
	case "t", "top":
		return HandleTop, nil
	case "b", "bottom":
		return HandleBottom, nil
	case "l", "left":
		return HandleLeft, nil
	case "r", "right":
		return HandleRight, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidHandle, s)
}

// EdgeStyle is the single tagged variant describing how a relationship is
// drawn. Consanguineous is its own variant rather than a flag on the other
// two, so a dashed consanguineous edge cannot be represented.
type EdgeStyle int

const (
	// StyleStandard is a solid line.
	StyleStandard EdgeStyle = iota
	// StyleUncertain is a dashed line.
	StyleUncertain
	// StyleConsanguineous is a double line, a union between blood relatives.
	StyleConsanguineous
)

var styleNames = map[EdgeStyle]string{
	StyleStandard:       "standard",
	StyleUncertain:      "uncertain",
	StyleConsanguineous: "consanguineous",
}

func (s EdgeStyle) String() string {
	if n, ok := styleNames[s]; ok {
		return n
	}
	return fmt.Sprintf("style(%d)", int(s))
}

// Valid reports whether s is one of the declared styles.
func (s EdgeStyle) Valid() bool {
	_, ok := styleNames[s]
	return ok
}

// ParseEdgeStyle parses a style name case-insensitively. "solid" and
// "dashed" are accepted as aliases.
func ParseEdgeStyle(s string) (EdgeStyle, error) {
	switch strings.ToLower(s) {
	case "standard", "solid":
		return StyleStandard, nil
	case "uncertain", "dashed":
		return StyleUncertain, nil
	case "consanguineous", "double":
		return StyleConsanguineous, nil
	}
	return StyleStandard, fmt.Errorf("%w: %q", ErrInvalidStyle, s)
}

// UncertainDash is the dash pattern of an uncertain relationship.
const UncertainDash = "5,5"

// Default stroke attributes of new relationships.
const (
	DefaultStrokeWidth = 2.0
	DefaultStroke      = "#333333"
)

// Flag names one of the independent status booleans of an individual.
type Flag int

const (
	FlagAffected Flag = iota
	FlagCarrier
	FlagDeceased
	FlagProband
)

var flagNames = map[Flag]string{
	FlagAffected: "isAffected",
	FlagCarrier:  "isCarrier",
	FlagDeceased: "isDeceased",
	FlagProband:  "isProband",
}

// String returns the persisted field name, e.g. "isProband".
func (f Flag) String() string {
	if n, ok := flagNames[f]; ok {
		return n
	}
	return fmt.Sprintf("flag(%d)", int(f))
}

// ParseFlag accepts the persisted field name ("isCarrier") or the bare word
// ("carrier"), case-insensitively.
func ParseFlag(s string) (Flag, error) {
	word := strings.TrimPrefix(strings.ToLower(s), "is")
	for f, n := range flagNames {
		if word == strings.TrimPrefix(strings.ToLower(n), "is") {
			return f, nil
		}
	}
	return FlagAffected, fmt.Errorf("%w: %q", ErrInvalidFlag, s)
}

// Status holds the clinical status flags of an individual. All default to false.
type Status struct {
	Affected bool
	Carrier  bool
	Deceased bool
	Proband  bool
}

// Get returns the value of flag f.
func (s Status) Get(f Flag) bool {
	switch f {
	case FlagAffected:
		return s.Affected
	case FlagCarrier:
		return s.Carrier
	case FlagDeceased:
		return s.Deceased
	case FlagProband:
		return s.Proband
	}
	return false
}

// Set assigns flag f. Unknown flags are ignored.
func (s *Status) Set(f Flag, v bool) {
	switch f {
	case FlagAffected:
		s.Affected = v
	case FlagCarrier:
		s.Carrier = v
	case FlagDeceased:
		s.Deceased = v
	case FlagProband:
		s.Proband = v
	}
}

// Point is a coordinate in document space.
type Point struct {
	X, Y float64
}

// Individual is a node representing one person in the family tree.
// Position is the top-left corner of the node's bounding box.
type Individual struct {
	ID       string
	Kind     Kind
	Position Point
	Width    float64
	Height   float64
	Label    string
	Status   Status

	// Selected is transient UI state. It is part of the live document but
	// never persisted.
	Selected bool
}

// Bounds returns the node's bounding box.
func (n Individual) Bounds() Rect {
	return Rect{X: n.Position.X, Y: n.Position.Y, Width: n.Width, Height: n.Height}
}

// Center returns the center of the node's bounding box.
func (n Individual) Center() Point {
	return Point{X: n.Position.X + n.Width/2, Y: n.Position.Y + n.Height/2}
}

// Relationship is an edge between two individuals: a partnership or a
// parent-child link.
type Relationship struct {
	ID           string
	Source       string
	SourceHandle Handle
	Target       string
	TargetHandle Handle
	Style        EdgeStyle
	StrokeWidth  float64
	Stroke       string

	// Selected is transient UI state, never persisted.
	Selected bool
}

// DashArray returns the dash pattern implied by the style, or "" for solid
// and double lines.
func (r Relationship) DashArray() string {
	if r.Style == StyleUncertain {
		return UncertainDash
	}
	return ""
}

// Viewport is the pan/zoom state of the canvas.
type Viewport struct {
	X, Y float64
	Zoom float64
}

// DefaultViewport is the viewport of a fresh document.
var DefaultViewport = Viewport{Zoom: 1}

// ToDocument converts a screen coordinate of the canvas into document space.
func (v Viewport) ToDocument(p Point) Point {
	zoom := v.Zoom
	if zoom <= 0 {
		zoom = 1
	}
	return Point{X: (p.X - v.X) / zoom, Y: (p.Y - v.Y) / zoom}
}
