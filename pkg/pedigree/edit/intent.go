package edit

import (
	"encoding/json"

	perrors "github.com/matzehuels/pedigree/pkg/errors"
	"github.com/matzehuels/pedigree/pkg/pedigree"
	"github.com/matzehuels/pedigree/pkg/pedigree/layout"
)

// Intent operation names accepted by [Editor.Dispatch].
const (
	OpNew              = "new"
	OpAdd              = "add"
	OpMove             = "move"
	OpLabel            = "label"
	OpFlag             = "flag"
	OpRetype           = "retype"
	OpConnect          = "connect"
	OpDisconnect       = "disconnect"
	OpRestyle          = "restyle"
	OpChild            = "child"
	OpChildOfSelection = "child-of-selection"
	OpSelect           = "select"
	OpDeselect         = "deselect"
	OpClearSelection   = "clear-selection"
	OpSelectOnly       = "select-only"
	OpDelete           = "delete"
	OpViewport         = "viewport"
	OpCanvas           = "canvas"
	OpArrange          = "arrange"
)

// XY is a coordinate on the wire.
type XY struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ViewportXY is a viewport on the wire.
type ViewportXY struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Zoom float64 `json:"zoom"`
}

// Intent is one user intent sent by a rendering layer. Only the fields used
// by Op are read.
type Intent struct {
	Op string `json:"op"`

	ID  string   `json:"id,omitempty"`
	IDs []string `json:"ids,omitempty"`

	Kind     string `json:"kind,omitempty"`
	Position *XY    `json:"position,omitempty"`
	Label    string `json:"label,omitempty"`
	Flag     string `json:"flag,omitempty"`
	Value    bool   `json:"value,omitempty"`

	Source       string `json:"source,omitempty"`
	SourceHandle string `json:"sourceHandle,omitempty"`
	Target       string `json:"target,omitempty"`
	TargetHandle string `json:"targetHandle,omitempty"`
	Style        string `json:"style,omitempty"`

	ParentA string `json:"parentA,omitempty"`
	ParentB string `json:"parentB,omitempty"`

	Mode     string      `json:"mode,omitempty"`
	Viewport *ViewportXY `json:"viewport,omitempty"`
	Width    float64     `json:"width,omitempty"`
	Height   float64     `json:"height,omitempty"`
}

// Result is the outcome of a dispatched intent.
type Result struct {
	Op      string   `json:"op"`
	ID      string   `json:"id,omitempty"`
	Removed *Removed `json:"removed,omitempty"`
	Moved   int      `json:"moved,omitempty"`
}

// ParseIntent decodes a JSON intent.
func ParseIntent(data []byte) (Intent, error) {
	var in Intent
	if err := json.Unmarshal(data, &in); err != nil {
		return Intent{}, perrors.Wrap(perrors.ErrCodeInvalidInput, err, "malformed intent")
	}
	if in.Op == "" {
		return Intent{}, perrors.New(perrors.ErrCodeInvalidInput, "intent has no op")
	}
	return in, nil
}

// Dispatch translates an intent into the matching editor call.
func (e *Editor) Dispatch(in Intent) (Result, error) {
	res := Result{Op: in.Op}
	var err error
	switch in.Op {
	case OpNew:
		err = e.NewDocument()
	case OpAdd:
		var k pedigree.Kind
		if k, err = e.parseKind(in.Op, in.Kind); err != nil {
			break
		}
		var at *pedigree.Point
		if in.Position != nil {
			at = &pedigree.Point{X: in.Position.X, Y: in.Position.Y}
		}
		res.ID, err = e.AddIndividual(k, at)
	case OpMove:
		if in.Position == nil {
			err = e.reject(in.Op, perrors.New(perrors.ErrCodeInvalidInput, "move needs a position"))
			break
		}
		err = e.MoveIndividual(in.ID, pedigree.Point{X: in.Position.X, Y: in.Position.Y})
	case OpLabel:
		err = e.UpdateLabel(in.ID, in.Label)
	case OpFlag:
		err = e.SetStatusFlag(in.ID, in.Flag, in.Value)
	case OpRetype:
		var k pedigree.Kind
		if k, err = e.parseKind(in.Op, in.Kind); err != nil {
			break
		}
		err = e.Retype(in.ID, k)
	case OpConnect:
		var sh, th pedigree.Handle
		if sh, th, err = e.parseHandles(in); err != nil {
			break
		}
		res.ID, err = e.Connect(in.Source, sh, in.Target, th)
	case OpDisconnect:
		err = e.Disconnect(in.ID)
	case OpRestyle:
		s, perr := pedigree.ParseEdgeStyle(in.Style)
		if perr != nil {
			err = e.reject(in.Op, perrors.Wrap(perrors.ErrCodeInvalidEdge, perr, "unknown style %q", in.Style))
			break
		}
		err = e.RestyleEdge(in.ID, s)
	case OpChild:
		res.ID, err = e.InsertChildBetweenParents(in.ParentA, in.ParentB)
	case OpChildOfSelection:
		res.ID, err = e.InsertChildOfSelection()
	case OpSelect:
		err = e.Select(in.targets()...)
	case OpDeselect:
		err = e.Deselect(in.targets()...)
	case OpClearSelection:
		err = e.ClearSelection()
	case OpSelectOnly:
		err = e.SelectOnly(in.targets()...)
	case OpDelete:
		var r Removed
		if r, err = e.DeleteSelected(); err == nil {
			res.Removed = &r
		}
	case OpViewport:
		if in.Viewport == nil {
			err = e.reject(in.Op, perrors.New(perrors.ErrCodeInvalidInput, "viewport intent needs a viewport"))
			break
		}
		err = e.SetViewport(pedigree.Viewport{X: in.Viewport.X, Y: in.Viewport.Y, Zoom: in.Viewport.Zoom})
	case OpCanvas:
		err = e.SetCanvasSize(in.Width, in.Height)
	case OpArrange:
		m, perr := layout.ParseMode(in.Mode)
		if perr != nil {
			err = e.reject(in.Op, perrors.Wrap(perrors.ErrCodeInvalidInput, perr, "unknown arrange mode %q", in.Mode))
			break
		}
		res.Moved, err = e.AutoArrange(m)
	default:
		err = e.reject(in.Op, perrors.New(perrors.ErrCodeInvalidInput, "unknown operation %q", in.Op))
	}
	if err != nil {
		return Result{Op: in.Op}, err
	}
	return res, nil
}

func (in Intent) targets() []string {
	if in.ID != "" {
		return append([]string{in.ID}, in.IDs...)
	}
	return in.IDs
}

func (e *Editor) parseKind(op, s string) (pedigree.Kind, error) {
	k, err := pedigree.ParseKind(s)
	if err != nil {
		return k, e.reject(op, perrors.Wrap(perrors.ErrCodeInvalidInput, err, "unknown kind %q", s))
	}
	return k, nil
}

// parseHandles reads the connect handles, defaulting to bottom and top.
func (e *Editor) parseHandles(in Intent) (pedigree.Handle, pedigree.Handle, error) {
	sh, th := pedigree.HandleBottom, pedigree.HandleTop
	var err error
	if in.SourceHandle != "" {
		if sh, err = pedigree.ParseHandle(in.SourceHandle); err != nil {
			return "", "", e.reject(in.Op, perrors.Wrap(perrors.ErrCodeInvalidEdge, err, "invalid source handle %q", in.SourceHandle))
		}
	}
	if in.TargetHandle != "" {
		if th, err = pedigree.ParseHandle(in.TargetHandle); err != nil {
			return "", "", e.reject(in.Op, perrors.Wrap(perrors.ErrCodeInvalidEdge, err, "invalid target handle %q", in.TargetHandle))
		}
	}
	return sh, th, nil
}
