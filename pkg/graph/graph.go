package graph

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"

	perrors "github.com/matzehuels/pedigree/pkg/errors"
	"github.com/matzehuels/pedigree/pkg/pedigree"
)

// =============================================================================
// Document Serialization API
// =============================================================================

// Marshal converts a document to indented JSON bytes.
func Marshal(d pedigree.Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeTo(d, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile writes a document to a JSON file.
// The file is created with 0644 permissions.
func WriteFile(d pedigree.Document, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return perrors.Wrap(perrors.ErrCodeIO, err, "create %s", path)
	}
	if err := writeTo(d, f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return perrors.Wrap(perrors.ErrCodeIO, err, "close %s", path)
	}
	return nil
}

// Write writes a document as JSON to an io.Writer.
// Use Marshal for in-memory serialization or WriteFile for files.
func Write(d pedigree.Document, w io.Writer) error {
	return writeTo(d, w)
}

// ReadFile reads a JSON file and returns the decoded document.
func ReadFile(path string, opts ...Option) (pedigree.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return pedigree.Document{}, perrors.Wrap(perrors.ErrCodeIO, err, "read %s", path)
	}
	return Decode(data, opts...)
}

// Read decodes a JSON document from an io.Reader.
// Use ReadFile for files or Decode for in-memory data.
func Read(r io.Reader, opts ...Option) (pedigree.Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return pedigree.Document{}, perrors.Wrap(perrors.ErrCodeIO, err, "read document")
	}
	return Decode(data, opts...)
}

// Option configures decoding.
type Option func(*decoder)

type decoder struct {
	geometry pedigree.Geometry
	alloc    *pedigree.Allocator
}

// WithGeometry sets the base geometry used to normalize node sizes.
func WithGeometry(g pedigree.Geometry) Option {
	return func(d *decoder) { d.geometry = g }
}

// WithAllocator reseeds a after a successful decode so that newly allocated
// ids do not collide with ids in the file.
func WithAllocator(a *pedigree.Allocator) Option {
	return func(d *decoder) { d.alloc = a }
}

// Decode parses and validates a persisted document. Decoding is all or
// nothing: any violation rejects the whole input with a coded error.
//
// Validation runs in this order:
//  1. Top-level shape: nodes and edges must be JSON arrays (INVALID_STRUCTURE)
//  2. Format version: at most [Version] (UNSUPPORTED_VERSION)
//  3. Field values: kinds, handles, edge types, sizes, zoom (INVALID_DOCUMENT)
//  4. Structure: unique ids, no dangling edges, one proband (INVALID_DOCUMENT)
//
// On success node sizes are normalized per kind and the allocator, if any,
// is reseeded.
func Decode(data []byte, opts ...Option) (pedigree.Document, error) {
	dec := decoder{geometry: pedigree.DefaultGeometry()}
	for _, opt := range opts {
		opt(&dec)
	}

	if err := Probe(data); err != nil {
		return pedigree.Document{}, err
	}

	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return pedigree.Document{}, perrors.Wrap(perrors.ErrCodeInvalidStructure, err, "invalid file structure")
	}
	if f.Version == 0 {
		f.Version = Version
	}
	if f.Version > Version {
		return pedigree.Document{}, perrors.New(perrors.ErrCodeUnsupported,
			"unsupported file version %d (newest supported is %d)", f.Version, Version)
	}
	if err := validate.Struct(f); err != nil {
		return pedigree.Document{}, fieldError(err)
	}

	doc := ToDocument(f)
	for i := range doc.Nodes {
		dec.geometry.Resize(&doc.Nodes[i])
	}
	if err := doc.Validate(); err != nil {
		return pedigree.Document{}, perrors.New(perrors.ErrCodeInvalidDocument, "invalid document: %v", err)
	}
	if dec.alloc != nil {
		dec.alloc.Reseed(doc.IDs()...)
	}
	return doc, nil
}

// Probe checks that data is a JSON object whose nodes and edges members are
// arrays. It is the first check [Decode] runs.
func Probe(data []byte) error {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		var syntax *json.SyntaxError
		if errors.As(err, &syntax) {
			return perrors.Wrap(perrors.ErrCodeInvalidFormat, err, "file is not valid JSON")
		}
		return perrors.Wrap(perrors.ErrCodeInvalidStructure, err, "invalid file structure")
	}
	for _, key := range []string{"nodes", "edges"} {
		raw, ok := top[key]
		if !ok || !isArray(raw) {
			return perrors.New(perrors.ErrCodeInvalidStructure, "invalid file structure")
		}
	}
	return nil
}

func isArray(raw json.RawMessage) bool {
	b := bytes.TrimLeft(raw, " \t\r\n")
	return len(b) > 0 && b[0] == '['
}

func fieldError(err error) error {
	var fields validator.ValidationErrors
	if errors.As(err, &fields) && len(fields) > 0 {
		fe := fields[0]
		return perrors.Wrap(perrors.ErrCodeInvalidDocument, err,
			"invalid document: %s fails %q", fe.Namespace(), describeTag(fe))
	}
	return perrors.Wrap(perrors.ErrCodeInvalidDocument, err, "invalid document")
}

func describeTag(fe validator.FieldError) string {
	if fe.Param() == "" {
		return fe.Tag()
	}
	return fmt.Sprintf("%s=%s", fe.Tag(), fe.Param())
}

// =============================================================================
// Internal Implementation
// =============================================================================

func writeTo(d pedigree.Document, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(FromDocument(d)); err != nil {
		return perrors.Wrap(perrors.ErrCodeIO, err, "encode document")
	}
	return nil
}
