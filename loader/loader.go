// Package loader reads descriptor files into an ir.Schema.
//
// Descriptors may be written as JSON (.json), YAML (.yaml, .yml) or
// msgpack (.msgpack, .mp). All three share the wire model in wire.go.
// Unknown fields are rejected in JSON and YAML.
package loader

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"github.com/broady/derivegen/diag"
	"github.com/broady/derivegen/ir"
)

// Format is a descriptor encoding.
type Format string

const (
	FormatJSON    Format = "json"
	FormatYAML    Format = "yaml"
	FormatMsgpack Format = "msgpack"
)

// FormatFromPath returns the format implied by path's extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".msgpack", ".mp":
		return FormatMsgpack, nil
	default:
		return "", diag.Newf(diag.CodeInvalidDescriptor, path,
			"unknown descriptor extension %q (want .json, .yaml, .yml, .msgpack or .mp)", filepath.Ext(path))
	}
}

// DecodeFile decodes a wire File from r.
func DecodeFile(r io.Reader, format Format) (*File, error) {
	var f File
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&f); err != nil {
			return nil, err
		}
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
	case FormatMsgpack:
		dec := msgpack.NewDecoder(r)
		dec.SetCustomStructTag("json")
		if err := dec.Decode(&f); err != nil {
			return nil, err
		}
	default:
		return nil, errors.Newf("unknown descriptor format %q", format)
	}
	return &f, nil
}

// EncodeFile encodes a wire File to w.
func EncodeFile(w io.Writer, format Format, f *File) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(f)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(f); err != nil {
			return err
		}
		return enc.Close()
	case FormatMsgpack:
		enc := msgpack.NewEncoder(w)
		enc.SetCustomStructTag("json")
		enc.SetOmitEmpty(true)
		return enc.Encode(f)
	default:
		return errors.Newf("unknown descriptor format %q", format)
	}
}

// Decode reads one descriptor document and converts it. name labels
// errors and declaration sources.
func Decode(r io.Reader, format Format, name string) (*ir.Schema, error) {
	f, err := DecodeFile(r, format)
	if err != nil {
		return nil, diag.WithHint(
			diag.Newf(diag.CodeInvalidDescriptor, name, "decode %s: %v", format, err),
			"check the document against the descriptor wire model")
	}
	return ToSchema(f, name)
}

// Parse decodes a descriptor document held in memory.
func Parse(data []byte, format Format, name string) (*ir.Schema, error) {
	return Decode(bytes.NewReader(data), format, name)
}

// LoadFile reads and converts one descriptor file.
func LoadFile(path string) (*ir.Schema, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open descriptor %s", path)
	}
	defer f.Close()
	return Decode(f, format, path)
}

// LoadFiles loads each path in order and merges the results.
func LoadFiles(paths ...string) (*ir.Schema, error) {
	merged := &ir.Schema{}
	for _, p := range paths {
		s, err := LoadFile(p)
		if err != nil {
			return nil, err
		}
		merged.Merge(s)
	}
	return merged, nil
}
