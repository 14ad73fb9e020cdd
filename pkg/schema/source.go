// Package schema loads form schema documents from files, embedded
// filesystems, or HTTP endpoints and decodes them into the form model.
package schema

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// Source identifies where a schema document originated so the loader can
// operate on files, fs.FS entries, or URLs without leaking implementation
// details.
type Source interface {
	Kind() SourceKind
	Location() string
}

// SourceKind enumerates the loader modalities.
type SourceKind string

const (
	SourceKindFile SourceKind = "file"
	SourceKindFS   SourceKind = "fs"
	SourceKindURL  SourceKind = "url"
)

type fileSource struct {
	path string
}

func (s fileSource) Kind() SourceKind { return SourceKindFile }
func (s fileSource) Location() string { return s.path }

// SourceFromFile returns a Source pointing to a file path.
func SourceFromFile(path string) Source {
	return fileSource{path: filepath.Clean(path)}
}

type fsSource struct {
	name string
}

func (s fsSource) Kind() SourceKind { return SourceKindFS }
func (s fsSource) Location() string { return s.name }

// SourceFromFS returns a Source identifying a resource inside an fs.FS.
func SourceFromFS(name string) Source {
	return fsSource{name: name}
}

type urlSource struct {
	raw string
}

func (s urlSource) Kind() SourceKind { return SourceKindURL }
func (s urlSource) Location() string { return s.raw }

// SourceFromURL parses the supplied URL string and returns a Source. It
// panics if the URL is invalid to surface configuration mistakes early.
func SourceFromURL(raw string) Source {
	if raw == "" {
		panic("schema: empty URL source")
	}
	if _, err := url.ParseRequestURI(raw); err != nil {
		panic(fmt.Sprintf("schema: invalid URL %q: %v", raw, err))
	}
	return urlSource{raw: raw}
}

// ParseSource builds a Source from a CLI-style string: http(s) strings become
// URL sources, everything else a file path. Empty input returns nil.
func ParseSource(raw string) Source {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}
	if strings.HasPrefix(trimmed, "http://") || strings.HasPrefix(trimmed, "https://") {
		return SourceFromURL(trimmed)
	}
	return SourceFromFile(trimmed)
}
