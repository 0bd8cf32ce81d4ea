package parser

import (
	"errors"

	"github.com/svgpathturtle/svgpathturtle/nameenv"
)

// SourceLoader resolves an import path named in an import statement to
// its source text. Reading files off disk is outside this package's
// concern; a caller supplies whatever loader fits its environment (a
// filesystem, an embedded bundle, a test fixture map).
type SourceLoader interface {
	LoadSource(path string) (string, error)
}

var errNoLoader = errors.New("no source loader configured for import statements")

// fileMap is shared by a top-level parser and every sub-parser it spawns
// for an import, so that importing the same path twice from anywhere in
// the chain parses it once and reuses the resulting names (S6).
type fileMap struct {
	loader  SourceLoader
	entries map[string]nameenv.Context
}

func newFileMap(loader SourceLoader) *fileMap {
	return &fileMap{loader: loader, entries: map[string]nameenv.Context{}}
}

func (f *fileMap) load(path string) (string, error) {
	if f.loader == nil {
		return "", errNoLoader
	}
	return f.loader.LoadSource(path)
}
