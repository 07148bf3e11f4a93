package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

// Document is the on-disk import format:
//
//	libs:
//	  - name: chi
//	repos:
//	  - name: go-chi/chi
type Document struct {
	Libs  []map[string]any `yaml:"libs" json:"libs"`
	Repos []map[string]any `yaml:"repos" json:"repos"`
}

func (d Document) items(kind Kind) []map[string]any {
	if kind == KindRepos {
		return d.Repos
	}
	return d.Libs
}

// ImportResult counts what an import added.
type ImportResult struct {
	Files int
	Added map[Kind]int
}

// Importer loads catalog documents into a Store.
type Importer struct {
	store *Store
	// Progress, when set, is called after each file with the number of files
	// processed so far and the file name.
	Progress func(done int, file string)
}

// NewImporter creates an Importer writing to store.
func NewImporter(store *Store) *Importer {
	return &Importer{store: store}
}

// Expand resolves doublestar patterns to a sorted, de-duplicated file list.
// Patterns without glob metacharacters are passed through as plain paths.
func Expand(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	for _, p := range patterns {
		matches, err := doublestar.FilepathGlob(p, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", p, err)
		}
		if len(matches) == 0 && !strings.ContainsAny(p, "*?[{") {
			matches = []string{p}
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				files = append(files, m)
			}
		}
	}
	sort.Strings(files)
	return files, nil
}

// ImportFiles reads each file and appends its records to the store.
func (im *Importer) ImportFiles(ctx context.Context, files []string) (*ImportResult, error) {
	res := &ImportResult{Added: make(map[Kind]int)}
	for i, f := range files {
		doc, err := ReadDocument(f)
		if err != nil {
			return res, err
		}
		if err := im.importDocument(ctx, doc, res); err != nil {
			return res, fmt.Errorf("importing %s: %w", f, err)
		}
		res.Files++
		if im.Progress != nil {
			im.Progress(i+1, f)
		}
	}
	return res, nil
}

func (im *Importer) importDocument(ctx context.Context, doc *Document, res *ImportResult) error {
	for _, kind := range Kinds {
		for _, item := range doc.items(kind) {
			if _, err := im.store.Add(ctx, kind, item); err != nil {
				return err
			}
			res.Added[kind]++
		}
	}
	return nil
}

// ReadDocument parses a YAML or JSON catalog file, chosen by extension.
func ReadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var doc Document
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(data, &doc)
	default:
		err = yaml.Unmarshal(data, &doc)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &doc, nil
}
