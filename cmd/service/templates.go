package main

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// templateStore holds the compiled page templates. Rendering takes the read
// lock; reload swaps in a fully parsed set under the write lock.
type templateStore struct {
	dir string

	mu  sync.RWMutex
	set *template.Template
}

func newTemplateStore(dir string) (*templateStore, error) {
	set, err := parseTemplateDir(dir)
	if err != nil {
		return nil, err
	}
	return &templateStore{dir: dir, set: set}, nil
}

// parseTemplateDir compiles every *.html file under dir. Templates are named
// by their slash-separated path relative to dir, e.g. "errors/500.html".
func parseTemplateDir(dir string) (*template.Template, error) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%s directory does not exist", dir)
	}
	root := template.New("")
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".html") {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		src, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		if _, err := root.New(filepath.ToSlash(rel)).Parse(string(src)); err != nil {
			return fmt.Errorf("parse template %s: %w", rel, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return root, nil
}

func (s *templateStore) render(name string, data any) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t := s.set.Lookup(name)
	if t == nil {
		return "", fmt.Errorf("template %q not found", name)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// reload recompiles the templates directory. On failure the current set is
// kept.
func (s *templateStore) reload() error {
	set, err := parseTemplateDir(s.dir)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.set = set
	s.mu.Unlock()
	return nil
}
