package main

import (
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func TestTemplateStoreRender(t *testing.T) {
	dir := writeTemplates(t, map[string]string{
		"page.html":          `<p>{{.Name}}</p>{{template "partials/foot.html"}}`,
		"partials/foot.html": `<footer>f</footer>`,
		"notes.txt":          `ignored`,
	})
	store, err := newTemplateStore(dir)
	if err != nil {
		t.Fatal(err)
	}

	got, err := store.render("page.html", map[string]any{"Name": "<b>x</b>"})
	if err != nil {
		t.Fatal(err)
	}
	want := `<p>&lt;b&gt;x&lt;/b&gt;</p><footer>f</footer>`
	if got != want {
		t.Errorf("render got %q want %q", got, want)
	}

	if _, err := store.render("notes.txt", nil); err == nil {
		t.Errorf("expected non-html file to be skipped")
	}
	if _, err := store.render("missing.html", nil); err == nil {
		t.Errorf("expected error for missing template")
	}
}

func TestTemplateStoreMissingDir(t *testing.T) {
	_, err := newTemplateStore(filepath.Join(t.TempDir(), "nope"))
	if err == nil || !strings.Contains(err.Error(), "does not exist") {
		t.Errorf("expected missing directory error, got %v", err)
	}
}

func TestTemplateStoreExecError(t *testing.T) {
	dir := writeTemplates(t, map[string]string{
		"bad.html": `start {{.Missing.Field}}`,
	})
	store, err := newTemplateStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	out, err := store.render("bad.html", map[string]any{"Missing": 3})
	if err == nil {
		t.Fatalf("expected exec error")
	}
	if out != "" {
		t.Errorf("partial output leaked: %q", out)
	}
}

func TestTemplateStoreReloadIdempotent(t *testing.T) {
	dir := writeTemplates(t, map[string]string{"a.html": `v1`})
	store, err := newTemplateStore(dir)
	if err != nil {
		t.Fatal(err)
	}

	writeFile(t, filepath.Join(dir, "a.html"), `v2`)
	for i := 0; i < 2; i++ {
		if err := store.reload(); err != nil {
			t.Fatalf("reload %d: %v", i, err)
		}
		got, err := store.render("a.html", nil)
		if err != nil {
			t.Fatal(err)
		}
		if got != "v2" {
			t.Errorf("reload %d: got %q want v2", i, got)
		}
	}
}

func TestTemplateStoreFailedReloadKeepsSet(t *testing.T) {
	dir := writeTemplates(t, map[string]string{"a.html": `ok`})
	store, err := newTemplateStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(dir, "a.html"), `{{if}}`)
	if err := store.reload(); err == nil {
		t.Fatalf("expected parse error")
	}
	got, err := store.render("a.html", nil)
	if err != nil || got != "ok" {
		t.Errorf("after failed reload got %q, %v", got, err)
	}
}

func TestTemplateStoreConcurrentRender(t *testing.T) {
	store, err := newTemplateStore("templates")
	if err != nil {
		t.Fatal(err)
	}
	data := map[string]any{"RequestID": "fixed", "Posts": []Post{{Title: "t", Body: "b"}}}
	want, err := store.render("home.html", data)
	if err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	errs := make(chan string, 64)
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := store.render("home.html", data)
			if err != nil {
				errs <- err.Error()
				return
			}
			if got != want {
				errs <- "output differs"
			}
		}()
	}
	wg.Wait()
	close(errs)
	for e := range errs {
		t.Error(e)
	}
}

func TestTemplateStoreReloadDuringRead(t *testing.T) {
	dir := writeTemplates(t, map[string]string{
		"page.html": `1-{{template "part.html"}}`,
		"part.html": `1`,
	})
	store, err := newTemplateStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(dir, "page.html"), `2-{{template "part.html"}}`)
	writeFile(t, filepath.Join(dir, "part.html"), `2`)

	var wg sync.WaitGroup
	bad := make(chan string, 256)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				got, err := store.render("page.html", nil)
				if err != nil {
					bad <- err.Error()
					return
				}
				if got != "1-1" && got != "2-2" {
					bad <- got
					return
				}
			}
		}()
	}
	for i := 0; i < 20; i++ {
		if err := store.reload(); err != nil {
			t.Fatal(err)
		}
	}
	wg.Wait()
	close(bad)
	for b := range bad {
		t.Errorf("reader observed mixed template set: %q", b)
	}
}
