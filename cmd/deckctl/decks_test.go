package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-User-ID") != "u1" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`{"decks":[{"deckId":"d1","title":"Pitch"}],"count":1}`))
	}))
	defer srv.Close()

	var out bytes.Buffer
	if err := runList(srv.URL, "u1", &out); err != nil {
		t.Fatalf("runList: %v", err)
	}
	if !strings.Contains(out.String(), "Pitch") || !strings.Contains(out.String(), "1 deck(s)") {
		t.Fatalf("unexpected output: %s", out.String())
	}
}

func TestRunExportWritesFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		w.Write([]byte("%PDF-1.4 fake"))
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "out.pdf")
	var out bytes.Buffer
	if err := runExport(srv.URL, "u1", "d1", "document", dest, &out); err != nil {
		t.Fatalf("runExport: %v", err)
	}
	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.HasPrefix(string(data), "%PDF") {
		t.Fatalf("unexpected file contents: %q", data)
	}
}

func TestRunExportSurfacesAPIErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"Not Found","code":404}`, http.StatusNotFound)
	}))
	defer srv.Close()

	var out bytes.Buffer
	err := runExport(srv.URL, "u1", "missing", "document", filepath.Join(t.TempDir(), "x.pdf"), &out)
	if err == nil || !strings.Contains(err.Error(), "404") {
		t.Fatalf("expected 404 error, got %v", err)
	}
}
