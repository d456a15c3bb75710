package server

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestURIRoundTrip(t *testing.T) {
	path, err := filepath.Abs(filepath.Join("testdata", "a b.rf"))
	if err != nil {
		t.Fatalf("abs: %v", err)
	}
	uri := pathToURI(path)
	if !strings.HasPrefix(uri, "file://") {
		t.Fatalf("pathToURI(%q) = %q, want file scheme", path, uri)
	}
	if got := uriToPath(uri); got != path {
		t.Fatalf("uriToPath(%q) = %q, want %q", uri, got, path)
	}
}

func TestURIToPathPercentEncoded(t *testing.T) {
	got := uriToPath("file:///tmp/ws/sp%20ace.rf")
	want := filepath.FromSlash("/tmp/ws/sp ace.rf")
	if got != want {
		t.Fatalf("uriToPath = %q, want %q", got, want)
	}
}
