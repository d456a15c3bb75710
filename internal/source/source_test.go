package source

import (
	"testing"
)

func TestNormalizeCRLF(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		changed bool
	}{
		{"a\r\nb", "a\nb", true},
		{"a\nb", "a\nb", false},
		{"a\rb", "a\rb", false},
		{"\r\n\r\n", "\n\n", true},
		{"", "", false},
	}
	for _, c := range cases {
		got, changed := normalizeCRLF([]byte(c.in))
		if string(got) != c.want || changed != c.changed {
			t.Fatalf("normalizeCRLF(%q) = %q, %v; want %q, %v", c.in, got, changed, c.want, c.changed)
		}
	}
}

func TestRemoveBOM(t *testing.T) {
	in := []byte{0xEF, 0xBB, 0xBF, 'x'}
	got, had := removeBOM(in)
	if !had || string(got) != "x" {
		t.Fatalf("removeBOM = %q, %v; want %q, true", got, had, "x")
	}
	got, had = removeBOM([]byte("plain"))
	if had || string(got) != "plain" {
		t.Fatalf("removeBOM(plain) = %q, %v", got, had)
	}
}

func TestLineCol(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("t.rf", []byte("one\ntwo\nthree"))
	f := fs.Get(id)

	cases := []struct {
		off  uint32
		want LineCol
	}{
		{0, LineCol{1, 1}},
		{2, LineCol{1, 3}},
		{4, LineCol{2, 1}},
		{6, LineCol{2, 3}},
		{8, LineCol{3, 1}},
	}
	for _, c := range cases {
		if got := f.LineCol(c.off); got != c.want {
			t.Fatalf("LineCol(%d) = %v, want %v", c.off, got, c.want)
		}
	}
}

func TestLineStart(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("t.rf", []byte("one\n  two\n"))
	f := fs.Get(id)
	if got := LineStart(f.LineIdx, 7); got != 4 {
		t.Fatalf("LineStart(7) = %d, want 4", got)
	}
	if got := LineStart(f.LineIdx, 1); got != 0 {
		t.Fatalf("LineStart(1) = %d, want 0", got)
	}
}

func TestSpanCoverAndClamp(t *testing.T) {
	a := Span{File: 1, Start: 4, End: 8}
	b := Span{File: 1, Start: 2, End: 6}
	got := a.Cover(b)
	if got.Start != 2 || got.End != 8 {
		t.Fatalf("Cover = %v", got)
	}
	other := Span{File: 2, Start: 0, End: 100}
	if got := a.Cover(other); got != a {
		t.Fatalf("Cover across files = %v, want %v", got, a)
	}
	c := Span{Start: 5, End: 50}.Clamp(10)
	if c.Start != 5 || c.End != 10 {
		t.Fatalf("Clamp = %v", c)
	}
}

func TestFileSetLookupLatest(t *testing.T) {
	fs := NewFileSet()
	fs.AddVirtual("a.rf", []byte("v1"))
	id2 := fs.AddVirtual("a.rf", []byte("v2"))
	got, ok := fs.Lookup("a.rf")
	if !ok || got != id2 {
		t.Fatalf("Lookup = %v, %v; want %v, true", got, ok, id2)
	}
	if string(fs.Get(got).Content) != "v2" {
		t.Fatalf("content = %q", fs.Get(got).Content)
	}
}
