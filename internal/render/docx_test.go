package render

import (
	"archive/zip"
	"bytes"
	"testing"
)

func TestDOCXBackend_SingleDocument(t *testing.T) {
	b, trees, opts := htmlFixture(t)
	index := b.IndexPage("mypkg API Reference", "Welcome.", true, []string{"mypkg"})

	backend, err := ForFormat("docx", opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	files, err := backend.Render(index, trees)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(files) != 1 {
		t.Fatalf("expected a single document, got %d files", len(files))
	}
	data, ok := files["api_reference.docx"]
	if !ok {
		t.Fatal("missing api_reference.docx")
	}
	if len(data) == 0 {
		t.Fatal("document is empty")
	}

	// A docx file is a zip container with the body at word/document.xml.
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("output is not a zip container: %v", err)
	}
	body, err := zr.Open("word/document.xml")
	if err != nil {
		t.Fatalf("missing word/document.xml: %v", err)
	}
	body.Close()
}
