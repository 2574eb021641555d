package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
)

const documentXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>
<w:p><w:r><w:t>Jane Roe</w:t></w:r></w:p>
<w:p><w:r><w:t>Software Engineer at Example Co.</w:t></w:r></w:p>
</w:body></w:document>`

const documentRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`

func buildZip(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create zip entry: %v", err)
		}
		if _, err := w.Write([]byte(body)); err != nil {
			t.Fatalf("write zip entry: %v", err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func testDocx(t *testing.T) []byte {
	return buildZip(t, map[string]string{
		"word/document.xml":            documentXML,
		"word/_rels/document.xml.rels": documentRels,
	})
}

func TestText_DocxFromZipMime(t *testing.T) {
	got, err := Text(context.Background(), testDocx(t), "application/zip", "resume.docx")
	if err != nil {
		t.Fatalf("expected docx to extract from zip mime, got error: %v", err)
	}
	if !strings.Contains(got, "Jane Roe") || !strings.Contains(got, "Software Engineer at Example Co.") {
		t.Fatalf("unexpected text %q", got)
	}
	if strings.Contains(got, "<w:") {
		t.Fatalf("expected xml to be stripped, got %q", got)
	}
}

func TestText_DocxFromOctetStream(t *testing.T) {
	got, err := Text(context.Background(), testDocx(t), "application/octet-stream", "cv.docx")
	if err != nil {
		t.Fatalf("Text: %v", err)
	}
	if !strings.HasPrefix(got, "Jane Roe") {
		t.Fatalf("unexpected text %q", got)
	}
}

func TestText_RealZipRejected(t *testing.T) {
	data := buildZip(t, map[string]string{"notes.txt": "hello"})

	_, err := Text(context.Background(), data, "application/zip", "notes.zip")
	if !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
	if !strings.Contains(err.Error(), "application/zip") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestText_PlainText(t *testing.T) {
	tests := []struct {
		name     string
		mime     string
		fileName string
	}{
		{name: "declared", mime: "text/plain; charset=utf-8", fileName: "x"},
		{name: "by extension", mime: "application/octet-stream", fileName: "resume.txt"},
		{name: "sniffed", mime: "", fileName: "resume"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got, err := Text(context.Background(), []byte("\xef\xbb\xbf  Built APIs in Go\n"), tt.mime, tt.fileName)
			if err != nil {
				t.Fatalf("Text: %v", err)
			}
			if got != "Built APIs in Go" {
				t.Fatalf("unexpected text %q", got)
			}
		})
	}
}

func TestText_EmptyAndInvalid(t *testing.T) {
	if _, err := Text(context.Background(), nil, MimePlain, "a.txt"); !errors.Is(err, ErrEmpty) {
		t.Fatalf("expected ErrEmpty, got %v", err)
	}
	if _, err := Text(context.Background(), []byte("   \n"), MimePlain, "a.txt"); !errors.Is(err, ErrEmpty) {
		t.Fatalf("expected ErrEmpty for blank text, got %v", err)
	}
	if _, err := Text(context.Background(), []byte("%PDF-1.4 not really"), MimePDF, "a.pdf"); err == nil {
		t.Fatalf("expected error for broken pdf")
	}
	if _, err := Text(context.Background(), []byte("\x89PNG\r\n\x1a\n0000"), "image/png", "a.png"); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
}

func TestText_RespectsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Text(ctx, []byte("x"), MimePlain, "a.txt"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestStripDocxXML(t *testing.T) {
	got := stripDocxXML(`<w:body><w:p><w:r><w:t>A</w:t><w:tab/><w:t>B</w:t></w:r></w:p><w:p><w:r><w:t>C</w:t></w:r></w:p></w:body>`)
	if got != "A\tB\nC" {
		t.Fatalf("unexpected text %q", got)
	}
}
