package plinth

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
)

// testFile describes one part of a multipart request body
type testFile struct {
	filename    string
	contentType string
	content     string
}

// newUploadRequest builds a multipart POST request carrying the given files
// under a single form field
func newUploadRequest(t *testing.T, field string, files ...testFile) *http.Request {
	t.Helper()

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)

	for _, f := range files {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition",
			fmt.Sprintf(`form-data; name=%q; filename=%q`, field, f.filename))
		header.Set("Content-Type", f.contentType)

		part, err := mw.CreatePart(header)
		if err != nil {
			t.Fatalf("Failed to create multipart part: %v", err)
		}
		if _, err := part.Write([]byte(f.content)); err != nil {
			t.Fatalf("Failed to write part content: %v", err)
		}
	}

	if err := mw.Close(); err != nil {
		t.Fatalf("Failed to close multipart writer: %v", err)
	}

	req := httptest.NewRequest("POST", "/upload", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestGetUploadedFile(t *testing.T) {
	req := newUploadRequest(t, "document",
		testFile{"report.pdf", "application/pdf", "pdf bytes"})

	uploaded, err := GetUploadedFile(req, "document")
	if err != nil {
		t.Fatalf("Failed to get uploaded file: %v", err)
	}
	defer uploaded.Close()

	if uploaded.Filename != "report.pdf" {
		t.Errorf("Expected filename report.pdf, got %s", uploaded.Filename)
	}
	if uploaded.FieldName != "document" {
		t.Errorf("Expected field name document, got %s", uploaded.FieldName)
	}
	if uploaded.Size != int64(len("pdf bytes")) {
		t.Errorf("Expected size %d, got %d", len("pdf bytes"), uploaded.Size)
	}
	if uploaded.ContentType() != "application/pdf" {
		t.Errorf("Expected content type application/pdf, got %s", uploaded.ContentType())
	}

	content, err := io.ReadAll(uploaded.File)
	if err != nil {
		t.Fatalf("Failed to read file: %v", err)
	}
	if string(content) != "pdf bytes" {
		t.Errorf("Expected content 'pdf bytes', got %q", content)
	}
}

func TestGetUploadedFile_MissingField(t *testing.T) {
	req := newUploadRequest(t, "document",
		testFile{"report.pdf", "application/pdf", "pdf bytes"})

	_, err := GetUploadedFile(req, "attachment")
	if err == nil {
		t.Error("Should fail when the field carries no file")
	}
}

func TestGetUploadedFiles(t *testing.T) {
	req := newUploadRequest(t, "photos",
		testFile{"a.png", "image/png", "first"},
		testFile{"b.png", "image/png", "second"},
		testFile{"c.png", "image/png", "third"})

	if err := ParseMultipartForm(req, 0); err != nil {
		t.Fatalf("Failed to parse multipart form: %v", err)
	}

	files, err := GetUploadedFiles(req, "photos")
	if err != nil {
		t.Fatalf("Failed to get uploaded files: %v", err)
	}

	if len(files) != 3 {
		t.Fatalf("Expected 3 files, got %d", len(files))
	}

	// Input order must be preserved
	expected := []string{"a.png", "b.png", "c.png"}
	for i, f := range files {
		if f.Filename != expected[i] {
			t.Errorf("File %d: expected %s, got %s", i, expected[i], f.Filename)
		}
		f.Close()
	}
}

func TestGetUploadedFiles_MissingField(t *testing.T) {
	req := newUploadRequest(t, "photos",
		testFile{"a.png", "image/png", "first"})

	if err := ParseMultipartForm(req, 0); err != nil {
		t.Fatalf("Failed to parse multipart form: %v", err)
	}

	_, err := GetUploadedFiles(req, "documents")
	if err != http.ErrMissingFile {
		t.Errorf("Expected http.ErrMissingFile, got %v", err)
	}
}

func TestNewUploadedFile(t *testing.T) {
	data := []byte("in-memory content")

	uploaded := NewUploadedFile(data, "text/plain", "attachment", "notes.txt")
	defer uploaded.Close()

	if uploaded.FieldName != "attachment" {
		t.Errorf("Expected field name attachment, got %s", uploaded.FieldName)
	}
	if uploaded.Filename != "notes.txt" {
		t.Errorf("Expected filename notes.txt, got %s", uploaded.Filename)
	}
	if uploaded.Size != int64(len(data)) {
		t.Errorf("Expected size %d, got %d", len(data), uploaded.Size)
	}
	if uploaded.ContentType() != "text/plain" {
		t.Errorf("Expected content type text/plain, got %s", uploaded.ContentType())
	}

	content, err := io.ReadAll(uploaded.File)
	if err != nil {
		t.Fatalf("Failed to read file: %v", err)
	}
	if !bytes.Equal(content, data) {
		t.Errorf("Expected content %q, got %q", data, content)
	}
}

func TestNewUploadedFile_Defaults(t *testing.T) {
	uploaded := NewUploadedFile([]byte("x"), "", "", "")

	if uploaded.FieldName != DefaultUploadField {
		t.Errorf("Expected default field %s, got %s", DefaultUploadField, uploaded.FieldName)
	}
	if uploaded.Filename != DefaultUploadFilename {
		t.Errorf("Expected default filename %s, got %s", DefaultUploadFilename, uploaded.Filename)
	}
	if uploaded.ContentType() != "application/octet-stream" {
		t.Errorf("Expected default content type, got %s", uploaded.ContentType())
	}
}
