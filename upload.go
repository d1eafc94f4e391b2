package plinth

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/textproto"
)

// Defaults applied when constructing an uploaded file without explicit
// naming. They exist so callers converting a FileResponse back into an
// UploadedFile get predictable metadata instead of empty strings.
const (
	// DefaultUploadField is the form field name used when none is given.
	DefaultUploadField = "file"

	// DefaultUploadFilename is the filename used when none is given.
	DefaultUploadFilename = "upload"
)

// UploadedFile represents a file from a multipart form
type UploadedFile struct {
	File      multipart.File
	Header    *multipart.FileHeader
	FieldName string
	Filename  string
	Size      int64
}

// Close closes the underlying file
func (u *UploadedFile) Close() error {
	return u.File.Close()
}

// ContentType returns the declared MIME type of the file, or
// "application/octet-stream" when the part carried none.
func (u *UploadedFile) ContentType() string {
	if u.Header != nil {
		if ct := u.Header.Header.Get("Content-Type"); ct != "" {
			return ct
		}
	}
	return "application/octet-stream"
}

// ParseMultipartForm parses a multipart form with given max memory (in MB)
// Default is 32MB if maxMemoryMB is 0
func ParseMultipartForm(r *http.Request, maxMemoryMB int64) error {
	if maxMemoryMB == 0 {
		maxMemoryMB = 32
	}
	return r.ParseMultipartForm(maxMemoryMB << 20)
}

// GetUploadedFile gets a single file from the form
func GetUploadedFile(r *http.Request, fieldName string) (*UploadedFile, error) {
	file, header, err := r.FormFile(fieldName)
	if err != nil {
		return nil, err
	}

	return &UploadedFile{
		File:      file,
		Header:    header,
		FieldName: fieldName,
		Filename:  header.Filename,
		Size:      header.Size,
	}, nil
}

// GetUploadedFiles gets multiple files from the form (for multiple file uploads)
func GetUploadedFiles(r *http.Request, fieldName string) ([]*UploadedFile, error) {
	files := r.MultipartForm.File[fieldName]
	if len(files) == 0 {
		return nil, http.ErrMissingFile
	}

	uploaded := make([]*UploadedFile, 0, len(files))

	for _, header := range files {
		file, err := header.Open()
		if err != nil {
			return nil, err
		}

		uploaded = append(uploaded, &UploadedFile{
			File:      file,
			Header:    header,
			FieldName: fieldName,
			Filename:  header.Filename,
			Size:      header.Size,
		})
	}

	return uploaded, nil
}

// GetFormValue gets a form field value (for non-file fields in multipart form)
func GetFormValue(r *http.Request, fieldName string) string {
	return r.FormValue(fieldName)
}

// NewUploadedFile constructs a buffer-backed UploadedFile around data.
// The handle behaves like one produced by GetUploadedFile: its stream can
// be read (and re-read after seeking) and Close is a no-op on the buffer.
//
// fieldName and filename fall back to DefaultUploadField and
// DefaultUploadFilename when empty.
func NewUploadedFile(data []byte, contentType, fieldName, filename string) *UploadedFile {
	if fieldName == "" {
		fieldName = DefaultUploadField
	}
	if filename == "" {
		filename = DefaultUploadFilename
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	header := &multipart.FileHeader{
		Filename: filename,
		Size:     int64(len(data)),
		Header: textproto.MIMEHeader{
			"Content-Type": []string{contentType},
		},
	}

	return &UploadedFile{
		File:      memoryFile{bytes.NewReader(data)},
		Header:    header,
		FieldName: fieldName,
		Filename:  filename,
		Size:      int64(len(data)),
	}
}

// memoryFile adapts a bytes.Reader to multipart.File.
type memoryFile struct {
	*bytes.Reader
}

func (memoryFile) Close() error { return nil }
