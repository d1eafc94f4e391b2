package plinth

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strconv"
)

// FileResponse is a Response that streams a byte buffer tagged with a
// content type, for returning file content directly from a handler.
type FileResponse struct {
	StatusCode  int
	ContentType string
	Data        []byte
}

// File wraps data as a 200 response with the given content type.
func File(contentType string, data []byte) Response {
	return FileWithStatus(http.StatusOK, contentType, data)
}

// FileWithStatus wraps data as a response with an explicit status code.
func FileWithStatus(statusCode int, contentType string, data []byte) Response {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return FileResponse{
		StatusCode:  statusCode,
		ContentType: contentType,
		Data:        data,
	}
}

func (r FileResponse) Write(ctx context.Context, w http.ResponseWriter) error {
	w.Header().Set("Content-Type", r.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(r.Data)))
	w.WriteHeader(r.StatusCode)
	_, err := io.Copy(w, r.Reader())
	return err
}

// Reader returns a fresh reader over the response body.
func (r FileResponse) Reader() *bytes.Reader {
	return bytes.NewReader(r.Data)
}

// UploadedFile reads the response body back into a buffer-backed upload
// handle, carrying the response's content type. fieldName and filename
// default to DefaultUploadField and DefaultUploadFilename when empty.
func (r FileResponse) UploadedFile(fieldName, filename string) (*UploadedFile, error) {
	// Read through the stream rather than aliasing r.Data so the handle
	// owns its copy.
	data, err := io.ReadAll(r.Reader())
	if err != nil {
		return nil, err
	}
	return NewUploadedFile(data, r.ContentType, fieldName, filename), nil
}
