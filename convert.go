package plinth

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ErrInvalidBase64 is returned (wrapped) by DecodeBase64 when the input
// contains characters outside the standard alphabet or bad padding.
var ErrInvalidBase64 = errors.New("plinth: invalid base64 input")

// FileData is a fully materialized copy of an uploaded file's content
// together with its declared content type.
type FileData struct {
	Data        []byte
	ContentType string
}

// Data reads the handle's stream fully into memory and returns the bytes
// paired with the file's content type. The buffer is freshly allocated on
// every call; an empty stream yields a zero-length buffer.
//
// The stream is consumed. Seek the underlying file first if it has already
// been read.
func (u *UploadedFile) Data() (FileData, error) {
	return u.DataContext(context.Background())
}

// DataContext is Data with a context checked at the stream-copy boundary.
func (u *UploadedFile) DataContext(ctx context.Context) (FileData, error) {
	buf := bytes.NewBuffer(nil)
	if _, err := io.Copy(buf, contextReader{ctx, u.File}); err != nil {
		conversionErrors.WithLabelValues(opBuffer).Inc()
		return FileData{}, fmt.Errorf("read uploaded file %q: %w", u.Filename, err)
	}

	conversions.WithLabelValues(opBuffer).Inc()
	conversionBytes.WithLabelValues(opBuffer).Add(float64(buf.Len()))

	return FileData{Data: buf.Bytes(), ContentType: u.ContentType()}, nil
}

// AllData converts each handle to a FileData, preserving input order.
// The first failure aborts the batch: no partial collection is returned.
func AllData(files []*UploadedFile) ([]FileData, error) {
	return AllDataContext(context.Background(), files)
}

// AllDataContext is AllData with a context checked per item.
func AllDataContext(ctx context.Context, files []*UploadedFile) ([]FileData, error) {
	out := make([]FileData, 0, len(files))
	for _, f := range files {
		fd, err := f.DataContext(ctx)
		if err != nil {
			return nil, err
		}
		out = append(out, fd)
	}
	return out, nil
}

// SaveTo copies the handle's stream into the file at path, creating it if
// needed and truncating any existing contents. The write is not atomic; on
// failure a partial file may remain and the error is propagated unchanged.
// Parent directories are not created.
func (u *UploadedFile) SaveTo(path string) error {
	return u.SaveToContext(context.Background(), path)
}

// SaveToContext is SaveTo with a context checked at the stream-copy boundary.
func (u *UploadedFile) SaveToContext(ctx context.Context, path string) error {
	dst, err := os.Create(path)
	if err != nil {
		conversionErrors.WithLabelValues(opDisk).Inc()
		return err
	}
	defer dst.Close()

	written, err := io.Copy(dst, contextReader{ctx, u.File})
	if err != nil {
		conversionErrors.WithLabelValues(opDisk).Inc()
		return err
	}

	conversions.WithLabelValues(opDisk).Inc()
	conversionBytes.WithLabelValues(opDisk).Add(float64(written))
	return nil
}

// SaveAllTo writes every handle to the same path, sequentially. Each item
// truncates the previous one, so only the last file's bytes survive at
// path. Kept for compatibility with callers that expect this exact
// behavior; new code should use SaveAllToDir.
func SaveAllTo(files []*UploadedFile, path string) error {
	for _, f := range files {
		if err := f.SaveTo(path); err != nil {
			return err
		}
	}
	return nil
}

// NamingFunc chooses the filename (not the full path) for the i-th file of
// a batch written by SaveAllToDir.
type NamingFunc func(i int, u *UploadedFile) string

// DefaultNaming prefixes the original filename with the item's position so
// batch items never collide: "0_report.pdf", "1_report.pdf", ...
func DefaultNaming(i int, u *UploadedFile) string {
	name := u.Filename
	if name == "" {
		name = DefaultUploadFilename
	}
	return fmt.Sprintf("%d_%s", i, name)
}

// SaveAllToDir writes each handle to its own file under dir, named by
// name (DefaultNaming when nil). Items are written sequentially in input
// order; the first failure aborts the batch, leaving files already written.
func SaveAllToDir(files []*UploadedFile, dir string, name NamingFunc) error {
	if name == nil {
		name = DefaultNaming
	}
	for i, f := range files {
		if err := f.SaveTo(filepath.Join(dir, name(i, f))); err != nil {
			return err
		}
	}
	return nil
}

// EncodeBase64 encodes data with the standard, padded base64 alphabet.
func EncodeBase64(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

// DecodeBase64 decodes a standard base64 string. Invalid characters or
// padding return an error satisfying errors.Is(err, ErrInvalidBase64).
func DecodeBase64(s string) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		conversionErrors.WithLabelValues(opBase64).Inc()
		return nil, fmt.Errorf("%w: %v", ErrInvalidBase64, err)
	}
	conversions.WithLabelValues(opBase64).Inc()
	return data, nil
}

// contextReader aborts an io.Copy once its context is done. Cancellation
// is observed between reads, not mid-read.
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
