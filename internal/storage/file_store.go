package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/pairlink/pairlink-backend/internal/models"
)

var (
	ErrFileTooLarge        = errors.New("file too large")
	ErrUnsupportedFileType = errors.New("unsupported file type")
)

// allowedTypes maps accepted content types (detected by magic number, never
// trusted from the client) to the stored object extension.
var allowedTypes = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/webp":      ".webp",
	"image/gif":       ".gif",
	"application/pdf": ".pdf",
	"text/plain":      ".txt",
}

// FileStore is the attachment storage capability: raw bytes plus a filename
// in, a stored-file descriptor out, with type/size enforcement at the
// boundary.
type FileStore struct {
	s3       *S3Storage
	maxBytes int64
	imgOpts  ImageProcessOptions
}

func NewFileStore(s3 *S3Storage, maxBytes int64) *FileStore {
	return &FileStore{
		s3:       s3,
		maxBytes: maxBytes,
		imgOpts:  DefaultAttachmentImageOptions(),
	}
}

// Store validates, optionally downscales, and persists an attachment. The
// object key is generated, never derived from the client filename; the
// original name survives only in the returned descriptor.
func (f *FileStore) Store(ctx context.Context, r io.Reader, filename string) (*models.Attachment, error) {
	limited := io.LimitReader(r, f.maxBytes+1)
	data, err := io.ReadAll(limited)
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > f.maxBytes {
		return nil, ErrFileTooLarge
	}

	detected := mimetype.Detect(data)
	contentType := detected.String()
	// mimetype appends parameters for text types (e.g. "; charset=utf-8").
	if i := strings.Index(contentType, ";"); i >= 0 {
		contentType = strings.TrimSpace(contentType[:i])
	}
	ext, ok := allowedTypes[contentType]
	if !ok {
		return nil, ErrUnsupportedFileType
	}

	if strings.HasPrefix(contentType, "image/") {
		scaled, scaledType, err := DownscaleImage(data, contentType, f.imgOpts)
		if err != nil {
			return nil, ErrUnsupportedFileType
		}
		if scaledType != contentType {
			contentType = scaledType
			ext = allowedTypes[contentType]
		}
		data = scaled
	}

	key := "attachments/" + uuid.NewString() + ext
	if _, err := f.s3.PutObject(ctx, key, bytes.NewReader(data), int64(len(data)), contentType); err != nil {
		return nil, err
	}

	name := path.Base(strings.TrimSpace(filename))
	if name == "" || name == "." || name == "/" {
		name = "attachment" + ext
	}

	return &models.Attachment{
		Path: key,
		Name: name,
		Type: contentType,
		Size: int64(len(data)),
	}, nil
}

// Remove deletes a stored attachment. Best-effort; callers log and move on.
// Safe on a nil store so a typed-nil *FileStore behind an interface cannot
// crash delete-time cleanup.
func (f *FileStore) Remove(ctx context.Context, storedPath string) error {
	if f == nil || f.s3 == nil || storedPath == "" {
		return nil
	}
	return f.s3.DeleteObject(ctx, storedPath)
}

// Open streams a stored attachment for download.
func (f *FileStore) Open(ctx context.Context, storedPath string) (io.ReadCloser, ObjectStat, error) {
	obj, stat, err := f.s3.GetObject(ctx, storedPath)
	if err != nil {
		return nil, ObjectStat{}, err
	}
	return obj, stat, nil
}
