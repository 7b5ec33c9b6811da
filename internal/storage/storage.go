// Package storage keeps generated document blobs (rendered template HTML) in an
// S3-compatible object store and hands out time-limited download links for them.
package storage

import (
	"context"
	"errors"
	"io"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrKeyRequired = errors.New("object key is required")

// PutObjectOptions describe an upload. Size is -1 when unknown.
type PutObjectOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// ObjectInfo describes a stored object.
type ObjectInfo struct {
	Key          string
	Size         int64
	ETag         string
	ContentType  string
	LastModified time.Time
	Metadata     map[string]string
}

// Storage is the object store used for generated documents.
type Storage interface {
	Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error)
	Delete(ctx context.Context, key string) error
	// PresignGet returns a URL that downloads the object without credentials until expiry.
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
}

// DocumentKey builds a unique object key for a generated document of a case,
// e.g. cases/7/3f2a...-affidavit.html.
func DocumentKey(caseID int64, documentName string) string {
	name := strings.ToLower(strings.ReplaceAll(path.Base("/"+documentName), " ", "_"))
	return path.Join("cases", strconv.FormatInt(caseID, 10), uuid.NewString()+"-"+name)
}
