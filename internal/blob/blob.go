// Package blob stores uploaded catalog images and returns the URL they are
// served from.
package blob

import (
	"context"
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"

	"github.com/labstack/gommon/bytes"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Store puts one object and returns its public URL
type Store interface {
	Put(ctx context.Context, name, contentType string, data []byte) (string, error)
}

var ErrInvalidDataURL = errors.New("invalid data url")

var imageExtensions = map[string]string{
	"image/png":     "png",
	"image/jpeg":    "jpg",
	"image/jpg":     "jpg",
	"image/webp":    "webp",
	"image/gif":     "gif",
	"image/svg+xml": "svg",
	"image/avif":    "avif",
}

// IsDataURL reports whether s is an inline base64 image payload
func IsDataURL(s string) bool {
	return strings.HasPrefix(s, "data:image/") && strings.Contains(s, ";base64,")
}

// ParseDataURL decodes data:image/png;base64,... into its content type,
// file extension and bytes. Only the image types in imageExtensions are
// accepted.
func ParseDataURL(s string) (contentType, ext string, data []byte, err error) {
	if !IsDataURL(s) {
		return "", "", nil, ErrInvalidDataURL
	}
	header, payload, _ := strings.Cut(strings.TrimPrefix(s, "data:"), ";base64,")
	contentType = strings.ToLower(header)
	ext, ok := imageExtensions[contentType]
	if !ok {
		return "", "", nil, errors.Wrapf(ErrInvalidDataURL, "unsupported image type %q", contentType)
	}
	data, err = base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", "", nil, errors.Wrap(ErrInvalidDataURL, err.Error())
	}
	if len(data) == 0 {
		return "", "", nil, ErrInvalidDataURL
	}
	return contentType, ext, data, nil
}

// LocalStore writes files under a directory served by the web server
type LocalStore struct {
	dir    string
	prefix string
}

// NewLocalStore serves files written to dir under the URL prefix, usually /uploads
func NewLocalStore(dir, prefix string) *LocalStore {
	return &LocalStore{dir: dir, prefix: strings.TrimSuffix(prefix, "/")}
}

func (s *LocalStore) Put(_ context.Context, name, _ string, data []byte) (string, error) {
	name = filepath.Base(filepath.Clean("/" + name))
	if name == "/" || name == "." {
		return "", errors.New("empty object name")
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", errors.Wrap(err, "create upload dir")
	}
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", errors.Wrapf(err, "write upload %s", name)
	}
	zap.L().Info("stored upload", zap.String("name", name), zap.String("size", bytes.Format(int64(len(data)))),
		zap.String("namespace", "blob"))
	return s.prefix + "/" + name, nil
}
