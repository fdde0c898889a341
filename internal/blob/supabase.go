package blob

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/guonaihong/gout"
	"github.com/labstack/gommon/bytes"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// SupabaseStore uploads objects through the Supabase storage REST API
type SupabaseStore struct {
	baseURL string
	key     string
	bucket  string
}

func NewSupabaseStore(baseURL, key, bucket string) *SupabaseStore {
	return &SupabaseStore{baseURL: strings.TrimSuffix(baseURL, "/"), key: key, bucket: bucket}
}

func (s *SupabaseStore) objectURL(name string) string {
	return fmt.Sprintf("%s/storage/v1/object/%s/%s", s.baseURL, s.bucket, name)
}

// PublicURL is where a public bucket serves the object
func (s *SupabaseStore) PublicURL(name string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.baseURL, s.bucket, name)
}

func (s *SupabaseStore) Put(ctx context.Context, name, contentType string, data []byte) (string, error) {
	var (
		code int
		resp string
	)
	err := gout.POST(s.objectURL(name)).
		WithContext(ctx).
		SetHeader(gout.H{
			"Authorization": "Bearer " + s.key,
			"apikey":        s.key,
			"Content-Type":  contentType,
			"x-upsert":      "true",
		}).
		SetBody(data).
		BindBody(&resp).
		Code(&code).
		Do()
	if err != nil {
		return "", errors.Wrapf(err, "upload %s", name)
	}
	if code != http.StatusOK && code != http.StatusCreated {
		zap.L().Error("supabase upload rejected", zap.Int("status", code), zap.String("body", resp),
			zap.String("namespace", "blob"))
		return "", errors.Errorf("upload %s: status %d", name, code)
	}
	zap.L().Info("uploaded to supabase", zap.String("name", name),
		zap.String("size", bytes.Format(int64(len(data)))), zap.String("namespace", "blob"))
	return s.PublicURL(name), nil
}
