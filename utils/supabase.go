package utils

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	storage "github.com/supabase-community/storage-go"
)

// UploadedFile là metadata trả về cho client sau khi upload
type UploadedFile struct {
	URL  string `json:"url"`
	Key  string `json:"key"`
	Name string `json:"name"`
	Size int64  `json:"size"`
}

// ObjectStorage là nơi lưu file PDF của journal
type ObjectStorage interface {
	Upload(key string, contentType string, data []byte) (publicURL string, err error)
	Remove(keys ...string) error
}

type SupabaseStorage struct {
	client  *storage.Client
	baseURL string
	bucket  string
}

// NewSupabaseStorage đọc SUPABASE_URL, SUPABASE_KEY, SUPABASE_BUCKET (mặc định "uploads")
func NewSupabaseStorage() (*SupabaseStorage, error) {
	supabaseURL := strings.TrimRight(os.Getenv("SUPABASE_URL"), "/")
	supabaseKey := os.Getenv("SUPABASE_KEY")
	if supabaseURL == "" || supabaseKey == "" {
		return nil, fmt.Errorf("SUPABASE_URL hoặc SUPABASE_KEY chưa cấu hình")
	}
	bucket := os.Getenv("SUPABASE_BUCKET")
	if bucket == "" {
		bucket = "uploads"
	}
	return &SupabaseStorage{
		client:  storage.NewClient(supabaseURL+"/storage/v1", supabaseKey, nil),
		baseURL: supabaseURL,
		bucket:  bucket,
	}, nil
}

// ObjectKey sinh key dạng journals/<user>/<uuid>-<slug>.pdf
func ObjectKey(userID, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	base := slug.Make(strings.TrimSuffix(filename, filepath.Ext(filename)))
	if base == "" {
		base = "document"
	}
	return fmt.Sprintf("journals/%s/%s-%s%s", slug.Make(userID), uuid.NewString(), base, ext)
}

func (s *SupabaseStorage) Upload(key string, contentType string, data []byte) (string, error) {
	options := storage.FileOptions{
		ContentType: &contentType,
	}
	if _, err := s.client.UploadFile(s.bucket, key, bytes.NewReader(data), options); err != nil {
		return "", fmt.Errorf("upload %s to supabase: %w", key, err)
	}
	return s.PublicURL(key), nil
}

// Public URL: <SUPABASE_URL>/storage/v1/object/public/<bucket>/<key>
func (s *SupabaseStorage) PublicURL(key string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.baseURL, s.bucket, key)
}

func (s *SupabaseStorage) Remove(keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if _, err := s.client.RemoveFile(s.bucket, keys); err != nil {
		return fmt.Errorf("xóa file Supabase thất bại: %w", err)
	}
	return nil
}
