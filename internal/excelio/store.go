package excelio

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"

	"github.com/isvialnva/excel-processor/internal/appcontext"
)

// uploadDir is the store-relative directory holding uploaded spreadsheets.
const uploadDir = "excel_files"

// Store persists uploaded spreadsheet payloads. Paths are store-relative and
// slash-separated.
type Store interface {
	// Save writes the payload under a collision-free generated path and
	// returns that path. name is only used for its extension.
	Save(name string, r io.Reader) (string, error)
	Open(path string) (io.ReadCloser, error)
	Remove(path string) error
}

// NewStore picks GCS when the context carries a bucket, local disk otherwise.
func NewStore(ctx *appcontext.Context) Store {
	if ctx.GCSClient != nil && ctx.GCSBucketName != "" {
		return &GCSStore{Client: ctx.GCSClient, Bucket: ctx.GCSBucketName}
	}
	return &LocalStore{Root: ctx.MediaRoot}
}

func generatePath(name string) string {
	return path.Join(uploadDir, uuid.New().String()+filepath.Ext(name))
}

// LocalStore keeps files under a root directory on disk.
type LocalStore struct {
	Root string
}

func (s *LocalStore) Save(name string, r io.Reader) (string, error) {
	rel := generatePath(name)
	abs := filepath.Join(s.Root, filepath.FromSlash(rel))

	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	dst, err := os.Create(abs)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", abs, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, r); err != nil {
		return "", fmt.Errorf("write %s: %w", abs, err)
	}
	return rel, nil
}

func (s *LocalStore) Open(rel string) (io.ReadCloser, error) {
	return os.Open(filepath.Join(s.Root, filepath.FromSlash(rel)))
}

func (s *LocalStore) Remove(rel string) error {
	err := os.Remove(filepath.Join(s.Root, filepath.FromSlash(rel)))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// GCSStore keeps files as objects in a GCS bucket.
type GCSStore struct {
	Client *storage.Client
	Bucket string
}

func (s *GCSStore) Save(name string, r io.Reader) (string, error) {
	rel := generatePath(name)

	w := s.Client.Bucket(s.Bucket).Object(rel).NewWriter(context.Background())
	if _, err := io.Copy(w, r); err != nil {
		return "", fmt.Errorf("upload to GCS: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("close GCS writer: %w", err)
	}
	return rel, nil
}

func (s *GCSStore) Open(rel string) (io.ReadCloser, error) {
	return s.Client.Bucket(s.Bucket).Object(rel).NewReader(context.Background())
}

func (s *GCSStore) Remove(rel string) error {
	return s.Client.Bucket(s.Bucket).Object(rel).Delete(context.Background())
}
