package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Storage persists uploaded legal documents (judgments, FIRs, charge
// sheets) outside the database. Implementations return an opaque storage
// key that is recorded on the document row and used for later retrieval.
type Storage interface {
	// Upload stores the document body and returns its storage key.
	Upload(ctx context.Context, docID uuid.UUID, filename string, data io.Reader) (string, error)

	// Download streams a previously uploaded document.
	Download(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes the document body.
	Delete(ctx context.Context, key string) error
}

// Backend selects the storage implementation.
type Backend string

const (
	BackendLocal Backend = "local"
	BackendS3    Backend = "s3"
)

// Config holds settings for the selected backend.
type Config struct {
	Backend   Backend
	LocalPath string

	S3Bucket     string
	S3Region     string
	AWSAccessKey string
	AWSSecretKey string
}

// NewStorage builds the backend named in cfg.
func NewStorage(cfg Config) (Storage, error) {
	switch cfg.Backend {
	case BackendLocal:
		return NewLocalStorage(cfg.LocalPath)
	case BackendS3:
		return NewS3Storage(cfg)
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", cfg.Backend)
	}
}

// NewStorageFromEnv reads STORAGE_TYPE and the backend-specific variables.
// Local disk is the default so development needs no configuration.
func NewStorageFromEnv() (Storage, error) {
	backend := Backend(os.Getenv("STORAGE_TYPE"))
	if backend == "" {
		backend = BackendLocal
	}

	switch backend {
	case BackendLocal:
		path := os.Getenv("STORAGE_LOCAL_PATH")
		if path == "" {
			path = "./storage/documents"
		}
		return NewLocalStorage(path)

	case BackendS3:
		cfg := Config{
			Backend:      BackendS3,
			S3Bucket:     os.Getenv("AWS_S3_BUCKET"),
			S3Region:     os.Getenv("AWS_REGION"),
			AWSAccessKey: os.Getenv("AWS_ACCESS_KEY_ID"),
			AWSSecretKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
		}
		if cfg.S3Region == "" {
			cfg.S3Region = "ap-south-1"
		}
		if cfg.S3Bucket == "" {
			return nil, errors.New("AWS_S3_BUCKET is required when STORAGE_TYPE=s3")
		}
		return NewS3Storage(cfg)

	default:
		return nil, fmt.Errorf("unknown storage backend: %s", backend)
	}
}

// documentKey derives the storage key for a document. The document id
// guarantees uniqueness; the sanitized filename keeps keys readable when
// browsing the bucket or directory.
func documentKey(docID uuid.UUID, filename string) string {
	base := filepath.Base(filename)
	base = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '/', '\\':
			return '_'
		}
		return r
	}, base)
	return fmt.Sprintf("documents/%s/%s", docID, base)
}
