// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package artifact publishes rendered tables of authorities to local disk
// or an S3 bucket.
package artifact

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/pdiddy/toa-engine/pkg/types"
)

const defaultRegion = "us-east-1"

// ErrNotFound is returned when a key names no stored artifact.
var ErrNotFound = errors.New("artifact: not found")

// Storage stores and retrieves artifacts by key.
type Storage interface {
	// Put stores data and returns its key.
	Put(ctx context.Context, id uuid.UUID, name string, data io.Reader) (string, error)

	// Get opens the artifact stored under key.
	Get(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes the artifact under key. Missing keys are not an error.
	Delete(ctx context.Context, key string) error
}

// New returns the backend named by cfg.Type. An empty type means local.
func New(ctx context.Context, cfg types.ArtifactConfig) (Storage, error) {
	switch cfg.Type {
	case types.ArtifactLocal, "":
		return NewLocal(cfg.LocalPath)
	case types.ArtifactS3:
		if cfg.S3Bucket == "" {
			return nil, errors.New("artifact: s3_bucket is required for s3 storage")
		}
		if cfg.S3Region == "" {
			cfg.S3Region = defaultRegion
		}
		return NewS3(ctx, cfg)
	default:
		return nil, fmt.Errorf("artifact: unknown storage type %q", cfg.Type)
	}
}

// Publish stores a rendered table named after source and returns its key.
// OOXML output gets an .xml extension, plain text a .txt one.
func Publish(ctx context.Context, st Storage, source, rendered string, ooxml bool) (string, error) {
	ext := ".txt"
	if ooxml {
		ext = ".xml"
	}
	base := filepath.Base(source)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" || base == "." || base == "/" {
		base = "document"
	}
	return st.Put(ctx, uuid.New(), base+"-toa"+ext, strings.NewReader(rendered))
}

// objectKey shards by the first two characters of the id and keeps a
// sanitized copy of the name for readability.
func objectKey(id uuid.UUID, name string) string {
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	base = strings.NewReplacer(" ", "_", "/", "_", `\`, "_").Replace(base)
	s := id.String()
	return fmt.Sprintf("%s/%s_%s%s", s[:2], s, base, ext)
}

func contentType(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".txt":
		return "text/plain; charset=utf-8"
	case ".xml":
		return "application/xml"
	case ".json":
		return "application/json"
	case ".yaml", ".yml":
		return "application/yaml"
	case ".pdf":
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}
