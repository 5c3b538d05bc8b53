// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads credentials from a directory of plain-text files.
// Each file is one secret: the filename is the key and the trimmed file
// contents are the value.
//
// Recognized keys: aws-access-key-id, aws-secret-access-key, s3-bucket.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/toa-engine/pkg/types"
)

const (
	KeyAWSAccessKey = "aws-access-key-id"
	KeyAWSSecretKey = "aws-secret-access-key"
	KeyS3Bucket     = "s3-bucket"
)

// Secrets holds loaded values and the names of files that could not be
// read.
type Secrets struct {
	Values map[string]string
	Unread []string
}

// Load reads every regular, non-hidden file in dir. A missing directory is
// not an error and yields no values. Unreadable files are listed in Unread
// and otherwise skipped.
func Load(dir string) (Secrets, error) {
	s := Secrets{Values: map[string]string{}}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return Secrets{}, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			s.Unread = append(s.Unread, name)
			continue
		}
		if value := strings.TrimSpace(string(data)); value != "" {
			s.Values[name] = value
		}
	}
	return s, nil
}

// ApplyArtifact fills credentials and bucket in cfg that configuration left
// empty. Values already set are never overwritten.
func (s Secrets) ApplyArtifact(cfg *types.ArtifactConfig) {
	fill := func(dst *string, key string) {
		if *dst == "" {
			*dst = s.Values[key]
		}
	}
	fill(&cfg.AWSAccessKey, KeyAWSAccessKey)
	fill(&cfg.AWSSecretKey, KeyAWSSecretKey)
	fill(&cfg.S3Bucket, KeyS3Bucket)
}
