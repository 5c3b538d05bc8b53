// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package source loads briefs from disk or the web and splits them into
// page maps for scanning.
package source

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pdiddy/toa-engine/internal/convert"
	"github.com/pdiddy/toa-engine/internal/httputil"
	"github.com/pdiddy/toa-engine/pkg/types"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "toa-engine/0.1"
)

var (
	// ErrEmpty is returned when a location yields no text.
	ErrEmpty = errors.New("source: document has no text")

	// ErrNoConverter is returned for PDF input when no converter is set.
	ErrNoConverter = errors.New("source: no PDF converter configured")
)

// Document is a loaded brief.
type Document struct {
	Location string
	Text     string
	Pages    types.PageMap
}

// Loader resolves locations to documents.
type Loader struct {
	cfg       types.SourceConfig
	client    *http.Client
	converter convert.Converter
}

// NewLoader returns a loader. conv may be nil, in which case PDF locations
// fail with ErrNoConverter.
func NewLoader(cfg types.SourceConfig, conv convert.Converter) *Loader {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	return &Loader{
		cfg:       cfg,
		client:    &http.Client{Timeout: cfg.Timeout},
		converter: conv,
	}
}

// WithClient replaces the HTTP client, mainly for tests.
func (l *Loader) WithClient(c *http.Client) *Loader {
	l.client = c
	return l
}

// Load reads location and splits it into pages. http and https URLs are
// fetched with 429 backoff; PDFs, local or remote, go through the
// converter; anything else is read as UTF-8 text.
func (l *Loader) Load(ctx context.Context, location string) (*Document, error) {
	var (
		text string
		err  error
	)
	if isURL(location) {
		text, err = l.fetch(ctx, location)
	} else if isPDF(location) {
		text, err = l.convertFile(location)
	} else {
		var data []byte
		data, err = os.ReadFile(location)
		text = string(data)
	}
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", location, err)
	}
	if strings.TrimSpace(strings.ReplaceAll(text, "\f", "")) == "" {
		return nil, fmt.Errorf("loading %s: %w", location, ErrEmpty)
	}
	return &Document{
		Location: location,
		Text:     text,
		Pages:    Split(text, l.cfg.CharsPerPage),
	}, nil
}

func (l *Loader) fetch(ctx context.Context, url string) (string, error) {
	body, contentType, err := httputil.Get(ctx, l.client, url, l.cfg.UserAgent, l.cfg.MaxRetries)
	if err != nil {
		return "", err
	}
	if !strings.HasPrefix(contentType, "application/pdf") && !isPDF(url) {
		return string(body), nil
	}

	tmp, err := os.CreateTemp("", "toa-*.pdf")
	if err != nil {
		return "", fmt.Errorf("staging PDF: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(body); err != nil {
		tmp.Close()
		return "", fmt.Errorf("staging PDF: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("staging PDF: %w", err)
	}
	return l.convertFile(tmp.Name())
}

func (l *Loader) convertFile(path string) (string, error) {
	if l.converter == nil {
		return "", ErrNoConverter
	}
	return l.converter.Convert(path)
}

func isURL(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

func isPDF(location string) bool {
	if i := strings.IndexAny(location, "?#"); i >= 0 && isURL(location) {
		location = location[:i]
	}
	return strings.EqualFold(filepath.Ext(location), ".pdf")
}
