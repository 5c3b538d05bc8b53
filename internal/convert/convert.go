// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert turns PDF briefs into plain text with form feeds between
// pages, ready for page splitting.
package convert

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
)

const (
	binPdftotext = "pdftotext"

	// DefaultImage is the container image used when pdftotext is not
	// installed locally. Any image with poppler-utils on PATH works.
	DefaultImage = "minidocks/poppler:latest"
)

// ErrEmptyOutput is returned when a PDF converts to no text at all, which
// usually means a scanned document without a text layer.
var ErrEmptyOutput = errors.New("convert: empty output")

// Converter transforms a PDF file into page-delimited text.
type Converter interface {
	// Convert reads the PDF at pdfPath and returns its text.
	Convert(pdfPath string) (string, error)
}

// Pdftotext runs poppler's pdftotext in layout mode, either from PATH or
// inside a container.
type Pdftotext struct {
	exec      executor
	container *container // nil when the local binary is used
	image     string
}

// NewPdftotext returns a converter backed by a local pdftotext binary, or
// by image in docker or podman when the binary is missing. An empty image
// means DefaultImage.
func NewPdftotext(image string) (*Pdftotext, error) {
	return newPdftotext(osExecutor{}, image)
}

func newPdftotext(exec executor, image string) (*Pdftotext, error) {
	if image == "" {
		image = DefaultImage
	}
	if _, err := exec.LookPath(binPdftotext); err == nil {
		return &Pdftotext{exec: exec, image: image}, nil
	}
	c, err := findContainer(exec)
	if err != nil {
		return nil, fmt.Errorf("%s not on PATH: %w", binPdftotext, err)
	}
	if err := c.hasImage(exec, image); err != nil {
		return nil, fmt.Errorf("%s not on PATH: %w", binPdftotext, err)
	}
	return &Pdftotext{exec: exec, container: c, image: image}, nil
}

// Backend names where conversion runs: "pdftotext", "docker" or "podman".
func (p *Pdftotext) Backend() string {
	if p.container != nil {
		return p.container.bin
	}
	return binPdftotext
}

// Convert extracts the text of pdfPath. Pages are separated by form feeds.
func (p *Pdftotext) Convert(pdfPath string) (string, error) {
	var out bytes.Buffer
	if p.container == nil {
		args := []string{"-layout", "-enc", "UTF-8", pdfPath, "-"}
		if err := p.exec.Run(binPdftotext, args, nil, &out); err != nil {
			return "", fmt.Errorf("converting %s: %w", pdfPath, err)
		}
	} else {
		f, err := os.Open(pdfPath)
		if err != nil {
			return "", fmt.Errorf("opening PDF %s: %w", pdfPath, err)
		}
		defer f.Close()
		cmd := []string{binPdftotext, "-layout", "-enc", "UTF-8", "-", "-"}
		if err := p.container.run(p.exec, p.image, cmd, f, &out); err != nil {
			return "", fmt.Errorf("converting %s: %w", pdfPath, err)
		}
	}

	if strings.TrimSpace(strings.ReplaceAll(out.String(), "\f", "")) == "" {
		return "", fmt.Errorf("%s: %w", pdfPath, ErrEmptyOutput)
	}
	return out.String(), nil
}
