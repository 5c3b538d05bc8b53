// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// mockExecutor answers LookPath from availableBins, output-less commands
// from runnableCmds, and commands with output through runPipedFunc.
type mockExecutor struct {
	availableBins map[string]bool
	runnableCmds  map[string]bool // "bin arg1 arg2"
	runPipedFunc  func(name string, args []string, stdin io.Reader, stdout io.Writer) error
}

func (m *mockExecutor) LookPath(file string) (string, error) {
	if m.availableBins[file] {
		return "/usr/bin/" + file, nil
	}
	return "", errors.New("not found: " + file)
}

func (m *mockExecutor) Run(name string, args []string, stdin io.Reader, stdout io.Writer) error {
	if stdout == nil {
		key := name + " " + strings.Join(args, " ")
		if m.runnableCmds[key] {
			return nil
		}
		return errors.New("command failed: " + key)
	}
	if m.runPipedFunc != nil {
		return m.runPipedFunc(name, args, stdin, stdout)
	}
	return nil
}

func TestFindContainer(t *testing.T) {
	tests := []struct {
		name     string
		exec     *mockExecutor
		wantName string
		wantErr  bool
	}{
		{
			name: "docker available",
			exec: &mockExecutor{
				availableBins: map[string]bool{"docker": true},
				runnableCmds:  map[string]bool{"docker info": true},
			},
			wantName: "docker",
		},
		{
			name: "podman fallback when docker missing",
			exec: &mockExecutor{
				availableBins: map[string]bool{"podman": true},
				runnableCmds:  map[string]bool{"podman info": true},
			},
			wantName: "podman",
		},
		{
			name:    "neither available",
			exec:    &mockExecutor{},
			wantErr: true,
		},
		{
			name: "docker on PATH but info fails",
			exec: &mockExecutor{
				availableBins: map[string]bool{"docker": true, "podman": true},
				runnableCmds:  map[string]bool{"podman info": true},
			},
			wantName: "podman",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := findContainer(tt.exec)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !strings.Contains(err.Error(), "no container runtime available") {
					t.Errorf("error should mention no runtime available, got: %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if c.bin != tt.wantName {
				t.Errorf("got runtime %q, want %q", c.bin, tt.wantName)
			}
		})
	}
}

func TestHasImage(t *testing.T) {
	exec := &mockExecutor{runnableCmds: map[string]bool{"podman image exists " + DefaultImage: true}}
	docker, podman := &containers[0], &containers[1]
	if err := podman.hasImage(exec, DefaultImage); err != nil {
		t.Errorf("podman image should exist: %v", err)
	}
	err := docker.hasImage(exec, DefaultImage)
	if err == nil || !strings.Contains(err.Error(), DefaultImage) {
		t.Errorf("docker error should mention image, got: %v", err)
	}
}

func TestNewPdftotextPrefersLocalBinary(t *testing.T) {
	exec := &mockExecutor{
		availableBins: map[string]bool{"pdftotext": true, "docker": true},
		runnableCmds:  map[string]bool{"docker info": true},
	}
	p, err := newPdftotext(exec, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Backend() != "pdftotext" {
		t.Errorf("backend = %q, want pdftotext", p.Backend())
	}
	if p.image != DefaultImage {
		t.Errorf("image = %q, want default", p.image)
	}
}

func TestNewPdftotextContainerFallback(t *testing.T) {
	tests := []struct {
		name    string
		cmds    map[string]bool
		want    string
		wantErr bool
	}{
		{
			name: "image present",
			cmds: map[string]bool{"docker info": true, "docker image inspect poppler:test": true},
			want: "docker",
		},
		{
			name:    "image missing",
			cmds:    map[string]bool{"docker info": true},
			wantErr: true,
		},
		{
			name:    "no runtime",
			cmds:    map[string]bool{},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := &mockExecutor{availableBins: map[string]bool{"docker": true}, runnableCmds: tt.cmds}
			p, err := newPdftotext(exec, "poppler:test")
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !strings.Contains(err.Error(), "pdftotext not on PATH") {
					t.Errorf("error should mention missing pdftotext, got: %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if p.Backend() != tt.want {
				t.Errorf("backend = %q, want %q", p.Backend(), tt.want)
			}
		})
	}
}

func TestConvertLocal(t *testing.T) {
	var gotName string
	var gotArgs []string
	exec := &mockExecutor{
		availableBins: map[string]bool{"pdftotext": true},
		runPipedFunc: func(name string, args []string, _ io.Reader, stdout io.Writer) error {
			gotName, gotArgs = name, args
			_, err := io.WriteString(stdout, "page one\fpage two\f")
			return err
		},
	}
	p, err := newPdftotext(exec, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	text, err := p.Convert("/briefs/opening.pdf")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "page one\fpage two\f" {
		t.Errorf("text = %q", text)
	}
	if gotName != "pdftotext" {
		t.Errorf("ran %q, want pdftotext", gotName)
	}
	if want := "-layout -enc UTF-8 /briefs/opening.pdf -"; strings.Join(gotArgs, " ") != want {
		t.Errorf("args = %q, want %q", strings.Join(gotArgs, " "), want)
	}
}

func TestConvertContainerPipesFile(t *testing.T) {
	pdf := filepath.Join(t.TempDir(), "brief.pdf")
	if err := os.WriteFile(pdf, []byte("%PDF-1.7 fake"), 0o644); err != nil {
		t.Fatal(err)
	}

	var gotArgs []string
	var gotStdin string
	exec := &mockExecutor{
		availableBins: map[string]bool{"podman": true},
		runnableCmds:  map[string]bool{"podman info": true, "podman image exists " + DefaultImage: true},
		runPipedFunc: func(_ string, args []string, stdin io.Reader, stdout io.Writer) error {
			gotArgs = args
			b, _ := io.ReadAll(stdin)
			gotStdin = string(b)
			_, err := io.WriteString(stdout, "See 42 U.S.C. § 1983.\f")
			return err
		},
	}
	p, err := newPdftotext(exec, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := p.Convert(pdf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "run --rm -i " + DefaultImage + " pdftotext -layout -enc UTF-8 - -"
	if strings.Join(gotArgs, " ") != want {
		t.Errorf("args = %q, want %q", strings.Join(gotArgs, " "), want)
	}
	if gotStdin != "%PDF-1.7 fake" {
		t.Errorf("stdin = %q", gotStdin)
	}
}

func TestConvertErrors(t *testing.T) {
	t.Run("command fails", func(t *testing.T) {
		exec := &mockExecutor{
			availableBins: map[string]bool{"pdftotext": true},
			runPipedFunc: func(string, []string, io.Reader, io.Writer) error {
				return errors.New("exit status 1")
			},
		}
		p, _ := newPdftotext(exec, "")
		if _, err := p.Convert("broken.pdf"); err == nil || !strings.Contains(err.Error(), "broken.pdf") {
			t.Errorf("expected error naming the file, got: %v", err)
		}
	})

	t.Run("empty output", func(t *testing.T) {
		exec := &mockExecutor{
			availableBins: map[string]bool{"pdftotext": true},
			runPipedFunc: func(_ string, _ []string, _ io.Reader, stdout io.Writer) error {
				_, err := io.WriteString(stdout, " \f\n\f")
				return err
			},
		}
		p, _ := newPdftotext(exec, "")
		if _, err := p.Convert("scanned.pdf"); !errors.Is(err, ErrEmptyOutput) {
			t.Errorf("expected ErrEmptyOutput, got: %v", err)
		}
	})

	t.Run("missing file in container mode", func(t *testing.T) {
		exec := &mockExecutor{
			availableBins: map[string]bool{"docker": true},
			runnableCmds:  map[string]bool{"docker info": true, "docker image inspect " + DefaultImage: true},
		}
		p, err := newPdftotext(exec, "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := p.Convert(filepath.Join(t.TempDir(), "absent.pdf")); err == nil {
			t.Error("expected error for missing file")
		}
	})
}
