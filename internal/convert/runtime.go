// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"errors"
	"fmt"
	"io"
	"os/exec"
)

// executor runs external commands. A nil stdout discards output.
type executor interface {
	LookPath(file string) (string, error)
	Run(name string, args []string, stdin io.Reader, stdout io.Writer) error
}

type osExecutor struct{}

func (osExecutor) LookPath(file string) (string, error) { return exec.LookPath(file) }

func (osExecutor) Run(name string, args []string, stdin io.Reader, stdout io.Writer) error {
	cmd := exec.Command(name, args...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	return cmd.Run()
}

// container is a docker-compatible CLI that can run the converter image.
type container struct {
	bin        string
	imageCheck []string
}

// containers lists supported runtimes in order of preference.
var containers = []container{
	{bin: "docker", imageCheck: []string{"image", "inspect"}},
	{bin: "podman", imageCheck: []string{"image", "exists"}},
}

// findContainer returns the first runtime that is on PATH and answers
// "info".
func findContainer(ex executor) (*container, error) {
	for i := range containers {
		c := &containers[i]
		if _, err := ex.LookPath(c.bin); err != nil {
			continue
		}
		if ex.Run(c.bin, []string{"info"}, nil, nil) == nil {
			return c, nil
		}
	}
	return nil, errors.New("no container runtime available: tried docker and podman")
}

func (c *container) hasImage(ex executor, image string) error {
	args := append(append([]string{}, c.imageCheck...), image)
	if err := ex.Run(c.bin, args, nil, nil); err != nil {
		return fmt.Errorf("%s has no image %s: %w", c.bin, image, err)
	}
	return nil
}

// run starts a throwaway container of image running cmd with stdin and
// stdout attached.
func (c *container) run(ex executor, image string, cmd []string, stdin io.Reader, stdout io.Writer) error {
	args := append([]string{"run", "--rm", "-i", image}, cmd...)
	if err := ex.Run(c.bin, args, stdin, stdout); err != nil {
		return fmt.Errorf("%s run %s: %w", c.bin, image, err)
	}
	return nil
}
