//go:build !windows

// Package stderr captures output that C audio libraries (ALSA) write straight
// to file descriptor 2, bypassing os.Stderr, so it cannot corrupt the
// terminal UI.
package stderr

import (
	"bufio"
	"os"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sys/unix"
)

// Capture redirects fd 2 into a logger until Stop is called.
type Capture struct {
	orig int
	r, w *os.File
	done chan struct{}
}

// Start redirects fd 2. Captured lines are logged at warn level. On error
// nothing is redirected and the program can carry on without capture.
func Start(log *zap.Logger) (*Capture, error) {
	if log == nil {
		log = zap.NewNop()
	}
	r, w, err := os.Pipe()
	if err != nil {
		return nil, err
	}

	fd := int(os.Stderr.Fd())
	orig, err := unix.Dup(fd)
	if err != nil {
		r.Close()
		w.Close()
		return nil, err
	}
	if err := unix.Dup2(int(w.Fd()), fd); err != nil {
		unix.Close(orig)
		r.Close()
		w.Close()
		return nil, err
	}

	c := &Capture{orig: orig, r: r, w: w, done: make(chan struct{})}
	go c.forward(log)
	return c, nil
}

func (c *Capture) forward(log *zap.Logger) {
	defer close(c.done)
	scanner := bufio.NewScanner(c.r)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			log.Warn("stderr", zap.String("line", line))
		}
	}
}

// WriteOriginal writes to the terminal's stderr, bypassing capture.
func (c *Capture) WriteOriginal(msg string) {
	_, _ = unix.Write(c.orig, []byte(msg))
}

// Stop restores fd 2 and waits for pending lines to be logged.
func (c *Capture) Stop() {
	fd := int(os.Stderr.Fd())
	_ = unix.Dup2(c.orig, fd)
	_ = unix.Close(c.orig)

	// fd 2 no longer refers to the pipe, so closing the write end ends the
	// forwarder.
	c.w.Close()
	<-c.done
	c.r.Close()
}
