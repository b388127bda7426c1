// Package dump copies a file to a writer byte for byte and optionally holds
// the terminal with a "press enter" prompt afterwards.
package dump

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// PromptText is printed after the file contents before waiting for input.
const PromptText = "Press enter to continue"

// AccessError is returned when the file cannot be opened for reading.
type AccessError struct {
	Path string
	Err  error
}

func (e *AccessError) Error() string {
	return fmt.Sprintf("Cannot access file %s", e.Path)
}

func (e *AccessError) Unwrap() error {
	return e.Err
}

// File writes the contents of path to w unchanged and returns the number of
// bytes copied. Open failures are reported as *AccessError.
func File(w io.Writer, path string) (int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, &AccessError{Path: path, Err: err}
	}
	defer f.Close()
	n, err := io.Copy(w, f)
	if err != nil {
		return n, fmt.Errorf("dump %s: %w", path, err)
	}
	return n, nil
}

// Prompt writes PromptText to w and blocks until a full line, or EOF, is read
// from r. It reads one byte at a time so that nothing past the newline is
// consumed from a stdin shared with sibling processes.
func Prompt(r io.Reader, w io.Writer) error {
	if _, err := fmt.Fprintln(w, PromptText); err != nil {
		return err
	}
	var b [1]byte
	for {
		n, err := r.Read(b[:])
		if n == 1 && b[0] == '\n' {
			return nil
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}
