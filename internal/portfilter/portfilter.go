// Package portfilter pulls the local port out of a JSON response line such as
// {"name":"course_manager","url":"http://127.0.0.1:8004"}.
package portfilter

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
)

const (
	// Marker precedes the port in the response.
	Marker = `"url":"http://127.0.0.1:`
	// MaxInput bounds how much of stdin is examined.
	MaxInput = 99
	// NotFound is written in place of a port when extraction fails.
	NotFound = "-1"
)

var (
	ErrNoMarker    = errors.New("portfilter: marker not found")
	ErrNoPort      = errors.New("portfilter: no digits after marker")
	ErrInvalidPort = errors.New("portfilter: port out of range")
)

// ReadLine returns at most MaxInput bytes from r, stopping after the first
// newline.
func ReadLine(r io.Reader) ([]byte, error) {
	buf := make([]byte, 0, MaxInput)
	var b [1]byte
	for len(buf) < MaxInput {
		n, err := r.Read(b[:])
		if n == 1 {
			buf = append(buf, b[0])
			if b[0] == '\n' {
				break
			}
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return buf, err
		}
	}
	return buf, nil
}

// Find locates the first Marker in line and returns the run of ASCII digits
// immediately after it. Whatever follows the digits is ignored.
func Find(line []byte) (string, error) {
	i := bytes.Index(line, []byte(Marker))
	if i < 0 {
		return "", ErrNoMarker
	}
	rest := line[i+len(Marker):]
	end := 0
	for end < len(rest) && rest[end] >= '0' && rest[end] <= '9' {
		end++
	}
	if end == 0 {
		return "", ErrNoPort
	}
	digits := string(rest[:end])
	if _, err := strconv.ParseUint(digits, 10, 16); err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidPort, digits)
	}
	return digits, nil
}

// Extract reads one bounded line from r and returns the port in it.
func Extract(r io.Reader) (string, error) {
	line, err := ReadLine(r)
	if err != nil {
		return "", err
	}
	return Find(line)
}
