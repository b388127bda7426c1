package commandcapture

import (
	"bytes"
	"testing"
)

// chunkBuffer keeps every write separately, so it is not a *bytes.Buffer.
type chunkBuffer struct {
	chunks [][]byte
}

func (c *chunkBuffer) Write(p []byte) (int, error) {
	c.chunks = append(c.chunks, bytes.Clone(p))
	return len(p), nil
}

func (c *chunkBuffer) Bytes() []byte {
	return bytes.Join(c.chunks, nil)
}

func TestFinishReturnsCopyAndResetsOnce(t *testing.T) {
	c := New()
	buf := &bytes.Buffer{}
	resets := 0
	c.Enable(buf, func() { resets++ })
	buf.WriteString("grades\n")

	out := c.Finish()
	if string(out) != "grades\n" {
		t.Fatalf("unexpected captured output: %q", out)
	}
	out[0] = 'G'
	if buf.String() != "grades\n" {
		t.Fatalf("Finish did not return a copy, buffer is now %q", buf.String())
	}
	c.Finish()
	if resets != 1 {
		t.Fatalf("reset called %d times, want 1", resets)
	}
}

func TestFinishReadsCustomBufferAfterWrites(t *testing.T) {
	c := New()
	buf := &chunkBuffer{}
	c.Enable(buf, nil)
	buf.Write([]byte("alice\n"))
	buf.Write([]byte("bob\n"))
	if out := c.Finish(); string(out) != "alice\nbob\n" {
		t.Fatalf("unexpected captured output: %q", out)
	}
	if len(buf.chunks) != 2 {
		t.Fatalf("expected 2 writes, got %d", len(buf.chunks))
	}
}

func TestRestoreIsIdempotent(t *testing.T) {
	c := New()
	resets := 0
	c.Enable(&bytes.Buffer{}, func() { resets++ })
	c.Restore()
	c.Restore()
	if resets != 1 {
		t.Fatalf("reset called %d times, want 1", resets)
	}
}

func TestFinishWithoutEnable(t *testing.T) {
	if out := New().Finish(); out != nil {
		t.Fatalf("expected nil output from disabled capture, got %q", out)
	}
}
