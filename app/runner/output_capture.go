package runner

import (
	"bytes"
	"strings"
	"sync"
)

// OutputCapture captures a single output stream of a command.
// It keeps the last N complete lines in a circular buffer plus the trailing partial line,
// so lines split across writes are joined. Thread safe for concurrent writes.
type OutputCapture struct {
	maxLines int // <=0 means unlimited
	lines    []string
	partial  []byte
	mu       sync.Mutex
}

// NewOutputCapture creates io.Writer that captures output limited to last maxLines lines
func NewOutputCapture(maxLines int) *OutputCapture {
	return &OutputCapture{maxLines: maxLines}
}

// Write satisfies io.Writer interface
func (o *OutputCapture) Write(p []byte) (n int, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	data := append(o.partial, p...) //nolint:gocritic // partial is owned by capture
	for {
		idx := bytes.IndexByte(data, '\n')
		if idx < 0 {
			break
		}
		o.push(string(data[:idx]))
		data = data[idx+1:]
	}
	o.partial = append([]byte(nil), data...)
	return len(p), nil
}

func (o *OutputCapture) push(line string) {
	if o.maxLines > 0 && len(o.lines) >= o.maxLines {
		o.lines = o.lines[1:]
	}
	o.lines = append(o.lines, line)
}

// String returns the captured output. Complete lines keep their trailing newline.
func (o *OutputCapture) String() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	var sb strings.Builder
	for _, l := range o.lines {
		sb.WriteString(l)
		sb.WriteByte('\n')
	}
	sb.Write(o.partial)
	return sb.String()
}
