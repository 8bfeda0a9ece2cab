package runner

import (
	"bytes"
	"fmt"
	"io"
	"sync"
)

const (
	prefixCommandMaxLen    = 16
	prefixCutCommandSuffix = "..."
)

// LogPrefixer is a writer echoing subprocess output line by line, each line tagged with the command.
// Incomplete lines are held until the newline arrives or Flush is called.
type LogPrefixer struct {
	writer  io.Writer
	prefix  []byte
	pending []byte
}

// NewLogPrefixer makes prefixer for the command. stderr lines are marked with "!" after the command.
func NewLogPrefixer(writer io.Writer, command string, stderr bool) *LogPrefixer {
	if len(command) > prefixCommandMaxLen {
		command = command[:prefixCommandMaxLen] + prefixCutCommandSuffix
	}
	mark := ""
	if stderr {
		mark = "!"
	}
	return &LogPrefixer{writer: writer, prefix: fmt.Appendf(nil, "{%s}%s ", command, mark)}
}

// Write echoes all complete lines, always reports the whole input consumed
func (p *LogPrefixer) Write(data []byte) (int, error) {
	p.pending = append(p.pending, data...)
	for {
		idx := bytes.IndexByte(p.pending, '\n')
		if idx < 0 {
			break
		}
		line := p.pending[:idx+1]
		p.pending = p.pending[idx+1:]
		if err := p.writeLine(line); err != nil {
			return len(data), err
		}
	}
	return len(data), nil
}

// Flush writes the last incomplete line, if any, terminated by newline
func (p *LogPrefixer) Flush() error {
	if len(p.pending) == 0 {
		return nil
	}
	line := append(p.pending, '\n')
	p.pending = nil
	return p.writeLine(line)
}

func (p *LogPrefixer) writeLine(line []byte) error {
	buf := make([]byte, 0, len(p.prefix)+len(line))
	buf = append(append(buf, p.prefix...), line...)
	_, err := p.writer.Write(buf)
	return err
}

// syncWriter serializes writes of stdout and stderr prefixers sharing one destination
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}
