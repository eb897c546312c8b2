// Package log provides the lazystage debug log. Output is buffered until a
// destination is chosen, so messages emitted while flags and config are still
// being read are not lost.
package log

import (
	"io"
	"log"
	"os"
	"sync"
)

// DebugLogger is the io.Writer behind the package logger. It writes to a file
// once one is set and buffers until then.
type DebugLogger struct {
	mu      sync.Mutex
	out     io.WriteCloser
	buffer  []byte
	discard bool
}

var (
	debugOut  = &DebugLogger{}
	stdLogger = log.New(debugOut, "", log.LstdFlags|log.Lmicroseconds)
)

// Write implements io.Writer.
func (l *DebugLogger) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	switch {
	case l.discard:
		return len(p), nil
	case l.out != nil:
		n, err := l.out.Write(p)
		if f, ok := l.out.(*os.File); ok {
			_ = f.Sync()
		}
		return n, err
	}

	// p may be reused by the caller
	l.buffer = append(l.buffer, p...)
	return len(p), nil
}

func (l *DebugLogger) closeLocked() error {
	if l.out == nil {
		return nil
	}
	err := l.out.Close()
	l.out = nil
	return err
}

// SetFile directs the log to path, flushing anything buffered so far.
// An empty path drops the buffer and discards all further messages.
func SetFile(path string) error {
	debugOut.mu.Lock()
	defer debugOut.mu.Unlock()

	_ = debugOut.closeLocked()

	if path == "" {
		debugOut.discard = true
		debugOut.buffer = nil
		return nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600) //nolint:gosec
	if err != nil {
		debugOut.discard = true
		debugOut.buffer = nil
		return err
	}

	debugOut.out = f
	debugOut.discard = false
	if len(debugOut.buffer) > 0 {
		_, _ = f.Write(debugOut.buffer)
		_ = f.Sync()
		debugOut.buffer = nil
	}
	return nil
}

// Printf writes a formatted debug message.
func Printf(format string, args ...any) {
	stdLogger.Printf(format, args...)
}

// Println writes a debug message.
func Println(v ...any) {
	stdLogger.Println(v...)
}

// Close closes the log file if one is open.
func Close() error {
	debugOut.mu.Lock()
	defer debugOut.mu.Unlock()
	return debugOut.closeLocked()
}
