package console

import (
	"fmt"
	"io"
	"sync"
)

// WriterNotifier prints notifications as lines on w.
type WriterNotifier struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterNotifier creates a WriterNotifier.
func NewWriterNotifier(w io.Writer) *WriterNotifier {
	return &WriterNotifier{w: w}
}

func (n *WriterNotifier) Success(msg string) { n.print("ok", msg) }
func (n *WriterNotifier) Error(msg string)   { n.print("error", msg) }

func (n *WriterNotifier) print(kind, msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	_, _ = fmt.Fprintf(n.w, "[%s] %s\n", kind, msg)
}

type nopNotifier struct{}

func (nopNotifier) Success(string) {}
func (nopNotifier) Error(string)   {}
