package cli

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
)

// ErrInputCancelled reports that a read was abandoned because the
// context was canceled.
var ErrInputCancelled = errors.New("input canceled")

// NonBlockingReader reads line-oriented input without pinning the caller
// to a blocked Read. Cancellation returns control immediately even while
// a read is in flight.
type NonBlockingReader struct {
	reader *bufio.Reader
	mu     sync.Mutex
}

// NewNonBlockingReader wraps reader for context-aware reads.
func NewNonBlockingReader(reader io.Reader) *NonBlockingReader {
	if reader == nil {
		panic("reader cannot be nil")
	}

	return &NonBlockingReader{
		reader: bufio.NewReader(reader),
	}
}

// ReadString reads until delim or the context is canceled.
func (r *NonBlockingReader) ReadString(ctx context.Context, delim byte) (string, error) {
	if ctx.Err() != nil {
		return "", ErrInputCancelled
	}

	type result struct {
		err   error
		value string
	}
	resultCh := make(chan result, 1)

	go func() {
		r.mu.Lock()
		defer r.mu.Unlock()

		value, err := r.reader.ReadString(delim)
		resultCh <- result{value: value, err: err}
	}()

	// The goroutine keeps reading until its Read returns; the caller is
	// released as soon as the context is canceled.
	select {
	case <-ctx.Done():
		return "", ErrInputCancelled
	case res := <-resultCh:
		return res.value, res.err
	}
}

// ReadLine reads one line with surrounding whitespace trimmed.
func (r *NonBlockingReader) ReadLine(ctx context.Context) (string, error) {
	line, err := r.ReadString(ctx, '\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
