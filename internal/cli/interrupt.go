package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// InterruptHandler turns SIGINT/SIGTERM into context cancellation and a
// friendly goodbye, so a review session ends between prompts instead of
// mid-write.
type InterruptHandler struct {
	writer       io.Writer
	interrupted  bool
	showProgress bool
	mu           sync.Mutex
}

// NewInterruptHandler returns a handler writing its messages to writer,
// defaulting to stdout.
func NewInterruptHandler(writer io.Writer) *InterruptHandler {
	if writer == nil {
		writer = os.Stdout
	}
	return &InterruptHandler{
		writer: writer,
	}
}

// HandleInterrupts installs the signal watcher and returns a context
// canceled on the first interrupt. A parent cancellation stops the
// watcher without counting as an interrupt.
func (h *InterruptHandler) HandleInterrupts(ctx context.Context, showProgress bool) context.Context {
	ctx, cancel := context.WithCancel(ctx)
	h.showProgress = showProgress

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case <-sigChan:
			h.mu.Lock()
			if !h.interrupted {
				h.interrupted = true
				h.showInterruptMessage()
			}
			h.mu.Unlock()
			cancel()
		case <-ctx.Done():
			signal.Stop(sigChan)
		}
	}()

	return ctx
}

func (h *InterruptHandler) showInterruptMessage() {
	msg := "\n\n" + FormatWarning("Review interrupted!")

	if h.showProgress {
		msg += "\n" + FormatInfo("Your decisions are saved. Run 'inciwise review' to pick up where you left off.")
	}

	msg += "\n" + FormatInfo("See you next time! 🧴") + "\n"

	if _, err := fmt.Fprint(h.writer, msg); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write interrupt message: %v\n", err)
	}
}

// WasInterrupted reports whether a signal ended the session.
func (h *InterruptHandler) WasInterrupted() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.interrupted
}
