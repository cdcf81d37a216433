package runner

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// ContentRenderer transforms markdown before it is printed (e.g. to ANSI).
type ContentRenderer func(string) (string, error)

// TextHandler reads answers line by line and writes prompts and content.
type TextHandler struct {
	Reader   *bufio.Reader
	Writer   io.Writer
	Renderer ContentRenderer

	inputChan chan inputResult
	done      chan struct{}
	startOnce sync.Once
	closeOnce sync.Once
}

type inputResult struct {
	text string
	err  error
}

// TextHandlerOption defines configuration for TextHandler.
type TextHandlerOption func(*TextHandler)

// WithTextHandlerRenderer configures the content renderer.
func WithTextHandlerRenderer(renderer ContentRenderer) TextHandlerOption {
	return func(h *TextHandler) {
		h.Renderer = renderer
	}
}

// NewTextHandler creates a handler for standard text IO.
func NewTextHandler(r io.Reader, w io.Writer, opts ...TextHandlerOption) *TextHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	h := &TextHandler{
		Reader: bufio.NewReader(r),
		Writer: w,
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *TextHandler) initPump() {
	h.startOnce.Do(func() {
		h.inputChan = make(chan inputResult)
		go h.pump()
	})
}

// pump reads in the background so Ask can honour context cancellation.
func (h *TextHandler) pump() {
	defer close(h.inputChan)
	for {
		text, err := h.Reader.ReadString('\n')
		if text != "" || err != nil {
			select {
			case h.inputChan <- inputResult{text: text, err: err}:
			case <-h.done:
				return
			}
		}
		if err != nil {
			return
		}
	}
}

// Close stops the input pump. Pending reads on the source are abandoned.
func (h *TextHandler) Close() {
	h.closeOnce.Do(func() {
		close(h.done)
	})
}

// Print writes content through the renderer.
func (h *TextHandler) Print(content string) {
	output := content
	if h.Renderer != nil {
		if rendered, err := h.Renderer(content); err == nil {
			output = rendered
		}
	}
	fmt.Fprintln(h.Writer, strings.TrimRight(output, "\n"))
}

// Printf writes a plain line.
func (h *TextHandler) Printf(format string, args ...any) {
	fmt.Fprintf(h.Writer, format+"\n", args...)
}

// Ask prints label and a "> " prompt and returns the sanitized answer.
// Rejected answers are reported and asked again.
func (h *TextHandler) Ask(ctx context.Context, label string) (string, error) {
	h.initPump()

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}
		if label != "" {
			fmt.Fprintln(h.Writer, label)
		}
		fmt.Fprint(h.Writer, "> ")

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case res, ok := <-h.inputChan:
			if !ok {
				return "", io.EOF
			}
			if res.err != nil && res.text == "" {
				return "", res.err
			}
			clean, err := SanitizeLine(res.text)
			if err != nil {
				fmt.Fprintf(h.Writer, "Error: %v. Please try again.\n", err)
				continue
			}
			return clean, nil
		}
	}
}
