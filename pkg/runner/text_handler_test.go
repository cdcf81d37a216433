package runner

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextHandler_Print(t *testing.T) {
	outBuf := &bytes.Buffer{}
	handler := NewTextHandler(strings.NewReader(""), outBuf, WithTextHandlerRenderer(func(s string) (string, error) {
		return "Rendered: " + s, nil
	}))

	handler.Print("Hello World\n\n")
	assert.Equal(t, "Rendered: Hello World\n", outBuf.String())
}

func TestTextHandler_Ask(t *testing.T) {
	outBuf := &bytes.Buffer{}
	handler := NewTextHandler(strings.NewReader("  Goa \r\nlast"), outBuf)
	defer handler.Close()

	val, err := handler.Ask(context.Background(), "City")
	require.NoError(t, err)
	assert.Equal(t, "Goa", val)
	assert.Equal(t, "City\n> ", outBuf.String())

	// A final line without newline is still delivered.
	val, err = handler.Ask(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "last", val)

	_, err = handler.Ask(context.Background(), "")
	assert.ErrorIs(t, err, io.EOF)
}

func TestTextHandler_AskRetriesRejectedInput(t *testing.T) {
	t.Setenv(EnvMaxInputSize, "5")
	outBuf := &bytes.Buffer{}
	handler := NewTextHandler(strings.NewReader("far too long\nok\n"), outBuf)
	defer handler.Close()

	val, err := handler.Ask(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "ok", val)
	assert.Contains(t, outBuf.String(), "Please try again.")
}

func TestTextHandler_AskCancelled(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	handler := NewTextHandler(pr, &bytes.Buffer{})
	defer handler.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := handler.Ask(ctx, "")
	assert.ErrorIs(t, err, context.Canceled)
}
