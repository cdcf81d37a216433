package logging

import (
	"io"
	"log/slog"
	"os"
)

// redacted lists attribute keys whose values never reach the log output.
var redacted = map[string]bool{
	"passphrase":     true,
	"encryption_key": true,
}

// New creates the application logger.
// It writes to Stderr so the wizard prompts and MCP JSON-RPC keep Stdout.
func New(level slog.Level) *slog.Logger {
	return NewWriter(os.Stderr, level)
}

// NewWriter creates a text logger writing to w.
// The "error" key is renamed to "err" and secret attributes are masked.
func NewWriter(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == "error" {
				a.Key = "err"
			}
			if redacted[a.Key] {
				a.Value = slog.StringValue("***")
			}
			return a
		},
	}))
}

// NewNop returns a no-op logger.
func NewNop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
