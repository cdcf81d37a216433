// Package export delivers a finished itinerary to the clipboard or to a file.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/triprules/internal/logging"
	"github.com/aretw0/triprules/pkg/domain"
	"github.com/atotto/clipboard"
)

// DefaultFilename is used when Download is called without a name.
const DefaultFilename = "itinerary.txt"

// ShareHeader opens every shared document.
const ShareHeader = "Team Travel Planner"

var clipboardWriteAll = clipboard.WriteAll

// Exporter implements ports.Exporter.
type Exporter struct {
	dir    string
	logger *slog.Logger
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Exporter) {
		e.logger = logger
	}
}

// New creates an Exporter that downloads into dir.
func New(dir string, opts ...Option) *Exporter {
	if dir == "" {
		dir = "."
	}
	e := &Exporter{dir: dir, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Dir is the download directory.
func (e *Exporter) Dir() string {
	return e.dir
}

// Copy puts text on the system clipboard.
func (e *Exporter) Copy(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrExportFailed, err)
	}
	if err := clipboardWriteAll(text); err != nil {
		return fmt.Errorf("%w: clipboard: %w", domain.ErrExportFailed, err)
	}
	e.logger.Debug("copied itinerary", "bytes", len(text))
	return nil
}

// Download writes text to filename inside the download directory.
// The file appears atomically; readers never observe a partial write.
func (e *Exporter) Download(ctx context.Context, text, filename string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrExportFailed, err)
	}

	name, err := cleanFilename(filename)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(e.dir, 0755); err != nil {
		return fmt.Errorf("%w: create download directory: %w", domain.ErrExportFailed, err)
	}

	tmp, err := os.CreateTemp(e.dir, "."+name+"-*")
	if err != nil {
		return fmt.Errorf("%w: create temp file: %w", domain.ErrExportFailed, err)
	}
	tmpPath := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmp.WriteString(text); err != nil {
		return fmt.Errorf("%w: write: %w", domain.ErrExportFailed, err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("%w: fsync: %w", domain.ErrExportFailed, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: close: %w", domain.ErrExportFailed, err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		return fmt.Errorf("%w: chmod: %w", domain.ErrExportFailed, err)
	}

	dest := filepath.Join(e.dir, name)
	if err := os.Rename(tmpPath, dest); err != nil {
		return fmt.Errorf("%w: rename: %w", domain.ErrExportFailed, err)
	}

	e.logger.Info("itinerary downloaded", "path", dest, "bytes", len(text))
	return nil
}

func cleanFilename(filename string) (string, error) {
	name := strings.TrimSpace(filename)
	if name == "" {
		return DefaultFilename, nil
	}
	if name != filepath.Base(name) || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("%w: invalid filename %q", domain.ErrExportFailed, filename)
	}
	return name, nil
}

// ShareText composes the document handed to Copy and Download: a header,
// the rules as indented JSON and the itinerary.
func ShareText(audience domain.Audience, rules domain.TripRules, itinerary string) (string, error) {
	data, err := json.MarshalIndent(rules, "", "  ")
	if err != nil {
		return "", fmt.Errorf("%w: encode rules: %w", domain.ErrExportFailed, err)
	}

	var b strings.Builder
	b.WriteString(ShareHeader)
	if audience.Valid() {
		b.WriteString(" (" + audience.Label() + ")")
	}
	b.WriteString("\n\nTrip Rules:\n")
	b.Write(data)
	b.WriteString("\n\nItinerary:\n")
	b.WriteString(itinerary)
	return b.String(), nil
}
