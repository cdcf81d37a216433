package ports

import "context"

// Exporter delivers the final itinerary text to the user.
// Failures wrap domain.ErrExportFailed and never affect wizard state.
type Exporter interface {
	Copy(ctx context.Context, text string) error
	Download(ctx context.Context, text, filename string) error
}
