/*
Package observability provides Prometheus metrics and lifecycle hooks for the wizard
and the itinerary backend.

Hooks returned by Metrics.Hooks log every step transition and generation outcome
with slog and record them in the registered collectors.
*/
package observability
