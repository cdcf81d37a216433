/*
Package wizard implements the trip rules wizard state machine.

The wizard walks a single session through five steps:

	audience_select -> rules_entry -> rules_summary -> itinerary_generation -> export

The current step is never stored. Each transition writes its artifact through
to a ports.KVStore, and DeriveStep recomputes the step from the artifacts that
are present when a process starts.

Itinerary generation may run on another goroutine than navigation. Every
navigation away from the generation step bumps a token; results carrying an
older token are discarded with domain.ErrStaleGeneration and never written.
*/
package wizard
