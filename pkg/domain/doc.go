/*
Package domain contains the core domain models of the trip rules wizard.

It defines the artifacts the wizard collects (Audience, TripRules, itinerary text),
the step pointer that gates progress, and the error taxonomy shared by every adapter.
This package is kept pure and free of external dependencies like I/O or persistence,
following Hexagonal Architecture principles.

# Key Entities

  - Audience: Which travel persona (team or personal) the session is for.
  - TripRules: The non-negotiable constraints the itinerary must respect.
  - Step: The wizard position, always derived from the persisted artifacts.
  - LifecycleHooks: Callbacks for observing step transitions and generation.
*/
package domain
