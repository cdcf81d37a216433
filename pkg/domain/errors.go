package domain

import "errors"

// ErrKeyNotFound is returned by a KVStore when the key holds no value.
var ErrKeyNotFound = errors.New("key not found")

// ErrInvalidAudience is returned when an audience outside the known set is selected.
var ErrInvalidAudience = errors.New("invalid audience")

// ErrInvalidTransition is returned when an event is not allowed from the current step.
var ErrInvalidTransition = errors.New("invalid transition")

// ErrGenerationFailed is returned when the itinerary generator could not produce text.
var ErrGenerationFailed = errors.New("itinerary generation failed")

// ErrStaleGeneration is returned when a generation result arrives after the user left the step.
// The result is discarded.
var ErrStaleGeneration = errors.New("stale generation result discarded")

// ErrExportFailed is returned when copying or downloading the itinerary failed.
var ErrExportFailed = errors.New("export failed")

// ErrPersistenceCorrupt is returned when a persisted value cannot be decoded.
// The wizard treats it as absence.
var ErrPersistenceCorrupt = errors.New("persisted value is corrupt")
