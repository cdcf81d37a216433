package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventStepEnter  EventType = "step_enter"
	EventStepLeave  EventType = "step_leave"
	EventGeneration EventType = "generation"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// StepEvent represents entry or exit from a step.
type StepEvent struct {
	EventBase
	Step  Step   `json:"step"`
	Cause string `json:"cause"`
}

// GenerationEvent represents the outcome of one generator call.
type GenerationEvent struct {
	EventBase
	Audience Audience      `json:"audience"`
	Duration time.Duration `json:"duration"`
	Err      error         `json:"-"`
	Stale    bool          `json:"stale,omitempty"`
}

// LifecycleHooks defines callbacks for wizard observability.
type LifecycleHooks struct {
	OnStepEnter  func(context.Context, *StepEvent)
	OnStepLeave  func(context.Context, *StepEvent)
	OnGeneration func(context.Context, *GenerationEvent)
}
