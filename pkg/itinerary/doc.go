// Package itinerary renders itineraries locally from a YAML template catalog.
//
// The Generator satisfies ports.Generator. It never calls the network and is
// deterministic: the same audience and rules always produce the same text.
package itinerary
