/*
Package ports defines the driven ports (interfaces) of the trip rules wizard.

These interfaces decouple the wizard state machine from external implementations,
allowing it to work with various storage backends, itinerary generators and export targets.

# Key Interfaces

  - KVStore: Durable key-value storage for the wizard artifacts.
  - Generator: Produces itinerary text from an audience and a rule set (local or remote).
  - Exporter: Copies or downloads the final itinerary.
*/
package ports
