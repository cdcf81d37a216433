/*
Package triprules is a resumable wizard that turns a trip's non-negotiable rules
into a day-wise itinerary.

A session walks five steps: choose the audience (team or personal travel),
enter the trip rules, confirm them on a summary, generate the itinerary and
export it. Every step writes its artifact through to a key-value store, so a
session interrupted at any point resumes where it stopped.

# Usage

	ctx := context.Background()
	planner, err := triprules.New(ctx,
		triprules.WithStore(file.New(".triprules/state")),
	)
	if err != nil {
		log.Fatal(err)
	}

	// Drive the wizard from the terminal...
	if err := triprules.Run(ctx, planner, os.Stdin, os.Stdout); err != nil {
		log.Fatal(err)
	}

	// ...or call the transitions directly.
	_ = planner.SelectAudience(ctx, domain.AudienceTeam)

Stores live in pkg/adapters (memory, file, redis, sqlite) and can be wrapped with
the encryption middleware in pkg/persistence/middleware. Itineraries come from
the local template generator in pkg/itinerary or from a remote backend through
pkg/adapters/remote.
*/
package triprules
