/*
Package runner drives the trip rules wizard from a line oriented terminal.

The Runner renders the current step, reads answers through a TextHandler and
calls the matching wizard operation. It owns no state of its own: after every
answer it re-reads the wizard snapshot, so a run can be interrupted and resumed
from the persisted artifacts at any time.

# Usage

	m, _ := wizard.New(ctx, store, wizard.WithGenerator(gen), wizard.WithExporter(exp))
	r := runner.NewRunner(
		runner.WithInputHandler(runner.NewTextHandler(os.Stdin, os.Stdout)),
		runner.WithRenderer(tui.NewRenderer()),
	)
	if err := r.Run(ctx, m); err != nil {
		log.Fatal(err)
	}
*/
package runner
