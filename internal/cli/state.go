package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/aretw0/triprules/pkg/domain"
	"github.com/aretw0/triprules/pkg/ports"
	"github.com/aretw0/triprules/pkg/wizard"
)

// ListState prints the keys present in store.
func ListState(ctx context.Context, store ports.KVStore, w io.Writer) error {
	lister, ok := store.(ports.Lister)
	if !ok {
		return errors.New("store does not support listing")
	}
	keys, err := lister.List(ctx)
	if err != nil {
		return fmt.Errorf("error listing state: %w", err)
	}
	if len(keys) == 0 {
		fmt.Fprintln(w, "No saved progress found.")
		return nil
	}
	fmt.Fprintln(w, "Saved keys:")
	for _, k := range keys {
		fmt.Fprintln(w, "- "+k)
	}
	return nil
}

// ShowState prints the step the saved progress resumes at, as JSON.
func ShowState(ctx context.Context, store ports.KVStore, w io.Writer) error {
	snap, err := wizard.DeriveStep(ctx, store)
	if err != nil {
		return fmt.Errorf("error loading state: %w", err)
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("error marshaling state: %w", err)
	}
	fmt.Fprintln(w, string(data))
	return nil
}

// RemoveState deletes the given keys, or every wizard key when none are given.
func RemoveState(ctx context.Context, store ports.KVStore, w io.Writer, keys ...string) error {
	if len(keys) == 0 {
		keys = domain.Keys
	}
	var errs []error
	for _, k := range keys {
		if err := store.Remove(ctx, k); err != nil {
			errs = append(errs, fmt.Errorf("error removing '%s': %w", k, err))
			continue
		}
		fmt.Fprintf(w, "Removed '%s'\n", k)
	}
	return errors.Join(errs...)
}
