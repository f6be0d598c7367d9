package backup

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/sbu-cli/sbu/internal/paths"
)

// DefaultWorkers bounds concurrent validation when no worker count is configured.
const DefaultWorkers = 8

// Resolver partitions raw candidate paths into accepted and rejected
// entries using a Validator. Validation is read-only with respect to the
// filesystem and has no ordering dependency between entries, so entries
// are validated in parallel; input order is preserved in the output for
// deterministic reporting.
type Resolver struct {
	validator *Validator
	workers   int
}

// NewResolver creates a Resolver. workers <= 0 selects DefaultWorkers.
func NewResolver(v *Validator, workers int) *Resolver {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Resolver{validator: v, workers: workers}
}

// Resolve validates every raw path and returns accepted and rejected
// entries, both in input order. The accepted list is deduplicated by
// canonical path (the last occurrence wins) and minimized: an entry
// whose ancestor is also accepted is subsumed by the ancestor, since
// copying the ancestor already copies it.
func (r *Resolver) Resolve(ctx context.Context, rawPaths []string) (accepted, rejected []SourceEntry, err error) {
	results := make([]SourceEntry, len(rawPaths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	for i, raw := range rawPaths {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			results[i] = r.validator.Validate(raw)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	for _, entry := range results {
		if entry.Accepted() {
			accepted = append(accepted, entry)
		} else {
			rejected = append(rejected, entry)
		}
	}

	accepted = dedupe(accepted)
	accepted = minimize(accepted)
	return accepted, rejected, nil
}

// dedupe removes entries whose canonical path already appeared in the
// list, keeping the last occurrence's position.
func dedupe(entries []SourceEntry) []SourceEntry {
	lastIdx := make(map[string]int, len(entries))
	for i, e := range entries {
		lastIdx[e.Canonical] = i
	}

	out := entries[:0]
	for i, e := range entries {
		if lastIdx[e.Canonical] == i {
			out = append(out, e)
		}
	}
	return out
}

// minimize drops entries that are descendants of another accepted entry.
// Copying the ancestor directory already covers them, so keeping them
// would only duplicate work. Worst case O(n²), acceptable for the list
// sizes a backup file realistically holds.
func minimize(entries []SourceEntry) []SourceEntry {
	subsumed := make([]bool, len(entries))
	for i, a := range entries {
		for j, b := range entries {
			if i == j || subsumed[j] {
				continue
			}
			if paths.IsWithin(b.Canonical, a.Canonical) {
				subsumed[i] = true
				break
			}
		}
	}

	out := entries[:0]
	for i, e := range entries {
		if !subsumed[i] {
			out = append(out, e)
		}
	}
	return out
}
