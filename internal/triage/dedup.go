package triage

import (
	"fmt"
	"sort"
	"time"

	"cargomate/internal/cargo"
)

// Deduplicator folds diagnostics into groups keyed by fingerprint. Batches
// passed to Process accumulate into the same table; the table lives for one
// build invocation.
type Deduplicator struct {
	seen map[string]*Group
}

// Group is the accumulated record of all diagnostics sharing a fingerprint.
type Group struct {
	Primary    cargo.Diagnostic
	Variations []cargo.Diagnostic
	Count      int
	FirstSeen  time.Time
	Locations  map[string]struct{}
}

// NewDeduplicator returns an empty deduplicator.
func NewDeduplicator() *Deduplicator {
	return &Deduplicator{seen: make(map[string]*Group)}
}

// Process folds a batch of errors into the running table and returns all
// groups seen so far, ordered by count descending. Order among equal counts
// is unspecified.
func (d *Deduplicator) Process(errors []cargo.Diagnostic) []Group {
	for _, err := range errors {
		fp := Fingerprint(err)
		group, ok := d.seen[fp]
		if !ok {
			group = &Group{
				Primary:   err,
				FirstSeen: time.Now(),
				Locations: make(map[string]struct{}),
			}
			d.seen[fp] = group
		}
		group.addVariation(err)
	}
	groups := make([]Group, 0, len(d.seen))
	for _, group := range d.seen {
		groups = append(groups, *group)
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Count > groups[j].Count
	})
	return groups
}

// Len reports how many distinct fingerprints have been seen.
func (d *Deduplicator) Len() int {
	return len(d.seen)
}

func (g *Group) addVariation(err cargo.Diagnostic) {
	g.Variations = append(g.Variations, err)
	g.Count++
	if err.File != "" {
		g.Locations[fmt.Sprintf("%s:%d", err.File, err.Line)] = struct{}{}
	}
}
