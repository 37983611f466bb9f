package services

import "sort"

// ClosedSince computes the transition set: identifiers present in the
// previous baseline but absent from today's open set. Those requests
// closed since the last run. Both inputs are treated as sets, so
// duplicates within either are harmless.
//
// An empty baseline (first run, or a baseline that failed to persist)
// yields an empty transition set: no prior knowledge never means
// "everything closed".
func ClosedSince(baseline, open []string) []string {
	if len(baseline) == 0 {
		return nil
	}

	openSet := make(map[string]struct{}, len(open))
	for _, id := range open {
		openSet[id] = struct{}{}
	}

	seen := make(map[string]struct{}, len(baseline))
	var closed []string
	for _, id := range baseline {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if _, stillOpen := openSet[id]; !stillOpen {
			closed = append(closed, id)
		}
	}

	sort.Strings(closed)
	return closed
}

// equalIDSets reports whether two identifier slices contain the same
// set of identifiers, ignoring order and multiplicity.
func equalIDSets(a, b []string) bool {
	as := make(map[string]struct{}, len(a))
	for _, id := range a {
		as[id] = struct{}{}
	}
	bs := make(map[string]struct{}, len(b))
	for _, id := range b {
		bs[id] = struct{}{}
	}
	if len(as) != len(bs) {
		return false
	}
	for id := range as {
		if _, ok := bs[id]; !ok {
			return false
		}
	}
	return true
}

// hasDuplicates reports whether any identifier appears more than once.
func hasDuplicates(ids []string) bool {
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			return true
		}
		seen[id] = struct{}{}
	}
	return false
}
