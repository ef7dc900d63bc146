// Package filter narrows cleaner lists by region, search term and status.
package filter

import (
	"strings"

	"github.com/cleanops/calendar-backend/internal/domain/cleaner"
)

// Filter returns the cleaners matching every criterion, in input order.
// An empty Regions list and empty strings impose no restriction. Region
// matching is exact and case sensitive; Search is a case-insensitive
// substring match over name, email and phone.
func Filter(cleaners []cleaner.Cleaner, criteria cleaner.Criteria) []cleaner.Cleaner {
	regions := make(map[string]struct{}, len(criteria.Regions))
	for _, r := range criteria.Regions {
		regions[r] = struct{}{}
	}
	term := strings.ToLower(strings.TrimSpace(criteria.Search))

	out := make([]cleaner.Cleaner, 0, len(cleaners))
	for _, c := range cleaners {
		if len(regions) > 0 {
			if _, ok := regions[c.Region]; !ok {
				continue
			}
		}
		if term != "" && !matchesSearch(c, term) {
			continue
		}
		if criteria.Status != "" && c.Status != criteria.Status {
			continue
		}
		out = append(out, c)
	}
	return out
}

func matchesSearch(c cleaner.Cleaner, term string) bool {
	for _, field := range []string{c.Name, c.Email, c.Phone} {
		if field != "" && strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

// Split separates the unassigned pseudo-cleaner from real cleaners.
func Split(cleaners []cleaner.Cleaner) (assigned []cleaner.Cleaner, unassigned *cleaner.Cleaner) {
	assigned = make([]cleaner.Cleaner, 0, len(cleaners))
	for i := range cleaners {
		if cleaners[i].IsUnassigned() {
			u := cleaners[i]
			unassigned = &u
			continue
		}
		assigned = append(assigned, cleaners[i])
	}
	return assigned, unassigned
}
