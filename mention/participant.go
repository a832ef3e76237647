package mention

import (
	"fmt"
	"slices"
	"strings"
)

// Participant is a roster entry. Only entries with both a display name and a
// handle are eligible for matching.
type Participant struct {
	ID          int64  `json:"id"`
	DisplayName string `json:"name"`
	Handle      string `json:"username"`
}

// Label is the option text shown for a candidate.
func (p Participant) Label() string {
	return fmt.Sprintf("%s (@%s)", p.DisplayName, p.Handle)
}

func (p Participant) eligible() bool {
	return strings.TrimSpace(p.DisplayName) != "" && strings.TrimSpace(p.Handle) != ""
}

// normalizeRoster drops ineligible entries, keeps the first entry per ID and
// orders by ID so prompts are stable.
func normalizeRoster(roster []Participant) []Participant {
	seen := make(map[int64]struct{}, len(roster))
	out := make([]Participant, 0, len(roster))
	for _, p := range roster {
		if !p.eligible() {
			continue
		}
		if _, dup := seen[p.ID]; dup {
			continue
		}
		seen[p.ID] = struct{}{}
		out = append(out, p)
	}
	slices.SortFunc(out, func(a, b Participant) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
	return out
}
