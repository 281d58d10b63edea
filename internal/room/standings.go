package room

import (
	"fmt"
	"sort"
)

// StandingsOrder decides how finishers are listed in the final standings.
type StandingsOrder string

const (
	// OrderAscending lists the lowest progress first, as the lobby client has always shown it.
	OrderAscending StandingsOrder = "ascending"

	// OrderDescending lists the winner first.
	OrderDescending StandingsOrder = "descending"
)

func ParseStandingsOrder(s string) (StandingsOrder, error) {
	switch StandingsOrder(s) {
	case "", OrderAscending:
		return OrderAscending, nil
	case OrderDescending:
		return OrderDescending, nil
	}
	return "", fmt.Errorf("unknown standings order %q", s)
}

// Sort orders users by progress. Users with equal progress keep their join order.
func (o StandingsOrder) Sort(users []UserSnapshot) {
	sort.SliceStable(users, func(i, j int) bool {
		pi, pj := progressOf(users[i]), progressOf(users[j])
		if o == OrderDescending {
			return pi > pj
		}
		return pi < pj
	})
}

func progressOf(u UserSnapshot) int {
	if u.Progress == nil {
		return 0
	}
	return *u.Progress
}
