package application

import (
	"cmp"
	"slices"
)

const unknownRank = 99

// Lower rank means the application needs attention sooner. Active
// assessment and interview rounds come before a plain "applied" entry;
// closed applications sink to the bottom.
var ranks = map[Status]int{
	StatusTest:           1,
	StatusInterviewUser:  2,
	StatusInterviewHR:    3,
	StatusInterviewFinal: 4,
	StatusScreening:      5,
	StatusOffered:        6,
	StatusApplied:        7,
	StatusAccepted:       8,
	StatusWithdrawn:      9,
	StatusRejected:       10,
}

// Rank returns the priority rank of s. Unknown statuses rank last.
func Rank(s Status) int {
	if r, ok := ranks[s]; ok {
		return r
	}
	return unknownRank
}

// SortByPriority orders apps in place by rank, then by application date with
// the newest first. The sort is stable.
func SortByPriority(apps []Application) {
	slices.SortStableFunc(apps, func(a, b Application) int {
		if c := cmp.Compare(Rank(a.Status), Rank(b.Status)); c != 0 {
			return c
		}
		return b.ApplicationDate.Compare(a.ApplicationDate)
	})
}
