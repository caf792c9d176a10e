package application

import (
	"encoding/json"
	"math"
)

// interviewStages are rolled up into the single "Interview" dashboard card.
var interviewStages = []Status{
	StatusScreening,
	StatusTest,
	StatusInterviewUser,
	StatusInterviewHR,
	StatusInterviewFinal,
}

// Stats is a per-status count over a set of applications. It is derived on
// demand and never persisted.
type Stats struct {
	Total  int
	counts map[Status]int
	// Other counts records whose status is outside the enum.
	Other int
}

// Aggregate counts apps by status. Legacy status values are normalized first.
func Aggregate(apps []Application) Stats {
	st := Stats{counts: make(map[Status]int, len(statuses))}
	for _, s := range statuses {
		st.counts[s] = 0
	}
	for _, a := range apps {
		st.Total++
		s := NormalizeLegacy(a.Status)
		if !s.Valid() {
			st.Other++
			continue
		}
		st.counts[s]++
	}
	return st
}

// Count returns the number of applications in s.
func (st Stats) Count(s Status) int {
	return st.counts[s]
}

// Counts returns a copy of the per-status counts with every status present.
func (st Stats) Counts() map[Status]int {
	out := make(map[Status]int, len(statuses))
	for _, s := range statuses {
		out[s] = st.counts[s]
	}
	return out
}

// Percentage returns round(count/total*100), or 0 for an empty set.
func Percentage(count, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(count) / float64(total) * 100))
}

func (st Stats) Percentages() map[Status]int {
	out := make(map[Status]int, len(statuses))
	for _, s := range statuses {
		out[s] = Percentage(st.counts[s], st.Total)
	}
	return out
}

// Rollup is a display-only combination of several statuses.
type Rollup struct {
	Count      int `json:"count"`
	Percentage int `json:"percentage"`
}

// Interview combines screening, test and the three interview rounds.
func (st Stats) Interview() Rollup {
	n := 0
	for _, s := range interviewStages {
		n += st.counts[s]
	}
	return Rollup{Count: n, Percentage: Percentage(n, st.Total)}
}

// MarshalJSON flattens the snapshot to {"total": n, "<status>": n, ...}.
func (st Stats) MarshalJSON() ([]byte, error) {
	m := make(map[string]int, len(statuses)+2)
	m["total"] = st.Total
	for _, s := range statuses {
		m[string(s)] = st.counts[s]
	}
	if st.Other > 0 {
		m["other"] = st.Other
	}
	return json.Marshal(m)
}
