package application

import "fmt"

type Status string

const (
	StatusApplied        Status = "applied"
	StatusScreening      Status = "screening"
	StatusTest           Status = "test"
	StatusInterviewUser  Status = "interview_user"
	StatusInterviewHR    Status = "interview_hr"
	StatusInterviewFinal Status = "interview_final"
	StatusOffered        Status = "offered"
	StatusAccepted       Status = "accepted"
	StatusRejected       Status = "rejected"
	StatusWithdrawn      Status = "withdrawn"
)

// StatusLegacyInterview is the single interview value of the old
// applied/interview/accepted/rejected scheme. It is never stored.
const StatusLegacyInterview Status = "interview"

var statuses = []Status{
	StatusApplied,
	StatusScreening,
	StatusTest,
	StatusInterviewUser,
	StatusInterviewHR,
	StatusInterviewFinal,
	StatusOffered,
	StatusAccepted,
	StatusRejected,
	StatusWithdrawn,
}

var labels = map[Status]string{
	StatusApplied:        "Applied",
	StatusScreening:      "Screening",
	StatusTest:           "Test/Assessment",
	StatusInterviewUser:  "Interview - Team",
	StatusInterviewHR:    "Interview - HR",
	StatusInterviewFinal: "Interview - Final",
	StatusOffered:        "Offered",
	StatusAccepted:       "Accepted",
	StatusRejected:       "Rejected",
	StatusWithdrawn:      "Withdrawn",
}

// Statuses returns the lifecycle states in pipeline order.
func Statuses() []Status {
	out := make([]Status, len(statuses))
	copy(out, statuses)
	return out
}

// Valid reports whether s is one of the ten lifecycle states.
func (s Status) Valid() bool {
	_, ok := labels[s]
	return ok
}

// IsTerminal reports whether no further transition is expected from s.
func IsTerminal(s Status) bool {
	switch s {
	case StatusAccepted, StatusRejected, StatusWithdrawn:
		return true
	default:
		return false
	}
}

// NormalizeLegacy maps values of the old four-state scheme onto the current
// one. The old "interview" state carried no stage information and is mapped
// to the first interview round.
func NormalizeLegacy(s Status) Status {
	if s == StatusLegacyInterview {
		return StatusInterviewUser
	}
	return s
}

// StoredForms returns every value that reads back as s, legacy spellings
// included. Stores that filter on the raw column match against all of them.
func StoredForms(s Status) []Status {
	if s == StatusInterviewUser {
		return []Status{StatusInterviewUser, StatusLegacyInterview}
	}
	return []Status{s}
}

// ParseStatus normalizes legacy values and rejects anything outside the enum.
func ParseStatus(raw string) (Status, error) {
	s := NormalizeLegacy(Status(raw))
	if !s.Valid() {
		return "", fmt.Errorf("unknown application status %q", raw)
	}
	return s, nil
}

// Label returns the display name of s. Unknown values are echoed back.
func Label(s Status) string {
	if l, ok := labels[s]; ok {
		return l
	}
	return string(s)
}

// StatusInfo is the metadata served to clients for rendering filters and badges.
type StatusInfo struct {
	Value    Status `json:"value"`
	Label    string `json:"label"`
	Rank     int    `json:"rank"`
	Terminal bool   `json:"terminal"`
}

func StatusCatalog() []StatusInfo {
	out := make([]StatusInfo, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, StatusInfo{
			Value:    s,
			Label:    Label(s),
			Rank:     Rank(s),
			Terminal: IsTerminal(s),
		})
	}
	return out
}
