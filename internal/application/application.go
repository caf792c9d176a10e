package application

import (
	"strings"
	"time"
)

type JobType string

const (
	JobTypeIntern    JobType = "intern"
	JobTypeFullTime  JobType = "full_time"
	JobTypePartTime  JobType = "part_time"
	JobTypeFreelance JobType = "freelance"
	JobTypeContract  JobType = "contract"
	JobTypeRemote    JobType = "remote"
	JobTypeHybrid    JobType = "hybrid"
)

func (t JobType) Valid() bool {
	switch t {
	case JobTypeIntern, JobTypeFullTime, JobTypePartTime, JobTypeFreelance,
		JobTypeContract, JobTypeRemote, JobTypeHybrid:
		return true
	default:
		return false
	}
}

type Application struct {
	ID                  int64     `json:"id"`
	UserID              int64     `json:"user_id"`
	CompanyName         string    `json:"company_name"`
	Position            string    `json:"position"`
	Status              Status    `json:"status"`
	ApplicationDate     time.Time `json:"application_date"`
	ApplicationPlatform string    `json:"application_platform,omitempty"`
	JobType             JobType   `json:"job_type,omitempty"`
	Location            string    `json:"location,omitempty"`
	Salary              *float64  `json:"salary,omitempty"`
	ContactPerson       string    `json:"contact_person,omitempty"`
	ContactEmail        string    `json:"contact_email,omitempty"`
	Notes               string    `json:"notes,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// Filter narrows a listing. Empty fields match everything. Query matches
// either the company name or the position, case-insensitively.
type Filter struct {
	Status   Status
	Company  string
	Position string
	Query    string
}

// Match reports whether a passes f. Stores that cannot push a filter down to
// their backend apply it with Match.
func (f Filter) Match(a Application) bool {
	if f.Status != "" && NormalizeLegacy(a.Status) != f.Status {
		return false
	}
	if f.Company != "" && !containsFold(a.CompanyName, f.Company) {
		return false
	}
	if f.Position != "" && !containsFold(a.Position, f.Position) {
		return false
	}
	if f.Query != "" && !containsFold(a.CompanyName, f.Query) && !containsFold(a.Position, f.Query) {
		return false
	}
	return true
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
