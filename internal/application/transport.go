package application

import (
	"net/mail"
	"strings"
	"time"

	"github.com/ahmethakanbesel/jobtracker-api/internal/apperror"
)

const dateFormat = "2006-01-02"

func validateOwner(ownerID int64) *apperror.AppError {
	if ownerID <= 0 {
		return apperror.New(apperror.BadRequest, "invalid user id")
	}
	return nil
}

func validateSalary(v *float64) *apperror.AppError {
	if v != nil && *v < 0 {
		return apperror.New(apperror.BadRequest, "salary must not be negative")
	}
	return nil
}

func validateEmail(v string) *apperror.AppError {
	if v == "" {
		return nil
	}
	addr, err := mail.ParseAddress(v)
	if err != nil || addr.Address != v {
		return apperror.New(apperror.BadRequest, "invalid contact email")
	}
	return nil
}

func validateJobType(v string) *apperror.AppError {
	if v != "" && !JobType(v).Valid() {
		return apperror.New(apperror.BadRequest, "invalid job type")
	}
	return nil
}

func parseDate(v string) (time.Time, *apperror.AppError) {
	d, err := time.Parse(dateFormat, v)
	if err != nil {
		return time.Time{}, apperror.New(apperror.BadRequest, "invalid application_date format, expected YYYY-MM-DD")
	}
	return d, nil
}

type CreateApplicationRequest struct {
	OwnerID             int64    `json:"-"`
	CompanyName         string   `json:"company_name"`
	Position            string   `json:"position"`
	Status              string   `json:"status"`
	ApplicationDate     string   `json:"application_date"`
	ApplicationPlatform string   `json:"application_platform"`
	JobType             string   `json:"job_type"`
	Location            string   `json:"location"`
	Salary              *float64 `json:"salary"`
	ContactPerson       string   `json:"contact_person"`
	ContactEmail        string   `json:"contact_email"`
	Notes               string   `json:"notes"`
}

func (r CreateApplicationRequest) Validate() *apperror.AppError {
	if err := validateOwner(r.OwnerID); err != nil {
		return err
	}
	if strings.TrimSpace(r.CompanyName) == "" {
		return apperror.New(apperror.BadRequest, "company_name is required")
	}
	if strings.TrimSpace(r.Position) == "" {
		return apperror.New(apperror.BadRequest, "position is required")
	}
	if r.Status != "" {
		if _, err := ParseStatus(r.Status); err != nil {
			return apperror.New(apperror.BadRequest, err.Error())
		}
	}
	if r.ApplicationDate == "" {
		return apperror.New(apperror.BadRequest, "application_date is required")
	}
	if _, err := parseDate(r.ApplicationDate); err != nil {
		return err
	}
	if err := validateJobType(r.JobType); err != nil {
		return err
	}
	if err := validateSalary(r.Salary); err != nil {
		return err
	}
	return validateEmail(r.ContactEmail)
}

// toApplication assumes Validate has passed.
func (r CreateApplicationRequest) toApplication() *Application {
	status := StatusApplied
	if r.Status != "" {
		status, _ = ParseStatus(r.Status)
	}
	date, _ := parseDate(r.ApplicationDate)
	return &Application{
		UserID:              r.OwnerID,
		CompanyName:         strings.TrimSpace(r.CompanyName),
		Position:            strings.TrimSpace(r.Position),
		Status:              status,
		ApplicationDate:     date,
		ApplicationPlatform: r.ApplicationPlatform,
		JobType:             JobType(r.JobType),
		Location:            r.Location,
		Salary:              r.Salary,
		ContactPerson:       r.ContactPerson,
		ContactEmail:        r.ContactEmail,
		Notes:               r.Notes,
	}
}

// UpdateApplicationRequest is a partial update: nil fields are left untouched.
type UpdateApplicationRequest struct {
	OwnerID             int64    `json:"-"`
	ID                  int64    `json:"-"`
	CompanyName         *string  `json:"company_name"`
	Position            *string  `json:"position"`
	Status              *string  `json:"status"`
	ApplicationDate     *string  `json:"application_date"`
	ApplicationPlatform *string  `json:"application_platform"`
	JobType             *string  `json:"job_type"`
	Location            *string  `json:"location"`
	Salary              *float64 `json:"salary"`
	ContactPerson       *string  `json:"contact_person"`
	ContactEmail        *string  `json:"contact_email"`
	Notes               *string  `json:"notes"`
}

func (r UpdateApplicationRequest) Validate() *apperror.AppError {
	if err := validateOwner(r.OwnerID); err != nil {
		return err
	}
	if r.ID <= 0 {
		return apperror.New(apperror.BadRequest, "invalid application id")
	}
	if r.CompanyName != nil && strings.TrimSpace(*r.CompanyName) == "" {
		return apperror.New(apperror.BadRequest, "company_name must not be empty")
	}
	if r.Position != nil && strings.TrimSpace(*r.Position) == "" {
		return apperror.New(apperror.BadRequest, "position must not be empty")
	}
	if r.Status != nil {
		if _, err := ParseStatus(*r.Status); err != nil {
			return apperror.New(apperror.BadRequest, err.Error())
		}
	}
	if r.ApplicationDate != nil {
		if _, err := parseDate(*r.ApplicationDate); err != nil {
			return err
		}
	}
	if r.JobType != nil {
		if err := validateJobType(*r.JobType); err != nil {
			return err
		}
	}
	if err := validateSalary(r.Salary); err != nil {
		return err
	}
	if r.ContactEmail != nil {
		return validateEmail(*r.ContactEmail)
	}
	return nil
}

// apply copies the set fields onto a. It assumes Validate has passed.
func (r UpdateApplicationRequest) apply(a *Application) {
	if r.CompanyName != nil {
		a.CompanyName = strings.TrimSpace(*r.CompanyName)
	}
	if r.Position != nil {
		a.Position = strings.TrimSpace(*r.Position)
	}
	if r.Status != nil {
		a.Status, _ = ParseStatus(*r.Status)
	}
	if r.ApplicationDate != nil {
		a.ApplicationDate, _ = parseDate(*r.ApplicationDate)
	}
	if r.ApplicationPlatform != nil {
		a.ApplicationPlatform = *r.ApplicationPlatform
	}
	if r.JobType != nil {
		a.JobType = JobType(*r.JobType)
	}
	if r.Location != nil {
		a.Location = *r.Location
	}
	if r.Salary != nil {
		a.Salary = r.Salary
	}
	if r.ContactPerson != nil {
		a.ContactPerson = *r.ContactPerson
	}
	if r.ContactEmail != nil {
		a.ContactEmail = *r.ContactEmail
	}
	if r.Notes != nil {
		a.Notes = *r.Notes
	}
}

type GetApplicationRequest struct {
	OwnerID int64
	ID      int64
}

func (r GetApplicationRequest) Validate() *apperror.AppError {
	if err := validateOwner(r.OwnerID); err != nil {
		return err
	}
	if r.ID <= 0 {
		return apperror.New(apperror.BadRequest, "invalid application id")
	}
	return nil
}

type DeleteApplicationRequest = GetApplicationRequest

type ListApplicationsRequest struct {
	OwnerID  int64
	Status   string
	Company  string
	Position string
	Query    string
}

func (r ListApplicationsRequest) Validate() *apperror.AppError {
	if err := validateOwner(r.OwnerID); err != nil {
		return err
	}
	if r.Status != "" {
		if _, err := ParseStatus(r.Status); err != nil {
			return apperror.New(apperror.BadRequest, err.Error())
		}
	}
	return nil
}

func (r ListApplicationsRequest) filter() Filter {
	f := Filter{
		Company:  r.Company,
		Position: r.Position,
		Query:    r.Query,
	}
	if r.Status != "" {
		f.Status, _ = ParseStatus(r.Status)
	}
	return f
}

type OwnerRequest struct {
	OwnerID int64
}

func (r OwnerRequest) Validate() *apperror.AppError {
	return validateOwner(r.OwnerID)
}

// StatsResponse is the stats snapshot together with its derived values.
type StatsResponse struct {
	Stats       Stats          `json:"stats"`
	Percentages map[Status]int `json:"percentages"`
	Interview   Rollup         `json:"interview"`
}

func NewStatsResponse(st Stats) StatsResponse {
	return StatsResponse{
		Stats:       st,
		Percentages: st.Percentages(),
		Interview:   st.Interview(),
	}
}
