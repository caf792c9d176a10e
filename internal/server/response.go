package server

import (
	"encoding/csv"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/ahmethakanbesel/jobtracker-api/internal/application"
	"github.com/ahmethakanbesel/jobtracker-api/internal/apperror"
)

type APIResponse[T any] struct {
	Message string `json:"message"`
	Data    T      `json:"data"`
}

func writeJSON[T any](w http.ResponseWriter, status int, data T) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(APIResponse[T]{
		Message: "ok",
		Data:    data,
	})
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(APIResponse[string]{
		Message: message,
		Data:    "",
	})
}

// writeServiceError maps err to a response. Errors without an app code are
// logged and reported as a generic 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if ae, ok := apperror.From(err); ok {
		writeError(w, ae.HTTPStatus(), ae.Message())
		return
	}
	slog.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	writeError(w, http.StatusInternalServerError, "internal server error")
}

var csvHeader = []string{
	"ID", "Company", "Position", "Status", "ApplicationDate", "Platform",
	"JobType", "Location", "Salary", "ContactPerson", "ContactEmail", "Notes",
}

func writeCSV(w http.ResponseWriter, apps []application.Application) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=job-applications.csv")
	w.WriteHeader(http.StatusOK)

	cw := csv.NewWriter(w)
	_ = cw.Write(csvHeader)
	for _, a := range apps {
		salary := ""
		if a.Salary != nil {
			salary = strconv.FormatFloat(*a.Salary, 'f', 2, 64)
		}
		_ = cw.Write([]string{
			strconv.FormatInt(a.ID, 10),
			a.CompanyName,
			a.Position,
			string(a.Status),
			a.ApplicationDate.Format(time.DateOnly),
			a.ApplicationPlatform,
			string(a.JobType),
			a.Location,
			salary,
			a.ContactPerson,
			a.ContactEmail,
			a.Notes,
		})
	}
	cw.Flush()
}
