package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/ahmethakanbesel/jobtracker-api/internal/application"
	"github.com/ahmethakanbesel/jobtracker-api/internal/apperror"
	"github.com/ahmethakanbesel/jobtracker-api/internal/dashboard"
	"github.com/ahmethakanbesel/jobtracker-api/internal/user"
)

const (
	ownerHeader  = "X-User-ID"
	maxBodyBytes = 1 << 20
)

type handler struct {
	appSvc  *application.Service
	userSvc *user.Service
	loader  *dashboard.Loader
}

func ownerID(r *http.Request) (int64, *apperror.AppError) {
	id, err := strconv.ParseInt(r.Header.Get(ownerHeader), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperror.New(apperror.BadRequest, "missing or invalid "+ownerHeader+" header")
	}
	return id, nil
}

func pathID(r *http.Request) (int64, *apperror.AppError) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		return 0, apperror.New(apperror.BadRequest, "invalid id")
	}
	return id, nil
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) *apperror.AppError {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperror.New(apperror.BadRequest, "invalid request body")
	}
	return nil
}

func (h *handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) listStatuses(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, application.StatusCatalog())
}

func (h *handler) listApplications(w http.ResponseWriter, r *http.Request) {
	owner, appErr := ownerID(r)
	if appErr != nil {
		writeError(w, appErr.HTTPStatus(), appErr.Message())
		return
	}

	q := r.URL.Query()
	req := application.ListApplicationsRequest{
		OwnerID:  owner,
		Status:   q.Get("status"),
		Company:  q.Get("company"),
		Position: q.Get("position"),
		Query:    q.Get("q"),
	}

	apps, err := h.appSvc.List(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	if q.Get("format") == "csv" {
		writeCSV(w, apps)
		return
	}

	writeJSON(w, http.StatusOK, apps)
}

func (h *handler) createApplication(w http.ResponseWriter, r *http.Request) {
	owner, appErr := ownerID(r)
	if appErr != nil {
		writeError(w, appErr.HTTPStatus(), appErr.Message())
		return
	}

	var req application.CreateApplicationRequest
	if appErr := decodeBody(w, r, &req); appErr != nil {
		writeError(w, appErr.HTTPStatus(), appErr.Message())
		return
	}
	req.OwnerID = owner

	a, err := h.appSvc.Create(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, a)
}

func (h *handler) getApplication(w http.ResponseWriter, r *http.Request) {
	owner, appErr := ownerID(r)
	if appErr != nil {
		writeError(w, appErr.HTTPStatus(), appErr.Message())
		return
	}
	id, appErr := pathID(r)
	if appErr != nil {
		writeError(w, appErr.HTTPStatus(), appErr.Message())
		return
	}

	a, err := h.appSvc.Get(r.Context(), application.GetApplicationRequest{OwnerID: owner, ID: id})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, a)
}

func (h *handler) updateApplication(w http.ResponseWriter, r *http.Request) {
	owner, appErr := ownerID(r)
	if appErr != nil {
		writeError(w, appErr.HTTPStatus(), appErr.Message())
		return
	}
	id, appErr := pathID(r)
	if appErr != nil {
		writeError(w, appErr.HTTPStatus(), appErr.Message())
		return
	}

	var req application.UpdateApplicationRequest
	if appErr := decodeBody(w, r, &req); appErr != nil {
		writeError(w, appErr.HTTPStatus(), appErr.Message())
		return
	}
	req.OwnerID = owner
	req.ID = id

	a, err := h.appSvc.Update(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, a)
}

func (h *handler) deleteApplication(w http.ResponseWriter, r *http.Request) {
	owner, appErr := ownerID(r)
	if appErr != nil {
		writeError(w, appErr.HTTPStatus(), appErr.Message())
		return
	}
	id, appErr := pathID(r)
	if appErr != nil {
		writeError(w, appErr.HTTPStatus(), appErr.Message())
		return
	}

	if err := h.appSvc.Delete(r.Context(), application.DeleteApplicationRequest{OwnerID: owner, ID: id}); err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int64{"id": id})
}

func (h *handler) applicationStats(w http.ResponseWriter, r *http.Request) {
	owner, appErr := ownerID(r)
	if appErr != nil {
		writeError(w, appErr.HTTPStatus(), appErr.Message())
		return
	}

	st, err := h.appSvc.Stats(r.Context(), application.OwnerRequest{OwnerID: owner})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, application.NewStatsResponse(st))
}

// autoReject runs the staleness sweep on demand. Individual update failures
// are reported through the result's failed count; only a sweep that could not
// read the applications at all is an error.
func (h *handler) autoReject(w http.ResponseWriter, r *http.Request) {
	owner, appErr := ownerID(r)
	if appErr != nil {
		writeError(w, appErr.HTTPStatus(), appErr.Message())
		return
	}

	res, err := h.appSvc.RejectStale(r.Context(), application.OwnerRequest{OwnerID: owner})
	if err != nil && res.Checked == 0 {
		writeServiceError(w, r, err)
		return
	}
	if err != nil {
		slog.WarnContext(r.Context(), "auto-reject partially failed", "user", owner, "error", err)
	}

	writeJSON(w, http.StatusOK, res)
}

func (h *handler) dashboard(w http.ResponseWriter, r *http.Request) {
	owner, appErr := ownerID(r)
	if appErr != nil {
		writeError(w, appErr.HTTPStatus(), appErr.Message())
		return
	}

	d, err := h.loader.Load(r.Context(), owner)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, d)
}

func (h *handler) createUser(w http.ResponseWriter, r *http.Request) {
	var req user.CreateUserRequest
	if appErr := decodeBody(w, r, &req); appErr != nil {
		writeError(w, appErr.HTTPStatus(), appErr.Message())
		return
	}

	u, err := h.userSvc.Create(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, u)
}

func (h *handler) currentUser(w http.ResponseWriter, r *http.Request) {
	owner, appErr := ownerID(r)
	if appErr != nil {
		writeError(w, appErr.HTTPStatus(), appErr.Message())
		return
	}

	u, err := h.userSvc.Get(r.Context(), user.GetUserRequest{ID: owner})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, u)
}

// adminID resolves the caller and checks that they hold the admin role. It
// writes the error response itself.
func (h *handler) adminID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	actor, appErr := ownerID(r)
	if appErr != nil {
		writeError(w, appErr.HTTPStatus(), appErr.Message())
		return 0, false
	}
	if err := h.userSvc.RequireAdmin(r.Context(), actor); err != nil {
		writeServiceError(w, r, err)
		return 0, false
	}
	return actor, true
}

func (h *handler) adminListUsers(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.adminID(w, r); !ok {
		return
	}

	users, err := h.userSvc.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string][]user.User{"users": users})
}

func (h *handler) adminCreateUser(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.adminID(w, r); !ok {
		return
	}
	var req user.AdminCreateUserRequest
	if appErr := decodeBody(w, r, &req); appErr != nil {
		writeError(w, appErr.HTTPStatus(), appErr.Message())
		return
	}

	u, err := h.userSvc.AdminCreate(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, u)
}

func (h *handler) adminUpdateUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.adminID(w, r)
	if !ok {
		return
	}
	id, appErr := pathID(r)
	if appErr != nil {
		writeError(w, appErr.HTTPStatus(), appErr.Message())
		return
	}
	var req user.UpdateUserRequest
	if appErr := decodeBody(w, r, &req); appErr != nil {
		writeError(w, appErr.HTTPStatus(), appErr.Message())
		return
	}
	req.ActorID = actor
	req.ID = id

	u, err := h.userSvc.Update(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, u)
}

func (h *handler) adminDeleteUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.adminID(w, r)
	if !ok {
		return
	}
	id, appErr := pathID(r)
	if appErr != nil {
		writeError(w, appErr.HTTPStatus(), appErr.Message())
		return
	}

	if err := h.userSvc.Delete(r.Context(), user.DeleteUserRequest{ActorID: actor, ID: id}); err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int64{"id": id})
}
