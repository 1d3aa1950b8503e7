// Package panelhttp serves the admin panel over HTTP: screen rendering,
// action dispatch, the navigation menu, and export scheduling.
package panelhttp

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"panelcore/internal/adapters/exports"
	"panelcore/internal/core"
	"panelcore/pkg/screen"
)

// Handler provides HTTP access to screens and exports.
type Handler struct {
	Service *core.Service
	Exports exports.ExportScheduler
}

// NewHandler constructs a panel HTTP handler.
func NewHandler(svc *core.Service) *Handler {
	return &Handler{Service: svc}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.Service == nil {
		writeError(w, http.StatusInternalServerError, "panel service not configured")
		return
	}

	path := strings.TrimSuffix(r.URL.Path, "/")
	switch {
	case r.Method == http.MethodGet && path == "/admin/menu":
		h.handleMenu(w, r)
	case strings.HasPrefix(path, "/admin/exports"):
		if h.Exports == nil {
			http.NotFound(w, r)
			return
		}
		h.handleExports(w, r, path)
	case strings.HasPrefix(path, "/admin/"):
		h.handleScreen(w, r, strings.TrimPrefix(path, "/admin/"))
	default:
		http.NotFound(w, r)
	}
}

func (h *Handler) handleMenu(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"menu": h.Service.Menu()})
}

func (h *Handler) handleScreen(w http.ResponseWriter, r *http.Request, remainder string) {
	segments := strings.Split(remainder, "/")
	switch {
	case len(segments) == 1 && segments[0] != "":
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		h.handleRender(w, r, segments[0])
	case len(segments) == 2 && segments[0] != "" && segments[1] != "":
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		h.handleDispatch(w, r, segments[0], segments[1])
	default:
		http.NotFound(w, r)
	}
}

func (h *Handler) handleRender(w http.ResponseWriter, r *http.Request, route string) {
	doc, err := h.Service.Render(r.Context(), route)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (h *Handler) handleDispatch(w http.ResponseWriter, r *http.Request, route, action string) {
	var payload screen.Payload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil && err.Error() != "EOF" {
		writeError(w, http.StatusBadRequest, "invalid dispatch payload")
		return
	}
	if payload == nil {
		payload = screen.Payload{}
	}

	result, err := h.Service.Dispatch(r.Context(), route, action, payload)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	// A rejected result without a transport error is a validation failure:
	// the response re-renders the form with inline errors.
	if result.State == core.StateRejected {
		writeJSON(w, http.StatusUnprocessableEntity, result)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) handleExports(w http.ResponseWriter, r *http.Request, path string) {
	if path == "/admin/exports" {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		h.handleExportCreate(w, r)
		return
	}
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	id := strings.TrimPrefix(path, "/admin/exports/")
	if id == "" || strings.Contains(id, "/") {
		http.NotFound(w, r)
		return
	}
	record, ok := h.Exports.GetExport(id)
	if !ok {
		writeError(w, http.StatusNotFound, "export not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"export": record})
}

type exportRequest struct {
	Route       string   `json:"route"`
	Formats     []string `json:"formats"`
	RequestedBy string   `json:"requested_by"`
	Reason      string   `json:"reason"`
}

func (h *Handler) handleExportCreate(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err.Error() != "EOF" {
		writeError(w, http.StatusBadRequest, "invalid export request payload")
		return
	}
	formats := make([]exports.Format, 0, len(req.Formats))
	for _, f := range req.Formats {
		formats = append(formats, exports.Format(strings.ToLower(strings.TrimSpace(f))))
	}
	record, err := h.Exports.EnqueueExport(r.Context(), exports.ExportInput{
		Route:       req.Route,
		Formats:     formats,
		RequestedBy: req.RequestedBy,
		Reason:      req.Reason,
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]any{"export": record})
}

// writeDomainError maps the error taxonomy onto HTTP statuses: unknown
// routes/actions and missing records are 404, stale edits are 409, missing
// confirmation is 428, rule failures are 422.
func writeDomainError(w http.ResponseWriter, err error) {
	var (
		unknownErr  screen.UnknownActionError
		notFoundErr screen.NotFoundError
		confirmErr  screen.ConfirmationRequiredError
		conflictErr screen.ConflictError
		validateErr screen.ValidationError
	)
	switch {
	case errors.As(err, &unknownErr):
		writeError(w, http.StatusNotFound, unknownErr.Error())
	case errors.As(err, &notFoundErr):
		writeError(w, http.StatusNotFound, notFoundErr.Error())
	case errors.As(err, &confirmErr):
		writeError(w, http.StatusPreconditionRequired, confirmErr.Error())
	case errors.As(err, &conflictErr):
		writeError(w, http.StatusConflict, conflictErr.Error())
	case errors.As(err, &validateErr):
		writeError(w, http.StatusUnprocessableEntity, validateErr.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": message})
}
