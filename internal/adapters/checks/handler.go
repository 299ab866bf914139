// Package checks exposes the bath layout configuration and compatibility
// check engine over HTTP.
package checks

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/Ulrike-Hampacher/Badlayout-Chromax/internal/core"
	"github.com/Ulrike-Hampacher/Badlayout-Chromax/pkg/domain"
)

// Handler routes the /api/v1 configuration and check endpoints onto a
// core.Service.
type Handler struct {
	Service *core.Service
}

// NewHandler constructs a checks HTTP handler.
func NewHandler(service *core.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.Service == nil {
		writeError(w, http.StatusInternalServerError, "configuration service not configured")
		return
	}

	path := strings.TrimSuffix(r.URL.Path, "/")
	switch {
	case path == "/api/v1/state":
		h.handleState(w, r)
	case path == "/api/v1/checks":
		h.handleRunCheck(w, r)
	case path == "/api/v1/checks/last":
		h.handleLastCheck(w, r)
	case path == "/api/v1/layout":
		h.handleLayout(w, r)
	case path == "/api/v1/layout/modes":
		h.handleWaterModes(w, r)
	case path == "/api/v1/layout/waterflow":
		h.handleWaterFlow(w, r)
	case path == "/api/v1/run/selection":
		h.handleRunSelection(w, r)
	case path == "/api/v1/audit":
		h.handleAudit(w, r)
	case path == "/api/v1/catalog/classes":
		h.handleUpsertClass(w, r)
	case strings.HasPrefix(path, "/api/v1/catalog/classes/"):
		h.handleDeleteClass(w, r, strings.TrimPrefix(path, "/api/v1/catalog/classes/"))
	case path == "/api/v1/catalog/reagents":
		h.handleUpsertReagent(w, r)
	case strings.HasPrefix(path, "/api/v1/catalog/reagents/"):
		h.handleDeleteReagent(w, r, strings.TrimPrefix(path, "/api/v1/catalog/reagents/"))
	case strings.HasPrefix(path, "/api/v1/programs/"):
		h.handleProgram(w, r, strings.TrimPrefix(path, "/api/v1/programs/"))
	default:
		http.NotFound(w, r)
	}
}

func (h *Handler) handleState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"state": h.Service.StateSnapshot()})
}

func (h *Handler) handleRunCheck(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req struct {
		Selected []string `json:"selected"`
	}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid check request payload")
			return
		}
	}
	report, err := h.Service.Check(r.Context(), req.Selected...)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"report": report})
}

func (h *Handler) handleLastCheck(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	report, ok := h.Service.LastCheck()
	if !ok {
		writeError(w, http.StatusNotFound, "no check has been run yet")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"report": report})
}

func (h *Handler) handleLayout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req struct {
		Assignments map[string]string `json:"assignments"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Assignments) == 0 {
		writeError(w, http.StatusBadRequest, "invalid layout payload")
		return
	}
	res, err := h.Service.SaveLayout(r.Context(), req.Assignments)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"result": res})
}

func (h *Handler) handleWaterModes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req struct {
		Modes map[string]domain.WaterMode `json:"modes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Modes) == 0 {
		writeError(w, http.StatusBadRequest, "invalid water mode payload")
		return
	}
	res, err := h.Service.SetWaterModes(r.Context(), req.Modes)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"result": res})
}

func (h *Handler) handleWaterFlow(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req struct {
		WaterFlowLMin *float64 `json:"water_flow_l_min"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.WaterFlowLMin == nil {
		writeError(w, http.StatusBadRequest, "invalid water flow payload")
		return
	}
	res, err := h.Service.SetWaterFlow(r.Context(), *req.WaterFlowLMin)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"result": res})
}

func (h *Handler) handleRunSelection(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req struct {
		Selected []string `json:"selected"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid run selection payload")
		return
	}
	res, err := h.Service.SetRunSelection(r.Context(), req.Selected)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"result": res})
}

func (h *Handler) handleAudit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"audit": h.Service.AuditTrail()})
}

func (h *Handler) handleUpsertClass(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var class domain.ReagentClass
	if err := json.NewDecoder(r.Body).Decode(&class); err != nil {
		writeError(w, http.StatusBadRequest, "invalid class payload")
		return
	}
	saved, res, err := h.Service.UpsertClass(r.Context(), class)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"class": saved, "result": res})
}

func (h *Handler) handleDeleteClass(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodDelete {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	res, err := h.Service.DeleteClass(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"result": res})
}

func (h *Handler) handleUpsertReagent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var reagent domain.Reagent
	if err := json.NewDecoder(r.Body).Decode(&reagent); err != nil {
		writeError(w, http.StatusBadRequest, "invalid reagent payload")
		return
	}
	saved, res, err := h.Service.UpsertReagent(r.Context(), reagent)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"reagent": saved, "result": res})
}

func (h *Handler) handleDeleteReagent(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodDelete {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	res, err := h.Service.DeleteReagent(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"result": res})
}

func (h *Handler) handleProgram(w http.ResponseWriter, r *http.Request, remainder string) {
	segments := strings.Split(remainder, "/")
	name := segments[0]
	if name == "" {
		writeError(w, http.StatusNotFound, "program not found")
		return
	}

	if len(segments) == 1 {
		switch r.Method {
		case http.MethodPost:
			created, res, err := h.Service.CreateProgram(r.Context(), name)
			if err != nil {
				writeServiceError(w, err)
				return
			}
			writeJSON(w, http.StatusCreated, map[string]any{"program": created, "result": res})
		case http.MethodPut:
			var req struct {
				Name string `json:"name"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
				writeError(w, http.StatusBadRequest, "invalid rename payload")
				return
			}
			res, err := h.Service.RenameProgram(r.Context(), name, req.Name)
			if err != nil {
				writeServiceError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"result": res})
		case http.MethodDelete:
			res, err := h.Service.DeleteProgram(r.Context(), name)
			if err != nil {
				writeServiceError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"result": res})
		default:
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		}
		return
	}

	if len(segments) == 2 && segments[1] == "steps" {
		if r.Method != http.MethodPut {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		var req struct {
			Steps []domain.Step `json:"steps"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid steps payload")
			return
		}
		saved, res, err := h.Service.SaveProgramSteps(r.Context(), name, req.Steps)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"program": saved, "result": res})
		return
	}

	writeError(w, http.StatusNotFound, "program endpoint not found")
}

// writeServiceError maps service errors to HTTP statuses: rule violations
// carry their findings with 409, missing entities 404, everything else 400.
func writeServiceError(w http.ResponseWriter, err error) {
	var violation domain.RuleViolationError
	if errors.As(err, &violation) {
		writeJSON(w, http.StatusConflict, map[string]any{
			"error":  violation.Error(),
			"result": violation.Result,
		})
		return
	}
	var notFound domain.ErrNotFound
	if errors.As(err, &notFound) {
		writeError(w, http.StatusNotFound, notFound.Error())
		return
	}
	writeError(w, http.StatusBadRequest, err.Error())
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": message})
}
