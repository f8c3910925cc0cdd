package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"charityfund/internal/domain"
	"charityfund/internal/ledger"
)

type projectCreateRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	FullAmount  int64  `json:"full_amount"`
}

type projectUpdateRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	FullAmount  *int64  `json:"full_amount"`
}

func (a *App) ProjectsCreate(w http.ResponseWriter, r *http.Request) {
	var req projectCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || len(req.Name) > domain.MaxProjectNameLength {
		a.error(w, http.StatusBadRequest, "bad_request", "name must be 1-100 characters")
		return
	}
	if strings.TrimSpace(req.Description) == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "description must not be empty")
		return
	}
	if req.FullAmount <= 0 {
		a.error(w, http.StatusBadRequest, "bad_request", "full_amount must be positive")
		return
	}

	project := &domain.Project{
		Name:        req.Name,
		Description: req.Description,
	}
	project.FullAmount = req.FullAmount

	created, err := a.Ledger.CreateProject(r.Context(), project)
	if err != nil {
		a.domainError(w, err, "failed to create project")
		return
	}
	a.json(w, http.StatusCreated, toProjectDTO(created))
}

func (a *App) ProjectsList(w http.ResponseWriter, r *http.Request) {
	items, err := a.Ledger.ListProjects(r.Context())
	if err != nil {
		a.domainError(w, err, "failed to list projects")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"items": toProjectDTOs(items)})
}

func (a *App) ProjectsGet(w http.ResponseWriter, r *http.Request) {
	id, ok := a.projectID(w, r)
	if !ok {
		return
	}
	project, err := a.Ledger.GetProject(r.Context(), id)
	if err != nil {
		a.domainError(w, err, "failed to load project")
		return
	}
	a.json(w, http.StatusOK, toProjectDTO(project))
}

func (a *App) ProjectsUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := a.projectID(w, r)
	if !ok {
		return
	}
	var req projectUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.Name != nil {
		trimmed := strings.TrimSpace(*req.Name)
		if trimmed == "" || len(trimmed) > domain.MaxProjectNameLength {
			a.error(w, http.StatusBadRequest, "bad_request", "name must be 1-100 characters")
			return
		}
		req.Name = &trimmed
	}
	if req.Description != nil && strings.TrimSpace(*req.Description) == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "description must not be empty")
		return
	}
	if req.FullAmount != nil && *req.FullAmount <= 0 {
		a.error(w, http.StatusBadRequest, "bad_request", "full_amount must be positive")
		return
	}

	updated, err := a.Ledger.UpdateProject(r.Context(), id, ledger.ProjectPatch{
		Name:        req.Name,
		Description: req.Description,
		FullAmount:  req.FullAmount,
	})
	if err != nil {
		a.domainError(w, err, "failed to update project")
		return
	}
	a.json(w, http.StatusOK, toProjectDTO(updated))
}

func (a *App) ProjectsDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := a.projectID(w, r)
	if !ok {
		return
	}
	if err := a.Ledger.DeleteProject(r.Context(), id); err != nil {
		a.domainError(w, err, "failed to delete project")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *App) projectID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid project id")
		return uuid.Nil, false
	}
	return id, true
}

// domainError maps domain sentinels onto HTTP codes; anything unrecognized
// is a store failure, logged and reported as 500.
func (a *App) domainError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		a.error(w, http.StatusNotFound, "not_found", "project or donation not found")
	case errors.Is(err, domain.ErrNameTaken):
		a.error(w, http.StatusConflict, "conflict", "project name already in use")
	case errors.Is(err, domain.ErrProjectClosed):
		a.error(w, http.StatusUnprocessableEntity, "unprocessable", "closed project cannot be modified")
	case errors.Is(err, domain.ErrHasInvestment):
		a.error(w, http.StatusUnprocessableEntity, "unprocessable", "funded project cannot be deleted")
	case errors.Is(err, domain.ErrAmountBelowInvested):
		a.error(w, http.StatusUnprocessableEntity, "unprocessable", "full_amount cannot drop below invested_amount")
	default:
		a.Logger.Error().Err(err).Msg(fallback)
		a.error(w, http.StatusInternalServerError, "internal", fallback)
	}
}
