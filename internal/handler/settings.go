package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"retailpos-backend/internal/domain"
	"retailpos-backend/internal/repository"
)

type SettingsHandler struct {
	Repo repository.ProfileRepository
}

func (h SettingsHandler) RegisterRoutes(r chi.Router) {
	r.Get("/settings/profile", h.getProfile)
	r.Put("/settings/profile", h.updateProfile)
	r.Get("/settings/categories", h.listCategories)
	r.Post("/settings/categories", h.addCategory)
	r.Delete("/settings/categories/{id}", h.deleteCategory)
}

func (h SettingsHandler) getProfile(w http.ResponseWriter, r *http.Request) {
	p, err := h.Repo.Get(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toProfileJSON(*p))
}

func (h SettingsHandler) updateProfile(w http.ResponseWriter, r *http.Request) {
	var req struct {
		BusinessName   *string `json:"businessName"`
		OwnerName      *string `json:"ownerName"`
		Email          *string `json:"email"`
		Phone          *string `json:"phone"`
		Address        *string `json:"address"`
		GSTIN          *string `json:"gstin"`
		Description    *string `json:"description"`
		Established    *string `json:"established"`
		Specialization *string `json:"specialization"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	p, err := h.Repo.Update(r.Context(), domain.ProfilePatch{
		BusinessName:   req.BusinessName,
		OwnerName:      req.OwnerName,
		Email:          req.Email,
		Phone:          req.Phone,
		Address:        req.Address,
		GSTIN:          req.GSTIN,
		Description:    req.Description,
		Established:    req.Established,
		Specialization: req.Specialization,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toProfileJSON(*p))
}

func (h SettingsHandler) listCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.Repo.ListCategories(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	resp := make([]map[string]any, 0, len(cats))
	for _, c := range cats {
		resp = append(resp, map[string]any{"id": c.ID, "name": c.Name})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h SettingsHandler) addCategory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	c, err := h.Repo.AddCategory(r.Context(), req.Name)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": c.ID, "name": c.Name})
}

func (h SettingsHandler) deleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid category id")
		return
	}
	if err := h.Repo.DeleteCategory(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "category not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func toProfileJSON(p domain.Profile) map[string]any {
	return map[string]any{
		"businessName":   p.BusinessName,
		"ownerName":      p.OwnerName,
		"email":          p.Email,
		"phone":          p.Phone,
		"address":        p.Address,
		"gstin":          p.GSTIN,
		"description":    p.Description,
		"established":    p.Established,
		"specialization": p.Specialization,
		"updatedAt":      p.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
