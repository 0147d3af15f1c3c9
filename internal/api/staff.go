package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	"guardianrx/m/domain"
	"guardianrx/m/internal/export"
)

type staffUpdateRequest struct {
	Name        string              `json:"name"`
	Email       string              `json:"email"`
	Phone       string              `json:"phone"`
	Role        string              `json:"role"`
	Permissions *domain.Permissions `json:"permissions"`
}

type staffPasswordRequest struct {
	NewPassword string `json:"newPassword"`
}

func (h *Handler) listStaff(w http.ResponseWriter, r *http.Request) {
	staff, err := h.store.Staff()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load staff")
		return
	}
	for i := range staff {
		staff[i].Password = ""
	}
	respondJSON(w, http.StatusOK, staff)
}

// createStaff reuses the signup flow; the route sits behind requireAdmin.
func (h *Handler) createStaff(w http.ResponseWriter, r *http.Request) {
	h.signup(w, r)
}

func (h *Handler) updateStaff(w http.ResponseWriter, r *http.Request) {
	id, err := staffID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid staff id")
		return
	}
	var req staffUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	staff, loadErr := h.store.Staff()
	if loadErr != nil {
		respondError(w, http.StatusInternalServerError, "failed to load staff")
		return
	}

	admins := 0
	for _, s := range staff {
		if s.Role == domain.RoleAdmin {
			admins++
		}
	}

	for i := range staff {
		if staff[i].ID != id {
			continue
		}
		if req.Role == domain.RoleAdmin && staff[i].Role != domain.RoleAdmin && admins >= domain.MaxAdmins {
			respondError(w, http.StatusConflict, "admin limit reached")
			return
		}
		if req.Name != "" {
			staff[i].Name = strings.TrimSpace(req.Name)
		}
		if req.Email != "" {
			staff[i].Email = strings.ToLower(strings.TrimSpace(req.Email))
		}
		if req.Phone != "" {
			staff[i].Phone = strings.TrimSpace(req.Phone)
		}
		if req.Role != "" {
			staff[i].Role = req.Role
			if req.Role == domain.RoleAdmin {
				staff[i].Permissions = domain.AllPermissions()
			}
		}
		if req.Permissions != nil {
			staff[i].Permissions = *req.Permissions
		}
		if err := h.store.SaveStaff(staff); err != nil {
			respondError(w, http.StatusInternalServerError, "failed to save staff")
			return
		}
		h.logActivity("Updated staff account "+staff[i].Name, h.caller(r), domain.VisibilityAdminOnly)
		out := staff[i]
		out.Password = ""
		respondJSON(w, http.StatusOK, out)
		return
	}
	respondError(w, http.StatusNotFound, "staff account not found")
}

func (h *Handler) deleteStaff(w http.ResponseWriter, r *http.Request) {
	id, err := staffID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid staff id")
		return
	}

	actor := h.caller(r)
	if id == actor.ID {
		respondError(w, http.StatusConflict, "cannot delete your own account")
		return
	}

	staff, loadErr := h.store.Staff()
	if loadErr != nil {
		respondError(w, http.StatusInternalServerError, "failed to load staff")
		return
	}

	name := ""
	kept := staff[:0]
	for _, s := range staff {
		if s.ID == id {
			name = s.Name
			continue
		}
		kept = append(kept, s)
	}
	if name == "" {
		respondError(w, http.StatusNotFound, "staff account not found")
		return
	}
	if err := h.store.SaveStaff(kept); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to save staff")
		return
	}

	h.logActivity("Deleted account for "+name, actor, domain.VisibilityAdminOnly)
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) toggleStaffStatus(w http.ResponseWriter, r *http.Request) {
	id, err := staffID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid staff id")
		return
	}

	staff, loadErr := h.store.Staff()
	if loadErr != nil {
		respondError(w, http.StatusInternalServerError, "failed to load staff")
		return
	}

	for i := range staff {
		if staff[i].ID != id {
			continue
		}
		if staff[i].Status == domain.StatusActive {
			staff[i].Status = domain.StatusInactive
		} else {
			staff[i].Status = domain.StatusActive
		}
		if err := h.store.SaveStaff(staff); err != nil {
			respondError(w, http.StatusInternalServerError, "failed to save staff")
			return
		}
		h.logActivity("Set "+staff[i].Name+" to "+staff[i].Status, h.caller(r), domain.VisibilityAdminOnly)
		respondJSON(w, http.StatusOK, map[string]string{"status": staff[i].Status})
		return
	}
	respondError(w, http.StatusNotFound, "staff account not found")
}

func (h *Handler) changeStaffPassword(w http.ResponseWriter, r *http.Request) {
	id, err := staffID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid staff id")
		return
	}
	var req staffPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := validatePassword(req.NewPassword); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	staff, loadErr := h.store.Staff()
	if loadErr != nil {
		respondError(w, http.StatusInternalServerError, "failed to load staff")
		return
	}

	for i := range staff {
		if staff[i].ID != id {
			continue
		}
		hash, hashErr := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
		if hashErr != nil {
			respondError(w, http.StatusInternalServerError, "failed to hash password")
			return
		}
		staff[i].Password = string(hash)
		if err := h.store.SaveStaff(staff); err != nil {
			respondError(w, http.StatusInternalServerError, "failed to save staff")
			return
		}
		h.logActivity("Changed password for "+staff[i].Name, h.caller(r), domain.VisibilityAdminOnly)
		respondJSON(w, http.StatusOK, map[string]string{"status": "password updated"})
		return
	}
	respondError(w, http.StatusNotFound, "staff account not found")
}

func (h *Handler) exportStaffCSV(w http.ResponseWriter, r *http.Request) {
	staff, err := h.store.Staff()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load staff")
		return
	}
	h.logActivity("Exported staff roster", h.caller(r), domain.VisibilityAdminOnly)
	respondCSV(w, "staff.csv", export.StaffCSV(staff))
}

func staffID(r *http.Request) (int, error) {
	return strconv.Atoi(chi.URLParam(r, "id"))
}
