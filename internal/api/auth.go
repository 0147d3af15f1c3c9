package api

import (
	"net/http"
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"

	"guardianrx/m/domain"
	"guardianrx/m/internal/metrics"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Role     string `json:"role"`
	Password string `json:"password"`
}

type resetPasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	staff, err := h.store.Staff()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load staff")
		return
	}

	idx := -1
	for i, s := range staff {
		if strings.EqualFold(s.Email, req.Email) {
			idx = i
			break
		}
	}
	if idx < 0 {
		respondError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}
	account := staff[idx]
	if account.Status != domain.StatusActive {
		respondError(w, http.StatusForbidden, "account is deactivated")
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(account.Password), []byte(req.Password)) != nil {
		respondError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	now := h.now()
	staff[idx].LastLogin = &now
	if err := h.store.SaveStaff(staff); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to save staff")
		return
	}

	sess := domain.Session{
		ID:           account.ID,
		Name:         account.Name,
		Email:        account.Email,
		Role:         account.Role,
		Permissions:  account.Permissions,
		IsLoggedIn:   true,
		LoginTime:    now,
		LastActivity: now,
	}
	if err := h.store.SaveSession(sess); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to save session")
		return
	}

	token, err := h.generateToken(account)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to sign token")
		return
	}

	metrics.LoginsTotal.Inc()
	h.logActivity(account.Name+" logged in", domain.Session{
		ID: account.ID, Name: account.Name, Email: account.Email, Role: account.Role,
	}, domain.VisibilityAll)

	account.Password = ""
	respondJSON(w, http.StatusOK, map[string]any{"token": token, "user": account})
}

func (h *Handler) signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Name = strings.TrimSpace(req.Name)
	if req.Role == "" {
		req.Role = domain.RolePharmacist
	}

	if req.Name == "" || req.Email == "" {
		respondError(w, http.StatusBadRequest, "name and email are required")
		return
	}
	if err := validatePassword(req.Password); err != "" {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	staff, err := h.store.Staff()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load staff")
		return
	}

	admins := 0
	for _, s := range staff {
		if strings.EqualFold(s.Email, req.Email) {
			respondError(w, http.StatusConflict, "an account with this email already exists")
			return
		}
		if s.Role == domain.RoleAdmin {
			admins++
		}
	}
	if req.Role == domain.RoleAdmin && admins >= domain.MaxAdmins {
		respondError(w, http.StatusConflict, "admin limit reached")
		return
	}

	hash, hashErr := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if hashErr != nil {
		respondError(w, http.StatusInternalServerError, "failed to hash password")
		return
	}

	account := domain.StaffAccount{
		ID:        nextStaffID(staff),
		Name:      req.Name,
		Email:     req.Email,
		Phone:     strings.TrimSpace(req.Phone),
		Role:      req.Role,
		Status:    domain.StatusActive,
		Password:  string(hash),
		CreatedAt: h.now(),
	}
	if account.Role == domain.RoleAdmin {
		account.Permissions = domain.AllPermissions()
	} else {
		account.Permissions = domain.Permissions{Inventory: true, Alerts: true}
	}

	staff = append(staff, account)
	if err := h.store.SaveStaff(staff); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to save staff")
		return
	}

	// Attribute the entry to the acting admin on the staff route; on public
	// signup there is no caller, so the new account stands for itself.
	actor := h.caller(r)
	if actor.Name == "" {
		actor = domain.Session{ID: account.ID, Name: account.Name, Email: account.Email, Role: account.Role}
	}
	h.logActivity("Created account for "+account.Name, actor, domain.VisibilityAdminOnly)

	account.Password = ""
	respondJSON(w, http.StatusCreated, account)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	actor := h.caller(r)

	sess, err := h.store.Session()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load session")
		return
	}
	sess.IsLoggedIn = false
	if err := h.store.SaveSession(sess); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to save session")
		return
	}

	h.logActivity(actor.Name+" logged out", actor, domain.VisibilityAll)
	respondJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

func (h *Handler) resetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validatePassword(req.NewPassword); err != "" {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	actor := h.caller(r)
	staff, err := h.store.Staff()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load staff")
		return
	}

	for i := range staff {
		if staff[i].ID != actor.ID {
			continue
		}
		if bcrypt.CompareHashAndPassword([]byte(staff[i].Password), []byte(req.CurrentPassword)) != nil {
			respondError(w, http.StatusUnauthorized, "current password is incorrect")
			return
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
		h.logActivity(actor.Name+" changed password", actor, domain.VisibilityAdminOnly)
		respondJSON(w, http.StatusOK, map[string]string{"status": "password updated"})
		return
	}
	respondError(w, http.StatusNotFound, "account not found")
}

// validatePassword enforces the minimum policy: 8+ characters with at least
// one letter and one digit. Returns an empty string when the password passes.
func validatePassword(password string) string {
	if len(password) < 8 {
		return "password must be at least 8 characters"
	}
	hasLetter, hasDigit := false, false
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return "password must contain at least one letter and one digit"
	}
	return ""
}

func nextStaffID(staff []domain.StaffAccount) int {
	next := 1
	for _, s := range staff {
		if s.ID >= next {
			next = s.ID + 1
		}
	}
	return next
}
