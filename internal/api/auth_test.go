package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignupAndLogin(t *testing.T) {
	h, st, _ := newTestHandler(t)

	rec := signup(t, h, "Isimbi Gloria", "admin@guardianpharmacy.com", "admin", "secret123")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decodeBody[map[string]any](t, rec)
	assert.Empty(t, created["password"], "hash must not leak in responses")

	token := login(t, h, "admin@guardianpharmacy.com", "secret123")
	assert.NotEmpty(t, token)

	sess, err := st.Session()
	require.NoError(t, err)
	assert.True(t, sess.IsLoggedIn)
	assert.Equal(t, "admin@guardianpharmacy.com", sess.Email)

	staff, err := st.Staff()
	require.NoError(t, err)
	require.Len(t, staff, 1)
	assert.NotNil(t, staff[0].LastLogin)
}

func TestLoginRejectsBadPassword(t *testing.T) {
	h, _, _ := newTestHandler(t)
	signup(t, h, "Isimbi Gloria", "admin@guardianpharmacy.com", "admin", "secret123")

	rec := do(t, h, http.MethodPost, "/auth/login", "", map[string]string{
		"email":    "admin@guardianpharmacy.com",
		"password": "wrongpass1",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestThirdAdminRejected(t *testing.T) {
	h, _, _ := newTestHandler(t)

	rec := signup(t, h, "Admin One", "one@guardianpharmacy.com", "admin", "secret123")
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = signup(t, h, "Admin Two", "two@guardianpharmacy.com", "admin", "secret123")
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = signup(t, h, "Admin Three", "three@guardianpharmacy.com", "admin", "secret123")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "admin limit reached")

	// Pharmacists are unaffected by the cap.
	rec = signup(t, h, "John Doe", "john@guardianpharmacy.com", "pharmacist", "secret123")
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestSignupRejectsDuplicateEmail(t *testing.T) {
	h, _, _ := newTestHandler(t)
	signup(t, h, "Admin", "admin@guardianpharmacy.com", "admin", "secret123")

	rec := signup(t, h, "Imposter", "Admin@GuardianPharmacy.com", "pharmacist", "secret123")
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestSignupEnforcesPasswordPolicy(t *testing.T) {
	h, _, _ := newTestHandler(t)

	rec := signup(t, h, "Weak", "weak@guardianpharmacy.com", "pharmacist", "short1")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = signup(t, h, "Weak", "weak@guardianpharmacy.com", "pharmacist", "lettersonly")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "letter and one digit")
}

func TestDeactivatedAccountCannotLogin(t *testing.T) {
	h, _, _ := newTestHandler(t)
	token := adminToken(t, h)

	rec := signup(t, h, "John Doe", "john@guardianpharmacy.com", "pharmacist", "secret123")
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeBody[map[string]any](t, rec)
	id := int(created["id"].(float64))

	rec = do(t, h, http.MethodPost, "/staff/"+itoa(id)+"/toggle-status", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, h, http.MethodPost, "/auth/login", "", map[string]string{
		"email":    "john@guardianpharmacy.com",
		"password": "secret123",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestLogoutFlipsSession(t *testing.T) {
	h, st, _ := newTestHandler(t)
	token := adminToken(t, h)

	rec := do(t, h, http.MethodPost, "/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	sess, err := st.Session()
	require.NoError(t, err)
	assert.False(t, sess.IsLoggedIn)
	assert.NotEmpty(t, sess.Email, "logout keeps the record, only flips the flag")
}

func TestResetPassword(t *testing.T) {
	h, _, _ := newTestHandler(t)
	token := adminToken(t, h)

	rec := do(t, h, http.MethodPost, "/auth/reset-password", token, map[string]string{
		"currentPassword": "wrong",
		"newPassword":     "newsecret1",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, h, http.MethodPost, "/auth/reset-password", token, map[string]string{
		"currentPassword": "secret123",
		"newPassword":     "newsecret1",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	login(t, h, "admin@guardianpharmacy.com", "newsecret1")
}

func TestStaffRoutesRequireAdmin(t *testing.T) {
	h, _, _ := newTestHandler(t)
	adminToken(t, h)
	signup(t, h, "John Doe", "john@guardianpharmacy.com", "pharmacist", "secret123")
	token := login(t, h, "john@guardianpharmacy.com", "secret123")

	rec := do(t, h, http.MethodGet, "/staff/", token, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
