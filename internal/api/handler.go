package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"

	"guardianrx/m/domain"
	"guardianrx/m/internal/activity"
	"guardianrx/m/internal/store"
)

type ctxKey string

const (
	ctxUserID ctxKey = "userID"
	ctxRole   ctxKey = "role"
	ctxEmail  ctxKey = "email"
	ctxName   ctxKey = "name"
)

// Handler bundles dependencies for HTTP handlers.
type Handler struct {
	store  *store.Store
	secret string
	log    *slog.Logger
	now    func() time.Time
	seq    atomic.Int64
}

// New constructs a Handler. A nil clock defaults to time.Now.
func New(st *store.Store, secret string, log *slog.Logger, now func() time.Time) *Handler {
	if now == nil {
		now = time.Now
	}
	return &Handler{store: st, secret: secret, log: log, now: now}
}

// Router wires up the HTTP API.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(h.requestLogger)

	r.Get("/health", h.health)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.login)
		r.Post("/signup", h.signup)
		r.Group(func(protected chi.Router) {
			protected.Use(h.authMiddleware)
			protected.Post("/logout", h.logout)
			protected.Post("/reset-password", h.resetPassword)
		})
	})

	r.Group(func(pr chi.Router) {
		pr.Use(h.authMiddleware)

		pr.Route("/inventory", func(r chi.Router) {
			r.Get("/", h.listInventory)
			r.Post("/", h.createMedicine)
			r.Get("/stats", h.inventoryStats)
			r.Get("/export", h.exportInventoryCSV)
			r.Get("/export.xlsx", h.exportInventoryXLSX)
			r.Post("/import", h.importStock)
			r.Get("/{id}", h.getMedicine)
			r.Put("/{id}", h.updateMedicine)
			r.Delete("/{id}", h.deleteMedicine)
		})

		pr.Route("/alerts", func(r chi.Router) {
			r.Get("/", h.listAlerts)
			r.Get("/stats", h.alertStats)
			r.Get("/export", h.exportAlertsCSV)
			r.Get("/disposal-report", h.disposalReport)
			r.Post("/resolve-critical", h.resolveAllCritical)
			r.Post("/resolve-all", h.resolveAllAlerts)
			r.Post("/{id}/resolve", h.resolveAlert)
			r.Delete("/medicine/{medicineId}", h.removeFromShelves)
		})

		pr.Route("/staff", func(r chi.Router) {
			r.Use(h.requireAdmin)
			r.Get("/", h.listStaff)
			r.Post("/", h.createStaff)
			r.Get("/export", h.exportStaffCSV)
			r.Put("/{id}", h.updateStaff)
			r.Delete("/{id}", h.deleteStaff)
			r.Post("/{id}/toggle-status", h.toggleStaffStatus)
			r.Post("/{id}/password", h.changeStaffPassword)
		})

		pr.Route("/reports", func(r chi.Router) {
			r.Get("/dashboard", h.dashboardReport)
			r.Get("/key-metrics", h.keyMetrics)
			r.Get("/financials", h.financialsReport)
			r.Get("/expiry-analysis", h.expiryAnalysis)
			r.Get("/monthly-trends", h.monthlyTrends)
		})

		pr.Get("/activity", h.listActivity)
		pr.Get("/notifications", h.listNotifications)
	})

	return r
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := h.now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		h.log.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start).String(),
		)
	})
}

// Authentication helpers

type authClaims struct {
	UserID int    `json:"user_id"`
	Role   string `json:"role"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	jwt.RegisteredClaims
}

func (h *Handler) generateToken(account domain.StaffAccount) (string, error) {
	now := h.now()
	claims := authClaims{
		UserID: account.ID,
		Role:   account.Role,
		Email:  account.Email,
		Name:   account.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.secret))
}

func (h *Handler) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
			respondError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		tokenString := strings.TrimSpace(header[len("Bearer "):])
		token, err := jwt.ParseWithClaims(tokenString, &authClaims{}, func(token *jwt.Token) (interface{}, error) {
			if token.Method != jwt.SigningMethodHS256 {
				return nil, errors.New("unexpected signing method")
			}
			return []byte(h.secret), nil
		}, jwt.WithTimeFunc(func() time.Time { return h.now() }))
		if err != nil || !token.Valid {
			respondError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		claims, ok := token.Claims.(*authClaims)
		if !ok {
			respondError(w, http.StatusUnauthorized, "invalid token claims")
			return
		}

		h.touchSession(claims.Email)

		ctx := context.WithValue(r.Context(), ctxUserID, claims.UserID)
		ctx = context.WithValue(ctx, ctxRole, claims.Role)
		ctx = context.WithValue(ctx, ctxEmail, claims.Email)
		ctx = context.WithValue(ctx, ctxName, claims.Name)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if role, _ := r.Context().Value(ctxRole).(string); role != domain.RoleAdmin {
			respondError(w, http.StatusForbidden, "insufficient permissions")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// caller reconstructs the acting identity from the request context.
func (h *Handler) caller(r *http.Request) domain.Session {
	id, _ := r.Context().Value(ctxUserID).(int)
	role, _ := r.Context().Value(ctxRole).(string)
	email, _ := r.Context().Value(ctxEmail).(string)
	name, _ := r.Context().Value(ctxName).(string)
	return domain.Session{ID: id, Role: role, Email: email, Name: name}
}

// logActivity appends one audit record, trimming the log to its cap. Failures
// are logged and swallowed: audit writes never fail the triggering action.
func (h *Handler) logActivity(description string, actor domain.Session, visibility domain.Visibility) {
	records, err := h.store.Activities()
	if err != nil {
		h.log.Error("load activity log", "error", err)
		return
	}
	rec := activity.NewRecord(description, actor, visibility, h.now())
	if err := h.store.SaveActivities(activity.Append(records, rec)); err != nil {
		h.log.Error("save activity log", "error", err)
	}
}

// Helpers

func decodeJSON(r *http.Request, dest interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dest)
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	_ = encoder.Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func respondCSV(w http.ResponseWriter, filename, body string) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(body))
}
