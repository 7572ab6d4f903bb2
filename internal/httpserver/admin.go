// apps/go-server/internal/httpserver/admin.go
//
// Operator endpoints.
// Responsibilities:
//   - POST /admin/token: exchange the operator password for a short-lived JWT.
//   - GET  /admin/stats: live lobby/orchestrator counters.
//   - GET  /admin/leaderboard: top winners from the round store.
//
// Notes:
//   - The password is checked against a bcrypt hash from configuration; with
//     no hash configured, token issuance is disabled.
//   - Tokens are HS256, read from the Authorization header or the admin cookie.

package httpserver

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

const (
	adminCookieName = "wordduel_admin"
	adminSubject    = "admin"
)

// AdminOptions configures operator authentication.
type AdminOptions struct {
	PasswordHash string
	JWTSecret    string
	TokenTTL     time.Duration
	SecureCookie bool
}

type tokenReq struct {
	Password string `json:"password"`
}

type tokenRes struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// mountAdmin registers /admin routes on r.
func (s *Server) mountAdmin(r chi.Router) {
	r.Route("/admin", func(r chi.Router) {
		r.Post("/token", s.handleAdminToken)

		r.Group(func(r chi.Router) {
			r.Use(s.requireAdmin())
			r.Get("/stats", s.handleAdminStats)
			r.Get("/leaderboard", s.handleLeaderboard)
		})
	})
}

func (s *Server) handleAdminToken(w http.ResponseWriter, r *http.Request) {
	if s.opts.Admin.PasswordHash == "" {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "admin_disabled"})
		return
	}
	var body tokenReq
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_json"})
		return
	}
	if !checkPassword(s.opts.Admin.PasswordHash, body.Password) {
		log.Warn().Str("remote", r.RemoteAddr).Msg("admin login rejected")
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid_password"})
		return
	}
	tok, exp, err := s.signJWT()
	if err != nil {
		log.Error().Err(err).Msg("sign admin token")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "sign_failed"})
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     adminCookieName,
		Value:    tok,
		Path:     "/admin",
		HttpOnly: true,
		Secure:   s.opts.Admin.SecureCookie,
		SameSite: http.SameSiteStrictMode,
		Expires:  exp,
	})
	writeJSON(w, http.StatusOK, tokenRes{Token: tok, ExpiresAt: exp})
}

func (s *Server) handleAdminStats(w http.ResponseWriter, r *http.Request) {
	out := map[string]any{}
	if s.deps.Stats != nil {
		out["game"] = s.deps.Stats.Stats()
	}
	if s.deps.WSConns != nil {
		out["sockets"] = s.deps.WSConns()
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	if s.deps.Store == nil {
		writeJSON(w, http.StatusOK, []any{})
		return
	}
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad_limit"})
			return
		}
		limit = n
	}
	rows, err := s.deps.Store.Leaderboard(r.Context(), limit)
	if err != nil {
		log.Error().Err(err).Msg("leaderboard")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "db_error"})
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// requireAdmin rejects requests without a valid admin JWT.
func (s *Server) requireAdmin() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tok := bearerOrCookie(r)
			if tok == "" {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
				return
			}
			claims := jwt.RegisteredClaims{}
			t, err := jwt.ParseWithClaims(tok, &claims, func(t *jwt.Token) (interface{}, error) {
				return []byte(s.opts.Admin.JWTSecret), nil
			}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
			if err != nil || !t.Valid || claims.Subject != adminSubject {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// signJWT creates an HS256 admin token valid for the configured TTL.
func (s *Server) signJWT() (string, time.Time, error) {
	ttl := s.opts.Admin.TokenTTL
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	now := time.Now()
	exp := now.Add(ttl)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   adminSubject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	ss, err := t.SignedString([]byte(s.opts.Admin.JWTSecret))
	return ss, exp, err
}

// bearerOrCookie extracts a token from "Authorization: Bearer" or the admin cookie.
func bearerOrCookie(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	if c, err := r.Cookie(adminCookieName); err == nil {
		return c.Value
	}
	return ""
}

// checkPassword is a bcrypt verifier.
func checkPassword(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}
