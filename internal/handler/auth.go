package handler

import (
    "context"
    "crypto/rand"
    "encoding/hex"
    "errors"
    "log"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/devhire/job-board/internal/config"
    "github.com/devhire/job-board/internal/middleware"
    "github.com/devhire/job-board/internal/repository"
    "github.com/devhire/job-board/internal/service"
    "github.com/devhire/job-board/internal/utils"
)

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Cfg    config.Config
	Users  *repository.UserRepo
	Tokens *service.TokenService
}

func NewAuthHandler(cfg config.Config, users *repository.UserRepo, tokens *service.TokenService) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: users, Tokens: tokens}
}

// ----- DTOs -----

type registerReq struct {
	Email            string `json:"email"`
	Password         string `json:"password"`
	Role             string `json:"role"` // DEVELOPER | RECRUITER
	Location         string `json:"location"`
	PreferredJobType string `json:"preferred_job_type"`
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userPart struct {
	ID    uint64 `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}
type authResp struct {
	AccessToken string   `json:"accessToken"`
	ExpiresIn   int      `json:"expiresIn"` // seconds
	User        userPart `json:"user"`
}

// Register creates a user and logs them in immediately. ADMIN is never
// self-assignable; anything but RECRUITER becomes DEVELOPER.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}
	role := strings.ToUpper(strings.TrimSpace(req.Role))
	if role != "RECRUITER" {
		role = "DEVELOPER"
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	uid, err := h.Users.Create(ctx, req.Email, req.Password, role, req.Location, req.PreferredJobType, h.Cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
		}
		log.Printf("auth: create user failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}
	return h.issueSession(c, http.StatusCreated, uid, req.Email, role)
}

// Login verifies credentials and starts a session. Unknown email and bad
// password produce the same response so user existence never leaks.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		log.Printf("auth: login query failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}
	if err := h.Tokens.TouchActivity(ctx, u.ID); err != nil {
		log.Printf("auth: activity stamp failed for user %d: %v", u.ID, err)
	}
	return h.issueSession(c, http.StatusOK, u.ID, u.Email, u.Role)
}

// Refresh rotates the refresh-token cookie and returns a fresh access
// token. Any rotation failure collapses into one generic 401.
func (h *AuthHandler) Refresh(c echo.Context) error {
	cookie, err := c.Cookie(middleware.RefreshCookieName)
	if err != nil || cookie.Value == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "No refresh token provided"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	pair, err := h.Tokens.Rotate(ctx, cookie.Value)
	if err != nil {
		h.clearAuthCookies(c)
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid refresh token"})
	}
	h.clearCookie(c, middleware.RefreshCookieName, true)
	h.setRefreshCookie(c, pair)
	return c.JSON(http.StatusOK, echo.Map{
		"accessToken": pair.AccessToken,
		"expiresIn":   h.Cfg.AccessTTLMin * 60,
	})
}

// Logout blacklists the presented refresh token (if any) and clears the
// auth cookies. Idempotent: logging out without a session is still 200.
func (h *AuthHandler) Logout(c echo.Context) error {
	if cookie, err := c.Cookie(middleware.RefreshCookieName); err == nil && cookie.Value != "" {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
		defer cancel()
		h.Tokens.BlacklistRefresh(ctx, cookie.Value)
	}
	h.clearAuthCookies(c)
	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}

// Me returns the authenticated principal.
func (h *AuthHandler) Me(c echo.Context) error {
	p, ok := principal(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	return c.JSON(http.StatusOK, userPart{ID: p.ID, Email: p.Email, Role: p.Role})
}

// issueSession mints a token pair, sets the refresh and CSRF cookies and
// writes the auth response body.
func (h *AuthHandler) issueSession(c echo.Context, status int, uid uint64, email, role string) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	pair, err := h.Tokens.GeneratePair(ctx, uid)
	if err != nil {
		log.Printf("auth: issue tokens failed for user %d: %v", uid, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue tokens failed"})
	}
	h.setRefreshCookie(c, pair)
	if err := h.setCSRFCookie(c); err != nil {
		log.Printf("auth: csrf cookie failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue tokens failed"})
	}
	return c.JSON(status, authResp{
		AccessToken: pair.AccessToken,
		ExpiresIn:   h.Cfg.AccessTTLMin * 60,
		User:        userPart{ID: uid, Email: email, Role: role},
	})
}

func (h *AuthHandler) setRefreshCookie(c echo.Context, pair service.Pair) {
	c.SetCookie(&http.Cookie{
		Name:     middleware.RefreshCookieName,
		Value:    pair.RefreshToken,
		Path:     "/",
		Domain:   h.Cfg.CookieDomain,
		Expires:  pair.RefreshExpires,
		MaxAge:   h.Cfg.RefreshTTLDays * 24 * 3600,
		HttpOnly: true,
		Secure:   h.Cfg.Env == "prod",
		SameSite: http.SameSiteStrictMode,
	})
}

// setCSRFCookie mints a fresh random CSRF token. The cookie is readable
// by the client so it can be echoed back in the X-CSRF-Token header.
func (h *AuthHandler) setCSRFCookie(c echo.Context) error {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return err
	}
	c.SetCookie(&http.Cookie{
		Name:     middleware.CSRFCookieName,
		Value:    hex.EncodeToString(buf),
		Path:     "/",
		Domain:   h.Cfg.CookieDomain,
		MaxAge:   h.Cfg.RefreshTTLDays * 24 * 3600,
		HttpOnly: false,
		Secure:   h.Cfg.Env == "prod",
		SameSite: http.SameSiteStrictMode,
	})
	return nil
}

func (h *AuthHandler) clearAuthCookies(c echo.Context) {
	h.clearCookie(c, middleware.RefreshCookieName, true)
	h.clearCookie(c, middleware.AccessCookieName, true)
	h.clearCookie(c, middleware.CSRFCookieName, false)
}

func (h *AuthHandler) clearCookie(c echo.Context, name string, httpOnly bool) {
	c.SetCookie(&http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Domain:   h.Cfg.CookieDomain,
		MaxAge:   -1,
		HttpOnly: httpOnly,
		Secure:   h.Cfg.Env == "prod",
		SameSite: http.SameSiteStrictMode,
	})
}
