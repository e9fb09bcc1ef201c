package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"office-status-backend/internal/auth"
	"office-status-backend/internal/model"
	"office-status-backend/internal/session"
	"office-status-backend/internal/store"
)

type registerRequest struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	OfficeName string `json:"office_name"`
}

// Register handles POST /register.
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Email = strings.TrimSpace(req.Email)
	req.OfficeName = strings.TrimSpace(req.OfficeName)
	if req.FirstName == "" || req.LastName == "" || req.Email == "" || req.Password == "" || req.OfficeName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		log.Error().Err(err).Str("email", req.Email).Msg("register hash password")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register user"})
		return
	}

	user := model.User{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         "employee",
	}
	if err := h.store.RegisterUser(c.Request.Context(), &user, req.OfficeName); err != nil {
		switch {
		case errors.Is(err, store.ErrOfficeNotFound):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Office not found"})
		case errors.Is(err, store.ErrEmailExists):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Email already exists"})
		default:
			log.Error().Err(err).Str("email", req.Email).Msg("register create user")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register user"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "User registered successfully"})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /login. A successful login stores a session record and
// hands the signed token to the client in a cookie.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	user, err := h.store.UserByEmail(c.Request.Context(), strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
			return
		}
		log.Error().Err(err).Msg("login query user")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
		return
	}
	if !auth.VerifyPassword(user.PasswordHash, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	cookie, err := h.sessions.Create(session.Record{UserID: user.ID, OfficeID: user.OfficeID})
	if err != nil {
		log.Error().Err(err).Int64("user_id", user.ID).Msg("login create session")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
		return
	}
	h.setSessionCookie(c, cookie)

	c.JSON(http.StatusOK, gin.H{
		"message": "Logged in successfully",
		"user": gin.H{
			"first_name":  user.FirstName,
			"last_name":   user.LastName,
			"email":       user.Email,
			"office_name": h.officeNameFor(c.Request.Context(), user.OfficeID),
		},
	})
}

// GetUserInfo handles GET /user/info.
func (h *Handler) GetUserInfo(c *gin.Context) {
	rec, ok := h.currentSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	user, err := h.store.UserByID(c.Request.Context(), rec.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		log.Error().Err(err).Int64("user_id", rec.UserID).Msg("user info query")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"first_name":  user.FirstName,
		"last_name":   user.LastName,
		"email":       user.Email,
		"office_name": h.officeNameFor(c.Request.Context(), user.OfficeID),
	})
}

// Logout handles POST /logout. Always succeeds, with or without a session.
func (h *Handler) Logout(c *gin.Context) {
	if cookie, err := c.Cookie(h.cfg.Session.CookieName); err == nil {
		h.sessions.Delete(cookie)
	}
	h.clearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// officeNameFor resolves an office name, substituting a placeholder for
// orphaned references.
func (h *Handler) officeNameFor(ctx context.Context, officeID int64) string {
	office, err := h.store.OfficeByID(ctx, officeID)
	if err != nil {
		return "No office assigned"
	}
	return office.Name
}

func (h *Handler) setSessionCookie(c *gin.Context, value string) {
	// Cross-site browser clients need SameSite=None, which in turn
	// requires the Secure flag.
	if h.cfg.Session.CookieSecure {
		c.SetSameSite(http.SameSiteNoneMode)
	} else {
		c.SetSameSite(http.SameSiteLaxMode)
	}
	c.SetCookie(h.cfg.Session.CookieName, value, h.cfg.Session.TTLSeconds, "/", "", h.cfg.Session.CookieSecure, true)
}

func (h *Handler) clearSessionCookie(c *gin.Context) {
	c.SetCookie(h.cfg.Session.CookieName, "", -1, "/", "", h.cfg.Session.CookieSecure, true)
}
