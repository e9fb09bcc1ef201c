package api

import (
	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"

	"office-status-backend/config"
	"office-status-backend/internal/notification"
	"office-status-backend/internal/session"
	"office-status-backend/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store    store.Store
	sessions *session.Store
	cfg      *config.Config
	pool     *notification.WorkerPool
	webpush  *webpush.Options
}

// NewHandler creates a new API handler. pool and webpushOptions may be nil
// when push notifications are not configured.
func NewHandler(s store.Store, sessions *session.Store, cfg *config.Config, pool *notification.WorkerPool, webpushOptions *webpush.Options) *Handler {
	return &Handler{
		store:    s,
		sessions: sessions,
		cfg:      cfg,
		pool:     pool,
		webpush:  webpushOptions,
	}
}

// currentSession resolves the session cookie of a request, if any.
func (h *Handler) currentSession(c *gin.Context) (session.Record, bool) {
	cookie, err := c.Cookie(h.cfg.Session.CookieName)
	if err != nil {
		return session.Record{}, false
	}
	return h.sessions.Get(cookie)
}
