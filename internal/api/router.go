package api

import (
	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"

	"office-status-backend/config"
	"office-status-backend/internal/mw"
	"office-status-backend/internal/notification"
	"office-status-backend/internal/session"
	"office-status-backend/internal/store"
)

// NewRouter creates and configures a new Gin router with the wire contract
// of the status board.
func NewRouter(cfg *config.Config, s store.Store, sessions *session.Store, pool *notification.WorkerPool, webpushOptions *webpush.Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(mw.CORS(cfg.Server.AllowedOrigins))

	handler := NewHandler(s, sessions, cfg, pool, webpushOptions)

	r.POST("/office/create", handler.CreateOffice)
	r.POST("/register", handler.Register)
	r.POST("/login", handler.Login)
	r.POST("/logout", handler.Logout)

	r.POST("/status/update", handler.UpdateStatus)
	r.GET("/status/:office_name", handler.GetOfficeStatus)

	r.GET("/offices", handler.GetAvailableOffices)
	r.GET("/user/info", handler.GetUserInfo)

	r.GET("/subscriptions", handler.GetSubscription)
	r.PUT("/subscriptions", handler.PutSubscription)
	r.DELETE("/subscriptions", handler.DeleteSubscription)
	r.GET("/vapid_public_key", handler.GetVAPIDPublicKey)

	return r
}
