package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"eduplatform/backend/internal/devotc"
)

// NewRouter builds the gin engine with the auth routes, health endpoint, and
// otelgin tracing middleware. devSink is nil outside development mode; when set,
// GET /dev/otc exposes pending codes for local frontends.
func NewRouter(h *Handler, devSink *devotc.MemorySink, serviceName string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(serviceName))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	auth := r.Group("/api/v1/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/register/verify", h.ConfirmRegistration)
		auth.POST("/login", h.Login)
		auth.POST("/login/verify", h.ConfirmLogin)
	}

	if devSink != nil {
		r.GET("/dev/otc", func(c *gin.Context) {
			identity := c.Query("identity")
			if identity == "" {
				c.JSON(http.StatusBadRequest, gin.H{"error": "identity query parameter is required"})
				return
			}
			code, ok := devSink.Get(c.Request.Context(), identity)
			if !ok {
				c.JSON(http.StatusNotFound, gin.H{"error": "no pending code"})
				return
			}
			c.JSON(http.StatusOK, gin.H{"identity": identity, "code": code})
		})
	}

	return r
}
