package router

import (
	"net/http"

	"github.com/awqaf/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RouteRegistrar defines the interface for registering routes
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Config holds router configuration
type Config struct {
	CORSOrigins []string
	Logger      *zap.Logger
}

// Router assembles the HTTP engine with middleware and registrars
type Router struct {
	engine     *gin.Engine
	apiVersion string
	registrars []RouteRegistrar
}

// New creates a Router with the standard middleware chain
func New(cfg Config) *Router {
	middleware.SetupValidator()

	engine := gin.New()
	engine.Use(middleware.Recovery(cfg.Logger))
	engine.Use(middleware.RequestID())
	engine.Use(middleware.RequestLogger(cfg.Logger))

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowOrigins = cfg.CORSOrigins
	engine.Use(middleware.CORSWithConfig(corsCfg))

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return &Router{
		engine:     engine,
		apiVersion: "v1",
		registrars: make([]RouteRegistrar, 0),
	}
}

// Register adds a RouteRegistrar
func (r *Router) Register(registrar RouteRegistrar) *Router {
	r.registrars = append(r.registrars, registrar)
	return r
}

// Setup registers all routes and returns the engine
func (r *Router) Setup() *gin.Engine {
	api := r.engine.Group("/api/" + r.apiVersion)
	for _, registrar := range r.registrars {
		registrar.RegisterRoutes(api)
	}
	return r.engine
}
