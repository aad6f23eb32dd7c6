package handlers

import (
	"net/http"
	"sync"

	"teleop_console/internal/logger"
	"teleop_console/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
	metrics  http.Handler

	// inputMu serialises device input from HTTP and /ws/gamepads so a
	// publish and the registry read that follows it see the same device.
	inputMu sync.Mutex
}

// NewHandler constructs a new HTTP handler with dependencies. metrics may be
// nil, in which case /metrics is not registered.
func NewHandler(services *service.Service, log *logger.Logger, metrics http.Handler) *Handler {
	return &Handler{services: services, log: log, metrics: metrics}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/health", h.health)
	if h.metrics != nil {
		router.GET("/metrics", gin.WrapH(h.metrics))
	}

	h.registerAuthRoutes(router)
	h.registerAPIRoutes(router)

	// Console snapshot stream and browser gamepad input, same port
	router.GET("/ws", h.wsConnect)
	router.GET("/ws/gamepads", h.wsGamepads)

	return router
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.POST("/sign-up", h.signUp)
		auth.POST("/sign-in", h.signIn)
	}
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1", h.operatorMiddleware)
	{
		h.registerControllerRoutes(api)
		h.registerLinkRoutes(api)
		h.registerLogRoutes(api)
	}
}

func (h *Handler) registerControllerRoutes(api *gin.RouterGroup) {
	controllers := api.Group("/controllers")
	{
		controllers.GET("", h.getControllers)
		// Body example: {"index":0,"id":"Xbox 360 Controller (STANDARD GAMEPAD)"}
		controllers.POST("/attach", h.attachController)
		controllers.POST("/detach", h.detachController)
	}
}

func (h *Handler) registerLinkRoutes(api *gin.RouterGroup) {
	link := api.Group("/link")
	{
		link.GET("/health", h.getLinkHealth)
		link.POST("/activity", h.recordActivity)
		link.GET("/config", h.getLinkConfig)
		// Body example: {"demo_mode":true,"demo_period_ms":2000}
		link.PUT("/config", h.setLinkConfig)
	}
}

func (h *Handler) registerLogRoutes(api *gin.RouterGroup) {
	logs := api.Group("/logs")
	{
		logs.GET("/", h.getLogs)
	}
}
