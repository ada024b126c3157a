package handlers

import (
	"temp_compliance/internal/logger"
	"temp_compliance/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger) *Handler {
	return &Handler{services: services, log: log}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/health", h.health)

	h.registerAPIRoutes(router)

	// Live cooldown countdown over WebSocket, same port.
	router.GET("/ws/cooldowns/:id", h.wsCooldown)

	return router
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1")
	{
		h.registerEquipmentRoutes(api)
		h.registerCooldownRoutes(api)
		h.registerReceivingRoutes(api)
		h.registerEventRoutes(api)
	}
}

func (h *Handler) registerEquipmentRoutes(api *gin.RouterGroup) {
	equipment := api.Group("/equipment")
	{
		equipment.POST("", h.registerEquipment)
		equipment.GET("", h.listEquipment)
		equipment.GET("/status", h.equipmentStatus)
		equipment.GET("/:id", h.getEquipment)
		// Body example: {"value":38.5,"recorded_by":"maria","input_method":"manual"}
		equipment.POST("/:id/readings", h.logReading)
		equipment.POST("/:id/sensor-readings", h.ingestSensorReading)
	}
}

func (h *Handler) registerCooldownRoutes(api *gin.RouterGroup) {
	cooldowns := api.Group("/cooldowns")
	{
		cooldowns.POST("", h.startCooldown)
		cooldowns.GET("", h.listActiveCooldowns)
		cooldowns.GET("/:id", h.getCooldown)
		cooldowns.POST("/:id/checks", h.logCooldownCheck)
		cooldowns.POST("/:id/complete", h.completeCooldown)
	}
}

func (h *Handler) registerReceivingRoutes(api *gin.RouterGroup) {
	receiving := api.Group("/receiving")
	{
		receiving.GET("/categories", h.listCategories)
		receiving.POST("/evaluate", h.evaluateItem)
		receiving.POST("/logs", h.finalizeReceiving)
		receiving.GET("/logs", h.listReceivingLogs)
		receiving.GET("/logs/:id", h.getReceivingLog)
	}
}

func (h *Handler) registerEventRoutes(api *gin.RouterGroup) {
	events := api.Group("/events")
	{
		events.GET("", h.getEvents)
	}
}
