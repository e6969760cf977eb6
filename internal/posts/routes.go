package posts

import (
	"log"

	"smp_go/internal/middleware"
	"smp_go/pkg/storage"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.RouterGroup, db *storage.DB, processor PostProcessor, jwtSecret string) {
	handler := NewHandler(db, processor)

	r.GET("", handler.List)
	r.GET("/:id", handler.Get)

	authed := r.Group("", middleware.AuthRequired(jwtSecret))
	authed.POST("", handler.Create)
	authed.DELETE("/:id", handler.Delete)

	log.Printf("[ROUTER] Post routes registered")
}
