package comments

import (
	"log"

	"smp_go/internal/middleware"
	"smp_go/pkg/storage"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.RouterGroup, db *storage.DB, jwtSecret string) {
	handler := NewHandler(db)

	r.GET("/post/:post_id", handler.ListByPost)

	authed := r.Group("", middleware.AuthRequired(jwtSecret))
	authed.POST("", handler.Create)
	authed.DELETE("/:id", handler.Delete)

	log.Printf("[ROUTER] Comment routes registered")
}
