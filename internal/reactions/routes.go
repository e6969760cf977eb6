package reactions

import (
	"log"

	"smp_go/internal/middleware"
	"smp_go/pkg/storage"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.RouterGroup, db *storage.DB, jwtSecret string) {
	handler := NewHandler(db)

	authed := r.Group("", middleware.AuthRequired(jwtSecret))
	authed.POST("", handler.Set)
	authed.DELETE("/post/:post_id", handler.Delete)

	log.Printf("[ROUTER] Reaction routes registered")
}
