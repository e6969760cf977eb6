package uploads

import (
	"log"

	"smp_go/internal/middleware"
	"smp_go/pkg/storage"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.RouterGroup, db *storage.DB, dir string, maxSizeMB int64, jwtSecret string) {
	handler := NewHandler(db, dir, maxSizeMB)

	authed := r.Group("", middleware.AuthRequired(jwtSecret))
	authed.POST("/post/:post_id", handler.Upload)

	log.Printf("[ROUTER] Upload routes registered")
}
