package public

import (
	"log"

	"smp_go/pkg/storage"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.RouterGroup, db *storage.DB) {
	handler := NewHandler(db)
	r.GET("/posts", handler.ListPosts)

	log.Printf("[ROUTER] Public routes registered")
}
