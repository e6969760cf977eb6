package bots

import (
	"log"

	"smp_go/pkg/storage"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.RouterGroup, db *storage.DB, processor BatchProcessor) {
	handler := NewHandler(db, processor)

	r.POST("", handler.Create)
	r.GET("", handler.List)
	r.GET("/:id", handler.Get)
	r.POST("/:id/toggle", handler.Toggle)
	r.POST("/:id/activate", handler.Activate)
	r.POST("/:id/deactivate", handler.Deactivate)
	r.POST("/activate-all", handler.ActivateAll)
	r.POST("/deactivate-all", handler.DeactivateAll)
	r.DELETE("/:id", handler.Delete)

	r.POST("/process-posts", handler.ProcessPosts)
	r.POST("/process-posts/async", handler.ProcessPostsAsync)
	r.POST("/process-posts/cancel", handler.CancelProcessing)

	log.Printf("[ROUTER] Bot routes registered")
}
