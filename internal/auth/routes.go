package auth

import (
	"log"
	"time"

	"smp_go/pkg/storage"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.RouterGroup, db *storage.DB, jwtSecret string, tokenTTL time.Duration) {
	handler := NewHandler(db, jwtSecret, tokenTTL)
	r.POST("/register", handler.Register)
	r.POST("/login", handler.Login)

	log.Printf("[ROUTER] Auth routes registered")
}
