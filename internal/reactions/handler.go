package reactions

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"smp_go/internal/httputil"
	"smp_go/internal/middleware"
	"smp_go/pkg/storage"

	"github.com/gin-gonic/gin"
)

type ReactionHandler struct {
	DB *storage.DB
}

func NewHandler(db *storage.DB) *ReactionHandler {
	return &ReactionHandler{DB: db}
}

// Set создаёт реакцию пользователя или меняет её направление.
// Повторный запрос с тем же is_like безвреден: upsert в хранилище идемпотентен.
func (h *ReactionHandler) Set(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		httputil.RespondError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	var request struct {
		PostID int   `json:"post_id" binding:"required"`
		IsLike *bool `json:"is_like" binding:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		httputil.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	if _, err := h.DB.GetPostByID(request.PostID); errors.Is(err, storage.ErrNotFound) {
		httputil.RespondError(c, http.StatusNotFound, "Post not found")
		return
	} else if err != nil {
		log.Printf("[REACTIONS ERROR] Проверка поста %d: %v", request.PostID, err)
		httputil.RespondError(c, http.StatusInternalServerError, "Failed to set reaction")
		return
	}

	reaction, err := h.DB.SetUserReaction(request.PostID, userID, *request.IsLike)
	if err != nil {
		log.Printf("[REACTIONS ERROR] Сохранение реакции: %v", err)
		httputil.RespondError(c, http.StatusInternalServerError, "Failed to set reaction")
		return
	}
	c.JSON(http.StatusOK, reaction)
}

// Delete убирает реакцию пользователя с поста.
func (h *ReactionHandler) Delete(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		httputil.RespondError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	postID, err := strconv.Atoi(c.Param("post_id"))
	if err != nil {
		httputil.RespondError(c, http.StatusBadRequest, "Invalid post ID")
		return
	}

	err = h.DB.DeleteUserReaction(postID, userID)
	if errors.Is(err, storage.ErrNotFound) {
		httputil.RespondError(c, http.StatusNotFound, "Reaction not found")
		return
	}
	if err != nil {
		log.Printf("[REACTIONS ERROR] Удаление реакции: %v", err)
		httputil.RespondError(c, http.StatusInternalServerError, "Failed to delete reaction")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
