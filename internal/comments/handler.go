package comments

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

type CommentHandler struct {
	DB *storage.DB
}

func NewHandler(db *storage.DB) *CommentHandler {
	return &CommentHandler{DB: db}
}

// Create добавляет комментарий пользователя к посту.
func (h *CommentHandler) Create(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		httputil.RespondError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	var request struct {
		PostID  int    `json:"post_id" binding:"required"`
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		httputil.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	if _, err := h.DB.GetPostByID(request.PostID); errors.Is(err, storage.ErrNotFound) {
		httputil.RespondError(c, http.StatusNotFound, "Post not found")
		return
	} else if err != nil {
		log.Printf("[COMMENTS ERROR] Проверка поста %d: %v", request.PostID, err)
		httputil.RespondError(c, http.StatusInternalServerError, "Failed to create comment")
		return
	}

	comment, err := h.DB.CreateUserComment(request.PostID, userID, request.Content)
	if err != nil {
		log.Printf("[COMMENTS ERROR] Создание комментария: %v", err)
		httputil.RespondError(c, http.StatusInternalServerError, "Failed to create comment")
		return
	}
	c.JSON(http.StatusCreated, comment)
}

// ListByPost возвращает комментарии поста, и пользовательские, и ботовские.
func (h *CommentHandler) ListByPost(c *gin.Context) {
	postID, err := strconv.Atoi(c.Param("post_id"))
	if err != nil {
		httputil.RespondError(c, http.StatusBadRequest, "Invalid post ID")
		return
	}

	comments, err := h.DB.ListCommentsByPost(postID)
	if err != nil {
		log.Printf("[COMMENTS ERROR] Выборка комментариев поста %d: %v", postID, err)
		httputil.RespondError(c, http.StatusInternalServerError, "Failed to list comments")
		return
	}
	c.JSON(http.StatusOK, comments)
}

// Delete удаляет комментарий. Разрешено только его автору-пользователю;
// комментарии ботов через API не удаляются.
func (h *CommentHandler) Delete(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		httputil.RespondError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httputil.RespondError(c, http.StatusBadRequest, "Invalid comment ID")
		return
	}

	comment, err := h.DB.GetCommentByID(id)
	if errors.Is(err, storage.ErrNotFound) {
		httputil.RespondError(c, http.StatusNotFound, "Comment not found")
		return
	}
	if err != nil {
		log.Printf("[COMMENTS ERROR] Выборка комментария %d: %v", id, err)
		httputil.RespondError(c, http.StatusInternalServerError, "Failed to delete comment")
		return
	}
	if comment.UserID == nil || *comment.UserID != userID {
		httputil.RespondError(c, http.StatusForbidden, "Not the comment author")
		return
	}

	if err := h.DB.DeleteComment(id); err != nil {
		log.Printf("[COMMENTS ERROR] Удаление комментария %d: %v", id, err)
		httputil.RespondError(c, http.StatusInternalServerError, "Failed to delete comment")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
