package posts

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"smp_go/internal/httputil"
	"smp_go/internal/middleware"
	"smp_go/models"
	"smp_go/pkg/botengine"
	"smp_go/pkg/storage"

	"github.com/gin-gonic/gin"
)

// PostProcessor запускает обработку поста ботами. Его реализует движок решений.
type PostProcessor interface {
	ProcessSinglePost(ctx context.Context, postID int) (botengine.BatchResult, error)
}

type PostHandler struct {
	DB        *storage.DB
	Processor PostProcessor
}

func NewHandler(db *storage.DB, processor PostProcessor) *PostHandler {
	return &PostHandler{DB: db, Processor: processor}
}

// Create публикует пост и асинхронно отдаёт его ботам.
// Ответ не ждёт ботов: их реакции появляются позже с имитацией человеческой задержки.
func (h *PostHandler) Create(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		httputil.RespondError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	var request struct {
		Content  string   `json:"content" binding:"required"`
		Topic    string   `json:"topic"`
		Keywords []string `json:"keywords"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		httputil.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	post, err := h.DB.CreatePost(models.Post{
		UserID:   userID,
		Content:  request.Content,
		Topic:    request.Topic,
		Keywords: request.Keywords,
	})
	if err != nil {
		log.Printf("[POSTS ERROR] Создание поста: %v", err)
		httputil.RespondError(c, http.StatusInternalServerError, "Failed to create post")
		return
	}

	// Обработка ботами живёт дольше HTTP-запроса, поэтому контекст свой.
	go func(postID int) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()
		result, err := h.Processor.ProcessSinglePost(ctx, postID)
		if err != nil {
			log.Printf("[POSTS ERROR] Обработка поста %d ботами: %v", postID, err)
			return
		}
		log.Printf("[POSTS] Пост %d обработан ботами: %d взаимодействий, %d сбоев",
			postID, result.InteractionsCreated, result.Failures)
	}(post.ID)

	c.JSON(http.StatusCreated, post)
}

// List возвращает ленту постов со счётчиками реакций и комментариев.
func (h *PostHandler) List(c *gin.Context) {
	offset, limit := pagination(c)
	posts, err := h.DB.ListPosts(offset, limit)
	if err != nil {
		log.Printf("[POSTS ERROR] Выборка ленты: %v", err)
		httputil.RespondError(c, http.StatusInternalServerError, "Failed to list posts")
		return
	}

	for i := range posts {
		h.enrich(&posts[i])
	}
	c.JSON(http.StatusOK, posts)
}

// Get возвращает пост по ID со счётчиками и медиа.
func (h *PostHandler) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httputil.RespondError(c, http.StatusBadRequest, "Invalid post ID")
		return
	}

	post, err := h.DB.GetPostByID(id)
	if errors.Is(err, storage.ErrNotFound) {
		httputil.RespondError(c, http.StatusNotFound, "Post not found")
		return
	}
	if err != nil {
		log.Printf("[POSTS ERROR] Выборка поста %d: %v", id, err)
		httputil.RespondError(c, http.StatusInternalServerError, "Failed to get post")
		return
	}

	h.enrich(post)
	c.JSON(http.StatusOK, post)
}

// Delete удаляет пост. Разрешено только автору.
func (h *PostHandler) Delete(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		httputil.RespondError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httputil.RespondError(c, http.StatusBadRequest, "Invalid post ID")
		return
	}

	post, err := h.DB.GetPostByID(id)
	if errors.Is(err, storage.ErrNotFound) {
		httputil.RespondError(c, http.StatusNotFound, "Post not found")
		return
	}
	if err != nil {
		log.Printf("[POSTS ERROR] Выборка поста %d: %v", id, err)
		httputil.RespondError(c, http.StatusInternalServerError, "Failed to delete post")
		return
	}
	if post.UserID != userID {
		httputil.RespondError(c, http.StatusForbidden, "Not the post owner")
		return
	}

	if err := h.DB.DeletePost(id); err != nil {
		log.Printf("[POSTS ERROR] Удаление поста %d: %v", id, err)
		httputil.RespondError(c, http.StatusInternalServerError, "Failed to delete post")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// enrich дополняет пост счётчиками и медиа. Ошибки здесь не фатальны:
// лента со счётчиком 0 лучше, чем ошибка на всю выдачу.
func (h *PostHandler) enrich(post *models.Post) {
	likes, dislikes, err := h.DB.CountReactions(post.ID)
	if err != nil {
		log.Printf("[POSTS WARN] Счётчики реакций поста %d: %v", post.ID, err)
	}
	comments, err := h.DB.CountComments(post.ID)
	if err != nil {
		log.Printf("[POSTS WARN] Счётчик комментариев поста %d: %v", post.ID, err)
	}
	media, err := h.DB.GetMediaByPostID(post.ID)
	if err != nil {
		log.Printf("[POSTS WARN] Медиа поста %d: %v", post.ID, err)
	}
	post.LikeCount, post.DislikeCount, post.CommentCount = likes, dislikes, comments
	post.Media = media
}

// pagination читает offset/limit из query-параметров с безопасными границами.
func pagination(c *gin.Context) (offset, limit int) {
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return offset, limit
}
