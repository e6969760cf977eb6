package public

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"smp_go/internal/httputil"
	"smp_go/models"
	"smp_go/pkg/storage"

	"github.com/gin-gonic/gin"
)

// Публичное API отдаёт посты с реакциями и комментариями без авторизации.
// Его потребляет внешний сервис анализа тональности, поэтому формат
// выдачи плоский: счётчики и комментарии с признаком авторства бота.

type PublicHandler struct {
	DB *storage.DB
}

func NewHandler(db *storage.DB) *PublicHandler {
	return &PublicHandler{DB: db}
}

type publicComment struct {
	ID        int       `json:"id"`
	Content   string    `json:"content"`
	IsBot     bool      `json:"is_bot"`
	CreatedAt time.Time `json:"created_at"`
}

type publicPost struct {
	ID           int             `json:"id"`
	Content      string          `json:"content"`
	Topic        string          `json:"topic"`
	CreatedAt    time.Time       `json:"created_at"`
	LikeCount    int             `json:"like_count"`
	DislikeCount int             `json:"dislike_count"`
	Comments     []publicComment `json:"comments"`
}

// ListPosts возвращает посты с фильтрами по датам и теме.
// Параметры: from, to (RFC 3339), topic (подстрока), offset, limit.
func (h *PublicHandler) ListPosts(c *gin.Context) {
	from, ok := parseTimeParam(c, "from")
	if !ok {
		return
	}
	to, ok := parseTimeParam(c, "to")
	if !ok {
		return
	}

	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	posts, err := h.DB.ListPostsFiltered(from, to, c.Query("topic"), offset, limit)
	if err != nil {
		log.Printf("[PUBLIC ERROR] Выборка постов: %v", err)
		httputil.RespondError(c, http.StatusInternalServerError, "Failed to list posts")
		return
	}

	out := make([]publicPost, 0, len(posts))
	for _, post := range posts {
		out = append(out, h.export(post))
	}
	c.JSON(http.StatusOK, out)
}

// export собирает выдачу по одному посту. Сбои по счётчикам и комментариям
// не фатальны: лучше неполная запись, чем ошибка на весь список.
func (h *PublicHandler) export(post models.Post) publicPost {
	likes, dislikes, err := h.DB.CountReactions(post.ID)
	if err != nil {
		log.Printf("[PUBLIC WARN] Счётчики поста %d: %v", post.ID, err)
	}

	comments, err := h.DB.ListCommentsByPost(post.ID)
	if err != nil {
		log.Printf("[PUBLIC WARN] Комментарии поста %d: %v", post.ID, err)
	}
	exported := make([]publicComment, 0, len(comments))
	for _, comment := range comments {
		exported = append(exported, publicComment{
			ID:        comment.ID,
			Content:   comment.Content,
			IsBot:     comment.BotID != nil,
			CreatedAt: comment.CreatedAt,
		})
	}

	return publicPost{
		ID:           post.ID,
		Content:      post.Content,
		Topic:        post.Topic,
		CreatedAt:    post.CreatedAt,
		LikeCount:    likes,
		DislikeCount: dislikes,
		Comments:     exported,
	}
}

// parseTimeParam читает временной параметр запроса в формате RFC 3339.
// false означает, что ответ с ошибкой уже отправлен.
func parseTimeParam(c *gin.Context, name string) (*time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		httputil.RespondError(c, http.StatusBadRequest, "Invalid "+name+" parameter, expected RFC 3339")
		return nil, false
	}
	return &t, true
}
