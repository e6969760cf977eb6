package bots

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"smp_go/internal/httputil"
	"smp_go/models"
	"smp_go/pkg/botengine"
	"smp_go/pkg/storage"

	"github.com/gin-gonic/gin"
)

// BatchProcessor запускает оконную обработку постов ботами.
type BatchProcessor interface {
	ProcessWindow(ctx context.Context, window time.Duration) (botengine.BatchResult, error)
}

type BotHandler struct {
	DB        *storage.DB
	Processor BatchProcessor

	// Реестр фоновых пачек: позволяет останавливать длинные обработки.
	mu    sync.Mutex
	tasks map[int]context.CancelFunc
	next  int
}

func NewHandler(db *storage.DB, processor BatchProcessor) *BotHandler {
	return &BotHandler{
		DB:        db,
		Processor: processor,
		tasks:     map[int]context.CancelFunc{},
		next:      1,
	}
}

// Create создаёт бота вместе с профилем поведения.
// Профиль проверяется до записи: движок решений доверяет данным из БД.
func (h *BotHandler) Create(c *gin.Context) {
	var request struct {
		Name     string `json:"name" binding:"required"`
		IsActive *bool  `json:"is_active"`
		Profile  struct {
			AgeGroup           string   `json:"age_group"`
			Profession         string   `json:"profession"`
			Region             string   `json:"region"`
			Interests          []string `json:"interests"`
			EmotionalBias      string   `json:"emotional_bias"`
			LikeProbability    float64  `json:"like_probability"`
			DislikeProbability float64  `json:"dislike_probability"`
			CommentProbability float64  `json:"comment_probability"`
			MinResponseDelay   int      `json:"min_response_delay"`
			MaxResponseDelay   int      `json:"max_response_delay"`
		} `json:"profile" binding:"required"`
	}

	if err := c.ShouldBindJSON(&request); err != nil {
		httputil.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	profile := models.BotProfile{
		AgeGroup:           request.Profile.AgeGroup,
		Profession:         request.Profile.Profession,
		Region:             request.Profile.Region,
		Interests:          request.Profile.Interests,
		EmotionalBias:      request.Profile.EmotionalBias,
		LikeProbability:    request.Profile.LikeProbability,
		DislikeProbability: request.Profile.DislikeProbability,
		CommentProbability: request.Profile.CommentProbability,
		MinResponseDelay:   request.Profile.MinResponseDelay,
		MaxResponseDelay:   request.Profile.MaxResponseDelay,
	}
	if profile.EmotionalBias == "" {
		profile.EmotionalBias = models.DefaultBias
	}
	if err := models.ValidateProfile(profile); err != nil {
		httputil.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	exists, err := h.DB.BotNameExists(request.Name)
	if err != nil {
		log.Printf("[BOTS ERROR] Проверка имени бота: %v", err)
		httputil.RespondError(c, http.StatusInternalServerError, "Failed to create bot")
		return
	}
	if exists {
		httputil.RespondError(c, http.StatusConflict, "Bot name already taken")
		return
	}

	active := true
	if request.IsActive != nil {
		active = *request.IsActive
	}
	bot, err := h.DB.CreateBot(models.Bot{Name: request.Name, IsActive: active}, profile)
	if err != nil {
		log.Printf("[BOTS ERROR] Создание бота: %v", err)
		httputil.RespondError(c, http.StatusInternalServerError, "Failed to create bot")
		return
	}

	log.Printf("[BOTS] Создан бот %s (id=%d, настрой=%s)", bot.Name, bot.ID, profile.EmotionalBias)
	c.JSON(http.StatusCreated, bot)
}

// List возвращает ботов с профилями постранично.
func (h *BotHandler) List(c *gin.Context) {
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	bots, err := h.DB.ListBots(offset, limit)
	if err != nil {
		log.Printf("[BOTS ERROR] Выборка ботов: %v", err)
		httputil.RespondError(c, http.StatusInternalServerError, "Failed to list bots")
		return
	}
	c.JSON(http.StatusOK, bots)
}

func (h *BotHandler) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httputil.RespondError(c, http.StatusBadRequest, "Invalid bot ID")
		return
	}

	bot, err := h.DB.GetBotByID(id)
	if errors.Is(err, storage.ErrNotFound) {
		httputil.RespondError(c, http.StatusNotFound, "Bot not found")
		return
	}
	if err != nil {
		log.Printf("[BOTS ERROR] Выборка бота %d: %v", id, err)
		httputil.RespondError(c, http.StatusInternalServerError, "Failed to get bot")
		return
	}
	c.JSON(http.StatusOK, bot)
}

// Toggle переключает активность одного бота.
func (h *BotHandler) Toggle(c *gin.Context) {
	h.setActive(c, nil)
}

func (h *BotHandler) Activate(c *gin.Context) {
	active := true
	h.setActive(c, &active)
}

func (h *BotHandler) Deactivate(c *gin.Context) {
	active := false
	h.setActive(c, &active)
}

// setActive выставляет флаг активности; nil означает инверсию текущего значения.
func (h *BotHandler) setActive(c *gin.Context, active *bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httputil.RespondError(c, http.StatusBadRequest, "Invalid bot ID")
		return
	}

	bot, err := h.DB.GetBotByID(id)
	if errors.Is(err, storage.ErrNotFound) {
		httputil.RespondError(c, http.StatusNotFound, "Bot not found")
		return
	}
	if err != nil {
		log.Printf("[BOTS ERROR] Выборка бота %d: %v", id, err)
		httputil.RespondError(c, http.StatusInternalServerError, "Failed to update bot")
		return
	}

	target := !bot.IsActive
	if active != nil {
		target = *active
	}
	if err := h.DB.SetBotActive(id, target); err != nil {
		log.Printf("[BOTS ERROR] Переключение бота %d: %v", id, err)
		httputil.RespondError(c, http.StatusInternalServerError, "Failed to update bot")
		return
	}

	bot.IsActive = target
	c.JSON(http.StatusOK, bot)
}

// ActivateAll включает всех ботов платформы разом.
func (h *BotHandler) ActivateAll(c *gin.Context) {
	h.setAllActive(c, true)
}

func (h *BotHandler) DeactivateAll(c *gin.Context) {
	h.setAllActive(c, false)
}

func (h *BotHandler) setAllActive(c *gin.Context, active bool) {
	count, err := h.DB.SetAllBotsActive(active)
	if err != nil {
		log.Printf("[BOTS ERROR] Массовое переключение ботов: %v", err)
		httputil.RespondError(c, http.StatusInternalServerError, "Failed to update bots")
		return
	}
	log.Printf("[BOTS] Переключено %d ботов, активность=%v", count, active)
	c.JSON(http.StatusOK, gin.H{"updated": count, "is_active": active})
}

// Delete удаляет бота со всей его историей: профилем, реакциями,
// комментариями и записями журнала взаимодействий.
func (h *BotHandler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httputil.RespondError(c, http.StatusBadRequest, "Invalid bot ID")
		return
	}

	err = h.DB.DeleteBotCascade(id)
	if errors.Is(err, storage.ErrNotFound) {
		httputil.RespondError(c, http.StatusNotFound, "Bot not found")
		return
	}
	if err != nil {
		log.Printf("[BOTS ERROR] Удаление бота %d: %v", id, err)
		httputil.RespondError(c, http.StatusInternalServerError, "Failed to delete bot")
		return
	}

	log.Printf("[BOTS] Бот %d удалён вместе с историей", id)
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
