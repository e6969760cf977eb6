package bots

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"smp_go/internal/httputil"

	"github.com/gin-gonic/gin"
)

// dispatcher.go содержит запуск и остановку оконных обработок постов.
// Синхронный вариант ждёт результат в рамках запроса, фоновый регистрирует
// задачу в реестре и позволяет остановить её отдельным вызовом.

// ProcessPosts синхронно обрабатывает посты за скользящее окно часов.
func (h *BotHandler) ProcessPosts(c *gin.Context) {
	var request struct {
		Hours int `json:"hours"`
	}
	// Пустое тело допустимо: окно берётся по умолчанию.
	if err := c.ShouldBindJSON(&request); err != nil && !errors.Is(err, io.EOF) {
		httputil.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}
	if request.Hours <= 0 {
		request.Hours = 24
	}

	log.Printf("[BOTS] Запуск обработки постов за %d ч", request.Hours)
	result, err := h.Processor.ProcessWindow(c.Request.Context(), time.Duration(request.Hours)*time.Hour)
	if err != nil {
		log.Printf("[BOTS ERROR] Оконная обработка: %v", err)
		httputil.RespondError(c, http.StatusInternalServerError, "Failed to process posts")
		return
	}
	c.JSON(http.StatusOK, result)
}

// ProcessPostsAsync запускает обработку в фоне и возвращает ID задачи.
// Фоновая задача переживает HTTP-запрос и отменяется только через реестр.
func (h *BotHandler) ProcessPostsAsync(c *gin.Context) {
	var request struct {
		Hours int `json:"hours"`
	}
	// Пустое тело допустимо: окно берётся по умолчанию.
	if err := c.ShouldBindJSON(&request); err != nil && !errors.Is(err, io.EOF) {
		httputil.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}
	if request.Hours <= 0 {
		request.Hours = 24
	}

	ctx, cancel := context.WithCancel(context.Background())

	h.mu.Lock()
	id := h.next
	h.next++
	h.tasks[id] = cancel
	h.mu.Unlock()

	go func(taskID, hours int) {
		defer func() {
			h.mu.Lock()
			delete(h.tasks, taskID)
			h.mu.Unlock()
			cancel()
		}()

		result, err := h.Processor.ProcessWindow(ctx, time.Duration(hours)*time.Hour)
		if err != nil {
			log.Printf("[BOTS ERROR] Фоновая обработка %d: %v", taskID, err)
			return
		}
		log.Printf("[BOTS] Фоновая обработка %d завершена: %d взаимодействий, %d сбоев",
			taskID, result.InteractionsCreated, result.Failures)
	}(id, request.Hours)

	c.JSON(http.StatusOK, gin.H{"status": "запущено", "task_id": id})
}

// CancelProcessing останавливает все фоновые обработки.
// Уже начатые пары довершатся, отложенные останутся на следующий запуск.
func (h *BotHandler) CancelProcessing(c *gin.Context) {
	h.mu.Lock()
	cancelled := len(h.tasks)
	for id, cancel := range h.tasks {
		cancel()
		delete(h.tasks, id)
	}
	h.mu.Unlock()

	log.Printf("[BOTS] Остановлено фоновых обработок: %d", cancelled)
	c.JSON(http.StatusOK, gin.H{"status": "остановлено", "cancelled": cancelled})
}
