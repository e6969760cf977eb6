package auth

import (
	"errors"
	"log"
	"net/http"
	"time"

	"smp_go/internal/httputil"
	"smp_go/models"
	"smp_go/pkg/storage"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type AuthHandler struct {
	DB        *storage.DB
	JWTSecret string
	TokenTTL  time.Duration
}

func NewHandler(db *storage.DB, jwtSecret string, tokenTTL time.Duration) *AuthHandler {
	return &AuthHandler{DB: db, JWTSecret: jwtSecret, TokenTTL: tokenTTL}
}

// Register создаёт пользователя. Пароль хранится только как bcrypt-хеш.
func (h *AuthHandler) Register(c *gin.Context) {
	var request struct {
		Username string `json:"username" binding:"required"`
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required,min=6"`
	}

	if err := c.ShouldBindJSON(&request); err != nil {
		log.Printf("[AUTH ERROR] Неверный формат запроса: %v", err)
		httputil.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	if _, err := h.DB.GetUserByUsername(request.Username); err == nil {
		httputil.RespondError(c, http.StatusConflict, "Username already taken")
		return
	} else if !errors.Is(err, storage.ErrNotFound) {
		log.Printf("[AUTH ERROR] Проверка имени пользователя: %v", err)
		httputil.RespondError(c, http.StatusInternalServerError, "Failed to register")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(request.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("[AUTH ERROR] Хеширование пароля: %v", err)
		httputil.RespondError(c, http.StatusInternalServerError, "Failed to register")
		return
	}

	user, err := h.DB.CreateUser(models.User{
		Username:     request.Username,
		Email:        request.Email,
		PasswordHash: string(hash),
	})
	if err != nil {
		log.Printf("[AUTH ERROR] Создание пользователя: %v", err)
		httputil.RespondError(c, http.StatusInternalServerError, "Failed to register")
		return
	}

	log.Printf("[AUTH] Зарегистрирован пользователь %s (id=%d)", user.Username, user.ID)
	c.JSON(http.StatusCreated, user)
}

// Login проверяет пароль и выдаёт JWT с ID пользователя в sub.
func (h *AuthHandler) Login(c *gin.Context) {
	var request struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&request); err != nil {
		httputil.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	user, err := h.DB.GetUserByUsername(request.Username)
	if errors.Is(err, storage.ErrNotFound) {
		// Единый ответ для неизвестного имени и неверного пароля.
		httputil.RespondError(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if err != nil {
		log.Printf("[AUTH ERROR] Поиск пользователя: %v", err)
		httputil.RespondError(c, http.StatusInternalServerError, "Failed to login")
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(request.Password)) != nil {
		httputil.RespondError(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": user.ID,
		"iat": now.Unix(),
		"exp": now.Add(h.TokenTTL).Unix(),
	})
	signed, err := token.SignedString([]byte(h.JWTSecret))
	if err != nil {
		log.Printf("[AUTH ERROR] Подпись токена: %v", err)
		httputil.RespondError(c, http.StatusInternalServerError, "Failed to login")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": signed,
		"token_type":   "bearer",
		"user":         user,
	})
}
