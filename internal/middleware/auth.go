package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"smp_go/internal/httputil"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const userIDKey = "userID"

// AuthRequired проверяет Bearer-токен и кладёт ID пользователя в контекст запроса.
func AuthRequired(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			httputil.RespondError(c, http.StatusUnauthorized, "Authorization header missing")
			return
		}

		userID, err := ParseToken(strings.TrimPrefix(header, "Bearer "), secret)
		if err != nil {
			httputil.RespondError(c, http.StatusUnauthorized, "Invalid token")
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

// ParseToken проверяет подпись и срок действия токена и возвращает ID пользователя.
func ParseToken(tokenString, secret string) (int, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("неожиданный метод подписи: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return 0, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return 0, fmt.Errorf("некорректные claims токена")
	}
	sub, ok := claims["sub"].(float64)
	if !ok {
		return 0, fmt.Errorf("в токене отсутствует sub")
	}
	return int(sub), nil
}

// CurrentUserID достаёт ID пользователя, положенный AuthRequired.
// Второе значение false означает, что запрос прошёл мимо middleware.
func CurrentUserID(c *gin.Context) (int, bool) {
	v, ok := c.Get(userIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(int)
	return id, ok
}
