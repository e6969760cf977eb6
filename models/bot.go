package models

import (
	"fmt"
	"time"

	"github.com/lib/pq"
)

// Допустимые значения эмоционального настроя бота.
const (
	BiasPositive = "positive"
	BiasNeutral  = "neutral"
	BiasNegative = "negative"
)

// AllowedBiases содержит список допустимых значений эмоционального настроя
var AllowedBiases = []string{BiasPositive, BiasNeutral, BiasNegative}

// DefaultBias используется, если настрой не указан или указан неверно
const DefaultBias = BiasNeutral

// IsValidBias проверяет, что переданное значение входит в список допустимых
func IsValidBias(b string) bool {
	for _, allowed := range AllowedBiases {
		if b == allowed {
			return true
		}
	}
	return false
}

// Bot представляет автономного бота платформы.
// Имя уникально и не меняется после создания; извне переключается только флаг активности.
type Bot struct {
	ID        int         `json:"id"`
	Name      string      `json:"name"`
	IsActive  bool        `json:"is_active"`
	CreatedAt time.Time   `json:"created_at"`
	Profile   *BotProfile `json:"profile,omitempty"`
}

// BotProfile описывает поведение бота: интересы, настрой и вероятности действий.
// У каждого бота ровно один профиль.
type BotProfile struct {
	ID    int `json:"id"`
	BotID int `json:"bot_id"`

	// Демографические поля носят описательный характер и на решения не влияют.
	AgeGroup   string `json:"age_group"`
	Profession string `json:"profession"`
	Region     string `json:"region"`

	// Интересы хранятся нормализованными токенами в нижнем регистре.
	Interests pq.StringArray `json:"interests"`

	EmotionalBias string `json:"emotional_bias"`

	// Вероятности действий в диапазоне [0,1].
	LikeProbability    float64 `json:"like_probability"`
	DislikeProbability float64 `json:"dislike_probability"`
	CommentProbability float64 `json:"comment_probability"`

	// Имитация человеческой задержки ответа в секундах, min <= max.
	MinResponseDelay int `json:"min_response_delay"`
	MaxResponseDelay int `json:"max_response_delay"`
}

// ValidateProfile отклоняет профиль с некорректными вероятностями или задержками.
// Проверка выполняется при создании бота, чтобы движок решений мог доверять данным.
func ValidateProfile(p BotProfile) error {
	for _, prob := range []struct {
		name  string
		value float64
	}{
		{"like_probability", p.LikeProbability},
		{"dislike_probability", p.DislikeProbability},
		{"comment_probability", p.CommentProbability},
	} {
		if prob.value < 0 || prob.value > 1 {
			return fmt.Errorf("%s должна быть в диапазоне [0,1], получено %v", prob.name, prob.value)
		}
	}
	if p.MinResponseDelay < 0 {
		return fmt.Errorf("min_response_delay не может быть отрицательной")
	}
	if p.MaxResponseDelay < p.MinResponseDelay {
		return fmt.Errorf("max_response_delay (%d) меньше min_response_delay (%d)", p.MaxResponseDelay, p.MinResponseDelay)
	}
	if !IsValidBias(p.EmotionalBias) {
		return fmt.Errorf("недопустимый emotional_bias: %s", p.EmotionalBias)
	}
	return nil
}
