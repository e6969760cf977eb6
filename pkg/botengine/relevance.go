package botengine

import (
	"strings"

	"smp_go/models"
)

// normalizeTokens приводит токены к нижнему регистру и отбрасывает пустые.
func normalizeTokens(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// IsUniversal сообщает, содержит ли профиль интерес-сентинел.
// Универсальный бот считает любой пост максимально релевантным.
func IsUniversal(cfg Config, profile models.BotProfile) bool {
	for _, interest := range normalizeTokens(profile.Interests) {
		for _, sentinel := range cfg.UniversalSentinels {
			if interest == sentinel {
				return true
			}
		}
	}
	return false
}

// RelevanceScore вычисляет релевантность поста интересам бота: [0, 1].
// Чистая функция без побочных эффектов; три правила независимы и аддитивны,
// каждое срабатывает не более одного раза, сумма ограничена единицей.
func RelevanceScore(cfg Config, profile models.BotProfile, post models.Post) float64 {
	if IsUniversal(cfg, profile) {
		return 1.0
	}

	interests := normalizeTokens(profile.Interests)
	if len(interests) == 0 {
		// Бот без интересов не реагирует на тематические посты.
		return 0.0
	}

	relevance := 0.0

	// Тема поста — самый сильный сигнал. Совпадение подстрокой в любую
	// сторону, короткие токены (<= 2 символов) не учитываются.
	if topic := strings.ToLower(strings.TrimSpace(post.Topic)); topic != "" {
		for _, interest := range interests {
			if len(interest) <= 2 {
				continue
			}
			if strings.Contains(topic, interest) || strings.Contains(interest, topic) {
				relevance += cfg.TopicWeight
				break
			}
		}
	}

	// Пересечение с ключевыми словами поста: подстрока в любую сторону,
	// первое совпадение завершает правило.
	keywords := normalizeTokens(post.Keywords)
	if len(keywords) > 0 {
	keywordRule:
		for _, interest := range interests {
			for _, keyword := range keywords {
				if strings.Contains(keyword, interest) || strings.Contains(interest, keyword) {
					relevance += cfg.KeywordWeight
					break keywordRule
				}
			}
		}
	}

	// Упоминание интереса в тексте поста. Однобуквенные токены отбрасываем,
	// иначе правило срабатывало бы почти на любом тексте.
	content := strings.ToLower(post.Content)
	for _, interest := range interests {
		if len(interest) < 2 {
			continue
		}
		if strings.Contains(content, interest) {
			relevance += cfg.ContentWeight
			break
		}
	}

	if relevance > 1.0 {
		relevance = 1.0
	}
	return relevance
}
