package botengine

import (
	"context"
	"fmt"
	"log"
	"strings"

	"smp_go/models"

	openai "github.com/sashabaranov/go-openai"
)

// Типы личности, выводимые из профиля бота.
// Личность управляет тоном генерируемого комментария.
const (
	personalityOptimistic = "optimistic"
	personalityCritical   = "critical"
	personalitySarcastic  = "sarcastic"
	personalityTechie     = "techie"
	personalityMinimal    = "minimal"
	personalityNeutral    = "neutral"
)

var personalityTraits = map[string]string{
	personalityOptimistic: "You are warm, encouraging, and see the positive side of things. You genuinely celebrate others' successes and use exclamation marks naturally.",
	personalityCritical:   "You are a thoughtful skeptic who asks probing questions. You're not mean, but you like to dig deeper and challenge assumptions.",
	personalityNeutral:    "You are balanced and objective. You acknowledge points fairly without being overly positive or negative.",
	personalitySarcastic:  "You have a dry wit and use light, playful sarcasm. You're funny but never mean-spirited.",
	personalityTechie:     "You're a tech enthusiast who loves geeking out about technology, code, and systems. You naturally ask about implementation details.",
	personalityMinimal:    "You're a person of few words. You reply with short, punchy responses - usually just 2-5 words.",
}

// detectPersonality выводит тип личности из интересов, профессии и настроя.
func detectPersonality(profile models.BotProfile) string {
	interests := strings.ToLower(strings.Join(profile.Interests, ","))
	profession := strings.ToLower(profile.Profession)

	switch {
	case containsAny(interests, "optimistic", "encouraging", "positive", "supportive", "cheerful"):
		return personalityOptimistic
	case containsAny(interests, "critical", "skeptic", "analyst", "questioning", "debate"):
		return personalityCritical
	case containsAny(interests, "sarcastic", "irony", "humor", "wit", "funny"):
		return personalitySarcastic
	case containsAny(interests+","+profession, "tech", "programming", "developer", "engineer", "coding", "software"):
		return personalityTechie
	case containsAny(interests, "minimal", "brief", "short", "concise"):
		return personalityMinimal
	}

	switch profile.EmotionalBias {
	case models.BiasPositive:
		return personalityOptimistic
	case models.BiasNegative:
		return personalityCritical
	default:
		return personalityNeutral
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// buildPersona собирает системное описание личности для модели.
func buildPersona(profile models.BotProfile, personality string) string {
	var b strings.Builder
	b.WriteString("You are a real human scrolling social media. ")
	b.WriteString(personalityTraits[personality])
	if p := strings.TrimSpace(profile.Profession); p != "" {
		fmt.Fprintf(&b, " You work as a %s, which influences your perspective.", p)
	}
	if len(profile.Interests) > 0 {
		fmt.Fprintf(&b, " You're particularly interested in %s.", strings.Join(profile.Interests, ", "))
	}
	switch profile.EmotionalBias {
	case models.BiasPositive:
		b.WriteString(" You tend to be upbeat and encouraging.")
	case models.BiasNegative:
		b.WriteString(" You tend to be more skeptical and questioning.")
	}
	return b.String()
}

// buildTask формулирует задание для модели по содержимому поста.
func buildTask(content, personality string) string {
	if len(content) > 500 {
		content = content[:500]
	}
	if personality == personalityMinimal {
		return fmt.Sprintf("Someone shared this update:\n%q\n\nReact in 2-5 words max, referencing the specific situation. Sound like a quick, genuine reaction.", content)
	}
	return fmt.Sprintf("Someone shared this update:\n%q\n\nRespond directly to THIS update in 1-2 sentences. Reference the situation explicitly, sound conversational, do not be generic, do not introduce unrelated topics.", content)
}

// genericPhrases — дежурные обороты, на которые модели скатываются.
// Ответ, состоящий практически только из них, бракуется.
var genericPhrases = []string{
	"thanks for sharing",
	"interesting point",
	"fair enough",
	"good to know",
	"i appreciate",
	"great post",
}

var artifactPrefixes = []string{
	"Your reply:", "Reply:", "Comment:", "Response:",
	"Here's my reply:", "My reply:", "I would say:",
	"Sure!", "Sure,", "Well,", "So,",
}

// cleanGenerated убирает артефакты модели и бракует некачественный ответ.
// Пустая строка на выходе означает, что нужен откат на шаблонный пул.
func cleanGenerated(text, personality string) string {
	text = strings.TrimSpace(text)

	// Снимаем кавычки, если закавычен весь ответ.
	for _, q := range []string{`"`, `'`} {
		if len(text) >= 2 && strings.HasPrefix(text, q) && strings.HasSuffix(text, q) {
			text = strings.TrimSpace(text[1 : len(text)-1])
		}
	}

	for _, prefix := range artifactPrefixes {
		if strings.HasPrefix(strings.ToLower(text), strings.ToLower(prefix)) {
			text = strings.TrimSpace(text[len(prefix):])
		}
	}

	lower := strings.ToLower(text)
	for _, phrase := range genericPhrases {
		if strings.Contains(lower, phrase) && len(text) < len(phrase)+15 {
			return ""
		}
	}

	text = strings.ReplaceAll(text, "**", "")
	text = strings.ReplaceAll(text, "*", "")

	// Комментарии в ленте короткие: больше трёх предложений обрезаем.
	sentences := strings.Split(text, ". ")
	if len(sentences) > 3 {
		text = strings.Join(sentences[:2], ". ") + "."
	}

	if personality == personalityMinimal {
		words := strings.Fields(text)
		if len(words) > 6 {
			text = strings.Join(words[:5], " ")
			if !strings.HasSuffix(text, ".") && !strings.HasSuffix(text, "!") && !strings.HasSuffix(text, "?") {
				text = strings.TrimRight(text, ",") + "."
			}
		}
	}

	return strings.TrimSpace(strings.Join(strings.Fields(text), " "))
}

// OpenAIGenerator генерирует комментарии через chat-completions API.
// Провайдер необязателен: при любом сбое или некачественном ответе
// движок откатывается на шаблонный пул.
type OpenAIGenerator struct {
	client *openai.Client
	model  string
}

// NewOpenAIGenerator создаёт провайдера. baseURL позволяет направить
// запросы в совместимый локальный сервер вместо OpenAI.
func NewOpenAIGenerator(apiKey, baseURL, model string) *OpenAIGenerator {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIGenerator{client: openai.NewClientWithConfig(cfg), model: model}
}

// GetGenerated возвращает сгенерированный комментарий и признак успеха.
// false означает «используй шаблон»; ошибки наружу не выходят.
func (g *OpenAIGenerator) GetGenerated(ctx context.Context, post models.Post, profile models.BotProfile) (string, bool) {
	personality := detectPersonality(profile)

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       g.model,
		MaxTokens:   80,
		Temperature: 0.9,
		TopP:        0.9,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: buildPersona(profile, personality)},
			{Role: openai.ChatMessageRoleUser, Content: buildTask(post.Content, personality)},
		},
	})
	if err != nil {
		log.Printf("[GENERATOR WARN] Генерация комментария не удалась: %v", err)
		return "", false
	}
	if len(resp.Choices) == 0 {
		return "", false
	}

	cleaned := cleanGenerated(resp.Choices[0].Message.Content, personality)
	if len(cleaned) < 2 {
		return "", false
	}
	return cleaned, true
}
