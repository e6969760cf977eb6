package botengine

import "smp_go/models"

// Шаблонные комментарии по эмоциональному настрою.
// Неизменяемые пулы — последний рубеж: генеративный провайдер может
// отказать, шаблоны не могут.
var commentTemplates = map[string][]string{
	models.BiasPositive: {
		"This is amazing! 😊",
		"Love this content!",
		"Great post! Keep it up! 👍",
		"Absolutely wonderful!",
		"This made my day! ❤️",
		"Fantastic work!",
		"So inspiring! 🌟",
		"This is exactly what I needed to see!",
	},
	models.BiasNeutral: {
		"Interesting perspective.",
		"Thanks for sharing.",
		"Good point.",
		"I see what you mean.",
		"Worth considering.",
		"Noted.",
		"Fair enough.",
		"Makes sense.",
	},
	models.BiasNegative: {
		"I don't really agree with this.",
		"Not sure about this...",
		"Could be better.",
		"I have some concerns.",
		"This is questionable.",
		"Not convinced.",
		"I expected more.",
		"Disappointing.",
	},
}

// TemplateProvider выбирает случайный шаблон из пула настроя.
type TemplateProvider struct {
	rng Rand
}

func NewTemplateProvider(rng Rand) *TemplateProvider {
	return &TemplateProvider{rng: rng}
}

// GetTemplate возвращает текст комментария для настроя.
// Неизвестный настрой сводится к нейтральному пулу.
func (t *TemplateProvider) GetTemplate(bias string) string {
	pool, ok := commentTemplates[bias]
	if !ok {
		pool = commentTemplates[models.BiasNeutral]
	}
	return pool[t.rng.Intn(len(pool))]
}
