package botengine

import (
	"strings"
	"testing"

	"smp_go/models"
)

// TestDetectPersonality покрывает приоритет признаков: интересы и профессия
// важнее эмоционального настроя, настрой — последний резерв.
func TestDetectPersonality(t *testing.T) {
	cases := []struct {
		name    string
		profile models.BotProfile
		want    string
	}{
		{
			name:    "по интересам — оптимист",
			profile: models.BotProfile{Interests: []string{"positive", "yoga"}, EmotionalBias: models.BiasNegative},
			want:    personalityOptimistic,
		},
		{
			name:    "по профессии — технарь",
			profile: models.BotProfile{Profession: "software engineer", EmotionalBias: models.BiasPositive},
			want:    personalityTechie,
		},
		{
			name:    "саркастичный по интересам",
			profile: models.BotProfile{Interests: []string{"humor"}},
			want:    personalitySarcastic,
		},
		{
			name:    "немногословный",
			profile: models.BotProfile{Interests: []string{"minimal"}},
			want:    personalityMinimal,
		},
		{
			name:    "резерв: негативный настрой — критик",
			profile: models.BotProfile{Interests: []string{"cooking"}, EmotionalBias: models.BiasNegative},
			want:    personalityCritical,
		},
		{
			name:    "резерв: нейтральный",
			profile: models.BotProfile{EmotionalBias: models.BiasNeutral},
			want:    personalityNeutral,
		},
	}

	for _, tc := range cases {
		if got := detectPersonality(tc.profile); got != tc.want {
			t.Fatalf("%s: ожидалось %q, получено %q", tc.name, tc.want, got)
		}
	}
}

// TestCleanGenerated проверяет очистку ответа модели от артефактов
// и браковку дежурных фраз.
func TestCleanGenerated(t *testing.T) {
	if got := cleanGenerated(`"Nice benchmark numbers for the new runtime."`, personalityNeutral); got != "Nice benchmark numbers for the new runtime." {
		t.Fatalf("кавычки вокруг ответа должны сниматься, получено %q", got)
	}

	if got := cleanGenerated("Comment: love the migration story here", personalityNeutral); got != "love the migration story here" {
		t.Fatalf("служебный префикс должен отрезаться, получено %q", got)
	}

	if got := cleanGenerated("Thanks for sharing!", personalityNeutral); got != "" {
		t.Fatalf("дежурная фраза должна браковаться, получено %q", got)
	}

	if got := cleanGenerated("**bold** take on *this*", personalityNeutral); strings.ContainsAny(got, "*") {
		t.Fatalf("markdown-разметка должна удаляться, получено %q", got)
	}

	long := "One. Two. Three. Four. Five."
	if got := cleanGenerated(long, personalityNeutral); strings.Count(got, ".") > 3 {
		t.Fatalf("длинный ответ должен обрезаться, получено %q", got)
	}

	verbose := "honestly this looks like a really solid and thoughtful launch"
	got := cleanGenerated(verbose, personalityMinimal)
	if len(strings.Fields(got)) > 5 {
		t.Fatalf("немногословная личность ограничена пятью словами, получено %q", got)
	}
}

// TestBuildTaskTruncation: текст поста обрезается до 500 символов перед подстановкой.
func TestBuildTaskTruncation(t *testing.T) {
	content := strings.Repeat("a", 600)
	task := buildTask(content, personalityNeutral)
	if strings.Contains(task, strings.Repeat("a", 501)) {
		t.Fatalf("текст поста не обрезан до 500 символов")
	}
}

// TestBuildPersonaMentionsProfile: персона включает профессию и интересы профиля.
func TestBuildPersonaMentionsProfile(t *testing.T) {
	profile := models.BotProfile{
		Profession:    "chef",
		Interests:     []string{"cooking", "travel"},
		EmotionalBias: models.BiasPositive,
	}
	persona := buildPersona(profile, personalityOptimistic)
	for _, want := range []string{"chef", "cooking, travel", "upbeat"} {
		if !strings.Contains(persona, want) {
			t.Fatalf("персона должна содержать %q, получено %q", want, persona)
		}
	}
}

// TestGetTemplate: пул выбирается по настрою, неизвестный настрой падает в нейтральный.
func TestGetTemplate(t *testing.T) {
	rng := &scriptRand{}
	provider := NewTemplateProvider(rng)

	for _, bias := range models.AllowedBiases {
		text := provider.GetTemplate(bias)
		found := false
		for _, tmpl := range commentTemplates[bias] {
			if text == tmpl {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("шаблон %q не принадлежит пулу настроя %q", text, bias)
		}
	}

	text := provider.GetTemplate("unknown")
	found := false
	for _, tmpl := range commentTemplates[models.BiasNeutral] {
		if text == tmpl {
			found = true
			break
		}
	}
	if !found {
		t.Fatalf("неизвестный настрой должен сводиться к нейтральному пулу, получено %q", text)
	}
}
