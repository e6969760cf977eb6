package botengine

import (
	"testing"

	"smp_go/models"
)

// TestEffectiveProbabilityBounds проверяет крайние точки пересчёта:
// при нулевой релевантности остаётся 30% базы, при полной — база целиком.
func TestEffectiveProbabilityBounds(t *testing.T) {
	cfg := DefaultConfig()
	if got := effectiveProbability(cfg, 0.5, 0.0); got != 0.15 {
		t.Fatalf("при релевантности 0 ожидалось 0.15, получено %v", got)
	}
	// 0.3 + 0.7 в точности равны 1.0 в float64, сравнение строгое.
	if got := effectiveProbability(cfg, 0.5, 1.0); got != 0.5 {
		t.Fatalf("при релевантности 1 ожидалась база 0.5, получено %v", got)
	}
}

// TestShouldActBoundary: сравнение строгое, выборка равная вероятности не проходит.
func TestShouldActBoundary(t *testing.T) {
	cfg := DefaultConfig()
	if shouldAct(cfg, 0.5, 1.0, 0.5) {
		t.Fatalf("выборка, равная вероятности, не должна проходить")
	}
	if !shouldAct(cfg, 0.5, 1.0, 0.499) {
		t.Fatalf("выборка ниже вероятности должна проходить")
	}
}

// TestReactionExclusivity: успешный розыгрыш лайка останавливает решение,
// вероятность дизлайка вообще не разыгрывается.
func TestReactionExclusivity(t *testing.T) {
	cfg := DefaultConfig()
	profile := models.BotProfile{
		EmotionalBias:      models.BiasNeutral,
		LikeProbability:    1.0,
		DislikeProbability: 1.0,
	}
	rng := &scriptRand{vals: []float64{0.0}}
	isLike, reacted := decideReaction(cfg, profile, 1.0, rng)
	if !reacted || !isLike {
		t.Fatalf("ожидался лайк, получено isLike=%v reacted=%v", isLike, reacted)
	}
	if rng.drawn() != 1 {
		t.Fatalf("после успешного лайка дизлайк не разыгрывается, выборок: %d", rng.drawn())
	}
}

// TestReactionDislikeAfterMissedLike: проваленный лайк открывает розыгрыш дизлайка.
func TestReactionDislikeAfterMissedLike(t *testing.T) {
	cfg := DefaultConfig()
	profile := models.BotProfile{
		EmotionalBias:      models.BiasNeutral,
		LikeProbability:    0.1,
		DislikeProbability: 0.9,
	}
	rng := &scriptRand{vals: []float64{0.95, 0.1}}
	isLike, reacted := decideReaction(cfg, profile, 1.0, rng)
	if !reacted || isLike {
		t.Fatalf("ожидался дизлайк, получено isLike=%v reacted=%v", isLike, reacted)
	}
}

// TestLikeBiasMultipliers проверяет влияние настроя на вероятность лайка:
// позитив усиливает в полтора раза, негатив ослабляет до 0.6.
func TestLikeBiasMultipliers(t *testing.T) {
	cfg := DefaultConfig()

	positive := models.BotProfile{EmotionalBias: models.BiasPositive, LikeProbability: 0.5}
	rng := &scriptRand{vals: []float64{0.74}}
	if isLike, reacted := decideReaction(cfg, positive, 1.0, rng); !reacted || !isLike {
		t.Fatalf("позитивный настрой: 0.74 < 0.5*1.5, ожидался лайк")
	}

	negative := models.BotProfile{EmotionalBias: models.BiasNegative, LikeProbability: 0.5}
	rng = &scriptRand{vals: []float64{0.31, 0.9}}
	if _, reacted := decideReaction(cfg, negative, 1.0, rng); reacted {
		t.Fatalf("негативный настрой: 0.31 >= 0.5*0.6, лайк не должен пройти")
	}
}

// TestNegativeDislikeBoost: у негативного бота вероятность дизлайка удваивается.
func TestNegativeDislikeBoost(t *testing.T) {
	cfg := DefaultConfig()
	profile := models.BotProfile{
		EmotionalBias:      models.BiasNegative,
		LikeProbability:    0,
		DislikeProbability: 0.45,
	}
	// effective = 0.45 * 2.0 * 1.0 = 0.9
	rng := &scriptRand{vals: []float64{0.5, 0.85}}
	isLike, reacted := decideReaction(cfg, profile, 1.0, rng)
	if !reacted || isLike {
		t.Fatalf("ожидался усиленный дизлайк, получено isLike=%v reacted=%v", isLike, reacted)
	}

	neutral := profile
	neutral.EmotionalBias = models.BiasNeutral
	rng = &scriptRand{vals: []float64{0.5, 0.85}}
	if _, reacted := decideReaction(cfg, neutral, 1.0, rng); reacted {
		t.Fatalf("без негативного настроя 0.85 >= 0.45, дизлайк не должен пройти")
	}
}

// TestDecideComment: розыгрыш комментария использует пересчитанную вероятность.
func TestDecideComment(t *testing.T) {
	cfg := DefaultConfig()
	profile := models.BotProfile{EmotionalBias: models.BiasNeutral, CommentProbability: 0.4}

	// effective = 0.4 * (0.3 + 0.7*0.5) = 0.26
	rng := &scriptRand{vals: []float64{0.25}}
	if !decideComment(cfg, profile, 0.5, rng) {
		t.Fatalf("0.25 < 0.26, комментарий должен пройти")
	}
	rng = &scriptRand{vals: []float64{0.27}}
	if decideComment(cfg, profile, 0.5, rng) {
		t.Fatalf("0.27 >= 0.26, комментарий не должен пройти")
	}
}
