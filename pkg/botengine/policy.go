package botengine

import "smp_go/models"

// effectiveProbability пересчитывает базовую вероятность по релевантности.
// При нулевой релевантности остаётся 30% базовой вероятности — редкие
// взаимодействия с нерелевантными постами сохраняются, при полной
// релевантности базовая вероятность используется без изменений.
func effectiveProbability(cfg Config, base, relevance float64) float64 {
	return base * (cfg.RescaleBase + cfg.RescaleScale*relevance)
}

// shouldAct сравнивает случайную выборку u с эффективной вероятностью.
func shouldAct(cfg Config, base, relevance, u float64) bool {
	return u < effectiveProbability(cfg, base, relevance)
}

// decideReaction выбирает реакцию бота на пост: лайк, дизлайк или ничего.
// Порядок фиксирован: сначала разыгрывается лайк; при успехе дизлайк
// не рассматривается вовсе, поэтому пара никогда не даёт оба исхода.
func decideReaction(cfg Config, profile models.BotProfile, relevance float64, rng Rand) (isLike, reacted bool) {
	likeMult, ok := cfg.LikeBiasMultipliers[profile.EmotionalBias]
	if !ok {
		likeMult = 1.0
	}
	if shouldAct(cfg, profile.LikeProbability*likeMult, relevance, rng.Float64()) {
		return true, true
	}

	dislikeMult := 1.0
	if profile.EmotionalBias == models.BiasNegative {
		dislikeMult = cfg.NegativeDislikeMultiplier
	}
	if shouldAct(cfg, profile.DislikeProbability*dislikeMult, relevance, rng.Float64()) {
		return false, true
	}
	return false, false
}

// decideComment разыгрывает комментарий независимо от реакции.
func decideComment(cfg Config, profile models.BotProfile, relevance float64, rng Rand) bool {
	return shouldAct(cfg, profile.CommentProbability, relevance, rng.Float64())
}
