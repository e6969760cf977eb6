package botengine

import "time"

// Config собирает все настройки движка решений в одном месте.
// Коэффициенты правил вынесены из кода в данные, чтобы их можно было
// менять конфигурацией, не трогая чистые функции.
type Config struct {
	// Порог релевантности, ниже которого пара пропускается без записи в журнал.
	MinRelevanceThreshold float64 `yaml:"min_relevance_threshold"`

	// Интересы-сентинелы: бот с любым из них считает релевантным каждый пост.
	UniversalSentinels []string `yaml:"universal_sentinels"`

	// Веса правил релевантности.
	TopicWeight   float64 `yaml:"topic_weight"`
	KeywordWeight float64 `yaml:"keyword_weight"`
	ContentWeight float64 `yaml:"content_weight"`

	// Пересчёт базовой вероятности по релевантности:
	// effective = p * (RescaleBase + RescaleScale * relevance).
	RescaleBase  float64 `yaml:"rescale_base"`
	RescaleScale float64 `yaml:"rescale_scale"`

	// Множители вероятности лайка по эмоциональному настрою.
	LikeBiasMultipliers map[string]float64 `yaml:"like_bias_multipliers"`

	// Множитель вероятности дизлайка для негативного настроя.
	NegativeDislikeMultiplier float64 `yaml:"negative_dislike_multiplier"`

	// Верхняя граница имитируемой задержки ответа, чтобы пачка не растягивалась.
	MaxSimulatedDelay time.Duration `yaml:"max_simulated_delay"`

	// Максимум одновременно обрабатываемых пар: бережёт базу от всплеска вставок.
	Workers int64 `yaml:"workers"`

	// Повторы при временных ошибках хранилища и стартовый интервал между ними.
	RetryAttempts uint64        `yaml:"retry_attempts"`
	RetryInterval time.Duration `yaml:"retry_interval"`

	// Записывать ли в журнал пары, прошедшие порог, но не совершившие действий.
	// По умолчанию выключено: такие пары переоцениваются при каждом запуске.
	RecordIdlePairs bool `yaml:"record_idle_pairs"`
}

// DefaultConfig возвращает настройки движка по умолчанию.
func DefaultConfig() Config {
	return Config{
		MinRelevanceThreshold: 0.1,
		UniversalSentinels:    []string{"universal", "all", "everything"},
		TopicWeight:           0.5,
		KeywordWeight:         0.3,
		ContentWeight:         0.2,
		RescaleBase:           0.3,
		RescaleScale:          0.7,
		LikeBiasMultipliers: map[string]float64{
			"positive": 1.5,
			"neutral":  1.0,
			"negative": 0.6,
		},
		NegativeDislikeMultiplier: 2.0,
		MaxSimulatedDelay:         5 * time.Second,
		Workers:                   8,
		RetryAttempts:             3,
		RetryInterval:             500 * time.Millisecond,
	}
}
