package botengine

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"smp_go/models"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/sync/semaphore"
)

// Интерфейсы хранилища, которые потребляет движок.
// Движок не знает, что за ними стоит Postgres: в тестах их заменяют
// структуры в памяти.

type BotRepository interface {
	ListActiveBots() ([]models.Bot, error)
}

type PostRepository interface {
	GetPostByID(id int) (*models.Post, error)
	ListPostsSince(since time.Time) ([]models.Post, error)
}

type ReactionStore interface {
	TryCreateBotReaction(postID, botID int, isLike bool) (bool, error)
}

type CommentStore interface {
	TryCreateBotComment(postID, botID int, content string) (bool, error)
}

// InteractionLedger — журнал принятых решений.
// Наличие записи означает, что пара (бот, пост) никогда не обрабатывается повторно.
type InteractionLedger interface {
	HasInteraction(botID, postID int) (bool, error)
	SaveInteraction(rec models.InteractionRecord) error
}

// CommentTextProvider выдаёт шаблонный текст комментария по настрою.
type CommentTextProvider interface {
	GetTemplate(bias string) string
}

// GenerativeProvider — необязательный генератор комментариев по контексту поста.
// false во втором значении означает откат на шаблонный пул.
type GenerativeProvider interface {
	GetGenerated(ctx context.Context, post models.Post, profile models.BotProfile) (string, bool)
}

// Stores собирает коллекцию хранилищ, чтобы не раздувать конструктор движка.
// Все пять интерфейсов реализует *storage.DB.
type Stores struct {
	Bots      BotRepository
	Posts     PostRepository
	Reactions ReactionStore
	Comments  CommentStore
	Ledger    InteractionLedger
}

// BatchResult — итог обработки пачки. Счётчики коммутативны,
// порядок обработки пар на них не влияет.
type BatchResult struct {
	PostsConsidered     int `json:"posts_considered"`
	BotsConsidered      int `json:"bots_considered"`
	InteractionsCreated int `json:"interactions_created"`
	Failures            int `json:"failures"`
}

// Engine принимает решения о реакциях и комментариях ботов.
type Engine struct {
	cfg       Config
	stores    Stores
	texts     CommentTextProvider
	generator GenerativeProvider
	rng       Rand
}

func New(cfg Config, stores Stores, texts CommentTextProvider, rng Rand) *Engine {
	return &Engine{cfg: cfg, stores: stores, texts: texts, rng: rng}
}

// SetGenerator подключает генеративный провайдер комментариев.
// Без него движок работает только на шаблонных пулах.
func (e *Engine) SetGenerator(g GenerativeProvider) { e.generator = g }

// ProcessSinglePost обрабатывает один пост всеми активными ботами.
// Ошибка возвращается только если сам пост не найден или недоступен список ботов;
// сбои отдельных пар попадают в счётчик Failures.
func (e *Engine) ProcessSinglePost(ctx context.Context, postID int) (BatchResult, error) {
	post, err := e.stores.Posts.GetPostByID(postID)
	if err != nil {
		return BatchResult{}, fmt.Errorf("загрузка поста %d: %w", postID, err)
	}
	bots, err := e.stores.Bots.ListActiveBots()
	if err != nil {
		return BatchResult{}, fmt.Errorf("загрузка активных ботов: %w", err)
	}
	return e.run(ctx, []models.Post{*post}, bots), nil
}

// ProcessWindow обрабатывает все посты за скользящее окно времени.
func (e *Engine) ProcessWindow(ctx context.Context, window time.Duration) (BatchResult, error) {
	posts, err := e.stores.Posts.ListPostsSince(time.Now().Add(-window))
	if err != nil {
		return BatchResult{}, fmt.Errorf("загрузка постов за окно: %w", err)
	}
	bots, err := e.stores.Bots.ListActiveBots()
	if err != nil {
		return BatchResult{}, fmt.Errorf("загрузка активных ботов: %w", err)
	}
	return e.run(ctx, posts, bots), nil
}

// run раскладывает пары (бот, пост) по таймерам имитации человеческой задержки.
// Таймер не занимает воркера: семафор берётся только на время самой обработки,
// поэтому тысячи пар могут ждать своего часа одновременно.
func (e *Engine) run(ctx context.Context, posts []models.Post, bots []models.Bot) BatchResult {
	log.Printf("[ENGINE] Обработка %d постов для %d ботов", len(posts), len(bots))

	sem := semaphore.NewWeighted(e.cfg.Workers)
	var wg sync.WaitGroup
	var created, failures atomic.Int64
	var timers []*time.Timer

	for _, post := range posts {
		post := post
		for _, bot := range bots {
			bot := bot
			if bot.Profile == nil {
				// Бот без профиля не имеет вероятностей действий, решать нечего.
				continue
			}
			wg.Add(1)
			t := time.AfterFunc(e.sampleDelay(*bot.Profile), func() {
				defer wg.Done()
				if err := sem.Acquire(ctx, 1); err != nil {
					// Пачка отменена; пара останется необработанной и
					// будет рассмотрена при следующем запуске.
					return
				}
				defer sem.Release(1)
				e.processPair(ctx, bot, post, &created, &failures)
			})
			timers = append(timers, t)
		}
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		// Гасим не сработавшие таймеры; уже начатые пары довершатся,
		// каждая — в собственной транзакции, так что отмена между парами безопасна.
		for _, t := range timers {
			if t.Stop() {
				wg.Done()
			}
		}
		<-done
	}

	result := BatchResult{
		PostsConsidered:     len(posts),
		BotsConsidered:      len(bots),
		InteractionsCreated: int(created.Load()),
		Failures:            int(failures.Load()),
	}
	log.Printf("[ENGINE] Готово: %d взаимодействий, %d сбоев", result.InteractionsCreated, result.Failures)
	return result
}

// processPair проводит одну пару (бот, пост) через полный конвейер решения.
// Любой сбой изолируется внутри пары и лишь увеличивает счётчик failures.
func (e *Engine) processPair(ctx context.Context, bot models.Bot, post models.Post, created, failures *atomic.Int64) {
	has, err := e.stores.Ledger.HasInteraction(bot.ID, post.ID)
	if err != nil {
		log.Printf("[ENGINE ERROR] Проверка журнала для бота %d и поста %d: %v", bot.ID, post.ID, err)
		failures.Add(1)
		return
	}
	if has {
		// Решение по паре уже принято, оно окончательное.
		return
	}

	profile := *bot.Profile
	relevance := 1.0
	if !IsUniversal(e.cfg, profile) {
		relevance = RelevanceScore(e.cfg, profile, post)
		if relevance < e.cfg.MinRelevanceThreshold {
			// Пропуск без записи: пара останется доступной для будущих запусков.
			return
		}
	}

	var actions []string

	if isLike, reacted := decideReaction(e.cfg, profile, relevance, e.rng); reacted {
		ok, err := e.persistWithRetry(ctx, func() (bool, error) {
			return e.stores.Reactions.TryCreateBotReaction(post.ID, bot.ID, isLike)
		})
		if err != nil {
			log.Printf("[ENGINE ERROR] Реакция бота %d на пост %d: %v", bot.ID, post.ID, err)
			failures.Add(1)
			return
		}
		if ok {
			if isLike {
				actions = append(actions, models.ActionLike)
			} else {
				actions = append(actions, models.ActionDislike)
			}
		}
	}

	if decideComment(e.cfg, profile, relevance, e.rng) {
		text := e.commentText(ctx, post, profile)
		ok, err := e.persistWithRetry(ctx, func() (bool, error) {
			return e.stores.Comments.TryCreateBotComment(post.ID, bot.ID, text)
		})
		if err != nil {
			log.Printf("[ENGINE ERROR] Комментарий бота %d к посту %d: %v", bot.ID, post.ID, err)
			failures.Add(1)
			return
		}
		if ok {
			actions = append(actions, models.ActionComment)
		}
	}

	if len(actions) == 0 && !e.cfg.RecordIdlePairs {
		// Пара прошла порог, но ничего не выиграла в розыгрышах.
		// По умолчанию следа не оставляем — поведение настраиваемое.
		return
	}

	rec := models.InteractionRecord{
		BotID:          bot.ID,
		PostID:         post.ID,
		ActionType:     strings.Join(actions, ","),
		RelevanceScore: relevance,
	}
	if len(actions) == 0 {
		rec.ActionType = "none"
	}
	if err := e.stores.Ledger.SaveInteraction(rec); err != nil {
		log.Printf("[ENGINE ERROR] Запись журнала для бота %d и поста %d: %v", bot.ID, post.ID, err)
		failures.Add(1)
		return
	}
	if len(actions) > 0 {
		created.Add(1)
	}
}

// commentText выбирает текст комментария: генеративный провайдер с
// обязательным откатом на шаблонный пул при любом сбое.
func (e *Engine) commentText(ctx context.Context, post models.Post, profile models.BotProfile) string {
	if e.generator != nil {
		if text, ok := e.generator.GetGenerated(ctx, post, profile); ok {
			return text
		}
	}
	return e.texts.GetTemplate(profile.EmotionalBias)
}

// persistWithRetry повторяет запись при временных ошибках хранилища.
// Количество попыток ограничено: после них ошибка уходит в счётчик сбоев пары.
func (e *Engine) persistWithRetry(ctx context.Context, op func() (bool, error)) (bool, error) {
	var createdFlag bool
	attempt := func() error {
		var err error
		createdFlag, err = op()
		return err
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = e.cfg.RetryInterval
	err := backoff.Retry(attempt, backoff.WithContext(backoff.WithMaxRetries(policy, e.cfg.RetryAttempts), ctx))
	return createdFlag, err
}

// sampleDelay выбирает имитируемую задержку ответа бота.
// Диапазон задаётся профилем, верхняя граница — конфигурацией движка.
func (e *Engine) sampleDelay(profile models.BotProfile) time.Duration {
	minDelay, maxDelay := profile.MinResponseDelay, profile.MaxResponseDelay
	if maxDelay < minDelay {
		maxDelay = minDelay
	}
	seconds := minDelay
	if maxDelay > minDelay {
		seconds = minDelay + e.rng.Intn(maxDelay-minDelay+1)
	}
	delay := time.Duration(seconds) * time.Second
	if delay > e.cfg.MaxSimulatedDelay {
		delay = e.cfg.MaxSimulatedDelay
	}
	return delay
}
