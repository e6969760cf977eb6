package botengine

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"smp_go/models"
)

// scriptRand возвращает заранее заданную последовательность значений.
// После исчерпания последовательности выдаёт значение, проваливающее любой розыгрыш.
type scriptRand struct {
	mu   sync.Mutex
	vals []float64
	idx  int
}

func (s *scriptRand) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.idx < len(s.vals) {
		v := s.vals[s.idx]
		s.idx++
		return v
	}
	return 0.999999
}

func (s *scriptRand) Intn(n int) int { return 0 }

func (s *scriptRand) drawn() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.idx
}

type pairKey struct{ botID, postID int }

// memStore — хранилище в памяти, реализующее все интерфейсы движка.
type memStore struct {
	mu        sync.Mutex
	bots      []models.Bot
	posts     map[int]models.Post
	reactions map[pairKey]bool
	comments  map[pairKey]string
	ledger    map[pairKey]models.InteractionRecord

	// failReactionFor имитирует постоянный сбой хранилища для конкретного бота.
	failReactionFor map[int]bool
}

func newMemStore() *memStore {
	return &memStore{
		posts:           map[int]models.Post{},
		reactions:       map[pairKey]bool{},
		comments:        map[pairKey]string{},
		ledger:          map[pairKey]models.InteractionRecord{},
		failReactionFor: map[int]bool{},
	}
}

func (m *memStore) stores() Stores {
	return Stores{Bots: m, Posts: m, Reactions: m, Comments: m, Ledger: m}
}

func (m *memStore) ListActiveBots() ([]models.Bot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var active []models.Bot
	for _, b := range m.bots {
		if b.IsActive {
			active = append(active, b)
		}
	}
	return active, nil
}

func (m *memStore) GetPostByID(id int) (*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[id]
	if !ok {
		return nil, errors.New("post not found")
	}
	return &p, nil
}

func (m *memStore) ListPostsSince(since time.Time) ([]models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var posts []models.Post
	for _, p := range m.posts {
		if !p.CreatedAt.Before(since) {
			posts = append(posts, p)
		}
	}
	return posts, nil
}

func (m *memStore) TryCreateBotReaction(postID, botID int, isLike bool) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failReactionFor[botID] {
		return false, errors.New("connection reset")
	}
	key := pairKey{botID, postID}
	if _, ok := m.reactions[key]; ok {
		return false, nil
	}
	m.reactions[key] = isLike
	return true, nil
}

func (m *memStore) TryCreateBotComment(postID, botID int, content string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := pairKey{botID, postID}
	if _, ok := m.comments[key]; ok {
		return false, nil
	}
	m.comments[key] = content
	return true, nil
}

func (m *memStore) HasInteraction(botID, postID int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.ledger[pairKey{botID, postID}]
	return ok, nil
}

func (m *memStore) SaveInteraction(rec models.InteractionRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := pairKey{rec.BotID, rec.PostID}
	if _, ok := m.ledger[key]; !ok {
		m.ledger[key] = rec
	}
	return nil
}

// testConfig — конфигурация движка для тестов: без задержек и долгих повторов.
func testConfig() Config {
	cfg := DefaultConfig()
	cfg.MaxSimulatedDelay = 0
	cfg.RetryAttempts = 1
	cfg.RetryInterval = time.Millisecond
	return cfg
}

func universalBot(id int, like, dislike, comment float64) models.Bot {
	return models.Bot{
		ID:       id,
		Name:     "bot",
		IsActive: true,
		Profile: &models.BotProfile{
			BotID:              id,
			Interests:          []string{"universal"},
			EmotionalBias:      models.BiasNeutral,
			LikeProbability:    like,
			DislikeProbability: dislike,
			CommentProbability: comment,
		},
	}
}

// TestProcessSinglePostIdempotent проверяет, что повторная обработка поста
// не создаёт дубликатов: журнал останавливает каждую пару на входе.
func TestProcessSinglePostIdempotent(t *testing.T) {
	store := newMemStore()
	store.bots = []models.Bot{universalBot(1, 1.0, 0, 1.0)}
	store.posts[10] = models.Post{ID: 10, Content: "hello"}

	rng := &scriptRand{vals: []float64{0.0, 0.0, 0.0, 0.0}}
	engine := New(testConfig(), store.stores(), NewTemplateProvider(rng), rng)

	first, err := engine.ProcessSinglePost(context.Background(), 10)
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if first.InteractionsCreated != 1 {
		t.Fatalf("ожидалось 1 взаимодействие, получено %d", first.InteractionsCreated)
	}

	second, err := engine.ProcessSinglePost(context.Background(), 10)
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if second.InteractionsCreated != 0 || second.Failures != 0 {
		t.Fatalf("повторная обработка создала взаимодействия: %+v", second)
	}
	if len(store.reactions) != 1 || len(store.comments) != 1 || len(store.ledger) != 1 {
		t.Fatalf("состояние хранилища изменилось при повторе: %d реакций, %d комментариев, %d записей",
			len(store.reactions), len(store.comments), len(store.ledger))
	}
}

// TestProcessSinglePostNotFound убеждается, что отсутствие поста — это ошибка вызова,
// а не тихий пустой результат.
func TestProcessSinglePostNotFound(t *testing.T) {
	store := newMemStore()
	rng := &scriptRand{}
	engine := New(testConfig(), store.stores(), NewTemplateProvider(rng), rng)

	if _, err := engine.ProcessSinglePost(context.Background(), 99); err == nil {
		t.Fatalf("ожидалась ошибка по отсутствующему посту")
	}
}

// TestBatchResilience проверяет изоляцию сбоев: отказ хранилища по одной паре
// не мешает остальным и увеличивает счётчик failures ровно на единицу.
func TestBatchResilience(t *testing.T) {
	store := newMemStore()
	store.bots = []models.Bot{
		universalBot(1, 1.0, 0, 0),
		universalBot(2, 1.0, 0, 0),
		universalBot(3, 1.0, 0, 0),
	}
	store.posts[10] = models.Post{ID: 10, Content: "hello"}
	store.failReactionFor[2] = true

	rng := &scriptRand{vals: []float64{0, 0, 0, 0, 0, 0, 0, 0, 0}}
	engine := New(testConfig(), store.stores(), NewTemplateProvider(rng), rng)

	result, err := engine.ProcessSinglePost(context.Background(), 10)
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if result.InteractionsCreated != 2 {
		t.Fatalf("ожидалось 2 взаимодействия, получено %d", result.InteractionsCreated)
	}
	if result.Failures != 1 {
		t.Fatalf("ожидался 1 сбой, получено %d", result.Failures)
	}
	if _, ok := store.ledger[pairKey{2, 10}]; ok {
		t.Fatalf("сбойная пара не должна попадать в журнал")
	}
}

// TestEndToEndDislike воспроизводит сквозной сценарий: негативный бот,
// релевантность 0.7, розыгрыши 0.99 и 0.5 — лайк проваливается,
// дизлайк проходит, журнал фиксирует именно его.
func TestEndToEndDislike(t *testing.T) {
	store := newMemStore()
	store.bots = []models.Bot{{
		ID:       1,
		Name:     "critic",
		IsActive: true,
		Profile: &models.BotProfile{
			BotID:              1,
			Interests:          []string{"technology", "ai"},
			EmotionalBias:      models.BiasNegative,
			LikeProbability:    0.2,
			DislikeProbability: 0.6,
			CommentProbability: 0,
		},
	}}
	store.posts[10] = models.Post{ID: 10, Topic: "technology", Content: "new AI chip launch"}

	rng := &scriptRand{vals: []float64{0.99, 0.5, 0.99}}
	engine := New(testConfig(), store.stores(), NewTemplateProvider(rng), rng)

	result, err := engine.ProcessSinglePost(context.Background(), 10)
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if result.InteractionsCreated != 1 {
		t.Fatalf("ожидалось 1 взаимодействие, получено %d", result.InteractionsCreated)
	}

	isLike, ok := store.reactions[pairKey{1, 10}]
	if !ok {
		t.Fatalf("реакция не сохранена")
	}
	if isLike {
		t.Fatalf("ожидался дизлайк, получен лайк")
	}

	rec := store.ledger[pairKey{1, 10}]
	if rec.ActionType != models.ActionDislike {
		t.Fatalf("в журнале ожидался dislike, получено %q", rec.ActionType)
	}
	if rec.RelevanceScore < 0.699 || rec.RelevanceScore > 0.701 {
		t.Fatalf("ожидалась релевантность 0.7, получено %v", rec.RelevanceScore)
	}
}

// TestThresholdSkipUnlogged проверяет, что пара ниже порога релевантности
// не оставляет следа в журнале и остаётся доступной для будущих запусков.
func TestThresholdSkipUnlogged(t *testing.T) {
	store := newMemStore()
	store.bots = []models.Bot{{
		ID:       1,
		IsActive: true,
		Profile: &models.BotProfile{
			BotID:           1,
			Interests:       []string{"cooking"},
			EmotionalBias:   models.BiasNeutral,
			LikeProbability: 1.0,
		},
	}}
	store.posts[10] = models.Post{ID: 10, Topic: "technology", Content: "quantum computing"}

	rng := &scriptRand{vals: []float64{0, 0, 0}}
	engine := New(testConfig(), store.stores(), NewTemplateProvider(rng), rng)

	result, err := engine.ProcessSinglePost(context.Background(), 10)
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if result.InteractionsCreated != 0 || result.Failures != 0 {
		t.Fatalf("нерелевантная пара не должна давать взаимодействий: %+v", result)
	}
	if len(store.ledger) != 0 {
		t.Fatalf("пропуск ниже порога не должен логироваться")
	}
	if rng.drawn() != 0 {
		t.Fatalf("розыгрыши не должны выполняться для пропущенной пары")
	}
}

// TestIdlePairPolicy проверяет настраиваемую запись пар без действий:
// по умолчанию следа нет, при включённой настройке появляется запись "none",
// которая не увеличивает счётчик взаимодействий.
func TestIdlePairPolicy(t *testing.T) {
	store := newMemStore()
	store.bots = []models.Bot{universalBot(1, 0, 0, 0)}
	store.posts[10] = models.Post{ID: 10, Content: "hello"}

	rng := &scriptRand{vals: []float64{0.5, 0.5, 0.5}}
	engine := New(testConfig(), store.stores(), NewTemplateProvider(rng), rng)

	if _, err := engine.ProcessSinglePost(context.Background(), 10); err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if len(store.ledger) != 0 {
		t.Fatalf("по умолчанию пара без действий не логируется")
	}

	cfg := testConfig()
	cfg.RecordIdlePairs = true
	engine = New(cfg, store.stores(), NewTemplateProvider(rng), rng)

	result, err := engine.ProcessSinglePost(context.Background(), 10)
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if result.InteractionsCreated != 0 {
		t.Fatalf("запись none не является взаимодействием")
	}
	rec, ok := store.ledger[pairKey{1, 10}]
	if !ok || rec.ActionType != "none" {
		t.Fatalf("ожидалась запись none, получено %+v", rec)
	}
}

// TestWindowCancellation проверяет кооперативную отмену: отложенные пары
// не обрабатываются после отмены контекста, движок возвращается без зависания.
func TestWindowCancellation(t *testing.T) {
	store := newMemStore()
	bot := universalBot(1, 1.0, 0, 0)
	bot.Profile.MinResponseDelay = 3600
	bot.Profile.MaxResponseDelay = 3600
	store.bots = []models.Bot{bot}
	store.posts[10] = models.Post{ID: 10, Content: "hello", CreatedAt: time.Now()}

	cfg := testConfig()
	cfg.MaxSimulatedDelay = time.Hour

	rng := &scriptRand{vals: []float64{0, 0, 0}}
	engine := New(cfg, store.stores(), NewTemplateProvider(rng), rng)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := engine.ProcessWindow(ctx, 24*time.Hour)
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if result.InteractionsCreated != 0 {
		t.Fatalf("отменённая пачка не должна создавать взаимодействий: %+v", result)
	}
	if len(store.ledger) != 0 {
		t.Fatalf("после отмены журнал должен остаться пустым")
	}
}
