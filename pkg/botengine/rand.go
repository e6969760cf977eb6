package botengine

import (
	"math/rand"
	"sync"
)

// Rand выдаёт случайные значения для решений движка.
// Интерфейс позволяет подменять источник в тестах на заранее
// заданную последовательность и воспроизводить любой сценарий.
type Rand interface {
	Float64() float64
	Intn(n int) int
}

// lockedRand защищает math/rand мьютексом: решения по парам
// принимаются из нескольких горутин одновременно.
type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

func (l *lockedRand) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Float64()
}

func (l *lockedRand) Intn(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Intn(n)
}

// NewSeededRand возвращает потокобезопасный источник со случайным зерном.
// Фиксированное зерно делает прогон детерминированным.
func NewSeededRand(seed int64) Rand {
	return &lockedRand{r: rand.New(rand.NewSource(seed))}
}
