package navigator

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Stopwatch считает секунды, прошедшие с начала квиза.
// После Freeze значение больше не меняется до Reset.
type Stopwatch struct {
	interval time.Duration

	mu      sync.Mutex
	seconds int
	frozen  bool
	stop    chan struct{}
}

// NewStopwatch создаёт секундомер с шагом в одну секунду.
func NewStopwatch() *Stopwatch {
	return &Stopwatch{interval: time.Second}
}

// Start запускает отсчёт в отдельной горутине. Повторный вызов ничего не делает,
// пока секундомер не остановлен.
func (s *Stopwatch) Start(ctx context.Context) {
	s.mu.Lock()
	if s.stop != nil || s.frozen {
		s.mu.Unlock()
		return
	}

	stop := make(chan struct{})
	s.stop = stop
	s.mu.Unlock()

	go s.run(ctx, stop)
}

func (s *Stopwatch) run(ctx context.Context, stop <-chan struct{}) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-stop:
			return
		case <-ticker.C:
			s.tick(stop)
		}
	}
}

// tick учитывает секунду, только если запуск stop ещё активен.
func (s *Stopwatch) tick(stop <-chan struct{}) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if (<-chan struct{})(s.stop) == stop && !s.frozen {
		s.seconds++
	}
}

// Tick добавляет одну секунду, если секундомер не заморожен.
func (s *Stopwatch) Tick() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.frozen {
		s.seconds++
	}
}

// Freeze останавливает отсчёт и фиксирует текущее значение.
func (s *Stopwatch) Freeze() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.frozen = true
	s.halt()
}

// Stop останавливает отсчёт, не замораживая значение. Start продолжит с него.
func (s *Stopwatch) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.halt()
}

// Reset останавливает отсчёт и обнуляет значение.
func (s *Stopwatch) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seconds = 0
	s.frozen = false
	s.halt()
}

func (s *Stopwatch) halt() {
	if s.stop != nil {
		close(s.stop)
		s.stop = nil
	}
}

// Elapsed возвращает прошедшее время.
func (s *Stopwatch) Elapsed() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	return time.Duration(s.seconds) * time.Second
}

// Frozen сообщает, заморожен ли секундомер.
func (s *Stopwatch) Frozen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.frozen
}

// FormatElapsed форматирует длительность как m:ss.
func FormatElapsed(d time.Duration) string {
	total := int(d / time.Second)

	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
