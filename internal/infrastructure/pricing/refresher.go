package pricing

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"damage-estimator/internal/domain/entity"
	"damage-estimator/internal/domain/port"
)

const (
	DefaultQueueSize  = 16
	DefaultJobTimeout = 5 * time.Minute
)

// Scraper источник свежих цен
type Scraper interface {
	Scrape(ctx context.Context, brand, model string, parts []string) ([]entity.PartPriceRecord, error)
}

// Reloader перечитывает каталог после записи новых цен
type Reloader interface {
	Reload(ctx context.Context) error
}

// Completed итог последнего успешного обновления
type Completed struct {
	Brand       string    `json:"brand"`
	Model       string    `json:"model"`
	ParsedParts int       `json:"parsed_parts"`
	FoundPrices int       `json:"found_prices"`
	FinishedAt  time.Time `json:"finished_at"`
}

// Status состояние фонового обновления цен
type Status struct {
	InProgress    bool       `json:"in_progress"`
	CurrentTask   string     `json:"current_task,omitempty"`
	Queued        int        `json:"queued"`
	LastCompleted *Completed `json:"last_completed"`
	LastError     string     `json:"last_error,omitempty"`
}

type job struct {
	brand string
	model string
	parts []string
}

func (j *job) key() string {
	return j.brand + "|" + j.model
}

// Refresher фоновое обновление цен деталей, которых нет в прайсе.
// Запросы на одну марку и модель склеиваются, пока задача в очереди или выполняется.
type Refresher struct {
	scraper    Scraper
	sink       port.PriceSink
	catalog    Reloader
	jobTimeout time.Duration

	queue chan *job

	mu      sync.Mutex
	pending map[string]*job
	running *job
	status  Status
}

func NewRefresher(scraper Scraper, sink port.PriceSink, catalog Reloader, queueSize int) *Refresher {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	return &Refresher{
		scraper:    scraper,
		sink:       sink,
		catalog:    catalog,
		jobTimeout: DefaultJobTimeout,
		queue:      make(chan *job, queueSize),
		pending:    make(map[string]*job),
	}
}

// RequestRefresh ставит задачу в очередь и никогда не блокирует
func (r *Refresher) RequestRefresh(brand, model string, parts []string) {
	j := &job{brand: brand, model: model}
	for _, p := range parts {
		if p != "" && !slices.Contains(j.parts, p) {
			j.parts = append(j.parts, p)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.running != nil && r.running.key() == j.key() {
		j.parts = slices.DeleteFunc(j.parts, func(p string) bool {
			return slices.Contains(r.running.parts, p)
		})
	}
	if len(j.parts) == 0 {
		return
	}

	if queued, ok := r.pending[j.key()]; ok {
		for _, p := range j.parts {
			if !slices.Contains(queued.parts, p) {
				queued.parts = append(queued.parts, p)
			}
		}
		return
	}

	select {
	case r.queue <- j:
		r.pending[j.key()] = j
		log.Info().Str("brand", brand).Str("model", model).Strs("parts", j.parts).Msg("price refresh queued")
	default:
		log.Warn().Str("brand", brand).Str("model", model).Msg("price refresh queue is full, request dropped")
	}
}

// Run обрабатывает очередь до отмены контекста
func (r *Refresher) Run(ctx context.Context) error {
	log.Info().Msg("price refresher started")
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("price refresher stopped")
			return nil
		case j := <-r.queue:
			r.process(ctx, j)
		}
	}
}

func (r *Refresher) process(ctx context.Context, j *job) {
	r.mu.Lock()
	delete(r.pending, j.key())
	r.running = j
	parts := slices.Clone(j.parts)
	r.status.InProgress = true
	r.status.CurrentTask = j.brand + " " + j.model
	r.mu.Unlock()

	found, err := r.refresh(ctx, j.brand, j.model, parts)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.running = nil
	r.status.InProgress = false
	r.status.CurrentTask = ""

	if err != nil {
		r.status.LastError = err.Error()
		log.Error().Err(err).Str("brand", j.brand).Str("model", j.model).Msg("price refresh failed")
		return
	}

	r.status.LastError = ""
	r.status.LastCompleted = &Completed{
		Brand:       j.brand,
		Model:       j.model,
		ParsedParts: len(parts),
		FoundPrices: found,
		FinishedAt:  time.Now(),
	}
	log.Info().
		Str("brand", j.brand).
		Str("model", j.model).
		Int("parsed_parts", len(parts)).
		Int("found_prices", found).
		Msg("price refresh completed")
}

func (r *Refresher) refresh(ctx context.Context, brand, model string, parts []string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, r.jobTimeout)
	defer cancel()

	records, err := r.scraper.Scrape(ctx, brand, model, parts)
	if err != nil {
		return 0, err
	}

	found := 0
	for _, rec := range records {
		if rec.HasPrice() {
			found++
		}
	}

	if err := r.sink.Upsert(ctx, records); err != nil {
		return 0, err
	}
	if err := r.catalog.Reload(ctx); err != nil {
		return 0, err
	}

	return found, nil
}

// Status возвращает снимок состояния
func (r *Refresher) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := r.status
	s.Queued = len(r.pending)
	if s.LastCompleted != nil {
		c := *s.LastCompleted
		s.LastCompleted = &c
	}
	return s
}

var _ port.PriceRefresher = (*Refresher)(nil)
