// Package dispatcher — периодический цикл «что изменилось и кому
// напомнить»: выбирает записи, прошедшие водяную отметку, собирает
// напоминания по срокам и веером рассылает подписчикам.
package dispatcher

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/MargianaLogistics/CargoBot/internal/backend"
	"github.com/MargianaLogistics/CargoBot/internal/broker/messages"
	"github.com/MargianaLogistics/CargoBot/internal/models"
	"github.com/MargianaLogistics/CargoBot/internal/registry"
	"github.com/MargianaLogistics/CargoBot/internal/urgency"
)

// Backend — читающая часть офисной системы.
type Backend interface {
	Orders(ctx context.Context, q backend.Query) ([]models.Order, error)
	Containers(ctx context.Context, q backend.Query) ([]models.Container, error)
	Tasks(ctx context.Context, q backend.Query) ([]models.Task, error)
}

// Sender доставляет готовый текст в один чат.
type Sender interface {
	Send(ctx context.Context, chatID int64, text string) error
}

// Producer — исходящий фид изменений (опционален).
type Producer interface {
	Publish(ctx context.Context, topic string, key, value []byte) error
}

// RateLimiter притормаживает исходящие отправки (опционален).
type RateLimiter interface {
	AllowSend(ctx context.Context, limit int64) (bool, int64, error)
}

type Dispatcher struct {
	backend  Backend
	sender   Sender
	subs     *registry.Registry
	producer Producer
	rl       RateLimiter

	topic string

	loc       *time.Location
	threshold int

	interval     time.Duration
	initialDelay time.Duration
	concurrency  int
	sendDelay    time.Duration
	ratePerMin   int64

	triggerCh chan struct{}

	// Водяная отметка: уведомления по изменениям до неё уже ушли.
	mu        sync.Mutex
	watermark time.Time

	startedAtUnixNano   int64
	lastCycleUnixNano   atomic.Int64
	lastTriggerUnixNano atomic.Int64
	totalCycles         atomic.Int64
	totalChanged        atomic.Int64
	totalReminders      atomic.Int64
	totalDelivered      atomic.Int64
	totalErrors         atomic.Int64
	inFlight            atomic.Int64
	lastErrorMu         sync.Mutex
	lastError           string
}

func New(b Backend, sender Sender, subs *registry.Registry, loc *time.Location) *Dispatcher {
	now := time.Now().UTC()
	return &Dispatcher{
		backend: b, sender: sender, subs: subs,
		loc:               loc,
		threshold:         urgency.DefaultThreshold,
		interval:          300 * time.Second,
		initialDelay:      10 * time.Second,
		concurrency:       4,
		sendDelay:         50 * time.Millisecond,
		triggerCh:         make(chan struct{}, 1),
		watermark:         now,
		startedAtUnixNano: now.UnixNano(),
	}
}

func (d *Dispatcher) WithSettings(interval, initialDelay time.Duration, concurrency int, sendDelay time.Duration, ratePerMin int64) *Dispatcher {
	if interval > 0 {
		d.interval = interval
	}
	if initialDelay > 0 {
		d.initialDelay = initialDelay
	}
	if concurrency > 0 {
		d.concurrency = concurrency
	}
	if sendDelay > 0 {
		d.sendDelay = sendDelay
	}
	if ratePerMin > 0 {
		d.ratePerMin = ratePerMin
	}
	return d
}

func (d *Dispatcher) WithThreshold(days int) *Dispatcher {
	if days > 0 {
		d.threshold = days
	}
	return d
}

// WithFeed включает публикацию RecordChanged в kafka.
func (d *Dispatcher) WithFeed(p Producer, topic string) *Dispatcher {
	d.producer = p
	d.topic = topic
	return d
}

func (d *Dispatcher) WithRateLimiter(rl RateLimiter) *Dispatcher {
	d.rl = rl
	return d
}

// Trigger forces an immediate dispatch cycle (best-effort, non-blocking).
func (d *Dispatcher) Trigger() {
	d.lastTriggerUnixNano.Store(time.Now().UTC().UnixNano())
	select {
	case d.triggerCh <- struct{}{}:
	default:
	}
}

// Watermark возвращает текущую отметку (для /stats и тестов).
func (d *Dispatcher) Watermark() time.Time {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.watermark
}

type Stats struct {
	StartedAt      time.Time  `json:"startedAt"`
	LastCycleAt    *time.Time `json:"lastCycleAt,omitempty"`
	LastTriggerAt  *time.Time `json:"lastTriggerAt,omitempty"`
	Watermark      time.Time  `json:"watermark"`
	TotalCycles    int64      `json:"totalCycles"`
	TotalChanged   int64      `json:"totalChanged"`
	TotalReminders int64      `json:"totalReminders"`
	TotalDelivered int64      `json:"totalDelivered"`
	TotalErrors    int64      `json:"totalErrors"`
	InFlight       int64      `json:"inFlight"`
	LastError      string     `json:"lastError,omitempty"`
}

func (d *Dispatcher) Stats() Stats {
	st := Stats{
		StartedAt:      time.Unix(0, d.startedAtUnixNano).UTC(),
		Watermark:      d.Watermark(),
		TotalCycles:    d.totalCycles.Load(),
		TotalChanged:   d.totalChanged.Load(),
		TotalReminders: d.totalReminders.Load(),
		TotalDelivered: d.totalDelivered.Load(),
		TotalErrors:    d.totalErrors.Load(),
		InFlight:       d.inFlight.Load(),
	}
	if n := d.lastCycleUnixNano.Load(); n > 0 {
		t := time.Unix(0, n).UTC()
		st.LastCycleAt = &t
	}
	if n := d.lastTriggerUnixNano.Load(); n > 0 {
		t := time.Unix(0, n).UTC()
		st.LastTriggerAt = &t
	}
	d.lastErrorMu.Lock()
	st.LastError = d.lastError
	d.lastErrorMu.Unlock()
	return st
}

// Run крутит циклы до отмены контекста. Первый цикл после короткой
// задержки, чтобы успели подняться транспорт и бэкенд. Цикл всегда
// ровно один за раз: select сериализует тикер и ручной триггер.
func (d *Dispatcher) Run(ctx context.Context) error {
	first := time.NewTimer(d.initialDelay)
	defer first.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-first.C:
		d.runOnce(ctx)
	case <-d.triggerCh:
		d.runOnce(ctx)
	}

	t := time.NewTicker(d.interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			d.runOnce(ctx)
		case <-d.triggerCh:
			d.runOnce(ctx)
		}
	}
}

func (d *Dispatcher) runOnce(ctx context.Context) {
	now := time.Now().UTC()
	d.lastCycleUnixNano.Store(now.UnixNano())

	d.mu.Lock()
	since := d.watermark
	d.mu.Unlock()

	changedOrders, changedContainers, changedTasks, err := d.fetchChanged(ctx, since)
	if err != nil {
		// Отметка не двигается: следующий цикл перечитает то же окно.
		slog.Error("query changed records", "error", err.Error())
		d.noteError(err)
		return
	}

	reminders, err := d.fetchReminders(ctx, now)
	if err != nil {
		slog.Error("query due orders", "error", err.Error())
		d.noteError(err)
		return
	}

	d.totalChanged.Add(int64(len(changedOrders)))
	d.totalReminders.Add(int64(len(reminders)))

	d.publishFeed(ctx, now, changedOrders, changedContainers, changedTasks)

	notes := make([]string, 0, len(changedOrders)+len(reminders))
	for _, o := range changedOrders {
		notes = append(notes, StatusChangeMessage(o, d.loc))
	}
	for _, r := range reminders {
		notes = append(notes, ReminderMessage(r))
	}

	if len(notes) > 0 {
		if subs := d.subs.All(); len(subs) > 0 {
			d.deliver(ctx, notes, subs)
		}
	}

	// Отметка двигается безусловно: недоставленное не повторяем.
	d.mu.Lock()
	if now.After(d.watermark) {
		d.watermark = now
	}
	d.mu.Unlock()
	d.totalCycles.Add(1)

	if len(notes) == 0 {
		slog.Info("dispatch cycle done, no changes")
		return
	}
	slog.Info("dispatch cycle done",
		"changed", len(changedOrders),
		"reminders", len(reminders),
		"subscribers", d.subs.Len())
}

func (d *Dispatcher) fetchChanged(ctx context.Context, since time.Time) ([]models.Order, []models.Container, []models.Task, error) {
	q := backend.Query{
		Filters: []backend.Filter{
			{Column: backend.ColLastSync, Op: backend.OpGte, Value: watermarkLiteral(since)},
		},
	}

	orders, err := d.backend.Orders(ctx, q)
	if err != nil {
		return nil, nil, nil, err
	}
	containers, err := d.backend.Containers(ctx, q)
	if err != nil {
		return nil, nil, nil, err
	}
	tasks, err := d.backend.Tasks(ctx, q)
	if err != nil {
		return nil, nil, nil, err
	}
	return orders, containers, tasks, nil
}

// fetchReminders выбирает незавершённые заказы с выставленным ETA и
// оставляет точки напоминаний: ровно {threshold..0} дней до прибытия.
func (d *Dispatcher) fetchReminders(ctx context.Context, now time.Time) ([]urgency.Scored, error) {
	q := backend.Query{
		Filters: []backend.Filter{
			{Column: backend.ColStatus, Op: backend.OpNeq, Value: models.OrderStatusCompleted},
			{Column: backend.ColStatus, Op: backend.OpNeq, Value: models.OrderStatusCancelled},
			{Column: backend.ColETADate, Op: backend.OpNotNull},
		},
	}
	orders, err := d.backend.Orders(ctx, q)
	if err != nil {
		return nil, err
	}

	groups := urgency.Classify(urgency.FromOrders(orders), now, d.loc, d.threshold)
	// TODO: внутри одного дня напоминание уходит каждый цикл заново;
	// нужен пер-заказный маркер последнего отправленного напоминания.
	return groups.Upcoming(), nil
}

// publishFeed отправляет изменения в kafka. Фид — побочный канал:
// ошибки публикации логируются и не останавливают цикл.
func (d *Dispatcher) publishFeed(ctx context.Context, now time.Time, orders []models.Order, containers []models.Container, tasks []models.Task) {
	if d.producer == nil {
		return
	}
	for _, o := range orders {
		d.publishOne(ctx, backend.CollectionOrders, o.ID, o.OrderNumber, o.Status, o.LastSyncDate, now)
	}
	for _, c := range containers {
		d.publishOne(ctx, backend.CollectionContainers, c.ID, c.ContainerNumber, "", c.LastSyncDate, now)
	}
	for _, t := range tasks {
		d.publishOne(ctx, backend.CollectionTasks, t.ID, t.Description, t.Status, t.LastSyncDate, now)
	}
}

func (d *Dispatcher) publishOne(ctx context.Context, collection string, id int64, ref, status, lastSync string, now time.Time) {
	msg := messages.RecordChanged{
		Collection: collection,
		RecordID:   id,
		Ref:        ref,
		Status:     status,
		LastSync:   lastSync,
		DetectedAt: now,
	}
	value, err := json.Marshal(msg)
	if err != nil {
		slog.Error("marshal feed record", "collection", collection, "record_id", id, "error", err.Error())
		return
	}
	key := []byte(fmt.Sprintf("%s:%d", collection, id))
	if err := d.producer.Publish(ctx, d.topic, key, value); err != nil {
		slog.Error("publish feed record", "collection", collection, "record_id", id, "error", err.Error())
	}
}

func (d *Dispatcher) deliver(ctx context.Context, notes []string, subs []int64) {
	sem := make(chan struct{}, d.concurrency)
	var wg sync.WaitGroup
	for _, note := range notes {
		for _, chatID := range subs {
			sem <- struct{}{}
			wg.Add(1)
			d.inFlight.Add(1)
			go func() {
				defer func() {
					d.inFlight.Add(-1)
					<-sem
					wg.Done()
				}()
				if err := d.sendOne(ctx, chatID, note); err != nil {
					d.totalErrors.Add(1)
					d.noteError(err)
					slog.Error("deliver notification", "chat_id", chatID, "error", err.Error())
					return
				}
				d.totalDelivered.Add(1)
			}()
		}
	}
	wg.Wait()
}

func (d *Dispatcher) sendOne(ctx context.Context, chatID int64, text string) error {
	if d.rl != nil && d.ratePerMin > 0 {
		allowed, n, err := d.rl.AllowSend(ctx, d.ratePerMin)
		switch {
		case err != nil:
			// Лимитер совещательный: его отказ не должен глушить рассылку.
			slog.Warn("send rate limiter unavailable", "error", err.Error())
		case !allowed:
			slog.Warn("send rate limit exceeded", "count", n)
			time.Sleep(500 * time.Millisecond)
		}
	}

	if err := d.sender.Send(ctx, chatID, text); err != nil {
		return err
	}

	if d.sendDelay > 0 {
		time.Sleep(d.sendDelay)
	}
	return nil
}

func (d *Dispatcher) noteError(err error) {
	d.lastErrorMu.Lock()
	d.lastError = err.Error()
	d.lastErrorMu.Unlock()
}

// watermarkLiteral — наивный UTC без смещения: так literal одинаково
// читается и PostgREST-ом, и Postgres-ом, и встроенным фейком.
func watermarkLiteral(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05")
}
