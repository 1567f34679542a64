// Package bot — командный интерфейс в Телеграме: запросы по заказам,
// контейнерам и задачам, отчёты и управление подпиской.
package bot

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	tele "gopkg.in/telebot.v3"

	"github.com/MargianaLogistics/CargoBot/internal/backend"
	"github.com/MargianaLogistics/CargoBot/internal/models"
	"github.com/MargianaLogistics/CargoBot/internal/registry"
	"github.com/MargianaLogistics/CargoBot/internal/services/dispatcher"
	"github.com/MargianaLogistics/CargoBot/internal/urgency"
)

// Backend — читающий доступ к офисной системе.
type Backend interface {
	Orders(ctx context.Context, q backend.Query) ([]models.Order, error)
	Containers(ctx context.Context, q backend.Query) ([]models.Container, error)
	Tasks(ctx context.Context, q backend.Query) ([]models.Task, error)
	Ping(ctx context.Context) error
}

// Dispatcher — то, что нужно админ-командам от фонового цикла.
type Dispatcher interface {
	Trigger()
	Stats() dispatcher.Stats
}

// ReportCache переживает повторные /report без похода в бэкенд.
type ReportCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Sender — исходящая доставка для /notify_all (дублирует контракт
// диспетчера, чтобы пакеты не зависели друг от друга).
type Sender interface {
	Send(ctx context.Context, chatID int64, text string) error
}

const defaultReportTTL = 60 * time.Second

type Bot struct {
	tb      *tele.Bot
	client  Backend
	disp    Dispatcher
	subs    *registry.Registry
	out     Sender
	loc     *time.Location
	admins  map[int64]struct{}
	started time.Time

	cache     ReportCache
	reportKey string
	reportTTL time.Duration

	threshold int
}

func New(tb *tele.Bot, client Backend, disp Dispatcher, subs *registry.Registry, loc *time.Location) *Bot {
	return &Bot{
		tb:        tb,
		client:    client,
		disp:      disp,
		subs:      subs,
		out:       NewSender(tb),
		loc:       loc,
		admins:    map[int64]struct{}{},
		started:   time.Now(),
		reportTTL: defaultReportTTL,
		threshold: urgency.DefaultThreshold,
	}
}

func (b *Bot) WithAdmins(ids []int64) *Bot {
	for _, id := range ids {
		b.admins[id] = struct{}{}
	}
	return b
}

// WithReportCache включает кэширование текста /report.
func (b *Bot) WithReportCache(cache ReportCache, key string, ttl time.Duration) *Bot {
	b.cache = cache
	b.reportKey = key
	if ttl > 0 {
		b.reportTTL = ttl
	}
	return b
}

func (b *Bot) WithThreshold(days int) *Bot {
	if days > 0 {
		b.threshold = days
	}
	return b
}

// Setup вешает обработчики. Отдельно от New, чтобы тесты могли
// дёргать хендлеры без живого Телеграма.
func (b *Bot) Setup() {
	b.tb.Handle("/start", b.handleStart)
	b.tb.Handle("/help", b.handleHelp)
	b.tb.Handle("/contacts", b.handleContacts)
	b.tb.Handle("/about", b.handleAbout)

	b.tb.Handle("/orders", b.handleOrders)
	b.tb.Handle("/order", b.handleOrderDetail)
	b.tb.Handle("/status", b.handleStatusFilter)
	b.tb.Handle("/today", b.handleToday)
	b.tb.Handle("/containers", b.handleContainers)
	b.tb.Handle("/drivers", b.handleDrivers)

	b.tb.Handle("/report", b.handleReport)
	b.tb.Handle("/report_pdf", b.handleReportPDF)
	b.tb.Handle("/completed_30", b.handleCompleted30)
	b.tb.Handle("/no_photos", b.handleNoPhotos)
	b.tb.Handle("/no_local_charges", b.handleNoLocalCharges)
	b.tb.Handle("/no_tex", b.handleNoCustomsDoc)
	b.tb.Handle("/urgent", b.handleUrgent)
	b.tb.Handle("/delayed", b.handleDelayed)

	b.tb.Handle("/subscribe", b.handleSubscribe)
	b.tb.Handle("/unsubscribe", b.handleUnsubscribe)

	b.tb.Handle("/notify_all", b.adminOnly(b.handleNotifyAll))
	b.tb.Handle("/check_updates", b.adminOnly(b.handleCheckUpdates))
	b.tb.Handle("/stats", b.adminOnly(b.handleStats))
	b.tb.Handle("/status_db", b.adminOnly(b.handleStatusDB))

	b.tb.Handle(&tele.Btn{Unique: cbActiveOrders}, b.asCallback(b.handleOrders))
	b.tb.Handle(&tele.Btn{Unique: cbTodayTasks}, b.asCallback(b.handleToday))
	b.tb.Handle(&tele.Btn{Unique: cbReport}, b.asCallback(b.handleReport))
	b.tb.Handle(&tele.Btn{Unique: cbDrivers}, b.asCallback(b.handleDrivers))
	b.tb.Handle(&tele.Btn{Unique: cbHelp}, b.asCallback(b.handleHelp))
	b.tb.Handle(&tele.Btn{Unique: cbGeneratePDF}, b.asCallback(b.handleReportPDF))
	b.tb.Handle(&tele.Btn{Unique: cbUrgentList}, b.asCallback(b.handleUrgent))
	b.tb.Handle(&tele.Btn{Unique: cbOrderTasks}, b.asCallback(b.handleOrderTasks))
	b.tb.Handle(&tele.Btn{Unique: cbOrderContainers}, b.asCallback(b.handleOrderContainers))
	b.tb.Handle(&tele.Btn{Unique: cbOrderRefresh}, b.asCallback(b.handleOrderRefresh))

	// Любой прочий текст трактуем как просьбу о помощи.
	b.tb.Handle(tele.OnText, b.handleHelp)
}

// Run блокируется на long-polling до отмены контекста.
func (b *Bot) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		b.tb.Stop()
	}()
	slog.Info("telegram bot started", "admins", len(b.admins))
	b.tb.Start()
	return ctx.Err()
}

func (b *Bot) isAdmin(chatID int64) bool {
	_, ok := b.admins[chatID]
	return ok
}

func (b *Bot) adminOnly(h tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		if !b.isAdmin(c.Chat().ID) {
			return c.Send(adminOnlyText)
		}
		return h(c)
	}
}

// asCallback гасит «часики» на кнопке и передаёт управление хендлеру.
func (b *Bot) asCallback(h tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		if c.Callback() != nil {
			_ = c.Respond()
		}
		return h(c)
	}
}

// failQuery — единый ответ на отказ бэкенда: в лог подробно, в чат
// нейтрально.
func (b *Bot) failQuery(c tele.Context, op string, err error) error {
	slog.Error(op, "chat_id", c.Chat().ID, "error", err.Error())
	return c.Send(queryFailedText)
}

// Уникальные токены callback-кнопок.
const (
	cbActiveOrders    = "active_orders"
	cbTodayTasks      = "today_tasks"
	cbReport          = "report"
	cbDrivers         = "drivers"
	cbHelp            = "help"
	cbGeneratePDF     = "generate_pdf"
	cbUrgentList      = "urgent_list"
	cbOrderTasks      = "order_tasks"
	cbOrderContainers = "order_containers"
	cbOrderRefresh    = "order_refresh"
)

func mainMenu() *tele.ReplyMarkup {
	m := &tele.ReplyMarkup{}
	m.Inline(
		m.Row(m.Data("📦 Active orders", cbActiveOrders), m.Data("📋 Tasks", cbTodayTasks)),
		m.Row(m.Data("📊 Report", cbReport), m.Data("🚚 Drivers", cbDrivers)),
		m.Row(m.Data("🆘 Help", cbHelp)),
	)
	return m
}

func reportMenu() *tele.ReplyMarkup {
	m := &tele.ReplyMarkup{}
	m.Inline(
		m.Row(m.Data("📄 PDF report", cbGeneratePDF), m.Data("⚠️ Urgent", cbUrgentList)),
	)
	return m
}

func orderMenu(orderID int64) *tele.ReplyMarkup {
	id := strconv.FormatInt(orderID, 10)
	m := &tele.ReplyMarkup{}
	m.Inline(
		m.Row(m.Data("📋 Tasks", cbOrderTasks, id), m.Data("📦 Containers", cbOrderContainers, id)),
		m.Row(m.Data("🔄 Refresh", cbOrderRefresh, id)),
	)
	return m
}
