package bot

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	tele "gopkg.in/telebot.v3"

	"github.com/MargianaLogistics/CargoBot/internal/backend"
	"github.com/MargianaLogistics/CargoBot/internal/datefmt"
	"github.com/MargianaLogistics/CargoBot/internal/models"
	"github.com/MargianaLogistics/CargoBot/internal/services/report"
	"github.com/MargianaLogistics/CargoBot/internal/urgency"
)

const orderUsageText = "Specify an order number. Example: /order MRG-1001"

func activeStatuses() []string {
	var out []string
	for _, s := range models.OrderStatuses() {
		if !models.IsTerminalStatus(s) {
			out = append(out, s)
		}
	}
	return out
}

func (b *Bot) handleStart(c tele.Context) error {
	chatID := c.Chat().ID
	if b.subs.Add(chatID) {
		slog.Info("new subscriber", "chat_id", chatID)
	}
	var name string
	if c.Sender() != nil {
		name = c.Sender().FirstName
	}
	return c.Send(welcomeText(name), mainMenu())
}

func (b *Bot) handleHelp(c tele.Context) error {
	return c.Send(helpText())
}

func (b *Bot) handleContacts(c tele.Context) error {
	return c.Send(contactsText())
}

func (b *Bot) handleAbout(c tele.Context) error {
	return c.Send(aboutText())
}

func (b *Bot) handleOrders(c tele.Context) error {
	orders, err := b.client.Orders(context.Background(), backend.Query{
		Filters: []backend.Filter{
			{Column: backend.ColStatus, Op: backend.OpIn, Values: activeStatuses()},
		},
		OrderBy: backend.ColCreationDate,
		Desc:    true,
	})
	if err != nil {
		return b.failQuery(c, "query active orders", err)
	}
	return c.Send(ordersListText(orders, time.Now(), b.loc, b.threshold), reportMenu())
}

func (b *Bot) handleOrderDetail(c tele.Context) error {
	number := strings.ToUpper(strings.TrimSpace(c.Message().Payload))
	if number == "" {
		return c.Send(orderUsageText)
	}

	orders, err := b.client.Orders(context.Background(), backend.Query{
		Filters: []backend.Filter{
			{Column: backend.ColOrderNumber, Op: backend.OpEq, Value: number},
		},
	})
	if err != nil {
		return b.failQuery(c, "query order by number", err)
	}
	if len(orders) == 0 {
		return c.Send(fmt.Sprintf("Order %s not found.", number))
	}
	return b.sendOrderDetail(c, orders[0])
}

func (b *Bot) sendOrderDetail(c tele.Context, o models.Order) error {
	ctx := context.Background()
	id := strconv.FormatInt(o.ID, 10)

	containers, err := b.client.Containers(ctx, backend.Query{
		Filters: []backend.Filter{
			{Column: backend.ColOrderID, Op: backend.OpEq, Value: id},
		},
	})
	if err != nil {
		return b.failQuery(c, "query order containers", err)
	}

	tasks, err := b.client.Tasks(ctx, backend.Query{
		Filters: []backend.Filter{
			{Column: backend.ColOrderID, Op: backend.OpEq, Value: id},
		},
		OrderBy: backend.ColDueDate,
	})
	if err != nil {
		return b.failQuery(c, "query order tasks", err)
	}

	return c.Send(orderDetailText(o, containers, tasks, b.loc), orderMenu(o.ID))
}

func (b *Bot) handleStatusFilter(c tele.Context) error {
	status := strings.ToUpper(strings.TrimSpace(c.Message().Payload))
	if status == "" || !containsStr(models.OrderStatuses(), status) {
		return c.Send(statusUsageText())
	}

	orders, err := b.client.Orders(context.Background(), backend.Query{
		Filters: []backend.Filter{
			{Column: backend.ColStatus, Op: backend.OpEq, Value: status},
		},
		OrderBy: backend.ColCreationDate,
		Desc:    true,
	})
	if err != nil {
		return b.failQuery(c, "query orders by status", err)
	}
	return c.Send(statusListText(status, orders, b.loc))
}

func (b *Bot) handleToday(c tele.Context) error {
	now := time.Now()
	y, m, d := now.In(b.loc).Date()
	endOfDay := time.Date(y, m, d, 23, 59, 59, 0, b.loc).UTC().Format("2006-01-02T15:04:05")

	tasks, err := b.client.Tasks(context.Background(), backend.Query{
		Filters: []backend.Filter{
			{Column: backend.ColDueDate, Op: backend.OpLte, Value: endOfDay},
		},
		OrderBy: backend.ColDueDate,
	})
	if err != nil {
		return b.failQuery(c, "query today tasks", err)
	}

	// Непарсибельный срок считаем сегодняшним, не просроченным.
	var overdue, today []models.Task
	for _, t := range tasks {
		if days, ok := datefmt.DaysUntil(t.DueDate, now, b.loc); ok && days < 0 {
			overdue = append(overdue, t)
			continue
		}
		today = append(today, t)
	}
	return c.Send(todayTasksText(overdue, today))
}

func (b *Bot) handleContainers(c tele.Context) error {
	ctx := context.Background()

	containers, err := b.client.Containers(ctx, backend.Query{
		Filters: []backend.Filter{
			{Column: backend.ColArrivalDestination, Op: backend.OpIsNull},
		},
	})
	if err != nil {
		return b.failQuery(c, "query containers in transit", err)
	}
	if len(containers) == 0 {
		return c.Send(containersText(nil))
	}

	orders, err := b.client.Orders(ctx, backend.Query{})
	if err != nil {
		return b.failQuery(c, "query orders for grouping", err)
	}
	statusByOrder := make(map[int64]string, len(orders))
	for _, o := range orders {
		statusByOrder[o.ID] = o.Status
	}

	return c.Send(containersText(groupContainersByOrderStatus(containers, statusByOrder)))
}

func (b *Bot) handleDrivers(c tele.Context) error {
	containers, err := b.client.Containers(context.Background(), backend.Query{})
	if err != nil {
		return b.failQuery(c, "query containers for drivers", err)
	}
	return c.Send(driversText(buildDrivers(containers)))
}

func (b *Bot) handleReport(c tele.Context) error {
	ctx := context.Background()

	if b.cache != nil {
		text, ok, err := b.cache.Get(ctx, b.reportKey)
		if err != nil {
			slog.Warn("report cache get", "error", err.Error())
		} else if ok {
			return c.Send(string(text), reportMenu())
		}
	}

	orders, containers, tasks, err := b.fullSnapshot(ctx)
	if err != nil {
		return b.failQuery(c, "query report snapshot", err)
	}

	text := report.Build(orders, containers, tasks, time.Now(), b.loc, b.threshold).Text()

	if b.cache != nil {
		if err := b.cache.Set(ctx, b.reportKey, []byte(text), b.reportTTL); err != nil {
			slog.Warn("report cache set", "error", err.Error())
		}
	}
	return c.Send(text, reportMenu())
}

func (b *Bot) handleReportPDF(c tele.Context) error {
	if err := c.Send(generatingPDFText); err != nil {
		return err
	}

	orders, containers, tasks, err := b.fullSnapshot(context.Background())
	if err != nil {
		return b.failQuery(c, "query pdf snapshot", err)
	}

	now := time.Now()
	summary := report.Build(orders, containers, tasks, now, b.loc, b.threshold)

	var active []models.Order
	for _, o := range orders {
		if !models.IsTerminalStatus(o.Status) {
			active = append(active, o)
		}
	}

	f, err := os.CreateTemp("", "margiana_report_*.pdf")
	if err != nil {
		slog.Error("create pdf temp file", "error", err.Error())
		return c.Send(pdfFailedText)
	}
	path := f.Name()
	defer os.Remove(path)

	if err := report.WritePDF(f, summary, active); err != nil {
		f.Close()
		slog.Error("render pdf report", "error", err.Error())
		return c.Send(pdfFailedText)
	}
	if err := f.Close(); err != nil {
		slog.Error("close pdf temp file", "error", err.Error())
		return c.Send(pdfFailedText)
	}

	doc := &tele.Document{
		File:     tele.FromDisk(path),
		FileName: fmt.Sprintf("Margiana_Report_%s.pdf", now.In(b.loc).Format("20060102")),
		Caption:  "📄 Margiana Logistic Services report",
	}
	return c.Send(doc)
}

// fullSnapshot читает все три коллекции целиком для отчётов.
func (b *Bot) fullSnapshot(ctx context.Context) ([]models.Order, []models.Container, []models.Task, error) {
	orders, err := b.client.Orders(ctx, backend.Query{})
	if err != nil {
		return nil, nil, nil, err
	}
	containers, err := b.client.Containers(ctx, backend.Query{})
	if err != nil {
		return nil, nil, nil, err
	}
	tasks, err := b.client.Tasks(ctx, backend.Query{})
	if err != nil {
		return nil, nil, nil, err
	}
	return orders, containers, tasks, nil
}

func (b *Bot) handleCompleted30(c tele.Context) error {
	since := time.Now().UTC().AddDate(0, 0, -30).Format("2006-01-02T15:04:05")

	orders, err := b.client.Orders(context.Background(), backend.Query{
		Filters: []backend.Filter{
			{Column: backend.ColStatus, Op: backend.OpEq, Value: models.OrderStatusCompleted},
			{Column: backend.ColCreationDate, Op: backend.OpGte, Value: since},
		},
		OrderBy: backend.ColCreationDate,
		Desc:    true,
	})
	if err != nil {
		return b.failQuery(c, "query completed orders", err)
	}
	return c.Send(completedText(orders, b.loc))
}

func (b *Bot) handleNoPhotos(c tele.Context) error {
	return b.flaggedOrders(c, backend.ColHasLoadingPhoto,
		"📸 ORDERS MISSING LOADING PHOTO", "✅ Every active order has a loading photo!")
}

func (b *Bot) handleNoLocalCharges(c tele.Context) error {
	return b.flaggedOrders(c, backend.ColHasLocalCharges,
		"💰 ORDERS MISSING LOCAL CHARGES", "✅ Every active order has local charges set!")
}

func (b *Bot) handleNoCustomsDoc(c tele.Context) error {
	return b.flaggedOrders(c, backend.ColHasCustomsDoc,
		"🛃 ORDERS MISSING CUSTOMS DOC", "✅ Every active order has the customs document!")
}

func (b *Bot) flaggedOrders(c tele.Context, column, title, emptyText string) error {
	orders, err := b.client.Orders(context.Background(), backend.Query{
		Filters: []backend.Filter{
			{Column: column, Op: backend.OpEq, Value: "false"},
			{Column: backend.ColStatus, Op: backend.OpNeq, Value: models.OrderStatusCompleted},
		},
		OrderBy: backend.ColCreationDate,
		Desc:    true,
	})
	if err != nil {
		return b.failQuery(c, "query flagged orders", err)
	}
	return c.Send(flaggedListText(title, emptyText, orders, b.loc))
}

func (b *Bot) handleUrgent(c tele.Context) error {
	orders, err := b.client.Orders(context.Background(), backend.Query{
		Filters: []backend.Filter{
			{Column: backend.ColStatus, Op: backend.OpNeq, Value: models.OrderStatusCompleted},
			{Column: backend.ColStatus, Op: backend.OpNeq, Value: models.OrderStatusCancelled},
			{Column: backend.ColETADate, Op: backend.OpNotNull},
		},
	})
	if err != nil {
		return b.failQuery(c, "query urgent orders", err)
	}

	groups := urgency.Classify(urgency.FromOrders(orders), time.Now(), b.loc, b.threshold)
	return c.Send(urgentText(groups.Upcoming(), b.threshold))
}

func (b *Bot) handleDelayed(c tele.Context) error {
	tasks, err := b.client.Tasks(context.Background(), backend.Query{
		Filters: []backend.Filter{
			{Column: backend.ColStatus, Op: backend.OpNeq, Value: models.TaskStatusCompleted},
			{Column: backend.ColDueDate, Op: backend.OpNotNull},
		},
		OrderBy: backend.ColDueDate,
	})
	if err != nil {
		return b.failQuery(c, "query delayed tasks", err)
	}

	now := time.Now()
	var overdue []overdueTask
	for _, t := range tasks {
		if days, ok := datefmt.DaysUntil(t.DueDate, now, b.loc); ok && days < 0 {
			overdue = append(overdue, overdueTask{Task: t, DaysOver: -days})
		}
	}
	sort.SliceStable(overdue, func(i, j int) bool {
		return overdue[i].DaysOver > overdue[j].DaysOver
	})
	return c.Send(delayedText(overdue))
}

func (b *Bot) handleSubscribe(c tele.Context) error {
	chatID := c.Chat().ID
	if b.subs.Add(chatID) {
		slog.Info("new subscriber", "chat_id", chatID)
		return c.Send(subscribedText)
	}
	return c.Send(alreadySubscribedText)
}

func (b *Bot) handleUnsubscribe(c tele.Context) error {
	chatID := c.Chat().ID
	if b.subs.Remove(chatID) {
		slog.Info("unsubscribed", "chat_id", chatID)
		return c.Send(unsubscribedText)
	}
	return c.Send(notSubscribedText)
}

func (b *Bot) handleNotifyAll(c tele.Context) error {
	message := strings.TrimSpace(c.Message().Payload)
	if message == "" {
		return c.Send(notifyAllUsageText)
	}

	ctx := context.Background()
	note := broadcastText(message)
	var sent, failed int
	for _, chatID := range b.subs.All() {
		if err := b.out.Send(ctx, chatID, note); err != nil {
			slog.Error("broadcast notification", "chat_id", chatID, "error", err.Error())
			failed++
			continue
		}
		sent++
		time.Sleep(100 * time.Millisecond)
	}
	return c.Send(broadcastResultText(sent, failed))
}

func (b *Bot) handleCheckUpdates(c tele.Context) error {
	if err := c.Send(checkingUpdatesText); err != nil {
		return err
	}
	b.disp.Trigger()
	return c.Send(checkTriggeredText)
}

func (b *Bot) handleStats(c tele.Context) error {
	return c.Send(statsText(
		b.subs.Len(), len(b.admins),
		time.Now(), b.loc, time.Since(b.started),
		b.disp.Stats()))
}

func (b *Bot) handleStatusDB(c tele.Context) error {
	ctx := context.Background()
	if err := b.client.Ping(ctx); err != nil {
		return c.Send(statusDBErrorText(err))
	}
	orders, err := b.client.Orders(ctx, backend.Query{})
	if err != nil {
		return c.Send(statusDBErrorText(err))
	}
	return c.Send(statusDBText(len(orders), time.Now(), b.loc))
}

func (b *Bot) orderByID(ctx context.Context, id string) (models.Order, bool, error) {
	orders, err := b.client.Orders(ctx, backend.Query{
		Filters: []backend.Filter{
			{Column: backend.ColID, Op: backend.OpEq, Value: id},
		},
	})
	if err != nil || len(orders) == 0 {
		return models.Order{}, false, err
	}
	return orders[0], true, nil
}

func (b *Bot) handleOrderTasks(c tele.Context) error {
	ctx := context.Background()
	id := c.Data()

	o, found, err := b.orderByID(ctx, id)
	if err != nil {
		return b.failQuery(c, "query order for tasks", err)
	}
	if !found {
		return c.Send("Order not found.")
	}

	tasks, err := b.client.Tasks(ctx, backend.Query{
		Filters: []backend.Filter{
			{Column: backend.ColOrderID, Op: backend.OpEq, Value: id},
		},
		OrderBy: backend.ColDueDate,
	})
	if err != nil {
		return b.failQuery(c, "query order tasks", err)
	}
	return c.Send(orderTasksText(o.OrderNumber, tasks, b.loc))
}

func (b *Bot) handleOrderContainers(c tele.Context) error {
	ctx := context.Background()
	id := c.Data()

	o, found, err := b.orderByID(ctx, id)
	if err != nil {
		return b.failQuery(c, "query order for containers", err)
	}
	if !found {
		return c.Send("Order not found.")
	}

	containers, err := b.client.Containers(ctx, backend.Query{
		Filters: []backend.Filter{
			{Column: backend.ColOrderID, Op: backend.OpEq, Value: id},
		},
	})
	if err != nil {
		return b.failQuery(c, "query order containers", err)
	}
	return c.Send(orderContainersText(o.OrderNumber, containers, b.loc))
}

func (b *Bot) handleOrderRefresh(c tele.Context) error {
	o, found, err := b.orderByID(context.Background(), c.Data())
	if err != nil {
		return b.failQuery(c, "query order for refresh", err)
	}
	if !found {
		return c.Send("Order not found.")
	}
	return b.sendOrderDetail(c, o)
}
