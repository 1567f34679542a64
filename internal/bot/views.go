package bot

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/MargianaLogistics/CargoBot/internal/datefmt"
	"github.com/MargianaLogistics/CargoBot/internal/models"
	"github.com/MargianaLogistics/CargoBot/internal/services/dispatcher"
	"github.com/MargianaLogistics/CargoBot/internal/urgency"
)

// Лимиты строк в списках. Телеграм режет длинные сообщения, поэтому
// всё, что не влезло, сворачивается в «... and N more».
const (
	maxOrderRows   = 15
	maxStatusRows  = 10
	maxOverdueRows = 5
	maxTodayRows   = 10
	maxGroupRows   = 3
	maxDriverRows  = 15
	maxFlaggedRows = 10
	maxUrgentRows  = 10
	maxDetailTasks = 3
	maxOrderLists  = 10
)

func welcomeText(firstName string) string {
	name := firstName
	if name == "" {
		name = "there"
	}
	return fmt.Sprintf(`👋 Hi, %s!

🤖 I am the Margiana Logistic Services cargo tracking bot.

📊 MAIN COMMANDS:

📦 Information:
/orders - active orders
/order [number] - order details
/status [status] - orders by status
/today - today's tasks
/containers - containers in transit
/drivers - active drivers

📈 Reports:
/report - summary report
/report_pdf - PDF report
/completed_30 - completed in 30 days
/no_photos - missing loading photo
/urgent - urgent orders (ETA within 3 days)

🔔 Notifications:
/subscribe - subscribe to notifications
/unsubscribe - unsubscribe

🆘 Help:
/help - all commands
/contacts - company contacts`, name)
}

func helpText() string {
	return `📋 ALL COMMANDS:

📦 Orders:
/orders - active orders
/order [number] - order details (example: /order MRG-1001)
/status [status] - orders by status
/today - today's tasks
/containers - containers in transit
/drivers - active drivers

📈 Reports and filters:
/report - summary report
/report_pdf - PDF report (letterhead style)
/completed_30 - completed in the last 30 days
/no_photos - orders missing the loading photo
/no_local_charges - missing local charges
/no_tex - missing the customs document
/urgent - urgent orders (ETA within 3 days)
/delayed - overdue tasks

🔔 Notifications:
/subscribe - subscribe to notifications
/unsubscribe - unsubscribe
/notify_all - broadcast to subscribers (admin)

🏢 Company:
/contacts - contacts
/about - about the company

🔄 System (admin):
/check_updates - trigger an update check
/stats - bot statistics
/status_db - backend connection status`
}

func contactsText() string {
	return `🏢 Margiana Logistic Services

📍 Address:
Turkmenistan, Ashgabat

📞 Phones:
+993 61 55 77 79 (manager)
+993 65 95 77 79 (logistics)

📧 Email:
perman@margianalogistics.com
info@margianalogistics.com

🌐 Website:
margianalogistics.com

🕒 Working hours:
Mon-Fri: 9:00-18:00
Sat: 10:00-15:00`
}

func aboutText() string {
	return `🏢 Margiana Logistic Services

Freight forwarding across the China - Iran - Turkmenistan corridor:
sea freight, transit customs clearance and last-mile truck delivery.

🚢 Sea and land container transport
🛃 Customs brokerage at the transit hub
🚛 Own truck fleet for final delivery

📅 On the market since 2015
🌐 margianalogistics.com`
}

// etaDecorated — срок прибытия с пометкой срочности для списков.
func etaDecorated(raw string, now time.Time, loc *time.Location, threshold int) string {
	if raw == "" {
		return datefmt.NotSet
	}
	days, ok := datefmt.DaysUntil(raw, now, loc)
	if !ok {
		return clip(raw, 10)
	}
	switch {
	case days < 0:
		return fmt.Sprintf("⏰ overdue %d days", -days)
	case days == 0:
		return "⏰ today!"
	case days <= threshold:
		return fmt.Sprintf("⚠️ in %d days", days)
	}
	t, _ := datefmt.ParseTimestamp(raw, loc)
	return t.Format("02.01")
}

func ordersListText(orders []models.Order, now time.Time, loc *time.Location, threshold int) string {
	if len(orders) == 0 {
		return "📭 No active orders."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🚚 ACTIVE ORDERS (%d)\n\n", len(orders))

	shown := orders
	if len(shown) > maxOrderRows {
		shown = shown[:maxOrderRows]
	}
	for i, o := range shown {
		fmt.Fprintf(&b, "%d. %s %s\n", i+1, models.StatusGlyph(o.Status), o.OrderNumber)
		fmt.Fprintf(&b, "   👤 %s\n", clip(o.ClientName, 20))
		fmt.Fprintf(&b, "   📍 %s\n", models.StatusLabel(o.Status))
		fmt.Fprintf(&b, "   📅 ETA: %s\n\n", etaDecorated(o.ETADate, now, loc, threshold))
	}
	if len(orders) > maxOrderRows {
		fmt.Fprintf(&b, "... and %d more orders.", len(orders)-maxOrderRows)
	}
	return strings.TrimRight(b.String(), "\n")
}

func flagMark(ok bool, label string) string {
	if ok {
		return "✅ " + label
	}
	return "❌ " + label
}

func orderDetailText(o models.Order, containers []models.Container, tasks []models.Task, loc *time.Location) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s ORDER %s\n\n", models.StatusGlyph(o.Status), o.OrderNumber)
	fmt.Fprintf(&b, "👤 Client: %s\n", o.ClientName)
	fmt.Fprintf(&b, "📍 Status: %s\n", models.StatusLabel(o.Status))
	fmt.Fprintf(&b, "📦 Goods: %s\n", orDash(o.GoodsType))
	fmt.Fprintf(&b, "🛣 Route: %s\n", orDash(o.Route))
	fmt.Fprintf(&b, "📅 Created: %s\n", datefmt.FormatDate(o.CreationDate, loc))

	var dates []string
	if o.ETADate != "" {
		dates = append(dates, "⏰ ETA: "+datefmt.FormatDate(o.ETADate, loc))
	}
	if o.DepartureDate != "" {
		dates = append(dates, "🚢 Departed: "+datefmt.FormatDate(o.DepartureDate, loc))
	}
	if o.ArrivalIntermediateDate != "" {
		dates = append(dates, "🛃 Arrived at hub: "+datefmt.FormatDate(o.ArrivalIntermediateDate, loc))
	}
	if o.DestinationDate != "" {
		dates = append(dates, "🏁 Arrived at destination: "+datefmt.FormatDate(o.DestinationDate, loc))
	}
	if len(dates) > 0 {
		fmt.Fprintf(&b, "\n%s\n", strings.Join(dates, "\n"))
	}

	fmt.Fprintf(&b, "\n📊 Flags: %s | %s | %s\n",
		flagMark(o.HasLoadingPhoto, "Photo"),
		flagMark(o.HasLocalCharges, "Charges"),
		flagMark(o.HasCustomsDoc, "Customs"))

	if len(containers) > 0 {
		fmt.Fprintf(&b, "\n📦 Containers (%d):\n", len(containers))
		for _, c := range containers {
			fmt.Fprintf(&b, "  • %s (%.0f kg)\n", c.ContainerNumber, c.WeightKg)
		}
	}

	if len(tasks) > 0 {
		fmt.Fprintf(&b, "\n📋 Tasks (%d):\n", len(tasks))
		shown := tasks
		if len(shown) > maxDetailTasks {
			shown = shown[:maxDetailTasks]
		}
		for _, t := range shown {
			fmt.Fprintf(&b, "  %s %s - %s\n",
				models.TaskStatusGlyph(t.Status), clip(t.Description, 30), orUnassigned(t.AssignedTo))
		}
		if len(tasks) > maxDetailTasks {
			fmt.Fprintf(&b, "  ... and %d more\n", len(tasks)-maxDetailTasks)
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

func statusUsageText() string {
	var b strings.Builder
	b.WriteString("Specify a status. Known statuses:\n")
	for _, s := range models.OrderStatuses() {
		fmt.Fprintf(&b, "• %s (%s)\n", s, models.StatusLabel(s))
	}
	b.WriteString("\nExample: /status IN_TRANSIT_ORIGIN_INTERMEDIATE")
	return b.String()
}

func statusListText(status string, orders []models.Order, loc *time.Location) string {
	if len(orders) == 0 {
		return fmt.Sprintf("No orders with status %s.", models.StatusLabel(status))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s ORDERS: %s (%d)\n\n", models.StatusGlyph(status), models.StatusLabel(status), len(orders))

	shown := orders
	if len(shown) > maxStatusRows {
		shown = shown[:maxStatusRows]
	}
	for i, o := range shown {
		fmt.Fprintf(&b, "%d. %s - %s\n", i+1, o.OrderNumber, clip(o.ClientName, 20))
		fmt.Fprintf(&b, "   📅 ETA: %s\n\n", datefmt.FormatDate(o.ETADate, loc))
	}
	if len(orders) > maxStatusRows {
		fmt.Fprintf(&b, "... and %d more orders.", len(orders)-maxStatusRows)
	}
	return strings.TrimRight(b.String(), "\n")
}

func todayTasksText(overdue, today []models.Task) string {
	if len(overdue) == 0 && len(today) == 0 {
		return "✅ No tasks for today!"
	}

	var b strings.Builder
	b.WriteString("📋 TODAY'S TASKS\n\n")

	if len(overdue) > 0 {
		b.WriteString("🔴 OVERDUE:\n")
		shown := overdue
		if len(shown) > maxOverdueRows {
			shown = shown[:maxOverdueRows]
		}
		for _, t := range shown {
			fmt.Fprintf(&b, "• %s: %s\n  👤 %s | %s\n",
				orDash(t.OrderNumber), clip(t.Description, 40), orUnassigned(t.AssignedTo), t.Status)
		}
		b.WriteString("\n")
	}

	if len(today) > 0 {
		b.WriteString("🟡 DUE TODAY:\n")
		shown := today
		if len(shown) > maxTodayRows {
			shown = shown[:maxTodayRows]
		}
		for _, t := range shown {
			fmt.Fprintf(&b, "• %s %s: %s\n  👤 %s\n",
				models.TaskStatusGlyph(t.Status), orDash(t.OrderNumber), clip(t.Description, 40), orUnassigned(t.AssignedTo))
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

// containerGroup — контейнеры в пути, сгруппированные по статусу заказа.
type containerGroup struct {
	Status     string
	Containers []models.Container
}

// groupContainersByOrderStatus раскладывает контейнеры по статусу их
// заказа в порядке жизненного цикла; контейнеры без заказа в "Unknown".
func groupContainersByOrderStatus(containers []models.Container, statusByOrder map[int64]string) []containerGroup {
	byStatus := map[string][]models.Container{}
	for _, c := range containers {
		status, ok := statusByOrder[c.OrderID]
		if !ok {
			status = "Unknown"
		}
		byStatus[status] = append(byStatus[status], c)
	}

	var groups []containerGroup
	for _, status := range models.OrderStatuses() {
		if list, ok := byStatus[status]; ok {
			groups = append(groups, containerGroup{Status: status, Containers: list})
			delete(byStatus, status)
		}
	}
	var rest []string
	for status := range byStatus {
		rest = append(rest, status)
	}
	sort.Strings(rest)
	for _, status := range rest {
		groups = append(groups, containerGroup{Status: status, Containers: byStatus[status]})
	}
	return groups
}

func containersText(groups []containerGroup) string {
	if len(groups) == 0 {
		return "📦 All containers delivered!"
	}

	var b strings.Builder
	b.WriteString("🚛 CONTAINERS IN TRANSIT\n\n")

	for _, g := range groups {
		fmt.Fprintf(&b, "%s %s (%d cont.)\n", models.StatusGlyph(g.Status), models.StatusLabel(g.Status), len(g.Containers))

		shown := g.Containers
		if len(shown) > maxGroupRows {
			shown = shown[:maxGroupRows]
		}
		for _, c := range shown {
			var info []string
			if c.DriverFirstName != "" {
				info = append(info, "🚚 "+c.DriverFirstName)
			}
			if c.TruckNumber != "" {
				info = append(info, "#"+c.TruckNumber)
			}
			suffix := ""
			if len(info) > 0 {
				suffix = " - " + strings.Join(info, " ")
			}
			fmt.Fprintf(&b, "  • %s (%s)%s\n", c.ContainerNumber, orDash(c.OrderNumber), suffix)
		}
		if len(g.Containers) > maxGroupRows {
			fmt.Fprintf(&b, "  ... and %d more\n", len(g.Containers)-maxGroupRows)
		}
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n")
}

// driverInfo — сводка по одному водителю, собранная из контейнеров.
type driverInfo struct {
	Name    string
	Company string
	Truck   string
	Phone   string
	Orders  []string
}

// buildDrivers дедуплицирует водителей по имени и собирает их заказы.
// Порядок — по первому появлению в выборке.
func buildDrivers(containers []models.Container) []driverInfo {
	index := map[string]int{}
	var drivers []driverInfo
	for _, c := range containers {
		name := c.DriverFullName()
		if name == "" {
			continue
		}
		i, ok := index[name]
		if !ok {
			i = len(drivers)
			index[name] = i
			drivers = append(drivers, driverInfo{
				Name:    name,
				Company: c.DriverCompany,
				Truck:   c.TruckNumber,
				Phone:   c.DriverPhone,
			})
		}
		if c.OrderNumber != "" && !containsStr(drivers[i].Orders, c.OrderNumber) {
			drivers[i].Orders = append(drivers[i].Orders, c.OrderNumber)
		}
	}
	return drivers
}

func driversText(drivers []driverInfo) string {
	if len(drivers) == 0 {
		return "👤 No driver information available."
	}

	var b strings.Builder
	b.WriteString("👨‍✈️ ACTIVE DRIVERS\n\n")

	shown := drivers
	if len(shown) > maxDriverRows {
		shown = shown[:maxDriverRows]
	}
	for i, d := range shown {
		fmt.Fprintf(&b, "%d. %s\n", i+1, d.Name)
		fmt.Fprintf(&b, "   🏢 %s\n", orDash(d.Company))
		fmt.Fprintf(&b, "   🚚 %s\n", orDash(d.Truck))
		fmt.Fprintf(&b, "   📞 %s\n", orDash(d.Phone))
		if len(d.Orders) > 0 {
			orders := d.Orders
			if len(orders) > 2 {
				orders = orders[:2]
			}
			fmt.Fprintf(&b, "   📦 Orders: %s\n", strings.Join(orders, ", "))
		}
		b.WriteString("\n")
	}
	if len(drivers) > maxDriverRows {
		fmt.Fprintf(&b, "👥 Total drivers: %d", len(drivers))
	}
	return strings.TrimRight(b.String(), "\n")
}

func completedText(orders []models.Order, loc *time.Location) string {
	if len(orders) == 0 {
		return "✅ No orders completed in the last 30 days."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "✅ COMPLETED ORDERS (30 DAYS) - %d\n\n", len(orders))

	totalContainers := 0
	for _, o := range orders {
		totalContainers += o.ContainerCount
	}

	shown := orders
	if len(shown) > maxFlaggedRows {
		shown = shown[:maxFlaggedRows]
	}
	for i, o := range shown {
		fmt.Fprintf(&b, "%d. %s - %s\n", i+1, o.OrderNumber, clip(o.ClientName, 20))
		fmt.Fprintf(&b, "   📦 Containers: %d\n", o.ContainerCount)
		fmt.Fprintf(&b, "   📅 Created: %s\n\n", datefmt.FormatDate(o.CreationDate, loc))
	}
	if len(orders) > maxFlaggedRows {
		fmt.Fprintf(&b, "... and %d more orders.\n", len(orders)-maxFlaggedRows)
	}

	fmt.Fprintf(&b, "\n📊 TOTAL: %d orders, %d containers", len(orders), totalContainers)
	return b.String()
}

// flaggedListText — общий рендер для трёх команд «нет отметки».
func flaggedListText(title, emptyText string, orders []models.Order, loc *time.Location) string {
	if len(orders) == 0 {
		return emptyText
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s (%d)\n\n", title, len(orders))

	shown := orders
	if len(shown) > maxFlaggedRows {
		shown = shown[:maxFlaggedRows]
	}
	for i, o := range shown {
		fmt.Fprintf(&b, "%d. %s - %s\n", i+1, o.OrderNumber, clip(o.ClientName, 20))
		fmt.Fprintf(&b, "   📍 %s | 📅 ETA: %s\n\n", models.StatusLabel(o.Status), datefmt.FormatDate(o.ETADate, loc))
	}
	if len(orders) > maxFlaggedRows {
		fmt.Fprintf(&b, "... and %d more orders.", len(orders)-maxFlaggedRows)
	}
	return strings.TrimRight(b.String(), "\n")
}

func urgentText(scored []urgency.Scored, threshold int) string {
	if len(scored) == 0 {
		return fmt.Sprintf("✅ No urgent orders (ETA within %d days).", threshold)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "⚠️ URGENT ORDERS (ETA within %d days) - %d\n\n", threshold, len(scored))

	shown := scored
	if len(shown) > maxUrgentRows {
		shown = shown[:maxUrgentRows]
	}
	for i, s := range shown {
		var when string
		switch s.DaysLeft {
		case 0:
			when = "⏰ TODAY!"
		case 1:
			when = "⚠️ TOMORROW!"
		default:
			when = fmt.Sprintf("in %d days", s.DaysLeft)
		}
		fmt.Fprintf(&b, "%d. %s - %s\n", i+1, s.Ref, clip(s.Note, 20))
		fmt.Fprintf(&b, "   📍 %s | %s\n\n", models.StatusLabel(s.Status), when)
	}
	if len(scored) > maxUrgentRows {
		fmt.Fprintf(&b, "... and %d more orders.", len(scored)-maxUrgentRows)
	}
	return strings.TrimRight(b.String(), "\n")
}

// overdueTask — просроченная задача с числом дней просрочки.
type overdueTask struct {
	models.Task
	DaysOver int
}

func delayedText(tasks []overdueTask) string {
	if len(tasks) == 0 {
		return "✅ No overdue tasks."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🔴 OVERDUE TASKS (%d)\n\n", len(tasks))

	shown := tasks
	if len(shown) > maxFlaggedRows {
		shown = shown[:maxFlaggedRows]
	}
	for i, t := range shown {
		fmt.Fprintf(&b, "%d. %s (%s)\n", i+1, clip(t.Description, 40), orDash(t.OrderNumber))
		fmt.Fprintf(&b, "   👤 %s | overdue %d days\n\n", orUnassigned(t.AssignedTo), t.DaysOver)
	}
	if len(tasks) > maxFlaggedRows {
		fmt.Fprintf(&b, "... and %d more tasks.", len(tasks)-maxFlaggedRows)
	}
	return strings.TrimRight(b.String(), "\n")
}

func orderTasksText(orderNumber string, tasks []models.Task, loc *time.Location) string {
	if len(tasks) == 0 {
		return fmt.Sprintf("📋 Order %s has no tasks.", orderNumber)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📋 TASKS FOR %s (%d)\n\n", orderNumber, len(tasks))

	shown := tasks
	if len(shown) > maxOrderLists {
		shown = shown[:maxOrderLists]
	}
	for _, t := range shown {
		fmt.Fprintf(&b, "%s %s\n   👤 %s | 📅 %s\n\n",
			models.TaskStatusGlyph(t.Status), clip(t.Description, 40),
			orUnassigned(t.AssignedTo), datefmt.FormatDate(t.DueDate, loc))
	}
	if len(tasks) > maxOrderLists {
		fmt.Fprintf(&b, "... and %d more tasks.", len(tasks)-maxOrderLists)
	}
	return strings.TrimRight(b.String(), "\n")
}

func orderContainersText(orderNumber string, containers []models.Container, loc *time.Location) string {
	if len(containers) == 0 {
		return fmt.Sprintf("📦 Order %s has no containers.", orderNumber)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📦 CONTAINERS FOR %s (%d)\n\n", orderNumber, len(containers))

	shown := containers
	if len(shown) > maxOrderLists {
		shown = shown[:maxOrderLists]
	}
	for _, c := range shown {
		fmt.Fprintf(&b, "• %s (%.0f kg)\n", c.ContainerNumber, c.WeightKg)
		if name := c.DriverFullName(); name != "" {
			fmt.Fprintf(&b, "  🚚 %s %s\n", name, orDash(c.TruckNumber))
		}
		if c.Delivered() {
			fmt.Fprintf(&b, "  ✅ Received: %s\n", datefmt.FormatDate(c.ClientReceivingDate, loc))
		} else if c.ArrivalDestinationDate != "" {
			fmt.Fprintf(&b, "  🏁 Arrived: %s\n", datefmt.FormatDate(c.ArrivalDestinationDate, loc))
		} else {
			fmt.Fprintf(&b, "  🚛 In transit\n")
		}
		b.WriteString("\n")
	}
	if len(containers) > maxOrderLists {
		fmt.Fprintf(&b, "... and %d more containers.", len(containers)-maxOrderLists)
	}
	return strings.TrimRight(b.String(), "\n")
}

const (
	subscribedText = `✅ You are subscribed to notifications!

You will now receive:
• order status changes
• container arrivals
• ETA warnings
• important updates`
	alreadySubscribedText = "✅ You are already subscribed to notifications."
	unsubscribedText      = "✅ You are unsubscribed from notifications."
	notSubscribedText     = "ℹ️ You were not subscribed to notifications."
	adminOnlyText         = "❌ This command is for administrators only."
	notifyAllUsageText    = "Specify a message to send. Example: /notify_all Important message"
	checkingUpdatesText   = "🔍 Checking the database for updates..."
	checkTriggeredText    = "✅ Update check triggered."
	queryFailedText       = "❌ Failed to query the office backend. Try again later."
	generatingPDFText     = "📄 Generating the PDF report... This may take a few seconds."
	pdfFailedText         = "❌ Failed to generate the PDF report."
)

func broadcastText(message string) string {
	return "📢 IMPORTANT NOTICE\n\n" + message
}

func broadcastResultText(sent, failed int) string {
	return fmt.Sprintf("✅ Notification sent:\n• delivered: %d\n• failed: %d", sent, failed)
}

func statsText(subscribers, admins int, now time.Time, loc *time.Location, uptime time.Duration, st dispatcher.Stats) string {
	var b strings.Builder
	b.WriteString("📊 BOT STATISTICS\n\n")

	b.WriteString("👥 Users:\n")
	fmt.Fprintf(&b, "• Subscribers: %d\n", subscribers)
	fmt.Fprintf(&b, "• Administrators: %d\n\n", admins)

	b.WriteString("⏰ Runtime:\n")
	fmt.Fprintf(&b, "• Current time: %s\n", now.In(loc).Format("15:04:05"))
	fmt.Fprintf(&b, "• Time zone: %s\n", loc.String())
	fmt.Fprintf(&b, "• Uptime: %s\n\n", uptime.Round(time.Second))

	b.WriteString("🔄 Dispatcher:\n")
	fmt.Fprintf(&b, "• Cycles: %d\n", st.TotalCycles)
	fmt.Fprintf(&b, "• Changed records seen: %d\n", st.TotalChanged)
	fmt.Fprintf(&b, "• Reminders composed: %d\n", st.TotalReminders)
	fmt.Fprintf(&b, "• Notifications delivered: %d\n", st.TotalDelivered)
	fmt.Fprintf(&b, "• Delivery errors: %d\n", st.TotalErrors)
	fmt.Fprintf(&b, "• Watermark: %s\n", st.Watermark.In(loc).Format("02.01.2006 15:04:05"))
	if st.LastCycleAt != nil {
		fmt.Fprintf(&b, "• Last cycle: %s\n", st.LastCycleAt.In(loc).Format("15:04:05"))
	}
	if st.LastError != "" {
		fmt.Fprintf(&b, "• Last error: %s\n", st.LastError)
	}
	return strings.TrimRight(b.String(), "\n")
}

func statusDBText(orderCount int, now time.Time, loc *time.Location) string {
	var b strings.Builder
	b.WriteString("✅ DATABASE CONNECTION\n\n")
	b.WriteString("🟢 Status: ACTIVE\n")
	fmt.Fprintf(&b, "• Orders in database: %d\n", orderCount)
	fmt.Fprintf(&b, "• Checked at: %s\n\n", now.In(loc).Format("15:04:05"))

	b.WriteString("📊 Tables:\n")
	b.WriteString("• cloud_orders: ✅\n")
	b.WriteString("• cloud_containers: ✅\n")
	b.WriteString("• cloud_tasks: ✅")
	return b.String()
}

func statusDBErrorText(err error) string {
	return "❌ DATABASE CONNECTION ERROR\n\n" + err.Error()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func orUnassigned(s string) string {
	if s == "" {
		return "Unassigned"
	}
	return s
}

func containsStr(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
