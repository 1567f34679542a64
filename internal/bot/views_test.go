package bot

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/MargianaLogistics/CargoBot/internal/models"
	"github.com/MargianaLogistics/CargoBot/internal/services/dispatcher"
	"github.com/MargianaLogistics/CargoBot/internal/urgency"
)

func TestEtaDecorated(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	require.Equal(t, "not set", etaDecorated("", now, time.UTC, 3))
	require.Equal(t, "⏰ today!", etaDecorated("2026-03-10", now, time.UTC, 3))
	require.Equal(t, "⚠️ in 2 days", etaDecorated("2026-03-12", now, time.UTC, 3))
	require.Equal(t, "⏰ overdue 4 days", etaDecorated("2026-03-06", now, time.UTC, 3))
	require.Equal(t, "25.03", etaDecorated("2026-03-25T08:00:00", now, time.UTC, 3))
	require.Equal(t, "mystery-da", etaDecorated("mystery-date-string", now, time.UTC, 3))
}

func TestOrdersListText_capsAndCounts(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	var orders []models.Order
	for i := 0; i < 20; i++ {
		orders = append(orders, models.Order{
			OrderNumber: fmt.Sprintf("MRG-10%02d", i),
			ClientName:  "Client",
			Status:      models.OrderStatusNew,
			ETADate:     "2026-04-01",
		})
	}

	text := ordersListText(orders, now, time.UTC, 3)
	require.Contains(t, text, "🚚 ACTIVE ORDERS (20)")
	require.Contains(t, text, "15. 🆕 MRG-1014")
	require.NotContains(t, text, "MRG-1015")
	require.Contains(t, text, "... and 5 more orders.")
}

func TestOrdersListText_empty(t *testing.T) {
	require.Equal(t, "📭 No active orders.", ordersListText(nil, time.Now(), time.UTC, 3))
}

func TestOrderDetailText(t *testing.T) {
	o := models.Order{
		OrderNumber:             "MRG-1001",
		ClientName:              "Altyn Asyr HJ",
		Status:                  models.OrderStatusInProgressHub,
		GoodsType:               "Electronics",
		Route:                   "Guangzhou - Ashgabat",
		CreationDate:            "2026-02-01T09:00:00",
		ETADate:                 "2026-03-15",
		DepartureDate:           "2026-02-10T00:00:00",
		ArrivalIntermediateDate: "2026-03-01T00:00:00",
		HasLoadingPhoto:         true,
	}
	containers := []models.Container{
		{ContainerNumber: "TCKU1234567", WeightKg: 24000},
	}
	tasks := []models.Task{
		{Description: "Customs declaration", AssignedTo: "Merdan", Status: models.TaskStatusTodo},
		{Description: "Arrange trucking", Status: models.TaskStatusInProgress},
		{Description: "Invoice client", AssignedTo: "Aýna", Status: models.TaskStatusCompleted},
		{Description: "Archive documents", Status: models.TaskStatusTodo},
	}

	text := orderDetailText(o, containers, tasks, time.UTC)

	require.Contains(t, text, "🛃 ORDER MRG-1001")
	require.Contains(t, text, "👤 Client: Altyn Asyr HJ")
	require.Contains(t, text, "📦 Goods: Electronics")
	require.Contains(t, text, "📅 Created: 01.02.2026")
	require.Contains(t, text, "⏰ ETA: 15.03.2026")
	require.Contains(t, text, "🚢 Departed: 10.02.2026")
	require.Contains(t, text, "🛃 Arrived at hub: 01.03.2026")
	require.NotContains(t, text, "Arrived at destination")
	require.Contains(t, text, "✅ Photo | ❌ Charges | ❌ Customs")
	require.Contains(t, text, "TCKU1234567 (24000 kg)")
	require.Contains(t, text, "⏳ Customs declaration - Merdan")
	require.Contains(t, text, "🟡 Arrange trucking - Unassigned")
	// Показываются только первые три задачи.
	require.NotContains(t, text, "Archive documents")
	require.Contains(t, text, "... and 1 more")
}

func TestStatusUsageText_listsAllStatuses(t *testing.T) {
	text := statusUsageText()
	for _, s := range models.OrderStatuses() {
		require.Contains(t, text, s)
	}
}

func TestStatusListText(t *testing.T) {
	orders := []models.Order{
		{OrderNumber: "MRG-1001", ClientName: "Altyn", ETADate: "2026-03-15"},
		{OrderNumber: "MRG-1002", ClientName: "Bereket"},
	}
	text := statusListText(models.OrderStatusInTransitToHub, orders, time.UTC)

	require.Contains(t, text, "🚢 ORDERS: In transit to hub (2)")
	require.Contains(t, text, "1. MRG-1001 - Altyn")
	require.Contains(t, text, "📅 ETA: 15.03.2026")
	require.Contains(t, text, "📅 ETA: not set")
}

func TestTodayTasksText_sections(t *testing.T) {
	overdue := []models.Task{
		{OrderNumber: "MRG-1001", Description: "Customs docs", AssignedTo: "Merdan", Status: models.TaskStatusTodo},
	}
	today := []models.Task{
		{OrderNumber: "MRG-1002", Description: "Call driver", Status: models.TaskStatusInProgress},
	}

	text := todayTasksText(overdue, today)
	require.Contains(t, text, "🔴 OVERDUE:")
	require.Contains(t, text, "• MRG-1001: Customs docs")
	require.Contains(t, text, "👤 Merdan | TODO")
	require.Contains(t, text, "🟡 DUE TODAY:")
	require.Contains(t, text, "• 🟡 MRG-1002: Call driver")
	require.Contains(t, text, "👤 Unassigned")

	require.Equal(t, "✅ No tasks for today!", todayTasksText(nil, nil))
}

func TestGroupContainersByOrderStatus(t *testing.T) {
	containers := []models.Container{
		{ID: 1, OrderID: 10, ContainerNumber: "A"},
		{ID: 2, OrderID: 20, ContainerNumber: "B"},
		{ID: 3, OrderID: 10, ContainerNumber: "C"},
		{ID: 4, OrderID: 99, ContainerNumber: "D"},
	}
	statusByOrder := map[int64]string{
		10: models.OrderStatusInTransitToHub,
		20: models.OrderStatusNew,
	}

	groups := groupContainersByOrderStatus(containers, statusByOrder)

	require.Len(t, groups, 3)
	// Порядок — жизненный цикл статусов, затем неизвестные.
	require.Equal(t, models.OrderStatusNew, groups[0].Status)
	require.Equal(t, models.OrderStatusInTransitToHub, groups[1].Status)
	require.Len(t, groups[1].Containers, 2)
	require.Equal(t, "Unknown", groups[2].Status)
}

func TestContainersText_groupCap(t *testing.T) {
	var list []models.Container
	for i := 0; i < 5; i++ {
		list = append(list, models.Container{
			ContainerNumber: fmt.Sprintf("TCKU000000%d", i),
			OrderNumber:     "MRG-1001",
			DriverFirstName: "Merdan",
			TruckNumber:     "AG1234AG",
		})
	}
	groups := []containerGroup{{Status: models.OrderStatusInTransitToFinal, Containers: list}}

	text := containersText(groups)
	require.Contains(t, text, "🚛 Delivery to destination (5 cont.)")
	require.Contains(t, text, "TCKU0000002 (MRG-1001) - 🚚 Merdan #AG1234AG")
	require.NotContains(t, text, "TCKU0000003")
	require.Contains(t, text, "... and 2 more")

	require.Equal(t, "📦 All containers delivered!", containersText(nil))
}

func TestBuildDrivers_dedupes(t *testing.T) {
	containers := []models.Container{
		{DriverFirstName: "Merdan", DriverLastName: "Orazow", DriverCompany: "TransAsia",
			TruckNumber: "AG1234AG", DriverPhone: "+993611111", OrderNumber: "MRG-1001"},
		{DriverFirstName: "Merdan", DriverLastName: "Orazow", OrderNumber: "MRG-1002"},
		{DriverFirstName: "Merdan", DriverLastName: "Orazow", OrderNumber: "MRG-1002"},
		{DriverFirstName: "", DriverLastName: "", OrderNumber: "MRG-1003"},
		{DriverFirstName: "Aman", OrderNumber: "MRG-1003"},
	}

	drivers := buildDrivers(containers)

	require.Len(t, drivers, 2)
	require.Equal(t, "Merdan Orazow", drivers[0].Name)
	require.Equal(t, []string{"MRG-1001", "MRG-1002"}, drivers[0].Orders)
	require.Equal(t, "TransAsia", drivers[0].Company)
	require.Equal(t, "Aman", drivers[1].Name)
}

func TestDriversText(t *testing.T) {
	var drivers []driverInfo
	for i := 0; i < 17; i++ {
		drivers = append(drivers, driverInfo{
			Name:   fmt.Sprintf("Driver %d", i),
			Orders: []string{"MRG-1001", "MRG-1002", "MRG-1003"},
		})
	}

	text := driversText(drivers)
	require.Contains(t, text, "👨‍✈️ ACTIVE DRIVERS")
	require.Contains(t, text, "15. Driver 14")
	require.NotContains(t, text, "Driver 15")
	require.Contains(t, text, "👥 Total drivers: 17")
	// В строке не больше двух заказов.
	require.Contains(t, text, "📦 Orders: MRG-1001, MRG-1002")
	require.NotContains(t, text, "MRG-1003")

	require.Equal(t, "👤 No driver information available.", driversText(nil))
}

func TestCompletedText_sumsAllOrders(t *testing.T) {
	var orders []models.Order
	for i := 0; i < 12; i++ {
		orders = append(orders, models.Order{
			OrderNumber:    fmt.Sprintf("MRG-11%02d", i),
			ClientName:     "Client",
			ContainerCount: 2,
			CreationDate:   "2026-02-15",
		})
	}

	text := completedText(orders, time.UTC)
	require.Contains(t, text, "✅ COMPLETED ORDERS (30 DAYS) - 12")
	require.Contains(t, text, "... and 2 more orders.")
	// Итог считается по всем заказам, не только по показанным.
	require.Contains(t, text, "📊 TOTAL: 12 orders, 24 containers")
}

func TestFlaggedListText(t *testing.T) {
	orders := []models.Order{
		{OrderNumber: "MRG-1001", ClientName: "Altyn", Status: models.OrderStatusNew, ETADate: "2026-03-15"},
	}
	text := flaggedListText("📸 ORDERS MISSING LOADING PHOTO", "✅ all good", orders, time.UTC)

	require.Contains(t, text, "📸 ORDERS MISSING LOADING PHOTO (1)")
	require.Contains(t, text, "📍 New | 📅 ETA: 15.03.2026")

	require.Equal(t, "✅ all good", flaggedListText("t", "✅ all good", nil, time.UTC))
}

func TestUrgentText(t *testing.T) {
	scored := []urgency.Scored{
		{Item: urgency.Item{Ref: "MRG-1001", Note: "Altyn", Status: models.OrderStatusInTransitToFinal}, DaysLeft: 0},
		{Item: urgency.Item{Ref: "MRG-1002", Note: "Bereket", Status: models.OrderStatusInProgressHub}, DaysLeft: 1},
		{Item: urgency.Item{Ref: "MRG-1003", Note: "Miras", Status: models.OrderStatusNew}, DaysLeft: 3},
	}

	text := urgentText(scored, 3)
	require.Contains(t, text, "⚠️ URGENT ORDERS (ETA within 3 days) - 3")
	require.Contains(t, text, "⏰ TODAY!")
	require.Contains(t, text, "⚠️ TOMORROW!")
	require.Contains(t, text, "in 3 days")

	require.Equal(t, "✅ No urgent orders (ETA within 3 days).", urgentText(nil, 3))
}

func TestDelayedText(t *testing.T) {
	tasks := []overdueTask{
		{Task: models.Task{Description: "Customs docs", OrderNumber: "MRG-1001", AssignedTo: "Merdan"}, DaysOver: 3},
	}

	text := delayedText(tasks)
	require.Contains(t, text, "🔴 OVERDUE TASKS (1)")
	require.Contains(t, text, "1. Customs docs (MRG-1001)")
	require.Contains(t, text, "👤 Merdan | overdue 3 days")

	require.Equal(t, "✅ No overdue tasks.", delayedText(nil))
}

func TestStatsText(t *testing.T) {
	loc := time.FixedZone("+05", 5*3600)
	now := time.Date(2026, 3, 10, 7, 0, 0, 0, time.UTC)
	cycleAt := time.Date(2026, 3, 10, 6, 55, 0, 0, time.UTC)
	st := dispatcher.Stats{
		Watermark:      time.Date(2026, 3, 10, 6, 55, 0, 0, time.UTC),
		LastCycleAt:    &cycleAt,
		TotalCycles:    12,
		TotalDelivered: 34,
		TotalErrors:    1,
		LastError:      "chat blocked",
	}

	text := statsText(5, 2, now, loc, 90*time.Minute, st)
	require.Contains(t, text, "• Subscribers: 5")
	require.Contains(t, text, "• Administrators: 2")
	require.Contains(t, text, "• Current time: 12:00:00")
	require.Contains(t, text, "• Uptime: 1h30m0s")
	require.Contains(t, text, "• Cycles: 12")
	require.Contains(t, text, "• Watermark: 10.03.2026 11:55:00")
	require.Contains(t, text, "• Last cycle: 11:55:00")
	require.Contains(t, text, "• Last error: chat blocked")
}

func TestStatusDBText(t *testing.T) {
	now := time.Date(2026, 3, 10, 7, 0, 0, 0, time.UTC)
	text := statusDBText(42, now, time.UTC)

	require.Contains(t, text, "🟢 Status: ACTIVE")
	require.Contains(t, text, "• Orders in database: 42")
	require.Contains(t, text, "• cloud_tasks: ✅")

	require.Contains(t, statusDBErrorText(fmt.Errorf("dial tcp: refused")), "dial tcp: refused")
}

func TestWelcomeAndHelpTexts(t *testing.T) {
	require.Contains(t, welcomeText("Aman"), "👋 Hi, Aman!")
	require.Contains(t, welcomeText(""), "👋 Hi, there!")

	help := helpText()
	for _, cmd := range []string{
		"/orders", "/order", "/status", "/today", "/containers", "/drivers",
		"/report", "/report_pdf", "/completed_30", "/no_photos",
		"/no_local_charges", "/no_tex", "/urgent", "/delayed",
		"/subscribe", "/unsubscribe", "/notify_all",
		"/contacts", "/about", "/check_updates", "/stats", "/status_db",
	} {
		require.Contains(t, help, cmd, "help must mention %s", cmd)
	}
}

func TestBroadcastTexts(t *testing.T) {
	require.True(t, strings.HasPrefix(broadcastText("warehouse closed"), "📢 IMPORTANT NOTICE\n\n"))
	require.Equal(t, "✅ Notification sent:\n• delivered: 3\n• failed: 1", broadcastResultText(3, 1))
}

func TestOrderTasksAndContainersTexts(t *testing.T) {
	tasks := []models.Task{
		{Description: "Customs declaration", AssignedTo: "Merdan", Status: models.TaskStatusTodo, DueDate: "2026-03-12"},
	}
	text := orderTasksText("MRG-1001", tasks, time.UTC)
	require.Contains(t, text, "📋 TASKS FOR MRG-1001 (1)")
	require.Contains(t, text, "⏳ Customs declaration")
	require.Contains(t, text, "📅 12.03.2026")
	require.Equal(t, "📋 Order MRG-1001 has no tasks.", orderTasksText("MRG-1001", nil, time.UTC))

	containers := []models.Container{
		{ContainerNumber: "TCKU1234567", WeightKg: 24000, DriverFirstName: "Merdan", TruckNumber: "AG1234AG"},
		{ContainerNumber: "MSKU7654321", WeightKg: 18000, ClientReceivingDate: "2026-03-01T10:00:00"},
	}
	ctext := orderContainersText("MRG-1001", containers, time.UTC)
	require.Contains(t, ctext, "📦 CONTAINERS FOR MRG-1001 (2)")
	require.Contains(t, ctext, "🚚 Merdan AG1234AG")
	require.Contains(t, ctext, "🚛 In transit")
	require.Contains(t, ctext, "✅ Received: 01.03.2026")
}
