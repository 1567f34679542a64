package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/MargianaLogistics/CargoBot/internal/models"
)

func sampleData() ([]models.Order, []models.Container, []models.Task) {
	orders := []models.Order{
		{ID: 1, OrderNumber: "MRG-1001", ClientName: "Altyn Asyr HJ", Status: models.OrderStatusInTransitToHub,
			ETADate: "2026-03-12", HasLoadingPhoto: true, HasLocalCharges: true, HasCustomsDoc: true},
		{ID: 2, OrderNumber: "MRG-1002", ClientName: "Bereket Söwda", Status: models.OrderStatusNew,
			ETADate: "2026-03-25"},
		{ID: 3, OrderNumber: "MRG-1003", ClientName: "Miras", Status: models.OrderStatusCompleted,
			ETADate: "2026-03-01", HasLoadingPhoto: true, HasLocalCharges: true, HasCustomsDoc: true},
		{ID: 4, OrderNumber: "MRG-1004", ClientName: "Ak Ýol", Status: models.OrderStatusCancelled},
	}
	containers := []models.Container{
		{ID: 1, OrderID: 1, ContainerNumber: "TCKU1234567"},
		{ID: 2, OrderID: 1, ContainerNumber: "MSKU7654321",
			ArrivalDestinationDate: "2026-03-05T09:00:00", ClientReceivingDate: "2026-03-06T10:00:00"},
		{ID: 3, OrderID: 3, ContainerNumber: "FCIU0001112",
			ArrivalDestinationDate: "2026-02-20T09:00:00"},
	}
	tasks := []models.Task{
		{ID: 1, OrderID: 1, Description: "Customs docs", Status: models.TaskStatusTodo, DueDate: "2026-03-08"},
		{ID: 2, OrderID: 1, Description: "Call driver", Status: models.TaskStatusCompleted, DueDate: "2026-03-01"},
		{ID: 3, OrderID: 2, Description: "Book vessel", Status: models.TaskStatusInProgress, DueDate: "2026-03-30"},
	}
	return orders, containers, tasks
}

func TestBuild_counts(t *testing.T) {
	orders, containers, tasks := sampleData()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	s := Build(orders, containers, tasks, now, time.UTC, 3)

	require.Equal(t, 4, s.TotalOrders)
	require.Equal(t, 2, s.ActiveOrders)
	require.Equal(t, 1, s.CompletedOrders)
	require.Equal(t, 1, s.CancelledOrders)
	require.Equal(t, 1, s.StatusCounts[models.OrderStatusInTransitToHub])
	require.Equal(t, 1, s.StatusCounts[models.OrderStatusNew])

	// MRG-1001: ETA через два дня. MRG-1002 за горизонтом, MRG-1003
	// завершён и в срочные не попадает.
	require.Len(t, s.Urgent, 1)
	require.Equal(t, "MRG-1001", s.Urgent[0].Ref)
	require.Equal(t, 2, s.Urgent[0].DaysLeft)

	require.Equal(t, 3, s.TotalTasks)
	require.Equal(t, 1, s.CompletedTasks)
	require.Equal(t, 1, s.OverdueTasks)

	require.Equal(t, 3, s.TotalContainers)
	require.Equal(t, 1, s.ContainersInTransit)
	require.Equal(t, 1, s.ContainersDelivered)

	// Флаги в чатовой сводке считаются по всем заказам.
	require.Equal(t, 2, s.MissingPhoto)
	require.Equal(t, 2, s.MissingLocalCharges)
	require.Equal(t, 2, s.MissingCustomsDoc)
}

func TestBuild_localizesGeneratedAt(t *testing.T) {
	loc := time.FixedZone("+05", 5*3600)
	now := time.Date(2026, 3, 10, 21, 30, 0, 0, time.UTC)

	s := Build(nil, nil, nil, now, loc, 0)

	require.Equal(t, "11.03.2026 02:30", s.GeneratedAt.Format("02.01.2006 15:04"))
	require.Equal(t, 3, s.Threshold)
}

func TestSummary_Text(t *testing.T) {
	orders, containers, tasks := sampleData()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	text := Build(orders, containers, tasks, now, time.UTC, 3).Text()

	require.Contains(t, text, "MARGIANA LOGISTICS SUMMARY")
	require.Contains(t, text, "📅 10.03.2026 12:00")
	require.Contains(t, text, "• Total: 4")
	require.Contains(t, text, "• Active: 2")
	require.Contains(t, text, "• Urgent (ETA within 3 days): 1")
	require.Contains(t, text, "• Overdue: 1")
	require.Contains(t, text, "• In transit: 1")
	require.Contains(t, text, "• No loading photo: 2")
	require.Contains(t, text, "🚢 In transit to hub: 1")
	require.False(t, strings.HasSuffix(text, "\n"))
}

func TestSummary_Text_emptySnapshot(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	text := Build(nil, nil, nil, now, time.UTC, 3).Text()

	require.Contains(t, text, "• Total: 0")
	require.NotContains(t, text, "By status")
}

func TestWritePDF(t *testing.T) {
	orders, containers, tasks := sampleData()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	s := Build(orders, containers, tasks, now, time.UTC, 3)

	var active []models.Order
	for _, o := range orders {
		if !models.IsTerminalStatus(o.Status) {
			active = append(active, o)
		}
	}

	var buf bytes.Buffer
	require.NoError(t, WritePDF(&buf, s, active))
	require.True(t, strings.HasPrefix(buf.String(), "%PDF-"))
	require.Greater(t, buf.Len(), 1000)
}

func TestWritePDF_noActiveOrders(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	s := Build(nil, nil, nil, now, time.UTC, 3)

	var buf bytes.Buffer
	require.NoError(t, WritePDF(&buf, s, nil))
	require.True(t, strings.HasPrefix(buf.String(), "%PDF-"))
}

func TestWritePDF_capsActiveRows(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	var active []models.Order
	for i := 0; i < 25; i++ {
		active = append(active, models.Order{
			OrderNumber: "MRG-2000",
			ClientName:  "Client",
			Status:      models.OrderStatusNew,
			ETADate:     "2026-04-01",
		})
	}
	s := Build(active, nil, nil, now, time.UTC, 3)

	var buf bytes.Buffer
	require.NoError(t, WritePDF(&buf, s, active))
	require.True(t, strings.HasPrefix(buf.String(), "%PDF-"))
}

func TestEtaShort(t *testing.T) {
	require.Equal(t, "-", etaShort("", time.UTC))
	require.Equal(t, "15.03", etaShort("2026-03-15T10:00:00", time.UTC))
	require.Equal(t, "not-a-date", etaShort("not-a-date", time.UTC))
	require.Equal(t, "полностью ", etaShort("полностью непарсибельная строка", time.UTC))
}
