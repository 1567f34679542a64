// Package report — сводка по полному срезу заказов, контейнеров и
// задач. Build агрегирует цифры, Text рендерит чатовую сводку,
// WritePDF — фирменный документ с теми же цифрами.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/MargianaLogistics/CargoBot/internal/models"
	"github.com/MargianaLogistics/CargoBot/internal/urgency"
)

// Summary — агрегированные показатели на момент GeneratedAt.
// GeneratedAt несёт отображаемую таймзону, поэтому рендерам
// локация отдельно не нужна.
type Summary struct {
	GeneratedAt time.Time

	TotalOrders     int
	ActiveOrders    int
	CompletedOrders int
	CancelledOrders int
	StatusCounts    map[string]int

	TotalTasks     int
	CompletedTasks int
	OverdueTasks   int

	TotalContainers     int
	ContainersInTransit int
	ContainersDelivered int

	// Счётчики по всем заказам, не только активным.
	MissingPhoto        int
	MissingLocalCharges int
	MissingCustomsDoc   int

	Threshold int
	Urgent    []urgency.Scored
}

// Build сводит показатели одного снимка данных.
func Build(orders []models.Order, containers []models.Container, tasks []models.Task, now time.Time, loc *time.Location, threshold int) Summary {
	if threshold <= 0 {
		threshold = urgency.DefaultThreshold
	}

	s := Summary{
		GeneratedAt:  now.In(loc),
		TotalOrders:  len(orders),
		StatusCounts: map[string]int{},
		TotalTasks:   len(tasks),
		Threshold:    threshold,
	}

	for _, o := range orders {
		s.StatusCounts[o.Status]++
		switch o.Status {
		case models.OrderStatusCompleted:
			s.CompletedOrders++
		case models.OrderStatusCancelled:
			s.CancelledOrders++
		default:
			s.ActiveOrders++
		}
		if !o.HasLoadingPhoto {
			s.MissingPhoto++
		}
		if !o.HasLocalCharges {
			s.MissingLocalCharges++
		}
		if !o.HasCustomsDoc {
			s.MissingCustomsDoc++
		}
	}

	orderGroups := urgency.Classify(urgency.FromOrders(orders), now, loc, threshold)
	s.Urgent = orderGroups.Upcoming()

	for _, t := range tasks {
		if t.Completed() {
			s.CompletedTasks++
		}
	}
	taskGroups := urgency.Classify(urgency.FromTasks(tasks), now, loc, threshold)
	s.OverdueTasks = len(taskGroups.Overdue)

	s.TotalContainers = len(containers)
	for _, c := range containers {
		if c.ArrivalDestinationDate == "" {
			s.ContainersInTransit++
		}
		if c.Delivered() {
			s.ContainersDelivered++
		}
	}

	return s
}

// Text — сводный отчёт для чата.
func (s Summary) Text() string {
	var b strings.Builder

	fmt.Fprintf(&b, "📈 MARGIANA LOGISTICS SUMMARY\n")
	fmt.Fprintf(&b, "📅 %s\n\n", s.GeneratedAt.Format("02.01.2006 15:04"))

	fmt.Fprintf(&b, "📦 Orders\n")
	fmt.Fprintf(&b, "• Total: %d\n", s.TotalOrders)
	fmt.Fprintf(&b, "• Active: %d\n", s.ActiveOrders)
	fmt.Fprintf(&b, "• Completed: %d\n", s.CompletedOrders)
	fmt.Fprintf(&b, "• Urgent (ETA within %d days): %d\n\n", s.Threshold, len(s.Urgent))

	fmt.Fprintf(&b, "📋 Tasks\n")
	fmt.Fprintf(&b, "• Total: %d\n", s.TotalTasks)
	fmt.Fprintf(&b, "• Done: %d\n", s.CompletedTasks)
	fmt.Fprintf(&b, "• Overdue: %d\n\n", s.OverdueTasks)

	fmt.Fprintf(&b, "🚚 Containers\n")
	fmt.Fprintf(&b, "• Total: %d\n", s.TotalContainers)
	fmt.Fprintf(&b, "• In transit: %d\n", s.ContainersInTransit)
	fmt.Fprintf(&b, "• Delivered: %d\n\n", s.ContainersDelivered)

	fmt.Fprintf(&b, "⚠️ Needs attention\n")
	fmt.Fprintf(&b, "• No loading photo: %d\n", s.MissingPhoto)
	fmt.Fprintf(&b, "• No local charges: %d\n", s.MissingLocalCharges)
	fmt.Fprintf(&b, "• No customs doc: %d\n", s.MissingCustomsDoc)

	if s.TotalOrders > 0 {
		fmt.Fprintf(&b, "\n📊 By status\n")
		for _, status := range models.OrderStatuses() {
			if n := s.StatusCounts[status]; n > 0 {
				fmt.Fprintf(&b, "%s %s: %d\n", models.StatusGlyph(status), models.StatusLabel(status), n)
			}
		}
	}

	return strings.TrimRight(b.String(), "\n")
}
