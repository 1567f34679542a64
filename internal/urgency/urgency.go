package urgency

import (
	"sort"
	"time"

	"github.com/MargianaLogistics/CargoBot/internal/datefmt"
	"github.com/MargianaLogistics/CargoBot/internal/models"
)

// DefaultThreshold — горизонт «скоро» в днях.
const DefaultThreshold = 3

// Item — запись с опциональным сроком. Классификатору всё равно,
// заказ это или задача.
type Item struct {
	Ref      string // номер заказа либо описание задачи
	Note     string // клиент, исполнитель и т.п.
	Status   string
	Due      string // сырая строка времени из бэкенда
	Terminal bool
}

type Scored struct {
	Item
	DaysLeft int
}

// Groups — непересекающиеся корзины срочности.
type Groups struct {
	Overdue  []Scored
	DueToday []Scored
	DueSoon  []Scored
}

func (g Groups) Empty() bool {
	return len(g.Overdue) == 0 && len(g.DueToday) == 0 && len(g.DueSoon) == 0
}

// Upcoming объединяет «сегодня» и «скоро» — это и есть точки
// напоминаний диспетчера.
func (g Groups) Upcoming() []Scored {
	out := make([]Scored, 0, len(g.DueToday)+len(g.DueSoon))
	out = append(out, g.DueToday...)
	out = append(out, g.DueSoon...)
	return out
}

// Classify partitions items by days left until the due date.
// Terminal and dateless records are dropped entirely. Each group is
// sorted by days ascending, ties keep input order.
func Classify(items []Item, now time.Time, loc *time.Location, threshold int) Groups {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}

	var g Groups
	for _, it := range items {
		if it.Terminal {
			continue
		}
		days, ok := datefmt.DaysUntil(it.Due, now, loc)
		if !ok {
			continue
		}
		s := Scored{Item: it, DaysLeft: days}
		switch {
		case days < 0:
			g.Overdue = append(g.Overdue, s)
		case days == 0:
			g.DueToday = append(g.DueToday, s)
		case days <= threshold:
			g.DueSoon = append(g.DueSoon, s)
		}
	}

	for _, group := range [][]Scored{g.Overdue, g.DueToday, g.DueSoon} {
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].DaysLeft < group[j].DaysLeft
		})
	}
	return g
}

// FromOrders adapts orders: the due point is the ETA.
func FromOrders(orders []models.Order) []Item {
	items := make([]Item, 0, len(orders))
	for _, o := range orders {
		items = append(items, Item{
			Ref:      o.OrderNumber,
			Note:     o.ClientName,
			Status:   o.Status,
			Due:      o.ETADate,
			Terminal: models.IsTerminalStatus(o.Status),
		})
	}
	return items
}

// FromTasks adapts tasks: the due point is the deadline.
func FromTasks(tasks []models.Task) []Item {
	items := make([]Item, 0, len(tasks))
	for _, t := range tasks {
		items = append(items, Item{
			Ref:      t.Description,
			Note:     t.OrderNumber,
			Status:   t.Status,
			Due:      t.DueDate,
			Terminal: t.Completed(),
		})
	}
	return items
}
