// Package fake — встроенная замена офисного бэкенда для тестов и
// демо-режима, пока нет доступа к реальной системе.
package fake

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/MargianaLogistics/CargoBot/internal/backend"
	"github.com/MargianaLogistics/CargoBot/internal/models"
)

type Client struct {
	mu         sync.RWMutex
	orders     []models.Order
	containers []models.Container
	tasks      []models.Task
}

func New() *Client { return &Client{} }

// Demo возвращает заполненный клиент: несколько заказов в разных
// статусах с датами вокруг now, чтобы бот было чем показать.
func Demo(now time.Time) *Client {
	day := func(offset int) string { return now.AddDate(0, 0, offset).Format("2006-01-02") }
	stamp := func(offset int) string { return now.AddDate(0, 0, offset).Format("2006-01-02T15:04:05") }

	c := New()
	c.SetOrders(
		models.Order{ID: 1, OrderNumber: "MRG-1001", ClientName: "Altyn Trade", Status: models.OrderStatusInTransitToHub,
			GoodsType: "Household goods", Route: "Shanghai - Ashgabat", CreationDate: stamp(-20), ETADate: day(1),
			ContainerCount: 2, HasLoadingPhoto: true, LastSyncDate: stamp(-1)},
		models.Order{ID: 2, OrderNumber: "MRG-1002", ClientName: "Bereket LLC", Status: models.OrderStatusInProgressOrigin,
			GoodsType: "Electronics", Route: "Guangzhou - Ashgabat", CreationDate: stamp(-12), ETADate: day(3),
			ContainerCount: 1, HasLocalCharges: true, LastSyncDate: stamp(-2)},
		models.Order{ID: 3, OrderNumber: "MRG-1003", ClientName: "Altyn Trade", Status: models.OrderStatusInTransitToFinal,
			GoodsType: "Building materials", Route: "Istanbul - Ashgabat", CreationDate: stamp(-30), ETADate: day(0),
			ContainerCount: 3, HasLoadingPhoto: true, HasLocalCharges: true, HasCustomsDoc: true, LastSyncDate: stamp(0)},
		models.Order{ID: 4, OrderNumber: "MRG-0990", ClientName: "Nusay Market", Status: models.OrderStatusCompleted,
			GoodsType: "Textiles", Route: "Shanghai - Ashgabat", CreationDate: stamp(-60), ETADate: day(-10),
			DestinationDate: stamp(-8), ContainerCount: 1, HasLoadingPhoto: true, HasLocalCharges: true,
			HasCustomsDoc: true, LastSyncDate: stamp(-8)},
		models.Order{ID: 5, OrderNumber: "MRG-1004", ClientName: "Gurbansoltan", Status: models.OrderStatusNew,
			GoodsType: "Spare parts", Route: "Dubai - Ashgabat", CreationDate: stamp(-3), LastSyncDate: stamp(-3)},
	)
	c.SetContainers(
		models.Container{ID: 1, OrderID: 1, OrderNumber: "MRG-1001", ContainerNumber: "TCLU2003456", WeightKg: 21500,
			DriverFirstName: "Merdan", DriverLastName: "Orazov", DriverCompany: "TM Trans", DriverPhone: "+99365000001",
			TruckNumber: "AG 1221 TM", LastSyncDate: stamp(-1)},
		models.Container{ID: 2, OrderID: 1, OrderNumber: "MRG-1001", ContainerNumber: "TCLU2003457", WeightKg: 19800,
			LastSyncDate: stamp(-1)},
		models.Container{ID: 3, OrderID: 4, OrderNumber: "MRG-0990", ContainerNumber: "MSKU7711002", WeightKg: 24000,
			DriverFirstName: "Dovlet", DriverLastName: "Berdiyev", DriverCompany: "Ak Yol", DriverPhone: "+99365000002",
			TruckNumber: "AG 5512 TM", ArrivalDestinationDate: stamp(-9), ClientReceivingDate: stamp(-8),
			LastSyncDate: stamp(-8)},
	)
	c.SetTasks(
		models.Task{ID: 1, OrderID: 1, OrderNumber: "MRG-1001", Description: "Collect loading photos",
			AssignedTo: "Maya", Status: models.TaskStatusInProgress, DueDate: day(0), LastSyncDate: stamp(-1)},
		models.Task{ID: 2, OrderID: 2, OrderNumber: "MRG-1002", Description: "Confirm local charges",
			AssignedTo: "Kerim", Status: models.TaskStatusTodo, DueDate: day(-1), LastSyncDate: stamp(-2)},
		models.Task{ID: 3, OrderID: 3, OrderNumber: "MRG-1003", Description: "Prepare customs set",
			AssignedTo: "Maya", Status: models.TaskStatusTodo, DueDate: day(2), LastSyncDate: stamp(0)},
		models.Task{ID: 4, OrderID: 4, OrderNumber: "MRG-0990", Description: "Close the file",
			AssignedTo: "Kerim", Status: models.TaskStatusCompleted, DueDate: day(-9), LastSyncDate: stamp(-8)},
	)
	return c
}

func (c *Client) SetOrders(orders ...models.Order) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.orders = append([]models.Order(nil), orders...)
}

func (c *Client) SetContainers(containers ...models.Container) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.containers = append([]models.Container(nil), containers...)
}

func (c *Client) SetTasks(tasks ...models.Task) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tasks = append([]models.Task(nil), tasks...)
}

func (c *Client) Orders(ctx context.Context, q backend.Query) ([]models.Order, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []models.Order
	for _, o := range c.orders {
		ok, err := matchFilters(q.Filters, func(col string) (string, bool) { return orderField(o, col) })
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, o)
		}
	}
	if q.OrderBy != "" {
		sort.SliceStable(out, func(i, j int) bool {
			a, _ := orderField(out[i], q.OrderBy)
			b, _ := orderField(out[j], q.OrderBy)
			return lessVal(a, b, q.Desc)
		})
	}
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (c *Client) Containers(ctx context.Context, q backend.Query) ([]models.Container, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []models.Container
	for _, cn := range c.containers {
		ok, err := matchFilters(q.Filters, func(col string) (string, bool) { return containerField(cn, col) })
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, cn)
		}
	}
	if q.OrderBy != "" {
		sort.SliceStable(out, func(i, j int) bool {
			a, _ := containerField(out[i], q.OrderBy)
			b, _ := containerField(out[j], q.OrderBy)
			return lessVal(a, b, q.Desc)
		})
	}
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (c *Client) Tasks(ctx context.Context, q backend.Query) ([]models.Task, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []models.Task
	for _, t := range c.tasks {
		ok, err := matchFilters(q.Filters, func(col string) (string, bool) { return taskField(t, col) })
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, t)
		}
	}
	if q.OrderBy != "" {
		sort.SliceStable(out, func(i, j int) bool {
			a, _ := taskField(out[i], q.OrderBy)
			b, _ := taskField(out[j], q.OrderBy)
			return lessVal(a, b, q.Desc)
		})
	}
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (c *Client) Ping(ctx context.Context) error { return nil }

func orderField(o models.Order, col string) (string, bool) {
	switch col {
	case backend.ColID:
		return strconv.FormatInt(o.ID, 10), true
	case backend.ColOrderNumber:
		return o.OrderNumber, true
	case backend.ColStatus:
		return o.Status, true
	case backend.ColCreationDate:
		return o.CreationDate, true
	case backend.ColETADate:
		return o.ETADate, true
	case backend.ColDestinationDate:
		return o.DestinationDate, true
	case backend.ColLastSync:
		return o.LastSyncDate, true
	case backend.ColHasLoadingPhoto:
		return strconv.FormatBool(o.HasLoadingPhoto), true
	case backend.ColHasLocalCharges:
		return strconv.FormatBool(o.HasLocalCharges), true
	case backend.ColHasCustomsDoc:
		return strconv.FormatBool(o.HasCustomsDoc), true
	}
	return "", false
}

func containerField(c models.Container, col string) (string, bool) {
	switch col {
	case backend.ColID:
		return strconv.FormatInt(c.ID, 10), true
	case backend.ColOrderID:
		return strconv.FormatInt(c.OrderID, 10), true
	case backend.ColOrderNumber:
		return c.OrderNumber, true
	case backend.ColArrivalDestination:
		return c.ArrivalDestinationDate, true
	case backend.ColClientReceiving:
		return c.ClientReceivingDate, true
	case backend.ColLastSync:
		return c.LastSyncDate, true
	}
	return "", false
}

func taskField(t models.Task, col string) (string, bool) {
	switch col {
	case backend.ColID:
		return strconv.FormatInt(t.ID, 10), true
	case backend.ColOrderID:
		return strconv.FormatInt(t.OrderID, 10), true
	case backend.ColOrderNumber:
		return t.OrderNumber, true
	case backend.ColStatus:
		return t.Status, true
	case backend.ColDueDate:
		return t.DueDate, true
	case backend.ColLastSync:
		return t.LastSyncDate, true
	}
	return "", false
}

func matchFilters(filters []backend.Filter, field func(string) (string, bool)) (bool, error) {
	for _, f := range filters {
		val, known := field(f.Column)
		if !known {
			return false, errors.Errorf("unknown column %q", f.Column)
		}
		ok, err := matchOne(f, val)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

// matchOne повторяет SQL-семантику NULL: пустое значение не проходит
// ни одно сравнение, только is.null.
func matchOne(f backend.Filter, val string) (bool, error) {
	switch f.Op {
	case backend.OpIsNull:
		return val == "", nil
	case backend.OpNotNull:
		return val != "", nil
	}
	if val == "" {
		return false, nil
	}
	switch f.Op {
	case backend.OpEq:
		return val == f.Value, nil
	case backend.OpNeq:
		return val != f.Value, nil
	case backend.OpGt:
		return compareVal(val, f.Value) > 0, nil
	case backend.OpGte:
		return compareVal(val, f.Value) >= 0, nil
	case backend.OpLt:
		return compareVal(val, f.Value) < 0, nil
	case backend.OpLte:
		return compareVal(val, f.Value) <= 0, nil
	case backend.OpIn:
		for _, v := range f.Values {
			if val == v {
				return true, nil
			}
		}
		return false, nil
	}
	return false, errors.Errorf("unsupported filter op %q", f.Op)
}

// compareVal сравнивает числа как числа, остальное как строки.
// Даты ISO-8601 лексикографически упорядочены сами по себе.
func compareVal(a, b string) int {
	fa, errA := strconv.ParseFloat(a, 64)
	fb, errB := strconv.ParseFloat(b, 64)
	if errA == nil && errB == nil {
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(a, b)
}

func lessVal(a, b string, desc bool) bool {
	if desc {
		return compareVal(a, b) > 0
	}
	return compareVal(a, b) < 0
}
