// Package backend описывает доступ к офисной системе учёта грузов.
// Сам бэкенд внешний: мы только собираем фильтры и читаем записи.
package backend

import (
	"context"

	"github.com/MargianaLogistics/CargoBot/internal/models"
)

// Коллекции офисной схемы.
const (
	CollectionOrders     = "cloud_orders"
	CollectionContainers = "cloud_containers"
	CollectionTasks      = "cloud_tasks"
)

// Имена колонок, общие для REST и SQL реализаций.
const (
	ColID                 = "id"
	ColOrderID            = "order_id"
	ColOrderNumber        = "order_number"
	ColStatus             = "status"
	ColCreationDate       = "creation_date"
	ColETADate            = "eta_date"
	ColDestinationDate    = "destination_date"
	ColArrivalDestination = "arrival_destination_date"
	ColDueDate            = "due_date"
	ColClientReceiving    = "client_receiving_date"
	ColLastSync           = "last_sync_date"
	ColHasLoadingPhoto    = "has_loading_photo"
	ColHasLocalCharges    = "has_local_charges"
	ColHasCustomsDoc      = "has_customs_doc"
)

// Op — операторы фильтрации, которые поддерживают все реализации.
type Op string

const (
	OpEq      Op = "eq"
	OpNeq     Op = "neq"
	OpGt      Op = "gt"
	OpGte     Op = "gte"
	OpLt      Op = "lt"
	OpLte     Op = "lte"
	OpIn      Op = "in"
	OpIsNull  Op = "isnull"
	OpNotNull Op = "notnull"
)

// Filter — одно условие; условия запроса соединяются через AND.
type Filter struct {
	Column string
	Op     Op
	Value  string   // не используется для isnull/notnull
	Values []string // только для in
}

// Query собирает предикаты; исполнение остаётся за реализацией.
type Query struct {
	Filters []Filter
	OrderBy string
	Desc    bool
	Limit   int
}

// Client — интерфейс чтения трёх коллекций офисной системы.
type Client interface {
	Orders(ctx context.Context, q Query) ([]models.Order, error)
	Containers(ctx context.Context, q Query) ([]models.Container, error)
	Tasks(ctx context.Context, q Query) ([]models.Task, error)
	Ping(ctx context.Context) error
}
