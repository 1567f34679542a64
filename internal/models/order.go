package models

// Нормализованные статусы заказов (можно расширять).
const (
	OrderStatusNew              = "NEW"
	OrderStatusInProgressOrigin = "IN_PROGRESS_ORIGIN"
	OrderStatusInTransitToHub   = "IN_TRANSIT_ORIGIN_INTERMEDIATE"
	OrderStatusInProgressHub    = "IN_PROGRESS_INTERMEDIATE"
	OrderStatusInTransitToFinal = "IN_TRANSIT_INTERMEDIATE_DESTINATION"
	OrderStatusCompleted        = "COMPLETED"
	OrderStatusCancelled        = "CANCELLED"
)

// Order — заказ из офисной системы. Все даты приходят строками
// и парсятся только при отображении.
type Order struct {
	ID                      int64
	OrderNumber             string
	ClientName              string
	Status                  string
	GoodsType               string
	Route                   string
	CreationDate            string
	ETADate                 string
	DepartureDate           string
	ArrivalIntermediateDate string
	DestinationDate         string
	ContainerCount          int
	HasLoadingPhoto         bool
	HasLocalCharges         bool
	HasCustomsDoc           bool
	LastSyncDate            string
}

// IsTerminalStatus reports whether the order can no longer change.
func IsTerminalStatus(status string) bool {
	return status == OrderStatusCompleted || status == OrderStatusCancelled
}

// StatusGlyph returns a distinct glyph per known status and a
// neutral one for anything else.
func StatusGlyph(status string) string {
	switch status {
	case OrderStatusNew:
		return "🆕"
	case OrderStatusInProgressOrigin:
		return "🏭"
	case OrderStatusInTransitToHub:
		return "🚢"
	case OrderStatusInProgressHub:
		return "🛃"
	case OrderStatusInTransitToFinal:
		return "🚛"
	case OrderStatusCompleted:
		return "✅"
	case OrderStatusCancelled:
		return "❌"
	default:
		return "📦"
	}
}

// StatusLabel returns a short human label; unknown codes pass through.
func StatusLabel(status string) string {
	switch status {
	case OrderStatusNew:
		return "New"
	case OrderStatusInProgressOrigin:
		return "Processing at origin"
	case OrderStatusInTransitToHub:
		return "In transit to hub"
	case OrderStatusInProgressHub:
		return "Customs at hub"
	case OrderStatusInTransitToFinal:
		return "Delivery to destination"
	case OrderStatusCompleted:
		return "Completed"
	case OrderStatusCancelled:
		return "Cancelled"
	default:
		return status
	}
}

// OrderStatuses перечисляет известные статусы в порядке жизненного цикла.
func OrderStatuses() []string {
	return []string{
		OrderStatusNew,
		OrderStatusInProgressOrigin,
		OrderStatusInTransitToHub,
		OrderStatusInProgressHub,
		OrderStatusInTransitToFinal,
		OrderStatusCompleted,
		OrderStatusCancelled,
	}
}
