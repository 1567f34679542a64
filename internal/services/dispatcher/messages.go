package dispatcher

import (
	"fmt"
	"time"

	"github.com/MargianaLogistics/CargoBot/internal/datefmt"
	"github.com/MargianaLogistics/CargoBot/internal/models"
	"github.com/MargianaLogistics/CargoBot/internal/urgency"
)

// StatusChangeMessage — текст уведомления об изменении заказа.
func StatusChangeMessage(o models.Order, loc *time.Location) string {
	return fmt.Sprintf("%s Order %s updated\nClient: %s\nStatus: %s\nETA: %s",
		models.StatusGlyph(o.Status),
		o.OrderNumber,
		o.ClientName,
		models.StatusLabel(o.Status),
		datefmt.FormatDate(o.ETADate, loc))
}

// ReminderMessage — текст напоминания о приближающемся прибытии.
func ReminderMessage(r urgency.Scored) string {
	var when string
	switch r.DaysLeft {
	case 0:
		when = "arrives today!"
	case 1:
		when = "arrives tomorrow."
	default:
		when = fmt.Sprintf("arrives in %d days.", r.DaysLeft)
	}
	return fmt.Sprintf("⏰ Order %s (%s) %s", r.Ref, r.Note, when)
}
