package messages

import "time"

// RecordChanged — «запись офисной системы изменилась». Диспетчер
// публикует по одному событию на каждую запись, прошедшую водяную
// отметку, для сторонних потребителей фида.
type RecordChanged struct {
	Collection string `json:"collection"` // cloud_orders | cloud_containers | cloud_tasks
	RecordID   int64  `json:"record_id"`
	Ref        string `json:"ref,omitempty"` // номер заказа / контейнера / описание задачи
	Status     string `json:"status,omitempty"`
	LastSync   string `json:"last_sync,omitempty"` // сырая отметка из бэкенда

	DetectedAt time.Time `json:"detected_at"`
}
