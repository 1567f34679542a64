package pgstore

import (
	"context"

	"github.com/pkg/errors"
)

// InitSchema разворачивает копию офисных таблиц. Боевая схема
// принадлежит офисной системе; это только для локальной разработки
// и интеграционных тестов.
func (s *Store) InitSchema(ctx context.Context) error {
	stmts := []string{
		`
CREATE TABLE IF NOT EXISTS cloud_orders (
  id BIGSERIAL PRIMARY KEY,
  order_number TEXT NOT NULL,
  client_name TEXT NULL,
  status TEXT NOT NULL,
  goods_type TEXT NULL,
  route TEXT NULL,
  creation_date TIMESTAMPTZ NULL,
  eta_date DATE NULL,
  departure_date TIMESTAMPTZ NULL,
  arrival_intermediate_date TIMESTAMPTZ NULL,
  destination_date TIMESTAMPTZ NULL,
  container_count INT NULL,
  has_loading_photo BOOLEAN NULL,
  has_local_charges BOOLEAN NULL,
  has_customs_doc BOOLEAN NULL,
  last_sync_date TIMESTAMPTZ NULL,
  UNIQUE (order_number)
)`,
		`CREATE INDEX IF NOT EXISTS idx_cloud_orders_last_sync ON cloud_orders(last_sync_date)`,
		`CREATE INDEX IF NOT EXISTS idx_cloud_orders_status ON cloud_orders(status)`,
		`
CREATE TABLE IF NOT EXISTS cloud_containers (
  id BIGSERIAL PRIMARY KEY,
  order_id BIGINT NOT NULL REFERENCES cloud_orders(id) ON DELETE CASCADE,
  order_number TEXT NULL,
  container_number TEXT NULL,
  weight_kg DOUBLE PRECISION NULL,
  driver_first_name TEXT NULL,
  driver_last_name TEXT NULL,
  driver_company TEXT NULL,
  driver_phone TEXT NULL,
  truck_number TEXT NULL,
  arrival_destination_date TIMESTAMPTZ NULL,
  client_receiving_date TIMESTAMPTZ NULL,
  last_sync_date TIMESTAMPTZ NULL
)`,
		`CREATE INDEX IF NOT EXISTS idx_cloud_containers_order_id ON cloud_containers(order_id)`,
		`
CREATE TABLE IF NOT EXISTS cloud_tasks (
  id BIGSERIAL PRIMARY KEY,
  order_id BIGINT NOT NULL REFERENCES cloud_orders(id) ON DELETE CASCADE,
  order_number TEXT NULL,
  description TEXT NULL,
  assigned_to TEXT NULL,
  status TEXT NOT NULL,
  due_date DATE NULL,
  last_sync_date TIMESTAMPTZ NULL
)`,
		`CREATE INDEX IF NOT EXISTS idx_cloud_tasks_due_date ON cloud_tasks(due_date)`,
	}

	for _, q := range stmts {
		if _, err := s.db.Exec(ctx, q); err != nil {
			return errors.Wrap(err, "init schema")
		}
	}
	return nil
}
