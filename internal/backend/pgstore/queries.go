package pgstore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/MargianaLogistics/CargoBot/internal/backend"
	"github.com/MargianaLogistics/CargoBot/internal/models"
)

// Колонки, по которым разрешены фильтры и сортировка.
var (
	orderCols = map[string]bool{
		backend.ColID: true, backend.ColOrderNumber: true, backend.ColStatus: true,
		backend.ColCreationDate: true, backend.ColETADate: true, backend.ColDestinationDate: true,
		backend.ColLastSync: true, backend.ColHasLoadingPhoto: true,
		backend.ColHasLocalCharges: true, backend.ColHasCustomsDoc: true,
	}
	containerCols = map[string]bool{
		backend.ColID: true, backend.ColOrderID: true, backend.ColOrderNumber: true,
		backend.ColArrivalDestination: true, backend.ColClientReceiving: true,
		backend.ColLastSync: true,
	}
	taskCols = map[string]bool{
		backend.ColID: true, backend.ColOrderID: true, backend.ColOrderNumber: true,
		backend.ColStatus: true, backend.ColDueDate: true, backend.ColLastSync: true,
	}
)

const selectOrders = `
SELECT
  id, COALESCE(order_number,''), COALESCE(client_name,''), COALESCE(status,''),
  COALESCE(goods_type,''), COALESCE(route,''),
  creation_date, eta_date, departure_date, arrival_intermediate_date, destination_date,
  COALESCE(container_count,0),
  COALESCE(has_loading_photo,false), COALESCE(has_local_charges,false), COALESCE(has_customs_doc,false),
  last_sync_date
FROM cloud_orders`

func (s *Store) Orders(ctx context.Context, q backend.Query) ([]models.Order, error) {
	sql, args, err := buildQuery(selectOrders, q, orderCols)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, errors.Wrap(err, "select orders")
	}
	defer rows.Close()

	var out []models.Order
	for rows.Next() {
		var o models.Order
		var creation, eta, departure, arrivalHub, destination, lastSync *time.Time
		if err := rows.Scan(
			&o.ID, &o.OrderNumber, &o.ClientName, &o.Status,
			&o.GoodsType, &o.Route,
			&creation, &eta, &departure, &arrivalHub, &destination,
			&o.ContainerCount,
			&o.HasLoadingPhoto, &o.HasLocalCharges, &o.HasCustomsDoc,
			&lastSync,
		); err != nil {
			return nil, errors.Wrap(err, "scan order")
		}
		o.CreationDate = fmtTime(creation)
		o.ETADate = fmtTime(eta)
		o.DepartureDate = fmtTime(departure)
		o.ArrivalIntermediateDate = fmtTime(arrivalHub)
		o.DestinationDate = fmtTime(destination)
		o.LastSyncDate = fmtTime(lastSync)
		out = append(out, o)
	}
	if rows.Err() != nil {
		return nil, errors.Wrap(rows.Err(), "rows")
	}
	return out, nil
}

const selectContainers = `
SELECT
  id, order_id, COALESCE(order_number,''), COALESCE(container_number,''),
  COALESCE(weight_kg,0),
  COALESCE(driver_first_name,''), COALESCE(driver_last_name,''),
  COALESCE(driver_company,''), COALESCE(driver_phone,''), COALESCE(truck_number,''),
  arrival_destination_date, client_receiving_date, last_sync_date
FROM cloud_containers`

func (s *Store) Containers(ctx context.Context, q backend.Query) ([]models.Container, error) {
	sql, args, err := buildQuery(selectContainers, q, containerCols)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, errors.Wrap(err, "select containers")
	}
	defer rows.Close()

	var out []models.Container
	for rows.Next() {
		var c models.Container
		var arrival, receiving, lastSync *time.Time
		if err := rows.Scan(
			&c.ID, &c.OrderID, &c.OrderNumber, &c.ContainerNumber,
			&c.WeightKg,
			&c.DriverFirstName, &c.DriverLastName,
			&c.DriverCompany, &c.DriverPhone, &c.TruckNumber,
			&arrival, &receiving, &lastSync,
		); err != nil {
			return nil, errors.Wrap(err, "scan container")
		}
		c.ArrivalDestinationDate = fmtTime(arrival)
		c.ClientReceivingDate = fmtTime(receiving)
		c.LastSyncDate = fmtTime(lastSync)
		out = append(out, c)
	}
	if rows.Err() != nil {
		return nil, errors.Wrap(rows.Err(), "rows")
	}
	return out, nil
}

const selectTasks = `
SELECT
  id, order_id, COALESCE(order_number,''), COALESCE(description,''),
  COALESCE(assigned_to,''), COALESCE(status,''),
  due_date, last_sync_date
FROM cloud_tasks`

func (s *Store) Tasks(ctx context.Context, q backend.Query) ([]models.Task, error) {
	sql, args, err := buildQuery(selectTasks, q, taskCols)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, errors.Wrap(err, "select tasks")
	}
	defer rows.Close()

	var out []models.Task
	for rows.Next() {
		var t models.Task
		var due, lastSync *time.Time
		if err := rows.Scan(
			&t.ID, &t.OrderID, &t.OrderNumber, &t.Description,
			&t.AssignedTo, &t.Status,
			&due, &lastSync,
		); err != nil {
			return nil, errors.Wrap(err, "scan task")
		}
		t.DueDate = fmtTime(due)
		t.LastSyncDate = fmtTime(lastSync)
		out = append(out, t)
	}
	if rows.Err() != nil {
		return nil, errors.Wrap(rows.Err(), "rows")
	}
	return out, nil
}

// buildQuery пристраивает к базовому SELECT условия из Query.
// Имена колонок проходят только из белого списка, значения — параметрами.
func buildQuery(base string, q backend.Query, allowed map[string]bool) (string, []any, error) {
	var sb strings.Builder
	sb.WriteString(base)

	var args []any
	for i, f := range q.Filters {
		if !allowed[f.Column] {
			return "", nil, errors.Errorf("unknown column %q", f.Column)
		}
		if i == 0 {
			sb.WriteString(" WHERE ")
		} else {
			sb.WriteString(" AND ")
		}

		switch f.Op {
		case backend.OpEq:
			args = append(args, f.Value)
			fmt.Fprintf(&sb, "%s = $%d", f.Column, len(args))
		case backend.OpNeq:
			args = append(args, f.Value)
			fmt.Fprintf(&sb, "%s <> $%d", f.Column, len(args))
		case backend.OpGt:
			args = append(args, f.Value)
			fmt.Fprintf(&sb, "%s > $%d", f.Column, len(args))
		case backend.OpGte:
			args = append(args, f.Value)
			fmt.Fprintf(&sb, "%s >= $%d", f.Column, len(args))
		case backend.OpLt:
			args = append(args, f.Value)
			fmt.Fprintf(&sb, "%s < $%d", f.Column, len(args))
		case backend.OpLte:
			args = append(args, f.Value)
			fmt.Fprintf(&sb, "%s <= $%d", f.Column, len(args))
		case backend.OpIn:
			if len(f.Values) == 0 {
				return "", nil, errors.Errorf("empty in() filter on %s", f.Column)
			}
			ph := make([]string, 0, len(f.Values))
			for _, v := range f.Values {
				args = append(args, v)
				ph = append(ph, fmt.Sprintf("$%d", len(args)))
			}
			fmt.Fprintf(&sb, "%s IN (%s)", f.Column, strings.Join(ph, ","))
		case backend.OpIsNull:
			fmt.Fprintf(&sb, "%s IS NULL", f.Column)
		case backend.OpNotNull:
			fmt.Fprintf(&sb, "%s IS NOT NULL", f.Column)
		default:
			return "", nil, errors.Errorf("unsupported filter op %q", f.Op)
		}
	}

	if q.OrderBy != "" {
		if !allowed[q.OrderBy] {
			return "", nil, errors.Errorf("unknown order column %q", q.OrderBy)
		}
		dir := "ASC"
		if q.Desc {
			dir = "DESC"
		}
		fmt.Fprintf(&sb, " ORDER BY %s %s", q.OrderBy, dir)
	}
	if q.Limit > 0 {
		fmt.Fprintf(&sb, " LIMIT %d", q.Limit)
	}
	return sb.String(), args, nil
}

func fmtTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
