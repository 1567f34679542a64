// Package resthttp ходит в офисную систему по её PostgREST-совместимому
// REST API (Supabase).
package resthttp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/MargianaLogistics/CargoBot/internal/backend"
	"github.com/MargianaLogistics/CargoBot/internal/models"
)

type Client struct {
	baseURL string
	apiKey  string
	httpc   *http.Client
}

func New(baseURL, apiKey string) *Client {
	if baseURL == "" {
		baseURL = "http://localhost:3000"
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpc: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type orderRow struct {
	ID                      int64  `json:"id"`
	OrderNumber             string `json:"order_number"`
	ClientName              string `json:"client_name"`
	Status                  string `json:"status"`
	GoodsType               string `json:"goods_type"`
	Route                   string `json:"route"`
	CreationDate            string `json:"creation_date"`
	ETADate                 string `json:"eta_date"`
	DepartureDate           string `json:"departure_date"`
	ArrivalIntermediateDate string `json:"arrival_intermediate_date"`
	DestinationDate         string `json:"destination_date"`
	ContainerCount          int    `json:"container_count"`
	HasLoadingPhoto         bool   `json:"has_loading_photo"`
	HasLocalCharges         bool   `json:"has_local_charges"`
	HasCustomsDoc           bool   `json:"has_customs_doc"`
	LastSyncDate            string `json:"last_sync_date"`
}

type containerRow struct {
	ID                     int64   `json:"id"`
	OrderID                int64   `json:"order_id"`
	OrderNumber            string  `json:"order_number"`
	ContainerNumber        string  `json:"container_number"`
	WeightKg               float64 `json:"weight_kg"`
	DriverFirstName        string  `json:"driver_first_name"`
	DriverLastName         string  `json:"driver_last_name"`
	DriverCompany          string  `json:"driver_company"`
	DriverPhone            string  `json:"driver_phone"`
	TruckNumber            string  `json:"truck_number"`
	ArrivalDestinationDate string  `json:"arrival_destination_date"`
	ClientReceivingDate    string  `json:"client_receiving_date"`
	LastSyncDate           string  `json:"last_sync_date"`
}

type taskRow struct {
	ID           int64  `json:"id"`
	OrderID      int64  `json:"order_id"`
	OrderNumber  string `json:"order_number"`
	Description  string `json:"description"`
	AssignedTo   string `json:"assigned_to"`
	Status       string `json:"status"`
	DueDate      string `json:"due_date"`
	LastSyncDate string `json:"last_sync_date"`
}

func (c *Client) Orders(ctx context.Context, q backend.Query) ([]models.Order, error) {
	var rows []orderRow
	if err := c.get(ctx, backend.CollectionOrders, q, &rows); err != nil {
		return nil, err
	}

	orders := make([]models.Order, 0, len(rows))
	for _, r := range rows {
		orders = append(orders, models.Order{
			ID:                      r.ID,
			OrderNumber:             r.OrderNumber,
			ClientName:              r.ClientName,
			Status:                  r.Status,
			GoodsType:               r.GoodsType,
			Route:                   r.Route,
			CreationDate:            r.CreationDate,
			ETADate:                 r.ETADate,
			DepartureDate:           r.DepartureDate,
			ArrivalIntermediateDate: r.ArrivalIntermediateDate,
			DestinationDate:         r.DestinationDate,
			ContainerCount:          r.ContainerCount,
			HasLoadingPhoto:         r.HasLoadingPhoto,
			HasLocalCharges:         r.HasLocalCharges,
			HasCustomsDoc:           r.HasCustomsDoc,
			LastSyncDate:            r.LastSyncDate,
		})
	}
	return orders, nil
}

func (c *Client) Containers(ctx context.Context, q backend.Query) ([]models.Container, error) {
	var rows []containerRow
	if err := c.get(ctx, backend.CollectionContainers, q, &rows); err != nil {
		return nil, err
	}

	containers := make([]models.Container, 0, len(rows))
	for _, r := range rows {
		containers = append(containers, models.Container{
			ID:                     r.ID,
			OrderID:                r.OrderID,
			OrderNumber:            r.OrderNumber,
			ContainerNumber:        r.ContainerNumber,
			WeightKg:               r.WeightKg,
			DriverFirstName:        r.DriverFirstName,
			DriverLastName:         r.DriverLastName,
			DriverCompany:          r.DriverCompany,
			DriverPhone:            r.DriverPhone,
			TruckNumber:            r.TruckNumber,
			ArrivalDestinationDate: r.ArrivalDestinationDate,
			ClientReceivingDate:    r.ClientReceivingDate,
			LastSyncDate:           r.LastSyncDate,
		})
	}
	return containers, nil
}

func (c *Client) Tasks(ctx context.Context, q backend.Query) ([]models.Task, error) {
	var rows []taskRow
	if err := c.get(ctx, backend.CollectionTasks, q, &rows); err != nil {
		return nil, err
	}

	tasks := make([]models.Task, 0, len(rows))
	for _, r := range rows {
		tasks = append(tasks, models.Task{
			ID:           r.ID,
			OrderID:      r.OrderID,
			OrderNumber:  r.OrderNumber,
			Description:  r.Description,
			AssignedTo:   r.AssignedTo,
			Status:       r.Status,
			DueDate:      r.DueDate,
			LastSyncDate: r.LastSyncDate,
		})
	}
	return tasks, nil
}

func (c *Client) Ping(ctx context.Context) error {
	var rows []orderRow
	return c.get(ctx, backend.CollectionOrders, backend.Query{Limit: 1}, &rows)
}

func (c *Client) get(ctx context.Context, table string, q backend.Query, out any) error {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return errors.Wrap(err, "parse base url")
	}
	u.Path = "/rest/v1/" + table

	params, err := encodeQuery(q)
	if err != nil {
		return errors.Wrap(err, table)
	}
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return errors.Wrap(err, "new request")
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return errors.Wrap(err, "do request")
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("office backend http %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(err, "decode")
	}
	return nil
}

// encodeQuery переводит фильтры в синтаксис PostgREST:
// ?status=eq.NEW&eta_date=not.is.null&order=creation_date.desc&limit=10
func encodeQuery(q backend.Query) (url.Values, error) {
	params := url.Values{}
	for _, f := range q.Filters {
		switch f.Op {
		case backend.OpEq, backend.OpNeq, backend.OpGt, backend.OpGte, backend.OpLt, backend.OpLte:
			params.Add(f.Column, string(f.Op)+"."+f.Value)
		case backend.OpIn:
			if len(f.Values) == 0 {
				return nil, fmt.Errorf("empty in() filter on %s", f.Column)
			}
			params.Add(f.Column, "in.("+strings.Join(f.Values, ",")+")")
		case backend.OpIsNull:
			params.Add(f.Column, "is.null")
		case backend.OpNotNull:
			params.Add(f.Column, "not.is.null")
		default:
			return nil, fmt.Errorf("unsupported filter op %q", f.Op)
		}
	}
	if q.OrderBy != "" {
		dir := ".asc"
		if q.Desc {
			dir = ".desc"
		}
		params.Set("order", q.OrderBy+dir)
	}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}
	return params, nil
}
