package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/Vedant817/flow-pilot/backend-go/internal/config"
	"github.com/Vedant817/flow-pilot/backend-go/internal/domain"
	"github.com/Vedant817/flow-pilot/backend-go/internal/forecast"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC)

type fakeOrders struct {
	orders []domain.OrderRecord
	err    error
	since  time.Time
}

func (f *fakeOrders) FetchOrders(ctx context.Context, since time.Time) ([]domain.OrderRecord, error) {
	f.since = since
	return f.orders, f.err
}

type fakeInventory struct {
	items []domain.InventoryRecord
	err   error
	calls int
}

func (f *fakeInventory) FetchInventory(ctx context.Context) ([]domain.InventoryRecord, error) {
	f.calls++
	return f.items, f.err
}

type memoryCache struct {
	reports map[string]*domain.ForecastReport
	sets    int
}

func key(params forecast.Params, day time.Time) string {
	return fmt.Sprintf("%s|%+v", day.UTC().Format("2006-01-02"), params)
}

func (m *memoryCache) GetReport(ctx context.Context, params forecast.Params, day time.Time) (*domain.ForecastReport, bool, error) {
	r, ok := m.reports[key(params, day)]
	return r, ok, nil
}

func (m *memoryCache) SetReport(ctx context.Context, params forecast.Params, day time.Time, report *domain.ForecastReport) error {
	m.sets++
	m.reports[key(params, day)] = report
	return nil
}

func (m *memoryCache) InvalidateAll(ctx context.Context) error {
	m.reports = map[string]*domain.ForecastReport{}
	return nil
}

func newTestService(orders *fakeOrders, inventory *fakeInventory) *ForecastService {
	svc := NewForecastService(orders, inventory, nil, forecast.NewEngine(zerolog.Nop()), forecast.DefaultParams())
	svc.now = func() time.Time { return testNow }
	return svc
}

func TestForecastService_GetForecast(t *testing.T) {
	orders := &fakeOrders{orders: []domain.OrderRecord{
		{ID: 1, Date: "2025-06-29", LineItems: []domain.LineItem{{ProductName: "Widget", Quantity: 30}}},
	}}
	inventory := &fakeInventory{items: []domain.InventoryRecord{
		{ProductName: "Widget", CurrentStock: 2, StockAlertLevel: 5, UnitPrice: 4},
	}}

	report, err := newTestService(orders, inventory).GetForecast(context.Background(), forecast.DefaultParams())
	require.NoError(t, err)

	assert.Equal(t, time.Date(2025, 5, 31, 0, 0, 0, 0, time.UTC), orders.since)
	require.Len(t, report.UrgentRestocking, 1)
	assert.Equal(t, "Widget", report.UrgentRestocking[0].Product)
	assert.Equal(t, testNow, report.GeneratedAt)
}

func TestForecastService_InvalidParams(t *testing.T) {
	inventory := &fakeInventory{}
	params := forecast.DefaultParams()
	params.WindowDays = 0

	_, err := newTestService(&fakeOrders{}, inventory).GetForecast(context.Background(), params)

	assert.ErrorIs(t, err, forecast.ErrInvalidParams)
	assert.NotErrorIs(t, err, ErrAnalysisFailed)
	assert.Zero(t, inventory.calls)
}

func TestForecastService_ReadFailure(t *testing.T) {
	dbErr := errors.New("connection refused")

	_, err := newTestService(&fakeOrders{err: dbErr}, &fakeInventory{}).GetForecast(context.Background(), forecast.DefaultParams())

	assert.ErrorIs(t, err, ErrAnalysisFailed)
	assert.ErrorIs(t, err, dbErr)
}

func TestForecastService_UsesCache(t *testing.T) {
	inventory := &fakeInventory{items: []domain.InventoryRecord{{ProductName: "Widget", CurrentStock: 1, StockAlertLevel: 5}}}
	svc := newTestService(&fakeOrders{}, inventory)
	mem := &memoryCache{reports: map[string]*domain.ForecastReport{}}
	svc.cache = mem

	first, err := svc.GetForecast(context.Background(), forecast.DefaultParams())
	require.NoError(t, err)

	later := testNow.Add(90 * time.Minute)
	svc.now = func() time.Time { return later }
	second, err := svc.GetForecast(context.Background(), forecast.DefaultParams())
	require.NoError(t, err)

	assert.Equal(t, 1, inventory.calls)
	assert.Equal(t, 1, mem.sets)
	assert.Equal(t, first.UrgentRestocking, second.UrgentRestocking)
	assert.Equal(t, first.Summary, second.Summary)
	assert.Equal(t, later, second.GeneratedAt)
	assert.Equal(t, later.Add(forecast.NextAnalysisAfter), second.NextAnalysisRecommended)
	assert.Equal(t, testNow, first.GeneratedAt, "cached entry is not mutated")
}

func TestParamsFromConfig(t *testing.T) {
	params := ParamsFromConfig(config.ForecastConfig{
		WindowDays:          30,
		LeadTimeDays:        7,
		ServiceLevel:        0.95,
		OrderCost:           50,
		HoldingCostRate:     0.25,
		StockoutHorizonDays: 14,
	})

	assert.Equal(t, forecast.DefaultParams(), params)
}
