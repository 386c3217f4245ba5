package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"papertrading/src/model"
	"papertrading/src/stream"
)

type mockPortfolioStore struct {
	latest  *model.PortfolioState
	history []model.PortfolioState
	limit   int
	created *model.PortfolioState
	err     error
}

func (m *mockPortfolioStore) Latest(ctx context.Context, sessionID string) (*model.PortfolioState, error) {
	return m.latest, m.err
}

func (m *mockPortfolioStore) History(ctx context.Context, sessionID string, limit int) ([]model.PortfolioState, error) {
	m.limit = limit
	return m.history, m.err
}

func (m *mockPortfolioStore) Create(ctx context.Context, state *model.PortfolioState) error {
	if m.err != nil {
		return m.err
	}
	state.ID = 9
	m.created = state
	return nil
}

type mockFeeStore struct {
	fee      *model.ExchangeFee
	upserted *model.ExchangeFee
	exchange string
	asset    string
}

func (m *mockFeeStore) Upsert(ctx context.Context, fee *model.ExchangeFee) error {
	fee.ID = 4
	m.upserted = fee
	return nil
}

func (m *mockFeeStore) Find(ctx context.Context, exchange, asset string) (*model.ExchangeFee, error) {
	m.exchange = exchange
	m.asset = asset
	return m.fee, nil
}

type mockReporter struct {
	report *model.Analytics
	err    error
}

func (m *mockReporter) GetAnalytics(ctx context.Context, sessionID string) (*model.Analytics, error) {
	return m.report, m.err
}

type mockExporter struct {
	export *model.SessionExport
	err    error
}

func (m *mockExporter) Export(ctx context.Context, sessionID string) (*model.SessionExport, error) {
	return m.export, m.err
}

type mockPinger struct {
	err error
}

func (m mockPinger) PingContext(ctx context.Context) error {
	return m.err
}

func TestGetPortfolioHandler(t *testing.T) {
	rr := serve(http.MethodGet, "/sessions/{sessionId}/portfolio", "/sessions/s1/portfolio", "",
		GetPortfolioHandler(&mockPortfolioStore{}))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{}`, rr.Body.String())

	store := &mockPortfolioStore{latest: &model.PortfolioState{ID: 1, SessionID: "s1", TotalValue: 1200}}
	rr = serve(http.MethodGet, "/sessions/{sessionId}/portfolio", "/sessions/s1/portfolio", "", GetPortfolioHandler(store))
	require.Equal(t, http.StatusOK, rr.Code)
	var got map[string]interface{}
	decodeBody(t, rr, &got)
	assert.EqualValues(t, 1200, got["total_value"])
}

func TestPortfolioHistoryHandler(t *testing.T) {
	store := &mockPortfolioStore{}

	rr := serve(http.MethodGet, "/sessions/{sessionId}/portfolio/history", "/sessions/s1/portfolio/history?limit=20", "",
		PortfolioHistoryHandler(store))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 20, store.limit)
	assert.Equal(t, "[]\n", rr.Body.String())
}

func TestSavePortfolioHandler(t *testing.T) {
	store := &mockPortfolioStore{}
	events := &recordingPublisher{}
	body := `{"cash":500,"totalValue":1100,"initialValue":1000,"dayStartValue":1050,` +
		`"position":{"asset":"BTC","quantity":0.01,"averagePrice":60000,"entryTime":1700000000000}}`

	rr := serve(http.MethodPost, "/sessions/{sessionId}/portfolio", "/sessions/s1/portfolio", body,
		SavePortfolioHandler(store, events))

	require.Equal(t, http.StatusOK, rr.Code)
	require.NotNil(t, store.created)
	require.NotNil(t, store.created.PositionAsset)
	assert.Equal(t, "BTC", *store.created.PositionAsset)
	assert.Equal(t, 1100.0, store.created.TotalValue)
	require.Len(t, events.events, 1)
	assert.Equal(t, stream.EventPortfolio, events.events[0].Type)
}

func TestCacheFeesHandler(t *testing.T) {
	store := &mockFeeStore{}

	rr := serve(http.MethodPost, "/exchange-fees", "/exchange-fees",
		`{"exchange":"kraken","asset":"BTC","makerFee":0.0016,"takerFee":0.0026,"note":"tier 1"}`, CacheFeesHandler(store))

	require.Equal(t, http.StatusOK, rr.Code)
	require.NotNil(t, store.upserted)
	assert.Equal(t, "kraken", store.upserted.Exchange)
	assert.Equal(t, 0.0026, store.upserted.TakerFee)
	assert.Equal(t, "tier 1", store.upserted.FeeNote)
}

func TestCacheFeesHandler_MissingKey(t *testing.T) {
	store := &mockFeeStore{}

	rr := serve(http.MethodPost, "/exchange-fees", "/exchange-fees", `{"exchange":"kraken"}`, CacheFeesHandler(store))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Nil(t, store.upserted)
}

func TestGetFeesHandler(t *testing.T) {
	store := &mockFeeStore{}

	rr := serve(http.MethodGet, "/exchange-fees/{exchange}/{asset}", "/exchange-fees/kraken/ETH", "", GetFeesHandler(store))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{}`, rr.Body.String())
	assert.Equal(t, "kraken", store.exchange)
	assert.Equal(t, "ETH", store.asset)
}

func TestAnalyticsHandler(t *testing.T) {
	reporter := &mockReporter{report: &model.Analytics{
		Trades:     model.TradeStats{TotalTrades: 2, SellTrades: 2, WinningTrades: 1, WinRate: 50},
		Strategies: []model.StrategyStats{},
	}}

	rr := serve(http.MethodGet, "/sessions/{sessionId}/analytics", "/sessions/s1/analytics", "", AnalyticsHandler(reporter))

	require.Equal(t, http.StatusOK, rr.Code)
	var got map[string]interface{}
	decodeBody(t, rr, &got)
	trades := got["trades"].(map[string]interface{})
	assert.EqualValues(t, 50, trades["win_rate"])
	assert.Equal(t, map[string]interface{}{}, got["portfolio"])
	assert.Equal(t, []interface{}{}, got["strategies"])
}

func TestAnalyticsHandler_Error(t *testing.T) {
	reporter := &mockReporter{err: errors.New("trade stats: boom")}

	rr := serve(http.MethodGet, "/sessions/{sessionId}/analytics", "/sessions/s1/analytics", "", AnalyticsHandler(reporter))

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"error":"trade stats: boom"}`, rr.Body.String())
}

func TestExportHandler(t *testing.T) {
	exporter := &mockExporter{export: &model.SessionExport{
		Session:    &model.TradingSession{ID: 1, SessionID: "s1"},
		Trades:     []model.Trade{},
		Portfolio:  []model.PortfolioState{},
		Logs:       []model.AgentLog{},
		ExportedAt: time.Now(),
	}}

	rr := serve(http.MethodGet, "/sessions/{sessionId}/export", "/sessions/s1/export", "", ExportHandler(exporter))

	require.Equal(t, http.StatusOK, rr.Code)
	disposition := rr.Header().Get("Content-Disposition")
	assert.True(t, strings.HasPrefix(disposition, `attachment; filename="paper-trading-s1-`), disposition)
	assert.True(t, strings.HasSuffix(disposition, `.json"`), disposition)
}

func TestHealthHandler(t *testing.T) {
	rr := serve(http.MethodGet, "/health", "/health", "", HealthHandler(mockPinger{}))
	require.Equal(t, http.StatusOK, rr.Code)
	var got healthResponse
	decodeBody(t, rr, &got)
	assert.Equal(t, "healthy", got.Status)
	assert.Equal(t, "connected", got.Database)

	rr = serve(http.MethodGet, "/health", "/health", "", HealthHandler(mockPinger{err: assert.AnError}))
	require.Equal(t, http.StatusServiceUnavailable, rr.Code)
	decodeBody(t, rr, &got)
	assert.Equal(t, "disconnected", got.Database)
}

func TestStreamHandler(t *testing.T) {
	hub := stream.NewHub(4)
	defer hub.Close()

	r := chi.NewRouter()
	r.Get("/sessions/{sessionId}/stream", StreamHandler(hub))
	srv := httptest.NewServer(r)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/sessions/s1/stream"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.Subscribers("s1") == 1 }, 2*time.Second, 10*time.Millisecond)

	hub.Publish(stream.Event{Type: stream.EventTrade, SessionID: "s2", ID: 1})
	hub.Publish(stream.Event{Type: stream.EventTrade, SessionID: "s1", ID: 2})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var ev stream.Event
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, "s1", ev.SessionID)
	assert.EqualValues(t, 2, ev.ID)
	assert.Equal(t, stream.EventTrade, ev.Type)

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return hub.Subscribers("s1") == 0 }, 2*time.Second, 10*time.Millisecond)
}
