package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"papertrading/src/model"
	"papertrading/src/repository"
	"papertrading/src/stream"
)

// serve routes a single request through chi so URL params resolve as in production.
func serve(method, pattern, target, body string, h http.HandlerFunc) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.Method(method, pattern, h)

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), dst))
}

type recordingPublisher struct {
	events []stream.Event
}

func (p *recordingPublisher) Publish(ev stream.Event) {
	p.events = append(p.events, ev)
}

type mockSessionStore struct {
	sessions []model.SessionSummary
	created  *model.TradingSession
	err      error
}

func (m *mockSessionStore) List(ctx context.Context) ([]model.SessionSummary, error) {
	return m.sessions, m.err
}

func (m *mockSessionStore) Create(ctx context.Context, session *model.TradingSession) error {
	if m.err != nil {
		return m.err
	}
	session.ID = 7
	m.created = session
	return nil
}

type mockTradeStore struct {
	trades      []model.Trade
	filter      repository.TradeFilter
	sessionID   string
	created     *model.Trade
	err         error
	calledCount int
}

func (m *mockTradeStore) List(ctx context.Context, sessionID string, filter repository.TradeFilter) ([]model.Trade, error) {
	m.calledCount++
	m.sessionID = sessionID
	m.filter = filter
	return m.trades, m.err
}

func (m *mockTradeStore) Create(ctx context.Context, trade *model.Trade) error {
	m.calledCount++
	if m.err != nil {
		return m.err
	}
	trade.ID = 11
	m.created = trade
	return nil
}

type mockLogStore struct {
	logs    []model.AgentLog
	filter  repository.LogFilter
	created *model.AgentLog
	err     error
}

func (m *mockLogStore) List(ctx context.Context, sessionID string, filter repository.LogFilter) ([]model.AgentLog, error) {
	m.filter = filter
	return m.logs, m.err
}

func (m *mockLogStore) Create(ctx context.Context, entry *model.AgentLog) error {
	if m.err != nil {
		return m.err
	}
	entry.ID = 3
	m.created = entry
	return nil
}

type mockConfigStore struct {
	latest  *model.TradingConfig
	created *model.TradingConfig
	err     error
}

func (m *mockConfigStore) Latest(ctx context.Context, sessionID string) (*model.TradingConfig, error) {
	return m.latest, m.err
}

func (m *mockConfigStore) Create(ctx context.Context, cfg *model.TradingConfig) error {
	if m.err != nil {
		return m.err
	}
	cfg.ID = 5
	m.created = cfg
	return nil
}

func TestListSessionsHandler(t *testing.T) {
	store := &mockSessionStore{sessions: []model.SessionSummary{
		{ID: 1, SessionID: "s1", TotalTrades: 2, WinningTrades: 1, TotalPnl: 3},
	}}

	rr := serve(http.MethodGet, "/sessions", "/sessions", "", ListSessionsHandler(store))

	require.Equal(t, http.StatusOK, rr.Code)
	var got []map[string]interface{}
	decodeBody(t, rr, &got)
	require.Len(t, got, 1)
	assert.Equal(t, "s1", got[0]["session_id"])
	assert.EqualValues(t, 2, got[0]["total_trades"])
	assert.EqualValues(t, 3, got[0]["total_pnl"])
}

func TestListSessionsHandler_Empty(t *testing.T) {
	rr := serve(http.MethodGet, "/sessions", "/sessions", "", ListSessionsHandler(&mockSessionStore{}))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "[]\n", rr.Body.String())
}

func TestListSessionsHandler_StoreError(t *testing.T) {
	store := &mockSessionStore{err: assert.AnError}

	rr := serve(http.MethodGet, "/sessions", "/sessions", "", ListSessionsHandler(store))

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	var got errorResponse
	decodeBody(t, rr, &got)
	assert.Equal(t, assert.AnError.Error(), got.Error)
}

func TestCreateSessionHandler(t *testing.T) {
	store := &mockSessionStore{}

	rr := serve(http.MethodPost, "/sessions", "/sessions",
		`{"session_id":"s1","session_name":"First","notes":"n"}`, CreateSessionHandler(store))

	require.Equal(t, http.StatusOK, rr.Code)
	var got createdResponse
	decodeBody(t, rr, &got)
	assert.True(t, got.Success)
	assert.EqualValues(t, 7, got.ID)
	require.NotNil(t, store.created)
	assert.Equal(t, "s1", store.created.SessionID)
	assert.Equal(t, "First", store.created.SessionName)
}

func TestCreateSessionHandler_GeneratesID(t *testing.T) {
	store := &mockSessionStore{}

	rr := serve(http.MethodPost, "/sessions", "/sessions", `{"session_name":"anon"}`, CreateSessionHandler(store))

	require.Equal(t, http.StatusOK, rr.Code)
	require.NotNil(t, store.created)
	assert.True(t, strings.HasPrefix(store.created.SessionID, "session_"))
}

func TestCreateSessionHandler_MalformedJSON(t *testing.T) {
	store := &mockSessionStore{}

	rr := serve(http.MethodPost, "/sessions", "/sessions", `{"session_id":`, CreateSessionHandler(store))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Nil(t, store.created)
}

func TestListTradesHandler_Defaults(t *testing.T) {
	store := &mockTradeStore{trades: []model.Trade{{ID: 1, SessionID: "s1", Side: "buy"}}}

	rr := serve(http.MethodGet, "/sessions/{sessionId}/trades", "/sessions/s1/trades", "", ListTradesHandler(store))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "s1", store.sessionID)
	assert.Equal(t, repository.DefaultTradeLimit, store.filter.Limit)
	assert.Empty(t, store.filter.Side)
}

func TestListTradesHandler_Filters(t *testing.T) {
	store := &mockTradeStore{}

	rr := serve(http.MethodGet, "/sessions/{sessionId}/trades", "/sessions/s1/trades?limit=5&side=sell", "", ListTradesHandler(store))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 5, store.filter.Limit)
	assert.Equal(t, "sell", store.filter.Side)
	assert.Equal(t, "[]\n", rr.Body.String())
}

func TestListTradesHandler_ClampsLimit(t *testing.T) {
	store := &mockTradeStore{}

	rr := serve(http.MethodGet, "/sessions/{sessionId}/trades", "/sessions/s1/trades?limit=50000", "", ListTradesHandler(store))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, repository.MaxListLimit, store.filter.Limit)
}

func TestListTradesHandler_RejectsBadInput(t *testing.T) {
	cases := map[string]string{
		"non numeric limit": "/sessions/s1/trades?limit=abc",
		"zero limit":        "/sessions/s1/trades?limit=0",
		"negative limit":    "/sessions/s1/trades?limit=-3",
		"unknown side":      "/sessions/s1/trades?side=short",
	}

	for name, target := range cases {
		t.Run(name, func(t *testing.T) {
			store := &mockTradeStore{}

			rr := serve(http.MethodGet, "/sessions/{sessionId}/trades", target, "", ListTradesHandler(store))

			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Zero(t, store.calledCount)
		})
	}
}

func TestSaveTradeHandler(t *testing.T) {
	store := &mockTradeStore{}
	events := &recordingPublisher{}
	body := `{"id":"t-1","side":"sell","asset":"BTC","exchange":"paper","price":100,"quantity":0.5,` +
		`"value":50,"fee":0.05,"pnl":5,"strategy":"momentum","marketConditions":{"trend":"up"}}`

	rr := serve(http.MethodPost, "/sessions/{sessionId}/trades", "/sessions/s1/trades", body, SaveTradeHandler(store, events))

	require.Equal(t, http.StatusOK, rr.Code)
	var got createdResponse
	decodeBody(t, rr, &got)
	assert.EqualValues(t, 11, got.ID)

	require.NotNil(t, store.created)
	assert.Equal(t, "s1", store.created.SessionID)
	assert.Equal(t, "t-1", store.created.TradeID)
	assert.Equal(t, 5.0, store.created.Pnl)
	assert.JSONEq(t, `{"trend":"up"}`, string(store.created.MarketConditions))

	require.Len(t, events.events, 1)
	assert.Equal(t, stream.EventTrade, events.events[0].Type)
	assert.Equal(t, "s1", events.events[0].SessionID)
	assert.EqualValues(t, 11, events.events[0].ID)
}

func TestSaveTradeHandler_InvalidSide(t *testing.T) {
	for _, side := range []string{"hold", "BUY", "Sell", ""} {
		t.Run(side, func(t *testing.T) {
			store := &mockTradeStore{}
			events := &recordingPublisher{}

			rr := serve(http.MethodPost, "/sessions/{sessionId}/trades", "/sessions/s1/trades",
				`{"side":"`+side+`","asset":"BTC"}`, SaveTradeHandler(store, events))

			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Zero(t, store.calledCount)
			assert.Empty(t, events.events)
		})
	}
}

func TestSaveTradeHandler_StoreError(t *testing.T) {
	store := &mockTradeStore{err: assert.AnError}
	events := &recordingPublisher{}

	rr := serve(http.MethodPost, "/sessions/{sessionId}/trades", "/sessions/s1/trades",
		`{"side":"buy","asset":"BTC"}`, SaveTradeHandler(store, events))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Empty(t, events.events)
}

func TestListLogsHandler(t *testing.T) {
	store := &mockLogStore{}

	rr := serve(http.MethodGet, "/sessions/{sessionId}/logs", "/sessions/s1/logs?type=thought", "", ListLogsHandler(store))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "thought", store.filter.Type)
	assert.Equal(t, repository.DefaultLogLimit, store.filter.Limit)
	assert.Equal(t, "[]\n", rr.Body.String())
}

func TestSaveLogHandler(t *testing.T) {
	store := &mockLogStore{}

	rr := serve(http.MethodPost, "/sessions/{sessionId}/logs", "/sessions/s1/logs",
		`{"type":"thought","content":"hmm","data":{"k":1}}`, SaveLogHandler(store, nil))

	require.Equal(t, http.StatusOK, rr.Code)
	require.NotNil(t, store.created)
	assert.Equal(t, "thought", store.created.LogType)
	assert.JSONEq(t, `{"k":1}`, string(store.created.Data))
}

func TestSaveLogHandler_InvalidData(t *testing.T) {
	store := &mockLogStore{err: repository.ErrInvalidJSON}

	rr := serve(http.MethodPost, "/sessions/{sessionId}/logs", "/sessions/s1/logs",
		`{"type":"thought","content":"hmm"}`, SaveLogHandler(store, nil))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGetConfigHandler_Empty(t *testing.T) {
	rr := serve(http.MethodGet, "/sessions/{sessionId}/config", "/sessions/s1/config", "", GetConfigHandler(&mockConfigStore{}))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{}`, rr.Body.String())
}

func TestGetConfigHandler_Latest(t *testing.T) {
	store := &mockConfigStore{latest: &model.TradingConfig{ID: 2, SessionID: "s1", Exchange: "paper"}}

	rr := serve(http.MethodGet, "/sessions/{sessionId}/config", "/sessions/s1/config", "", GetConfigHandler(store))

	require.Equal(t, http.StatusOK, rr.Code)
	var got map[string]interface{}
	decodeBody(t, rr, &got)
	assert.Equal(t, "paper", got["exchange"])
}

func TestSaveConfigHandler(t *testing.T) {
	store := &mockConfigStore{}
	events := &recordingPublisher{}

	rr := serve(http.MethodPost, "/sessions/{sessionId}/config", "/sessions/s1/config",
		`{"exchange":"paper","asset":"BTC","strategy":"grid"}`, SaveConfigHandler(store, events))

	require.Equal(t, http.StatusOK, rr.Code)
	require.NotNil(t, store.created)
	assert.Equal(t, "s1", store.created.SessionID)
	assert.False(t, store.created.ChartOverlayEnabled)
	require.Len(t, events.events, 1)
	assert.Equal(t, stream.EventConfig, events.events[0].Type)
}
