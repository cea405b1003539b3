package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"testing"

	"stock_portfolio/internal/accounting"
	"stock_portfolio/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuyEndpoint(t *testing.T) {
	gdb := newTestDB(t)
	r := newTestRouter(gdb, newTestProvider(), newTestRedis(t))
	user := createTestUser(t, gdb, "alice", "s3cret", testStartingCash)
	cookie := sessionCookie(t, user.ID)

	w := postForm(r, "/buy", url.Values{
		"stock_symbol": {"aapl"},
		"stock_shares": {"10"},
	}, cookie)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Message     string             `json:"message"`
		Cash        float64            `json:"cash"`
		Transaction domain.Transaction `json:"transaction"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Bought", resp.Message)
	assert.Equal(t, 9500.0, resp.Cash)
	assert.Equal(t, 10, resp.Transaction.Shares)
	assert.Equal(t, 50.0, resp.Transaction.Price)

	var fetched domain.User
	require.NoError(t, gdb.First(&fetched, user.ID).Error)
	assert.Equal(t, 9500.0, fetched.Cash)
}

func TestBuyEndpointRejectsBadShareCounts(t *testing.T) {
	gdb := newTestDB(t)
	r := newTestRouter(gdb, newTestProvider(), newTestRedis(t))
	user := createTestUser(t, gdb, "alice", "s3cret", testStartingCash)
	cookie := sessionCookie(t, user.ID)

	for _, shares := range []string{"ten", "0", "-3", "2.5"} {
		w := postForm(r, "/buy", url.Values{
			"stock_symbol": {"AAPL"},
			"stock_shares": {shares},
		}, cookie)
		assert.Equal(t, http.StatusBadRequest, w.Code, "shares=%q", shares)
	}

	// Nothing was recorded
	var count int64
	require.NoError(t, gdb.Model(&domain.Transaction{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestBuyEndpointInsufficientFunds(t *testing.T) {
	gdb := newTestDB(t)
	r := newTestRouter(gdb, newTestProvider(), newTestRedis(t))
	user := createTestUser(t, gdb, "alice", "s3cret", 100)
	cookie := sessionCookie(t, user.ID)

	w := postForm(r, "/buy", url.Values{
		"stock_symbol": {"AAPL"},
		"stock_shares": {"10"},
	}, cookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Not enough cash")

	var fetched domain.User
	require.NoError(t, gdb.First(&fetched, user.ID).Error)
	assert.Equal(t, 100.0, fetched.Cash)
}

func TestBuyEndpointUnknownSymbol(t *testing.T) {
	gdb := newTestDB(t)
	r := newTestRouter(gdb, newTestProvider(), newTestRedis(t))
	user := createTestUser(t, gdb, "alice", "s3cret", testStartingCash)

	w := postForm(r, "/buy", url.Values{
		"stock_symbol": {"NOPE"},
		"stock_shares": {"1"},
	}, sessionCookie(t, user.ID))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSellEndpoint(t *testing.T) {
	gdb := newTestDB(t)
	provider := newTestProvider()
	r := newTestRouter(gdb, provider, newTestRedis(t))
	user := createTestUser(t, gdb, "alice", "s3cret", testStartingCash)
	cookie := sessionCookie(t, user.ID)

	_, _, err := accounting.Buy(context.Background(), gdb, provider, user.ID, "AAPL", 10)
	require.NoError(t, err)

	w := postForm(r, "/sell", url.Values{
		"symbol": {"AAPL"},
		"shares": {"4"},
	}, cookie)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Message     string             `json:"message"`
		Cash        float64            `json:"cash"`
		Transaction domain.Transaction `json:"transaction"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Sold", resp.Message)
	assert.Equal(t, -4, resp.Transaction.Shares)

	holding, err := accounting.NetHolding(gdb, user.ID, "AAPL")
	require.NoError(t, err)
	assert.Equal(t, 6, holding)
}

func TestSellEndpointRejectsUnheldSymbol(t *testing.T) {
	gdb := newTestDB(t)
	r := newTestRouter(gdb, newTestProvider(), newTestRedis(t))
	user := createTestUser(t, gdb, "alice", "s3cret", testStartingCash)

	w := postForm(r, "/sell", url.Values{
		"symbol": {"NFLX"},
		"shares": {"1"},
	}, sessionCookie(t, user.ID))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "No holdings")
}

func TestQuoteEndpoint(t *testing.T) {
	gdb := newTestDB(t)
	r := newTestRouter(gdb, newTestProvider(), newTestRedis(t))
	user := createTestUser(t, gdb, "alice", "s3cret", testStartingCash)
	cookie := sessionCookie(t, user.ID)

	w := postForm(r, "/quote", url.Values{"symbol": {"nflx"}}, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Netflix Inc.")

	w = postForm(r, "/quote", url.Values{"symbol": {"NOPE"}}, cookie)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPortfolioEndpoint(t *testing.T) {
	gdb := newTestDB(t)
	provider := newTestProvider()
	r := newTestRouter(gdb, provider, newTestRedis(t))
	user := createTestUser(t, gdb, "alice", "s3cret", testStartingCash)
	cookie := sessionCookie(t, user.ID)

	ctx := context.Background()
	_, _, err := accounting.Buy(ctx, gdb, provider, user.ID, "AAPL", 10)
	require.NoError(t, err)
	_, _, err = accounting.Buy(ctx, gdb, provider, user.ID, "NFLX", 2)
	require.NoError(t, err)

	w := get(r, "/", cookie)
	require.Equal(t, http.StatusOK, w.Code)

	var summary accounting.Summary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	require.Len(t, summary.Holdings, 2)
	assert.Equal(t, 10000.0-500-200, summary.Cash)
	assert.Equal(t, 10000.0, summary.Total)
	assert.Equal(t, testStartingCash, summary.StartingCash)
}

func TestHistoryEndpointCachesAndInvalidates(t *testing.T) {
	gdb := newTestDB(t)
	provider := newTestProvider()
	r := newTestRouter(gdb, provider, newTestRedis(t))
	user := createTestUser(t, gdb, "alice", "s3cret", testStartingCash)
	cookie := sessionCookie(t, user.ID)

	w := postForm(r, "/buy", url.Values{
		"stock_symbol": {"AAPL"},
		"stock_shares": {"1"},
	}, cookie)
	require.Equal(t, http.StatusOK, w.Code)

	// First read misses the cache, second one hits it
	w = get(r, "/history", cookie)
	require.Equal(t, http.StatusOK, w.Code)
	var first struct {
		Cached bool  `json:"cached"`
		Total  int64 `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &first))
	assert.False(t, first.Cached)
	assert.EqualValues(t, 1, first.Total)

	w = get(r, "/history", cookie)
	var second struct {
		Cached bool  `json:"cached"`
		Total  int64 `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &second))
	assert.True(t, second.Cached)

	// A new trade invalidates the cached page
	w = postForm(r, "/buy", url.Values{
		"stock_symbol": {"NFLX"},
		"stock_shares": {"1"},
	}, cookie)
	require.Equal(t, http.StatusOK, w.Code)

	w = get(r, "/history", cookie)
	var third struct {
		Cached bool  `json:"cached"`
		Total  int64 `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &third))
	assert.False(t, third.Cached)
	assert.EqualValues(t, 2, third.Total)
}
