package clients

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"allocation-backend/internal/resolver"
)

func testEntityID() resolver.EntityID {
	var id resolver.EntityID
	for i := range id {
		id[i] = 0x42
	}
	return id
}

func TestFetchConfirmedSuccess(t *testing.T) {
	id := testEntityID()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/allocation", r.URL.Path)
		assert.Equal(t, id.Hex(), r.URL.Query().Get("entityId"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"usdt_allocation": 2.5, "clearing_price": 0.04}`))
	}))
	defer srv.Close()

	c := NewOffChainAllocationClient(srv.URL, 5*time.Second)
	allocation, reason := c.FetchConfirmed(context.Background(), id)

	assert.Empty(t, reason)
	require.NotNil(t, allocation)
	require.NotNil(t, allocation.USDTAllocation)
	assert.Equal(t, 2.5, *allocation.USDTAllocation)
	require.NotNil(t, allocation.ClearingPrice)
	assert.Equal(t, 0.04, *allocation.ClearingPrice)
	assert.Nil(t, allocation.TokenAllocation)
}

func TestFetchConfirmedNoAllocation(t *testing.T) {
	// A valid response without positive allocation figures is "no
	// off-chain allocation", not an error.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"clearing_price": 0.04}`))
	}))
	defer srv.Close()

	c := NewOffChainAllocationClient(srv.URL, 5*time.Second)
	allocation, reason := c.FetchConfirmed(context.Background(), testEntityID())

	assert.Nil(t, allocation)
	assert.Empty(t, reason)
}

func TestFetchConfirmedZeroAllocationIsAbsent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"usdt_allocation": 0, "token_allocation": 0}`))
	}))
	defer srv.Close()

	c := NewOffChainAllocationClient(srv.URL, 5*time.Second)
	allocation, reason := c.FetchConfirmed(context.Background(), testEntityID())

	assert.Nil(t, allocation)
	assert.Empty(t, reason)
}

func TestFetchConfirmedServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewOffChainAllocationClient(srv.URL, 5*time.Second)
	allocation, reason := c.FetchConfirmed(context.Background(), testEntityID())

	assert.Nil(t, allocation)
	assert.Contains(t, reason, "status 500")
}

func TestFetchConfirmedMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>not json</html>`))
	}))
	defer srv.Close()

	c := NewOffChainAllocationClient(srv.URL, 5*time.Second)
	allocation, reason := c.FetchConfirmed(context.Background(), testEntityID())

	assert.Nil(t, allocation)
	assert.Contains(t, reason, "malformed")
}

func TestFetchConfirmedTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listening

	c := NewOffChainAllocationClient(srv.URL, time.Second)
	allocation, reason := c.FetchConfirmed(context.Background(), testEntityID())

	assert.Nil(t, allocation)
	assert.Contains(t, reason, "unreachable")
}
