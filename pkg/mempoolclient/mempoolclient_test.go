package mempoolclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/brc420-network/brc420-indexer/common/errs"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client, err := New(server.URL, 5*time.Second)
	require.NoError(t, err)
	return client
}

func TestGetTransaction(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tx/deadbeef", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"txid": "deadbeef",
			"fee": 1234,
			"vout": [
				{"scriptpubkey_address": "bc1qw508d6qejxtdg4y5r3zarvary0c5xw7kv8f3t4", "value": 100000},
				{"scriptpubkey_address": "1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa", "value": 546}
			]
		}`))
	}))

	tx, err := client.GetTransaction(context.Background(), "deadbeef")
	require.NoError(t, err)
	assert.Equal(t, "deadbeef", tx.TxHash)
	require.Len(t, tx.Outputs, 2)
	assert.Equal(t, "bc1qw508d6qejxtdg4y5r3zarvary0c5xw7kv8f3t4", tx.Outputs[0].Address)
	assert.Equal(t, int64(100000), tx.Outputs[0].Value)
	assert.Equal(t, int64(546), tx.Outputs[1].Value)
}

func TestGetTransactionNotFound(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	_, err := client.GetTransaction(context.Background(), "deadbeef")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.NotFound))
}

func TestGetBlockHashByHeight(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/block-height/840000", r.URL.Path)
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("0000000000000000000320283a032748cef8227873ff4872689bf23f1cda83a5\n"))
	}))

	hash, err := client.GetBlockHashByHeight(context.Background(), 840000)
	require.NoError(t, err)
	assert.Equal(t, "0000000000000000000320283a032748cef8227873ff4872689bf23f1cda83a5", hash)
}

func TestGetBlock(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/block/0000000000000000000320283a032748cef8227873ff4872689bf23f1cda83a5", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "0000000000000000000320283a032748cef8227873ff4872689bf23f1cda83a5",
			"height": 840000,
			"tx_count": 3050,
			"timestamp": 1713571767
		}`))
	}))

	block, err := client.GetBlock(context.Background(), "0000000000000000000320283a032748cef8227873ff4872689bf23f1cda83a5")
	require.NoError(t, err)
	assert.Equal(t, int64(840000), block.Height)
	assert.Equal(t, int64(3050), block.TxCount)
	assert.Equal(t, int64(1713571767), block.Timestamp)
}

func TestGetBlockServerError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	_, err := client.GetBlock(context.Background(), "deadbeef")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.SomethingWentWrong))
}
