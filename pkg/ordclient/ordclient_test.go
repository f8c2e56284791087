package ordclient

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

func TestGetBlockInscriptions(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/block/840000", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"inscriptions":["aai0","bbi1"],"height":840000}`))
	}))

	ids, err := client.GetBlockInscriptions(context.Background(), 840000)
	require.NoError(t, err)
	assert.Equal(t, []string{"aai0", "bbi1"}, ids)
}

func TestGetBlockInscriptionsEmpty(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"inscriptions":[]}`))
	}))

	ids, err := client.GetBlockInscriptions(context.Background(), 840001)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestGetBlockInscriptionsServerError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	_, err := client.GetBlockInscriptions(context.Background(), 840000)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.SomethingWentWrong))
}

func TestGetInscriptionContent(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/content/aai0", r.URL.Path)
		w.Header().Set("Content-Type", "text/plain;charset=utf-8")
		_, _ = w.Write([]byte("777.bitmap"))
	}))

	content, err := client.GetInscriptionContent(context.Background(), "aai0")
	require.NoError(t, err)
	assert.Equal(t, []byte("777.bitmap"), content.Body)
	assert.Equal(t, "text/plain;charset=utf-8", content.ContentType)
}

func TestGetInscriptionContentNotFound(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	_, err := client.GetInscriptionContent(context.Background(), "aai0")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.NotFound))
}

func TestGetOutputAddress(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/output/deadbeef:0", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"address":"bc1qw508d6qejxtdg4y5r3zarvary0c5xw7kv8f3t4","value":546}`))
	}))

	address, err := client.GetOutputAddress(context.Background(), "deadbeef", 0)
	require.NoError(t, err)
	assert.Equal(t, "bc1qw508d6qejxtdg4y5r3zarvary0c5xw7kv8f3t4", address)
}

func TestGetChildren(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/children/aai0", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ids":["cci0"],"more":false}`))
	}))

	children, err := client.GetChildren(context.Background(), "aai0")
	require.NoError(t, err)
	assert.Equal(t, []string{"cci0"}, children)
}
