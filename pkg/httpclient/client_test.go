package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient() *Client {
	c := New().WithTimeout(2 * time.Second).WithRetries(2)
	c.baseWait = time.Millisecond
	return c
}

func TestGetJSONSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"answer": 42}`))
	}))
	defer srv.Close()

	var out struct {
		Answer int `json:"answer"`
	}
	require.NoError(t, newClient().GetJSON(context.Background(), srv.URL, &out))
	assert.Equal(t, 42, out.Answer)
}

func TestGetJSONRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"answer": 42}`))
	}))
	defer srv.Close()

	var out struct {
		Answer int `json:"answer"`
	}
	require.NoError(t, newClient().GetJSON(context.Background(), srv.URL, &out))
	assert.Equal(t, 42, out.Answer)
	assert.EqualValues(t, 3, calls.Load())
}

func TestGetJSONFailsFastOnClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	err := newClient().GetJSON(context.Background(), srv.URL, &struct{}{})
	require.Error(t, err)
	assert.EqualValues(t, 1, calls.Load(), "4xx must not be retried")
}

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := newClient().WithRetries(0)
	c.breaker = NewBreaker(3, time.Hour)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		err := c.GetJSON(ctx, srv.URL, &struct{}{})
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrCircuitOpen)
	}

	err := c.GetJSON(ctx, srv.URL, &struct{}{})
	assert.ErrorIs(t, err, ErrCircuitOpen)
}

func TestBreakerHalfOpenProbeRecovers(t *testing.T) {
	b := NewBreaker(2, 10*time.Millisecond)

	b.Record(false)
	b.Record(false)
	assert.False(t, b.Allow())

	time.Sleep(20 * time.Millisecond)
	assert.True(t, b.Allow(), "cooldown elapsed, one probe goes through")

	b.Record(true)
	assert.True(t, b.Allow(), "successful probe closes the breaker")
}

func TestGetJSONHonorsContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New().WithRetries(5)
	c.baseWait = time.Hour

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := c.GetJSON(ctx, srv.URL, &struct{}{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
