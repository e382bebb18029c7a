package notify

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/stretchr/testify/require"

	"github.com/spreadpools/pickem-backend/internal/platform/logging"
	"github.com/spreadpools/pickem-backend/internal/platform/resilience"
)

func newTestNotifier(url string, circuit resilience.CircuitBreakerConfig) *WebhookNotifier {
	return NewWebhookNotifier(WebhookConfig{
		URL:            url,
		Token:          "hook-token",
		Timeout:        2 * time.Second,
		CircuitBreaker: circuit,
	}, logging.NewNop())
}

func TestWebhookNotifier_PublishPostsEvent(t *testing.T) {
	var gotAuth atomic.Value
	var gotBody atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		gotAuth.Store(r.Header.Get("Authorization"))
		gotBody.Store(body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := newTestNotifier(srv.URL, resilience.DefaultCircuitBreakerConfig())
	err := n.Publish(context.Background(), Event{
		Kind:    KindGameGraded,
		Subject: "Clemson at Georgia *",
		Message: "Final: Georgia *. 3 picks graded.",
	})
	require.NoError(t, err)
	require.Equal(t, "Bearer hook-token", gotAuth.Load())

	var event Event
	require.NoError(t, sonic.Unmarshal(gotBody.Load().([]byte), &event))
	require.Equal(t, KindGameGraded, event.Kind)
	require.Equal(t, "Clemson at Georgia *", event.Subject)
	require.False(t, event.SentAt.IsZero())
}

func TestWebhookNotifier_NoURLIsNoop(t *testing.T) {
	n := newTestNotifier("", resilience.DefaultCircuitBreakerConfig())
	require.False(t, n.Enabled())
	require.NoError(t, n.Publish(context.Background(), Event{Kind: KindPasswordReset}))
}

func TestWebhookNotifier_ServerErrorOpensCircuit(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	n := newTestNotifier(srv.URL, resilience.CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: 2,
		OpenTimeout:      time.Minute,
		HalfOpenMaxReq:   1,
	})

	require.Error(t, n.Publish(context.Background(), Event{Kind: KindGameGraded}))
	require.Error(t, n.Publish(context.Background(), Event{Kind: KindGameGraded}))

	// Breaker is open now, so the third publish never reaches the server.
	require.Error(t, n.Publish(context.Background(), Event{Kind: KindGameGraded}))
	require.Equal(t, int64(2), calls.Load())
}

func TestWebhookNotifier_ClientErrorDoesNotTripCircuit(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	n := newTestNotifier(srv.URL, resilience.CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: 2,
		OpenTimeout:      time.Minute,
		HalfOpenMaxReq:   1,
	})

	for i := 0; i < 4; i++ {
		require.Error(t, n.Publish(context.Background(), Event{Kind: KindPasswordReset}))
	}
	require.Equal(t, int64(4), calls.Load())
}

func TestNotifier_GameGradedShapesEvent(t *testing.T) {
	var gotBody atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		gotBody.Store(body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := NewNotifier(newTestNotifier(srv.URL, resilience.DefaultCircuitBreakerConfig()))
	require.NoError(t, n.GameGraded(context.Background(), "Georgia *", "Clemson", "Georgia *", 3))

	var event Event
	require.NoError(t, sonic.Unmarshal(gotBody.Load().([]byte), &event))
	require.Equal(t, KindGameGraded, event.Kind)
	require.Equal(t, "Clemson at Georgia *", event.Subject)
	require.Equal(t, "Final: Georgia *. 3 picks graded.", event.Message)
	require.Equal(t, "Georgia *", event.Meta["winner"])
}
