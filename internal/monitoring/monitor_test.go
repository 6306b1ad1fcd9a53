package monitoring

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestTrackErrorDeliversToSinks(t *testing.T) {
	var received []map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		received = append(received, payload)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	svc := NewService(zap.NewNop(),
		WithErrorSink(NewSink(server.URL, "key", time.Second)),
		WithSessionSink(NewSink(server.URL, "key", time.Second)),
	)

	svc.TrackError(errors.New("boom"), map[string]interface{}{"operation": "test"})

	require.Len(t, received, 2)
	assert.Equal(t, "error", received[0]["type"])
	assert.Equal(t, "boom", received[0]["message"])
}

func TestTrackEventWithoutSinkIsNoop(t *testing.T) {
	svc := NewService(zap.NewNop())

	// Must not panic with no sinks configured
	svc.TrackEvent("auth", "user_registered", nil)
	svc.TrackError(errors.New("boom"), nil)
	svc.SetUser("u1", "u@example.com", "U")
}

func TestSinkFailureIsSwallowed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	svc := NewService(zap.NewNop(), WithErrorSink(NewSink(server.URL, "", time.Second)))

	// The caller never sees the sink failure
	svc.TrackError(errors.New("boom"), nil)
}

func TestUnreachableSinkIsSwallowed(t *testing.T) {
	svc := NewService(zap.NewNop(),
		WithErrorSink(NewSink("http://127.0.0.1:1", "", 200*time.Millisecond)))

	svc.TrackError(errors.New("boom"), nil)
	svc.SetUser("u1", "u@example.com", "U")
}

func TestNilErrorIsIgnored(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	svc := NewService(zap.NewNop(), WithErrorSink(NewSink(server.URL, "", time.Second)))
	svc.TrackError(nil, map[string]interface{}{"operation": "test"})

	assert.False(t, called)
}
