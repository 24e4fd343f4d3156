package intake

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marmos91/triggerfish/pkg/event"
	"github.com/marmos91/triggerfish/pkg/mc"
)

const testSecret = "intake-test-secret"

// stubEngine mimics the engine's contract: reject invalid events before
// side effects, otherwise run a caller-provided chain and fail open.
type stubEngine struct {
	invoke  func(ev *event.Event, responder mc.RequestController)
	handled int
}

func (s *stubEngine) Handle(_ context.Context, ev *event.Event, responder mc.RequestController) error {
	if err := ev.Validate(); err != nil {
		return err
	}
	s.handled++
	if s.invoke != nil {
		s.invoke(ev, responder)
	}
	return responder.Forward()
}

func newTestServer(t *testing.T, eng EventHandler, mutate func(*Config)) *Server {
	t.Helper()
	cfg := Config{
		Secret:         testSecret,
		ForwardTimeout: time.Second,
	}
	if mutate != nil {
		mutate(&cfg)
	}
	srv, err := NewServer(cfg, eng)
	require.NoError(t, err)
	return srv
}

func signedRequest(t *testing.T, body []byte) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/events", bytes.NewReader(body))
	req.Header.Set(SignatureHeader, Sign(testSecret, body))
	return req
}

func validEventBody(t *testing.T) []byte {
	t.Helper()
	ev := event.New(event.TriggerGet,
		event.ObjectRef{Bucket: "models", Key: "weights.bin"},
		event.RequestInfo{ID: "req-1"})
	body, err := json.Marshal(ev)
	require.NoError(t, err)
	return body
}

func TestNewServer_RequiresSecret(t *testing.T) {
	_, err := NewServer(Config{}, &stubEngine{})
	require.Error(t, err)
}

func TestNewServer_RequiresHandler(t *testing.T) {
	_, err := NewServer(Config{Secret: testSecret}, nil)
	require.Error(t, err)
}

func TestHandleEvent_Accepted(t *testing.T) {
	eng := &stubEngine{}
	srv := newTestServer(t, eng, nil)

	w := httptest.NewRecorder()
	srv.handleEvent(w, signedRequest(t, validEventBody(t)))

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, 1, eng.handled)
}

func TestHandleEvent_ForwardMidChain(t *testing.T) {
	var forwardedDuringChain bool
	eng := &stubEngine{
		invoke: func(_ *event.Event, responder mc.RequestController) {
			require.NoError(t, responder.Forward())
			// Work after forward must not change the response.
			forwardedDuringChain = true
		},
	}
	srv := newTestServer(t, eng, nil)

	w := httptest.NewRecorder()
	srv.handleEvent(w, signedRequest(t, validEventBody(t)))

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.True(t, forwardedDuringChain)
}

func TestHandleEvent_MissingSignature(t *testing.T) {
	eng := &stubEngine{}
	srv := newTestServer(t, eng, nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/events", bytes.NewReader(validEventBody(t)))
	w := httptest.NewRecorder()
	srv.handleEvent(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Zero(t, eng.handled)
}

func TestHandleEvent_WrongSignature(t *testing.T) {
	eng := &stubEngine{}
	srv := newTestServer(t, eng, nil)

	body := validEventBody(t)
	req := httptest.NewRequest(http.MethodPost, "/v1/events", bytes.NewReader(body))
	req.Header.Set(SignatureHeader, Sign("some-other-secret", body))
	w := httptest.NewRecorder()
	srv.handleEvent(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Zero(t, eng.handled)
}

func TestHandleEvent_MalformedPayload(t *testing.T) {
	srv := newTestServer(t, &stubEngine{}, nil)

	body := []byte("{not json")
	req := httptest.NewRequest(http.MethodPost, "/v1/events", bytes.NewReader(body))
	req.Header.Set(SignatureHeader, Sign(testSecret, body))
	w := httptest.NewRecorder()
	srv.handleEvent(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleEvent_InvalidEvent(t *testing.T) {
	eng := &stubEngine{}
	srv := newTestServer(t, eng, nil)

	// Missing object key fails validation inside the engine.
	body, err := json.Marshal(map[string]any{
		"trigger": "onget",
		"object":  map[string]string{"bucket": "models"},
		"request": map[string]string{"id": "req-1"},
	})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	srv.handleEvent(w, signedRequest(t, body))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, eng.handled)
}

func TestHandleEvent_PayloadTooLarge(t *testing.T) {
	srv := newTestServer(t, &stubEngine{}, func(cfg *Config) {
		cfg.MaxBodyBytes = 16
	})

	body := validEventBody(t)
	w := httptest.NewRecorder()
	srv.handleEvent(w, signedRequest(t, body))

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestHandleEvent_ForwardTimeout(t *testing.T) {
	released := make(chan struct{})
	eng := &stubEngine{
		invoke: func(_ *event.Event, responder mc.RequestController) {
			// Never forward explicitly; wait for the force-release.
			deadline := time.After(2 * time.Second)
			for {
				if r, ok := responder.(*httpResponder); ok && r.Forwarded() {
					close(released)
					return
				}
				select {
				case <-deadline:
					return
				case <-time.After(10 * time.Millisecond):
				}
			}
		},
	}
	srv := newTestServer(t, eng, func(cfg *Config) {
		cfg.ForwardTimeout = 50 * time.Millisecond
	})

	w := httptest.NewRecorder()
	srv.handleEvent(w, signedRequest(t, validEventBody(t)))

	select {
	case <-released:
	default:
		t.Fatal("expected forward timeout to release the response")
	}
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestSignature_RoundTrip(t *testing.T) {
	body := []byte(`{"hello":"world"}`)

	sig := Sign(testSecret, body)
	assert.True(t, verifySignature(testSecret, body, sig))
	assert.False(t, verifySignature(testSecret, body, ""))
	assert.False(t, verifySignature(testSecret, body, "zz-not-hex"))
	assert.False(t, verifySignature(testSecret, []byte("tampered"), sig))
	assert.False(t, verifySignature("wrong-secret", body, sig))
}

func TestHandleHealth(t *testing.T) {
	srv := newTestServer(t, &stubEngine{}, nil)

	w := httptest.NewRecorder()
	srv.handleHealth(w, httptest.NewRequest(http.MethodGet, "/v1/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}
