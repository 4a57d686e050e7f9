package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/dkvc/AutumSem-OR/internal/model"
)

func TestOptimizeStream(t *testing.T) {
	s := newTestServer(t)
	ts := httptest.NewServer(http.HandlerFunc(s.OptimizeStreamHandler))
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "?solve_id=solve-1"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// Give the handler time to subscribe before publishing.
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		s.Broker.Publish("solve-1", model.ProgressMessage{SolveID: "solve-1", Phase: "construction", Objective: 40})
		_ = conn.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
		var evt model.ProgressMessage
		if err := conn.ReadJSON(&evt); err == nil {
			if evt.Phase != "construction" || evt.Objective != 40 {
				t.Fatalf("event: got %+v", evt)
			}
			return
		}
	}
	t.Fatal("no progress event received")
}

func TestOptimizeStreamClosesOnDone(t *testing.T) {
	s := newTestServer(t)
	ts := httptest.NewServer(http.HandlerFunc(s.OptimizeStreamHandler))
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "?solve_id=solve-2"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	done := model.ProgressMessage{SolveID: "solve-2", Phase: "done", Done: true}
	var got model.ProgressMessage
	received := false
	deadline := time.Now().Add(5 * time.Second)
	for !received && time.Now().Before(deadline) {
		s.Broker.Publish("solve-2", done)
		_ = conn.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
		if err := conn.ReadJSON(&got); err == nil {
			received = true
		}
	}
	if !received || !got.Done {
		t.Fatalf("final event: received=%v got %+v", received, got)
	}
	// The server closes the connection after the final event.
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Fatal("expected connection close after final event")
	}
}

func TestOptimizeStreamRequiresSolveID(t *testing.T) {
	s := newTestServer(t)
	rr := httptest.NewRecorder()
	s.OptimizeStreamHandler(rr, httptest.NewRequest(http.MethodGet, "/v1/optimize/stream", nil))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("got %d", rr.Code)
	}
}
