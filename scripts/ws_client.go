// Package main runs a demo client: it opens the progress stream, posts a
// solve with the same id, and prints events until the final solution.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

type progressMessage struct {
	SolveID   string          `json:"solve_id"`
	Phase     string          `json:"phase"`
	Objective float64         `json:"objective,omitempty"`
	Done      bool            `json:"done,omitempty"`
	Solution  json.RawMessage `json:"solution,omitempty"`
	Error     string          `json:"error,omitempty"`
}

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	name := "r101"
	if len(os.Args) > 1 {
		name = os.Args[1]
	}
	solveID := uuid.New().String()

	// Connect the stream first so no progress is missed.
	u := url.URL{Scheme: "ws", Host: "localhost:" + port, Path: "/v1/optimize/stream", RawQuery: "solve_id=" + solveID}
	c, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		log.Fatal("dial:", err)
	}
	defer func() { _ = c.Close() }()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			var m progressMessage
			if err := c.ReadJSON(&m); err != nil {
				return
			}
			if m.Error != "" {
				log.Printf("WS <- error: %s", m.Error)
				return
			}
			log.Printf("WS <- %s objective=%.2f", m.Phase, m.Objective)
			if m.Done {
				log.Printf("WS <- solution: %s", string(m.Solution))
				return
			}
		}
	}()

	body, _ := json.Marshal(map[string]any{"dataset": name, "solve_id": solveID})
	base := fmt.Sprintf("http://localhost:%s", port)
	req, _ := http.NewRequest(http.MethodPost, base+"/v1/optimize", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = resp.Body.Close() }()
	log.Printf("POST /v1/optimize: %s", resp.Status)

	select {
	case <-done:
	case <-time.After(60 * time.Second):
		log.Print("timed out waiting for final event")
	}
}
