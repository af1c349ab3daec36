package live

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Dosada05/livescore/models"
	"github.com/gorilla/websocket"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestUpdateMarshalFlat(t *testing.T) {
	g := &models.Game{ID: 42, Sport: models.SportBasketball, Status: models.GameStatusLive, Team1Score: 10, Team2Score: 7}
	u := NewUpdate("shot", g, map[string]any{"player_id": 5, "points_scored": 3, "game_id": 999})
	if u.ID == "" {
		t.Fatal("update has no id")
	}

	raw, err := json.Marshal(u)
	if err != nil {
		t.Fatal(err)
	}
	var got map[string]any
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatal(err)
	}
	checks := map[string]any{
		"kind":          "shot",
		"game_id":       float64(42),
		"sport":         "BASKETBALL",
		"status":        "LIVE",
		"team1_score":   float64(10),
		"team2_score":   float64(7),
		"player_id":     float64(5),
		"points_scored": float64(3),
	}
	for k, want := range checks {
		if got[k] != want {
			t.Errorf("%s = %v, want %v", k, got[k], want)
		}
	}
}

type recordingSink struct {
	mu       sync.Mutex
	payloads []string
	err      error
}

func (s *recordingSink) Deliver(_ context.Context, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payloads = append(s.payloads, string(payload))
	return s.err
}

func (s *recordingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.payloads)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestAsyncPublisherPreservesOrder(t *testing.T) {
	failing := &recordingSink{err: errors.New("redis down")}
	ok := &recordingSink{}
	p := NewAsyncPublisher(16, testLogger(), failing, ok)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go p.Run(ctx)

	g := &models.Game{ID: 1}
	for i := 0; i < 10; i++ {
		g.Team1Score = i
		p.Publish(NewUpdate("score", g, nil))
	}
	waitFor(t, func() bool { return ok.count() == 10 })

	for i, payload := range ok.payloads {
		var u map[string]any
		if err := json.Unmarshal([]byte(payload), &u); err != nil {
			t.Fatal(err)
		}
		if int(u["team1_score"].(float64)) != i {
			t.Errorf("payload %d has score %v", i, u["team1_score"])
		}
	}
	if failing.count() != 10 {
		t.Errorf("failing sink saw %d updates, want 10", failing.count())
	}
}

func TestAsyncPublisherDropsWhenFull(t *testing.T) {
	p := NewAsyncPublisher(2, testLogger())
	g := &models.Game{ID: 1}
	done := make(chan struct{})
	go func() {
		for i := 0; i < 5; i++ {
			p.Publish(NewUpdate("score", g, nil))
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked on a full queue")
	}
	if p.Dropped() != 3 {
		t.Errorf("dropped = %d, want 3", p.Dropped())
	}
}

func TestHubDeliversToViewers(t *testing.T) {
	hub := NewHub(testLogger())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	upgrader := websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.Serve(conn)
	}))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	waitFor(t, func() bool { return hub.ClientCount() == 1 })

	if err := hub.Deliver(context.Background(), []byte(`{"kind":"score"}`)); err != nil {
		t.Fatal(err)
	}
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(msg) != `{"kind":"score"}` {
		t.Errorf("message = %s", msg)
	}

	conn.Close()
	waitFor(t, func() bool { return hub.ClientCount() == 0 })
}
