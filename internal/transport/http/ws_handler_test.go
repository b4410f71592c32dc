package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"solo-quiz-service/internal/app"
	"solo-quiz-service/internal/domain"
	"solo-quiz-service/internal/infra/logfile"
	"solo-quiz-service/internal/infra/memory"
	"github.com/gorilla/websocket"
)

func TestWebSocketSessionFlow(t *testing.T) {
	registry := memory.NewSessionRegistry()
	banks := memory.NewBankRepository(memory.NewStaticBankLoader(sampleBanks()), time.Minute)
	sink := logfile.NewSink(t.TempDir() + "/results.log")
	service := app.NewSessionService(registry, banks, sink)
	wsHandler := NewWSHandler(service)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", wsHandler.ServeWS)
	server := httptest.NewServer(mux)
	defer server.Close()

	u := "ws" + server.URL[len("http"):] + "/ws?bankId=bank-1&name=Alice"
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// First question is pushed immediately.
	typ, payload := readNext(conn, t, "question")
	if payload["prompt"] != "What is 2 + 2?" {
		t.Fatalf("unexpected first question %+v", payload)
	}

	// Blank answer: error, same question stays current.
	writeAnswer(conn, t, "   ")
	typ, payload = readNext(conn, t, "error")
	if payload["message"] == "" {
		t.Fatalf("expected validation message, got %+v", payload)
	}

	writeAnswer(conn, t, "4")
	typ, payload = readNext(conn, t, "outcome")
	if payload["correct"] != true || payload["score"] != float64(5) {
		t.Fatalf("unexpected outcome %+v", payload)
	}

	typ, payload = readNext(conn, t, "question")
	if payload["prompt"] != "Capital of France?" {
		t.Fatalf("unexpected second question %+v", payload)
	}

	writeAnswer(conn, t, "london")
	typ, payload = readNext(conn, t, "outcome")
	if payload["correct"] != false || payload["completed"] != true {
		t.Fatalf("unexpected final outcome %+v", payload)
	}

	typ, payload = readNext(conn, t, "completed")
	if typ != "completed" || payload["score"] != float64(5) || payload["total"] != float64(10) {
		t.Fatalf("unexpected completion %+v", payload)
	}
}

func TestWebSocketRejectsMissingParams(t *testing.T) {
	service := app.NewSessionService(memory.NewSessionRegistry(),
		memory.NewBankRepository(memory.NewStaticBankLoader(sampleBanks()), time.Minute), nil)
	server := httptest.NewServer(http.HandlerFunc(NewWSHandler(service).ServeWS))
	defer server.Close()

	resp, err := http.Get(server.URL + "?bankId=bank-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func writeAnswer(conn *websocket.Conn, t *testing.T, answer string) {
	t.Helper()
	msg := map[string]any{
		"type":    "answer",
		"payload": map[string]any{"answer": answer},
	}
	if err := conn.WriteJSON(msg); err != nil {
		t.Fatalf("write answer: %v", err)
	}
}

func readNext(conn *websocket.Conn, t *testing.T, expect string) (string, map[string]any) {
	t.Helper()
	var msg struct {
		Type    string         `json:"type"`
		Payload map[string]any `json:"payload"`
	}
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read json: %v", err)
	}
	if expect != "" && msg.Type != expect {
		t.Fatalf("expected type %s, got %s (%+v)", expect, msg.Type, msg.Payload)
	}
	return msg.Type, msg.Payload
}

func sampleBanks() map[string]domain.Bank {
	return map[string]domain.Bank{
		"bank-1": {
			ID: "bank-1",
			Questions: []domain.Question{
				{
					Prompt: "What is 2 + 2?",
					Points: 5,
					Rule:   domain.GradingRule{Kind: domain.RuleExactMatch, Reference: "4"},
				},
				{
					Prompt: "Capital of France?",
					Points: 5,
					Rule:   domain.GradingRule{Kind: domain.RuleExactMatch, Reference: "Paris"},
				},
			},
		},
	}
}
