package http

import (
	"encoding/json"
	"log"
	"net/http"

	"solo-quiz-service/internal/app"
	"solo-quiz-service/internal/domain"
	"github.com/gorilla/websocket"
)

// WSHandler is the networked presentation layer. Each connection owns exactly
// one session: the server pushes the current question, the client answers,
// the server replies with the graded outcome and the next question until the
// session completes.
type WSHandler struct {
	service  *app.SessionService
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.SessionService) *WSHandler {
	return &WSHandler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type answerPayload struct {
	Answer string `json:"answer"`
}

type questionPayload struct {
	Number int    `json:"number"`
	Total  int    `json:"total"`
	Prompt string `json:"prompt"`
	Points int    `json:"points"`
}

type outcomePayload struct {
	Correct   bool `json:"correct"`
	Awarded   int  `json:"awarded"`
	Score     int  `json:"score"`
	Completed bool `json:"completed"`
}

type completedPayload struct {
	Score       int    `json:"score"`
	Total       int    `json:"total"`
	SinkWarning string `json:"sinkWarning,omitempty"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades HTTP requests to websockets and drives one quiz session
// over the connection.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	bankID := r.URL.Query().Get("bankId")
	name := r.URL.Query().Get("name")
	if bankID == "" || name == "" {
		http.Error(w, "missing bankId or name", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	session, err := h.service.Start(r.Context(), bankID, name)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}
	defer h.service.End(r.Context(), session.ID())

	if !h.sendCurrent(conn, session) {
		return
	}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			return
		}
		switch inbound.Type {
		case "answer":
			var payload answerPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				if !h.sendError(conn, "invalid answer payload") {
					return
				}
				continue
			}
			outcome, err := h.service.Submit(r.Context(), session.ID(), payload.Answer)
			if err != nil {
				// EmptyAnswer and friends: same question stays current.
				if !h.sendError(conn, err.Error()) {
					return
				}
				continue
			}
			if err := conn.WriteJSON(outboundMessage[outcomePayload]{Type: "outcome", Payload: outcomePayload{
				Correct:   outcome.Correct,
				Awarded:   outcome.Awarded,
				Score:     outcome.Score,
				Completed: outcome.Completed,
			}}); err != nil {
				return
			}
			if outcome.Completed {
				snapshot := session.Snapshot()
				payload := completedPayload{Score: snapshot.Score, Total: session.TotalPoints()}
				if outcome.SinkWarning != nil {
					payload.SinkWarning = outcome.SinkWarning.Error()
				}
				_ = conn.WriteJSON(outboundMessage[completedPayload]{Type: "completed", Payload: payload})
				return
			}
			if !h.sendCurrent(conn, session) {
				return
			}
		default:
			if !h.sendError(conn, "unsupported message type") {
				return
			}
		}
	}
}

func (h *WSHandler) sendCurrent(conn *websocket.Conn, session *app.Session) bool {
	question, ok := session.CurrentQuestion()
	if !ok {
		return h.sendError(conn, domain.ErrSessionComplete.Error())
	}
	snapshot := session.Snapshot()
	err := conn.WriteJSON(outboundMessage[questionPayload]{Type: "question", Payload: questionPayload{
		Number: snapshot.Position + 1,
		Total:  snapshot.Total,
		Prompt: question.Prompt,
		Points: question.EffectivePoints(),
	}})
	return err == nil
}

func (h *WSHandler) sendError(conn *websocket.Conn, message string) bool {
	err := conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: message}})
	if err != nil {
		log.Printf("ws write error: %v", err)
		return false
	}
	return true
}
