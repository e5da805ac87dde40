package http

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"live-quiz-service/internal/app"
	"live-quiz-service/internal/domain"
)

// Inbound message types.
const (
	msgCreateGame        = "create_game"
	msgAdminJoinRoom     = "admin_join_room"
	msgJoinGame          = "join_game"
	msgStartNextQuestion = "start_next_question"
	msgSubmitAnswer      = "submit_answer"
	msgLeaveGame         = "leave_game"
)

// WSHandler is the connection gateway: it gives each websocket a stable identity,
// turns its messages into game operations and drains its outbound queue.
type WSHandler struct {
	service  *app.GameService
	hub      *Hub
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.GameService, hub *Hub) *WSHandler {
	return &WSHandler{
		service: service,
		hub:     hub,
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

type createPayload struct {
	QuizID string `json:"quizId"`
}

type pinPayload struct {
	PIN string `json:"pin"`
}

type joinPayload struct {
	PIN        string `json:"pin"`
	PlayerName string `json:"playerName"`
}

type answerPayload struct {
	PIN         string `json:"pin"`
	AnswerIndex *int   `json:"answerIndex"`
	TimeTaken   int64  `json:"timeTaken"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// connection is the gateway-side state of one websocket.
type connection struct {
	id    string
	rooms map[string]struct{}
}

// ServeWS upgrades HTTP requests to websockets and wires them into the game use cases.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	ctx := r.Context()
	c := &connection{id: uuid.NewString(), rooms: make(map[string]struct{})}
	outbound := h.hub.register(c.id)

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for event := range outbound {
			if err := conn.WriteJSON(event); err != nil {
				log.Printf("ws write error: %v", err)
				break
			}
		}
		if h.hub.overflowed(c.id) {
			log.Printf("connection %s fell behind, closing", c.id)
		}
		// unblocks the read loop so the connection leaves its rooms
		conn.Close()
	}()

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		h.dispatch(ctx, c, inbound)
	}

	// A dropped connection leaves every room it touched.
	for pin := range c.rooms {
		h.service.Leave(ctx, pin, c.id)
	}
	h.hub.unregister(c.id)
	<-writerDone
}

func (h *WSHandler) dispatch(ctx context.Context, c *connection, inbound inboundMessage) {
	switch inbound.Type {
	case msgCreateGame:
		var payload createPayload
		if !h.decode(c, inbound, &payload) {
			return
		}
		pin, err := h.service.CreateSession(ctx, payload.QuizID, c.id)
		if err != nil {
			log.Printf("create game for quiz %s failed: %v", payload.QuizID, err)
			h.reply(c, domain.EventCreationFailed, domain.Failure{Reason: domain.Reason(err)})
			return
		}
		c.rooms[pin] = struct{}{}
		h.reply(c, domain.EventGameCreated, domain.SessionCreated{PIN: pin})

	case msgAdminJoinRoom:
		var payload pinPayload
		if !h.decode(c, inbound, &payload) {
			return
		}
		if err := h.service.Watch(ctx, payload.PIN, c.id); err != nil {
			h.reply(c, domain.EventJoinFailed, domain.Failure{Reason: domain.Reason(err)})
			return
		}
		c.rooms[payload.PIN] = struct{}{}

	case msgJoinGame:
		var payload joinPayload
		if !h.decode(c, inbound, &payload) {
			return
		}
		if _, err := h.service.Join(ctx, payload.PIN, c.id, payload.PlayerName); err != nil {
			h.reply(c, domain.EventJoinFailed, domain.Failure{Reason: domain.Reason(err)})
			return
		}
		c.rooms[payload.PIN] = struct{}{}
		h.reply(c, domain.EventJoinSuccess, nil)

	case msgStartNextQuestion:
		var payload pinPayload
		if !h.decode(c, inbound, &payload) {
			return
		}
		if res := h.service.Advance(ctx, payload.PIN, c.id); res.Status == app.AdvanceFinished {
			delete(c.rooms, payload.PIN)
		}

	case msgSubmitAnswer:
		var payload answerPayload
		if !h.decode(c, inbound, &payload) {
			return
		}
		// a missing index must not burn the player's one answer as option 0
		if payload.AnswerIndex == nil {
			h.reply(c, domain.EventError, errorPayload{Message: "submit_answer requires answerIndex"})
			return
		}
		h.service.SubmitAnswer(ctx, payload.PIN, c.id, *payload.AnswerIndex, payload.TimeTaken)

	case msgLeaveGame:
		var payload pinPayload
		if !h.decode(c, inbound, &payload) {
			return
		}
		h.service.Leave(ctx, payload.PIN, c.id)
		delete(c.rooms, payload.PIN)

	default:
		h.reply(c, domain.EventError, errorPayload{Message: "unsupported message type"})
	}
}

func (h *WSHandler) decode(c *connection, inbound inboundMessage, target any) bool {
	if err := json.Unmarshal(inbound.Payload, target); err != nil {
		h.reply(c, domain.EventError, errorPayload{Message: "invalid " + inbound.Type + " payload"})
		return false
	}
	return true
}

func (h *WSHandler) reply(c *connection, eventType string, payload any) {
	h.hub.Send(c.id, domain.Event{Type: eventType, Payload: payload})
}
