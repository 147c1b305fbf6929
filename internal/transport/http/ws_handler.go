package http

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"solo-quiz-service/internal/app"
	"solo-quiz-service/internal/domain"
)

type WSHandler struct {
	service  *app.QuizService
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.QuizService) *WSHandler {
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
	Option int `json:"option"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// questionPayload renders the question in view. Chosen and Correct are -1
// until the question is answered; the correct index is never revealed early.
type questionPayload struct {
	Index          int      `json:"index"`
	Total          int      `json:"total"`
	Text           string   `json:"text"`
	Options        []string `json:"options"`
	Answered       bool     `json:"answered"`
	Chosen         int      `json:"chosen"`
	Correct        int      `json:"correct"`
	Score          int      `json:"score"`
	ElapsedSeconds int      `json:"elapsedSeconds"`
}

type completedPayload struct {
	Result domain.Result      `json:"result"`
	User   *domain.UserRecord `json:"user,omitempty"`
}

// ServeWS upgrades HTTP requests to websockets and drives one quiz session
// per connection. An empty userId plays anonymously; nothing is persisted.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	catalogID := r.URL.Query().Get("catalogId")
	userID := r.URL.Query().Get("userId")
	if catalogID == "" {
		http.Error(w, "missing catalogId", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	if userID != "" {
		if _, err := h.service.Profile(r.Context(), userID); err != nil {
			writeError(conn, err)
			return
		}
	}

	session, err := h.service.StartQuiz(r.Context(), catalogID)
	if err != nil {
		writeError(conn, err)
		return
	}

	h.writeQuestion(conn, session)

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "answer":
			var payload answerPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				writeMessage(conn, "error", errorPayload{Message: "invalid answer payload"})
				continue
			}
			if err := session.SelectAnswer(payload.Option); err != nil {
				writeError(conn, err)
				continue
			}
			h.writeQuestion(conn, session)
		case "advance":
			if err := session.Advance(); err != nil {
				writeError(conn, err)
				continue
			}
			if session.Completed() {
				result, record, err := h.service.FinishQuiz(r.Context(), userID, session)
				if err != nil {
					writeError(conn, err)
					continue
				}
				payload := completedPayload{Result: result}
				if userID != "" {
					payload.User = &record
				}
				writeMessage(conn, "completed", payload)
				continue
			}
			h.writeQuestion(conn, session)
		case "retreat":
			if err := session.Retreat(); err != nil {
				writeError(conn, err)
				continue
			}
			h.writeQuestion(conn, session)
		case "restart":
			if err := session.Restart(nil); err != nil {
				writeError(conn, err)
				continue
			}
			h.writeQuestion(conn, session)
		case "review":
			entries, err := app.BuildReview(session)
			if err != nil {
				writeError(conn, err)
				continue
			}
			writeMessage(conn, "review", entries)
		default:
			writeMessage(conn, "error", errorPayload{Message: "unsupported message type"})
		}
	}
}

func (h *WSHandler) writeQuestion(conn *websocket.Conn, session *app.Session) {
	index, question := session.Current()
	payload := questionPayload{
		Index:          index,
		Total:          session.Len(),
		Text:           question.Text,
		Options:        question.Options,
		Chosen:         -1,
		Correct:        -1,
		Score:          session.Score(),
		ElapsedSeconds: int(session.Elapsed().Seconds()),
	}
	if chosen, ok := session.Answer(index); ok {
		payload.Answered = true
		payload.Chosen = chosen
		payload.Correct = question.CorrectOption
	}
	writeMessage(conn, "question", payload)
}

func writeError(conn *websocket.Conn, err error) {
	writeMessage(conn, "error", errorPayload{Message: err.Error()})
}

func writeMessage[T any](conn *websocket.Conn, msgType string, payload T) {
	if err := conn.WriteJSON(outboundMessage[T]{Type: msgType, Payload: payload}); err != nil {
		log.Printf("ws write error: %v", err)
	}
}
