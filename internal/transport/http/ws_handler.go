package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"admission-quiz-service/internal/app"
	"admission-quiz-service/internal/domain"
	"admission-quiz-service/internal/timer"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// writeWait bounds a single frame write.
const writeWait = 10 * time.Second

type WSHandler struct {
	service     *app.QuizService
	defaultBank string
	logger      zerolog.Logger
	upgrader    websocket.Upgrader
}

func NewWSHandler(service *app.QuizService, defaultBank string, logger zerolog.Logger) *WSHandler {
	return &WSHandler{
		service:     service,
		defaultBank: defaultBank,
		logger:      logger.With().Str("component", "ws").Logger(),
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
	OptionID string `json:"optionId"`
}

type tickPayload struct {
	RemainingSeconds int    `json:"remainingSeconds"`
	Clock            string `json:"clock"`
}

type outboundMessage struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

type errorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// wsPresenter queues engine events for the connection writer. It runs on the
// session loop, so it must never block on the network.
type wsPresenter struct {
	send chan<- outboundMessage
	done <-chan struct{}
}

func (p *wsPresenter) push(msg outboundMessage) {
	select {
	case p.send <- msg:
	case <-p.done:
	}
}

func (p *wsPresenter) ShowQuestion(q domain.ShowQuestion) {
	p.push(outboundMessage{Type: "question", Payload: q})
}

func (p *wsPresenter) Tick(remaining int) {
	p.push(outboundMessage{Type: "tick", Payload: tickPayload{RemainingSeconds: remaining, Clock: timer.FormatClock(remaining)}})
}

func (p *wsPresenter) QuizEnded(r domain.QuizEnded) {
	p.push(outboundMessage{Type: "ended", Payload: r})
}

// ServeWS upgrades HTTP requests to websockets and runs one quiz attempt per connection.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	bankID := r.URL.Query().Get("bankId")
	if bankID == "" {
		bankID = h.defaultBank
	}
	if email == "" || bankID == "" {
		http.Error(w, "missing email or bankId", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn().Err(err).Msg("ws upgrade failed")
		return
	}
	defer conn.Close()

	send := make(chan outboundMessage, 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		h.writeLoop(conn, send, closeSignals)
	}()

	presenter := &wsPresenter{send: send, done: closeSignals}
	session, err := h.service.Begin(r.Context(), app.BeginRequest{BankID: bankID, Email: email}, presenter)
	if err != nil {
		presenter.push(errorMessage(err))
		close(closeSignals)
		<-writerDone
		return
	}

	if err := session.Start(r.Context()); err != nil {
		presenter.push(errorMessage(err))
	}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "answer":
			var payload answerPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil || payload.OptionID == "" {
				presenter.push(outboundMessage{Type: "error", Payload: errorPayload{Code: "select_option", Message: "Please select an option."}})
				continue
			}
			if err := session.Submit(r.Context(), payload.OptionID); err != nil {
				h.logger.Warn().Err(err).Str("session_id", session.ID()).Msg("answer refused")
				presenter.push(errorMessage(err))
			}
		default:
			presenter.push(outboundMessage{Type: "error", Payload: errorPayload{Code: "unsupported", Message: "unsupported message type"}})
		}
	}

	// Stop the session loop before the writer so no presenter call is left waiting.
	h.service.Leave(session)
	close(closeSignals)
	<-writerDone
}

// messageWriter is the part of *websocket.Conn the writer needs.
type messageWriter interface {
	SetWriteDeadline(t time.Time) error
	WriteJSON(v any) error
}

// writeLoop sends queued messages until closeSignals is closed, then flushes
// what is left. After a failed write it keeps draining so presenters never block.
func (h *WSHandler) writeLoop(conn messageWriter, send <-chan outboundMessage, closeSignals <-chan struct{}) {
	broken := false
	write := func(msg outboundMessage) {
		if broken {
			return
		}
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(msg); err != nil {
			h.logger.Warn().Err(err).Msg("ws write error")
			broken = true
		}
	}
	for {
		select {
		case msg := <-send:
			write(msg)
		case <-closeSignals:
			for {
				select {
				case msg := <-send:
					write(msg)
				default:
					return
				}
			}
		}
	}
}

func errorMessage(err error) outboundMessage {
	code := "internal"
	switch {
	case errors.Is(err, domain.ErrEmailRejected):
		code = "email_rejected"
	case errors.Is(err, domain.ErrBankNotFound):
		code = "bank_not_found"
	case errors.Is(err, domain.ErrInvalidQuizData):
		code = "invalid_quiz_data"
	case errors.Is(err, domain.ErrAttemptInProgress):
		code = "attempt_in_progress"
	case errors.Is(err, domain.ErrNoPendingQuestion):
		code = "no_pending_question"
	case errors.Is(err, domain.ErrInvalidPhase):
		code = "invalid_phase"
	case errors.Is(err, domain.ErrSessionClosed):
		code = "session_closed"
	}
	return outboundMessage{Type: "error", Payload: errorPayload{Code: code, Message: err.Error()}}
}
