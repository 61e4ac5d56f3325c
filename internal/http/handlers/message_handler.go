package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/glambook/glambook-api/internal/domain"
	"github.com/glambook/glambook-api/internal/http/middleware"
	"github.com/glambook/glambook-api/internal/http/response"
	"github.com/glambook/glambook-api/internal/repo/postgres"
	"github.com/glambook/glambook-api/pkg/events"
	"github.com/glambook/glambook-api/pkg/logger"
)

type MessageHandler struct {
	Messages postgres.MessageRepository
	Users    postgres.UserRepository
	Bus      events.Publisher
}

func NewMessageHandler(messages postgres.MessageRepository, users postgres.UserRepository, bus events.Publisher) *MessageHandler {
	return &MessageHandler{Messages: messages, Users: users, Bus: bus}
}

func (h *MessageHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.send)
	r.Get("/{userID}", h.conversation)
	return r
}

func (h *MessageHandler) send(w http.ResponseWriter, r *http.Request) {
	claims := middleware.Claims(r)

	var in domain.SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.BadRequest(w, "invalid json")
		return
	}
	in.Normalize()
	if err := in.Validate(); err != nil {
		response.BadRequest(w, err.Error())
		return
	}
	if in.RecipientID == claims.Sub {
		response.BadRequest(w, "cannot message yourself")
		return
	}

	recipient, err := h.Users.FindByID(r.Context(), in.RecipientID)
	if err != nil {
		logger.ErrorContext(r.Context(), "failed to load recipient", "error", err, "recipient_id", in.RecipientID)
		response.InternalError(w, "error sending message")
		return
	}
	if recipient == nil {
		response.NotFound(w, "recipient not found")
		return
	}

	msg, err := h.Messages.Create(r.Context(), claims.Sub, &in)
	if err != nil {
		logger.ErrorContext(r.Context(), "failed to create message", "error", err)
		response.InternalError(w, "error sending message")
		return
	}

	if err := h.Bus.Publish(r.Context(), events.MessageSent, events.MessageSentEvent{
		MessageID:   msg.ID,
		SenderID:    msg.SenderID,
		RecipientID: msg.RecipientID,
		SentAt:      msg.CreatedAt,
	}); err != nil {
		logger.ErrorContext(r.Context(), "failed to publish message.sent", "error", err, "message_id", msg.ID)
	}

	writeJSON(w, http.StatusCreated, msg)
}

func (h *MessageHandler) conversation(w http.ResponseWriter, r *http.Request) {
	claims := middleware.Claims(r)
	otherID, ok := urlParamInt64(r, "userID")
	if !ok {
		response.BadRequest(w, "invalid user id")
		return
	}

	limit, offset := parsePagination(r)
	msgs, err := h.Messages.ListConversation(r.Context(), claims.Sub, otherID, limit, offset)
	if err != nil {
		logger.ErrorContext(r.Context(), "failed to list conversation", "error", err, "user_id", claims.Sub, "other_id", otherID)
		response.InternalError(w, "error loading conversation")
		return
	}
	writeJSON(w, http.StatusOK, msgs)
}
