package http

import (
	"net/http"
	"time"

	"github.com/blogchat/backend/internal/chat/domain"
	"github.com/blogchat/backend/internal/chat/service"
	commonhttp "github.com/blogchat/backend/internal/common/http"
	"github.com/blogchat/backend/internal/common/jwtverify"
	"github.com/blogchat/backend/internal/common/logger"
)

type messageRequest struct {
	Text string `json:"text" validate:"required,max=500"`
}

type messageResponse struct {
	Text      string `json:"text"`
	AuthorID  string `json:"authorId"`
	Name      string `json:"name"`
	Timestamp string `json:"timestamp"`
}

type historyResponse struct {
	Success  bool              `json:"success"`
	Messages []messageResponse `json:"messages"`
}

type sendResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    messageResponse `json:"data"`
}

type Handler struct {
	chat *service.ChatService
	log  *logger.Logger
	mux  *http.ServeMux
}

func NewHandler(chat *service.ChatService, requestTimeout time.Duration, log *logger.Logger) *Handler {
	h := &Handler{chat: chat, log: log}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/chat", commonhttp.WithTimeout(requestTimeout)(h.chatEndpoint))
	h.mux = mux
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) chatEndpoint(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.history(w, r)
	case http.MethodPost:
		h.send(w, r)
	default:
		commonhttp.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *Handler) history(w http.ResponseWriter, r *http.Request) {
	if _, ok := jwtverify.CurrentUser(r.Context()); !ok {
		commonhttp.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	messages := h.chat.History(r.Context())

	commonhttp.WriteJSON(w, http.StatusOK, historyResponse{
		Success:  true,
		Messages: toMessageResponses(messages),
	})
}

func (h *Handler) send(w http.ResponseWriter, r *http.Request) {
	user, ok := jwtverify.CurrentUser(r.Context())
	if !ok {
		commonhttp.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req messageRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		commonhttp.WriteError(w, http.StatusBadRequest, "invalid json")
		return
	}

	if violations := commonhttp.ValidateStruct(req); violations != nil {
		commonhttp.WriteValidationError(w, violations)
		return
	}

	msg := h.chat.Send(r.Context(), service.SendInput{
		Text:       req.Text,
		AuthorID:   user.ID,
		AuthorName: user.Name,
	})

	commonhttp.WriteJSON(w, http.StatusCreated, sendResponse{
		Success: true,
		Message: "message sent successfully",
		Data:    toMessageResponse(msg),
	})
}

func toMessageResponse(msg domain.Message) messageResponse {
	return messageResponse{
		Text:      msg.Text,
		AuthorID:  string(msg.AuthorID),
		Name:      msg.AuthorName,
		Timestamp: msg.Timestamp.UTC().Format(time.RFC3339),
	}
}

func toMessageResponses(messages []domain.Message) []messageResponse {
	result := make([]messageResponse, 0, len(messages))
	for _, m := range messages {
		result = append(result, toMessageResponse(m))
	}
	return result
}
