package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"news_hub/internal/domain"
)

// SessionCookie identifies a chat conversation.
const SessionCookie = "newshub_session"

type chatRequest struct {
	Message  string `json:"message" validate:"required,max=2000"`
	Date     string `json:"date" validate:"required,datetime=2006-01-02"`
	Category string `json:"category" validate:"omitempty,oneof=business entertainment general health science sports technology"`
}

type chatResponse struct {
	Response string `json:"response"`
}

// ChatHandler handles POST /chat.
type ChatHandler struct {
	chat ChatResponder
}

func NewChatHandler(chat ChatResponder) *ChatHandler {
	return &ChatHandler{chat: chat}
}

func (h *ChatHandler) Handle(c echo.Context) error {
	var req chatRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	sessionID := session(c)

	reply, err := h.chat.Reply(c.Request().Context(), domain.ChatRequest{
		SessionID: sessionID,
		Message:   req.Message,
		Date:      mustParseDay(req.Date),
		Category:  domain.Category(req.Category),
	})
	if err != nil {
		return mapServiceError(err)
	}

	return c.JSON(http.StatusOK, chatResponse{Response: reply})
}

// session returns the caller's session id, issuing a new cookie if the
// request carries none.
func session(c echo.Context) string {
	if cookie, err := c.Cookie(SessionCookie); err == nil {
		if _, err := uuid.Parse(cookie.Value); err == nil {
			return cookie.Value
		}
	}

	id := uuid.NewString()
	c.SetCookie(&http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}
