package controllers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/jagman11/match--royale/services"
	"go.uber.org/zap"
)

// ChatController struct
type ChatController struct {
	ChatService *services.ChatService
	Log         *zap.SugaredLogger
}

// NewChatController initializes the chat controller
func NewChatController(service *services.ChatService, log *zap.SugaredLogger) *ChatController {
	return &ChatController{ChatService: service, Log: log}
}

// channelFor resolves the channel between the signed-in user and the peer in the path
func channelFor(w http.ResponseWriter, r *http.Request) (string, string, bool) {
	userID, ok := currentUser(w, r)
	if !ok {
		return "", "", false
	}
	channelID, err := services.ChannelID(userID, mux.Vars(r)["peerId"])
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return "", "", false
	}
	return userID, channelID, true
}

// HandleGetMessages returns the full history of the conversation with peerId
func (c *ChatController) HandleGetMessages(w http.ResponseWriter, r *http.Request) {
	_, channelID, ok := channelFor(w, r)
	if !ok {
		return
	}

	c.Log.Debugf("🔍 Fetching messages for channel %s", channelID)
	messages, err := c.ChatService.History(r.Context(), channelID)
	if err != nil {
		respondError(w, c.Log, err, "Failed to fetch messages")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"channelId": channelID,
		"messages":  messages,
	})
}

// HandleSendMessage appends a message to the conversation with peerId
func (c *ChatController) HandleSendMessage(w http.ResponseWriter, r *http.Request) {
	userID, channelID, ok := channelFor(w, r)
	if !ok {
		return
	}
	var payload struct {
		Text string `json:"text" validate:"required"`
	}
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	message, err := c.ChatService.Send(r.Context(), channelID, userID, payload.Text)
	if err != nil {
		respondError(w, c.Log, err, "Failed to send message")
		return
	}
	writeJSON(w, http.StatusCreated, message)
}
