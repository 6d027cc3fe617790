package routes

import (
	"github.com/gorilla/mux"
	"github.com/jagman11/match--royale/controllers"
	"github.com/jagman11/match--royale/services"
	"go.uber.org/zap"
)

// RegisterChatRoutes sets up routes for chat-related operations under /chat
func RegisterChatRoutes(r *mux.Router, chatService *services.ChatService, log *zap.SugaredLogger) {
	controller := controllers.NewChatController(chatService, log)

	chatRouter := r.PathPrefix("/chat").Subrouter()
	chatRouter.HandleFunc("/{peerId}/messages", controller.HandleGetMessages).Methods("GET")
	chatRouter.HandleFunc("/{peerId}/messages", controller.HandleSendMessage).Methods("POST")
}
