package routes

import (
	"github.com/gorilla/mux"
	"github.com/jagman11/match--royale/controllers"
	"github.com/jagman11/match--royale/services"
	"go.uber.org/zap"
)

// RegisterSwipeRoutes sets up routes for the swipe deck under /swipe
func RegisterSwipeRoutes(r *mux.Router, swipeService *services.SwipeService, log *zap.SugaredLogger) {
	controller := controllers.NewSwipeController(swipeService, log)

	swipeRouter := r.PathPrefix("/swipe").Subrouter()
	swipeRouter.HandleFunc("", controller.GetDeck).Methods("GET")
	swipeRouter.HandleFunc("", controller.CloseDeck).Methods("DELETE")
	swipeRouter.HandleFunc("/filters", controller.SetFilters).Methods("PUT")
	swipeRouter.HandleFunc("/decide", controller.Decide).Methods("POST")
}
