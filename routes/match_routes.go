package routes

import (
	"github.com/gorilla/mux"
	"github.com/jagman11/match--royale/controllers"
	"github.com/jagman11/match--royale/services"
	"go.uber.org/zap"
)

// RegisterMatchRoutes sets up routes for match-related operations under /match
func RegisterMatchRoutes(r *mux.Router, matchService *services.MatchService, log *zap.SugaredLogger) {
	controller := controllers.NewMatchController(matchService, log)

	matchRouter := r.PathPrefix("/match").Subrouter()
	matchRouter.HandleFunc("", controller.GetMatches).Methods("GET")
	matchRouter.HandleFunc("", controller.CreateMatch).Methods("POST")
	matchRouter.HandleFunc("/reconcile", controller.ReconcileMatches).Methods("POST")
}
