package routes

import (
	"github.com/gorilla/mux"
	"github.com/jagman11/match--royale/controllers"
	"github.com/jagman11/match--royale/services"
	"go.uber.org/zap"
)

// RegisterAuthRoutes sets up the unauthenticated routes under /api/auth
func RegisterAuthRoutes(r *mux.Router, authService *services.AuthService, log *zap.SugaredLogger) {
	controller := controllers.NewAuthController(authService, log)

	authRouter := r.PathPrefix("/api/auth").Subrouter()
	authRouter.HandleFunc("/signup", controller.SignUp).Methods("POST")
	authRouter.HandleFunc("/signin", controller.SignIn).Methods("POST")
}
