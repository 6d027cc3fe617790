package routes

import (
	"github.com/gorilla/mux"
	"github.com/jagman11/match--royale/controllers"
	"github.com/jagman11/match--royale/services"
	"go.uber.org/zap"
)

// RegisterUserProfileRoutes sets up routes for user profile operations under /profiles
func RegisterUserProfileRoutes(r *mux.Router, userProfileService *services.UserProfileService, log *zap.SugaredLogger) {
	// Initialize the controller with the provided UserProfileService
	controller := controllers.NewUserProfileController(userProfileService, log)

	profileRouter := r.PathPrefix("/profiles").Subrouter()

	// "me" is registered before {userId} so it is never taken for an id
	profileRouter.HandleFunc("/me", controller.GetMyProfile).Methods("GET")
	profileRouter.HandleFunc("/me", controller.SaveMyProfile).Methods("PUT")
	profileRouter.HandleFunc("/me/image", controller.UploadImage).Methods("POST")
	profileRouter.HandleFunc("/{userId}", controller.GetUserProfileByID).Methods("GET")
}
