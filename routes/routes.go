package routes

import (
	"github.com/gorilla/mux"
	"github.com/jagman11/match--royale/controllers"
	"github.com/jagman11/match--royale/middleware"
	"github.com/jagman11/match--royale/services"
	"go.uber.org/zap"
)

// Services groups everything the HTTP surface needs
type Services struct {
	Auth     *services.AuthService
	Profiles *services.UserProfileService
	Matches  *services.MatchService
	Swipes   *services.SwipeService
	Chat     *services.ChatService
	Images   *services.S3Service
}

// RegisterRoutes sets up the public routes of the application
func RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", controllers.HealthCheckHandler).Methods("GET")
	r.HandleFunc("/", controllers.WelcomeHandler).Methods("GET")
	r.HandleFunc("/privacy-policy", PrivacyPolicyHandler).Methods("GET")
}

// NewRouter registers every route. Everything under /api except /api/auth requires a bearer token.
func NewRouter(svc Services, log *zap.SugaredLogger) *mux.Router {
	r := mux.NewRouter()
	RegisterRoutes(r)
	RegisterAuthRoutes(r, svc.Auth, log)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.RequireUser(svc.Auth, log))
	RegisterUserProfileRoutes(api, svc.Profiles, log)
	RegisterS3Routes(api, svc.Images, log)
	RegisterMatchRoutes(api, svc.Matches, log)
	RegisterSwipeRoutes(api, svc.Swipes, log)
	RegisterChatRoutes(api, svc.Chat, log)
	return r
}
