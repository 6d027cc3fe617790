package routes

import (
	"github.com/gorilla/mux"
	"github.com/jagman11/match--royale/controllers"
	"github.com/jagman11/match--royale/services"
	"go.uber.org/zap"
)

// RegisterS3Routes sets up routes for presigned image URLs under /images
func RegisterS3Routes(r *mux.Router, images *services.S3Service, log *zap.SugaredLogger) {
	controller := controllers.NewS3Controller(images, log)

	r.HandleFunc("/images/upload-url", controller.GeneratePresignedURL).Methods("POST")
	r.HandleFunc("/images/read-url", controller.GetPresignedReadURL).Methods("POST")
}
