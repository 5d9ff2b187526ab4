// HTTP handlers for the assistant brain module.
package brain

import (
	"encoding/json"
	"net/http"

	"github.com/user/aidoctor-go/apperror"
	"github.com/user/aidoctor-go/auth"
)

// maxUploadBytes caps in-memory parsing of the multipart body (32 MiB).
const maxUploadBytes = 32 << 20

// Handlers provides HTTP handlers for the assistant brain module.
type Handlers struct {
	service *Service
}

// NewHandlers creates new Handlers.
func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// AnalysisResponse carries the vision model's free-text answer.
type AnalysisResponse struct {
	Response string `json:"response" example:"The redness on the cheek looks like mild irritation."`
}

// EncodedImageResponse carries the base64 encoding of an uploaded image.
type EncodedImageResponse struct {
	EncodedImage string `json:"encoded_image"`
}

// HandleAnalyze godoc
// @Summary Analyze an image with a query
// @Description Sends the uploaded image and question to the vision model and returns its analysis.
// @Tags Brain
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param image formData file true "Image to analyze"
// @Param query formData string false "Question about the image"
// @Success 200 {object} AnalysisResponse "Analysis"
// @Failure 400 {object} apperror.ErrorResponse "Bad Request - missing image"
// @Failure 401 {object} apperror.ErrorResponse "Unauthorized"
// @Failure 502 {object} apperror.ErrorResponse "Vision provider failure"
// @Router /brain/analyze [post]
func (h *Handlers) HandleAnalyze() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			auth.WriteError(w, r, apperror.NewBadRequestError("invalid multipart body", err))
			return
		}

		file, _, err := r.FormFile("image")
		if err != nil {
			auth.WriteError(w, r, apperror.NewBadRequestError("image file is required", err))
			return
		}
		defer file.Close()

		encoded, err := EncodeImage(file)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}

		answer, err := h.service.Analyze(r.Context(), r.PostFormValue("query"), encoded)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(AnalysisResponse{Response: answer})
	}
}

// HandleEncode godoc
// @Summary Encode an image to base64
// @Description Returns the base64 encoding of the uploaded image.
// @Tags Brain
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param image formData file true "Image to encode"
// @Success 200 {object} EncodedImageResponse "Encoded image"
// @Failure 400 {object} apperror.ErrorResponse "Bad Request - missing image"
// @Failure 401 {object} apperror.ErrorResponse "Unauthorized"
// @Router /brain/encode [post]
func (h *Handlers) HandleEncode() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			auth.WriteError(w, r, apperror.NewBadRequestError("invalid multipart body", err))
			return
		}

		file, _, err := r.FormFile("image")
		if err != nil {
			auth.WriteError(w, r, apperror.NewBadRequestError("image file is required", err))
			return
		}
		defer file.Close()

		encoded, err := EncodeImage(file)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(EncodedImageResponse{EncodedImage: encoded})
	}
}
