// HTTP handlers for the patient voice module.
package patient

import (
	"encoding/json"
	"net/http"

	"github.com/user/aidoctor-go/apperror"
	"github.com/user/aidoctor-go/auth"
)

// maxUploadBytes caps in-memory parsing of the multipart body (32 MiB).
const maxUploadBytes = 32 << 20

// Handlers provides HTTP handlers for the patient voice module.
type Handlers struct {
	service *Service
}

// NewHandlers creates new Handlers.
func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// TranscriptResponse carries the transcript of an uploaded recording.
type TranscriptResponse struct {
	Transcript string `json:"transcript" example:"I have had a headache for three days."`
}

// HandleTranscribe godoc
// @Summary Transcribe patient audio
// @Description Accepts a recorded audio file and returns its transcript.
// @Tags Patient
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param audio formData file true "Audio recording"
// @Success 200 {object} TranscriptResponse "Transcript"
// @Failure 400 {object} apperror.ErrorResponse "Bad Request - missing audio file"
// @Failure 401 {object} apperror.ErrorResponse "Unauthorized"
// @Failure 502 {object} apperror.ErrorResponse "Speech-to-text provider failure"
// @Router /patient/transcribe [post]
func (h *Handlers) HandleTranscribe() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			auth.WriteError(w, r, apperror.NewBadRequestError("invalid multipart body", err))
			return
		}

		file, header, err := r.FormFile("audio")
		if err != nil {
			auth.WriteError(w, r, apperror.NewBadRequestError("audio file is required", err))
			return
		}
		defer file.Close()

		transcript, err := h.service.Transcribe(r.Context(), header.Filename, file)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(TranscriptResponse{Transcript: transcript})
	}
}
