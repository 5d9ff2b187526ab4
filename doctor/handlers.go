// HTTP handlers for the doctor voice module.
package doctor

import (
	"encoding/json"
	"net/http"

	"github.com/user/aidoctor-go/apperror"
	"github.com/user/aidoctor-go/auth"
)

// Handlers provides HTTP handlers for the doctor voice module.
type Handlers struct {
	service *Service
}

// NewHandlers creates new Handlers.
func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// HandleSpeak godoc
// @Summary Synthesize the doctor's reply as speech
// @Description Converts text to speech with the selected provider (gtts or elevenlabs) and saves the MP3.
// @Tags Doctor
// @Accept x-www-form-urlencoded
// @Produce json
// @Security BearerAuth
// @Param text formData string true "Text to speak"
// @Param provider formData string false "TTS provider (gtts or elevenlabs, default gtts)"
// @Success 200 {object} SpeechResult "Synthesis result"
// @Failure 400 {object} apperror.ErrorResponse "Bad Request - missing text or unknown provider"
// @Failure 401 {object} apperror.ErrorResponse "Unauthorized"
// @Failure 502 {object} apperror.ErrorResponse "TTS provider failure"
// @Router /doctor/speak [post]
func (h *Handlers) HandleSpeak() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			auth.WriteError(w, r, apperror.NewBadRequestError("invalid form body", err))
			return
		}

		result, err := h.service.Synthesize(r.Context(), r.PostFormValue("text"), r.PostFormValue("provider"))
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(result)
	}
}
