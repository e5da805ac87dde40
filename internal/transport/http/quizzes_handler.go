package http

import (
	"encoding/json"
	"log"
	"net/http"

	"live-quiz-service/internal/app"
)

type errorResponse struct {
	Error string `json:"error"`
}

// QuizzesHandler serves the read-only quiz listing admins pick a game from.
type QuizzesHandler struct {
	service *app.GameService
}

func NewQuizzesHandler(service *app.GameService) *QuizzesHandler {
	return &QuizzesHandler{service: service}
}

func (h *QuizzesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
		return
	}
	summaries, err := h.service.ListQuizzes(r.Context())
	if err != nil {
		log.Printf("list quizzes: %v", err)
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "quiz source unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, summaries)
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}
