package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/ramzaiplumbing/site/internal/models"
	"github.com/ramzaiplumbing/site/internal/relay"
	"go.uber.org/zap"
)

// MaxBodyBytes предел тела запроса, чуть меньше лимита serverless-функции Vercel.
const MaxBodyBytes = 4 << 20

// Submitter обрабатывает заявку с формы.
type Submitter interface {
	Submit(ctx context.Context, s models.Submission) relay.Result
}

type Handler struct {
	relay Submitter
	log   *zap.Logger
}

func NewHandler(r Submitter, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{relay: r, log: log}
}

// HealthHandler возвращает статус 200 OK и тело "OK" для проверки состояния сервера.
func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// ContactHandler принимает заявку с контактной формы и пересылает её письмами.
// @Summary Отправить заявку с контактной формы
// @Description Проверяет заявку и отправляет уведомление бизнесу и подтверждение клиенту.
// @Tags contact
// @Accept json
// @Produce json
// @Param request body models.Submission true "Заявка"
// @Success 200 {object} models.Response
// @Failure 400 {object} models.Response
// @Failure 405 {object} models.Response
// @Failure 413 {object} models.Response
// @Failure 500 {object} models.Response
// @Router /api/contact [post]
func (h *Handler) ContactHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeJSON(w, http.StatusMethodNotAllowed, models.Response{Success: false, Message: relay.MsgMethodNotAllowed})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)

	// Тело, которое не удалось разобрать, считается пустой заявкой.
	var sub models.Submission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.log.Warn("contact body too large", zap.Int64("limit", tooLarge.Limit))
			writeJSON(w, http.StatusRequestEntityTooLarge, models.Response{Success: false, Message: relay.MsgTooLarge})
			return
		}
		if !errors.Is(err, io.EOF) {
			h.log.Debug("contact body is not valid JSON", zap.Error(err))
		}
		sub = models.Submission{}
	}

	res := h.relay.Submit(r.Context(), sub)
	if res.Err != nil && res.Status >= http.StatusInternalServerError {
		h.log.Error("contact submission failed",
			zap.String("submission_id", res.SubmissionID),
			zap.String("outcome", string(res.Outcome)),
			zap.Error(res.Err),
		)
	}
	writeJSON(w, res.Status, res.Response)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
