package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/linemk/homedeco-shop/internal/jwt-new/jwtmiddleware"
)

var validate = validator.New()

// ErrorResponse тело ответа с ошибкой
type ErrorResponse struct {
	Message string `json:"message"`
}

// MessageResponse ответ без данных
type MessageResponse struct {
	Message string `json:"message"`
}

var errMalformedBody = errors.New("malformed request body")

func writeJSON(log *slog.Logger, w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("failed to encode response", slog.Any("error", err))
	}
}

func writeError(log *slog.Logger, w http.ResponseWriter, status int, message string) {
	writeJSON(log, w, status, ErrorResponse{Message: message})
}

// decodeRequest читает JSON и проверяет теги validate.
// Ошибка разбора возвращается как errMalformedBody, ошибка валидации как есть.
func decodeRequest(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errMalformedBody
	}
	return validate.Struct(dst)
}

// writeDecodeError 400 для битого JSON, 422 для непрошедшего валидацию
func writeDecodeError(log *slog.Logger, w http.ResponseWriter, err error) {
	if errors.Is(err, errMalformedBody) {
		log.Warn("invalid request: decoding error")
		writeError(log, w, http.StatusBadRequest, "invalid request")
		return
	}
	log.Warn("invalid request: validation error", slog.Any("error", err))
	writeError(log, w, http.StatusUnprocessableEntity, validationMessage(err))
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return "validation error: field " + fe.Namespace() + " failed on '" + fe.Tag() + "'"
	}
	return "validation error"
}

// idParam читает положительный целочисленный параметр пути.
func idParam(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// currentUser достаёт userID, положенный в контекст jwt middleware.
func currentUser(log *slog.Logger, w http.ResponseWriter, r *http.Request) (int64, bool) {
	userID, ok := jwtmiddleware.FromContext(r.Context())
	if !ok {
		log.Error("userID not found in context")
		writeError(log, w, http.StatusUnauthorized, "unauthorized")
		return 0, false
	}
	return userID, true
}
