package controllers

import (
	"cardspend/models"
	"cardspend/services"
	"encoding/json"
	"errors"
	"net/http"
)

// writeJSON отправляет JSON-ответ
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeServiceError переводит ошибку сервиса в HTTP-ответ
func writeServiceError(w http.ResponseWriter, err error) {
	// Нехватка кредита: клиенту возвращается доступная сумма
	var insufficient *services.InsufficientCreditError
	if errors.As(err, &insufficient) {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"message":         "Insufficient credit available",
			"availableCredit": insufficient.Available,
		})
		return
	}

	switch {
	case errors.Is(err, services.ErrCardNotFound),
		errors.Is(err, services.ErrExpenseNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case services.IsValidationError(err),
		errors.Is(err, models.ErrPaymentExceedsBalance),
		errors.Is(err, models.ErrNegativeBalance),
		errors.Is(err, models.ErrNonPositiveAmount),
		errors.Is(err, models.ErrCardInactive):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
