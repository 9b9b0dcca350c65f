package util

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
)

func LogError(message string, err error) error {
	log.Printf("%s: %v", message, err)
	return fmt.Errorf("%s: %w", message, err)
}

// WriteJSON : пишет статус и тело ответа в JSON
func WriteJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("ошибка кодирования ответа: %v", err)
	}
}

// HandleError : ответ в формате {"error": {"code": ..., "message": ...}}
func HandleError(w http.ResponseWriter, statusCode int, code string, message string) {
	errorResponse := struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}{}
	errorResponse.Error.Code = code
	errorResponse.Error.Message = message

	WriteJSON(w, statusCode, errorResponse)
}
