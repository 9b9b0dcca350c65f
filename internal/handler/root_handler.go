package handler

import (
	"file-service/internal/model/requestresponse"
	"file-service/internal/util"
	"net/http"
)

const apiVersion = "1.0.0"

// Root godoc
// @Summary Информация о сервисе
// @Tags Service
// @Produce json
// @Success 200 {object} requestresponse.RootResponse
// @Router / [get]
func Root(w http.ResponseWriter, r *http.Request) {
	util.WriteJSON(w, http.StatusOK, requestresponse.RootResponse{
		Message: "File Service API",
		Version: apiVersion,
	})
}

func NotFound(w http.ResponseWriter, r *http.Request) {
	util.HandleError(w, http.StatusNotFound, "NOT_FOUND", "Маршрут не найден")
}
