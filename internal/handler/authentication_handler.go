package handler

import (
	"encoding/json"
	"errors"
	"file-service/internal/model/requestresponse"
	"file-service/internal/ports"
	"file-service/internal/security"
	"file-service/internal/service"
	"file-service/internal/util"
	"log"
	"net/http"
)

type AuthenticationHandler struct {
	ports.AuthenticationService
	ports.SessionService
}

func NewAuthenticationHandler(
	authenticationService ports.AuthenticationService,
	sessionService ports.SessionService,
) *AuthenticationHandler {
	return &AuthenticationHandler{
		authenticationService,
		sessionService,
	}
}

// Signup godoc
// @Summary Регистрация пользователя
// @Description Создаёт пользователя по id (email или телефон) и паролю, открывает сессию на новом устройстве
// @Tags Authentication
// @Accept json
// @Produce json
// @Param body body requestresponse.SignRequest true "Тело запроса"
// @Success 201 {object} requestresponse.TokensResponse
// @Failure 400 {object} requestresponse.ErrorResponse "Поля id и password обязательны"
// @Failure 409 {object} requestresponse.ErrorResponse "Пользователь уже существует"
// @Failure 500 {object} requestresponse.ErrorResponse
// @Router /signup [post]
func (h *AuthenticationHandler) Signup(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeSignRequest(w, r)
	if !ok {
		return
	}

	tokens, err := h.AuthenticationService.Signup(r.Context(), req.ID, req.Password)
	if err != nil {
		respondAccountError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusCreated, requestresponse.TokensResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	})
}

// Signin godoc
// @Summary Вход
// @Description Проверяет пароль и выдаёт пару токенов для нового устройства
// @Tags Authentication
// @Accept json
// @Produce json
// @Param body body requestresponse.SignRequest true "Тело запроса"
// @Success 200 {object} requestresponse.TokensResponse
// @Failure 400 {object} requestresponse.ErrorResponse "Поля id и password обязательны"
// @Failure 401 {object} requestresponse.ErrorResponse "Неверные учетные данные"
// @Failure 500 {object} requestresponse.ErrorResponse
// @Router /signin [post]
func (h *AuthenticationHandler) Signin(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeSignRequest(w, r)
	if !ok {
		return
	}

	tokens, err := h.AuthenticationService.Signin(r.Context(), req.ID, req.Password)
	if err != nil {
		respondAccountError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, requestresponse.TokensResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	})
}

// RefreshToken godoc
// @Summary Новый access токен
// @Description Выдаёт новый access токен по действующему refresh токену. Refresh токен не меняется.
// @Tags Authentication
// @Accept json
// @Produce json
// @Param body body requestresponse.RefreshTokenRequest true "Тело запроса"
// @Success 200 {object} requestresponse.RefreshTokenResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 503 {object} requestresponse.ErrorResponse
// @Router /signin/new_token [post]
func (h *AuthenticationHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req requestresponse.RefreshTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		req.RefreshToken = ""
	}

	accessToken, err := h.SessionService.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		security.RespondAuthError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, requestresponse.RefreshTokenResponse{AccessToken: accessToken})
}

// Logout godoc
// @Summary Выход
// @Description Деактивирует все refresh токены текущего устройства. Повторный вызов безопасен.
// @Tags Authentication
// @Produce json
// @Success 200 {object} requestresponse.MessageResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 503 {object} requestresponse.ErrorResponse
// @Security ApiKeyAuth
// @Router /logout [get]
func (h *AuthenticationHandler) Logout(w http.ResponseWriter, r *http.Request) {
	authContext, err := security.GetAuthContext(r.Context())
	if err != nil {
		security.RespondAuthError(w, security.ErrMissingCredential)
		return
	}

	if err := h.SessionService.Revoke(r.Context(), authContext); err != nil {
		security.RespondAuthError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, requestresponse.MessageResponse{Message: "Выход выполнен успешно"})
}

// Info godoc
// @Summary Информация о пользователе
// @Description Возвращает внешний идентификатор текущего пользователя
// @Tags Authentication
// @Produce json
// @Success 200 {object} requestresponse.InfoResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Security ApiKeyAuth
// @Router /info [get]
func (h *AuthenticationHandler) Info(w http.ResponseWriter, r *http.Request) {
	authContext, err := security.GetAuthContext(r.Context())
	if err != nil {
		security.RespondAuthError(w, security.ErrMissingCredential)
		return
	}

	util.WriteJSON(w, http.StatusOK, requestresponse.InfoResponse{ID: authContext.Login})
}

func decodeSignRequest(w http.ResponseWriter, r *http.Request) (*requestresponse.SignRequest, bool) {
	var req requestresponse.SignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ID == "" || req.Password == "" {
		util.HandleError(w, http.StatusBadRequest, "MISSING_FIELDS", service.ErrMissingFields.Error())
		return nil, false
	}
	return &req, true
}

func respondAccountError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrMissingFields):
		util.HandleError(w, http.StatusBadRequest, "MISSING_FIELDS", "Поля id и password обязательны")
	case errors.Is(err, service.ErrUserExists):
		util.HandleError(w, http.StatusConflict, "USER_EXISTS", "Пользователь уже существует")
	case errors.Is(err, service.ErrInvalidCredentials):
		util.HandleError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Неверные учетные данные")
	case errors.Is(err, security.ErrStoreUnavailable):
		security.RespondAuthError(w, err)
	default:
		log.Println(err)
		util.HandleError(w, http.StatusInternalServerError, "SERVER_ERROR", "Ошибка сервера")
	}
}
