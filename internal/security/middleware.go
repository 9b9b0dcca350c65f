package security

import (
	"context"
	"errors"
	"file-service/internal/model"
	"file-service/internal/util"
	"log"
	"net/http"
	"strings"
)

type contextKey string

const (
	UserContextKey contextKey = "user"
)

// Authenticator : проверка access токена (подпись, срок, активная сессия)
type Authenticator interface {
	Authenticate(ctx context.Context, rawAccessToken string) (*model.AuthContext, error)
}

func JWTMiddleware(authenticator Authenticator) func(handler http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(handleAuthentication(authenticator, next))
	}
}

func handleAuthentication(authenticator Authenticator, next http.Handler) func(writer http.ResponseWriter, request *http.Request) {
	return func(writer http.ResponseWriter, request *http.Request) {
		token, err := BearerToken(request)
		if err != nil {
			RespondAuthError(writer, err)
			return
		}

		authContext, err := authenticator.Authenticate(request.Context(), token)
		if err != nil {
			RespondAuthError(writer, err)
			return
		}

		req := request.WithContext(WithAuthContext(request.Context(), authContext))
		next.ServeHTTP(writer, req)
	}
}

// BearerToken : извлекает токен из заголовка "Authorization: Bearer <token>"
func BearerToken(request *http.Request) (string, error) {
	authorizationHeader := request.Header.Get("Authorization")
	if !strings.HasPrefix(authorizationHeader, "Bearer ") {
		return "", ErrMissingCredential
	}

	token := strings.TrimSpace(strings.TrimPrefix(authorizationHeader, "Bearer "))
	if token == "" {
		return "", ErrMissingCredential
	}
	return token, nil
}

// RespondAuthError : отказ в аутентификации -> 401 без подробностей, сбой хранилища -> 503
func RespondAuthError(writer http.ResponseWriter, err error) {
	if IsAuthFailure(err) {
		log.Printf("[JWTMiddleware] отказ в доступе (%s): %v", Kind(err), err)
		util.HandleError(writer, http.StatusUnauthorized, "UNAUTHORIZED", "Требуется авторизация")
		return
	}

	log.Printf("[JWTMiddleware] не удалось проверить токен: %v", err)
	if errors.Is(err, ErrStoreUnavailable) {
		util.HandleError(writer, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "Сервис временно недоступен")
		return
	}
	util.HandleError(writer, http.StatusInternalServerError, "SERVER_ERROR", "Ошибка сервера")
}

func WithAuthContext(ctx context.Context, authContext *model.AuthContext) context.Context {
	return context.WithValue(ctx, UserContextKey, authContext)
}

func GetAuthContext(ctx context.Context) (*model.AuthContext, error) {
	authContext, ok := ctx.Value(UserContextKey).(*model.AuthContext)
	if !ok || authContext == nil {
		return nil, errors.New("пользователь не авторизован")
	}
	return authContext, nil
}
