package security

import "errors"

// Ошибки аутентификации. Клиенту все они отдаются одинаково (401),
// различие нужно только для логов, метрик и тестов.
var (
	ErrMissingCredential        = errors.New("токен не предоставлен")
	ErrMalformedCredential      = errors.New("некорректный формат токена")
	ErrInvalidCredential        = errors.New("невалидный токен")
	ErrCredentialExpired        = errors.New("срок действия токена истёк")
	ErrInvalidRefreshCredential = errors.New("невалидный refresh токен")
	ErrSessionNotFound          = errors.New("сессия не найдена")
	ErrSessionRevoked           = errors.New("сессия деактивирована")
	ErrSessionExpired           = errors.New("срок действия сессии истёк")
	ErrTokenNotFound            = errors.New("refresh токен не найден")
)

// ErrStoreUnavailable : хранилище сессий не ответило, решение об авторизации не принято
var ErrStoreUnavailable = errors.New("хранилище сессий недоступно")

var errorKinds = []struct {
	err  error
	kind string
}{
	{ErrMissingCredential, "missing_credential"},
	{ErrMalformedCredential, "malformed_credential"},
	{ErrInvalidCredential, "invalid_credential"},
	{ErrCredentialExpired, "credential_expired"},
	{ErrInvalidRefreshCredential, "invalid_refresh_credential"},
	{ErrSessionNotFound, "session_not_found"},
	{ErrSessionRevoked, "session_revoked"},
	{ErrSessionExpired, "session_expired"},
	{ErrTokenNotFound, "token_not_found"},
}

// IsAuthFailure : true, если ошибка означает отказ в аутентификации, а не сбой инфраструктуры
func IsAuthFailure(err error) bool {
	for _, k := range errorKinds {
		if errors.Is(err, k.err) {
			return true
		}
	}
	return false
}

// Kind : короткая метка ошибки для метрик
func Kind(err error) string {
	if err == nil {
		return "ok"
	}
	for _, k := range errorKinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	if errors.Is(err, ErrStoreUnavailable) {
		return "store_unavailable"
	}
	return "internal"
}
