package requestresponse

// SignRequest : тело запроса на регистрацию и вход
type SignRequest struct {
	ID       string `json:"id" example:"user@example.com"`
	Password string `json:"password" example:"password123"`
}

// TokensResponse : ответ на успешную регистрацию или вход
type TokensResponse struct {
	AccessToken  string `json:"accessToken" example:"eyJhbGciOiJIUzUxMiIsInR5cCI6IkpXVCJ9..."`
	RefreshToken string `json:"refreshToken" example:"eyJhbGciOiJIUzUxMiIsInR5cCI6IkpXVCJ9..."`
}

// RefreshTokenRequest : запрос на получение нового access токена
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" example:"eyJhbGciOiJIUzUxMiIsInR5cCI6IkpXVCJ9..."`
}

// RefreshTokenResponse : новый access токен, refresh токен не меняется
type RefreshTokenResponse struct {
	AccessToken string `json:"accessToken" example:"eyJhbGciOiJIUzUxMiIsInR5cCI6IkpXVCJ9..."`
}

// InfoResponse : внешний идентификатор текущего пользователя
type InfoResponse struct {
	ID string `json:"id" example:"user@example.com"`
}

// MessageResponse : ответ с сообщением
type MessageResponse struct {
	Message string `json:"message" example:"Выход выполнен успешно"`
}

// RootResponse : ответ на GET /
type RootResponse struct {
	Message string `json:"message" example:"File Service API"`
	Version string `json:"version" example:"1.0.0"`
}

// ErrorDetail : детальная информация об ошибке
type ErrorDetail struct {
	Code    string `json:"code" example:"UNAUTHORIZED"`
	Message string `json:"message" example:"Требуется авторизация"`
}

// ErrorResponse : стандартная структура ошибки
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}
