package model

type APIResponse struct {
	Success bool      `json:"success"`
	Data    any       `json:"data,omitempty"`
	Error   *APIError `json:"error,omitempty"`
	Meta    *Meta     `json:"meta,omitempty"`
}

type APIError struct {
	Code    int    `json:"code"`
	Name    string `json:"name"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

type Meta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

func NewAPIError(result Result, details string) *APIError {
	return &APIError{Code: result.Code, Name: result.Name, Message: result.Message, Details: details}
}

type SignupResponse struct {
	ID          int64    `json:"id"`
	Email       string   `json:"email"`
	Name        string   `json:"name"`
	PhoneNum    string   `json:"phone_num"`
	Authorities []string `json:"authorities"`
}

type SigninResponse struct {
	Email        string `json:"email"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

type ReissueResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

type LogoutResponse struct {
	UserID int64 `json:"user_id"`
}

type UserSummary struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	PhoneNum string `json:"phone_num"`
}

type UserIDResponse struct {
	ID int64 `json:"id"`
}

type UserList struct {
	Users []UserSummary `json:"users"`
}

type HeartDataProductList struct {
	Products []HeartDataProduct `json:"products"`
}

type EmailCodeResponse struct {
	Email     string `json:"email"`
	ExpiresIn int64  `json:"expires_in"`
}

type EmailVerifyResponse struct {
	Email    string `json:"email"`
	Verified bool   `json:"verified"`
}
