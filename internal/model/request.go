package model

type SignupRequest struct {
	Email     string `json:"email" validate:"required,email,max=254"`
	Password  string `json:"password" validate:"required,maxbytes=72"`
	Name      string `json:"name" validate:"required,max=100"`
	PhoneNum  string `json:"phone_num" validate:"required,max=30"`
	EmailAuth bool   `json:"email_auth"`
}

type SigninRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LogoutRequest struct {
	AccessToken string `json:"access_token"`
}

type ReissueRequest struct {
	AccessToken  string `json:"access_token,omitempty"`
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type EmailCodeRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type EmailVerifyRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,numeric,len=6"`
}
