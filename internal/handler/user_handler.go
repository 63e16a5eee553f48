package handler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"go-marketplace/internal/middleware"
	"go-marketplace/internal/model"
	"go-marketplace/internal/service"
	"go-marketplace/pkg/apierror"
)

type UserHandler struct {
	auth  *service.AuthService
	email *service.EmailService
	audit *service.AuditService
}

func NewUserHandler(auth *service.AuthService, email *service.EmailService, audit *service.AuditService) *UserHandler {
	return &UserHandler{auth: auth, email: email, audit: audit}
}

func (h *UserHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var payload model.SignupRequest
	if err := decodeBody(w, r, &payload); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.auth.Signup(r.Context(), payload)
	h.record(r, "signup", payload.Email, user.ID, err)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, user, nil)
}

func (h *UserHandler) Signin(w http.ResponseWriter, r *http.Request) {
	var payload model.SigninRequest
	if err := decodeBody(w, r, &payload); err != nil {
		writeError(w, err)
		return
	}

	tokens, err := h.auth.Signin(r.Context(), payload)
	h.record(r, "signin", payload.Email, 0, err)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, tokens, nil)
}

// Logout takes the access token from the body, falling back to the bearer header.
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var payload model.LogoutRequest
	if err := decodeOptionalBody(w, r, &payload); err != nil {
		writeError(w, err)
		return
	}

	token := strings.TrimSpace(payload.AccessToken)
	if token == "" {
		token, _ = middleware.BearerToken(r)
	}
	if token == "" {
		writeError(w, apierror.New(model.ResultBadRequest, "access_token is required", http.StatusBadRequest))
		return
	}

	resp, err := h.auth.Logout(r.Context(), token)
	h.record(r, "logout", "", resp.UserID, err)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, resp, nil)
}

func (h *UserHandler) Reissue(w http.ResponseWriter, r *http.Request) {
	var payload model.ReissueRequest
	if err := decodeBody(w, r, &payload); err != nil {
		writeError(w, err)
		return
	}

	tokens, err := h.auth.Reissue(r.Context(), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, tokens, nil)
}

func (h *UserHandler) RequestEmailCode(w http.ResponseWriter, r *http.Request) {
	var payload model.EmailCodeRequest
	if err := decodeBody(w, r, &payload); err != nil {
		writeError(w, err)
		return
	}

	if err := h.email.RequestCode(r.Context(), payload.Email); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusAccepted, model.EmailCodeResponse{
		Email:     payload.Email,
		ExpiresIn: int64(h.email.CodeTTL().Seconds()),
	}, nil)
}

func (h *UserHandler) VerifyEmailCode(w http.ResponseWriter, r *http.Request) {
	var payload model.EmailVerifyRequest
	if err := decodeBody(w, r, &payload); err != nil {
		writeError(w, err)
		return
	}

	if err := h.email.VerifyCode(r.Context(), payload.Email, payload.Code); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, model.EmailVerifyResponse{Email: payload.Email, Verified: true}, nil)
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.auth.FindAll(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, model.UserList{Users: users}, nil)
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"), "id")
	if err != nil {
		writeError(w, err)
		return
	}

	user, err := h.auth.FindOne(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, user, nil)
}

func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, model.ErrUnauthorized)
		return
	}

	user, err := h.auth.FindOne(r.Context(), identity.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, user, nil)
}

func (h *UserHandler) MyHearts(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, model.ErrUnauthorized)
		return
	}

	products, err := h.auth.FindHeartDataProducts(r.Context(), identity.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, model.HeartDataProductList{Products: products}, nil)
}

func (h *UserHandler) record(r *http.Request, action string, email string, userID int64, err error) {
	actor := actorFromRequest(r)
	actor.Email = email
	if actor.UserID == 0 {
		actor.UserID = userID
	}

	status, errText := auditStatus(err)
	h.audit.Log(r.Context(), action, actor, status, r.URL.Path, errText)
}
