package model

// Result is the stable numeric code and message pair returned to callers.
type Result struct {
	Code    int
	Name    string
	Message string
}

var (
	ResultOK                  = Result{0, "OK", "success"}
	ResultLogoutOK            = Result{0, "LOGOUT_OK", "logged out"}
	ResultFail                = Result{-1, "FAIL", "unexpected server error"}
	ResultForbidden           = Result{-1, "FORBIDDEN", "insufficient authorities"}
	ResultBadRequest          = Result{-2, "BAD_REQUEST", "bad request"}
	ResultNotUsesToken        = Result{-2, "NOT_USES_TOKEN", "no valid token present"}
	ResultRateLimited         = Result{-3, "RATE_LIMITED", "too many requests"}
	ResultTimeout             = Result{-4, "REQUEST_TIMEOUT", "request timed out"}
	ResultUserIDDuplicated    = Result{2200, "USERID_DUPLICATED", "email already registered"}
	ResultUserIDNotFound      = Result{2201, "USERID_NOT_FOUND", "no account with this email"}
	ResultInvalidPassword     = Result{2202, "INVALID_PASSWORD", "invalid password"}
	ResultNotFoundUser        = Result{2203, "NOT_FOUND_USER", "member not found"}
	ResultUnauthorityToken    = Result{2204, "UNAUTHORITY_TOKEN", "token carries no authorities"}
	ResultFailSendEmail       = Result{2205, "FAIL_SEND_EMAIL", "failed to send verification code"}
	ResultIncorrectCode       = Result{2206, "UNCORRECT_CERTIFICATION_NUM", "incorrect verification code"}
	ResultInvalidRefreshToken = Result{2207, "INVALID_REFRESH_TOKEN", "invalid refresh token"}
	ResultUnverifiedEmail     = Result{2208, "UN_AUTHENTICATION_EMAIL", "email not verified"}
	ResultNotFoundDataProduct = Result{3001, "NOT_FOUND_DATA_PRODUCT", "data product not found"}
	ResultDuplicatedHeart     = Result{5001, "DUPLICATED_HEART", "data product already hearted"}
)
