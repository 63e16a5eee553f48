package cache

import (
	"strconv"

	"go-marketplace/internal/util"
)

const (
	refreshPrefix   = "refresh:"
	blacklistPrefix = "blacklist:"
	emailCodePrefix = "email-code:"
	attemptsPrefix  = "email-code-attempts:"

	// LogoutMarker is the value stored under a blacklisted access token.
	LogoutMarker = "logout"
)

func RefreshKey(userID int64) string {
	return refreshPrefix + strconv.FormatInt(userID, 10)
}

func BlacklistKey(accessToken string) string {
	return blacklistPrefix + accessToken
}

func EmailCodeKey(email string) string {
	return emailCodePrefix + util.NormalizeEmail(email)
}

func EmailAttemptsKey(email string) string {
	return attemptsPrefix + util.NormalizeEmail(email)
}
