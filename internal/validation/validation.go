package validation

import (
	"os"
	"regexp"
	"strconv"
	"strings"
)

var usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_]{3,32}$`)

// MinSearchQueryLength is the shortest free-text query accepted by the
// message and user search endpoints.
const MinSearchQueryLength = 2

func NormalizeUsername(username string) string {
	return strings.TrimSpace(username)
}

func ValidateUsername(username string) bool {
	return usernameRe.MatchString(NormalizeUsername(username))
}

func PasswordMinLength() int {
	minStr := os.Getenv("PASSWORD_MIN_LENGTH")
	if minStr == "" {
		return 10
	}
	min, err := strconv.Atoi(minStr)
	if err != nil || min < 8 {
		return 10
	}
	return min
}

func ValidatePassword(password string) bool {
	return len(password) >= PasswordMinLength()
}

func MaxMessageLength() int {
	maxStr := os.Getenv("MAX_MESSAGE_LENGTH")
	if maxStr == "" {
		return 4000
	}
	max, err := strconv.Atoi(maxStr)
	if err != nil || max < 1 {
		return 4000
	}
	return max
}

func MaxAttachmentBytes() int64 {
	maxStr := os.Getenv("MAX_ATTACHMENT_BYTES")
	if maxStr == "" {
		return 10 * 1024 * 1024
	}
	max, err := strconv.ParseInt(maxStr, 10, 64)
	if err != nil || max < 1 {
		return 10 * 1024 * 1024
	}
	return max
}

func ValidateSearchQuery(q string) bool {
	return len(strings.TrimSpace(q)) >= MinSearchQueryLength
}

func TrimAndLimit(s string, max int) string {
	s = strings.TrimSpace(s)
	if max > 0 && len(s) > max {
		return s[:max]
	}
	return s
}
