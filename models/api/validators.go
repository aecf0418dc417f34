package apimodels

import (
	"net/url"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

const (
	minPasswordLen = 8
	maxPasswordLen = 72
)

// CheckPassword empty string when the password is acceptable
func CheckPassword(password string) string {
	if utf8.RuneCountInString(password) < minPasswordLen {
		return "password must be at least 8 characters"
	}
	// bcrypt limit is in bytes
	if len(password) > maxPasswordLen {
		return "password must be at most 72 characters"
	}
	hasLetter, hasDigit := false, false
	for _, c := range password {
		switch {
		case unicode.IsLetter(c):
			hasLetter = true
		case unicode.IsDigit(c):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return "password must contain a letter and a digit"
	}
	return ""
}

func CheckGraduationYear(year int, now time.Time) string {
	if year == 0 {
		return "graduation year is required"
	}
	if year < now.Year()-1 || year > now.Year()+8 {
		return "graduation year is out of range"
	}
	return ""
}

func IsWebsite(value string) bool {
	u, err := url.ParseRequestURI(strings.TrimSpace(value))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func IsPhone(value string) bool {
	digits := 0
	for _, c := range value {
		switch {
		case unicode.IsDigit(c):
			digits++
		case c == '+' || c == '-' || c == ' ' || c == '(' || c == ')' || c == '.':
		default:
			return false
		}
	}
	return digits >= 7 && digits <= 15
}
