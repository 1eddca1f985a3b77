/*
Package validation holds the input checks every form runs before anything
is sent to the server. The same rules are enforced again by the backend.
*/
package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	EmailMinLength    = 6
	EmailMaxLength    = 64
	UsernameMinLength = 1
	UsernameMaxLength = 32
	PasswordMinLength = 8
	PasswordMaxLength = 128
	TitleMinLength    = 1
	TitleMaxLength    = 64
	TextMinLength     = 1
	TextMaxLength     = 512
)

var (
	emailRegex    = regexp.MustCompile(`^[A-Za-z0-9+_.-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,6}$`)
	usernameRegex = regexp.MustCompile(`^[a-z0-9._]{1,32}$`)
	textRegex     = regexp.MustCompile(`^[^<>]*$`)
)

// IsNullOrEmpty reports whether s is empty once surrounding whitespace is removed.
func IsNullOrEmpty(s string) bool {
	return len(strings.TrimSpace(s)) == 0
}

func HasSpaces(s string) bool {
	return strings.Contains(s, " ")
}

/*
IsValidLength reports whether s is non-empty and its length, counted in
characters, is within [minLength, maxLength].
*/
func IsValidLength(s string, minLength, maxLength int) bool {
	if IsNullOrEmpty(s) {
		return false
	}

	length := utf8.RuneCountInString(s)
	return length >= minLength && length <= maxLength
}

func IsValidEmail(email string) bool {
	return !IsNullOrEmpty(email) &&
		!HasSpaces(email) &&
		emailRegex.MatchString(email) &&
		IsValidLength(email, EmailMinLength, EmailMaxLength)
}

/*
IsValidUsername accepts lowercase letters, digits, '.' and '_'. A username
may not start or end with a dot, nor contain two dots in a row.
*/
func IsValidUsername(username string) bool {
	if IsNullOrEmpty(username) || HasSpaces(username) {
		return false
	}

	if !usernameRegex.MatchString(username) {
		return false
	}

	if strings.HasPrefix(username, ".") || strings.HasSuffix(username, ".") || strings.Contains(username, "..") {
		return false
	}

	return IsValidLength(username, UsernameMinLength, UsernameMaxLength)
}

// IsValidPassword only checks length and the absence of spaces.
func IsValidPassword(password string) bool {
	return !IsNullOrEmpty(password) &&
		!HasSpaces(password) &&
		IsValidLength(password, PasswordMinLength, PasswordMaxLength)
}

// IsValidTitle is used for album and image titles. Titles starting with '@' are reserved for personal albums.
func IsValidTitle(title string) bool {
	return !IsNullOrEmpty(title) &&
		!strings.HasPrefix(title, "@") &&
		textRegex.MatchString(title) &&
		IsValidLength(title, TitleMinLength, TitleMaxLength)
}

func IsValidText(text string) bool {
	return !IsNullOrEmpty(text) &&
		textRegex.MatchString(text) &&
		IsValidLength(text, TextMinLength, TextMaxLength)
}
