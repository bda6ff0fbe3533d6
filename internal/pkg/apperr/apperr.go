// Package apperr holds the classified errors shared by services and handlers.
// A service returns one of the kinds below (optionally wrapping a cause) and
// the HTTP layer turns it into a status and a body.
package apperr

import (
	"errors"
	"net/http"
)

type Error struct {
	Code    string
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Code + ": " + e.Message + ": " + e.Err.Error()
	}
	return e.Code + ": " + e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error with the same code, so wrapped copies still compare
// equal to the package-level kinds.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap returns a copy of kind carrying cause.
func Wrap(kind *Error, cause error) *Error {
	return &Error{Code: kind.Code, Status: kind.Status, Message: kind.Message, Err: cause}
}

// WithMessage returns a copy of kind with a different client-facing message.
func WithMessage(kind *Error, message string) *Error {
	return &Error{Code: kind.Code, Status: kind.Status, Message: message, Err: kind.Err}
}

// From extracts the classified error from err, or reports false.
func From(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// Token errors
var (
	MissingToken           = New("MISSING_TOKEN", http.StatusBadRequest, "token is missing")
	TokenExpired           = New("TOKEN_EXPIRED", http.StatusUnauthorized, "token has expired")
	UnsupportedToken       = New("UNSUPPORTED_TOKEN", http.StatusUnauthorized, "unsupported token format")
	MalformedToken         = New("MALFORMED_TOKEN", http.StatusUnauthorized, "malformed token")
	InvalidSignature       = New("INVALID_SIGNATURE", http.StatusUnauthorized, "invalid token signature")
	InvalidRefreshToken    = New("INVALID_REFRESH_TOKEN", http.StatusUnauthorized, "invalid refresh token")
	RefreshTokenNotFound   = New("REFRESH_TOKEN_NOT_FOUND", http.StatusNotFound, "refresh token not found")
	RefreshTokenMismatch   = New("REFRESH_TOKEN_MISMATCH", http.StatusUnauthorized, "refresh token does not match")
	TokenProcessingError   = New("TOKEN_PROCESSING_ERROR", http.StatusInternalServerError, "token could not be processed")
	AuthenticationRequired = New("AUTHENTICATION_REQUIRED", http.StatusUnauthorized, "authentication required")
	AccessDenied           = New("ACCESS_DENIED", http.StatusForbidden, "access denied")
)

// Account errors
var (
	PasswordMismatch  = New("PASSWORD_MISMATCH", http.StatusUnauthorized, "password does not match")
	UserNotFound      = New("USER_NOT_FOUND", http.StatusNotFound, "user not found")
	DisabledAccount   = New("DISABLED_ACCOUNT", http.StatusForbidden, "account is disabled")
	AlreadyRegistered = New("ALREADY_REGISTERED", http.StatusConflict, "email is already registered")
)

// Content errors
var (
	ValidationFailed   = New("VALIDATION_ERROR", http.StatusBadRequest, "invalid request")
	PostNotFound       = New("POST_NOT_FOUND", http.StatusNotFound, "post not found")
	ImageNotFound      = New("IMAGE_NOT_FOUND", http.StatusNotFound, "image not found")
	ImageLimitExceeded = New("IMAGE_LIMIT_EXCEEDED", http.StatusBadRequest, "image limit exceeded")
	NotAnImage         = New("NOT_AN_IMAGE", http.StatusBadRequest, "file is not an image")
	EmptyFile          = New("EMPTY_FILE", http.StatusBadRequest, "file is empty")
	NotImageOwner      = New("NOT_IMAGE_OWNER", http.StatusForbidden, "image belongs to another user")
	FileUploadFailed   = New("FILE_UPLOAD_ERROR", http.StatusInternalServerError, "file upload failed")
	FileDeleteFailed   = New("FILE_DELETE_ERROR", http.StatusInternalServerError, "file delete failed")
	Internal           = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")
)
