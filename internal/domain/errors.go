package domain

import "errors"

// Auth errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrForbidden          = errors.New("user is not authorized")
)

// Validation and storage errors
var (
	ErrValidation    = errors.New("validation failed")
	ErrEmailTaken    = errors.New("email already in use")
	ErrUserNotFound  = errors.New("user not found")
	ErrPostNotFound  = errors.New("post not found")
	ErrPhotoNotFound = errors.New("photo not found")
)

// Follow errors
var (
	ErrSelfFollow       = errors.New("cannot follow yourself")
	ErrAlreadyFollowing = errors.New("already following user")
	ErrNotFollowing     = errors.New("not following user")
)

// Comment errors
var (
	ErrCommentNotFound = errors.New("comment not found")
)
