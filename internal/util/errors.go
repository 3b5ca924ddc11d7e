package util

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailRegistered    = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrModuleNotFound     = errors.New("study module not found")
	ErrModuleNotPublished = errors.New("study module not published")
	ErrModulePublished    = errors.New("published modules are immutable")
	ErrNotAssigned        = errors.New("module not assigned to student")
	ErrExamNotFound       = errors.New("exam not found")
	ErrExamNotPublished   = errors.New("exam not published or not accessible")
	ErrExamAlreadyTaken   = errors.New("exam already submitted")
	ErrInvalidModuleShape = errors.New("lessons and steps must be contiguous and 1-based")
)
