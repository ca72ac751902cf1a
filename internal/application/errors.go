package application

import "errors"

var (
	// ErrIdentityMismatch means (name, teacher number) is not in the teacher registry.
	ErrIdentityMismatch = errors.New("name and teacher number do not match the registry")
	// ErrEmailAlreadyUsed means another credential already owns the email.
	ErrEmailAlreadyUsed = errors.New("email is already in use")
	// ErrInvalidCredentials covers both unknown email and wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrNotATeacher means the credential belongs to a non-teacher account.
	ErrNotATeacher = errors.New("account is not a teacher account")

	ErrUserNotFound     = errors.New("user not found")
	ErrMaterialNotFound = errors.New("material not found")
	ErrStorageDisabled  = errors.New("object storage not configured")
)
