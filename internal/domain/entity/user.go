package entity

import "time"

// User is the aggregate root for accounts.
// TeacherProfile and PasswordCredential hang off User.ID.
type User struct {
	ID        string
	Name      string
	Role      Role
	CreatedAt time.Time
}

// IsTeacher is the role guard used by teacher-only flows.
func (u *User) IsTeacher() bool {
	return u != nil && u.Role == RoleTeacher
}

// TeacherProfile holds teacher-specific attributes, owned 1:1 by a User.
type TeacherProfile struct {
	UserID    string
	TeacherNo string
}

// PasswordCredential is the email + bcrypt hash pair used to log in.
// PasswordHash never holds the raw password.
type PasswordCredential struct {
	UserID       string
	Email        string
	PasswordHash string
}

// RegistryEntry is institutional reference data; it is never written by the app.
type RegistryEntry struct {
	Name      string
	TeacherNo string
}
