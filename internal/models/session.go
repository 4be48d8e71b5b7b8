// internal/models/session.go
package models

// SessionUser is the identity carried by a session token.
type SessionUser struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (u SessionUser) IsAdmin() bool {
	return u.Role == string(RoleAdmin)
}
