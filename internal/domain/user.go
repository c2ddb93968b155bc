package domain

import "time"

// Role enumerates caller roles.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleJury   Role = "jury"
	RoleMember Role = "member"
)

// User is the domain model for registered participants. Accounts are managed
// by the auth platform; this subsystem reads them for notification delivery
// and role checks.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	// NotificationPreferences maps a notification-type key to an opt-in
	// flag. A missing key means the user has not opted in.
	NotificationPreferences map[string]bool
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

// OptedIn reports whether the user accepts notifications of the given type.
func (u *User) OptedIn(notificationType string) bool {
	if u == nil || u.NotificationPreferences == nil {
		return false
	}
	return u.NotificationPreferences[notificationType]
}
