package models

import "time"

// Account is a site login. Superusers carry IsSuperuser, IsStaff and
// IsActive all set.
type Account struct {
	ID           string    `db:"id"`
	Username     string    `db:"username"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	IsSuperuser  bool      `db:"is_superuser"`
	IsStaff      bool      `db:"is_staff"`
	IsActive     bool      `db:"is_active"`
	DateJoined   time.Time `db:"date_joined"`
}
