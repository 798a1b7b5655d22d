// Package models defines server-side data models persisted in the database.
package models

import "time"

// User is an account that owns encrypted video entries.
type User struct {
	ID           string
	Email        string
	PasswordHash string

	// Profile fields, optional until the profile is completed.
	Username        string
	DateOfBirth     *time.Time
	Location        string
	ProfileComplete bool

	CreatedAt time.Time
}
