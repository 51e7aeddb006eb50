// Package models holds the persisted entities of the auth service.
package models

import (
	"database/sql"
	"time"
)

// User is the sole persisted entity. SessionID is set only while a session
// is active; ResetToken only between a reset request and its consumption.
// HashedPassword is a bcrypt digest with an embedded salt, never plaintext.
type User struct {
	ID             string
	Email          string
	HashedPassword string
	SessionID      sql.NullString
	ResetToken     sql.NullString
	CreatedAt      time.Time
}
