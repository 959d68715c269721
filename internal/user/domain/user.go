package domain

import "time"

// ID is the store-assigned user id in string form: a UUID for Postgres, an ObjectID hex
// string for MongoDB.
type ID string

type User struct {
	ID           ID
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
