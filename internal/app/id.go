package app

import "github.com/google/uuid"

func defaultSessionID() string {
	return uuid.NewString()
}
