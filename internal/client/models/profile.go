// Package models defines the client-side view of server data.
package models

import "time"

// Profile is a user's public profile as returned by the server.
type Profile struct {
	ID           string     `json:"id"`
	FullName     string     `json:"fullName"`
	Email        string     `json:"email"`
	Username     string     `json:"username"`
	Gender       string     `json:"gender"`
	Hobbies      []string   `json:"hobbies"`
	Country      string     `json:"country"`
	RegisteredAt time.Time  `json:"registeredAt"`
	IsVerified   bool       `json:"isVerified"`
	LastLogin    *time.Time `json:"lastLogin"`
}
