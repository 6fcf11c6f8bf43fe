// Package models holds the server-side user record and the views derived
// from it.
package models

import "time"

// User is a stored account. JSON names follow the users file layout, where
// the password hash lives under "password".
type User struct {
	ID                string     `json:"id"`
	FullName          string     `json:"fullName"`
	Email             string     `json:"email"`
	Username          string     `json:"username"`
	PasswordHash      string     `json:"password"`
	Gender            string     `json:"gender"`
	Hobbies           []string   `json:"hobbies"`
	Country           string     `json:"country"`
	RegisteredAt      time.Time  `json:"registeredAt"`
	IsVerified        bool       `json:"isVerified"`
	VerificationToken *string    `json:"verificationToken"`
	LastLogin         *time.Time `json:"lastLogin"`
}

// Profile is the public part of a User: no password hash and no
// verification token.
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

func (u *User) Profile() *Profile {
	hobbies := make([]string, len(u.Hobbies))
	copy(hobbies, u.Hobbies)

	return &Profile{
		ID:           u.ID,
		FullName:     u.FullName,
		Email:        u.Email,
		Username:     u.Username,
		Gender:       u.Gender,
		Hobbies:      hobbies,
		Country:      u.Country,
		RegisteredAt: u.RegisteredAt,
		IsVerified:   u.IsVerified,
		LastLogin:    u.LastLogin,
	}
}

// Clone returns a deep copy so stores can hand out records without sharing
// slices or pointers.
func (u *User) Clone() *User {
	c := *u
	if u.Hobbies != nil {
		c.Hobbies = append([]string(nil), u.Hobbies...)
	}
	if u.VerificationToken != nil {
		t := *u.VerificationToken
		c.VerificationToken = &t
	}
	if u.LastLogin != nil {
		l := *u.LastLogin
		c.LastLogin = &l
	}
	return &c
}

// UserPatch lists the mutable fields of a User. Nil fields are left alone.
type UserPatch struct {
	LastLogin              *time.Time
	IsVerified             *bool
	VerificationToken      *string
	ClearVerificationToken bool
}

// Apply writes the set fields of p into u.
func (p UserPatch) Apply(u *User) {
	if p.LastLogin != nil {
		t := *p.LastLogin
		u.LastLogin = &t
	}
	if p.IsVerified != nil {
		u.IsVerified = *p.IsVerified
	}
	if p.VerificationToken != nil {
		t := *p.VerificationToken
		u.VerificationToken = &t
	}
	if p.ClearVerificationToken {
		u.VerificationToken = nil
	}
}
