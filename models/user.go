// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// User is the account entity that owns an entitlement balance.
//
// FreeTrials and Points are never negative. They are changed only by the
// ledger service (debit/credit) and by administrative grants.
type User struct {
	// ID is an opaque, stable identifier (UUIDv7 string).
	ID string `json:"id"`

	// Name is the display name of the user.
	Name string `json:"name"`

	// Email is unique across all users and is used as the login.
	Email string `json:"email"`

	// Phone is unique across all users when present.
	Phone string `json:"phone,omitempty"`

	// PasswordHash is the bcrypt hash of the user's password.
	// It is never serialized in API responses.
	PasswordHash string `json:"passwordHash"`

	// FreeTrials is the number of free attempts left.
	FreeTrials int64 `json:"freeTrials"`

	// Points is the purchased balance.
	Points int64 `json:"points"`

	// Version is bumped on every update and used for optimistic locking.
	Version int64 `json:"version"`

	// CreatedAt is the registration time.
	CreatedAt time.Time `json:"createdAt"`
}

// Balance returns the combined entitlement left for the user.
func (u User) Balance() Balance {
	return Balance{FreeTrials: u.FreeTrials, Points: u.Points}
}

// Profile returns the public view of the user without credentials.
func (u User) Profile() UserProfile {
	return UserProfile{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Phone:      u.Phone,
		FreeTrials: u.FreeTrials,
		Points:     u.Points,
		CreatedAt:  u.CreatedAt,
	}
}

// UserProfile is the user representation returned by the API.
type UserProfile struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone,omitempty"`
	FreeTrials int64     `json:"freeTrials"`
	Points     int64     `json:"points"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Balance is a snapshot of a user's entitlement.
type Balance struct {
	FreeTrials int64 `json:"freeTrials"`
	Points     int64 `json:"points"`
}

// UserPatch describes a partial update of a [User]. Nil fields are left
// untouched.
//
// When ExpectedVersion is set the update succeeds only if the stored
// version still equals it.
type UserPatch struct {
	Name         *string
	PasswordHash *string
	FreeTrials   *int64
	Points       *int64

	ExpectedVersion *int64
}

// Apply returns a copy of u with the patch applied. The version is not
// touched; storage drivers bump it.
func (p UserPatch) Apply(u User) User {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.PasswordHash != nil {
		u.PasswordHash = *p.PasswordHash
	}
	if p.FreeTrials != nil {
		u.FreeTrials = *p.FreeTrials
	}
	if p.Points != nil {
		u.Points = *p.Points
	}
	return u
}

// RegisterRequest carries the fields submitted on registration.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// LoginRequest carries login credentials.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
