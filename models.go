package main

import "time"

// User — registered account. PasswordHash never leaves the server.
type User struct {
	ID           string    `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	Avatar       string    `json:"avatar" db:"avatar"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

// Profile — one per user, keyed on UserID. Handle is the SEO slug.
type Profile struct {
	ID             string            `json:"id" db:"id"`
	UserID         string            `json:"user" db:"user_id"`
	Handle         string            `json:"handle" db:"handle"`
	Company        string            `json:"company,omitempty" db:"company"`
	Website        string            `json:"website,omitempty" db:"website"`
	Location       string            `json:"location,omitempty" db:"location"`
	Bio            string            `json:"bio,omitempty" db:"bio"`
	Status         string            `json:"status" db:"status"`
	GithubUsername string            `json:"githubusername,omitempty" db:"github_username"`
	Skills         []string          `json:"skills" db:"-"`
	Social         map[string]string `json:"social,omitempty" db:"-"`
	CreatedAt      time.Time         `json:"createdAt" db:"created_at"`
}

// Post — Name/Avatar are a snapshot of the author at creation time;
// UserID records the owner and never changes.
type Post struct {
	ID        string    `json:"id" db:"id"`
	Text      string    `json:"text" db:"text"`
	Name      string    `json:"name" db:"name"`
	Avatar    string    `json:"avatar" db:"avatar"`
	UserID    string    `json:"user" db:"user_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
