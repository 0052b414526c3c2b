package main

import (
	"context"
	"errors"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate key")
)

type Repo interface {
	// Users
	CreateUser(ctx context.Context, u *User) error // ErrDuplicate on existing email
	GetUserByID(ctx context.Context, id string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)

	// Profiles; upsert is keyed on UserID
	UpsertProfile(ctx context.Context, p *Profile) (*Profile, error)
	GetProfileByUserID(ctx context.Context, userID string) (*Profile, error)
	GetProfileByHandle(ctx context.Context, handle string) (*Profile, error)
	ListProfiles(ctx context.Context) ([]*Profile, error)
	DeleteProfile(ctx context.Context, userID string) error

	// Posts; list is newest first
	CreatePost(ctx context.Context, p *Post) error
	GetPostByID(ctx context.Context, id string) (*Post, error)
	ListPosts(ctx context.Context) ([]*Post, error)
	DeletePost(ctx context.Context, id string) error
}
