package main

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestInMemoryRepoUserDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryRepo()

	u := &User{ID: "u1", Name: "A", Email: "a@x.com", PasswordHash: "h", CreatedAt: time.Now()}
	if err := repo.CreateUser(ctx, u); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	dup := &User{ID: "u2", Name: "B", Email: "a@x.com", PasswordHash: "h2", CreatedAt: time.Now()}
	if err := repo.CreateUser(ctx, dup); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("duplicate email: got %v, want ErrDuplicate", err)
	}

	got, err := repo.GetUserByEmail(ctx, "a@x.com")
	if err != nil || got.ID != "u1" {
		t.Fatalf("GetUserByEmail: %v %+v", err, got)
	}
	if _, err := repo.GetUserByEmail(ctx, "missing@x.com"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing email: got %v, want ErrNotFound", err)
	}
}

func TestInMemoryRepoProfileUpsert(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryRepo()

	created, err := repo.UpsertProfile(ctx, &Profile{ID: "p1", UserID: "u1", Handle: "ada", Status: "dev", CreatedAt: time.Now()})
	if err != nil {
		t.Fatalf("UpsertProfile create: %v", err)
	}

	// same user updating keeps identity and creation time
	updated, err := repo.UpsertProfile(ctx, &Profile{ID: "ignored", UserID: "u1", Handle: "ada", Status: "lead", CreatedAt: time.Now().Add(time.Hour)})
	if err != nil {
		t.Fatalf("UpsertProfile update: %v", err)
	}
	if updated.ID != created.ID || !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Errorf("update must preserve id/createdAt: %+v vs %+v", updated, created)
	}
	if updated.Status != "lead" {
		t.Errorf("update not applied: %+v", updated)
	}

	// another user taking the same handle is a duplicate
	if _, err := repo.UpsertProfile(ctx, &Profile{ID: "p2", UserID: "u2", Handle: "ada", Status: "dev", CreatedAt: time.Now()}); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("handle collision: got %v, want ErrDuplicate", err)
	}
	if _, err := repo.GetProfileByUserID(ctx, "u2"); !errors.Is(err, ErrNotFound) {
		t.Fatal("collision must not write a profile")
	}
}

func TestInMemoryRepoPosts(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryRepo()

	base := time.Now()
	for i, id := range []string{"old", "mid", "new"} {
		p := &Post{ID: id, Text: "post " + id, UserID: "u1", CreatedAt: base.Add(time.Duration(i) * time.Minute)}
		if err := repo.CreatePost(ctx, p); err != nil {
			t.Fatalf("CreatePost: %v", err)
		}
	}

	posts, err := repo.ListPosts(ctx)
	if err != nil {
		t.Fatalf("ListPosts: %v", err)
	}
	if len(posts) != 3 || posts[0].ID != "new" || posts[2].ID != "old" {
		t.Fatalf("posts must be newest first: %+v", posts)
	}

	if err := repo.DeletePost(ctx, "mid"); err != nil {
		t.Fatalf("DeletePost: %v", err)
	}
	if _, err := repo.GetPostByID(ctx, "mid"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("deleted post must be gone: %v", err)
	}
	if err := repo.DeletePost(ctx, "mid"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("double delete: got %v, want ErrNotFound", err)
	}
}
