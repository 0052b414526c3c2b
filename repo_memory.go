package main

import (
	"context"
	"sort"
	"sync"
)

// InMemoryRepo backs tests and local runs; the mutex is held across
// check-and-write so unique keys stay unique under concurrency.
type InMemoryRepo struct {
	users    map[string]*User    // by id
	profiles map[string]*Profile // by user id
	posts    map[string]*Post    // by id
	mu       sync.RWMutex
}

func NewInMemoryRepo() *InMemoryRepo {
	return &InMemoryRepo{
		users:    make(map[string]*User),
		profiles: make(map[string]*Profile),
		posts:    make(map[string]*Post),
	}
}

func (r *InMemoryRepo) CreateUser(ctx context.Context, u *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return ErrDuplicate
		}
	}
	r.users[u.ID] = u
	return nil
}

func (r *InMemoryRepo) GetUserByID(ctx context.Context, id string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return u, nil
}

func (r *InMemoryRepo) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, ErrNotFound
}

func (r *InMemoryRepo) UpsertProfile(ctx context.Context, p *Profile) (*Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.profiles {
		if existing.Handle == p.Handle && existing.UserID != p.UserID {
			return nil, ErrDuplicate
		}
	}
	if existing, ok := r.profiles[p.UserID]; ok {
		p.ID = existing.ID
		p.CreatedAt = existing.CreatedAt
	}
	r.profiles[p.UserID] = p
	return p, nil
}

func (r *InMemoryRepo) GetProfileByUserID(ctx context.Context, userID string) (*Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.profiles[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return p, nil
}

func (r *InMemoryRepo) GetProfileByHandle(ctx context.Context, handle string) (*Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.profiles {
		if p.Handle == handle {
			return p, nil
		}
	}
	return nil, ErrNotFound
}

func (r *InMemoryRepo) ListProfiles(ctx context.Context) ([]*Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Profile, 0, len(r.profiles))
	for _, p := range r.profiles {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *InMemoryRepo) DeleteProfile(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.profiles[userID]; !ok {
		return ErrNotFound
	}
	delete(r.profiles, userID)
	return nil
}

func (r *InMemoryRepo) CreatePost(ctx context.Context, p *Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.posts[p.ID] = p
	return nil
}

func (r *InMemoryRepo) GetPostByID(ctx context.Context, id string) (*Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.posts[id]
	if !ok {
		return nil, ErrNotFound
	}
	return p, nil
}

func (r *InMemoryRepo) ListPosts(ctx context.Context) ([]*Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Post, 0, len(r.posts))
	for _, p := range r.posts {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *InMemoryRepo) DeletePost(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.posts[id]; !ok {
		return ErrNotFound
	}
	delete(r.posts, id)
	return nil
}
