package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
)

// SQLRepo is the Postgres store, sqlx over the pgx stdlib driver. Unique
// indexes on users.email and profiles.handle enforce the global uniqueness
// the memory store checks under its lock.
type SQLRepo struct {
	db *sqlx.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            TEXT PRIMARY KEY,
	name          TEXT NOT NULL,
	email         TEXT NOT NULL UNIQUE,
	avatar        TEXT NOT NULL,
	password_hash TEXT NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL
);
CREATE TABLE IF NOT EXISTS profiles (
	id              TEXT PRIMARY KEY,
	user_id         TEXT NOT NULL UNIQUE REFERENCES users(id),
	handle          TEXT NOT NULL UNIQUE,
	company         TEXT NOT NULL DEFAULT '',
	website         TEXT NOT NULL DEFAULT '',
	location        TEXT NOT NULL DEFAULT '',
	bio             TEXT NOT NULL DEFAULT '',
	status          TEXT NOT NULL,
	github_username TEXT NOT NULL DEFAULT '',
	skills          TEXT NOT NULL DEFAULT '',
	social          TEXT NOT NULL DEFAULT '{}',
	created_at      TIMESTAMPTZ NOT NULL
);
CREATE TABLE IF NOT EXISTS posts (
	id         TEXT PRIMARY KEY,
	text       TEXT NOT NULL,
	name       TEXT NOT NULL,
	avatar     TEXT NOT NULL,
	user_id    TEXT NOT NULL REFERENCES users(id),
	created_at TIMESTAMPTZ NOT NULL
);`

func NewSQLRepo(dsn string) (*SQLRepo, error) {
	db, err := sqlx.Connect("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, err
	}
	return &SQLRepo{db: db}, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (r *SQLRepo) CreateUser(ctx context.Context, u *User) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, name, email, avatar, password_hash, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		u.ID, u.Name, u.Email, u.Avatar, u.PasswordHash, u.CreatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (r *SQLRepo) GetUserByID(ctx context.Context, id string) (*User, error) {
	var u User
	err := r.db.GetContext(ctx, &u, `SELECT * FROM users WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &u, err
}

func (r *SQLRepo) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := r.db.GetContext(ctx, &u, `SELECT * FROM users WHERE email = $1`, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &u, err
}

// profileRow flattens Skills/Social for storage.
type profileRow struct {
	Profile
	SkillsCSV  string `db:"skills"`
	SocialJSON string `db:"social"`
}

func (pr *profileRow) inflate() *Profile {
	p := pr.Profile
	if pr.SkillsCSV != "" {
		p.Skills = strings.Split(pr.SkillsCSV, ",")
	} else {
		p.Skills = []string{}
	}
	if pr.SocialJSON != "" && pr.SocialJSON != "{}" {
		_ = json.Unmarshal([]byte(pr.SocialJSON), &p.Social)
	}
	return &p
}

func (r *SQLRepo) UpsertProfile(ctx context.Context, p *Profile) (*Profile, error) {
	social, err := json.Marshal(p.Social)
	if err != nil {
		return nil, err
	}
	var row profileRow
	err = r.db.GetContext(ctx, &row,
		`INSERT INTO profiles (id, user_id, handle, company, website, location, bio,
		                       status, github_username, skills, social, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 ON CONFLICT (user_id) DO UPDATE SET
			handle = EXCLUDED.handle,
			company = EXCLUDED.company,
			website = EXCLUDED.website,
			location = EXCLUDED.location,
			bio = EXCLUDED.bio,
			status = EXCLUDED.status,
			github_username = EXCLUDED.github_username,
			skills = EXCLUDED.skills,
			social = EXCLUDED.social
		 RETURNING *`,
		p.ID, p.UserID, p.Handle, p.Company, p.Website, p.Location, p.Bio,
		p.Status, p.GithubUsername, strings.Join(p.Skills, ","), string(social), p.CreatedAt)
	if isUniqueViolation(err) {
		return nil, ErrDuplicate
	}
	if err != nil {
		return nil, err
	}
	return row.inflate(), nil
}

func (r *SQLRepo) GetProfileByUserID(ctx context.Context, userID string) (*Profile, error) {
	var row profileRow
	err := r.db.GetContext(ctx, &row, `SELECT * FROM profiles WHERE user_id = $1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return row.inflate(), nil
}

func (r *SQLRepo) GetProfileByHandle(ctx context.Context, handle string) (*Profile, error) {
	var row profileRow
	err := r.db.GetContext(ctx, &row, `SELECT * FROM profiles WHERE handle = $1`, handle)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return row.inflate(), nil
}

func (r *SQLRepo) ListProfiles(ctx context.Context) ([]*Profile, error) {
	var rows []profileRow
	if err := r.db.SelectContext(ctx, &rows, `SELECT * FROM profiles ORDER BY created_at DESC`); err != nil {
		return nil, err
	}
	out := make([]*Profile, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].inflate())
	}
	return out, nil
}

func (r *SQLRepo) DeleteProfile(ctx context.Context, userID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM profiles WHERE user_id = $1`, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLRepo) CreatePost(ctx context.Context, p *Post) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO posts (id, text, name, avatar, user_id, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		p.ID, p.Text, p.Name, p.Avatar, p.UserID, p.CreatedAt)
	return err
}

func (r *SQLRepo) GetPostByID(ctx context.Context, id string) (*Post, error) {
	var p Post
	err := r.db.GetContext(ctx, &p, `SELECT * FROM posts WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &p, err
}

func (r *SQLRepo) ListPosts(ctx context.Context) ([]*Post, error) {
	var posts []*Post
	err := r.db.SelectContext(ctx, &posts, `SELECT * FROM posts ORDER BY created_at DESC`)
	return posts, err
}

func (r *SQLRepo) DeletePost(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
