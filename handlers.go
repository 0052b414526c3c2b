package main

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type Server struct {
	repo  Repo
	jwtm  *JWTManager
	oauth *OAuthManager
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeFieldError(w http.ResponseWriter, status int, field, msg string) {
	writeJSON(w, status, map[string]string{field: msg})
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeFieldError(w, http.StatusBadRequest, "body", "Invalid request body")
		return false
	}
	return true
}

// Register: duplicate email is a 400 conflict; the stored hash is fresh per
// registration and never echoed back (User.PasswordHash is json:"-").
func (s *Server) Register(w http.ResponseWriter, r *http.Request) {
	var in RegisterInput
	if !decodeBody(w, r, &in) {
		return
	}
	if v := ValidateRegisterInput(in); !v.IsValid {
		writeJSON(w, http.StatusBadRequest, v.Errors)
		return
	}
	ctx := r.Context()
	if _, err := s.repo.GetUserByEmail(ctx, in.Email); err == nil {
		writeFieldError(w, http.StatusBadRequest, "email", "E-mail address already exists.")
		return
	}
	hash, err := HashPassword(in.Password)
	if err != nil {
		writeFieldError(w, http.StatusInternalServerError, "error", "Could not create user")
		return
	}
	u := &User{
		ID:           uuid.NewString(),
		Name:         in.Name,
		Email:        in.Email,
		Avatar:       GravatarURL(in.Email, 200),
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.repo.CreateUser(ctx, u); err != nil {
		if errors.Is(err, ErrDuplicate) {
			writeFieldError(w, http.StatusBadRequest, "email", "E-mail address already exists.")
			return
		}
		log.Printf("register: create user: %v", err)
		writeFieldError(w, http.StatusInternalServerError, "error", "Could not create user")
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// Login: unknown email is 404, wrong password 400; success returns the
// token already prefixed with the Bearer scheme.
func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var in LoginInput
	if !decodeBody(w, r, &in) {
		return
	}
	if v := ValidateLoginInput(in); !v.IsValid {
		writeJSON(w, http.StatusBadRequest, v.Errors)
		return
	}
	u, err := s.repo.GetUserByEmail(r.Context(), in.Email)
	if err != nil {
		writeFieldError(w, http.StatusNotFound, "email", "User not found")
		return
	}
	if !CheckPassword(in.Password, u.PasswordHash) {
		writeFieldError(w, http.StatusBadRequest, "password", "Password incorrect")
		return
	}
	token, _, err := s.jwtm.GenerateToken(u)
	if err != nil {
		writeFieldError(w, http.StatusInternalServerError, "error", "Could not sign token")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"token":   "Bearer " + token,
	})
}

// CurrentUser echoes the identity behind the presented token.
func (s *Server) CurrentUser(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromCtx(r)
	if claims == nil {
		writeUnauthorized(w)
		return
	}
	u, err := s.repo.GetUserByID(r.Context(), claims.UserID)
	if err != nil {
		writeUnauthorized(w)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"id":     u.ID,
		"name":   u.Name,
		"email":  u.Email,
		"avatar": u.Avatar,
	})
}

func (s *Server) GetCurrentProfile(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromCtx(r)
	if claims == nil {
		writeUnauthorized(w)
		return
	}
	p, err := s.repo.GetProfileByUserID(r.Context(), claims.UserID)
	if err != nil {
		writeFieldError(w, http.StatusNotFound, "noprofile", "There is no profile for this user")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) GetAllProfiles(w http.ResponseWriter, r *http.Request) {
	profiles, err := s.repo.ListProfiles(r.Context())
	if err != nil || len(profiles) == 0 {
		writeFieldError(w, http.StatusNotFound, "noprofile", "There are no profiles")
		return
	}
	writeJSON(w, http.StatusOK, profiles)
}

func (s *Server) GetProfileByHandle(w http.ResponseWriter, r *http.Request) {
	p, err := s.repo.GetProfileByHandle(r.Context(), chi.URLParam(r, "handle"))
	if err != nil {
		writeFieldError(w, http.StatusNotFound, "noprofile", "There is no profile for this user")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) GetProfileByUserID(w http.ResponseWriter, r *http.Request) {
	p, err := s.repo.GetProfileByUserID(r.Context(), chi.URLParam(r, "user_id"))
	if err != nil {
		writeFieldError(w, http.StatusNotFound, "noprofile", "There is no profile for this user")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// UpsertProfile creates or updates the caller's profile. A handle held by a
// different user is rejected before anything is written.
func (s *Server) UpsertProfile(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromCtx(r)
	if claims == nil {
		writeUnauthorized(w)
		return
	}
	var in ProfileInput
	if !decodeBody(w, r, &in) {
		return
	}
	if v := ValidateProfileInput(in); !v.IsValid {
		writeJSON(w, http.StatusBadRequest, v.Errors)
		return
	}
	ctx := r.Context()
	if existing, err := s.repo.GetProfileByHandle(ctx, in.Handle); err == nil && existing.UserID != claims.UserID {
		writeFieldError(w, http.StatusBadRequest, "handle", "That handle already exists")
		return
	}
	social := map[string]string{}
	for platform, url := range map[string]string{
		"youtube":   in.Youtube,
		"twitter":   in.Twitter,
		"facebook":  in.Facebook,
		"linkedin":  in.Linkedin,
		"instagram": in.Instagram,
	} {
		if url != "" {
			social[platform] = url
		}
	}
	skills := []string{}
	for _, sk := range strings.Split(in.Skills, ",") {
		if sk = strings.TrimSpace(sk); sk != "" {
			skills = append(skills, sk)
		}
	}
	p := &Profile{
		ID:             uuid.NewString(),
		UserID:         claims.UserID,
		Handle:         in.Handle,
		Company:        in.Company,
		Website:        in.Website,
		Location:       in.Location,
		Bio:            in.Bio,
		Status:         in.Status,
		GithubUsername: in.GithubUsername,
		Skills:         skills,
		Social:         social,
		CreatedAt:      time.Now().UTC(),
	}
	saved, err := s.repo.UpsertProfile(ctx, p)
	if err != nil {
		if errors.Is(err, ErrDuplicate) {
			writeFieldError(w, http.StatusBadRequest, "handle", "That handle already exists")
			return
		}
		log.Printf("profile upsert: %v", err)
		writeFieldError(w, http.StatusInternalServerError, "error", "Could not save profile")
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (s *Server) DeleteProfile(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromCtx(r)
	if claims == nil {
		writeUnauthorized(w)
		return
	}
	if err := s.repo.DeleteProfile(r.Context(), claims.UserID); err != nil {
		writeFieldError(w, http.StatusNotFound, "noprofile", "There is no profile for this user")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) GetPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := s.repo.ListPosts(r.Context())
	if err != nil {
		writeFieldError(w, http.StatusNotFound, "noPostFound", "No posts found!")
		return
	}
	if posts == nil {
		posts = []*Post{}
	}
	writeJSON(w, http.StatusOK, posts)
}

func (s *Server) GetPost(w http.ResponseWriter, r *http.Request) {
	p, err := s.repo.GetPostByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeFieldError(w, http.StatusNotFound, "noPostFound", "No post found with that ID!")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// CreatePost snapshots the author's name and avatar from the token claims.
func (s *Server) CreatePost(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromCtx(r)
	if claims == nil {
		writeUnauthorized(w)
		return
	}
	var in PostInput
	if !decodeBody(w, r, &in) {
		return
	}
	if v := ValidatePostInput(in); !v.IsValid {
		writeJSON(w, http.StatusBadRequest, v.Errors)
		return
	}
	p := &Post{
		ID:        uuid.NewString(),
		Text:      in.Text,
		Name:      claims.Name,
		Avatar:    claims.Avatar,
		UserID:    claims.UserID,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.CreatePost(r.Context(), p); err != nil {
		log.Printf("create post: %v", err)
		writeFieldError(w, http.StatusInternalServerError, "error", "Could not save post")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// DeletePost loads first so a missing id is 404; only then is ownership
// compared, and a non-owner gets 401.
func (s *Server) DeletePost(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromCtx(r)
	if claims == nil {
		writeUnauthorized(w)
		return
	}
	ctx := r.Context()
	p, err := s.repo.GetPostByID(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeFieldError(w, http.StatusNotFound, "postNotFound", "No post found")
		return
	}
	if !AuthorizeOwner(claims, p.UserID) {
		writeFieldError(w, http.StatusUnauthorized, "notAuthorized", "User not authorized")
		return
	}
	if err := s.repo.DeletePost(ctx, p.ID); err != nil {
		writeFieldError(w, http.StatusNotFound, "postNotFound", "No post found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// OAuthStart redirects to the provider's consent screen.
func (s *Server) OAuthStart(w http.ResponseWriter, r *http.Request) {
	provider := OAuthProvider(chi.URLParam(r, "provider"))
	state, err := s.oauth.StateToken()
	if err != nil {
		writeFieldError(w, http.StatusInternalServerError, "error", "Could not start OAuth flow")
		return
	}
	url := s.oauth.AuthURL(provider, state)
	if url == "" {
		writeFieldError(w, http.StatusBadRequest, "provider", "Unknown provider")
		return
	}
	http.Redirect(w, r, url, http.StatusFound)
}

// OAuthCallback exchanges the code, resolves the provider email and issues
// the same bearer token a password login would.
func (s *Server) OAuthCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	code := r.URL.Query().Get("code")
	provider := OAuthProvider(r.URL.Query().Get("provider"))
	if code == "" {
		writeFieldError(w, http.StatusBadRequest, "code", "Authorization code missing")
		return
	}
	tok, err := s.oauth.Exchange(ctx, provider, code)
	if err != nil {
		writeUnauthorized(w)
		return
	}
	email, name, err := s.oauth.FetchUserInfo(ctx, provider, tok)
	if err != nil {
		writeUnauthorized(w)
		return
	}
	u, err := s.repo.GetUserByEmail(ctx, email)
	if errors.Is(err, ErrNotFound) {
		// first OAuth login: provision an account with an unusable password
		hash, herr := HashPassword(uuid.NewString())
		if herr != nil {
			writeFieldError(w, http.StatusInternalServerError, "error", "Could not create user")
			return
		}
		u = &User{
			ID:           uuid.NewString(),
			Name:         name,
			Email:        email,
			Avatar:       GravatarURL(email, 200),
			PasswordHash: hash,
			CreatedAt:    time.Now().UTC(),
		}
		if cerr := s.repo.CreateUser(ctx, u); cerr != nil {
			writeFieldError(w, http.StatusInternalServerError, "error", "Could not create user")
			return
		}
	} else if err != nil {
		writeFieldError(w, http.StatusInternalServerError, "error", "Store failure")
		return
	}
	token, _, err := s.jwtm.GenerateToken(u)
	if err != nil {
		writeFieldError(w, http.StatusInternalServerError, "error", "Could not sign token")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"token":   "Bearer " + token,
	})
}
