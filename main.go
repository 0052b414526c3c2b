package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func main() {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET must be set")
	}
	issuer := envOr("JWT_ISSUER", "devnetwork.api")
	expSeconds, err := strconv.Atoi(envOr("JWT_EXPIRE_SECONDS", "3600"))
	if err != nil {
		log.Fatalf("JWT_EXPIRE_SECONDS: %v", err)
	}

	jwtm, err := NewJWTManager(secret, issuer, expSeconds)
	if err != nil {
		log.Fatalf("jwt init: %v", err)
	}

	var repo Repo
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		sqlRepo, err := NewSQLRepo(dsn)
		if err != nil {
			log.Fatalf("db init: %v", err)
		}
		repo = sqlRepo
	} else {
		log.Println("DATABASE_URL not set, using in-memory store")
		repo = NewInMemoryRepo()
	}

	baseURL := envOr("BASE_URL", "http://localhost:5000")
	oauthm := NewOAuthManager(baseURL,
		os.Getenv("OAUTH_GOOGLE_CLIENT_ID"), os.Getenv("OAUTH_GOOGLE_CLIENT_SECRET"),
		os.Getenv("OAUTH_GITHUB_CLIENT_ID"), os.Getenv("OAUTH_GITHUB_CLIENT_SECRET"))

	s := &Server{repo: repo, jwtm: jwtm, oauth: oauthm}
	r := newRouter(s)

	port := envOr("PORT", "5000")
	fmt.Printf("devnetwork API listening on :%s\n", port)
	if err := http.ListenAndServe(":"+port, r); err != nil {
		log.Fatal(err)
	}
}

func newRouter(s *Server) chi.Router {
	jwtm := s.jwtm
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) { w.Write([]byte("OK")) })

	r.Route("/api/users", func(r chi.Router) {
		r.Get("/test", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"msg": "Users works"})
		})
		r.Post("/register", s.Register)
		r.Post("/login", s.Login)
		r.With(VerifyMiddleware(jwtm)).Get("/current", s.CurrentUser)
	})

	r.Route("/api/profile", func(r chi.Router) {
		r.Get("/test", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"msg": "Profile works"})
		})
		r.Get("/all", s.GetAllProfiles)
		r.Get("/handle/{handle}", s.GetProfileByHandle)
		r.Get("/user/{user_id}", s.GetProfileByUserID)
		r.Group(func(r chi.Router) {
			r.Use(VerifyMiddleware(jwtm))
			r.Get("/", s.GetCurrentProfile)
			r.Post("/", s.UpsertProfile)
			r.Delete("/", s.DeleteProfile)
		})
	})

	r.Route("/api/posts", func(r chi.Router) {
		r.Get("/test", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"msg": "Posts works"})
		})
		r.Get("/", s.GetPosts)
		r.Get("/{id}", s.GetPost)
		r.Group(func(r chi.Router) {
			r.Use(VerifyMiddleware(jwtm))
			r.Post("/", s.CreatePost)
			r.Delete("/{id}", s.DeletePost)
		})
	})

	r.Get("/oauth/start/{provider}", s.OAuthStart)
	r.Get("/oauth/callback", s.OAuthCallback)

	return r
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}
