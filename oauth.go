package main

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
	"golang.org/x/oauth2/google"
)

type OAuthProvider string

const (
	ProviderGoogle OAuthProvider = "google"
	ProviderGitHub OAuthProvider = "github"
)

type OAuthManager struct {
	googleConf *oauth2.Config
	ghConf     *oauth2.Config
}

func NewOAuthManager(baseURL, googleID, googleSecret, ghID, ghSecret string) *OAuthManager {
	redirect := baseURL + "/oauth/callback"
	return &OAuthManager{
		googleConf: &oauth2.Config{
			ClientID:     googleID,
			ClientSecret: googleSecret,
			Endpoint:     google.Endpoint,
			RedirectURL:  redirect,
			Scopes:       []string{"openid", "email", "profile"},
		},
		ghConf: &oauth2.Config{
			ClientID:     ghID,
			ClientSecret: ghSecret,
			Endpoint:     github.Endpoint,
			RedirectURL:  redirect,
			Scopes:       []string{"user:email"},
		},
	}
}

func (o *OAuthManager) StateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func (o *OAuthManager) AuthURL(provider OAuthProvider, state string) string {
	switch provider {
	case ProviderGoogle:
		return o.googleConf.AuthCodeURL(state, oauth2.AccessTypeOffline)
	case ProviderGitHub:
		return o.ghConf.AuthCodeURL(state)
	default:
		return ""
	}
}

func (o *OAuthManager) Exchange(ctx context.Context, provider OAuthProvider, code string) (*oauth2.Token, error) {
	switch provider {
	case ProviderGoogle:
		return o.googleConf.Exchange(ctx, code)
	case ProviderGitHub:
		return o.ghConf.Exchange(ctx, code)
	default:
		return nil, fmt.Errorf("unknown provider %q", provider)
	}
}

// FetchUserInfo resolves the provider account's email and display name.
func (o *OAuthManager) FetchUserInfo(ctx context.Context, provider OAuthProvider, tok *oauth2.Token) (email, name string, err error) {
	var conf *oauth2.Config
	var url string
	switch provider {
	case ProviderGoogle:
		conf, url = o.googleConf, "https://www.googleapis.com/oauth2/v2/userinfo"
	case ProviderGitHub:
		conf, url = o.ghConf, "https://api.github.com/user"
	default:
		return "", "", fmt.Errorf("unknown provider %q", provider)
	}
	client := conf.Client(ctx, tok)
	resp, err := client.Get(url)
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("userinfo request failed: %s", resp.Status)
	}
	var info struct {
		Email string `json:"email"`
		Name  string `json:"name"`
		Login string `json:"login"` // github fallback when name is unset
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return "", "", err
	}
	if info.Email == "" {
		return "", "", fmt.Errorf("provider returned no email")
	}
	if info.Name == "" {
		info.Name = info.Login
	}
	return info.Email, info.Name, nil
}
