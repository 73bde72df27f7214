// internal/app/auth.go
package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	authModeOpenIDConnect = "openidconnect"

	loginStateKeyPrefix = "login_state:"
	loginStateTTL       = 10 * time.Minute
)

// Auth drives the OpenID Connect login flow. Redis holds the short-lived
// state nonces handed out at /login; sessions themselves live in the
// relational store.
type Auth struct {
	enabled bool
	redis   *redis.Client
	client  *http.Client

	clientID    string
	selfRootURL string
	tokenURL    string
	authURL     string
	userinfoURL string
}

func NewAuth(config *Config) (*Auth, error) {
	if config.Auth.Mode != authModeOpenIDConnect {
		return &Auth{enabled: false}, nil
	}

	opt, err := redis.ParseURL(config.Auth.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &Auth{
		enabled: true,
		redis:   client,
		// Identity-provider calls run before store access; an unbounded
		// call here would stall request handling.
		client:      &http.Client{Timeout: 10 * time.Second},
		clientID:    config.Auth.ClientID,
		selfRootURL: config.Auth.SelfRootURL,
		tokenURL:    config.Auth.TokenURL,
		authURL:     config.Auth.AuthURL,
		userinfoURL: config.Auth.UserinfoURL,
	}, nil
}

func (a *Auth) Enabled() bool {
	return a.enabled
}

func (a *Auth) Close() error {
	if a.redis != nil {
		return a.redis.Close()
	}
	return nil
}

func (a *Auth) redirectURI() string {
	return a.selfRootURL + "auth/openidconnect"
}

// LoginURL assembles the identity-provider redirect and caches a one-time
// state nonce for the callback to consume.
func (a *Auth) LoginURL(ctx context.Context) (string, error) {
	state := uuid.NewString()
	if err := a.redis.Set(ctx, loginStateKeyPrefix+state, 1, loginStateTTL).Err(); err != nil {
		return "", fmt.Errorf("failed to cache login state: %w", err)
	}

	return fmt.Sprintf(
		"%s?response_type=code&scope=openid%%20profile%%20roles%%20email&client_id=%s&redirect_uri=%s&state=%s",
		a.authURL,
		url.QueryEscape(a.clientID),
		url.QueryEscape(a.redirectURI()),
		state,
	), nil
}

// ConsumeState deletes the state nonce and reports whether it existed.
func (a *Auth) ConsumeState(ctx context.Context, state string) (bool, error) {
	if state == "" {
		return false, nil
	}
	removed, err := a.redis.Del(ctx, loginStateKeyPrefix+state).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check login state: %w", err)
	}
	return removed > 0, nil
}

// ExchangeCode trades the authorization code for an access token.
func (a *Auth) ExchangeCode(ctx context.Context, code string) (string, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("client_id", a.clientID)
	form.Set("redirect_uri", a.redirectURI())

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := a.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("token exchange failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read token response: %w", err)
	}

	var tokenResponse struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(body, &tokenResponse); err != nil {
		return "", fmt.Errorf("failed to parse token response: %w", err)
	}
	if tokenResponse.AccessToken == "" {
		return "", fmt.Errorf("identity provider returned no access token")
	}
	return tokenResponse.AccessToken, nil
}

// FetchUserEmail asks the userinfo endpoint for the identity behind the
// access token.
func (a *Auth) FetchUserEmail(ctx context.Context, accessToken string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.userinfoURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build userinfo request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := a.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("userinfo request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read userinfo response: %w", err)
	}

	var userinfo struct {
		Email string `json:"email"`
	}
	if err := json.Unmarshal(body, &userinfo); err != nil {
		return "", fmt.Errorf("failed to parse userinfo response: %w", err)
	}
	if userinfo.Email == "" {
		return "", fmt.Errorf("identity provider returned no email")
	}
	return userinfo.Email, nil
}
