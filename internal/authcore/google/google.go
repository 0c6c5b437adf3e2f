// Package google implements federated sign-in through Google's OAuth2
// endpoints. A successful callback resolves or creates a local account and
// hands back a regular token pair, so downstream consumers never see the
// Google identity directly.
package google

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/shopvn/authcore/internal/authcore/domain"
	"github.com/shopvn/authcore/internal/authcore/service"
	"github.com/shopvn/authcore/internal/authcore/store"
	"github.com/shopvn/authcore/pkg/cryptox"
	"github.com/shopvn/authcore/pkg/idx"
	"github.com/shopvn/authcore/pkg/slogx"
	"golang.org/x/oauth2"
	goauth "golang.org/x/oauth2/google"
)

const userinfoURL = "https://www.googleapis.com/oauth2/v3/userinfo"

// stateVal rides through the OAuth2 state parameter so the callback can
// attribute the new device to the browser that started the flow.
type stateVal struct {
	UserAgent string `json:"userAgent"`
	IP        string `json:"ip"`
}

type userinfo struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// Service drives the authorization-code flow against Google.
type Service struct {
	Config   *oauth2.Config
	Store    store.Store
	Sessions *service.SessionManager
	Hasher   service.Hasher

	// HTTPClient overrides the userinfo fetch transport in tests.
	HTTPClient *http.Client
}

// NewService builds the oauth2 config for the given client credentials.
func NewService(clientID, clientSecret, redirectURI string, st store.Store, sessions *service.SessionManager, hasher service.Hasher) *Service {
	return &Service{
		Config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURI,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     goauth.Endpoint,
		},
		Store:    st,
		Sessions: sessions,
		Hasher:   hasher,
	}
}

// AuthorizationURL returns the Google consent URL. The caller's user agent
// and IP are folded into the state parameter as base64url JSON.
func (s *Service) AuthorizationURL(userAgent, ip string) (string, error) {
	raw, err := json.Marshal(stateVal{UserAgent: userAgent, IP: ip})
	if err != nil {
		return "", fmt.Errorf("encode oauth state: %w", err)
	}
	state := base64.URLEncoding.EncodeToString(raw)
	return s.Config.AuthCodeURL(state, oauth2.AccessTypeOffline), nil
}

// Callback exchanges the authorization code, resolves the Google profile to
// a local account (creating one with a random password and the Client role
// on first sign-in), records a device and issues a token pair.
func (s *Service) Callback(ctx context.Context, code, state string) (domain.TokenPair, error) {
	sv, err := decodeState(state)
	if err != nil {
		return domain.TokenPair{}, err
	}

	tok, err := s.Config.Exchange(ctx, code)
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("exchange authorization code: %w", err)
	}

	info, err := s.fetchUserinfo(ctx, tok)
	if err != nil {
		return domain.TokenPair{}, err
	}
	if info.Email == "" {
		return domain.TokenPair{}, fmt.Errorf("google userinfo missing email")
	}

	user, role, err := s.resolveUser(ctx, info)
	if err != nil {
		return domain.TokenPair{}, err
	}

	device := domain.Device{
		ID:        idx.New().String(),
		UserID:    user.ID,
		UserAgent: sv.UserAgent,
		IP:        sv.IP,
		IsActive:  true,
	}
	if err := s.Store.Devices().CreateDevice(ctx, device); err != nil {
		return domain.TokenPair{}, err
	}

	return s.Sessions.GenerateTokens(ctx, user.ID, device.ID, role.ID, role.Name)
}

func decodeState(state string) (stateVal, error) {
	raw, err := base64.URLEncoding.DecodeString(state)
	if err != nil {
		return stateVal{}, fmt.Errorf("decode oauth state: %w", err)
	}
	var sv stateVal
	if err := json.Unmarshal(raw, &sv); err != nil {
		return stateVal{}, fmt.Errorf("decode oauth state: %w", err)
	}
	return sv, nil
}

func (s *Service) fetchUserinfo(ctx context.Context, tok *oauth2.Token) (userinfo, error) {
	client := s.HTTPClient
	if client == nil {
		client = s.Config.Client(ctx, tok)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, userinfoURL, nil)
	if err != nil {
		return userinfo{}, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return userinfo{}, fmt.Errorf("fetch google userinfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return userinfo{}, fmt.Errorf("fetch google userinfo: status %d: %s", resp.StatusCode, body)
	}

	var info userinfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return userinfo{}, fmt.Errorf("decode google userinfo: %w", err)
	}
	return info, nil
}

// resolveUser finds the account matching the Google email, or provisions a
// Client-role account with an unguessable password on first sign-in.
func (s *Service) resolveUser(ctx context.Context, info userinfo) (domain.User, domain.Role, error) {
	user, role, err := s.Store.Users().GetUserByEmailWithRole(ctx, info.Email)
	if err == nil {
		return user, role, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return domain.User{}, domain.Role{}, err
	}

	clientRole, err := s.Store.Roles().GetRoleByName(ctx, domain.RoleClient)
	if err != nil {
		return domain.User{}, domain.Role{}, err
	}

	password, err := cryptox.GeneratePassword(16)
	if err != nil {
		return domain.User{}, domain.Role{}, err
	}
	hash, err := s.Hasher.Hash(password)
	if err != nil {
		return domain.User{}, domain.Role{}, err
	}

	var avatar *string
	if info.Picture != "" {
		avatar = &info.Picture
	}

	user = domain.User{
		ID:           idx.New().String(),
		Email:        info.Email,
		Name:         info.Name,
		PasswordHash: hash,
		Avatar:       avatar,
		Status:       domain.UserStatusActive,
		RoleID:       clientRole.ID,
	}
	if err := s.Store.Users().CreateUser(ctx, user); err != nil {
		return domain.User{}, domain.Role{}, err
	}

	slogx.FromContext(ctx).Info("provisioned user from google sign-in", "user_id", user.ID)
	return user, clientRole, nil
}
