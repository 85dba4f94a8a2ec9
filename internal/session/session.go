// ABOUTME: Client session operations over a Store: token, role and user info
// ABOUTME: Single owner of session mutation shared by the guard, client and commands

package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
)

// Persisted keys. Legacy keys are read for backward compatibility and
// cleared on logout, never written.
const (
	KeyToken       = "token"
	KeyLegacyToken = "access_token"
	KeyRole        = "userRole"
	KeyLegacyRole  = "role"
	KeyUserInfo    = "userInfo"
	KeyLegacyID    = "user_id"
)

var allKeys = []string{KeyToken, KeyRole, KeyUserInfo, KeyLegacyToken, KeyLegacyRole, KeyLegacyID}

// Role is the account type a session is authenticated as
type Role string

const (
	RoleUnknown Role = ""
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
)

// ParseRole validates a role name
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleStudent, RoleTeacher:
		return Role(s), nil
	default:
		return RoleUnknown, fmt.Errorf("invalid role: %q (must be student or teacher)", s)
	}
}

// Session is the explicit session context passed to the guard and the client
type Session struct {
	store Store
}

// New creates a session over store
func New(store Store) *Session {
	return &Session{store: store}
}

// read returns a value, degrading store failures to "absent"
func (s *Session) read(ctx context.Context, key string) string {
	v, ok, err := s.store.Get(ctx, key)
	if err != nil {
		slog.Warn("Session read failed", "key", key, "error", err)
		return ""
	}
	if !ok {
		return ""
	}
	return v
}

// SaveLoginInfo stores the token and role of a fresh login
func (s *Session) SaveLoginInfo(ctx context.Context, token string, role Role) error {
	if err := s.store.Set(ctx, KeyToken, token); err != nil {
		return fmt.Errorf("saving token: %w", err)
	}
	if err := s.store.Set(ctx, KeyRole, string(role)); err != nil {
		return fmt.Errorf("saving role: %w", err)
	}
	return nil
}

// SaveUserInfo stores the JSON-encoded user profile
func (s *Session) SaveUserInfo(ctx context.Context, info UserInfo) error {
	data, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("encoding user info: %w", err)
	}
	if err := s.store.Set(ctx, KeyUserInfo, string(data)); err != nil {
		return fmt.Errorf("saving user info: %w", err)
	}
	return nil
}

// GetToken returns the token under the current key only
func (s *Session) GetToken(ctx context.Context) string {
	return s.read(ctx, KeyToken)
}

// Token returns the current token, falling back to the legacy key
func (s *Session) Token(ctx context.Context) string {
	if t := s.read(ctx, KeyToken); t != "" {
		return t
	}
	return s.read(ctx, KeyLegacyToken)
}

// GetUserRole returns the stored role, falling back to the legacy key
func (s *Session) GetUserRole(ctx context.Context) Role {
	if r := s.read(ctx, KeyRole); r != "" {
		return Role(r)
	}
	return Role(s.read(ctx, KeyLegacyRole))
}

// IsLoggedIn reports whether a token is stored under any key
func (s *Session) IsLoggedIn(ctx context.Context) bool {
	return s.Token(ctx) != ""
}

// UserInfo resolves the stored profile. Malformed JSON is logged and the
// legacy user_id/role keys are consulted instead; nil means no info.
func (s *Session) UserInfo(ctx context.Context) *UserInfo {
	if raw := s.read(ctx, KeyUserInfo); raw != "" {
		info, err := parseUserInfo(raw)
		if err == nil {
			return info
		}
		slog.Warn("Failed to parse stored user info", "error", err)
	}

	userID := s.read(ctx, KeyLegacyID)
	role := s.read(ctx, KeyLegacyRole)
	if userID == "" && role == "" {
		return nil
	}
	return &UserInfo{UserID: userID, Role: Role(role)}
}

// Username returns the stored username, then display name, or ""
func (s *Session) Username(ctx context.Context) string {
	raw := s.read(ctx, KeyUserInfo)
	if raw == "" {
		return ""
	}
	info, err := parseUserInfo(raw)
	if err != nil {
		slog.Warn("Failed to parse stored user info", "error", err)
		return ""
	}
	if info.Username != "" {
		return info.Username
	}
	return info.Name
}

// ClearLoginInfo removes every session key, legacy ones included, so a
// cleared session can never read as authenticated.
func (s *Session) ClearLoginInfo(ctx context.Context) error {
	if err := s.store.Delete(ctx, allKeys...); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	return nil
}
