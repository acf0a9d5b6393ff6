package session

import (
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"innospark/internal/domain"
)

// Credentials "1" / "1" sign in as the built-in super admin.
const superAdminShortcut = "1"

const (
	memberName   = "Member User"
	avatarMember = "https://api.dicebear.com/7.x/avataaars/svg?seed="
	avatarAdmin  = "https://api.dicebear.com/7.x/bottts/svg?seed=admin"
)

// account is a member registered during this session.
type account struct {
	user domain.User
	hash []byte
}

func superAdmin() domain.User {
	return domain.User{
		ID:         "super-admin-01",
		Name:       "Super Admin",
		Email:      "admin@innospark.com",
		Role:       domain.UserRoleAdmin,
		Avatar:     avatarAdmin,
		IsVerified: true,
		KYCStatus:  domain.VerificationVerified,
	}
}

func avatarFor(email string) string {
	return avatarMember + url.QueryEscape(email)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// login resolves credentials against the session's members. Must be called
// with s.mu held.
//
// Members registered in this session need their password. Seeded members
// and unknown emails are accepted with any password; unknown emails become
// an unverified donor.
func (s *Session) login(email, password string) (domain.User, error) {
	if email == superAdminShortcut && password == superAdminShortcut {
		return superAdmin(), nil
	}
	key := normalizeEmail(email)
	if key == "" || password == "" {
		return domain.User{}, fmt.Errorf("email and password required: %w", domain.ErrInvalidInput)
	}
	if acc, ok := s.accounts[key]; ok {
		if err := bcrypt.CompareHashAndPassword(acc.hash, []byte(password)); err != nil {
			return domain.User{}, fmt.Errorf("login %s: %w", key, errAuthFailed)
		}
		return acc.user, nil
	}
	for _, u := range s.users {
		if normalizeEmail(u.Email) == key {
			return u, nil
		}
	}
	return domain.User{
		ID:        s.newID(),
		Name:      memberName,
		Email:     key,
		Role:      domain.UserRoleDonor,
		Avatar:    avatarFor(key),
		KYCStatus: domain.VerificationUnverified,
	}, nil
}

// register creates a member with a hashed password. Must be called with
// s.mu held. Admin cannot be picked at sign-up.
func (s *Session) register(in Register) (domain.User, error) {
	name := strings.TrimSpace(in.Name)
	key := normalizeEmail(in.Email)
	if name == "" || key == "" || in.Password == "" {
		return domain.User{}, fmt.Errorf("name, email and password required: %w", domain.ErrInvalidInput)
	}
	role := domain.UserRoleDonor
	if strings.TrimSpace(in.Role) != "" {
		r, err := domain.ParseUserRole(in.Role)
		if err != nil {
			return domain.User{}, err
		}
		role = r
	}
	if role == domain.UserRoleAdmin {
		return domain.User{}, fmt.Errorf("register as admin: %w", domain.ErrForbidden)
	}
	if s.emailTaken(key) {
		return domain.User{}, fmt.Errorf("register %s: %w", key, errEmailTaken)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}
	u := domain.User{
		ID:        s.newID(),
		Name:      name,
		Email:     key,
		Role:      role,
		Avatar:    avatarFor(key),
		KYCStatus: domain.VerificationPending,
	}
	s.accounts[key] = account{user: u, hash: hash}
	s.users = append(s.users, u)
	return u, nil
}

func (s *Session) emailTaken(key string) bool {
	if _, ok := s.accounts[key]; ok {
		return true
	}
	for _, u := range s.users {
		if normalizeEmail(u.Email) == key {
			return true
		}
	}
	return false
}
