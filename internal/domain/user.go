package domain

import (
	"fmt"
	"strings"
)

// UserRole enumerates supported roles. A user holds exactly one role at a time.
type UserRole string

const (
	UserRoleDonor        UserRole = "Donor"
	UserRoleInnovator    UserRole = "Innovator"
	UserRoleVolunteer    UserRole = "Volunteer"
	UserRoleCollaborator UserRole = "Collaborator"
	UserRoleAdmin        UserRole = "Admin"
)

// ParseUserRole matches a role name case-insensitively.
func ParseUserRole(s string) (UserRole, error) {
	for _, r := range []UserRole{UserRoleDonor, UserRoleInnovator, UserRoleVolunteer, UserRoleCollaborator, UserRoleAdmin} {
		if strings.EqualFold(string(r), strings.TrimSpace(s)) {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown role %q: %w", s, ErrInvalidInput)
}

// VerificationStatus tracks the KYC state of an account.
type VerificationStatus string

const (
	VerificationUnverified VerificationStatus = "Unverified"
	VerificationPending    VerificationStatus = "Pending"
	VerificationVerified   VerificationStatus = "Verified"
)

// User represents a platform member.
type User struct {
	ID         string             `json:"id" yaml:"id"`
	Name       string             `json:"name" yaml:"name"`
	Email      string             `json:"email" yaml:"email"`
	Role       UserRole           `json:"role" yaml:"role"`
	Avatar     string             `json:"avatar" yaml:"avatar"`
	Bio        string             `json:"bio,omitempty" yaml:"bio"`
	Skills     []string           `json:"skills,omitempty" yaml:"skills"`
	IsVerified bool               `json:"is_verified" yaml:"is_verified"`
	KYCStatus  VerificationStatus `json:"kyc_status,omitempty" yaml:"kyc_status"`
}

// IsAdmin reports whether the user may curate projects and applications.
func (u User) IsAdmin() bool {
	return u.Role == UserRoleAdmin
}

// IsCollaborator reports whether the user may post and integrate challenges.
func (u User) IsCollaborator() bool {
	return u.Role == UserRoleCollaborator || u.Role == UserRoleAdmin
}
