package domain

import "time"

const (
	RoleMember = "ROLE_MEMBER"
	RoleAdmin  = "ROLE_ADMIN"
)

// Member represents a registered account.
type Member struct {
	ID           int64
	Username     string
	PasswordHash string
	// RefreshToken is empty when no token has been assigned.
	RefreshToken string
	CreatedAt    time.Time
	ModifiedAt   time.Time
}

func (m *Member) Name() string {
	return m.Username
}

func (m *Member) IsAdmin() bool {
	return m.Username == "admin"
}

// Authorities lists the roles granted to the member.
func (m *Member) Authorities() []string {
	if m.IsAdmin() {
		return []string{RoleMember, RoleAdmin}
	}
	return []string{RoleMember}
}
