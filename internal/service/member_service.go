package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"sss-backend/internal/domain"
	"sss-backend/internal/repository"
)

var (
	// ErrInvalidMember indicates join input failed validation.
	ErrInvalidMember = errors.New("invalid member")
	// ErrMemberAlreadyExists is returned when joining with a taken username.
	ErrMemberAlreadyExists = errors.New("member already exists")
	// ErrMemberNotFound is returned by operations that require an existing member.
	ErrMemberNotFound = errors.New("member not found")
	// ErrRefreshTokenInUse is returned when a refresh token is already held by another member.
	ErrRefreshTokenInUse = errors.New("refresh token already in use")
	// ErrInvalidCredentials indicates that provided login credentials are incorrect.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// MemberService describes member lifecycle operations.
type MemberService interface {
	Join(ctx context.Context, username, password string) (*domain.Member, error)
	Authenticate(ctx context.Context, username, password string) (*domain.Member, error)
	GetByID(ctx context.Context, id int64) (*domain.Member, bool, error)
	FindByUsername(ctx context.Context, username string) (*domain.Member, bool, error)
	FindByRefreshToken(ctx context.Context, token string) (*domain.Member, bool, error)
	SetRefreshToken(ctx context.Context, id int64, token string) error
	Count(ctx context.Context) (int64, error)
}

type memberService struct {
	members    repository.MemberRepository
	bcryptCost int
}

// NewMemberService builds a MemberService. A bcryptCost of zero selects bcrypt.DefaultCost.
func NewMemberService(members repository.MemberRepository, bcryptCost int) MemberService {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &memberService{
		members:    members,
		bcryptCost: bcryptCost,
	}
}

func (s *memberService) Join(ctx context.Context, username, password string) (*domain.Member, error) {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)

	if username == "" {
		return nil, fmt.Errorf("%w: username is required", ErrInvalidMember)
	}
	if password == "" {
		return nil, fmt.Errorf("%w: password is required", ErrInvalidMember)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	member := &domain.Member{
		Username:     username,
		PasswordHash: string(hash),
	}
	if _, err := s.members.Create(ctx, member); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("join %q: %w", username, ErrMemberAlreadyExists)
		}
		return nil, err
	}

	return member, nil
}

func (s *memberService) Authenticate(ctx context.Context, username, password string) (*domain.Member, error) {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	member, ok, err := s.members.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(member.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return member, nil
}

func (s *memberService) GetByID(ctx context.Context, id int64) (*domain.Member, bool, error) {
	return s.members.GetByID(ctx, id)
}

func (s *memberService) FindByUsername(ctx context.Context, username string) (*domain.Member, bool, error) {
	return s.members.FindByUsername(ctx, username)
}

func (s *memberService) FindByRefreshToken(ctx context.Context, token string) (*domain.Member, bool, error) {
	return s.members.FindByRefreshToken(ctx, token)
}

func (s *memberService) SetRefreshToken(ctx context.Context, id int64, token string) error {
	err := s.members.UpdateRefreshToken(ctx, id, token)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrDuplicate):
		return ErrRefreshTokenInUse
	case errors.Is(err, repository.ErrNotFound):
		return fmt.Errorf("set refresh token: %w", ErrMemberNotFound)
	default:
		return err
	}
}

func (s *memberService) Count(ctx context.Context) (int64, error) {
	return s.members.Count(ctx)
}
