package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"sss-backend/internal/domain"
	"sss-backend/internal/repository"
)

// refresh_token is nullable; SQLite UNIQUE lets any number of NULLs coexist.
const createMembersTable = `
CREATE TABLE IF NOT EXISTS members (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	username TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	refresh_token TEXT NULL UNIQUE,
	created_at DATETIME NOT NULL,
	modified_at DATETIME NOT NULL
);
`

const selectMember = `
SELECT id, username, password_hash, refresh_token, created_at, modified_at
FROM members
`

type MemberRepository struct {
	db *sql.DB
}

func NewMemberRepository(db *sql.DB) repository.MemberRepository {
	return &MemberRepository{db: db}
}

func (r *MemberRepository) Init(ctx context.Context) error {
	if _, err := conn(ctx, r.db).ExecContext(ctx, createMembersTable); err != nil {
		return fmt.Errorf("create members table: %w", err)
	}
	return nil
}

func (r *MemberRepository) Create(ctx context.Context, member *domain.Member) (int64, error) {
	now := time.Now().UTC()
	member.CreatedAt = now
	member.ModifiedAt = now

	res, err := conn(ctx, r.db).ExecContext(ctx, `
INSERT INTO members (username, password_hash, refresh_token, created_at, modified_at)
VALUES (?, ?, ?, ?, ?)`,
		member.Username,
		member.PasswordHash,
		nullString(member.RefreshToken),
		member.CreatedAt,
		member.ModifiedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("insert member %q: %w: %v", member.Username, repository.ErrDuplicate, err)
		}
		return 0, fmt.Errorf("insert member: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("member last insert id: %w", err)
	}
	member.ID = id
	return id, nil
}

func (r *MemberRepository) GetByID(ctx context.Context, id int64) (*domain.Member, bool, error) {
	row := conn(ctx, r.db).QueryRowContext(ctx, selectMember+`WHERE id = ?`, id)
	return scanMember(row)
}

func (r *MemberRepository) FindByUsername(ctx context.Context, username string) (*domain.Member, bool, error) {
	row := conn(ctx, r.db).QueryRowContext(ctx, selectMember+`WHERE username = ?`, username)
	return scanMember(row)
}

func (r *MemberRepository) FindByRefreshToken(ctx context.Context, token string) (*domain.Member, bool, error) {
	if token == "" {
		return nil, false, nil
	}
	row := conn(ctx, r.db).QueryRowContext(ctx, selectMember+`WHERE refresh_token = ?`, token)
	return scanMember(row)
}

// UpdateRefreshToken assigns token to the member; an empty token clears it.
func (r *MemberRepository) UpdateRefreshToken(ctx context.Context, id int64, token string) error {
	res, err := conn(ctx, r.db).ExecContext(ctx, `
UPDATE members SET refresh_token = ?, modified_at = ?
WHERE id = ?`,
		nullString(token),
		time.Now().UTC(),
		id,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("update refresh token of member %d: %w: %v", id, repository.ErrDuplicate, err)
		}
		return fmt.Errorf("update refresh token: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("refresh token rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("member %d: %w", id, repository.ErrNotFound)
	}
	return nil
}

func (r *MemberRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := conn(ctx, r.db).QueryRowContext(ctx, `SELECT COUNT(*) FROM members`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count members: %w", err)
	}
	return n, nil
}

func scanMember(row interface {
	Scan(dest ...any) error
}) (*domain.Member, bool, error) {
	var (
		member       domain.Member
		refreshToken sql.NullString
	)
	if err := row.Scan(
		&member.ID,
		&member.Username,
		&member.PasswordHash,
		&refreshToken,
		&member.CreatedAt,
		&member.ModifiedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("scan member: %w", err)
	}
	member.RefreshToken = refreshToken.String
	return &member, true, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func isUniqueViolation(err error) bool {
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint")
}
