package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"sss-backend/internal/repository"
	"sss-backend/internal/service"
)

// ErrPasswordRequired is returned when a base account has no password configured.
var ErrPasswordRequired = errors.New("base account password is required")

// Account is a username/password pair created at startup.
type Account struct {
	Username string
	Password string
}

// BaseMembers ensures the accounts every environment needs exist.
type BaseMembers struct {
	members  service.MemberService
	tx       repository.Transactor
	accounts []Account
	logger   logrus.FieldLogger
}

// NewBaseMembers creates the system and admin accounts, both with adminPassword.
func NewBaseMembers(members service.MemberService, tx repository.Transactor, adminPassword string, logger logrus.FieldLogger) *BaseMembers {
	if logger == nil {
		logger = logrus.New()
	}
	return &BaseMembers{
		members: members,
		tx:      tx,
		accounts: []Account{
			{Username: "system", Password: adminPassword},
			{Username: "admin", Password: adminPassword},
		},
		logger: logger,
	}
}

func (b *BaseMembers) Name() string { return "base-members" }

func (b *BaseMembers) Order() int { return 2 }

func (b *BaseMembers) Run(ctx context.Context) error {
	for _, account := range b.accounts {
		if strings.TrimSpace(account.Password) == "" {
			return fmt.Errorf("%s: %w", account.Username, ErrPasswordRequired)
		}
	}

	return b.tx.WithinTx(ctx, func(ctx context.Context) error {
		for _, account := range b.accounts {
			_, found, err := b.members.FindByUsername(ctx, account.Username)
			if err != nil {
				return fmt.Errorf("look up %s: %w", account.Username, err)
			}
			if found {
				continue
			}
			member, err := b.members.Join(ctx, account.Username, account.Password)
			if err != nil {
				return fmt.Errorf("create %s: %w", account.Username, err)
			}
			b.logger.WithFields(logrus.Fields{
				"username":    member.Name(),
				"admin":       member.IsAdmin(),
				"authorities": member.Authorities(),
			}).Info("created base member")
		}
		return nil
	})
}
