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

// ErrPartialSeed is returned when some sample accounts exist but the sentinel
// account does not, so seeding can neither be skipped nor safely repeated.
var ErrPartialSeed = errors.New("sample members partially present")

// SampleAccounts are the fixture accounts for non-production environments.
// The first entry is the sentinel checked before seeding.
var SampleAccounts = []Account{
	{Username: "user1", Password: "1234"},
	{Username: "user2", Password: "1234"},
	{Username: "user3", Password: "1234"},
	{Username: "user4", Password: "1234"},
}

// SampleMembers seeds SampleAccounts, each with a refresh token equal to its
// username. All accounts are created in one transaction.
type SampleMembers struct {
	members service.MemberService
	tx      repository.Transactor
	logger  logrus.FieldLogger
}

func NewSampleMembers(members service.MemberService, tx repository.Transactor, logger logrus.FieldLogger) *SampleMembers {
	if logger == nil {
		logger = logrus.New()
	}
	return &SampleMembers{
		members: members,
		tx:      tx,
		logger:  logger,
	}
}

func (s *SampleMembers) Name() string { return "sample-members" }

func (s *SampleMembers) Order() int { return 3 }

func (s *SampleMembers) Run(ctx context.Context) error {
	seeded := false
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		sentinel := SampleAccounts[0].Username
		_, found, err := s.members.FindByUsername(ctx, sentinel)
		if err != nil {
			return fmt.Errorf("look up %s: %w", sentinel, err)
		}
		if found {
			s.logger.WithField("sentinel", sentinel).Debug("sample members already present")
			return nil
		}

		var present []string
		for _, account := range SampleAccounts[1:] {
			_, ok, err := s.members.FindByUsername(ctx, account.Username)
			if err != nil {
				return fmt.Errorf("look up %s: %w", account.Username, err)
			}
			if ok {
				present = append(present, account.Username)
			}
		}
		if len(present) > 0 {
			return fmt.Errorf("%w: %s is missing but %s exist", ErrPartialSeed, sentinel, strings.Join(present, ", "))
		}

		for _, account := range SampleAccounts {
			member, err := s.members.Join(ctx, account.Username, account.Password)
			if err != nil {
				return err
			}
			if err := s.members.SetRefreshToken(ctx, member.ID, account.Username); err != nil {
				return fmt.Errorf("set refresh token of %s: %w", account.Username, err)
			}
		}
		seeded = true
		return nil
	})
	if err != nil {
		return fmt.Errorf("seed sample members: %w", err)
	}

	if seeded {
		s.logger.WithField("count", len(SampleAccounts)).Info("seeded sample members")
	}
	return nil
}
