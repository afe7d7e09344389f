// Package services contains server-side business logic. This file implements
// UserService, the credential store: registration, identity lookup and
// password verification.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/corechat/internal/common"
	"github.com/dmitrijs2005/corechat/internal/cryptox"
	"github.com/dmitrijs2005/corechat/internal/dbx"
	"github.com/dmitrijs2005/corechat/internal/server/config"
	"github.com/dmitrijs2005/corechat/internal/server/models"
	"github.com/dmitrijs2005/corechat/internal/server/repositories/repomanager"
)

// UserService owns account lifetime. Accounts are created by Register and
// never mutated afterwards.
type UserService struct {
	db                *sql.DB
	atomic            *dbx.Atomic
	repomanager       repomanager.RepositoryManager
	hasher            *cryptox.PasswordHasher
	minPasswordLength int
	now               func() time.Time
}

// NewUserService constructs a UserService using repositories and server config.
// db may be nil for the memory driver.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) (*UserService, error) {
	hasher, err := cryptox.NewPasswordHasher(cfg.BcryptCost)
	if err != nil {
		return nil, err
	}

	minLen := cfg.MinPasswordLength
	if minLen <= 0 {
		minLen = 8
	}

	return &UserService{
		db:                db,
		atomic:            dbx.NewAtomic(db),
		repomanager:       m,
		hasher:            hasher,
		minPasswordLength: minLen,
		now:               time.Now,
	}, nil
}

// Register validates the input, hashes the password and persists a new
// account. A taken username or email yields common.ErrDuplicateIdentity.
func (s *UserService) Register(ctx context.Context, username, email, password string) (*models.Account, error) {

	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	if username == "" || email == "" || password == "" {
		return nil, fmt.Errorf("%w: username, email and password are required", common.ErrInvalidInput)
	}
	if utf8.RuneCountInString(password) < s.minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", common.ErrInvalidInput, s.minPasswordLength)
	}
	if len(password) > cryptox.MaxPasswordBytes {
		return nil, fmt.Errorf("%w: password must be at most %d bytes", common.ErrInvalidInput, cryptox.MaxPasswordBytes)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	account := &models.Account{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    s.now().UTC().Truncate(time.Microsecond),
	}

	err = s.atomic.Do(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Accounts(tx)

		if err := ensureAbsent(repo.GetByUsername(ctx, username)); err != nil {
			return err
		}
		if err := ensureAbsent(repo.GetByEmail(ctx, email)); err != nil {
			return err
		}

		account, err = repo.Create(ctx, account)
		return err
	})

	if err != nil {
		if errors.Is(err, common.ErrDuplicateIdentity) {
			return nil, common.ErrDuplicateIdentity
		}
		return nil, fmt.Errorf("error creating account: %w", err)
	}

	return account, nil
}

// FindByIdentity looks the account up by username first and by email second.
// Both are exact matches. A miss on both yields common.ErrorNotFound.
func (s *UserService) FindByIdentity(ctx context.Context, usernameOrEmail string) (*models.Account, error) {

	identity := strings.TrimSpace(usernameOrEmail)
	if identity == "" {
		return nil, common.ErrorNotFound
	}

	repo := s.repomanager.Accounts(dbx.Handle(s.db))

	account, err := repo.GetByUsername(ctx, identity)
	if err == nil {
		return account, nil
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, err
	}

	return repo.GetByEmail(ctx, identity)
}

// VerifyPassword reports whether password matches the account's hash. A nil
// account still pays for a bcrypt comparison.
func (s *UserService) VerifyPassword(account *models.Account, password string) bool {
	if account == nil {
		return s.hasher.Verify("", password)
	}
	return s.hasher.Verify(account.PasswordHash, password)
}

// Authenticate resolves the identity and checks the password. Unknown
// identities and wrong passwords both yield common.ErrInvalidCredentials.
func (s *UserService) Authenticate(ctx context.Context, usernameOrEmail, password string) (*models.Account, error) {

	account, err := s.FindByIdentity(ctx, usernameOrEmail)
	if err != nil && !errors.Is(err, common.ErrorNotFound) {
		return nil, fmt.Errorf("error looking up account: %w", err)
	}

	if !s.VerifyPassword(account, password) {
		return nil, common.ErrInvalidCredentials
	}

	return account, nil
}

func ensureAbsent(_ *models.Account, err error) error {
	if err == nil {
		return common.ErrDuplicateIdentity
	}
	if errors.Is(err, common.ErrorNotFound) {
		return nil
	}
	return err
}
