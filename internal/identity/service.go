package identity

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/securestash/securestash/internal/common"
	"github.com/securestash/securestash/internal/cryptox"
)

// Service implements account registration and sign-in verification.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Register creates a new account. The public AccountID handle is generated
// here, exactly once; the avatar falls back to the product default when the
// caller supplies none. A duplicate email yields common.ErrAlreadyExists.
func (s *Service) Register(ctx context.Context, email, displayName, password string) (*Account, error) {
	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil, common.ErrAlreadyExists
	} else if !errors.Is(err, common.ErrNotFound) {
		return nil, fmt.Errorf("account lookup failed: %w", err)
	}

	accountID, err := common.GenerateAccountID()
	if err != nil {
		return nil, fmt.Errorf("account id generation failed: %w", err)
	}

	salt := common.GenerateRandByteArray(32)
	key := cryptox.DeriveKey([]byte(password), salt)

	account := &Account{
		Identity: Identity{
			ID:          uuid.NewString(),
			Email:       email,
			DisplayName: displayName,
			AccountID:   accountID,
			AvatarURL:   DefaultAvatarURL,
		},
		Salt:      salt,
		Verifier:  cryptox.MakeVerifier(key),
		CreatedAt: time.Now().UTC(),
	}

	account, err = s.repo.Create(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("error creating account: %w", err)
	}

	return account, nil
}

// Authenticate verifies email/password and returns the account. Unknown
// email and wrong password are indistinguishable to the caller: both yield
// common.ErrUnauthorized.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*Account, error) {
	account, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUnauthorized
		}
		return nil, common.ErrInternal
	}

	candidate := cryptox.MakeVerifier(cryptox.DeriveKey([]byte(password), account.Salt))
	if subtle.ConstantTimeCompare(account.Verifier, candidate) == 0 {
		return nil, common.ErrUnauthorized
	}

	return account, nil
}

// Get returns the account with the given id.
func (s *Service) Get(ctx context.Context, id string) (*Account, error) {
	account, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error retrieving account: %w", err)
	}
	return account, nil
}
