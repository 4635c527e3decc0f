package users

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// RegisterInput carries the fields accepted at registration
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     string
	Avatar    string
}

// UpdateProfileInput carries a partial profile mutation. Nil fields are
// left untouched; email, id, role, and created_at can never change here.
type UpdateProfileInput struct {
	FirstName *string
	LastName  *string
	Phone     *string
	Avatar    *string
	Password  *string
}

// AccountManager implements Accounts on top of the credential store, the
// password hasher, and the token issuer.
type AccountManager struct {
	repo             RepositoryManager
	tokens           TokenService
	logger           Logger
	deterministicIDs bool
}

var _ Accounts = (*AccountManager)(nil)

// NewAccountManager returns a new AccountManager
func NewAccountManager(repo RepositoryManager, tokens TokenService) *AccountManager {
	return &AccountManager{
		repo:   repo,
		tokens: tokens,
		logger: defLogger{},
	}
}

func (s *AccountManager) WithLogger(logger Logger) *AccountManager {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// WithDeterministicIDs derives account ids from the email instead of
// generating random UUIDs. Useful for fixture-driven environments.
func (s *AccountManager) WithDeterministicIDs() *AccountManager {
	s.deterministicIDs = true
	return s
}

// Register creates a new account with role user and an active flag. The
// stored credential is the bcrypt hash, never the plaintext.
func (s *AccountManager) Register(ctx context.Context, input RegisterInput) (*User, error) {
	if input.Email == "" {
		return nil, ValidationError("email", "this field is required")
	}
	if input.Password == "" {
		return nil, ValidationError("password", "this field is required for registration")
	}

	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	user := &User{
		Email:     input.Email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Phone:     input.Phone,
		Avatar:    input.Avatar,
		Role:      RoleUser,
		IsActive:  true,
	}

	if s.deterministicIDs {
		if id, err := hashid.NewUUID(input.Email); err == nil {
			user.ID = id
		}
	}

	err := s.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		hash, err := HashPassword(input.Password)
		if err != nil {
			var richErr *goerrors.Error
			if goerrors.As(err, &richErr) {
				return richErr
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
		}
		user.PasswordHash = hash

		if user, err = s.repo.Users().RegisterTx(ctx, tx, user); err != nil {
			return err
		}

		return nil
	})

	if err != nil {
		s.logger.Error("register account error", "error", err, "email", input.Email)
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return nil, richErr
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "account registration failed")
	}

	s.logger.Info("account registered", "user_id", user.ID.String())

	return user, nil
}

// Login verifies credentials and issues a token pair. Unknown emails and
// wrong passwords produce the same rejection so callers cannot probe for
// registered addresses.
func (s *AccountManager) Login(ctx context.Context, email, password string) (TokenPair, error) {
	if email == "" {
		return TokenPair{}, ValidationError("email", "this field is required")
	}
	if password == "" {
		return TokenPair{}, ValidationError("password", "this field is required")
	}

	user, err := s.repo.Users().GetByEmail(ctx, email)
	if err != nil {
		if goerrors.IsNotFound(err) {
			return TokenPair{}, ErrInvalidCredentials
		}
		return TokenPair{}, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve account during login")
	}

	if err := ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		s.logger.Warn("login rejected", "user_id", user.ID.String())
		return TokenPair{}, ErrInvalidCredentials
	}

	if !user.IsActive {
		return TokenPair{}, ErrAccountDisabled
	}

	pair, err := s.tokens.IssuePair(user.Identity())
	if err != nil {
		s.logger.Error("login token issuance error", "error", err, "user_id", user.ID.String())
		return TokenPair{}, err
	}

	s.logger.Info("login succeeded", "user_id", user.ID.String())

	return pair, nil
}

// GetProfile returns the account for id. The requester must be the
// account owner.
func (s *AccountManager) GetProfile(ctx context.Context, id string, requester Requester) (*User, error) {
	accountID, err := s.authorize(id, requester)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.Users().GetAccountByID(ctx, accountID)
	if err != nil {
		if goerrors.IsNotFound(err) {
			return nil, ErrAccountNotFound
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve account")
	}

	return user, nil
}

// UpdateProfile applies the supplied profile fields and, when a password
// is present, re-hashes it. Untouched fields keep their stored values; a
// supplied empty string clears the field.
func (s *AccountManager) UpdateProfile(ctx context.Context, id string, input UpdateProfileInput, requester Requester) (*User, error) {
	accountID, err := s.authorize(id, requester)
	if err != nil {
		return nil, err
	}

	changes := &User{ID: accountID}
	var columns []string

	if input.FirstName != nil {
		changes.FirstName = *input.FirstName
		columns = append(columns, "first_name")
	}
	if input.LastName != nil {
		changes.LastName = *input.LastName
		columns = append(columns, "last_name")
	}
	if input.Phone != nil {
		changes.Phone = *input.Phone
		columns = append(columns, "phone_number")
	}
	if input.Avatar != nil {
		changes.Avatar = *input.Avatar
		columns = append(columns, "avatar")
	}
	if input.Password != nil {
		if *input.Password == "" {
			return nil, ValidationError("password", "password must not be empty")
		}
		hash, err := HashPassword(*input.Password)
		if err != nil {
			return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
		}
		changes.PasswordHash = hash
		columns = append(columns, "password_hash")
	}

	var updated *User

	err = s.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := s.repo.Users().GetAccountByIDTx(ctx, tx, accountID); err != nil {
			return err
		}

		if _, err := s.repo.Users().UpdateFieldsTx(ctx, tx, changes, columns...); err != nil {
			return err
		}

		// read back so the caller sees merged state, not the sparse record
		record, err := s.repo.Users().GetAccountByIDTx(ctx, tx, accountID)
		if err != nil {
			return err
		}

		updated = record
		return nil
	})

	if err != nil {
		if goerrors.IsNotFound(err) {
			return nil, ErrAccountNotFound
		}
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return nil, richErr
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "profile update failed")
	}

	s.logger.Info("profile updated", "user_id", accountID.String())

	return updated, nil
}

func (s *AccountManager) authorize(id string, requester Requester) (uuid.UUID, error) {
	accountID, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, ErrAccountNotFound
	}

	if requester.UserID == "" {
		return uuid.Nil, ErrUnauthenticated
	}

	if requester.UserID != accountID.String() {
		return uuid.Nil, ErrForbidden
	}

	return accountID, nil
}
