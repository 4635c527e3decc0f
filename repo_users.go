package users

import (
	"context"
	"strings"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Users is the credential store: user records by id and by email
type Users interface {
	repository.Repository[*User]

	Register(ctx context.Context, user *User) (*User, error)
	RegisterTx(ctx context.Context, tx bun.IDB, user *User) (*User, error)

	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByEmailTx(ctx context.Context, tx bun.IDB, email string) (*User, error)

	GetAccountByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetAccountByIDTx(ctx context.Context, tx bun.IDB, id uuid.UUID) (*User, error)

	UpdateFields(ctx context.Context, record *User, columns ...string) (*User, error)
	UpdateFieldsTx(ctx context.Context, tx bun.IDB, record *User, columns ...string) (*User, error)
}

type usersRepo struct {
	repository.Repository[*User]
	db *bun.DB
}

var (
	_ Users                        = (*usersRepo)(nil)
	_ repository.Repository[*User] = (*usersRepo)(nil)
)

// NewUsersRepository builds the bun-backed Users store
func NewUsersRepository(db *bun.DB) Users {
	repo := repository.NewRepository[*User](db, repository.ModelHandlers[*User]{
		NewRecord: func() *User { return &User{} },
		GetID: func(u *User) uuid.UUID {
			if u == nil {
				return uuid.Nil
			}
			return u.ID
		},
		SetID: func(u *User, id uuid.UUID) {
			if u != nil {
				u.ID = id
			}
		},
		GetIdentifier: func() string {
			return "email"
		},
	})

	return &usersRepo{
		Repository: repo,
		db:         db,
	}
}

func (a *usersRepo) Register(ctx context.Context, user *User) (*User, error) {
	return a.RegisterTx(ctx, a.db, user)
}

// RegisterTx persists a new account. The unique email constraint is the
// authority on duplicates; its violation maps to ErrDuplicateEmail.
func (a *usersRepo) RegisterTx(ctx context.Context, tx bun.IDB, user *User) (*User, error) {
	prepareUserDefaults(user)

	record, err := a.Repository.CreateTx(ctx, tx, user)
	if err != nil {
		if IsUniqueViolation(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}

	return record, nil
}

func (a *usersRepo) GetByEmail(ctx context.Context, email string) (*User, error) {
	return a.GetByEmailTx(ctx, a.db, email)
}

func (a *usersRepo) GetByEmailTx(ctx context.Context, tx bun.IDB, email string) (*User, error) {
	record := &User{}
	err := tx.NewSelect().
		Model(record).
		Where("?TableAlias.email = ?", strings.TrimSpace(email)).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{"email": email})
		}
		return nil, err
	}

	return record, nil
}

func (a *usersRepo) GetAccountByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return a.GetAccountByIDTx(ctx, a.db, id)
}

func (a *usersRepo) GetAccountByIDTx(ctx context.Context, tx bun.IDB, id uuid.UUID) (*User, error) {
	record := &User{}
	err := tx.NewSelect().
		Model(record).
		Where("?TableAlias.id = ?", id.String()).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{"id": id.String()})
		}
		return nil, err
	}

	return record, nil
}

func (a *usersRepo) UpdateFields(ctx context.Context, record *User, columns ...string) (*User, error) {
	return a.UpdateFieldsTx(ctx, a.db, record, columns...)
}

// UpdateFieldsTx persists a sparse record. Without an explicit column
// list only the non-zero fields it carries reach the store; with one,
// the named columns are written as-is, so callers can clear a field by
// naming its column and leaving the value blank.
func (a *usersRepo) UpdateFieldsTx(ctx context.Context, tx bun.IDB, record *User, columns ...string) (*User, error) {
	if record == nil || record.ID == uuid.Nil {
		return nil, repository.NewRecordNotFound()
	}

	record.Touch()

	if len(columns) > 0 {
		_, err := tx.NewUpdate().
			Model(record).
			Column(append(columns, "updated_at")...).
			Where("?TableAlias.id = ?", record.ID.String()).
			Exec(ctx)
		if err != nil {
			if IsUniqueViolation(err) {
				return nil, ErrDuplicateEmail
			}
			return nil, err
		}
		return a.GetAccountByIDTx(ctx, tx, record.ID)
	}

	updated, err := a.Repository.UpdateTx(ctx, tx, record, repository.UpdateByID(record.ID.String()))
	if err != nil {
		if IsUniqueViolation(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}

	return updated, nil
}

func prepareUserDefaults(record *User) {
	if record == nil {
		return
	}

	if record.Role == "" {
		record.Role = RoleUser
	}

	if record.Username == "" {
		record.Username = record.Email
	}

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}

	record.IsActive = true
}
