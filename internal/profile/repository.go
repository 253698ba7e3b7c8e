package profile

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var ErrAccountNotFound = errors.New("landlord account not found")

type Repository interface {
	GetAccount(ctx context.Context, id uuid.UUID) (*LandlordAccount, error)
	UpdateAccount(ctx context.Context, account *LandlordAccount) error
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) GetAccount(ctx context.Context, id uuid.UUID) (*LandlordAccount, error) {
	var account LandlordAccount
	err := r.db.GetContext(ctx, &account, "SELECT * FROM landlord_accounts WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *postgresRepository) UpdateAccount(ctx context.Context, account *LandlordAccount) error {
	query := `
		UPDATE landlord_accounts SET
			full_name = :full_name,
			phone = :phone,
			business_name = :business_name,
			updated_at = NOW()
		WHERE id = :id`
	_, err := r.db.NamedExecContext(ctx, query, account)
	return err
}
