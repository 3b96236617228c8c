package account

import (
	"context"
	"database/sql"
	"fmt"

	"gorm.io/gorm"
)

//go:generate mockgen -source=account_repo.go -destination=mock/account_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, a *Account) error
	FindByID(ctx context.Context, id string) (*Account, error)
	FindByUsername(ctx context.Context, username string) (*Account, error)
	// DeductBalanceIfSufficient atomically subtracts days from the
	// category balance, only when the balance covers it. Returns false
	// when no row qualified.
	DeductBalanceIfSufficient(ctx context.Context, accountID string, c Category, days int) (bool, error)
	// RestoreDefaultBalances puts every account back to the default
	// casual/sick/paid allocation.
	RestoreDefaultBalances(ctx context.Context) error
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) Create(ctx context.Context, a *Account) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*Account, error) {
	var a Account
	err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error
	return &a, err
}

func (r *repository) FindByUsername(ctx context.Context, username string) (*Account, error) {
	var a Account
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&a).Error
	return &a, err
}

func (r *repository) DeductBalanceIfSufficient(ctx context.Context, accountID string, c Category, days int) (bool, error) {
	col, err := c.BalanceColumn()
	if err != nil {
		return false, err
	}

	// col comes from the closed category mapping, never from input.
	query := fmt.Sprintf(`
UPDATE accounts
SET %s = %s - $1, updated_at = NOW()
WHERE id = $2 AND %s >= $1
`, col, col, col)

	if r.tx != nil {
		res, err := r.tx.ExecContext(ctx, query, days, accountID)
		if err != nil {
			return false, err
		}
		affected, err := res.RowsAffected()
		return affected > 0, err
	}

	res := r.db.WithContext(ctx).Exec(query, days, accountID)
	return res.RowsAffected > 0, res.Error
}

func (r *repository) RestoreDefaultBalances(ctx context.Context) error {
	query := `
UPDATE accounts
SET casual_balance = $1, sick_balance = $2, paid_balance = $3, updated_at = NOW()
`

	if r.tx != nil {
		_, err := r.tx.ExecContext(ctx, query,
			DefaultCasualBalance, DefaultSickBalance, DefaultPaidBalance)
		return err
	}

	return r.db.WithContext(ctx).Exec(query,
		DefaultCasualBalance, DefaultSickBalance, DefaultPaidBalance).Error
}
