package pgsql

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/SscSPs/budget_ledger/internal/apperrors"
	"github.com/SscSPs/budget_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/budget_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/budget_ledger/internal/models"
	"github.com/SscSPs/budget_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for account data.
func newPgxAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepositoryFacade {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepositoryFacade
var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

const accountColumns = `account_id, budget_id, name, account_type, currency_code, transfer_payee_id,
		balance, cleared, uncleared, created_at, last_updated_at`

func scanAccount(row pgx.Row) (models.Account, error) {
	var m models.Account
	err := row.Scan(
		&m.AccountID,
		&m.BudgetID,
		&m.Name,
		&m.AccountType,
		&m.CurrencyCode,
		&m.TransferPayeeID,
		&m.Balance,
		&m.Cleared,
		&m.Uncleared,
		&m.CreatedAt,
		&m.LastUpdatedAt,
	)
	return m, err
}

// SaveAccount inserts a new account.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	m, err := mapping.ToModelAccount(account)
	if err != nil {
		return err
	}
	query := `INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);`
	_, err = r.db(ctx).Exec(ctx, query,
		m.AccountID,
		m.BudgetID,
		m.Name,
		m.AccountType,
		m.CurrencyCode,
		m.TransferPayeeID,
		m.Balance,
		m.Cleared,
		m.Uncleared,
		m.CreatedAt,
		m.LastUpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save account %s: %w", m.AccountID, mapError(err))
	}
	return nil
}

// FindAccountByID retrieves an account by its ID.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1;`
	m, err := scanAccount(r.db(ctx).QueryRow(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
		}
		return nil, fmt.Errorf("failed to find account by ID %s: %w", accountID, err)
	}
	d, err := mapping.ToDomainAccount(m)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// ListAccountsByBudget retrieves the accounts of a budget.
func (r *PgxAccountRepository) ListAccountsByBudget(ctx context.Context, budgetID string) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE budget_id = $1 ORDER BY name, account_id;`
	rows, err := r.db(ctx).Query(ctx, query, budgetID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts for budget %s: %w", budgetID, err)
	}
	defer rows.Close()

	var ms []models.Account
	for rows.Next() {
		m, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account rows: %w", err)
	}
	return mapping.ToDomainAccountSlice(ms)
}

// CountAccountsByBudget returns the number of accounts in a budget.
func (r *PgxAccountRepository) CountAccountsByBudget(ctx context.Context, budgetID string) (int, error) {
	var n int
	if err := r.db(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM accounts WHERE budget_id = $1;`, budgetID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count accounts for budget %s: %w", budgetID, err)
	}
	return n, nil
}

// LinkTransferPayee sets transfer_payee_id only while it is still NULL.
func (r *PgxAccountRepository) LinkTransferPayee(ctx context.Context, accountID, payeeID string, now time.Time) (bool, error) {
	query := `
		UPDATE accounts
		SET transfer_payee_id = $2, last_updated_at = $3
		WHERE account_id = $1 AND transfer_payee_id IS NULL;
	`
	cmdTag, err := r.db(ctx).Exec(ctx, query, accountID, payeeID, now)
	if err != nil {
		return false, fmt.Errorf("failed to link transfer payee for account %s: %w", accountID, mapError(err))
	}
	return cmdTag.RowsAffected() == 1, nil
}

// DeleteAccount deletes an account row.
func (r *PgxAccountRepository) DeleteAccount(ctx context.Context, accountID string) error {
	cmdTag, err := r.db(ctx).Exec(ctx, `DELETE FROM accounts WHERE account_id = $1;`, accountID)
	if err != nil {
		return fmt.Errorf("failed to delete account %s: %w", accountID, mapError(err))
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
	}
	return nil
}

// FindAccountsByIDsForUpdate selects accounts with FOR UPDATE in ascending ID order,
// so concurrent multi-account writers always acquire locks in the same order.
func (r *PgxAccountRepository) FindAccountsByIDsForUpdate(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	if len(accountIDs) == 0 {
		return map[string]domain.Account{}, nil
	}
	ids := uniqueSorted(accountIDs)

	query := `SELECT ` + accountColumns + `
		FROM accounts
		WHERE account_id = ANY($1)
		ORDER BY account_id
		FOR UPDATE;`
	rows, err := r.db(ctx).Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to lock accounts: %w", err)
	}
	defer rows.Close()

	accounts := make(map[string]domain.Account, len(ids))
	for rows.Next() {
		m, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan locked account row: %w", err)
		}
		d, err := mapping.ToDomainAccount(m)
		if err != nil {
			return nil, err
		}
		accounts[d.AccountID] = d
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating locked account rows: %w", err)
	}

	for _, id := range ids {
		if _, ok := accounts[id]; !ok {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, id)
		}
	}
	return accounts, nil
}

// UpdateAccountBalances writes new balances for the given accounts.
func (r *PgxAccountRepository) UpdateAccountBalances(ctx context.Context, accounts []domain.Account, now time.Time) error {
	if len(accounts) == 0 {
		return nil
	}
	query := `
		UPDATE accounts
		SET balance = $2, cleared = $3, uncleared = $4, last_updated_at = $5
		WHERE account_id = $1;
	`
	batch := &pgx.Batch{}
	for _, acc := range accounts {
		m, err := mapping.ToModelAccount(acc)
		if err != nil {
			return err
		}
		batch.Queue(query, m.AccountID, m.Balance, m.Cleared, m.Uncleared, now)
	}

	br := r.db(ctx).SendBatch(ctx, batch)
	defer br.Close()

	for _, acc := range accounts {
		cmdTag, err := br.Exec()
		if err != nil {
			return fmt.Errorf("failed to update balance for account %s: %w", acc.AccountID, mapError(err))
		}
		if cmdTag.RowsAffected() == 0 {
			return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, acc.AccountID)
		}
	}
	return nil
}

func uniqueSorted(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
