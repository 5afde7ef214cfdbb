package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/SscSPs/budget_ledger/internal/apperrors"
	"github.com/SscSPs/budget_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/budget_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/budget_ledger/internal/models"
	"github.com/SscSPs/budget_ledger/internal/utils/mapping"
)

type SQLiteAccountRepository struct {
	BaseRepository
}

var _ portsrepo.AccountRepositoryFacade = (*SQLiteAccountRepository)(nil)

type scanner interface {
	Scan(dest ...any) error
}

const accountColumns = `account_id, budget_id, name, account_type, currency_code, transfer_payee_id,
	balance, cleared, uncleared, created_at, last_updated_at`

func scanAccount(row scanner) (models.Account, error) {
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
func (r *SQLiteAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	m, err := mapping.ToModelAccount(account)
	if err != nil {
		return err
	}
	query := `INSERT INTO accounts (` + accountColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db(ctx).ExecContext(ctx, query,
		m.AccountID,
		m.BudgetID,
		m.Name,
		string(m.AccountType),
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
func (r *SQLiteAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = ?`
	m, err := scanAccount(r.db(ctx).QueryRowContext(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
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

func (r *SQLiteAccountRepository) queryAccounts(ctx context.Context, query string, args ...any) ([]models.Account, error) {
	rows, err := r.db(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
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
	return ms, nil
}

// ListAccountsByBudget retrieves the accounts of a budget.
func (r *SQLiteAccountRepository) ListAccountsByBudget(ctx context.Context, budgetID string) ([]domain.Account, error) {
	ms, err := r.queryAccounts(ctx, `SELECT `+accountColumns+` FROM accounts WHERE budget_id = ? ORDER BY name, account_id`, budgetID)
	if err != nil {
		return nil, err
	}
	return mapping.ToDomainAccountSlice(ms)
}

// CountAccountsByBudget returns the number of accounts in a budget.
func (r *SQLiteAccountRepository) CountAccountsByBudget(ctx context.Context, budgetID string) (int, error) {
	var n int
	if err := r.db(ctx).QueryRowContext(ctx, `SELECT COUNT(*) FROM accounts WHERE budget_id = ?`, budgetID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count accounts for budget %s: %w", budgetID, err)
	}
	return n, nil
}

// LinkTransferPayee sets transfer_payee_id only while it is still NULL.
func (r *SQLiteAccountRepository) LinkTransferPayee(ctx context.Context, accountID, payeeID string, now time.Time) (bool, error) {
	res, err := r.db(ctx).ExecContext(ctx,
		`UPDATE accounts SET transfer_payee_id = ?, last_updated_at = ? WHERE account_id = ? AND transfer_payee_id IS NULL`,
		payeeID, now, accountID)
	if err != nil {
		return false, fmt.Errorf("failed to link transfer payee for account %s: %w", accountID, mapError(err))
	}
	n, err := rowsAffected(res)
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// DeleteAccount deletes an account row.
func (r *SQLiteAccountRepository) DeleteAccount(ctx context.Context, accountID string) error {
	res, err := r.db(ctx).ExecContext(ctx, `DELETE FROM accounts WHERE account_id = ?`, accountID)
	if err != nil {
		return fmt.Errorf("failed to delete account %s: %w", accountID, mapError(err))
	}
	n, err := rowsAffected(res)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
	}
	return nil
}

// FindAccountsByIDsForUpdate reads accounts inside the caller's transaction.
// SQLite has no row locks; the immediate transaction already holds the database write lock.
func (r *SQLiteAccountRepository) FindAccountsByIDsForUpdate(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	if len(accountIDs) == 0 {
		return map[string]domain.Account{}, nil
	}
	if _, ok := ctx.Value(txKey{}).(*sql.Tx); !ok {
		return nil, apperrors.NewAppError(500, "accounts can only be locked inside a transaction", nil)
	}
	ids := uniqueSorted(accountIDs)

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(ids)), ", ")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	ms, err := r.queryAccounts(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE account_id IN (`+placeholders+`) ORDER BY account_id`, args...)
	if err != nil {
		return nil, err
	}

	accounts := make(map[string]domain.Account, len(ms))
	for _, m := range ms {
		d, err := mapping.ToDomainAccount(m)
		if err != nil {
			return nil, err
		}
		accounts[d.AccountID] = d
	}
	for _, id := range ids {
		if _, ok := accounts[id]; !ok {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, id)
		}
	}
	return accounts, nil
}

// UpdateAccountBalances writes new balances for the given accounts.
func (r *SQLiteAccountRepository) UpdateAccountBalances(ctx context.Context, accounts []domain.Account, now time.Time) error {
	for _, acc := range accounts {
		m, err := mapping.ToModelAccount(acc)
		if err != nil {
			return err
		}
		res, err := r.db(ctx).ExecContext(ctx,
			`UPDATE accounts SET balance = ?, cleared = ?, uncleared = ?, last_updated_at = ? WHERE account_id = ?`,
			m.Balance, m.Cleared, m.Uncleared, now, m.AccountID)
		if err != nil {
			return fmt.Errorf("failed to update balance for account %s: %w", m.AccountID, mapError(err))
		}
		n, err := rowsAffected(res)
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, m.AccountID)
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
