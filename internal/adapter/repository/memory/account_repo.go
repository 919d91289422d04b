package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/simaogato/ledger-backend/internal/domain"
)

// accountRepository implements domain.AccountRepository on a map guarded by an RWMutex
type accountRepository struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account
}

// NewAccountRepository creates a new in-memory account repository
func NewAccountRepository() domain.AccountRepository {
	return &accountRepository{accounts: make(map[string]*domain.Account)}
}

// Insert registers a new account
func (r *accountRepository) Insert(ctx context.Context, account *domain.Account) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.accounts[account.Number()]; exists {
		return fmt.Errorf("%w: %s", domain.ErrDuplicateAccount, account.Number())
	}
	r.accounts[account.Number()] = account
	return nil
}

// GetByNumber retrieves an account by its number
func (r *accountRepository) GetByNumber(ctx context.Context, number string) (*domain.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	account, ok := r.accounts[number]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, number)
	}
	return account, nil
}

// Delete removes an account once guard approves it, all under the write lock
func (r *accountRepository) Delete(ctx context.Context, number string, guard func(*domain.Account) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	account, ok := r.accounts[number]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, number)
	}
	if guard != nil {
		if err := guard(account); err != nil {
			return err
		}
	}
	delete(r.accounts, number)
	return nil
}

// List returns every account from a single read-locked view of the map
func (r *accountRepository) List(ctx context.Context) ([]*domain.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Account, 0, len(r.accounts))
	for _, account := range r.accounts {
		out = append(out, account)
	}
	return out, nil
}
