package domain

import "context"

// AccountRepository defines the interface for the account store.
// Implementations must be safe for concurrent use, independently of the account locks.
type AccountRepository interface {
	// Insert registers a new account
	// Returns ErrDuplicateAccount if the number is already taken
	Insert(ctx context.Context, account *Account) error

	// GetByNumber retrieves an account by its number
	// Returns ErrNotFound if it does not exist
	GetByNumber(ctx context.Context, number string) (*Account, error)

	// Delete removes an account after guard approves it
	// The guard runs while the store is locked, so no lookup can observe the account
	// between the check and the removal. A guard error aborts the delete.
	Delete(ctx context.Context, number string, guard func(*Account) error) error

	// List returns every account taken from one consistent view of the store
	List(ctx context.Context) ([]*Account, error)
}
