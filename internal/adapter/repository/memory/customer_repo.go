package memory

import (
	"context"
	"sort"

	"github.com/iho/bankledger/internal/domain"
)

// CustomerRepository implements usecase.CustomerRepository and
// usecase.CredentialRepository.
type CustomerRepository struct {
	store *Store
}

// Create inserts a customer.
func (r *CustomerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.emails[customer.Email]; ok {
		return domain.ErrCustomerEmailTaken
	}

	cp := *customer
	s.customers[customer.ID] = &cp
	s.emails[customer.Email] = customer.ID

	return nil
}

// GetByID retrieves a customer by ID.
func (r *CustomerRepository) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.customers[id]
	if !ok {
		return nil, domain.ErrCustomerNotFound
	}

	cp := *c
	return &cp, nil
}

// GetByAccountNumber retrieves the owner of an account.
func (r *CustomerRepository) GetByAccountNumber(ctx context.Context, accountNumber string) (*domain.Customer, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.numbers[accountNumber]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}

	c, ok := s.customers[s.accounts[id].CustomerID]
	if !ok {
		return nil, domain.ErrCustomerNotFound
	}

	cp := *c
	return &cp, nil
}

// GetCredential returns the PIN hash of an account's owner.
func (r *CustomerRepository) GetCredential(ctx context.Context, accountNumber string) (string, error) {
	c, err := r.GetByAccountNumber(ctx, accountNumber)
	if err != nil {
		return "", err
	}

	return c.PINHash, nil
}

// Update overwrites a customer's profile and PIN hash.
func (r *CustomerRepository) Update(ctx context.Context, customer *domain.Customer) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.customers[customer.ID]
	if !ok {
		return domain.ErrCustomerNotFound
	}

	if owner, taken := s.emails[customer.Email]; taken && owner != customer.ID {
		return domain.ErrCustomerEmailTaken
	}

	delete(s.emails, current.Email)
	cp := *customer
	s.customers[customer.ID] = &cp
	s.emails[customer.Email] = customer.ID

	return nil
}

// Delete removes a customer that owns no account.
func (r *CustomerRepository) Delete(ctx context.Context, id string) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.customers[id]
	if !ok {
		return domain.ErrCustomerNotFound
	}

	for _, acc := range s.accounts {
		if acc.CustomerID == id {
			return domain.ErrCustomerInUse
		}
	}

	delete(s.customers, id)
	delete(s.emails, c.Email)

	return nil
}

// List lists customers in creation order.
func (r *CustomerRepository) List(ctx context.Context, limit, offset int) ([]*domain.Customer, error) {
	s := r.store
	s.mu.RLock()
	customers := make([]*domain.Customer, 0, len(s.customers))
	for _, c := range s.customers {
		cp := *c
		customers = append(customers, &cp)
	}
	s.mu.RUnlock()

	sort.Slice(customers, func(i, j int) bool {
		if customers[i].CreatedAt.Equal(customers[j].CreatedAt) {
			return customers[i].ID < customers[j].ID
		}
		return customers[i].CreatedAt.Before(customers[j].CreatedAt)
	})

	return page(customers, limit, offset), nil
}
