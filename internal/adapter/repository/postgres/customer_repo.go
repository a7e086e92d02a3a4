package postgres

import (
	"context"

	"github.com/iho/bankledger/internal/domain"
	"github.com/iho/bankledger/internal/infrastructure/postgres/generated"
)

// CustomerRepository implements usecase.CustomerRepository and
// usecase.CredentialRepository.
type CustomerRepository struct {
	queries *generated.Queries
}

// NewCustomerRepository creates a new CustomerRepository.
func NewCustomerRepository(db generated.DBTX) *CustomerRepository {
	return &CustomerRepository{queries: generated.New(db)}
}

// Create inserts a customer.
func (r *CustomerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	err := r.queries.CreateCustomer(ctx, generated.CreateCustomerParams{
		ID:        customer.ID,
		Name:      customer.Name,
		Email:     customer.Email,
		Phone:     customer.Phone,
		PinHash:   customer.PINHash,
		CreatedAt: timeToPgTimestamptz(customer.CreatedAt),
		UpdatedAt: timeToPgTimestamptz(customer.UpdatedAt),
	})

	return translateError("create customer", err, nil)
}

// GetByID retrieves a customer by ID.
func (r *CustomerRepository) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	row, err := r.queries.GetCustomerByID(ctx, id)
	if err != nil {
		return nil, notFound("get customer", err, domain.ErrCustomerNotFound)
	}

	return rowToCustomer(row), nil
}

// GetByAccountNumber retrieves the owner of an account.
func (r *CustomerRepository) GetByAccountNumber(ctx context.Context, accountNumber string) (*domain.Customer, error) {
	row, err := r.queries.GetCustomerByAccountNumber(ctx, accountNumber)
	if err != nil {
		return nil, notFound("get customer", err, domain.ErrAccountNotFound)
	}

	return rowToCustomer(row), nil
}

// GetCredential returns the PIN hash of an account's owner.
func (r *CustomerRepository) GetCredential(ctx context.Context, accountNumber string) (string, error) {
	hash, err := r.queries.GetPinHashByAccountNumber(ctx, accountNumber)
	if err != nil {
		return "", notFound("get credential", err, domain.ErrAccountNotFound)
	}

	return hash, nil
}

// List lists customers with pagination.
func (r *CustomerRepository) List(ctx context.Context, limit, offset int) ([]*domain.Customer, error) {
	rows, err := r.queries.ListCustomers(ctx, generated.ListCustomersParams{
		Limit:  int32(limit),
		Offset: int32(offset),
	})
	if err != nil {
		return nil, translateError("list customers", err, nil)
	}

	customers := make([]*domain.Customer, 0, len(rows))
	for _, row := range rows {
		customers = append(customers, rowToCustomer(row))
	}

	return customers, nil
}

// Update overwrites a customer's profile and PIN hash.
func (r *CustomerRepository) Update(ctx context.Context, customer *domain.Customer) error {
	n, err := r.queries.UpdateCustomer(ctx, generated.UpdateCustomerParams{
		ID:        customer.ID,
		Name:      customer.Name,
		Email:     customer.Email,
		Phone:     customer.Phone,
		PinHash:   customer.PINHash,
		UpdatedAt: timeToPgTimestamptz(customer.UpdatedAt),
	})
	if err != nil {
		return translateError("update customer", err, nil)
	}

	if n == 0 {
		return domain.ErrCustomerNotFound
	}

	return nil
}

// Delete removes a customer. Accounts referencing it block the delete.
func (r *CustomerRepository) Delete(ctx context.Context, id string) error {
	n, err := r.queries.DeleteCustomer(ctx, id)
	if err != nil {
		return translateError("delete customer", err, domain.ErrCustomerInUse)
	}

	if n == 0 {
		return domain.ErrCustomerNotFound
	}

	return nil
}

func rowToCustomer(row generated.Customer) *domain.Customer {
	return &domain.Customer{
		ID:        row.ID,
		Name:      row.Name,
		Email:     row.Email,
		Phone:     row.Phone,
		PINHash:   row.PinHash,
		CreatedAt: row.CreatedAt.Time,
		UpdatedAt: row.UpdatedAt.Time,
	}
}
