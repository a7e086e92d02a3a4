package usecase

import (
	"context"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/iho/bankledger/internal/domain"
	"github.com/iho/bankledger/internal/infrastructure/metrics"
)

// CustomerUseCase handles customer management.
type CustomerUseCase struct {
	customerRepo CustomerRepository
	idGen        IDGenerator
	pinCost      int
	metrics      *metrics.Metrics
}

// NewCustomerUseCase creates a new CustomerUseCase. pinCost is the bcrypt
// cost used for PIN hashes; zero selects bcrypt.DefaultCost.
func NewCustomerUseCase(customerRepo CustomerRepository, idGen IDGenerator, pinCost int, m *metrics.Metrics) *CustomerUseCase {
	if pinCost == 0 {
		pinCost = bcrypt.DefaultCost
	}

	return &CustomerUseCase{
		customerRepo: customerRepo,
		idGen:        idGen,
		pinCost:      pinCost,
		metrics:      m,
	}
}

// CreateCustomerInput represents input for creating a customer
type CreateCustomerInput struct {
	Name  string
	Email string
	Phone string
	PIN   string
}

// CreateCustomer registers a customer and stores a hash of the PIN.
func (uc *CustomerUseCase) CreateCustomer(ctx context.Context, input CreateCustomerInput) (*domain.Customer, error) {
	if err := domain.ValidateCustomerName(input.Name); err != nil {
		return nil, err
	}

	if err := domain.ValidateEmail(input.Email); err != nil {
		return nil, err
	}

	if err := domain.ValidatePIN(input.PIN); err != nil {
		return nil, err
	}

	hash, err := HashPIN(input.PIN, uc.pinCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	customer := &domain.Customer{
		ID:        uc.idGen.Generate(),
		Name:      strings.TrimSpace(input.Name),
		Email:     strings.ToLower(strings.TrimSpace(input.Email)),
		Phone:     strings.TrimSpace(input.Phone),
		PINHash:   hash,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := uc.customerRepo.Create(ctx, customer); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.CustomersCreated.Inc()
	}

	return customer, nil
}

// GetCustomer retrieves a customer by ID.
func (uc *CustomerUseCase) GetCustomer(ctx context.Context, id string) (*domain.Customer, error) {
	return uc.customerRepo.GetByID(ctx, id)
}

// ListCustomers lists customers with pagination.
func (uc *CustomerUseCase) ListCustomers(ctx context.Context, limit, offset int) ([]*domain.Customer, error) {
	limit, offset = domain.ValidatePagination(limit, offset)
	return uc.customerRepo.List(ctx, limit, offset)
}

// UpdateCustomerInput carries the fields to change. Nil fields are left as
// they are; a new PIN is re-hashed.
type UpdateCustomerInput struct {
	Name  *string
	Email *string
	Phone *string
	PIN   *string
}

// UpdateCustomer changes a customer's profile or PIN.
func (uc *CustomerUseCase) UpdateCustomer(ctx context.Context, id string, input UpdateCustomerInput) (*domain.Customer, error) {
	customer, err := uc.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if err := domain.ValidateCustomerName(*input.Name); err != nil {
			return nil, err
		}
		customer.Name = strings.TrimSpace(*input.Name)
	}

	if input.Email != nil {
		if err := domain.ValidateEmail(*input.Email); err != nil {
			return nil, err
		}
		customer.Email = strings.ToLower(strings.TrimSpace(*input.Email))
	}

	if input.Phone != nil {
		customer.Phone = strings.TrimSpace(*input.Phone)
	}

	if input.PIN != nil {
		if err := domain.ValidatePIN(*input.PIN); err != nil {
			return nil, err
		}

		hash, err := HashPIN(*input.PIN, uc.pinCost)
		if err != nil {
			return nil, err
		}
		customer.PINHash = hash
	}

	customer.UpdatedAt = time.Now().UTC()

	if err := uc.customerRepo.Update(ctx, customer); err != nil {
		return nil, err
	}

	return customer, nil
}

// DeleteCustomer removes a customer who owns no accounts.
func (uc *CustomerUseCase) DeleteCustomer(ctx context.Context, id string) error {
	return uc.customerRepo.Delete(ctx, id)
}
