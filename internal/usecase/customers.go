package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/quickbite/kiosk-api/internal/entity"
)

// CustomerService creates and looks up customers. Customers are
// immutable once created; there is no update path.
type CustomerService struct {
	customers CustomerRepo
	clock     func() time.Time
	newID     func() string
}

func NewCustomerService(customers CustomerRepo) *CustomerService {
	return &CustomerService{
		customers: customers,
		clock:     time.Now,
		newID:     uuid.NewString,
	}
}

func (s *CustomerService) CreateWithCPF(ctx context.Context, cpf string) (*entity.Customer, error) {
	formatted := entity.FormatCPF(cpf)
	if !entity.ValidCPF(formatted) {
		return nil, ErrInvalidCPF
	}

	if existing, err := s.customers.FindByCPF(ctx, formatted); err == nil && existing != nil {
		return nil, ErrDuplicateCPF
	}

	now := s.clock()
	customer := &entity.Customer{
		ID:        s.newID(),
		CPF:       formatted,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.customers.Save(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

func (s *CustomerService) CreateWithEmail(ctx context.Context, name, email string) (*entity.Customer, error) {
	if existing, err := s.customers.FindByEmail(ctx, email); err == nil && existing != nil {
		return nil, ErrDuplicateEmail
	}

	now := s.clock()
	customer := &entity.Customer{
		ID:        s.newID(),
		Name:      name,
		Email:     email,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.customers.Save(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

func (s *CustomerService) FindByCPF(ctx context.Context, cpf string) (*entity.Customer, error) {
	formatted := entity.FormatCPF(cpf)
	if !entity.ValidCPF(formatted) {
		return nil, ErrInvalidCPF
	}
	return s.customers.FindByCPF(ctx, formatted)
}

func (s *CustomerService) FindByEmail(ctx context.Context, email string) (*entity.Customer, error) {
	return s.customers.FindByEmail(ctx, email)
}
