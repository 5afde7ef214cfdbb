package services

import (
	"context"

	"github.com/SscSPs/budget_ledger/internal/core/domain"
	"github.com/SscSPs/budget_ledger/internal/dto"
)

// PayeeReaderSvc defines read operations for payee data
type PayeeReaderSvc interface {
	GetPayeeByID(ctx context.Context, payeeID string) (*domain.Payee, error)
	ListPayees(ctx context.Context, budgetID string) ([]domain.Payee, error)
}

// PayeeWriterSvc defines write operations for payee data
type PayeeWriterSvc interface {
	// CreatePayee creates a regular payee. Transfer payees are only made by the account cascade.
	CreatePayee(ctx context.Context, req dto.CreatePayeeRequest) (*domain.Payee, error)

	// FindOrCreatePayee returns the regular payee of the budget with the given name, creating it if needed.
	FindOrCreatePayee(ctx context.Context, budgetID, name string) (*domain.Payee, error)
}

// PayeeSvcFacade combines all payee-related service interfaces
type PayeeSvcFacade interface {
	PayeeReaderSvc
	PayeeWriterSvc
}
