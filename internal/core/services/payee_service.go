package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/budget_ledger/internal/apperrors"
	"github.com/SscSPs/budget_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/budget_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/budget_ledger/internal/core/ports/services"
	"github.com/SscSPs/budget_ledger/internal/dto"
	"github.com/google/uuid"
)

type payeeService struct {
	BaseService
	payeeRepo  portsrepo.PayeeRepositoryFacade
	budgetRepo portsrepo.BudgetReader
}

// NewPayeeService creates a new payee service.
func NewPayeeService(payeeRepo portsrepo.PayeeRepositoryFacade, budgetRepo portsrepo.BudgetReader) portssvc.PayeeSvcFacade {
	return &payeeService{
		payeeRepo:  payeeRepo,
		budgetRepo: budgetRepo,
	}
}

var _ portssvc.PayeeSvcFacade = (*payeeService)(nil)

func (s *payeeService) CreatePayee(ctx context.Context, req dto.CreatePayeeRequest) (*domain.Payee, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	if strings.HasPrefix(name, domain.TransferPayeePrefix) {
		return nil, fmt.Errorf("%w: payee names starting with %q are reserved for transfers", apperrors.ErrValidation, domain.TransferPayeePrefix)
	}
	if _, err := s.budgetRepo.FindBudgetByID(ctx, req.BudgetID); err != nil {
		return nil, err
	}

	ts := now()
	payee := domain.Payee{
		PayeeID:     uuid.NewString(),
		BudgetID:    req.BudgetID,
		Name:        name,
		AuditFields: domain.AuditFields{CreatedAt: ts, LastUpdatedAt: ts},
	}
	if err := s.payeeRepo.SavePayee(ctx, payee); err != nil {
		s.LogError(ctx, err, "Failed to save payee", slog.String("payee_id", payee.PayeeID))
		return nil, err
	}
	s.LogInfo(ctx, "Payee created", slog.String("payee_id", payee.PayeeID))
	return &payee, nil
}

func (s *payeeService) FindOrCreatePayee(ctx context.Context, budgetID, name string) (*domain.Payee, error) {
	payee, err := s.payeeRepo.FindPayeeByName(ctx, budgetID, strings.TrimSpace(name))
	if err == nil {
		return payee, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}
	return s.CreatePayee(ctx, dto.CreatePayeeRequest{BudgetID: budgetID, Name: name})
}

func (s *payeeService) GetPayeeByID(ctx context.Context, payeeID string) (*domain.Payee, error) {
	return s.payeeRepo.FindPayeeByID(ctx, payeeID)
}

func (s *payeeService) ListPayees(ctx context.Context, budgetID string) ([]domain.Payee, error) {
	if _, err := s.budgetRepo.FindBudgetByID(ctx, budgetID); err != nil {
		return nil, err
	}
	payees, err := s.payeeRepo.ListPayees(ctx, budgetID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payees: %w", err)
	}
	if payees == nil {
		return []domain.Payee{}, nil
	}
	return payees, nil
}
