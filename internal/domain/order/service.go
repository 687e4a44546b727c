package order

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/gamepin/gamepin-api/internal/domain/allocation"
	"github.com/gamepin/gamepin-api/internal/domain/catalog"
	"github.com/gamepin/gamepin-api/internal/domain/wallet"
	"github.com/gamepin/gamepin-api/internal/pkg/metrics"
)

// TierCatalog resolves purchasable tiers and their current unit price.
type TierCatalog interface {
	GetActiveTier(ctx context.Context, id int) (*catalog.Tier, error)
}

// Allocator obtains pin codes for a tier.
type Allocator interface {
	AllocateMany(ctx context.Context, tierID, quantity int) (*allocation.Result, error)
}

type Service struct {
	repo      *Repository
	tiers     TierCatalog
	allocator Allocator
	wallets   *wallet.Repository
}

func NewService(repo *Repository, tiers TierCatalog, allocator Allocator, wallets *wallet.Repository) *Service {
	return &Service{repo: repo, tiers: tiers, allocator: allocator, wallets: wallets}
}

// Purchase runs the whole buy flow: allocate first, then charge for what was
// actually obtained (unit price times obtained, never times requested), then
// persist the order and the debit in one transaction.
func (s *Service) Purchase(ctx context.Context, userID uuid.UUID, req *PurchaseRequest) (*PurchaseResponse, error) {
	if req.Quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	tier, err := s.tiers.GetActiveTier(ctx, req.TierID)
	if err != nil {
		return nil, err
	}

	// Affordability guard at the requested quantity. This is not the charge:
	// it keeps a caller who cannot pay from consuming vendor capacity.
	balance, err := s.wallets.GetBalance(ctx, userID)
	if err != nil {
		return nil, err
	}
	if balance < tier.UnitPrice*int64(req.Quantity) {
		return nil, wallet.ErrInsufficientFunds
	}

	result, err := s.allocator.AllocateMany(ctx, req.TierID, req.Quantity)
	if err != nil {
		return nil, err
	}

	if result.Obtained == 0 {
		metrics.RecordOrder("failed")
		return &PurchaseResponse{Result: result}, nil
	}

	o := &Order{
		ID:            uuid.New(),
		UserID:        userID,
		TierID:        req.TierID,
		Requested:     result.Requested,
		Obtained:      result.Obtained,
		UnitPrice:     tier.UnitPrice,
		AmountCharged: tier.UnitPrice * int64(result.Obtained),
		Status:        StatusPaid,
		CreatedAt:     time.Now(),
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, s.recordUnpaid(ctx, o, result, err)
	}
	defer tx.Rollback()

	if err := s.repo.InsertTx(ctx, tx, o, result.Pins); err != nil {
		return nil, s.recordUnpaid(ctx, o, result, err)
	}
	if err := s.wallets.SpendTx(ctx, tx, userID, o.AmountCharged, o.ID.String()); err != nil {
		return nil, s.recordUnpaid(ctx, o, result, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, s.recordUnpaid(ctx, o, result, err)
	}

	metrics.RecordOrder("paid")
	log.Info().
		Str("order_id", o.ID.String()).
		Str("user_id", userID.String()).
		Int("tier_id", o.TierID).
		Int("requested", o.Requested).
		Int("obtained", o.Obtained).
		Int64("amount_charged", o.AmountCharged).
		Msg("order completed")

	return &PurchaseResponse{Order: o, Result: result}, nil
}

// recordUnpaid handles a debit that failed after pins were already handed out.
// Pins cannot be put back, so the order is persisted as unpaid for manual
// reconciliation instead of being discarded.
func (s *Service) recordUnpaid(ctx context.Context, o *Order, result *allocation.Result, cause error) error {
	o.Status = StatusUnpaid
	o.AmountCharged = 0

	if insertErr := s.repo.Insert(ctx, o, result.Pins); insertErr != nil {
		log.Error().Err(insertErr).
			Str("order_id", o.ID.String()).
			Strs("codes", result.Codes()).
			Msg("failed to persist unpaid order, codes logged for reconciliation")
	} else {
		log.Error().Err(cause).
			Str("order_id", o.ID.String()).
			Int("obtained", o.Obtained).
			Msg("debit failed after allocation, order recorded as unpaid")
	}

	metrics.RecordOrder("unpaid")
	return ErrDebitFailed
}

func (s *Service) GetOrder(ctx context.Context, id, userID uuid.UUID) (*OrderWithPins, error) {
	return s.repo.GetByID(ctx, id, userID)
}

func (s *Service) ListOrders(ctx context.Context, userID uuid.UUID, limit, offset int) ([]Order, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListByUser(ctx, userID, limit, offset)
}

func (s *Service) ListUnpaid(ctx context.Context, limit int) ([]Order, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return s.repo.ListUnpaid(ctx, limit)
}
