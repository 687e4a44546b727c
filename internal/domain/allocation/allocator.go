package allocation

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/gamepin/gamepin-api/internal/domain/sourcing"
	"github.com/gamepin/gamepin-api/internal/domain/stock"
	"github.com/gamepin/gamepin-api/internal/pkg/metrics"
	"github.com/gamepin/gamepin-api/internal/pkg/vendorapi"
)

// Messages surfaced to end users. Vendor credentials and raw vendor responses
// stay in logs only.
const (
	msgOutOfStock        = "This package is out of stock, please try again later"
	msgInsufficientStock = "Not enough stock for the requested quantity"
	msgVendorUnavailable = "Supplier temporarily unavailable, please try again later"
)

// StockStore is the slice of local inventory the allocator draws from.
type StockStore interface {
	TakeOne(ctx context.Context, tierID int) (string, error)
	Count(ctx context.Context, tierID int) (int, error)
}

// SourceResolver maps a tier to its configured supply source.
type SourceResolver interface {
	GetSource(ctx context.Context, tierID int) (sourcing.Source, error)
}

// VendorClient buys a single pin on demand from the external vendor.
type VendorClient interface {
	RequestPin(ctx context.Context, tierID int) (string, error)
}

// Allocator obtains pin codes for a tier from whichever source is configured:
// local pre-purchased stock, or per-unit purchases from the external vendor.
type Allocator struct {
	stock   StockStore
	sources SourceResolver
	vendor  VendorClient
}

func NewAllocator(stockStore StockStore, sources SourceResolver, vendor VendorClient) *Allocator {
	return &Allocator{stock: stockStore, sources: sources, vendor: vendor}
}

// AllocateOne obtains a single pin for the tier.
func (a *Allocator) AllocateOne(ctx context.Context, tierID int) (*Result, error) {
	return a.AllocateMany(ctx, tierID, 1)
}

// AllocateMany obtains quantity pins for the tier. Local draws are
// all-or-nothing up front (a short count is surfaced as InsufficientStock
// before anything is consumed); external draws are sequential and stop on the
// first vendor failure, returning whatever was obtained. The returned error is
// non-nil only for storage faults; every domain outcome, including failures,
// lands in the Result.
func (a *Allocator) AllocateMany(ctx context.Context, tierID int, quantity int) (*Result, error) {
	if tierID <= 0 || quantity < 1 {
		return &Result{
			Status:    StatusError,
			Requested: quantity,
			Pins:      []Pin{},
			ErrorKind: ErrorKindValidation,
			Message:   "invalid tier or quantity",
		}, nil
	}

	source, err := a.sources.GetSource(ctx, tierID)
	if err != nil {
		return nil, err
	}

	var result *Result
	if source == sourcing.SourceExternal {
		result = a.allocateExternal(ctx, tierID, quantity)
	} else {
		result, err = a.allocateLocal(ctx, tierID, quantity)
		if err != nil {
			return nil, err
		}
	}

	metrics.RecordAllocation(string(source), string(result.Status), result.Obtained)
	return result, nil
}

func (a *Allocator) allocateLocal(ctx context.Context, tierID, quantity int) (*Result, error) {
	result := &Result{Requested: quantity, Pins: []Pin{}}

	// Multi-unit local draws are all-or-nothing: a short count means a real
	// shortage the caller should see before anything is consumed.
	if quantity > 1 {
		available, err := a.stock.Count(ctx, tierID)
		if err != nil {
			return nil, err
		}
		if available < quantity {
			result.Status = StatusError
			result.ErrorKind = ErrorKindInsufficientStock
			result.Message = msgInsufficientStock
			log.Info().Int("tier_id", tierID).Int("requested", quantity).Int("available", available).
				Msg("local stock insufficient")
			return result, nil
		}
	}

	for i := 0; i < quantity; i++ {
		code, err := a.stock.TakeOne(ctx, tierID)
		if err != nil {
			if errors.Is(err, stock.ErrOutOfStock) {
				// Lost a race with a concurrent draw after the up-front check.
				if result.Obtained > 0 {
					result.Status = StatusPartialSuccess
					result.Message = msgInsufficientStock
					log.Warn().Int("tier_id", tierID).Int("requested", quantity).Int("obtained", result.Obtained).
						Msg("local draw raced, returning partial result")
					return result, nil
				}
				result.Status = StatusError
				result.ErrorKind = ErrorKindOutOfStock
				result.Message = msgOutOfStock
				return result, nil
			}
			if result.Obtained > 0 {
				// Pins already taken cannot be put back; report them.
				log.Error().Err(err).Int("tier_id", tierID).Int("obtained", result.Obtained).
					Msg("local draw failed mid-loop")
				result.Status = StatusPartialSuccess
				result.Message = msgInsufficientStock
				return result, nil
			}
			return nil, err
		}

		result.Pins = append(result.Pins, Pin{Code: code, Source: sourcing.SourceLocal})
		result.Obtained++
	}

	result.Status = StatusSuccess
	return result, nil
}

// allocateExternal issues quantity separate, sequential vendor requests (the
// vendor protocol has no batch endpoint) and stops on the first failure so an
// exhausted vendor is not hammered with further paid requests.
func (a *Allocator) allocateExternal(ctx context.Context, tierID, quantity int) *Result {
	result := &Result{Requested: quantity, Pins: []Pin{}}

	for i := 0; i < quantity; i++ {
		code, err := a.vendor.RequestPin(ctx, tierID)
		if err != nil {
			if errors.Is(err, vendorapi.ErrUnmappedTier) {
				result.Status = StatusError
				result.ErrorKind = ErrorKindValidation
				result.Message = "package not available from supplier"
				return result
			}
			if errors.Is(err, vendorapi.ErrNoStock) {
				log.Warn().Int("tier_id", tierID).Int("obtained", result.Obtained).
					Msg("vendor out of stock")
			} else {
				log.Error().Err(err).Int("tier_id", tierID).Int("obtained", result.Obtained).
					Msg("vendor request failed")
			}

			if result.Obtained > 0 {
				result.Status = StatusPartialSuccess
			} else {
				result.Status = StatusError
			}
			result.ErrorKind = ErrorKindExternalVendor
			result.Message = msgVendorUnavailable
			return result
		}

		// Vendor pins go straight to the caller, never into local stock.
		result.Pins = append(result.Pins, Pin{Code: code, Source: sourcing.SourceExternal})
		result.Obtained++
	}

	result.Status = StatusSuccess
	return result
}
