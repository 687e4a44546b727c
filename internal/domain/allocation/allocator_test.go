package allocation

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/gamepin/gamepin-api/internal/domain/sourcing"
	"github.com/gamepin/gamepin-api/internal/domain/stock"
	"github.com/gamepin/gamepin-api/internal/pkg/vendorapi"
)

// fakeStock is an in-memory stand-in for the pin_units table. TakeOne pops
// under a mutex so concurrent draws behave like the SKIP LOCKED query.
type fakeStock struct {
	mu    sync.Mutex
	codes map[int][]string
	// countOverride lets tests make the up-front count lie, simulating a
	// concurrent buyer draining stock between the check and the draws.
	countOverride map[int]int
}

func newFakeStock(tierID int, codes ...string) *fakeStock {
	return &fakeStock{codes: map[int][]string{tierID: codes}}
}

func (f *fakeStock) TakeOne(ctx context.Context, tierID int) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	pool := f.codes[tierID]
	if len(pool) == 0 {
		return "", stock.ErrOutOfStock
	}
	code := pool[0]
	f.codes[tierID] = pool[1:]
	return code, nil
}

func (f *fakeStock) Count(ctx context.Context, tierID int) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if n, ok := f.countOverride[tierID]; ok {
		return n, nil
	}
	return len(f.codes[tierID]), nil
}

type fakeSources struct {
	source sourcing.Source
}

func (f *fakeSources) GetSource(ctx context.Context, tierID int) (sourcing.Source, error) {
	if f.source == "" {
		return sourcing.SourceLocal, nil
	}
	return f.source, nil
}

// fakeVendor serves scripted responses in order, then repeats the last one.
type fakeVendor struct {
	mu        sync.Mutex
	responses []vendorResponse
	calls     int
}

type vendorResponse struct {
	code string
	err  error
}

func (f *fakeVendor) RequestPin(ctx context.Context, tierID int) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	idx := f.calls - 1
	if idx >= len(f.responses) {
		idx = len(f.responses) - 1
	}
	r := f.responses[idx]
	return r.code, r.err
}

func localAllocator(st *fakeStock) *Allocator {
	return NewAllocator(st, &fakeSources{source: sourcing.SourceLocal}, &fakeVendor{})
}

func externalAllocator(v *fakeVendor) *Allocator {
	return NewAllocator(newFakeStock(1), &fakeSources{source: sourcing.SourceExternal}, v)
}

func TestAllocateOneLocalSuccess(t *testing.T) {
	a := localAllocator(newFakeStock(1, "CODE1111AA"))

	result, err := a.AllocateOne(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Status != StatusSuccess {
		t.Fatalf("expected success, got %s (%s)", result.Status, result.Message)
	}
	if result.Obtained != 1 || len(result.Pins) != 1 {
		t.Fatalf("expected 1 pin, got obtained=%d pins=%d", result.Obtained, len(result.Pins))
	}
	if result.Pins[0].Code != "CODE1111AA" || result.Pins[0].Source != sourcing.SourceLocal {
		t.Errorf("unexpected pin %+v", result.Pins[0])
	}
}

func TestAllocateOneLocalOutOfStock(t *testing.T) {
	a := localAllocator(newFakeStock(1))

	result, err := a.AllocateOne(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Status != StatusError || result.ErrorKind != ErrorKindOutOfStock {
		t.Fatalf("expected out_of_stock error, got %s/%s", result.Status, result.ErrorKind)
	}
	if result.Obtained != 0 || len(result.Pins) != 0 {
		t.Errorf("out-of-stock must not yield pins: %+v", result)
	}
}

func TestAllocateManyLocalExactStock(t *testing.T) {
	// Requesting exactly the remaining stock drains it completely.
	a := localAllocator(newFakeStock(1, "AA11", "BB22", "CC33"))

	result, err := a.AllocateMany(context.Background(), 1, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Status != StatusSuccess || result.Obtained != 3 {
		t.Fatalf("expected 3 pins, got %s obtained=%d", result.Status, result.Obtained)
	}

	followUp, err := a.AllocateOne(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if followUp.ErrorKind != ErrorKindOutOfStock {
		t.Errorf("stock should be exhausted, got %+v", followUp)
	}
}

func TestAllocateManyLocalInsufficientConsumesNothing(t *testing.T) {
	st := newFakeStock(1, "AA11", "BB22")
	a := localAllocator(st)

	result, err := a.AllocateMany(context.Background(), 1, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Status != StatusError || result.ErrorKind != ErrorKindInsufficientStock {
		t.Fatalf("expected insufficient_stock, got %s/%s", result.Status, result.ErrorKind)
	}
	if result.Obtained != 0 {
		t.Errorf("insufficient stock must consume nothing, obtained=%d", result.Obtained)
	}

	if n, _ := st.Count(context.Background(), 1); n != 2 {
		t.Errorf("stock should be untouched, remaining=%d", n)
	}
}

func TestAllocateManyLocalRacedPartial(t *testing.T) {
	// The up-front count says 3 but only 2 pins remain by draw time, as if a
	// concurrent buyer took one in between. The draws that succeeded are kept.
	st := newFakeStock(1, "AA11", "BB22")
	st.countOverride = map[int]int{1: 3}
	a := localAllocator(st)

	result, err := a.AllocateMany(context.Background(), 1, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Status != StatusPartialSuccess {
		t.Fatalf("expected partial_success, got %s", result.Status)
	}
	if result.Obtained != 2 || len(result.Pins) != 2 {
		t.Errorf("expected the 2 drawn pins, got obtained=%d", result.Obtained)
	}
}

func TestAllocateConcurrentSingleUnit(t *testing.T) {
	// 10 buyers race for 4 pins. Exactly 4 succeed, each with a distinct code.
	st := newFakeStock(1, "P1X1", "P2X2", "P3X3", "P4X4")
	a := localAllocator(st)

	var wg sync.WaitGroup
	results := make([]*Result, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r, err := a.AllocateOne(context.Background(), 1)
			if err != nil {
				t.Errorf("worker %d: %v", i, err)
				return
			}
			results[i] = r
		}(i)
	}
	wg.Wait()

	seen := map[string]bool{}
	wins := 0
	for _, r := range results {
		if r == nil {
			continue
		}
		switch r.Status {
		case StatusSuccess:
			wins++
			code := r.Pins[0].Code
			if seen[code] {
				t.Errorf("code %s allocated twice", code)
			}
			seen[code] = true
		case StatusError:
			if r.ErrorKind != ErrorKindOutOfStock {
				t.Errorf("loser should see out_of_stock, got %s", r.ErrorKind)
			}
		default:
			t.Errorf("unexpected status %s", r.Status)
		}
	}
	if wins != 4 {
		t.Errorf("expected exactly 4 winners, got %d", wins)
	}
}

func TestAllocateExternalSuccess(t *testing.T) {
	v := &fakeVendor{responses: []vendorResponse{
		{code: "EXT1AAA111"},
		{code: "EXT2BBB222"},
	}}
	a := externalAllocator(v)

	result, err := a.AllocateMany(context.Background(), 1, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Status != StatusSuccess || result.Obtained != 2 {
		t.Fatalf("expected 2 vendor pins, got %+v", result)
	}
	for _, p := range result.Pins {
		if p.Source != sourcing.SourceExternal {
			t.Errorf("vendor pin tagged %s", p.Source)
		}
	}
	if v.calls != 2 {
		t.Errorf("expected 2 vendor calls, got %d", v.calls)
	}
}

func TestAllocateExternalStopsOnFirstFailure(t *testing.T) {
	// 5 requested, vendor delivers 2 then runs dry. No further calls are made
	// and the caller keeps the 2 obtained pins.
	v := &fakeVendor{responses: []vendorResponse{
		{code: "EXT1AAA111"},
		{code: "EXT2BBB222"},
		{err: vendorapi.ErrNoStock},
	}}
	a := externalAllocator(v)

	result, err := a.AllocateMany(context.Background(), 1, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Status != StatusPartialSuccess {
		t.Fatalf("expected partial_success, got %s", result.Status)
	}
	if result.Obtained != 2 {
		t.Errorf("expected 2 pins kept, got %d", result.Obtained)
	}
	if result.ErrorKind != ErrorKindExternalVendor {
		t.Errorf("expected external_vendor_error, got %s", result.ErrorKind)
	}
	if v.calls != 3 {
		t.Errorf("vendor must not be called after the first failure, calls=%d", v.calls)
	}
}

func TestAllocateExternalFirstCallFails(t *testing.T) {
	v := &fakeVendor{responses: []vendorResponse{
		{err: fmt.Errorf("vendor network error: connection refused")},
	}}
	a := externalAllocator(v)

	result, err := a.AllocateMany(context.Background(), 1, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Status != StatusError || result.ErrorKind != ErrorKindExternalVendor {
		t.Fatalf("expected external_vendor_error, got %s/%s", result.Status, result.ErrorKind)
	}
	if result.Obtained != 0 {
		t.Errorf("nothing obtained on first-call failure, got %d", result.Obtained)
	}
	if v.calls != 1 {
		t.Errorf("expected a single vendor call, got %d", v.calls)
	}
}

func TestAllocateExternalUnmappedTier(t *testing.T) {
	v := &fakeVendor{responses: []vendorResponse{
		{err: fmt.Errorf("%w: tier 42", vendorapi.ErrUnmappedTier)},
	}}
	a := externalAllocator(v)

	result, err := a.AllocateMany(context.Background(), 42, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Status != StatusError || result.ErrorKind != ErrorKindValidation {
		t.Fatalf("expected validation error, got %s/%s", result.Status, result.ErrorKind)
	}
}

func TestAllocateValidation(t *testing.T) {
	a := localAllocator(newFakeStock(1, "AA11"))

	tests := []struct {
		name     string
		tierID   int
		quantity int
	}{
		{"zero quantity", 1, 0},
		{"negative quantity", 1, -2},
		{"zero tier", 0, 1},
		{"negative tier", -5, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := a.AllocateMany(context.Background(), tt.tierID, tt.quantity)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result.Status != StatusError || result.ErrorKind != ErrorKindValidation {
				t.Errorf("expected validation error, got %s/%s", result.Status, result.ErrorKind)
			}
		})
	}
}

func TestAllocateMessagesAreUserSafe(t *testing.T) {
	v := &fakeVendor{responses: []vendorResponse{
		{err: fmt.Errorf("vendor request error: usuario=admin clave=hunter2 rejected")},
	}}
	a := externalAllocator(v)

	result, err := a.AllocateOne(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Message != msgVendorUnavailable {
		t.Errorf("raw vendor error leaked into user message: %q", result.Message)
	}
}
