package pricing

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/packkart/PackKart/models"
)

// State is the coordinator's coupon state.
type State string

const (
	StateNoCoupon     State = "no_coupon"
	StateApplying     State = "applying"
	StateApplied      State = "applied"
	StateRevalidating State = "revalidating"
)

// Removal reasons carried on CouponRemoved events.
const (
	RemovalUserRequested  = "removed by user"
	RemovalNoLongerValid  = "coupon no longer qualifies for this cart"
	RemovalValidatorError = "coupon could not be re-verified"
)

// notifyEpsilon suppresses change notifications for discount deltas that
// would render identically at two decimals.
const notifyEpsilon = 0.005

const defaultCallTimeout = 3 * time.Second

// AppliedCoupon is the coupon snapshot plus its computed discount, valid only
// for the subtotal it was validated against.
type AppliedCoupon struct {
	Coupon         models.Coupon `json:"coupon"`
	DiscountAmount float64       `json:"discount_amount"`
}

// Snapshot is a consistent view of the coordinator's derived state.
type Snapshot struct {
	State             State
	Subtotal          float64
	Applied           *AppliedCoupon
	Tiers             TierSet
	LastRemovedReason string
	// RejectionReason holds the validation sentinel from the most recent
	// failed Apply, cleared by the next Apply or a success.
	RejectionReason error
}

// Coordinator owns the Discount State and the qualifying/nearby tier sets for
// one session. It subscribes to cart subtotal changes and drives the
// Validator and Resolver; nothing else may mutate its derived state.
//
// Every round is tagged with a monotonically increasing sequence number taken
// when the triggering mutation happened. A finished round commits only if its
// sequence is still the latest, so a stale response from a superseded request
// is never applied, regardless of arrival order. Rounds run on their own
// goroutine; cart mutations never block on an outstanding round.
type Coordinator struct {
	mu                sync.Mutex
	state             State
	applied           *AppliedCoupon
	pendingCode       string
	lastRemovedReason string
	lastRejection     error
	tiers             TierSet
	subtotal          float64
	seq               uint64
	identity          string

	validator  *Validator
	resolver   *Resolver
	selections *Selections
	listeners  []func(Event)
	inflight   sync.WaitGroup

	// CallTimeout bounds each remote validator/resolver call. A timeout
	// fails closed: the coupon is cleared, tiers degrade to empty.
	CallTimeout time.Duration
}

// NewCoordinator builds a coordinator for one session. identity is resolved
// once by the caller and is empty for guests.
func NewCoordinator(validator *Validator, resolver *Resolver, selections *Selections, identity string) *Coordinator {
	return &Coordinator{
		state:       StateNoCoupon,
		validator:   validator,
		resolver:    resolver,
		selections:  selections,
		identity:    identity,
		CallTimeout: defaultCallTimeout,
	}
}

// Subscribe registers an event listener. Listeners run outside the
// coordinator lock, after a round commits.
func (co *Coordinator) Subscribe(fn func(Event)) {
	co.mu.Lock()
	defer co.mu.Unlock()
	co.listeners = append(co.listeners, fn)
}

// Apply submits a coupon code. The validation round runs asynchronously;
// call Settle to wait for the outcome. Submitting a new code replaces any
// currently applied coupon.
func (co *Coordinator) Apply(code string) {
	co.mu.Lock()
	co.applied = nil
	co.pendingCode = NormalizeCode(code)
	co.lastRejection = nil
	co.state = StateApplying
	co.seq++
	co.startRoundLocked(co.seq, co.pendingCode, true, co.subtotal)
	co.mu.Unlock()
}

// Remove clears the coupon at the user's request and re-resolves gift tiers
// against the undiscounted subtotal.
func (co *Coordinator) Remove() {
	co.mu.Lock()
	code := co.pendingCode
	if co.applied != nil {
		code = co.applied.Coupon.Code
	}
	hadCoupon := co.applied != nil || co.state == StateApplying
	co.applied = nil
	co.pendingCode = ""
	co.state = StateNoCoupon
	co.seq++
	co.startRoundLocked(co.seq, "", false, co.subtotal)
	listeners := co.listeners
	co.mu.Unlock()

	if hadCoupon {
		dispatch(listeners, CouponRemoved{Code: code, Reason: RemovalUserRequested})
	}
}

// CartChanged is the cart's subtotal listener and the only revalidation
// trigger. It supersedes any in-flight round and starts a new one against
// the latest subtotal.
func (co *Coordinator) CartChanged(subtotal float64) {
	co.mu.Lock()
	co.subtotal = subtotal
	co.seq++
	var code string
	applying := false
	switch co.state {
	case StateApplying:
		code = co.pendingCode
		applying = true
	case StateApplied, StateRevalidating:
		code = co.applied.Coupon.Code
		co.state = StateRevalidating
	}
	co.startRoundLocked(co.seq, code, applying, subtotal)
	co.mu.Unlock()
}

// Settle blocks until every in-flight round has finished. Checkout calls it
// before trusting the snapshot; tests use it to avoid sleeps.
func (co *Coordinator) Settle() {
	co.inflight.Wait()
}

// Snapshot returns the current derived state.
func (co *Coordinator) Snapshot() Snapshot {
	co.mu.Lock()
	defer co.mu.Unlock()
	snap := Snapshot{
		State:             co.state,
		Subtotal:          co.subtotal,
		Tiers:             co.tiers,
		LastRemovedReason: co.lastRemovedReason,
		RejectionReason:   co.lastRejection,
	}
	if co.applied != nil {
		a := *co.applied
		snap.Applied = &a
	}
	return snap
}

// OrderAmount returns subtotal minus the applied discount, the basis for
// gift tier qualification.
func (co *Coordinator) OrderAmount() float64 {
	co.mu.Lock()
	defer co.mu.Unlock()
	return co.orderAmountLocked()
}

func (co *Coordinator) orderAmountLocked() float64 {
	amount := co.subtotal
	if co.applied != nil {
		amount -= co.applied.DiscountAmount
	}
	return Round2(amount)
}

// startRoundLocked launches one validate+resolve round for the given
// sequence. code is empty when no coupon is in play; applying distinguishes a
// first application from a revalidation. Caller must hold co.mu.
func (co *Coordinator) startRoundLocked(seq uint64, code string, applying bool, subtotal float64) {
	co.inflight.Add(1)
	go func() {
		defer co.inflight.Done()

		ctx, cancel := context.WithTimeout(context.Background(), co.CallTimeout)
		defer cancel()

		var result ValidationResult
		var validateErr error
		if code != "" {
			result, validateErr = co.validator.Validate(ctx, code, subtotal, co.identity)
		}

		discount := 0.0
		if code != "" && validateErr == nil && result.Valid {
			discount = result.DiscountAmount
		}

		tiers, resolveErr := co.resolver.Resolve(ctx, Round2(subtotal-discount))
		if resolveErr != nil {
			// Degrade to no rewards rather than blocking checkout.
			tiers = TierSet{}
		}

		co.commitRound(seq, code, applying, result, validateErr, tiers)
	}()
}

// commitRound applies a finished round's outcome if it is still the latest.
func (co *Coordinator) commitRound(seq uint64, code string, applying bool, result ValidationResult, validateErr error, tiers TierSet) {
	co.mu.Lock()
	if seq != co.seq {
		// Superseded by a later mutation; discard.
		co.mu.Unlock()
		return
	}

	var events []Event
	if code != "" {
		switch {
		case validateErr != nil && applying:
			co.applied = nil
			co.pendingCode = ""
			co.state = StateNoCoupon
			co.lastRejection = validateErr
			events = append(events, CouponRejected{Code: code, Reason: validateErr})
		case validateErr != nil:
			co.applied = nil
			co.state = StateNoCoupon
			co.lastRemovedReason = RemovalValidatorError
			events = append(events, CouponRemoved{Code: code, Reason: RemovalValidatorError})
		case !result.Valid && applying:
			co.applied = nil
			co.pendingCode = ""
			co.state = StateNoCoupon
			co.lastRejection = result.Reason
			events = append(events, CouponRejected{Code: code, Reason: result.Reason})
		case !result.Valid:
			co.applied = nil
			co.state = StateNoCoupon
			co.lastRemovedReason = RemovalNoLongerValid
			events = append(events, CouponRemoved{Code: code, Reason: RemovalNoLongerValid})
		default:
			var old float64
			revalidated := co.state == StateRevalidating && co.applied != nil
			if co.applied != nil {
				old = co.applied.DiscountAmount
			}
			co.applied = &AppliedCoupon{Coupon: *result.Coupon, DiscountAmount: result.DiscountAmount}
			co.pendingCode = ""
			co.lastRejection = nil
			co.state = StateApplied
			if applying {
				events = append(events, CouponApplied{Code: result.Coupon.Code, DiscountAmount: result.DiscountAmount})
			} else if revalidated && math.Abs(result.DiscountAmount-old) > notifyEpsilon {
				events = append(events, CouponRevalidated{Code: result.Coupon.Code, OldDiscount: old, NewDiscount: result.DiscountAmount})
			}
		}
	}

	tiersChanged := !sameQualifying(co.tiers.Qualifying, tiers.Qualifying)
	co.tiers = tiers
	dropped := co.selections.Revalidate(tiers.Qualifying)
	if tiersChanged || len(dropped) > 0 {
		events = append(events, GiftTierSetChanged{
			Qualifying:        tiers.Qualifying,
			Nearby:            tiers.Nearby,
			DroppedSelections: dropped,
		})
	}

	listeners := co.listeners
	co.mu.Unlock()

	dispatch(listeners, events...)
}

func sameQualifying(a, b []QualifyingTier) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID {
			return false
		}
	}
	return true
}

func dispatch(listeners []func(Event), events ...Event) {
	for _, ev := range events {
		for _, fn := range listeners {
			fn(ev)
		}
	}
}
