package pricing

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/packkart/PackKart/models"
)

// CouponSource fetches coupon reference data. Implementations must hit the
// backing store on every call; validation results are never cached across
// revalidations.
type CouponSource interface {
	// CouponByCode returns the coupon for a normalized code, or nil when no
	// such code exists.
	CouponByCode(ctx context.Context, code string) (*models.Coupon, error)
	// CouponRedeemed reports whether the given identity already redeemed the
	// coupon. Called with an empty identity for guests, where it must return
	// false.
	CouponRedeemed(ctx context.Context, couponID uint, identity string) (bool, error)
}

// ValidationResult is the outcome of a single validation call.
type ValidationResult struct {
	Valid          bool
	DiscountAmount float64
	Coupon         *models.Coupon
	Reason         error // one of the validation sentinels when Valid is false
}

// Validator checks a coupon code against a subtotal. Pure computation: no
// usage bookkeeping happens here, only at order commit.
type Validator struct {
	source CouponSource
	now    func() time.Time
}

// NewValidator returns a Validator reading coupons from source.
func NewValidator(source CouponSource) *Validator {
	return &Validator{source: source, now: time.Now}
}

// NormalizeCode canonicalizes a user-entered coupon code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Validate applies the validity rules in order: existence, active flag,
// validity window, usage limits, minimum order amount. A non-nil error means
// the source call itself failed; callers treat that as invalid (fail closed).
func (v *Validator) Validate(ctx context.Context, code string, subtotal float64, identity string) (ValidationResult, error) {
	invalid := func(reason error) ValidationResult {
		return ValidationResult{Reason: reason}
	}

	coupon, err := v.source.CouponByCode(ctx, NormalizeCode(code))
	if err != nil {
		return ValidationResult{}, err
	}
	if coupon == nil {
		return invalid(ErrCouponNotFound), nil
	}
	if !coupon.IsActive {
		return invalid(ErrCouponInactive), nil
	}
	now := v.now()
	if now.Before(coupon.ValidFrom) {
		return invalid(ErrCouponNotStarted), nil
	}
	if now.After(coupon.ValidTo) {
		return invalid(ErrCouponExpired), nil
	}
	if coupon.UsageLimit > 0 && coupon.UsedCount >= coupon.UsageLimit {
		return invalid(ErrCouponExhausted), nil
	}
	if identity != "" {
		used, err := v.source.CouponRedeemed(ctx, coupon.ID, identity)
		if err != nil {
			return ValidationResult{}, err
		}
		if used {
			return invalid(ErrCouponUsed), nil
		}
	}
	if subtotal < coupon.MinOrderAmount {
		return invalid(ErrBelowMinimum), nil
	}

	return ValidationResult{
		Valid:          true,
		DiscountAmount: DiscountAmount(coupon, subtotal),
		Coupon:         coupon,
	}, nil
}

// DiscountAmount computes the discount a coupon grants on a subtotal. The
// result is never negative and never exceeds the subtotal.
func DiscountAmount(coupon *models.Coupon, subtotal float64) float64 {
	var discount float64
	switch coupon.Type {
	case models.CouponTypePercent:
		discount = Round2(subtotal * coupon.Value / 100)
	case models.CouponTypeFixed:
		discount = coupon.Value
	}
	if discount > subtotal {
		discount = subtotal
	}
	if discount < 0 {
		discount = 0
	}
	return discount
}

// Round2 rounds to two decimal places, the precision all money amounts in
// this engine carry.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
