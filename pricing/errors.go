package pricing

import "errors"

// Validation errors are user-correctable and surfaced inline; the coupon is
// never applied when one of these is returned.
var (
	ErrCouponNotFound   = errors.New("coupon not found")
	ErrCouponInactive   = errors.New("coupon is not active")
	ErrCouponNotStarted = errors.New("coupon is not valid yet")
	ErrCouponExpired    = errors.New("coupon has expired")
	ErrCouponExhausted  = errors.New("coupon usage limit reached")
	ErrCouponUsed       = errors.New("coupon already used by this account")
	ErrBelowMinimum     = errors.New("order subtotal is below the coupon minimum")
)

// Selection errors are purely local and rejected synchronously.
var (
	ErrSelectionLimit = errors.New("gift selection limit reached for this tier")
	ErrGiftNotInTier  = errors.New("gift item does not belong to this tier")
	ErrGiftInactive   = errors.New("gift item is not available")
)

// Cart errors.
var (
	ErrItemNotInCart = errors.New("item not in cart")
)

// IsValidationError reports whether err is one of the coupon validation
// failures a user can correct (as opposed to a remote failure).
func IsValidationError(err error) bool {
	for _, e := range []error{
		ErrCouponNotFound, ErrCouponInactive, ErrCouponNotStarted,
		ErrCouponExpired, ErrCouponExhausted, ErrCouponUsed, ErrBelowMinimum,
	} {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}
