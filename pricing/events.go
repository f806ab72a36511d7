package pricing

// Domain events emitted by the Coordinator. Presentation subscribes and
// decides how (or whether) to notify the user; the engine itself carries no
// display concerns.

// Event is implemented by all coordinator events.
type Event interface {
	Name() string
}

// CouponApplied fires when a submitted code validates successfully.
type CouponApplied struct {
	Code           string
	DiscountAmount float64
}

func (CouponApplied) Name() string { return "coupon_applied" }

// CouponRejected fires when a submitted code fails validation. No state is
// retained.
type CouponRejected struct {
	Code   string
	Reason error
}

func (CouponRejected) Name() string { return "coupon_rejected" }

// CouponRevalidated fires after a revalidation round whose discount moved by
// more than the notification epsilon.
type CouponRevalidated struct {
	Code        string
	OldDiscount float64
	NewDiscount float64
}

func (CouponRevalidated) Name() string { return "coupon_revalidated" }

// CouponRemoved fires when an applied coupon is cleared, either by the user
// or because a revalidation failed.
type CouponRemoved struct {
	Code   string
	Reason string
}

func (CouponRemoved) Name() string { return "coupon_removed" }

// GiftTierSetChanged fires when the qualifying set changed after a round.
// DroppedSelections maps tier id to the gift item ids that were discarded
// because the tier is no longer earned.
type GiftTierSetChanged struct {
	Qualifying        []QualifyingTier
	Nearby            []NearbyTier
	DroppedSelections map[uint][]uint
}

func (GiftTierSetChanged) Name() string { return "gift_tier_set_changed" }
