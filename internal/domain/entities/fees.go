package entities

// Platform fee policy. Pure functions of (amount, fee type), no side effects.

const (
	// BookingFeeAmount is the flat platform fee retained per booking.
	BookingFeeAmount = 5.0

	// ActivationFeeAmount is the one-time fee a provider pays to activate.
	ActivationFeeAmount = 25.0

	withdrawalFeeRate    = 0.02
	withdrawalFeeMinimum = 1.0
)

// BookingFee returns the flat per-transaction platform fee.
func BookingFee() float64 {
	return BookingFeeAmount
}

// WithdrawalFee returns the payout fee: a percentage with a floor minimum.
func WithdrawalFee(amount float64) float64 {
	fee := amount * withdrawalFeeRate
	if fee < withdrawalFeeMinimum {
		return withdrawalFeeMinimum
	}
	return fee
}

// PricingFor builds the frozen pricing snapshot recorded at booking creation.
func PricingFor(servicePrice, addOnsPrice float64, currency string) PricingSnapshot {
	fee := BookingFee()
	return PricingSnapshot{
		ServicePrice: servicePrice,
		AddOnsPrice:  addOnsPrice,
		PlatformFee:  fee,
		Total:        servicePrice + addOnsPrice + fee,
		Currency:     currency,
	}
}
