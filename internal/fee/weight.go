package fee

// WeightToFee converts a weight into a fee.
type WeightToFee interface {
	Fee(w Weight) Balance
}

// LinearWeightToFee charges a fixed Coefficient per unit of weight. A zero
// coefficient disables the weight fee.
type LinearWeightToFee struct {
	Coefficient Balance
}

// Fee returns w * Coefficient, saturating at MaxBalance.
func (l LinearWeightToFee) Fee(w Weight) Balance {
	return Balance(w).SaturatingMul(l.Coefficient)
}
