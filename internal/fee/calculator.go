package fee

// Calculator computes the total charge of a transaction.
type Calculator struct {
	BaseFee     Balance
	ByteFee     Balance
	WeightToFee WeightToFee
}

// Quote is the breakdown of a transaction's fee.
type Quote struct {
	BaseFee           Balance
	LengthFee         Balance
	WeightFee         Balance
	AdjustedWeightFee Balance
	Tip               Balance
	Total             Balance
}

// Quote computes
//
//	base + length*byteFee + multiplier(weightToFee(weight)) + tip
//
// with every step saturating.
func (c Calculator) Quote(length uint32, weight Weight, tip Balance, m Multiplier) Quote {
	q := Quote{
		BaseFee:   c.BaseFee,
		LengthFee: Balance(length).SaturatingMul(c.ByteFee),
		Tip:       tip,
	}
	if c.WeightToFee != nil {
		q.WeightFee = c.WeightToFee.Fee(weight)
	}
	q.AdjustedWeightFee = m.Apply(q.WeightFee)
	q.Total = q.BaseFee.
		SaturatingAdd(q.LengthFee).
		SaturatingAdd(q.AdjustedWeightFee).
		SaturatingAdd(q.Tip)
	return q
}

// ComputeFee returns the total of Quote.
func (c Calculator) ComputeFee(length uint32, weight Weight, tip Balance, m Multiplier) Balance {
	return c.Quote(length, weight, tip, m).Total
}
