package billfilter

import (
	"github.com/shopspring/decimal"

	"jyotikabilling/models"
)

type StatusTotal struct {
	Count  int     `json:"count"`
	Amount float64 `json:"amount"`
}

// Summary backs the dashboard totals.
type Summary struct {
	Count        int                    `json:"count"`
	TotalRevenue float64                `json:"totalRevenue"`
	ByStatus     map[string]StatusTotal `json:"byStatus"`
	ByChargeType map[string]StatusTotal `json:"byChargeType"`
}

func Summarize(bills []models.Bill) Summary {
	total := decimal.Zero
	byStatus := map[string]decimal.Decimal{}
	byCharge := map[string]decimal.Decimal{}
	s := Summary{
		Count:        len(bills),
		ByStatus:     map[string]StatusTotal{},
		ByChargeType: map[string]StatusTotal{},
	}

	for _, b := range bills {
		amt := decimal.NewFromFloat(b.Amount)
		total = total.Add(amt)

		byStatus[b.Status] = byStatus[b.Status].Add(amt)
		st := s.ByStatus[b.Status]
		st.Count++
		s.ByStatus[b.Status] = st

		byCharge[b.ChargeType] = byCharge[b.ChargeType].Add(amt)
		ct := s.ByChargeType[b.ChargeType]
		ct.Count++
		s.ByChargeType[b.ChargeType] = ct
	}

	s.TotalRevenue = total.Round(2).InexactFloat64()
	for k, v := range byStatus {
		st := s.ByStatus[k]
		st.Amount = v.Round(2).InexactFloat64()
		s.ByStatus[k] = st
	}
	for k, v := range byCharge {
		ct := s.ByChargeType[k]
		ct.Amount = v.Round(2).InexactFloat64()
		s.ByChargeType[k] = ct
	}
	return s
}
