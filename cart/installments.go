package cart

import (
	"math"
	"time"

	"wayfare/models"
)

// Flat division with no interest or fee model; the business rules for
// financing are still owned by the payments team.

// CalculateInstallments splits amount evenly into n payments spaced 30
// days apart starting from today, each pending.
func CalculateInstallments(amount float64, n int) []models.Installment {
	if n <= 0 {
		return []models.Installment{}
	}

	each := round2(amount / float64(n))
	now := time.Now()
	out := make([]models.Installment, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, models.Installment{
			Number:  i,
			Amount:  each,
			DueDate: now.AddDate(0, 0, 30*i),
			Status:  "pending",
		})
	}
	return out
}

// CalculatePaymentPlan schedules 30% upfront and splits the remainder
// evenly across n installments.
func CalculatePaymentPlan(total float64, n int) models.PaymentPlan {
	upfront := round2(total * 0.3)
	return models.PaymentPlan{
		Upfront:      upfront,
		Installments: CalculateInstallments(total-upfront, n),
		Total:        round2(total),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
