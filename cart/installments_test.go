package cart

import (
	"math"
	"testing"
	"time"
)

func TestCalculateInstallmentsSplit(t *testing.T) {
	parts := CalculateInstallments(300, 3)
	if len(parts) != 3 {
		t.Fatalf("parts = %d, want 3", len(parts))
	}
	for i, p := range parts {
		if p.Number != i+1 {
			t.Errorf("part %d number = %d, want %d", i, p.Number, i+1)
		}
		if p.Amount != 100 {
			t.Errorf("part %d amount = %v, want 100", i, p.Amount)
		}
		if p.Status != "pending" {
			t.Errorf("part %d status = %q, want pending", i, p.Status)
		}
	}
}

func TestCalculateInstallmentsSumCloseToTotal(t *testing.T) {
	for _, n := range []int{2, 3, 6, 12} {
		parts := CalculateInstallments(1000, n)
		var sum float64
		for _, p := range parts {
			sum += p.Amount
		}
		// Flat division rounds per part; allow a cent per part of drift.
		if math.Abs(sum-1000) > float64(n)*0.01 {
			t.Errorf("n=%d: sum = %v, too far from 1000", n, sum)
		}
	}
}

func TestCalculateInstallmentsDueDatesSpread(t *testing.T) {
	now := time.Now()
	parts := CalculateInstallments(90, 3)

	prev := now
	for i, p := range parts {
		if !p.DueDate.After(prev) {
			t.Errorf("part %d due %v, not after %v", i, p.DueDate, prev)
		}
		// Roughly 30 days apart.
		gap := p.DueDate.Sub(prev)
		if gap < 27*24*time.Hour || gap > 32*24*time.Hour {
			t.Errorf("part %d gap = %v, want about 30 days", i, gap)
		}
		prev = p.DueDate
	}
}

func TestCalculateInstallmentsDegenerate(t *testing.T) {
	if parts := CalculateInstallments(100, 0); len(parts) != 0 {
		t.Errorf("n=0: parts = %d, want 0", len(parts))
	}
	if parts := CalculateInstallments(100, -3); len(parts) != 0 {
		t.Errorf("n<0: parts = %d, want 0", len(parts))
	}
	parts := CalculateInstallments(100, 1)
	if len(parts) != 1 || parts[0].Amount != 100 {
		t.Errorf("n=1: parts = %+v, want single full payment", parts)
	}
}

func TestCalculatePaymentPlan(t *testing.T) {
	plan := CalculatePaymentPlan(1000, 2)

	if plan.Upfront != 300 {
		t.Errorf("upfront = %v, want 300 (30%%)", plan.Upfront)
	}
	if plan.Total != 1000 {
		t.Errorf("total = %v, want 1000", plan.Total)
	}
	if len(plan.Installments) != 2 {
		t.Fatalf("installments = %d, want 2", len(plan.Installments))
	}

	var sum float64
	for _, p := range plan.Installments {
		sum += p.Amount
	}
	if math.Abs(plan.Upfront+sum-1000) > 0.02 {
		t.Errorf("upfront+installments = %v, want 1000", plan.Upfront+sum)
	}
}
