package fixedpoint

import (
	"testing"

	"cosmossdk.io/math"
)

func TestAddSub(t *testing.T) {
	a := FromInt64(10)
	b := FromInt64(3)

	sum, err := a.Add(b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sum.Cmp(FromInt64(13)) != 0 {
		t.Errorf("expected 13, got %s", sum.String())
	}

	diff, err := a.Sub(b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff.Cmp(FromInt64(7)) != 0 {
		t.Errorf("expected 7, got %s", diff.String())
	}

	if _, err := b.Sub(a); err == nil {
		t.Error("expected underflow error for negative result")
	}
}

func TestMulQuoCeilFloor(t *testing.T) {
	a, _ := FromRatio(1, 3)
	b := FromInt64(3)

	product, err := a.Mul(b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if product.Ceil().Cmp(FromInt64(1)) != 0 {
		t.Errorf("expected ceil(1/3*3) == 1, got %s", product.Ceil().String())
	}
	if product.Floor().Cmp(Zero()) != 0 {
		t.Errorf("expected floor(1/3*3) == 0, got %s", product.Floor().String())
	}

	if _, err := a.Quo(Zero()); err == nil {
		t.Error("expected division-by-zero error")
	}
}

func TestEMAExpMonotonicAndDeterministic(t *testing.T) {
	alpha := Alpha()
	x := FromInt64(1)

	e1, err := EMAExp(x, alpha)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	e2, err := EMAExp(x, alpha)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e1.Cmp(e2) != 0 {
		t.Error("EMAExp must be deterministic for identical inputs")
	}

	zero, err := EMAExp(Zero(), alpha)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// x=0: e_{k+1} = 0.9*e_k truncated to 18 decimals, so 100 steps
	// leave 0.9^100 ~= 0.000026561398887583.
	wantZero := FixedDecimal{d: math.LegacyNewDecWithPrec(26561398887583, 18)}
	if zero.Cmp(wantZero) != 0 {
		t.Errorf("EMAExp(0) should be %s, got %s", wantZero.String(), zero.String())
	}

	// x=1 is the recurrence's fixed point: 0.1*1 + 0.9*1 = 1 at every step.
	if e1.Cmp(One()) != 0 {
		t.Errorf("EMAExp(1) should be exactly 1, got %s", e1.String())
	}
	if !e1.GT(zero) {
		t.Errorf("EMAExp(1) should exceed EMAExp(0), got %s <= %s", e1.String(), zero.String())
	}
}
