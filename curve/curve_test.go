package curve

import (
	"testing"

	"cosmossdk.io/math"
)

func TestBuyIncreasesSoldAndReserve(t *testing.T) {
	p := NewPool("tok1", math.NewInt(1_000)) // slope = 1000/1e6 = 0.001
	cap := math.NewInt(80_000_000_000)

	received, err := p.Buy(math.NewInt(1_000_000), math.ZeroInt(), cap, 8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !received.IsPositive() {
		t.Fatalf("expected positive tokens received, got %s", received)
	}
	if !p.TokenSold.Equal(received) {
		t.Fatalf("expected token_sold to equal tokens received on first buy, got %s vs %s", p.TokenSold, received)
	}
	if !p.TotalReserveToken.Equal(math.NewInt(1_000_000)) {
		t.Fatalf("expected reserve to equal amount paid, got %s", p.TotalReserveToken)
	}
}

func TestBuyRejectsAtSupplyCap(t *testing.T) {
	p := NewPool("tok1", math.NewInt(1_000))
	cap := math.NewInt(10)
	p.TokenSold = math.NewInt(10)

	if _, err := p.Buy(math.NewInt(1), math.ZeroInt(), cap, 8); err == nil {
		t.Fatal("expected supply cap error")
	}
}

func TestSellRejectsAboveTokenSold(t *testing.T) {
	p := NewPool("tok1", math.NewInt(1_000))
	p.TokenSold = math.NewInt(5)

	if _, err := p.Sell(math.NewInt(10), math.ZeroInt(), 8); err == nil {
		t.Fatal("expected liquidity error selling more than token_sold")
	}
}

func TestSecondBuySlippage(t *testing.T) {
	p := NewPool("tok1", math.NewInt(1_000))
	cap := math.NewInt(80_000_000_000)

	received, err := p.Buy(math.NewInt(1_000_000), math.ZeroInt(), cap, 8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := p.Buy(math.NewInt(1), received.Add(math.NewInt(1)), cap, 8); err == nil {
		t.Fatal("expected slippage error when min_return is unreachable")
	}
}
