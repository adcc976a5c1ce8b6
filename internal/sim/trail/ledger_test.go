package trail

import (
	"errors"
	"testing"
)

func TestLedger_AdjustClampsAtZero(t *testing.T) {
	l := NewLedger(map[string]int{ResFood: 10, ResGold: -5})
	if l.Get(ResGold) != 0 {
		t.Fatalf("negative initial value should clamp, got %d", l.Get(ResGold))
	}
	if got := l.Adjust(ResFood, -1000); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
	if got := l.Adjust(ResFood, 7); got != 7 {
		t.Fatalf("expected 7, got %d", got)
	}
	if got := l.Adjust("unknown", -3); got != 0 {
		t.Fatalf("expected unknown resource to clamp at 0, got %d", got)
	}
}

func TestLedger_SpendUnaffordableDoesNotMutate(t *testing.T) {
	l := NewLedger(map[string]int{ResGold: 20})
	err := l.Spend(ResGold, 50)
	if !errors.Is(err, ErrUnaffordable) {
		t.Fatalf("expected ErrUnaffordable, got %v", err)
	}
	if l.Get(ResGold) != 20 {
		t.Fatalf("gold changed on failed spend: %d", l.Get(ResGold))
	}
	if err := l.Spend(ResGold, 20); err != nil {
		t.Fatalf("exact spend: %v", err)
	}
	if l.Get(ResGold) != 0 {
		t.Fatalf("expected 0 gold, got %d", l.Get(ResGold))
	}
	if !l.CanAfford(ResGold, 0) {
		t.Fatalf("zero cost is always affordable")
	}
}

func TestLedger_TotalsIsACopy(t *testing.T) {
	l := NewLedger(map[string]int{ResFood: 1})
	tot := l.Totals()
	tot[ResFood] = 99
	if l.Get(ResFood) != 1 {
		t.Fatalf("Totals leaked internal map")
	}
}
