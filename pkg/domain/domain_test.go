package domain

import (
	"testing"

	"github.com/0xquote/marketmaker/pkg/quant"
)

func TestSideOpposite(t *testing.T) {
	t.Parallel()

	if got := Ask.Opposite(); got != Bid {
		t.Errorf("Ask.Opposite() = %v, want Bid", got)
	}
	if got := Bid.Opposite(); got != Ask {
		t.Errorf("Bid.Opposite() = %v, want Ask", got)
	}
}

func TestOrderbookMidPrice(t *testing.T) {
	t.Parallel()

	book := NewOrderbook(0,
		[]Offer{NewOffer("a1", quant.NewFromFloat(101), quant.NewFromFloat(10))},
		[]Offer{NewOffer("b1", quant.NewFromFloat(99), quant.NewFromFloat(10))},
	)

	mid, ok := book.MidPrice()
	if !ok {
		t.Fatalf("MidPrice() ok = false, want true")
	}
	want := quant.NewFromFloat(100)
	if !mid.Equal(want) {
		t.Errorf("MidPrice() = %s, want %s", mid, want)
	}
}

func TestOrderbookMidPriceEmpty(t *testing.T) {
	t.Parallel()

	book := NewOrderbook(0, nil, nil)
	if _, ok := book.MidPrice(); ok {
		t.Errorf("MidPrice() ok = true for empty book, want false")
	}
}

func TestOpenOrdersAmounts(t *testing.T) {
	t.Parallel()

	orders := NewOpenOrders(0, []OrderState{
		NewOrderState("o1", Ask, quant.NewFromFloat(101), quant.NewFromFloat(5)),
		NewOrderState("o2", Ask, quant.NewFromFloat(102), quant.NewFromFloat(3)),
		NewOrderState("o3", Bid, quant.NewFromFloat(99), quant.NewFromFloat(7)),
	})

	if got := orders.AskAmount(); !got.Equal(quant.NewFromFloat(8)) {
		t.Errorf("AskAmount() = %s, want 8", got)
	}
	if got := orders.BidAmount(); !got.Equal(quant.NewFromFloat(7)) {
		t.Errorf("BidAmount() = %s, want 7", got)
	}
}

func TestExecutionTakerSide(t *testing.T) {
	t.Parallel()

	e := NewExecution(0, "t1", Bid, quant.NewFromFloat(100), quant.NewFromFloat(1))
	if got := e.TakerSide(); got != Ask {
		t.Errorf("TakerSide() = %v, want Ask", got)
	}
}

func TestInventoryNetPosition(t *testing.T) {
	t.Parallel()

	pos := NewPositionInventory(quant.NewFromFloat(42))
	if got := pos.NetPosition(); !got.Equal(quant.NewFromFloat(42)) {
		t.Errorf("NetPosition() = %s, want 42", got)
	}

	bal := NewBalancesInventory(Balances{BaseAmount: quant.NewFromFloat(10), QuoteAmount: quant.NewFromFloat(500)})
	if got := bal.NetPosition(); !got.Equal(quant.NewFromFloat(10)) {
		t.Errorf("NetPosition() = %s, want 10", got)
	}
}
