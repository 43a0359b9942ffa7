package session

import (
	"testing"

	"github.com/0xquote/marketmaker/internal/book"
	"github.com/0xquote/marketmaker/pkg/domain"
	"github.com/0xquote/marketmaker/pkg/types"
)

func TestDecodeLevelsSortsAsksAscending(t *testing.T) {
	levels := []types.PriceLevel{
		{Price: "0.55", Size: "10"},
		{Price: "0.50", Size: "20"},
		{Price: "0.60", Size: "5"},
	}
	offers := decodeLevels(levels, domain.Ask)

	if len(offers) != 3 {
		t.Fatalf("len(offers) = %d, want 3", len(offers))
	}
	if offers[0].Price.String() != "0.5" || offers[2].Price.String() != "0.6" {
		t.Fatalf("asks not sorted ascending: %v", offers)
	}
}

func TestDecodeLevelsSortsBidsDescending(t *testing.T) {
	levels := []types.PriceLevel{
		{Price: "0.50", Size: "20"},
		{Price: "0.55", Size: "10"},
	}
	offers := decodeLevels(levels, domain.Bid)

	if offers[0].Price.String() != "0.55" {
		t.Fatalf("bids not sorted descending: %v", offers)
	}
}

func TestPriceChangeToOpZeroSizeIsDelete(t *testing.T) {
	pc := types.WSPriceChange{AssetID: "a", Price: "0.5", Size: "0", Side: "SELL"}
	op := priceChangeToOp(pc, 1)
	if op.Kind != book.OrderbookDelete {
		t.Fatalf("op.Kind = %v, want OrderbookDelete", op.Kind)
	}
}

func TestPriceChangeToOpNonzeroSizeIsUpdate(t *testing.T) {
	pc := types.WSPriceChange{AssetID: "a", Price: "0.5", Size: "10", Side: "BUY"}
	op := priceChangeToOp(pc, 1)
	if op.Kind != book.OrderbookUpdate {
		t.Fatalf("op.Kind = %v, want OrderbookUpdate", op.Kind)
	}
	if op.Side != domain.Bid {
		t.Fatalf("op.Side = %v, want Bid for BUY price change", op.Side)
	}
}
