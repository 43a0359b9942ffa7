package book

import (
	"testing"

	"github.com/0xquote/marketmaker/pkg/domain"
	"github.com/0xquote/marketmaker/pkg/quant"
)

func fixtureBook() domain.Orderbook {
	return domain.NewOrderbook(0,
		[]domain.Offer{
			domain.NewOffer("260", quant.NewFromFloat(260), quant.NewFromFloat(1)),
			domain.NewOffer("270", quant.NewFromFloat(270), quant.NewFromFloat(1)),
			domain.NewOffer("280", quant.NewFromFloat(280), quant.NewFromFloat(1)),
			domain.NewOffer("290", quant.NewFromFloat(290), quant.NewFromFloat(1)),
		},
		[]domain.Offer{
			domain.NewOffer("240", quant.NewFromFloat(240), quant.NewFromFloat(1)),
			domain.NewOffer("230", quant.NewFromFloat(230), quant.NewFromFloat(1)),
			domain.NewOffer("220", quant.NewFromFloat(220), quant.NewFromFloat(1)),
			domain.NewOffer("210", quant.NewFromFloat(210), quant.NewFromFloat(1)),
		},
	)
}

func offerIDs(offers []domain.Offer) []domain.OfferId {
	ids := make([]domain.OfferId, len(offers))
	for i, o := range offers {
		ids[i] = o.ID
	}
	return ids
}

func assertIDs(t *testing.T, got []domain.OfferId, want []domain.OfferId) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("ids = %v, want %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("ids = %v, want %v", got, want)
		}
	}
}

func TestOrderbookWriterCreateInsertsInSortOrder(t *testing.T) {
	book := fixtureBook()
	w := NewOrderbookWriter(&book)

	if err := w.Apply(CreateOrderbookOp(1, "275", domain.Ask, quant.NewFromFloat(275), quant.NewFromFloat(1))); err != nil {
		t.Fatalf("Apply(create ask) error: %v", err)
	}
	assertIDs(t, offerIDs(book.Asks), []domain.OfferId{"260", "270", "275", "280", "290"})

	if err := w.Apply(CreateOrderbookOp(2, "225", domain.Bid, quant.NewFromFloat(225), quant.NewFromFloat(1))); err != nil {
		t.Fatalf("Apply(create bid) error: %v", err)
	}
	assertIDs(t, offerIDs(book.Bids), []domain.OfferId{"240", "230", "225", "220", "210"})

	if book.Timestamp != 2 {
		t.Errorf("Timestamp = %d, want 2", book.Timestamp)
	}
}

func TestOrderbookWriterCreateDuplicateInsertsUnconditionally(t *testing.T) {
	book := fixtureBook()
	w := NewOrderbookWriter(&book)

	if err := w.Apply(CreateOrderbookOp(1, "260", domain.Ask, quant.NewFromFloat(260), quant.NewFromFloat(5))); err != nil {
		t.Fatalf("Apply(duplicate create) error: %v", err)
	}

	count := 0
	for _, o := range book.Asks {
		if o.ID == domain.OfferId("260") {
			count++
		}
	}
	if count != 2 {
		t.Fatalf("duplicate OfferId create: got %d entries with id 260, want 2 (insert unconditionally)", count)
	}
}

func TestOrderbookWriterUpdateResorts(t *testing.T) {
	book := fixtureBook()
	w := NewOrderbookWriter(&book)

	newAmount := quant.NewFromFloat(9)
	newPrice := quant.NewFromFloat(295)
	if err := w.Apply(UpdateOrderbookOp(1, "260", domain.Ask, &newPrice, &newAmount)); err != nil {
		t.Fatalf("Apply(update) error: %v", err)
	}
	assertIDs(t, offerIDs(book.Asks), []domain.OfferId{"270", "280", "290", "260"})

	for _, o := range book.Asks {
		if o.ID == "260" {
			if !o.Price.Equal(newPrice) || !o.Amount.Equal(newAmount) {
				t.Errorf("updated offer = %+v, want price %s amount %s", o, newPrice, newAmount)
			}
		}
	}
}

func TestOrderbookWriterUpdateNotFound(t *testing.T) {
	book := fixtureBook()
	w := NewOrderbookWriter(&book)

	amt := quant.NewFromFloat(1)
	err := w.Apply(UpdateOrderbookOp(1, "999", domain.Ask, nil, &amt))
	if err != ErrOfferNotFound {
		t.Fatalf("err = %v, want ErrOfferNotFound", err)
	}
}

func TestOrderbookWriterDelete(t *testing.T) {
	book := fixtureBook()
	w := NewOrderbookWriter(&book)

	if err := w.Apply(DeleteOrderbookOp(1, "270", domain.Ask)); err != nil {
		t.Fatalf("Apply(delete) error: %v", err)
	}
	assertIDs(t, offerIDs(book.Asks), []domain.OfferId{"260", "280", "290"})

	if err := w.Apply(DeleteOrderbookOp(2, "270", domain.Ask)); err != ErrOfferNotFound {
		t.Fatalf("second delete err = %v, want ErrOfferNotFound", err)
	}
}
