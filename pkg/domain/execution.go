package domain

import "github.com/0xquote/marketmaker/pkg/quant"

// Execution is a single trade print from the market's public trade tape.
type Execution struct {
	Timestamp int64
	ID        TradeId
	MakerSide Side
	Price     quant.Price
	Amount    quant.Amount
}

func NewExecution(timestamp int64, id TradeId, makerSide Side, price, amount quant.Amount) Execution {
	return Execution{Timestamp: timestamp, ID: id, MakerSide: makerSide, Price: price, Amount: amount}
}

// TakerSide is the aggressing side — always the opposite of the maker side.
func (e Execution) TakerSide() Side {
	return e.MakerSide.Opposite()
}
