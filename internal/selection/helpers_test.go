package selection

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"github.com/marcovc/services/internal/contracts"
)

var (
	testNow    = time.Unix(1_700_000_000, 0)
	testSolver = common.HexToAddress("0x00000000000000000000000000000000000000aa")
	otherActor = common.HexToAddress("0x00000000000000000000000000000000000000bb")

	sellToken = common.HexToAddress("0x0000000000000000000000000000000000000001")
	buyToken  = common.HexToAddress("0x0000000000000000000000000000000000000002")
)

func testTokens() contracts.Tokens {
	return contracts.Tokens{
		sellToken: {Symbol: "SELL", Decimals: 18, Price: decimal.NewFromInt(1)},
		buyToken:  {Symbol: "BUY", Decimals: 18, Price: decimal.NewFromInt(1)},
	}
}

func uid(n byte) contracts.OrderUID {
	var u contracts.OrderUID
	u[0] = n
	return u
}

// order builds an order identified by n, created at testNow-age
func order(n byte, age time.Duration) contracts.Order {
	created, _ := contracts.TimestampFromTime(testNow.Add(-age))
	return contracts.Order{
		UID:     uid(n),
		Sell:    contracts.Asset{Token: sellToken, Amount: big.NewInt(100)},
		Buy:     contracts.Asset{Token: buyToken, Amount: big.NewInt(100)},
		Side:    contracts.SideSell,
		Kind:    contracts.KindLimit,
		Created: created,
	}
}

// priced returns o asking for buy atoms of the buy token for 100 sell atoms
func priced(o contracts.Order, buy int64) contracts.Order {
	o.Buy.Amount = big.NewInt(buy)
	return o
}

func quotedBy(o contracts.Order, solver common.Address) contracts.Order {
	o.Quote = &contracts.QuoteAttribution{Solver: solver}
	return o
}

func ids(orders []contracts.Order) []byte {
	out := make([]byte, len(orders))
	for i := range orders {
		out[i] = orders[i].UID[0]
	}
	return out
}

// fourOrders returns orders 1..4 created at strictly increasing times
func fourOrders() []contracts.Order {
	return []contracts.Order{
		order(1, 4*time.Minute),
		order(2, 3*time.Minute),
		order(3, 2*time.Minute),
		order(4, 1*time.Minute),
	}
}
