package domain

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Response is the body every backend route answers with.
type Response struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// DecodeData unmarshals Data into v.
func (r *Response) DecodeData(v any) error {
	if len(r.Data) == 0 {
		return nil
	}
	return json.Unmarshal(r.Data, v)
}

// SignInData is the data of a successful sign in.
type SignInData struct {
	UUID  string `json:"uuid"`
	Email string `json:"email"`
}

// Transaction is one fill recorded against a symbol.
type Transaction struct {
	Shares decimal.Decimal `json:"shares"`
	Price  decimal.Decimal `json:"price"`
}

// Portfolio is the data of get_user/summary.
type Portfolio struct {
	Balance decimal.Decimal          `json:"balance"`
	Symbols map[string][]Transaction `json:"symbols"`
}

// TotalShares sums the shares held per symbol.
func (p Portfolio) TotalShares() map[string]decimal.Decimal {
	totals := make(map[string]decimal.Decimal, len(p.Symbols))
	for symbol, transactions := range p.Symbols {
		total := decimal.Zero
		for _, tx := range transactions {
			total = total.Add(tx.Shares)
		}
		totals[symbol] = total
	}
	return totals
}
