package models

import "github.com/shopspring/decimal"

type Side string

const (
	SideNone Side = ""
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

type OrdType string

const (
	OrdTypeLimit  OrdType = "limit"
	OrdTypeMarket OrdType = "market"
)

// TradeModeCash — спот без маржи.
const TradeModeCash = "cash"

// OrderRequest собирается на каждое решение и нигде не хранится.
type OrderRequest struct {
	InstID  string
	Side    Side
	Size    decimal.Decimal
	Price   *decimal.Decimal // nil — без цены
	OrdType OrdType
}

// OrderResult — ответ биржи как есть, без сверки и повторов.
type OrderResult struct {
	Code  string
	Msg   string
	OrdID string
	SCode string
	SMsg  string
	Raw   string
}

func (r OrderResult) OK() bool {
	return r.Code == "0" && (r.SCode == "" || r.SCode == "0")
}
