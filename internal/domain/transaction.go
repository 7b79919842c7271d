package domain

import "time"

const (
	DocTypeMaterialRequest = "Material Request"
	DocTypeSalesOrder      = "Sales Order"
	DocTypeSalesInvoice    = "Sales Invoice"
)

var transactionTypes = map[string]TransactionType{
	"Quotation":          Selling,
	"Sales Order":        Selling,
	"Delivery Note":      Selling,
	"Sales Invoice":      Selling,
	"POS Invoice":        Selling,
	"Material Request":   Buying,
	"Supplier Quotation": Buying,
	"Purchase Order":     Buying,
	"Purchase Receipt":   Buying,
	"Purchase Invoice":   Buying,
}

// Transaction representa a encomenda/fatura avaliada pelo motor.
type Transaction struct {
	Name              string     `json:"name"`
	Doctype           string     `json:"doctype"`
	DocStatus         int        `json:"docstatus"`
	Revision          int        `json:"revision"`
	Customer          string     `json:"customer"`
	CustomerGroup     string     `json:"customer_group"`
	Territory         string     `json:"territory"`
	Currency          string     `json:"currency"`
	ConversionRate    float64    `json:"conversion_rate"`
	PriceList         string     `json:"selling_price_list"`
	PriceListCurrency string     `json:"price_list_currency"`
	PLCConversionRate float64    `json:"plc_conversion_rate"`
	Company           string     `json:"company"`
	TransactionDate   time.Time  `json:"transaction_date"`
	Items             []LineItem `json:"items"`

	PricingScheme                string  `json:"pricing_scheme,omitempty"`
	ApplyDiscountOn              string  `json:"apply_discount_on,omitempty"`
	DiscountAmount               float64 `json:"discount_amount"`
	AdditionalDiscountPercentage float64 `json:"additional_discount_percentage"`

	TotalQty       float64 `json:"total_qty"`
	TotalNetWeight float64 `json:"total_net_weight"`
	NetTotal       float64 `json:"net_total"`
}

// LineItem é uma linha da transação.
type LineItem struct {
	Name             string  `json:"name"`
	Idx              int     `json:"idx"`
	ItemCode         string  `json:"item_code"`
	ItemName         string  `json:"item_name,omitempty"`
	ItemGroup        string  `json:"item_group,omitempty"`
	Brand            string  `json:"brand,omitempty"`
	UOM              string  `json:"uom,omitempty"`
	Qty              float64 `json:"qty"`
	ConversionFactor float64 `json:"conversion_factor"`
	StockQty         float64 `json:"stock_qty"`
	WeightPerUnit    float64 `json:"weight_per_unit"`
	TotalWeight      float64 `json:"total_weight"`
	Amount           float64 `json:"amount"`
	NetAmount        float64 `json:"net_amount"`

	PriceListRate      float64 `json:"price_list_rate"`
	Rate               float64 `json:"rate"`
	DiscountPercentage float64 `json:"discount_percentage"`
	DiscountAmount     float64 `json:"discount_amount"`
	MarginType         string  `json:"margin_type,omitempty"`
	MarginRateOrAmount float64 `json:"margin_rate_or_amount"`

	PricingScheme       string `json:"pricing_scheme,omitempty"`
	SkipAutoApplyScheme bool   `json:"skip_auto_apply_scheme"`
	IsFreeItem          bool   `json:"is_free_item"`
}

// ProtectedFields são os campos congelados de uma linha governada por um esquema.
var ProtectedFields = []string{
	"qty",
	"rate",
	"discount_percentage",
	"discount_amount",
	"price_list_rate",
	"margin_rate_or_amount",
}

// TransactionType deriva o tipo (selling/buying) a partir do doctype.
func (t Transaction) TransactionType() TransactionType {
	if tt, ok := transactionTypes[t.Doctype]; ok {
		return tt
	}
	return Selling
}

func (t Transaction) IsDraft() bool { return t.DocStatus == 0 }

// FindItem devolve a linha com o nome indicado.
func (t *Transaction) FindItem(name string) *LineItem {
	for i := range t.Items {
		if t.Items[i].Name == name {
			return &t.Items[i]
		}
	}
	return nil
}

// CalculateTotals recalcula quantidades, montantes e totais, como o faria o
// documento anfitrião antes de gravar. stock_qty é sempre derivada de qty e do
// fator de conversão, que assume 1 quando a linha não o traz.
func (t *Transaction) CalculateTotals() {
	var qty, weight, net float64
	for i := range t.Items {
		row := &t.Items[i]
		if row.Idx == 0 {
			row.Idx = i + 1
		}
		if row.ConversionFactor == 0 {
			row.ConversionFactor = 1
		}
		row.StockQty = row.Qty * row.ConversionFactor
		if row.WeightPerUnit != 0 {
			row.TotalWeight = row.WeightPerUnit * row.StockQty
		}
		row.Amount = row.Rate * row.Qty
		row.NetAmount = row.Amount
		qty += row.Qty
		weight += row.TotalWeight
		net += row.NetAmount
	}
	t.TotalQty = qty
	t.TotalNetWeight = weight
	t.NetTotal = net
}

// Fields expõe apenas os campos permitidos às condições das regras.
func (t Transaction) Fields() map[string]interface{} {
	items := make([]interface{}, len(t.Items))
	for i, row := range t.Items {
		items[i] = row.Fields()
	}
	return map[string]interface{}{
		"name":                           t.Name,
		"doctype":                        t.Doctype,
		"customer":                       t.Customer,
		"customer_group":                 t.CustomerGroup,
		"territory":                      t.Territory,
		"currency":                       t.Currency,
		"conversion_rate":                t.ConversionRate,
		"selling_price_list":             t.PriceList,
		"price_list_currency":            t.PriceListCurrency,
		"plc_conversion_rate":            t.PLCConversionRate,
		"company":                        t.Company,
		"transaction_date":               t.TransactionDate.Format("2006-01-02"),
		"pricing_scheme":                 t.PricingScheme,
		"apply_discount_on":              t.ApplyDiscountOn,
		"discount_amount":                t.DiscountAmount,
		"additional_discount_percentage": t.AdditionalDiscountPercentage,
		"total_qty":                      t.TotalQty,
		"total_net_weight":               t.TotalNetWeight,
		"net_total":                      t.NetTotal,
		"items":                          items,
	}
}

func (l LineItem) Fields() map[string]interface{} {
	return map[string]interface{}{
		"name":                   l.Name,
		"idx":                    l.Idx,
		"item_code":              l.ItemCode,
		"item_name":              l.ItemName,
		"item_group":             l.ItemGroup,
		"brand":                  l.Brand,
		"uom":                    l.UOM,
		"qty":                    l.Qty,
		"conversion_factor":      l.ConversionFactor,
		"stock_qty":              l.StockQty,
		"weight_per_unit":        l.WeightPerUnit,
		"total_weight":           l.TotalWeight,
		"amount":                 l.Amount,
		"net_amount":             l.NetAmount,
		"price_list_rate":        l.PriceListRate,
		"rate":                   l.Rate,
		"discount_percentage":    l.DiscountPercentage,
		"discount_amount":        l.DiscountAmount,
		"margin_type":            l.MarginType,
		"margin_rate_or_amount":  l.MarginRateOrAmount,
		"pricing_scheme":         l.PricingScheme,
		"skip_auto_apply_scheme": l.SkipAutoApplyScheme,
		"is_free_item":           l.IsFreeItem,
	}
}

// ScopeValue devolve o valor da linha para o campo de âmbito indicado.
func (l LineItem) ScopeValue(field string) string {
	switch field {
	case "item_code":
		return l.ItemCode
	case "item_group":
		return l.ItemGroup
	case "brand":
		return l.Brand
	}
	return ""
}

// ProtectedValues devolve os campos congelados da linha, para comparação antes/depois.
func (l LineItem) ProtectedValues() map[string]any {
	return map[string]any{
		"qty":                   l.Qty,
		"rate":                  l.Rate,
		"discount_percentage":   l.DiscountPercentage,
		"discount_amount":       l.DiscountAmount,
		"price_list_rate":       l.PriceListRate,
		"margin_rate_or_amount": l.MarginRateOrAmount,
	}
}
