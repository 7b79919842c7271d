package domain

// RuleDetail é o resultado normalizado de uma regra para uma avaliação.
// Nunca é persistido.
type RuleDetail struct {
	PricingRule            string         `json:"pricing_rule"`
	Title                  string         `json:"title"`
	Priority               int            `json:"priority"`
	ApplyOn                ApplyOn        `json:"apply_on"`
	ItemCode               string         `json:"item_code,omitempty"`
	ChildDocname           string         `json:"child_docname,omitempty"`
	RateOrDiscount         RateOrDiscount `json:"rate_or_discount"`
	PriceOrProductDiscount PriceOrProduct `json:"price_or_product_discount"`
	MarginType             string         `json:"margin_type,omitempty"`
	Rate                   float64        `json:"rate"`
	DiscountPercentage     float64        `json:"discount_percentage"`
	DiscountAmount         float64        `json:"discount_amount"`
	ApplyDiscountOn        string         `json:"apply_discount_on,omitempty"`
	RateBasedOn            RateBasedOn    `json:"rate_based_on"`
	MinQty                 float64        `json:"min_qty"`
	MaxQty                 float64        `json:"max_qty"`
	MinAmt                 float64        `json:"min_amt"`
	MaxAmt                 float64        `json:"max_amt"`

	FreeItems          []FreeItem  `json:"free_items"`
	FreeQty            float64     `json:"free_qty"`
	FreeQtyType        FreeQtyType `json:"free_qty_type"`
	FreeItemUOM        string      `json:"free_item_uom,omitempty"`
	QtyBasedOn         QtyBasedOn  `json:"qty_based_on"`
	IsRecursive        bool        `json:"is_recursive"`
	RecurseFor         float64     `json:"recurse_for"`
	ApplyRecursionOver float64     `json:"apply_recursion_over"`
	RoundFreeQty       bool        `json:"round_free_qty"`

	AutoApplyScheme bool `json:"auto_apply_scheme"`
	AllowSkipping   bool `json:"allow_skipping"`

	ItemWiseRates          map[string]float64 `json:"item_wise_rates"`
	ItemGroupWiseDiscounts map[string]float64 `json:"item_group_wise_discounts"`
	ItemWiseDiscounts      map[string]float64 `json:"item_wise_discounts"`

	ApplicableItems []string `json:"applicable_items"`
}

// ItemDetail é o resultado calculado por linha.
type ItemDetail struct {
	Name           string     `json:"name"`
	Doctype        string     `json:"doctype,omitempty"`
	Parent         string     `json:"parent,omitempty"`
	HasMargin      bool       `json:"has_margin"`
	HasPricingRule bool       `json:"has_pricing_rule"`
	PricingRules   []string   `json:"pricing_rules"`
	FreeItemData   []FreeItem `json:"free_item_data"`
	ItemCode       string     `json:"item_code"`
	ItemName       string     `json:"item_name,omitempty"`
	Qty            float64    `json:"qty"`
	Weight         float64    `json:"weight"`
	StockQty       float64    `json:"stock_qty"`
	Amount         float64    `json:"amount"`
}

// AppliedSchemeSummary resume um esquema já aplicado: título e linhas governadas.
type AppliedSchemeSummary struct {
	Title string   `json:"title"`
	Items []string `json:"items"`
}

// EvaluationResult é a saída de evaluate. RuleOrder guarda a ordem de
// inserção das regras, pois Rules é um mapa.
type EvaluationResult struct {
	Rules          map[string]RuleDetail           `json:"rules"`
	RuleOrder      []string                        `json:"rule_order"`
	Items          map[string]ItemDetail           `json:"items"`
	AppliedSchemes map[string]AppliedSchemeSummary `json:"applied_schemes"`
	Trace          []ExecutionStep                 `json:"trace,omitempty"`
}

func NewEvaluationResult() *EvaluationResult {
	return &EvaluationResult{
		Rules:          map[string]RuleDetail{},
		RuleOrder:      []string{},
		Items:          map[string]ItemDetail{},
		AppliedSchemes: map[string]AppliedSchemeSummary{},
	}
}

// Ordered devolve as regras pela ordem de inserção.
func (r *EvaluationResult) Ordered() []RuleDetail {
	out := make([]RuleDetail, 0, len(r.RuleOrder))
	for _, name := range r.RuleOrder {
		out = append(out, r.Rules[name])
	}
	return out
}

// ApplySchemeRequest é a seleção manual de um esquema: linhas governadas e,
// para descontos em produto, os artigos gratuitos escolhidos.
type ApplySchemeRequest struct {
	Rule      string              `json:"rule"`
	Lines     []string            `json:"lines"`
	FreeItems []FreeItemSelection `json:"free_items,omitempty"`
}

type FreeItemSelection struct {
	ItemCode   string  `json:"item_code"`
	Qty        float64 `json:"qty"`
	UnitWeight float64 `json:"unit_weight"`
}

type SchemeEventType string

const (
	SchemeApplied SchemeEventType = "scheme.applied"
	SchemeRemoved SchemeEventType = "scheme.removed"
)

// SchemeEvent é publicado após uma gravação que aplica ou remove esquemas.
type SchemeEvent struct {
	ID          string          `json:"id"`
	Type        SchemeEventType `json:"type"`
	Transaction string          `json:"transaction"`
	Rule        string          `json:"rule"`
	Lines       []string        `json:"lines,omitempty"`
}

func (d RuleDetail) Range() QtyAmountRange {
	return QtyAmountRange{MinQty: d.MinQty, MaxQty: d.MaxQty, MinAmt: d.MinAmt, MaxAmt: d.MaxAmt}
}
