package domain

import "time"

// --- Enumerações da Regra de Preço ---

type ApplyOn string

const (
	ApplyOnItemCode    ApplyOn = "Item Code"
	ApplyOnItemGroup   ApplyOn = "Item Group"
	ApplyOnBrand       ApplyOn = "Brand"
	ApplyOnTransaction ApplyOn = "Transaction"
)

// LineScopes são os âmbitos avaliados por linha, pela ordem de carregamento.
var LineScopes = []ApplyOn{ApplyOnItemCode, ApplyOnItemGroup, ApplyOnBrand}

type RateOrDiscount string

const (
	Rate               RateOrDiscount = "Rate"
	DiscountPercentage RateOrDiscount = "Discount Percentage"
	DiscountAmount     RateOrDiscount = "Discount Amount"
)

type PriceOrProduct string

const (
	PriceDiscount   PriceOrProduct = "Price"
	ProductDiscount PriceOrProduct = "Product"
)

type QtyBasedOn string

const (
	QtyBasedOnStock  QtyBasedOn = "Stock"
	QtyBasedOnWeight QtyBasedOn = "Weight"
)

type RateBasedOn string

const (
	RateBasedOnQty    RateBasedOn = "Qty"
	RateBasedOnWeight RateBasedOn = "Weight"
)

type FreeQtyType string

const (
	FreeQtyAbsolute   FreeQtyType = "Qty"
	FreeQtyPercentage FreeQtyType = "Percentage"
)

type TransactionType string

const (
	Selling TransactionType = "selling"
	Buying  TransactionType = "buying"
)

// Doctypes usados como hierarquias (árvores lft/rgt mantidas pela plataforma).
const (
	TerritoryTree     = "Territory"
	CustomerGroupTree = "Customer Group"
	ItemGroupTree     = "Item Group"
)

const DefaultPriority = 4

// --- Regra de Preço ---

// PricingRule é a definição de uma regra, tal como lida do repositório.
type PricingRule struct {
	Name     string  `json:"name" yaml:"name"`
	Title    string  `json:"title" yaml:"title"`
	ApplyOn  ApplyOn `json:"apply_on" yaml:"apply_on"`
	Disabled bool    `json:"disable" yaml:"disable"`

	// Valores do âmbito: códigos de artigo, grupos ou marcas, conforme ApplyOn.
	Items []string `json:"items,omitempty" yaml:"items,omitempty"`

	Selling       bool       `json:"selling" yaml:"selling"`
	Buying        bool       `json:"buying" yaml:"buying"`
	Company       string     `json:"company,omitempty" yaml:"company,omitempty"`
	Customer      string     `json:"customer,omitempty" yaml:"customer,omitempty"`
	CustomerGroup string     `json:"customer_group,omitempty" yaml:"customer_group,omitempty"`
	Territory     string     `json:"territory,omitempty" yaml:"territory,omitempty"`
	Currency      string     `json:"currency,omitempty" yaml:"currency,omitempty"`
	ValidFrom     *time.Time `json:"valid_from,omitempty" yaml:"valid_from,omitempty"`
	ValidUpto     *time.Time `json:"valid_upto,omitempty" yaml:"valid_upto,omitempty"`

	MinQty float64 `json:"min_qty" yaml:"min_qty"`
	MaxQty float64 `json:"max_qty" yaml:"max_qty"`
	MinAmt float64 `json:"min_amt" yaml:"min_amt"`
	MaxAmt float64 `json:"max_amt" yaml:"max_amt"`

	// Condition é uma expressão JsonLogic avaliada contra os campos da transação.
	Condition       string `json:"condition,omitempty" yaml:"condition,omitempty"`
	MixedConditions bool   `json:"mixed_conditions" yaml:"mixed_conditions"`
	Suggestion      bool   `json:"suggestion" yaml:"suggestion"`

	RateOrDiscount         RateOrDiscount `json:"rate_or_discount" yaml:"rate_or_discount"`
	PriceOrProductDiscount PriceOrProduct `json:"price_or_product_discount" yaml:"price_or_product_discount"`
	Rate                   float64        `json:"rate" yaml:"rate"`
	DiscountPercentage     float64        `json:"discount_percentage" yaml:"discount_percentage"`
	DiscountAmount         float64        `json:"discount_amount" yaml:"discount_amount"`
	MarginType             string         `json:"margin_type,omitempty" yaml:"margin_type,omitempty"`
	MarginRateOrAmount     float64        `json:"margin_rate_or_amount" yaml:"margin_rate_or_amount"`
	ApplyDiscountOn        string         `json:"apply_discount_on,omitempty" yaml:"apply_discount_on,omitempty"`

	FreeQty              float64     `json:"free_qty" yaml:"free_qty"`
	FreeQtyType          FreeQtyType `json:"free_qty_type" yaml:"free_qty_type"`
	FreeItemUOM          string      `json:"free_item_uom,omitempty" yaml:"free_item_uom,omitempty"`
	IsRecursive          bool        `json:"is_recursive" yaml:"is_recursive"`
	RecurseFor           float64     `json:"recurse_for" yaml:"recurse_for"`
	ApplyRecursionOver   float64     `json:"apply_recursion_over" yaml:"apply_recursion_over"`
	RoundFreeQty         bool        `json:"round_free_qty" yaml:"round_free_qty"`
	HasMultipleFreeItems bool        `json:"has_multiple_free_items" yaml:"has_multiple_free_items"`

	QtyBasedOn  QtyBasedOn  `json:"qty_based_on" yaml:"qty_based_on"`
	RateBasedOn RateBasedOn `json:"rate_based_on" yaml:"rate_based_on"`

	AutoApplyScheme bool `json:"auto_apply_scheme" yaml:"auto_apply_scheme"`
	AllowSkipping   bool `json:"allow_skipping" yaml:"allow_skipping"`

	// Priority 0 significa "não definida"; é derivada no ranking.
	Priority int `json:"priority" yaml:"priority"`

	HasItemWiseRates          bool `json:"has_item_wise_rates" yaml:"has_item_wise_rates"`
	HasItemGroupWiseDiscounts bool `json:"has_item_group_wise_discounts" yaml:"has_item_group_wise_discounts"`
	HasItemWiseDiscounts      bool `json:"has_item_wise_discounts" yaml:"has_item_wise_discounts"`
}

// RuleTables agrupa as sub-tabelas de uma regra, carregadas a pedido.
type RuleTables struct {
	FreeItems              []FreeItem      `json:"free_items,omitempty" yaml:"free_items,omitempty"`
	ItemWiseRates          []ItemRate      `json:"item_wise_rates,omitempty" yaml:"item_wise_rates,omitempty"`
	ItemGroupWiseDiscounts []GroupDiscount `json:"item_group_wise_discounts,omitempty" yaml:"item_group_wise_discounts,omitempty"`
	ItemWiseDiscounts      []ItemDiscount  `json:"item_wise_discounts,omitempty" yaml:"item_wise_discounts,omitempty"`
}

type FreeItem struct {
	ItemCode    string  `json:"item_code" yaml:"item_code"`
	ItemName    string  `json:"item_name,omitempty" yaml:"item_name,omitempty"`
	UOM         string  `json:"uom,omitempty" yaml:"uom,omitempty"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
	UnitWeight  float64 `json:"unit_weight" yaml:"unit_weight"`
}

type ItemRate struct {
	ItemCode string  `json:"item_code" yaml:"item_code"`
	Rate     float64 `json:"rate" yaml:"rate"`
}

type GroupDiscount struct {
	ItemGroup          string  `json:"item_group" yaml:"item_group"`
	DiscountPercentage float64 `json:"discount_percentage" yaml:"discount_percentage"`
}

type ItemDiscount struct {
	ItemCode           string  `json:"item_code" yaml:"item_code"`
	DiscountPercentage float64 `json:"discount_percentage" yaml:"discount_percentage"`
}

// EffectiveQtyBasedOn trata o valor vazio como "Stock".
func (r PricingRule) EffectiveQtyBasedOn() QtyBasedOn {
	if r.QtyBasedOn == "" {
		return QtyBasedOnStock
	}
	return r.QtyBasedOn
}

// ScopeField devolve o campo da linha que corresponde ao âmbito da regra.
func (r PricingRule) ScopeField() string {
	switch r.ApplyOn {
	case ApplyOnItemCode:
		return "item_code"
	case ApplyOnItemGroup:
		return "item_group"
	case ApplyOnBrand:
		return "brand"
	}
	return ""
}

// --- Registo de execução ---

type Phase string

const (
	PhaseCondition Phase = "condition"
	PhaseScope     Phase = "scope"
	PhaseRange     Phase = "range"
	PhaseCurrency  Phase = "currency"
	PhasePriority  Phase = "priority"
	PhaseLine      Phase = "line"
	PhaseDocument  Phase = "transaction"
	PhaseAutoApply Phase = "autoApply"
	PhaseValidate  Phase = "validate"
)

type ExecutionStep struct {
	Phase   Phase  `json:"phase"`
	RuleID  string `json:"ruleId"`
	Action  string `json:"action"`
	Message string `json:"message"`
}

// --- Pacote de regras ---

// RulePackDefinition define a estrutura de um conjunto de regras carregado,
// incluindo as árvores hierárquicas (territórios, grupos de clientes e de artigos).
type RulePackDefinition struct {
	Version     string                `json:"version" yaml:"version"`
	Description string                `json:"description,omitempty" yaml:"description,omitempty"`
	Rules       []RuleConfig          `json:"rules" yaml:"rules"`
	Trees       map[string][]TreeNode `json:"trees,omitempty" yaml:"trees,omitempty"`
}

type RuleConfig struct {
	PricingRule `json:",inline" yaml:",inline"`
	Tables      RuleTables `json:"tables" yaml:"tables"`
}

type TreeNode struct {
	Name     string     `json:"name" yaml:"name"`
	Children []TreeNode `json:"children,omitempty" yaml:"children,omitempty"`
}

// QtyAmountRange são os limites (inclusivos) de quantidade e montante; um
// máximo 0 significa sem limite.
type QtyAmountRange struct {
	MinQty float64
	MaxQty float64
	MinAmt float64
	MaxAmt float64
}

func (r PricingRule) Range() QtyAmountRange {
	return QtyAmountRange{MinQty: r.MinQty, MaxQty: r.MaxQty, MinAmt: r.MinAmt, MaxAmt: r.MaxAmt}
}
