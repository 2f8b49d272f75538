package core

import (
	"strings"
)

// FallbackCategory is used when no keyword rule matches a description.
const FallbackCategory = "Outros"

// CategoryRule maps a lowercase keyword to a category. Kind is only a
// hint for the caller; it never overrides an explicit kind.
type CategoryRule struct {
	Keyword  string
	Category string
	Kind     Kind
}

// Classifier infers a category from free-text descriptions by scanning
// an ordered rule list. The first rule whose keyword occurs as a
// substring of the lowercased description wins; rule order is therefore
// part of the contract, not an accident.
type Classifier struct {
	rules []CategoryRule
}

// NewClassifier builds a classifier over the given rules. The slice is
// copied; later appends go through Add.
func NewClassifier(rules []CategoryRule) *Classifier {
	c := &Classifier{rules: make([]CategoryRule, len(rules))}
	copy(c.rules, rules)
	return c
}

// Add appends a rule at the end of the scan order. Duplicate keywords
// are allowed; they simply never get reached.
func (c *Classifier) Add(rule CategoryRule) {
	rule.Keyword = strings.ToLower(rule.Keyword)
	c.rules = append(c.rules, rule)
}

// Rules returns the scan-ordered rule list.
func (c *Classifier) Rules() []CategoryRule { return c.rules }

// Infer returns the category for a description and, when a rule
// matched, the rule's kind as a hint. It never fails: an unmatched or
// empty description yields the fallback category and no hint.
func (c *Classifier) Infer(description string) (category string, kindHint Kind) {
	if description == "" {
		return FallbackCategory, ""
	}
	lower := strings.ToLower(description)
	for _, r := range c.rules {
		if r.Keyword != "" && strings.Contains(lower, r.Keyword) {
			return r.Category, r.Kind
		}
	}
	return FallbackCategory, ""
}

// DefaultCategoryRules is the seed keyword table. Order matters: it is
// the tie-break when a description matches more than one keyword.
func DefaultCategoryRules() []CategoryRule {
	return []CategoryRule{
		// Alimentação
		{"almoço", "Alimentação", Expense},
		{"jantar", "Alimentação", Expense},
		{"café", "Alimentação", Expense},
		{"lanche", "Alimentação", Expense},
		{"restaurante", "Alimentação", Expense},
		{"padaria", "Alimentação", Expense},
		{"mercado", "Alimentação", Expense},
		{"supermercado", "Alimentação", Expense},
		{"ifood", "Alimentação", Expense},
		{"delivery", "Alimentação", Expense},
		{"lunch", "Alimentação", Expense},

		// Transporte
		{"uber", "Transporte", Expense},
		{"99", "Transporte", Expense},
		{"taxi", "Transporte", Expense},
		{"ônibus", "Transporte", Expense},
		{"metrô", "Transporte", Expense},
		{"gasolina", "Transporte", Expense},
		{"combustível", "Transporte", Expense},
		{"estacionamento", "Transporte", Expense},

		// Moradia
		{"aluguel", "Moradia", Expense},
		{"condomínio", "Moradia", Expense},
		{"luz", "Moradia", Expense},
		{"água", "Moradia", Expense},
		{"internet", "Moradia", Expense},
		{"gás", "Moradia", Expense},

		// Assinaturas
		{"netflix", "Assinaturas", Expense},
		{"spotify", "Assinaturas", Expense},
		{"amazon", "Assinaturas", Expense},
		{"disney", "Assinaturas", Expense},

		// Receitas
		{"salário", "Salário", Income},
		{"freelance", "Freelance", Income},
		{"freela", "Freelance", Income},
		{"venda", "Vendas", Income},
		{"dividendos", "Investimentos", Income},
		{"rendimento", "Investimentos", Income},
	}
}

// DefaultCategories is the standard taxonomy surfaced to the assistant
// in its system prompt.
var DefaultCategories = map[Kind][]string{
	Expense: {
		"Alimentação", "Transporte", "Moradia", "Saúde", "Educação",
		"Lazer", "Compras", "Serviços", "Assinaturas", "Outros",
	},
	Income: {
		"Salário", "Freelance", "Investimentos", "Vendas",
		"Reembolso", "Presente", "Outros",
	},
}
