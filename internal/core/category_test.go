package core

import (
	"testing"
)

func TestClassifier_Infer(t *testing.T) {
	c := NewClassifier(DefaultCategoryRules())

	tests := []struct {
		name         string
		description  string
		wantCategory string
		wantHint     Kind
	}{
		{name: "keyword match", description: "almoço no centro", wantCategory: "Alimentação", wantHint: Expense},
		{name: "case insensitive", description: "Assinei a NETFLIX", wantCategory: "Assinaturas", wantHint: Expense},
		{name: "income keyword", description: "salário de março", wantCategory: "Salário", wantHint: Income},
		{name: "substring inside word", description: "lunch at padaria", wantCategory: "Alimentação", wantHint: Expense},
		{name: "no match falls back", description: "coisas diversas", wantCategory: FallbackCategory, wantHint: ""},
		{name: "empty description falls back", description: "", wantCategory: FallbackCategory, wantHint: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			category, hint := c.Infer(tt.description)
			if category != tt.wantCategory {
				t.Errorf("Infer(%q) category = %q, want %q", tt.description, category, tt.wantCategory)
			}
			if hint != tt.wantHint {
				t.Errorf("Infer(%q) hint = %q, want %q", tt.description, hint, tt.wantHint)
			}
		})
	}
}

// Rule order is the documented tie-break: when several keywords match,
// the rule inserted first wins.
func TestClassifier_FirstMatchWins(t *testing.T) {
	c := NewClassifier([]CategoryRule{
		{Keyword: "salário", Category: "Salário", Kind: Income},
		{Keyword: "bônus", Category: "Presente", Kind: Income},
	})

	category, _ := c.Infer("salário com bônus")
	if category != "Salário" {
		t.Errorf("Infer() = %q, want first inserted rule %q to win", category, "Salário")
	}

	// Reversed insertion order flips the result.
	reversed := NewClassifier([]CategoryRule{
		{Keyword: "bônus", Category: "Presente", Kind: Income},
		{Keyword: "salário", Category: "Salário", Kind: Income},
	})
	category, _ = reversed.Infer("salário com bônus")
	if category != "Presente" {
		t.Errorf("Infer() = %q, want %q after reversing rule order", category, "Presente")
	}
}

func TestClassifier_Add(t *testing.T) {
	c := NewClassifier(nil)
	c.Add(CategoryRule{Keyword: "Padaria", Category: "Alimentação", Kind: Expense})

	category, hint := c.Infer("pão na padaria")
	if category != "Alimentação" || hint != Expense {
		t.Errorf("Infer() = (%q, %q), want (Alimentação, expense)", category, hint)
	}

	// Duplicates are accepted but never reached.
	c.Add(CategoryRule{Keyword: "padaria", Category: "Lazer", Kind: Expense})
	category, _ = c.Infer("padaria")
	if category != "Alimentação" {
		t.Errorf("Infer() = %q, duplicate keyword should never win", category)
	}
}
