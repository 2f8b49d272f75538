package tools

import (
	"fmt"
	"strings"

	"grana/internal/core"
)

// Rendering of tool payloads. The conversational layer passes these
// strings to the model, which rephrases them for the user; amounts are
// always echoed with two-decimal currency formatting.

var periodLabels = map[string]string{
	"today": "Hoje",
	"week":  "Esta semana",
	"month": "Este mês",
	"year":  "Este ano",
	"all":   "Todo o período",
}

func periodLabel(period string) string {
	if label, ok := periodLabels[period]; ok {
		return label
	}
	return period
}

func kindLabel(k core.Kind) string {
	if k == core.Income {
		return "Receita"
	}
	return "Despesa"
}

func kindEmoji(k core.Kind) string {
	if k == core.Income {
		return "📈"
	}
	return "📉"
}

func renderAdded(tx core.Transaction) string {
	var b strings.Builder
	fmt.Fprintf(&b, "✅ %s registrada com sucesso!\n", kindLabel(tx.Kind))
	fmt.Fprintf(&b, "💰 Valor: %s\n", tx.Amount.BRL())
	fmt.Fprintf(&b, "📁 Categoria: %s\n", tx.Category)
	fmt.Fprintf(&b, "📅 Data: %s\n", tx.OccurredOn.BR())
	fmt.Fprintf(&b, "🆔 ID: #%d", tx.ID)
	if tx.Description != "" {
		fmt.Fprintf(&b, "\n📝 Descrição: %s", tx.Description)
	}
	return b.String()
}

func renderUpdated(tx core.Transaction) string {
	return fmt.Sprintf("✏️ Transação #%d atualizada: %s de %s em %s (%s)",
		tx.ID, kindLabel(tx.Kind), tx.Amount.BRL(), tx.Category, tx.OccurredOn.BR())
}

func renderDeleted(id int64) string {
	return fmt.Sprintf("🗑️ Transação #%d apagada.", id)
}

func renderCleared(deleted int64) string {
	return fmt.Sprintf("🧹 Histórico apagado: %d transação(ões) removida(s).", deleted)
}

func renderRuleAdded(keyword, category string) string {
	return fmt.Sprintf("📌 Regra salva: '%s' → '%s'", keyword, category)
}

func renderBalance(period string, b core.Balance) string {
	net := b.Net()
	emoji := "🟢"
	suffix := ""
	if net.Cents < 0 {
		emoji = "🔴"
		suffix = " (negativo)"
	}
	abs := net
	if abs.Cents < 0 {
		abs.Cents = -abs.Cents
	}
	return fmt.Sprintf(
		"📊 Resumo Financeiro - %s\n\n📈 Receitas: %s\n📉 Despesas: %s\n%s\n%s Saldo: %s%s",
		periodLabel(period),
		b.Income.BRL(),
		b.Expenses.BRL(),
		strings.Repeat("─", 30),
		emoji, abs.BRL(), suffix)
}

func renderList(txs []core.Transaction) string {
	if len(txs) == 0 {
		return "📭 Nenhuma transação encontrada para os filtros especificados."
	}
	var b strings.Builder
	b.WriteString("📋 Transações Recentes\n\n")
	for _, tx := range txs {
		fmt.Fprintf(&b, "%s #%d %s - %s | %s",
			kindEmoji(tx.Kind), tx.ID, tx.OccurredOn.Format("02/01"), tx.Amount.BRL(), tx.Category)
		if tx.Description != "" {
			fmt.Fprintf(&b, " (%s)", tx.Description)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "\n📌 Mostrando %d transação(ões)", len(txs))
	return b.String()
}

func renderSearch(term string, txs []core.Transaction) string {
	if len(txs) == 0 {
		return fmt.Sprintf("🔍 Nenhuma transação encontrada com o termo '%s'", term)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "🔍 Resultados da busca: '%s'\n\n", term)
	for _, tx := range txs {
		fmt.Fprintf(&b, "%s #%d %s - %s\n   📁 %s",
			kindEmoji(tx.Kind), tx.ID, tx.OccurredOn.BR(), tx.Amount.BRL(), tx.Category)
		if tx.Description != "" {
			fmt.Fprintf(&b, " | %s", tx.Description)
		}
		b.WriteString("\n\n")
	}
	fmt.Fprintf(&b, "📌 Encontrada(s) %d transação(ões)", len(txs))
	return b.String()
}

func renderCategorySummary(period string, totals []core.CategoryTotal) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📊 Resumo por Categoria - %s\n\n", periodLabel(period))
	if len(totals) == 0 {
		b.WriteString("📉 Nenhuma despesa no período")
		return b.String()
	}
	b.WriteString("📉 DESPESAS:\n")
	var sum core.Money
	for _, ct := range totals {
		fmt.Fprintf(&b, "  • %s: %s (%dx)\n", ct.Category, ct.Total.BRL(), ct.Count)
		sum = sum.Add(ct.Total)
	}
	fmt.Fprintf(&b, "  Total: %s", sum.BRL())
	return b.String()
}
