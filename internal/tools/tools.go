// Package tools is the validated tool surface invoked by the LLM
// driver. Each tool validates the model-supplied arguments into typed
// input, executes against the finance service and returns a structured
// response: a human-readable payload under "output" or a stable error
// code under "error". Nothing panics or throws past this boundary.
//
// The user id is injected at construction time and never taken from
// tool arguments: the model cannot act on another user's data.
package tools

import (
	"context"
	"errors"

	"google.golang.org/genai"

	"grana/internal/core"
	"grana/internal/services"
)

// Toolset binds the financial tools to one user and one service.
type Toolset struct {
	svc    *services.FinanceService
	userID string
}

func New(svc *services.FinanceService, userID string) *Toolset {
	return &Toolset{svc: svc, userID: userID}
}

// Functions returns every tool exposed to the model.
func (t *Toolset) Functions() []Function {
	return []Function{
		t.addTransaction(),
		t.getBalance(),
		t.listTransactions(),
		t.getCategorySummary(),
		t.searchTransactions(),
		t.updateTransaction(),
		t.deleteTransaction(),
		t.clearUserHistory(),
		t.addCategoryMapping(),
	}
}

// tool pairs a declaration with its handler. Call never lets an error
// escape: failures become structured error responses.
type tool struct {
	decl *genai.FunctionDeclaration
	run  func(ctx context.Context, args map[string]any) (string, error)
}

func (t *tool) Declaration() *genai.FunctionDeclaration { return t.decl }

func (t *tool) Call(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
	resp := &genai.FunctionResponse{ID: id, Name: t.decl.Name}

	out, err := t.run(ctx, args)
	switch {
	case err == nil:
		resp.Response = map[string]any{"output": out}
	case errors.Is(err, core.ErrCancelled):
		// A confirmation mismatch is a safe no-op, not a failure.
		resp.Response = map[string]any{
			"output":    "❎ Operação cancelada. Nenhuma transação foi apagada.",
			"cancelled": true,
		}
	default:
		resp.Response = map[string]any{
			"error":   errorCode(err),
			"message": err.Error(),
		}
	}
	return resp
}

// errorCode maps domain errors onto the stable codes of the tool
// contract. Anything unrecognized is a storage failure.
func errorCode(err error) string {
	switch {
	case errors.Is(err, core.ErrInvalidAmount):
		return "invalid_amount"
	case errors.Is(err, core.ErrInvalidKind):
		return "invalid_kind"
	case errors.Is(err, core.ErrInvalidDate):
		return "invalid_date"
	case errors.Is(err, core.ErrInvalidPeriod):
		return "invalid_period"
	case errors.Is(err, core.ErrEmptyCategory):
		return "empty_category"
	case errors.Is(err, core.ErrNotFound):
		return "not_found"
	case errors.Is(err, core.ErrCancelled):
		return "cancelled"
	default:
		return "storage_failure"
	}
}

func (t *Toolset) addTransaction() Function {
	return &tool{
		decl: &genai.FunctionDeclaration{
			Name: "add_transaction",
			Description: "Adiciona uma nova transação financeira. Se a categoria não for " +
				"informada, será inferida pela descrição. Aceita datas em YYYY-MM-DD ou DD/MM/YYYY.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"amount":      {Type: genai.TypeNumber, Description: "Valor positivo da transação"},
					"kind":        {Type: genai.TypeString, Enum: []string{"income", "expense"}, Description: "Tipo da transação"},
					"category":    {Type: genai.TypeString, Description: "Categoria (opcional, será inferida)"},
					"description": {Type: genai.TypeString, Description: "Descrição (opcional)"},
					"date_str":    {Type: genai.TypeString, Description: "Data em YYYY-MM-DD ou DD/MM/YYYY (opcional, usa hoje)"},
				},
				Required: []string{"amount", "kind"},
			},
		},
		run: func(ctx context.Context, args map[string]any) (string, error) {
			amount, ok := amountArg(args, "amount")
			if !ok {
				return "", core.ErrInvalidAmount
			}
			tx, err := t.svc.AddTransaction(ctx, t.userID, services.AddParams{
				Amount:      amount,
				Kind:        stringArg(args, "kind"),
				Category:    stringArg(args, "category"),
				Description: stringArg(args, "description"),
				DateStr:     stringArg(args, "date_str"),
			})
			if err != nil {
				return "", err
			}
			return renderAdded(tx), nil
		},
	}
}

func (t *Toolset) getBalance() Function {
	return &tool{
		decl: &genai.FunctionDeclaration{
			Name:        "get_balance",
			Description: "Obtém o resumo financeiro (receitas, despesas, saldo) para um período.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"period": {
						Type: genai.TypeString,
						Enum: []string{"today", "week", "month", "year", "all"},
						Description: "Período do resumo (padrão: month)",
					},
				},
			},
		},
		run: func(ctx context.Context, args map[string]any) (string, error) {
			period := stringArg(args, "period")
			if period == "" {
				period = string(core.PeriodMonth)
			}
			balance, err := t.svc.GetBalance(ctx, t.userID, period)
			if err != nil {
				return "", err
			}
			return renderBalance(period, balance), nil
		},
	}
}

func (t *Toolset) listTransactions() Function {
	return &tool{
		decl: &genai.FunctionDeclaration{
			Name:        "list_transactions",
			Description: "Lista as transações mais recentes com filtros opcionais.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"limit":    {Type: genai.TypeInteger, Description: "Número máximo de transações (padrão: 10)"},
					"kind":     {Type: genai.TypeString, Enum: []string{"income", "expense"}, Description: "Filtro por tipo"},
					"period":   {Type: genai.TypeString, Enum: []string{"today", "week", "month", "year"}, Description: "Filtro por período"},
					"category": {Type: genai.TypeString, Description: "Filtro por categoria"},
				},
			},
		},
		run: func(ctx context.Context, args map[string]any) (string, error) {
			txs, err := t.svc.ListTransactions(ctx, t.userID, services.ListOptions{
				Kind:     stringArg(args, "kind"),
				Category: stringArg(args, "category"),
				Period:   stringArg(args, "period"),
				Limit:    intArg(args, "limit"),
			})
			if err != nil {
				return "", err
			}
			return renderList(txs), nil
		},
	}
}

func (t *Toolset) getCategorySummary() Function {
	return &tool{
		decl: &genai.FunctionDeclaration{
			Name:        "get_category_summary",
			Description: "Resumo de despesas agrupado por categoria para um período.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"period": {
						Type: genai.TypeString,
						Enum: []string{"today", "week", "month", "year", "all"},
						Description: "Período do resumo (padrão: month)",
					},
				},
			},
		},
		run: func(ctx context.Context, args map[string]any) (string, error) {
			period := stringArg(args, "period")
			if period == "" {
				period = string(core.PeriodMonth)
			}
			totals, err := t.svc.GetCategorySummary(ctx, t.userID, period)
			if err != nil {
				return "", err
			}
			return renderCategorySummary(period, totals), nil
		},
	}
}

func (t *Toolset) searchTransactions() Function {
	return &tool{
		decl: &genai.FunctionDeclaration{
			Name:        "search_transactions",
			Description: "Busca transações por termo na descrição ou categoria.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"search_term": {Type: genai.TypeString, Description: "Termo a buscar"},
					"limit":       {Type: genai.TypeInteger, Description: "Número máximo de resultados (padrão: 5)"},
				},
				Required: []string{"search_term"},
			},
		},
		run: func(ctx context.Context, args map[string]any) (string, error) {
			term := stringArg(args, "search_term")
			txs, err := t.svc.SearchTransactions(ctx, t.userID, term, intArg(args, "limit"))
			if err != nil {
				return "", err
			}
			return renderSearch(term, txs), nil
		},
	}
}

func (t *Toolset) updateTransaction() Function {
	return &tool{
		decl: &genai.FunctionDeclaration{
			Name:        "update_transaction",
			Description: "Atualiza campos de uma transação existente pelo ID. Campos omitidos não mudam.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"transaction_id": {Type: genai.TypeInteger, Description: "ID da transação"},
					"amount":         {Type: genai.TypeNumber, Description: "Novo valor positivo"},
					"kind":           {Type: genai.TypeString, Enum: []string{"income", "expense"}, Description: "Novo tipo"},
					"category":       {Type: genai.TypeString, Description: "Nova categoria"},
					"description":    {Type: genai.TypeString, Description: "Nova descrição"},
					"date_str":       {Type: genai.TypeString, Description: "Nova data em YYYY-MM-DD ou DD/MM/YYYY"},
				},
				Required: []string{"transaction_id"},
			},
		},
		run: func(ctx context.Context, args map[string]any) (string, error) {
			id, ok := idArg(args, "transaction_id")
			if !ok {
				return "", core.ErrNotFound
			}

			var p services.UpdateParams
			if amount, ok := amountArg(args, "amount"); ok {
				p.Amount = &amount
			}
			p.Kind = optStringArg(args, "kind")
			p.Category = optStringArg(args, "category")
			p.Description = optStringArg(args, "description")
			p.DateStr = optStringArg(args, "date_str")

			tx, err := t.svc.UpdateTransaction(ctx, t.userID, id, p)
			if err != nil {
				return "", err
			}
			return renderUpdated(tx), nil
		},
	}
}

func (t *Toolset) deleteTransaction() Function {
	return &tool{
		decl: &genai.FunctionDeclaration{
			Name:        "delete_transaction",
			Description: "Apaga uma transação pelo ID. Operação irreversível.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"transaction_id": {Type: genai.TypeInteger, Description: "ID da transação"},
				},
				Required: []string{"transaction_id"},
			},
		},
		run: func(ctx context.Context, args map[string]any) (string, error) {
			id, ok := idArg(args, "transaction_id")
			if !ok {
				return "", core.ErrNotFound
			}
			removed, err := t.svc.DeleteTransaction(ctx, t.userID, id)
			if err != nil {
				return "", err
			}
			if !removed {
				return "", core.ErrNotFound
			}
			return renderDeleted(id), nil
		},
	}
}

func (t *Toolset) clearUserHistory() Function {
	return &tool{
		decl: &genai.FunctionDeclaration{
			Name: "clear_user_history",
			Description: "Apaga TODAS as transações do usuário. Exige confirmação explícita: " +
				"o campo confirm deve ser exatamente \"SIM\".",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"confirm": {Type: genai.TypeString, Description: "Deve ser exatamente \"SIM\" para confirmar"},
				},
				Required: []string{"confirm"},
			},
		},
		run: func(ctx context.Context, args map[string]any) (string, error) {
			deleted, err := t.svc.ClearHistory(ctx, t.userID, stringArg(args, "confirm"))
			if err != nil {
				return "", err
			}
			return renderCleared(deleted), nil
		},
	}
}

func (t *Toolset) addCategoryMapping() Function {
	return &tool{
		decl: &genai.FunctionDeclaration{
			Name:        "add_category_mapping",
			Description: "Ensina uma nova regra de categorização: palavra-chave para categoria.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"keyword":  {Type: genai.TypeString, Description: "Palavra-chave em minúsculas"},
					"category": {Type: genai.TypeString, Description: "Categoria destino"},
					"kind":     {Type: genai.TypeString, Enum: []string{"income", "expense"}, Description: "Tipo associado"},
				},
				Required: []string{"keyword", "category", "kind"},
			},
		},
		run: func(ctx context.Context, args map[string]any) (string, error) {
			keyword := stringArg(args, "keyword")
			category := stringArg(args, "category")
			if err := t.svc.AddCategoryMapping(ctx, keyword, category, stringArg(args, "kind")); err != nil {
				return "", err
			}
			return renderRuleAdded(keyword, category), nil
		},
	}
}

// Argument helpers. Tool arguments arrive as decoded JSON, so numbers
// are float64 unless the SDK preserved an integer type.

func stringArg(args map[string]any, key string) string {
	if v, ok := args[key].(string); ok {
		return v
	}
	return ""
}

func optStringArg(args map[string]any, key string) *string {
	if v, ok := args[key].(string); ok {
		return &v
	}
	return nil
}

// amountArg reads a monetary amount. Models occasionally send amounts
// as strings ("45,90"); those go through the core money parser.
func amountArg(args map[string]any, key string) (float64, bool) {
	if v, ok := floatArg(args, key); ok {
		return v, true
	}
	if s, ok := args[key].(string); ok {
		if m, err := core.ParseMoney(s); err == nil {
			return m.Float(), true
		}
	}
	return 0, false
}

func floatArg(args map[string]any, key string) (float64, bool) {
	switch v := args[key].(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}

func intArg(args map[string]any, key string) int {
	if v, ok := floatArg(args, key); ok {
		return int(v)
	}
	return 0
}

func idArg(args map[string]any, key string) (int64, bool) {
	v, ok := floatArg(args, key)
	if !ok || v <= 0 {
		return 0, false
	}
	return int64(v), true
}
