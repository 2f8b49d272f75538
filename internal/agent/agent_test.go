package agent

import (
	"strings"
	"testing"
	"time"

	"google.golang.org/genai"

	"grana/internal/checkpoint"
)

func TestSystemPrompt(t *testing.T) {
	loc, err := time.LoadLocation("America/Sao_Paulo")
	if err != nil {
		t.Fatalf("LoadLocation() error: %v", err)
	}
	now := time.Date(2024, time.March, 13, 14, 30, 0, 0, loc)

	prompt := systemPrompt("Ana", now)

	for _, want := range []string{
		"Ana",
		"13/03/2024 14:30",
		"America/Sao_Paulo",
		"Alimentação",
		"Salário",
		"\"SIM\"",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("systemPrompt() missing %q", want)
		}
	}
}

func TestNew_DefaultsLocation(t *testing.T) {
	a := New(Options{ModelName: "gemini-2.0-flash", UserName: "Ana"})

	parts := a.config.SystemInstruction.Parts
	if len(parts) == 0 || !strings.Contains(parts[0].Text, "UTC") {
		t.Errorf("system prompt = %+v, want UTC fallback when no location is given", parts)
	}
}

func TestHistoryContents(t *testing.T) {
	msgs := []checkpoint.Message{
		{Role: checkpoint.RoleUser, Content: "gastei 45 no almoço"},
		{Role: checkpoint.RoleTool, Content: "[add_transaction] ✅ Despesa registrada com sucesso!"},
		{Role: checkpoint.RoleModel, Content: "Registrei R$ 45,00 em Alimentação."},
	}

	history := historyContents(msgs)

	if len(history) != 2 {
		t.Fatalf("historyContents() = %d entries, want 2 (tool turns skipped)", len(history))
	}
	if history[0].Role != genai.RoleUser || history[0].Parts[0].Text != msgs[0].Content {
		t.Errorf("history[0] = {%s %q}", history[0].Role, history[0].Parts[0].Text)
	}
	if history[1].Role != genai.RoleModel || history[1].Parts[0].Text != msgs[2].Content {
		t.Errorf("history[1] = {%s %q}", history[1].Role, history[1].Parts[0].Text)
	}
}

func TestToolContent(t *testing.T) {
	tests := []struct {
		name string
		resp *genai.FunctionResponse
		want string
	}{
		{
			name: "success output",
			resp: &genai.FunctionResponse{Response: map[string]any{"output": "ok"}},
			want: "[get_balance] ok",
		},
		{
			name: "error payload",
			resp: &genai.FunctionResponse{Response: map[string]any{
				"error": "invalid_amount", "message": "valor inválido",
			}},
			want: "[get_balance] erro invalid_amount: valor inválido",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := toolContent("get_balance", tt.resp); got != tt.want {
				t.Errorf("toolContent() = %q, want %q", got, tt.want)
			}
		})
	}
}
