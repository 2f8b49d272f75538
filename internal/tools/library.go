package tools

import (
	"context"

	"google.golang.org/genai"
)

// Function is one callable operation exposed to the model.
type Function interface {
	// Declaration describes the function to the model.
	Declaration() *genai.FunctionDeclaration
	// Call executes the function with the model-supplied arguments.
	Call(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse
}

// Library dispatches a model function call to the matching Function.
type Library func(context.Context, *genai.FunctionCall) *genai.FunctionResponse

// NewLibrary builds a dispatcher over the given functions.
func NewLibrary(functions []Function) Library {
	return func(ctx context.Context, call *genai.FunctionCall) *genai.FunctionResponse {
		for _, f := range functions {
			if f.Declaration().Name == call.Name {
				return f.Call(ctx, call.ID, call.Args)
			}
		}
		return &genai.FunctionResponse{
			ID:   call.ID,
			Name: call.Name,
			Response: map[string]any{
				"error":   "unknown_function",
				"message": "função desconhecida: " + call.Name,
			},
		}
	}
}

// Declarations collects the function declarations for chat configuration.
func Declarations(functions []Function) []*genai.FunctionDeclaration {
	decls := make([]*genai.FunctionDeclaration, 0, len(functions))
	for _, f := range functions {
		decls = append(decls, f.Declaration())
	}
	return decls
}
