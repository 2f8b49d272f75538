// Package agent runs the conversational loop: it feeds user messages to
// a Gemini chat session armed with the financial tools, dispatches the
// model's function calls and checkpoints every turn so a thread can be
// resumed after a restart.
package agent

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/genai"

	"grana/internal/checkpoint"
	"grana/internal/log"
	"grana/internal/tools"
)

// Assistant is one user's chat session bound to one thread.
type Assistant struct {
	modelName string
	config    *genai.GenerateContentConfig
	library   tools.Library
	store     *checkpoint.Store
	threadID  string
	logger    *log.Logger
	chat      *genai.Chat
}

// Options configures a new Assistant.
type Options struct {
	ModelName string
	UserName  string
	Location  *time.Location
	Functions []tools.Function
	Store     *checkpoint.Store
	ThreadID  string
	Logger    *log.Logger
	Now       func() time.Time
}

func New(opts Options) *Assistant {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(log.DefaultConfig()).WithComponent(log.ComponentAgent)
	}

	return &Assistant{
		modelName: opts.ModelName,
		config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: tools.Declarations(opts.Functions)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{
				{Text: systemPrompt(opts.UserName, now().In(loc))},
			}},
		},
		library:  tools.NewLibrary(opts.Functions),
		store:    opts.Store,
		threadID: opts.ThreadID,
		logger:   logger,
	}
}

// ThreadID returns the conversation thread this assistant writes to.
func (a *Assistant) ThreadID() string { return a.threadID }

// Start creates the chat session, replaying the thread's persisted
// history so the model keeps context across restarts.
func (a *Assistant) Start(ctx context.Context, client *genai.Client) error {
	msgs, err := a.store.History(ctx, a.threadID)
	if err != nil {
		return fmt.Errorf("load thread history: %w", err)
	}

	chat, err := client.Chats.Create(ctx, a.modelName, a.config, historyContents(msgs))
	if err != nil {
		return fmt.Errorf("create chat session: %w", err)
	}
	a.chat = chat

	a.logger.InfoContext(ctx, "chat session started",
		log.FieldThreadID, a.threadID,
		log.FieldModel, a.modelName,
		"history_messages", len(msgs))
	return nil
}

// Ask sends one user message, resolves any function calls the model
// makes and returns its final text reply. The user message, every tool
// result and the reply are checkpointed in order.
func (a *Assistant) Ask(ctx context.Context, input string) (string, error) {
	if a.chat == nil {
		return "", fmt.Errorf("assistant not started")
	}

	if err := a.store.Append(ctx, a.threadID, checkpoint.RoleUser, input); err != nil {
		return "", err
	}

	reply, err := a.send(ctx, &genai.Part{Text: input})
	if err != nil {
		return "", err
	}

	if err := a.store.Append(ctx, a.threadID, checkpoint.RoleModel, reply); err != nil {
		return "", err
	}
	return reply, nil
}

// send forwards parts to the model and keeps dispatching function calls
// until the model answers with text.
func (a *Assistant) send(ctx context.Context, parts ...*genai.Part) (string, error) {
	resp, err := a.chat.Send(ctx, parts...)
	if err != nil {
		return "", fmt.Errorf("send to model: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response from model")
	}

	part0 := resp.Candidates[0].Content.Parts[0]
	if part0.FunctionCall != nil {
		call := part0.FunctionCall
		a.logger.DebugContext(ctx, "dispatching function call",
			log.FieldOperation, log.OpDispatch,
			log.FieldTool, call.Name,
			log.FieldThreadID, a.threadID)

		fresp := a.library(ctx, call)
		if err := a.store.Append(ctx, a.threadID, checkpoint.RoleTool, toolContent(call.Name, fresp)); err != nil {
			return "", err
		}

		return a.send(ctx, &genai.Part{FunctionResponse: fresp})
	}

	return part0.Text, nil
}

// toolContent flattens a function response into a checkpointable line.
func toolContent(name string, resp *genai.FunctionResponse) string {
	if out, ok := resp.Response["output"].(string); ok {
		return fmt.Sprintf("[%s] %s", name, out)
	}
	code, _ := resp.Response["error"].(string)
	message, _ := resp.Response["message"].(string)
	return fmt.Sprintf("[%s] erro %s: %s", name, code, message)
}

// historyContents converts persisted messages into chat history. Tool
// results were already folded into the model's replies, so only the
// user/model turns are replayed.
func historyContents(msgs []checkpoint.Message) []*genai.Content {
	var history []*genai.Content
	for _, m := range msgs {
		switch m.Role {
		case checkpoint.RoleUser:
			history = append(history, genai.NewContentFromText(m.Content, genai.RoleUser))
		case checkpoint.RoleModel:
			history = append(history, genai.NewContentFromText(m.Content, genai.RoleModel))
		}
	}
	return history
}
