package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"aspire/internal/assistant"
	"aspire/pkg/llm"
	"aspire/pkg/logging"
)

const (
	apologyMessage = "Sorry, I had trouble processing that request. Could you please try again or rephrase it?"

	toolConfirmationMessage = "Your request has been passed on to our customer service team. They will be in touch with you shortly."
)

// ToolExecutor runs a tool call on behalf of the model.
type ToolExecutor interface {
	Execute(ctx context.Context, toolName, tenantID string, args map[string]interface{}) (string, error)
}

// Orchestrator drives one chat turn: prompt assembly, the primary model
// call, at most one tool execution and the follow-up call.
type Orchestrator struct {
	provider     llm.Provider
	executor     ToolExecutor
	logger       logging.Logger
	toolsEnabled bool
}

func NewOrchestrator(provider llm.Provider, executor ToolExecutor, logger logging.Logger, toolsEnabled bool) *Orchestrator {
	return &Orchestrator{
		provider:     provider,
		executor:     executor,
		logger:       logger,
		toolsEnabled: toolsEnabled,
	}
}

type TurnRequest struct {
	TenantID    string
	SessionID   string
	Config      assistant.TenantConfig
	History     []StoredMessage
	Summary     string
	KBContext   string
	UserMessage string
}

type TurnResult struct {
	Content    string
	ToolCalled bool
	ToolName   string
}

// Respond runs the turn to completion. The error, when non-nil, is always an
// *UpstreamError carrying the upstream status and message.
func (o *Orchestrator) Respond(ctx context.Context, turn TurnRequest) (*TurnResult, error) {
	messages := o.buildPromptMessages(turn)

	req := llm.Request{
		Model:       turn.Config.Model,
		Messages:    messages,
		Temperature: turn.Config.Temperature,
		MaxTokens:   turn.Config.MaxTokens,
	}
	if o.toolsEnabled && o.executor != nil {
		req.Tools = ToolsForModel()
		req.ToolChoice = "auto"
	}

	completion, err := o.complete(ctx, "primary", req)
	if err != nil {
		return nil, upstreamError(PhaseCompletion, err)
	}

	if len(completion.ToolCalls) == 0 {
		chatTurns.WithLabelValues("direct").Inc()
		return &TurnResult{Content: completion.Content}, nil
	}

	// Only the first tool call is honored; any extras are dropped.
	first := completion.ToolCalls[0]
	if extra := len(completion.ToolCalls) - 1; extra > 0 {
		toolCallsDiscarded.Add(float64(extra))
		o.logger.WithFields(logging.Fields{
			"tenant_id":  turn.TenantID,
			"session_id": turn.SessionID,
			"discarded":  extra,
		}).Warn("Model requested multiple tool calls, honoring only the first")
	}

	var args map[string]interface{}
	if err := json.Unmarshal([]byte(first.Function.Arguments), &args); err != nil {
		toolCalls.WithLabelValues(first.Function.Name, "bad_arguments").Inc()
		o.logger.WithFields(logging.Fields{
			"tenant_id":  turn.TenantID,
			"session_id": turn.SessionID,
			"tool":       first.Function.Name,
			"error":      err,
		}).Warn("Model produced unparseable tool arguments")
		return &TurnResult{Content: apologyMessage}, nil
	}

	result, err := o.executor.Execute(ctx, first.Function.Name, turn.TenantID, args)
	if err != nil {
		toolCalls.WithLabelValues(first.Function.Name, "error").Inc()
		o.logger.WithFields(logging.Fields{
			"tenant_id":  turn.TenantID,
			"session_id": turn.SessionID,
			"tool":       first.Function.Name,
			"error":      err,
		}).Error("Tool execution failed")
		result = fmt.Sprintf("Tool %s failed: %v", first.Function.Name, err)
	} else {
		toolCalls.WithLabelValues(first.Function.Name, "ok").Inc()
	}

	messages = append(messages,
		llm.Message{
			Role:      "assistant",
			Content:   completion.Content,
			ToolCalls: []llm.ToolCall{first},
		},
		llm.Message{
			Role:       "tool",
			Name:       first.Function.Name,
			Content:    result,
			ToolCallID: first.ID,
		},
	)

	// Follow-up call carries the tool result but no tools, so the model
	// cannot request another round.
	followup, err := o.complete(ctx, "followup", llm.Request{
		Model:       turn.Config.Model,
		Messages:    messages,
		Temperature: turn.Config.Temperature,
		MaxTokens:   turn.Config.MaxTokens,
	})
	if err != nil || strings.TrimSpace(followup.Content) == "" {
		if err != nil {
			o.logger.WithFields(logging.Fields{
				"tenant_id":  turn.TenantID,
				"session_id": turn.SessionID,
				"error":      err,
			}).Warn("Follow-up completion failed, using fixed confirmation")
		}
		chatTurns.WithLabelValues("tool_fallback").Inc()
		return &TurnResult{
			Content:    toolConfirmationMessage,
			ToolCalled: true,
			ToolName:   first.Function.Name,
		}, nil
	}

	chatTurns.WithLabelValues("tool").Inc()
	return &TurnResult{
		Content:    followup.Content,
		ToolCalled: true,
		ToolName:   first.Function.Name,
	}, nil
}

func (o *Orchestrator) complete(ctx context.Context, phase string, req llm.Request) (*llm.Completion, error) {
	start := time.Now()
	completion, err := o.provider.Complete(ctx, req)
	llmDuration.WithLabelValues(phase).Observe(time.Since(start).Seconds())
	if err != nil {
		llmCalls.WithLabelValues(phase, "error").Inc()
		return nil, err
	}
	llmCalls.WithLabelValues(phase, "ok").Inc()
	return completion, nil
}

func (o *Orchestrator) buildPromptMessages(turn TurnRequest) []llm.Message {
	system := turn.Config.SystemInstructions()
	if turn.KBContext != "" {
		system += "\n\n" + turn.KBContext
	}
	if turn.Summary != "" {
		system += "\n\n--- Summary of earlier conversation ---\n" + turn.Summary
	}

	messages := make([]llm.Message, 0, len(turn.History)+2)
	messages = append(messages, llm.Message{Role: "system", Content: system})
	for _, msg := range turn.History {
		if msg.Role == "" || msg.Content == "" {
			continue
		}
		messages = append(messages, llm.Message{Role: msg.Role, Content: msg.Content})
	}
	messages = append(messages, llm.Message{Role: "user", Content: turn.UserMessage})
	return messages
}
