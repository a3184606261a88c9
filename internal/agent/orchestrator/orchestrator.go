package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"calendar-assistant/internal/agent"
	"calendar-assistant/pkg/gcalendar"
	"calendar-assistant/pkg/llmprovider"
)

// ProcessMessage runs the ReAct loop for one user message: Reason → Act → Observe.
// It returns the model's final text for the user. Tool failures never end the
// loop; they go back to the model as structured function responses.
func (o *Orchestrator) ProcessMessage(ctx context.Context, sessionID, message string) (string, error) {
	session := o.GetSession(sessionID)
	session.Append(llmprovider.Message{
		Role:  "user",
		Parts: []llmprovider.Part{{Text: message}},
	})

	req := &llmprovider.Request{
		SystemInstruction: &llmprovider.Message{
			Role:  "system",
			Parts: []llmprovider.Part{{Text: SystemPromptAgent + buildTimeContext(o.timezone)}},
		},
		Messages: session.History(),
		Tools:    o.registry.ToFunctionDefinitions(),
	}

	for step := 0; step < MaxAgentSteps; step++ {
		o.l.Infof(ctx, LogMsgAgentStep, step+1, MaxAgentSteps)

		// 1. Reason: Ask LLM what to do
		resp, err := o.llm.GenerateContent(ctx, req)
		if err != nil {
			return "", fmt.Errorf(ErrMsgAgentLLMError, step, err)
		}

		directive, err := DecodeDirective(resp.Content)
		if err != nil {
			return "", err
		}

		switch d := directive.(type) {
		case PlainReply:
			// 2. LLM has final answer
			o.l.Infof(ctx, LogMsgAgentFinished, step+1)
			session.Append(resp.Content)
			return d.Text, nil

		case FunctionDirective:
			// 3. Act: Execute the requested tool
			result := o.dispatch(ctx, d)

			// 4. Observe: Add the call and its result to the history
			session.Append(
				llmprovider.Message{
					Role: "model",
					Parts: []llmprovider.Part{{
						FunctionCall: &llmprovider.FunctionCall{Name: d.Name, Args: d.Args},
					}},
				},
				llmprovider.Message{
					Role: "function",
					Parts: []llmprovider.Part{{
						FunctionResponse: &llmprovider.FunctionResponse{Name: d.Name, Response: result},
					}},
				},
			)
			req.Messages = session.History()
		}
	}

	// Max steps exceeded
	o.l.Warnf(ctx, LogMsgAgentMaxSteps, MaxAgentSteps)
	return ErrMsgMaxStepsExceeded, nil
}

// dispatch validates the directive against the tool catalog and runs it.
// A directive naming an unknown operation never reaches a tool; it comes
// straight back as a structured error the model can read.
func (o *Orchestrator) dispatch(ctx context.Context, d FunctionDirective) interface{} {
	o.l.Infof(ctx, LogMsgAgentCallingTool, d.Name, d.Args)

	tool, ok := o.registry.Get(d.Name)
	if !ok {
		o.l.Errorf(ctx, LogMsgToolNotFound, d.Name)
		return map[string]string{"error": ErrMsgUnknownOperation, "code": ErrCodeUnknownOperation}
	}

	toolCtx, cancel := context.WithTimeout(ctx, ToolTimeout)
	defer cancel()

	result, err := tool.Execute(toolCtx, d.Args)
	if err != nil {
		o.l.Errorf(ctx, LogMsgToolExecutionError, d.Name, err)
		return map[string]string{"error": err.Error(), "code": classifyToolError(err)}
	}
	return result
}

// classifyToolError maps a tool failure onto the stable error codes the
// system prompt teaches the model to act on.
func classifyToolError(err error) string {
	switch {
	case errors.Is(err, agent.ErrMalformedArguments):
		return ErrCodeMalformedArguments
	case errors.Is(err, gcalendar.ErrAuthExpired):
		return ErrCodeAuthExpired
	case errors.Is(err, gcalendar.ErrNotFound):
		return ErrCodeNotFound
	case errors.Is(err, gcalendar.ErrTransient), errors.Is(err, context.DeadlineExceeded):
		return ErrCodeTransient
	default:
		return ErrCodeInternal
	}
}
