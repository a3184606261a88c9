package orchestrator

import (
	"errors"
	"strings"

	"calendar-assistant/pkg/llmprovider"
)

// Directive is what a model turn tells the orchestrator to do next:
// answer the user directly, or run one operation from the tool catalog.
type Directive interface {
	isDirective()
}

// PlainReply carries the model's final text for the user.
type PlainReply struct {
	Text string
}

// FunctionDirective names a catalog operation and its arguments.
type FunctionDirective struct {
	Name string
	Args map[string]interface{}
}

func (PlainReply) isDirective()        {}
func (FunctionDirective) isDirective() {}

// DecodeDirective reduces a model message to exactly one directive.
// A function call wins over any text in the same message.
func DecodeDirective(msg llmprovider.Message) (Directive, error) {
	if len(msg.Parts) == 0 {
		return nil, errors.New(ErrMsgEmptyLLMResponse)
	}

	var texts []string
	for _, part := range msg.Parts {
		if part.FunctionCall != nil {
			return FunctionDirective{
				Name: part.FunctionCall.Name,
				Args: part.FunctionCall.Args,
			}, nil
		}
		if part.Text != "" {
			texts = append(texts, part.Text)
		}
	}

	if len(texts) == 0 {
		return nil, errors.New(ErrMsgEmptyLLMResponse)
	}
	return PlainReply{Text: strings.Join(texts, "\n")}, nil
}
