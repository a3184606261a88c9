package agent

import "errors"

// ErrMalformedArguments marks argument validation failures. Tools wrap it
// and return before touching the calendar API, so the orchestrator can
// report the bad call back to the model as a structured error.
var ErrMalformedArguments = errors.New("malformed arguments")
