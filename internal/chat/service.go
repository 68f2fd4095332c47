package chat

import (
	"fmt"
	"time"
)

type Result struct {
	Reply string
}

type Handlers struct {
	Add  func(AddArgs) (Result, error)
	Show func(ShowArgs) (Result, error)
}

// Respond parses a message and dispatches it. Unintelligible messages
// get a polite fallback reply rather than an error; the chat surface
// never fails the HTTP request for a misunderstood sentence.
func Respond(text string, now time.Time, handlers Handlers) (Result, error) {
	intent, err := Parse(text, now)
	if err != nil {
		if ie, ok := err.(*IntentError); ok && ie.Code != ErrCodeHandlerMissing {
			return Result{Reply: "Sorry, I did not understand that request."}, nil
		}
		return Result{}, err
	}
	return Execute(intent, handlers)
}

func Execute(intent Intent, handlers Handlers) (Result, error) {
	switch intent.Type {
	case TypeAdd:
		if handlers.Add == nil {
			return Result{}, &IntentError{Code: ErrCodeHandlerMissing, Message: "add handler not configured"}
		}
		return handlers.Add(*intent.Add)
	case TypeShow:
		if handlers.Show == nil {
			return Result{}, &IntentError{Code: ErrCodeHandlerMissing, Message: "show handler not configured"}
		}
		return handlers.Show(*intent.Show)
	default:
		return Result{}, &IntentError{Code: ErrCodeUnknownIntent, Message: fmt.Sprintf("unknown intent type: %s", intent.Type)}
	}
}
