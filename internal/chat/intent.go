// Package chat turns free-form assistant messages into task intents.
// The grammar is deliberately small: "remind me to X at 09:00 on
// 2025-06-16", "add X tomorrow 14:00", "show tasks on 2025-06-16".
package chat

import (
	"fmt"
	"strings"
	"time"

	"github.com/FanchonSora/V-Assistant/internal/model"
)

type Type string

const (
	TypeAdd  Type = "add"
	TypeShow Type = "show"
)

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownIntent   ErrorCode = "unknown_intent"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
)

type IntentError struct {
	Code    ErrorCode
	Message string
}

func (e *IntentError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

type AddArgs struct {
	Title    string
	TaskDate string
	TaskTime string
}

type ShowArgs struct {
	TaskDate string
}

type Intent struct {
	Type Type
	Raw  string
	Add  *AddArgs
	Show *ShowArgs
}

// Parse extracts an intent from a chat message. now anchors relative
// date words (today, tomorrow).
func Parse(input string, now time.Time) (Intent, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return Intent{}, &IntentError{Code: ErrCodeEmptyInput, Message: "message is empty"}
	}

	words := strings.Fields(raw)
	head := strings.ToLower(words[0])
	switch head {
	case "add":
		return parseAdd(raw, words[1:], now)
	case "remind":
		rest := words[1:]
		if len(rest) > 0 && strings.ToLower(rest[0]) == "me" {
			rest = rest[1:]
		}
		if len(rest) > 0 && strings.ToLower(rest[0]) == "to" {
			rest = rest[1:]
		}
		return parseAdd(raw, rest, now)
	case "show", "list":
		if len(words) > 1 && strings.ToLower(words[1]) == "tasks" {
			return parseShow(raw, words[2:], now)
		}
		return Intent{}, &IntentError{Code: ErrCodeUnknownIntent, Message: "message is not a task request"}
	default:
		return Intent{}, &IntentError{Code: ErrCodeUnknownIntent, Message: "message is not a task request"}
	}
}

// parseAdd walks the words from the right, peeling off "at HH:mm" and
// "on DATE" markers plus bare date/time words; whatever is left is the
// title, preserved verbatim.
func parseAdd(raw string, words []string, now time.Time) (Intent, error) {
	if len(words) == 0 {
		return Intent{}, &IntentError{Code: ErrCodeInvalidArgument, Message: "nothing to add"}
	}

	args := AddArgs{}
	end := len(words)
	for end > 0 {
		word := words[end-1]
		lower := strings.ToLower(word)
		marker := ""
		if end >= 2 {
			marker = strings.ToLower(words[end-2])
		}

		if args.TaskTime == "" {
			if hour, minute, err := model.ParseClock(word); err == nil {
				args.TaskTime = fmt.Sprintf("%02d:%02d", hour, minute)
				end--
				if marker == "at" {
					end--
				}
				continue
			}
		}
		if args.TaskDate == "" {
			if date, ok := resolveDateWord(lower, now); ok {
				args.TaskDate = date
				end--
				if marker == "on" {
					end--
				}
				continue
			}
		}
		break
	}

	args.Title = strings.TrimSpace(strings.Join(words[:end], " "))
	if args.Title == "" {
		return Intent{}, &IntentError{Code: ErrCodeInvalidArgument, Message: "task needs a title"}
	}
	if args.TaskDate == "" && args.TaskTime != "" {
		args.TaskDate = model.FormatDate(now)
	}
	return Intent{Type: TypeAdd, Raw: raw, Add: &args}, nil
}

func parseShow(raw string, words []string, now time.Time) (Intent, error) {
	date := model.FormatDate(now)
	for i, word := range words {
		lower := strings.ToLower(word)
		if lower == "on" || lower == "for" {
			continue
		}
		if resolved, ok := resolveDateWord(lower, now); ok {
			date = resolved
			continue
		}
		return Intent{}, &IntentError{
			Code:    ErrCodeInvalidArgument,
			Message: fmt.Sprintf("cannot read date %q", strings.Join(words[i:], " ")),
		}
	}
	return Intent{Type: TypeShow, Raw: raw, Show: &ShowArgs{TaskDate: date}}, nil
}

func resolveDateWord(word string, now time.Time) (string, bool) {
	switch word {
	case "today":
		return model.FormatDate(now), true
	case "tomorrow":
		return model.FormatDate(now.AddDate(0, 0, 1)), true
	}
	if _, err := model.ParseDate(word); err == nil {
		return word, true
	}
	return "", false
}
