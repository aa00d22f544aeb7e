package commands

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/sandeepkv93/checkd/internal/model"
)

type Type string

const (
	TypeAddList    Type = "addlist"
	TypeRemoveList Type = "removelist"
	TypeList       Type = "list"
	TypeHelp       Type = "help"
)

const (
	UsageAddList    = "Usage: /addlist YYYY-MM-DD Task1;Task2;Task3"
	UsageRemoveList = "Usage: /removelist YYYY-MM-DD"
	UsageList       = "Usage: /list YYYY-MM-DD"
)

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
)

type CommandError struct {
	Code    ErrorCode
	Message string
	// Usage is set for invalid_argument errors.
	Usage string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

type AddListArgs struct {
	Key   string
	Items []string
}

type RemoveListArgs struct {
	Key string
}

type ListArgs struct {
	Key string
}

type Command struct {
	Type       Type
	Raw        string
	AddList    *AddListArgs
	RemoveList *RemoveListArgs
	List       *ListArgs
}

// Parse recognizes slash commands. Chat clients may address a command to a
// specific bot ("/list@checkd_bot"), so the @suffix is dropped. Arguments are
// cut from the raw text so item labels keep their inner whitespace.
func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}
	if !strings.HasPrefix(raw, "/") {
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: "not a command"}
	}

	word, rest := nextWord(strings.TrimPrefix(raw, "/"))
	if word == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}
	head := strings.ToLower(word)
	if at := strings.IndexByte(head, '@'); at >= 0 {
		head = head[:at]
	}

	switch Type(head) {
	case TypeAddList:
		return parseAddList(input, rest)
	case TypeRemoveList:
		return parseRemoveList(input, rest)
	case TypeList:
		return parseList(input, rest)
	case TypeHelp:
		return Command{Type: TypeHelp, Raw: input}, nil
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

// nextWord splits s at its first whitespace run.
func nextWord(s string) (string, string) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	end := strings.IndexFunc(s, unicode.IsSpace)
	if end < 0 {
		return s, ""
	}
	return s[:end], strings.TrimLeftFunc(s[end:], unicode.IsSpace)
}

func usageError(message, usage string) *CommandError {
	return &CommandError{Code: ErrCodeInvalidArgument, Message: message, Usage: usage}
}

func parseAddList(raw, rest string) (Command, error) {
	key, itemText := nextWord(rest)
	if key == "" {
		return Command{}, usageError("addlist requires a key", UsageAddList)
	}
	items := model.ParseItems(itemText)
	if len(items) == 0 {
		return Command{}, usageError("addlist requires at least one item", UsageAddList)
	}
	return Command{Type: TypeAddList, Raw: raw, AddList: &AddListArgs{Key: model.NormalizeKey(key), Items: items}}, nil
}

func parseRemoveList(raw, rest string) (Command, error) {
	key, _ := nextWord(rest)
	if key == "" {
		return Command{}, usageError("removelist requires a key", UsageRemoveList)
	}
	return Command{Type: TypeRemoveList, Raw: raw, RemoveList: &RemoveListArgs{Key: model.NormalizeKey(key)}}, nil
}

func parseList(raw, rest string) (Command, error) {
	key, _ := nextWord(rest)
	if key == "" {
		return Command{}, usageError("list requires a key", UsageList)
	}
	return Command{Type: TypeList, Raw: raw, List: &ListArgs{Key: model.NormalizeKey(key)}}, nil
}
