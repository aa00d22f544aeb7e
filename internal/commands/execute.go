package commands

import (
	"context"
	"fmt"
)

type Result struct {
	Message string
}

type Handlers struct {
	AddList    func(context.Context, AddListArgs) (Result, error)
	RemoveList func(context.Context, RemoveListArgs) (Result, error)
	List       func(context.Context, ListArgs) (Result, error)
	Help       func(context.Context) (Result, error)
}

func Execute(ctx context.Context, cmd Command, handlers Handlers) (Result, error) {
	switch cmd.Type {
	case TypeAddList:
		if handlers.AddList == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "addlist handler not configured"}
		}
		return handlers.AddList(ctx, *cmd.AddList)
	case TypeRemoveList:
		if handlers.RemoveList == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "removelist handler not configured"}
		}
		return handlers.RemoveList(ctx, *cmd.RemoveList)
	case TypeList:
		if handlers.List == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "list handler not configured"}
		}
		return handlers.List(ctx, *cmd.List)
	case TypeHelp:
		if handlers.Help == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "help handler not configured"}
		}
		return handlers.Help(ctx)
	default:
		return Result{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unknown command type: %s", cmd.Type)}
	}
}
