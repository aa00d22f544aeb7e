package views

import (
	"strings"

	"github.com/sandeepkv93/checkd/internal/model"
)

const (
	doneMark    = "✅"
	pendingMark = "☐"
)

// Control is one toggle button; it occupies a row of its own.
type Control struct {
	Text   string
	Action string
}

// Payload is a checklist message: one line and one control per item.
type Payload struct {
	Lines    []string
	Controls []Control
}

func (p Payload) Text() string {
	return strings.Join(p.Lines, "\n")
}

func (p Payload) Empty() bool {
	return len(p.Lines) == 0
}

// Render draws items against the completed set. Indices in done that fall
// outside items are ignored.
func Render(key string, items []string, done model.CompletionSet) Payload {
	out := Payload{
		Lines:    make([]string, 0, len(items)),
		Controls: make([]Control, 0, len(items)),
	}
	for i, item := range items {
		line := Line(item, done.Has(i))
		out.Lines = append(out.Lines, line)
		out.Controls = append(out.Controls, Control{Text: line, Action: model.FormatToggle(i, key)})
	}
	return out
}

// Fresh renders items with nothing checked.
func Fresh(key string, items []string) Payload {
	return Render(key, items, model.NewCompletionSet())
}

func Line(item string, done bool) string {
	if done {
		return doneMark + " " + item
	}
	return pendingMark + " " + item
}
