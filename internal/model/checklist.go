package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	DateLayout = "2006-01-02"

	checklistPrefix = "checklist:"
	donePrefix      = "done:"
	itemSeparator   = ";"
)

var ErrEmptyKey = errors.New("model: checklist key is required")

// Placeholder is shown when no checklist resolves for a date.
var Placeholder = []string{"📝 No checklist configured for today"}

var weekdayKeys = [...]string{"sun", "mon", "tue", "wed", "thu", "fri", "sat"}

// Checklist is an ordered list of item labels stored under one key.
type Checklist struct {
	Key   string
	Items []string
}

func (c Checklist) Validate() error {
	if strings.TrimSpace(c.Key) == "" {
		return ErrEmptyKey
	}
	if len(c.Items) == 0 {
		return fmt.Errorf("model: checklist %q has no items", c.Key)
	}
	return nil
}

func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

func WeekdayKey(t time.Time) string {
	return weekdayKeys[t.Weekday()]
}

func IsWeekdayKey(key string) bool {
	for _, k := range weekdayKeys {
		if k == key {
			return true
		}
	}
	return false
}

// NormalizeKey lower-cases weekday keys so "Mon" and "mon" name the same
// default. Other keys are returned as given.
func NormalizeKey(key string) string {
	if lower := strings.ToLower(key); IsWeekdayKey(lower) {
		return lower
	}
	return key
}

func ChecklistKey(key string) string {
	return checklistPrefix + key
}

func DoneKey(key string) string {
	return donePrefix + key
}

// ParseItems splits a ';' delimited item string, trimming each entry and
// dropping the empty ones.
func ParseItems(raw string) []string {
	parts := strings.Split(raw, itemSeparator)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

func CloneItems(items []string) []string {
	out := make([]string, len(items))
	copy(out, items)
	return out
}
