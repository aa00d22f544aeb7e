package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const toggleAction = "toggle"

var ErrInvalidToken = errors.New("model: invalid action token")

// Toggle is the decoded form of a toggle control's action token.
type Toggle struct {
	Index int
	Key   string
}

func FormatToggle(index int, key string) string {
	return fmt.Sprintf("%s:%d:%s", toggleAction, index, key)
}

func ParseToggle(token string) (Toggle, error) {
	parts := strings.SplitN(strings.TrimSpace(token), ":", 3)
	if len(parts) != 3 || parts[0] != toggleAction {
		return Toggle{}, fmt.Errorf("%w: %q", ErrInvalidToken, token)
	}
	// Only the canonical decimal form is accepted: "+1" and "01" are not 1.
	index, err := strconv.Atoi(parts[1])
	if err != nil || index < 0 || strconv.Itoa(index) != parts[1] {
		return Toggle{}, fmt.Errorf("%w: bad index in %q", ErrInvalidToken, token)
	}
	if strings.TrimSpace(parts[2]) == "" {
		return Toggle{}, fmt.Errorf("%w: missing key in %q", ErrInvalidToken, token)
	}
	return Toggle{Index: index, Key: parts[2]}, nil
}
