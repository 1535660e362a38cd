package components

import (
	"fmt"
	"strings"
)

// Kind distinguishes predators from prey. All behavioural differences
// between kinds are carried as data on the Agent component.
type Kind uint8

const (
	KindPredator Kind = iota
	KindPrey
)

// Kinds lists every kind in processing order for population checks.
var Kinds = [...]Kind{KindPrey, KindPredator}

func (k Kind) String() string {
	switch k {
	case KindPredator:
		return "predator"
	case KindPrey:
		return "prey"
	default:
		return fmt.Sprintf("kind(%d)", k)
	}
}

// MarshalText implements encoding.TextMarshaler so kinds read as names in
// CSV and JSON output.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler, the inverse of
// MarshalText.
func (k *Kind) UnmarshalText(b []byte) error {
	v, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// ParseKind maps a name back to a Kind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(s) {
	case "predator":
		return KindPredator, nil
	case "prey":
		return KindPrey, nil
	}
	return 0, fmt.Errorf("unknown kind %q", s)
}
