// Package neural provides the layered brains that drive grid agents.
package neural

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrUnknownActivation is returned when an activation name cannot be parsed.
var ErrUnknownActivation = errors.New("unknown activation")

// Activation is an element-wise transfer function.
type Activation uint8

const (
	ReLU Activation = iota
	Tanh
	Sigmoid
)

// Apply evaluates the activation at x.
func (a Activation) Apply(x float64) float64 {
	switch a {
	case ReLU:
		if x < 0 {
			return 0
		}
		return x
	case Tanh:
		return math.Tanh(x)
	case Sigmoid:
		return sigmoid(x)
	default:
		panic(fmt.Sprintf("neural: invalid activation %d", a))
	}
}

func (a Activation) String() string {
	switch a {
	case ReLU:
		return "relu"
	case Tanh:
		return "tanh"
	case Sigmoid:
		return "sigmoid"
	default:
		return fmt.Sprintf("activation(%d)", a)
	}
}

// ParseActivation maps a config name to an Activation.
func ParseActivation(name string) (Activation, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "relu":
		return ReLU, nil
	case "tanh":
		return Tanh, nil
	case "sigmoid":
		return Sigmoid, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownActivation, name)
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}
