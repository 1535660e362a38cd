// Package telemetry provides ecosystem health tracking, bookmarking and CSV output.
package telemetry

import (
	"fmt"

	"github.com/pthm-cable/gridsoup/components"
)

// EventType identifies telemetry events.
type EventType uint8

const (
	EventDeath EventType = iota
	EventKill
	EventBirth
	EventReproduction
	EventForage
)

func (t EventType) String() string {
	switch t {
	case EventDeath:
		return "death"
	case EventKill:
		return "kill"
	case EventBirth:
		return "birth"
	case EventReproduction:
		return "reproduction"
	case EventForage:
		return "forage"
	default:
		return fmt.Sprintf("event(%d)", t)
	}
}

// MarshalCSV implements gocsv.TypeMarshaller.
func (t EventType) MarshalCSV() (string, error) { return t.String(), nil }

// DeathCause records why an agent died.
type DeathCause uint8

const (
	CauseNone DeathCause = iota
	CauseStarvation
	CausePredation
)

func (c DeathCause) String() string {
	switch c {
	case CauseStarvation:
		return "starvation"
	case CausePredation:
		return "predation"
	default:
		return ""
	}
}

// MarshalCSV implements gocsv.TypeMarshaller.
func (c DeathCause) MarshalCSV() (string, error) { return c.String(), nil }

// Event represents a single telemetry event.
type Event struct {
	Type    EventType       `csv:"type"`
	Tick    int32           `csv:"tick"`
	AgentID uint32          `csv:"agent"`
	Kind    components.Kind `csv:"kind"`
	X       int             `csv:"x"`
	Y       int             `csv:"y"`

	// Optional fields depending on event type
	TargetID uint32     `csv:"target"` // prey for kills, first parent for births
	OtherID  uint32     `csv:"other"`  // second parent for births
	Cause    DeathCause `csv:"cause"`
	Amount   float64    `csv:"amount"` // energy gained, or offspring count for reproduction
}

// NewDeathEvent creates a death event.
func NewDeathEvent(tick int32, agentID uint32, kind components.Kind, pos components.Position, cause DeathCause) Event {
	return Event{
		Type:    EventDeath,
		Tick:    tick,
		AgentID: agentID,
		Kind:    kind,
		X:       pos.X,
		Y:       pos.Y,
		Cause:   cause,
	}
}

// NewKillEvent creates a kill event.
func NewKillEvent(tick int32, predatorID, preyID uint32, preyPos components.Position) Event {
	return Event{
		Type:     EventKill,
		Tick:     tick,
		AgentID:  predatorID,
		Kind:     components.KindPredator,
		X:        preyPos.X,
		Y:        preyPos.Y,
		TargetID: preyID,
	}
}

// NewBirthEvent creates a birth event. Parent IDs are zero for agents
// spawned without parents.
func NewBirthEvent(tick int32, childID uint32, kind components.Kind, pos components.Position, parentA, parentB uint32) Event {
	return Event{
		Type:     EventBirth,
		Tick:     tick,
		AgentID:  childID,
		Kind:     kind,
		X:        pos.X,
		Y:        pos.Y,
		TargetID: parentA,
		OtherID:  parentB,
	}
}

// NewReproductionEvent creates an event for one reproduction round.
func NewReproductionEvent(tick int32, kind components.Kind, offspring int) Event {
	return Event{
		Type:   EventReproduction,
		Tick:   tick,
		Kind:   kind,
		Amount: float64(offspring),
	}
}

// NewForageEvent creates a foraging event.
func NewForageEvent(tick int32, agentID uint32, kind components.Kind, pos components.Position, amount float64) Event {
	return Event{
		Type:    EventForage,
		Tick:    tick,
		AgentID: agentID,
		Kind:    kind,
		X:       pos.X,
		Y:       pos.Y,
		Amount:  amount,
	}
}
