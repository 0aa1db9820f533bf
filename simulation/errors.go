package simulation

import (
	"fmt"

	"github.com/pthm-cable/rtscore/components"
)

// EntityNotFound reports a lookup against an EntityId with no live
// entity in the store.
type EntityNotFound struct {
	ID components.EntityId
}

func (e *EntityNotFound) Error() string {
	return fmt.Sprintf("simulation: entity %d not found", e.ID)
}

// InvalidState reports a precondition violation, such as queueing a
// command on an entity without a command queue, or pathfinding out of
// bounds.
type InvalidState struct {
	Msg string
}

func (e *InvalidState) Error() string {
	return fmt.Sprintf("simulation: invalid state: %s", e.Msg)
}

// SerializationFailed reports a serialize/deserialize round-trip
// failure or a version mismatch.
type SerializationFailed struct {
	Msg string
}

func (e *SerializationFailed) Error() string {
	return fmt.Sprintf("simulation: serialization failed: %s", e.Msg)
}

// ProductionErrorKind enumerates the reasons a production request can
// be rejected.
type ProductionErrorKind uint8

const (
	QueueFull ProductionErrorKind = iota
	InsufficientResources
	CannotProduceUnit
	BuildingNotConstructed
	BlueprintNotFound
)

func (k ProductionErrorKind) String() string {
	switch k {
	case QueueFull:
		return "queue full"
	case InsufficientResources:
		return "insufficient resources"
	case CannotProduceUnit:
		return "cannot produce unit"
	case BuildingNotConstructed:
		return "building not constructed"
	case BlueprintNotFound:
		return "blueprint not found"
	default:
		return "unknown production error"
	}
}

// ProductionError reports why a queue request was rejected. State is
// never mutated when this is returned.
type ProductionError struct {
	Kind ProductionErrorKind
}

func (e *ProductionError) Error() string {
	return fmt.Sprintf("simulation: production error: %s", e.Kind)
}
