// Package replay records the command stream issued against a
// Simulation and plays it back deterministically: a replay is the
// initial serialized state plus every command in tick order, enough
// for any host to reproduce the game bit-for-bit and check the result
// against a recorded final hash.
package replay

import (
	"fmt"
	"os"

	"github.com/pthm-cable/rtscore/components"
	"github.com/pthm-cable/rtscore/simulation"
)

// FormatVersion is the replay file format version. A loaded replay
// whose version does not match is rejected rather than guessed at.
const FormatVersion uint32 = 1

// Command is a single recorded order: the tick it was issued on, the
// entity it targets, and the command itself.
type Command struct {
	Tick   uint64
	Entity components.EntityId
	Order  components.Command
}

// Replay is the complete recording of one game: enough to recreate the
// initial state and replay every command that followed it.
type Replay struct {
	Version      uint32
	ScenarioID   string
	Seed         uint64
	InitialState []byte
	Commands     []Command
	FinalTick    uint64
	FinalHash    uint64
}

// New snapshots sim's current state as the replay's initial state.
// Call it before the first Tick() so the recording starts from the
// scenario's setup, not mid-game.
func New(scenarioID string, seed uint64, sim *simulation.Simulation) *Replay {
	return &Replay{
		Version:      FormatVersion,
		ScenarioID:   scenarioID,
		Seed:         seed,
		InitialState: sim.Serialize(),
	}
}

// RecordCommand appends a command to the tape. Commands must be
// recorded in non-decreasing tick order; playback assumes it.
func (r *Replay) RecordCommand(tick uint64, entity components.EntityId, order components.Command) {
	r.Commands = append(r.Commands, Command{Tick: tick, Entity: entity, Order: order})
}

// Finalize records the tick the game ended on and its state hash, the
// values playback verifies against.
func (r *Replay) Finalize(finalTick uint64, finalHash uint64) {
	r.FinalTick = finalTick
	r.FinalHash = finalHash
}

// CommandsAtTick returns every command recorded for exactly the given
// tick, in the order they were issued.
func (r *Replay) CommandsAtTick(tick uint64) []Command {
	var out []Command
	for _, c := range r.Commands {
		if c.Tick == tick {
			out = append(out, c)
		}
	}
	return out
}

// Duration returns the tick the recorded game ended on.
func (r *Replay) Duration() uint64 { return r.FinalTick }

// CommandCount returns the total number of recorded commands.
func (r *Replay) CommandCount() int { return len(r.Commands) }

// RestoreInitialState deserializes a fresh Simulation from the
// recorded initial state.
func (r *Replay) RestoreInitialState() (*simulation.Simulation, error) {
	return simulation.Deserialize(r.InitialState)
}

// Save writes the replay to path using the binary encoding in
// encode.go.
func (r *Replay) Save(path string) error {
	data := r.encode()
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing replay file: %w", err)
	}
	return nil
}

// Load reads and decodes a replay previously written by Save.
func Load(path string) (*Replay, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading replay file: %w", err)
	}
	r, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("decoding replay file: %w", err)
	}
	if r.Version != FormatVersion {
		return nil, fmt.Errorf("replay version mismatch: expected %d, got %d", FormatVersion, r.Version)
	}
	return r, nil
}
