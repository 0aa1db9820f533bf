package replay

import (
	"fmt"

	"github.com/pthm-cable/rtscore/simulation"
)

// Player drives a Simulation through a recorded Replay: applying the
// commands due each tick, advancing the tick, and exposing seek and
// verify controls for a host-side scrubber UI.
type Player struct {
	replay       *Replay
	sim          *simulation.Simulation
	currentTick  uint64
	commandIndex int

	// Speed is a playback speed multiplier for a host's render loop;
	// the simulation itself has no notion of wall-clock time.
	Speed  float64
	Paused bool
}

// NewPlayer restores the replay's initial state and returns a player
// positioned at tick 0.
func NewPlayer(r *Replay) (*Player, error) {
	sim, err := r.RestoreInitialState()
	if err != nil {
		return nil, fmt.Errorf("restoring initial state: %w", err)
	}
	return &Player{
		replay: r,
		sim:    sim,
		Speed:  1.0,
	}, nil
}

// Advance applies every command due at the current tick, steps the
// simulation once, and reports whether ticks remain after this one.
func (p *Player) Advance() bool {
	if p.Paused || p.currentTick >= p.replay.FinalTick {
		return p.currentTick < p.replay.FinalTick
	}

	p.applyDueCommands()
	p.sim.Tick()
	p.currentTick++

	return p.currentTick < p.replay.FinalTick
}

func (p *Player) applyDueCommands() {
	for p.commandIndex < len(p.replay.Commands) {
		cmd := p.replay.Commands[p.commandIndex]
		if cmd.Tick > p.currentTick {
			break
		}
		_ = p.sim.ApplyCommand(cmd.Entity, cmd.Order)
		p.commandIndex++
	}
}

// Seek resets to the initial state and replays forward to targetTick.
func (p *Player) Seek(targetTick uint64) error {
	sim, err := p.replay.RestoreInitialState()
	if err != nil {
		return fmt.Errorf("restoring initial state: %w", err)
	}
	p.sim = sim
	p.currentTick = 0
	p.commandIndex = 0

	clamped := targetTick
	if clamped > p.replay.FinalTick {
		clamped = p.replay.FinalTick
	}
	for p.currentTick < clamped {
		p.applyDueCommands()
		p.sim.Tick()
		p.currentTick++
	}
	return nil
}

// CurrentTick returns the playback head's tick.
func (p *Player) CurrentTick() uint64 { return p.currentTick }

// Simulation returns the live simulation being played back.
func (p *Player) Simulation() *simulation.Simulation { return p.sim }

// Replay returns the underlying replay.
func (p *Player) Replay() *Replay { return p.replay }

// IsFinished reports whether playback has reached the recorded final tick.
func (p *Player) IsFinished() bool {
	return p.currentTick >= p.replay.FinalTick
}

// Verify seeks to the end of the replay and checks the resulting state
// hash against the recorded final hash.
func (p *Player) Verify() (bool, error) {
	if err := p.Seek(p.replay.FinalTick); err != nil {
		return false, err
	}
	return p.sim.StateHash() == p.replay.FinalHash, nil
}

// TogglePause flips the paused flag.
func (p *Player) TogglePause() { p.Paused = !p.Paused }

// SetSpeed clamps speed to [0.1, 10.0] and assigns it.
func (p *Player) SetSpeed(speed float64) {
	if speed < 0.1 {
		speed = 0.1
	}
	if speed > 10.0 {
		speed = 10.0
	}
	p.Speed = speed
}

// ProgressPercent returns playback progress as 0-100.
func (p *Player) ProgressPercent() float64 {
	if p.replay.FinalTick == 0 {
		return 100.0
	}
	return (float64(p.currentTick) / float64(p.replay.FinalTick)) * 100.0
}
