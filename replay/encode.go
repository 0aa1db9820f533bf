package replay

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/pthm-cable/rtscore/components"
	"github.com/pthm-cable/rtscore/fixed"
)

// encode serializes the replay as a little-endian byte stream: a
// version header, scenario metadata, the embedded initial-state blob
// (opaque, produced by simulation.Serialize), the command tape, and
// the finalize values.
func (r *Replay) encode() []byte {
	var buf bytes.Buffer
	putU32(&buf, r.Version)
	putString(&buf, r.ScenarioID)
	putU64(&buf, r.Seed)
	putBytes(&buf, r.InitialState)

	putU64(&buf, uint64(len(r.Commands)))
	for _, c := range r.Commands {
		putU64(&buf, c.Tick)
		putU64(&buf, uint64(c.Entity))
		putU8(&buf, uint8(c.Order.Kind))
		putI64(&buf, c.Order.Point.X.Bits())
		putI64(&buf, c.Order.Point.Y.Bits())
		putU64(&buf, uint64(c.Order.Target))
	}

	putU64(&buf, r.FinalTick)
	putU64(&buf, r.FinalHash)

	return buf.Bytes()
}

func decode(data []byte) (*Replay, error) {
	br := bytes.NewReader(data)

	version, err := getU32(br)
	if err != nil {
		return nil, fmt.Errorf("version: %w", err)
	}
	scenarioID, err := getString(br)
	if err != nil {
		return nil, fmt.Errorf("scenario id: %w", err)
	}
	seed, err := getU64(br)
	if err != nil {
		return nil, fmt.Errorf("seed: %w", err)
	}
	initialState, err := getBytes(br)
	if err != nil {
		return nil, fmt.Errorf("initial state: %w", err)
	}

	count, err := getU64(br)
	if err != nil {
		return nil, fmt.Errorf("command count: %w", err)
	}
	commands := make([]Command, 0)
	for i := uint64(0); i < count; i++ {
		tick, err := getU64(br)
		if err != nil {
			return nil, fmt.Errorf("command %d tick: %w", i, err)
		}
		entity, err := getU64(br)
		if err != nil {
			return nil, fmt.Errorf("command %d entity: %w", i, err)
		}
		kind, err := getU8(br)
		if err != nil {
			return nil, fmt.Errorf("command %d kind: %w", i, err)
		}
		px, err := getI64(br)
		if err != nil {
			return nil, fmt.Errorf("command %d point.x: %w", i, err)
		}
		py, err := getI64(br)
		if err != nil {
			return nil, fmt.Errorf("command %d point.y: %w", i, err)
		}
		target, err := getU64(br)
		if err != nil {
			return nil, fmt.Errorf("command %d target: %w", i, err)
		}
		commands = append(commands, Command{
			Tick:   tick,
			Entity: components.EntityId(entity),
			Order: components.Command{
				Kind:   components.CommandKind(kind),
				Point:  fixed.NewVec2(fixed.FromBits(px), fixed.FromBits(py)),
				Target: components.EntityId(target),
			},
		})
	}

	finalTick, err := getU64(br)
	if err != nil {
		return nil, fmt.Errorf("final tick: %w", err)
	}
	finalHash, err := getU64(br)
	if err != nil {
		return nil, fmt.Errorf("final hash: %w", err)
	}

	return &Replay{
		Version:      version,
		ScenarioID:   scenarioID,
		Seed:         seed,
		InitialState: initialState,
		Commands:     commands,
		FinalTick:    finalTick,
		FinalHash:    finalHash,
	}, nil
}

func putU8(buf *bytes.Buffer, v uint8) { buf.WriteByte(v) }

func putU32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

func putU64(buf *bytes.Buffer, v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	buf.Write(b[:])
}

func putI64(buf *bytes.Buffer, v int64) { putU64(buf, uint64(v)) }

func putBytes(buf *bytes.Buffer, b []byte) {
	putU32(buf, uint32(len(b)))
	buf.Write(b)
}

func putString(buf *bytes.Buffer, s string) {
	putBytes(buf, []byte(s))
}

func getU8(r *bytes.Reader) (uint8, error) {
	return r.ReadByte()
}

func getU32(r *bytes.Reader) (uint32, error) {
	var b [4]byte
	if err := readExact(r, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b[:]), nil
}

func getU64(r *bytes.Reader) (uint64, error) {
	var b [8]byte
	if err := readExact(r, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}

func getI64(r *bytes.Reader) (int64, error) {
	v, err := getU64(r)
	return int64(v), err
}

func getBytes(r *bytes.Reader) ([]byte, error) {
	n, err := getU32(r)
	if err != nil {
		return nil, err
	}
	b := make([]byte, n)
	if err := readExact(r, b); err != nil {
		return nil, err
	}
	return b, nil
}

func getString(r *bytes.Reader) (string, error) {
	b, err := getBytes(r)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func readExact(r *bytes.Reader, b []byte) error {
	if len(b) == 0 {
		return nil
	}
	n, err := r.Read(b)
	if err != nil {
		return err
	}
	if n != len(b) {
		return fmt.Errorf("short read: got %d of %d bytes", n, len(b))
	}
	return nil
}
