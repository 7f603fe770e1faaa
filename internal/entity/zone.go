package entity

import (
	"github.com/roach88/ida/internal/host"
	"github.com/roach88/ida/internal/phase"
	"github.com/roach88/ida/internal/scripterr"
)

// Zone is a script handle to one zone.
type Zone struct {
	s     *Surface
	index int
}

// ZoneAt builds a handle without phase or range checks.
func (s *Surface) ZoneAt(i int) *Zone {
	return &Zone{s: s, index: i}
}

// Index returns the zone index.
func (z *Zone) Index() int { return z.index }

func (z *Zone) get() (*host.Zone, error) {
	if err := z.s.check(phase.Getter); err != nil {
		return nil, err
	}
	return z.s.zoneRef(z.index)
}

func (z *Zone) set(validate func() error) (*host.Zone, error) {
	if err := z.s.check(phase.Setter); err != nil {
		return nil, err
	}
	if err := validate(); err != nil {
		return nil, err
	}
	return z.s.zoneRef(z.index)
}

// ID returns the zone index.
func (z *Zone) ID() (int, error) {
	if err := z.s.check(phase.Getter); err != nil {
		return 0, err
	}
	return z.index, nil
}

// Pos1 returns the first corner.
func (z *Zone) Pos1() ([]int32, error) {
	r, err := z.get()
	if err != nil {
		return nil, err
	}
	return toSlice(r.Pos1), nil
}

// SetPos1 sets the first corner.
func (z *Zone) SetPos1(pos []int64) error {
	var p [3]int32
	r, err := z.set(func() (err error) {
		p, err = Vec3("pos1", pos)
		return err
	})
	if err != nil {
		return err
	}
	r.Pos1 = p
	return nil
}

// Pos2 returns the second corner.
func (z *Zone) Pos2() ([]int32, error) {
	r, err := z.get()
	if err != nil {
		return nil, err
	}
	return toSlice(r.Pos2), nil
}

// SetPos2 sets the second corner.
func (z *Zone) SetPos2(pos []int64) error {
	var p [3]int32
	r, err := z.set(func() (err error) {
		p, err = Vec3("pos2", pos)
		return err
	})
	if err != nil {
		return err
	}
	r.Pos2 = p
	return nil
}

// Registers returns the eight zone registers.
func (z *Zone) Registers() ([]int32, error) {
	r, err := z.get()
	if err != nil {
		return nil, err
	}
	return append([]int32(nil), r.Registers[:]...), nil
}

// SetRegisters sets the eight zone registers.
func (z *Zone) SetRegisters(regs []int64) error {
	r, err := z.set(func() error { return checkArray("registers", regs, 8) })
	if err != nil {
		return err
	}
	for i := range r.Registers {
		r.Registers[i] = int32(regs[i])
	}
	return nil
}

// Type returns the zone type.
func (z *Zone) Type() (int16, error) {
	r, err := z.get()
	if err != nil {
		return 0, err
	}
	return r.Type, nil
}

// SetType sets the zone type.
func (z *Zone) SetType(v int64) error {
	r, err := z.set(func() error { return scripterr.CheckInt16("type", v) })
	if err != nil {
		return err
	}
	r.Type = int16(v)
	return nil
}

// ZoneValue returns the zone value.
func (z *Zone) ZoneValue() (int16, error) {
	r, err := z.get()
	if err != nil {
		return 0, err
	}
	return r.Value, nil
}

// SetZoneValue sets the zone value.
func (z *Zone) SetZoneValue(v int64) error {
	r, err := z.set(func() error { return scripterr.CheckInt16("zoneValue", v) })
	if err != nil {
		return err
	}
	r.Value = int16(v)
	return nil
}
