package entity

// Flag is a per-object bridge flag bit.
type Flag uint8

const (
	// FlagLife marks an object whose life script is handled by the bridge.
	FlagLife Flag = 0x01
	// FlagLifeEnabled marks an object with a live life handler.
	FlagLifeEnabled Flag = 0x02
	// FlagNew marks an object created by a mod. Legacy scripts never address it.
	FlagNew Flag = 0x04
	// FlagMove marks an object whose track is handled by the bridge.
	FlagMove Flag = 0x08
	// FlagMoveEnabled marks an object whose move handler is live.
	FlagMoveEnabled Flag = 0x10
)

// Flags holds one flag byte per object slot, sized to the host maximum.
type Flags struct {
	bits []uint8
}

// NewFlags allocates flags for n object slots.
func NewFlags(n int) *Flags {
	return &Flags{bits: make([]uint8, n)}
}

// Len returns the number of slots.
func (f *Flags) Len() int { return len(f.bits) }

// Get returns the raw flag byte for object i, or 0 when i is out of range.
func (f *Flags) Get(i int) Flag {
	if i < 0 || i >= len(f.bits) {
		return 0
	}
	return Flag(f.bits[i])
}

// Has reports whether every bit of fl is set for object i.
func (f *Flags) Has(i int, fl Flag) bool {
	return f.Get(i)&fl == fl
}

// Set sets the bits of fl for object i.
func (f *Flags) Set(i int, fl Flag) {
	if i >= 0 && i < len(f.bits) {
		f.bits[i] |= uint8(fl)
	}
}

// Unset clears the bits of fl for object i.
func (f *Flags) Unset(i int, fl Flag) {
	if i >= 0 && i < len(f.bits) {
		f.bits[i] &^= uint8(fl)
	}
}

// Reset clears every slot.
func (f *Flags) Reset() { clear(f.bits) }

// Bytes exposes the flag array as the host reads it.
func (f *Flags) Bytes() []uint8 { return f.bits }
