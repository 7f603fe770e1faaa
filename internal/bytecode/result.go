package bytecode

// ReturnType is how the host encodes a life function result.
type ReturnType uint8

const (
	ReturnInt8   ReturnType = 0
	ReturnInt16  ReturnType = 1
	ReturnString ReturnType = 2
	ReturnUint8  ReturnType = 4
)

// ConvertResult narrows a raw life function result to its declared type,
// sign- or zero-extending it back to int. Other return types pass through.
func ConvertResult(v int32, t ReturnType) int32 {
	switch t {
	case ReturnInt8:
		return int32(int8(v))
	case ReturnInt16:
		return int32(int16(v))
	case ReturnUint8:
		return int32(uint8(v))
	default:
		return v
	}
}
