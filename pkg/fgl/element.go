package fgl

import "unsafe"

// ElementType is the closed set of scalar types a vertex attribute or pixel
// channel can be stored as.
type ElementType uint8

const (
	ElemFloat32 ElementType = iota
	ElemInt32
	ElemUint32
	ElemInt16
	ElemUint16
	ElemInt8
	ElemUint8
)

// Element lists the Go types with an ElementType.
type Element interface {
	~float32 | ~int32 | ~uint32 | ~int16 | ~uint16 | ~int8 | ~uint8
}

// Enum returns the GL type enum.
func (t ElementType) Enum() uint32 {
	switch t {
	case ElemFloat32:
		return Float
	case ElemInt32:
		return Int
	case ElemUint32:
		return UnsignedInt
	case ElemInt16:
		return Short
	case ElemUint16:
		return UnsignedShort
	case ElemInt8:
		return Byte
	default:
		return UnsignedByte
	}
}

// Size returns the byte size of one element.
func (t ElementType) Size() int {
	switch t {
	case ElemFloat32, ElemInt32, ElemUint32:
		return 4
	case ElemInt16, ElemUint16:
		return 2
	default:
		return 1
	}
}

func (t ElementType) String() string {
	switch t {
	case ElemFloat32:
		return "float32"
	case ElemInt32:
		return "int32"
	case ElemUint32:
		return "uint32"
	case ElemInt16:
		return "int16"
	case ElemUint16:
		return "uint16"
	case ElemInt8:
		return "int8"
	default:
		return "uint8"
	}
}

// ElementTypeOf maps a Go element type to its ElementType.
func ElementTypeOf[T Element]() ElementType {
	var zero T
	switch any(zero).(type) {
	case float32:
		return ElemFloat32
	case int32:
		return ElemInt32
	case uint32:
		return ElemUint32
	case int16:
		return ElemInt16
	case uint16:
		return ElemUint16
	case int8:
		return ElemInt8
	case uint8:
		return ElemUint8
	}
	// named types (~T) fall back on size, fractional and sign checks
	var half, minusOne T = 1, 0
	half /= 2
	minusOne--
	unsigned := minusOne > 0
	switch unsafe.Sizeof(zero) {
	case 4:
		if half != 0 {
			return ElemFloat32
		}
		if unsigned {
			return ElemUint32
		}
		return ElemInt32
	case 2:
		if unsigned {
			return ElemUint16
		}
		return ElemInt16
	default:
		if unsigned {
			return ElemUint8
		}
		return ElemInt8
	}
}

// asBytes reinterprets a slice of elements as native-endian bytes without
// copying, which is what the driver uploads.
func asBytes[T Element](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	size := int(unsafe.Sizeof(data[0]))
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), len(data)*size)
}
