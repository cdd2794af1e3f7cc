package internal

import "fmt"

// TypeCode is the one-byte tag that starts every encoded value. Tag values
// are part of the wire contract and never renumbered.
type TypeCode byte

const (
	TypeEmpty        TypeCode = 0
	TypeObject       TypeCode = 1
	TypeArray        TypeCode = 2
	TypeInt8         TypeCode = 3
	TypeUInt8        TypeCode = 4
	TypeInt16        TypeCode = 5
	TypeUInt16       TypeCode = 6
	TypeInt32        TypeCode = 7
	TypeUInt32       TypeCode = 8
	TypeInt64        TypeCode = 9
	TypeUInt64       TypeCode = 10
	TypeSingle       TypeCode = 11
	TypeDouble       TypeCode = 12
	TypeDecimal      TypeCode = 13
	TypeString       TypeCode = 14
	TypeGuid         TypeCode = 15
	TypeEnum         TypeCode = 16
	TypeBoolean      TypeCode = 17
	TypeInt8Array    TypeCode = 19
	TypeUInt8Array   TypeCode = 20
	TypeInt16Array   TypeCode = 21
	TypeUInt16Array  TypeCode = 22
	TypeInt32Array   TypeCode = 23
	TypeUInt32Array  TypeCode = 24
	TypeInt64Array   TypeCode = 25
	TypeUInt64Array  TypeCode = 26
	TypeSingleArray  TypeCode = 27
	TypeDoubleArray  TypeCode = 28
	TypeBooleanArray TypeCode = 29
	TypeDictionary   TypeCode = 30
	TypeDateTime     TypeCode = 31
	TypeTuple        TypeCode = 34
	TypeCustomData   TypeCode = 35
)

// VarLen marks a code whose payload is prefixed by a uint32 length.
const VarLen = -1

type codeInfo struct {
	name   string
	length int
	valid  bool
}

var codes [256]codeInfo

func init() {
	def := func(c TypeCode, name string, length int) {
		codes[c] = codeInfo{name: name, length: length, valid: true}
	}
	def(TypeEmpty, "Empty", 0)
	def(TypeObject, "Object", VarLen)
	def(TypeArray, "Array", VarLen)
	def(TypeInt8, "Int8", 1)
	def(TypeUInt8, "UInt8", 1)
	def(TypeInt16, "Int16", 2)
	def(TypeUInt16, "UInt16", 2)
	def(TypeInt32, "Int32", 4)
	def(TypeUInt32, "UInt32", 4)
	def(TypeInt64, "Int64", 8)
	def(TypeUInt64, "UInt64", 8)
	def(TypeSingle, "Single", 4)
	def(TypeDouble, "Double", 8)
	def(TypeDecimal, "Decimal", 16)
	def(TypeString, "String", VarLen)
	def(TypeGuid, "Guid", 16)
	def(TypeEnum, "Enum", 8)
	def(TypeBoolean, "Boolean", 1)
	def(TypeInt8Array, "Int8Array", VarLen)
	def(TypeUInt8Array, "UInt8Array", VarLen)
	def(TypeInt16Array, "Int16Array", VarLen)
	def(TypeUInt16Array, "UInt16Array", VarLen)
	def(TypeInt32Array, "Int32Array", VarLen)
	def(TypeUInt32Array, "UInt32Array", VarLen)
	def(TypeInt64Array, "Int64Array", VarLen)
	def(TypeUInt64Array, "UInt64Array", VarLen)
	def(TypeSingleArray, "SingleArray", VarLen)
	def(TypeDoubleArray, "DoubleArray", VarLen)
	def(TypeBooleanArray, "BooleanArray", VarLen)
	def(TypeDictionary, "Dictionary", VarLen)
	def(TypeDateTime, "DateTime", 8)
	def(TypeTuple, "Tuple", VarLen)
	def(TypeCustomData, "CustomData", VarLen)
}

// Valid reports whether c is part of the closed tag space.
func (c TypeCode) Valid() bool { return codes[c].valid }

// Length returns the fixed payload length of c, or VarLen. Invalid codes
// report VarLen as well; callers check Valid first.
func (c TypeCode) Length() int {
	if !codes[c].valid {
		return VarLen
	}
	return codes[c].length
}

// Fixed reports whether c has a fixed-size payload.
func (c TypeCode) Fixed() bool { return c.Valid() && codes[c].length >= 0 }

func (c TypeCode) String() string {
	if codes[c].valid {
		return codes[c].name
	}
	return fmt.Sprintf("TypeCode(%d)", byte(c))
}

// IsScalar reports whether c is one of the numeric or boolean scalar codes.
func (c TypeCode) IsScalar() bool {
	return (c >= TypeInt8 && c <= TypeDouble) || c == TypeBoolean
}

// ArrayOf maps a scalar code to its packed-array code.
func ArrayOf(elem TypeCode) (TypeCode, bool) {
	switch {
	case elem >= TypeInt8 && elem <= TypeDouble:
		return TypeInt8Array + (elem - TypeInt8), true
	case elem == TypeBoolean:
		return TypeBooleanArray, true
	}
	return 0, false
}

// ElemOf maps a packed-array code back to its scalar element code.
func ElemOf(arr TypeCode) (TypeCode, bool) {
	switch {
	case arr >= TypeInt8Array && arr <= TypeDoubleArray:
		return TypeInt8 + (arr - TypeInt8Array), true
	case arr == TypeBooleanArray:
		return TypeBoolean, true
	}
	return 0, false
}
