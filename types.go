package tagwire

import "github.com/dadrian/tagwire/internal"

// TypeCode identifies the wire representation of a value. It is the first
// byte of every encoding.
type TypeCode = internal.TypeCode

const (
	TypeEmpty        = internal.TypeEmpty
	TypeObject       = internal.TypeObject
	TypeArray        = internal.TypeArray
	TypeInt8         = internal.TypeInt8
	TypeUInt8        = internal.TypeUInt8
	TypeInt16        = internal.TypeInt16
	TypeUInt16       = internal.TypeUInt16
	TypeInt32        = internal.TypeInt32
	TypeUInt32       = internal.TypeUInt32
	TypeInt64        = internal.TypeInt64
	TypeUInt64       = internal.TypeUInt64
	TypeSingle       = internal.TypeSingle
	TypeDouble       = internal.TypeDouble
	TypeDecimal      = internal.TypeDecimal
	TypeString       = internal.TypeString
	TypeGuid         = internal.TypeGuid
	TypeEnum         = internal.TypeEnum
	TypeBoolean      = internal.TypeBoolean
	TypeInt8Array    = internal.TypeInt8Array
	TypeUInt8Array   = internal.TypeUInt8Array
	TypeInt16Array   = internal.TypeInt16Array
	TypeUInt16Array  = internal.TypeUInt16Array
	TypeInt32Array   = internal.TypeInt32Array
	TypeUInt32Array  = internal.TypeUInt32Array
	TypeInt64Array   = internal.TypeInt64Array
	TypeUInt64Array  = internal.TypeUInt64Array
	TypeSingleArray  = internal.TypeSingleArray
	TypeDoubleArray  = internal.TypeDoubleArray
	TypeBooleanArray = internal.TypeBooleanArray
	TypeDictionary   = internal.TypeDictionary
	TypeDateTime     = internal.TypeDateTime
	TypeTuple        = internal.TypeTuple
	TypeCustomData   = internal.TypeCustomData
)

// Writer and Reader are the bounds-checked cursors handed to units.
type (
	Writer = internal.Writer
	Reader = internal.Reader
)
