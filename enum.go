package tagwire

// EnumMember names one value of an enum type. The name, not the value, is
// what goes on the wire.
type EnumMember struct {
	Name  string
	Value int64
}

// Enum is implemented by named integer types that should be written as
// enum members. EnumMembers is called once, on the zero value, when the
// type's unit is built.
//
//	type Color int
//
//	func (Color) EnumMembers() []tagwire.EnumMember {
//		return []tagwire.EnumMember{{"Red", 0}, {"Green", 1}, {"Blue", 2}}
//	}
type Enum interface {
	EnumMembers() []EnumMember
}
