// Package tagwire encodes Go values in a compact, self-describing binary
// format and decodes them back, tolerating schema changes on either side.
//
// Every value starts with a one-byte type code. Codes with a fixed payload
// length are followed by exactly that many bytes; all others carry a
// 4-byte little-endian payload length, so any value can be skipped without
// understanding it. Struct fields are identified by a 64-bit hash of their
// name (see package fieldhash), not by position, so fields may be added,
// removed or reordered independently by writer and reader.
//
// Units that encode each type are built once per Serializer, on first use,
// including self-referential and mutually recursive types. A type's shape
// decides its encoding:
//
//   - bool, integers and floats: fixed-width scalars; int and uint are 64-bit
//   - string: UTF-16LE code units
//   - slices and arrays of scalars: one packed payload
//   - other slices and arrays, map[K]struct{} and SortedSet: Array
//   - other maps: Dictionary
//   - structs: Object, or Tuple when TupleMarker is embedded first
//   - integer types implementing Enum: the hash of the member name
//   - time.Time, decimal.Decimal, uuid.UUID: DateTime, Decimal, Guid
//   - any: one of a closed set of runtime types
//
// Nil pointers, slices, maps and interfaces encode as Empty and are
// omitted from structs. A CustomProvider can take over any type, which is
// how open polymorphism over interfaces is supported (see Polymorphic).
package tagwire
