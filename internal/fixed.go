package internal

import "reflect"

var byteType = reflect.TypeFor[byte]()

// ScalarCode maps a Go scalar kind to its wire code. int and uint are
// carried as 64-bit values.
func ScalarCode(k reflect.Kind) (TypeCode, bool) {
	switch k {
	case reflect.Bool:
		return TypeBoolean, true
	case reflect.Int8:
		return TypeInt8, true
	case reflect.Uint8:
		return TypeUInt8, true
	case reflect.Int16:
		return TypeInt16, true
	case reflect.Uint16:
		return TypeUInt16, true
	case reflect.Int32:
		return TypeInt32, true
	case reflect.Uint32:
		return TypeUInt32, true
	case reflect.Int64, reflect.Int:
		return TypeInt64, true
	case reflect.Uint64, reflect.Uint, reflect.Uintptr:
		return TypeUInt64, true
	case reflect.Float32:
		return TypeSingle, true
	case reflect.Float64:
		return TypeDouble, true
	}
	return 0, false
}

// PutScalar writes the payload of v (no tag) using code c.
func PutScalar(w *Writer, c TypeCode, v reflect.Value) error {
	switch c {
	case TypeBoolean:
		var b uint8
		if v.Bool() {
			b = 1
		}
		return w.WriteUint8(b)
	case TypeInt8:
		return w.WriteUint8(uint8(v.Int()))
	case TypeUInt8:
		return w.WriteUint8(uint8(v.Uint()))
	case TypeInt16:
		return w.WriteUint16(uint16(v.Int()))
	case TypeUInt16:
		return w.WriteUint16(uint16(v.Uint()))
	case TypeInt32:
		return w.WriteUint32(uint32(v.Int()))
	case TypeUInt32:
		return w.WriteUint32(uint32(v.Uint()))
	case TypeInt64:
		return w.WriteUint64(uint64(v.Int()))
	case TypeUInt64:
		return w.WriteUint64(v.Uint())
	case TypeSingle:
		return w.WriteFloat32(float32(v.Float()))
	case TypeDouble:
		return w.WriteFloat64(v.Float())
	}
	return Errorf(ErrUnsupportedType, w.Offset(), "%v is not a scalar code", c)
}

// GetScalar reads a payload of code c into the settable value v.
func GetScalar(r *Reader, c TypeCode, v reflect.Value) error {
	switch c {
	case TypeBoolean:
		b, err := r.ReadUint8()
		if err != nil {
			return err
		}
		v.SetBool(b != 0)
	case TypeInt8:
		b, err := r.ReadUint8()
		if err != nil {
			return err
		}
		v.SetInt(int64(int8(b)))
	case TypeUInt8:
		b, err := r.ReadUint8()
		if err != nil {
			return err
		}
		v.SetUint(uint64(b))
	case TypeInt16:
		u, err := r.ReadUint16()
		if err != nil {
			return err
		}
		v.SetInt(int64(int16(u)))
	case TypeUInt16:
		u, err := r.ReadUint16()
		if err != nil {
			return err
		}
		v.SetUint(uint64(u))
	case TypeInt32:
		u, err := r.ReadUint32()
		if err != nil {
			return err
		}
		v.SetInt(int64(int32(u)))
	case TypeUInt32:
		u, err := r.ReadUint32()
		if err != nil {
			return err
		}
		v.SetUint(uint64(u))
	case TypeInt64:
		u, err := r.ReadUint64()
		if err != nil {
			return err
		}
		v.SetInt(int64(u))
	case TypeUInt64:
		u, err := r.ReadUint64()
		if err != nil {
			return err
		}
		v.SetUint(u)
	case TypeSingle:
		f, err := r.ReadFloat32()
		if err != nil {
			return err
		}
		v.SetFloat(float64(f))
	case TypeDouble:
		f, err := r.ReadFloat64()
		if err != nil {
			return err
		}
		v.SetFloat(f)
	default:
		return Errorf(ErrUnsupportedType, r.Offset(), "%v is not a scalar code", c)
	}
	return nil
}

// ReadScalar reads a payload of code c into its canonical Go type.
func ReadScalar(r *Reader, c TypeCode) (any, error) {
	var out reflect.Value
	switch c {
	case TypeBoolean:
		out = reflect.New(reflect.TypeFor[bool]()).Elem()
	case TypeInt8:
		out = reflect.New(reflect.TypeFor[int8]()).Elem()
	case TypeUInt8:
		out = reflect.New(reflect.TypeFor[uint8]()).Elem()
	case TypeInt16:
		out = reflect.New(reflect.TypeFor[int16]()).Elem()
	case TypeUInt16:
		out = reflect.New(reflect.TypeFor[uint16]()).Elem()
	case TypeInt32:
		out = reflect.New(reflect.TypeFor[int32]()).Elem()
	case TypeUInt32:
		out = reflect.New(reflect.TypeFor[uint32]()).Elem()
	case TypeInt64:
		out = reflect.New(reflect.TypeFor[int64]()).Elem()
	case TypeUInt64:
		out = reflect.New(reflect.TypeFor[uint64]()).Elem()
	case TypeSingle:
		out = reflect.New(reflect.TypeFor[float32]()).Elem()
	case TypeDouble:
		out = reflect.New(reflect.TypeFor[float64]()).Elem()
	default:
		return nil, Errorf(ErrUnsupportedType, r.Offset(), "%v is not a scalar code", c)
	}
	if err := GetScalar(r, c, out); err != nil {
		return nil, err
	}
	return out.Interface(), nil
}

// PutScalarArray writes the packed payload of a slice or array of scalars.
func PutScalarArray(w *Writer, elem TypeCode, v reflect.Value) error {
	if elem == TypeUInt8 && v.Kind() == reflect.Slice && v.Type().Elem().Kind() == reflect.Uint8 {
		return w.WriteBytes(v.Bytes())
	}
	for i := 0; i < v.Len(); i++ {
		if err := PutScalar(w, elem, v.Index(i)); err != nil {
			return err
		}
	}
	return nil
}

// GetScalarArray fills v from n packed elements. v is either a slice with
// length n or an array; array slots beyond its length are skipped.
func GetScalarArray(r *Reader, elem TypeCode, n int, v reflect.Value) error {
	width := elem.Length()
	if elem == TypeUInt8 && v.Kind() == reflect.Slice && v.Type().Elem() == byteType {
		b, err := r.ReadBytes(n)
		if err != nil {
			return err
		}
		reflect.Copy(v, reflect.ValueOf(b))
		return nil
	}
	for i := 0; i < n; i++ {
		if i >= v.Len() {
			return r.Skip((n - i) * width)
		}
		if err := GetScalar(r, elem, v.Index(i)); err != nil {
			return err
		}
	}
	return nil
}
