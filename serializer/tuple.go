package serializer

// FieldCodec pairs a single tuple field's encoder and decoder so that a
// struct can be treated as a fixed-arity tuple without reflection: the
// caller supplies one FieldCodec per field, in declaration order.
type FieldCodec struct {
	// Encode appends this field's encoding to buf and returns the result.
	Encode func(buf []byte) []byte
	// Decode consumes this field's encoding from data, assigning into the
	// bound field, and returns bytes consumed.
	Decode func(data []byte) (int, error)
}

// StructToBuffer appends every field's encoding, in order, into buf.
func StructToBuffer(buf []byte, fields ...FieldCodec) []byte {
	for _, f := range fields {
		buf = f.Encode(buf)
	}
	return buf
}

// BufferToStruct consumes every field's encoding from data, in order.
// When exact is true, residual trailing bytes after the last field are an
// error; callers that expect more data to follow (e.g. chained parsing of a
// larger frame) should pass exact=false.
func BufferToStruct(data []byte, exact bool, fields ...FieldCodec) (int, error) {
	total := 0
	for i, f := range fields {
		n, err := f.Decode(data[total:])
		if err != nil {
			return 0, errf("field %d: %v", i, err)
		}
		total += n
	}
	if exact && total != len(data) {
		return 0, errf("residual bytes after decoding struct: consumed %d of %d", total, len(data))
	}
	return total, nil
}

// Uint32Field binds dst to a plain uint32 tuple field.
func Uint32Field(dst *uint32) FieldCodec {
	return FieldCodec{
		Encode: func(buf []byte) []byte { return PutUint32(buf, *dst) },
		Decode: func(data []byte) (int, error) {
			v, n, err := GetUint32(data)
			if err != nil {
				return 0, err
			}
			*dst = v
			return n, nil
		},
	}
}

// Uint64Field binds dst to a plain uint64 tuple field.
func Uint64Field(dst *uint64) FieldCodec {
	return FieldCodec{
		Encode: func(buf []byte) []byte { return PutUint64(buf, *dst) },
		Decode: func(data []byte) (int, error) {
			v, n, err := GetUint64(data)
			if err != nil {
				return 0, err
			}
			*dst = v
			return n, nil
		},
	}
}

// StringField binds dst to a length-prefixed string tuple field.
func StringField(dst *string) FieldCodec {
	return FieldCodec{
		Encode: func(buf []byte) []byte { return PutString(buf, *dst) },
		Decode: func(data []byte) (int, error) {
			v, n, err := GetString(data)
			if err != nil {
				return 0, err
			}
			*dst = v
			return n, nil
		},
	}
}

// BytesField binds dst to a length-prefixed byte-slice tuple field.
func BytesField(dst *[]byte) FieldCodec {
	return FieldCodec{
		Encode: func(buf []byte) []byte { return PutBytes(buf, *dst) },
		Decode: func(data []byte) (int, error) {
			v, n, err := GetBytes(data)
			if err != nil {
				return 0, err
			}
			*dst = v
			return n, nil
		},
	}
}

// StringMapField binds dst to a count-prefixed string->string map field.
func StringMapField(dst *map[string]string) FieldCodec {
	return FieldCodec{
		Encode: func(buf []byte) []byte { return PutStringMap(buf, *dst) },
		Decode: func(data []byte) (int, error) {
			v, n, err := GetStringMap(data)
			if err != nil {
				return 0, err
			}
			*dst = v
			return n, nil
		},
	}
}
