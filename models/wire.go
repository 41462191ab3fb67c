package models

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"google.golang.org/protobuf/encoding/protowire"
)

// ErrMalformed is returned when bytes do not parse as the expected record.
var ErrMalformed = errors.New("malformed record")

func malformed(record string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrMalformed, record, err)
}

// Encoding helpers. Fields are appended in ascending field-number order and
// proto3 default values are omitted, so the same record always yields the
// same bytes.

func appendString(b []byte, num protowire.Number, s string) []byte {
	if s == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, s)
}

func appendBytes(b []byte, num protowire.Number, v []byte) []byte {
	if len(v) == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, v)
}

func appendStrings(b []byte, num protowire.Number, ss []string) []byte {
	for _, s := range ss {
		b = protowire.AppendTag(b, num, protowire.BytesType)
		b = protowire.AppendString(b, s)
	}
	return b
}

func appendEnum(b []byte, num protowire.Number, v int32) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, uint64(int64(v)))
}

func appendMessage(b []byte, num protowire.Number, msg []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, msg)
}

// field is one decoded top-level field of a record.
type field struct {
	num    protowire.Number
	typ    protowire.Type
	raw    []byte
	varint uint64
}

func (f field) str() (string, error) {
	if f.typ != protowire.BytesType {
		return "", fmt.Errorf("field %d: unexpected wire type %d", f.num, f.typ)
	}
	if !utf8.Valid(f.raw) {
		return "", fmt.Errorf("field %d: invalid UTF-8", f.num)
	}
	return string(f.raw), nil
}

func (f field) bytes() ([]byte, error) {
	if f.typ != protowire.BytesType {
		return nil, fmt.Errorf("field %d: unexpected wire type %d", f.num, f.typ)
	}
	out := make([]byte, len(f.raw))
	copy(out, f.raw)
	return out, nil
}

func (f field) enum() (int32, error) {
	if f.typ != protowire.VarintType {
		return 0, fmt.Errorf("field %d: unexpected wire type %d", f.num, f.typ)
	}
	return int32(f.varint), nil
}

// walkFields calls fn for every field in b. Unknown fields are passed to fn
// too and should be ignored there.
func walkFields(b []byte, fn func(f field) error) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]

		f := field{num: num, typ: typ}
		switch typ {
		case protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return fmt.Errorf("field %d: %w", num, protowire.ParseError(n))
			}
			f.raw = v
			b = b[n:]
		case protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return fmt.Errorf("field %d: %w", num, protowire.ParseError(n))
			}
			f.varint = v
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return fmt.Errorf("field %d: %w", num, protowire.ParseError(n))
			}
			b = b[n:]
		}

		if err := fn(f); err != nil {
			return err
		}
	}
	return nil
}
