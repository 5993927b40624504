// Package codec implements the schema-versioned wire format used by the game
// service: a Wrapper envelope carrying a fully-qualified message name and an
// opaque payload, decoded field-by-field with the protobuf wire format.
//
// The server hands out its schema definition at connect time, so there are no
// generated stubs here; every message the collector understands is decoded
// explicitly and anything else is surfaced as unknown rather than skipped.
package codec

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// Wrapper is the outer envelope around every message on the wire
type Wrapper struct {
	Name string // fully-qualified message name, e.g. ".lq.RecordDiscardTile"
	Data []byte
}

// UnmarshalWrapper decodes one envelope
func UnmarshalWrapper(b []byte) (*Wrapper, error) {
	w := &Wrapper{}
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, fmt.Errorf("wrapper: %w", protowire.ParseError(n))
		}
		b = b[n:]
		switch num {
		case 1:
			v, n := protowire.ConsumeString(b)
			if n < 0 {
				return nil, fmt.Errorf("wrapper name: %w", protowire.ParseError(n))
			}
			w.Name = v
			b = b[n:]
		case 2:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, fmt.Errorf("wrapper data: %w", protowire.ParseError(n))
			}
			w.Data = v
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return nil, fmt.Errorf("wrapper field %d: %w", num, protowire.ParseError(n))
			}
			b = b[n:]
		}
	}
	return w, nil
}

// MarshalWrapper encodes one envelope
func MarshalWrapper(w *Wrapper) []byte {
	var b []byte
	b = protowire.AppendTag(b, 1, protowire.BytesType)
	b = protowire.AppendString(b, w.Name)
	b = protowire.AppendTag(b, 2, protowire.BytesType)
	b = protowire.AppendBytes(b, w.Data)
	return b
}

// RecordSet is the decoded match payload: the ordered event log, each entry
// itself a Wrapper envelope
type RecordSet struct {
	Records [][]byte
}

// UnmarshalRecordSet decodes a ".lq.GameDetailRecords" payload
func UnmarshalRecordSet(b []byte) (*RecordSet, error) {
	rs := &RecordSet{}
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, fmt.Errorf("record set: %w", protowire.ParseError(n))
		}
		b = b[n:]
		switch num {
		case 1:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, fmt.Errorf("record set entry: %w", protowire.ParseError(n))
			}
			rs.Records = append(rs.Records, v)
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return nil, fmt.Errorf("record set field %d: %w", num, protowire.ParseError(n))
			}
			b = b[n:]
		}
	}
	return rs, nil
}

// MarshalRecordSet encodes a ".lq.GameDetailRecords" payload
func MarshalRecordSet(rs *RecordSet) []byte {
	var b []byte
	for _, rec := range rs.Records {
		b = protowire.AppendTag(b, 1, protowire.BytesType)
		b = protowire.AppendBytes(b, rec)
	}
	return b
}

// UnmarshalSchemaNotice decodes the session schema notice pushed by the
// server after the handshake: the codec version and the raw definition the
// server encodes records with.
func UnmarshalSchemaNotice(b []byte) (version string, definition []byte, err error) {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return "", nil, protowire.ParseError(n)
		}
		b = b[n:]
		switch {
		case num == 1 && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(b)
			if n < 0 {
				return "", nil, protowire.ParseError(n)
			}
			version = v
			b = b[n:]
		case num == 2 && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return "", nil, protowire.ParseError(n)
			}
			definition = v
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return "", nil, protowire.ParseError(n)
			}
			b = b[n:]
		}
	}
	return version, definition, nil
}

// MarshalSchemaNotice encodes a session schema notice
func MarshalSchemaNotice(version string, definition []byte) []byte {
	var b []byte
	b = appendString(b, 1, version)
	b = appendMessage(b, 2, definition)
	return b
}

// appendBool writes a varint-encoded bool field
func appendBool(b []byte, num protowire.Number, v bool) []byte {
	b = protowire.AppendTag(b, num, protowire.VarintType)
	if v {
		b = protowire.AppendVarint(b, 1)
	} else {
		b = protowire.AppendVarint(b, 0)
	}
	return b
}

// appendInt writes a varint-encoded int field (proto3 int32/int64 semantics:
// negative values take the full ten bytes)
func appendInt(b []byte, num protowire.Number, v int64) []byte {
	b = protowire.AppendTag(b, num, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(v))
	return b
}

// appendString writes a length-delimited string field
func appendString(b []byte, num protowire.Number, v string) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	b = protowire.AppendString(b, v)
	return b
}

// appendMessage writes a length-delimited embedded message field
func appendMessage(b []byte, num protowire.Number, v []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	b = protowire.AppendBytes(b, v)
	return b
}
