// Package message provides a typed, ordered key/value container.
//
// A Message carries a What code and a list of named fields. Each field has
// a single Type and holds one or more values of that type, in insertion
// order. Field order is preserved as well, so a flattened message always
// lists its fields in the order they were first added.
//
// Messages are the storage format for bitmap archives (see package
// archive), and can be flattened to CBOR with [Message.Flatten].
//
// A Message is not safe for concurrent mutation.
package message

import (
	"errors"
	"fmt"
	"image"
)

// Type identifies the kind of values a field holds.
type Type uint8

// Field types. The numeric values are part of the flattened format.
const (
	DataType    Type = 1
	Int32Type   Type = 2
	RectType    Type = 3
	StringType  Type = 4
	BoolType    Type = 5
	MessageType Type = 6
)

// String returns the name of the type.
func (t Type) String() string {
	switch t {
	case DataType:
		return "data"
	case Int32Type:
		return "int32"
	case RectType:
		return "rect"
	case StringType:
		return "string"
	case BoolType:
		return "bool"
	case MessageType:
		return "message"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(t))
	}
}

func (t Type) valid() bool { return t >= DataType && t <= MessageType }

// Errors returned by field access.
var (
	// ErrNameNotFound is returned when no field has the requested name.
	ErrNameNotFound = errors.New("message: name not found")

	// ErrTypeMismatch is returned when a field exists with a different type.
	ErrTypeMismatch = errors.New("message: type mismatch")

	// ErrIndexOutOfRange is returned when a field has fewer values than
	// the requested index.
	ErrIndexOutOfRange = errors.New("message: index out of range")

	// ErrBadName is returned for the empty field name.
	ErrBadName = errors.New("message: bad field name")

	// ErrCorrupt is returned by Unflatten for malformed input.
	ErrCorrupt = errors.New("message: corrupt flattened data")
)

type field struct {
	name   string
	typ    Type
	values []any
}

// Message is an ordered collection of named, typed, multi-valued fields.
// The zero value is an empty message ready to use.
type Message struct {
	What   uint32
	fields []*field
}

// New returns an empty message with the given What code.
func New(what uint32) *Message {
	return &Message{What: what}
}

func (m *Message) lookup(name string) *field {
	for _, f := range m.fields {
		if f.name == name {
			return f
		}
	}
	return nil
}

func (m *Message) add(name string, typ Type, v any) error {
	if name == "" {
		return ErrBadName
	}
	f := m.lookup(name)
	if f == nil {
		m.fields = append(m.fields, &field{name: name, typ: typ, values: []any{v}})
		return nil
	}
	if f.typ != typ {
		return fmt.Errorf("%w: field %q is %s, not %s", ErrTypeMismatch, name, f.typ, typ)
	}
	f.values = append(f.values, v)
	return nil
}

func (m *Message) find(name string, typ Type, index int) (any, error) {
	f := m.lookup(name)
	if f == nil {
		return nil, fmt.Errorf("%w: %q", ErrNameNotFound, name)
	}
	if f.typ != typ {
		return nil, fmt.Errorf("%w: field %q is %s, not %s", ErrTypeMismatch, name, f.typ, typ)
	}
	if index < 0 || index >= len(f.values) {
		return nil, fmt.Errorf("%w: field %q has %d values, index %d", ErrIndexOutOfRange, name, len(f.values), index)
	}
	return f.values[index], nil
}

func (m *Message) replace(name string, typ Type, index int, v any) error {
	if _, err := m.find(name, typ, index); err != nil {
		return err
	}
	m.lookup(name).values[index] = v
	return nil
}

// AddData appends a copy of b to the data field name.
func (m *Message) AddData(name string, b []byte) error {
	return m.add(name, DataType, cloneBytes(b))
}

// AddInt32 appends v to the int32 field name.
func (m *Message) AddInt32(name string, v int32) error {
	return m.add(name, Int32Type, v)
}

// AddRect appends r to the rect field name.
func (m *Message) AddRect(name string, r image.Rectangle) error {
	return m.add(name, RectType, r)
}

// AddString appends s to the string field name.
func (m *Message) AddString(name, s string) error {
	return m.add(name, StringType, s)
}

// AddBool appends v to the bool field name.
func (m *Message) AddBool(name string, v bool) error {
	return m.add(name, BoolType, v)
}

// AddMessage appends a deep copy of sub to the message field name.
func (m *Message) AddMessage(name string, sub *Message) error {
	if sub == nil {
		sub = &Message{}
	}
	return m.add(name, MessageType, sub.Clone())
}

// FindData returns the index-th value of the data field name. The returned
// slice aliases the message's storage.
func (m *Message) FindData(name string, index int) ([]byte, error) {
	v, err := m.find(name, DataType, index)
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

// FindInt32 returns the index-th value of the int32 field name.
func (m *Message) FindInt32(name string, index int) (int32, error) {
	v, err := m.find(name, Int32Type, index)
	if err != nil {
		return 0, err
	}
	return v.(int32), nil
}

// FindRect returns the index-th value of the rect field name.
func (m *Message) FindRect(name string, index int) (image.Rectangle, error) {
	v, err := m.find(name, RectType, index)
	if err != nil {
		return image.Rectangle{}, err
	}
	return v.(image.Rectangle), nil
}

// FindString returns the index-th value of the string field name.
func (m *Message) FindString(name string, index int) (string, error) {
	v, err := m.find(name, StringType, index)
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// FindBool returns the index-th value of the bool field name.
func (m *Message) FindBool(name string, index int) (bool, error) {
	v, err := m.find(name, BoolType, index)
	if err != nil {
		return false, err
	}
	return v.(bool), nil
}

// FindMessage returns the index-th value of the message field name.
// The result is shared with m; Clone it before modifying.
func (m *Message) FindMessage(name string, index int) (*Message, error) {
	v, err := m.find(name, MessageType, index)
	if err != nil {
		return nil, err
	}
	return v.(*Message), nil
}

// ReplaceData overwrites the index-th value of the data field name with a
// copy of b.
func (m *Message) ReplaceData(name string, index int, b []byte) error {
	return m.replace(name, DataType, index, cloneBytes(b))
}

// ReplaceInt32 overwrites the index-th value of the int32 field name.
func (m *Message) ReplaceInt32(name string, index int, v int32) error {
	return m.replace(name, Int32Type, index, v)
}

// ReplaceRect overwrites the index-th value of the rect field name.
func (m *Message) ReplaceRect(name string, index int, r image.Rectangle) error {
	return m.replace(name, RectType, index, r)
}

// ReplaceString overwrites the index-th value of the string field name.
func (m *Message) ReplaceString(name string, index int, s string) error {
	return m.replace(name, StringType, index, s)
}

// ReplaceBool overwrites the index-th value of the bool field name.
func (m *Message) ReplaceBool(name string, index int, v bool) error {
	return m.replace(name, BoolType, index, v)
}

// ReplaceMessage overwrites the index-th value of the message field name
// with a deep copy of sub.
func (m *Message) ReplaceMessage(name string, index int, sub *Message) error {
	if sub == nil {
		sub = &Message{}
	}
	return m.replace(name, MessageType, index, sub.Clone())
}

// Remove deletes the field name and all its values. It reports whether the
// field existed.
func (m *Message) Remove(name string) bool {
	for i, f := range m.fields {
		if f.name == name {
			m.fields = append(m.fields[:i], m.fields[i+1:]...)
			return true
		}
	}
	return false
}

// Has reports whether a field called name exists.
func (m *Message) Has(name string) bool { return m.lookup(name) != nil }

// TypeOf returns the type of the field name.
func (m *Message) TypeOf(name string) (Type, bool) {
	f := m.lookup(name)
	if f == nil {
		return 0, false
	}
	return f.typ, true
}

// CountValues returns the number of values stored under name, or 0 when
// the field does not exist.
func (m *Message) CountValues(name string) int {
	f := m.lookup(name)
	if f == nil {
		return 0
	}
	return len(f.values)
}

// Names returns the field names in insertion order.
func (m *Message) Names() []string {
	names := make([]string, len(m.fields))
	for i, f := range m.fields {
		names[i] = f.name
	}
	return names
}

// IsEmpty reports whether m has no fields.
func (m *Message) IsEmpty() bool { return len(m.fields) == 0 }

// MakeEmpty removes every field. What is kept.
func (m *Message) MakeEmpty() { m.fields = nil }

// Clone returns a deep copy of m.
func (m *Message) Clone() *Message {
	c := &Message{What: m.What, fields: make([]*field, len(m.fields))}
	for i, f := range m.fields {
		nf := &field{name: f.name, typ: f.typ, values: make([]any, len(f.values))}
		for j, v := range f.values {
			switch v := v.(type) {
			case []byte:
				nf.values[j] = cloneBytes(v)
			case *Message:
				nf.values[j] = v.Clone()
			default:
				nf.values[j] = v
			}
		}
		c.fields[i] = nf
	}
	return c
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return []byte{}
	}
	return append(make([]byte, 0, len(b)), b...)
}
