package message

import (
	"fmt"
	"image"

	"github.com/fxamacker/cbor/v2"
)

// The flattened form is a CBOR map with small integer keys. Encoding uses
// Core Deterministic Encoding, so equal messages flatten to equal bytes.
type wireMessage struct {
	What   uint32      `cbor:"1,keyasint"`
	Fields []wireField `cbor:"2,keyasint,omitempty"`
}

// wireField stores the values of one field in the slice matching its type;
// all other slices are empty.
type wireField struct {
	Name     string        `cbor:"1,keyasint"`
	Type     Type          `cbor:"2,keyasint"`
	Data     [][]byte      `cbor:"3,keyasint,omitempty"`
	Int32s   []int32       `cbor:"4,keyasint,omitempty"`
	Rects    [][4]int64    `cbor:"5,keyasint,omitempty"`
	Strings  []string      `cbor:"6,keyasint,omitempty"`
	Bools    []bool        `cbor:"7,keyasint,omitempty"`
	Messages []wireMessage `cbor:"8,keyasint,omitempty"`
}

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("message: CBOR encoder initialization failed: " + err.Error())
	}

	decMode, err = cbor.DecOptions{
		DupMapKey:         cbor.DupMapKeyEnforcedAPF,
		MaxNestedLevels:   256,
		ExtraReturnErrors: cbor.ExtraDecErrorUnknownField,
	}.DecMode()
	if err != nil {
		panic("message: CBOR decoder initialization failed: " + err.Error())
	}
}

// Flatten serializes m to CBOR.
func (m *Message) Flatten() ([]byte, error) {
	data, err := encMode.Marshal(m.toWire())
	if err != nil {
		return nil, fmt.Errorf("message: flatten: %w", err)
	}
	return data, nil
}

// Unflatten parses data produced by Flatten. Malformed input, unknown
// field types, duplicate names and values that do not match their field's
// type are reported as ErrCorrupt.
func Unflatten(data []byte) (*Message, error) {
	var w wireMessage
	if err := decMode.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return fromWire(&w)
}

func (m *Message) toWire() wireMessage {
	w := wireMessage{What: m.What}
	for _, f := range m.fields {
		wf := wireField{Name: f.name, Type: f.typ}
		for _, v := range f.values {
			switch v := v.(type) {
			case []byte:
				wf.Data = append(wf.Data, v)
			case int32:
				wf.Int32s = append(wf.Int32s, v)
			case image.Rectangle:
				wf.Rects = append(wf.Rects, [4]int64{
					int64(v.Min.X), int64(v.Min.Y), int64(v.Max.X), int64(v.Max.Y),
				})
			case string:
				wf.Strings = append(wf.Strings, v)
			case bool:
				wf.Bools = append(wf.Bools, v)
			case *Message:
				wf.Messages = append(wf.Messages, v.toWire())
			}
		}
		w.Fields = append(w.Fields, wf)
	}
	return w
}

func fromWire(w *wireMessage) (*Message, error) {
	m := &Message{What: w.What}
	for i := range w.Fields {
		wf := &w.Fields[i]
		if wf.Name == "" {
			return nil, fmt.Errorf("%w: field %d has no name", ErrCorrupt, i)
		}
		if !wf.Type.valid() {
			return nil, fmt.Errorf("%w: field %q has type %s", ErrCorrupt, wf.Name, wf.Type)
		}
		if m.Has(wf.Name) {
			return nil, fmt.Errorf("%w: duplicate field %q", ErrCorrupt, wf.Name)
		}

		counts := [...]int{
			DataType:    len(wf.Data),
			Int32Type:   len(wf.Int32s),
			RectType:    len(wf.Rects),
			StringType:  len(wf.Strings),
			BoolType:    len(wf.Bools),
			MessageType: len(wf.Messages),
		}
		for t, n := range counts {
			if Type(t) != wf.Type && n != 0 {
				return nil, fmt.Errorf("%w: field %q of type %s carries %s values",
					ErrCorrupt, wf.Name, wf.Type, Type(t))
			}
		}
		if counts[wf.Type] == 0 {
			return nil, fmt.Errorf("%w: field %q has no values", ErrCorrupt, wf.Name)
		}

		f := &field{name: wf.Name, typ: wf.Type, values: make([]any, 0, counts[wf.Type])}
		switch wf.Type {
		case DataType:
			for _, v := range wf.Data {
				f.values = append(f.values, cloneBytes(v))
			}
		case Int32Type:
			for _, v := range wf.Int32s {
				f.values = append(f.values, v)
			}
		case RectType:
			for _, v := range wf.Rects {
				f.values = append(f.values, image.Rectangle{
					Min: image.Pt(int(v[0]), int(v[1])),
					Max: image.Pt(int(v[2]), int(v[3])),
				})
			}
		case StringType:
			for _, v := range wf.Strings {
				f.values = append(f.values, v)
			}
		case BoolType:
			for _, v := range wf.Bools {
				f.values = append(f.values, v)
			}
		case MessageType:
			for j := range wf.Messages {
				sub, err := fromWire(&wf.Messages[j])
				if err != nil {
					return nil, err
				}
				f.values = append(f.values, sub)
			}
		}
		m.fields = append(m.fields, f)
	}
	return m, nil
}
