package archive

import (
	"errors"
	"fmt"

	"github.com/gogpu/bitmap"
	"github.com/gogpu/bitmap/internal/parallel"
	"github.com/gogpu/bitmap/message"
)

// Field names of a layered archive. Every layer is a nested message in the
// "layer" field, bottom-most first, holding the layer attributes next to
// the bitmap archive fields.
const (
	FieldLayer        = "layer"
	FieldLayerName    = "name"
	FieldLayerVisible = "visible"
	FieldLayerOpacity = "opacity"
)

// LayerWhat is the What code of nested layer messages.
const LayerWhat uint32 = 0x4c415952 // "LAYR"

// ArchiveLayers stores layers in msg, replacing any "layer" field already
// present. Options apply to every layer; with WithWorkers layers are
// compressed concurrently. On error msg is not modified.
func ArchiveLayers(layers []*bitmap.Layer, msg *message.Message, opts ...Option) error {
	if msg == nil {
		return fmt.Errorf("%w: nil message", ErrBadArgument)
	}

	for i, l := range layers {
		if l == nil || l.Pixels == nil {
			return fmt.Errorf("%w: layer %d is nil", ErrBadArgument, i)
		}
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	subs := make([]*message.Message, len(layers))
	build := func(i int) error {
		l := layers[i]
		sub := message.New(LayerWhat)
		if err := Archive(l.Pixels, sub, opts...); err != nil {
			return fmt.Errorf("layer %d (%q): %w", i, l.Name, err)
		}
		// Fresh message, distinct names: these cannot fail.
		_ = sub.AddString(FieldLayerName, l.Name)
		_ = sub.AddBool(FieldLayerVisible, l.Visible)
		_ = sub.AddInt32(FieldLayerOpacity, int32(l.Opacity))
		subs[i] = sub
		return nil
	}

	if o.workers == 1 || len(layers) < 2 {
		for i := range layers {
			if err := build(i); err != nil {
				return err
			}
		}
	} else {
		pool := parallel.NewPool(o.workers)
		err := pool.Run(len(layers), build)
		pool.Close()
		if err != nil {
			return err
		}
	}

	msg.Remove(FieldLayer)
	for _, sub := range subs {
		if err := msg.AddMessage(FieldLayer, sub); err != nil {
			return fmt.Errorf("%w: %w", ErrBadArgument, err)
		}
	}
	bitmap.Logger().Debug("archive: stored layers", "count", len(subs))
	return nil
}

// ExtractLayers rebuilds the layers stored by ArchiveLayers. A layer
// without a name is unnamed, without visibility is visible, and without
// opacity is fully opaque. A message with no "layer" field yields no
// layers.
func ExtractLayers(msg *message.Message) ([]*bitmap.Layer, error) {
	if msg == nil {
		return nil, fmt.Errorf("%w: nil message", ErrBadArgument)
	}
	n := msg.CountValues(FieldLayer)
	layers := make([]*bitmap.Layer, 0, n)
	for i := 0; i < n; i++ {
		sub, err := msg.FindMessage(FieldLayer, i)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMissingField, err)
		}
		buf, err := Extract(sub)
		if err != nil {
			return nil, fmt.Errorf("layer %d: %w", i, err)
		}

		l := &bitmap.Layer{Pixels: buf, Visible: true, Opacity: 255}
		if l.Name, err = optional(sub.FindString(FieldLayerName, 0)); err != nil {
			return nil, fmt.Errorf("layer %d: %w", i, err)
		}
		if sub.Has(FieldLayerVisible) {
			if l.Visible, err = sub.FindBool(FieldLayerVisible, 0); err != nil {
				return nil, fmt.Errorf("layer %d: %w: %w", i, ErrMissingField, err)
			}
		}
		if sub.Has(FieldLayerOpacity) {
			op, err := sub.FindInt32(FieldLayerOpacity, 0)
			if err != nil {
				return nil, fmt.Errorf("layer %d: %w: %w", i, ErrMissingField, err)
			}
			if op < 0 || op > 255 {
				return nil, fmt.Errorf("layer %d: %w: opacity %d", i, ErrBadArgument, op)
			}
			l.Opacity = uint8(op)
		}
		layers = append(layers, l)
	}
	return layers, nil
}

// optional turns a missing field into the zero value.
func optional[T any](v T, err error) (T, error) {
	if errors.Is(err, message.ErrNameNotFound) {
		var zero T
		return zero, nil
	}
	if err != nil {
		return v, fmt.Errorf("%w: %w", ErrMissingField, err)
	}
	return v, nil
}
