package archive

import (
	"errors"
	"image"
	"testing"

	"github.com/gogpu/bitmap"
	"github.com/gogpu/bitmap/message"
)

func TestLayersRoundTrip(t *testing.T) {
	background, _ := bitmap.NewLayer("background", 8, 8)
	bitmap.ClearArea(background.Pixels, bitmap.Blue, background.Pixels.Bounds())

	sprite := &bitmap.Layer{Name: "sprite", Pixels: noisy(t, 3, 2, 14), Visible: true, Opacity: 200}
	sprite.Pixels.(*bitmap.Buffer).SetOrigin(image.Pt(4, 5))

	hidden, _ := bitmap.NewLayer("hidden", 8, 8)
	hidden.Visible = false

	layers := []*bitmap.Layer{background, sprite, hidden}
	msg := message.New(0)
	if err := ArchiveLayers(layers, msg, WithCompression(CompressionLZ4)); err != nil {
		t.Fatalf("ArchiveLayers() = %v", err)
	}
	if n := msg.CountValues(FieldLayer); n != 3 {
		t.Fatalf("layer count = %d, want 3", n)
	}

	data, _ := msg.Flatten()
	restored, err := message.Unflatten(data)
	if err != nil {
		t.Fatalf("Unflatten() = %v", err)
	}
	got, err := ExtractLayers(restored)
	if err != nil {
		t.Fatalf("ExtractLayers() = %v", err)
	}

	for i, want := range layers {
		if got[i].Name != want.Name || got[i].Visible != want.Visible || got[i].Opacity != want.Opacity {
			t.Errorf("layer %d = %q visible=%v opacity=%d, want %q visible=%v opacity=%d",
				i, got[i].Name, got[i].Visible, got[i].Opacity, want.Name, want.Visible, want.Opacity)
		}
		samePixels(t, got[i].Pixels, want.Pixels)
	}

	// Flattening the restored stack gives the same image.
	a, _ := bitmap.NewBuffer(8, 8)
	b, _ := bitmap.NewBuffer(8, 8)
	bitmap.Composite(a, layers, a.Bounds())
	bitmap.Composite(b, got, b.Bounds())
	samePixels(t, b, a)
}

func TestExtractLayersDefaults(t *testing.T) {
	sub := message.New(LayerWhat)
	if err := Archive(noisy(t, 2, 2, 15), sub); err != nil {
		t.Fatalf("Archive() = %v", err)
	}
	msg := message.New(0)
	_ = msg.AddMessage(FieldLayer, sub)

	got, err := ExtractLayers(msg)
	if err != nil {
		t.Fatalf("ExtractLayers() = %v", err)
	}
	if len(got) != 1 || got[0].Name != "" || !got[0].Visible || got[0].Opacity != 255 {
		t.Errorf("defaults = %+v", got[0])
	}

	none, err := ExtractLayers(message.New(0))
	if err != nil || len(none) != 0 {
		t.Errorf("ExtractLayers(empty) = %v, %v", none, err)
	}
}

func TestLayersErrors(t *testing.T) {
	withLayer := func(edit func(sub *message.Message)) *message.Message {
		sub := message.New(LayerWhat)
		if err := Archive(noisy(t, 2, 2, 16), sub); err != nil {
			t.Fatalf("Archive() = %v", err)
		}
		edit(sub)
		msg := message.New(0)
		_ = msg.AddMessage(FieldLayer, sub)
		return msg
	}

	tests := []struct {
		name    string
		msg     *message.Message
		wantErr error
	}{
		{"nil message", nil, ErrBadArgument},
		{"opacity out of range", withLayer(func(m *message.Message) { _ = m.AddInt32(FieldLayerOpacity, 300) }), ErrBadArgument},
		{"name of wrong type", withLayer(func(m *message.Message) { _ = m.AddInt32(FieldLayerName, 1) }), ErrMissingField},
		{"visible of wrong type", withLayer(func(m *message.Message) { _ = m.AddString(FieldLayerVisible, "yes") }), ErrMissingField},
		{"layer without pixels", withLayer(func(m *message.Message) { m.Remove(FieldData) }), ErrMissingField},
		{"layer of wrong type", func() *message.Message {
			m := message.New(0)
			_ = m.AddString(FieldLayer, "not a message")
			return m
		}(), ErrMissingField},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			layers, err := ExtractLayers(tt.msg)
			if !errors.Is(err, tt.wantErr) || layers != nil {
				t.Errorf("ExtractLayers() = %v, %v; want %v", layers, err, tt.wantErr)
			}
		})
	}
}

func TestArchiveLayersFailureLeavesMessage(t *testing.T) {
	good, _ := bitmap.NewLayer("good", 2, 2)
	bad := &bitmap.Layer{Name: "bad", Pixels: &bitmap.Buffer{}}

	msg := message.New(0)
	_ = msg.AddString(FieldLayer, "previous")

	err := ArchiveLayers([]*bitmap.Layer{good, bad}, msg)
	if !errors.Is(err, ErrBadArgument) {
		t.Fatalf("ArchiveLayers() error = %v, want ErrBadArgument", err)
	}
	if s, _ := msg.FindString(FieldLayer, 0); s != "previous" {
		t.Error("message modified by a failed ArchiveLayers")
	}

	if err := ArchiveLayers([]*bitmap.Layer{nil}, msg); !errors.Is(err, ErrBadArgument) {
		t.Errorf("ArchiveLayers(nil layer) = %v", err)
	}
	if err := ArchiveLayers(nil, nil); !errors.Is(err, ErrBadArgument) {
		t.Errorf("ArchiveLayers(nil message) = %v", err)
	}
}

func TestArchiveLayersConcurrent(t *testing.T) {
	layers := make([]*bitmap.Layer, 12)
	for i := range layers {
		layers[i] = &bitmap.Layer{
			Name:    string(rune('a' + i)),
			Pixels:  noisy(t, 5+i, 3, int64(40+i)),
			Visible: i%3 != 0,
			Opacity: uint8(20 * i),
		}
	}

	for _, workers := range []int{0, 3} {
		msg := message.New(0)
		if err := ArchiveLayers(layers, msg, WithWorkers(workers), WithCompression(CompressionLZO)); err != nil {
			t.Fatalf("ArchiveLayers(workers=%d) = %v", workers, err)
		}
		got, err := ExtractLayers(msg)
		if err != nil {
			t.Fatalf("ExtractLayers() = %v", err)
		}
		if len(got) != len(layers) {
			t.Fatalf("got %d layers, want %d", len(got), len(layers))
		}
		for i, want := range layers {
			if got[i].Name != want.Name || got[i].Opacity != want.Opacity {
				t.Errorf("workers=%d: layer %d out of order: %q", workers, i, got[i].Name)
			}
			samePixels(t, got[i].Pixels, want.Pixels)
		}
	}

	bad := append([]*bitmap.Layer{}, layers...)
	bad[7] = &bitmap.Layer{Name: "empty", Pixels: &bitmap.Buffer{}}
	msg := message.New(0)
	err := ArchiveLayers(bad, msg, WithWorkers(4))
	if !errors.Is(err, ErrBadArgument) {
		t.Fatalf("ArchiveLayers() error = %v, want ErrBadArgument", err)
	}
	if !msg.IsEmpty() {
		t.Error("message modified by a failed concurrent ArchiveLayers")
	}
}
