package bridge

import (
	"github.com/roach88/ida/internal/dialog"
	"github.com/roach88/ida/internal/scripterr"
)

// Text and image override hooks. The host asks these whenever it is about
// to show a dialog or a full-screen image. Each hook answers a neutral value
// when no script runs or when the script returns a value of the wrong shape.

// ColorNone marks a dialog color the script left unset.
const ColorNone = -1

// DialogColor is the color override of one dialog.
type DialogColor struct {
	// Main is a palette color 0..15 or ColorNone.
	Main int

	// Start256 and End256 bound a 256-color ramp used when Main is
	// ColorNone. Each is 0..255 or ColorNone.
	Start256 int
	End256   int
}

// DialogSprite is the sprite override of one dialog.
type DialogSprite struct {
	Name string
	Path string
	X    int32
	Y    int32
}

// ControlsDialogText reports whether the script supplies text id. Ids from
// the first mod text id on always belong to the script.
func (b *Bridge) ControlsDialogText(id int) bool {
	if !b.active {
		return false
	}
	if id >= b.config.FirstTextID {
		return true
	}
	res, ok := b.callMethod(textObject, "__isReplaced", id)
	return ok && res.Kind == Bool && res.Bool
}

// DialogFlag returns the dialog flags of a replaced game text.
func (b *Bridge) DialogFlag(id int) uint8 {
	if !b.active || id >= b.config.FirstTextID {
		return 0
	}
	res, _ := b.callMethod(textObject, "__getFlags", id)
	v, ok := res.Uint32()
	if !ok {
		return 0
	}
	return uint8(v)
}

// Text returns the encoded dialog for id: one flags byte, the text bytes,
// then a NUL. The slice is reused and valid only until the next call.
func (b *Bridge) Text(id int) []byte {
	if !b.active {
		return nil
	}
	res, ok := b.callMethod(textObject, "__get", id)
	if !ok || res.Kind != Bytes || len(res.Bytes) == 0 {
		return nil
	}
	b.textBuf = append(append(b.textBuf[:0], res.Bytes...), 0)
	return b.textBuf
}

// TextColor returns the color override for id.
func (b *Bridge) TextColor(id int) DialogColor {
	out := DialogColor{Main: ColorNone, Start256: ColorNone, End256: ColorNone}
	if !b.active {
		return out
	}
	res, ok := b.callMethod(textObject, "__getColor", id)
	if !ok || res.Kind != List || len(res.List) < 3 {
		return out
	}

	out.Main = b.readColor(res.At(0), 15, "Dialog color must be in range 0..15")
	if out.Main != ColorNone {
		return out
	}
	out.Start256 = b.readColor(res.At(1), 255, "Dialog color must be in range 0..255")
	out.End256 = b.readColor(res.At(2), 255, "Dialog color must be in range 0..255")
	return out
}

func (b *Bridge) readColor(r Result, limit uint32, msg string) int {
	v, ok := r.Uint32()
	if !ok {
		return ColorNone
	}
	if v > limit {
		b.logger.Error(msg, "color", v)
		return ColorNone
	}
	return int(v)
}

// DialogSprite returns the sprite override for id. ok is false when the
// script names no sprite or a sprite that was never registered.
func (b *Bridge) DialogSprite(id int) (DialogSprite, bool) {
	if !b.active || len(b.media.sprites) == 0 {
		return DialogSprite{}, false
	}
	res, ok := b.callMethod(textObject, "__getSprite", id)
	if !ok || res.Kind != List || len(res.List) < 3 {
		return DialogSprite{}, false
	}

	name := res.At(0)
	if name.Kind != String || name.Str == "" {
		b.logger.Error("Sprite path is empty", "text", id)
		return DialogSprite{}, false
	}
	out := DialogSprite{Name: name.Str}
	if x, ok := res.At(1).Int32(); ok {
		out.X = x
	}
	if y, ok := res.At(2).Int32(); ok {
		out.Y = y
	}
	path, ok := b.media.resolve(b.media.sprites, out.Name)
	if !ok {
		return DialogSprite{}, false
	}
	out.Path = path
	return out, true
}

// Image returns the path of the image replacing image id.
func (b *Bridge) Image(id uint8) (string, bool) {
	if !b.active || len(b.media.images) == 0 {
		return "", false
	}
	res, ok := b.callMethod(imageObject, "__get", int(id))
	if !ok || res.Kind != String || res.Str == "" {
		return "", false
	}
	return b.media.resolve(b.media.images, res.Str)
}

// EncodeText encodes text for the game font. Unsupported characters become
// dots and are reported in one warning.
func (b *Bridge) EncodeText(text string, flags int64) ([]byte, error) {
	if err := scripterr.CheckUint8("flags", flags); err != nil {
		return nil, err
	}
	out, bad := b.encoder.Encode(text, byte(flags))
	if msg := dialog.Describe(bad); msg != "" {
		b.logger.Warn(msg)
	}
	return out, nil
}

// SetEncoding replaces the non-ASCII character table. Keys must be single
// characters and values bytes. A nil table restores the standard font.
func (b *Bridge) SetEncoding(table map[string]int64) error {
	if table == nil {
		b.encoder = dialog.NewEncoder()
		return nil
	}
	t := make(map[rune]byte, len(table))
	for k, v := range table {
		r := []rune(k)
		if len(r) != 1 {
			return scripterr.Argument("Encoding key %q must be a single character", k)
		}
		if err := scripterr.CheckUint8("encoding value", v); err != nil {
			return err
		}
		t[r[0]] = byte(v)
	}
	b.encoder = dialog.WithTable(t)
	return nil
}
