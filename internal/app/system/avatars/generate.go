// internal/app/system/avatars/generate.go
package avatars

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"

	"github.com/stampahq/stampa/internal/app/system/apperr"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const generatedSize = 200

// GenerateInitials renders a 200x200 PNG identicon for a fresh account:
// a teal square with the first letters of the username centered on it.
// The glyphs are drawn at basicfont scale and upsampled, so the result is
// intentionally blocky.
func GenerateInitials(username string) ([]byte, error) {
	initials := extractInitials(username)

	face := basicfont.Face7x13
	textW := font.MeasureString(face, initials).Ceil()
	textH := face.Metrics().Ascent.Ceil() + face.Metrics().Descent.Ceil()
	if textW == 0 {
		return nil, apperr.New(apperr.DecodeError, "no drawable initials for username")
	}

	glyphs := image.NewRGBA(image.Rect(0, 0, textW, textH))
	drawer := font.Drawer{
		Dst:  glyphs,
		Src:  image.NewUniform(color.RGBA{R: 235, G: 235, B: 235, A: 255}),
		Face: face,
		Dot:  fixed.P(0, face.Metrics().Ascent.Ceil()),
	}
	drawer.DrawString(initials)

	out := image.NewRGBA(image.Rect(0, 0, generatedSize, generatedSize))
	background := color.RGBA{R: 0, G: 201, B: 212, A: 204}
	xdraw.Draw(out, out.Bounds(), image.NewUniform(background), image.Point{}, xdraw.Src)

	// Scale the glyph strip into the middle three-fifths of the square,
	// preserving its aspect ratio.
	targetW := generatedSize * 3 / 5
	targetH := targetW * textH / textW
	if targetH > generatedSize*3/5 {
		targetH = generatedSize * 3 / 5
		targetW = targetH * textW / textH
	}
	x0 := (generatedSize - targetW) / 2
	y0 := (generatedSize - targetH) / 2
	target := image.Rect(x0, y0, x0+targetW, y0+targetH)
	xdraw.NearestNeighbor.Scale(out, target, glyphs, glyphs.Bounds(), xdraw.Over, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		return nil, apperr.Wrap(apperr.DecodeError, err, "could not encode generated avatar")
	}
	return buf.Bytes(), nil
}

func extractInitials(username string) string {
	runes := []rune(strings.ToUpper(strings.TrimSpace(username)))
	if len(runes) == 0 {
		return ""
	}
	if len(runes) == 1 {
		return string(runes)
	}
	return string(runes[:2])
}
