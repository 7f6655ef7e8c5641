// internal/app/system/avatars/payload.go
package avatars

import (
	"bytes"
	"encoding/base64"
	"image"
	"strings"

	"github.com/stampahq/stampa/internal/app/system/apperr"

	// Raster formats accepted for ingestion. The declared MIME type is
	// untrusted; decodability decides.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ParsePayload splits a data-URI image payload of the form
// "data:<type>/<subtype>;base64,<data>" into the declared MIME subtype and
// the decoded bytes. Any malformed payload is a DecodeError; nothing is
// ever stored for one.
func ParsePayload(payload string) (subtype string, data []byte, err error) {
	head, body, ok := strings.Cut(payload, ",")
	if !ok {
		return "", nil, apperr.New(apperr.DecodeError, "image payload is missing the base64 separator")
	}
	mediaType := head
	if semi := strings.Index(head, ";"); semi >= 0 {
		mediaType = head[:semi]
	}
	mediaType = strings.TrimPrefix(mediaType, "data:")
	_, subtype, ok = strings.Cut(mediaType, "/")
	if !ok || subtype == "" {
		return "", nil, apperr.New(apperr.DecodeError, "image payload has no MIME subtype")
	}
	data, decErr := base64.StdEncoding.DecodeString(body)
	if decErr != nil {
		return "", nil, apperr.Wrap(apperr.DecodeError, decErr, "image payload is not valid base64")
	}
	return subtype, data, nil
}

// DecodeImage validates that data is a decodable raster image and returns
// the detected format name (used as the stored object's extension).
func DecodeImage(data []byte) (format string, err error) {
	_, format, decErr := image.Decode(bytes.NewReader(data))
	if decErr != nil {
		return "", apperr.Wrap(apperr.DecodeError, decErr, "payload is not a decodable image")
	}
	return format, nil
}
