package avatars_test

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stampahq/stampa/internal/app/system/avatars"
)

func TestGenerateInitials(t *testing.T) {
	data, err := avatars.GenerateInitials("marcel")
	if err != nil {
		t.Fatalf("GenerateInitials failed: %v", err)
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("generated avatar is not a valid PNG: %v", err)
	}
	bounds := img.Bounds()
	if bounds.Dx() != 200 || bounds.Dy() != 200 {
		t.Errorf("size: got %dx%d, want 200x200", bounds.Dx(), bounds.Dy())
	}
}

func TestGenerateInitials_SingleRune(t *testing.T) {
	if _, err := avatars.GenerateInitials("x"); err != nil {
		t.Fatalf("GenerateInitials failed for single-rune username: %v", err)
	}
}

func TestGenerateInitials_Empty(t *testing.T) {
	if _, err := avatars.GenerateInitials("   "); err == nil {
		t.Fatal("expected an error for a blank username")
	}
}
