package services

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"yocto-invoice/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScaledSize(t *testing.T) {
	tests := []struct {
		name         string
		w, h         int
		wantW, wantH int
	}{
		{"wide", 512, 256, 256, 128},
		{"tall", 100, 400, 32, 128},
		{"upscale", 30, 20, 192, 128},
		{"rounds", 333, 256, 167, 128},
		{"sliver", 1, 1000, 1, 128},
		{"empty", 0, 10, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := ScaledSize(tt.w, tt.h, LogoHeight)
			assert.Equal(t, tt.wantW, w)
			assert.Equal(t, tt.wantH, h)
		})
	}
}

func TestIsLogoFile(t *testing.T) {
	assert.True(t, IsLogoFile("/home/me/logo.PNG"))
	assert.True(t, IsLogoFile("logo.jpeg"))
	assert.True(t, IsLogoFile("logo.jpg"))
	assert.False(t, IsLogoFile("logo.gif"))
	assert.False(t, IsLogoFile("logo"))
}

func TestLogoService_Errors(t *testing.T) {
	svc := NewLogoService(logger.NoOpLogger{})

	_, err := svc.Load(filepath.Join(t.TempDir(), "absent.png"))
	assert.ErrorIs(t, err, ErrLogoNotFound)

	_, err = svc.Load("logo.svg")
	assert.ErrorIs(t, err, ErrUnsupportedLogo)

	broken := filepath.Join(t.TempDir(), "broken.png")
	require.NoError(t, os.WriteFile(broken, []byte("not a png"), 0o600))
	_, err = svc.Load(broken)
	assert.Error(t, err)
}

func TestValidateDimensions(t *testing.T) {
	assert.NoError(t, validateDimensions(400, 200))
	assert.ErrorIs(t, validateDimensions(0, 200), ErrUnsupportedLogo)
	assert.ErrorIs(t, validateDimensions(MaxLogoSide+1, 10), ErrUnsupportedLogo)
}

func TestLogoService_ScalesToLogoHeight(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 400, 200))
	for x := 0; x < 400; x++ {
		for y := 0; y < 200; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: uint8(y), B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	path := filepath.Join(t.TempDir(), "logo.png")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))

	logo, err := NewLogoService(logger.NoOpLogger{}).Load(path)
	require.NoError(t, err)

	assert.Equal(t, 256, logo.Width)
	assert.Equal(t, 128, logo.Height)

	decoded, err := png.Decode(bytes.NewReader(logo.PNG))
	require.NoError(t, err)
	assert.Equal(t, image.Pt(256, 128), decoded.Bounds().Size())
}

func TestLogoService_KeepsTransparency(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 400, 200))
	for x := 0; x < 400; x++ {
		for y := 0; y < 200; y++ {
			if x >= 200 {
				img.Set(x, y, color.NRGBA{R: 20, G: 60, B: 200, A: 255})
			}
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	path := filepath.Join(t.TempDir(), "logo.png")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))

	logo, err := NewLogoService(logger.NoOpLogger{}).Load(path)
	require.NoError(t, err)

	decoded, err := png.Decode(bytes.NewReader(logo.PNG))
	require.NoError(t, err)

	alpha := func(x, y int) uint8 {
		return color.NRGBAModel.Convert(decoded.At(x, y)).(color.NRGBA).A
	}
	assert.Equal(t, uint8(0), alpha(10, 64))
	assert.Equal(t, uint8(255), alpha(240, 64))
}
