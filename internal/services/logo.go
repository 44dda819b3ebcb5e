package services

import (
	"errors"
	"fmt"
	"image"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"yocto-invoice/internal/logger"

	"gocv.io/x/gocv"
)

const (
	// LogoHeight is the pixel height a business logo is scaled to
	LogoHeight = 128
	// MaxLogoSide bounds either side of a decoded logo
	MaxLogoSide = 32768
)

var (
	ErrLogoNotFound    = errors.New("logo file not found")
	ErrUnsupportedLogo = errors.New("unsupported logo format")
)

// LogoExtensions lists the file types the logo picker offers
var LogoExtensions = []string{".png", ".jpg", ".jpeg"}

// Logo is a scaled business logo encoded as PNG
type Logo struct {
	PNG    []byte
	Width  int
	Height int
}

// LogoLoader loads and scales a logo from disk
type LogoLoader interface {
	Load(path string) (*Logo, error)
}

// LogoService scales logos with OpenCV
type LogoService struct {
	logger logger.Logger
}

func NewLogoService(log logger.Logger) *LogoService {
	return &LogoService{logger: log}
}

// Load reads the image at path and scales it to LogoHeight pixels high,
// keeping the aspect ratio.
func (ls *LogoService) Load(path string) (*Logo, error) {
	if !IsLogoFile(path) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedLogo, filepath.Ext(path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrLogoNotFound, path)
		}
		return nil, fmt.Errorf("failed to read logo: %w", err)
	}

	mat, err := decodeLogo(data)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	if mat.Empty() {
		return nil, fmt.Errorf("failed to decode logo: empty image")
	}
	if err := validateDimensions(mat.Cols(), mat.Rows()); err != nil {
		return nil, err
	}

	width, height := ScaledSize(mat.Cols(), mat.Rows(), LogoHeight)

	interpolation := gocv.InterpolationArea
	if height > mat.Rows() {
		interpolation = gocv.InterpolationCubic
	}

	resized := gocv.NewMat()
	defer resized.Close()
	gocv.Resize(mat, &resized, image.Point{X: width, Y: height}, 0, 0, interpolation)

	buf, err := gocv.IMEncode(gocv.PNGFileExt, resized)
	if err != nil {
		return nil, fmt.Errorf("failed to encode logo: %w", err)
	}
	defer buf.Close()

	encoded := make([]byte, buf.Len())
	copy(encoded, buf.GetBytes())

	ls.logger.Debug("LogoService", "logo scaled", map[string]interface{}{
		"path":            path,
		"original_width":  mat.Cols(),
		"original_height": mat.Rows(),
		"width":           width,
		"height":          height,
	})

	return &Logo{PNG: encoded, Width: width, Height: height}, nil
}

// decodeLogo keeps the alpha channel of images that have one, as 8-bit
// BGRA. Everything else is decoded as 8-bit BGR.
func decodeLogo(data []byte) (gocv.Mat, error) {
	mat, err := gocv.IMDecode(data, gocv.IMReadUnchanged)
	if err != nil {
		return mat, fmt.Errorf("failed to decode logo: %w", err)
	}
	if mat.Empty() || mat.Channels() != 4 {
		mat.Close()
		mat, err = gocv.IMDecode(data, gocv.IMReadColor)
		if err != nil {
			return mat, fmt.Errorf("failed to decode logo: %w", err)
		}
		return mat, nil
	}

	if mat.Type() == gocv.MatTypeCV16UC4 {
		converted := gocv.NewMat()
		mat.ConvertToWithParams(&converted, gocv.MatTypeCV8UC4, 1.0/257, 0)
		mat.Close()
		return converted, nil
	}
	return mat, nil
}

func validateDimensions(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: invalid dimensions %dx%d", ErrUnsupportedLogo, width, height)
	}
	if width > MaxLogoSide || height > MaxLogoSide {
		return fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrUnsupportedLogo, width, height, MaxLogoSide)
	}
	return nil
}

// ScaledSize fits w x h to the target height, rounding the width
func ScaledSize(w, h, targetHeight int) (int, int) {
	if w <= 0 || h <= 0 {
		return 0, 0
	}
	width := (w*targetHeight + h/2) / h
	if width < 1 {
		width = 1
	}
	return width, targetHeight
}

// IsLogoFile reports whether path has one of LogoExtensions
func IsLogoFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, allowed := range LogoExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}
