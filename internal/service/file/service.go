package file

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // register PNG decoding
	"io"
	"math"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/cmlabs-hris/chiko-attendance-go/internal/pkg/storage"
	"golang.org/x/image/draw"
)

var ErrUnsupportedImage = errors.New("invalid file type: only jpg, jpeg, png allowed")

// Target size window for stored attendance photos.
const (
	photoMaxBytes = 150 * 1024
	photoMinBytes = 50 * 1024
	photoMinWidth = 600
)

type FileService interface {
	// UploadAttendancePhoto compresses a check-in or check-out photo to JPEG
	// and stores it under attendance/{date}/.
	UploadAttendancePhoto(ctx context.Context, userID string, kind string, at time.Time, file io.Reader, filename string) (string, error)

	DeleteFile(ctx context.Context, key string) error
	FileURL(ctx context.Context, key string) (string, error)
}

type fileServiceImpl struct {
	storage storage.FileStorage
}

func NewFileService(storage storage.FileStorage) FileService {
	return &fileServiceImpl{
		storage: storage,
	}
}

// UploadAttendancePhoto implements FileService. at should already be in
// business-local time so the folder matches the business day.
func (s *fileServiceImpl) UploadAttendancePhoto(ctx context.Context, userID string, kind string, at time.Time, file io.Reader, filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext != ".jpg" && ext != ".jpeg" && ext != ".png" {
		return "", ErrUnsupportedImage
	}

	raw, err := io.ReadAll(file)
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}

	compressed, err := compressImage(raw, photoMaxBytes, photoMinBytes)
	if err != nil {
		return "", fmt.Errorf("failed to compress image: %w", err)
	}

	key := path.Join("attendance", at.Format("2006-01-02"),
		fmt.Sprintf("%s-%s-%d.jpg", userID, kind, at.Unix()))

	stored, err := s.storage.Upload(ctx, bytes.NewReader(compressed), key, "image/jpeg")
	if err != nil {
		return "", fmt.Errorf("failed to upload attendance photo: %w", err)
	}
	return stored, nil
}

func (s *fileServiceImpl) DeleteFile(ctx context.Context, key string) error {
	return s.storage.Delete(ctx, key)
}

func (s *fileServiceImpl) FileURL(ctx context.Context, key string) (string, error) {
	return s.storage.URL(ctx, key)
}

// compressImage re-encodes buffer as JPEG, lowering quality and then
// downscaling until it fits under maxSize. Inputs already inside
// [minSize, maxSize] are returned untouched.
func compressImage(buffer []byte, maxSize int, minSize int) ([]byte, error) {
	if len(buffer) <= maxSize && len(buffer) >= minSize {
		return buffer, nil
	}

	img, _, err := image.Decode(bytes.NewReader(buffer))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	var out []byte
	for quality := 85; quality >= 50; quality -= 5 {
		out, err = encodeJPEG(img, quality)
		if err != nil {
			return nil, err
		}
		if len(out) <= maxSize {
			return out, nil
		}
	}

	// Scale so the area shrinks roughly in proportion to the overshoot,
	// aiming at the middle of the window.
	target := float64(maxSize+minSize) / 2
	ratio := math.Sqrt(target / float64(len(out)))
	bounds := img.Bounds()
	width := int(float64(bounds.Dx()) * ratio)
	if width < photoMinWidth {
		width = photoMinWidth
	}
	if width > bounds.Dx() {
		width = bounds.Dx()
	}
	height := bounds.Dy() * width / bounds.Dx()

	return encodeJPEG(resizeImage(img, width, height), 70)
}

func encodeJPEG(img image.Image, quality int) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("failed to encode JPEG: %w", err)
	}
	return buf.Bytes(), nil
}

// resizeImage scales src with CatmullRom interpolation.
func resizeImage(src image.Image, width, height int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	return dst
}
