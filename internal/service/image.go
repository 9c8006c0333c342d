package service

import (
	"bytes"
	"errors"
	"image"
	"net/http"

	"github.com/disintegration/imaging"
)

const (
	jpegQuality = 80
	thumbSize   = 60

	// PNG крупнее этого порога пережимается в JPEG.
	pngConvertThreshold = 1 << 20
)

// ErrUnsupportedImage — формат вне списка разрешённых (jpeg/png).
// HEIC/HEIF отклоняется сразу, без попытки конвертации.
var ErrUnsupportedImage = errors.New("unsupported image format")

// ProcessedImage — результат пайплайна: байты для хранения и их MIME.
type ProcessedImage struct {
	Data        []byte
	ContentType string
}

// heicBrands — сигнатуры ISO-BMFF контейнеров, которые присылает iPhone.
var heicBrands = [][]byte{
	[]byte("ftypheic"),
	[]byte("ftypheix"),
	[]byte("ftyphevc"),
	[]byte("ftypmif1"),
	[]byte("ftypmsf1"),
}

func isHEIC(data []byte) bool {
	if len(data) < 12 {
		return false
	}
	head := data[4:12]
	for _, brand := range heicBrands {
		if bytes.Equal(head, brand) {
			return true
		}
	}
	return false
}

// ProcessUpload валидирует и пережимает загруженное фото.
// JPEG пере-кодируется с качеством 80; PNG крупнее 1 МБ конвертируется
// в JPEG, мелкий PNG сохраняется как есть.
func ProcessUpload(data []byte) (*ProcessedImage, error) {
	if isHEIC(data) {
		return nil, ErrUnsupportedImage
	}

	// тип определяем по содержимому, а не по заголовку клиента
	switch http.DetectContentType(data) {
	case "image/jpeg", "image/png":
	default:
		return nil, ErrUnsupportedImage
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, ErrUnsupportedImage
	}

	switch format {
	case "jpeg":
		out, err := encodeJPEG(img)
		if err != nil {
			return nil, err
		}
		return &ProcessedImage{Data: out, ContentType: "image/jpeg"}, nil
	case "png":
		if len(data) <= pngConvertThreshold {
			return &ProcessedImage{Data: data, ContentType: "image/png"}, nil
		}
		out, err := encodeJPEG(img)
		if err != nil {
			return nil, err
		}
		return &ProcessedImage{Data: out, ContentType: "image/jpeg"}, nil
	default:
		return nil, ErrUnsupportedImage
	}
}

// MakeThumbnail строит квадратную миниатюру 60×60 (cover-crop) в JPEG.
func MakeThumbnail(data []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	thumb := imaging.Fill(img, thumbSize, thumbSize, imaging.Center, imaging.Lanczos)
	return encodeJPEG(thumb)
}

func encodeJPEG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
