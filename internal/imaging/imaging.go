package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/chai2010/webp"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
)

const (
	MaxUploadBytes = 2 << 20
	MaxSide        = 1024
	ContentType    = "image/webp"
	Extension      = ".webp"
)

var (
	ErrTooLarge    = errors.New("image exceeds the upload limit")
	ErrUnsupported = errors.New("unsupported image format")
)

type Options struct {
	MaxSide int
	Quality float32
}

func DefaultOptions() Options {
	return Options{MaxSide: MaxSide, Quality: 80}
}

// ToWebP decodes a jpeg, png, gif, bmp or webp upload, scales it down so the
// longer side is at most opts.MaxSide and re-encodes it as webp.
func ToWebP(r io.Reader, opts Options) ([]byte, error) {
	raw, err := io.ReadAll(io.LimitReader(r, MaxUploadBytes+1))
	if err != nil {
		return nil, err
	}
	if len(raw) > MaxUploadBytes {
		return nil, ErrTooLarge
	}

	src, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupported, err)
	}

	img := Fit(src, opts.MaxSide)

	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, &webp.Options{Quality: opts.Quality}); err != nil {
		return nil, fmt.Errorf("encode webp: %w", err)
	}
	return buf.Bytes(), nil
}

// Fit returns src unchanged when it already fits in a maxSide square.
func Fit(src image.Image, maxSide int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxSide <= 0 || (w <= maxSide && h <= maxSide) {
		return src
	}

	nw, nh := maxSide, maxSide
	if w >= h {
		nh = h * maxSide / w
	} else {
		nw = w * maxSide / h
	}
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}
