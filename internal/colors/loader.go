package colors

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	// TargetSize bounds the longest side of a decoded image before palette
	// extraction.
	TargetSize = 128

	maxImageBytes = 10 << 20
)

// ImageSource produces a decoded, downscaled image for a URL.
type ImageSource interface {
	Load(ctx context.Context, url string) (image.Image, error)
}

// ImageLoader fetches images over HTTP.
type ImageLoader struct {
	client *http.Client
	size   int
}

func NewImageLoader(client *http.Client) *ImageLoader {
	if client == nil {
		client = http.DefaultClient
	}
	return &ImageLoader{client: client, size: TargetSize}
}

func (l *ImageLoader) Load(ctx context.Context, url string) (image.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build image request: %w", err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch image: status %d", resp.StatusCode)
	}

	img, _, err := image.Decode(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return Downscale(img, l.size), nil
}

// Downscale shrinks img so its longest side is at most size, keeping the
// aspect ratio. Smaller images are returned as is.
func Downscale(img image.Image, size int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= size && h <= size {
		return img
	}

	nw, nh := size, size
	if w > h {
		nh = max(1, h*size/w)
	} else {
		nw = max(1, w*size/h)
	}
	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}
