// Package background loads the image the overlay is composited over.
package background

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrUnavailable reports a background that could not be fetched or decoded.
var ErrUnavailable = errors.New("background unavailable")

// Image is a decoded background together with where it came from.
type Image struct {
	Source string
	Format string
	Img    image.Image
}

func (i *Image) Width() int  { return i.Img.Bounds().Dx() }
func (i *Image) Height() int { return i.Img.Bounds().Dy() }

// Load reads a background from a file path, a file: URL or an http(s) URL.
func Load(ctx context.Context, location string) (*Image, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, fmt.Errorf("%w: empty location", ErrUnavailable)
	}

	rc, err := open(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer rc.Close()

	img, format, err := image.Decode(rc)
	if err != nil {
		return nil, fmt.Errorf("%w: decode %s: %w", ErrUnavailable, location, err)
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, fmt.Errorf("%w: %s is empty", ErrUnavailable, location)
	}
	return &Image{Source: location, Format: format, Img: img}, nil
}

func open(ctx context.Context, location string) (io.ReadCloser, error) {
	u, err := url.Parse(location)
	if err != nil || u.Scheme == "" || len(u.Scheme) == 1 {
		// Plain path; a one-letter scheme is a Windows drive.
		return os.Open(location)
	}

	switch u.Scheme {
	case "file":
		return os.Open(u.Path)
	case "http", "https":
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
		if err != nil {
			return nil, err
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("fetch %s: %s", location, resp.Status)
		}
		return resp.Body, nil
	default:
		return nil, fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
}
