package md2thumb

import (
	"fmt"

	"github.com/disintegration/imaging"
)

// resizeThumbnail downsizes the PNG at path to width pixels, preserving the
// aspect ratio. Images already narrower than width are left alone.
func resizeThumbnail(path string, width int) error {
	img, err := imaging.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrResize, err)
	}
	if img.Bounds().Dx() <= width {
		return nil
	}

	resized := imaging.Resize(img, width, 0, imaging.Lanczos)
	if err := imaging.Save(resized, path); err != nil {
		return fmt.Errorf("%w: %v", ErrResize, err)
	}
	return nil
}
