package background

import (
	"errors"

	"github.com/ncruces/zenity"
)

// ErrNoImage is returned when the user dismisses the file picker.
var ErrNoImage = errors.New("no background image selected")

// Pick asks the user for a background image file.
func Pick() (string, error) {
	filename, err := zenity.SelectFile(
		zenity.Title("Choose a background image"),
		zenity.FileFilters{{
			Name:     "Images",
			Patterns: []string{"*.png", "*.jpg", "*.jpeg", "*.gif", "*.bmp", "*.tif", "*.tiff", "*.webp"},
		}},
	)
	if err != nil {
		if errors.Is(err, zenity.ErrCanceled) {
			return "", ErrNoImage
		}
		return "", err
	}
	return filename, nil
}
