package library

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rwcarlsen/goexif/exif"

	"fotosorter/internal/domain"
)

const displayTimeLayout = "2006-01-02 15:04"

// Describe collects display metadata for one image. Missing EXIF data is not
// an error; only a file that cannot be stat'ed is.
func Describe(path string) (domain.ImageInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		return domain.ImageInfo{}, err
	}

	out := domain.ImageInfo{
		Name:       filepath.Base(path),
		SizeBytes:  info.Size(),
		ModifiedAt: info.ModTime().Format(displayTimeLayout),
	}

	x, err := decodeExif(path)
	if err != nil {
		return out, nil
	}

	if taken, err := x.DateTime(); err == nil {
		out.CapturedAt = taken.Format(displayTimeLayout)
	}
	out.Camera = cameraName(x)
	return out, nil
}

func decodeExif(path string) (*exif.Exif, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return exif.Decode(f)
}

// cameraName joins make and model, dropping the make when the model repeats it.
func cameraName(x *exif.Exif) string {
	model := tagString(x, exif.Model)
	maker := tagString(x, exif.Make)
	switch {
	case model == "":
		return maker
	case maker == "" || strings.HasPrefix(strings.ToLower(model), strings.ToLower(maker)):
		return model
	default:
		return maker + " " + model
	}
}

func tagString(x *exif.Exif, name exif.FieldName) string {
	tag, err := x.Get(name)
	if err != nil {
		return ""
	}
	value, err := tag.StringVal()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(strings.TrimRight(value, "\x00"))
}
