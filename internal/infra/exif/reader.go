package exif

import (
	"context"
	"errors"
	"os"
	"time"

	goexif "github.com/rwcarlsen/goexif/exif"
)

// Reader is the cheap in-process capture-time probe used during scanning; it
// avoids one external-tool round-trip per file that the resume filter would
// otherwise pay.
type Reader struct{}

func (Reader) DateTimeOriginal(ctx context.Context, path string) (time.Time, error) {
	select {
	case <-ctx.Done():
		return time.Time{}, ctx.Err()
	default:
	}

	file, err := os.Open(path)
	if err != nil {
		return time.Time{}, err
	}
	defer file.Close()

	x, err := goexif.Decode(file)
	if err != nil {
		return time.Time{}, err
	}

	if tag, err := x.Get(goexif.DateTimeOriginal); err == nil {
		if str, err := tag.StringVal(); err == nil {
			parsed, err := time.ParseInLocation("2006:01:02 15:04:05", str, time.Local)
			if err == nil {
				return parsed, nil
			}
		}
	}

	if parsed, err := x.DateTime(); err == nil {
		return parsed, nil
	}

	return time.Time{}, errors.New("exif datetime not found")
}
