// Package policy maps editorial ratings to transformation policies and
// computes the concrete resize/format/quality decisions for a file.
package policy

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

type ResizeKind int

const (
	ResizePreserve ResizeKind = iota
	// ResizePercentage shrinks the pixel count to N% of the source. The scale
	// applied to each side is sqrt(N/100), so "50%" halves the megapixels,
	// not the side lengths.
	ResizePercentage
	// ResizeMegapixels shrinks the image to N million pixels.
	ResizeMegapixels
)

type Resize struct {
	Kind  ResizeKind
	Value int
}

type Format string

const (
	FormatPreserve Format = ""
	FormatJPEG     Format = "jpeg"
	FormatHEIC     Format = "heic"
	FormatAVIF     Format = "avif"
)

// Policy is the resolved transformation for one rating: either a bypass or a
// convert carrying three independent directives. It is a pure function of the
// rating and the static table, never of file content.
type Policy struct {
	Bypass  bool
	Resize  Resize
	Format  Format
	Quality int // percent; 0 preserves source quality
}

// Table maps a rating to its policy. Ratings absent from the table bypass.
type Table map[int]Policy

// Resolve looks up rating in the table; unknown ratings bypass.
func Resolve(rating int, table Table) Policy {
	if p, ok := table[rating]; ok {
		return p
	}
	return Policy{Bypass: true}
}

// NeedsResize returns the target dimensions for the given directive, or false
// when no resize should happen. It never upscales and never emits a no-op.
func NeedsResize(width, height int, resize Resize) (int, int, bool) {
	if width <= 0 || height <= 0 {
		return 0, 0, false
	}

	var scale float64
	switch resize.Kind {
	case ResizePercentage:
		if resize.Value >= 100 {
			return 0, 0, false
		}
		scale = math.Sqrt(float64(resize.Value) / 100.0)
	case ResizeMegapixels:
		srcPixels := float64(width) * float64(height)
		targetPixels := float64(resize.Value) * 1e6
		if targetPixels >= srcPixels {
			return 0, 0, false
		}
		scale = math.Sqrt(targetPixels / srcPixels)
	default:
		return 0, 0, false
	}

	w := int(float64(width) * scale)
	h := int(float64(height) * scale)
	if w < 1 || h < 1 || w >= width || h >= height {
		return 0, 0, false
	}
	return w, h, true
}

// NeedsConvert returns the target format only when it differs from the
// current one.
func NeedsConvert(current string, target Format) (Format, bool) {
	if target == FormatPreserve {
		return FormatPreserve, false
	}
	if NormalizeFormat(current) == string(target) {
		return FormatPreserve, false
	}
	return target, true
}

// NormalizeFormat folds a format or MIME name into the family names used by
// the policy table ("jpg" and "image/jpeg" both become "jpeg").
func NormalizeFormat(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.TrimPrefix(name, "image/")
	switch name {
	case "jpg", "jpeg":
		return "jpeg"
	case "heic", "heif", "heic-sequence", "heif-sequence":
		return "heic"
	default:
		return name
	}
}

// ExtensionFor returns the file extension for an output format; JPEG
// normalizes to ".jpg". An empty format keeps the source extension.
func ExtensionFor(format Format, sourceExt string) string {
	switch format {
	case FormatJPEG:
		return ".jpg"
	case FormatHEIC:
		return ".heic"
	case FormatAVIF:
		return ".avif"
	default:
		return strings.ToLower(sourceExt)
	}
}

var (
	resizeRe  = regexp.MustCompile(`^([0-9]+)([%m])$`)
	qualityRe = regexp.MustCompile(`^([0-9]+)%$`)
)

// ParseDirectives builds a Policy from the raw directive strings of one
// configuration entry. An empty map is a bypass. Malformed directives fail
// here, at load time, never during per-file resolution.
func ParseDirectives(directives map[string]string) (Policy, error) {
	if len(directives) == 0 {
		return Policy{Bypass: true}, nil
	}

	p := Policy{}
	touched := false

	if raw, ok := directives["resize"]; ok {
		raw = strings.ToLower(strings.TrimSpace(raw))
		if raw != "preserve" {
			m := resizeRe.FindStringSubmatch(raw)
			if m == nil {
				return Policy{}, fmt.Errorf("invalid resize directive %q", raw)
			}
			val, err := strconv.Atoi(m[1])
			if err != nil || val < 0 {
				return Policy{}, fmt.Errorf("invalid resize value %q", raw)
			}
			switch m[2] {
			case "%":
				if val > 100 {
					return Policy{}, fmt.Errorf("resize percentage %d%% exceeds 100%%", val)
				}
				// 100% keeps every pixel; that is a preserve.
				if val < 100 {
					p.Resize = Resize{Kind: ResizePercentage, Value: val}
					touched = true
				}
			case "m":
				p.Resize = Resize{Kind: ResizeMegapixels, Value: val}
				touched = true
			}
		}
	}

	if raw, ok := directives["format"]; ok {
		switch strings.ToLower(strings.TrimSpace(raw)) {
		case "preserve":
		case "jpg", "jpeg":
			p.Format = FormatJPEG
			touched = true
		case "heic":
			p.Format = FormatHEIC
			touched = true
		case "avif":
			p.Format = FormatAVIF
			touched = true
		default:
			return Policy{}, fmt.Errorf("invalid format directive %q", raw)
		}
	}

	if raw, ok := directives["quality"]; ok {
		raw = strings.ToLower(strings.TrimSpace(raw))
		if raw != "preserve" {
			m := qualityRe.FindStringSubmatch(raw)
			if m == nil {
				return Policy{}, fmt.Errorf("invalid quality directive %q", raw)
			}
			val, err := strconv.Atoi(m[1])
			if err != nil || val < 1 || val > 100 {
				return Policy{}, fmt.Errorf("invalid quality value %q", raw)
			}
			p.Quality = val
			touched = true
		}
	}

	if !touched {
		return Policy{Bypass: true}, nil
	}
	return p, nil
}
