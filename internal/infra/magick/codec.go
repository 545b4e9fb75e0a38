// Package magick applies pixel transformations by piping blobs through the
// ImageMagick CLI, which carries EXIF and XMP profiles across the rewrite.
package magick

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"camclone/internal/domain"
	"camclone/internal/policy"
)

const DefaultBin = "magick"

type Codec struct {
	Bin string
}

func New() *Codec {
	return &Codec{Bin: DefaultBin}
}

// Check verifies the binary once before any worker starts, replacing hidden
// lazy initialization inside the pipeline.
func (c *Codec) Check(ctx context.Context) error {
	cmd := exec.CommandContext(ctx, c.Bin, "-version")
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("imagemagick not available: %v (%s)", err, strings.TrimSpace(string(out)))
	}
	return nil
}

// Rewrite decodes the blob, applies resize/quality, and encodes to the target
// format (or back to the source format when the instruction preserves it).
func (c *Codec) Rewrite(ctx context.Context, blob []byte, srcMime string, info *domain.ConvertInfo) ([]byte, error) {
	outFormat := info.Format
	if outFormat == "" {
		outFormat = policy.NormalizeFormat(srcMime)
	}
	token, err := formatToken(outFormat)
	if err != nil {
		return nil, err
	}

	args := []string{"-"}
	if info.Width > 0 && info.Height > 0 {
		args = append(args, "-resize", fmt.Sprintf("%dx%d!", info.Width, info.Height))
	}
	if info.Quality > 0 {
		args = append(args, "-quality", strconv.Itoa(info.Quality))
	}
	args = append(args, token+":-")

	cmd := exec.CommandContext(ctx, c.Bin, args...)
	cmd.Stdin = bytes.NewReader(blob)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("magick: %v (%s)", err, strings.TrimSpace(stderr.String()))
	}
	if stdout.Len() == 0 {
		return nil, fmt.Errorf("magick produced no output")
	}
	return stdout.Bytes(), nil
}

func formatToken(format string) (string, error) {
	switch format {
	case "jpeg":
		return "jpg", nil
	case "heic", "avif", "png", "tiff":
		return format, nil
	default:
		return "", fmt.Errorf("unsupported output format %q", format)
	}
}
