package present

import (
	"context"
	"fmt"
	"image"
	"log/slog"

	"github.com/disintegration/imaging"
	"github.com/jpfielding/netpbm.go/pkg/netpbm"
)

// FilePresenter writes the image to Path in the format its extension names
// (png, jpg, gif, tif, bmp), optionally enlarged by an integer Scale.
type FilePresenter struct {
	Path  string
	Scale int
}

var _ Presenter = (*FilePresenter)(nil)

// Present implements Presenter
func (p *FilePresenter) Present(ctx context.Context, img *netpbm.Image) error {
	if _, err := imaging.FormatFromFilename(p.Path); err != nil {
		return fmt.Errorf("export %s: %w", p.Path, err)
	}
	var out image.Image = img
	if p.Scale > 1 {
		// nearest neighbour keeps bitmap edges hard
		out = imaging.Resize(img, img.Width*p.Scale, img.Height*p.Scale, imaging.NearestNeighbor)
	}
	if err := imaging.Save(out, p.Path); err != nil {
		return fmt.Errorf("export %s: %w", p.Path, err)
	}
	slog.DebugContext(ctx, "exported image", "path", p.Path, "scale", p.Scale,
		"width", out.Bounds().Dx(), "height", out.Bounds().Dy())
	return nil
}
