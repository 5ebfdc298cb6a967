package present

import (
	"context"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jpfielding/netpbm.go/pkg/netpbm"
	"github.com/jpfielding/netpbm.go/pkg/util"
)

// SummaryPresenter prints a table describing the image instead of showing it
type SummaryPresenter struct {
	W    io.Writer
	Name string
}

var _ Presenter = (*SummaryPresenter)(nil)

// Present implements Presenter
func (p *SummaryPresenter) Present(_ context.Context, img *netpbm.Image) error {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"File", "Format", "Width", "Height", "MaxValue", "Pixels", "Fingerprint"})
	t.AppendRow(table.Row{
		p.Name,
		fmt.Sprintf("%s (%s)", img.Format, img.Format.Name()),
		img.Width,
		img.Height,
		img.MaxValue,
		len(img.Pixels),
		Fingerprint(img),
	})
	_, err := fmt.Fprintln(p.W, t.Render())
	return err
}

// Fingerprint identifies the decoded pixel content of img
func Fingerprint(img *netpbm.Image) string {
	return util.Fingerprint(img.RGBA().Pix)
}
