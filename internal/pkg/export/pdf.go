package export

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cmlabs-hris/chiko-attendance-go/internal/domain/report"
	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

const PDFContentType = "application/pdf"

var (
	colorPrimary = &props.Color{Red: 68, Green: 114, Blue: 196}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// BranchRecapPDF renders a branch recap as an A4 table.
func BranchRecapPDF(r report.BranchRecap) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 10}).
		WithTitle("Rekap Absensi "+r.BranchName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(
		row.New(10).Add(col.New(12).Add(text.New("REKAP ABSENSI - "+strings.ToUpper(r.BranchName), props.Text{
			Style: fontstyle.Bold, Size: 16, Align: align.Center,
		}))),
		row.New(7).Add(col.New(12).Add(text.New("Periode: "+r.PeriodLabel, props.Text{
			Size: 11, Align: align.Center, Color: colorGray,
		}))),
		line.NewRow(4, props.Line{Color: colorPrimary, Thickness: 0.5}),
		row.New(8).Add(col.New(12).Add(text.New("Ringkasan Kehadiran Karyawan", props.Text{
			Style: fontstyle.Bold, Size: 11, Top: 1,
		}))),
	)

	m.AddRows(tableHeader())
	for _, rr := range r.Rows {
		m.AddRows(tableRow(rr))
	}
	if len(r.Rows) == 0 {
		m.AddRows(row.New(8).Add(col.New(12).Add(text.New("Tidak ada karyawan di cabang ini.", props.Text{
			Size: 9, Align: align.Center, Color: colorGray, Top: 2,
		}))))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate pdf: %w", err)
	}
	return doc.GetBytes(), nil
}

func tableHeader() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: a, Color: colorPrimary, Top: 2,
		}))
	}
	return row.New(8).Add(
		h("Nama", 4, align.Left),
		h("Jabatan", 2, align.Left),
		h("Hadir", 1, align.Center),
		h("Telat", 1, align.Center),
		h("Izin", 2, align.Center),
		h("Alpha", 2, align.Center),
	)
}

func tableRow(r report.BranchRecapRow) core.Row {
	cell := func(value string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(value, props.Text{Size: 10, Align: a, Top: 1}))
	}
	return row.New(7).Add(
		cell(r.Name, 4, align.Left),
		cell(string(r.Role), 2, align.Left),
		cell(strconv.Itoa(r.Hadir), 1, align.Center),
		cell(strconv.Itoa(r.Telat), 1, align.Center),
		cell(strconv.Itoa(r.Izin), 2, align.Center),
		cell(strconv.Itoa(r.Alpha), 2, align.Center),
	)
}

// Filename builds "Rekap_<branch>_<YYYY-MM>.<ext>".
func Filename(branchName, month, ext string) string {
	name := strings.Join(strings.Fields(branchName), "_")
	return fmt.Sprintf("Rekap_%s_%s.%s", name, month, ext)
}
