package export

import (
	"fmt"
	"time"

	"github.com/johnfercher/maroto/pkg/color"
	"github.com/johnfercher/maroto/pkg/consts"
	"github.com/johnfercher/maroto/pkg/pdf"
	"github.com/johnfercher/maroto/pkg/props"

	"github.com/sadopc/countdown/internal/store"
	"github.com/sadopc/countdown/internal/timer"
)

var reportHeaders = []string{"Finished", "Timer", "Duration"}

// ToPDF writes a report of the finish history between from and to, newest
// first as given, with a total at the bottom.
func ToPDF(finishes []store.Finish, from, to time.Time, path string) error {
	m := pdf.NewMaroto(consts.Portrait, consts.A4)
	m.SetPageMargins(20, 10, 20)

	m.RegisterHeader(func() {
		m.Row(10, func() {
			m.Col(12, func() {
				m.Text("Countdown report", props.Text{
					Top:   3,
					Style: consts.Bold,
					Align: consts.Center,
					Size:  16,
				})
			})
		})
		m.Row(10, func() {
			m.Col(12, func() {
				m.Text(fmt.Sprintf("%s - %s", from.Format("2006-01-02"), to.Format("2006-01-02")), props.Text{
					Top:   3,
					Align: consts.Center,
					Size:  12,
				})
			})
		})
	})

	var total int64
	rows := make([][]string, 0, len(finishes))
	for _, f := range finishes {
		total += f.DurationSeconds
		rows = append(rows, []string{
			f.FinishedAt.Local().Format("2006-01-02 15:04"),
			f.Name,
			timer.FormatTime(int(f.DurationSeconds)),
		})
	}

	if len(rows) == 0 {
		m.Row(10, func() {
			m.Col(12, func() {
				m.Text("No timers finished in this period.", props.Text{Top: 5, Size: 10})
			})
		})
	} else {
		m.TableList(reportHeaders, rows, props.TableList{
			HeaderProp: props.TableListContent{
				Size:      10,
				GridSizes: []uint{4, 5, 3},
			},
			ContentProp: props.TableListContent{
				Size:      10,
				GridSizes: []uint{4, 5, 3},
			},
			Align:                consts.Center,
			AlternatedBackground: &color.Color{Red: 240, Green: 240, Blue: 240},
			HeaderContentSpace:   1,
		})
	}

	m.Row(20, func() {
		m.Col(12, func() {
			m.Text(fmt.Sprintf("Total: %s (%d finished)", timer.FormatTime(int(total)), len(finishes)), props.Text{
				Top:   10,
				Style: consts.Bold,
				Align: consts.Right,
				Size:  12,
			})
		})
	})

	if err := m.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("write pdf file: %w", err)
	}
	return nil
}
