package export

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"subtrack/internal/entity"
	"subtrack/internal/format"
)

// PreviewTable renders the export rows as an aligned text table for the
// pre-export preview screen.
func PreviewTable(subs []entity.Subscription) string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Name", "Monthly price", "Next charge date", "Status", "Note"})
	for _, sub := range subs {
		status := "Active"
		if !sub.IsActive {
			status = "Ended"
		}
		t.AppendRow(table.Row{
			sub.DisplayName(),
			format.Amount(sub.Price),
			format.DateFull(sub.NextChargeDate),
			status,
			sub.Note,
		})
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Monthly price", Align: text.AlignRight},
	})
	return t.Render()
}
