package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/sadopc/countdown/internal/timer"
)

// ToCSV writes one row per timer, in the order given.
func ToCSV(timers []timer.Timer, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	// Header
	if err := w.Write([]string{"ID", "Position", "Name", "Status", "Duration (s)", "Duration", "Remaining (s)", "Remaining", "Color", "Created"}); err != nil {
		return err
	}

	for _, t := range timers {
		row := []string{
			t.ID,
			strconv.Itoa(t.Position),
			t.Name,
			string(t.Status),
			strconv.Itoa(t.DurationSeconds),
			t.FormattedDuration(),
			strconv.Itoa(t.RemainingSeconds),
			t.FormattedRemaining(),
			t.Color,
			t.CreatedAt.Local().Format(time.RFC3339),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}
