package ingest

import (
	"fmt"

	"github.com/google/uuid"
)

// Diagnostics collects the non-fatal messages a run produces: format
// detected, columns renamed, rows dropped. They are surfaced to the
// caller for transparency and never affect the success path.
type Diagnostics struct {
	RunID    string
	Filename string
	Format   FormatTag
	Messages []string
}

func newDiagnostics(filename string) *Diagnostics {
	return &Diagnostics{RunID: uuid.NewString(), Filename: filename}
}

// Infof appends a formatted message.
func (d *Diagnostics) Infof(format string, args ...any) {
	d.Messages = append(d.Messages, fmt.Sprintf(format, args...))
}
