package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/tsalign/result"
	"github.com/katalvlaran/tsalign/series"
)

// Document is the JSON input of every command. Null samples decode as NaN.
type Document struct {
	Series []SeriesDoc `json:"series"`
}

// SeriesDoc is one series of a Document.
type SeriesDoc struct {
	ID     string        `json:"id"`
	Time   result.Floats `json:"time"`
	Values result.Floats `json:"values"`
}

// readInput decodes the document named by path ("" or "-" reads the
// command's stdin) and checks each series. Ids must be unique and non-empty.
func readInput(cmd *cobra.Command, path string) ([]series.Series, error) {
	var r io.Reader = cmd.InOrStdin()
	if path != "" && path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "open input", err)
		}
		defer f.Close()
		r = f
	}

	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, WrapExitError(ExitCommandError, "decode input", err)
	}
	if len(doc.Series) == 0 {
		return nil, WrapExitError(ExitCommandError, "decode input", series.ErrEmptyInput)
	}

	out := make([]series.Series, 0, len(doc.Series))
	seen := make(map[string]struct{}, len(doc.Series))
	for i, sd := range doc.Series {
		if sd.ID == "" {
			return nil, NewExitError(ExitCommandError, fmt.Sprintf("series #%d has no id", i))
		}
		if _, dup := seen[sd.ID]; dup {
			return nil, WrapExitError(ExitCommandError, "decode input",
				fmt.Errorf("duplicate series id %q: %w", sd.ID, series.ErrKeyMismatch))
		}
		seen[sd.ID] = struct{}{}

		s, err := series.New(sd.ID, sd.Time, sd.Values)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "decode input", err)
		}
		out = append(out, s)
	}

	return out, nil
}
