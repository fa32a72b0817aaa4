package feed

import (
	"context"
	"strings"

	"github.com/locvowork/orgmaker/pkg/dataflow"
)

// ParseCSV splits feed text into rows of trimmed cells and drops the header
// row. Quoting is not supported: a comma inside a field shifts the
// remaining columns.
func ParseCSV(ctx context.Context, text string) ([][]string, error) {
	lines := strings.Split(text, "\n")
	if len(lines) <= 1 {
		return [][]string{}, nil
	}

	rows := dataflow.Map(ctx, dataflow.From(ctx, lines[1:]...), func(line string) ([]string, error) {
		cells := strings.Split(line, ",")
		for i := range cells {
			cells[i] = strings.TrimSpace(cells[i])
		}
		return cells, nil
	}, dataflow.WithBufferSize(len(lines)-1))

	out, err := dataflow.Collect(ctx, rows)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = [][]string{}
	}
	return out, nil
}
