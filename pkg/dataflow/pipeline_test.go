package dataflow_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/locvowork/orgmaker/pkg/dataflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPipeline_ParseRows(t *testing.T) {
	ctx := context.Background()

	type Row struct {
		ID   string
		Name string
	}

	source := dataflow.From(ctx, "1,Alice", "bad", "2,Bob", "3,Charlie")

	parsed := dataflow.Map(ctx, source, func(s string) (Row, error) {
		parts := strings.Split(s, ",")
		if len(parts) != 2 {
			return Row{}, fmt.Errorf("invalid format: %q", s)
		}
		return Row{ID: parts[0], Name: parts[1]}, nil
	}, dataflow.WithBufferSize(4))

	rows, err := dataflow.Collect(ctx, parsed)
	require.NoError(t, err)
	assert.Equal(t, []Row{{"1", "Alice"}, {"2", "Bob"}, {"3", "Charlie"}}, rows, "failed items are dropped, order is kept")
}

func TestMap_PreservesOrder(t *testing.T) {
	ctx := context.Background()

	items := make([]int, 100)
	for i := range items {
		items[i] = i
	}
	doubled := dataflow.Map(ctx, dataflow.From(ctx, items...), func(i int) (int, error) {
		return i * 2, nil
	})

	out, err := dataflow.Collect(ctx, doubled)
	require.NoError(t, err)
	require.Len(t, out, 100)
	for i, v := range out {
		assert.Equal(t, i*2, v)
	}
}

func TestCollect_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	never := make(chan int)
	_, err := dataflow.Collect(ctx, dataflow.Stream[int](never))
	assert.ErrorIs(t, err, context.Canceled)
}
