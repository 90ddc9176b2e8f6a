package dataset

import (
	"fmt"
	"testing"

	"github.com/Veraticus/critiq/internal/common"
	"github.com/Veraticus/critiq/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func numberedDataset(n int) *model.Dataset {
	ds := &model.Dataset{Source: "generated"}
	for i := 0; i < n; i++ {
		label := "positive"
		if i%3 == 0 {
			label = "negative"
		}
		ds.Records = append(ds.Records, model.Record{Label: label, Text: fmt.Sprintf("critique %d", i)})
	}
	return ds
}

func indexOf(ds *model.Dataset) map[string]int {
	idx := make(map[string]int, ds.Len())
	for i, r := range ds.Records {
		idx[r.Text] = i
	}
	return idx
}

func TestSplit_Partition(t *testing.T) {
	for _, n := range []int{0, 1, 2, 7, 10, 101} {
		for _, ratio := range []float64{0.2, 0.5, 0.8} {
			t.Run(fmt.Sprintf("n=%d/ratio=%.1f", n, ratio), func(t *testing.T) {
				ds := numberedDataset(n)
				split, err := Split(ds, model.SplitConfig{Ratio: ratio, Seed: 7})
				require.NoError(t, err)

				assert.Equal(t, n, split.Len())
				assert.InDelta(t, ratio*float64(n), float64(len(split.Train)), 0.5)

				idx := indexOf(ds)
				seen := make(map[string]bool, n)
				for _, subset := range [][]model.Record{split.Train, split.Test} {
					last := -1
					for _, r := range subset {
						assert.False(t, seen[r.Text], "record %q in both subsets", r.Text)
						seen[r.Text] = true
						assert.Greater(t, idx[r.Text], last, "subset is not in input order")
						last = idx[r.Text]
					}
				}
				assert.Len(t, seen, n)
			})
		}
	}
}

func TestSplit_Deterministic(t *testing.T) {
	ds := numberedDataset(50)
	cfg := model.SplitConfig{Ratio: 0.8, Seed: 1234}

	first, err := Split(ds, cfg)
	require.NoError(t, err)
	second, err := Split(ds, cfg)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	other, err := Split(ds, model.SplitConfig{Ratio: 0.8, Seed: 4321})
	require.NoError(t, err)
	assert.NotEqual(t, first.Test, other.Test)
}

func TestSplit_InvalidRatio(t *testing.T) {
	for _, ratio := range []float64{0, 1, 1.5, -1} {
		_, err := Split(numberedDataset(4), model.SplitConfig{Ratio: ratio})
		assert.ErrorIs(t, err, common.ErrInvalidConfig)
	}
}
