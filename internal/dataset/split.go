package dataset

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/Veraticus/critiq/internal/common"
	"github.com/Veraticus/critiq/internal/model"
)

// Split partitions a dataset with a seeded shuffle-and-slice. The first
// round(ratio*n) shuffled indices go to training and the rest to test;
// each subset is then put back into input order.
func Split(ds *model.Dataset, cfg model.SplitConfig) (model.Split, error) {
	if err := cfg.Validate(); err != nil {
		return model.Split{}, fmt.Errorf("%w: %v", common.ErrInvalidConfig, err)
	}

	n := ds.Len()
	trainCount := int(math.Round(cfg.Ratio * float64(n)))
	if trainCount > n {
		trainCount = n
	}

	perm := rand.New(rand.NewSource(cfg.Seed)).Perm(n) //nolint:gosec // reproducibility, not security
	trainIdx := append([]int(nil), perm[:trainCount]...)
	testIdx := append([]int(nil), perm[trainCount:]...)
	sort.Ints(trainIdx)
	sort.Ints(testIdx)

	return model.Split{
		Train: pick(ds.Records, trainIdx),
		Test:  pick(ds.Records, testIdx),
	}, nil
}

func pick(records []model.Record, idx []int) []model.Record {
	out := make([]model.Record, len(idx))
	for i, j := range idx {
		out[i] = records[j]
	}
	return out
}
