package dataset

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/madankc71/Credit-Card-Approval-Prediction/pkg/errors"
	"github.com/madankc71/Credit-Card-Approval-Prediction/pkg/log"
)

// SplitIndices permutes [0, n) with a generator seeded by seed and returns
// the first ceil(testSize*n) indices as the evaluation part.
func SplitIndices(n int, testSize float64, seed int64) (trainIdx, testIdx []int, err error) {
	if math.IsNaN(testSize) || testSize <= 0 || testSize >= 1 {
		return nil, nil, errors.NewValidationError("test_size", "must be in the open interval (0, 1)", testSize)
	}

	nTest := int(math.Ceil(testSize * float64(n)))
	nTrain := n - nTest
	if nTest == 0 || nTrain <= 0 {
		return nil, nil, errors.NewValueError("TrainTestSplit",
			fmt.Sprintf("with n_samples=%d and test_size=%g the resulting train or test subset is empty", n, testSize))
	}

	perm := rand.New(rand.NewSource(seed)).Perm(n)
	return perm[nTest:], perm[:nTest], nil
}

// TrainTestSplit partitions the rows of t into a training and an evaluation
// subset. The same table, testSize and seed always give the same subsets
// with the same row order.
func TrainTestSplit(t *Table, testSize float64, seed int64) (train, test *Table, err error) {
	trainIdx, testIdx, err := SplitIndices(t.NumRows(), testSize, seed)
	if err != nil {
		return nil, nil, err
	}

	train = t.Subset(trainIdx)
	test = t.Subset(testIdx)

	log.GetLoggerWithName("dataset").Info("Split table",
		log.StageKey, log.StageSplit,
		log.RandomSeedKey, seed,
		"train_rows", train.NumRows(),
		"test_rows", test.NumRows(),
	)
	return train, test, nil
}
