package dscache

import (
	"fmt"
	"math"
	"sort"
)

// SplitOptions tune TrainTestSplit. Size fields are pointers so that zero is
// distinguishable from unset; at most one of the Test pair and one of the
// Train pair should be given. When nothing is set the test partition gets a
// quarter of the records.
type SplitOptions struct {
	// TestSize is the fraction of records for the test partition, in [0, 1].
	TestSize *float64

	// TrainSize is the fraction of records for the train partition, in [0, 1].
	TrainSize *float64

	// TestCount is the absolute test partition size, in [0, len].
	TestCount *int

	// TrainCount is the absolute train partition size, in [0, len].
	TrainCount *int

	// StratifyBy names a record column; each distinct value's share of the
	// test partition matches its share of the dataset as closely as integer
	// rounding allows.
	StratifyBy string
}

// Frac is a convenience for building SplitOptions literals.
func Frac(v float64) *float64 { return &v }

// Count is a convenience for building SplitOptions literals.
func Count(v int) *int { return &v }

const defaultTestFraction = 0.25

// TrainTestSplit partitions d into disjoint train and test datasets. Invalid
// sizes return a *SplitError naming the parameter, never a silent clamp. An
// empty dataset yields two empty partitions. Both results carry no
// fingerprint.
//
// Within each stratum (the whole dataset when StratifyBy is empty) the tail
// becomes test, so splitting is deterministic for a fixed record order;
// Shuffle first for a randomized split.
func TrainTestSplit(d *Dataset, opts SplitOptions) (train, test *Dataset, err error) {
	n := d.Len()

	testN, trainN, err := resolveSizes(n, opts)
	if err != nil {
		return nil, nil, err
	}

	recs := d.Records()
	var trainRecs, testRecs []Record
	if opts.StratifyBy == "" {
		cut := n - testN
		trainRecs = append([]Record(nil), recs[:cut]...)
		testRecs = append([]Record(nil), recs[cut:]...)
	} else {
		trainRecs, testRecs = stratifiedSplit(recs, opts.StratifyBy, testN)
	}
	if trainN < len(trainRecs) {
		trainRecs = trainRecs[:trainN]
	}

	return d.withRecords(trainRecs, ""), d.withRecords(testRecs, ""), nil
}

// resolveSizes validates the options against n records and returns the
// absolute (test, train) sizes.
func resolveSizes(n int, opts SplitOptions) (testN, trainN int, err error) {
	checkFrac := func(name string, v *float64) error {
		if v != nil && (*v < 0 || *v > 1 || math.IsNaN(*v)) {
			return &SplitError{Param: name, Reason: fmt.Sprintf("fraction %v outside [0, 1]", *v)}
		}
		return nil
	}
	checkCount := func(name string, v *int) error {
		if v != nil && (*v < 0 || *v > n) {
			return &SplitError{Param: name, Reason: fmt.Sprintf("count %d outside [0, %d]", *v, n)}
		}
		return nil
	}
	for _, e := range []error{
		checkFrac("test_size", opts.TestSize),
		checkFrac("train_size", opts.TrainSize),
		checkCount("test_count", opts.TestCount),
		checkCount("train_count", opts.TrainCount),
	} {
		if e != nil {
			return 0, 0, e
		}
	}

	haveTest := opts.TestSize != nil || opts.TestCount != nil
	haveTrain := opts.TrainSize != nil || opts.TrainCount != nil

	switch {
	case opts.TestCount != nil:
		testN = *opts.TestCount
	case opts.TestSize != nil:
		testN = int(math.Round(*opts.TestSize * float64(n)))
	case !haveTrain:
		testN = int(math.Round(defaultTestFraction * float64(n)))
	}
	switch {
	case opts.TrainCount != nil:
		trainN = *opts.TrainCount
	case opts.TrainSize != nil:
		trainN = int(math.Round(*opts.TrainSize * float64(n)))
	case !haveTrain:
		trainN = n - testN
	}

	if haveTrain && !haveTest {
		testN = n - trainN
	}
	if testN+trainN > n {
		// only reachable with both sides supplied; name the forms used
		testName := "test_size"
		if opts.TestCount != nil {
			testName = "test_count"
		}
		trainName := "train_size"
		if opts.TrainCount != nil {
			trainName = "train_count"
		}
		return 0, 0, &SplitError{
			Param:  trainName + "+" + testName,
			Reason: fmt.Sprintf("%d+%d exceeds %d records", trainN, testN, n),
		}
	}
	return testN, trainN, nil
}

// stratifiedSplit partitions records so each distinct value of col keeps its
// proportional share of the test set, allocated by largest remainder. Group
// and output order follow first encounter.
func stratifiedSplit(recs []Record, col string, testN int) (train, test []Record) {
	var order []string
	groups := make(map[string][]Record)
	for _, r := range recs {
		k := fmt.Sprintf("%v", r[col])
		if _, seen := groups[k]; !seen {
			order = append(order, k)
		}
		groups[k] = append(groups[k], r)
	}

	sizes := make([]int, len(order))
	for i, k := range order {
		sizes[i] = len(groups[k])
	}
	allocs := allocateProportional(sizes, len(recs), testN)

	for i, k := range order {
		g := groups[k]
		cut := len(g) - allocs[i]
		train = append(train, g[:cut]...)
		test = append(test, g[cut:]...)
	}
	return train, test
}

// allocateProportional assigns testN units across groups in proportion to
// their sizes: floor each exact share, then hand the leftover units to the
// groups with the largest fractional remainders, ties broken by position.
// The allocations always sum to exactly testN.
func allocateProportional(sizes []int, total, testN int) []int {
	allocs := make([]int, len(sizes))
	if total == 0 || testN == 0 {
		return allocs
	}

	type rem struct {
		idx  int
		frac float64
	}
	rems := make([]rem, len(sizes))
	assigned := 0
	for i, g := range sizes {
		exact := float64(g) * float64(testN) / float64(total)
		fl := int(math.Floor(exact))
		allocs[i] = fl
		assigned += fl
		rems[i] = rem{idx: i, frac: exact - float64(fl)}
	}

	// stable keeps equal remainders in encounter order
	sort.SliceStable(rems, func(i, j int) bool { return rems[i].frac > rems[j].frac })
	for i := 0; i < testN-assigned && i < len(rems); i++ {
		allocs[rems[i].idx]++
	}
	return allocs
}
