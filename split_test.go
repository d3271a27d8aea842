package dscache

import (
	"errors"
	"fmt"
	"testing"
)

func taggedRecords(counts map[string]int, order []string) []Record {
	var out []Record
	for _, tag := range order {
		for i := 0; i < counts[tag]; i++ {
			out = append(out, Record{"tag": tag, "id": fmt.Sprintf("%s-%d", tag, i)})
		}
	}
	return out
}

func tagCounts(d *Dataset) map[string]int {
	out := make(map[string]int)
	for _, r := range d.Records() {
		out[r["tag"].(string)]++
	}
	return out
}

func TestStratifiedSplit80_20(t *testing.T) {
	// 100 records, tags split 80/20 internally
	d := NewDataset(taggedRecords(map[string]int{"big": 80, "small": 20}, []string{"big", "small"}))

	train, test, err := TrainTestSplit(d, SplitOptions{TestSize: Frac(0.2), StratifyBy: "tag"})
	if err != nil {
		t.Fatalf("TrainTestSplit: %v", err)
	}
	if test.Len() != 20 {
		t.Fatalf("test size = %d, want exactly 20", test.Len())
	}
	if train.Len() != 80 {
		t.Fatalf("train size = %d, want 80", train.Len())
	}

	tc := tagCounts(test)
	// exact proportions: 80*0.2=16, 20*0.2=4
	if tc["big"] != 16 || tc["small"] != 4 {
		t.Fatalf("test tag counts = %v, want big:16 small:4", tc)
	}
}

func TestStratifiedSplitSmallGroups(t *testing.T) {
	// 6 records, 3 "a" and 3 "b", test_size 0.5
	d := NewDataset(taggedRecords(map[string]int{"a": 3, "b": 3}, []string{"a", "b"}))

	_, test, err := TrainTestSplit(d, SplitOptions{TestSize: Frac(0.5), StratifyBy: "tag"})
	if err != nil {
		t.Fatal(err)
	}
	if test.Len() != 3 {
		t.Fatalf("test size = %d, want exactly 3", test.Len())
	}
	tc := tagCounts(test)
	for _, tag := range []string{"a", "b"} {
		if tc[tag] < 1 || tc[tag] > 2 {
			t.Fatalf("tag %q got %d test records, want 1 or 2 (counts %v)", tag, tc[tag], tc)
		}
	}
}

func TestSplitDisjointAndComplete(t *testing.T) {
	d := NewDataset(taggedRecords(map[string]int{"a": 7, "b": 5, "c": 3}, []string{"a", "b", "c"}))

	train, test, err := TrainTestSplit(d, SplitOptions{TestSize: Frac(0.4), StratifyBy: "tag"})
	if err != nil {
		t.Fatal(err)
	}
	if train.Len()+test.Len() != d.Len() {
		t.Fatalf("partitions lose records: %d + %d != %d", train.Len(), test.Len(), d.Len())
	}
	seen := make(map[string]int)
	for _, r := range train.Records() {
		seen[r["id"].(string)]++
	}
	for _, r := range test.Records() {
		seen[r["id"].(string)]++
	}
	for id, c := range seen {
		if c != 1 {
			t.Fatalf("record %s appears %d times across partitions", id, c)
		}
	}
}

func TestSplitDefaultsToQuarter(t *testing.T) {
	d := NewDataset(indexRecords(8))
	train, test, err := TrainTestSplit(d, SplitOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if test.Len() != 2 || train.Len() != 6 {
		t.Fatalf("default split = %d/%d, want 6/2", train.Len(), test.Len())
	}
}

func TestSplitUnstratifiedTakesTail(t *testing.T) {
	d := NewDataset(indexRecords(10))
	train, test, err := TrainTestSplit(d, SplitOptions{TestCount: Count(3)})
	if err != nil {
		t.Fatal(err)
	}
	if got := permutation(t, train); !equalPerm(got, []int{0, 1, 2, 3, 4, 5, 6}) {
		t.Fatalf("train = %v", got)
	}
	if got := permutation(t, test); !equalPerm(got, []int{7, 8, 9}) {
		t.Fatalf("test = %v", got)
	}
}

func TestSplitTrainSizeOnly(t *testing.T) {
	d := NewDataset(indexRecords(10))
	train, test, err := TrainTestSplit(d, SplitOptions{TrainSize: Frac(0.7)})
	if err != nil {
		t.Fatal(err)
	}
	if train.Len() != 7 || test.Len() != 3 {
		t.Fatalf("split = %d/%d, want 7/3", train.Len(), test.Len())
	}
}

func TestSplitEmptyDataset(t *testing.T) {
	train, test, err := TrainTestSplit(NewDataset(nil), SplitOptions{TestSize: Frac(0.5)})
	if err != nil {
		t.Fatalf("empty dataset must split without error: %v", err)
	}
	if train.Len() != 0 || test.Len() != 0 {
		t.Fatalf("split = %d/%d, want 0/0", train.Len(), test.Len())
	}
}

func TestSplitValidation(t *testing.T) {
	d := NewDataset(indexRecords(10))
	cases := []struct {
		name  string
		opts  SplitOptions
		param string
	}{
		{"fraction above one", SplitOptions{TestSize: Frac(1.5)}, "test_size"},
		{"negative fraction", SplitOptions{TrainSize: Frac(-0.1)}, "train_size"},
		{"count above total", SplitOptions{TestCount: Count(11)}, "test_count"},
		{"negative count", SplitOptions{TrainCount: Count(-1)}, "train_count"},
		{"overcommitted counts", SplitOptions{TrainCount: Count(8), TestCount: Count(5)}, "train_count+test_count"},
		{"overcommitted fractions", SplitOptions{TrainSize: Frac(0.8), TestSize: Frac(0.5)}, "train_size+test_size"},
		{"overcommitted mixed", SplitOptions{TrainCount: Count(8), TestSize: Frac(0.5)}, "train_count+test_size"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := TrainTestSplit(d, tc.opts)
			var se *SplitError
			if !errors.As(err, &se) {
				t.Fatalf("err = %v, want *SplitError", err)
			}
			if se.Param != tc.param {
				t.Fatalf("param = %q, want %q", se.Param, tc.param)
			}
		})
	}
}

func TestSplitResultsCarryNoFingerprint(t *testing.T) {
	d := NewDataset(indexRecords(10))
	d.Fingerprint()
	train, test, err := TrainTestSplit(d, SplitOptions{TestSize: Frac(0.3)})
	if err != nil {
		t.Fatal(err)
	}
	if train.HasFingerprint() || test.HasFingerprint() {
		t.Fatal("split partitions must carry no fingerprint")
	}
}

func TestAllocateProportional(t *testing.T) {
	cases := []struct {
		name  string
		sizes []int
		total int
		testN int
		want  []int
	}{
		{"exact", []int{80, 20}, 100, 20, []int{16, 4}},
		{"remainders", []int{3, 3}, 6, 3, []int{2, 1}},
		{"zero request", []int{5, 5}, 10, 0, []int{0, 0}},
		{"everything", []int{5, 5}, 10, 10, []int{5, 5}},
		{"uneven thirds", []int{1, 1, 1}, 3, 2, []int{1, 1, 0}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := allocateProportional(tc.sizes, tc.total, tc.testN)
			sum := 0
			for i, w := range tc.want {
				if got[i] != w {
					t.Fatalf("got %v, want %v", got, tc.want)
				}
				sum += got[i]
			}
			if sum != tc.testN {
				t.Fatalf("allocations sum to %d, want %d", sum, tc.testN)
			}
		})
	}
}
