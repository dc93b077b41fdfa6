package config

import "fmt"

// ClassParams holds the static per-class parameters spec.md §3 says are
// "fixed at system build": worst-case execution time and period, both in
// milliseconds. Only three classes are exercised by the reference workload
// (spec.md §2's test-bench), matching original_source/src/main.c's
// t{1,2,3}_execution/t{1,2,3}_period constants.
type ClassParams struct {
	ExecutionMs int64
	PeriodMs    int64
}

// testBenches reproduces the three TEST_BENCH triplets from
// original_source/src/main.c verbatim (spec.md §6: "TEST_BENCH ∈ {1,2,3}
// selects per-class {execution_ms, period_ms} triplet"). Index 0 is class 1,
// index 1 is class 2, index 2 is class 3.
var testBenches = map[int][3]ClassParams{
	1: {
		{ExecutionMs: 95, PeriodMs: 500},
		{ExecutionMs: 150, PeriodMs: 500},
		{ExecutionMs: 250, PeriodMs: 750},
	},
	2: {
		{ExecutionMs: 95, PeriodMs: 250},
		{ExecutionMs: 150, PeriodMs: 500},
		{ExecutionMs: 250, PeriodMs: 750},
	},
	3: {
		{ExecutionMs: 100, PeriodMs: 500},
		{ExecutionMs: 200, PeriodMs: 500},
		{ExecutionMs: 200, PeriodMs: 500},
	},
}

// ClassParamsFor returns the three classes' static parameters for the
// selected test bench. class is 1-based (matching spec.md §3's task-class
// identifier domain of 1..N).
func ClassParamsFor(testBench int, class int) (ClassParams, error) {
	bench, ok := testBenches[testBench]
	if !ok {
		return ClassParams{}, fmt.Errorf("config: unknown TEST_BENCH %d", testBench)
	}
	if class < 1 || class > len(bench) {
		return ClassParams{}, fmt.Errorf("config: unknown task class %d", class)
	}
	return bench[class-1], nil
}

// ClassCount is the number of task classes the reference test benches define.
const ClassCount = 3

// IDBase returns the instance-identifier base for a task class, reproducing
// original_source/src/main.c's disjoint 1000/2000/3000 ranges (spec.md §3:
// "the reference uses 1000/2000/3000 bases").
func IDBase(class int) uint32 {
	return uint32(class) * 1000
}
