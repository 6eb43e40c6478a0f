package circuit

import (
	"iter"
)

// Statistics summarizes a sequence of operations.
type Statistics struct {
	NumOps int
	// Counts is the number of operations per gate.
	Counts map[Gate]int
	// Depth is the number of moments when every operation is scheduled as early as possible.
	Depth int
	// TwoQubitDepth is the depth counting only operations on two or more qubits.
	TwoQubitDepth int
}

// GetStatistics consumes seq and summarizes it.
func GetStatistics(seq iter.Seq[Op]) Statistics {
	stats := Statistics{Counts: make(map[Gate]int)}
	// moment is the last occupied moment of each qubit.
	moment := make(map[Qubit]int)
	multiMoment := make(map[Qubit]int)
	for op := range seq {
		stats.NumOps++
		stats.Counts[op.Gate]++

		stats.Depth = max(stats.Depth, schedule(moment, op.Qubits))
		if len(op.Qubits) >= 2 {
			stats.TwoQubitDepth = max(stats.TwoQubitDepth, schedule(multiMoment, op.Qubits))
		}
	}
	return stats
}

// schedule places an operation on qubits at the earliest free moment, and returns that moment.
func schedule(moment map[Qubit]int, qubits []Qubit) int {
	var m int
	for _, q := range qubits {
		m = max(m, moment[q])
	}
	m++
	for _, q := range qubits {
		moment[q] = m
	}
	return m
}
