// Package circuit describes the gate applications emitted by the fermionic circuit constructions.
//
// Operations are produced lazily as iter.Seq[Op].
// The order of a sequence is significant and is never rearranged by this package.
package circuit

import (
	"fmt"
	"iter"
	"slices"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Qubit is an opaque qubit handle.
// In a slice of qubits, position i is physically adjacent only to positions i-1 and i+1.
type Qubit int

// NoQubit marks an absent optional qubit, such as a missing control.
const NoQubit Qubit = -1

func (q Qubit) String() string {
	if q == NoQubit {
		return "none"
	}
	return fmt.Sprintf("q[%d]", int(q))
}

// LineQubits returns the qubits 0, 1, ..., n-1.
func LineQubits(n int) []Qubit {
	qubits := make([]Qubit, 0, n)
	for i := range n {
		qubits = append(qubits, Qubit(i))
	}
	return qubits
}

// Reversed returns a reversed copy of qubits.
func Reversed(qubits []Qubit) []Qubit {
	r := slices.Clone(qubits)
	slices.Reverse(r)
	return r
}

// Gate is the kind of a gate application.
type Gate int

const (
	// GateZPhase is diag(1, exp(i*angle)).
	GateZPhase Gate = iota
	// GateRz is exp(-i*angle*Z/2).
	GateRz
	// GateRxxyy is exp(-i*angle*(XX+YY)/2).
	GateRxxyy
	// GateRyxxy is exp(-i*angle*(YX-XY)/2).
	GateRyxxy
	// GateRot11 applies the phase exp(i*angle) to |11>.
	GateRot11
	// GateCZPhase is GateZPhase controlled on the first qubit.
	GateCZPhase
	// GateCRxxyy is GateRxxyy controlled on the first qubit.
	GateCRxxyy
	// GateCRyxxy is GateRyxxy controlled on the first qubit.
	GateCRyxxy
	// GateRot111 applies the phase exp(i*angle) to |111>.
	GateRot111
	// GateFSwap swaps two fermionic modes, applying -1 to |11>.
	GateFSwap
	GateSwap
)

var gateInfos = [...]struct {
	name  string
	arity int
	angle bool
}{
	GateZPhase:  {name: "zphase", arity: 1, angle: true},
	GateRz:      {name: "rz", arity: 1, angle: true},
	GateRxxyy:   {name: "rxxyy", arity: 2, angle: true},
	GateRyxxy:   {name: "ryxxy", arity: 2, angle: true},
	GateRot11:   {name: "rot11", arity: 2, angle: true},
	GateCZPhase: {name: "czphase", arity: 2, angle: true},
	GateCRxxyy:  {name: "crxxyy", arity: 3, angle: true},
	GateCRyxxy:  {name: "cryxxy", arity: 3, angle: true},
	GateRot111:  {name: "rot111", arity: 3, angle: true},
	GateFSwap:   {name: "fswap", arity: 2},
	GateSwap:    {name: "swap", arity: 2},
}

func (g Gate) String() string {
	if g < 0 || int(g) >= len(gateInfos) {
		return fmt.Sprintf("gate(%d)", int(g))
	}
	return gateInfos[g].name
}

// Arity returns the number of qubits g acts on.
func (g Gate) Arity() int { return gateInfos[g].arity }

// Parameterized reports whether g takes an angle.
func (g Gate) Parameterized() bool { return gateInfos[g].angle }

// ParseGate is the inverse of Gate.String.
func ParseGate(name string) (Gate, error) {
	for g, info := range gateInfos {
		if info.name == name {
			return Gate(g), nil
		}
	}
	return -1, errors.Errorf("unknown gate %q", name)
}

// Op is a gate applied to an ordered tuple of qubits.
type Op struct {
	Gate   Gate
	Qubits []Qubit
	// Angle is in radians, and is zero for gates without parameters.
	Angle float64
}

func (op Op) String() string {
	qs := make([]string, 0, len(op.Qubits))
	for _, q := range op.Qubits {
		qs = append(qs, q.String())
	}
	if !op.Gate.Parameterized() {
		return fmt.Sprintf("%s %s", op.Gate, strings.Join(qs, ","))
	}
	return fmt.Sprintf("%s(%s) %s", op.Gate, strconv.FormatFloat(op.Angle, 'g', -1, 64), strings.Join(qs, ","))
}

// Rotation is a gate with its angle bound, waiting to be applied to qubits.
type Rotation struct {
	Gate  Gate
	Angle float64
}

// On applies r to qubits.
// It panics if the number of qubits does not match the arity of the gate.
func (r Rotation) On(qubits ...Qubit) Op {
	if len(qubits) != r.Gate.Arity() {
		panic(fmt.Sprintf("%s on %d qubits %v", r.Gate, len(qubits), qubits))
	}
	return Op{Gate: r.Gate, Qubits: slices.Clone(qubits), Angle: r.Angle}
}

var (
	FSWAP = Rotation{Gate: GateFSwap}
	SWAP  = Rotation{Gate: GateSwap}
)

func ZPhase(rads float64) Rotation  { return Rotation{Gate: GateZPhase, Angle: rads} }
func Rz(rads float64) Rotation      { return Rotation{Gate: GateRz, Angle: rads} }
func Rxxyy(rads float64) Rotation   { return Rotation{Gate: GateRxxyy, Angle: rads} }
func Ryxxy(rads float64) Rotation   { return Rotation{Gate: GateRyxxy, Angle: rads} }
func Rot11(rads float64) Rotation   { return Rotation{Gate: GateRot11, Angle: rads} }
func CZPhase(rads float64) Rotation { return Rotation{Gate: GateCZPhase, Angle: rads} }
func CRxxyy(rads float64) Rotation  { return Rotation{Gate: GateCRxxyy, Angle: rads} }
func CRyxxy(rads float64) Rotation  { return Rotation{Gate: GateCRyxxy, Angle: rads} }
func Rot111(rads float64) Rotation  { return Rotation{Gate: GateRot111, Angle: rads} }

// Ops returns a sequence yielding ops in order.
func Ops(ops ...Op) iter.Seq[Op] {
	return slices.Values(ops)
}

// Concat chains sequences one after another.
func Concat(seqs ...iter.Seq[Op]) iter.Seq[Op] {
	return func(yield func(Op) bool) {
		for _, seq := range seqs {
			for op := range seq {
				if !yield(op) {
					return
				}
			}
		}
	}
}

// Empty yields nothing.
func Empty() iter.Seq[Op] {
	return func(yield func(Op) bool) {}
}

// Collect materializes seq.
func Collect(seq iter.Seq[Op]) []Op {
	return slices.Collect(seq)
}
