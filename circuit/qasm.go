package circuit

import (
	"bufio"
	"fmt"
	"io"
	"iter"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// qasmNames maps gates to their OpenQASM 2.0 names.
// Gates outside qelib1.inc are declared opaque in the header.
var qasmNames = map[Gate]string{
	GateZPhase:  "u1",
	GateRz:      "rz",
	GateRxxyy:   "rxxyy",
	GateRyxxy:   "ryxxy",
	GateRot11:   "cu1",
	GateCZPhase: "cu1",
	GateCRxxyy:  "crxxyy",
	GateCRyxxy:  "cryxxy",
	GateRot111:  "rot111",
	GateFSwap:   "fswap",
	GateSwap:    "swap",
}

const qasmHeader = `OPENQASM 2.0;
include "qelib1.inc";
opaque rxxyy(theta) a,b;
opaque ryxxy(theta) a,b;
opaque crxxyy(theta) c,a,b;
opaque cryxxy(theta) c,a,b;
opaque rot111(theta) c,a,b;
opaque fswap a,b;
`

// WriteQASM writes seq as an OpenQASM 2.0 program over a register q holding qubits.
// Every qubit in seq must be one of qubits.
func WriteQASM(w io.Writer, qubits []Qubit, seq iter.Seq[Op]) error {
	index := make(map[Qubit]int, len(qubits))
	for i, q := range qubits {
		index[q] = i
	}

	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(qasmHeader); err != nil {
		return errors.Wrap(err, "")
	}
	if _, err := fmt.Fprintf(bw, "qreg q[%d];\n", len(qubits)); err != nil {
		return errors.Wrap(err, "")
	}

	args := make([]string, 0, 3)
	for op := range seq {
		args = args[:0]
		for _, q := range op.Qubits {
			i, ok := index[q]
			if !ok {
				return errors.Errorf("%s: qubit %s not in register", op, q)
			}
			args = append(args, fmt.Sprintf("q[%d]", i))
		}

		name := qasmNames[op.Gate]
		if op.Gate.Parameterized() {
			name = fmt.Sprintf("%s(%s)", name, strconv.FormatFloat(op.Angle, 'g', -1, 64))
		}
		if _, err := fmt.Fprintf(bw, "%s %s;\n", name, strings.Join(args, ",")); err != nil {
			return errors.Wrap(err, "")
		}
	}

	if err := bw.Flush(); err != nil {
		return errors.Wrap(err, "")
	}
	return nil
}
