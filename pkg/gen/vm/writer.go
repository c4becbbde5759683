package vmgen

import (
	"strconv"
	"strings"
)

type Segment string

const (
	Constant Segment = "constant"
	Argument Segment = "argument"
	Local    Segment = "local"
	Static   Segment = "static"
	This     Segment = "this"
	That     Segment = "that"
	Pointer  Segment = "pointer"
	Temp     Segment = "temp"
)

type Operation string

const (
	Add Operation = "add"
	Sub Operation = "sub"
	Neg Operation = "neg"
	Eq  Operation = "eq"
	Gt  Operation = "gt"
	Lt  Operation = "lt"
	And Operation = "and"
	Or  Operation = "or"
	Not Operation = "not"
)

// Writer accumulates a VM listing, one instruction per line.
type Writer struct {
	b strings.Builder
}

func (w *Writer) writeCommand(command string) {
	w.b.WriteString(command)
	w.b.WriteByte('\n')
}

func (w *Writer) WritePush(segment Segment, index int) {
	w.writeCommand("push " + string(segment) + " " + strconv.Itoa(index))
}

func (w *Writer) WritePop(segment Segment, index int) {
	w.writeCommand("pop " + string(segment) + " " + strconv.Itoa(index))
}

func (w *Writer) WriteArithmetic(op Operation) {
	w.writeCommand(string(op))
}

func (w *Writer) WriteLabel(label string) {
	w.writeCommand("label " + label)
}

func (w *Writer) WriteGoto(label string) {
	w.writeCommand("goto " + label)
}

func (w *Writer) WriteIf(label string) {
	w.writeCommand("if-goto " + label)
}

func (w *Writer) WriteCall(name string, nArgs int) {
	w.writeCommand("call " + name + " " + strconv.Itoa(nArgs))
}

func (w *Writer) WriteFunction(name string, nLocals int) {
	w.writeCommand("function " + name + " " + strconv.Itoa(nLocals))
}

func (w *Writer) WriteReturn() {
	w.writeCommand("return")
}

func (w *Writer) String() string {
	return w.b.String()
}
