package evm

import (
	"fmt"
	"io"
)

// Tracer observes execution. CaptureStep runs before each instruction
// executes; CaptureEnd runs once with the terminal outcome. Tracers must
// not retain the VM.
type Tracer interface {
	CaptureStep(pc uint64, op Opcode, stackDepth int, memSize uint64)
	CaptureEnd(result *Result)
}

// StructLog is one captured execution step.
type StructLog struct {
	PC         uint64
	Op         Opcode
	StackDepth int
	MemSize    uint64
}

// StructLogger collects a StructLog per step for inspection after the
// run. It is not safe for concurrent use.
type StructLogger struct {
	logs   []StructLog
	result *Result
}

// NewStructLogger creates an empty logger.
func NewStructLogger() *StructLogger {
	return &StructLogger{}
}

// CaptureStep implements Tracer.
func (l *StructLogger) CaptureStep(pc uint64, op Opcode, stackDepth int, memSize uint64) {
	l.logs = append(l.logs, StructLog{PC: pc, Op: op, StackDepth: stackDepth, MemSize: memSize})
}

// CaptureEnd implements Tracer.
func (l *StructLogger) CaptureEnd(result *Result) {
	l.result = result
}

// Logs returns the captured steps.
func (l *StructLogger) Logs() []StructLog {
	return l.logs
}

// WriteTrace renders the captured steps as one line per instruction.
func (l *StructLogger) WriteTrace(w io.Writer) error {
	for _, entry := range l.logs {
		_, err := fmt.Fprintf(w, "pc=%-6d op=%-14s stack=%-4d mem=%d\n",
			entry.PC, entry.Op, entry.StackDepth, entry.MemSize)
		if err != nil {
			return err
		}
	}
	if l.result != nil {
		if _, err := fmt.Fprintf(w, "%s\n", l.result); err != nil {
			return err
		}
	}
	return nil
}
