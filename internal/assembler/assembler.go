// Package assembler defines the available assembler output formats and the
// contract that every source generator implements.
package assembler

import (
	"fmt"

	"github.com/retroenv/srcgen/internal/instruction"
)

// supported assembler dialects.
const (
	Acme     = "acme"
	Asm6     = "asm6"
	Ca65     = "ca65"
	Merlin32 = "merlin32"
)

// Dialects contains all supported dialects in output order.
var Dialects = []string{Acme, Ca65, Merlin32, Asm6}

var supportedCPUs = map[string][]instruction.CPU{
	Acme:     {instruction.CPU6502, instruction.CPU65816},
	Asm6:     {instruction.CPU6502},
	Ca65:     {instruction.CPU6502, instruction.CPU65816},
	Merlin32: {instruction.CPU6502, instruction.CPU65816},
}

// ValidateCPU returns an error if the dialect does not support the CPU.
func ValidateCPU(dialect string, cpu instruction.CPU) error {
	cpus, ok := supportedCPUs[dialect]
	if !ok {
		return fmt.Errorf("unsupported assembler '%s'", dialect)
	}
	for _, c := range cpus {
		if c == cpu {
			return nil
		}
	}
	return fmt.Errorf("assembler '%s' does not support cpu %s", dialect, cpu)
}
