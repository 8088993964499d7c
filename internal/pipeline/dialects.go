package pipeline

import (
	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/srcgen/internal/assembler"
	"github.com/retroenv/srcgen/internal/assembler/acme"
	"github.com/retroenv/srcgen/internal/assembler/asm6"
	"github.com/retroenv/srcgen/internal/assembler/ca65"
	"github.com/retroenv/srcgen/internal/assembler/merlin32"
	"github.com/retroenv/srcgen/internal/detector"
	"github.com/retroenv/srcgen/internal/runner"
)

// Dialect bundles the source generator of a dialect with its external assembler.
type Dialect struct {
	Tool    detector.Tool
	New     func(logger *log.Logger) assembler.Generator
	Command func(executable, sourceFile string) runner.Command
}

// Dialects returns the generators and assemblers of all supported dialects.
func Dialects() map[string]Dialect {
	return map[string]Dialect{
		assembler.Acme: {
			Tool:    detector.Tool{Dialect: assembler.Acme, Executable: acme.Executable, Query: acme.VersionQuery},
			New:     func(logger *log.Logger) assembler.Generator { return acme.New(logger) },
			Command: acme.Command,
		},
		assembler.Asm6: {
			Tool:    detector.Tool{Dialect: assembler.Asm6, Executable: asm6.Executable, Query: asm6.VersionQuery},
			New:     func(logger *log.Logger) assembler.Generator { return asm6.New(logger) },
			Command: asm6.Command,
		},
		assembler.Ca65: {
			Tool:    detector.Tool{Dialect: assembler.Ca65, Executable: ca65.Executable, Query: ca65.VersionQuery},
			New:     func(logger *log.Logger) assembler.Generator { return ca65.New(logger) },
			Command: ca65.Command,
		},
		assembler.Merlin32: {
			Tool:    detector.Tool{Dialect: assembler.Merlin32, Executable: merlin32.Executable, Query: merlin32.VersionQuery},
			New:     func(logger *log.Logger) assembler.Generator { return merlin32.New(logger) },
			Command: merlin32.Command,
		},
	}
}
