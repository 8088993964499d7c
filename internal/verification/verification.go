// Package verification verifies that the assembled output recreates the input image.
package verification

import (
	"errors"
	"fmt"
	"os"

	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/srcgen/internal/assembler"
)

var errNoInvocation = errors.New("no assembler invocation to verify")

// VerifyOutput compares the binary that the assembler invocation produced
// to the expected image.
func VerifyOutput(logger *log.Logger, expected []byte, result *assembler.InvocationResult) error {
	if result == nil {
		return errNoInvocation
	}
	if result.ExitCode != 0 {
		return fmt.Errorf("assembler exited with code %d: %s", result.ExitCode, result.Stderr)
	}
	return CompareOutput(logger, expected, result.OutputFile)
}

// CompareOutput compares the content of the output file byte for byte to
// the expected image.
func CompareOutput(logger *log.Logger, expected []byte, outputFile string) error {
	output, err := os.ReadFile(outputFile)
	if err != nil {
		return fmt.Errorf("reading assembled file for comparison: %w", err)
	}

	if err := checkBufferEqual(logger, expected, output); err != nil {
		return fmt.Errorf("output mismatch in '%s': %w", outputFile, err)
	}
	return nil
}

func checkBufferEqual(logger *log.Logger, input, output []byte) error {
	if len(input) != len(output) {
		return fmt.Errorf("mismatched lengths, %d != %d", len(input), len(output))
	}

	var diffs uint64
	for i := range input {
		if input[i] == output[i] {
			continue
		}

		diffs++
		if diffs < 10 {
			logger.Error("Offset mismatch",
				log.Hex("offset", i),
				log.Hex("expected", input[i]),
				log.Hex("got", output[i]))
		}
	}
	if diffs == 0 {
		return nil
	}
	return fmt.Errorf("%d offset mismatches", diffs)
}
