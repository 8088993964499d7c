package ca65

import (
	"fmt"
	"strings"
)

// ConfigFileSuffix is appended to the base name of the linker config file.
const ConfigFileSuffix = "_cc65.cfg"

const (
	memoryConfigTemplate = `MEMORY {
    MAIN:        start = $%04X,  size = $%04X,   type = rw, file = %%O, fill = yes;
}

`

	segmentsConfig = `SEGMENTS {
    CODE:        load = MAIN, type = rw;
}
`
)

// GenerateLinkerConfig generates a linker config that outputs the code
// segment as plain binary. The source sets the program counter of all
// regions itself, start and size only have to cover the image.
func GenerateLinkerConfig(start, size int) (string, error) {
	buf := &strings.Builder{}
	if _, err := fmt.Fprintf(buf, memoryConfigTemplate, start, max(size, 1)); err != nil {
		return "", fmt.Errorf("writing memory config: %w", err)
	}
	buf.WriteString(segmentsConfig)
	return buf.String(), nil
}
