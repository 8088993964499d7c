package assembler

// Quirks contains documented deviations of an assembler from ideal behavior
// that generated source has to compensate for.
type Quirks struct {
	// SinglePassAssembler resolves labels in a single pass, forward references
	// to direct page labels are assembled with absolute width.
	SinglePassAssembler bool
	// SinglePassNoLabelCorrection does not correct the label width of backward
	// references after a forward reference was assumed to be absolute.
	SinglePassNoLabelCorrection bool
	// BlockMoveArgsNoHash expects the block move bank operands without a '#'.
	BlockMoveArgsNoHash bool
	// TracksSepRepNotEmu tracks register widths changed by SEP and REP
	// independent of the emulation mode flag.
	TracksSepRepNotEmu bool
	// NoPcRelBankWrap rejects branches that wrap around a bank boundary.
	NoPcRelBankWrap bool
	// NoRelativeRegions can not express region starts relative to the
	// current program counter.
	NoRelativeRegions bool
	// BackslashLiteral treats a backslash in a string literal as plain character.
	BackslashLiteral bool
	// Bank0Only supports only the 16 bit address space of bank zero.
	Bank0Only bool
	// NoUndocumentedOpcodes does not support undocumented 6502 opcodes.
	NoUndocumentedOpcodes bool
}
