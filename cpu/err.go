package cpu

import (
	"errors"

	"github.com/ezrec/lcpu/translate"
)

var f = translate.From

var (
	// Cpu errors
	ErrMemory  = errors.New(f("memory fault"))
	ErrDisplay = errors.New(f("display"))

	// Assembler errors
	ErrEquateSyntax       = errors.New(f(".equ syntax"))
	ErrEquateDuplicate    = errors.New(f(".equ duplicated"))
	ErrLabelDuplicate     = errors.New(f("label duplicated"))
	ErrMacroSyntax        = errors.New(f(".macro syntax"))
	ErrMacroNesting       = errors.New(f(".macro in .macro prohibited"))
	ErrMacroDuplicate     = errors.New(f(".macro duplicated"))
	ErrMacroLonely        = errors.New(f(".macro without .endm"))
	ErrMacroLonelyEndm    = errors.New(f(".endm without .macro"))
	ErrOrgSyntax          = errors.New(f(".org syntax"))
	ErrOrgBackwards       = errors.New(f(".org moves backwards"))
	ErrOpcodeExtraArgs    = errors.New(f("excessive arguments"))
	ErrOpcodeValueMissing = errors.New(f("value missing"))
	ErrRegisterInvalid    = errors.New(f("register invalid"))
	ErrImmediateRange     = errors.New(f("immediate out of range"))
	ErrTargetMissing      = errors.New(f("target missing"))
	ErrTargetInvalid      = errors.New(f("target invalid"))
	ErrTargetAlignment    = errors.New(f("target not word aligned"))
	ErrInstructionInvalid = errors.New(f("instruction invalid"))
)

// ErrDecode is the fault raised when an instruction word carries an opcode
// that matches no operation.
type ErrDecode struct {
	Opcode Opcode // Offending opcode field.
	Pc     uint32 // Byte address the word was fetched from.
}

func (err *ErrDecode) Error() string {
	return f("unknown opcode %02X @ %08X", uint8(err.Opcode), err.Pc)
}

func (err *ErrDecode) Is(target error) (ok bool) {
	_, ok = target.(*ErrDecode)
	return
}

// ErrMemoryFault is raised when a fetch, load or store leaves memory.
type ErrMemoryFault struct {
	Address uint64 // Byte offset of the access.
	Pc      uint32 // Byte address of the faulting instruction.
}

func (err *ErrMemoryFault) Error() string {
	return f("memory fault at 0x%x @ %08X", err.Address, err.Pc)
}

func (err *ErrMemoryFault) Unwrap() error {
	return ErrMemory
}

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}

type ErrMacro struct {
	Macro string
	Line  int
	Err   error
}

func (err ErrMacro) Error() string {
	return f("macro %v line %v %v", err.Macro, err.Line, err.Err.Error())
}

func (err ErrMacro) Unwrap() error {
	return err.Err
}
