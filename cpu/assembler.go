// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/lcpu/internal"
)

// Macro represents a macro definition in the assembly language.
type Macro struct {
	LineNo int      // Line number of the macro definition.
	Args   []string // Arguments for the macro.
	Lines  []string // Lines of macro text to expand.
}

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO":        "0",
	"MEMORY_SIZE":   fmt.Sprintf("%#v", MEMORY_SIZE),
	"SCREEN_WIDTH":  fmt.Sprintf("%#v", SCREEN_WIDTH),
	"SCREEN_HEIGHT": fmt.Sprintf("%#v", SCREEN_HEIGHT),
	"FLAG_ZERO":     fmt.Sprintf("%#v", FLAG_ZERO),
}

// Assembler is a single pass macro assembler for the lcpu system.
type Assembler struct {
	Verbose bool   // If set, verbosely logs the assembler actions.
	Lines   []Line // List of generated lines.

	predefine map[string]string   // Predefines
	Label     map[string]uint32   // Map of labels to byte addresses.
	Equate    map[string]string   // Map of equates.
	Macro     map[string](*Macro) // Map of macros.

	origin uint32 // Address set by the last .org
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// regMap is a map of register aliases.
var regMap = map[string]int{
	"zero":  REG_ZERO,
	"pc":    REG_PC,
	"flags": REG_FLAGS,
}

// register returns the register index of a word.
func (asm *Assembler) register(word string) (index int, err error) {
	index, ok := regMap[word]
	if ok {
		return
	}

	if len(word) < 2 || word[0] != 'r' {
		err = ErrRegisterInvalid
		return
	}

	v64, perr := strconv.ParseUint(word[1:], 10, 8)
	if perr != nil || v64 >= REG_COUNT {
		err = ErrRegisterInvalid
		return
	}

	index = int(v64)
	return
}

// valueOf returns the value of a simple word.
func (asm *Assembler) valueOf(word string) (value uint32, err error) {
	invert := false
	if word[0] == '~' {
		invert = true
		word = word[1:]
	}
	v64, err := strconv.ParseInt(word, 0, 33)
	if err != nil {
		err = ErrParseNumber(word)
		return
	}

	if v64 <= 0xffffffff && v64 >= -int64(0x80000000) {
		if v64 < 0 {
			value = uint32(0xffffffff + (v64 + 1))
		} else {
			value = uint32(v64)
		}
	}

	if invert {
		value = ^value
	}

	return
}

// imm16 returns a value that fits in 16 bits, either unsigned or as a
// sign-extended negative.
func (asm *Assembler) imm16(word string) (imm uint16, err error) {
	value, err := asm.valueOf(word)
	if err != nil {
		return
	}

	if value > 0xffff && value < 0xffff8000 {
		err = ErrImmediateRange
		return
	}

	imm = uint16(value)
	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value uint32, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		var value32 uint32
		value32, err = asm.valueOf(str)
		if err != nil {
			// Ignore non-integer equates. They may be registers
			// or something else.
			continue
		}
		pred[key] = starlark.MakeInt(int(value32))
	}
	err = nil
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value = uint32(st_int64)
	return
}

// parseLine parses a single line as an opcode.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Do 'x' evaluations
	re := regexp.MustCompile(`'\\?[^']'`)
	line = re.ReplaceAllStringFunc(line, func(word string) string {
		str := word[1 : len(word)-1]
		if str[0] == '\\' {
			str = str[1:]
			switch str {
			case "\\":
				str = "\\"
			case "n":
				str = "\n"
			case "r":
				str = "\r"
			case "e":
				str = "\033"
			default:
				return word
			}
		} else if len(str) != 1 {
			return word
		}
		return fmt.Sprintf("%v", str[0])
	})

	// Do $() evaluations
	re = regexp.MustCompile(`\$\([^\$]*\)`)
	line = re.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%#v", value)
	})
	if err != nil {
		return
	}

	words = slices.DeleteFunc(strings.Fields(line), func(a string) bool { return len(a) == 0 })

	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if words[0] == ".equ" {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		words = words[:0]
		return
	}

	for n, word := range words {
		// Check for equate next
		equate, ok := asm.Equate[word]
		if ok {
			words[n] = equate
		}
	}

	for strings.HasSuffix(words[0], ":") {
		label := words[0][:len(words[0])-1]
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}

		if asm.Label == nil {
			asm.Label = make(map[string]uint32, 16)
		}
		asm.Label[label] = asm.currentAddress()
		words = words[1:]
		if len(words) == 0 {
			return
		}
	}

	// .macro processing
	macro, ok := asm.Macro[words[0]]
	if ok {
		name := words[0]

		args := words[1:]
		if len(args) != len(macro.Args) {
			err = ErrMacroSyntax
			return
		}
		// Turn args into equs
		old_equate := maps.Clone(asm.Equate)
		for n, arg := range macro.Args {
			asm.Equate[arg] = words[1+n]
		}
		defer func() { asm.Equate = old_equate }()

		// Local labels are unique to each expansion.
		local := fmt.Sprintf("%v_%v_", name, lineno)

		for n, line := range macro.Lines {
			lineno := macro.LineNo + n

			line = strings.ReplaceAll(line, "@", local)
			words, err = asm.parseLine(line, lineno)
			if err != nil {
				err = &ErrMacro{Macro: name, Line: lineno, Err: err}
				err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
				return
			}

			err = asm.parseWords(words, macro.LineNo+n)
			if err != nil {
				err = &ErrMacro{Macro: name, Line: lineno, Err: err}
				err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
				return
			}
		}
		words = nil
		return
	}

	return
}

// currentAddress gets the byte address of the next code.
func (asm *Assembler) currentAddress() uint32 {
	if len(asm.Lines) == 0 {
		return asm.origin
	}

	return max(asm.origin, asm.Lines[len(asm.Lines)-1].End())
}

// Parse parses an input stream into a Program.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int
	var macro *Macro

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	clear(asm.Label)
	asm.Lines = asm.Lines[:0]
	asm.origin = 0
	if asm.Macro == nil {
		asm.Macro = make(map[string](*Macro))
	}
	clear(asm.Macro)
	asm.Equate = maps.Collect(internal.IterSeq2Concat(maps.All(sysEquate), maps.All(asm.predefine)))

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		text_comment := strings.Split(text, ";")
		line = strings.TrimSpace(text_comment[0])
		words := strings.Fields(line)

		// .macro NAME arg...
		if len(words) > 0 && words[0] == ".macro" {
			if macro != nil {
				err = ErrMacroNesting
				return
			}
			if len(words) < 2 {
				err = ErrMacroSyntax
				return
			}
			_, ok := asm.Macro[words[1]]
			if ok {
				err = ErrMacroDuplicate
				return
			}
			macro = &Macro{
				LineNo: lineno + 1,
			}
			if len(words) > 2 {
				macro.Args = words[2:]
			}
			asm.Macro[words[1]] = macro
			continue
		}

		if len(words) > 0 && words[0] == ".endm" {
			if macro == nil {
				err = ErrMacroLonelyEndm
				return
			}
			macro = nil
			continue
		}

		if macro != nil {
			macro.Lines = append(macro.Lines, line)
			continue
		}

		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		err = asm.parseWords(words, lineno)
		if err != nil {
			return
		}
	}

	if err = scanner.Err(); err != nil {
		return
	}

	if macro != nil {
		err = ErrMacroLonely
		return
	}

	// Final linking of labels.
	for n := range asm.Lines {
		op := &asm.Lines[n]

		if len(op.LinkLabel) == 0 {
			continue
		}
		label := op.LinkLabel
		address, ok := asm.Label[label]
		if !ok {
			lineno = op.LineNo
			line = strings.Join(op.Words, " ")
			err = ErrLabelMissing(label)
			return
		}
		switch op.LinkKind {
		case LINK_TARGET:
			if address%WORD_SIZE != 0 {
				lineno = op.LineNo
				line = strings.Join(op.Words, " ")
				err = ErrTargetAlignment
				return
			}
			linked := &op.Codes[len(op.Codes)-1]
			*linked |= Code(address>>WORD_SHIFT) & 0x03ffffff
		case LINK_IMM32:
			op.Codes[0] |= Code(address >> 16)
			op.Codes[1] |= Code(address & 0xffff)
		case LINK_WORD:
			op.Codes[0] = Code(address)
		default:
			log.Fatalf("Unable to link label '%s' to line %d: %v", label, op.LineNo, op.Words)
		}
	}

	prog = &Program{
		Lines: slices.Clone(asm.Lines),
	}

	return
}

// isLabel returns true if the word could only be a label reference.
func isLabel(word string) bool {
	if len(word) == 0 {
		return false
	}
	c := word[0]
	return c == '_' || c == '.' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// registers parses exactly count register operands.
func (asm *Assembler) registers(words []string, count int) (regs []int, err error) {
	if len(words) < count {
		err = ErrOpcodeValueMissing
		return
	}
	if len(words) > count {
		err = ErrOpcodeExtraArgs
		return
	}

	for _, word := range words {
		var index int
		index, err = asm.register(word)
		if err != nil {
			return
		}
		regs = append(regs, index)
	}

	return
}

// parseWords evaluates the words in a line of assembly text.
func (asm *Assembler) parseWords(words []string, lineno int) (err error) {
	var codes []Code
	var label string
	var link LinkKind

	// no-op
	if len(words) == 0 {
		return
	}

	initial_words := words

	defer func() {
		if len(codes) == 0 {
			return
		}
		line := Line{LineNo: lineno, Address: asm.currentAddress(), Words: initial_words, Codes: codes, LinkLabel: label, LinkKind: link}
		asm.Lines = append(asm.Lines, line)
	}()

	args := words[1:]

	// Directives and pseudo-instructions
	switch words[0] {
	case ".org":
		if len(args) != 1 {
			err = ErrOrgSyntax
			return
		}
		var address uint32
		address, err = asm.valueOf(args[0])
		if err != nil {
			return
		}
		if address%WORD_SIZE != 0 {
			err = ErrTargetAlignment
			return
		}
		if address < asm.currentAddress() {
			err = ErrOrgBackwards
			return
		}
		asm.origin = address
		return
	case ".word":
		if len(args) == 0 {
			err = ErrOpcodeValueMissing
			return
		}
		for _, arg := range args {
			if isLabel(arg) {
				if len(args) != 1 {
					err = ErrOpcodeExtraArgs
					return
				}
				codes = append(codes, 0)
				label = arg
				link = LINK_WORD
				return
			}
			var value uint32
			value, err = asm.valueOf(arg)
			if err != nil {
				return
			}
			codes = append(codes, Code(value))
		}
		return
	case "halt":
		if len(args) != 0 {
			err = ErrOpcodeExtraArgs
			return
		}
		codes = append(codes, MakeCodeHalt())
		return
	case "nop":
		if len(args) != 0 {
			err = ErrOpcodeExtraArgs
			return
		}
		codes = append(codes, MakeCode(OP_MOV, REG_ZERO, REG_ZERO, 0, 0))
		return
	case "li":
		// li RD VALUE => movh RD hi ; ori RD RD lo
		if len(args) < 2 {
			err = ErrOpcodeValueMissing
			return
		}
		if len(args) > 2 {
			err = ErrOpcodeExtraArgs
			return
		}
		var rd int
		rd, err = asm.register(args[0])
		if err != nil {
			return
		}
		var value uint32
		if isLabel(args[1]) {
			label = args[1]
			link = LINK_IMM32
		} else {
			value, err = asm.valueOf(args[1])
			if err != nil {
				return
			}
		}
		codes = append(codes,
			MakeCodeImm16(OP_MOVH, rd, 0, uint16(value>>16)),
			MakeCodeImm16(OP_ORI, rd, rd, uint16(value&0xffff)),
		)
		return
	}

	op, ok := opcodeNames[words[0]]
	if !ok {
		err = ErrInstructionInvalid
		return
	}

	var regs []int
	switch op.Format() {
	case FORMAT_NONE:
		if len(args) != 0 {
			err = ErrOpcodeExtraArgs
			return
		}
		codes = append(codes, MakeCode(op, 0, 0, 0, 0))
	case FORMAT_R1:
		regs, err = asm.registers(args, 1)
		if err != nil {
			return
		}
		codes = append(codes, MakeCode(op, regs[0], 0, 0, 0))
	case FORMAT_R1R2:
		regs, err = asm.registers(args, 2)
		if err != nil {
			return
		}
		codes = append(codes, MakeCode(op, regs[0], regs[1], 0, 0))
	case FORMAT_R1R2R3:
		regs, err = asm.registers(args, 3)
		if err != nil {
			return
		}
		codes = append(codes, MakeCode(op, regs[0], regs[1], regs[2], 0))
	case FORMAT_MUL:
		regs, err = asm.registers(args, 4)
		if err != nil {
			return
		}
		codes = append(codes, MakeCode(op, regs[0], regs[1], regs[2], regs[3]))
	case FORMAT_R1R2I:
		if len(args) < 3 {
			err = ErrOpcodeValueMissing
			return
		}
		regs, err = asm.registers(args[:2], 2)
		if err != nil {
			return
		}
		var imm uint16
		imm, err = asm.imm16(args[2])
		if err != nil {
			return
		}
		if len(args) > 3 {
			err = ErrOpcodeExtraArgs
			return
		}
		codes = append(codes, MakeCodeImm16(op, regs[0], regs[1], imm))
	case FORMAT_R1I:
		if len(args) < 2 {
			err = ErrOpcodeValueMissing
			return
		}
		if len(args) > 2 {
			err = ErrOpcodeExtraArgs
			return
		}
		regs, err = asm.registers(args[:1], 1)
		if err != nil {
			return
		}
		var imm uint16
		imm, err = asm.imm16(args[1])
		if err != nil {
			return
		}
		codes = append(codes, MakeCodeImm16(op, regs[0], 0, imm))
	case FORMAT_TARGET:
		if len(args) < 1 {
			err = ErrTargetMissing
			return
		}
		if len(args) > 1 {
			err = ErrOpcodeExtraArgs
			return
		}
		if isLabel(args[0]) {
			codes = append(codes, MakeCodeImm26(op, 0))
			label = args[0]
			link = LINK_TARGET
			return
		}
		var address uint32
		address, err = asm.valueOf(args[0])
		if err != nil {
			return
		}
		if address%WORD_SIZE != 0 {
			err = ErrTargetAlignment
			return
		}
		if address>>WORD_SHIFT > 0x03ffffff {
			err = ErrTargetInvalid
			return
		}
		codes = append(codes, MakeCodeImm26(op, address>>WORD_SHIFT))
	default:
		err = ErrInstructionInvalid
		return
	}

	return
}
