// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Macro represents a macro definition in the assembly language.
type Macro struct {
	LineNo int      // Line number of the macro definition.
	Args   []string // Arguments for the macro.
	Lines  []string // Lines of macro text to expand.
}

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO":       "0",
	"SYSCALL_HALT": fmt.Sprintf("%d", SYSCALL_HALT),
}

// Assembler is a single pass macro assembler for the mips32 system.
type Assembler struct {
	Verbose bool     // If set, verbosely logs the assembler actions.
	Origin  uint32   // Address of the first assembled instruction.
	Opcode  []Opcode // List of generated opcodes.

	predefine map[string]string   // Predefines
	Label     map[string]uint32   // Map of labels to addresses.
	Equate    map[string]string   // Map of equates.
	Macro     map[string](*Macro) // Map of macros.

	expansions int // Count of macro expansions, for local labels.
}

// Predefine defines a new equate or redefines an existing equate, applied
// at the start of every Parse.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// regMap is a map of register names to register indexes.
var regMap = func() map[string]uint8 {
	regs := make(map[string]uint8, 4*REGISTER_COUNT)
	for n := range uint8(REGISTER_COUNT) {
		regs[fmt.Sprintf("r%d", n)] = n
		regs[fmt.Sprintf("$%d", n)] = n
		regs[registerName[n]] = n
		regs["$"+registerName[n]] = n
	}
	return regs
}()

// R-type mnemonics, by operand form.
var (
	r3Map = map[string]CodeFunct{
		"add":  FUNCT_ADD,
		"addu": FUNCT_ADDU,
		"sub":  FUNCT_SUB,
		"subu": FUNCT_SUBU,
		"and":  FUNCT_AND,
		"or":   FUNCT_OR,
		"xor":  FUNCT_XOR,
		"nor":  FUNCT_NOR,
		"slt":  FUNCT_SLT,
		"sltu": FUNCT_SLTU,
		"sllv": FUNCT_SLLV,
		"srlv": FUNCT_SRLV,
	}
	shiftMap = map[string]CodeFunct{
		"sll": FUNCT_SLL,
		"srl": FUNCT_SRL,
		"sra": FUNCT_SRA,
	}
	mulDivMap = map[string]CodeFunct{
		"mult":  FUNCT_MULT,
		"multu": FUNCT_MULTU,
		"div":   FUNCT_DIV,
		"divu":  FUNCT_DIVU,
	}
	hiLoMap = map[string]CodeFunct{
		"mfhi": FUNCT_MFHI,
		"mflo": FUNCT_MFLO,
		"mthi": FUNCT_MTHI,
		"mtlo": FUNCT_MTLO,
	}
	jumpRegMap = map[string]CodeFunct{
		"jr":   FUNCT_JR,
		"jalr": FUNCT_JALR,
	}
)

// Immediate format mnemonics, by operand form.
var (
	aluImmMap = map[string]CodeOp{
		"addi":  OP_ADDI,
		"addiu": OP_ADDIU,
		"slti":  OP_SLTI,
		"sltiu": OP_SLTIU,
		"andi":  OP_ANDI,
		"ori":   OP_ORI,
		"xori":  OP_XORI,
	}
	memMap = map[string]CodeOp{
		"lb":   OP_LB,
		"lbu":  OP_LBU,
		"lhw":  OP_LHW,
		"lhwu": OP_LHWU,
		"lw":   OP_LW,
		"sb":   OP_SB,
		"shw":  OP_SHW,
		"sw":   OP_SW,
	}
	branch2Map = map[string]CodeOp{
		"beq": OP_BEQ,
		"bne": OP_BNE,
	}
	branch1Map = map[string]CodeOp{
		"blez": OP_BLEZ,
		"bgtz": OP_BGTZ,
	}
	regimmMap = map[string]CodeRegimm{
		"bltz":   REGIMM_BLTZ,
		"bgez":   REGIMM_BGEZ,
		"bltzal": REGIMM_BLTZAL,
		"bgezal": REGIMM_BGEZAL,
	}
	jumpMap = map[string]CodeOp{
		"j":   OP_J,
		"jal": OP_JAL,
	}
)

var (
	labelRe  = regexp.MustCompile(`^[A-Za-z_.][A-Za-z0-9_.]*$`)
	memArgRe = regexp.MustCompile(`^(.*)\(([^()]+)\)$`)
	charRe   = regexp.MustCompile(`'\\?[^']'`)
)

// valueOf returns the value of a simple word.
func (asm *Assembler) valueOf(word string) (value uint32, err error) {
	if len(word) == 0 {
		err = ErrOpcodeValueMissing
		return
	}

	invert := false
	if word[0] == '~' {
		invert = true
		word = word[1:]
	}
	if len(word) > 0 && word[0] == '\'' {
		// Character quotes should have been expanded into
		// values in parseLine()
		err = ErrParseCharacter(strings.Trim(word, "'"))
		return
	}
	v64, err := strconv.ParseInt(word, 0, 33)
	if err != nil {
		err = ErrParseNumber(word)
		return
	}

	if v64 > 0xffffffff || v64 < -int64(0x80000000) {
		err = ErrParseNumber(word)
		return
	}

	value = uint32(v64)

	if invert {
		value = ^value
	}

	return
}

// value returns the value of a word, or of the equate it names.
func (asm *Assembler) value(word string) (value uint32, err error) {
	equate, ok := asm.Equate[word]
	if ok {
		word = equate
	}

	return asm.valueOf(word)
}

// register returns the register index named by word.
func (asm *Assembler) register(word string) (reg uint8, err error) {
	equate, ok := asm.Equate[word]
	if ok {
		word = equate
	}

	reg, ok = regMap[word]
	if !ok {
		err = ErrRegisterInvalid
	}
	return
}

// registers returns the register indexes named by words.
func (asm *Assembler) registers(words ...string) (regs []uint8, err error) {
	regs = make([]uint8, len(words))
	for n, word := range words {
		regs[n], err = asm.register(word)
		if err != nil {
			return
		}
	}
	return
}

// immediate returns a value that fits in a 16-bit immediate field, either
// as signed or as unsigned.
func (asm *Assembler) immediate(word string) (imm uint16, err error) {
	value, err := asm.value(word)
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

// shift returns a shift amount in the range 0-31.
func (asm *Assembler) shift(word string) (shamt uint8, err error) {
	value, err := asm.value(word)
	if err != nil {
		return
	}

	if value > REGISTER_MASK {
		err = ErrImmediateRange
		return
	}

	shamt = uint8(value)
	return
}

// memArg parses the address operands of a load or store, either as
// 'offset(rs)' or as 'rs offset'.
func (asm *Assembler) memArg(words []string) (rs uint8, offset uint16, err error) {
	switch len(words) {
	case 0:
		err = ErrOpcodeValueMissing
	case 1:
		match := memArgRe.FindStringSubmatch(words[0])
		if match == nil {
			err = ErrInstructionInvalid
			return
		}
		rs, err = asm.register(match[2])
		if err != nil {
			return
		}
		if len(match[1]) != 0 {
			offset, err = asm.immediate(match[1])
		}
	case 2:
		rs, err = asm.register(words[0])
		if err != nil {
			return
		}
		offset, err = asm.immediate(words[1])
	default:
		err = ErrOpcodeExtraArgs
	}

	return
}

// target returns either the numeric value of word, or the label it names.
func (asm *Assembler) target(word string) (value uint32, label string, err error) {
	value, err = asm.value(word)
	if err == nil {
		return
	}

	if labelRe.MatchString(word) {
		err = nil
		label = word
	}

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
	for key, addr := range asm.Label {
		if _, ok := pred[key]; !ok {
			pred[key] = starlark.MakeUint(uint(addr))
		}
	}
	err = nil

	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		err = errors.Join(ErrParseExpression(expr), err)
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

// expandExpressions replaces every $(...) in a line with its value.
func (asm *Assembler) expandExpressions(line string) (out string, err error) {
	for {
		start := strings.Index(line, "$(")
		if start < 0 {
			break
		}

		end := -1
		depth := 0
		for n := start + 1; n < len(line) && end < 0; n++ {
			switch line[n] {
			case '(':
				depth++
			case ')':
				depth--
				if depth == 0 {
					end = n
				}
			}
		}
		if end < 0 {
			err = ErrParseExpression(line[start+2:])
			return
		}

		var value uint32
		value, err = asm.parenEval(line[start+2 : end])
		if err != nil {
			return
		}
		line = line[:start] + fmt.Sprintf("%#v", value) + line[end+1:]
	}

	out = line
	return
}

// splitWords splits a line into words separated by spaces or commas.
func splitWords(line string) []string {
	return strings.Fields(strings.ReplaceAll(line, ",", " "))
}

// parseLine parses a single line as an opcode.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Do 'x' evaluations
	line = charRe.ReplaceAllStringFunc(line, func(word string) string {
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
			case "0":
				str = "\000"
			default:
				return word
			}
		} else if len(str) != 1 {
			return word
		}
		return fmt.Sprintf("%v", str[0])
	})

	// Do $() evaluations
	line, err = asm.expandExpressions(line)
	if err != nil {
		return
	}

	words = splitWords(line)

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
		asm.Label[label] = asm.currentAddr()
		if asm.Verbose {
			log.Printf("%v: label %v = 0x%08x", lineno, label, asm.Label[label])
		}
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
		local := fmt.Sprintf("%v_%v_", name, asm.expansions)
		asm.expansions++

		for n, line := range macro.Lines {
			lineno := macro.LineNo + n

			line = strings.ReplaceAll(line, "@", local)
			words, err = asm.parseLine(line, lineno)
			if err != nil {
				err = ErrMacro{Macro: name, Line: lineno, Err: err}
				err = ErrSyntax{LineNo: lineno, Line: line, Err: err}
				return
			}

			err = asm.parseWords(words, lineno)
			if err != nil {
				err = ErrMacro{Macro: name, Line: lineno, Err: err}
				err = ErrSyntax{LineNo: lineno, Line: line, Err: err}
				return
			}
		}

		words = nil
		return
	}

	return
}

// currentAddr gets the address of the next assembled instruction.
func (asm *Assembler) currentAddr() uint32 {
	if len(asm.Opcode) == 0 {
		return asm.Origin
	}

	last := asm.Opcode[len(asm.Opcode)-1]

	return last.Addr + 4*uint32(len(last.Codes))
}

// Parse parses an input stream into a Program containing opcodes.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {

	scanner := bufio.NewScanner(input)

	var line string
	var lineno int
	var macro *Macro

	defer func() {
		if err != nil {
			err = ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	clear(asm.Label)
	asm.Opcode = asm.Opcode[:0]
	if asm.Macro == nil {
		asm.Macro = make(map[string](*Macro))
	}
	clear(asm.Macro)
	asm.expansions = 0
	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		text_comment := strings.Split(text, ";")
		line = strings.TrimSpace(text_comment[0])
		words := splitWords(line)

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

	err = scanner.Err()
	if err != nil {
		return
	}

	if macro != nil {
		err = ErrMacroLonely
		return
	}

	// Final linking of labels.
	for n := range asm.Opcode {
		op := &asm.Opcode[n]

		if len(op.LinkLabel) == 0 {
			continue
		}

		err = asm.link(op)
		if err != nil {
			lineno = op.LineNo
			line = strings.Join(op.Words, " ")
			return
		}
	}

	prog = &Program{
		Origin:  asm.Origin,
		Opcodes: append([]Opcode(nil), asm.Opcode...),
	}

	return
}

// link resolves the label reference of an opcode.
func (asm *Assembler) link(op *Opcode) (err error) {
	addr, ok := asm.Label[op.LinkLabel]
	if !ok {
		err = ErrLabelMissing(op.LinkLabel)
		return
	}

	if len(op.Codes) == 0 {
		err = ErrInstructionInvalid
		return
	}

	last := &op.Codes[len(op.Codes)-1]
	next := op.Addr + 4*uint32(len(op.Codes))

	switch op.Link {
	case LINK_BRANCH:
		offset := int64(addr) - int64(next)
		if offset < -0x8000 || offset > 0x7fff {
			err = ErrBranchRange
			return
		}
		*last |= Code(uint16(offset))
	case LINK_JUMP:
		if (addr & SEGMENT_MASK) != (next & SEGMENT_MASK) {
			err = ErrJumpSegment
			return
		}
		*last |= Code((addr >> 2) & TARGET_MASK)
	case LINK_ADDRESS:
		if len(op.Codes) != 2 {
			err = ErrInstructionInvalid
			return
		}
		op.Codes[0] |= Code(addr >> 16)
		op.Codes[1] |= Code(addr & IMMEDIATE_MASK)
	case LINK_WORD:
		*last = Code(addr)
	default:
		err = ErrInstructionInvalid
	}

	return
}

// checkArgs verifies the operand count of an instruction.
func checkArgs(args []string, count int) (err error) {
	switch {
	case len(args) < count:
		err = ErrOpcodeValueMissing
	case len(args) > count:
		err = ErrOpcodeExtraArgs
	}
	return
}

// loadImmediate returns the codes that load value into register rt.
func loadImmediate(rt uint8, value uint32) (codes []Code) {
	hi := uint16(value >> 16)
	lo := uint16(value)

	switch {
	case hi == 0:
		codes = append(codes, MakeCodeI(OP_ORI, REG_ZERO, rt, lo))
	case lo == 0:
		codes = append(codes, MakeCodeI(OP_LUI, REG_ZERO, rt, hi))
	default:
		codes = append(codes,
			MakeCodeI(OP_LUI, REG_ZERO, rt, hi),
			MakeCodeI(OP_ORI, rt, rt, lo),
		)
	}

	return
}

// parseWords evaluates the words in a line of assembly text.
func (asm *Assembler) parseWords(words []string, lineno int) (err error) {
	var codes []Code
	var label string
	var link CodeLink

	// no-op
	if len(words) == 0 {
		return
	}

	initial_words := words

	defer func() {
		if err != nil || len(codes) == 0 {
			return
		}
		if asm.Verbose {
			log.Printf("%v: 0x%08x %v", lineno, asm.currentAddr(), codes)
		}
		opcode := Opcode{LineNo: lineno, Addr: asm.currentAddr(), Words: initial_words, Codes: codes, LinkLabel: label, Link: link}
		asm.Opcode = append(asm.Opcode, opcode)
	}()

	mnemonic := strings.ToLower(words[0])
	args := words[1:]

	// branchTo sets the offset or the label of a branch.
	branchTo := func(word string) (offset uint16, err error) {
		var value uint32
		value, label, err = asm.target(word)
		if err != nil {
			return
		}
		if len(label) != 0 {
			link = LINK_BRANCH
			return
		}
		if value > 0xffff && value < 0xffff8000 {
			err = ErrBranchRange
			return
		}
		offset = uint16(value)
		return
	}

	if funct, ok := r3Map[mnemonic]; ok {
		// op rd rs rt
		var regs []uint8
		if err = checkArgs(args, 3); err == nil {
			regs, err = asm.registers(args...)
		}
		if err != nil {
			return
		}
		codes = append(codes, MakeCodeR(funct, regs[1], regs[2], regs[0], 0))
		return
	}

	if funct, ok := shiftMap[mnemonic]; ok {
		// op rd rt shamt
		var regs []uint8
		var shamt uint8
		if err = checkArgs(args, 3); err == nil {
			regs, err = asm.registers(args[:2]...)
		}
		if err == nil {
			shamt, err = asm.shift(args[2])
		}
		if err != nil {
			return
		}
		codes = append(codes, MakeCodeR(funct, REG_ZERO, regs[1], regs[0], shamt))
		return
	}

	if funct, ok := mulDivMap[mnemonic]; ok {
		// op rs rt
		var regs []uint8
		if err = checkArgs(args, 2); err == nil {
			regs, err = asm.registers(args...)
		}
		if err != nil {
			return
		}
		codes = append(codes, MakeCodeR(funct, regs[0], regs[1], REG_AT, 0))
		return
	}

	if funct, ok := hiLoMap[mnemonic]; ok {
		// op rd
		var regs []uint8
		if err = checkArgs(args, 1); err == nil {
			regs, err = asm.registers(args...)
		}
		if err != nil {
			return
		}
		codes = append(codes, MakeCodeR(funct, REG_ZERO, REG_ZERO, regs[0], 0))
		return
	}

	if funct, ok := jumpRegMap[mnemonic]; ok {
		// op rs
		var regs []uint8
		if err = checkArgs(args, 1); err == nil {
			regs, err = asm.registers(args...)
		}
		if err != nil {
			return
		}
		codes = append(codes, MakeCodeR(funct, regs[0], REG_ZERO, REG_AT, 0))
		return
	}

	if op, ok := aluImmMap[mnemonic]; ok {
		// op rt rs imm
		var regs []uint8
		var imm uint16
		if err = checkArgs(args, 3); err == nil {
			regs, err = asm.registers(args[:2]...)
		}
		if err == nil {
			imm, err = asm.immediate(args[2])
		}
		if err != nil {
			return
		}
		codes = append(codes, MakeCodeI(op, regs[1], regs[0], imm))
		return
	}

	if op, ok := memMap[mnemonic]; ok {
		// op rt offset(rs)
		// op rt rs offset
		if len(args) < 2 {
			err = ErrOpcodeValueMissing
			return
		}
		var rt, rs uint8
		var offset uint16
		rt, err = asm.register(args[0])
		if err == nil {
			rs, offset, err = asm.memArg(args[1:])
		}
		if err != nil {
			return
		}
		codes = append(codes, MakeCodeI(op, rs, rt, offset))
		return
	}

	if op, ok := branch2Map[mnemonic]; ok {
		// op rs rt target
		var regs []uint8
		var offset uint16
		if err = checkArgs(args, 3); err == nil {
			regs, err = asm.registers(args[:2]...)
		}
		if err == nil {
			offset, err = branchTo(args[2])
		}
		if err != nil {
			return
		}
		codes = append(codes, MakeCodeI(op, regs[0], regs[1], offset))
		return
	}

	if op, ok := branch1Map[mnemonic]; ok {
		// op rs target
		var rs uint8
		var offset uint16
		if err = checkArgs(args, 2); err == nil {
			rs, err = asm.register(args[0])
		}
		if err == nil {
			offset, err = branchTo(args[1])
		}
		if err != nil {
			return
		}
		codes = append(codes, MakeCodeI(op, rs, REG_ZERO, offset))
		return
	}

	if cond, ok := regimmMap[mnemonic]; ok {
		// op rs target
		var rs uint8
		var offset uint16
		if err = checkArgs(args, 2); err == nil {
			rs, err = asm.register(args[0])
		}
		if err == nil {
			offset, err = branchTo(args[1])
		}
		if err != nil {
			return
		}
		codes = append(codes, MakeCodeRegimm(cond, rs, offset))
		return
	}

	if op, ok := jumpMap[mnemonic]; ok {
		// op target
		var addr uint32
		if err = checkArgs(args, 1); err == nil {
			addr, label, err = asm.target(args[0])
		}
		if err != nil {
			return
		}
		if len(label) != 0 {
			link = LINK_JUMP
			addr = 0
		}
		codes = append(codes, MakeCodeJ(op, addr>>2))
		return
	}

	switch mnemonic {
	case "srav":
		// srav rd rt rs
		var regs []uint8
		if err = checkArgs(args, 3); err == nil {
			regs, err = asm.registers(args...)
		}
		if err != nil {
			return
		}
		codes = append(codes, MakeCodeR(FUNCT_SRAV, regs[2], regs[1], regs[0], 0))
	case "lui":
		// lui rt imm
		var rt uint8
		var imm uint16
		if err = checkArgs(args, 2); err == nil {
			rt, err = asm.register(args[0])
		}
		if err == nil {
			imm, err = asm.immediate(args[1])
		}
		if err != nil {
			return
		}
		codes = append(codes, MakeCodeI(OP_LUI, REG_ZERO, rt, imm))
	case "syscall":
		// syscall [code]
		var value uint32
		if len(args) > 1 {
			err = ErrOpcodeExtraArgs
			return
		}
		if len(args) == 1 {
			value, err = asm.value(args[0])
			if err != nil {
				return
			}
		}
		code, ok := MakeCodeSyscall(value)
		if !ok {
			err = ErrSyscallCode
			return
		}
		codes = append(codes, code)
	case "halt":
		if err = checkArgs(args, 0); err != nil {
			return
		}
		code, _ := MakeCodeSyscall(SYSCALL_HALT)
		codes = append(codes, code)
	case "break":
		if err = checkArgs(args, 0); err != nil {
			return
		}
		codes = append(codes, MakeCodeR(FUNCT_BREAK, REG_ZERO, REG_ZERO, REG_AT, 0))
	case "nop":
		if err = checkArgs(args, 0); err != nil {
			return
		}
		codes = append(codes, MakeCodeR(FUNCT_SLL, REG_ZERO, REG_AT, REG_AT, 0))
	case "move":
		// move rd rs => addu rd rs zero
		var regs []uint8
		if err = checkArgs(args, 2); err == nil {
			regs, err = asm.registers(args...)
		}
		if err != nil {
			return
		}
		codes = append(codes, MakeCodeR(FUNCT_ADDU, regs[1], REG_ZERO, regs[0], 0))
	case "li":
		// li rt value => [lui rt hi] [ori rt rt lo]
		var rt uint8
		var value uint32
		if err = checkArgs(args, 2); err == nil {
			rt, err = asm.register(args[0])
		}
		if err == nil {
			value, err = asm.value(args[1])
		}
		if err != nil {
			return
		}
		codes = append(codes, loadImmediate(rt, value)...)
	case "la":
		// la rt label => lui rt hi; ori rt rt lo
		var rt uint8
		var addr uint32
		if err = checkArgs(args, 2); err == nil {
			rt, err = asm.register(args[0])
		}
		if err == nil {
			addr, label, err = asm.target(args[1])
		}
		if err != nil {
			return
		}
		if len(label) != 0 {
			link = LINK_ADDRESS
			addr = 0
		}
		codes = append(codes,
			MakeCodeI(OP_LUI, REG_ZERO, rt, uint16(addr>>16)),
			MakeCodeI(OP_ORI, rt, rt, uint16(addr)),
		)
	case "b":
		// b target => beq zero zero target
		var offset uint16
		if err = checkArgs(args, 1); err == nil {
			offset, err = branchTo(args[0])
		}
		if err != nil {
			return
		}
		codes = append(codes, MakeCodeI(OP_BEQ, REG_ZERO, REG_ZERO, offset))
	case ".word":
		// .word value|label
		var value uint32
		if err = checkArgs(args, 1); err == nil {
			value, label, err = asm.target(args[0])
		}
		if err != nil {
			return
		}
		if len(label) != 0 {
			link = LINK_WORD
		}
		codes = append(codes, Code(value))
	default:
		err = ErrInstructionInvalid
	}

	return
}
