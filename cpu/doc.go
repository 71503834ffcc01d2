// Package cpu implements the processor, memory and assembler for the lcpu
// system.
//
// The CPU is a 32-bit, word-addressed machine with thirty-two registers.
// Register r0 always reads as zero, r30 is the program counter (a byte
// address) and r31 holds the flags, of which only bit 0 (zero) is defined.
// Every instruction is a single big-endian 32-bit word with a 6-bit opcode in
// bits 31-26 and fixed operand fields below it. Data accesses address memory
// by word index, which is scaled by four into a byte offset.
//
// Pixel output and input values are exchanged with the host through the
// Display and Input interfaces.
//
// The assembler provides a small assembly language for the instruction set,
// supporting macros, labels, equates, and compile-time expression evaluation.
package cpu
