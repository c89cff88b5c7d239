// Package panda implements the on-disk container format for panda files:
// register-based VM bytecode images consumed by the assembler, the class
// linker and the verifier's control-flow analysis. It exposes the file
// header, the class index, and the tagged entity-record walker that the
// accessor package builds its lazy views on top of.
package panda
