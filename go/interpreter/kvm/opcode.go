// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package kvm

import "fmt"

// OpCode is the leading byte of a kvm instruction. Binary operations take
// their right hand operand from the top of the stack, so that the sequence
// `x y SUB` computes x-y.
type OpCode byte

const (
	STOP OpCode = 0x00
	PUSH OpCode = 0x01 // 8 byte big endian value
	POP  OpCode = 0x02
	DUP  OpCode = 0x03 // 1 byte depth, 0 duplicates the top element
	SWAP OpCode = 0x04 // 1 byte depth of the element exchanged with the top

	ADD    OpCode = 0x10
	SUB    OpCode = 0x11
	MUL    OpCode = 0x12
	DIV    OpCode = 0x13
	LT     OpCode = 0x14
	GT     OpCode = 0x15
	EQ     OpCode = 0x16
	ISZERO OpCode = 0x17

	JUMP  OpCode = 0x20 // 2 byte code offset
	JUMPI OpCode = 0x21 // 2 byte code offset, taken if the top is not zero

	ARG   OpCode = 0x30 // 1 byte argument index
	LOAD  OpCode = 0x31 // 1 byte field of the receiver
	STORE OpCode = 0x32 // 1 byte field of the receiver
	EMIT  OpCode = 0x33 // 1 byte string index of the event name
	CALL  OpCode = 0x34 // 1 byte string index of the method, 1 byte argument count
	HASH  OpCode = 0x35

	NEW    OpCode = 0x40 // 1 byte field count
	RETURN OpCode = 0x41
)

var opCodeNames = map[OpCode]string{
	STOP: "STOP", PUSH: "PUSH", POP: "POP", DUP: "DUP", SWAP: "SWAP",
	ADD: "ADD", SUB: "SUB", MUL: "MUL", DIV: "DIV",
	LT: "LT", GT: "GT", EQ: "EQ", ISZERO: "ISZERO",
	JUMP: "JUMP", JUMPI: "JUMPI",
	ARG: "ARG", LOAD: "LOAD", STORE: "STORE", EMIT: "EMIT", CALL: "CALL", HASH: "HASH",
	NEW: "NEW", RETURN: "RETURN",
}

func (op OpCode) isValid() bool {
	_, found := opCodeNames[op]
	return found
}

// immediateSize is the number of bytes following the op code in the code.
func (op OpCode) immediateSize() int {
	switch op {
	case PUSH:
		return 8
	case JUMP, JUMPI, CALL:
		return 2
	case DUP, SWAP, ARG, LOAD, STORE, EMIT, NEW:
		return 1
	}
	return 0
}

func (op OpCode) String() string {
	if name, found := opCodeNames[op]; found {
		return name
	}
	return fmt.Sprintf("op(0x%02x)", byte(op))
}
