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

import (
	"encoding/binary"
	"fmt"

	"github.com/Fantom-foundation/Keel/go/keel"
	"github.com/ethereum/go-ethereum/rlp"
)

// Program is the rlp encoded package code run by the kvm. Exports are named
// `<blueprint>_<ident>` and point to the code offset they start at.
type Program struct {
	Exports []Export
	Strings []string
	Code    []byte
}

type Export struct {
	Name  string
	Entry uint16
}

func (p Program) Encode() (keel.Code, error) {
	data, err := rlp.EncodeToBytes(p)
	if err != nil {
		return nil, fmt.Errorf("failed to encode program: %w", err)
	}
	return data, nil
}

// instruction is the decoded form of an instruction. Jump targets are
// resolved to instruction indices.
type instruction struct {
	opcode OpCode
	arg    uint64
	arg2   byte
}

// program is a validated Program ready for execution.
type program struct {
	code    []instruction
	exports map[string]int
	strings []string
}

func decodeProgram(code keel.Code) (*program, error) {
	var p Program
	if err := rlp.DecodeBytes(code, &p); err != nil {
		return nil, fmt.Errorf("%w: %w", errInvalidCode, err)
	}
	instructions, offsets, err := convert(p.Code, len(p.Strings))
	if err != nil {
		return nil, err
	}
	res := &program{
		code:    instructions,
		exports: make(map[string]int, len(p.Exports)),
		strings: p.Strings,
	}
	for _, export := range p.Exports {
		index, found := offsets[int(export.Entry)]
		if !found {
			return nil, fmt.Errorf("%w: export %s starts at %d", errInvalidJump, export.Name, export.Entry)
		}
		if _, found := res.exports[export.Name]; found {
			return nil, fmt.Errorf("%w: duplicate export %s", errInvalidCode, export.Name)
		}
		res.exports[export.Name] = index
	}
	return res, nil
}

// convert splits the code into instructions. It returns the instruction
// index of every code offset an instruction starts at.
func convert(code []byte, numStrings int) ([]instruction, map[int]int, error) {
	res := []instruction{}
	offsets := map[int]int{}
	for pc := 0; pc < len(code); {
		op := OpCode(code[pc])
		if !op.isValid() {
			return nil, nil, fmt.Errorf("%w: %v at %d", errInvalidCode, op, pc)
		}
		size := op.immediateSize()
		if pc+1+size > len(code) {
			return nil, nil, fmt.Errorf("%w: truncated %v at %d", errInvalidCode, op, pc)
		}
		immediate := code[pc+1 : pc+1+size]
		cur := instruction{opcode: op}
		switch size {
		case 8:
			cur.arg = binary.BigEndian.Uint64(immediate)
		case 2:
			if op == CALL {
				cur.arg, cur.arg2 = uint64(immediate[0]), immediate[1]
			} else {
				cur.arg = uint64(binary.BigEndian.Uint16(immediate))
			}
		case 1:
			cur.arg = uint64(immediate[0])
		}
		if (op == EMIT || op == CALL) && cur.arg >= uint64(numStrings) {
			return nil, nil, fmt.Errorf("%w: %d at %d", errInvalidString, cur.arg, pc)
		}
		offsets[pc] = len(res)
		res = append(res, cur)
		pc += 1 + size
	}
	for i, cur := range res {
		if cur.opcode != JUMP && cur.opcode != JUMPI {
			continue
		}
		target, found := offsets[int(cur.arg)]
		if !found {
			return nil, nil, fmt.Errorf("%w: %d", errInvalidJump, cur.arg)
		}
		res[i].arg = uint64(target)
	}
	return res, offsets, nil
}
