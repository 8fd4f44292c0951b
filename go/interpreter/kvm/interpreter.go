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
	"fmt"

	"github.com/Fantom-foundation/Keel/go/keel"
	"github.com/holiman/uint256"
)

type context struct {
	config  Config
	program *program
	api     keel.ClientApi
	actor   keel.Actor
	args    []uint64

	pc        int
	stack     *stack
	steps     uint64
	unmetered uint32
}

// meter charges the cost units of the instructions run since the last call.
func (c *context) meter() error {
	if c.unmetered == 0 {
		return nil
	}
	units := c.unmetered
	c.unmetered = 0
	return c.api.ConsumeCostUnits(units)
}

func run(c *context) (keel.IndexedValue, error) {
	for c.pc < len(c.program.code) {
		if c.steps >= c.config.MaxSteps {
			return keel.IndexedValue{}, errStepLimit
		}
		c.steps++
		c.unmetered += c.config.StepCost
		if c.steps%uint64(c.config.MeteringInterval) == 0 {
			if err := c.meter(); err != nil {
				return keel.IndexedValue{}, err
			}
		}

		cur := c.program.code[c.pc]
		c.pc++
		if err := c.stack.require(stackUsage(cur)); err != nil {
			return keel.IndexedValue{}, fmt.Errorf("%w: %v at %d", err, cur.opcode, c.pc-1)
		}
		switch cur.opcode {
		case STOP:
			return keel.UnitValue, c.meter()
		case RETURN:
			value, err := toUint64(c.stack.pop())
			if err != nil {
				return keel.IndexedValue{}, err
			}
			if err := c.meter(); err != nil {
				return keel.IndexedValue{}, err
			}
			return keel.NewIndexedValue(value)
		case NEW:
			return opNew(c, int(cur.arg))
		default:
			if err := execute(c, cur); err != nil {
				return keel.IndexedValue{}, fmt.Errorf("%v at %d failed: %w", cur.opcode, c.pc-1, err)
			}
		}
	}
	return keel.UnitValue, c.meter()
}

// stackUsage is the number of elements an instruction pops and pushes.
func stackUsage(cur instruction) (int, int) {
	switch cur.opcode {
	case PUSH, ARG, LOAD:
		return 0, 1
	case POP, JUMPI, STORE, EMIT, RETURN:
		return 1, 0
	case DUP:
		return int(cur.arg) + 1, int(cur.arg) + 2
	case SWAP:
		return int(cur.arg) + 1, int(cur.arg) + 1
	case ADD, SUB, MUL, DIV, LT, GT, EQ:
		return 2, 1
	case ISZERO, HASH:
		return 1, 1
	case CALL:
		return int(cur.arg2), 1
	case NEW:
		return int(cur.arg), 0
	}
	return 0, 0
}

func execute(c *context, cur instruction) error {
	s := c.stack
	switch cur.opcode {
	case PUSH:
		s.push(uint256.NewInt(cur.arg))
	case POP:
		s.pop()
	case DUP:
		s.dup(int(cur.arg))
	case SWAP:
		s.swap(int(cur.arg))
	case ADD:
		y := s.pop()
		x := s.peek()
		x.Add(x, y)
	case SUB:
		y := s.pop()
		x := s.peek()
		x.Sub(x, y)
	case MUL:
		y := s.pop()
		x := s.peek()
		x.Mul(x, y)
	case DIV:
		y := s.pop()
		x := s.peek()
		x.Div(x, y)
	case LT:
		y := s.pop()
		x := s.peek()
		setBool(x, x.Lt(y))
	case GT:
		y := s.pop()
		x := s.peek()
		setBool(x, x.Gt(y))
	case EQ:
		y := s.pop()
		x := s.peek()
		setBool(x, x.Eq(y))
	case ISZERO:
		x := s.peek()
		setBool(x, x.IsZero())
	case JUMP:
		c.pc = int(cur.arg)
	case JUMPI:
		if !s.pop().IsZero() {
			c.pc = int(cur.arg)
		}
	case ARG:
		if cur.arg >= uint64(len(c.args)) {
			return fmt.Errorf("%w: missing argument %d", errInvalidArguments, cur.arg)
		}
		s.push(uint256.NewInt(c.args[cur.arg]))
	case LOAD:
		return opLoad(c, keel.FieldKey(byte(cur.arg)))
	case STORE:
		return opStore(c, keel.FieldKey(byte(cur.arg)))
	case EMIT:
		return opEmit(c, c.program.strings[cur.arg])
	case CALL:
		return opCall(c, c.program.strings[cur.arg], int(cur.arg2))
	case HASH:
		return opHash(c)
	}
	return nil
}

func setBool(x *uint256.Int, value bool) {
	if value {
		x.SetOne()
	} else {
		x.Clear()
	}
}

func toUint64(x *uint256.Int) (uint64, error) {
	if !x.IsUint64() {
		return 0, errValueOverflow
	}
	return x.Uint64(), nil
}

func (c *context) receiver() (keel.NodeID, error) {
	if !c.actor.IsMethod() {
		return keel.NodeID{}, errNoReceiver
	}
	return c.actor.Receiver, nil
}

func opLoad(c *context, field keel.SubstateKey) error {
	receiver, err := c.receiver()
	if err != nil {
		return err
	}
	if err := c.meter(); err != nil {
		return err
	}
	handle, err := c.api.OpenSubstate(receiver, keel.MainPartition, field, 0)
	if err != nil {
		return err
	}
	value, err := c.api.ReadSubstate(handle)
	if err != nil {
		return err
	}
	var res uint64
	if err := value.Decode(&res); err != nil {
		return err
	}
	c.stack.push(uint256.NewInt(res))
	return c.api.CloseSubstate(handle)
}

func opStore(c *context, field keel.SubstateKey) error {
	receiver, err := c.receiver()
	if err != nil {
		return err
	}
	value, err := toUint64(c.stack.pop())
	if err != nil {
		return err
	}
	if err := c.meter(); err != nil {
		return err
	}
	handle, err := c.api.OpenSubstate(receiver, keel.MainPartition, field, keel.LockMutable)
	if err != nil {
		return err
	}
	encoded, err := keel.NewIndexedValue(value)
	if err != nil {
		return err
	}
	if err := c.api.WriteSubstate(handle, encoded); err != nil {
		return err
	}
	return c.api.CloseSubstate(handle)
}

func opEmit(c *context, name string) error {
	value, err := toUint64(c.stack.pop())
	if err != nil {
		return err
	}
	if err := c.meter(); err != nil {
		return err
	}
	data, err := keel.NewIndexedValue(value)
	if err != nil {
		return err
	}
	return c.api.EmitEvent(name, data)
}

// opCall invokes a method on the global component the current method was
// called through. Results other than numbers are pushed as zero.
func opCall(c *context, method string, numArgs int) error {
	if c.actor.Global == (keel.NodeID{}) {
		return errNoReceiver
	}
	args := make([]uint64, numArgs)
	for i := numArgs - 1; i >= 0; i-- {
		value, err := toUint64(c.stack.pop())
		if err != nil {
			return err
		}
		args[i] = value
	}
	if err := c.meter(); err != nil {
		return err
	}
	encoded, err := keel.NewIndexedValue(args)
	if err != nil {
		return err
	}
	result, err := c.api.CallMethod(c.actor.Global, method, encoded)
	if err != nil {
		return err
	}
	var res uint64
	if err := result.Decode(&res); err != nil {
		res = 0
	}
	c.stack.push(uint256.NewInt(res))
	return nil
}

func opHash(c *context) error {
	x := c.stack.peek()
	data := x.Bytes32()
	if err := c.meter(); err != nil {
		return err
	}
	hash, err := c.api.Keccak256Hash(data[:])
	if err != nil {
		return err
	}
	x.SetBytes32(hash[:])
	return nil
}

// opNew creates a global component of the current blueprint whose fields
// are taken from the stack, the deepest element becoming field 0.
func opNew(c *context, numFields int) (keel.IndexedValue, error) {
	substates := keel.NodeSubstates{}
	for i := numFields - 1; i >= 0; i-- {
		value, err := toUint64(c.stack.pop())
		if err != nil {
			return keel.IndexedValue{}, err
		}
		encoded, err := keel.NewIndexedValue(value)
		if err != nil {
			return keel.IndexedValue{}, err
		}
		substates.Set(keel.MainPartition, keel.FieldKey(byte(i)), encoded)
	}
	if err := c.meter(); err != nil {
		return keel.IndexedValue{}, err
	}
	info, err := keel.NewIndexedValue(keel.TypeInfo{Package: c.actor.Package, Blueprint: c.actor.Blueprint})
	if err != nil {
		return keel.IndexedValue{}, err
	}
	substates.Set(keel.TypeInfoPartition, keel.TypeInfoKey, info)
	id, err := c.api.AllocateNodeID(keel.EntityTypeInternalGenericComponent)
	if err != nil {
		return keel.IndexedValue{}, err
	}
	if err := c.api.CreateNode(id, substates); err != nil {
		return keel.IndexedValue{}, err
	}
	global, err := c.api.Globalize(keel.EntityTypeGlobalGenericComponent, id)
	if err != nil {
		return keel.IndexedValue{}, err
	}
	return keel.NewIndexedValue(keel.Reference(global))
}
