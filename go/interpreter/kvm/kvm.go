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
)

// Registers the kvm as an interpreter for byte-code packages.
func init() {
	err := keel.RegisterInterpreterFactory("kvm", func(config any) (keel.Interpreter, error) {
		if config == nil {
			return NewVm(DefaultConfig())
		}
		c, ok := config.(Config)
		if !ok {
			return nil, fmt.Errorf("invalid kvm configuration: %v", config)
		}
		return NewVm(c)
	})
	if err != nil {
		panic(err)
	}
}

type Config struct {
	// MaxSteps bounds the number of instructions of a single invocation.
	MaxSteps uint64
	// StepCost is the number of cost units charged per instruction.
	StepCost uint32
	// MeteringInterval is the number of instructions after which the
	// consumed cost units are charged.
	MeteringInterval uint32
}

func DefaultConfig() Config {
	return Config{
		MaxSteps:         1 << 20,
		StepCost:         10,
		MeteringInterval: 256,
	}
}

type kvm struct {
	config Config
}

func NewVm(config Config) (*kvm, error) {
	if config.MeteringInterval == 0 {
		return nil, fmt.Errorf("invalid metering interval: %d", config.MeteringInterval)
	}
	return &kvm{config: config}, nil
}

func (v *kvm) Instantiate(code keel.Code) (keel.Instance, error) {
	program, err := decodeProgram(code)
	if err != nil {
		return nil, err
	}
	return &instance{config: v.config, program: program}, nil
}

type instance struct {
	config  Config
	program *program
}

func (i *instance) Invoke(export string, args keel.IndexedValue, api keel.ClientApi) (keel.IndexedValue, error) {
	entry, found := i.program.exports[export]
	if !found {
		return keel.IndexedValue{}, fmt.Errorf("%w: %s", errUnknownExport, export)
	}
	var arguments []uint64
	if err := args.Decode(&arguments); err != nil {
		return keel.IndexedValue{}, fmt.Errorf("%w: %w", errInvalidArguments, err)
	}
	c := &context{
		config:  i.config,
		program: i.program,
		api:     api,
		actor:   api.CurrentActor(),
		args:    arguments,
		pc:      entry,
		stack:   newStack(),
	}
	defer returnStack(c.stack)
	return run(c)
}
