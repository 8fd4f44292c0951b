// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package system

import (
	"fmt"

	"github.com/Fantom-foundation/Keel/go/keel"
	"github.com/Fantom-foundation/Keel/go/kernel"
	"github.com/Fantom-foundation/Keel/go/natives"
	"github.com/ethereum/go-ethereum/crypto"
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCodeCacheSize is the default number of package instances kept by an
// Executor.
const DefaultCodeCacheSize = 256

// Executor runs the code of actors. Native packages are dispatched to their
// built-in implementation, all other packages are run by the interpreter.
// Instances are cached by the hash of their code and may be shared by any
// number of transactions.
type Executor struct {
	interpreter keel.Interpreter
	instances   *lru.Cache[keel.Hash, keel.Instance]
}

// NewExecutor creates an executor for the given interpreter, which may be nil
// if only native packages are to be run.
func NewExecutor(interpreter keel.Interpreter, cacheSize int) (*Executor, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultCodeCacheSize
	}
	instances, err := lru.New[keel.Hash, keel.Instance](cacheSize)
	if err != nil {
		return nil, err
	}
	return &Executor{interpreter: interpreter, instances: instances}, nil
}

// Export is the name of the byte-code export implementing a blueprint
// function.
func Export(blueprint, ident string) string {
	return blueprint + "_" + ident
}

// Invoke runs the code of the current actor of the given api. Failures of
// the code are reported as ApplicationError, failures of the system it calls
// into are passed on unchanged.
func (e *Executor) Invoke(args keel.IndexedValue, api *Service) (keel.IndexedValue, error) {
	actor := api.CurrentActor()
	if natives.IsNativePackage(actor.Package) {
		function, found := natives.Lookup(actor.Package, actor.Blueprint, actor.Ident)
		if !found {
			return keel.IndexedValue{}, &ApplicationError{Actor: actor, Err: natives.ErrUnknownFunction}
		}
		output, err := function(args, api)
		if err != nil {
			return keel.IndexedValue{}, applicationError(actor, err)
		}
		return output, nil
	}

	instance, err := e.instance(actor.Package, api.internal)
	if err != nil {
		return keel.IndexedValue{}, applicationError(actor, err)
	}
	output, err := instance.Invoke(Export(actor.Blueprint, actor.Ident), args, api)
	if err != nil {
		return keel.IndexedValue{}, applicationError(actor, err)
	}
	return output, nil
}

func (e *Executor) instance(pkg keel.NodeID, api kernel.InternalApi) (keel.Instance, error) {
	if e.interpreter == nil {
		return nil, ErrNoInterpreter
	}
	value, found, err := api.PeekSubstate(pkg, keel.MainPartition, natives.CodeKey)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: %v", ErrMissingCode, pkg)
	}
	var code natives.PackageCode
	if err := value.Decode(&code); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMissingCode, err)
	}
	hash := keel.Hash(crypto.Keccak256Hash(code.Code))
	if instance, found := e.instances.Get(hash); found {
		return instance, nil
	}
	instance, err := e.interpreter.Instantiate(code.Code)
	if err != nil {
		return nil, err
	}
	e.instances.Add(hash, instance)
	return instance, nil
}
