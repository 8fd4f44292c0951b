// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package keel

import (
	"fmt"
	"strings"
	"sync"

	"golang.org/x/exp/maps"
)

// ProcessorFactory creates a processor executing transactions against the
// given database using the given interpreter for byte-code packages.
type ProcessorFactory func(interpreter Interpreter, db SubstateDatabase) Processor

// RegisterProcessorFactory registers a processor implementation under the
// given name (case-insensitive). It panics if the factory is nil or the name
// is already taken. This function is mainly intended to be used by package
// initialization code.
func RegisterProcessorFactory(name string, factory ProcessorFactory) {
	key := strings.ToLower(name)
	if factory == nil {
		panic(fmt.Sprintf("invalid initialization: cannot register nil-factory using `%s`", key))
	}
	processorRegistryLock.Lock()
	defer processorRegistryLock.Unlock()
	if _, found := processorRegistry[key]; found {
		panic(fmt.Sprintf("invalid initialization: multiple factories registered for `%s`", key))
	}
	processorRegistry[key] = factory
}

// GetProcessorFactory performs a lookup for the given name (case-insensitive)
// in the registry. The result is nil if no factory was registered under the
// given name.
func GetProcessorFactory(name string) ProcessorFactory {
	processorRegistryLock.Lock()
	defer processorRegistryLock.Unlock()
	return processorRegistry[strings.ToLower(name)]
}

// GetProcessor creates a processor using the factory registered under the
// given name. The result is nil if there is no such factory.
func GetProcessor(name string, interpreter Interpreter, db SubstateDatabase) Processor {
	factory := GetProcessorFactory(name)
	if factory == nil {
		return nil
	}
	return factory(interpreter, db)
}

// GetAllRegisteredProcessorFactories obtains all registered implementations.
func GetAllRegisteredProcessorFactories() map[string]ProcessorFactory {
	processorRegistryLock.Lock()
	defer processorRegistryLock.Unlock()
	return maps.Clone(processorRegistry)
}

var processorRegistry = map[string]ProcessorFactory{}

var processorRegistryLock sync.Mutex
