// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package kernel

import "fmt"

// ExecutionMode gates which kernel operations may be performed.
type ExecutionMode uint8

const (
	ModeKernel ExecutionMode = iota
	// ModeKernelModule is used while running callback hooks. Hooks may read
	// and write substates but may not invoke code or drop nodes.
	ModeKernelModule
	// ModeClient is used while running blueprint code.
	ModeClient
	// ModeResolver is used while resolving the actor of an invocation.
	ModeResolver
	// ModeDeref is used while redirecting a global address to its
	// underlying node.
	ModeDeref
	ModeDropNode
	ModeAutoDrop
)

func (m ExecutionMode) String() string {
	switch m {
	case ModeKernel:
		return "Kernel"
	case ModeKernelModule:
		return "KernelModule"
	case ModeClient:
		return "Client"
	case ModeResolver:
		return "Resolver"
	case ModeDeref:
		return "Deref"
	case ModeDropNode:
		return "DropNode"
	case ModeAutoDrop:
		return "AutoDrop"
	}
	return fmt.Sprintf("ExecutionMode(%d)", uint8(m))
}

func modes(list ...ExecutionMode) uint16 {
	res := uint16(0)
	for _, mode := range list {
		res |= 1 << mode
	}
	return res
}

// legalTransitions lists the modes that can be entered from each mode.
var legalTransitions = [...]uint16{
	ModeKernel:       modes(ModeKernelModule, ModeClient, ModeResolver, ModeDeref, ModeDropNode, ModeAutoDrop),
	ModeClient:       modes(ModeKernelModule, ModeClient, ModeResolver, ModeDeref, ModeDropNode, ModeAutoDrop),
	ModeAutoDrop:     modes(ModeKernelModule, ModeClient, ModeDropNode, ModeResolver, ModeDeref),
	ModeDropNode:     modes(ModeKernelModule),
	ModeResolver:     modes(ModeDeref, ModeKernelModule),
	ModeDeref:        modes(ModeKernelModule),
	ModeKernelModule: 0,
}

// CanTransition reports whether the mode to can be entered from the mode
// from.
func CanTransition(from, to ExecutionMode) bool {
	if int(from) >= len(legalTransitions) {
		return false
	}
	return legalTransitions[from]&(1<<to) != 0
}

// Phase is the life cycle state of a kernel.
type Phase uint8

const (
	PhaseUninitialized Phase = iota
	PhaseRunning
	PhaseTearingDown
	PhaseFinished
)

func (p Phase) String() string {
	switch p {
	case PhaseUninitialized:
		return "Uninitialized"
	case PhaseRunning:
		return "Running"
	case PhaseTearingDown:
		return "TearingDown"
	case PhaseFinished:
		return "Finished"
	}
	return fmt.Sprintf("Phase(%d)", uint8(p))
}
