// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package natives

import (
	"fmt"

	"github.com/Fantom-foundation/Keel/go/keel"
)

const PackageBlueprint = "Package"

// ExportRoyalty sets the royalty charged for each call of an export.
type ExportRoyalty struct {
	Blueprint string
	Ident     string
	Amount    keel.RoyaltyAmount
}

type PublishArgs struct {
	Code      []byte
	Royalties []ExportRoyalty
}

type PackageOutput struct {
	Package keel.Reference
}

// publish creates a package holding the given byte-code. The code is
// validated by the interpreter on its first use.
func publish(args keel.IndexedValue, api keel.ClientApi) (keel.IndexedValue, error) {
	params, err := decodeArgs[PublishArgs](args)
	if err != nil {
		return keel.IndexedValue{}, err
	}
	if len(params.Code) == 0 {
		return keel.IndexedValue{}, fmt.Errorf("%w: empty code", ErrInvalidArguments)
	}
	pkg, err := api.AllocateNodeID(keel.EntityTypeGlobalPackage)
	if err != nil {
		return keel.IndexedValue{}, err
	}
	code, err := encode(PackageCode{Code: params.Code})
	if err != nil {
		return keel.IndexedValue{}, err
	}
	substates := keel.NodeSubstates{}.
		Set(keel.TypeInfoPartition, keel.TypeInfoKey, typeInfo(PackagePackage, PackageBlueprint, true, keel.NodeID{})).
		Set(keel.MainPartition, CodeKey, code)
	for _, royalty := range params.Royalties {
		if royalty.Amount.Amount.IsNegative() {
			return keel.IndexedValue{}, fmt.Errorf("%w: negative royalty for %s::%s", ErrInvalidArguments, royalty.Blueprint, royalty.Ident)
		}
		if royalty.Amount.IsZero() {
			continue
		}
		amount, err := encode(royalty.Amount)
		if err != nil {
			return keel.IndexedValue{}, err
		}
		substates.Set(keel.RoyaltyPartition, RoyaltyKey(royalty.Blueprint, royalty.Ident), amount)
	}
	if err := api.CreateNode(pkg, substates); err != nil {
		return keel.IndexedValue{}, err
	}
	return encode(PackageOutput{Package: keel.Reference(pkg)})
}
