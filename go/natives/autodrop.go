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

// AutoDrop disposes of nodes left behind by a returning frame. Proofs and
// empty buckets are dropped, anything else is an error.
func AutoDrop(nodes []keel.NodeID, api keel.KernelApi) error {
	for _, node := range nodes {
		switch node.EntityType() {
		case keel.EntityTypeInternalFungibleProof:
			if _, err := api.DropNode(node); err != nil {
				return err
			}
		case keel.EntityTypeInternalFungibleBucket:
			content, err := dropBucket(api, node)
			if err != nil {
				return err
			}
			if !content.Amount.IsZero() {
				return fmt.Errorf("%w: %v holds %v", ErrNonEmptyBucket, node, content.Amount)
			}
		default:
			return fmt.Errorf("%w: %v", ErrUnexpectedNode, node)
		}
	}
	return nil
}
