package contract

import (
	"github.com/kilnworks/kiln/pkg/tx"
	"github.com/kilnworks/kiln/pkg/types"
)

// CallContext carries the ambient facts of a contract call: who is
// calling, the outputs of the transaction the call rode in on, and the
// block height the call executes at. The runtime fills it in from the
// verified transaction; the collection never inspects the transaction
// itself.
type CallContext struct {
	Sender  types.Address
	Outputs []tx.Output
	Height  uint64
}
