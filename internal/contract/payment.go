package contract

import (
	"github.com/kilnworks/kiln/pkg/tx"
	"github.com/kilnworks/kiln/pkg/types"
)

// findPayment scans outputs for one paying treasury at least price.
// The scan is deliberately permissive: outputs to other addresses are
// ignored, amounts are not summed across outputs, overpayment is fine,
// and the first qualifying output wins.
func findPayment(outputs []tx.Output, treasury types.Address, price uint64) (tx.Output, bool) {
	for _, out := range outputs {
		if out.PaysTo(treasury) && out.Value >= price {
			return out, true
		}
	}
	return tx.Output{}, false
}
