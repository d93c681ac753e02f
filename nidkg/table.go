package nidkg

import (
	"sync"

	"github.com/nesteddkg/tbls/internal/bsgs"
	"github.com/nesteddkg/tbls/internal/curve"
)

var (
	tableOnce sync.Once
	table     *bsgs.Table
)

// sharedTable lazily builds the process-wide baby-step table solving
// e(g1,g2)^m = target, in GT (§4.F.5: "after pairing, to make the DLP
// one-dimensional in GT"). It is built once and read-only thereafter,
// matching component A's rule that shared lookup structures are safe to use
// concurrently without locking once constructed.
//
// The table's baby steps depend only on the base point and the step size,
// not on the search bound, so the same table solves both a single dealer's
// chunk (bound ChunkSize) and a combined transcript's summed chunk (bound
// numDealers*ChunkSize) — DecryptShare picks the bound per call.
func sharedTable() *bsgs.Table {
	tableOnce.Do(func() {
		gt := curve.GT()
		base := curve.Pair(curve.G1().Point().Base(), curve.G2().Point().Base())
		table = bsgs.NewTable(gt, base, bsgsStep)
	})
	return table
}
