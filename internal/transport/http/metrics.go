package httptransport

import "expvar"

var (
	metricSnapshotQueryTotal  = expvar.NewInt("snapshot_query_total")
	metricSnapshotQueryMisses = expvar.NewInt("snapshot_query_not_found_total")

	metricGameQueryTotal  = expvar.NewInt("game_query_total")
	metricGameQueryErrors = expvar.NewInt("game_query_errors_total")

	metricGuestMintTotal = expvar.NewInt("guest_mint_total")
)
