package arena

import "expvar"

var (
	metricQueueJoinTotal   = expvar.NewInt("queue_join_total")
	metricSessionsStarted  = expvar.NewInt("sessions_started_total")
	metricSessionsFinished = expvar.NewInt("sessions_finished_total")
	metricSessionsLive     = expvar.NewInt("sessions_live")
	metricMoveTotal        = expvar.NewInt("move_total")
	metricMoveRejected     = expvar.NewInt("move_rejected_total")
	metricGraceArmed       = expvar.NewInt("grace_armed_total")
	metricGraceExpired     = expvar.NewInt("grace_expired_total")
	metricReconnects       = expvar.NewInt("reconnect_total")
	metricAIStaleMoves     = expvar.NewInt("ai_stale_moves_total")
	metricReportErrors     = expvar.NewInt("result_report_errors_total")
	metricFinishedByReason = expvar.NewMap("sessions_finished_by_reason")
)
