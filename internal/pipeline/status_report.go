package pipeline

import (
	"time"

	"imgclassd/pkg/types"
)

// Status builds a detailed status response for /status.
func (o *Orchestrator) Status() types.StatusResponse {
	o.mu.RLock()
	defer o.mu.RUnlock()
	now := time.Now()
	return types.StatusResponse{
		State:                string(o.state),
		ModelID:              o.cfg.ModelID,
		ModelLoaded:          o.clf.Loaded(),
		Classes:              o.clf.NumClasses(),
		TopK:                 o.cfg.TopK,
		LastSubmission:       o.lastID,
		LastReport:           o.lastReport,
		QueueLen:             len(o.queueCh),
		MaxQueueDepth:        cap(o.queueCh),
		ClassificationsTotal: o.classifications.Load(),
		ReportsTotal:         o.reports.Load(),
		UptimeSeconds:        int64(now.Sub(o.started).Seconds()),
		ServerTimeUnix:       now.Unix(),
	}
}
