package pipeline

import "github.com/rs/zerolog"

// LogPublisher writes events as structured log lines. Failure events log at
// warn level, everything else at debug.
type LogPublisher struct {
	log zerolog.Logger
}

func NewLogPublisher(l zerolog.Logger) *LogPublisher {
	return &LogPublisher{log: l.With().Str("component", "pipeline").Logger()}
}

func (p *LogPublisher) Publish(e Event) {
	ev := p.log.Debug()
	if e.Name == EventFailed || e.Name == EventReportFailed {
		ev = p.log.Warn()
	}
	if e.ID != "" {
		ev = ev.Str("submission_id", e.ID)
	}
	ev.Fields(e.Fields).Msg(e.Name)
}
