package typing

import (
	"time"

	"github.com/NishantJoshi00/typetester/internal/model"
)

// GenerateReport snapshots the session. The report owns all of its data and
// stays valid after the session is discarded.
func (s *Session) GenerateReport() model.SessionReport {
	var duration time.Duration
	if s.ended {
		duration = s.endedAt.Sub(s.startedAt)
	} else {
		duration = s.now().Sub(s.startedAt)
	}

	samples := make([]model.WPMSample, 0, len(s.wpmSamples))
	for _, sample := range s.wpmSamples {
		samples = append(samples, model.WPMSample{
			Elapsed: sample.at.Sub(s.startedAt),
			WPM:     sample.wpm,
		})
	}

	return model.SessionReport{
		SessionDuration:    duration,
		TotalCharacters:    len(s.input),
		CorrectCharacters:  s.position,
		WPM:                s.CalculateWPMWithDuration(duration),
		Accuracy:           s.CalculateAccuracy(),
		AverageLatency:     s.stats.averageLatency(),
		Errors:             append(make([]model.ErrorEvent, 0, len(s.errors)), s.errors...),
		KeyStats:           s.stats.snapshot(),
		TotalCorrections:   s.totalCorrections,
		TypingRhythm:       append(make([]model.TypingRhythm, 0, len(s.rhythm)), s.rhythm...),
		HesitationPatterns: append(make([]model.HesitationPattern, 0, len(s.hesitations)), s.hesitations...),
		WeaknessAnalysis:   AnalyzeWeaknesses(s.target, s.rhythm, s.errors),
		WPMOverTime:        samples,
	}
}
