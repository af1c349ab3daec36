package scoring

import "github.com/Dosada05/livescore/models"

// PairStoppages turns STOPPAGE_START/STOPPAGE_END markers (in log order) into intervals.
// A trailing start without an end yields an open interval.
func PairStoppages(events []models.GameEvent) []models.Stoppage {
	var (
		out  []models.Stoppage
		open *models.Stoppage
	)
	for _, ev := range events {
		switch ev.Kind {
		case models.EventStoppageStart:
			if open != nil {
				out = append(out, *open)
			}
			open = &models.Stoppage{StartedAt: ev.CreatedAt, Quarter: ev.Quarter, Reason: ev.Note}
		case models.EventStoppageEnd:
			if open == nil {
				continue
			}
			ended := ev.CreatedAt
			open.EndedAt = &ended
			out = append(out, *open)
			open = nil
		}
	}
	if open != nil {
		out = append(out, *open)
	}
	return out
}
