package services

import (
	"errors"
	"fmt"

	"github.com/Dosada05/livescore/repositories"
	"github.com/Dosada05/livescore/scoring"
)

// Ошибки чтения. Доменные ошибки объявлены в пакете scoring и возвращаются как есть.
var (
	ErrMatchesListFailed = errors.New("failed to list matches")
	ErrStandingsFailed   = errors.New("failed to compute standings")
	ErrLeaderboardFailed = errors.New("failed to compute player leaderboard")
)

// translateRepoError переводит ошибки репозиториев в доменные классы, чтобы хендлеры
// могли маппить их через errors.Is.
func translateRepoError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrGameNotFound):
		return scoring.ErrGameNotFound
	case errors.Is(err, repositories.ErrTeamNotFound):
		return scoring.ErrTeamNotFound
	case errors.Is(err, repositories.ErrPlayerNotFound):
		return scoring.ErrPlayerNotFound
	case errors.Is(err, repositories.ErrGameVersionConflict):
		return scoring.ErrConcurrentUpdate
	case errors.Is(err, repositories.ErrReferenceInvalid),
		errors.Is(err, repositories.ErrCheckViolation),
		errors.Is(err, repositories.ErrDuplicate):
		return fmt.Errorf("%w: %w", scoring.ErrValidationFailed, err)
	}
	return err
}
