package services

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/Dosada05/livescore/models"
	"github.com/Dosada05/livescore/storage"
)

const archiveTimeout = 30 * time.Second

// BoxScoreArchiver в фоне выгружает итоговый протокол завершенных матчей в объектное
// хранилище. Ошибки только логируются и до вызывающего не доходят.
type BoxScoreArchiver struct {
	objects storage.ObjectStore
	matches MatchService
	logger  *slog.Logger
	wg      sync.WaitGroup
}

func NewBoxScoreArchiver(objects storage.ObjectStore, matches MatchService, logger *slog.Logger) *BoxScoreArchiver {
	return &BoxScoreArchiver{objects: objects, matches: matches, logger: logger}
}

func (a *BoxScoreArchiver) Archive(gameID int) {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), archiveTimeout)
		defer cancel()
		if err := a.archive(ctx, gameID); err != nil {
			a.logger.Error("box score archive failed", slog.Int("game_id", gameID), slog.Any("error", err))
		}
	}()
}

// Discard удаляет архивный протокол удаленного матча.
func (a *BoxScoreArchiver) Discard(ctx context.Context, game *models.Game) {
	key := storage.BoxScoreKey(game.Sport, game.ID)
	if err := a.objects.Delete(ctx, key); err != nil {
		a.logger.WarnContext(ctx, "failed to delete archived box score",
			slog.Int("game_id", game.ID), slog.String("key", key), slog.Any("error", err))
	}
}

// Wait ждет завершения всех начатых выгрузок.
func (a *BoxScoreArchiver) Wait() {
	a.wg.Wait()
}

func (a *BoxScoreArchiver) archive(ctx context.Context, gameID int) error {
	ctx, span := tracer.Start(ctx, "game.archive")
	defer span.End()

	detail, err := a.matches.MatchDetail(ctx, gameID)
	if err != nil {
		return err
	}
	body, err := json.Marshal(detail)
	if err != nil {
		return err
	}
	key := storage.BoxScoreKey(detail.Game.Sport, gameID)
	res, err := a.objects.Put(ctx, key, "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	a.logger.Info("box score archived", slog.Int("game_id", gameID), slog.String("key", res.Key), slog.String("location", res.Location))
	return nil
}
