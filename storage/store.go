package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/Dosada05/livescore/models"
)

type PutResult struct {
	Key      string
	Location string
	ETag     string
}

// ObjectStore хранит архивные протоколы матчей и логотипы команд.
type ObjectStore interface {
	Put(ctx context.Context, key string, contentType string, body io.Reader) (*PutResult, error)
	Delete(ctx context.Context, key string) error
	PublicURL(key string) string
}

// BoxScoreKey возвращает ключ, под которым архивируется итоговый протокол матча.
func BoxScoreKey(sport models.Sport, gameID int) string {
	return fmt.Sprintf("boxscores/%s/%d.json", sport, gameID)
}
