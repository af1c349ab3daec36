package services

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/Dosada05/livescore/live"
	"github.com/Dosada05/livescore/models"
	"github.com/Dosada05/livescore/repositories"
	"github.com/Dosada05/livescore/storage"
)

// memDB заменяет схему Postgres в памяти. Транзакции выполняются по очереди и
// откатываются восстановлением снимка.
type memDB struct {
	mu   sync.Mutex
	txMu sync.Mutex

	games       map[int]models.Game
	teams       map[int]models.Team
	players     map[int]models.Player
	stats       map[statKey]models.PlayerStat
	events      []models.GameEvent
	roster      map[int][]models.ActivePlayer
	nextGameID  int
	nextEventID int64

	// failAppendKind заставляет Append падать на одном типе события.
	failAppendKind models.EventKind
	txCount        int
}

type statKey struct{ game, player int }

type memSnapshot struct {
	games       map[int]models.Game
	stats       map[statKey]models.PlayerStat
	events      []models.GameEvent
	roster      map[int][]models.ActivePlayer
	nextGameID  int
	nextEventID int64
}

func newMemDB() *memDB {
	return &memDB{
		games:   make(map[int]models.Game),
		teams:   make(map[int]models.Team),
		players: make(map[int]models.Player),
		stats:   make(map[statKey]models.PlayerStat),
		roster:  make(map[int][]models.ActivePlayer),
	}
}

func (db *memDB) addTeam(id int, name string, playerIDs ...int) {
	db.teams[id] = models.Team{ID: id, Name: name}
	for _, pid := range playerIDs {
		db.players[pid] = models.Player{ID: pid, Name: name + " player", TeamID: id}
	}
}

func (db *memDB) snapshot() memSnapshot {
	db.mu.Lock()
	defer db.mu.Unlock()
	s := memSnapshot{
		games:       make(map[int]models.Game, len(db.games)),
		stats:       make(map[statKey]models.PlayerStat, len(db.stats)),
		events:      append([]models.GameEvent(nil), db.events...),
		roster:      make(map[int][]models.ActivePlayer, len(db.roster)),
		nextGameID:  db.nextGameID,
		nextEventID: db.nextEventID,
	}
	for k, v := range db.games {
		s.games[k] = cloneGame(v)
	}
	for k, v := range db.stats {
		s.stats[k] = v
	}
	for k, v := range db.roster {
		s.roster[k] = append([]models.ActivePlayer(nil), v...)
	}
	return s
}

func (db *memDB) restore(s memSnapshot) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.games, db.stats, db.events, db.roster = s.games, s.stats, s.events, s.roster
	db.nextGameID, db.nextEventID = s.nextGameID, s.nextEventID
}

func cloneGame(g models.Game) models.Game {
	if g.Basketball != nil {
		b := *g.Basketball
		g.Basketball = &b
	}
	if g.Cricket != nil {
		c := *g.Cricket
		g.Cricket = &c
	}
	return g
}

func (db *memDB) game(id int) models.Game {
	db.mu.Lock()
	defer db.mu.Unlock()
	return cloneGame(db.games[id])
}

func (db *memDB) stat(gameID, playerID int) models.PlayerStat {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.stats[statKey{gameID, playerID}]
}

func (db *memDB) eventKinds(gameID int) []models.EventKind {
	db.mu.Lock()
	defer db.mu.Unlock()
	var kinds []models.EventKind
	for _, ev := range db.events {
		if ev.GameID == gameID {
			kinds = append(kinds, ev.Kind)
		}
	}
	return kinds
}

// транзакции

type memTx struct{ db *memDB }

func (t memTx) WithinTx(ctx context.Context, fn func(ctx context.Context, tx repositories.SQLExecutor) error) error {
	t.db.txMu.Lock()
	defer t.db.txMu.Unlock()
	t.db.txCount++
	snap := t.db.snapshot()
	if err := fn(ctx, nil); err != nil {
		t.db.restore(snap)
		return err
	}
	return nil
}

// матчи

type memGames struct{ db *memDB }

func (r memGames) Create(_ context.Context, _ repositories.SQLExecutor, g *models.Game) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.nextGameID++
	g.ID = r.db.nextGameID
	g.Version = 1
	g.CreatedAt = time.Now()
	g.UpdatedAt = g.CreatedAt
	r.db.games[g.ID] = cloneGame(*g)
	return nil
}

func (r memGames) GetByID(_ context.Context, _ repositories.SQLExecutor, id int) (*models.Game, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	g, ok := r.db.games[id]
	if !ok {
		return nil, repositories.ErrGameNotFound
	}
	c := cloneGame(g)
	return &c, nil
}

func (r memGames) GetForUpdate(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Game, error) {
	return r.GetByID(ctx, exec, id)
}

func (r memGames) Update(_ context.Context, _ repositories.SQLExecutor, g *models.Game) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	stored, ok := r.db.games[g.ID]
	if !ok || stored.Version != g.Version {
		return repositories.ErrGameVersionConflict
	}
	g.Version++
	g.UpdatedAt = time.Now()
	r.db.games[g.ID] = cloneGame(*g)
	return nil
}

func (r memGames) Delete(_ context.Context, _ repositories.SQLExecutor, id int) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.games[id]; !ok {
		return repositories.ErrGameNotFound
	}
	delete(r.db.games, id)
	delete(r.db.roster, id)
	for k := range r.db.stats {
		if k.game == id {
			delete(r.db.stats, k)
		}
	}
	kept := r.db.events[:0]
	for _, ev := range r.db.events {
		if ev.GameID != id {
			kept = append(kept, ev)
		}
	}
	r.db.events = kept
	return nil
}

func (r memGames) List(_ context.Context, _ repositories.SQLExecutor, f repositories.GameFilter) ([]*models.Game, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := make([]*models.Game, 0)
	for _, g := range r.db.games {
		if f.Status != nil && g.Status != *f.Status {
			continue
		}
		if f.Sport != nil && g.Sport != *f.Sport {
			continue
		}
		c := cloneGame(g)
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// команды и игроки

type memTeams struct{ db *memDB }

func (r memTeams) GetByID(_ context.Context, _ repositories.SQLExecutor, id int) (*models.Team, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	t, ok := r.db.teams[id]
	if !ok {
		return nil, repositories.ErrTeamNotFound
	}
	return &t, nil
}

func (r memTeams) ListByIDs(_ context.Context, _ repositories.SQLExecutor, ids []int) ([]models.Team, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []models.Team
	seen := make(map[int]bool)
	for _, id := range ids {
		if t, ok := r.db.teams[id]; ok && !seen[id] {
			seen[id] = true
			out = append(out, t)
		}
	}
	return out, nil
}

func (r memTeams) List(_ context.Context, _ repositories.SQLExecutor) ([]models.Team, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := make([]models.Team, 0, len(r.db.teams))
	for _, t := range r.db.teams {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type memPlayers struct{ db *memDB }

func (r memPlayers) GetByID(_ context.Context, _ repositories.SQLExecutor, id int) (*models.Player, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	p, ok := r.db.players[id]
	if !ok {
		return nil, repositories.ErrPlayerNotFound
	}
	return &p, nil
}

func (r memPlayers) ListByTeams(_ context.Context, _ repositories.SQLExecutor, teamIDs []int) ([]models.Player, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []models.Player
	for _, p := range r.db.players {
		for _, id := range teamIDs {
			if p.TeamID == id {
				out = append(out, p)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// статистика

type memStats struct{ db *memDB }

func (r memStats) Get(_ context.Context, _ repositories.SQLExecutor, gameID, playerID int) (*models.PlayerStat, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	st, ok := r.db.stats[statKey{gameID, playerID}]
	if !ok {
		return nil, repositories.ErrPlayerStatNotFound
	}
	return &st, nil
}

func (r memStats) GetOrCreate(_ context.Context, _ repositories.SQLExecutor, gameID, playerID, teamID int) (*models.PlayerStat, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	k := statKey{gameID, playerID}
	st, ok := r.db.stats[k]
	if !ok {
		st = models.PlayerStat{GameID: gameID, PlayerID: playerID, TeamID: teamID}
		r.db.stats[k] = st
	}
	return &st, nil
}

func (r memStats) Update(_ context.Context, _ repositories.SQLExecutor, st *models.PlayerStat) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	k := statKey{st.GameID, st.PlayerID}
	if _, ok := r.db.stats[k]; !ok {
		return repositories.ErrPlayerStatNotFound
	}
	r.db.stats[k] = *st
	return nil
}

func (r memStats) SeedForGame(_ context.Context, _ repositories.SQLExecutor, gameID, team1ID, team2ID int) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, p := range r.db.players {
		if p.TeamID == team1ID || p.TeamID == team2ID {
			k := statKey{gameID, p.ID}
			if _, ok := r.db.stats[k]; !ok {
				r.db.stats[k] = models.PlayerStat{GameID: gameID, PlayerID: p.ID, TeamID: p.TeamID}
			}
		}
	}
	return nil
}

func (r memStats) ListByGame(_ context.Context, _ repositories.SQLExecutor, gameID int) ([]models.PlayerStat, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []models.PlayerStat
	for k, st := range r.db.stats {
		if k.game == gameID {
			st.PlayerName = r.db.players[k.player].Name
			out = append(out, st)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PlayerID < out[j].PlayerID })
	return out, nil
}

// события

type memEvents struct{ db *memDB }

func (r memEvents) Append(_ context.Context, _ repositories.SQLExecutor, ev *models.GameEvent) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.failAppendKind != "" && ev.Kind == r.db.failAppendKind {
		return io.ErrUnexpectedEOF
	}
	r.db.nextEventID++
	ev.ID = r.db.nextEventID
	r.db.events = append(r.db.events, *ev)
	return nil
}

func (r memEvents) Latest(_ context.Context, _ repositories.SQLExecutor, gameID int, kinds []models.EventKind, teamID *int) (*models.GameEvent, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for i := len(r.db.events) - 1; i >= 0; i-- {
		ev := r.db.events[i]
		if ev.GameID != gameID {
			continue
		}
		if teamID != nil && (ev.TeamID == nil || *ev.TeamID != *teamID) {
			continue
		}
		for _, k := range kinds {
			if ev.Kind == k {
				return &ev, nil
			}
		}
	}
	return nil, repositories.ErrEventNotFound
}

func (r memEvents) Delete(_ context.Context, _ repositories.SQLExecutor, id int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for i, ev := range r.db.events {
		if ev.ID == id {
			r.db.events = append(r.db.events[:i:i], r.db.events[i+1:]...)
			return nil
		}
	}
	return repositories.ErrEventNotFound
}

func (r memEvents) ListByGame(_ context.Context, _ repositories.SQLExecutor, gameID int) ([]models.GameEvent, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []models.GameEvent
	for _, ev := range r.db.events {
		if ev.GameID == gameID {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (r memEvents) ListRecent(ctx context.Context, exec repositories.SQLExecutor, gameID, limit int) ([]models.GameEvent, error) {
	all, _ := r.ListByGame(ctx, exec, gameID)
	var out []models.GameEvent
	for i := len(all) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, all[i])
	}
	return out, nil
}

func (r memEvents) ListShots(_ context.Context, _ repositories.SQLExecutor) ([]models.ShotRecord, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []models.ShotRecord
	for _, ev := range r.db.events {
		if ev.Kind != models.EventShot || ev.PlayerID == nil {
			continue
		}
		p := r.db.players[*ev.PlayerID]
		out = append(out, models.ShotRecord{
			GameID:     ev.GameID,
			PlayerID:   p.ID,
			PlayerName: p.Name,
			TeamID:     p.TeamID,
			TeamName:   r.db.teams[p.TeamID].Name,
			ShotType:   *ev.ShotType,
			ShotResult: *ev.ShotResult,
			Points:     ev.Points,
		})
	}
	return out, nil
}

// составы

type memRosters struct{ db *memDB }

func (r memRosters) List(_ context.Context, _ repositories.SQLExecutor, gameID int) ([]models.ActivePlayer, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return append([]models.ActivePlayer(nil), r.db.roster[gameID]...), nil
}

func (r memRosters) Replace(_ context.Context, _ repositories.SQLExecutor, gameID int, rows []models.ActivePlayer) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.roster[gameID] = append([]models.ActivePlayer(nil), rows...)
	return nil
}

func (r memRosters) Swap(_ context.Context, _ repositories.SQLExecutor, gameID, teamID, outID, inID int) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	rows := r.db.roster[gameID]
	for i, row := range rows {
		if row.TeamID == teamID && row.PlayerID == outID {
			rows[i].PlayerID = inID
			return nil
		}
	}
	return repositories.ErrPlayerNotFound
}

// публикатор и объектное хранилище

type recordingPublisher struct {
	mu      sync.Mutex
	updates []live.Update
}

func (p *recordingPublisher) Publish(u live.Update) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.updates = append(p.updates, u)
}

func (p *recordingPublisher) kinds() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.updates))
	for i, u := range p.updates {
		out[i] = u.Kind
	}
	return out
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.updates)
}

type memObjects struct {
	mu   sync.Mutex
	objs map[string][]byte
}

func (s *memObjects) Put(_ context.Context, key, _ string, body io.Reader) (*storage.PutResult, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.objs == nil {
		s.objs = make(map[string][]byte)
	}
	s.objs[key] = data
	return &storage.PutResult{Key: key, Location: s.PublicURL(key)}, nil
}

func (s *memObjects) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objs, key)
	return nil
}

func (s *memObjects) PublicURL(key string) string {
	return "https://cdn.test/" + key
}

func (s *memObjects) get(key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.objs[key]
	return b, ok
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
