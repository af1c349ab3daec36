package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/Dosada05/livescore/middleware"
	"github.com/Dosada05/livescore/models"
	"github.com/Dosada05/livescore/services"
	"github.com/Dosada05/livescore/scoring"
)

type GameHandler struct {
	lifecycle services.LifecycleService
	recorder  services.RecorderService
	rosters   services.RosterService
	undo      services.UndoService
}

func NewGameHandler(lifecycle services.LifecycleService, recorder services.RecorderService, rosters services.RosterService, undo services.UndoService) *GameHandler {
	return &GameHandler{lifecycle: lifecycle, recorder: recorder, rosters: rosters, undo: undo}
}

type createGameRequest struct {
	Sport       models.Sport `json:"sport"`
	Team1ID     int          `json:"team1_id"`
	Team2ID     int          `json:"team2_id"`
	ScheduledAt *time.Time   `json:"scheduled_at"`
}

func (h *GameHandler) CreateGame(w http.ResponseWriter, r *http.Request) {
	var req createGameRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	game, err := h.lifecycle.CreateGame(r.Context(), services.CreateGameInput{
		Sport:       req.Sport,
		Team1ID:     req.Team1ID,
		Team2ID:     req.Team2ID,
		ScheduledAt: req.ScheduledAt,
	})
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"game": game}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *GameHandler) DeleteGame(w http.ResponseWriter, r *http.Request) {
	gameID, err := getIDFromURL(r, "gameID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.lifecycle.DeleteGame(r.Context(), gameID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type roundRobinRequest struct {
	Sport   models.Sport `json:"sport"`
	TeamIDs []int        `json:"team_ids"`
	Legs    int          `json:"legs"`
	FirstAt *time.Time   `json:"first_at"`
	// По умолчанию IntervalHours равен одной неделе.
	IntervalHours int `json:"interval_hours"`
}

func (h *GameHandler) ScheduleRoundRobin(w http.ResponseWriter, r *http.Request) {
	var req roundRobinRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if req.IntervalHours < 0 {
		failedValidationResponse(w, r, "interval_hours must not be negative")
		return
	}

	in := services.RoundRobinInput{
		Sport:    req.Sport,
		TeamIDs:  req.TeamIDs,
		Legs:     req.Legs,
		Interval: time.Duration(req.IntervalHours) * time.Hour,
	}
	if req.FirstAt != nil {
		in.FirstAt = *req.FirstAt
	}

	games, err := h.lifecycle.ScheduleRoundRobin(r.Context(), in)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"games": games}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

type setStatusRequest struct {
	Status models.GameStatus `json:"status"`
}

func (h *GameHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	gameID, err := getIDFromURL(r, "gameID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var req setStatusRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	res, err := h.lifecycle.SetStatus(r.Context(), gameID, req.Status)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"result": res}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// actionRequest объединяет поля всех действий; каждое действие читает только свои.
type actionRequest struct {
	Action string `json:"action"`

	TeamID   *int `json:"team_id"`
	PlayerID *int `json:"player_id"`

	// record_score / record_runs
	Amount *int   `json:"amount"`
	Kind   string `json:"kind"`
	Runs   *int   `json:"runs"`

	// shot / foul
	ShotType       models.ShotType   `json:"shot_type"`
	Result         models.ShotResult `json:"result"`
	GameClock      *string           `json:"game_clock"`
	FoulType       string            `json:"foul_type"`
	ShotsAwarded   int               `json:"shots_awarded"`
	PointsScored   int               `json:"points_scored"`
	FouledPlayerID *int              `json:"fouled_player_id"`

	// substitution
	PlayerOutID *int `json:"player_out_id"`
	PlayerInID  *int `json:"player_in_id"`

	// stoppage_start
	Reason string `json:"reason"`

	// set_active_players
	Team1PlayerIDs []int `json:"team1_player_ids"`
	Team2PlayerIDs []int `json:"team2_player_ids"`

	// set_cricket_state
	BattingSide  *models.Side `json:"batting_side"`
	BatsmanID    *int         `json:"batsman_id"`
	BowlerID     *int         `json:"bowler_id"`
	ClearBatsman bool         `json:"clear_batsman"`
	ClearBowler  bool         `json:"clear_bowler"`
}

var errUnknownAction = fmt.Errorf("%w: unknown action", scoring.ErrValidationFailed)

func missingField(name string) error {
	return fmt.Errorf("%w: %s is required", scoring.ErrValidationFailed, name)
}

// Action применяет одно действие оператора к матчу. Результат nil означает,
// что делать было нечего (например, отмена при пустом журнале).
func (h *GameHandler) Action(w http.ResponseWriter, r *http.Request) {
	gameID, err := getIDFromURL(r, "gameID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var req actionRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	res, err := h.dispatch(r, gameID, &req)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if operatorID, errUser := middleware.GetUserIDFromContext(r.Context()); errUser == nil {
		slog.InfoContext(r.Context(), "operator action applied",
			slog.Int("operator_id", operatorID),
			slog.Int("game_id", gameID),
			slog.String("action", req.Action),
			slog.Bool("noop", res == nil))
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"action": req.Action, "result": res}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *GameHandler) dispatch(r *http.Request, gameID int, req *actionRequest) (*services.MutationResult, error) {
	ctx := r.Context()

	switch req.Action {
	case "record_score":
		if req.PlayerID == nil {
			return nil, missingField("player_id")
		}
		if req.Amount == nil {
			return nil, missingField("amount")
		}
		return h.recorder.RecordScore(ctx, gameID, scoring.ScoreInput{PlayerID: *req.PlayerID, Amount: *req.Amount, Kind: req.Kind})
	case "record_runs":
		if req.Runs == nil {
			return nil, missingField("runs")
		}
		return h.recorder.RecordRuns(ctx, gameID, *req.Runs)
	case "record_wicket":
		return h.recorder.RecordWicket(ctx, gameID)
	case "shot":
		if req.PlayerID == nil {
			return nil, missingField("player_id")
		}
		return h.recorder.RecordShot(ctx, gameID, scoring.ShotInput{
			PlayerID:  *req.PlayerID,
			ShotType:  req.ShotType,
			Result:    req.Result,
			GameClock: req.GameClock,
		})
	case "foul":
		if req.TeamID == nil {
			return nil, missingField("team_id")
		}
		return h.recorder.RecordFoul(ctx, gameID, scoring.FoulInput{
			TeamID:         *req.TeamID,
			PlayerID:       req.PlayerID,
			FoulType:       req.FoulType,
			ShotsAwarded:   req.ShotsAwarded,
			PointsScored:   req.PointsScored,
			FouledPlayerID: req.FouledPlayerID,
			GameClock:      req.GameClock,
		})
	case "substitution":
		if req.TeamID == nil {
			return nil, missingField("team_id")
		}
		if req.PlayerOutID == nil || req.PlayerInID == nil {
			return nil, missingField("player_out_id and player_in_id")
		}
		return h.recorder.RecordSubstitution(ctx, gameID, scoring.SubstitutionInput{
			TeamID:      *req.TeamID,
			PlayerOutID: *req.PlayerOutID,
			PlayerInID:  *req.PlayerInID,
		})
	case "timeout":
		if req.TeamID == nil {
			return nil, missingField("team_id")
		}
		return h.recorder.RecordTimeout(ctx, gameID, *req.TeamID)
	case "stoppage_start":
		return h.recorder.StartStoppage(ctx, gameID, req.Reason)
	case "stoppage_end":
		return h.recorder.EndStoppage(ctx, gameID)
	case "set_active_players":
		return h.rosters.SetInitialRoster(ctx, gameID, req.Team1PlayerIDs, req.Team2PlayerIDs)
	case "set_cricket_state":
		return h.recorder.SetCricketState(ctx, gameID, scoring.CricketStateInput{
			BattingSide:  req.BattingSide,
			BatsmanID:    req.BatsmanID,
			BowlerID:     req.BowlerID,
			ClearBatsman: req.ClearBatsman,
			ClearBowler:  req.ClearBowler,
		})
	case "undo_last":
		return h.undo.UndoLast(ctx, gameID, req.TeamID)
	case "undo_last_shot":
		return h.undo.UndoLastShot(ctx, gameID)
	case "undo_last_foul":
		return h.undo.UndoLastFoul(ctx, gameID)
	case "undo_last_substitution":
		return h.undo.UndoLastSubstitution(ctx, gameID)
	case "start_game":
		return h.lifecycle.Start(ctx, gameID)
	case "next_quarter":
		return h.lifecycle.AdvanceQuarter(ctx, gameID)
	case "end_game":
		return h.lifecycle.End(ctx, gameID)
	case "":
		return nil, missingField("action")
	default:
		return nil, fmt.Errorf("%w %q", errUnknownAction, req.Action)
	}
}

// IsActive сообщает, находится ли игрок в активном составе матча.
func (h *GameHandler) IsActive(w http.ResponseWriter, r *http.Request) {
	gameID, err := getIDFromURL(r, "gameID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	playerID, err := getIDFromURL(r, "playerID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	active, err := h.rosters.IsActive(r.Context(), gameID, playerID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"game_id": gameID, "player_id": playerID, "active": active}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

