package httpapi

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cory-johannsen/binary-boxer/internal/arena"
	"github.com/cory-johannsen/binary-boxer/internal/game/combat"
	"github.com/cory-johannsen/binary-boxer/internal/game/stats"
)

type createRequest struct {
	RobotName string `json:"robotName"`
	Language1 string `json:"language1"`
	Language2 string `json:"language2"`
}

type turnRequest struct {
	Action string `json:"action"`
}

type trainRequest struct {
	Stat string `json:"stat"`
}

type swapRequest struct {
	Slot     int    `json:"slot"`
	Language string `json:"language"`
}

// reply writes v on success or the mapped error otherwise.
func (s *Server) reply(w http.ResponseWriter, r *http.Request, v any, err error) {
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleInit(w http.ResponseWriter, r *http.Request) {
	res, err := s.svc.Init(r.Context(), ownerFrom(r.Context()))
	s.reply(w, r, res, err)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	robot, err := s.svc.CreateRobot(r.Context(), ownerFrom(r.Context()), req.RobotName, req.Language1, req.Language2)
	s.reply(w, r, robot, err)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	res, err := s.svc.Stats(r.Context(), ownerFrom(r.Context()))
	s.reply(w, r, res, err)
}

func (s *Server) handleRetire(w http.ResponseWriter, r *http.Request) {
	d, err := s.svc.Retire(r.Context(), ownerFrom(r.Context()))
	s.reply(w, r, d, err)
}

func (s *Server) handleDynasty(w http.ResponseWriter, r *http.Request) {
	d, err := s.svc.Dynasty(r.Context(), ownerFrom(r.Context()))
	s.reply(w, r, map[string]any{"dynasty": d}, err)
}

func (s *Server) handleFightStart(w http.ResponseWriter, r *http.Request) {
	f, err := s.svc.StartFight(r.Context(), ownerFrom(r.Context()))
	s.reply(w, r, f, err)
}

func (s *Server) handleFightTurn(w http.ResponseWriter, r *http.Request) {
	var req turnRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	action, err := combat.ParseAction(req.Action)
	if err != nil {
		s.writeError(w, r, fmt.Errorf("%w: %w", errBadRequest, err))
		return
	}
	res, err := s.svc.Turn(r.Context(), ownerFrom(r.Context()), action)
	s.reply(w, r, res, err)
}

func (s *Server) handleFightResolve(w http.ResponseWriter, r *http.Request) {
	res, err := s.svc.ResolveFight(r.Context(), ownerFrom(r.Context()))
	s.reply(w, r, res, err)
}

func (s *Server) handleFightComplete(w http.ResponseWriter, r *http.Request) {
	res, err := s.svc.CompleteFight(r.Context(), ownerFrom(r.Context()))
	s.reply(w, r, res, err)
}

func (s *Server) handleRepair(w http.ResponseWriter, r *http.Request) {
	res, err := s.svc.Repair(r.Context(), ownerFrom(r.Context()))
	s.reply(w, r, res, err)
}

func (s *Server) handleFullRepair(w http.ResponseWriter, r *http.Request) {
	res, err := s.svc.FullRepair(r.Context(), ownerFrom(r.Context()))
	s.reply(w, r, res, err)
}

func (s *Server) handleTrain(w http.ResponseWriter, r *http.Request) {
	var req trainRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	stat, err := stats.ParseGrowthStat(req.Stat)
	if err != nil {
		s.writeError(w, r, fmt.Errorf("%w: %w", errBadRequest, err))
		return
	}
	res, err := s.svc.Train(r.Context(), ownerFrom(r.Context()), stat)
	s.reply(w, r, res, err)
}

func (s *Server) handleSwapLanguage(w http.ResponseWriter, r *http.Request) {
	var req swapRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.svc.SwapLanguage(r.Context(), ownerFrom(r.Context()), req.Slot, req.Language)
	s.reply(w, r, res, err)
}

// handleLeaderboard serves one metric. The identity header is optional here;
// when present the caller's rank is included.
func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	m, err := arena.ParseMetric(chi.URLParam(r, "metric"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	board, err := s.svc.Leaderboard(r.Context(), identity(r), m)
	s.reply(w, r, board, err)
}

func (s *Server) handleCommunity(w http.ResponseWriter, r *http.Request) {
	events, err := s.svc.CommunityFeed(r.Context())
	s.reply(w, r, map[string]any{"events": events}, err)
}
