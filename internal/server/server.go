// Package server exposes the odds engines over websocket so interactive
// front ends can query a running evaluator instead of shelling out per
// state. No engine logic lives here; it marshals requests into engine
// calls and distributions back out.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/dromedary/camel-odds/internal/board"
	"github.com/dromedary/camel-odds/internal/config"
	"github.com/dromedary/camel-odds/internal/enumerate"
	"github.com/dromedary/camel-odds/internal/predict"
	"github.com/dromedary/camel-odds/internal/race"
	"github.com/dromedary/camel-odds/internal/simulate"
)

// Server is the websocket odds service.
type Server struct {
	cfg      *config.Config
	board    board.Config
	schedule predict.Schedule
	logger   *log.Logger
	upgrader websocket.Upgrader
}

// New creates a server from loaded configuration
func New(cfg *config.Config, logger *log.Logger) *Server {
	return &Server{
		cfg:      cfg,
		board:    cfg.BoardConfig(),
		schedule: cfg.Schedule(),
		logger:   logger.WithPrefix("server"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Handler returns the HTTP handler serving the websocket endpoint at /ws
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	return mux
}

// ListenAndServe runs the service until the context is cancelled
func (s *Server) ListenAndServe(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:    s.cfg.ListenAddr(),
		Handler: s.Handler(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx) //nolint:errcheck
	}()

	s.logger.Info("Odds service listening", "addr", s.cfg.ListenAddr())
	err := httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("Websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	s.logger.Info("Client connected", "remote", conn.RemoteAddr())

	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Warn("Client read failed", "error", err)
			}
			return
		}

		response := s.dispatch(r.Context(), &msg)
		response.RequestID = msg.RequestID
		if err := conn.WriteJSON(response); err != nil {
			s.logger.Warn("Client write failed", "error", err)
			return
		}
	}
}

func (s *Server) dispatch(ctx context.Context, msg *Message) *Message {
	switch msg.Type {
	case MessageTypeEvaluate:
		var data EvaluateData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			return errorMessage("malformed evaluate request: " + err.Error())
		}
		response, err := s.evaluate(ctx, data)
		if err != nil {
			return errorMessage(err.Error())
		}
		return response
	default:
		return errorMessage("unknown message type: " + string(msg.Type))
	}
}

// evaluate runs the engines for one request
func (s *Server) evaluate(ctx context.Context, data EvaluateData) (*Message, error) {
	state, err := race.ParseState(s.board, data.State)
	if err != nil {
		return nil, err
	}

	leg, err := enumerate.Leg(ctx, s.board, state.GameState, enumerate.Options{})
	if err != nil {
		return nil, err
	}

	odds := OddsData{
		State:  data.State,
		Leg:    state.Leg,
		Worlds: leg.Worlds,
	}

	var est *simulate.RaceEstimate
	if data.Race || data.Bets {
		trials := data.Trials
		if trials <= 0 {
			trials = s.cfg.Simulation.Trials
		}
		var seed int64
		if data.Seed != nil {
			seed = *data.Seed
		} else {
			seed = time.Now().UnixNano()
		}
		est, err = simulate.EstimateRace(ctx, s.board, state, simulate.Options{
			Trials: trials,
			Seed:   seed,
			Logger: s.logger,
		})
		if err != nil {
			return nil, err
		}
		odds.Trials = est.Trials
	}

	for _, camel := range s.board.Racers() {
		co := CamelOddsData{
			Camel:        camel.String(),
			LegFirst:     leg.First(camel),
			LegSecond:    leg.Second(camel),
			ExpectedTile: leg.ExpectedTile(camel),
		}
		if est != nil {
			win := est.WinProb(camel)
			lose := est.LossProb(camel)
			co.RaceWin = &win
			co.RaceLose = &lose
		}
		odds.Camels = append(odds.Camels, co)
	}

	if data.Bets {
		ranked := predict.Rank(leg, est.RaceTally, s.schedule, predict.Candidates(s.board, s.schedule))
		for _, rb := range ranked {
			odds.Bets = append(odds.Bets, BetData{
				Kind:   rb.Kind.String(),
				Camel:  rb.Camel.String(),
				Payout: rb.Payout,
				EV:     rb.EV,
			})
		}
	}

	return NewMessage(MessageTypeOdds, odds)
}

func errorMessage(text string) *Message {
	msg, err := NewMessage(MessageTypeError, ErrorData{Message: text})
	if err != nil {
		// Marshalling a plain string cannot fail.
		panic(err)
	}
	return msg
}
