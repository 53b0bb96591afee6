package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"

	"github.com/dromedary/camel-odds/internal/board"
	"github.com/dromedary/camel-odds/internal/config"
	"github.com/dromedary/camel-odds/internal/enumerate"
	"github.com/dromedary/camel-odds/internal/predict"
	"github.com/dromedary/camel-odds/internal/race"
	"github.com/dromedary/camel-odds/internal/simulate"
)

type CLI struct {
	State  string `arg:"" help:"Race state in compact notation, e.g. '3:rb 5:gop +7 pool:rbgop*'" required:"true"`
	Config string `short:"c" help:"Configuration file" default:"camel-odds.hcl"`
	Race   bool   `short:"r" help:"Also estimate race-level win/lose odds by Monte Carlo"`
	Bets   bool   `short:"b" help:"Rank the available bets by expected value (implies --race)"`
	Draw   bool   `short:"d" help:"Value the draw-a-die action (implies --race)"`
	Trials int    `short:"t" help:"Number of Monte Carlo trials" default:"10000"`
	Seed   *int64 `help:"Random seed for reproducible results"`
}

var (
	// Style definitions
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15"))

	camelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("14"))

	winStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))

	tieStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11"))

	loseStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))

	betStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("12"))
)

func main() {
	var cli CLI
	ctx := kong.Parse(&cli)

	cfg, err := config.Load(cli.Config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		ctx.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		ctx.Exit(1)
	}
	boardCfg := cfg.BoardConfig()

	var seed int64
	if cli.Seed != nil {
		seed = *cli.Seed
	} else {
		seed = time.Now().UnixNano()
	}
	trials := cli.Trials
	if trials <= 0 {
		trials = cfg.Simulation.Trials
	}

	state, err := race.ParseState(boardCfg, cli.State)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing state: %v\n", err)
		ctx.Exit(1)
	}

	startTime := time.Now()

	leg, err := enumerate.Leg(context.Background(), boardCfg, state.GameState, enumerate.Options{
		Workers: cfg.Simulation.Workers,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		ctx.Exit(1)
	}

	var est *simulate.RaceEstimate
	if cli.Race || cli.Bets || cli.Draw {
		est, err = simulate.EstimateRace(context.Background(), boardCfg, state, simulate.Options{
			Trials:  trials,
			Seed:    seed,
			Workers: cfg.Simulation.Workers,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			ctx.Exit(1)
		}
	}

	displayOdds(boardCfg, leg, est)

	if cli.Bets {
		fmt.Printf("\n")
		displayBets(boardCfg, cfg.Schedule(), leg, est)
	}

	if cli.Draw {
		ev, err := predict.DrawActionEV(context.Background(), boardCfg, state, cfg.Schedule(), predict.DrawOptions{
			TrialsPerBranch: trials,
			Seed:            seed,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			ctx.Exit(1)
		}
		fmt.Printf("\n%s %+.3f\n", headerStyle.Render("draw action EV"), ev)
	}

	duration := time.Since(startTime)

	fmt.Printf("\n")
	if est != nil {
		fmt.Printf("%d worlds, %d trials in %v\n", leg.Worlds, est.Trials, duration.Truncate(time.Millisecond))
	} else {
		fmt.Printf("%d worlds in %v\n", leg.Worlds, duration.Truncate(time.Millisecond))
	}
}

func displayOdds(boardCfg board.Config, leg *enumerate.Distribution, est *simulate.RaceEstimate) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)

	fmt.Fprintf(w, "%s\t%s\t%s\t%s",
		headerStyle.Render("camel"),
		headerStyle.Render("leg 1st"),
		headerStyle.Render("leg 2nd"),
		headerStyle.Render("e.tile"))
	if est != nil {
		fmt.Fprintf(w, "\t%s\t%s",
			headerStyle.Render("race win"),
			headerStyle.Render("race lose"))
	}
	fmt.Fprintf(w, "\n")

	for _, camel := range boardCfg.Racers() {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s",
			camelStyle.Render(camel.String()),
			winStyle.Render(fmt.Sprintf("%.1f%%", leg.First(camel)*100)),
			tieStyle.Render(fmt.Sprintf("%.1f%%", leg.Second(camel)*100)),
			fmt.Sprintf("%.1f", leg.ExpectedTile(camel)))
		if est != nil {
			fmt.Fprintf(w, "\t%s\t%s",
				winStyle.Render(fmt.Sprintf("%.1f%%", est.WinProb(camel)*100)),
				loseStyle.Render(fmt.Sprintf("%.1f%%", est.LossProb(camel)*100)))
		}
		fmt.Fprintf(w, "\n")
	}

	w.Flush()
}

func displayBets(boardCfg board.Config, sched predict.Schedule, leg *enumerate.Distribution, est *simulate.RaceEstimate) {
	ranked := predict.Rank(leg, est.RaceTally, sched, predict.Candidates(boardCfg, sched))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\n",
		headerStyle.Render("bet"),
		headerStyle.Render("EV"))
	for _, rb := range ranked {
		fmt.Fprintf(w, "%s\t%+.3f\n", betStyle.Render(rb.Bet.String()), rb.EV)
	}
	w.Flush()
}
