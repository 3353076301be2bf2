package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/npuzzle/pkg/errors"
	"github.com/matzehuels/npuzzle/pkg/puzzle"
	"github.com/matzehuels/npuzzle/pkg/solver"
)

// playStepInterval is the delay between boards while the agent replays its
// solution.
const playStepInterval = 250 * time.Millisecond

// playCommand creates the play command, an interactive game in which the
// search agent can take over at any point.
func (c *CLI) playCommand() *cobra.Command {
	var (
		opts    solver.Options
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play the puzzle interactively and let the agent finish it",
		Long: `Play a sliding-tile puzzle in the terminal.

Arrow keys (or h/j/k/l) move the blank. Press s to let the search agent
solve the current board and replay its moves, n for a new board and q to
quit.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if opts.Board != "" && !cmd.Flags().Changed("size") {
				opts.Size = inferSize(opts.Board)
			}
			opts.MaxShuffle = c.Config.Search.MaxShuffle
			opts.MaxExpansions = c.Config.Search.MaxExpansions
			opts.Timeout = c.Config.Search.Timeout

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()
			// The program owns the terminal; solver logs would tear the view.
			runner.Logger = newLogger(io.Discard, LogInfo)

			m, err := newPlayModel(ctx, runner, opts)
			if err != nil {
				return err
			}
			final, err := tea.NewProgram(m, tea.WithContext(ctx)).Run()
			if err != nil {
				return errors.Wrap(errors.ErrCodeInternal, err, "play")
			}
			if pm, ok := final.(playModel); ok && pm.board.IsGoal() {
				printSuccess("Solved in %d moves", pm.moves)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.Board, "board", "b", "", "tiles in row-major order, 0 for the blank")
	cmd.Flags().IntVarP(&opts.Size, "size", "n", solver.DefaultSize, "board width")
	cmd.Flags().IntVar(&opts.Shuffle, "shuffle", solver.DefaultShuffle, "random moves used to generate a board")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", solver.DefaultSeed, "random seed for --shuffle")
	cmd.Flags().StringVarP(&opts.Strategy, "strategy", "s", solver.DefaultStrategy, "agent strategy: "+strategyList())
	cmd.Flags().StringVarP(&opts.Heuristic, "heuristic", "H", solver.DefaultHeuristic, "agent heuristic")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	registerNameCompletions(cmd, "strategy", "heuristic")

	return cmd
}

// =============================================================================
// playModel - Interactive game
// =============================================================================

// agentSolvedMsg carries the agent's answer for the board it was asked about.
type agentSolvedMsg struct {
	from puzzle.Board
	res  *solver.Result
	err  error
}

// agentStepMsg advances the replay by one board.
type agentStepMsg struct{}

// playModel is the bubbletea model for the game.
type playModel struct {
	ctx    context.Context
	runner *solver.Runner
	agent  solver.Options // as given; each agent call sets Start
	seed   uint64
	steps  int
	limit  int

	board   puzzle.Board
	moves   int
	solving bool
	replay  []puzzle.Board // boards still to show, first is next
	status  string
}

func newPlayModel(ctx context.Context, runner *solver.Runner, opts solver.Options) (playModel, error) {
	resolved := opts
	if err := resolved.ValidateAndSetDefaults(); err != nil {
		return playModel{}, err
	}
	seed := resolved.Seed
	if seed == 0 {
		seed = solver.DefaultSeed
	}
	return playModel{
		ctx:    ctx,
		runner: runner,
		agent:  opts,
		seed:   seed,
		steps:  resolved.Shuffle,
		limit:  resolved.MaxShuffle,
		board:  resolved.Initial(),
	}, nil
}

func (m playModel) Init() tea.Cmd {
	return nil
}

func (m playModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case agentSolvedMsg:
		m.solving = false
		if msg.from != m.board {
			return m, nil
		}
		if msg.err != nil {
			m.status = errors.UserMessage(msg.err)
			return m, nil
		}
		m.status = fmt.Sprintf("agent: %d moves, %d nodes expanded", msg.res.Steps, msg.res.Stats.Expanded)
		if len(msg.res.Path) < 2 {
			return m, nil
		}
		m.replay = msg.res.Path[1:]
		return m, agentStep()
	case agentStepMsg:
		if len(m.replay) == 0 {
			return m, nil
		}
		m.board, m.replay = m.replay[0], m.replay[1:]
		m.moves++
		if len(m.replay) == 0 {
			return m, nil
		}
		return m, agentStep()
	}
	return m, nil
}

func (m playModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "s", "enter":
		if m.solving || m.board.IsGoal() {
			return m, nil
		}
		m.solving = true
		m.replay = nil
		m.status = "agent thinking..."
		return m, m.askAgent()
	case "n":
		return m.reshuffle(), nil
	}

	move, ok := keyMoves[key]
	if !ok || m.solving {
		return m, nil
	}
	next, legal := m.board.Apply(move)
	if !legal {
		return m, nil
	}
	m.replay = nil
	m.board = next
	m.moves++
	m.status = ""
	return m, nil
}

var keyMoves = map[string]puzzle.Move{
	"up": puzzle.Up, "k": puzzle.Up,
	"down": puzzle.Down, "j": puzzle.Down,
	"left": puzzle.Left, "h": puzzle.Left,
	"right": puzzle.Right, "l": puzzle.Right,
}

func (m playModel) askAgent() tea.Cmd {
	opts := m.agent
	opts.Start = m.board
	from := m.board
	ctx, runner := m.ctx, m.runner
	return func() tea.Msg {
		res, err := runner.Solve(ctx, opts)
		return agentSolvedMsg{from: from, res: res, err: err}
	}
}

func agentStep() tea.Cmd {
	return tea.Tick(playStepInterval, func(time.Time) tea.Msg { return agentStepMsg{} })
}

// reshuffle starts over on the board generated from the next seed.
func (m playModel) reshuffle() playModel {
	m.seed++
	sh, err := solver.ShuffleBoard(m.board.Size(), m.steps, m.seed, m.limit)
	if err != nil {
		m.status = errors.UserMessage(err)
		return m
	}
	m.board, m.moves, m.replay, m.solving = sh.Board, 0, nil, false
	m.status = fmt.Sprintf("new board (seed %d)", sh.Seed)
	return m
}

func (m playModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("npuzzle"))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("←↑↓→/hjkl move  s agent  n new  q quit"))
	b.WriteString("\n\n")
	b.WriteString(renderBoard(m.board))
	b.WriteString("\n")

	fmt.Fprintf(&b, "moves: %d", m.moves)
	if m.board.IsGoal() {
		b.WriteString("  " + styleIconSuccess.Render("solved"))
	}
	b.WriteString("\n")
	if m.status != "" {
		b.WriteString(StyleDim.Render(m.status))
		b.WriteString("\n")
	}
	return b.String()
}
