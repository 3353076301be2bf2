package cli

import (
	"context"
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/npuzzle/pkg/puzzle"
	"github.com/matzehuels/npuzzle/pkg/solver"
)

func newTestPlay(t *testing.T, board string) playModel {
	t.Helper()
	runner := solver.NewRunner(nil, nil, newLogger(io.Discard, LogInfo))
	m, err := newPlayModel(context.Background(), runner, solver.Options{Board: board, Size: 3})
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func press(t *testing.T, m playModel, key tea.KeyMsg) (playModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(key)
	pm, ok := next.(playModel)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return pm, cmd
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestPlayMoves(t *testing.T) {
	m := newTestPlay(t, "1 2 3 4 5 6 7 0 8")

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyRight})
	if !m.board.IsGoal() || m.moves != 1 {
		t.Fatalf("after right: board %v, moves %d", m.board, m.moves)
	}
	if !strings.Contains(m.View(), "solved") {
		t.Errorf("view does not report the solved board:\n%s", m.View())
	}

	m, _ = press(t, m, runeKey('l'))
	if m.moves != 1 {
		t.Errorf("illegal move counted: moves %d", m.moves)
	}

	m, _ = press(t, m, runeKey('k'))
	want := puzzle.MustNew(3, 1, 2, 3, 4, 5, 0, 7, 8, 6)
	if m.board != want || m.moves != 2 {
		t.Errorf("after k: board %v, moves %d", m.board, m.moves)
	}
}

func TestPlayAgentSolves(t *testing.T) {
	m := newTestPlay(t, "1 2 3 4 5 6 0 7 8")

	m, cmd := press(t, m, runeKey('s'))
	if !m.solving || cmd == nil {
		t.Fatal("s did not start the agent")
	}
	msg := cmd()
	solved, ok := msg.(agentSolvedMsg)
	if !ok || solved.err != nil {
		t.Fatalf("agent answered %#v", msg)
	}

	next, step := m.Update(solved)
	m = next.(playModel)
	if m.solving || len(m.replay) != 2 || step == nil {
		t.Fatalf("replay not started: solving %v, replay %d", m.solving, len(m.replay))
	}
	for range 2 {
		next, _ = m.Update(agentStepMsg{})
		m = next.(playModel)
	}
	if !m.board.IsGoal() || m.moves != 2 {
		t.Errorf("after replay: board %v, moves %d", m.board, m.moves)
	}
}

func TestPlayIgnoresStaleAnswer(t *testing.T) {
	m := newTestPlay(t, "1 2 3 4 5 6 0 7 8")
	m, cmd := press(t, m, runeKey('s'))
	answer := cmd()

	// The answer is for the board before the reshuffle.
	m, _ = press(t, m, runeKey('n'))
	next, step := m.Update(answer)
	m = next.(playModel)
	if step != nil || len(m.replay) != 0 {
		t.Error("answer for an old board was replayed")
	}
}

func TestPlayReshuffle(t *testing.T) {
	m := newTestPlay(t, "1 2 3 4 5 6 7 0 8")
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyRight})

	m, _ = press(t, m, runeKey('n'))
	sh, err := solver.ShuffleBoard(3, solver.DefaultShuffle, solver.DefaultSeed+1, 0)
	if err != nil {
		t.Fatal(err)
	}
	if m.board != sh.Board || m.moves != 0 {
		t.Errorf("after n: board %v, moves %d, want %v", m.board, m.moves, sh.Board)
	}
	if !strings.Contains(m.View(), "moves: 0") {
		t.Errorf("view:\n%s", m.View())
	}
}

func TestPlayQuit(t *testing.T) {
	m := newTestPlay(t, "1 2 3 4 5 6 7 0 8")
	_, cmd := press(t, m, runeKey('q'))
	if cmd == nil {
		t.Fatal("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q did not quit")
	}
}
