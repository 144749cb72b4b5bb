// Command play runs a 2048 game in the terminal.
package main

import (
	"flag"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/game2048/internal/game"
	"github.com/robalobadob/game2048/internal/tui"
)

func main() {
	seed := flag.Uint64("seed", 0, "seed for a reproducible game (0 = random)")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	eng := game.New()
	if *seed != 0 {
		eng = game.NewSeeded(*seed)
	}
	if _, err := tea.NewProgram(tui.New(eng), tea.WithAltScreen()).Run(); err != nil {
		log.Fatal().Err(err).Msg("play")
	}
}
