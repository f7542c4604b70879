package main

import (
	"flag"
	"math/rand/v2"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper/internal/mines"
	"github.com/vancomm/minesweeper/internal/tui"
)

var log = logrus.New()

var (
	preset string
	rows   int
	cols   int
	count  int
	seed   uint64
)

func init() {
	flag.StringVar(&preset, "preset", "beginner", "board preset (beginner, classic, intermediate, expert)")
	flag.IntVar(&rows, "rows", 0, "board rows, overrides -preset")
	flag.IntVar(&cols, "cols", 0, "board cols, overrides -preset")
	flag.IntVar(&count, "mines", 0, "mine count, overrides -preset")
	flag.Uint64Var(&seed, "seed", 0, "seed for a reproducible board (0 picks one at random)")
}

func boardConfig() mines.Config {
	cfg, ok := mines.PresetByName(preset)
	if !ok {
		log.Fatalf("unknown preset %q", preset)
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "rows":
			cfg.Rows = rows
		case "cols":
			cfg.Cols = cols
		case "mines":
			cfg.Mines = count
		}
	})
	return cfg
}

func main() {
	flag.Parse()

	var r mines.Rand
	if seed != 0 {
		r = rand.New(rand.NewPCG(seed, seed))
	}

	game, err := mines.NewGame(boardConfig(), r)
	if err != nil {
		log.Fatal(err)
	}

	if err := tui.NewBoard(game).Run(); err != nil {
		log.Fatal("terminal error: ", err)
	}
}
