package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/Cameron-Kurotori/safesnake/logging"
	"github.com/go-kit/log/level"
	"golang.org/x/exp/rand"
)

func main() {
	settings := DefaultSettings()
	mode := flag.String("mode", "local", "local runs the engine in process, remote calls a running snake server")
	host := flag.String("host", "0.0.0.0", "snake server host (remote mode)")
	port := flag.String("port", os.Getenv("PORT"), "snake server port (remote mode)")
	seed := flag.Uint64("seed", uint64(time.Now().UnixNano()), "random seed for snake placement and food")
	archive := flag.String("archive", "", "write every turn to this parquet file")
	dump := flag.Bool("dump", false, "print every requested state as JSON to stdout")
	flag.IntVar(&settings.Snakes, "snakes", settings.Snakes, "number of snakes")
	flag.IntVar(&settings.Width, "width", settings.Width, "board width")
	flag.IntVar(&settings.Height, "height", settings.Height, "board height")
	flag.IntVar(&settings.MaxTurns, "max-turns", settings.MaxTurns, "stop the game after this many turns")
	flag.Parse()

	logger := logging.GlobalLogger()
	if len(*port) == 0 {
		*port = "8080"
	}

	var client BattlesnakeClient
	switch *mode {
	case "local":
		client = NewLocalClient()
	case "remote":
		client = NewClient(*host, *port, 500*time.Millisecond)
	default:
		_ = level.Error(logger).Log("msg", "unknown mode", "mode", *mode)
		os.Exit(2)
	}
	recorder := RecordStates(client)

	sim := simulator{
		client:   recorder,
		rng:      rand.New(rand.NewSource(*seed)),
		logger:   logger,
		archive:  newArchiveWriter(*archive),
		settings: settings,
	}

	result, err := sim.Simulate()
	if err != nil {
		_ = level.Error(logger).Log("msg", "simulation failed", "err", err, "seed", *seed)
		os.Exit(1)
	}
	if err := sim.archive.Close(); err != nil {
		_ = level.Error(logger).Log("msg", "failed to write archive", "err", err, "archive", *archive)
		os.Exit(1)
	}
	_ = level.Info(logger).Log("msg", "game over", "game_id", result.GameID, "turns", result.Turns, "winner", result.Winner, "seed", *seed)

	if *dump {
		allStates := append(recorder.States, result.Final)
		statesOutput, err := json.Marshal(allStates)
		if err != nil {
			_ = level.Error(logger).Log("msg", "failed to encode states", "err", err)
			os.Exit(1)
		}
		fmt.Println(string(statesOutput))
	}
}
