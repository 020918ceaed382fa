package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mitchelldurbincs/RobotWantsBattery/internal/config"
	"github.com/mitchelldurbincs/RobotWantsBattery/internal/game"
	"github.com/mitchelldurbincs/RobotWantsBattery/internal/game/core"
	"github.com/mitchelldurbincs/RobotWantsBattery/internal/game/events/subscribers"
	"github.com/mitchelldurbincs/RobotWantsBattery/internal/game/rules"
)

func main() {
	configPath := flag.String("config", "", "Path to config file")
	seed := flag.Int64("seed", 0, "Board and dice seed (0 picks one from the clock)")
	difficulty := flag.String("difficulty", "", "Easy, Normal, Hard, Impossible or 0-3 (empty to use config default)")
	players := flag.String("players", "ai-hard,ai-easy", "Comma separated seats: human, ai-easy, ai-hard")
	size := flag.Int("size", 0, "Board size (0 to use config default)")
	heatMap := flag.Bool("heatmap", true, "Print the win-probability field before play")
	logEvents := flag.Bool("log-events", false, "Log every game event")
	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize config")
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	fmt.Printf("Game seed: %d\n", *seed)

	d := game.DefaultDifficulty()
	if *difficulty != "" {
		var err error
		if d, err = rules.ParseDifficulty(*difficulty); err != nil {
			log.Fatal().Err(err).Msg("Bad difficulty")
		}
	}

	var controllers []game.Controller
	for _, name := range strings.Split(*players, ",") {
		c, err := game.ParseController(strings.TrimSpace(name))
		if err != nil {
			log.Fatal().Err(err).Msg("Bad seat")
		}
		controllers = append(controllers, c)
	}

	mc := game.DefaultMap(d)
	if *size > 0 {
		mc.Width, mc.Height = *size, *size
	}

	ctx := context.Background()
	engine, err := game.NewEngine(ctx, game.GameConfig{
		Map:         mc,
		Controllers: controllers,
		Rng:         rand.New(rand.NewSource(*seed)),
		Logger:      log.Logger,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create game")
	}

	if *logEvents {
		sub := subscribers.NewLoggerSubscriber("cli", log.Logger, zerolog.InfoLevel)
		engine.EventBus().Subscribe(sub)
	}

	if err := engine.Start(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start game")
	}

	fmt.Printf("%s board, %d robot(s)\n\n%s\n", engine.Difficulty(), len(controllers), engine.Board())
	if *heatMap {
		fmt.Printf("Win probability:\n%s\n", engine.HeatMap())
	}

	in := bufio.NewScanner(os.Stdin)
	for !engine.IsGameOver() {
		p := engine.ActivePlayer()
		round, score := engine.Round(), engine.Score()

		if p.Controller.IsAI() {
			choice, err := engine.PlayAITurn(ctx)
			if err != nil {
				log.Fatal().Err(err).Msg("AI turn failed")
			}
			fmt.Printf("Round %d (score %d) robot %d [%s]: %s  %s %.1f%%\n",
				round, score, p.ID+1, p.Controller, choice.Move, choice.Kind, choice.Value*100)
		} else {
			move, err := playHumanTurn(ctx, engine, in)
			if err != nil {
				log.Fatal().Err(err).Msg("Human turn failed")
			}
			fmt.Printf("Round %d (score %d) robot %d [%s]: %s\n", round, score, p.ID+1, p.Controller, move)
		}
		fmt.Println(engine.Board())
	}

	if w := engine.GetWinner(); w != rules.NoWinner {
		fmt.Printf("Robot %d reached the battery in round %d for %d points\n", w+1, engine.Round(), engine.Score())
	} else {
		fmt.Println("Every robot drowned")
	}
}

// playHumanTurn rolls, shows the hint and reads two directions from in. A
// trailing "swap" moves the second die onto the first leg.
func playHumanTurn(ctx context.Context, engine *game.Engine, in *bufio.Scanner) (core.Move, error) {
	dice, err := engine.RollDice()
	if err != nil {
		return core.Move{}, err
	}
	hint, err := engine.Hint()
	if err != nil {
		return core.Move{}, err
	}
	fmt.Printf("You rolled %d and %d. Best move: %s (%.1f%%)\n", dice[0], dice[1], hint.Move, hint.Value*100)

	for {
		fmt.Printf("Two directions, %d then %d (e.g. \"up right\", add \"swap\" for %d then %d): ", dice[0], dice[1], dice[1], dice[0])
		if !in.Scan() {
			if err := in.Err(); err != nil {
				return core.Move{}, fmt.Errorf("reading directions: %w", err)
			}
			return core.Move{}, io.ErrUnexpectedEOF
		}
		fields := strings.Fields(in.Text())
		values := dice
		if len(fields) == 3 && strings.EqualFold(fields[2], "swap") {
			values = [2]int{dice[1], dice[0]}
			fields = fields[:2]
		}
		if len(fields) != 2 {
			fmt.Println("Need exactly two directions")
			continue
		}
		var dirs [2]core.Direction
		if dirs[0], err = core.ParseDirection(fields[0]); err == nil {
			dirs[1], err = core.ParseDirection(fields[1])
		}
		if err != nil {
			fmt.Println(err)
			continue
		}
		return engine.PlayMove(ctx, dirs, values)
	}
}
