package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"solo-quiz-service/internal/app"
	"solo-quiz-service/internal/config"
	"solo-quiz-service/internal/domain"
	"solo-quiz-service/internal/transport/tcp"
	"github.com/spf13/cobra"
)

// NewPlayCmd builds the CLI subcommand for an interactive terminal session.
func NewPlayCmd(configPath *string) *cobra.Command {
	var bankID, name string
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play a quiz session in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(cmd.Context(), *configPath, bankID, name, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&bankID, "bank", "", "question bank to play (defaults to bank.id from config)")
	cmd.Flags().StringVar(&name, "name", "player", "participant display name")
	return cmd
}

func runPlay(ctx context.Context, configPath, bankID, name string, in io.Reader, out io.Writer) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		// The terminal game is playable without any config file.
		if !os.IsNotExist(err) {
			return err
		}
		cfg = config.Config{}
	}

	d, err := buildDeps(ctx, cfg)
	if err != nil {
		return err
	}
	defer d.cleanup()

	bank, err := d.banks.GetBank(ctx, resolveBankID(bankID, cfg))
	if err != nil {
		return err
	}

	if cfg.Greeter.Addr != "" {
		greeter, err := tcp.Listen(cfg.Greeter.Addr, greeterBanner(cfg))
		if err != nil {
			return err
		}
		greeter.Start()
		defer greeter.Close()
	}

	var simDone <-chan struct{}
	if cfg.Simulation.Enabled {
		delay := config.TTLDuration(cfg.Simulation.Delay, time.Second)
		sim := app.NewSimulation(bank, name, delay, log.Printf)
		simDone = sim.Start(ctx)
	}

	session, err := app.NewStandaloneSession(bank, name, d.sink, config.TTLDuration(cfg.Results.SinkTimeout, 5*time.Second))
	if err != nil {
		return err
	}

	if err := playLoop(ctx, session, in, out); err != nil {
		return err
	}

	if simDone != nil {
		<-simDone
	}
	return nil
}

// resolveBankID picks the bank to play: explicit flag first, then the
// configured bank.id, then the built-in sample bank.
func resolveBankID(flagValue string, cfg config.Config) string {
	if flagValue != "" {
		return flagValue
	}
	if cfg.Bank.ID != "" {
		return cfg.Bank.ID
	}
	return "bank-1"
}

// playLoop renders questions and feeds answers to the engine until the
// session completes or input runs out.
func playLoop(ctx context.Context, session *app.Session, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)

	for {
		question, ok := session.CurrentQuestion()
		if !ok {
			return nil
		}
		snapshot := session.Snapshot()
		fmt.Fprintf(out, "Question %d/%d (%d pts): %s\n> ",
			snapshot.Position+1, snapshot.Total, question.EffectivePoints(), question.Prompt)

		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return err
			}
			fmt.Fprintln(out, "\ninput ended before the quiz finished")
			return nil
		}

		outcome, err := session.SubmitAnswer(ctx, scanner.Text())
		if errors.Is(err, domain.ErrEmptyAnswer) {
			fmt.Fprintln(out, "Please type an answer.")
			continue
		}
		if err != nil {
			return err
		}

		if outcome.Correct {
			fmt.Fprintf(out, "Correct! +%d points (score: %d)\n", outcome.Awarded, outcome.Score)
		} else {
			fmt.Fprintf(out, "Incorrect. (score: %d)\n", outcome.Score)
		}

		if outcome.Completed {
			fmt.Fprintf(out, "Quiz complete: %d/%d points\n", outcome.Score, session.TotalPoints())
			if outcome.SinkWarning != nil {
				log.Printf("result not persisted: %v", outcome.SinkWarning)
			}
			return nil
		}
	}
}
