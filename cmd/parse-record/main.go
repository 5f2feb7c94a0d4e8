package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/icco/gomoku"
	"github.com/icco/gomoku/ai"
	"github.com/jessevdk/go-flags"
)

type options struct {
	Filename flags.Filename `short:"f" long:"filename" description:"Game record to parse" required:"true"`
	Suggest  bool           `short:"s" long:"suggest" description:"Print the AI's move for the side to move"`
	Level    string         `short:"l" long:"level" description:"AI level used by --suggest" default:"advanced" choice:"beginner" choice:"intermediate" choice:"advanced" choice:"expert"`
	Timeout  time.Duration  `short:"t" long:"timeout" description:"Time limit for --suggest" default:"30s"`
	JSON     bool           `long:"json" description:"Print the game as JSON"`
}

func main() {
	var opts options
	if _, err := flags.Parse(&opts); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if err := run(context.Background(), opts, os.Stdout); err != nil {
		log.Fatalf("%+v", err)
	}
}

func run(ctx context.Context, opts options, out io.Writer) error {
	file, err := os.ReadFile(string(opts.Filename))
	if err != nil {
		return err
	}

	g, err := gomoku.ParseRecord(file)
	if err != nil {
		return fmt.Errorf("parse %s: %w", opts.Filename, err)
	}

	if opts.JSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(g); err != nil {
			return err
		}
	} else {
		for _, t := range g.Meta {
			fmt.Fprintln(out, t.Text())
		}
		fmt.Fprintln(out)
		for _, t := range g.Turns {
			fmt.Fprintln(out, t.Debug())
		}
		fmt.Fprintln(out)
		fmt.Fprint(out, g.Board.String())
	}

	winner, over := g.GameOver()
	switch {
	case over && winner == gomoku.Empty:
		fmt.Fprintln(out, "Result: draw")
	case over:
		fmt.Fprintf(out, "Result: %s wins\n", winner)
	default:
		fmt.Fprintf(out, "%s to move\n", g.ToMove())
	}

	if !opts.Suggest || over {
		return nil
	}

	engine := &ai.MinimaxEngine{}
	a, err := engine.Analyze(ctx, g, ai.Config{Level: ai.ParseLevel(opts.Level), TimeLimit: opts.Timeout})
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Suggested: %s\n", ai.Explain(a))
	fmt.Fprintf(out, "Searched %d nodes (%d cut-offs) in %s\n", a.Stats.Nodes, a.Stats.Cutoffs, a.Stats.Elapsed.Round(time.Millisecond))

	return nil
}
