// undodemo is a line-buffer text editor that wires History, Checkpoint
// and Queue together to drive a single in-memory Buffer, reading
// commands from stdin.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	undo "github.com/holtfell/undo"
	"github.com/holtfell/undo/internal/xlog"
	"github.com/holtfell/undo/pretty"
)

var configFlag = &cli.StringFlag{
	Name:  "config",
	Usage: "path to a YAML config file",
}

func main() {
	app := &cli.App{
		Name:  "undodemo",
		Usage: "interactive line-buffer editor demonstrating github.com/holtfell/undo",
		Flags: []cli.Flag{configFlag},
		Action: func(ctx *cli.Context) error {
			cfg, err := loadConfig(ctx.String(configFlag.Name))
			if err != nil {
				return err
			}
			return run(cfg)
		},
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type session struct {
	history *undo.History[Buffer]
	cp      *undo.Checkpoint[Buffer]
	queue   *undo.Queue[Buffer]
	log     *logrus.Entry
}

func run(cfg Config) error {
	sessionID := uuid.NewString()
	log := xlog.With(xlog.Fields{"instance": cfg.Instance, "session": sessionID})
	log.Info("undodemo starting")

	opts := []undo.HistoryOption[Buffer]{
		undo.WithHistoryLimit[Buffer](cfg.HistoryLimit),
		undo.WithHistoryTimestamps[Buffer](cfg.Timestamps),
		undo.WithHistoryObserver[Buffer](func(s undo.Signal) {
			log.WithField("signal", fmt.Sprintf("%#v", s)).Debug("signal")
		}),
	}
	if cfg.MetricsEnabled {
		opts = append(opts, undo.WithHistoryMetrics[Buffer](cfg.Instance))
	}
	s := &session{history: undo.NewHistory[Buffer](Buffer{}, opts...), log: log}

	fmt.Println("undodemo — type 'help' for commands")
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			break
		}
		if err := s.dispatch(line); err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
	}
	return scanner.Err()
}

// active returns whichever wrapper is currently accepting operations:
// a checkpoint or queue if one is open, otherwise the history itself.
func (s *session) active() undo.Timeline[Buffer] {
	if s.queue != nil {
		return s.queue
	}
	if s.cp != nil {
		return s.cp
	}
	return s.history
}

func (s *session) dispatch(line string) error {
	fields := strings.Fields(line)
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "help":
		printHelp()
	case "insert":
		return s.insert(args)
	case "delete":
		return s.delete(args)
	case "undo":
		ok, err := s.active().Undo()
		if err == nil && !ok {
			fmt.Println("nothing to undo")
		}
		return err
	case "redo":
		ok, err := s.active().Redo()
		if err == nil && !ok {
			fmt.Println("nothing to redo")
		}
		return err
	case "goto":
		return s.goTo(args)
	case "save":
		s.history.SetSaved(true)
	case "unsave":
		s.history.SetSaved(false)
	case "checkpoint":
		if s.cp != nil || s.queue != nil {
			s.cp = s.active().(interface {
				Checkpoint() *undo.Checkpoint[Buffer]
			}).Checkpoint()
		} else {
			s.cp = s.history.Checkpoint()
		}
	case "commit":
		return s.commit()
	case "cancel":
		return s.cancel()
	case "queue":
		if s.cp != nil || s.queue != nil {
			s.queue = s.active().(interface {
				Queue() *undo.Queue[Buffer]
			}).Queue()
		} else {
			s.queue = s.history.Queue()
		}
	case "list":
		return pretty.List(os.Stdout, s.history, nil, true)
	case "tree":
		return pretty.ForestOf(os.Stdout, s.history, nil, true)
	case "print":
		fmt.Printf("%q\n", s.history.Target().Text)
	default:
		fmt.Println("unknown command:", cmd)
	}
	return nil
}

func (s *session) insert(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: insert <pos> <text>")
	}
	pos, err := strconv.Atoi(args[0])
	if err != nil {
		return err
	}
	return s.active().Apply(&InsertCommand{Pos: pos, Text: strings.Join(args[1:], " ")})
}

func (s *session) delete(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: delete <pos> <length>")
	}
	pos, err := strconv.Atoi(args[0])
	if err != nil {
		return err
	}
	length, err := strconv.Atoi(args[1])
	if err != nil {
		return err
	}
	return s.active().Apply(&DeleteCommand{Pos: pos, Length: length})
}

func (s *session) goTo(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: goto <branch> <current>")
	}
	branch, err := strconv.Atoi(args[0])
	if err != nil {
		return err
	}
	current, err := strconv.Atoi(args[1])
	if err != nil {
		return err
	}
	return s.active().GoTo(branch, current)
}

func (s *session) commit() error {
	switch {
	case s.queue != nil:
		q := s.queue
		s.queue = nil
		return q.Commit()
	case s.cp != nil:
		s.cp.Commit()
		s.cp = nil
	default:
		return fmt.Errorf("nothing open to commit")
	}
	return nil
}

func (s *session) cancel() error {
	switch {
	case s.queue != nil:
		s.queue.Cancel()
		s.queue = nil
	case s.cp != nil:
		cp := s.cp
		s.cp = nil
		return cp.Cancel()
	default:
		return fmt.Errorf("nothing open to cancel")
	}
	return nil
}

func printHelp() {
	fmt.Println(`commands:
  insert <pos> <text>
  delete <pos> <length>
  undo
  redo
  goto <branch> <current>
  save / unsave
  checkpoint / commit / cancel
  queue / commit / cancel
  list / tree / print
  quit`)
}
