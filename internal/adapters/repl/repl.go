package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"refill-ledger/internal/app"
	"refill-ledger/internal/core"
)

var errExit = errors.New("exit")

// Session is one interactive terminal session. It also serves as the
// app.Prompter and app.Refresher for the service it drives, so it is created
// before the service and attached to it in Run.
//
// Output is serialised because the rollover job notifies from its own goroutine.
type Session struct {
	reader *bufio.Reader
	out    io.Writer

	mu  sync.Mutex
	ctx context.Context
	svc app.ApplicationService
}

var (
	_ app.Prompter  = (*Session)(nil)
	_ app.Refresher = (*Session)(nil)
)

// NewSession reads commands from reader and writes everything to out.
func NewSession(reader *bufio.Reader, out io.Writer) *Session {
	return &Session{reader: reader, out: out}
}

// Run draws the dashboard and reads commands until /exit or end of input.
// Slash commands and the bare shortcuts "s" and "sell" are dispatched
// deterministically; anything else prints a hint.
func (s *Session) Run(ctx context.Context, svc app.ApplicationService) {
	s.mu.Lock()
	s.ctx, s.svc = ctx, svc
	s.mu.Unlock()

	s.println("Refill Ledger")
	s.println("Type /sell (or just s) to record a sale, /help for all commands.")
	s.Refresh()

	for {
		if ctx.Err() != nil {
			return
		}
		s.printf("\n> ")
		input, err := s.reader.ReadString('\n')
		input = strings.TrimSpace(input)
		if input == "" {
			if err != nil {
				s.println("Goodbye!")
				return
			}
			continue
		}

		if dispErr := s.dispatch(ctx, input); dispErr != nil {
			if errors.Is(dispErr, errExit) {
				s.println("Goodbye!")
				return
			}
			s.printf("Error: %v\n", dispErr)
		}
	}
}

func (s *Session) dispatch(ctx context.Context, input string) error {
	tokens := strings.Fields(strings.TrimPrefix(input, "/"))
	if len(tokens) == 0 {
		return nil
	}
	cmd := strings.ToLower(tokens[0])
	args := tokens[1:]

	if !strings.HasPrefix(input, "/") && cmd != "s" && cmd != "sell" {
		s.println("Commands start with /. Type /help for the list.")
		return nil
	}

	switch cmd {
	case "sell", "s":
		return s.handleSell(ctx)

	case "price", "p":
		return s.handlePrice(ctx, args)

	case "sales":
		date, ok := s.dateArg(args)
		if !ok {
			return nil
		}
		result, err := s.svc.GetSales(ctx, date)
		if err != nil {
			return err
		}
		s.write(func(b *strings.Builder) { printSales(b, result) })

	case "stats":
		date, ok := s.dateArg(args)
		if !ok {
			return nil
		}
		result, err := s.svc.GetStats(ctx, date)
		if err != nil {
			return err
		}
		s.write(func(b *strings.Builder) { printStats(b, result.Stats) })

	case "today", "t":
		s.Refresh()

	case "clear":
		stats, err := s.svc.GetTodayStats(ctx)
		if err != nil {
			return err
		}
		if stats.Stats.Count == 0 {
			s.println("No sales recorded today.")
			return nil
		}
		if !s.Confirm(fmt.Sprintf("Delete all %d sales recorded today?", stats.Stats.Count)) {
			s.println("Cancelled.")
			return nil
		}
		if err := s.svc.ClearToday(ctx); err != nil {
			return err
		}
		s.println("Today's sales cleared.")
		s.Refresh()

	case "reset":
		if !s.Confirm("Delete ALL sales and reset prices to zero? This cannot be undone.") {
			s.println("Cancelled.")
			return nil
		}
		if err := s.svc.ResetEverything(ctx); err != nil {
			return err
		}
		s.println("Everything reset.")

	case "help", "h":
		s.write(func(b *strings.Builder) { printHelp(b) })

	case "exit", "quit", "e", "q":
		return errExit

	default:
		s.printf("Unknown command: /%s  (type /help for all commands)\n", cmd)
	}
	return nil
}

// dateArg returns today when args is empty, otherwise the parsed first arg.
func (s *Session) dateArg(args []string) (core.Date, bool) {
	if len(args) == 0 {
		return s.svc.Today(), true
	}
	date, err := core.ParseDate(args[0])
	if err != nil {
		s.printf("Invalid date: %s (use YYYY-MM-DD)\n", args[0])
		return "", false
	}
	return date, true
}

// Confirm asks a yes/no question. Anything but y/yes, including end of input, is no.
func (s *Session) Confirm(message string) bool {
	answer, ok := s.prompt(message + " (y/n): ")
	return ok && isYes(answer)
}

// Notify prints a message on its own line.
func (s *Session) Notify(message string) {
	s.printf("\n[!] %s\n", message)
}

// Refresh redraws the dashboard for whatever today is now.
func (s *Session) Refresh() {
	s.mu.Lock()
	ctx, svc := s.ctx, s.svc
	s.mu.Unlock()
	if svc == nil {
		return
	}

	pricing, err := svc.GetPricing(ctx)
	if err != nil {
		s.printf("Error: %v\n", err)
		return
	}
	stats, err := svc.GetTodayStats(ctx)
	if err != nil {
		s.printf("Error: %v\n", err)
		return
	}
	s.write(func(b *strings.Builder) { printDashboard(b, pricing, stats.Stats) })
}

// prompt prints label and reads one trimmed line. ok is false at end of input.
func (s *Session) prompt(label string) (string, bool) {
	s.printf("%s", label)
	line, err := s.reader.ReadString('\n')
	if err != nil && line == "" {
		return "", false
	}
	return strings.TrimSpace(line), true
}

func (s *Session) write(render func(b *strings.Builder)) {
	var b strings.Builder
	render(&b)
	s.mu.Lock()
	defer s.mu.Unlock()
	io.WriteString(s.out, b.String())
}

func (s *Session) printf(format string, a ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.out, format, a...)
}

func (s *Session) println(a ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintln(s.out, a...)
}
