package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/i474232898/holiday-planner/internal/holiday"
	"github.com/i474232898/holiday-planner/internal/storage"
	"github.com/i474232898/holiday-planner/internal/store"
	"github.com/i474232898/holiday-planner/internal/weather"
)

// errQuit is returned by the prompt helpers when input is exhausted.
var errQuit = errors.New("input closed")

// Options configures a Session.
type Options struct {
	Store *store.HolidayStore
	// Weather is optional; without it the View option never offers weather.
	Weather *weather.Service
	// SaveDir is the directory the Save option writes <name>.json into.
	SaveDir string

	In     io.Reader
	Out    io.Writer
	Now    func() time.Time
	Logger *slog.Logger
}

// Session is the interactive, menu-driven holiday manager.
type Session struct {
	store    *store.HolidayStore
	weather  *weather.Service
	saveDir  string
	in       *bufio.Scanner
	out      io.Writer
	now      func() time.Time
	logger   *slog.Logger
	messages Messages

	saved bool
}

// NewSession creates a Session over an already loaded store.
func NewSession(opts Options) (*Session, error) {
	if opts.Store == nil {
		return nil, errors.New("cli: store is required")
	}
	if opts.In == nil || opts.Out == nil {
		return nil, errors.New("cli: input and output are required")
	}
	msgs, err := LoadMessages()
	if err != nil {
		return nil, err
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.SaveDir == "" {
		opts.SaveDir = "."
	}
	return &Session{
		store:    opts.Store,
		weather:  opts.Weather,
		saveDir:  opts.SaveDir,
		in:       bufio.NewScanner(opts.In),
		out:      opts.Out,
		now:      opts.Now,
		logger:   opts.Logger,
		messages: msgs,
		saved:    true,
	}, nil
}

// Saved reports whether every change has been written out.
func (s *Session) Saved() bool {
	return s.saved
}

// Run shows the welcome text and loops over the menu until the user exits or the
// input ends.
func (s *Session) Run(ctx context.Context) error {
	s.println()
	s.printf(s.messages.Welcome, s.store.Count())
	s.println()

	for {
		s.printf("%s\n", s.messages.Options)
		choice, err := s.readInt("Selection: ", 1, 5)
		if err != nil {
			return s.finish(err)
		}
		s.println()

		switch choice {
		case 1:
			err = s.add()
		case 2:
			err = s.remove()
		case 3:
			err = s.save(ctx)
		case 4:
			err = s.view(ctx)
		case 5:
			var leave bool
			leave, err = s.exit()
			if err == nil && leave {
				return s.finish(nil)
			}
		}
		if err != nil {
			return s.finish(err)
		}
	}
}

func (s *Session) finish(err error) error {
	if err != nil && !errors.Is(err, errQuit) {
		return err
	}
	s.println()
	s.printf("%s\n\n", s.messages.Goodbye)
	return nil
}

func (s *Session) add() error {
	s.printf("Add a Holiday\n=============\n")
	name, day, err := s.readHoliday()
	if err != nil {
		return err
	}

	rec := holiday.Record{Name: name, Date: day}
	added, err := s.store.Add(rec)
	switch {
	case err != nil:
		s.printf("\nCould not add holiday: %v\n\n", err)
	case added:
		s.saved = false
		s.printf("\n%s is now added!\n\n", holiday.Format(rec, nil))
	default:
		s.printf("\n%s has already been entered into the system!\n\n", holiday.Format(rec, nil))
	}
	s.printf("Returning to main menu!\n\n")
	return nil
}

func (s *Session) remove() error {
	s.printf("Remove a Holiday\n================\n")
	name, day, err := s.readHoliday()
	if err != nil {
		return err
	}

	rec := holiday.Record{Name: name, Date: day}
	if err := s.store.Remove(name, day); err != nil {
		if !errors.Is(err, holiday.ErrNotFound) {
			return err
		}
		s.printf("\n%s is not in system, so it cannot be removed!\n\n", holiday.Format(rec, nil))
	} else {
		s.saved = false
		s.printf("\n%s is now removed!\n\n", holiday.Format(rec, nil))
	}
	s.printf("Returning to main menu!\n\n")
	return nil
}

func (s *Session) save(ctx context.Context) error {
	s.printf("Saving Holiday List\n===================\n")
	s.printf("Are you sure you want to save your changes?\n")
	ok, err := s.readYesNo()
	if err != nil {
		return err
	}
	if !ok {
		s.printf("\nCanceled:\nHoliday list file save canceled.\n\nReturning to main menu!\n\n")
		return nil
	}

	var name string
	for {
		name, err = s.readLine("Please input a file name, excluding JSON tag: ")
		if err != nil {
			return err
		}
		switch {
		case name == "":
			s.printf("Please enter a name that isn't blank!\n")
		case strings.Contains(strings.ToLower(name), ".json"):
			s.printf("Please do not include '.json' in input!\n")
		default:
			return s.write(ctx, name)
		}
	}
}

func (s *Session) write(ctx context.Context, name string) error {
	backend := storage.NewJSONFile(filepath.Join(s.saveDir, name+".json"))
	if err := backend.Save(ctx, s.store.All()); err != nil {
		s.logger.Error("saving holidays failed", "path", backend.Path(), "error", err)
		s.printf("\nError:\nYour changes could not be saved: %v\n\nReturning to main menu!\n\n", err)
		return nil
	}
	s.saved = true
	s.logger.Info("holidays saved", "path", backend.Path(), "count", s.store.Count())
	s.printf("\nSuccess:\nYour changes have been saved to %s.json\n\nReturning to main menu!\n\n", name)
	return nil
}

func (s *Session) view(ctx context.Context) error {
	s.printf("View Holidays\n=============\n")

	now := s.now()
	minYear, maxYear, ok := s.store.YearRange()
	if !ok {
		minYear, maxYear = now.Year(), now.Year()
	}
	year, err := s.readInt("Which year?: ", minYear, maxYear)
	if err != nil {
		return err
	}

	curYear, curWeek := now.ISOWeek()
	maxWeek := holiday.WeeksInYear(year)
	week, err := s.readInt(fmt.Sprintf("Which week (current week: %d)? [1-%d]: ", curWeek, maxWeek), 1, maxWeek)
	if err != nil {
		return err
	}

	var conditions map[string]string
	if s.weather != nil && year == curYear && week == curWeek {
		s.printf("Include weather?\n")
		want, err := s.readYesNo()
		if err != nil {
			return err
		}
		if want {
			conditions, err = s.weather.Week(ctx, now)
			if err != nil {
				s.printf("Weather is unavailable right now; showing holidays only.\n")
				conditions = nil
			}
		}
	}

	records, err := s.store.FilterByWeek(year, week)
	if err != nil {
		return err
	}
	s.printf("\nThese are the holidays for %d week #%d:\n", year, week)
	for _, line := range holiday.FormatAll(records, conditions) {
		s.printf("%s\n", line)
	}
	s.println()
	return nil
}

func (s *Session) exit() (bool, error) {
	s.printf("Exit\n====\nAre you sure you want to exit?\n")
	if !s.saved {
		s.printf("Your changes will be lost!\n")
	}
	ok, err := s.readYesNo()
	if err != nil {
		return false, err
	}
	if !ok {
		s.printf("\nReturning to main menu!\n\n")
	}
	return ok, nil
}

// readHoliday prompts for a non-blank name and a YYYY-MM-DD date, re-prompting on
// bad input.
func (s *Session) readHoliday() (string, time.Time, error) {
	var name string
	for {
		line, err := s.readLine("Holiday: ")
		if err != nil {
			return "", time.Time{}, err
		}
		if line != "" {
			name = line
			break
		}
		s.printf("Please enter a name that isn't blank!\n")
	}

	for {
		line, err := s.readLine("Date [YYYY-MM-DD]: ")
		if err != nil {
			return "", time.Time{}, err
		}
		if line == "" {
			s.printf("Please enter a date that isn't blank!\n")
			continue
		}
		day, err := holiday.ParseDate(line)
		if err != nil {
			s.printf("Date is not formatted correctly; please use YYYY-MM-DD!\n")
			continue
		}
		return name, day, nil
	}
}

func (s *Session) readInt(prompt string, lo, hi int) (int, error) {
	for {
		line, err := s.readLine(prompt)
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(line)
		switch {
		case err != nil:
			s.printf("\nPlease enter an integer!\n")
		case n < lo || n > hi:
			if lo == hi {
				s.printf("\nPlease enter %d.\n", lo)
			} else {
				s.printf("\nPlease enter an integer between %d and %d, inclusive.\n", lo, hi)
			}
		default:
			return n, nil
		}
	}
}

func (s *Session) readYesNo() (bool, error) {
	for {
		line, err := s.readLine("[y/n] ")
		if err != nil {
			return false, err
		}
		switch strings.ToLower(line) {
		case "y":
			return true, nil
		case "n":
			return false, nil
		}
		s.printf("Please enter 'y' or 'n'!\n")
	}
}

func (s *Session) readLine(prompt string) (string, error) {
	s.printf("%s", prompt)
	if !s.in.Scan() {
		if err := s.in.Err(); err != nil {
			return "", err
		}
		return "", errQuit
	}
	return strings.TrimSpace(s.in.Text()), nil
}

func (s *Session) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}

func (s *Session) println() {
	fmt.Fprintln(s.out)
}
