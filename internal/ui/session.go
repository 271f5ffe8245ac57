package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/tartampluch/go-phonebook/internal/config"
	"github.com/tartampluch/go-phonebook/internal/engine"
	"github.com/tartampluch/go-phonebook/internal/phonebook"
	"github.com/tartampluch/go-phonebook/internal/storage"
)

// Publisher receives the birthday calendar after every save.
type Publisher interface {
	Publish(data []byte)
}

// ContactImporter reads contacts from an external vCard source.
type ContactImporter interface {
	Import(ctx context.Context, source string) (*phonebook.Directory, storage.Stats, error)
}

// Session is the interactive loop over one phonebook.
type Session struct {
	Book    *engine.Book
	Catalog Catalog
	Console *Console
	Store   storage.Store

	// Optional collaborators.
	Publisher Publisher
	Importer  ContactImporter

	// PageSize is used by "show all" when no size is typed. 0 prompts for one.
	PageSize int
	Calendar engine.CalendarOptions

	// ServeURL is announced at start when the calendar server runs.
	ServeURL string

	dispatcher Dispatcher
}

// Run reads commands until exit, end of input or ctx cancellation.
// The phonebook is saved after every dispatched command and once more on the way out.
// Only persistence failures end the session with an error.
func (s *Session) Run(ctx context.Context) error {
	s.registerCommands()
	defer s.Console.Close()

	slog.Info(config.MsgSessionStart,
		config.LogKeyComponent, config.CompUI,
		config.LogKeyCount, s.Book.Dir.Len(),
	)
	s.publish()

	s.Console.Header(s.Catalog.Render(config.TKeyWelcome))
	if s.ServeURL != "" {
		s.Console.Info(s.Catalog.Render(config.TKeyCalendarServed, s.ServeURL))
	}

	for {
		line, ok, err := s.Console.ReadLine(ctx, s.Catalog.Render(config.TKeyPrompt))
		if err != nil && !errors.Is(err, context.Canceled) {
			slog.Warn(config.ErrInputRead, config.LogKeyComponent, config.CompUI, config.LogKeyError, err)
			s.Console.Failure(s.Catalog.Render(config.TKeyErrOperationFailed, err.Error()))
		}
		if !ok || IsExit(line) {
			return s.finish(ctx)
		}

		line = strings.TrimLeft(line, " \t")
		run, prefix, rest, found := s.dispatcher.Resolve(line)
		if !found {
			slog.Debug(config.MsgCommandUnknown, config.LogKeyComponent, config.CompUI, config.LogKeyCommand, line)
			s.Console.Failure(s.Catalog.Render(config.TKeyCommandUnknown))
			continue
		}

		slog.Debug(config.MsgCommand,
			config.LogKeyComponent, config.CompUI,
			config.LogKeyCommand, prefix,
			config.LogKeyArgs, strings.TrimSpace(rest),
		)
		if err := run(ctx, rest); err != nil && ctx.Err() == nil {
			s.report(prefix, err)
		}
		if ctx.Err() != nil {
			return s.finish(ctx)
		}

		if err := s.save(ctx); err != nil {
			return err
		}
	}
}

func (s *Session) finish(ctx context.Context) error {
	err := s.save(context.WithoutCancel(ctx))
	s.Console.Info(s.Catalog.Render(config.TKeyGoodbye))
	slog.Info(config.MsgSessionEnd, config.LogKeyComponent, config.CompUI)
	return err
}

// report renders a failed command. Domain failures carry their own message.
func (s *Session) report(prefix string, err error) {
	if kind, ok := phonebook.KindOf(err); ok {
		slog.Debug(config.MsgCommandFailed,
			config.LogKeyComponent, config.CompUI,
			config.LogKeyCommand, prefix,
			config.LogKeyKind, kind.String(),
			config.LogKeyValue, phonebook.ValueOf(err),
		)
		s.Console.Failure(s.Catalog.RenderError(kind, phonebook.ValueOf(err)))
		return
	}
	slog.Warn(config.MsgCommandFailed,
		config.LogKeyComponent, config.CompUI,
		config.LogKeyCommand, prefix,
		config.LogKeyError, err,
	)
	s.Console.Failure(s.Catalog.Render(config.TKeyErrOperationFailed, err.Error()))
}

func (s *Session) save(ctx context.Context) error {
	if err := s.Store.Save(ctx, s.Book.Dir); err != nil {
		return fmt.Errorf("%s: %w", config.ErrStoreSave, err)
	}
	slog.Debug(config.MsgStoreSaved, config.LogKeyComponent, config.CompUI, config.LogKeyCount, s.Book.Dir.Len())
	s.publish()
	return nil
}

func (s *Session) publish() {
	if s.Publisher == nil {
		return
	}
	data, err := s.Book.BuildCalendar(s.Calendar)
	if err != nil {
		slog.Error(config.ErrICalEncode, config.LogKeyComponent, config.CompUI, config.LogKeyError, err)
		return
	}
	s.Publisher.Publish(data)
}

func (s *Session) registerCommands() {
	if len(s.dispatcher.routes) > 0 {
		return
	}
	d := &s.dispatcher
	d.Register(s.op(s.Book.AddContact), config.CmdAddContact)
	d.Register(s.op(s.Book.UpdateNumber), config.CmdUpdateNumber)
	d.Register(s.op(s.Book.AppendNumber), config.CmdAppendNumber)
	d.Register(s.op(s.Book.DeletePhoneNumber), config.CmdDeleteNumber)
	d.Register(s.op(s.Book.AddEmail), config.CmdAddEmail)
	d.Register(s.op(s.Book.UpdateEmail), config.CmdUpdateEmail)
	d.Register(s.op(s.Book.AppendEmail), config.CmdAppendEmail)
	d.Register(s.op(s.Book.DeleteEmail), config.CmdDeleteEmail)
	d.Register(s.op(s.Book.AddBirthday), config.CmdAddBirthday)
	d.Register(s.op(s.Book.DeleteContact), config.CmdDeleteContact)
	d.Register(s.showAll, config.CmdShowAll)
	d.Register(s.showNearBirthdays, config.CmdShowNearBD)
	d.Register(s.find, config.CmdFind, config.CmdSearch)
	d.Register(s.clearPhonebook, config.CmdClearPhonebook)
	d.Register(s.exportCalendar, config.CmdExportCalendar)
	d.Register(s.importContacts, config.CmdImportContacts)
	d.Register(s.help, config.CmdHelp)
	d.Register(s.hello, config.CmdHello, config.CmdHi)
	d.Register(s.clearScreen, config.CmdClear, config.CmdCls)
	// Whole-line exit words never get here; longer lines only say goodbye.
	d.Register(s.goodbye, exitWords...)
}

// op adapts a mutating Book operation to a command handler.
func (s *Session) op(fn func([]string) (engine.Outcome, error)) Handler {
	return func(_ context.Context, rest string) error {
		out, err := fn(strings.Fields(rest))
		if err != nil {
			return err
		}
		s.Console.Success(s.Catalog.Render(out.Key, out.Args...))
		return nil
	}
}

func (s *Session) showAll(ctx context.Context, rest string) error {
	if s.Book.Empty() {
		s.Console.Info(s.Catalog.Render(config.TKeyEmptyPhonebook))
		return nil
	}

	size := strings.TrimSpace(rest)
	if size == "" && s.PageSize > 0 {
		size = strconv.Itoa(s.PageSize)
	}
	if size == "" {
		line, ok, err := s.Console.ReadLine(ctx, s.Catalog.Render(config.TKeyHowMuchRecs))
		if !ok {
			return err
		}
		size = line
	}

	listing, err := s.Book.ListAll(size)
	if err != nil {
		return err
	}
	if listing.Clamped {
		s.Console.Failure(s.Catalog.Render(config.TKeyWrongRecsCount, listing.Requested))
	}

	s.Console.Header(s.Catalog.Render(config.TKeyPhonebook))
	first := true
	for page := range listing.Pages {
		if !first {
			if _, ok, err := s.Console.ReadLine(ctx, s.Catalog.Render(config.TKeyEnterToProceed)); !ok {
				return err
			}
		}
		first = false
		for _, rec := range page {
			s.showRecord(rec)
		}
	}
	s.Console.Header(s.Catalog.Render(config.TKeyEndOfPhonebook))
	return nil
}

func (s *Session) showRecord(rec *phonebook.Record) {
	c := s.Catalog
	notSpecified := c.Render(config.TKeyNotSpecified)

	s.Console.Info(c.Render(config.TKeyShowContact, rec.Name))
	s.Console.Info(c.Render(config.TKeyShowNumbers) + joinOr(rec.Phones(), notSpecified))
	s.Console.Info(c.Render(config.TKeyShowEmails) + joinOr(rec.Emails(), notSpecified))

	birthday := notSpecified
	if rec.Birthday.IsSet() {
		birthday = rec.Birthday.String()
	}
	s.Console.Info(c.Render(config.TKeyShowBirthday) + birthday)
}

func joinOr[T ~string](values []T, empty string) string {
	if len(values) == 0 {
		return empty
	}
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}

func (s *Session) find(ctx context.Context, rest string) error {
	if s.Book.Empty() {
		s.Console.Info(s.Catalog.Render(config.TKeyEmptyPhonebook))
		return nil
	}

	query := strings.TrimSpace(rest)
	if query == "" {
		line, ok, err := s.Console.ReadLine(ctx, s.Catalog.Render(config.TKeySearchInput))
		if !ok {
			return err
		}
		query = strings.TrimSpace(line)
	}

	s.Console.Header(s.Catalog.Render(config.TKeyContactSearch))
	matches := s.Book.Search(query)
	for _, m := range matches {
		s.Console.Success(s.Catalog.Render(config.TKeyFoundInRecord, m.Record.Name, m.Field))
		s.showRecord(m.Record)
	}
	if len(matches) == 0 {
		s.Console.Info(s.Catalog.Render(config.TKeyNotFound))
	}
	s.Console.Header(s.Catalog.Render(config.TKeySearchResult))
	return nil
}

func (s *Session) showNearBirthdays(_ context.Context, rest string) error {
	if s.Book.Empty() {
		s.Console.Info(s.Catalog.Render(config.TKeyEmptyPhonebook))
		return nil
	}

	upcoming, err := s.Book.BirthdayWindow(strings.Fields(rest))
	if err != nil {
		return err
	}

	s.Console.Header(s.Catalog.Render(config.TKeySearchForBD))
	for _, u := range upcoming {
		s.Console.Info(s.Catalog.Render(config.TKeyBDSearchResult, u.Record.Name, u.Record.Birthday, u.DaysUntil))
	}
	if len(upcoming) == 0 {
		s.Console.Info(s.Catalog.Render(config.TKeyNotFound))
	}
	s.Console.Header(s.Catalog.Render(config.TKeyBDSearchDone))
	return nil
}

func (s *Session) clearPhonebook(ctx context.Context, _ string) error {
	answer, ok, err := s.Console.ReadLine(ctx, s.Catalog.Render(config.TKeyClearPhonebook))
	if !ok {
		return err
	}
	out := s.Book.ClearPhonebook(answer)
	s.Console.Info(s.Catalog.Render(out.Key, out.Args...))
	return nil
}

func (s *Session) exportCalendar(_ context.Context, rest string) error {
	args := strings.Fields(rest)
	if len(args) < 1 {
		return phonebook.ErrNotEnoughArguments
	}
	data, err := s.Book.BuildCalendar(s.Calendar)
	if err != nil {
		return err
	}
	if err := os.WriteFile(args[0], data, config.FilePermUserRW); err != nil {
		return fmt.Errorf("%s: %w", config.ErrCalendarWrite, err)
	}
	s.Console.Success(s.Catalog.Render(config.TKeyCalendarExported, args[0]))
	return nil
}

func (s *Session) importContacts(ctx context.Context, rest string) error {
	args := strings.Fields(rest)
	if len(args) < 1 {
		return phonebook.ErrNotEnoughArguments
	}
	if s.Importer == nil {
		return errors.New(config.ErrFetcherMissing)
	}
	incoming, stats, err := s.Importer.Import(ctx, args[0])
	if err != nil {
		return err
	}
	added, skipped := s.Book.Merge(incoming)
	s.Console.Success(s.Catalog.Render(config.TKeyContactsImported, added, skipped+stats.Skipped))
	return nil
}

func (s *Session) help(context.Context, string) error {
	s.Console.Info(s.Catalog.Render(config.TKeyHelp))
	return nil
}

func (s *Session) hello(context.Context, string) error {
	s.Console.Info(s.Catalog.Render(config.TKeyGreeting))
	s.Console.Info(s.Catalog.Render(config.TKeyHelp))
	return nil
}

func (s *Session) goodbye(context.Context, string) error {
	s.Console.Info(s.Catalog.Render(config.TKeyGoodbye))
	return nil
}

func (s *Session) clearScreen(context.Context, string) error {
	s.Console.Raw(config.ClearScreenSeq)
	return nil
}
