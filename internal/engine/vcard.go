package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/emersion/go-vcard"
	"github.com/tartampluch/go-agewidget/internal/config"
)

// ContactsSource describes where people are imported from.
type ContactsSource struct {
	Mode      string // config.ContactsModeLocal or config.ContactsModeWeb
	LocalPath string // Path to a .vcf file
	WebURL    string // CardDAV or WebDAV URL
	WebUser   string // HTTP Basic Auth Username
	WebPass   string // HTTP Basic Auth Password
}

// Importer loads people from a vCard source.
type Importer struct {
	Fetcher VCardFetcher // Interface for network abstraction.
}

// Import opens the source and returns one Person per card with a full birth date.
func (im *Importer) Import(ctx context.Context, src ContactsSource) ([]Person, error) {
	log := slog.With(
		config.LogKeyComponent, config.CompContacts,
		config.LogKeyMode, src.Mode,
	)

	reader, err := im.acquireStream(ctx, src)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%s: %w", config.ErrContactsLoad, err)
	}
	// Best effort close. Errors in Close() for read-only files are rarely actionable here.
	defer func() { _ = reader.Close() }()

	people, err := DecodePeople(ctx, reader)
	if err != nil {
		return nil, err
	}

	log.Info(config.MsgContactsLoaded, config.LogKeyCount, len(people))
	return people, nil
}

// acquireStream opens the appropriate data source based on configuration.
func (im *Importer) acquireStream(ctx context.Context, src ContactsSource) (io.ReadCloser, error) {
	switch src.Mode {
	case config.ContactsModeLocal:
		if src.LocalPath == "" {
			return nil, errors.New(config.ErrLocalPathEmpty)
		}
		return os.Open(src.LocalPath)
	case config.ContactsModeWeb:
		if src.WebURL == "" {
			return nil, errors.New(config.ErrWebURLEmpty)
		}
		if im.Fetcher == nil {
			return nil, errors.New(config.ErrFetcherMissing)
		}
		return im.Fetcher.Fetch(ctx, src.WebURL, src.WebUser, src.WebPass)
	default:
		return nil, fmt.Errorf("%s: %q", config.ErrModeUnsupport, src.Mode)
	}
}

// DecodePeople reads a vCard stream. Cards without a usable birth date are
// skipped; a malformed card does not abort the stream, but a failing reader does.
func DecodePeople(ctx context.Context, r io.Reader) ([]Person, error) {
	src := &stickyReader{r: r}
	decoder := vcard.NewDecoder(src)
	stats := struct{ processed, withBday int }{}
	var people []Person

	for {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		card, err := decoder.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if src.err != nil {
			return nil, fmt.Errorf("%s: %w", config.ErrContactsLoad, src.err)
		}
		if err != nil {
			slog.Warn(config.MsgSkippedCard,
				config.LogKeyComponent, config.CompContacts,
				config.LogKeyError, err)
			continue
		}

		stats.processed++
		bday := card.Get(config.VCardBDAY)
		if bday == nil || bday.Value == "" {
			continue
		}

		birthDate, err := parseBirthday(bday.Value)
		if err != nil {
			slog.Debug(config.MsgSkippedDate,
				config.LogKeyComponent, config.CompContacts,
				config.LogKeyValue, bday.Value,
				config.LogKeyError, err)
			continue
		}
		stats.withBday++

		// Name Strategy: FN (Formatted) > N (Structured) > empty (rendered as "Unknown")
		name := ""
		if fn := card.Get(config.VCardFN); fn != nil {
			name = fn.Value
		} else if n := card.Get(config.VCardN); n != nil {
			name = n.Value
		}

		people = append(people, Person{Name: name, DOB: birthDate.String()})
	}

	slog.Debug(config.MsgContactsLoaded,
		config.LogKeyComponent, config.CompContacts,
		config.LogKeyTotal, stats.processed,
		config.LogKeyFound, stats.withBday)
	return people, nil
}

// stickyReader remembers the first transport error so the decode loop can tell
// it apart from a card that merely failed to parse.
type stickyReader struct {
	r   io.Reader
	err error
}

func (s *stickyReader) Read(p []byte) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	n, err := s.r.Read(p)
	if err != nil && !errors.Is(err, io.EOF) {
		s.err = err
	}
	return n, err
}

// parseBirthday accepts the full-date vCard BDAY layouts. Year-less dates
// (--MM-DD) are recognized but rejected: an age needs a birth year.
func parseBirthday(value string) (CalendarDate, error) {
	formatsWithYear := []string{
		config.DateFormatISO,
		config.DateFormatFullBasic,
		config.DateFormatRFC3339,
		config.DateFormatFullT,
	}
	for _, f := range formatsWithYear {
		if t, err := time.Parse(f, value); err == nil {
			return DateOf(t), nil
		}
	}

	for _, f := range []string{config.DateFormatNoYearD, config.DateFormatNoYearB} {
		if _, err := time.Parse(f, value); err == nil {
			return CalendarDate{}, fmt.Errorf("%s: year unknown in %q", config.ErrDateParse, value)
		}
	}

	return CalendarDate{}, fmt.Errorf("%s: %q", config.ErrDateParse, value)
}
