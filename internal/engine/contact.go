package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/emersion/go-vcard"
	"github.com/tartampluch/go-ageflow/internal/config"
)

// ErrNoBirthday is returned when no card in the stream carries a usable BDAY.
var ErrNoBirthday = errors.New(config.ErrVCardNoBirthday)

// Importer reads a birth date from a contact card, either a local
// .vcf file or a URL.
type Importer struct {
	Fetcher CardFetcher
}

// Import opens source and returns the first full birth date found.
func (im *Importer) Import(ctx context.Context, source string) (time.Time, error) {
	source = strings.TrimSpace(source)

	var (
		rc  io.ReadCloser
		err error
	)
	if strings.HasPrefix(source, config.SchemeHTTP+"://") || strings.HasPrefix(source, config.SchemeHTTPS+"://") {
		if im.Fetcher == nil {
			im.Fetcher = NewHTTPFetcher()
		}
		rc, err = im.Fetcher.Fetch(ctx, source)
	} else {
		rc, err = os.Open(source)
	}
	if err != nil {
		return time.Time{}, err
	}
	defer func() { _ = rc.Close() }()

	birth, err := ReadBirthDate(ctx, rc)
	if err != nil {
		return time.Time{}, err
	}

	slog.Info(config.MsgImported,
		config.LogKeyComponent, config.CompEngine,
		config.LogKeyDOB, birth.Format(config.DateFormatDisplay))
	return birth, nil
}

// ReadBirthDate decodes a vCard stream and returns the first BDAY that
// includes a year. Cards without one are skipped.
func ReadBirthDate(ctx context.Context, r io.Reader) (time.Time, error) {
	decoder := vcard.NewDecoder(r)

	for {
		if err := ctx.Err(); err != nil {
			return time.Time{}, err
		}

		card, err := decoder.Decode()
		if errors.Is(err, io.EOF) {
			return time.Time{}, ErrNoBirthday
		}
		if err != nil {
			// The decoder cannot resynchronise after a syntax error.
			return time.Time{}, fmt.Errorf("%s: %w", config.ErrVCardParse, err)
		}

		bday := card.Get(config.VCardBDAY)
		if bday == nil || bday.Value == "" {
			continue
		}

		birth, err := parseDate(bday.Value)
		if err != nil {
			slog.Debug(config.MsgSkippedDate,
				config.LogKeyComponent, config.CompEngine,
				config.LogKeyValue, bday.Value)
			continue
		}
		return NormalizeBirthDate(birth), nil
	}
}

// parseDate handles the vCard BDAY layouts that carry a year.
// Truncated dates (--MM-DD) cannot produce an age and are rejected.
func parseDate(value string) (time.Time, error) {
	formats := []string{
		config.DateFormatFullDash,
		config.DateFormatFullBasic,
		config.DateFormatRFC3339,
		config.DateFormatFullT,
	}

	for _, f := range formats {
		if t, err := time.ParseInLocation(f, value, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.New(config.ErrDateParse)
}
