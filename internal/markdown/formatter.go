// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package markdown reformats flattened PDF text into Markdown. Structure is
// inferred line by line from short heuristics (upper case, trailing
// punctuation, list markers); no layout or font information is used.
//
// Every pass is exported and pure so it can be tested on its own. Formatter
// composes them and prepends a title and timestamp header; the clock behind
// the timestamp is injectable.
package markdown

import (
	"fmt"
	"strings"
	"time"

	"github.com/goodsign/monday"
)

// DefaultLocale is used when no supported locale can be resolved.
const DefaultLocale = monday.LocaleEnUS

// Clock supplies the extraction timestamp.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to the Clock interface.
type ClockFunc func() time.Time

// Now calls f.
func (f ClockFunc) Now() time.Time { return f() }

// SystemClock returns the wall-clock time.
var SystemClock Clock = ClockFunc(time.Now)

// Formatter turns raw collected text into a Markdown document. It holds no
// mutable state and is safe for concurrent use.
type Formatter struct {
	clock    Clock
	locale   monday.Locale
	location *time.Location
}

// Option configures a Formatter.
type Option func(*Formatter)

// WithClock sets the clock used for the header timestamp.
func WithClock(c Clock) Option {
	return func(f *Formatter) {
		if c != nil {
			f.clock = c
		}
	}
}

// WithLocale sets the locale of the header timestamp. Unsupported locales
// fall back to DefaultLocale.
func WithLocale(l monday.Locale) Option {
	return func(f *Formatter) {
		f.locale = supportedLocale(l)
	}
}

// WithLocation sets the time zone of the header timestamp.
func WithLocation(loc *time.Location) Option {
	return func(f *Formatter) {
		if loc != nil {
			f.location = loc
		}
	}
}

// New creates a Formatter using the system clock, DefaultLocale and the local
// time zone unless overridden.
func New(opts ...Option) *Formatter {
	f := &Formatter{
		clock:    SystemClock,
		locale:   DefaultLocale,
		location: time.Local,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Format returns the header for title followed by the formatted body of raw.
func (f *Formatter) Format(raw, title string) string {
	now := f.clock.Now().In(f.location)
	return Header(title, Timestamp(now, f.locale)) + Body(raw)
}

// Format formats raw with a header stamped at now, rendered in DefaultLocale
// and in now's own location.
func Format(raw, title string, now time.Time) string {
	return Header(title, Timestamp(now, DefaultLocale)) + Body(raw)
}

// Header returns the title block that precedes every formatted body.
func Header(title, timestamp string) string {
	return fmt.Sprintf("# Text Extracted from: %s\n\n*Extracted on: %s*\n\n---\n\n", title, timestamp)
}

// twelveHourLocales use an AM/PM clock for short times.
var twelveHourLocales = map[monday.Locale]bool{
	monday.LocaleEnUS: true,
}

// mediumDates replaces monday's medium layouts where they zero-pad the day.
var mediumDates = map[monday.Locale]string{
	monday.LocaleEnUS: "Jan 2, 2006",
	monday.LocaleEnGB: "2 Jan 2006",
	monday.LocaleFrFR: "2 Jan 2006",
}

// Timestamp renders t as a medium-style date followed by a short-style time
// in locale l.
func Timestamp(t time.Time, l monday.Locale) string {
	l = supportedLocale(l)
	date, ok := mediumDates[l]
	if !ok {
		date = monday.MediumFormatsByLocale[l]
	}
	clock := "15:04"
	if twelveHourLocales[l] {
		clock = "3:04 PM"
	}
	return monday.Format(t, date+", "+clock, l)
}

// ResolveLocale returns the first supported locale among candidates. Each
// candidate may be a POSIX locale string such as "de_DE.UTF-8" or
// "fr_FR@euro"; empty, "C" and "POSIX" values are ignored.
func ResolveLocale(candidates ...string) monday.Locale {
	for _, c := range candidates {
		if i := strings.IndexAny(c, ".@"); i >= 0 {
			c = c[:i]
		}
		c = strings.ReplaceAll(c, "-", "_")
		if c == "" || c == "C" || c == "POSIX" {
			continue
		}
		if _, ok := monday.MediumFormatsByLocale[monday.Locale(c)]; ok {
			return monday.Locale(c)
		}
	}
	return DefaultLocale
}

func supportedLocale(l monday.Locale) monday.Locale {
	if _, ok := monday.MediumFormatsByLocale[l]; ok {
		return l
	}
	return DefaultLocale
}
