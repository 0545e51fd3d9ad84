package parser

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
	"github.com/pkg/errors"
)

// 15:30, 3pm, 11:59 p.m., 7 AM
var clockTimeRegex = regexp.MustCompile(`(?i)^(\d{1,2})(?::(\d{2}))?\s*(?:([ap])\.?\s*m\.?)?$`)

func newWhen() *when.Parser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return w
}

// resolveTime turns the free-form text of an "at" clause into an instant.
// Clock times always resolve to today, even when already passed.
func (p *Parser) resolveTime(txt string, now time.Time) (time.Time, error) {
	txt = strings.TrimSpace(txt)

	if t, ok, err := clockTime(txt, now); ok {
		return t, err
	}

	r, err := p.when.Parse(txt, now)
	if err != nil {
		return time.Time{}, errors.Wrapf(ErrInvalidTime, "failed parsing %q: %v", txt, err)
	}
	if r == nil {
		return time.Time{}, errors.Wrapf(ErrInvalidTime, "no time found in %q", txt)
	}
	if !coversAll(txt, r.Index, r.Text) {
		return time.Time{}, errors.Wrapf(ErrInvalidTime, "only %q of %q is a time", r.Text, txt)
	}

	return r.Time, nil
}

// coversAll reports whether the match at idx leaves nothing but spaces and
// punctuation of txt unparsed.
func coversAll(txt string, idx int, match string) bool {
	end := idx + len(match)
	if idx < 0 || end > len(txt) {
		return false
	}

	return strings.Trim(txt[:idx], " \t,.") == "" && strings.Trim(txt[end:], " \t,.") == ""
}

// clockTime reports ok when txt looks like a time of day. A time of day with
// out of range values is an error rather than something to parse otherwise.
func clockTime(txt string, now time.Time) (t time.Time, ok bool, err error) {
	m := clockTimeRegex.FindStringSubmatch(txt)
	if m == nil || (m[2] == "" && m[3] == "") {
		return time.Time{}, false, nil
	}

	hour, _ := strconv.Atoi(m[1])
	min := 0
	if m[2] != "" {
		min, _ = strconv.Atoi(m[2])
	}

	if min > 59 {
		return time.Time{}, true, errors.Wrapf(ErrInvalidTime, "minute is out of range in %q", txt)
	}

	switch strings.ToLower(m[3]) {
	case "":
		if hour > 23 {
			return time.Time{}, true, errors.Wrapf(ErrInvalidTime, "hour is out of range in %q", txt)
		}
	case "a":
		if hour < 1 || hour > 12 {
			return time.Time{}, true, errors.Wrapf(ErrInvalidTime, "hour is out of range in %q", txt)
		}
		if hour == 12 {
			hour = 0
		}
	case "p":
		if hour < 1 || hour > 12 {
			return time.Time{}, true, errors.Wrapf(ErrInvalidTime, "hour is out of range in %q", txt)
		}
		if hour != 12 {
			hour += 12
		}
	}

	return time.Date(now.Year(), now.Month(), now.Day(), hour, min, 0, 0, now.Location()), true, nil
}
