// Package parser turns a message addressed to the reminder bot into a
// request: help, an advanced reminder with its own delay and visibility, or
// a normal reminder echoing the whole message.
package parser

import (
	"math"
	"regexp"
	"strconv"
	"time"

	"github.com/jmhodges/clock"
	"github.com/olebedev/when"
	"github.com/pkg/errors"
)

// Kind tells which kind of request a message is.
type Kind int

const (
	Normal Kind = iota
	Help
	Advanced
)

func (k Kind) String() string {
	switch k {
	case Help:
		return "help"
	case Advanced:
		return "advanced"
	default:
		return "normal"
	}
}

// Visibility tells where a reminder is delivered.
type Visibility int

const (
	Private Visibility = iota
	Public
)

func (v Visibility) String() string {
	if v == Public {
		return "public"
	}
	return "private"
}

// DefaultDelay is used by normal requests and by advanced requests without a
// delay or time clause.
const DefaultDelay = 5 * time.Minute

const txtHelp = "help"

var (
	ErrInvalidTime = errors.New("time doesn't make sense")
	ErrTimeInPast  = errors.New("time is in the past")
)

// The quoted reminder may be followed by either a relative delay or an
// absolute time, and then by the public flag. Quotes can't be escaped.
var advancedRegex = regexp.MustCompile(`^"(?P<reminder>[^"]+)"` +
	`(?: in (?P<time>\d+) (?P<unit>seconds|second|secs|sec|s|minutes|minute|mins|min)| at (?P<at>.+?))?` +
	`(?P<public> public)?$`)

var (
	groupReminder = advancedRegex.SubexpIndex("reminder")
	groupTime     = advancedRegex.SubexpIndex("time")
	groupUnit     = advancedRegex.SubexpIndex("unit")
	groupAt       = advancedRegex.SubexpIndex("at")
	groupPublic   = advancedRegex.SubexpIndex("public")
)

// Request is a parsed message. Text is the reminder for advanced requests
// and the whole message for normal ones.
type Request struct {
	Kind       Kind
	Text       string
	Delay      time.Duration
	Visibility Visibility
}

// Parser is safe for concurrent use.
type Parser struct {
	clk  clock.Clock
	when *when.Parser
}

func New(clk clock.Clock) *Parser {
	return &Parser{
		clk:  clk,
		when: newWhen(),
	}
}

// Parse classifies the content. Errors are returned only for advanced
// requests whose delay or time can't be used; they wrap ErrInvalidTime or
// ErrTimeInPast.
func (p *Parser) Parse(content string) (Request, error) {
	if content == txtHelp || content == "" {
		return Request{Kind: Help}, nil
	}

	m := advancedRegex.FindStringSubmatchIndex(content)
	if m == nil {
		return Request{
			Kind:       Normal,
			Text:       content,
			Delay:      DefaultDelay,
			Visibility: Private,
		}, nil
	}

	group := func(i int) (string, bool) {
		if m[2*i] < 0 {
			return "", false
		}
		return content[m[2*i]:m[2*i+1]], true
	}

	text, _ := group(groupReminder)
	req := Request{
		Kind:       Advanced,
		Text:       text,
		Delay:      DefaultDelay,
		Visibility: Private,
	}

	if _, ok := group(groupPublic); ok {
		req.Visibility = Public
	}

	if n, ok := group(groupTime); ok {
		unit, _ := group(groupUnit)
		d, err := relativeDelay(n, unit)
		if err != nil {
			return req, err
		}
		req.Delay = d
	} else if at, ok := group(groupAt); ok {
		now := p.clk.Now()
		t, err := p.resolveTime(at, now)
		if err != nil {
			return req, err
		}

		d := t.Sub(now)
		if d < 0 {
			return req, errors.Wrapf(ErrTimeInPast, "%q resolves to %s", at, t.Format(time.RFC3339))
		}
		req.Delay = d
	}

	return req, nil
}

func relativeDelay(n, unit string) (time.Duration, error) {
	val, err := strconv.ParseInt(n, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(ErrInvalidTime, "failed parsing %q: %v", n, err)
	}

	mult := time.Second
	switch unit {
	case "min", "mins", "minute", "minutes":
		mult = time.Minute
	}

	if val > int64(math.MaxInt64/mult) {
		return 0, errors.Wrapf(ErrInvalidTime, "%s %s is too far away", n, unit)
	}

	return time.Duration(val) * mult, nil
}
