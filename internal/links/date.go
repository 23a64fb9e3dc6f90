package links

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Permastruct holds the date archive structures appended to a post type's
// archive link. An empty structure falls back to a ?m= query string.
type Permastruct struct {
	Year          string `mapstructure:"year"`
	Month         string `mapstructure:"month"`
	Day           string `mapstructure:"day"`
	TrailingSlash bool   `mapstructure:"trailing_slash"`
}

// DefaultPermastruct returns /%year%/%monthnum%/%day% style structures
func DefaultPermastruct() Permastruct {
	return Permastruct{
		Year:          "/%year%",
		Month:         "/%year%/%monthnum%",
		Day:           "/%year%/%monthnum%/%day%",
		TrailingSlash: true,
	}
}

type dateLevel int

const (
	levelYear dateLevel = iota
	levelMonth
	levelDay
)

// DateLink returns the date archive link of a post type. The most precise
// of day, month and year that is set decides the archive level; an empty
// year means the current year.
func (l *Links) DateLink(postType, year, month, day string, now time.Time) string {
	switch {
	case day != "":
		return l.DayLink(postType, year, month, day, now)
	case month != "":
		return l.MonthLink(postType, year, month, now)
	}
	return l.YearLink(postType, year, now)
}

// YearLink returns the year archive link; an empty year is the current one
func (l *Links) YearLink(postType, year string, now time.Time) string {
	return l.dateLink(postType, levelYear, year, "", "", now)
}

// MonthLink returns the month archive link; empty parts are the current ones
func (l *Links) MonthLink(postType, year, month string, now time.Time) string {
	return l.dateLink(postType, levelMonth, year, month, "", now)
}

// DayLink returns the day archive link; empty parts are the current ones
func (l *Links) DayLink(postType, year, month, day string, now time.Time) string {
	return l.dateLink(postType, levelDay, year, month, day, now)
}

func (l *Links) dateLink(postType string, level dateLevel, year, month, day string, now time.Time) string {
	now = now.UTC()
	if year == "" {
		year = strconv.Itoa(now.Year())
	}
	if month == "" {
		month = strconv.Itoa(int(now.Month()))
	}
	if day == "" {
		day = strconv.Itoa(now.Day())
	}

	base, _ := l.PostTypeArchiveLink(postType)
	base = strings.TrimRight(base, "/")

	var structure, fallback string
	switch level {
	case levelDay:
		structure = l.perma.Day
		fallback = year + zeroise(month) + zeroise(day)
	case levelMonth:
		structure = l.perma.Month
		fallback = year + zeroise(month)
	default:
		structure = l.perma.Year
		fallback = year
	}

	if structure == "" {
		return base + "?m=" + fallback
	}

	link := strings.NewReplacer(
		"%year%", year,
		"%monthnum%", zeroise(month),
		"%day%", zeroise(day),
	).Replace(structure)
	if l.perma.TrailingSlash {
		link = strings.TrimRight(link, "/") + "/"
	}
	return base + link
}

// zeroise pads a numeric date part to two digits
func zeroise(part string) string {
	n, err := strconv.Atoi(strings.TrimSpace(part))
	if err != nil {
		return part
	}
	return fmt.Sprintf("%02d", n)
}
