// Package labels maps raw export values to display labels.
package labels

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	// UnknownLabel is shown for records without a grouping value.
	UnknownLabel = "Bilinmeyen"
	// UnknownErrorLabel is shown for failed records without a comment.
	UnknownErrorLabel = "Bilinmeyen hata"

	errorSentenceLimit = 60
	errorTruncateAt    = 57
	ellipsis           = "…"
)

// siteCodePrefix matches a site code such as "ULU." or "GEB.". Codes are
// upper case, so abbreviations like "Dr." or "Hiz." are left alone.
var siteCodePrefix = regexp.MustCompile(`^[\p{Lu}\p{N}]+\.`)

// CleanCategoryLabel strips site-code prefixes ("ULU.") and trailing dots
// from a department or position. A code is only stripped when text follows
// it. Cleaning is idempotent.
//
//	"ULU.Teknik Hizmetler Müdürlüğü." → "Teknik Hizmetler Müdürlüğü"
//	"GEB.Misafir Hiz. Müdürlüğü"      → "Misafir Hiz. Müdürlüğü"
func CleanCategoryLabel(raw string) string {
	s := strings.TrimSpace(raw)
	for {
		loc := siteCodePrefix.FindStringIndex(s)
		if loc == nil {
			break
		}
		rest := strings.TrimSpace(s[loc[1]:])
		if rest == "" {
			break
		}
		s = rest
	}
	return strings.TrimRight(s, ". ")
}

var structuredErrorPattern = regexp.MustCompile(`(?i)^(SYS|BUS)\s*\d`)

// ErrorLabel groups a robot error comment into a short label.
//
//	"BUS100: Kişinin kaydı daha önce yapılmış." → "Kişinin kaydı daha önce yapılmış."
//	"Mailbox unavailable. The server ..."       → "Mailbox unavailable."
func ErrorLabel(comment string) string {
	s := strings.TrimSpace(comment)
	if s == "" {
		return UnknownErrorLabel
	}

	if structuredErrorPattern.MatchString(s) {
		i := strings.Index(s, ":")
		if i == -1 {
			return s
		}
		if desc := strings.TrimSpace(s[i+1:]); desc != "" {
			return desc
		}
		return s
	}

	if i := strings.Index(s, ". "); i != -1 && utf8.RuneCountInString(s[:i]) < errorSentenceLimit {
		return s[:i+1]
	}

	if utf8.RuneCountInString(s) > errorSentenceLimit {
		runes := []rune(s)
		return string(runes[:errorTruncateAt]) + ellipsis
	}
	return s
}

// ParseCalendarDate parses "DD/MM/YYYY", optionally followed by a space and
// a time of day which is ignored. Dates that do not exist are rejected.
func ParseCalendarDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if i := strings.IndexByte(s, ' '); i != -1 {
		s = s[:i]
	}

	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return time.Time{}, false
	}
	day, err := strconv.Atoi(parts[0])
	if err != nil {
		return time.Time{}, false
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil {
		return time.Time{}, false
	}
	year, err := strconv.Atoi(parts[2])
	if err != nil || year < 1 {
		return time.Time{}, false
	}

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day || int(t.Month()) != month || t.Year() != year {
		return time.Time{}, false
	}
	return t, true
}

// HourOfDay extracts the hour from an ISO-8601 timestamp such as
// "2024-01-02T09:15:00".
func HourOfDay(ts string) (int, bool) {
	_, clock, found := strings.Cut(ts, "T")
	if !found || len(clock) < 2 {
		return 0, false
	}
	hh := clock[:2]
	if hh[0] < '0' || hh[0] > '9' || hh[1] < '0' || hh[1] > '9' {
		return 0, false
	}
	h := int(hh[0]-'0')*10 + int(hh[1]-'0')
	if h > 23 {
		return 0, false
	}
	return h, true
}

// HourLabel renders an hour slot as "09:00".
func HourLabel(h int) string {
	if h < 10 {
		return "0" + strconv.Itoa(h) + ":00"
	}
	return strconv.Itoa(h) + ":00"
}
