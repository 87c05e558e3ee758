package plan

import (
	"fmt"
	"strings"
	"time"
)

// localeNames carries the month and weekday names for a supported locale.
// Weekdays are indexed by time.Weekday (Sunday first).
type localeNames struct {
	months   [12]string
	weekdays [7]string
}

//nolint:gochecknoglobals
var locales = map[string]localeNames{
	"en": {
		months: [12]string{
			"January", "February", "March", "April", "May", "June",
			"July", "August", "September", "October", "November", "December",
		},
		weekdays: [7]string{
			"Sunday", "Monday", "Tuesday", "Wednesday",
			"Thursday", "Friday", "Saturday",
		},
	},
	"de": {
		months: [12]string{
			"Januar", "Februar", "März", "April", "Mai", "Juni",
			"Juli", "August", "September", "Oktober", "November", "Dezember",
		},
		weekdays: [7]string{
			"Sonntag", "Montag", "Dienstag", "Mittwoch",
			"Donnerstag", "Freitag", "Samstag",
		},
	},
	"fr": {
		months: [12]string{
			"janvier", "février", "mars", "avril", "mai", "juin",
			"juillet", "août", "septembre", "octobre", "novembre", "décembre",
		},
		weekdays: [7]string{
			"dimanche", "lundi", "mardi", "mercredi",
			"jeudi", "vendredi", "samedi",
		},
	},
	"es": {
		months: [12]string{
			"enero", "febrero", "marzo", "abril", "mayo", "junio",
			"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
		},
		weekdays: [7]string{
			"domingo", "lunes", "martes", "miércoles",
			"jueves", "viernes", "sábado",
		},
	},
}

// localeFor resolves a locale tag ("de", "de-DE", "de_AT") to its name
// table, falling back to English.
func localeFor(tag string) localeNames {
	tag = strings.ToLower(strings.TrimSpace(tag))

	if names, ok := locales[tag]; ok {
		return names
	}

	if base, _, found := strings.Cut(tag, "-"); found {
		if names, ok := locales[base]; ok {
			return names
		}
	}

	if base, _, found := strings.Cut(tag, "_"); found {
		if names, ok := locales[base]; ok {
			return names
		}
	}

	return locales["en"]
}

// monthName returns the localized name of a month.
func monthName(locale string, month time.Month) string {
	return localeFor(locale).months[int(month)-1]
}

// weekdayName returns the localized name of a weekday.
func weekdayName(locale string, day time.Weekday) string {
	return localeFor(locale).weekdays[int(day)]
}

// dateLong returns the long-form rendering of a date, e.g.
// "Monday, January 5, 2026".
func dateLong(locale string, t time.Time) string {
	return fmt.Sprintf("%s, %s %d, %d",
		weekdayName(locale, t.Weekday()),
		monthName(locale, t.Month()),
		t.Day(),
		t.Year(),
	)
}
