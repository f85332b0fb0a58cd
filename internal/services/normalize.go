package services

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"eventdesk/internal/domain"
)

// nonAlnumRun matches every maximal run of characters outside [a-z0-9].
var nonAlnumRun = regexp.MustCompile(`[^a-z0-9]+`)

// slugify derives the URL-safe slug for a title: trim, lowercase, collapse
// each run of non-alphanumeric characters to a single hyphen, and strip
// leading/trailing hyphens. Returns "" when the title has no alphanumerics.
func slugify(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = nonAlnumRun.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// dateLayouts are tried in order by normalizeDate. RFC 3339 comes first so
// already-normalized values round-trip unchanged.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
	"January 2, 2006",
	"Jan 2, 2006",
	"January 2 2006",
	"2 January 2006",
	"01/02/2006",
	"1/2/2006",
}

// normalizeDate parses a free-form date string and returns it as an RFC 3339
// UTC string. Unparseable input yields a validation error naming the value.
func normalizeDate(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC().Format(time.RFC3339), nil
		}
	}
	return "", domain.NewValidationError("date", raw, "unrecognized date")
}

// timeToken matches H:mm or HH:mm with an optional AM/PM suffix.
var timeToken = regexp.MustCompile(`^(\d{1,2}):(\d{2})(?:\s*([APap][Mm]))?$`)

// normalizeSingleTime converts one time token to zero-padded 24-hour "HH:mm".
// 12-hour conversion: 12 AM -> 00, 12 PM -> 12, other PM hours +12.
func normalizeSingleTime(token string) (string, error) {
	m := timeToken.FindStringSubmatch(strings.TrimSpace(token))
	if m == nil {
		return "", domain.NewValidationError("time", token, "malformed time")
	}
	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	if minute > 59 {
		return "", domain.NewValidationError("time", token, "malformed time")
	}
	switch strings.ToUpper(m[3]) {
	case "":
		if hour > 23 {
			return "", domain.NewValidationError("time", token, "malformed time")
		}
	case "AM":
		if hour < 1 || hour > 12 {
			return "", domain.NewValidationError("time", token, "malformed time")
		}
		if hour == 12 {
			hour = 0
		}
	case "PM":
		if hour < 1 || hour > 12 {
			return "", domain.NewValidationError("time", token, "malformed time")
		}
		if hour != 12 {
			hour += 12
		}
	}
	return fmt.Sprintf("%02d:%02d", hour, minute), nil
}

// normalizeTime converts a single time or a hyphen-separated time range to
// the canonical "HH:mm" or "HH:mm-HH:mm" form. Any token count other than
// 1 or 2 yields a validation error naming the whole input.
func normalizeTime(raw string) (string, error) {
	var tokens []string
	for _, p := range strings.Split(raw, "-") {
		if p = strings.TrimSpace(p); p != "" {
			tokens = append(tokens, p)
		}
	}
	switch len(tokens) {
	case 1:
		return normalizeSingleTime(tokens[0])
	case 2:
		start, err := normalizeSingleTime(tokens[0])
		if err != nil {
			return "", err
		}
		end, err := normalizeSingleTime(tokens[1])
		if err != nil {
			return "", err
		}
		return start + "-" + end, nil
	default:
		return "", domain.NewValidationError("time", raw, "expected a time or a time range")
	}
}

// validateEventFields enforces that every required string field has non-empty
// trimmed content and that agenda and tags each hold at least one non-empty
// element.
func validateEventFields(e *domain.Event) error {
	required := []struct {
		field, value string
	}{
		{"title", e.Title},
		{"slug", e.Slug},
		{"description", e.Description},
		{"overview", e.Overview},
		{"image", e.Image},
		{"venue", e.Venue},
		{"location", e.Location},
		{"date", e.Date},
		{"time", e.Time},
		{"mode", e.Mode},
		{"audience", e.Audience},
		{"organizer", e.Organizer},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return domain.NewValidationError(r.field, "", "must not be empty")
		}
	}
	if len(e.Agenda) == 0 {
		return domain.NewValidationError("agenda", "", "must contain at least one item")
	}
	for _, item := range e.Agenda {
		if strings.TrimSpace(item) == "" {
			return domain.NewValidationError("agenda", "", "items must not be empty")
		}
	}
	if len(e.Tags) == 0 {
		return domain.NewValidationError("tags", "", "must contain at least one tag")
	}
	for _, tag := range e.Tags {
		if strings.TrimSpace(tag) == "" {
			return domain.NewValidationError("tags", "", "tags must not be empty")
		}
	}
	return nil
}

// normalizeEvent runs the pre-commit pipeline on e, in fixed order: slug
// derivation (only when deriveSlug), date normalization, time normalization,
// required-field checks. Any failure aborts before the record is written.
func normalizeEvent(e *domain.Event, deriveSlug bool) error {
	if deriveSlug {
		e.Slug = slugify(e.Title)
	}
	date, err := normalizeDate(e.Date)
	if err != nil {
		return err
	}
	e.Date = date
	t, err := normalizeTime(e.Time)
	if err != nil {
		return err
	}
	e.Time = t
	return validateEventFields(e)
}
