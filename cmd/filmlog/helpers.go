package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", arg)
	}
	return id, nil
}

// parseDuration accepts "m:ss" (e.g. "8:00" = 480) or a bare number of
// seconds. Empty or unparseable input yields nil, matching a blank form
// field.
func parseDuration(value string) *int64 {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	if minutes, seconds, ok := strings.Cut(value, ":"); ok {
		m, errM := strconv.ParseInt(minutes, 10, 64)
		s, errS := strconv.ParseInt(seconds, 10, 64)
		if errM != nil || errS != nil || m < 0 || s < 0 || s >= 60 {
			return nil
		}
		total := m*60 + s
		return &total
	}
	seconds, err := strconv.ParseInt(value, 10, 64)
	if err != nil || seconds < 0 {
		return nil
	}
	return &seconds
}

func formatDuration(seconds *int64) string {
	if seconds == nil {
		return ""
	}
	return fmt.Sprintf("%d:%02d", *seconds/60, *seconds%60)
}

func formatDate(value *time.Time) string {
	if value == nil {
		return ""
	}
	return value.Format("2006-01-02")
}

func parseFlagDate(value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	date, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", value)
	}
	return &date, nil
}

func formatStops(value *float64) string {
	if value == nil {
		return ""
	}
	return strconv.FormatFloat(*value, 'f', -1, 64)
}

func optionalInt64(value int64) *int64 {
	if value == 0 {
		return nil
	}
	return &value
}

func optionalFloat(value float64, changed bool) *float64 {
	if !changed {
		return nil
	}
	return &value
}

// stepSpec is one parsed --step flag: "chemical|temp|duration|agitation",
// with everything after the chemical name optional.
type stepSpec struct {
	chemical  string
	temp      string
	duration  *int64
	agitation string
}

func parseStepSpec(value string) stepSpec {
	parts := strings.Split(value, "|")
	spec := stepSpec{chemical: strings.TrimSpace(parts[0])}
	if len(parts) > 1 {
		spec.temp = strings.TrimSpace(parts[1])
	}
	if len(parts) > 2 {
		spec.duration = parseDuration(parts[2])
	}
	if len(parts) > 3 {
		spec.agitation = strings.TrimSpace(parts[3])
	}
	return spec
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
