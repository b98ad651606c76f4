// Package export renders rolls and frames as CSV or JSON for use
// outside the catalog.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"filmlog/internal/store"
)

// Format selects the output encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// ParseFormat converts a string into a known Format.
func ParseFormat(value string) (Format, error) {
	switch Format(value) {
	case FormatCSV:
		return FormatCSV, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported export format %q (use csv or json)", value)
	}
}

var rollHeader = []string{
	"ID", "Title", "Film Stock", "Camera", "Lens", "Status", "Push/Pull",
	"Loaded Date", "Finished Date", "Sent For Dev", "Developed Date",
	"Scan Date", "Location", "Notes",
}

type rollRecord struct {
	ID             int64    `json:"id"`
	Title          string   `json:"title,omitempty"`
	FilmStock      string   `json:"film_stock"`
	Camera         string   `json:"camera,omitempty"`
	Lens           string   `json:"lens,omitempty"`
	Status         string   `json:"status"`
	PushPullStops  *float64 `json:"push_pull_stops,omitempty"`
	LoadedDate     string   `json:"loaded_date,omitempty"`
	FinishedDate   string   `json:"finished_date,omitempty"`
	SentForDevDate string   `json:"sent_for_dev_date,omitempty"`
	DevelopedDate  string   `json:"developed_date,omitempty"`
	ScanDate       string   `json:"scan_date,omitempty"`
	Location       string   `json:"location,omitempty"`
	Notes          string   `json:"notes,omitempty"`
}

// Rolls writes the summaries to w in the requested format.
func Rolls(w io.Writer, format Format, summaries []store.RollSummary) error {
	records := make([]rollRecord, 0, len(summaries))
	for _, summary := range summaries {
		roll := summary.Roll
		records = append(records, rollRecord{
			ID:             roll.ID,
			Title:          roll.Title,
			FilmStock:      summary.StockName,
			Camera:         summary.CameraName,
			Lens:           summary.LensName,
			Status:         string(roll.Status),
			PushPullStops:  roll.PushPullStops,
			LoadedDate:     formatDate(roll.LoadedDate),
			FinishedDate:   formatDate(roll.FinishedDate),
			SentForDevDate: formatDate(roll.SentForDevDate),
			DevelopedDate:  formatDate(roll.DevelopedDate),
			ScanDate:       formatDate(roll.ScanDate),
			Location:       roll.Location,
			Notes:          roll.Notes,
		})
	}

	if format == FormatJSON {
		return writeJSON(w, records)
	}

	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		rows = append(rows, []string{
			strconv.FormatInt(rec.ID, 10),
			rec.Title,
			rec.FilmStock,
			rec.Camera,
			rec.Lens,
			rec.Status,
			formatStops(rec.PushPullStops),
			rec.LoadedDate,
			rec.FinishedDate,
			rec.SentForDevDate,
			rec.DevelopedDate,
			rec.ScanDate,
			rec.Location,
			rec.Notes,
		})
	}
	return writeCSV(w, rollHeader, rows)
}

var frameHeader = []string{
	"Frame", "Subject", "Aperture", "Shutter Speed", "Lens", "Date",
	"Location", "Rating", "Notes",
}

type frameRecord struct {
	FrameNumber int    `json:"frame_number"`
	Subject     string `json:"subject,omitempty"`
	Aperture    string `json:"aperture,omitempty"`
	Shutter     string `json:"shutter_speed,omitempty"`
	Lens        string `json:"lens,omitempty"`
	DateTaken   string `json:"date_taken,omitempty"`
	Location    string `json:"location,omitempty"`
	Rating      *int64 `json:"rating,omitempty"`
	Notes       string `json:"notes,omitempty"`
}

// Frames writes a roll's frames to w in the requested format. lensNames
// maps lens ids to display names for the lens column.
func Frames(w io.Writer, format Format, frames []*store.Frame, lensNames map[int64]string) error {
	records := make([]frameRecord, 0, len(frames))
	for _, frame := range frames {
		lens := ""
		if frame.LensID != nil {
			lens = lensNames[*frame.LensID]
		}
		records = append(records, frameRecord{
			FrameNumber: frame.FrameNumber,
			Subject:     frame.Subject,
			Aperture:    frame.Aperture,
			Shutter:     frame.ShutterSpeed,
			Lens:        lens,
			DateTaken:   formatDate(frame.DateTaken),
			Location:    frame.Location,
			Rating:      frame.Rating,
			Notes:       frame.Notes,
		})
	}

	if format == FormatJSON {
		return writeJSON(w, records)
	}

	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		rating := ""
		if rec.Rating != nil {
			rating = strconv.FormatInt(*rec.Rating, 10)
		}
		rows = append(rows, []string{
			strconv.Itoa(rec.FrameNumber),
			rec.Subject,
			rec.Aperture,
			rec.Shutter,
			rec.Lens,
			rec.DateTaken,
			rec.Location,
			rating,
			rec.Notes,
		})
	}
	return writeCSV(w, frameHeader, rows)
}

func writeCSV(w io.Writer, header []string, rows [][]string) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func formatDate(value *time.Time) string {
	if value == nil {
		return ""
	}
	return value.Format("2006-01-02")
}

func formatStops(value *float64) string {
	if value == nil {
		return ""
	}
	return strconv.FormatFloat(*value, 'f', -1, 64)
}
