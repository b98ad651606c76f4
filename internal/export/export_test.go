package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"filmlog/internal/store"
)

func date(value string) *time.Time {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return &t
}

func sampleSummaries() []store.RollSummary {
	push := 1.0
	return []store.RollSummary{
		{
			Roll: &store.Roll{
				ID:             7,
				Title:          "Harbor walk",
				Status:         store.StatusDeveloped,
				PushPullStops:  &push,
				LoadedDate:     date("2025-02-01"),
				FinishedDate:   date("2025-02-10"),
				SentForDevDate: date("2025-02-11"),
				DevelopedDate:  date("2025-02-14"),
				ScanDate:       date("2025-02-20"),
				Location:       "Hamburg",
			},
			StockName:  "Ilford HP5 Plus",
			CameraName: "F3",
			LensName:   "50mm f/1.4",
		},
	}
}

func TestRollsCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := Rolls(&buf, FormatCSV, sampleSummaries()); err != nil {
		t.Fatalf("Rolls: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected header + 1 row, got %d records", len(records))
	}
	if records[0][6] != "Push/Pull" || records[0][11] != "Scan Date" {
		t.Fatalf("unexpected header %v", records[0])
	}
	row := records[1]
	if row[0] != "7" || row[2] != "Ilford HP5 Plus" || row[6] != "1" || row[11] != "2025-02-20" {
		t.Fatalf("unexpected row %v", row)
	}
}

func TestRollsJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := Rolls(&buf, FormatJSON, sampleSummaries()); err != nil {
		t.Fatalf("Rolls: %v", err)
	}

	var records []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &records); err != nil {
		t.Fatalf("parse json: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0]["film_stock"] != "Ilford HP5 Plus" || records[0]["status"] != "developed" {
		t.Fatalf("unexpected record %v", records[0])
	}
	if records[0]["push_pull_stops"] != 1.0 {
		t.Fatalf("push_pull_stops = %v", records[0]["push_pull_stops"])
	}
}

func TestFramesCSV(t *testing.T) {
	lensID := int64(3)
	rating := int64(5)
	frames := []*store.Frame{
		{FrameNumber: 1, Subject: "Pier", Aperture: "f/8", ShutterSpeed: "1/250", LensID: &lensID, Rating: &rating},
		{FrameNumber: 2},
	}

	var buf bytes.Buffer
	err := Frames(&buf, FormatCSV, frames, map[int64]string{3: "50mm f/1.4"})
	if err != nil {
		t.Fatalf("Frames: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(records))
	}
	if records[1][4] != "50mm f/1.4" || records[1][7] != "5" {
		t.Fatalf("unexpected row %v", records[1])
	}
	if records[2][7] != "" {
		t.Fatalf("empty rating must stay empty, got %q", records[2][7])
	}
}

func TestParseFormat(t *testing.T) {
	if _, err := ParseFormat("xml"); err == nil || !strings.Contains(err.Error(), "xml") {
		t.Fatalf("expected error naming the format, got %v", err)
	}
	for _, value := range []string{"csv", "json"} {
		if _, err := ParseFormat(value); err != nil {
			t.Fatalf("ParseFormat(%q): %v", value, err)
		}
	}
}
