package store

import (
	"strings"
	"time"
)

// Status represents the lifecycle position of a roll.
type Status string

const (
	StatusFresh      Status = "fresh"
	StatusLoaded     Status = "loaded"
	StatusShooting   Status = "shooting"
	StatusFinished   Status = "finished"
	StatusDeveloping Status = "developing"
	StatusDeveloped  Status = "developed"
)

var statusOrder = []Status{
	StatusFresh,
	StatusLoaded,
	StatusShooting,
	StatusFinished,
	StatusDeveloping,
	StatusDeveloped,
}

var statusIndex = func() map[Status]int {
	index := make(map[Status]int, len(statusOrder))
	for i, status := range statusOrder {
		index[status] = i
	}
	return index
}()

// AllStatuses returns the ordered list of known statuses.
func AllStatuses() []Status {
	cp := make([]Status, len(statusOrder))
	copy(cp, statusOrder)
	return cp
}

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := statusIndex[normalized]
	return normalized, ok
}

// Next returns the status following s in the forward sequence, or false
// when s is terminal or unknown.
func (s Status) Next() (Status, bool) {
	i, ok := statusIndex[s]
	if !ok || i == len(statusOrder)-1 {
		return "", false
	}
	return statusOrder[i+1], true
}

// Before reports whether s precedes other in the forward sequence.
func (s Status) Before(other Status) bool {
	a, okA := statusIndex[s]
	b, okB := statusIndex[other]
	return okA && okB && a < b
}

// DevType distinguishes self-developed rolls from lab-developed ones.
type DevType string

const (
	DevTypeSelf DevType = "self"
	DevTypeLab  DevType = "lab"
)

// ParseDevType converts a string into a known DevType.
func ParseDevType(value string) (DevType, bool) {
	switch DevType(strings.ToLower(strings.TrimSpace(value))) {
	case DevTypeSelf:
		return DevTypeSelf, true
	case DevTypeLab:
		return DevTypeLab, true
	default:
		return "", false
	}
}

// ProcessTypes lists the chemical processes offered when recording
// development.
var ProcessTypes = []string{"C-41", "E-6", "B&W", "ECN-2", "Other"}

// Media kinds for film stock entries.
const (
	MediaAnalog  = "analog"
	MediaDigital = "digital"
)

// User is a local account; every catalog row is scoped to one.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// Camera describes a camera body.
type Camera struct {
	ID            int64
	UserID        int64
	Name          string
	Make          string
	Model         string
	SerialNumber  string
	YearBuilt     *int64
	YearPurchased *int64
	PurchasedFrom string
	Description   string
	Notes         string
	CameraType    string
	SensorSize    string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// CameraIssue is a dated fault log entry attached to a camera.
type CameraIssue struct {
	ID           int64
	CameraID     int64
	Description  string
	DateNoted    *time.Time
	Resolved     bool
	ResolvedDate *time.Time
	Notes        string
}

// Lens describes a lens.
type Lens struct {
	ID               int64
	UserID           int64
	Name             string
	Make             string
	Model            string
	FocalLength      string
	MaxAperture      string
	FilterDiameter   string
	YearBuilt        *int64
	YearPurchased    *int64
	PurchaseLocation string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// LensNote is a free-form note attached to a lens.
type LensNote struct {
	ID        int64
	LensID    int64
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// FilmStock is an inventory entry for a film (or digital media) type.
// FramesPerRoll of 0 means unbounded, used for digital media.
type FilmStock struct {
	ID             int64
	UserID         int64
	Brand          string
	Name           string
	Type           string
	MediaType      string
	ISO            *int64
	Format         string
	FramesPerRoll  int
	QuantityOnHand int
	Notes          string
	CreatedAt      time.Time
}

// DisplayName joins brand and name for presentation.
func (f FilmStock) DisplayName() string {
	if f.Brand == "" {
		return f.Name
	}
	if f.Name == "" {
		return f.Brand
	}
	return f.Brand + " " + f.Name
}

// Roll is one unit of film (or digital media usage) tracked through the
// shoot/develop lifecycle.
type Roll struct {
	ID             int64
	UserID         int64
	FilmStockID    int64
	CameraID       *int64
	LensID         *int64
	Status         Status
	LoadedDate     *time.Time
	FinishedDate   *time.Time
	SentForDevDate *time.Time
	DevelopedDate  *time.Time
	ScanDate       *time.Time
	ScanNotes      string
	Title          string
	PushPullStops  *float64
	Location       string
	Notes          string
	CreatedAt      time.Time
}

// Frame is one numbered exposure within a roll.
type Frame struct {
	ID           int64
	RollID       int64
	FrameNumber  int
	Subject      string
	Aperture     string
	ShutterSpeed string
	LensID       *int64
	DateTaken    *time.Time
	Location     string
	Rating       *int64
	Notes        string
}

// RollDevelopment records how a roll was developed. At most one exists
// per roll.
type RollDevelopment struct {
	ID          int64
	RollID      int64
	DevType     DevType
	ProcessType string
	LabName     string
	LabContact  string
	CostAmount  *float64
	Notes       string
	CreatedAt   time.Time
}

// DevelopmentStep is one chemical-process step of a roll's development.
// StepOrder is dense and zero-based.
type DevelopmentStep struct {
	ID              int64
	DevelopmentID   int64
	StepOrder       int
	ChemicalName    string
	Temperature     string
	DurationSeconds *int64
	Agitation       string
	Notes           string
}

// DevRecipe is a reusable, roll-independent development template.
type DevRecipe struct {
	ID          int64
	UserID      int64
	Name        string
	ProcessType string
	Notes       string
	CreatedAt   time.Time
}

// DevRecipeStep mirrors DevelopmentStep for recipe templates.
type DevRecipeStep struct {
	ID              int64
	RecipeID        int64
	StepOrder       int
	ChemicalName    string
	Temperature     string
	DurationSeconds *int64
	Agitation       string
	Notes           string
}
