package models

import "time"

const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"

	StatusPending    = "pending"
	StatusInProgress = "in-progress"
	StatusResolved   = "resolved"
	StatusEscalated  = "escalated"
)

type Complaint struct {
	ID          string    `json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Subcategory string    `json:"subcategory,omitempty"`

	Lat     *float64 `json:"lat,omitempty"`
	Lon     *float64 `json:"lon,omitempty"`
	Address string   `json:"address,omitempty"`
	Zipcode string   `json:"zipcode,omitempty"`
	City    string   `json:"city,omitempty"`

	Priority        string    `json:"priority"`
	Status          string    `json:"status"`
	SLAHours        int       `json:"sla_hours"`
	SLADeadline     time.Time `json:"sla_deadline"`
	EscalationLevel int       `json:"escalation_level"`

	GroupID   string `json:"group_id,omitempty"`
	GroupSize int    `json:"group_size,omitempty"`

	Meta TriageMeta `json:"meta"`
}

// TriageMeta carries the scoring trace and the SLA breach flags. Persisted
// as a single jsonb column; fields are only ever set by the triage and
// escalation components.
type TriageMeta struct {
	PriorityScore int     `json:"priority_score"`
	TextScore     int     `json:"text_score"`
	TimeScore     int     `json:"time_score"`
	MLPrediction  string  `json:"ml_prediction"`
	MLConfidence  float64 `json:"ml_confidence"`
	WeatherBoost  int     `json:"weather_boost"`
	Explanation   string  `json:"explanation,omitempty"`

	PredictiveWarning   bool       `json:"predictive_warning,omitempty"`
	PredictiveWarningAt *time.Time `json:"predictive_warning_at,omitempty"`
	SLABreached         bool       `json:"sla_breached,omitempty"`
	SLABreachedAt       *time.Time `json:"sla_breached_at,omitempty"`
	Level2EscalatedAt   *time.Time `json:"level2_escalated_at,omitempty"`
	Level3EscalatedAt   *time.Time `json:"level3_escalated_at,omitempty"`
}

// HasCoordinates reports whether the complaint carries a usable location.
func (c Complaint) HasCoordinates() bool {
	return c.Lat != nil && c.Lon != nil
}

type PriorityAnalysis struct {
	Priority string       `json:"priority"`
	SLAHours int          `json:"sla_hours"`
	Meta     AnalysisMeta `json:"meta"`
}

type AnalysisMeta struct {
	PriorityScore int     `json:"priority_score"`
	MLPrediction  string  `json:"ml_prediction"`
	MLConfidence  float64 `json:"ml_confidence"`
	TextScore     int     `json:"text_score"`
	TimeScore     int     `json:"time_score"`
	WeatherBoost  int     `json:"weather_boost"`
	Explanation   string  `json:"explanation"`
}

type Group struct {
	ID          string      `json:"id"`
	Category    string      `json:"category"`
	Subcategory string      `json:"subcategory,omitempty"`
	CenterLat   float64     `json:"center_lat"`
	CenterLon   float64     `json:"center_lon"`
	Complaints  []Complaint `json:"complaints"`
}

func (g Group) Size() int {
	return len(g.Complaints)
}

type Cluster struct {
	ClusterID            int            `json:"clusterId"`
	Name                 string         `json:"name"`
	Description          string         `json:"description"`
	Keywords             []string       `json:"keywords"`
	Center               [2]float64     `json:"center"` // [lon, lat]
	Size                 int            `json:"size"`
	Radius               float64        `json:"radius"`
	ComplaintIDs         []string       `json:"complaint_ids"`
	PriorityDistribution map[string]int `json:"priorityDistribution"`
	CategoryDistribution map[string]int `json:"categoryDistribution"`
	DominantPriority     string         `json:"dominantPriority"`
	DominantCategory     string         `json:"dominantCategory"`
	Severity             float64        `json:"severity"`
	TimeRange            *TimeRange     `json:"timeRange,omitempty"`
}

type TimeRange struct {
	Earliest time.Time `json:"earliest"`
	Latest   time.Time `json:"latest"`
}

type HeatmapPoint struct {
	Coordinates [2]float64 `json:"coordinates"` // [lon, lat]
	Intensity   float64    `json:"intensity"`
}

// Escalation is the append-only record emitted on every level transition.
type Escalation struct {
	ComplaintID     string    `json:"complaint_id"`
	Title           string    `json:"title"`
	Category        string    `json:"category"`
	CreatedAt       time.Time `json:"created_at"`
	EscalationTime  time.Time `json:"escalation_time"`
	EscalationLevel int       `json:"escalation_level"`
}
