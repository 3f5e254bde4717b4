package planner

// Leg modes.
const (
	ModeWalk    = "WALK"
	ModeTransit = "TRANSIT"
)

// SafetyMode selects how walking safety influences planning.
type SafetyMode string

const (
	SafetyOff    SafetyMode = "off"
	SafetyPrefer SafetyMode = "prefer"
	SafetyStrict SafetyMode = "strict"
)

// Safety duration penalties: biased = duration × (1 + (1 − safety) · k).
const (
	preferBiasFactor = 0.3
	strictBiasFactor = 0.6
)

// strictRejectDefault is the walk-safety floor applied under strict
// mode when the caller sets none.
const strictRejectDefault = 0.40

// Request is a fully-specified plan query.
type Request struct {
	FromLat float64
	FromLng float64
	ToLat   float64
	ToLng   float64

	// DepartAfterSec is seconds since local midnight. Negative means
	// "now".
	DepartAfterSec int

	MaxTransfers  int
	MaxWalkMeters float64
	UseRealtime   bool

	EnhanceWalk      bool
	WalkAlternatives int

	Safety          SafetyMode
	RejectWalkBelow *float64

	AllowWalkOnly     bool
	WalkOnlyMaxMeters float64
}

// WalkOption is a non-chosen alternative walking path for a leg.
type WalkOption struct {
	DurationSec int     `json:"duration_sec"`
	SafetyScore float64 `json:"safety_score"`
	Summary     string  `json:"summary,omitempty"`
}

// Leg is one contiguous segment of an itinerary in a single mode.
type Leg struct {
	Mode     string  `json:"mode"`
	FromName string  `json:"from_name"`
	ToName   string  `json:"to_name"`
	FromLat  float64 `json:"from_lat"`
	FromLng  float64 `json:"from_lng"`
	ToLat    float64 `json:"to_lat"`
	ToLng    float64 `json:"to_lng"`

	// Transit-only fields.
	Route   string `json:"route,omitempty"`
	TripID  string `json:"trip_id,omitempty"`
	DepTime string `json:"dep_time,omitempty"`
	ArrTime string `json:"arr_time,omitempty"`

	DurationSec int `json:"duration_sec"`

	// Walk-only annotations.
	SafetyScore *float64     `json:"safety_score,omitempty"`
	Summary     string       `json:"summary,omitempty"`
	AltOptions  []WalkOption `json:"alt_options,omitempty"`
}

// Itinerary is one candidate journey, walk and transit legs in order.
type Itinerary struct {
	DurationSec int    `json:"duration_sec"`
	DepartTime  string `json:"depart_time"`
	ArriveTime  string `json:"arrive_time"`
	Transfers   int    `json:"transfers"`
	Legs        []Leg  `json:"legs"`
	Notes       string `json:"notes,omitempty"`
}

// biasFactor returns the duration penalty factor for the mode.
func (m SafetyMode) biasFactor() float64 {
	switch m {
	case SafetyPrefer:
		return preferBiasFactor
	case SafetyStrict:
		return strictBiasFactor
	default:
		return 0
	}
}

// active reports whether the mode biases and sorts by safety.
func (m SafetyMode) active() bool {
	return m == SafetyPrefer || m == SafetyStrict
}
