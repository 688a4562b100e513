package mbta

// Response is the JSON:API envelope returned by the predictions endpoint.
type Response struct {
	Data     []Prediction `json:"data"`
	Included []Resource   `json:"included"`
}

// Prediction is a single arrival/departure prediction at a stop.
type Prediction struct {
	ID            string                  `json:"id"`
	Type          string                  `json:"type"`
	Attributes    PredictionAttributes    `json:"attributes"`
	Relationships PredictionRelationships `json:"relationships"`
}

// PredictionAttributes holds the prediction's times. Either time may be null
// (first stop has no arrival, last stop has no departure).
type PredictionAttributes struct {
	ArrivalTime          *string `json:"arrival_time"`   // ISO 8601 with offset
	DepartureTime        *string `json:"departure_time"` // ISO 8601 with offset
	DirectionID          int     `json:"direction_id"`
	StopSequence         int     `json:"stop_sequence"`
	Status               *string `json:"status"`
	ScheduleRelationship *string `json:"schedule_relationship"`
}

// PredictionRelationships links a prediction to its stop, trip and route.
type PredictionRelationships struct {
	Stop  Relationship `json:"stop"`
	Trip  Relationship `json:"trip"`
	Route Relationship `json:"route"`
}

// Relationship is a to-one JSON:API relationship.
type Relationship struct {
	Data *ResourceIdentifier `json:"data"`
}

// ID returns the related resource id, or "" for a null relationship.
func (r Relationship) ID() string {
	if r.Data == nil {
		return ""
	}
	return r.Data.ID
}

// ResourceIdentifier is a (type, id) pair.
type ResourceIdentifier struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// Resource is an entry of the "included" array.
type Resource struct {
	Type       string             `json:"type"`
	ID         string             `json:"id"`
	Attributes ResourceAttributes `json:"attributes"`
}

// ResourceAttributes is the union of the trip and route attributes we read.
type ResourceAttributes struct {
	Headsign  string `json:"headsign"`   // trip
	LongName  string `json:"long_name"`  // route
	ShortName string `json:"short_name"` // route
	Color     string `json:"color"`      // route
}

const (
	TypeTrip  = "trip"
	TypeRoute = "route"
)
