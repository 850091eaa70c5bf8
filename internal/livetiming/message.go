package livetiming

import (
	"encoding/json"
	"strconv"
)

// changeMessage represents a 'change' message sent on the websocket connection from the server.
// It is a delta between the reference data and any other preceding change messages.
type changeMessage struct {
	ChangeSetID string       `json:"C"`
	Messages    []hubMessage `json:"M"`
}

// hubMessage is one SignalR hub invocation within a change message; feed
// messages carry the topic name, the payload and a timestamp in A.
type hubMessage struct {
	Hub       string            `json:"H"`
	Message   string            `json:"M"`
	Arguments []json.RawMessage `json:"A"`
}

// referenceMessage represents the initial state of a session for all of the requested data from
// the F1 Live Timing API. The reference message should be used to create an initial state; all
// other messages are 'change' messages that alter the state managed by the API consumer.
type referenceMessage struct {
	MessageInterval string `json:"I"`
	Reference       struct {
		Heartbeat     json.RawMessage `json:"Heartbeat"`     // Most recent heartbeat emitted
		WeatherData   json.RawMessage `json:"WeatherData"`   // Current track conditions
		TimingAppData json.RawMessage `json:"TimingAppData"` // Per-driver stint information
		TimingData    json.RawMessage `json:"TimingData"`    // Per-driver gaps and lap times
		LapCount      json.RawMessage `json:"LapCount"`      // Latest lap (current/total) data
	} `json:"R"`
}

// weatherData carries track conditions; the feed reports every field as a
// string.
type weatherData struct {
	AirTemp       string `json:"AirTemp"`
	TrackTemp     string `json:"TrackTemp"`
	Humidity      string `json:"Humidity"`
	Pressure      string `json:"Pressure"`
	Rainfall      string `json:"Rainfall"`
	WindDirection string `json:"WindDirection"`
	WindSpeed     string `json:"WindSpeed"`
}

// timingData contains per-driver live timing lines including gaps.
type timingData struct {
	Lines driverTimingMap `json:"Lines"`
}

// driverTimingMap enables custom json unmarshalling that removes non-driver
// entries from the map (e.g. _kf:true kvps).
type driverTimingMap map[string]driverTiming

func (dt *driverTimingMap) UnmarshalJSON(data []byte) error {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}

	filtered := make(map[string]driverTiming)
	for k, v := range m {
		if _, err := strconv.Atoi(k); err != nil {
			continue
		}
		var d driverTiming
		if err := json.Unmarshal(v, &d); err != nil {
			continue
		}
		filtered[k] = d
	}

	*dt = filtered
	return nil
}

// driverTiming contains the gap and position information we track for a
// specific driver.
type driverTiming struct {
	Line                    *int           `json:"Line"`     // current position on the timing board
	GapToLeader             *string        `json:"GapToLeader"`
	IntervalToPositionAhead timingInterval `json:"IntervalToPositionAhead"`
	InPit                   *bool          `json:"InPit"`
	NumberOfLaps            *int           `json:"NumberOfLaps"`
}

type timingInterval struct {
	Value    *string `json:"Value"`
	Catching *bool   `json:"Catching"`
}

// timingAppData contains per-driver stint information, e.g. tire compound,
// stint length and driver position.
type timingAppData struct {
	Lines driverStintMap `json:"Lines"`
}

// driverStintMap enables custom json unmarshalling that removes non-driver
// entries from the map (e.g. _kf:true kvps).
type driverStintMap map[string]driverStints

func (dl *driverStintMap) UnmarshalJSON(data []byte) error {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	filtered := make(map[string]driverStints)
	for k, v := range m {
		if _, err := strconv.Atoi(k); err != nil {
			continue
		}
		var d driverStints
		if err := json.Unmarshal(v, &d); err != nil {
			continue
		}
		filtered[k] = d
	}

	*dl = filtered
	return nil
}

// driverStints includes individual timing app data for a specific driver.
type driverStints struct {
	RacingNumber string `json:"RacingNumber"`
	Line         *int   `json:"Line"`
	GridPos      string `json:"GridPos"`
	Stints       stints `json:"Stints"`
}

// stints handles unmarshalling both the change message structure (map) and
// the reference message structure (slice) into a normalized map.
type stints map[string]stint

func (s *stints) UnmarshalJSON(data []byte) error {
	// first attempt to unmarshal change message structure (map)
	m := make(map[string]stint)
	if err := json.Unmarshal(data, &m); err == nil {
		*s = m
		return nil
	}
	// next attempt to unmarshal reference message structure (slice)
	var sl []stint
	if err := json.Unmarshal(data, &sl); err != nil {
		return err
	}
	for i, v := range sl {
		m[strconv.Itoa(i)] = v
	}
	*s = m
	return nil
}

type stint struct {
	LapFlags        *int    `json:"LapFlags"`
	Compound        *string `json:"Compound"`
	New             *string `json:"New"`
	TyresNotChanged *string `json:"TyresNotChanged"`
	TotalLaps       *int    `json:"TotalLaps"`
	StartLaps       *int    `json:"StartLaps"`
	LapTime         *string `json:"LapTime"`
	LapNumber       *int    `json:"LapNumber"`
}

// lapCount represents the latest lap information of the session, including
// the CurrentLap of the leader in races.
type lapCount struct {
	CurrentLap *int `json:"CurrentLap"`
	TotalLaps  *int `json:"TotalLaps"`
}

// negotiateResponse represents the response body of the F1 Live Timing negotiate API.
type negotiateResponse struct {
	Url                     string  `json:"Url"`
	ConnectionToken         string  `json:"ConnectionToken"`
	ConnectionId            string  `json:"ConnectionId"`
	KeepAliveTimeout        float64 `json:"KeepAliveTimeout"`
	DisconnectTimeout       float64 `json:"DisconnectTimeout"`
	ConnectionTimeout       float64 `json:"ConnectionTimeout"`
	TryWebSockets           bool    `json:"TryWebSockets"`
	ProtocolVersion         string  `json:"ProtocolVersion"`
	TransportConnectTimeout float64 `json:"TransportConnectTimeout"`
	LongPollDelay           float64 `json:"LongPollDelay"`
}
