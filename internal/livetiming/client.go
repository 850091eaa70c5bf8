// Package livetiming is a client for the F1 live timing SignalR feed. It
// tracks just enough session state (lap count, our car's tire and gaps, the
// weather) to emit point-in-time snapshots for in-race strategy re-planning;
// the strategy core never talks to the feed directly.
package livetiming

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/coder/websocket"

	"github.com/bcdxn/f1strategy/internal/domain"
)

// normalBurnPerLap is the fuel-estimate burn rate in kg per lap; the feed
// carries no fuel data so the snapshot carries an estimate.
const normalBurnPerLap = 1.6

// New returns a new live timing client following the given car.
func New(opts ...ClientOption) Client {
	c := Client{
		positions:    make(map[string]int),
		gaps:         make(map[string]float64),
		snapshot:     domain.LiveSnapshot{Weather: domain.NewDryWeather(30.0)},
		snapshotCh:   make(chan domain.LiveSnapshot),
		doneCh:       make(chan error),
		logger:       slog.Default(),
		httpBaseURL:  "https://livetiming.formula1.com",
		wsBaseURL:    "wss://livetiming.formula1.com",
		driverNumber: "1",
		initialFuel:  110.0,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

type Client struct {
	// Internal session state
	positions       map[string]int     // Last known classified position per driver number
	gaps            map[string]float64 // Last known interval to the car ahead per driver number
	snapshot        domain.LiveSnapshot
	connectionToken string
	cookie          string
	// channels
	snapshotCh chan domain.LiveSnapshot
	doneCh     chan error
	// F1 Live Timing API configuration
	httpBaseURL  string
	wsBaseURL    string
	driverNumber string
	initialFuel  float64
	// logger
	logger *slog.Logger
}

/* Client Optional Functional Parameters
------------------------------------------------------------------------------------------------- */

type ClientOption = func(c *Client)

// WithHTTPBaseURL configures the HTTP(S) URL of the F1 LiveTiming API; primarily used for testing.
func WithHTTPBaseURL(baseUrl string) ClientOption {
	return func(c *Client) { c.httpBaseURL = baseUrl }
}

// WithWSBaseURL configures the websocket URL of the F1 LiveTiming API; primarily used for
// testing.
func WithWSBaseURL(baseUrl string) ClientOption {
	return func(c *Client) { c.wsBaseURL = baseUrl }
}

// WithDriverNumber configures which car the emitted snapshots follow.
func WithDriverNumber(num string) ClientOption {
	return func(c *Client) { c.driverNumber = num }
}

// WithInitialFuel configures the starting fuel load used for the snapshot's
// fuel estimate.
func WithInitialFuel(kg float64) ClientOption {
	return func(c *Client) { c.initialFuel = kg }
}

// WithLogger configures the logger to use within the client.
func WithLogger(l *slog.Logger) ClientOption {
	return func(c *Client) { c.logger = l }
}

/* Client API
------------------------------------------------------------------------------------------------- */

// Snapshots exposes the snapshot channel as read-only; a full point-in-time
// view of the followed car's race state can be read on each relevant update
// from the F1 LiveTiming API.
func (c Client) Snapshots() <-chan domain.LiveSnapshot {
	return c.snapshotCh
}

// Done allows the client to signal to the caller that it has exited; this can happen if an error
// occurs or if the websocket connection is closed by the server.
func (c Client) Done() <-chan error {
	return c.doneCh
}

func (c *Client) Listen(ctx context.Context) {
	defer close(c.doneCh)
	if err := c.negotiate(); err != nil {
		c.logger.Error("error negotiating connection", "err", err.Error())
		c.doneCh <- err
		return
	}
	u, err := c.websocketURL()
	if err != nil {
		c.logger.Error("error building websocket URL")
		c.doneCh <- err
		return
	}
	headers := make(http.Header)
	headers.Add("User-Agent", "BestHTTP")
	headers.Add("Accept-Encoding", "gzip,identity")
	headers.Add("Cookie", c.cookie)
	conn, _, err := websocket.Dial(ctx, u.String(), &websocket.DialOptions{HTTPHeader: headers})
	if err != nil {
		c.logger.Error("error dialing websocket", "err", err.Error())
		c.doneCh <- err
		return
	}
	defer conn.CloseNow()
	// disable size limits as the F1 LiveTiming API sends some big messages
	conn.SetReadLimit(-1)
	if err := c.sendSubscribeMsg(conn); err != nil {
		c.doneCh <- err
		return
	}

	for {
		_, msg, err := conn.Read(ctx)
		if err != nil {
			if ctx.Err() != nil || websocket.CloseStatus(err) == websocket.StatusNormalClosure {
				conn.Close(websocket.StatusNormalClosure, "client closed")
			} else {
				c.doneCh <- err
			}
			return
		}
		c.processMessage(msg)
	}
}

/* Private Helper Functions
------------------------------------------------------------------------------------------------- */

// negotiate calls the F1 LiveTiming API, retrieving information required to start the websocket
// connection required to receive real-time updates.
func (c *Client) negotiate() error {
	req, err := c.negotiateRequest()
	if err != nil {
		return err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("error sending f1 livetiming api negotiation request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		ct, err := c.parseConnectionToken(resp.Body)
		if err != nil {
			return fmt.Errorf("error parsing connection token: %w", err)
		}
		c.connectionToken = ct
		c.cookie = resp.Header.Get("set-cookie")
		c.logger.Debug("successfully negotiated connection", "token_length", len(ct))
		return nil
	default:
		return fmt.Errorf("error negotiating f1 livetiming api connection: %w", errors.New(resp.Status))
	}
}

// negotiateRequest creates the HTTP request object that is required to initiate the connection to
// the F1 Live Timing SignalR API.
func (c Client) negotiateRequest() (*http.Request, error) {
	var r *http.Request
	u, err := url.Parse(c.httpBaseURL)
	if err != nil {
		return r, fmt.Errorf("invalid HTTPBaseURL: %w", err)
	}

	r = &http.Request{
		Method: "POST",
		URL: &url.URL{
			Scheme: u.Scheme,
			Host:   u.Host,
			Path:   "/signalr/negotiate",
			RawQuery: url.Values{
				"connectionData": {`[{"Name":"Streaming"}]`},
				"clientProtocol": {"1.5"},
			}.Encode(),
		},
	}

	return r, nil
}

// sendSubscribeMsg sends a message that tells the server which types of data messages we would
// like to receive as required by the F1 Live Timing API.
func (Client) sendSubscribeMsg(conn *websocket.Conn) error {
	return conn.Write(context.Background(), websocket.MessageText, []byte(`
      {
          "H": "Streaming",
          "M": "Subscribe",
          "A": [[
              "Heartbeat",
              "WeatherData",
              "TimingAppData",
              "LapCount",
              "TimingData"
          ]],
          "I": 1
      }
  `))
}

// parseConnectionToken is a helper function that parses the negotiate response pulling out the
// connectionToken field from the body. This token is required in the subsequent connect request
// that creates the websocket connection.
func (Client) parseConnectionToken(body io.ReadCloser) (string, error) {
	var n negotiateResponse
	var t string

	b, err := io.ReadAll(body)
	if err != nil {
		return t, err
	}

	err = json.Unmarshal(b, &n)
	if err != nil {
		return t, err
	}

	return n.ConnectionToken, nil
}

// websocketURL is a helper method that generates the URL with appropriate query parameters
// required to start the websocket connection.
func (c Client) websocketURL() (*url.URL, error) {
	var u *url.URL
	u, err := url.Parse(c.wsBaseURL)
	if err != nil {
		return u, fmt.Errorf("invalid WSBaseURL: %w", err)
	}

	u = &url.URL{
		Scheme: u.Scheme,
		Host:   u.Host,
		Path:   "/signalr/connect",
		RawQuery: url.Values{
			"connectionData":  {`[{"Name":"Streaming"}]`},
			"connectionToken": {c.connectionToken},
			"clientProtocol":  {"1.5"},
			"transport":       {"webSockets"},
		}.Encode(),
	}

	return u, nil
}

var (
	// The F1 API returns a mixed-type map which makes unmarshalling to strongly typed structs
	// challenging, so we just strip the offending property from the message string using the kfRe
	// regular expression.
	kfRe = regexp.MustCompile(`,\s*"_kf":\s*(?:true|false)(,[^}])?`)
)

// processMessage checks the message coming from the F1 LiveTiming API to see if it is a 'change'
// message or a 'reference' message and handles them appropriately, folding each into the
// followed car's snapshot and emitting the updated snapshot.
func (c *Client) processMessage(msg []byte) {
	// Always try to parse a change message first since there is only 1 reference message and
	// tens of thousands of change messages over the course of a session
	var change changeMessage
	err := json.Unmarshal(msg, &change)
	if err == nil && len(change.Messages) > 0 {
		c.logger.Debug("received change data message")
		c.processChangeMessage(change)
		return
	}
	// Next try to parse a reference data message
	refMsg := kfRe.ReplaceAllString(string(msg), "")
	var ref referenceMessage
	err = json.Unmarshal([]byte(refMsg), &ref)
	if err == nil && ref.MessageInterval != "" {
		c.logger.Debug("received reference data message")
		c.processReferenceMessage(ref)
		return
	}
	// The message wasn't a known 'change' or 'reference' message type
	c.logger.Debug("unhandled message", "msg", msg)
}

// processChangeMessage handles an incoming change message from the F1 Live Timing API; change
// messages represent deltas to the original reference message and all preceding change messages.
func (c *Client) processChangeMessage(change changeMessage) {
	for _, m := range change.Messages {
		if m.Hub != "Streaming" || m.Message != "feed" || len(m.Arguments) < 2 {
			continue
		}
		var msgType string
		if err := json.Unmarshal(m.Arguments[0], &msgType); err != nil {
			c.logger.Warn("unable to read message type", "err", err.Error())
			continue
		}
		data := m.Arguments[1]
		switch msgType {
		case "WeatherData":
			c.updateWeather(c.unmarshalWeatherMsg(data))
		case "TimingData":
			c.updateTiming(c.unmarshalTimingMsg(data))
		case "TimingAppData":
			c.updateStint(c.unmarshalTimingAppMsg(data))
		case "LapCount":
			c.updateLapCount(c.unmarshalLapCountMsg(data))
		case "Heartbeat":
			// keep-alive only
		default:
			c.logger.Warn("unknown change message", "type", msgType)
		}
	}
}

func (c *Client) processReferenceMessage(ref referenceMessage) {
	if len(ref.Reference.WeatherData) > 0 {
		c.updateWeather(c.unmarshalWeatherMsg(ref.Reference.WeatherData))
	}
	if len(ref.Reference.LapCount) > 0 {
		c.updateLapCount(c.unmarshalLapCountMsg(ref.Reference.LapCount))
	}
	if len(ref.Reference.TimingAppData) > 0 {
		c.updateStint(c.unmarshalTimingAppMsg(ref.Reference.TimingAppData))
	}
	if len(ref.Reference.TimingData) > 0 {
		c.updateTiming(c.unmarshalTimingMsg(ref.Reference.TimingData))
	}
}

/* Message Unmarshalers
------------------------------------------------------------------------------------------------- */

// unmarshalWeatherMsg converts the websocket message to a strongly typed struct.
func (c *Client) unmarshalWeatherMsg(msg []byte) weatherData {
	var w weatherData
	if err := json.Unmarshal(msg, &w); err != nil {
		c.logger.Warn("weather msg in unknown format", "msg", string(msg))
	}
	return w
}

// unmarshalTimingMsg converts the websocket message to a strongly typed struct.
func (c *Client) unmarshalTimingMsg(msg []byte) timingData {
	var t timingData
	if err := json.Unmarshal(msg, &t); err != nil {
		c.logger.Warn("timing data msg in unknown format", "msg", string(msg))
	}
	return t
}

// unmarshalTimingAppMsg converts the websocket message to a strongly typed struct.
func (c *Client) unmarshalTimingAppMsg(msg []byte) timingAppData {
	var tad timingAppData
	if err := json.Unmarshal(msg, &tad); err != nil {
		c.logger.Warn("timing app data msg in unknown format", "msg", string(msg))
	}
	return tad
}

// unmarshalLapCountMsg converts the websocket message to a strongly typed struct.
func (c *Client) unmarshalLapCountMsg(msg []byte) lapCount {
	var lc lapCount
	if err := json.Unmarshal(msg, &lc); err != nil {
		c.logger.Warn("lap count msg in unknown format", "msg", string(msg))
	}
	return lc
}

/* Snapshot Updaters
------------------------------------------------------------------------------------------------- */

// updateWeather folds a WeatherData msg into the snapshot's weather state and
// emits the updated snapshot.
func (c *Client) updateWeather(w weatherData) {
	if v, ok := parseFloat(w.TrackTemp); ok {
		c.snapshot.Weather.TrackTemp = v
	}
	if v, ok := parseFloat(w.AirTemp); ok {
		c.snapshot.Weather.AirTemp = v
	}
	if v, ok := parseFloat(w.Rainfall); ok {
		// The feed reports rainfall as a 0/1 flag; treat any rain as a
		// moderate shower.
		if v > 0 {
			c.snapshot.Weather.RainIntensity = 0.5
		} else {
			c.snapshot.Weather.RainIntensity = 0
		}
	}
	c.emit()
}

// updateLapCount updates the current lap and the derived fuel estimate.
func (c *Client) updateLapCount(lc lapCount) {
	if lc.CurrentLap != nil {
		c.snapshot.CurrentLap = *lc.CurrentLap
		burned := float64(c.snapshot.CurrentLap-1) * normalBurnPerLap
		c.snapshot.FuelRemaining = c.initialFuel - burned
		if c.snapshot.FuelRemaining < 0 {
			c.snapshot.FuelRemaining = 0
		}
	}
	c.emit()
}

// updateStint folds TimingAppData into the followed car's tire state. If
// multiple stints are given (e.g. in the reference message) the stint with
// the largest key wins; keys are numbers indicating order.
func (c *Client) updateStint(tad timingAppData) {
	line, ok := tad.Lines[c.driverNumber]
	if !ok {
		return
	}
	keys := make([]string, 0, len(line.Stints))
	for k := range line.Stints {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] > keys[j] })
	if len(keys) == 0 {
		return
	}
	current := line.Stints[keys[0]]
	if current.Compound != nil {
		c.snapshot.TireCompound = domain.TireCompound(strings.ToUpper(*current.Compound))
	}
	if current.TotalLaps != nil {
		c.snapshot.TireAge = *current.TotalLaps
	}
	if line.Line != nil {
		c.positions[c.driverNumber] = *line.Line
		c.snapshot.Position = *line.Line
	}
	c.emit()
}

// updateTiming folds per-driver timing lines into the positions/gaps state
// and re-derives the followed car's gaps.
func (c *Client) updateTiming(t timingData) {
	for num, line := range t.Lines {
		if line.Line != nil {
			c.positions[num] = *line.Line
		}
		if line.IntervalToPositionAhead.Value != nil {
			if gap, ok := parseGap(*line.IntervalToPositionAhead.Value); ok {
				c.gaps[num] = gap
			}
		}
	}

	ourPos, ok := c.positions[c.driverNumber]
	if !ok {
		return
	}
	c.snapshot.Position = ourPos
	if ourPos == 1 {
		c.snapshot.GapAhead = 0
	} else if gap, ok := c.gaps[c.driverNumber]; ok {
		c.snapshot.GapAhead = gap
	}
	// The gap behind is the interval reported by whichever car runs one
	// place back.
	for num, pos := range c.positions {
		if pos == ourPos+1 {
			if gap, ok := c.gaps[num]; ok {
				c.snapshot.GapBehind = gap
			}
			break
		}
	}
	c.emit()
}

func (c *Client) emit() {
	c.snapshotCh <- c.snapshot
}

// parseFloat reads the feed's stringly typed numeric fields.
func parseFloat(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// parseGap reads interval strings like "+1.234", "12.801" or "1:02.345".
// Lapped-car markers ("1 L") report no usable gap.
func parseGap(s string) (float64, bool) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "+"))
	if s == "" || strings.Contains(s, "L") {
		return 0, false
	}
	if i := strings.Index(s, ":"); i >= 0 {
		mins, err := strconv.Atoi(s[:i])
		if err != nil {
			return 0, false
		}
		secs, err := strconv.ParseFloat(s[i+1:], 64)
		if err != nil {
			return 0, false
		}
		return float64(mins)*60 + secs, true
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
