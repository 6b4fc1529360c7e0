// In file: internal/notify/agent.go

// Package notify implements a client-side weather notification agent. The
// agent fetches a report for one city from the gateway, turns it into a
// notification, and only delivers it when the weather is worth mentioning.
package notify

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/dileep-u-k/weather-agent/internal/tools"
)

// State is a step of the agent's run.
type State string

const (
	StateStart           State = "start"
	StateFetchingWeather State = "fetching_weather"
	StateProcessingData  State = "processing_data"
	StateNotifying       State = "notifying"
	StateCompleted       State = "completed"
)

// Any state may jump to completed when a step fails.
var validTransitions = map[State][]State{
	StateStart:           {StateFetchingWeather, StateCompleted},
	StateFetchingWeather: {StateProcessingData, StateCompleted},
	StateProcessingData:  {StateNotifying, StateCompleted},
	StateNotifying:       {StateCompleted},
}

// notifyKeywords trigger delivery when found in the lower-cased condition text.
var notifyKeywords = []string{"rain", "overcast"}

var errNoWeatherData = errors.New("no weather data available")

// WeatherFetcher retrieves a weather report for a city.
type WeatherFetcher interface {
	FetchWeather(ctx context.Context, city string) (*tools.WeatherReport, error)
}

// Sink delivers the agent's output.
type Sink interface {
	Notify(message string)
	Skip(condition string)
}

// StateChange records one transition.
type StateChange struct {
	From State
	To   State
	At   time.Time
}

// InvalidTransitionError is returned for a transition the state table does not allow.
type InvalidTransitionError struct {
	From, To State
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition from %s to %s", e.From, e.To)
}

// Outcome summarizes a finished run.
type Outcome struct {
	Notified     bool
	Notification string
	Condition    string
	Err          error
	History      []StateChange
}

// Agent runs the fetch, process, notify sequence for one city.
type Agent struct {
	name    string
	city    string
	fetcher WeatherFetcher
	sink    Sink

	state        State
	report       *tools.WeatherReport
	notification string
	notified     bool
	history      []StateChange
}

func NewAgent(name, city string, fetcher WeatherFetcher, sink Sink) *Agent {
	return &Agent{
		name:    name,
		city:    city,
		fetcher: fetcher,
		sink:    sink,
		state:   StateStart,
	}
}

// State returns the current state.
func (a *Agent) State() State {
	return a.state
}

// Execute drives the agent until it reaches StateCompleted. A failing step
// ends the run; the error is reported in the outcome, never returned.
func (a *Agent) Execute(ctx context.Context) Outcome {
	var runErr error
	for a.state != StateCompleted {
		var err error
		switch a.state {
		case StateStart:
			err = a.fetchWeather(ctx)
		case StateFetchingWeather:
			err = a.processData()
		case StateProcessingData:
			err = a.notifyUser()
		case StateNotifying:
			err = a.transition(StateCompleted)
		}
		if err != nil {
			log.Printf("Error in %s while %s: %v", a.name, a.state, err)
			runErr = err
			a.forceComplete()
		}
	}

	out := Outcome{
		Notified:     a.notified,
		Notification: a.notification,
		Err:          runErr,
		History:      a.history,
	}
	if a.report != nil {
		out.Condition = a.report.Current.Condition.Text
	}
	return out
}

func (a *Agent) fetchWeather(ctx context.Context) error {
	log.Printf("%s is fetching weather data for %s...", a.name, a.city)
	report, err := a.fetcher.FetchWeather(ctx, a.city)
	if err != nil {
		return err
	}
	a.report = report
	return a.transition(StateFetchingWeather)
}

func (a *Agent) processData() error {
	log.Printf("%s is processing weather data...", a.name)
	if a.report == nil {
		return errNoWeatherData
	}
	a.notification = FormatNotification(a.city, a.report)
	return a.transition(StateProcessingData)
}

func (a *Agent) notifyUser() error {
	log.Printf("%s is notifying the user...", a.name)
	if a.report == nil {
		return errNoWeatherData
	}
	condition := strings.ToLower(a.report.Current.Condition.Text)
	if ShouldNotify(condition) {
		a.sink.Notify(a.notification)
		a.notified = true
	} else {
		a.sink.Skip(condition)
	}
	return a.transition(StateNotifying)
}

func (a *Agent) transition(to State) error {
	for _, allowed := range validTransitions[a.state] {
		if allowed == to {
			a.history = append(a.history, StateChange{From: a.state, To: to, At: time.Now()})
			a.state = to
			return nil
		}
	}
	return &InvalidTransitionError{From: a.state, To: to}
}

func (a *Agent) forceComplete() {
	if a.state == StateCompleted {
		return
	}
	a.history = append(a.history, StateChange{From: a.state, To: StateCompleted, At: time.Now()})
	a.state = StateCompleted
}

// ShouldNotify reports whether a condition text warrants a notification.
func ShouldNotify(condition string) bool {
	lower := strings.ToLower(condition)
	for _, kw := range notifyKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// FormatNotification renders a report as a multi-line notification.
func FormatNotification(city string, report *tools.WeatherReport) string {
	return fmt.Sprintf("Current weather in %s:\nTemperature: %g°C\nCondition: %s\nWind Speed: %g km/h",
		city,
		report.Current.TempC,
		report.Current.Condition.Text,
		report.Current.WindKPH,
	)
}
