package app

import (
	"math"

	"github.com/weathercard/weathercard/internal/location"
	"github.com/weathercard/weathercard/internal/sun"
	"github.com/weathercard/weathercard/internal/weather"
)

// Card is everything the weather card renders.
type Card struct {
	RegionName string           `json:"regionName"`
	Weather    weather.Snapshot `json:"weather"`
	Moment     sun.Moment       `json:"moment"`
	Theme      sun.Theme        `json:"theme"`
	Page       Page             `json:"page"`
	Category   weather.Category `json:"category,omitempty"`
	Asset      weather.Asset    `json:"asset,omitempty"`

	// Temperature rounded half up, as shown on the card.
	Temperature int `json:"roundedTemperature"`

	// ObservedAt is the observation time as HH:mm in Taipei time.
	ObservedAt string `json:"observedAt"`
}

// Settings is the settings page view.
type Settings struct {
	CurrentRegion string   `json:"currentRegion"`
	Options       []string `json:"options"`
	Page          Page     `json:"page"`
}

// Card builds the card view from the current state and snapshot.
func (c *Controller) Card() Card {
	state := c.State()
	snap := c.fetcher.Snapshot()

	card := Card{
		RegionName:  state.Region.Name,
		Weather:     snap,
		Moment:      state.Moment,
		Theme:       state.Theme,
		Page:        state.Page,
		Temperature: roundHalfUp(snap.Temperature),
		ObservedAt:  snap.ObservationTime.In(sun.Taipei).Format("15:04"),
	}

	if category, ok := weather.Classify(snap.WeatherCode); ok {
		card.Category = category
		card.Asset = weather.SelectAsset(category, state.Moment)
	}
	return card
}

// Settings builds the settings view.
func (c *Controller) Settings() Settings {
	state := c.State()
	return Settings{
		CurrentRegion: state.Region.Name,
		Options:       location.Names(),
		Page:          state.Page,
	}
}

func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}
