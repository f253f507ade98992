package cwa

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// CWA datastore response structures. Only the fields the card uses are decoded.

type observationResponse struct {
	Success string `json:"success"`
	Records struct {
		Station []observationStation `json:"Station"`
	} `json:"records"`
}

type observationStation struct {
	StationName string `json:"StationName"`
	StationID   string `json:"StationId"`
	ObsTime     struct {
		DateTime string `json:"DateTime"`
	} `json:"ObsTime"`
	WeatherElement struct {
		WindSpeed      number `json:"WindSpeed"`
		AirTemperature number `json:"AirTemperature"`
	} `json:"WeatherElement"`
}

type forecastResponse struct {
	Success string `json:"success"`
	Records struct {
		DatasetDescription string             `json:"datasetDescription"`
		Location           []forecastLocation `json:"location"`
	} `json:"records"`
}

type forecastLocation struct {
	LocationName   string            `json:"locationName"`
	WeatherElement []forecastElement `json:"weatherElement"`
}

type forecastElement struct {
	ElementName string `json:"elementName"`
	Time        []struct {
		StartTime string            `json:"startTime"`
		EndTime   string            `json:"endTime"`
		Parameter forecastParameter `json:"parameter"`
	} `json:"time"`
}

type forecastParameter struct {
	ParameterName  string `json:"parameterName"`
	ParameterValue string `json:"parameterValue"`
	ParameterUnit  string `json:"parameterUnit"`
}

// number decodes a JSON number or a numeric string.
type number float64

func (n *number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		data = []byte(s)
	}
	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("not a number: %q", data)
	}
	*n = number(f)
	return nil
}
