// Package traveltools provides city sightseeing tools for a travel
// planner agent: location descriptions and travel time estimates
// between landmarks.
package traveltools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/openhands-ai/agents-go/chatmodel"
	"github.com/openhands-ai/agents-go/pkg/llmutils"
	"github.com/openhands-ai/agents-go/pkg/schema"
	"github.com/openhands-ai/agents-go/tools"
)

// Tool names.
const (
	TravelTimeToolName   = "GetTravelTime"
	LocationInfoToolName = "GetLocationInfo"
)

// Supported cities.
const (
	Paris         = "Paris"
	HoChiMinhCity = "Ho Chi Minh City"
)

// DefaultTravelTime is returned when no estimate is known for a pair
// of locations in a known city.
const DefaultTravelTime = "20-30 minutes by public transport (estimated)"

type route struct {
	From string
	To   string
}

// City holds the sightseeing data for a single city.
type City struct {
	Locations   map[string]string
	travelTimes map[route]string
}

var cities = map[string]City{
	Paris: {
		Locations: map[string]string{
			"Eiffel Tower": "Open 9:00-00:45 in summer. Iconic iron tower with city views. Best visited early morning or sunset.",
			"Louvre":       "Open Wed-Mon 9:00-18:00. World's largest art museum, home to the Mona Lisa. Closed Tuesdays.",
			"Montmartre":   "Historic district on a hill, famous for Sacré-Cœur basilica and artist square. Best in morning or late afternoon.",
			"Notre-Dame":   "Cathedral under reconstruction. Plaza and exterior viewable 24/7.",
			"Versailles":   "Palace open Tue-Sun 9:00-18:30. Closed Mondays. Plan at least half day for palace and gardens.",
		},
		travelTimes: map[route]string{
			{"Eiffel Tower", "Louvre"}:     "25 minutes by Metro line 9",
			{"Louvre", "Montmartre"}:       "20 minutes by Metro line 12",
			{"Montmartre", "Notre-Dame"}:   "30 minutes by Metro line 12 and 4",
			{"Notre-Dame", "Versailles"}:   "1 hour by RER C",
			{"Eiffel Tower", "Versailles"}: "45 minutes by RER C",
		},
	},
	HoChiMinhCity: {
		Locations: map[string]string{
			"Ben Thanh Market":          "Open 6:00-24:00. Famous market for local goods, souvenirs, and street food. Best for shopping and experiencing local culture.",
			"War Remnants Museum":       "Open 7:30-18:00 daily. Powerful museum displaying artifacts and photographs from the Vietnam War. Plan 1-2 hours for visit.",
			"Notre-Dame Cathedral":      "Open for viewing 8:00-17:00 daily. Historic cathedral from French colonial period. Note: Currently under renovation but exterior still viewable.",
			"Central Post Office":       "Open 7:00-19:00 daily. Beautiful French colonial architecture, still functioning as a post office. Free entrance.",
			"Independence Palace":       "Open 7:30-11:00, 13:00-16:00 daily. Historic palace from the Vietnam War era.",
			"Bitexco Tower":             "Observation deck open 9:30-21:30. City's iconic skyscraper with observation deck on 49th floor.",
			"Nguyen Hue Walking Street": "Best visited evening/weekend. Pedestrian street with fountains, street performances, and cafes.",
			"Cho Lon":                   "Open all day. Historic Chinatown district with Binh Tay Market and pagodas. Best in morning for market activity.",
			"Cu Chi Tunnels":            "Open 7:00-17:00 daily. Historic tunnel network from Vietnam War. Located 70km from city center.",
		},
		travelTimes: map[route]string{
			{"Ben Thanh Market", "War Remnants Museum"}:     "15 minutes by bus route 1 or taxi",
			{"War Remnants Museum", "Notre-Dame Cathedral"}: "10 minutes by taxi or 20 minutes walking",
			{"Notre-Dame Cathedral", "Central Post Office"}: "2 minutes walking",
			{"Central Post Office", "Independence Palace"}:  "10 minutes walking",
			{"Independence Palace", "Ben Thanh Market"}:     "15 minutes walking or 5 minutes by taxi",
			{"Ben Thanh Market", "Bitexco Tower"}:           "10 minutes walking",
			{"Bitexco Tower", "Nguyen Hue Walking Street"}:  "5 minutes walking",
			{"Ben Thanh Market", "Cho Lon"}:                 "25 minutes by bus route 1 or 15 minutes by taxi",
			{"War Remnants Museum", "Cu Chi Tunnels"}:       "1.5 hours by bus or 1 hour by taxi",
		},
	},
}

// CityInfo returns the sightseeing data for a city.
func CityInfo(city string) (City, bool) {
	c, ok := cities[city]
	return c, ok
}

// TravelTime returns the estimated travel time between two locations.
// Pairs are stored in one direction only, so both orders are checked.
func TravelTime(city, from, to string) string {
	c, ok := cities[city]
	if !ok {
		return "Travel time information not available for " + city
	}
	if t, ok := c.travelTimes[route{from, to}]; ok {
		return t
	}
	if t, ok := c.travelTimes[route{to, from}]; ok {
		return t
	}
	return DefaultTravelTime
}

// LocationInfo returns the description of a location in a city.
func LocationInfo(city, location string) string {
	c, ok := cities[city]
	if !ok {
		return "Location information not available for " + city
	}
	if info, ok := c.Locations[location]; ok {
		return info
	}
	return fmt.Sprintf("Information not available for %s in %s", location, city)
}

// Tools returns the travel tools for a planner agent.
func Tools() []tools.ITool {
	return []tools.ITool{
		NewTravelTimeTool(),
		NewLocationInfoTool(),
	}
}

// TravelTimeRequest names the city and the two locations.
type TravelTimeRequest struct {
	City         string `json:"City" yaml:"City" jsonschema:"title=City,description=Name of the city."`
	FromLocation string `json:"FromLocation" yaml:"FromLocation" jsonschema:"title=From Location,description=Starting location in the city."`
	ToLocation   string `json:"ToLocation" yaml:"ToLocation" jsonschema:"title=To Location,description=Destination in the city."`
}

// TravelTimeResult is the estimate for a pair of locations.
type TravelTimeResult struct {
	City         string `json:"city"`
	FromLocation string `json:"from_location"`
	ToLocation   string `json:"to_location"`
	TravelTime   string `json:"travel_time"`
}

func (r *TravelTimeResult) String() string {
	return r.TravelTime
}

// GetContent implements chatmodel.ContentProvider.
func (r *TravelTimeResult) GetContent() string {
	return llmutils.ToJSON(r)
}

// TravelTimeTool estimates travel time between two locations in a city.
type TravelTimeTool struct {
	funcParams any
}

var _ tools.Tool[TravelTimeRequest, TravelTimeResult] = (*TravelTimeTool)(nil)

// NewTravelTimeTool returns the travel time tool.
func NewTravelTimeTool() *TravelTimeTool {
	return &TravelTimeTool{
		funcParams: schema.MustFromAny(TravelTimeRequest{}).Parameters,
	}
}

func (t *TravelTimeTool) Name() string { return TravelTimeToolName }

func (t *TravelTimeTool) Description() string {
	return "Get the estimated travel time between two locations in a city using public transport."
}

func (t *TravelTimeTool) Parameters() any { return t.funcParams }

func (t *TravelTimeTool) Run(_ context.Context, req *TravelTimeRequest) (*TravelTimeResult, error) {
	return &TravelTimeResult{
		City:         req.City,
		FromLocation: req.FromLocation,
		ToLocation:   req.ToLocation,
		TravelTime:   TravelTime(req.City, req.FromLocation, req.ToLocation),
	}, nil
}

func (t *TravelTimeTool) Call(ctx context.Context, input string) (string, error) {
	var req TravelTimeRequest
	if err := json.Unmarshal(llmutils.CleanJSON([]byte(input)), &req); err != nil {
		return "", errors.WithStack(chatmodel.ErrFailedUnmarshalInput)
	}
	res, err := t.Run(ctx, &req)
	if err != nil {
		return "", err
	}
	return chatmodel.Stringify(res), nil
}

// LocationInfoRequest names the city and location.
type LocationInfoRequest struct {
	City     string `json:"City" yaml:"City" jsonschema:"title=City,description=Name of the city."`
	Location string `json:"Location" yaml:"Location" jsonschema:"title=Location,description=Name of the location in the city."`
}

// LocationInfoResult describes a location.
type LocationInfoResult struct {
	City     string `json:"city"`
	Location string `json:"location"`
	Info     string `json:"info"`
}

func (r *LocationInfoResult) String() string {
	return r.Info
}

// GetContent implements chatmodel.ContentProvider.
func (r *LocationInfoResult) GetContent() string {
	return llmutils.ToJSON(r)
}

// LocationInfoTool describes a landmark in a city.
type LocationInfoTool struct {
	funcParams any
}

var _ tools.Tool[LocationInfoRequest, LocationInfoResult] = (*LocationInfoTool)(nil)

// NewLocationInfoTool returns the location info tool.
func NewLocationInfoTool() *LocationInfoTool {
	return &LocationInfoTool{
		funcParams: schema.MustFromAny(LocationInfoRequest{}).Parameters,
	}
}

func (t *LocationInfoTool) Name() string { return LocationInfoToolName }

func (t *LocationInfoTool) Description() string {
	return "Get information about a location in a specific city."
}

func (t *LocationInfoTool) Parameters() any { return t.funcParams }

func (t *LocationInfoTool) Run(_ context.Context, req *LocationInfoRequest) (*LocationInfoResult, error) {
	return &LocationInfoResult{
		City:     req.City,
		Location: req.Location,
		Info:     LocationInfo(req.City, req.Location),
	}, nil
}

func (t *LocationInfoTool) Call(ctx context.Context, input string) (string, error) {
	var req LocationInfoRequest
	if err := json.Unmarshal(llmutils.CleanJSON([]byte(input)), &req); err != nil {
		return "", errors.WithStack(chatmodel.ErrFailedUnmarshalInput)
	}
	res, err := t.Run(ctx, &req)
	if err != nil {
		return "", err
	}
	return chatmodel.Stringify(res), nil
}
