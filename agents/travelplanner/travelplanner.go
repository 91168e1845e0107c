// Package travelplanner wraps a chat agent with the city sightseeing
// tools to build itineraries and routes.
package travelplanner

import (
	"context"
	"fmt"
	"strings"

	"github.com/openhands-ai/agents-go/agents"
	"github.com/openhands-ai/agents-go/chatmodel"
	"github.com/openhands-ai/agents-go/encoding"
	"github.com/openhands-ai/agents-go/pkg/llms"
	"github.com/openhands-ai/agents-go/pkg/prompts"
	"github.com/openhands-ai/agents-go/tools/traveltools"
)

const systemPrompt = `You are a travel planner. You create detailed city
tour itineraries: suggest routes between attractions, provide location
information, estimate travel times and build time-optimized plans. Take
opening hours, travel times between locations, best visiting times and
public transportation options into account. Use the available tools to
look up locations and travel times.`

// Planner builds city itineraries with the travel tool set.
type Planner struct {
	agent *agents.Agent[chatmodel.String]
}

// New returns a planner backed by the given model.
func New(llmModel llms.Model, options ...agents.Option) *Planner {
	opts := append([]agents.Option{agents.WithMode(encoding.ModePlainText)}, options...)
	ag := agents.NewAgent[chatmodel.String](
		llmModel,
		prompts.NewPromptTemplate(systemPrompt, nil),
		opts...,
	).
		WithName("TravelPlanner").
		WithDescription("Creates detailed travel itineraries for city tours.").
		WithTools(traveltools.Tools()...)
	return &Planner{agent: ag}
}

// Agent exposes the underlying agent for further configuration.
func (p *Planner) Agent() *agents.Agent[chatmodel.String] {
	return p.agent
}

func (p *Planner) run(ctx context.Context, query string) (string, error) {
	var out chatmodel.String
	if _, err := p.agent.Run(ctx, &agents.CallInput{Input: query}, &out); err != nil {
		return "", err
	}
	return out.GetContent(), nil
}

// PlanCityTour asks for a tour itinerary. Zero durationDays means one
// day, empty transportation means public transport.
func (p *Planner) PlanCityTour(ctx context.Context, city string, durationDays int, preferences, transportation string) (string, error) {
	if durationDays <= 0 {
		durationDays = 1
	}
	if transportation == "" {
		transportation = "public"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Can you give me a nice %d-day trip around %s with locations and times? ", durationDays, city)
	if preferences != "" {
		fmt.Fprintf(&sb, "I'm particularly interested in %s. ", preferences)
	}
	fmt.Fprintf(&sb, "I'm travelling via %s transportation.", transportation)

	return p.run(ctx, sb.String())
}

// GetLocationDetails asks for detailed information about a location.
func (p *Planner) GetLocationDetails(ctx context.Context, city, location string) (string, error) {
	query := fmt.Sprintf(
		"Please provide detailed information about %s in %s, including opening hours, best times to visit, and any special considerations.",
		location, city)
	return p.run(ctx, query)
}

// OptimizeRoute asks for an optimized route between locations.
func (p *Planner) OptimizeRoute(ctx context.Context, city string, locations []string, startTime, transportation string) (string, error) {
	if transportation == "" {
		transportation = "public"
	}
	query := fmt.Sprintf(
		"Please help me optimize a route in %s to visit these locations: %s. I'll start at %s and use %s transportation. Please consider opening hours and travel times.",
		city, strings.Join(locations, ", "), startTime, transportation)
	return p.run(ctx, query)
}

// EstimateTravelTime asks for the travel time between two locations.
func (p *Planner) EstimateTravelTime(ctx context.Context, city, fromLocation, toLocation, transportation string) (string, error) {
	if transportation == "" {
		transportation = "public"
	}
	query := fmt.Sprintf(
		"How long would it take to travel from %s to %s in %s using %s transportation? Please provide route details.",
		fromLocation, toLocation, city, transportation)
	return p.run(ctx, query)
}
