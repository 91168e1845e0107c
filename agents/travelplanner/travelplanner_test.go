package travelplanner_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/openhands-ai/agents-go/agents/travelplanner"
	"github.com/openhands-ai/agents-go/chatmodel"
	"github.com/openhands-ai/agents-go/mocks/mockllms"
	"github.com/openhands-ai/agents-go/pkg/llms"
)

func chatContext(t *testing.T) context.Context {
	t.Helper()
	chatCtx := chatmodel.NewChatContext("tenant1", "", nil)
	return chatmodel.WithChatContext(context.Background(), chatCtx)
}

func lastHumanText(t *testing.T, messages []llms.Message) string {
	t.Helper()
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role != llms.RoleHuman {
			continue
		}
		for _, part := range messages[i].Parts {
			if tc, ok := part.(llms.TextContent); ok {
				return tc.Text
			}
		}
	}
	return ""
}

func newMockModel(t *testing.T, answer string, captured *string) *mockllms.MockModel {
	t.Helper()
	ctrl := gomock.NewController(t)
	mockLLM := mockllms.NewMockModel(ctrl)
	mockLLM.EXPECT().GetProviderType().Return(llms.ProviderMock).AnyTimes()
	mockLLM.EXPECT().GetName().Return("mock-model").AnyTimes()
	mockLLM.EXPECT().GenerateContent(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, messages []llms.Message, _ ...llms.CallOption) (*llms.ContentResponse, error) {
			*captured = lastHumanText(t, messages)
			return &llms.ContentResponse{
				Choices: []*llms.ContentChoice{{Content: answer}},
			}, nil
		}).Times(1)
	return mockLLM
}

func Test_Planner_Tools(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLLM := mockllms.NewMockModel(ctrl)
	mockLLM.EXPECT().GetProviderType().Return(llms.ProviderMock).AnyTimes()

	planner := travelplanner.New(mockLLM)
	require.NotNil(t, planner.Agent())
	assert.Equal(t, "TravelPlanner", planner.Agent().Name())
	assert.Len(t, planner.Agent().GetTools(), 2)
}

func Test_PlanCityTour(t *testing.T) {
	var query string
	mockLLM := newMockModel(t, "Day 1: Eiffel Tower at 9:00.", &query)

	planner := travelplanner.New(mockLLM)
	out, err := planner.PlanCityTour(chatContext(t), "Paris", 0, "", "")
	require.NoError(t, err)
	assert.Equal(t, "Day 1: Eiffel Tower at 9:00.", out)
	assert.Equal(t,
		"Can you give me a nice 1-day trip around Paris with locations and times? "+
			"I'm travelling via public transportation.",
		query)
}

func Test_PlanCityTour_Preferences(t *testing.T) {
	var query string
	mockLLM := newMockModel(t, "ok", &query)

	planner := travelplanner.New(mockLLM)
	_, err := planner.PlanCityTour(chatContext(t), "Ho Chi Minh City", 2, "historical sites", "taxi")
	require.NoError(t, err)
	assert.Equal(t,
		"Can you give me a nice 2-day trip around Ho Chi Minh City with locations and times? "+
			"I'm particularly interested in historical sites. "+
			"I'm travelling via taxi transportation.",
		query)
}

func Test_GetLocationDetails(t *testing.T) {
	var query string
	mockLLM := newMockModel(t, "ok", &query)

	planner := travelplanner.New(mockLLM)
	_, err := planner.GetLocationDetails(chatContext(t), "Paris", "Louvre")
	require.NoError(t, err)
	assert.Equal(t,
		"Please provide detailed information about Louvre in Paris, "+
			"including opening hours, best times to visit, and any special considerations.",
		query)
}

func Test_OptimizeRoute(t *testing.T) {
	var query string
	mockLLM := newMockModel(t, "ok", &query)

	planner := travelplanner.New(mockLLM)
	_, err := planner.OptimizeRoute(chatContext(t), "Paris",
		[]string{"Eiffel Tower", "Louvre", "Montmartre"}, "9:00", "")
	require.NoError(t, err)
	assert.Equal(t,
		"Please help me optimize a route in Paris to visit these locations: "+
			"Eiffel Tower, Louvre, Montmartre. I'll start at 9:00 and use public transportation. "+
			"Please consider opening hours and travel times.",
		query)
}

func Test_EstimateTravelTime(t *testing.T) {
	var query string
	mockLLM := newMockModel(t, "ok", &query)

	planner := travelplanner.New(mockLLM)
	_, err := planner.EstimateTravelTime(chatContext(t), "Paris", "Louvre", "Versailles", "train")
	require.NoError(t, err)
	assert.Equal(t,
		"How long would it take to travel from Louvre to Versailles in Paris "+
			"using train transportation? Please provide route details.",
		query)
}
