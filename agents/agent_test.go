package agents_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/openhands-ai/agents-go/agents"
	"github.com/openhands-ai/agents-go/callbacks"
	"github.com/openhands-ai/agents-go/chatmodel"
	"github.com/openhands-ai/agents-go/encoding"
	"github.com/openhands-ai/agents-go/mocks/mockllms"
	"github.com/openhands-ai/agents-go/mocks/mocktools"
	"github.com/openhands-ai/agents-go/pkg/llms"
	"github.com/openhands-ai/agents-go/pkg/prompts"
	"github.com/openhands-ai/agents-go/store"
)

type yieldAdvice struct {
	Protocol string `json:"protocol"`
	Summary  string `json:"summary"`
}

func (a yieldAdvice) GetContent() string { return a.Summary }

func chatContext(t *testing.T) context.Context {
	t.Helper()
	chatCtx := chatmodel.NewChatContext("tenant1", "", nil)
	return chatmodel.WithChatContext(context.Background(), chatCtx)
}

func Test_Agent_BuilderMethods(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	systemPrompt := prompts.NewPromptTemplate("You are a helpful DeFi research assistant.", []string{})
	mockLLM := mockllms.NewMockModel(ctrl)
	mockLLM.EXPECT().GetProviderType().Return(llms.ProviderMock).AnyTimes()

	ag := agents.NewAgent[chatmodel.String](mockLLM, systemPrompt, agents.WithMode(encoding.ModePlainText))
	require.NotNil(t, ag)

	parser := encoding.NewSimpleOutputParser()
	ag = ag.WithOutputParser(parser)
	assert.NotNil(t, ag.OutputParser)

	ag.WithInputParser(func(input string) (string, error) {
		return "parsed: " + input, nil
	})

	ag = ag.WithName("YieldAdvisor")
	assert.Equal(t, "YieldAdvisor", ag.Name())

	ag = ag.WithDescription("Recommends staking strategies.")
	assert.Equal(t, "Recommends staking strategies.", ag.Description())

	assert.Empty(t, ag.GetTools())

	mockTool := mocktools.NewMockITool(ctrl)
	mockTool.EXPECT().Name().Return("get_yields").AnyTimes()
	mockTool.EXPECT().Description().Return("Returns current staking yields.").AnyTimes()
	mockTool.EXPECT().Parameters().Return(map[string]any{}).AnyTimes()

	ag = ag.WithTools(mockTool)
	// duplicate names are ignored
	ag = ag.WithTools(mockTool)
	require.Len(t, ag.GetTools(), 1)
	assert.Equal(t, "get_yields", ag.GetTools()[0].Name())

	assert.Empty(t, ag.LastRunMessages())
	assert.Empty(t, ag.GetPromptInputVariables())

	ag.WithPromptInputProvider(func(ctx context.Context, input string) (map[string]any, error) {
		return map[string]any{"region": "EU"}, nil
	})
}

func Test_Agent_GetSystemPrompt(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	systemPrompt := prompts.NewPromptTemplate("You advise on {{ topic }}.", []string{"topic"})
	mockLLM := mockllms.NewMockModel(ctrl)
	mockLLM.EXPECT().GetProviderType().Return(llms.ProviderMock).AnyTimes()

	ag := agents.NewAgent[chatmodel.String](mockLLM, systemPrompt, agents.WithMode(encoding.ModePlainText))

	_, err := ag.GetSystemPrompt(context.Background(), "q", nil)
	assert.Error(t, err)

	prompt, err := ag.GetSystemPrompt(context.Background(), "q", map[string]any{"topic": "staking"})
	require.NoError(t, err)
	assert.Equal(t, "You advise on staking.", prompt)

	// the provider output wins over static inputs
	ag.WithPromptInputProvider(func(ctx context.Context, input string) (map[string]any, error) {
		return map[string]any{"topic": "liquidity pools"}, nil
	})
	prompt, err = ag.GetSystemPrompt(context.Background(), "q", map[string]any{"topic": "staking"})
	require.NoError(t, err)
	assert.Equal(t, "You advise on liquidity pools.", prompt)
}

func Test_Agent_Run_RequiresChatContext(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	systemPrompt := prompts.NewPromptTemplate("You are a helpful assistant.", []string{})
	mockLLM := mockllms.NewMockModel(ctrl)
	mockLLM.EXPECT().GetProviderType().Return(llms.ProviderMock).AnyTimes()

	ag := agents.NewAgent[chatmodel.String](mockLLM, systemPrompt, agents.WithMode(encoding.ModePlainText))

	_, err := ag.Call(context.Background(), &agents.CallInput{Input: "hi"})
	assert.EqualError(t, err, "invalid chat context")
}

func Test_Agent_Run_Simple(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	systemPrompt := prompts.NewPromptTemplate("You are a helpful assistant.", []string{})
	mockLLM := mockllms.NewMockModel(ctrl)
	mockLLM.EXPECT().GetProviderType().Return(llms.ProviderMock).AnyTimes()
	mockLLM.EXPECT().GetName().Return("mock-model").AnyTimes()
	mockLLM.EXPECT().GenerateContent(gomock.Any(), gomock.Any(), gomock.Any()).Return(
		&llms.ContentResponse{
			Choices: []*llms.ContentChoice{
				{Content: "Lido offers about 3.8% APY."},
			},
		}, nil,
	).Times(1)

	memStore := store.NewMemoryStore()
	ag := agents.NewAgent[chatmodel.String](mockLLM, systemPrompt,
		agents.WithMode(encoding.ModePlainText),
		agents.WithStore(memStore),
	).WithName("YieldAdvisor")

	ctx := chatContext(t)
	var out chatmodel.String
	resp, err := ag.Run(ctx, &agents.CallInput{Input: "What is the Lido APY?"}, &out)
	require.NoError(t, err)
	require.Len(t, resp.Choices, 1)
	assert.Equal(t, "Lido offers about 3.8% APY.", out.GetContent())

	// the human question and the answer are persisted
	stored := memStore.Messages(ctx)
	require.Len(t, stored, 2)
	assert.Equal(t, llms.RoleHuman, stored[0].Role)
	assert.Equal(t, llms.RoleAI, stored[1].Role)

	run := ag.LastRunMessages()
	require.Len(t, run, 2)
}

func Test_Agent_Run_EmptyResponseRetries(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	systemPrompt := prompts.NewPromptTemplate("You are a helpful assistant.", []string{})
	mockLLM := mockllms.NewMockModel(ctrl)
	mockLLM.EXPECT().GetProviderType().Return(llms.ProviderMock).AnyTimes()
	mockLLM.EXPECT().GetName().Return("mock-model").AnyTimes()
	mockLLM.EXPECT().GenerateContent(gomock.Any(), gomock.Any(), gomock.Any()).Return(
		&llms.ContentResponse{}, nil,
	).Times(agents.DefaultMaxRetries)

	ag := agents.NewAgent[chatmodel.String](mockLLM, systemPrompt,
		agents.WithMode(encoding.ModePlainText),
	).WithName("YieldAdvisor")

	_, err := ag.Call(chatContext(t), &agents.CallInput{Input: "hello"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty response after")
}

func Test_Agent_Run_ToolCalls(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	systemPrompt := prompts.NewPromptTemplate("You are a DeFi advisor.", []string{})
	mockLLM := mockllms.NewMockModel(ctrl)
	mockLLM.EXPECT().GetProviderType().Return(llms.ProviderMock).AnyTimes()
	mockLLM.EXPECT().GetName().Return("mock-model").AnyTimes()

	first := mockLLM.EXPECT().GenerateContent(gomock.Any(), gomock.Any(), gomock.Any()).Return(
		&llms.ContentResponse{
			Choices: []*llms.ContentChoice{
				{
					ToolCalls: []llms.ToolCall{
						{
							ID:   "call_1",
							Type: "function",
							FunctionCall: &llms.FunctionCall{
								Name:      "get_yields",
								Arguments: `{"protocol":"lido"}`,
							},
						},
					},
				},
			},
		}, nil,
	)
	mockLLM.EXPECT().GenerateContent(gomock.Any(), gomock.Any(), gomock.Any()).Return(
		&llms.ContentResponse{
			Choices: []*llms.ContentChoice{
				{Content: "Lido pays 3.8% APY."},
			},
		}, nil,
	).After(first)

	mockTool := mocktools.NewMockITool(ctrl)
	mockTool.EXPECT().Name().Return("get_yields").AnyTimes()
	mockTool.EXPECT().Description().Return("Returns current staking yields.").AnyTimes()
	mockTool.EXPECT().Parameters().Return(map[string]any{}).AnyTimes()
	mockTool.EXPECT().Call(gomock.Any(), `{"protocol":"lido"}`).Return(`{"apy":0.038}`, nil).Times(1)

	ag := agents.NewAgent[chatmodel.String](mockLLM, systemPrompt,
		agents.WithMode(encoding.ModePlainText),
	).WithName("YieldAdvisor").WithTools(mockTool)

	var out chatmodel.String
	resp, err := ag.Run(chatContext(t), &agents.CallInput{Input: "What is the Lido APY?"}, &out)
	require.NoError(t, err)
	require.Len(t, resp.Choices, 1)
	assert.Equal(t, "Lido pays 3.8% APY.", out.GetContent())

	// question, tool call, tool response, answer
	run := ag.LastRunMessages()
	require.Len(t, run, 4)
	assert.Equal(t, llms.RoleHuman, run[0].Role)
	assert.Equal(t, llms.RoleAI, run[1].Role)
	assert.Equal(t, llms.RoleTool, run[2].Role)
	assert.Equal(t, llms.RoleAI, run[3].Role)
}

func Test_Agent_Run_ToolNotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	systemPrompt := prompts.NewPromptTemplate("You are a DeFi advisor.", []string{})
	mockLLM := mockllms.NewMockModel(ctrl)
	mockLLM.EXPECT().GetProviderType().Return(llms.ProviderMock).AnyTimes()
	mockLLM.EXPECT().GetName().Return("mock-model").AnyTimes()

	var unknownCalls []llms.ToolCall
	for i := 0; i < 4; i++ {
		unknownCalls = append(unknownCalls, llms.ToolCall{
			Type: "function",
			FunctionCall: &llms.FunctionCall{
				Name:      "nonexistent_tool",
				Arguments: `{}`,
			},
		})
	}
	mockLLM.EXPECT().GenerateContent(gomock.Any(), gomock.Any(), gomock.Any()).Return(
		&llms.ContentResponse{
			Choices: []*llms.ContentChoice{{ToolCalls: unknownCalls}},
		}, nil,
	).Times(1)

	mockTool := mocktools.NewMockITool(ctrl)
	mockTool.EXPECT().Name().Return("get_yields").AnyTimes()
	mockTool.EXPECT().Description().Return("Returns current staking yields.").AnyTimes()
	mockTool.EXPECT().Parameters().Return(map[string]any{}).AnyTimes()

	ag := agents.NewAgent[chatmodel.String](mockLLM, systemPrompt,
		agents.WithMode(encoding.ModePlainText),
	).WithName("YieldAdvisor").WithTools(mockTool)

	_, err := ag.Call(chatContext(t), &agents.CallInput{Input: "What is the Lido APY?"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found tools is exceeded")
}

func Test_Agent_Run_ToolNotFound_Concurrent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	systemPrompt := prompts.NewPromptTemplate("You are a DeFi advisor.", []string{})
	mockLLM := mockllms.NewMockModel(ctrl)
	mockLLM.EXPECT().GetProviderType().Return(llms.ProviderMock).AnyTimes()
	mockLLM.EXPECT().GetName().Return("mock-model").AnyTimes()

	// Three unknown tools in one response run on separate goroutines;
	// every miss must be counted.
	var unknownCalls []llms.ToolCall
	for i := 0; i < 3; i++ {
		unknownCalls = append(unknownCalls, llms.ToolCall{
			Type: "function",
			FunctionCall: &llms.FunctionCall{
				Name:      "nonexistent_tool",
				Arguments: `{}`,
			},
		})
	}
	first := mockLLM.EXPECT().GenerateContent(gomock.Any(), gomock.Any(), gomock.Any()).Return(
		&llms.ContentResponse{
			Choices: []*llms.ContentChoice{{ToolCalls: unknownCalls}},
		}, nil,
	).Times(1)
	mockLLM.EXPECT().GenerateContent(gomock.Any(), gomock.Any(), gomock.Any()).Return(
		&llms.ContentResponse{
			Choices: []*llms.ContentChoice{{Content: "No data available."}},
		}, nil,
	).Times(1).After(first)

	mockTool := mocktools.NewMockITool(ctrl)
	mockTool.EXPECT().Name().Return("get_yields").AnyTimes()
	mockTool.EXPECT().Description().Return("Returns current staking yields.").AnyTimes()
	mockTool.EXPECT().Parameters().Return(map[string]any{}).AnyTimes()

	pad := callbacks.NewScratchpad(callbacks.ModeDefault)
	ag := agents.NewAgent[chatmodel.String](mockLLM, systemPrompt,
		agents.WithMode(encoding.ModePlainText),
		agents.WithCallback(pad),
	).WithName("YieldAdvisor").WithTools(mockTool)

	ctx := chatContext(t)
	pad.StartRun(ctx)

	var out chatmodel.String
	_, err := ag.Run(ctx, &agents.CallInput{Input: "What is the Lido APY?"}, &out)
	require.NoError(t, err)
	assert.Equal(t, "No data available.", out.GetContent())

	stats, _ := pad.EndRun(ctx)
	require.NotNil(t, stats)
	assert.EqualValues(t, 3, stats.ToolNotFound)
}

func Test_Agent_Run_MaxMessages(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	systemPrompt := prompts.NewPromptTemplate("You are a helpful assistant.", []string{})
	mockLLM := mockllms.NewMockModel(ctrl)
	mockLLM.EXPECT().GetProviderType().Return(llms.ProviderMock).AnyTimes()
	mockLLM.EXPECT().GetName().Return("mock-model").AnyTimes()

	ag := agents.NewAgent[chatmodel.String](mockLLM, systemPrompt,
		agents.WithMode(encoding.ModePlainText),
		agents.WithMaxMessages(1),
	).WithName("YieldAdvisor")

	_, err := ag.Call(chatContext(t), &agents.CallInput{Input: "hello"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "messages count exceeded limit")
}

func Test_Agent_Run_TypedOutput(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	systemPrompt := prompts.NewPromptTemplate("You are a DeFi advisor.", []string{})
	mockLLM := mockllms.NewMockModel(ctrl)
	mockLLM.EXPECT().GetProviderType().Return(llms.ProviderMock).AnyTimes()
	mockLLM.EXPECT().GetName().Return("mock-model").AnyTimes()
	mockLLM.EXPECT().GenerateContent(gomock.Any(), gomock.Any(), gomock.Any()).Return(
		&llms.ContentResponse{
			Choices: []*llms.ContentChoice{
				{Content: `{"protocol":"lido","summary":"Strong staking option."}`},
			},
		}, nil,
	).Times(1)

	ag := agents.NewAgent[yieldAdvice](mockLLM, systemPrompt).WithName("YieldAdvisor")

	var out yieldAdvice
	_, err := ag.Run(chatContext(t), &agents.CallInput{Input: "Advise on Lido."}, &out)
	require.NoError(t, err)
	assert.Equal(t, "lido", out.Protocol)
	assert.Equal(t, "Strong staking option.", out.Summary)
}

func Test_Agent_Run_ParseError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	systemPrompt := prompts.NewPromptTemplate("You are a DeFi advisor.", []string{})
	mockLLM := mockllms.NewMockModel(ctrl)
	mockLLM.EXPECT().GetProviderType().Return(llms.ProviderMock).AnyTimes()
	mockLLM.EXPECT().GetName().Return("mock-model").AnyTimes()
	mockLLM.EXPECT().GenerateContent(gomock.Any(), gomock.Any(), gomock.Any()).Return(
		&llms.ContentResponse{
			Choices: []*llms.ContentChoice{
				{Content: `not a json document`},
			},
		}, nil,
	).Times(1)

	ag := agents.NewAgent[yieldAdvice](mockLLM, systemPrompt).WithName("YieldAdvisor")

	var out yieldAdvice
	_, err := ag.Run(chatContext(t), &agents.CallInput{Input: "Advise on Lido."}, &out)
	require.Error(t, err)
}

func Test_GetDescriptions_MapAgents(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	systemPrompt := prompts.NewPromptTemplate("You are a helpful assistant.", []string{})
	mockLLM := mockllms.NewMockModel(ctrl)
	mockLLM.EXPECT().GetProviderType().Return(llms.ProviderMock).AnyTimes()

	a1 := agents.NewAgent[chatmodel.String](mockLLM, systemPrompt, agents.WithMode(encoding.ModePlainText)).
		WithName("YieldAdvisor").
		WithDescription("Recommends staking strategies.")
	a2 := agents.NewAgent[chatmodel.String](mockLLM, systemPrompt, agents.WithMode(encoding.ModePlainText)).
		WithName("TravelPlanner").
		WithDescription("Plans trips.")

	desc := agents.GetDescriptions(a1, a2)
	assert.Equal(t, "- `YieldAdvisor`: Recommends staking strategies.\n- `TravelPlanner`: Plans trips.\n", desc)

	m := agents.MapAgents(a1, a2)
	require.Len(t, m, 2)
	assert.Equal(t, "Plans trips.", m["TravelPlanner"].Description())

	assert.Nil(t, agents.MapAgents())
}
