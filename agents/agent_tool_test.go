package agents_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/openhands-ai/agents-go/agents"
	"github.com/openhands-ai/agents-go/chatmodel"
	"github.com/openhands-ai/agents-go/mocks/mockllms"
	"github.com/openhands-ai/agents-go/pkg/llms"
	"github.com/openhands-ai/agents-go/pkg/prompts"
)

type protocolQuestion struct {
	Question string `json:"question" jsonschema:"description=The question about a DeFi protocol."`
}

func (q protocolQuestion) GetContent() string { return q.Question }

func Test_AgentTool(t *testing.T) {
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
	).AnyTimes()

	ag := agents.NewAgent[yieldAdvice](mockLLM, systemPrompt).
		WithName("YieldAdvisor").
		WithDescription("Recommends staking strategies.")

	tool, err := agents.NewAgentTool[protocolQuestion](ag)
	require.NoError(t, err)

	assert.Equal(t, "YieldAdvisor", tool.Name())
	assert.Equal(t, "Recommends staking strategies.", tool.Description())
	assert.NotNil(t, tool.Parameters())

	tool = tool.WithName("yield_advisor").WithDescription("Delegates to the yield advisor.")
	assert.Equal(t, "yield_advisor", tool.Name())
	assert.Equal(t, "Delegates to the yield advisor.", tool.Description())

	ctx := chatContext(t)
	res, err := tool.Call(ctx, `{"question":"Should I stake with Lido?"}`)
	require.NoError(t, err)
	assert.Contains(t, res, "Strong staking option.")

	// malformed input is reported as a schema error
	_, err = tool.Call(ctx, `not json`)
	require.Error(t, err)
	assert.ErrorIs(t, err, chatmodel.ErrFailedUnmarshalInput)
}
