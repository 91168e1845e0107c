package callbacks_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/cockroachdb/errors"
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
)

func newTestAgent(t *testing.T, ctrl *gomock.Controller) (agents.IAgent, *mockllms.MockModel) {
	t.Helper()
	mockLLM := mockllms.NewMockModel(ctrl)
	mockLLM.EXPECT().GetProviderType().Return(llms.ProviderMock).AnyTimes()
	mockLLM.EXPECT().GetName().Return("mock-model").AnyTimes()

	sysprompt := prompts.NewPromptTemplate("You are a DeFi advisor.", nil)
	ag := agents.NewAgent[chatmodel.String](mockLLM, sysprompt,
		agents.WithMode(encoding.ModePlainText)).
		WithName("YieldAdvisor")
	return ag, mockLLM
}

func Test_Printer(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ag, mockLLM := newTestAgent(t, ctrl)

	mockTool := mocktools.NewMockITool(ctrl)
	mockTool.EXPECT().Name().Return("GetETHYieldStrategies").AnyTimes()

	ctx := context.Background()
	var buf bytes.Buffer
	printer := callbacks.NewPrinter(&buf, callbacks.ModeVerbose)

	printer.OnAgentStart(ctx, ag, "What is the best yield for 10 ETH?")
	printer.OnAgentLLMCallStart(ctx, ag, mockLLM, []llms.Message{
		llms.MessageFromTextParts(llms.RoleHuman, "What is the best yield for 10 ETH?"),
	})
	printer.OnToolStart(ctx, mockTool, ag.Name(), "{}")
	printer.OnToolEnd(ctx, mockTool, ag.Name(), "{}", "Lido: 3.8%")
	printer.OnToolError(ctx, mockTool, ag.Name(), "{}", errors.New("boom"))
	printer.OnToolNotFound(ctx, ag, "NoSuchTool")
	printer.OnAgentLLMCallEnd(ctx, ag, mockLLM, &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: "Lido looks best."}},
	})
	printer.OnAgentLLMParseError(ctx, ag, "in", "not json", errors.New("parse failed"))
	printer.OnAgentEnd(ctx, ag, "in", &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: "Lido looks best."}},
	}, nil)
	printer.OnAgentError(ctx, ag, "in", errors.New("agent failed"), nil)

	out := buf.String()
	assert.Contains(t, out, "Agent Start: YieldAdvisor")
	assert.Contains(t, out, "Input: What is the best yield for 10 ETH?")
	assert.Contains(t, out, "Agent LLM Call: YieldAdvisor: mock-model model, 1 messages")
	assert.Contains(t, out, "Tool Start: GetETHYieldStrategies (YieldAdvisor)")
	assert.Contains(t, out, "Tool End: GetETHYieldStrategies (YieldAdvisor)")
	assert.Contains(t, out, "Output: Lido: 3.8%")
	assert.Contains(t, out, "Tool Error: GetETHYieldStrategies (YieldAdvisor): boom")
	assert.Contains(t, out, "Tool Not Found: NoSuchTool")
	assert.Contains(t, out, "Agent LLM Call End: YieldAdvisor: mock-model model, 1 choices")
	assert.Contains(t, out, "Agent LLM Parse Error: YieldAdvisor: parse failed")
	assert.Contains(t, out, "Agent End: YieldAdvisor")
	assert.Contains(t, out, "Lido looks best.")
	assert.Contains(t, out, "Agent Error: YieldAdvisor: agent failed")
}

func Test_Printer_DefaultMode(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ag, _ := newTestAgent(t, ctrl)

	mockTool := mocktools.NewMockITool(ctrl)
	mockTool.EXPECT().Name().Return("GetETHYieldStrategies").AnyTimes()

	ctx := context.Background()
	var buf bytes.Buffer
	printer := callbacks.NewPrinter(&buf, callbacks.ModeDefault)

	printer.OnToolEnd(ctx, mockTool, ag.Name(), "{}", "Lido: 3.8%")
	printer.OnAgentEnd(ctx, ag, "in", &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: "Lido looks best."}},
	}, nil)

	out := buf.String()
	assert.Contains(t, out, "Tool End: GetETHYieldStrategies (YieldAdvisor)")
	assert.NotContains(t, out, "Lido: 3.8%")
	assert.NotContains(t, out, "Lido looks best.")
}

func Test_Fanout(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ag, _ := newTestAgent(t, ctrl)

	ctx := context.Background()
	var buf1, buf2 bytes.Buffer
	fanout := callbacks.NewFanout(
		callbacks.NewNoop(),
		callbacks.NewPrinter(&buf1, callbacks.ModeDefault),
	)
	fanout.Add(callbacks.NewPrinter(&buf2, callbacks.ModeDefault))

	fanout.OnAgentStart(ctx, ag, "hello")
	fanout.OnAgentEnd(ctx, ag, "hello", &llms.ContentResponse{}, nil)

	require.Contains(t, buf1.String(), "Agent Start: YieldAdvisor")
	assert.Equal(t, buf1.String(), buf2.String())
}
