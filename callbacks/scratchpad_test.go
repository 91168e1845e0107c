package callbacks_test

import (
	"context"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/openhands-ai/agents-go/callbacks"
	"github.com/openhands-ai/agents-go/chatmodel"
	"github.com/openhands-ai/agents-go/mocks/mocktools"
	"github.com/openhands-ai/agents-go/pkg/llms"
)

func scratchpadContext() context.Context {
	chatCtx := chatmodel.NewChatContext("tenant1", "chat1", nil)
	return chatmodel.WithChatContext(context.Background(), chatCtx)
}

func Test_Scratchpad(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	callbacks.TimeNowFn = func() time.Time {
		return time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	}
	t.Cleanup(func() { callbacks.TimeNowFn = time.Now })

	ag, mockLLM := newTestAgent(t, ctrl)

	mockTool := mocktools.NewMockITool(ctrl)
	mockTool.EXPECT().Name().Return("CalculateROI").AnyTimes()

	ctx := scratchpadContext()
	pad := callbacks.NewScratchpad(callbacks.ModeVerbose)
	pad.StartRun(ctx)

	pad.OnAgentStart(ctx, ag, "Analyze ROI for 10 ETH in Lido")
	pad.OnAgentLLMCallStart(ctx, ag, mockLLM, []llms.Message{
		llms.MessageFromTextParts(llms.RoleHuman, "Analyze ROI for 10 ETH in Lido"),
	})
	pad.OnAgentLLMCallEnd(ctx, ag, mockLLM, &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: "ROI is 1.7%"}},
	})
	pad.OnToolStart(ctx, mockTool, ag.Name(), `{"Amount":10}`)
	pad.OnToolEnd(ctx, mockTool, ag.Name(), `{"Amount":10}`, "ROI: 1.70%")
	pad.OnToolError(ctx, mockTool, ag.Name(), "{}", errors.New("boom"))
	pad.OnToolNotFound(ctx, ag, "NoSuchTool")
	pad.OnAgentEnd(ctx, ag, "Analyze ROI for 10 ETH in Lido", &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: "ROI is 1.7%"}},
	}, nil)

	stats, transcript := pad.EndRun(ctx)
	require.NotNil(t, stats)
	assert.Equal(t, "chat1", stats.ChatID)
	assert.Equal(t, uint32(1), stats.AgentCalls)
	assert.Equal(t, uint32(1), stats.AgentCallsSucceeded)
	assert.Equal(t, uint32(0), stats.AgentCallsFailed)
	assert.Equal(t, uint32(1), stats.AgentLLMCalls)
	assert.Equal(t, uint32(1), stats.TotalMessages)
	assert.Equal(t, uint32(1), stats.ToolsCalls)
	assert.Equal(t, uint32(1), stats.ToolsCallsSucceeded)
	assert.Equal(t, uint32(1), stats.ToolsCallsFailed)
	assert.Equal(t, uint32(1), stats.ToolNotFound)

	out := string(transcript)
	assert.Contains(t, out, "2025-01-02 03:04:05 chat1 *** Run Started ***")
	assert.Contains(t, out, "YieldAdvisor *** Agent Start ***")
	assert.Contains(t, out, "YieldAdvisor *** LLM Call *** mock-model model, 1 messages")
	assert.Contains(t, out, "YieldAdvisor CalculateROI *** Tool Start ***")
	assert.Contains(t, out, "YieldAdvisor CalculateROI Output: ROI: 1.70%")
	assert.Contains(t, out, "YieldAdvisor CalculateROI *** Tool Error *** boom")
	assert.Contains(t, out, "YieldAdvisor *** Tool Not Found *** NoSuchTool")
	assert.Contains(t, out, "YieldAdvisor *** Agent End ***")
	assert.Contains(t, out, "*** Run Ended. Duration:")
}

func Test_Scratchpad_ChatRunMetric(t *testing.T) {
	cfg := metrics.DefaultConfig("")
	cfg.EnableRuntimeMetrics = false
	sink := metrics.NewInmemSink(time.Minute, time.Minute)
	_, err := metrics.NewGlobal(cfg, sink)
	require.NoError(t, err)

	ctx := scratchpadContext()
	pad := callbacks.NewScratchpad(callbacks.ModeDefault)
	pad.StartRun(ctx)

	stats, _ := pad.EndRun(ctx)
	require.NotNil(t, stats)

	data := sink.Data()
	require.NotEmpty(t, data)
	_, ok := data[len(data)-1].Samples["perf_chat_run;tenant=tenant1"]
	assert.True(t, ok, "run duration sample should be emitted with the tenant tag")
}

func Test_Scratchpad_NoContext(t *testing.T) {
	pad := callbacks.NewScratchpad(callbacks.ModeDefault)

	// events without a chat context are dropped
	pad.StartRun(context.Background())
	stats, transcript := pad.EndRun(context.Background())
	assert.Nil(t, stats)
	assert.Nil(t, transcript)
}
