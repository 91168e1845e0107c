package callbacks

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/openhands-ai/agents-go/agents"
	"github.com/openhands-ai/agents-go/chatmodel"
	"github.com/openhands-ai/agents-go/pkg/llms"
	"github.com/openhands-ai/agents-go/pkg/llmutils"
	"github.com/openhands-ai/agents-go/pkg/metricskey"
	"github.com/openhands-ai/agents-go/tools"
)

var _ agents.Callback = (*Scratchpad)(nil)

// TimeNowFn is replaceable in tests.
var TimeNowFn = time.Now

// RunStats aggregates the counters of a single chat run.
type RunStats struct {
	ChatID string

	Duration            time.Duration
	TotalMessages       uint32
	LLMBytesOut         uint64
	LLMBytesIn          uint64
	LLMInputTokens      uint64
	LLMOutputTokens     uint64
	AgentCalls          uint32
	AgentCallsSucceeded uint32
	AgentCallsFailed    uint32
	AgentLLMCalls       uint32
	ToolsCalls          uint32
	ToolsCallsSucceeded uint32
	ToolsCallsFailed    uint32
	ToolNotFound        uint32
}

// Scratchpad records a timestamped transcript and counters per chat
// run, keyed by the chat ID from the context.
type Scratchpad struct {
	runs map[string]*run
	mode Mode
	lock sync.Mutex
}

func NewScratchpad(mode Mode) *Scratchpad {
	return &Scratchpad{
		runs: make(map[string]*run),
		mode: mode,
	}
}

// StartRun begins recording for the chat in the context.
func (l *Scratchpad) StartRun(ctx context.Context) {
	l.lock.Lock()
	defer l.lock.Unlock()

	chatCtx := chatmodel.GetChatContext(ctx)
	if chatCtx == nil {
		return
	}
	l.runs[chatCtx.GetChatID()] = &run{
		stats: RunStats{
			ChatID: chatCtx.GetChatID(),
		},
		chatCtx: chatCtx,
		started: time.Now(),
	}

	l.runs[chatCtx.GetChatID()].print("*** Run Started ***")
}

// EndRun stops recording and returns the stats and the transcript.
func (l *Scratchpad) EndRun(ctx context.Context) (*RunStats, []byte) {
	run := l.getRun(ctx)
	if run == nil {
		return nil, nil
	}

	stats := run.stats
	stats.Duration = time.Since(run.started)
	metricskey.PerfChatRun.MeasureSince(run.started, run.chatCtx.GetTenantID())

	run.print(fmt.Sprintf("Agent calls: %d, Failed: %d",
		stats.AgentCalls,
		stats.AgentCallsFailed,
	))
	run.print(fmt.Sprintf("Tool calls: %d, Failed: %d, Not Found: %d",
		stats.ToolsCalls,
		stats.ToolsCallsFailed,
		stats.ToolNotFound,
	))
	run.print(fmt.Sprintf("LLM calls: %d, Messages: %d, Bytes Out: %d, Bytes In: %d, Input Tokens: %d, Output Tokens: %d",
		stats.AgentLLMCalls,
		stats.TotalMessages,
		stats.LLMBytesOut,
		stats.LLMBytesIn,
		stats.LLMInputTokens,
		stats.LLMOutputTokens,
	))

	run.print(fmt.Sprintf("*** Run Ended. Duration: %s ***", stats.Duration))

	l.lock.Lock()
	delete(l.runs, run.chatCtx.GetChatID())
	l.lock.Unlock()

	return &stats, run.w.Bytes()
}

func (l *Scratchpad) getRun(ctx context.Context) *run {
	l.lock.Lock()
	defer l.lock.Unlock()

	chatCtx := chatmodel.GetChatContext(ctx)
	if chatCtx == nil {
		return nil
	}

	return l.runs[chatCtx.GetChatID()]
}

func (l *Scratchpad) OnAgentStart(ctx context.Context, agent agents.IAgent, input string) {
	run := l.getRun(ctx)
	if run == nil {
		return
	}
	atomic.AddUint32(&run.stats.AgentCalls, 1)
	run.print(agent.Name(), "*** Agent Start ***")
	run.print(agent.Name(), "Input:", input)
}

func (l *Scratchpad) OnAgentEnd(ctx context.Context, agent agents.IAgent, input string, resp *llms.ContentResponse, messages []llms.Message) {
	run := l.getRun(ctx)
	if run == nil {
		return
	}
	atomic.AddUint32(&run.stats.AgentCallsSucceeded, 1)
	atomic.AddUint64(&run.stats.LLMBytesIn, uint64(llmutils.CountResponseContentSize(resp)))

	if l.mode == ModeVerbose {
		run.print(agent.Name(), "Output:")
		for _, choice := range resp.Choices {
			if choice.Content != "" {
				run.print(choice.Content)
			}
		}
		run.print(agent.Name(), l.printMessages(messages))
	}
	run.print(agent.Name(), "*** Agent End ***")
}

func (l *Scratchpad) OnAgentError(ctx context.Context, agent agents.IAgent, input string, err error, messages []llms.Message) {
	run := l.getRun(ctx)
	if run == nil {
		return
	}
	atomic.AddUint32(&run.stats.AgentCallsFailed, 1)
	run.print(agent.Name(), "*** Error ***", err.Error())
	run.print(agent.Name(), l.printMessages(messages))
}

func (l *Scratchpad) printMessages(messages []llms.Message) string {
	var buf strings.Builder
	buf.WriteString("Messages:\n")
	for idx, msg := range messages {
		fmt.Fprintf(&buf, "[%d] %s:\n", idx, msg.Role)
		textParts := 0
		toolParts := 0
		toolResponseParts := 0
		for _, part := range msg.Parts {
			switch typ := part.(type) {
			case llms.TextContent:
				textParts++
			case llms.ToolCall:
				toolParts++
				buf.WriteString("  - ")
				buf.WriteString(typ.String())
				buf.WriteString("\n")
			case llms.ToolCallResponse:
				toolResponseParts++
				buf.WriteString("  - ")
				buf.WriteString(typ.String())
				buf.WriteString("\n")
			}
		}

		fmt.Fprintf(&buf, "  - %d texts, %d tool calls, %d tool responses\n", textParts, toolParts, toolResponseParts)
	}
	return buf.String()
}

func (l *Scratchpad) OnAgentLLMCallStart(ctx context.Context, agent agents.IAgent, llm llms.Model, payload []llms.Message) {
	run := l.getRun(ctx)
	if run == nil {
		return
	}

	atomic.AddUint64(&run.stats.LLMBytesOut, uint64(llmutils.CountMessagesContentSize(payload)))
	atomic.AddUint32(&run.stats.AgentLLMCalls, 1)
	count := uint32(len(payload))
	atomic.AddUint32(&run.stats.TotalMessages, count)

	run.print(agent.Name(), "*** LLM Call ***", fmt.Sprintf("%s model, %d messages", llm.GetName(), count))
	if l.mode == ModeVerbose {
		run.print(agent.Name(), l.printMessages(payload))
	}
}

func (l *Scratchpad) OnAgentLLMCallEnd(ctx context.Context, agent agents.IAgent, llm llms.Model, resp *llms.ContentResponse) {
	run := l.getRun(ctx)
	if run == nil {
		return
	}

	tokensIn, tokensOut := llmutils.CountTokens(resp)
	atomic.AddUint64(&run.stats.LLMInputTokens, uint64(tokensIn))
	atomic.AddUint64(&run.stats.LLMOutputTokens, uint64(tokensOut))

	run.print(agent.Name(), "*** LLM Call End ***", fmt.Sprintf("%s model, %d input tokens, %d output tokens", llm.GetName(), tokensIn, tokensOut))
}

func (l *Scratchpad) OnAgentLLMParseError(ctx context.Context, agent agents.IAgent, input string, response string, err error) {
	run := l.getRun(ctx)
	if run == nil {
		return
	}
	atomic.AddUint32(&run.stats.AgentCallsFailed, 1)
	run.print(agent.Name(), "*** LLM Parse Error ***", err.Error())
	run.print("Response:", response)
}

func (l *Scratchpad) OnToolStart(ctx context.Context, tool tools.ITool, agentName, input string) {
	run := l.getRun(ctx)
	if run == nil {
		return
	}
	atomic.AddUint32(&run.stats.ToolsCalls, 1)
	run.print(agentName, tool.Name(), "*** Tool Start ***")
	run.print(agentName, tool.Name(), "Input:", input)
}

func (l *Scratchpad) OnToolEnd(ctx context.Context, tool tools.ITool, agentName, input, output string) {
	run := l.getRun(ctx)
	if run == nil {
		return
	}
	atomic.AddUint32(&run.stats.ToolsCallsSucceeded, 1)
	if l.mode == ModeVerbose {
		run.print(agentName, tool.Name(), "Output:", output)
	}
	run.print(agentName, tool.Name(), "*** Tool End ***")
}

func (l *Scratchpad) OnToolError(ctx context.Context, tool tools.ITool, agentName, input string, err error) {
	run := l.getRun(ctx)
	if run == nil {
		return
	}
	atomic.AddUint32(&run.stats.ToolsCallsFailed, 1)
	run.print(agentName, tool.Name(), "*** Tool Error ***", err.Error())
}

func (l *Scratchpad) OnToolNotFound(ctx context.Context, agent agents.IAgent, tool string) {
	run := l.getRun(ctx)
	if run == nil {
		return
	}
	atomic.AddUint32(&run.stats.ToolNotFound, 1)
	run.print(agent.Name(), "*** Tool Not Found ***", tool)
}

type run struct {
	chatCtx chatmodel.ChatContext
	w       bytes.Buffer
	started time.Time
	lock    sync.Mutex
	stats   RunStats
}

// print writes the entries as "[timestamp chatID] entry entry\n".
func (r *run) print(entries ...string) {
	r.lock.Lock()
	defer r.lock.Unlock()

	now := TimeNowFn()
	ts := now.Format("2006-01-02 15:04:05")

	_, _ = r.w.WriteString(ts)
	_, _ = r.w.WriteString(" ")
	_, _ = r.w.WriteString(r.chatCtx.GetChatID())
	_, _ = r.w.WriteString(" ")

	for i, entry := range entries {
		if i > 0 {
			_, _ = r.w.WriteString(" ")
		}
		_, _ = r.w.WriteString(entry)
	}
	_, _ = r.w.WriteString("\n")
}
