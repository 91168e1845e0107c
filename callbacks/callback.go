// Package callbacks provides ready-made agent callback handlers:
// a no-op, a writer printer, a structured logger, and a fanout that
// forwards events to several handlers.
package callbacks

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/effective-security/xlog"

	"github.com/openhands-ai/agents-go/agents"
	"github.com/openhands-ai/agents-go/pkg/llms"
	"github.com/openhands-ai/agents-go/tools"
)

var (
	_ agents.Callback = (*Noop)(nil)
	_ agents.Callback = (*Printer)(nil)
	_ agents.Callback = (*PackageLogger)(nil)
	_ agents.Callback = (*Fanout)(nil)
)

// Mode defines the verbosity of the printing callbacks.
type Mode int

const (
	// ModeDefault prints event boundaries only.
	ModeDefault Mode = iota
	// ModeVerbose also prints payloads and outputs.
	ModeVerbose
)

// Fanout forwards the events to multiple callbacks.
type Fanout struct {
	callbacks []agents.Callback
}

func NewFanout(callbacks ...agents.Callback) *Fanout {
	return &Fanout{callbacks: callbacks}
}

func (l *Fanout) Add(callback agents.Callback) {
	l.callbacks = append(l.callbacks, callback)
}

func (l *Fanout) OnAgentStart(ctx context.Context, agent agents.IAgent, input string) {
	for _, callback := range l.callbacks {
		callback.OnAgentStart(ctx, agent, input)
	}
}

func (l *Fanout) OnAgentEnd(ctx context.Context, agent agents.IAgent, input string, resp *llms.ContentResponse, messages []llms.Message) {
	for _, callback := range l.callbacks {
		callback.OnAgentEnd(ctx, agent, input, resp, messages)
	}
}

func (l *Fanout) OnAgentError(ctx context.Context, agent agents.IAgent, input string, err error, messages []llms.Message) {
	for _, callback := range l.callbacks {
		callback.OnAgentError(ctx, agent, input, err, messages)
	}
}

func (l *Fanout) OnAgentLLMCallStart(ctx context.Context, agent agents.IAgent, llm llms.Model, payload []llms.Message) {
	for _, callback := range l.callbacks {
		callback.OnAgentLLMCallStart(ctx, agent, llm, payload)
	}
}

func (l *Fanout) OnAgentLLMCallEnd(ctx context.Context, agent agents.IAgent, llm llms.Model, resp *llms.ContentResponse) {
	for _, callback := range l.callbacks {
		callback.OnAgentLLMCallEnd(ctx, agent, llm, resp)
	}
}

func (l *Fanout) OnAgentLLMParseError(ctx context.Context, agent agents.IAgent, input string, response string, err error) {
	for _, callback := range l.callbacks {
		callback.OnAgentLLMParseError(ctx, agent, input, response, err)
	}
}

func (l *Fanout) OnToolStart(ctx context.Context, tool tools.ITool, agentName, input string) {
	for _, callback := range l.callbacks {
		callback.OnToolStart(ctx, tool, agentName, input)
	}
}

func (l *Fanout) OnToolEnd(ctx context.Context, tool tools.ITool, agentName, input, output string) {
	for _, callback := range l.callbacks {
		callback.OnToolEnd(ctx, tool, agentName, input, output)
	}
}

func (l *Fanout) OnToolError(ctx context.Context, tool tools.ITool, agentName, input string, err error) {
	for _, callback := range l.callbacks {
		callback.OnToolError(ctx, tool, agentName, input, err)
	}
}

func (l *Fanout) OnToolNotFound(ctx context.Context, agent agents.IAgent, tool string) {
	for _, callback := range l.callbacks {
		callback.OnToolNotFound(ctx, agent, tool)
	}
}

// Noop does nothing.
type Noop struct{}

func NewNoop() *Noop {
	return &Noop{}
}

func (l *Noop) OnAgentStart(ctx context.Context, agent agents.IAgent, input string) {}
func (l *Noop) OnAgentEnd(ctx context.Context, agent agents.IAgent, input string, resp *llms.ContentResponse, messages []llms.Message) {
}
func (l *Noop) OnAgentError(ctx context.Context, agent agents.IAgent, input string, err error, messages []llms.Message) {
}
func (l *Noop) OnAgentLLMCallStart(ctx context.Context, agent agents.IAgent, llm llms.Model, payload []llms.Message) {
}
func (l *Noop) OnAgentLLMCallEnd(ctx context.Context, agent agents.IAgent, llm llms.Model, resp *llms.ContentResponse) {
}
func (l *Noop) OnAgentLLMParseError(ctx context.Context, agent agents.IAgent, input string, response string, err error) {
}
func (l *Noop) OnToolStart(ctx context.Context, tool tools.ITool, agentName, input string) {}
func (l *Noop) OnToolEnd(ctx context.Context, tool tools.ITool, agentName, input, output string) {
}
func (l *Noop) OnToolError(ctx context.Context, tool tools.ITool, agentName, input string, err error) {
}
func (l *Noop) OnToolNotFound(ctx context.Context, agent agents.IAgent, tool string) {}

// Printer writes the events to the Writer.
type Printer struct {
	Out  io.Writer
	Mode Mode

	lock sync.Mutex
}

func NewPrinter(out io.Writer, mode Mode) *Printer {
	return &Printer{Out: out, Mode: mode}
}

func (l *Printer) OnAgentStart(ctx context.Context, agent agents.IAgent, input string) {
	l.lock.Lock()
	defer l.lock.Unlock()
	fmt.Fprintf(l.Out, "Agent Start: %s\n", agent.Name())
	fmt.Fprintf(l.Out, "Input: %s\n", input)
}

func (l *Printer) OnAgentEnd(ctx context.Context, agent agents.IAgent, input string, resp *llms.ContentResponse, messages []llms.Message) {
	l.lock.Lock()
	defer l.lock.Unlock()
	fmt.Fprintf(l.Out, "Agent End: %s\n", agent.Name())
	if l.Mode == ModeVerbose {
		for _, choice := range resp.Choices {
			if choice.Content != "" {
				fmt.Fprintln(l.Out, choice.Content)
			}
		}
	}
}

func (l *Printer) OnAgentError(ctx context.Context, agent agents.IAgent, input string, err error, messages []llms.Message) {
	l.lock.Lock()
	defer l.lock.Unlock()
	fmt.Fprintf(l.Out, "Agent Error: %s: %s\n", agent.Name(), err.Error())
}

func (l *Printer) OnAgentLLMCallStart(ctx context.Context, agent agents.IAgent, llm llms.Model, payload []llms.Message) {
	l.lock.Lock()
	defer l.lock.Unlock()
	fmt.Fprintf(l.Out, "Agent LLM Call: %s: %s model, %d messages\n", agent.Name(), llm.GetName(), len(payload))
}

func (l *Printer) OnAgentLLMCallEnd(ctx context.Context, agent agents.IAgent, llm llms.Model, resp *llms.ContentResponse) {
	l.lock.Lock()
	defer l.lock.Unlock()
	fmt.Fprintf(l.Out, "Agent LLM Call End: %s: %s model, %d choices\n", agent.Name(), llm.GetName(), len(resp.Choices))
}

func (l *Printer) OnAgentLLMParseError(ctx context.Context, agent agents.IAgent, input string, response string, err error) {
	l.lock.Lock()
	defer l.lock.Unlock()
	fmt.Fprintf(l.Out, "Agent LLM Parse Error: %s: %s\n", agent.Name(), err.Error())
	fmt.Fprintf(l.Out, "Response: %s\n", response)
}

func (l *Printer) OnToolStart(ctx context.Context, tool tools.ITool, agentName, input string) {
	l.lock.Lock()
	defer l.lock.Unlock()
	fmt.Fprintf(l.Out, "Tool Start: %s (%s)\n", tool.Name(), agentName)
	fmt.Fprintf(l.Out, "Input: %s\n", input)
}

func (l *Printer) OnToolEnd(ctx context.Context, tool tools.ITool, agentName, input, output string) {
	l.lock.Lock()
	defer l.lock.Unlock()
	fmt.Fprintf(l.Out, "Tool End: %s (%s)\n", tool.Name(), agentName)
	if l.Mode == ModeVerbose {
		fmt.Fprintf(l.Out, "Output: %s\n", output)
	}
}

func (l *Printer) OnToolError(ctx context.Context, tool tools.ITool, agentName, input string, err error) {
	l.lock.Lock()
	defer l.lock.Unlock()
	fmt.Fprintf(l.Out, "Tool Error: %s (%s): %s\n", tool.Name(), agentName, err.Error())
}

func (l *Printer) OnToolNotFound(ctx context.Context, agent agents.IAgent, tool string) {
	l.lock.Lock()
	defer l.lock.Unlock()
	fmt.Fprintf(l.Out, "Tool Not Found: %s\n", tool)
}

// PackageLogger writes the events to the logger.
type PackageLogger struct {
	logger *xlog.PackageLogger
}

func NewPackageLogger(logger *xlog.PackageLogger) *PackageLogger {
	return &PackageLogger{logger: logger}
}

func (l *PackageLogger) OnAgentStart(ctx context.Context, agent agents.IAgent, input string) {
	l.logger.ContextKV(ctx, xlog.DEBUG,
		"event", "agent_start",
		"agent", agent.Name(),
		"input", input,
	)
}

func (l *PackageLogger) OnAgentEnd(ctx context.Context, agent agents.IAgent, input string, resp *llms.ContentResponse, messages []llms.Message) {
	l.logger.ContextKV(ctx, xlog.DEBUG,
		"event", "agent_end",
		"agent", agent.Name())
	for _, choice := range resp.Choices {
		if choice.Content != "" {
			l.logger.ContextKV(ctx, xlog.DEBUG, "result", choice.Content)
		}
	}
}

func (l *PackageLogger) OnAgentError(ctx context.Context, agent agents.IAgent, input string, err error, messages []llms.Message) {
	l.logger.ContextKV(ctx, xlog.ERROR,
		"event", "agent_error",
		"agent", agent.Name(),
		"err", err.Error(),
	)
}

func (l *PackageLogger) OnAgentLLMCallStart(ctx context.Context, agent agents.IAgent, llm llms.Model, payload []llms.Message) {
	l.logger.ContextKV(ctx, xlog.DEBUG,
		"event", "agent_llm_call_start",
		"agent", agent.Name(),
		"model", llm.GetName(),
		"messages", len(payload),
	)
}

func (l *PackageLogger) OnAgentLLMCallEnd(ctx context.Context, agent agents.IAgent, llm llms.Model, resp *llms.ContentResponse) {
	l.logger.ContextKV(ctx, xlog.DEBUG,
		"event", "agent_llm_call_end",
		"agent", agent.Name(),
		"model", llm.GetName(),
		"choices", len(resp.Choices),
	)
}

func (l *PackageLogger) OnAgentLLMParseError(ctx context.Context, agent agents.IAgent, input string, response string, err error) {
	l.logger.ContextKV(ctx, xlog.DEBUG,
		"event", "agent_llm_parse_error",
		"agent", agent.Name(),
		"err", err.Error(),
		"response", response,
	)
}

func (l *PackageLogger) OnToolStart(ctx context.Context, tool tools.ITool, agentName, input string) {
	l.logger.ContextKV(ctx, xlog.DEBUG,
		"event", "tool_start",
		"agent", agentName,
		"tool", tool.Name(),
		"input", input,
	)
}

func (l *PackageLogger) OnToolEnd(ctx context.Context, tool tools.ITool, agentName, input, output string) {
	l.logger.ContextKV(ctx, xlog.DEBUG,
		"event", "tool_end",
		"agent", agentName,
		"tool", tool.Name(),
		"output", output,
	)
}

func (l *PackageLogger) OnToolError(ctx context.Context, tool tools.ITool, agentName, input string, err error) {
	l.logger.ContextKV(ctx, xlog.ERROR,
		"event", "tool_error",
		"agent", agentName,
		"tool", tool.Name(),
		"err", err.Error(),
	)
}

func (l *PackageLogger) OnToolNotFound(ctx context.Context, agent agents.IAgent, tool string) {
	l.logger.ContextKV(ctx, xlog.DEBUG,
		"event", "tool_not_found",
		"agent", agent.Name(),
		"tool", tool,
	)
}
