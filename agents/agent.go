package agents

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/x/slices"
	"github.com/effective-security/x/values"
	"github.com/effective-security/xlog"

	"github.com/openhands-ai/agents-go/chatmodel"
	"github.com/openhands-ai/agents-go/encoding"
	"github.com/openhands-ai/agents-go/pkg/llms"
	"github.com/openhands-ai/agents-go/pkg/llmutils"
	"github.com/openhands-ai/agents-go/pkg/metricskey"
	"github.com/openhands-ai/agents-go/pkg/prompts"
	"github.com/openhands-ai/agents-go/pkg/schema"
	"github.com/openhands-ai/agents-go/tools"
)

// ProvidePromptInputsFunc resolves extra system prompt inputs at call
// time, e.g. the current date or per-tenant settings.
type ProvidePromptInputsFunc func(ctx context.Context, input string) (map[string]any, error)

// Agent drives a chat conversation with an LLM: it renders the system
// prompt, replays stored history, executes tool calls, and parses the
// final response into O.
type Agent[O chatmodel.ContentProvider] struct {
	LLM          llms.Model
	OutputParser chatmodel.OutputParser[O]

	toolsByName map[string]tools.ITool
	toolsNames  []string
	tools       []tools.ITool
	llmToolDefs []llms.Tool

	cfg         *Config
	name        string
	description string
	sysprompt   prompts.FormatPrompter
	runMessages []llms.Message
	onPrompt    ProvidePromptInputsFunc
	inputParser func(string) (string, error)
}

var _ TypeableAgent[chatmodel.String] = (*Agent[chatmodel.String])(nil)

// NewAgent creates an agent for the given model and system prompt.
func NewAgent[O chatmodel.ContentProvider](
	llmModel llms.Model,
	sysprompt prompts.FormatPrompter,
	options ...Option) *Agent[O] {
	ret := &Agent[O]{
		cfg:         NewConfig(options...),
		LLM:         llmModel,
		sysprompt:   sysprompt,
		name:        "Generic Agent",
		description: "An AI agent that can perform various tasks.",
	}

	var output O
	ret.OutputParser, _ = encoding.NewTypedOutputParser(output, ret.cfg.Mode)

	prov := llmModel.GetProviderType()
	jsonSchema := (ret.cfg.Mode == encoding.ModeJSONSchema || ret.cfg.Mode == encoding.ModeJSONSchemaStrict) &&
		prov.Supports(llms.CapabilityJSONSchema)
	if jsonSchema {
		strict := ret.cfg.Mode == encoding.ModeJSONSchemaStrict
		rf, err := schema.NewResponseFormat(reflect.TypeOf(output), strict)
		if err != nil {
			logger.KV(xlog.ERROR,
				"status", "failed_to_create_response_format",
				"err", err.Error(),
			)
		}
		ret.cfg.ResponseFormat = rf
	}

	return ret
}

// WithOutputParser replaces the output parser.
func (a *Agent[O]) WithOutputParser(outputParser chatmodel.OutputParser[O]) *Agent[O] {
	a.OutputParser = outputParser
	return a
}

// WithInputParser sets a parser applied to the user input before it is
// sent to the LLM.
func (a *Agent[O]) WithInputParser(inputParser func(string) (string, error)) {
	a.inputParser = inputParser
}

// GetCallConfig returns a per-call copy of the config.
func (a *Agent[O]) GetCallConfig(opts ...Option) *Config {
	return a.cfg.Apply(opts...)
}

// WithName sets the name of the agent, used in prompts of other agents.
func (a *Agent[O]) WithName(name string) *Agent[O] {
	a.name = name
	return a
}

// WithDescription sets the description of the agent.
func (a *Agent[O]) WithDescription(description string) *Agent[O] {
	a.description = description
	return a
}

// Name returns the name of the agent.
func (a *Agent[O]) Name() string {
	return a.name
}

// Description returns the description of the agent.
// Should not exceed LLM model limit.
func (a *Agent[O]) Description() string {
	return a.description
}

// GetTools returns the registered tools.
func (a *Agent[O]) GetTools() []tools.ITool {
	return a.tools
}

// WithTools adds new tools to the agent, existing tools are not
// replaced.
func (a *Agent[O]) WithTools(list ...tools.ITool) *Agent[O] {
	if a.toolsByName == nil {
		a.toolsByName = make(map[string]tools.ITool)
	}
	for _, tool := range list {
		name := tool.Name()
		// use lowercase for the key
		nameLowerCase := strings.ToLower(name)
		if a.toolsByName[nameLowerCase] == nil {
			a.toolsByName[nameLowerCase] = tool
			a.toolsNames = append(a.toolsNames, name)
			a.tools = append(a.tools, tool)
			t := llms.Tool{
				Type: "function",
				Function: &llms.FunctionDefinition{
					Name:        name,
					Description: tool.Description(),
					Parameters:  tool.Parameters(),
				},
			}
			a.llmToolDefs = append(a.llmToolDefs, t)
		}
	}

	return a
}

// LastRunMessages returns the messages produced by the last run.
func (a *Agent[O]) LastRunMessages() []llms.Message {
	return a.runMessages
}

func (a *Agent[O]) FormatPrompt(promptInputs map[string]any) (llms.PromptValue, error) {
	return a.sysprompt.FormatPrompt(llmutils.MergeInputs(a.cfg.PromptInput, promptInputs))
}

func (a *Agent[O]) GetPromptInputVariables() []string {
	return a.sysprompt.GetInputVariables()
}

// WithPromptInputProvider registers a callback that resolves extra
// prompt inputs per call.
func (a *Agent[O]) WithPromptInputProvider(cb ProvidePromptInputsFunc) {
	a.onPrompt = cb
}

// GetSystemPrompt renders the system prompt. When the provider cannot
// enforce a response schema, the output schema instructions are
// appended to the prompt.
func (a *Agent[O]) GetSystemPrompt(ctx context.Context, input string, promptInputs map[string]any) (string, error) {
	if a.onPrompt != nil {
		extra, err := a.onPrompt(ctx, input)
		if err != nil {
			return "", errors.WithMessage(err, "failed to get prompt inputs")
		}
		if len(extra) > 0 {
			promptInputs = llmutils.MergeInputs(promptInputs, extra)
		}
	}

	promptValue, err := a.FormatPrompt(promptInputs)
	if err != nil {
		return "", err
	}

	systemPrompt := strings.TrimRight(promptValue.String(), "\n")

	if a.cfg.ResponseFormat == nil {
		outputSchema := strings.TrimRight(a.OutputParser.GetFormatInstructions(), "\n")
		if outputSchema != "" {
			systemPrompt = fmt.Sprintf("%s\n\n# OUTPUT SCHEMA\n%s", systemPrompt, outputSchema)
		}
	}
	return systemPrompt, nil
}

// Call runs the agent and discards the typed output.
func (a *Agent[O]) Call(ctx context.Context, input *CallInput) (*llms.ContentResponse, error) {
	var output O
	return a.Run(ctx, input, &output)
}

// Run executes the agent conversation and, when optionalOutputType is
// not nil, parses the final response into it.
func (a *Agent[O]) Run(ctx context.Context, input *CallInput, optionalOutputType *O) (*llms.ContentResponse, error) {
	started := time.Now()
	defer metricskey.PerfAgentCall.MeasureSince(started, a.Name())

	// reset the run messages
	a.runMessages = nil
	// create a per call config
	cfg := a.GetCallConfig(input.Options...)

	callback := cfg.CallbackHandler
	if callback != nil {
		callback.OnAgentStart(ctx, a, input.Input)
	}

	resp, messages, err := a.run(ctx, cfg, input, optionalOutputType)
	if err != nil {
		metricskey.StatsAgentCallsFailed.IncrCounter(1, a.Name())
		if callback != nil {
			callback.OnAgentError(ctx, a, input.Input, err, messages)
		}
		return nil, err
	}
	metricskey.StatsAgentCallsSucceeded.IncrCounter(1, a.Name())
	if callback != nil {
		callback.OnAgentEnd(ctx, a, input.Input, resp, messages)
	}
	return resp, nil
}

func (a *Agent[O]) run(ctx context.Context, cfg *Config, input *CallInput, optionalOutputType *O) (*llms.ContentResponse, []llms.Message, error) {
	_, chatID, err := chatmodel.GetTenantAndChatID(ctx)
	if err != nil {
		return nil, nil, errors.WithStack(err)
	}

	systemPrompt, err := a.GetSystemPrompt(ctx, input.Input, input.PromptInputs)
	if err != nil {
		return nil, nil, errors.WithMessage(err, "failed to format system prompt")
	}

	messageHistory := []llms.Message{
		llms.MessageFromTextParts(llms.RoleSystem, systemPrompt),
	}
	for _, example := range cfg.Examples {
		messageHistory = append(messageHistory, llms.MessageFromTextParts(llms.RoleHuman, example.Prompt))
		messageHistory = append(messageHistory, llms.MessageFromTextParts(llms.RoleAI, example.Completion))
	}
	if cfg.Store != nil {
		prevMessages := cfg.Store.Messages(ctx)
		logger.ContextKV(ctx, xlog.DEBUG,
			"agent", a.name,
			"chat_id", chatID,
			"message_history", len(prevMessages))
		messageHistory = append(messageHistory, prevMessages...)
	}

	parsedInput := input.Input

	if parsedInput != "" {
		if a.inputParser != nil {
			parsedInput, err = a.inputParser(parsedInput)
			if err != nil {
				return nil, messageHistory, errors.WithMessage(err, "failed to parse input")
			}
		}

		userMessage := llms.MessageFromTextParts(llms.RoleHuman, parsedInput)
		a.runMessages = append(a.runMessages, userMessage)
		messageHistory = append(messageHistory, userMessage)
	}

	if len(input.Messages) > 0 {
		messageHistory = append(messageHistory, input.Messages...)
	}

	var extraOptions []Option
	if len(a.llmToolDefs) > 0 {
		prov := a.LLM.GetProviderType()
		if !prov.Supports(llms.CapabilityFunctionCalling) {
			return nil, messageHistory, errors.Newf("agent %s: the LLM does not support function calling", a.name)
		}
		extraOptions = append(extraOptions, WithTools(a.llmToolDefs))
	}
	callOpts := cfg.GetCallOptions(extraOptions...)

	agentName := a.Name()
	modelName := a.LLM.GetName()

	var totalToolExecuted int
	var resp *llms.ContentResponse
	maxRetries := DefaultMaxRetries
	retryCount := 0
	consecutiveNotFoundCount := 0

	bytesLimit := values.NumbersCoalesce(cfg.MaxLength, DefaultMaxContentSize)
	toolsLimit := values.NumbersCoalesce(cfg.MaxToolCalls, DefaultMaxToolCalls)
	for {
		if len(messageHistory) >= cfg.MaxMessages {
			return nil, messageHistory, errors.Newf("agent %s: the messages count exceeded limit", agentName)
		}
		bytesSent := llmutils.CountMessagesContentSize(messageHistory)
		if bytesSent > bytesLimit {
			return nil, messageHistory, errors.Newf("agent %s: the content size exceeded limit", agentName)
		}

		if cfg.CallbackHandler != nil {
			cfg.CallbackHandler.OnAgentLLMCallStart(ctx, a, a.LLM, messageHistory)
		}

		metricskey.StatsLLMMessagesSent.IncrCounter(float64(len(messageHistory)), agentName, modelName)
		metricskey.StatsLLMBytesSent.IncrCounter(float64(bytesSent), agentName, modelName)

		resp, err = a.LLM.GenerateContent(ctx, messageHistory, callOpts...)
		if err != nil {
			return nil, messageHistory, errors.Wrapf(err, "failed to generate content from LLM")
		}

		if cfg.CallbackHandler != nil {
			cfg.CallbackHandler.OnAgentLLMCallEnd(ctx, a, a.LLM, resp)
		}

		bytesReceived := llmutils.CountResponseContentSize(resp)
		metricskey.StatsLLMBytesReceived.IncrCounter(float64(bytesReceived), agentName, modelName)

		tokensIn, tokensOut := llmutils.CountTokens(resp)
		metricskey.StatsLLMInputTokens.IncrCounter(float64(tokensIn), agentName, modelName)
		metricskey.StatsLLMOutputTokens.IncrCounter(float64(tokensOut), agentName, modelName)

		// Retry on an empty response, some providers return those
		// transiently.
		if len(resp.Choices) == 0 {
			retryCount++
			if retryCount >= maxRetries {
				logger.ContextKV(ctx, xlog.ERROR,
					"agent", agentName,
					"status", "max_retries_exceeded",
					"input", slices.StringUpto(parsedInput, 64),
					"retry_count", retryCount,
				)
				return nil, messageHistory, errors.Newf("agent %s: LLM returned empty response after %d retries", agentName, retryCount)
			}
			metricskey.StatsAgentCallsRetried.IncrCounter(1, agentName)
			logger.ContextKV(ctx, xlog.WARNING,
				"agent", agentName,
				"status", "retrying_empty_response",
				"retry_count", retryCount,
			)
			continue
		}

		var toolExecuted int
		var notFoundCount int
		toolExecuted, notFoundCount, messageHistory, err = a.executeToolCalls(ctx, cfg, messageHistory, resp, input.Options...)
		if err != nil {
			return nil, messageHistory, err
		}

		if toolExecuted == 0 {
			break
		}
		consecutiveNotFoundCount += notFoundCount
		totalToolExecuted += toolExecuted
		if consecutiveNotFoundCount > 3 {
			return nil, messageHistory, errors.Newf("agent %s: the number of not found tools is exceeded", agentName)
		}
		// reset
		consecutiveNotFoundCount = 0
		if totalToolExecuted >= toolsLimit {
			return nil, messageHistory, errors.Newf("agent %s: the tool calls limit is exceeded", agentName)
		}
	}

	choices := resp.Choices

	logger.ContextKV(ctx, xlog.DEBUG,
		"agent", agentName,
		"status", "response_analysis",
		"choices_count", len(choices),
		"tool_calls", totalToolExecuted,
	)

	result := choices[0].Content
	if len(choices) > 1 {
		// Combine the content of multiple choices.
		var combinedContent strings.Builder
		for i, choice := range choices {
			if i > 0 {
				combinedContent.WriteString("\n\n")
			}
			combinedContent.WriteString(choice.Content)
		}
		result = combinedContent.String()
	}

	if optionalOutputType != nil {
		finalOutput, err := a.OutputParser.Parse(result)
		if err != nil {
			metricskey.StatsAgentLLMParseErrors.IncrCounter(1, agentName)
			logger.ContextKV(ctx, xlog.DEBUG,
				"agent", agentName,
				"status", "failed_to_parse_llm_response",
				"err", err.Error(),
				"output_parser", a.OutputParser.Type(),
				"result", result,
			)

			if cfg.CallbackHandler != nil {
				cfg.CallbackHandler.OnAgentLLMParseError(ctx, a, input.Input, result, err)
			}

			return nil, messageHistory, err
		}
		*optionalOutputType = *finalOutput

		if prov, ok := (any)(finalOutput).(chatmodel.ContentProvider); ok {
			result = prov.GetContent()
		}
	}

	aiMessage := llms.MessageFromTextParts(llms.RoleAI, result)
	messageHistory = append(messageHistory, aiMessage)
	a.runMessages = append(a.runMessages, aiMessage)

	if cfg.Store != nil && !cfg.SkipMessageHistory {
		// Add all run messages atomically, to preserve order.
		if len(a.runMessages) > 0 {
			_ = cfg.Store.Add(ctx, a.runMessages...)
		}

		logger.ContextKV(ctx, xlog.DEBUG,
			"agent", agentName,
			"chat_id", chatID,
			"status", "added_message_history",
			"message_history", len(a.runMessages),
			"human", slices.StringUpto(parsedInput, 64),
			"ai", slices.StringUpto(result, 64),
		)
	}

	return resp, messageHistory, nil
}

// executeToolCalls executes the tool calls in the response and returns
// the updated message history.
func (a *Agent[O]) executeToolCalls(ctx context.Context, cfg *Config, messageHistory []llms.Message, resp *llms.ContentResponse, options ...Option) (int, int, []llms.Message, error) {
	executedCount := 0

	// Incremented from the per-call goroutines below.
	var notFoundCount atomic.Int32

	var lock sync.Mutex

	type toolCallResult struct {
		toolCall llms.ToolCall
		response string
		err      error
		index    int // index in the original toolCalls slice
	}

	var toolCalls []llms.ToolCall

	// Collect all tool calls first and add them to message history.
	for _, choice := range resp.Choices {
		var choiceToolCalls []llms.ToolCall

		for i, toolCall := range choice.ToolCalls {
			executedCount++

			if toolCall.ID == "" {
				toolCall.ID = fmt.Sprintf("%s_%d", toolCall.FunctionCall.Name, i)
			}
			toolCall.Type = values.StringsCoalesce(toolCall.Type, "function")

			choiceToolCalls = append(choiceToolCalls, toolCall)

			logger.ContextKV(ctx, xlog.DEBUG,
				"agent", a.name,
				"status", "tool_call_found",
				"tool_call_id", toolCall.ID,
				"tool_call_name", toolCall.FunctionCall.Name,
			)
		}

		if len(choiceToolCalls) == 0 {
			continue
		}

		toolCalls = append(toolCalls, choiceToolCalls...)
		aiResponse := llms.MessageFromToolCalls(llms.RoleAI, choiceToolCalls...)
		messageHistory = append(messageHistory, aiResponse)
		if !cfg.SkipMessageHistory && !cfg.SkipToolHistory {
			lock.Lock()
			a.runMessages = append(a.runMessages, aiResponse)
			lock.Unlock()
		}
	}

	if executedCount == 0 {
		return executedCount, 0, messageHistory, nil
	}

	// Buffered to prevent deadlock.
	resultChan := make(chan toolCallResult, len(toolCalls))

	var wg sync.WaitGroup
	wg.Add(len(toolCalls))

	for i, toolCall := range toolCalls {
		go func(index int, tc llms.ToolCall) {
			defer wg.Done()
			toolName := tc.FunctionCall.Name
			toolArgs := tc.FunctionCall.Arguments

			// use lowercase for the key
			tool := a.toolsByName[strings.ToLower(toolName)]
			if tool == nil {
				notFoundCount.Add(1)
				metricskey.StatsToolCallsNotFound.IncrCounter(1, toolName)
				if cfg.CallbackHandler != nil {
					cfg.CallbackHandler.OnToolNotFound(ctx, a, toolName)
				}

				availableTools := strings.Join(a.toolsNames, ", ")
				logger.ContextKV(ctx, xlog.WARNING,
					"agent", a.name,
					"status", "tool_not_found",
					"tool_name", toolName,
					"available_tools", availableTools,
				)

				resultChan <- toolCallResult{
					toolCall: tc,
					response: fmt.Sprintf("Tool `%s` not found. Please check the tool name and try again with exact match. Available tools: %s", toolName, availableTools),
					index:    index,
				}
				return
			}

			if cfg.CallbackHandler != nil {
				cfg.CallbackHandler.OnToolStart(ctx, tool, a.Name(), toolArgs)
			}

			started := time.Now()

			var res string
			var err error
			if agentTool, ok := tool.(IAgentTool); ok {
				res, err = agentTool.CallAgent(ctx, toolArgs, options...)
			} else {
				res, err = tool.Call(ctx, toolArgs)
			}
			metricskey.PerfToolCall.MeasureSince(started, toolName)

			if err != nil {
				metricskey.StatsToolCallsFailed.IncrCounter(1, toolName)

				if cfg.CallbackHandler != nil {
					cfg.CallbackHandler.OnToolError(ctx, tool, a.Name(), toolArgs, err)
				}

				if errors.Is(err, chatmodel.ErrFailedUnmarshalInput) {
					res = "Failed to unmarshal input, check the JSON schema and try again."
				} else {
					resultChan <- toolCallResult{
						toolCall: tc,
						err:      errors.WithMessagef(err, "failed to call tool %s", toolName),
						index:    index,
					}
					return
				}
			}
			metricskey.StatsToolCallsSucceeded.IncrCounter(1, toolName)

			if cfg.CallbackHandler != nil {
				cfg.CallbackHandler.OnToolEnd(ctx, tool, a.Name(), toolArgs, res)
			}

			resultChan <- toolCallResult{
				toolCall: tc,
				response: res,
				index:    index,
			}
		}(i, toolCall)
	}

	wg.Wait()
	close(resultChan)

	// Collect results in order using the index.
	results := make([]toolCallResult, len(toolCalls))
	for result := range resultChan {
		if result.index >= 0 && result.index < len(results) {
			results[result.index] = result
		}
	}

	// Ensure we have responses for all tool calls.
	for i, result := range results {
		if result.toolCall.ID == "" {
			toolCall := toolCalls[i]
			results[i] = toolCallResult{
				toolCall: toolCall,
				response: "Tool call failed: No response received",
				err:      errors.New("no response received from tool"),
				index:    i,
			}
			logger.ContextKV(ctx, xlog.WARNING,
				"agent", a.name,
				"status", "tool_call_missing_response",
				"tool_call_id", toolCall.ID,
				"tool_name", toolCall.FunctionCall.Name,
			)
		}
	}

	// Process results in the same order as the original tool calls.
	for _, result := range results {
		var content string
		if result.err != nil {
			// Format the error as a message for the LLM.
			content = fmt.Sprintf("Tool call failed: %s", result.err.Error())
			logger.ContextKV(ctx, xlog.WARNING,
				"agent", a.name,
				"status", "tool_call_failed",
				"tool", result.toolCall.FunctionCall.Name,
				"err", result.err.Error(),
			)
		} else {
			content = result.response
		}

		toolCallResponse := llms.MessageFromToolResponse(llms.RoleTool, llms.ToolCallResponse{
			ToolCallID: result.toolCall.ID,
			Name:       result.toolCall.FunctionCall.Name,
			Content:    content,
		})

		logger.ContextKV(ctx, xlog.DEBUG,
			"agent", a.name,
			"status", "tool_call_response",
			"tool_call_id", result.toolCall.ID,
			"tool_name", result.toolCall.FunctionCall.Name,
			"content_length", len(content),
		)

		// Add the response immediately after its corresponding tool call.
		messageHistory = append(messageHistory, toolCallResponse)

		if !cfg.SkipMessageHistory && !cfg.SkipToolHistory {
			lock.Lock()
			a.runMessages = append(a.runMessages, toolCallResponse)
			lock.Unlock()
		}
	}

	return executedCount, int(notFoundCount.Load()), messageHistory, nil
}
