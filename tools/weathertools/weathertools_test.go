package weathertools_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/openhands-ai/agents-go/chatmodel"
	"github.com/openhands-ai/agents-go/tools"
	"github.com/openhands-ai/agents-go/tools/weathertools"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Tools(t *testing.T) {
	ts := weathertools.Tools()
	require.Len(t, ts, 2)
	assert.Equal(t, []string{
		weathertools.FetchWeatherToolName,
		weathertools.SaveToFileToolName,
	}, tools.GetNames(ts))
}

func Test_FetchWeatherTool(t *testing.T) {
	ctx := context.Background()
	tool := weathertools.NewFetchWeatherTool()

	out, err := tool.Call(ctx, `{"City": "London"}`)
	require.NoError(t, err)
	assert.Equal(t, "Weather information for London: Sunny, 22°C", out)

	_, err = tool.Call(ctx, "{bad")
	assert.ErrorIs(t, err, chatmodel.ErrFailedUnmarshalInput)
}

func Test_SaveToFileTool(t *testing.T) {
	ctx := context.Background()
	tool := weathertools.NewSaveToFileTool()

	fn := filepath.Join(t.TempDir(), "weather_report.txt")
	res, err := tool.Run(ctx, &weathertools.SaveToFileRequest{
		Content:  "Sunny, 22°C",
		Filename: fn,
	})
	require.NoError(t, err)
	assert.Equal(t, "Content saved to "+fn, res.String())

	data, err := os.ReadFile(fn)
	require.NoError(t, err)
	assert.Equal(t, "Sunny, 22°C", string(data))

	_, err = tool.Run(ctx, &weathertools.SaveToFileRequest{Content: "x"})
	assert.EqualError(t, err, "weathertools: filename is required")
}
