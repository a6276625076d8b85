package expand

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

// fakeClient returns canned responses and records the prompts it receives.
type fakeClient struct {
	response string
	err      error
	prompts  []string
}

func (f *fakeClient) GenerateJSON(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func (f *fakeClient) Close() error { return nil }

func TestExpand_BroadQueries(t *testing.T) {
	client := &fakeClient{
		response: `{"queries": ["golang developer jobs remote", "go backend engineer careers", "golang hiring remote usa"]}`,
	}

	queries := New(client).Expand(context.Background(), "remote golang developer", false)

	assert.Equal(t, []string{
		"golang developer jobs remote",
		"go backend engineer careers",
		"golang hiring remote usa",
	}, queries)
	assert.Len(t, client.prompts, 1)
	assert.Contains(t, client.prompts[0], "remote golang developer")
	assert.NotContains(t, client.prompts[0], "previous broad search attempt")
}

func TestExpand_TargetedPromptVariant(t *testing.T) {
	client := &fakeClient{
		response: `{"queries": ["golang developer site:linkedin.com"]}`,
	}

	queries := New(client).Expand(context.Background(), "golang developer", true)

	assert.Equal(t, []string{"golang developer site:linkedin.com"}, queries)
	assert.Contains(t, client.prompts[0], "site:")
	assert.Contains(t, client.prompts[0], "previous broad search attempt")
}

func TestExpand_FencedResponse(t *testing.T) {
	client := &fakeClient{
		response: "```json\n{\"queries\": [\"python jobs nyc\"]}\n```",
	}

	queries := New(client).Expand(context.Background(), "python developer nyc", false)
	assert.Equal(t, []string{"python jobs nyc"}, queries)
}

func TestExpand_InvocationFailureReturnsNil(t *testing.T) {
	client := &fakeClient{err: errors.New("model unavailable")}

	queries := New(client).Expand(context.Background(), "golang developer", false)
	assert.Nil(t, queries)
}

func TestExpand_MalformedResponseReturnsNil(t *testing.T) {
	client := &fakeClient{response: "sorry, I cannot help with that"}

	queries := New(client).Expand(context.Background(), "golang developer", false)
	assert.Nil(t, queries)
}
