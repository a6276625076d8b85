package extraction

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dovvnloading/Leadz/internal/fetch"
	"github.com/dovvnloading/Leadz/internal/ranking"
	"github.com/dovvnloading/Leadz/internal/types"
)

const relevantResponse = `{
	"is_relevant": true,
	"jobTitle": "Senior Go Developer",
	"company": "Acme",
	"location": "Remote",
	"salary": "$160k",
	"job_type": "Full-time",
	"experience": "Senior",
	"skills": ["Go", "Kubernetes", "PostgreSQL"],
	"summary": "Own backend services end to end."
}`

// scriptedClient replies with one response per call, in order.
type scriptedClient struct {
	responses []string
	errs      []error
	prompts   []string
	calls     int
}

func (s *scriptedClient) GenerateJSON(_ context.Context, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	i := s.calls
	s.calls++
	if i < len(s.errs) && s.errs[i] != nil {
		return "", s.errs[i]
	}
	if i < len(s.responses) {
		return s.responses[i], nil
	}
	return "", errors.New("no scripted response")
}

func (s *scriptedClient) Close() error { return nil }

func rankedPage(url, text string) ranking.RankedPage {
	return ranking.RankedPage{Page: fetch.Page{URL: url, Text: text}, Score: 0.8}
}

func collect(records *[]types.JobRecord) OnRecord {
	return func(r types.JobRecord) { *records = append(*records, r) }
}

func TestExtractAll_RelevantPageYieldsRecord(t *testing.T) {
	client := &scriptedClient{responses: []string{relevantResponse}}
	var records []types.JobRecord

	count := New(client).ExtractAll(context.Background(), "golang developer",
		[]ranking.RankedPage{rankedPage("https://example.com/job", "posting text")},
		collect(&records))

	assert.Equal(t, 1, count)
	require.Len(t, records, 1)
	assert.Equal(t, "Senior Go Developer", records[0].JobTitle)
	assert.Equal(t, "https://example.com/job", records[0].URL)
	assert.Equal(t, []string{"Go", "Kubernetes", "PostgreSQL"}, records[0].Skills)
}

func TestExtractAll_IrrelevantPageYieldsNothing(t *testing.T) {
	client := &scriptedClient{responses: []string{`{"is_relevant": false}`}}
	var records []types.JobRecord

	count := New(client).ExtractAll(context.Background(), "golang developer",
		[]ranking.RankedPage{rankedPage("https://example.com/blog", "blog text")},
		collect(&records))

	assert.Zero(t, count)
	assert.Empty(t, records)
}

func TestExtractAll_MissingFieldsBecomeNA(t *testing.T) {
	response := `{"is_relevant": true, "jobTitle": "Go Developer", "skills": ["Go"]}`
	client := &scriptedClient{responses: []string{response}}
	var records []types.JobRecord

	New(client).ExtractAll(context.Background(), "golang developer",
		[]ranking.RankedPage{rankedPage("https://example.com/job", "text")},
		collect(&records))

	require.Len(t, records, 1)
	assert.Equal(t, types.NotAvailable, records[0].Company)
	assert.Equal(t, types.NotAvailable, records[0].Salary)
	assert.Equal(t, types.NotAvailable, records[0].Summary)
}

func TestExtractAll_PerPageFailuresDoNotAbortBatch(t *testing.T) {
	client := &scriptedClient{
		responses: []string{"", "complete gibberish", relevantResponse},
		errs:      []error{errors.New("model timeout"), nil, nil},
	}
	var records []types.JobRecord

	count := New(client).ExtractAll(context.Background(), "golang developer",
		[]ranking.RankedPage{
			rankedPage("https://a.example/job", "text a"),
			rankedPage("https://b.example/job", "text b"),
			rankedPage("https://c.example/job", "text c"),
		},
		collect(&records))

	assert.Equal(t, 1, count)
	require.Len(t, records, 1)
	assert.Equal(t, "https://c.example/job", records[0].URL)
}

func TestExtractAll_SchemaGateRejectsMalformedRecord(t *testing.T) {
	// skills as a plain string violates the record schema.
	response := `{"is_relevant": true, "jobTitle": "Go Developer", "skills": "Go and Kubernetes"}`
	client := &scriptedClient{responses: []string{response}}
	var records []types.JobRecord

	count := New(client).ExtractAll(context.Background(), "golang developer",
		[]ranking.RankedPage{rankedPage("https://example.com/job", "text")},
		collect(&records))

	assert.Zero(t, count)
	assert.Empty(t, records)
}

func TestExtractAll_TruncatesPageText(t *testing.T) {
	longText := strings.Repeat("x", DefaultCharBudget+500)
	client := &scriptedClient{responses: []string{`{"is_relevant": false}`}}

	New(client).ExtractAll(context.Background(), "golang developer",
		[]ranking.RankedPage{rankedPage("https://example.com/job", longText)}, nil)

	require.Len(t, client.prompts, 1)
	assert.NotContains(t, client.prompts[0], strings.Repeat("x", DefaultCharBudget+1))
	assert.Contains(t, client.prompts[0], strings.Repeat("x", DefaultCharBudget))
}

func TestExtractAll_CancelledContextStops(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := &scriptedClient{responses: []string{relevantResponse}}
	count := New(client).ExtractAll(ctx, "golang developer",
		[]ranking.RankedPage{rankedPage("https://example.com/job", "text")}, nil)

	assert.Zero(t, count)
	assert.Zero(t, client.calls)
}
