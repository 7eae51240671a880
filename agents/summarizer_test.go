package agents

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"nyayguru-backend/models"
)

const sampleJudgment = `State of Maharashtra vs Ramesh Kumar
This criminal appeal arises from a conviction by the trial court.
Heard in the Sessions Court. Decided on 12-03-2020.
Complainant: Suresh Patil filed the first information report at the local police station.
Accused: Ramesh Kumar was charged under Section 302 IPC and u/s 34 IPC.
It is alleged that the accused attacked the deceased with an iron rod following a long-standing dispute.
The court observed that the testimony of the eyewitnesses was consistent and corroborated by the medical evidence on record.
The accused is hereby convicted and sentenced to imprisonment for life.`

func TestSummarizeDocumentExtractsFields(t *testing.T) {
	a := NewSummarizer(nil, nil, zap.NewNop())

	summary := a.SummarizeDocument(context.Background(), sampleJudgment)
	require.NotNil(t, summary)

	assert.Contains(t, summary.Parties, "State of Maharashtra v. Ramesh Kumar")
	assert.Equal(t, "Suresh Patil", summary.Complainant)
	assert.Equal(t, "Ramesh Kumar", summary.Accused)
	assert.Equal(t, "Criminal", summary.CaseType)
	assert.Equal(t, "Sessions Court", summary.CourtName)
	assert.Equal(t, "12-03-2020", summary.Date)

	require.Len(t, summary.CitedSections, 2)
	assert.Equal(t, models.CitedSection{Act: "IPC", Section: "302"}, summary.CitedSections[0])
	assert.Equal(t, models.CitedSection{Act: "IPC", Section: "34"}, summary.CitedSections[1])

	assert.Contains(t, summary.Verdict, "convicted")
}

func TestSummarizeDocumentRuleBasedSummary(t *testing.T) {
	a := NewSummarizer(nil, nil, zap.NewNop())

	summary := a.SummarizeDocument(context.Background(), sampleJudgment)
	require.NotNil(t, summary)

	require.NotEmpty(t, summary.CaseSummary)
	assert.Equal(t, "This is a Criminal case.", summary.CaseSummary[0])
	assert.Contains(t, summary.CaseSummary[1], "Suresh Patil")
	assert.Contains(t, summary.CaseSummary[1], "Ramesh Kumar")

	require.NotEmpty(t, summary.KeyArguments)
	assert.Contains(t, summary.KeyArguments[0], "court observed")
}

func TestSummarizeDocumentGeneratorFill(t *testing.T) {
	gen := &stubGenerator{genResp: `Here is the analysis:
{
    "case_summary": ["The accused attacked the deceased with an iron rod.", "The trial court convicted him under Section 302 IPC."],
    "key_arguments": ["The defence argued false implication."],
    "legal_issues": ["Whether the eyewitness testimony was reliable."],
    "verdict": "Conviction upheld, life imprisonment.",
    "complainant": "Suresh Patil",
    "accused": "Ramesh Kumar"
}`}
	a := NewSummarizer(gen, nil, zap.NewNop())

	summary := a.SummarizeDocument(context.Background(), sampleJudgment)
	require.NotNil(t, summary)

	assert.Equal(t, "Conviction upheld, life imprisonment.", summary.Verdict)
	assert.Equal(t, []string{"The defence argued false implication."}, summary.KeyArguments)
	assert.Len(t, summary.CaseSummary, 2)
	assert.Equal(t, []string{"Whether the eyewitness testimony was reliable."}, summary.LegalIssues)
}

func TestSummarizeDocumentGeneratorFailureFallsBack(t *testing.T) {
	gen := &stubGenerator{genErr: errors.New("quota exceeded")}
	a := NewSummarizer(gen, nil, zap.NewNop())

	summary := a.SummarizeDocument(context.Background(), sampleJudgment)
	require.NotNil(t, summary)

	// Rule-based extraction still produced a summary.
	assert.NotEmpty(t, summary.CaseSummary)
	assert.Equal(t, "Criminal", summary.CaseType)
}

func TestSummarizerProcessSkipsWithoutDocument(t *testing.T) {
	rc := NewRequestContext("murder punishment", "", "s1", "")

	a := NewSummarizer(nil, nil, zap.NewNop())
	require.NoError(t, a.Process(context.Background(), rc))

	assert.Nil(t, rc.DocumentSummary)
}

func TestSummarizerProcessSummarizesAttachedDocument(t *testing.T) {
	rc := NewRequestContext("summarize this judgment", "", "s1", "")
	rc.DocumentText = sampleJudgment

	a := NewSummarizer(nil, nil, zap.NewNop())
	require.NoError(t, a.Process(context.Background(), rc))

	require.NotNil(t, rc.DocumentSummary)
	assert.Equal(t, "Criminal", rc.DocumentSummary.CaseType)
}

func TestSummarizerProcessLoadsStoredSummaryByDocumentID(t *testing.T) {
	docID := uuid.New()
	stored := &models.DocumentSummary{
		CaseType: "Criminal",
		Parties:  "State of Maharashtra v. Ramesh Kumar",
	}
	docs := &stubDocumentStore{docs: map[string]*models.Document{
		docID.String(): {ID: docID, Filename: "judgment.pdf", Summary: stored},
	}}

	rc := NewRequestContext("what happened in my case", "", "s1", "")
	rc.DocumentID = docID.String()

	a := NewSummarizer(nil, docs, zap.NewNop())
	require.NoError(t, a.Process(context.Background(), rc))

	assert.Same(t, stored, rc.DocumentSummary)
	assert.Empty(t, rc.Errors)
}

func TestSummarizerProcessInvalidDocumentID(t *testing.T) {
	rc := NewRequestContext("what happened in my case", "", "s1", "")
	rc.DocumentID = "not-a-uuid"

	a := NewSummarizer(nil, &stubDocumentStore{}, zap.NewNop())
	require.NoError(t, a.Process(context.Background(), rc))

	assert.Nil(t, rc.DocumentSummary)
	require.Len(t, rc.Errors, 1)
	assert.Contains(t, rc.Errors[0].Message, "invalid document id")
}

func TestSummarizerProcessUnknownDocumentID(t *testing.T) {
	rc := NewRequestContext("what happened in my case", "", "s1", "")
	rc.DocumentID = uuid.NewString()

	a := NewSummarizer(nil, &stubDocumentStore{}, zap.NewNop())
	require.NoError(t, a.Process(context.Background(), rc))

	// A missing document is not an error; the answer just has no summary.
	assert.Nil(t, rc.DocumentSummary)
	assert.Empty(t, rc.Errors)
}
