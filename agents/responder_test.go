package agents

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"nyayguru-backend/models"
)

func responderContext() *RequestContext {
	rc := NewRequestContext("What is the punishment for murder?", "", "s1", "")
	rc.DetectedLanguage = "en"
	rc.DetectedDomain = models.DomainCriminal
	rc.Statutes = []models.Statute{{
		ActCode:               "IPC",
		SectionNumber:         "302",
		Title:                 "Punishment for murder",
		Content:               "Whoever commits murder shall be punished with death.",
		PunishmentDescription: "Death or imprisonment for life",
	}}
	rc.Mappings = []models.IPCBNSMapping{{
		IPCSection:        "302",
		BNSSection:        "103",
		Changes:           []string{"Renumbered without substantive change"},
		PunishmentChanged: true,
		OldPunishment:     "Death or life imprisonment",
		NewPunishment:     "Death or life imprisonment and fine",
	}}
	rc.CaseLaws = []models.CaseLaw{{
		CaseName:      "Bachan Singh v. State of Punjab",
		CourtName:     "Supreme Court of India",
		ReportingYear: 1980,
		Summary:       "Laid down the rarest of rare doctrine.",
		IsLandmark:    true,
		KeyHoldings:   []string{"Death penalty only in rarest of rare cases"},
	}}
	rc.RegulatoryNotes = &models.RegulatoryNotes{
		Domain:         models.DomainCriminal,
		ApplicableActs: []string{"Indian Penal Code (IPC)"},
		KeyAuthorities: []string{"Police", "Sessions Court"},
	}
	rc.Citations = []models.Citation{{
		ID:         "1",
		Type:       models.CitationStatute,
		Title:      "Indian Penal Code - Section 302: Punishment for murder",
		SourceName: "Indian Kanoon",
		URL:        "https://indiankanoon.org/doc/1560742/",
	}}
	return rc
}

func TestResponderTemplateFallback(t *testing.T) {
	rc := responderContext()

	a := NewResponder(nil, zap.NewNop())
	require.NoError(t, a.Process(context.Background(), rc))

	assert.Contains(t, rc.Response, templateNoticeEN)
	assert.Contains(t, rc.Response, "**Legal Analysis for: \"What is the punishment for murder?\"**")
	assert.Contains(t, rc.Response, "## 📜 Applicable Legal Provisions")
	assert.Contains(t, rc.Response, "### IPC Section 302 - Punishment for murder")
	assert.Contains(t, rc.Response, "**Punishment:** Death or imprisonment for life")
	assert.Contains(t, rc.Response, "**IPC Section 302 → BNS Section 103**")
	assert.Contains(t, rc.Response, "Punishment Change: Death or life imprisonment → Death or life imprisonment and fine")
	assert.Contains(t, rc.Response, "### Bachan Singh v. State of Punjab ⭐ LANDMARK")
	assert.Contains(t, rc.Response, "**Key Holdings:**")
	assert.Contains(t, rc.Response, "**Applicable Laws:** Indian Penal Code (IPC)")
	assert.Contains(t, rc.Response, "[1] Indian Penal Code - Section 302: Punishment for murder - [Indian Kanoon](https://indiankanoon.org/doc/1560742/)")
	assert.Contains(t, rc.Response, disclaimerEN)

	assert.Contains(t, rc.ResponseHindi, templateNoticeHI)
	assert.Contains(t, rc.ResponseHindi, "### IPC धारा 302 - Punishment for murder")
	assert.Contains(t, rc.ResponseHindi, "**सजा:**")
	assert.Contains(t, rc.ResponseHindi, disclaimerHI)
}

func TestResponderTemplateHindiQuery(t *testing.T) {
	rc := responderContext()
	rc.DetectedLanguage = "hi"

	a := NewResponder(nil, zap.NewNop())
	require.NoError(t, a.Process(context.Background(), rc))

	assert.Equal(t, rc.ResponseHindi, rc.Response)
	assert.Contains(t, rc.Response, "**कानूनी विश्लेषण:")
}

func TestResponderRejection(t *testing.T) {
	rc := NewRequestContext("stamp duty on sale deed", "", "s1", models.DomainCriminal)
	rc.DetectedLanguage = "en"
	rc.IsRelevant = false
	rc.RejectionReason = "⚠️ This query appears to be related to **property** law, not **criminal** law."

	a := NewResponder(nil, zap.NewNop())
	require.NoError(t, a.Process(context.Background(), rc))

	assert.Equal(t, rc.RejectionReason, rc.Response)
	assert.Equal(t, rc.RejectionReason, rc.ResponseHindi)
}

func TestResponderRejectionTranslatedForHindiQuery(t *testing.T) {
	rc := NewRequestContext("बिक्री विलेख पर स्टाम्प शुल्क", "", "s1", models.DomainCriminal)
	rc.DetectedLanguage = "hi"
	rc.IsRelevant = false
	rc.RejectionReason = "⚠️ This query appears to be related to **property** law."

	gen := &stubGenerator{genResp: "⚠️ यह प्रश्न संपत्ति कानून से संबंधित है।"}
	a := NewResponder(gen, zap.NewNop())
	require.NoError(t, a.Process(context.Background(), rc))

	assert.Equal(t, gen.genResp, rc.Response)
	assert.Equal(t, gen.genResp, rc.ResponseHindi)
	require.Len(t, gen.genPrompts, 1)
	assert.Contains(t, gen.genPrompts[0], "Translate this legal response to Hindi")
}

func TestResponderGeneratedAnswer(t *testing.T) {
	rc := responderContext()
	answer := `Murder is punished under Section 302 of the IPC.

📌 **Citation:**
- **Source:** Indian Penal Code
- **Section:** 302
- **Quote:** "Whoever commits murder shall be punished with death"`

	gen := &stubGenerator{chatResp: answer, genResp: "हत्या की सजा धारा 302 के तहत दी जाती है।"}
	a := NewResponder(gen, zap.NewNop())
	require.NoError(t, a.Process(context.Background(), rc))

	assert.Equal(t, answer, rc.Response)
	assert.Equal(t, gen.genResp, rc.ResponseHindi)
	assert.Equal(t, "Whoever commits murder shall be punished with death", rc.Citations[0].Takeaway)
}

func TestResponderGeneratedHindiQuerySkipsTranslation(t *testing.T) {
	rc := responderContext()
	rc.DetectedLanguage = "hi"

	gen := &stubGenerator{chatResp: "हत्या की सजा मृत्युदंड है।"}
	a := NewResponder(gen, zap.NewNop())
	require.NoError(t, a.Process(context.Background(), rc))

	assert.Equal(t, gen.chatResp, rc.Response)
	assert.Equal(t, gen.chatResp, rc.ResponseHindi)
	assert.Empty(t, gen.genPrompts)
}

func TestResponderDeadContextUsesTemplate(t *testing.T) {
	rc := responderContext()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	gen := &stubGenerator{chatResp: "should not be used"}
	a := NewResponder(gen, zap.NewNop())
	require.NoError(t, a.Process(ctx, rc))

	assert.Zero(t, gen.chatCalls)
	assert.Contains(t, rc.Response, templateNoticeEN)
}

func TestResponderGeneratorFailureFallsBackToTemplate(t *testing.T) {
	rc := responderContext()

	gen := &stubGenerator{chatErr: errors.New("rate limited")}
	a := NewResponder(gen, zap.NewNop())
	require.NoError(t, a.Process(context.Background(), rc))

	assert.Contains(t, rc.Response, templateNoticeEN)
	require.Len(t, rc.Errors, 1)
	assert.Contains(t, rc.Errors[0].Message, "rate limited")
}

func TestResponderOfflineGeneratorUsesTemplate(t *testing.T) {
	rc := responderContext()

	gen := &stubGenerator{offline: true, chatResp: "should not be used"}
	a := NewResponder(gen, zap.NewNop())
	require.NoError(t, a.Process(context.Background(), rc))

	assert.Contains(t, rc.Response, templateNoticeEN)
	assert.Empty(t, rc.Errors)
}
