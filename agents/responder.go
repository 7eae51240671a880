package agents

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"nyayguru-backend/service"
)

const disclaimerEN = "\n\n⚖️ *Disclaimer: This information is for educational purposes only and does not constitute legal advice. Please consult a qualified legal professional for specific legal matters.*"

const disclaimerHI = "\n\n⚖️ *अस्वीकरण: यह जानकारी केवल शैक्षिक उद्देश्यों के लिए है और कानूनी सलाह नहीं है। विशिष्ट कानूनी मामलों के लिए कृपया किसी योग्य कानूनी पेशेवर से परामर्श करें।*"

const templateNoticeEN = "⚠️ *Note: AI synthesis was unavailable. This is a structured summary of the retrieved sources.*\n\n"

const templateNoticeHI = "⚠️ *नोट: AI संश्लेषण उपलब्ध नहीं था। यह प्राप्त स्रोतों का संरचित सारांश है।*\n\n"

// Responder produces the final user-visible answer: a generator call with a
// language-mirrored system prompt, or a deterministic Markdown template when
// the generator is unavailable.
type Responder struct {
	generator service.Generator
	logger    *zap.Logger
}

// NewResponder creates the response synthesis stage.
func NewResponder(generator service.Generator, logger *zap.Logger) *Responder {
	return &Responder{generator: generator, logger: logger}
}

func (a *Responder) Kind() string { return KindResponse }

func (a *Responder) Info() Info {
	return Info{
		ID:               KindResponse,
		Name:             "Response Synthesis",
		NameHindi:        "प्रतिक्रिया संश्लेषण",
		Description:      "Synthesizes comprehensive legal responses",
		DescriptionHindi: "व्यापक कानूनी प्रतिक्रियाओं का संश्लेषण करता है",
		Color:            "#9c27b0",
	}
}

func (a *Responder) Process(ctx context.Context, rc *RequestContext) error {
	if !rc.IsRelevant {
		a.renderRejection(ctx, rc)
		return nil
	}

	// A dead context means the generator call would fail anyway, so fall
	// straight through to the template answer.
	if ctx.Err() == nil && a.generator != nil && a.generator.Available() {
		if a.renderGenerated(ctx, rc) {
			return nil
		}
	}

	a.renderTemplate(rc)
	return nil
}

// renderRejection surfaces the domain gate's message, translated when the
// query was not in English.
func (a *Responder) renderRejection(ctx context.Context, rc *RequestContext) {
	rejection := rc.RejectionReason

	rejectionHI := rejection
	if rc.DetectedLanguage == "hi" {
		rejectionHI = a.translate(ctx, rejection, "Hindi")
	}

	if rc.DetectedLanguage == "hi" {
		rc.Response = rejectionHI
	} else {
		rc.Response = rejection
	}
	rc.ResponseHindi = rejectionHI

	a.logger.Info("rendered domain rejection",
		zap.String("specified_domain", rc.SpecifiedDomain))
}

func (a *Responder) renderGenerated(ctx context.Context, rc *RequestContext) bool {
	systemPrompt := service.BuildSystemPrompt(rc.Query, service.PromptContext{
		Statutes:        rc.Statutes,
		CaseLaws:        rc.CaseLaws,
		Mappings:        rc.Mappings,
		RegulatoryNotes: rc.RegulatoryNotes,
		SelectedDomain:  rc.SpecifiedDomain,
	})

	primary, err := a.generator.GenerateChat(ctx, systemPrompt, service.BuildUserMessage(rc.Query), 0.4)
	if err != nil {
		a.logger.Warn("generator response failed, using template", zap.Error(err))
		rc.AddError(a.Info().Name, err.Error())
		return false
	}

	a.attachTakeaways(rc, primary)

	rc.Response = primary
	if rc.DetectedLanguage == "hi" {
		rc.ResponseHindi = primary
	} else {
		rc.ResponseHindi = a.translate(ctx, primary, "Hindi")
	}

	a.logger.Info("response synthesis completed", zap.String("language", rc.DetectedLanguage))
	return true
}

// attachTakeaways parses the generator's inline citation blocks and copies
// their quotes onto the citation records that match on source and section.
func (a *Responder) attachTakeaways(rc *RequestContext, response string) {
	blocks := service.ParseCitationBlocks(response)
	if len(blocks) == 0 {
		return
	}

	for _, block := range blocks {
		if block.Quote == "" {
			continue
		}
		for i := range rc.Citations {
			title := rc.Citations[i].Title
			if block.Source != "" && !strings.Contains(strings.ToLower(title), strings.ToLower(block.Source)) {
				continue
			}
			if block.Section != "" && !strings.Contains(title, "Section "+block.Section) {
				continue
			}
			rc.Citations[i].Takeaway = block.Quote
			break
		}
	}
}

func (a *Responder) translate(ctx context.Context, text, language string) string {
	if a.generator == nil || !a.generator.Available() {
		return text
	}
	prompt := fmt.Sprintf("Translate this legal response to %s, maintaining professional legal terminology:\n\n%s", language, text)
	translated, err := a.generator.Generate(ctx, prompt, 0.2)
	if err != nil {
		a.logger.Warn("translation failed", zap.Error(err))
		return text
	}
	return translated
}

// renderTemplate builds the deterministic Markdown fallback in English and
// Hindi from whatever the earlier stages retrieved.
func (a *Responder) renderTemplate(rc *RequestContext) {
	var en, hi strings.Builder

	en.WriteString(templateNoticeEN)
	hi.WriteString(templateNoticeHI)

	fmt.Fprintf(&en, "**Legal Analysis for: %q**\n", rc.Query)
	fmt.Fprintf(&hi, "**कानूनी विश्लेषण: %q**\n", rc.Query)

	if len(rc.Statutes) > 0 {
		en.WriteString("## 📜 Applicable Legal Provisions\n")
		hi.WriteString("## 📜 लागू कानूनी प्रावधान\n")

		statutes := rc.Statutes
		if len(statutes) > 3 {
			statutes = statutes[:3]
		}
		for _, s := range statutes {
			fmt.Fprintf(&en, "### %s Section %s - %s\n%s\n", s.ActCode, s.SectionNumber, s.Title, s.Content)

			titleHI, contentHI := s.TitleHindi, s.ContentHindi
			if titleHI == "" {
				titleHI = s.Title
			}
			if contentHI == "" {
				contentHI = s.Content
			}
			fmt.Fprintf(&hi, "### %s धारा %s - %s\n%s\n", s.ActCode, s.SectionNumber, titleHI, contentHI)

			if s.PunishmentDescription != "" {
				fmt.Fprintf(&en, "**Punishment:** %s\n", s.PunishmentDescription)
				fmt.Fprintf(&hi, "**सजा:** %s\n", s.PunishmentDescription)
			}
		}
	}

	if len(rc.Mappings) > 0 {
		en.WriteString("\n## ⚖️ IPC to BNS Transition\n")
		hi.WriteString("\n## ⚖️ IPC से BNS में परिवर्तन\n")

		mappings := rc.Mappings
		if len(mappings) > 2 {
			mappings = mappings[:2]
		}
		for _, m := range mappings {
			fmt.Fprintf(&en, "**IPC Section %s → BNS Section %s**\n", m.IPCSection, m.BNSSection)
			fmt.Fprintf(&hi, "**IPC धारा %s → BNS धारा %s**\n", m.IPCSection, m.BNSSection)

			if len(m.Changes) > 0 {
				en.WriteString("Key Changes:\n")
				hi.WriteString("मुख्य बदलाव:\n")
				for _, change := range m.Changes {
					fmt.Fprintf(&en, "- %s\n", change)
					fmt.Fprintf(&hi, "- %s\n", change)
				}
			}
			if m.PunishmentChanged {
				fmt.Fprintf(&en, "\nPunishment Change: %s → %s\n", m.OldPunishment, m.NewPunishment)
				fmt.Fprintf(&hi, "\nसजा में परिवर्तन: %s → %s\n", m.OldPunishment, m.NewPunishment)
			}
		}
	}

	if len(rc.CaseLaws) > 0 {
		en.WriteString("\n## 🏛️ Relevant Case Laws\n")
		hi.WriteString("\n## 🏛️ संबंधित मामले\n")

		cases := rc.CaseLaws
		if len(cases) > 3 {
			cases = cases[:3]
		}
		for _, c := range cases {
			landmarkEN, landmarkHI := "", ""
			if c.IsLandmark {
				landmarkEN = " ⭐ LANDMARK"
				landmarkHI = " ⭐ ऐतिहासिक"
			}
			fmt.Fprintf(&en, "### %s%s\n*%s, %d*\n%s\n", c.CaseName, landmarkEN, c.CourtName, c.ReportingYear, c.Summary)

			nameHI := c.CaseNameHindi
			if nameHI == "" {
				nameHI = c.CaseName
			}
			fmt.Fprintf(&hi, "### %s%s\n*%s, %d*\n%s\n", nameHI, landmarkHI, c.CourtName, c.ReportingYear, c.Summary)

			if len(c.KeyHoldings) > 0 {
				en.WriteString("**Key Holdings:**\n")
				hi.WriteString("**मुख्य निर्णय:**\n")
				holdings := c.KeyHoldings
				if len(holdings) > 3 {
					holdings = holdings[:3]
				}
				for _, h := range holdings {
					fmt.Fprintf(&en, "- %s\n", h)
					fmt.Fprintf(&hi, "- %s\n", h)
				}
			}
		}
	}

	if rc.RegulatoryNotes != nil {
		notes := rc.RegulatoryNotes
		en.WriteString("\n## 📋 Regulatory Information\n")
		hi.WriteString("\n## 📋 नियामक जानकारी\n")

		if len(notes.ApplicableActs) > 0 {
			acts := notes.ApplicableActs
			if len(acts) > 5 {
				acts = acts[:5]
			}
			fmt.Fprintf(&en, "**Applicable Laws:** %s\n", strings.Join(acts, ", "))
			fmt.Fprintf(&hi, "**लागू कानून:** %s\n", strings.Join(acts, ", "))
		}
		if len(notes.KeyAuthorities) > 0 {
			authorities := notes.KeyAuthorities
			if len(authorities) > 4 {
				authorities = authorities[:4]
			}
			fmt.Fprintf(&en, "**Key Authorities:** %s\n", strings.Join(authorities, ", "))
			fmt.Fprintf(&hi, "**मुख्य प्राधिकरण:** %s\n", strings.Join(authorities, ", "))
		}
	}

	if len(rc.Citations) > 0 {
		en.WriteString("\n## 📚 Sources & Citations\n")
		hi.WriteString("\n## 📚 स्रोत और उद्धरण\n")

		citations := rc.Citations
		if len(citations) > 5 {
			citations = citations[:5]
		}
		for i, c := range citations {
			fmt.Fprintf(&en, "[%d] %s - [%s](%s)\n", i+1, c.Title, c.SourceName, c.URL)
			titleHI := c.TitleHindi
			if titleHI == "" {
				titleHI = c.Title
			}
			fmt.Fprintf(&hi, "[%d] %s - [%s](%s)\n", i+1, titleHI, c.SourceName, c.URL)
		}
	}

	responseEN := en.String() + disclaimerEN
	responseHI := hi.String() + disclaimerHI

	if rc.DetectedLanguage == "hi" {
		rc.Response = responseHI
	} else {
		rc.Response = responseEN
	}
	rc.ResponseHindi = responseHI
}
