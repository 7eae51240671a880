package service

import (
	"fmt"
	"regexp"
	"strings"

	"nyayguru-backend/models"
)

// Script ranges used for language detection. Devanagari covers Hindi,
// Marathi, and Sanskrit; Arabic script covers Urdu.
var scriptPatterns = []struct {
	lang    string
	script  string
	pattern *regexp.Regexp
}{
	{"hi", "Devanagari", regexp.MustCompile(`[\x{0900}-\x{097F}]`)},
	{"ta", "Tamil", regexp.MustCompile(`[\x{0B80}-\x{0BFF}]`)},
	{"te", "Telugu", regexp.MustCompile(`[\x{0C00}-\x{0C7F}]`)},
	{"bn", "Bengali", regexp.MustCompile(`[\x{0980}-\x{09FF}]`)},
	{"gu", "Gujarati", regexp.MustCompile(`[\x{0A80}-\x{0AFF}]`)},
	{"kn", "Kannada", regexp.MustCompile(`[\x{0C80}-\x{0CFF}]`)},
	{"ml", "Malayalam", regexp.MustCompile(`[\x{0D00}-\x{0D7F}]`)},
	{"pa", "Gurmukhi", regexp.MustCompile(`[\x{0A00}-\x{0A7F}]`)},
	{"or", "Odia", regexp.MustCompile(`[\x{0B00}-\x{0B7F}]`)},
	{"ar", "Arabic", regexp.MustCompile(`[\x{0600}-\x{06FF}]`)},
	{"zh", "Han", regexp.MustCompile(`[\x{4E00}-\x{9FFF}]`)},
	{"ja", "Kana", regexp.MustCompile(`[\x{3040}-\x{30FF}]`)},
	{"ko", "Hangul", regexp.MustCompile(`[\x{AC00}-\x{D7AF}]`)},
	{"th", "Thai", regexp.MustCompile(`[\x{0E00}-\x{0E7F}]`)},
	{"ru", "Cyrillic", regexp.MustCompile(`[\x{0400}-\x{04FF}]`)},
}

var latinLetterRe = regexp.MustCompile(`[a-zA-Z]`)

// dominantScript finds the non-Latin script with the most characters. A
// script wins over Latin when it carries more than 30% of the Latin letter
// count, which keeps mixed-script queries like "IPC 302 की सजा" on the
// Indian language side.
func dominantScript(text string) int {
	latinCount := len(latinLetterRe.FindAllString(text, -1))

	best := -1
	bestCount := 0
	for i, sp := range scriptPatterns {
		count := len(sp.pattern.FindAllString(text, -1))
		if count > bestCount {
			best, bestCount = i, count
		}
	}

	if bestCount > 0 && float64(bestCount) > float64(latinCount)*0.3 {
		return best
	}
	return -1
}

// DetectLanguage returns the ISO code of the dominant script, or "en".
func DetectLanguage(text string) string {
	if i := dominantScript(text); i >= 0 {
		return scriptPatterns[i].lang
	}
	return "en"
}

// DetectScript returns the Unicode script name of the dominant script, or
// "Latin".
func DetectScript(text string) string {
	if i := dominantScript(text); i >= 0 {
		return scriptPatterns[i].script
	}
	return "Latin"
}

// Romanized Hindi words that do not collide with common English words.
var hinglishWords = []string{
	"kya", "kaise", "kaun", "kab", "kahan", "kyun", "kyu",
	"ka", "ki", "ko", "se", "par", "aur", "ya", "lekin", "agar", "toh", "bhi",
	"saza", "kanoon", "adhikaar", "nyay", "nyaya", "adalat",
	"vakil", "mukadma", "faisla", "dand", "apradh",
	"hain", "hoon", "tha", "thi", "the", "ho", "hoga", "karein",
	"batao", "bataiye", "bataye", "samjhao", "samjhaiye",
	"karo", "kariye", "dijiye", "chahiye", "sakta",
	"nahi", "nahin", "mat", "sirf", "keval", "bahut", "bohot",
	"accha", "theek", "sahi", "galat", "zaruri",
}

var hinglishPatterns = buildHinglishPatterns()

func buildHinglishPatterns() []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, len(hinglishWords))
	for i, w := range hinglishWords {
		patterns[i] = regexp.MustCompile(`\b` + w + `\b`)
	}
	return patterns
}

var devanagariRe = regexp.MustCompile(`[\x{0900}-\x{097F}]`)

// Prompt styles.
const (
	StyleEnglish  = "english"
	StyleHinglish = "hinglish"
	StyleHindi    = "hindi"
)

// DetectPromptStyle picks the response register: Devanagari means Hindi, two
// or more distinct romanized Hindi words mean Hinglish, anything else is
// English.
func DetectPromptStyle(text string) string {
	if devanagariRe.MatchString(text) {
		return StyleHindi
	}
	lower := strings.ToLower(text)
	matched := 0
	for _, p := range hinglishPatterns {
		if p.MatchString(lower) {
			matched++
			if matched >= 2 {
				return StyleHinglish
			}
		}
	}
	return StyleEnglish
}

// The system prompts keep a fence stand-in because Go raw strings cannot
// contain backticks.
const fenceToken = "'''"

var (
	systemPromptEnglish  = strings.ReplaceAll(rawPromptEnglish, fenceToken, "```")
	systemPromptHinglish = strings.ReplaceAll(rawPromptHinglish, fenceToken, "```")
	systemPromptHindi    = strings.ReplaceAll(rawPromptHindi, fenceToken, "```")
)

const rawPromptEnglish = `You are **NyayaShastra AI** ⚖️, an authoritative yet accessible legal assistant specializing in Indian law.

## Your Persona
- **Tone:** Professional, knowledgeable, yet easy to understand
- **Expertise:** Indian Penal Code (IPC), Bharatiya Nyaya Sanhita (BNS), Motor Vehicles Act, IT Act, and other Indian laws
- **Language:** STRICTLY respond in ENGLISH. Even if the topic is Indian law, do not use Hinglish or Hindi words in your explanation unless citing a specific Hindi act name.

## CRITICAL RULES

### 1. Citation Rules (MANDATORY)
Every factual legal claim MUST include a citation in this exact format:

'''
📌 **Citation:**
- **Source:** [Act Name / Document Name]
- **Section:** [Section Number]
- **Quote:** "[Exact text from the document]"
'''

⚠️ **NEVER invent citations.** If the exact text isn't in the provided documents, say: "Based on general legal principles..." and DO NOT cite a specific section.

### 2. IPC-BNS Comparisons
When comparing IPC and BNS sections:
- Use ONLY the structured data provided
- Highlight key differences clearly
- Include old and new penalties if available
- Format as a comparison table when appropriate

### 3. Domain Guardrails
- If a fallback message is provided, include it prominently at the start
- If the query is irrelevant to the selected domain, respectfully suggest the correct domain
- Never guess or hallucinate information not in the provided context

### 4. Response Structure
1. **Direct Answer** - Address the query immediately
2. **Legal Explanation** - Provide context and details
3. **Citations** - Include all relevant citations
4. **Practical Guidance** - What should the person do next?
5. **Disclaimer** - "This is for informational purposes only. Consult a qualified lawyer for specific advice."

## Current Context
{context}
`

const rawPromptHinglish = `Aap **NyayaShastra AI** ⚖️ hain, ek expert Indian law assistant jo asaan Hindi-English mix mein samjhata hai.

## Aapka Style
- **Tone:** Professional lekin friendly aur samajhne mein aasan
- **Expertise:** IPC, BNS, Motor Vehicles Act, IT Act, aur dusre Indian laws
- **Language:** Aapko HINGLISH (Mix of Hindi and English) mein hi jawab dena hai.

## ZAROORI RULES

### 1. Citation Rules (BAHUT IMPORTANT)
Har legal fact ke saath citation dena ZAROORI hai, is format mein:

'''
📌 **Hawaala (Citation):**
- **Source:** [Act ka Naam / Document ka Naam]
- **Section:** [Section Number]
- **Quote:** "[Document se exact text]"
'''

⚠️ **KABHI BHI fake citation mat do.** Agar exact text nahi hai documents mein, toh bolo: "General legal principles ke hisaab se..." aur specific section cite mat karo.

### 2. IPC-BNS Comparisons
Jab IPC aur BNS compare karna ho:
- Sirf structured data use karo jo diya gaya hai
- Key differences clearly highlight karo
- Old aur new penalties include karo agar available hain
- Table format use karo comparison ke liye

### 3. Domain Guardrails
- Agar fallback message diya gaya hai, usse prominently include karo
- Agar query selected domain se related nahi hai, respectfully sahi domain suggest karo
- Kabhi bhi guess ya hallucinate mat karo jo context mein nahi hai

### 4. Response Structure
1. **Seedha Jawab** - Pehle question ka direct answer do
2. **Legal Explanation** - Context aur details do
3. **Citations** - Saare relevant citations include karo
4. **Practical Guidance** - Aage kya karna chahiye?
5. **Disclaimer** - "Yeh sirf information ke liye hai. Specific advice ke liye qualified vakil se baat karein."

## Current Context
{context}
`

const rawPromptHindi = `आप **न्यायशास्त्र AI** ⚖️ हैं, एक विशेषज्ञ भारतीय कानून सहायक।

## आपकी शैली
- **टोन:** पेशेवर लेकिन समझने में आसान
- **विशेषज्ञता:** IPC, BNS, मोटर वाहन अधिनियम, IT अधिनियम, और अन्य भारतीय कानून
- **भाषा:** आपको केवल हिंदी (Devanagari) में उत्तर देना है।

## महत्वपूर्ण नियम

### 1. उद्धरण नियम (अनिवार्य)
प्रत्येक कानूनी तथ्य के साथ उद्धरण देना आवश्यक है:

'''
📌 **उद्धरण:**
- **स्रोत:** [अधिनियम का नाम]
- **धारा:** [धारा संख्या]
- **पाठ:** "[दस्तावेज़ से सटीक पाठ]"
'''

⚠️ **कभी भी नकली उद्धरण न दें।**

### 2. प्रतिक्रिया संरचना
1. **सीधा उत्तर**
2. **कानूनी व्याख्या**
3. **उद्धरण**
4. **व्यावहारिक मार्गदर्शन**
5. **अस्वीकरण**

## वर्तमान संदर्भ
{context}
`

// PromptContext carries everything the responder wants rendered into the
// system prompt's context section.
type PromptContext struct {
	Statutes        []models.Statute
	CaseLaws        []models.CaseLaw
	Mappings        []models.IPCBNSMapping
	RegulatoryNotes *models.RegulatoryNotes
	FallbackMessage string
	SelectedDomain  string
}

const (
	maxPromptStatutes      = 5
	maxPromptCases         = 3
	statuteContentTruncate = 800
)

// BuildSystemPrompt selects the language-appropriate preamble and fills the
// context placeholder with the retrieved material.
func BuildSystemPrompt(query string, pc PromptContext) string {
	var base string
	switch DetectPromptStyle(query) {
	case StyleHindi:
		base = systemPromptHindi
	case StyleHinglish:
		base = systemPromptHinglish
	default:
		base = systemPromptEnglish
	}

	var parts []string
	if pc.FallbackMessage != "" {
		parts = append(parts, fmt.Sprintf("⚠️ **IMPORTANT NOTICE:**\n%s\n", pc.FallbackMessage))
	}
	if pc.SelectedDomain != "" {
		parts = append(parts, fmt.Sprintf("📁 **Selected Domain:** %s\n", pc.SelectedDomain))
	}
	if len(pc.Mappings) > 0 {
		parts = append(parts, "## Structured Legal Data (IPC-BNS Mappings)", formatMappings(pc.Mappings))
	}
	if len(pc.Statutes) > 0 || len(pc.CaseLaws) > 0 {
		parts = append(parts, "## Retrieved Legal Documents", formatStatutes(pc.Statutes), formatCaseLaws(pc.CaseLaws))
	}
	if pc.RegulatoryNotes != nil {
		parts = append(parts, formatRegulatoryNotes(pc.RegulatoryNotes))
	}
	if len(parts) == 0 {
		parts = append(parts, "No specific documents available. Answer based on general legal knowledge with appropriate disclaimers.")
	}

	return strings.ReplaceAll(base, "{context}", strings.Join(parts, "\n"))
}

// BuildUserMessage wraps the raw query with formatting reminders.
func BuildUserMessage(query string) string {
	return fmt.Sprintf(`**User Query:** %s

Please provide a comprehensive answer following all the citation and formatting rules. Remember:
- Include proper citations for all legal facts
- Use the exact format specified
- If information is not in the provided documents, clearly state it's based on general knowledge
- End with a disclaimer`, query)
}

func formatStatutes(statutes []models.Statute) string {
	if len(statutes) > maxPromptStatutes {
		statutes = statutes[:maxPromptStatutes]
	}
	var b strings.Builder
	for i, s := range statutes {
		content := s.Content
		if runes := []rune(content); len(runes) > statuteContentTruncate {
			content = string(runes[:statuteContentTruncate]) + "..."
		}
		fmt.Fprintf(&b, "\n📄 **Source %d:** %s Section %s - %s\n📁 **Category:** %s\n📝 **Content:**\n\"\"\"%s\"\"\"\n",
			i+1, s.ActCode, s.SectionNumber, s.Title, s.Domain, content)
	}
	return b.String()
}

func formatCaseLaws(cases []models.CaseLaw) string {
	if len(cases) > maxPromptCases {
		cases = cases[:maxPromptCases]
	}
	var b strings.Builder
	for _, c := range cases {
		fmt.Fprintf(&b, "\n🏛️ **Case:** %s", c.CaseName)
		if c.CitationString != "" {
			fmt.Fprintf(&b, " (%s)", c.CitationString)
		}
		fmt.Fprintf(&b, "\n- **Court:** %s", c.CourtName)
		if c.IsLandmark {
			b.WriteString("\n- **Landmark:** yes")
		}
		if c.Summary != "" {
			fmt.Fprintf(&b, "\n- **Summary:** %s", c.Summary)
		}
		for _, h := range c.KeyHoldings {
			fmt.Fprintf(&b, "\n- **Holding:** %s", h)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func formatMappings(mappings []models.IPCBNSMapping) string {
	var b strings.Builder
	for _, m := range mappings {
		fmt.Fprintf(&b, `
📊 **Legal Mapping:**
- **IPC Section:** %s (%s)
- **BNS Section:** %s (%s)
- **Mapping Type:** %s
`, m.IPCSection, m.IPCTitle, m.BNSSection, m.BNSTitle, m.MappingType)
		if len(m.Changes) > 0 {
			fmt.Fprintf(&b, "- **Changes:** %s\n", strings.Join(m.Changes, "; "))
		}
		if m.PunishmentChanged {
			fmt.Fprintf(&b, "- **Old Penalty:** %s\n- **New Penalty:** %s\n", m.OldPunishment, m.NewPunishment)
		}
	}
	return b.String()
}

func formatRegulatoryNotes(n *models.RegulatoryNotes) string {
	var b strings.Builder
	b.WriteString("## Regulatory Context\n")
	if len(n.ApplicableActs) > 0 {
		fmt.Fprintf(&b, "- **Applicable Acts:** %s\n", strings.Join(n.ApplicableActs, ", "))
	}
	if len(n.KeyAuthorities) > 0 {
		fmt.Fprintf(&b, "- **Key Authorities:** %s\n", strings.Join(n.KeyAuthorities, ", "))
	}
	if len(n.FilingRequirements) > 0 {
		fmt.Fprintf(&b, "- **Filing Requirements:** %s\n", strings.Join(n.FilingRequirements, "; "))
	}
	if len(n.TimeLimits) > 0 {
		fmt.Fprintf(&b, "- **Time Limits:** %s\n", strings.Join(n.TimeLimits, "; "))
	}
	return b.String()
}

// Citation block headers the generator is instructed to emit, one per
// prompt style.
var citationHeaderRe = regexp.MustCompile(`📌 \*\*(?:Citation|Hawaala \(Citation\)|उद्धरण):\*\*`)

var (
	citationSourceRe = regexp.MustCompile(`\*\*(?:Source|स्रोत):\*\*\s*(.+)`)
	citationSectRe   = regexp.MustCompile(`\*\*(?:Section|धारा):\*\*\s*(.+)`)
	citationQuoteRe  = regexp.MustCompile(`\*\*(?:Quote|पाठ):\*\*\s*"?([^"\n]+)"?`)
)

// CitationBlock is one citation the generator emitted inline in its answer.
type CitationBlock struct {
	Source  string
	Section string
	Quote   string
}

// ParseCitationBlocks extracts the generator's inline citation blocks so
// their quotes can be attached back onto the citation records.
func ParseCitationBlocks(text string) []CitationBlock {
	locs := citationHeaderRe.FindAllStringIndex(text, -1)
	blocks := make([]CitationBlock, 0, len(locs))
	for i, loc := range locs {
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		segment := text[loc[1]:end]

		var block CitationBlock
		if m := citationSourceRe.FindStringSubmatch(segment); m != nil {
			block.Source = strings.TrimSpace(m[1])
		}
		if m := citationSectRe.FindStringSubmatch(segment); m != nil {
			block.Section = strings.TrimSpace(m[1])
		}
		if m := citationQuoteRe.FindStringSubmatch(segment); m != nil {
			block.Quote = strings.TrimSpace(m[1])
		}
		if block.Source != "" || block.Section != "" {
			blocks = append(blocks, block)
		}
	}
	return blocks
}
