package agents

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"nyayguru-backend/models"
)

// jurisdictionActs maps each domain to the acts that govern it.
var jurisdictionActs = map[string][]string{
	models.DomainCriminal:  {"IPC", "BNS", "CrPC", "BNSS", "IEA", "BSA"},
	models.DomainCorporate: {"Companies Act", "SEBI Act", "IBC", "LLP Act", "Partnership Act", "Income Tax Act", "GST Act"},
	models.DomainITCyber:   {"IT Act", "DPDP Act", "Information Technology Act"},
	models.DomainEnvironment: {"Environment Protection Act", "Wildlife Protection Act",
		"Forest Conservation Act", "Water Act", "Air Act", "NGT Act"},
	models.DomainCivilFamily: {"CPC", "Hindu Marriage Act", "Special Marriage Act", "Hindu Succession Act",
		"Indian Divorce Act", "Muslim Personal Law", "Domestic Violence Act", "Contract Act"},
	models.DomainProperty: {"Transfer of Property Act", "Registration Act", "Stamp Act",
		"RERA", "Land Acquisition Act"},
	models.DomainConstitutional: {"Constitution of India", "Representation of People Act", "RTI Act"},
	models.DomainTraffic:        {"Motor Vehicles Act", "Road Safety Rules"},
}

var domainNotes = map[string]models.RegulatoryNotes{
	models.DomainCriminal: {
		ApplicableActs: []string{"Indian Penal Code (IPC)", "Bhartiya Nyaya Sanhita (BNS)",
			"Criminal Procedure Code (CrPC)", "Bhartiya Nagarik Suraksha Sanhita (BNSS)"},
		KeyAuthorities:     []string{"Police", "Magistrate", "Sessions Court", "High Court", "Supreme Court"},
		FilingRequirements: []string{"FIR for cognizable offences", "Private complaint for non-cognizable"},
		TimeLimits:         []string{"Limitation periods vary by offence severity"},
	},
	models.DomainCorporate: {
		ApplicableActs:     []string{"Companies Act, 2013", "SEBI Regulations", "IBC, 2016", "Income Tax Act"},
		KeyAuthorities:     []string{"Registrar of Companies", "SEBI", "NCLT", "NCLAT"},
		FilingRequirements: []string{"Annual returns", "Board resolutions", "Statutory registers"},
		TimeLimits:         []string{"Annual return within 60 days of AGM"},
	},
	models.DomainITCyber: {
		ApplicableActs:     []string{"Information Technology Act, 2000", "IT Rules, 2021", "DPDP Act, 2023"},
		KeyAuthorities:     []string{"Cyber Crime Cells", "Adjudicating Officer", "CERT-In"},
		FilingRequirements: []string{"Cyber crime complaints online or at cyber cells"},
		TimeLimits:         []string{"Data breach notification within 6 hours to CERT-In"},
	},
	models.DomainCivilFamily: {
		ApplicableActs: []string{"Hindu Marriage Act", "Special Marriage Act",
			"Domestic Violence Act", "Hindu Succession Act", "CPC"},
		KeyAuthorities:     []string{"Family Court", "District Court", "High Court"},
		FilingRequirements: []string{"Marriage registration", "Divorce petition", "Civil Suit"},
		TimeLimits:         []string{"1 year cooling off period for mutual divorce"},
	},
	models.DomainTraffic: {
		ApplicableActs:     []string{"Motor Vehicles Act", "Road Safety Rules"},
		KeyAuthorities:     []string{"Traffic Police", "RTO", "Magistrate Court"},
		FilingRequirements: []string{"Challan payment", "Contesting challan in court"},
		TimeLimits:         []string{"Payment within specified days of challan issuance"},
	},
}

// RegulatoryFilter assigns the jurisdiction, attaches the per-domain
// regulatory bundle, and re-sorts the retrieved material by domain
// relevance.
type RegulatoryFilter struct {
	logger *zap.Logger
}

// NewRegulatoryFilter creates the regulatory stage.
func NewRegulatoryFilter(logger *zap.Logger) *RegulatoryFilter {
	return &RegulatoryFilter{logger: logger}
}

func (a *RegulatoryFilter) Kind() string { return KindRegulatory }

func (a *RegulatoryFilter) Info() Info {
	return Info{
		ID:               KindRegulatory,
		Name:             "Regulatory Filter",
		NameHindi:        "नियामक फ़िल्टर",
		Description:      "Filters by jurisdiction and regulatory category",
		DescriptionHindi: "क्षेत्राधिकार और नियामक श्रेणी द्वारा फ़िल्टर करता है",
		Color:            "#ffc107",
	}
}

func (a *RegulatoryFilter) Process(ctx context.Context, rc *RequestContext) error {
	domain := a.determineDomain(rc)
	rc.Jurisdiction = domain

	if acts, ok := jurisdictionActs[domain]; ok {
		rc.ApplicableActs = acts
	}

	scoreStatutes(rc.Statutes, domain)
	sort.SliceStable(rc.Statutes, func(i, j int) bool {
		return rc.Statutes[i].RelevanceScore > rc.Statutes[j].RelevanceScore
	})

	scoreCases(rc.CaseLaws, domain)
	sort.SliceStable(rc.CaseLaws, func(i, j int) bool {
		return rc.CaseLaws[i].RelevanceScore > rc.CaseLaws[j].RelevanceScore
	})

	notes := regulatoryNotesFor(domain)
	rc.RegulatoryNotes = &notes

	a.logger.Info("applied regulatory filter",
		zap.String("domain", domain),
		zap.Strings("applicable_acts", rc.ApplicableActs))
	return nil
}

func (a *RegulatoryFilter) determineDomain(rc *RequestContext) string {
	if rc.DetectedDomain != "" {
		return rc.DetectedDomain
	}

	for _, s := range rc.Statutes {
		switch s.ActCode {
		case "IPC", "BNS":
			return models.DomainCriminal
		case "IT", "IT Act":
			return models.DomainITCyber
		case "Companies", "Companies Act":
			return models.DomainCorporate
		}
	}
	return models.DomainCriminal
}

func scoreStatutes(statutes []models.Statute, domain string) {
	acts := jurisdictionActs[domain]
	for i := range statutes {
		score := 0
		if statutes[i].Domain == domain {
			score += 10
		}
		for _, act := range acts {
			if statutes[i].ActCode == act {
				score += 5
				break
			}
		}
		statutes[i].RelevanceScore = score
	}
}

func scoreCases(cases []models.CaseLaw, domain string) {
	for i := range cases {
		score := 0
		if cases[i].Domain == domain {
			score += 10
		}
		if cases[i].IsLandmark {
			score += 5
		}
		cases[i].RelevanceScore = score
	}
}

func regulatoryNotesFor(domain string) models.RegulatoryNotes {
	notes := models.RegulatoryNotes{Domain: domain}
	if n, ok := domainNotes[domain]; ok {
		notes.ApplicableActs = n.ApplicableActs
		notes.KeyAuthorities = n.KeyAuthorities
		notes.FilingRequirements = n.FilingRequirements
		notes.TimeLimits = n.TimeLimits
	}
	return notes
}
