package models

// Legal domain labels used for classification, filtering, and jurisdiction tagging.
const (
	DomainCriminal       = "criminal"
	DomainCorporate      = "corporate"
	DomainCivilFamily    = "civil_family"
	DomainITCyber        = "it_cyber"
	DomainTraffic        = "traffic"
	DomainProperty       = "property"
	DomainConstitutional = "constitutional"
	DomainEnvironment    = "environment"

	// DomainAll is the wildcard: no domain filtering is applied.
	DomainAll = "all"
)

// AllDomains lists every classifiable domain in a fixed order.
var AllDomains = []string{
	DomainTraffic,
	DomainCriminal,
	DomainCivilFamily,
	DomainCorporate,
	DomainITCyber,
	DomainProperty,
	DomainConstitutional,
	DomainEnvironment,
}

// IsKnownDomain reports whether d is one of the classifiable domains.
func IsKnownDomain(d string) bool {
	for _, known := range AllDomains {
		if d == known {
			return true
		}
	}
	return false
}
