package model

import "strings"

// Domain is a fixed category of agricultural concern used to scope
// evidence retrieval and filtering.
type Domain string

const (
	DomainCropManagement    Domain = "crop_management"
	DomainCattleManagement  Domain = "cattle_management"
	DomainFishFarming       Domain = "fish_farming"
	DomainStorageManagement Domain = "storage_management"
	DomainSoilManagement    Domain = "soil_management"
	DomainIrrigation        Domain = "irrigation"
	DomainUnknown           Domain = "unknown"
)

// AllDomains returns every classifiable domain, excluding unknown.
func AllDomains() []Domain {
	return []Domain{
		DomainCropManagement,
		DomainCattleManagement,
		DomainFishFarming,
		DomainStorageManagement,
		DomainSoilManagement,
		DomainIrrigation,
	}
}

// ParseDomain normalizes a raw classifier reply and maps it onto the
// closed domain set. Anything outside the set, including an empty
// string, maps to DomainUnknown.
func ParseDomain(raw string) Domain {
	d := Domain(strings.ToLower(strings.TrimSpace(raw)))
	for _, known := range AllDomains() {
		if d == known {
			return d
		}
	}
	return DomainUnknown
}

// IsLivestock reports whether the domain covers animal husbandry. The
// relevance filter guards these domains against crop-side contamination.
func (d Domain) IsLivestock() bool {
	return d == DomainFishFarming || d == DomainCattleManagement
}
