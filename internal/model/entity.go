// Package model defines the canonical entity shapes that every sanctions
// source is mapped into, plus the per-run result envelope.
package model

import (
	"strings"
	"time"
)

// EntityType classifies what kind of party a sanctions record designates.
type EntityType string

// Entity type values. Unknown is a valid terminal value, not an error.
const (
	EntityTypePerson       EntityType = "person"
	EntityTypeEntity       EntityType = "entity"
	EntityTypeVessel       EntityType = "vessel"
	EntityTypeAircraft     EntityType = "aircraft"
	EntityTypeOrganization EntityType = "organization"
	EntityTypeUnknown      EntityType = "unknown"
)

// IdentifierType is the closed taxonomy for identity documents and numbers.
type IdentifierType string

// Identifier type values.
const (
	IdentifierPassport     IdentifierType = "passport"
	IdentifierNationalID   IdentifierType = "national_id"
	IdentifierTaxID        IdentifierType = "tax_id"
	IdentifierRegistration IdentifierType = "registration_number"
	IdentifierIMONumber    IdentifierType = "imo_number"
	IdentifierCallSign     IdentifierType = "call_sign"
	IdentifierSwiftBic     IdentifierType = "swift_bic"
	IdentifierOther        IdentifierType = "other"
)

// AddressType classifies an address record.
type AddressType string

// Address type values.
const (
	AddressResidence    AddressType = "residence"
	AddressBusiness     AddressType = "business"
	AddressBirthPlace   AddressType = "birth_place"
	AddressRegistration AddressType = "registration"
	AddressOther        AddressType = "other"
)

// SanctionStatus represents the listing state of an entity.
type SanctionStatus string

// Sanction status values.
const (
	StatusActive   SanctionStatus = "active"
	StatusInactive SanctionStatus = "inactive"
	StatusDelisted SanctionStatus = "delisted"
	StatusPending  SanctionStatus = "pending"
)

// Address holds one address attached to an entity.
type Address struct {
	Type          AddressType `json:"address_type"`
	Street        string      `json:"street,omitempty"`
	City          string      `json:"city,omitempty"`
	StateProvince string      `json:"state_province,omitempty"`
	PostalCode    string      `json:"postal_code,omitempty"`
	Country       string      `json:"country,omitempty"`
	FullAddress   string      `json:"full_address,omitempty"`
}

// Identifier holds one identity document or number attached to an entity.
type Identifier struct {
	Type             IdentifierType `json:"identifier_type"`
	Value            string         `json:"value"`
	IssuingCountry   string         `json:"issuing_country,omitempty"`
	IssuingAuthority string         `json:"issuing_authority,omitempty"`
	IssueDate        *time.Time     `json:"issue_date,omitempty"`
	ExpiryDate       *time.Time     `json:"expiry_date,omitempty"`
}

// EntityDates carries the significant dates of an entity's lifecycle.
type EntityDates struct {
	BirthDate         *time.Time `json:"birth_date,omitempty"`
	DeathDate         *time.Time `json:"death_date,omitempty"`
	IncorporationDate *time.Time `json:"incorporation_date,omitempty"`
	DissolutionDate   *time.Time `json:"dissolution_date,omitempty"`
}

// Reference points back at the legal or published source of a listing.
type Reference struct {
	SourceURL       string     `json:"source_url,omitempty"`
	ReferenceNumber string     `json:"reference_number,omitempty"`
	PublicationDate *time.Time `json:"publication_date,omitempty"`
	LegalBasis      string     `json:"legal_basis,omitempty"`
	AdditionalInfo  string     `json:"additional_info,omitempty"`
}

// SanctionProgram names the legal/regulatory basis under which an entity is listed.
type SanctionProgram struct {
	Name        string `json:"name"`
	Authority   string `json:"authority"`
	ProgramType string `json:"program_type"`
	Description string `json:"description,omitempty"`
	LegalBasis  string `json:"legal_basis,omitempty"`
}

// SanctionEntity is the unified record shape every source is mapped into.
type SanctionEntity struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	AlternativeNames []string   `json:"alternative_names,omitempty"`
	EntityType       EntityType `json:"entity_type"`

	Source   string `json:"source"`
	SourceID string `json:"source_id,omitempty"`

	SanctionStatus    SanctionStatus    `json:"sanction_status"`
	SanctionsPrograms []SanctionProgram `json:"sanctions_programs,omitempty"`
	SanctionsReasons  []string          `json:"sanctions_reasons,omitempty"`

	Addresses   []Address    `json:"addresses,omitempty"`
	Identifiers []Identifier `json:"identifiers,omitempty"`
	Dates       *EntityDates `json:"dates,omitempty"`

	Nationality string   `json:"nationality,omitempty"`
	Citizenship []string `json:"citizenship,omitempty"`
	Occupation  string   `json:"occupation,omitempty"`
	Position    string   `json:"position,omitempty"`

	References []Reference `json:"references,omitempty"`

	CreatedAt        time.Time      `json:"created_at"`
	LastUpdated      time.Time      `json:"last_updated"`
	DataQualityScore *float64       `json:"data_quality_score,omitempty"`
	AdditionalData   map[string]any `json:"additional_data,omitempty"`
}

// NewEntity creates an entity with the defaults every source shares:
// active status, creation timestamps, and an empty extension map.
func NewEntity(id, name string, entityType EntityType, source string) *SanctionEntity {
	now := time.Now().UTC()
	return &SanctionEntity{
		ID:             id,
		Name:           name,
		EntityType:     entityType,
		Source:         source,
		SanctionStatus: StatusActive,
		CreatedAt:      now,
		LastUpdated:    now,
		AdditionalData: make(map[string]any),
	}
}

// AddAlias appends a name to AlternativeNames unless it is blank or already present.
func (e *SanctionEntity) AddAlias(name string) {
	name = strings.TrimSpace(name)
	if name == "" || name == e.Name {
		return
	}
	for _, existing := range e.AlternativeNames {
		if existing == name {
			return
		}
	}
	e.AlternativeNames = append(e.AlternativeNames, name)
}

// AddIdentifier appends an identifier to the entity.
func (e *SanctionEntity) AddIdentifier(id Identifier) {
	e.Identifiers = append(e.Identifiers, id)
}

// AddAddress appends an address to the entity.
func (e *SanctionEntity) AddAddress(addr Address) {
	e.Addresses = append(e.Addresses, addr)
}

// AddProgram appends a sanctions program to the entity.
func (e *SanctionEntity) AddProgram(p SanctionProgram) {
	e.SanctionsPrograms = append(e.SanctionsPrograms, p)
}

// AddReference appends a reference to the entity.
func (e *SanctionEntity) AddReference(r Reference) {
	e.References = append(e.References, r)
}

// NormalizedData returns the "normalized" sub-map of AdditionalData,
// creating it when absent.
func (e *SanctionEntity) NormalizedData() map[string]any {
	if e.AdditionalData == nil {
		e.AdditionalData = make(map[string]any)
	}
	sub, ok := e.AdditionalData["normalized"].(map[string]any)
	if !ok {
		sub = make(map[string]any)
		e.AdditionalData["normalized"] = sub
	}
	return sub
}
