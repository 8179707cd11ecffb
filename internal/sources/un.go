package sources

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/antchfx/xmlquery"
	"go.uber.org/zap"

	"github.com/Dateyes-glitch/sanctions-watch/internal/crawler"
	"github.com/Dateyes-glitch/sanctions-watch/internal/model"
)

// SourceUN is the registry name of the UN Security Council consolidated list.
const SourceUN = "un-sanctions"

var unDateLayouts = []string{"2006-01-02", "02 Jan 2006", "2006", "2006-1-2", "2 Jan 2006"}

var unIdentifierTable = []identifierKeyword{
	{"passport", model.IdentifierPassport},
	{"national", model.IdentifierNationalID},
	{"identity", model.IdentifierNationalID},
	{"tax", model.IdentifierTaxID},
	{"registration", model.IdentifierRegistration},
}

// Up-to-four discrete name-part fields concatenated in order form the
// primary name; original-script and entity names extend the same list.
var unNameFields = []string{
	"FIRST_NAME", "SECOND_NAME", "THIRD_NAME", "FOURTH_NAME",
	"NAME_ORIGINAL_SCRIPT", "ENTITY_NAME",
}

// UN parses the UN Security Council Consolidated Sanctions List XML, which
// uses INDIVIDUAL and ENTITY record elements with upper-case field names.
type UN struct {
	cfg    crawler.Config
	logger *zap.Logger
}

// NewUN builds the UN source parser.
func NewUN(cfg crawler.Config, logger *zap.Logger) crawler.Source {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UN{cfg: cfg, logger: logger.With(zap.String("source", cfg.Source))}
}

// DefaultUNConfig returns the stock configuration for the UN list.
func DefaultUNConfig() crawler.Config {
	return crawler.Config{
		Source:    SourceUN,
		BaseURL:   "https://placeholder.invalid/un/consolidated.xml",
		RateLimit: 3 * time.Second,
		Timeout:   90 * time.Second,
		VerifySSL: true,
	}
}

// Name implements crawler.Source.
func (s *UN) Name() string { return s.cfg.Source }

// FetchRaw downloads and splits the consolidated list XML.
func (s *UN) FetchRaw(ctx context.Context, session *crawler.Session) ([]crawler.RawRecord, error) {
	body, err := session.Get(ctx, s.cfg.BaseURL)
	if err != nil {
		return nil, err
	}
	doc, err := xmlquery.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse un sanctions xml: %w", err)
	}
	s.logger.Info("fetched un sanctions xml", zap.Int("size_kb", len(body)/1024))
	records := xmlquery.Find(doc, "//INDIVIDUAL")
	records = append(records, xmlquery.Find(doc, "//ENTITY")...)
	return asRecords(doc, records), nil
}

// ParseRecord converts one UN record into the canonical model.
func (s *UN) ParseRecord(raw crawler.RawRecord) (*model.SanctionEntity, error) {
	node, ok := raw.(*xmlquery.Node)
	if !ok {
		return nil, &crawler.ParseError{Source: s.cfg.Source, Err: fmt.Errorf("unexpected raw record type %T", raw)}
	}

	id := strings.TrimSpace(node.SelectAttr("dataid"))
	if id == "" {
		id = text(node, "REFERENCE_NUMBER")
	}
	if id == "" {
		id = "unknown"
	}

	names := s.extractNames(node)
	primary := "Unknown"
	if len(names) > 0 {
		primary = names[0]
	}

	entity := model.NewEntity("un-"+id, primary, s.entityType(node), s.cfg.Source)
	entity.SourceID = id
	if len(names) > 1 {
		for _, alias := range names[1:] {
			entity.AddAlias(alias)
		}
	}

	s.extractAddresses(node, entity)
	s.extractIdentifiers(node, entity)
	s.extractDates(node, entity)
	s.extractSanctionsInfo(node, entity)
	s.extractPersonalInfo(node, entity)

	return entity, nil
}

// extractNames concatenates the discrete name-part fields into the primary
// name, then appends alias blocks. Each alias combines its name with the
// list's quality marker, exactly as published.
func (s *UN) extractNames(node *xmlquery.Node) []string {
	var names []string

	var parts []string
	for _, field := range unNameFields {
		if value := text(node, field); value != "" {
			parts = append(parts, value)
		}
	}
	if full := strings.Join(parts, " "); full != "" {
		names = append(names, full)
	}

	aliases := xmlquery.Find(node, ".//INDIVIDUAL_ALIAS")
	aliases = append(aliases, xmlquery.Find(node, ".//ENTITY_ALIAS")...)
	for _, alias := range aliases {
		combined := joinNonEmpty(" ", text(alias, "ALIAS_NAME"), text(alias, "QUALITY"))
		if combined != "" && !containsString(names, combined) {
			names = append(names, combined)
		}
	}
	return names
}

// entityType is inferred from the tag name of the record element itself,
// falling back to which name field is populated.
func (s *UN) entityType(node *xmlquery.Node) model.EntityType {
	tag := strings.ToLower(node.Data)
	switch {
	case contains(tag, "individual"):
		return model.EntityTypePerson
	case contains(tag, "entity"):
		return model.EntityTypeEntity
	}
	if xmlquery.FindOne(node, "FIRST_NAME") != nil {
		return model.EntityTypePerson
	}
	if xmlquery.FindOne(node, "ENTITY_NAME") != nil {
		return model.EntityTypeEntity
	}
	return model.EntityTypeUnknown
}

func (s *UN) extractAddresses(node *xmlquery.Node, entity *model.SanctionEntity) {
	addresses := xmlquery.Find(node, ".//INDIVIDUAL_ADDRESS")
	addresses = append(addresses, xmlquery.Find(node, ".//ENTITY_ADDRESS")...)
	for _, addr := range addresses {
		street := text(addr, "STREET")
		city := text(addr, "CITY")
		state := text(addr, "STATE_PROVINCE")
		country := text(addr, "COUNTRY")

		entity.AddAddress(model.Address{
			Type:          model.AddressOther,
			Street:        street,
			City:          city,
			StateProvince: state,
			Country:       country,
			FullAddress:   joinNonEmpty(", ", street, city, state, country),
		})
	}
}

func (s *UN) extractIdentifiers(node *xmlquery.Node, entity *model.SanctionEntity) {
	documents := xmlquery.Find(node, ".//INDIVIDUAL_DOCUMENT")
	documents = append(documents, xmlquery.Find(node, ".//ENTITY_DOCUMENT")...)
	for _, doc := range documents {
		value := text(doc, "NUMBER")
		if value == "" {
			continue
		}
		entity.AddIdentifier(model.Identifier{
			Type:           mapIdentifierType(unIdentifierTable, text(doc, "TYPE_OF_DOCUMENT")),
			Value:          value,
			IssuingCountry: text(doc, "ISSUING_COUNTRY"),
		})
	}
}

func (s *UN) extractDates(node *xmlquery.Node, entity *model.SanctionEntity) {
	if birthDate := text(node, "INDIVIDUAL_DATE_OF_BIRTH"); birthDate != "" {
		if parsed := parseDate(s.logger, unDateLayouts, birthDate); parsed != nil {
			entity.Dates = &model.EntityDates{BirthDate: parsed}
		}
	}
}

func (s *UN) extractSanctionsInfo(node *xmlquery.Node, entity *model.SanctionEntity) {
	if committee := text(node, "UN_LIST_TYPE"); committee != "" {
		entity.AddProgram(model.SanctionProgram{
			Name:        fmt.Sprintf("UN %s", committee),
			Authority:   "United Nations Security Council",
			ProgramType: "UN Sanctions",
			Description: committee,
		})
	}
	if listedOn := text(node, "LISTED_ON"); listedOn != "" {
		entity.AddReference(model.Reference{
			PublicationDate: parseDate(s.logger, unDateLayouts, listedOn),
			AdditionalInfo:  fmt.Sprintf("Listed on UN sanctions list: %s", listedOn),
		})
	}
}

func (s *UN) extractPersonalInfo(node *xmlquery.Node, entity *model.SanctionEntity) {
	if nationality := text(node, "NATIONALITY"); nationality != "" {
		entity.Nationality = nationality
		entity.Citizenship = []string{nationality}
	}
	if placeOfBirth := text(node, "PLACE_OF_BIRTH"); placeOfBirth != "" && entity.Nationality == "" {
		entity.Nationality = placeOfBirth
	}
}
