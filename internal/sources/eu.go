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

// SourceEU is the registry name of the EU consolidated sanctions list.
const SourceEU = "eu-sanctions"

// Date formats observed in the EU list, tried in order. Unpadded
// variants follow the padded ones so single-digit days and months
// still parse.
var euDateLayouts = []string{"2006-01-02", "02/01/2006", "02.01.2006", "2006", "2006-1-2", "2/1/2006", "2.1.2006"}

var euIdentifierTable = []identifierKeyword{
	{"passport", model.IdentifierPassport},
	{"national", model.IdentifierNationalID},
	{"tax", model.IdentifierTaxID},
	{"registration", model.IdentifierRegistration},
	{"id", model.IdentifierNationalID},
}

// EU parses the European External Action Service consolidated list, a
// deeply nested XML document with one element per sanctioned unit.
type EU struct {
	cfg    crawler.Config
	logger *zap.Logger
}

// NewEU builds the EU source parser.
func NewEU(cfg crawler.Config, logger *zap.Logger) crawler.Source {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EU{cfg: cfg, logger: logger.With(zap.String("source", cfg.Source))}
}

// DefaultEUConfig returns the stock configuration for the EU list.
func DefaultEUConfig() crawler.Config {
	return crawler.Config{
		Source:    SourceEU,
		BaseURL:   "https://webgate.ec.europa.eu/fsd/fsf/public/files/xmlFullSanctionsList_1_1/content",
		RateLimit: 2 * time.Second,
		Timeout:   60 * time.Second,
		VerifySSL: true,
	}
}

// Name implements crawler.Source.
func (s *EU) Name() string { return s.cfg.Source }

// FetchRaw downloads and splits the EU XML document. A malformed top-level
// document is a run-level failure.
func (s *EU) FetchRaw(ctx context.Context, session *crawler.Session) ([]crawler.RawRecord, error) {
	body, err := session.Get(ctx, s.cfg.BaseURL)
	if err != nil {
		return nil, err
	}
	doc, err := xmlquery.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse eu sanctions xml: %w", err)
	}
	s.logger.Info("fetched eu sanctions xml", zap.Int("size_kb", len(body)/1024))
	return asRecords(doc, xmlquery.Find(doc, "//sanctionEntity")), nil
}

// ParseRecord converts one sanctioned unit into the canonical model.
func (s *EU) ParseRecord(raw crawler.RawRecord) (*model.SanctionEntity, error) {
	node, ok := raw.(*xmlquery.Node)
	if !ok {
		return nil, &crawler.ParseError{Source: s.cfg.Source, Err: fmt.Errorf("unexpected raw record type %T", raw)}
	}

	id := text(node, ".//unitId")
	if id == "" {
		id = text(node, ".//logicalId")
	}

	names := s.extractNames(node)
	primary := "Unknown"
	if len(names) > 0 {
		primary = names[0]
	}

	entity := model.NewEntity("eu-"+id, primary, s.entityType(node), s.cfg.Source)
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

// extractNames collects free-text whole names and structured
// first/middle/last triples from every nameAlias block, in discovery order.
func (s *EU) extractNames(node *xmlquery.Node) []string {
	var names []string
	for _, alias := range xmlquery.Find(node, ".//nameAlias") {
		if whole := text(alias, "wholeName"); whole != "" {
			names = append(names, whole)
		}
		full := joinNonEmpty(" ",
			text(alias, "firstName"),
			text(alias, "middleName"),
			text(alias, "lastName"),
		)
		if full != "" && !containsString(names, full) {
			names = append(names, full)
		}
	}
	return names
}

func (s *EU) entityType(node *xmlquery.Node) model.EntityType {
	subjectType := strings.ToLower(text(node, ".//subjectType"))
	switch {
	case subjectType == "":
	case contains(subjectType, "person", "individual"):
		return model.EntityTypePerson
	case contains(subjectType, "entity", "enterprise"):
		return model.EntityTypeEntity
	case contains(subjectType, "vessel", "ship"):
		return model.EntityTypeVessel
	}
	if xmlquery.FindOne(node, ".//birthdate") != nil {
		return model.EntityTypePerson
	}
	if xmlquery.FindOne(node, ".//identification") != nil {
		return model.EntityTypeEntity
	}
	return model.EntityTypeUnknown
}

func (s *EU) extractAddresses(node *xmlquery.Node, entity *model.SanctionEntity) {
	for _, addr := range xmlquery.Find(node, ".//address") {
		street := text(addr, "street")
		city := text(addr, "city")
		state := text(addr, "stateProvince")
		postalCode := text(addr, "zipCode")
		country := text(addr, "country")

		entity.AddAddress(model.Address{
			// The EU list does not distinguish address types.
			Type:          model.AddressOther,
			Street:        street,
			City:          city,
			StateProvince: state,
			PostalCode:    postalCode,
			Country:       country,
			FullAddress:   joinNonEmpty(", ", street, city, state, postalCode, country),
		})
	}
}

func (s *EU) extractIdentifiers(node *xmlquery.Node, entity *model.SanctionEntity) {
	for _, ident := range xmlquery.Find(node, ".//identification") {
		value := text(ident, "number")
		if value == "" {
			continue
		}
		entity.AddIdentifier(model.Identifier{
			Type:           mapIdentifierType(euIdentifierTable, text(ident, "identificationTypeCode")),
			Value:          value,
			IssuingCountry: text(ident, "countryIso2Code"),
		})
	}
}

func (s *EU) extractDates(node *xmlquery.Node, entity *model.SanctionEntity) {
	dates := &model.EntityDates{}
	if birthDate := text(node, ".//birthdate"); birthDate != "" {
		dates.BirthDate = parseDate(s.logger, euDateLayouts, birthDate)
	}
	entity.Dates = dates
}

func (s *EU) extractSanctionsInfo(node *xmlquery.Node, entity *model.SanctionEntity) {
	for _, regulation := range xmlquery.Find(node, ".//regulation") {
		number := text(regulation, "number")
		if number == "" {
			continue
		}
		entity.AddProgram(model.SanctionProgram{
			Name:        fmt.Sprintf("EU Regulation %s", number),
			Authority:   "European Union",
			ProgramType: "EU Sanctions",
			LegalBasis:  number,
		})
		entity.AddReference(model.Reference{
			ReferenceNumber: number,
			PublicationDate: parseDate(s.logger, euDateLayouts, text(regulation, "publicationDate")),
			LegalBasis:      number,
		})
	}
}

func (s *EU) extractPersonalInfo(node *xmlquery.Node, entity *model.SanctionEntity) {
	if nationality := text(node, ".//countryIso2Code"); nationality != "" {
		entity.Nationality = nationality
		entity.Citizenship = []string{nationality}
	}
	if function := text(node, ".//function"); function != "" {
		entity.Position = function
	}
}
