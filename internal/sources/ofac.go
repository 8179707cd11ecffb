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

// SourceOFAC is the registry name of the OFAC SDN list.
const SourceOFAC = "ofac"

// OFAC date formats, tried in order. DD/MM/YYYY is tried before MM/DD/YYYY,
// so ambiguous dates like 03/04/2020 resolve to the first interpretation
// that parses; the source data does not say which is meant.
// Unpadded variants follow the padded ones so single-digit days and
// months still parse.
var ofacDateLayouts = []string{
	"02 Jan 2006", "2006-01-02", "02/01/2006", "01/02/2006", "2006",
	"2 Jan 2006", "2006-1-2", "2/1/2006", "1/2/2006",
}

var ofacIdentifierTable = []identifierKeyword{
	{"passport", model.IdentifierPassport},
	{"national", model.IdentifierNationalID},
	{"tax", model.IdentifierTaxID},
	{"registration", model.IdentifierRegistration},
	{"swift", model.IdentifierSwiftBic},
	{"imo", model.IdentifierIMONumber},
	{"call sign", model.IdentifierCallSign},
}

// OFAC parses the US Treasury SDN list, XML with one sdnEntry per record
// and an explicit sdnType attribute.
type OFAC struct {
	cfg    crawler.Config
	logger *zap.Logger
}

// NewOFAC builds the OFAC source parser.
func NewOFAC(cfg crawler.Config, logger *zap.Logger) crawler.Source {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OFAC{cfg: cfg, logger: logger.With(zap.String("source", cfg.Source))}
}

// DefaultOFACConfig returns the stock configuration for the SDN list.
func DefaultOFACConfig() crawler.Config {
	return crawler.Config{
		Source:    SourceOFAC,
		BaseURL:   "https://placeholder.invalid/ofac/sdn.xml",
		RateLimit: 3 * time.Second,
		Timeout:   120 * time.Second,
		VerifySSL: true,
	}
}

// Name implements crawler.Source.
func (s *OFAC) Name() string { return s.cfg.Source }

// FetchRaw downloads and splits the SDN XML document.
func (s *OFAC) FetchRaw(ctx context.Context, session *crawler.Session) ([]crawler.RawRecord, error) {
	body, err := session.Get(ctx, s.cfg.BaseURL)
	if err != nil {
		return nil, err
	}
	doc, err := xmlquery.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse ofac sdn xml: %w", err)
	}
	s.logger.Info("fetched ofac sdn xml", zap.Int("size_kb", len(body)/1024))
	return asRecords(doc, xmlquery.Find(doc, "//sdnEntry")), nil
}

// ParseRecord converts one SDN record into the canonical model.
func (s *OFAC) ParseRecord(raw crawler.RawRecord) (*model.SanctionEntity, error) {
	node, ok := raw.(*xmlquery.Node)
	if !ok {
		return nil, &crawler.ParseError{Source: s.cfg.Source, Err: fmt.Errorf("unexpected raw record type %T", raw)}
	}

	id := node.SelectAttr("uid")
	if id == "" {
		id = text(node, ".//uid")
	}
	if id == "" {
		id = text(node, ".//uidNumber")
	}
	if id == "" {
		id = "unknown"
	}

	firstName := text(node, ".//firstName")
	lastName := text(node, ".//lastName")
	primary := joinNonEmpty(" ", firstName, lastName)
	if primary == "" {
		primary = text(node, ".//title")
	}
	if primary == "" {
		primary = "Unknown"
	}

	entity := model.NewEntity("ofac-"+id, primary, s.entityType(node), s.cfg.Source)
	entity.SourceID = id
	for _, alias := range s.extractAliases(node) {
		entity.AddAlias(alias)
	}

	s.extractAddresses(node, entity)
	s.extractIdentifiers(node, entity)
	s.extractDates(node, entity)
	s.extractSanctionsInfo(node, entity)
	s.extractPersonalInfo(node, entity)

	return entity, nil
}

// extractAliases collects aka blocks; an alias needs both a first and a
// last name to count.
func (s *OFAC) extractAliases(node *xmlquery.Node) []string {
	var aliases []string
	for _, aka := range xmlquery.Find(node, ".//aka") {
		firstName := text(aka, "firstName")
		lastName := text(aka, "lastName")
		if firstName == "" || lastName == "" {
			continue
		}
		alias := firstName + " " + lastName
		if !containsString(aliases, alias) {
			aliases = append(aliases, alias)
		}
	}
	return aliases
}

func (s *OFAC) entityType(node *xmlquery.Node) model.EntityType {
	sdnType := strings.ToLower(node.SelectAttr("sdnType"))
	switch {
	case contains(sdnType, "individual"):
		return model.EntityTypePerson
	case contains(sdnType, "entity"):
		return model.EntityTypeEntity
	case contains(sdnType, "vessel"):
		return model.EntityTypeVessel
	case contains(sdnType, "aircraft"):
		return model.EntityTypeAircraft
	}
	if xmlquery.FindOne(node, ".//dateOfBirth") != nil {
		return model.EntityTypePerson
	}
	return model.EntityTypeUnknown
}

func (s *OFAC) extractAddresses(node *xmlquery.Node, entity *model.SanctionEntity) {
	for _, addr := range xmlquery.Find(node, ".//address") {
		street := joinNonEmpty(", ", text(addr, "address1"), text(addr, "address2"))
		city := text(addr, "city")
		state := text(addr, "stateOrProvince")
		postalCode := text(addr, "postalCode")
		country := text(addr, "country")

		entity.AddAddress(model.Address{
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

func (s *OFAC) extractIdentifiers(node *xmlquery.Node, entity *model.SanctionEntity) {
	for _, ident := range xmlquery.Find(node, ".//id") {
		value := text(ident, "idNumber")
		if value == "" {
			continue
		}
		entity.AddIdentifier(model.Identifier{
			Type:           mapIdentifierType(ofacIdentifierTable, text(ident, "idType")),
			Value:          value,
			IssuingCountry: text(ident, "idCountry"),
		})
	}
}

func (s *OFAC) extractDates(node *xmlquery.Node, entity *model.SanctionEntity) {
	dates := &model.EntityDates{}
	if birthDate := text(node, ".//dateOfBirth"); birthDate != "" {
		dates.BirthDate = parseDate(s.logger, ofacDateLayouts, birthDate)
	}
	entity.Dates = dates
}

func (s *OFAC) extractSanctionsInfo(node *xmlquery.Node, entity *model.SanctionEntity) {
	for _, program := range xmlquery.Find(node, ".//program") {
		name := strings.TrimSpace(program.InnerText())
		if name == "" {
			continue
		}
		entity.AddProgram(model.SanctionProgram{
			Name:        name,
			Authority:   "US Treasury OFAC",
			ProgramType: "OFAC Sanctions",
			Description: name,
		})
	}
}

func (s *OFAC) extractPersonalInfo(node *xmlquery.Node, entity *model.SanctionEntity) {
	if nationality := text(node, ".//nationality"); nationality != "" {
		entity.Nationality = nationality
		entity.Citizenship = []string{nationality}
	}
	if title := text(node, ".//title"); title != "" {
		entity.Position = title
	}
}
