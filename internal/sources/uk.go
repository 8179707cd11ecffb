package sources

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strings"
	"time"
	"unicode"

	"go.uber.org/zap"

	"github.com/Dateyes-glitch/sanctions-watch/internal/crawler"
	"github.com/Dateyes-glitch/sanctions-watch/internal/model"
)

// SourceUK is the registry name of the UK OFSI consolidated list.
const SourceUK = "uk-treasury"

// UK date formats, tried in order. As with OFAC, DD/MM before any
// alternative means ambiguous day/month inputs take the first parse.
// Unpadded variants follow the padded ones so single-digit days and
// months still parse.
var ukDateLayouts = []string{
	"02/01/2006", "02-01-2006", "2006-01-02", "02 Jan 2006", "Jan 2006", "2006",
	"2/1/2006", "2-1-2006", "2006-1-2", "2 Jan 2006",
}

// Row is one CSV row keyed by header column name.
type Row map[string]string

// UK parses the UK HM Treasury OFSI consolidated list, a flat CSV with
// positional Name1..Name6 and Address1..Address6 columns.
type UK struct {
	cfg    crawler.Config
	logger *zap.Logger
}

// NewUK builds the UK Treasury source parser.
func NewUK(cfg crawler.Config, logger *zap.Logger) crawler.Source {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UK{cfg: cfg, logger: logger.With(zap.String("source", cfg.Source))}
}

// DefaultUKConfig returns the stock configuration for the OFSI list.
func DefaultUKConfig() crawler.Config {
	return crawler.Config{
		Source:    SourceUK,
		BaseURL:   "https://ofsistorage.blob.core.windows.net/publishlive/2022format/ConList.csv",
		RateLimit: 2 * time.Second,
		Timeout:   60 * time.Second,
		VerifySSL: true,
	}
}

// Name implements crawler.Source.
func (s *UK) Name() string { return s.cfg.Source }

// FetchRaw downloads the CSV and yields one raw record per data row.
// A CSV that cannot be read at all is a run-level failure.
func (s *UK) FetchRaw(ctx context.Context, session *crawler.Session) ([]crawler.RawRecord, error) {
	body, err := session.Get(ctx, s.cfg.BaseURL)
	if err != nil {
		return nil, err
	}
	reader := csv.NewReader(bytes.NewReader(body))
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse uk treasury csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	header := rows[0]
	records := make([]crawler.RawRecord, 0, len(rows)-1)
	for _, fields := range rows[1:] {
		row := make(Row, len(header))
		for i, name := range header {
			if i < len(fields) {
				row[name] = fields[i]
			}
		}
		records = append(records, row)
	}
	s.logger.Info("fetched uk treasury csv", zap.Int("rows", len(records)))
	return records, nil
}

// ParseRecord converts one CSV row into the canonical model.
func (s *UK) ParseRecord(raw crawler.RawRecord) (*model.SanctionEntity, error) {
	row, ok := raw.(Row)
	if !ok {
		return nil, &crawler.ParseError{Source: s.cfg.Source, Err: fmt.Errorf("unexpected raw record type %T", raw)}
	}

	id := row.get("GroupID")

	// The first non-empty name column is primary, the rest are aliases.
	var names []string
	for _, column := range []string{"Name1", "Name2", "Name3", "Name4", "Name5", "Name6"} {
		if name := row.get(column); name != "" {
			names = append(names, name)
		}
	}
	primary := "Unknown"
	if len(names) > 0 {
		primary = names[0]
	}

	entity := model.NewEntity("uk-"+id, primary, s.entityType(row), s.cfg.Source)
	entity.SourceID = id
	if len(names) > 1 {
		for _, alias := range names[1:] {
			entity.AddAlias(alias)
		}
	}

	s.extractAddress(row, entity)
	s.extractIdentifiers(row, entity)
	s.extractDates(row, entity)
	s.extractSanctionsInfo(row, entity)
	s.extractPersonalInfo(row, entity)

	return entity, nil
}

func (s *UK) entityType(row Row) model.EntityType {
	groupType := strings.ToLower(row.get("GroupType"))
	switch {
	case contains(groupType, "individual"):
		return model.EntityTypePerson
	case contains(groupType, "entity", "organisation"):
		return model.EntityTypeEntity
	case contains(groupType, "ship", "vessel"):
		return model.EntityTypeVessel
	}
	if row.get("DOB") != "" {
		return model.EntityTypePerson
	}
	return model.EntityTypeUnknown
}

// extractAddress folds the positional address columns into one address.
// The last non-empty column is treated as the country and the first token
// that looks like a postal code is taken as one; both heuristics are
// best-effort and may misclassify.
func (s *UK) extractAddress(row Row, entity *model.SanctionEntity) {
	var parts []string
	for _, column := range []string{"Address1", "Address2", "Address3", "Address4", "Address5", "Address6"} {
		if part := row.get(column); part != "" {
			parts = append(parts, part)
		}
	}
	if len(parts) == 0 {
		return
	}

	var country string
	if candidate := parts[len(parts)-1]; len(candidate) <= 50 {
		country = candidate
	}
	var postalCode string
	for _, part := range parts {
		if looksLikePostalCode(part) {
			postalCode = part
			break
		}
	}

	entity.AddAddress(model.Address{
		Type:        model.AddressOther,
		PostalCode:  postalCode,
		Country:     country,
		FullAddress: strings.Join(parts, ", "),
	})
}

func (s *UK) extractIdentifiers(row Row, entity *model.SanctionEntity) {
	// The passport-details field is free text; the first token long enough
	// to be a passport number is used.
	if details := row.get("PassportDetails"); details != "" {
		for _, token := range strings.Fields(details) {
			if len(token) >= 6 {
				entity.AddIdentifier(model.Identifier{
					Type:  model.IdentifierPassport,
					Value: token,
				})
				break
			}
		}
	}
	if nationalID := row.get("NationalIdentificationNumber"); nationalID != "" {
		entity.AddIdentifier(model.Identifier{
			Type:  model.IdentifierNationalID,
			Value: nationalID,
		})
	}
}

func (s *UK) extractDates(row Row, entity *model.SanctionEntity) {
	if parsed := s.parseDate(row.get("DOB")); parsed != nil {
		entity.Dates = &model.EntityDates{BirthDate: parsed}
	}
}

// parseDate handles the list's partial-date convention: any date column
// may carry 00/00/<year>, which reads as January 1 of that year.
func (s *UK) parseDate(value string) *time.Time {
	if value == "" {
		return nil
	}
	value = strings.ReplaceAll(value, "00/00/", "01/01/")
	return parseDate(s.logger, ukDateLayouts, value)
}

func (s *UK) extractSanctionsInfo(row Row, entity *model.SanctionEntity) {
	if regime := row.get("Regime"); regime != "" {
		entity.AddProgram(model.SanctionProgram{
			Name:        regime,
			Authority:   "UK HM Treasury OFSI",
			ProgramType: "UK Sanctions",
			Description: regime,
		})
	}
	if listedOn := row.get("ListedOn"); listedOn != "" {
		entity.AddReference(model.Reference{
			PublicationDate: s.parseDate(listedOn),
			AdditionalInfo:  fmt.Sprintf("Listed on UK sanctions list: %s", listedOn),
		})
	}
}

func (s *UK) extractPersonalInfo(row Row, entity *model.SanctionEntity) {
	if countryOfBirth := row.get("CountryOfBirth"); countryOfBirth != "" {
		entity.Nationality = countryOfBirth
		entity.Citizenship = []string{countryOfBirth}
	}
	if position := row.get("Position"); position != "" {
		entity.Position = position
	}
}

func (r Row) get(column string) string {
	return strings.TrimSpace(r[column])
}

// looksLikePostalCode applies the list's loose heuristic: 3 to 10
// characters with at least one digit.
func looksLikePostalCode(text string) bool {
	text = strings.TrimSpace(text)
	if len(text) < 3 || len(text) > 10 {
		return false
	}
	for _, r := range text {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
