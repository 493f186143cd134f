package callemail

import (
	"encoding/json"

	"github.com/freedom_case_2/callemail/internal/dates"
	"github.com/freedom_case_2/callemail/internal/models"
)

// UpdateClassificationTypes appends entry, or empties the list when entry is nil.
func (s *Store) UpdateClassificationTypes(entry *models.Reference) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.classificationTypes = appendOrReset(s.classificationTypes, entry)
}

func (s *Store) UpdateCallTypes(entry *models.Reference) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.callTypes = appendOrReset(s.callTypes, entry)
}

func (s *Store) UpdateReportTypes(entry *models.ReportType) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reportTypes = appendOrReset(s.reportTypes, entry)
}

func (s *Store) UpdateReferrers(entry *models.Reference) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.referrers = appendOrReset(s.referrers, entry)
}

func (s *Store) UpdateStatusChoices(entry *models.Choice) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statusChoices = appendOrReset(s.statusChoices, entry)
}

func (s *Store) AppendStatusChoices(choices []models.Choice) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statusChoices = append(s.statusChoices, choices...)
}

func (s *Store) AppendClassificationChoices(choices []models.Reference) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.classificationTypes = append(s.classificationTypes, choices...)
}

func appendOrReset[T any](list []T, entry *T) []T {
	if entry == nil {
		return []T{}
	}
	return append(list, *entry)
}

// Normalize returns a copy of rec ready to be held in the store: missing
// location and reporter shapes are filled in, the six date/time fields are in
// display format, volunteer_id falls back to current_user_id and the document
// URLs are derived from the id. rec itself is not modified.
func (s *Store) Normalize(rec models.CallEmail) models.CallEmail {
	out := rec.Clone()
	if out.Location == nil {
		out.Location = models.DefaultLocation()
	}
	if out.EmailUser == nil {
		out.EmailUser = models.DefaultEmailUser()
	} else if out.EmailUser.ResidentialAddress == nil {
		out.EmailUser.ResidentialAddress = models.DefaultAddress()
	}
	if err := dates.ToDisplay(&out); err != nil {
		s.logger.Warn().Err(err).Msg("record holds a date/time that is not in wire format")
	}
	if out.VolunteerID == nil || *out.VolunteerID == 0 {
		out.VolunteerID = out.CurrentUserID
	}
	out.RendererDocumentURL = s.documentURL(out.ID, "process_renderer_document")
	out.CommsLogsDocumentURL = s.documentURL(out.ID, "process_comms_log_document")
	return out
}

// UpdateCallEmail replaces the held record with the normalized form of rec.
func (s *Store) UpdateCallEmail(rec models.CallEmail) {
	normalized := s.Normalize(rec)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.callEmail = normalized
}

func (s *Store) UpdateSchema(schema []json.RawMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.callEmail.Schema = schema
}

// UpdateClassification ignores a nil classification.
func (s *Store) UpdateClassification(c *models.Reference) {
	if c == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.callEmail.Classification = c.Clone()
}

func (s *Store) UpdateReportType(rt *models.ReportType) {
	if rt == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	v := *rt
	s.callEmail.ReportType = &v
}

func (s *Store) UpdateEmailUser(u *models.EmailUser) {
	if u == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.callEmail.EmailUser = u.Clone()
}

func (s *Store) UpdateEmailUserEmpty() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.callEmail.EmailUser = models.DefaultEmailUser()
}

func (s *Store) UpdateResidentialAddress(a *models.Address) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.callEmail.EmailUser == nil {
		s.callEmail.EmailUser = models.DefaultEmailUser()
	}
	s.callEmail.EmailUser.ResidentialAddress = a.Clone()
}

func (s *Store) UpdateLocation(loc *models.Location) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.callEmail.Location = loc.Clone()
}

// UpdateLocationPoint sets the coordinates ([lon, lat]) on the existing geometry.
func (s *Store) UpdateLocationPoint(point []float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	loc := s.location()
	if loc.Geometry == nil {
		loc.Geometry = models.DefaultLocation().Geometry
	}
	loc.Geometry.Coordinates = append([]float64{}, point...)
}

func (s *Store) UpdateLocationAddress(props models.LocationProperties) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.location().Properties = props
}

func (s *Store) UpdateLocationAddressEmpty() {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := &s.location().Properties
	p.TownSuburb = models.String("")
	p.Street = models.String("")
	p.State = models.String("")
	p.Postcode = models.String("")
	p.Country = models.String("")
}

func (s *Store) UpdateLocationDetailsFieldEmpty() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.location().Properties.Details = models.String("")
}

// location returns the held location, installing the default one first if
// the record has none. Callers hold s.mu.
func (s *Store) location() *models.Location {
	if s.callEmail.Location == nil {
		s.callEmail.Location = models.DefaultLocation()
	}
	return s.callEmail.Location
}

func (s *Store) UpdateAllocatedGroupList(members []models.Member) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.callEmail.AllocatedGroup = append([]models.Member{}, members...)
}

func (s *Store) UpdateAllocatedGroupID(id *int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.callEmail.AllocatedGroupID = id
}

func (s *Store) UpdateRegionID(id *int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.callEmail.RegionID = id
}

func (s *Store) UpdateOccurrenceDateFrom(v models.OptionalString) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.callEmail.OccurrenceDateFrom = v
}

func (s *Store) UpdateOccurrenceDateTo(v models.OptionalString) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.callEmail.OccurrenceDateTo = v
}

func (s *Store) UpdateOccurrenceTimeStart(v models.OptionalString) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.callEmail.OccurrenceTimeStart = v
}

func (s *Store) UpdateOccurrenceTimeEnd(v models.OptionalString) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.callEmail.OccurrenceTimeEnd = v
}

func (s *Store) UpdateTimeOfCall(v models.OptionalString) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.callEmail.TimeOfCall = v
}

func (s *Store) UpdateDateOfCall(v models.OptionalString) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.callEmail.DateOfCall = v
}

func (s *Store) UpdateRelatedItems(items []json.RawMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.callEmail.RelatedItems = items
}

// UpdateCaller records the selected caller as the reporter. Only individuals
// map onto email_user_id; organisations are ignored.
func (s *Store) UpdateCaller(sel models.CallerSelection) {
	if sel.DataType != models.CallerIndividual {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.callEmail.EmailUserID = models.Int64(sel.ID)
}
