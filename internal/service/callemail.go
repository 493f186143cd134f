package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/freedom_case_2/callemail/internal/db"
	"github.com/freedom_case_2/callemail/internal/models"
	"github.com/freedom_case_2/callemail/internal/refdata"
)

// CallEmailService implements the intake side of the call_email endpoints.
type CallEmailService struct {
	Repo      db.Repository
	Refs      refdata.Set
	Validator *validator.Validate
	Logger    zerolog.Logger
	Now       func() time.Time
}

func (s *CallEmailService) validator() *validator.Validate {
	if s.Validator == nil {
		s.Validator = NewValidator()
	}
	return s.Validator
}

func (s *CallEmailService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Get returns a stored record as seen by userID.
func (s *CallEmailService) Get(ctx context.Context, id int64, userID *int64) (models.CallEmail, error) {
	rec, err := s.Repo.Get(ctx, id)
	if err != nil {
		return models.CallEmail{}, err
	}
	rec.CurrentUserID = userID
	return rec, nil
}

// Create stores a placeholder draft with a fresh number and location.
func (s *CallEmailService) Create(ctx context.Context, userID *int64) (models.CallEmail, error) {
	rec := models.NewCallEmail()
	if err := s.assignIdentity(ctx, &rec); err != nil {
		return models.CallEmail{}, err
	}
	rec.LodgementDate = s.now().Format("2006-01-02")
	rec.AssignedToID = userID
	if err := s.Repo.Put(ctx, rec); err != nil {
		return models.CallEmail{}, fmt.Errorf("create call_email: %w", err)
	}
	s.Logger.Info().Int64("call_email_id", *rec.ID).Str("number", rec.Number).Msg("call_email created")
	rec.CurrentUserID = userID
	return rec, nil
}

// Duplicate stores payload as a new draft record with its own location.
func (s *CallEmailService) Duplicate(ctx context.Context, payload models.CallEmail, userID *int64) (models.CallEmail, error) {
	if err := s.validate(payload, false); err != nil {
		return models.CallEmail{}, err
	}
	rec := payload.Clone()
	if rec.Location == nil {
		rec.Location = models.InitialLocation()
	}
	rec.Location.ID = nil
	if err := s.assignIdentity(ctx, &rec); err != nil {
		return models.CallEmail{}, err
	}
	rec.LodgementDate = s.now().Format("2006-01-02")
	s.prepare(&rec)
	if err := s.Repo.Put(ctx, rec); err != nil {
		return models.CallEmail{}, fmt.Errorf("duplicate call_email: %w", err)
	}
	s.Logger.Info().Int64("call_email_id", *rec.ID).Msg("call_email duplicated")
	rec.CurrentUserID = userID
	return rec, nil
}

// SaveDraft stores payload over record id without mandatory-field checks.
func (s *CallEmailService) SaveDraft(ctx context.Context, id int64, payload models.CallEmail, userID *int64) (models.CallEmail, error) {
	return s.write(ctx, id, payload, userID, false)
}

// Submit stores payload over record id once the mandatory fields are filled
// in and opens the record.
func (s *CallEmailService) Submit(ctx context.Context, id int64, payload models.CallEmail, userID *int64) (models.CallEmail, error) {
	return s.write(ctx, id, payload, userID, true)
}

func (s *CallEmailService) write(ctx context.Context, id int64, payload models.CallEmail, userID *int64, submit bool) (models.CallEmail, error) {
	existing, err := s.Repo.Get(ctx, id)
	if err != nil {
		return models.CallEmail{}, err
	}
	if err := s.validate(payload, submit); err != nil {
		return models.CallEmail{}, err
	}

	rec := payload.Clone()
	rec.ID = existing.ID
	rec.Number = existing.Number
	rec.LodgementDate = existing.LodgementDate
	rec.Status = existing.Status
	if submit {
		if st, ok := s.Refs.Status(models.StatusOpen); ok {
			rec.Status = &st
		}
	}
	rec.Data = mergeData(existing.Data, rec.Data)
	if rec.Location == nil {
		rec.Location = existing.Location.Clone()
	}
	if rec.Location != nil && rec.Location.ID == nil {
		if existing.Location != nil && existing.Location.ID != nil {
			rec.Location.ID = models.Int64(*existing.Location.ID)
		} else {
			locID, err := s.Repo.NextID(ctx, db.SeqLocation)
			if err != nil {
				return models.CallEmail{}, err
			}
			rec.Location.ID = models.Int64(locID)
		}
	}
	s.prepare(&rec)
	if err := s.Repo.Put(ctx, rec); err != nil {
		return models.CallEmail{}, fmt.Errorf("save call_email %d: %w", id, err)
	}
	s.Logger.Info().Int64("call_email_id", id).Bool("submit", submit).Msg("call_email saved")
	rec.CurrentUserID = userID
	return rec, nil
}

// SavePerson stores the record's reporter and returns it with ids assigned.
func (s *CallEmailService) SavePerson(ctx context.Context, id int64, payload models.CallEmail) (models.EmailUser, error) {
	rec, err := s.Repo.Get(ctx, id)
	if err != nil {
		return models.EmailUser{}, err
	}
	u := payload.EmailUser.Clone()
	if u == nil || (u.FirstName == "" && u.LastName == "") {
		return models.EmailUser{}, nonFieldError(msgNoPerson)
	}
	if u.ID == nil {
		next, err := s.Repo.NextID(ctx, db.SeqEmailUser)
		if err != nil {
			return models.EmailUser{}, err
		}
		u.ID = models.Int64(next)
	}
	if u.ResidentialAddress == nil {
		u.ResidentialAddress = models.DefaultAddress()
	}
	if u.ResidentialAddress.ID == nil {
		next, err := s.Repo.NextID(ctx, db.SeqAddress)
		if err != nil {
			return models.EmailUser{}, err
		}
		u.ResidentialAddress.ID = models.Int64(next)
	}
	u.ResidentialAddressID = models.Int64(*u.ResidentialAddress.ID)
	rec.EmailUser = u
	rec.EmailUserID = models.Int64(*u.ID)
	if err := s.Repo.Put(ctx, rec); err != nil {
		return models.EmailUser{}, fmt.Errorf("save call_email %d person: %w", id, err)
	}
	return *u.Clone(), nil
}

func (s *CallEmailService) assignIdentity(ctx context.Context, rec *models.CallEmail) error {
	id, err := s.Repo.NextID(ctx, db.SeqCallEmail)
	if err != nil {
		return fmt.Errorf("next call_email id: %w", err)
	}
	locID, err := s.Repo.NextID(ctx, db.SeqLocation)
	if err != nil {
		return fmt.Errorf("next location id: %w", err)
	}
	rec.ID = models.Int64(id)
	rec.Number = fmt.Sprintf("CE%06d", id)
	if st, ok := s.Refs.Status(models.StatusDraft); ok {
		rec.Status = &st
	}
	if rec.Location == nil {
		rec.Location = models.InitialLocation()
	}
	rec.Location.ID = models.Int64(locID)
	return nil
}

// prepare brings a validated record into its stored shape.
func (s *CallEmailService) prepare(rec *models.CallEmail) {
	if rec.Location != nil {
		rec.LocationID = cloneID(rec.Location.ID)
	}
	if rec.Classification != nil && rec.Classification.ID != nil {
		if c, ok := s.Refs.Classification(*rec.Classification.ID); ok {
			rec.Classification = c.Clone()
		}
		rec.ClassificationID = cloneID(rec.Classification.ID)
	}
	if rec.ReportType != nil && rec.ReportType.ID != nil {
		if rt, ok := s.Refs.ReportType(*rec.ReportType.ID); ok {
			rec.ReportType = &rt
		}
		rec.ReportTypeID = cloneID(rec.ReportType.ID)
	}
	if rec.CallType != nil && rec.CallType.ID != nil {
		if ct, ok := s.Refs.CallType(*rec.CallType.ID); ok {
			rec.CallType = ct.Clone()
		}
	}
	for _, f := range rec.DateTimeFields() {
		switch {
		case f.Value.IsEmpty():
			*f.Value = models.Null()
		case f.Kind == models.KindTime && f.Value.Valid:
			if v, ok := normalizeWireTime(f.Value.Value); ok {
				f.Value.Value = v
			}
		}
	}
	if len(rec.RendererData) > 0 {
		rec.Data = mergeData(rec.Data, rendererToData(rec.RendererData))
	}
	rec.RendererData = nil
	rec.CurrentUserID = nil
	rec.RendererDocumentURL = ""
	rec.CommsLogsDocumentURL = ""
}

// rendererToData turns submitted form values into data records, ordered by
// field name.
func rendererToData(values map[string]models.FormValue) []models.FormDataRecord {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]models.FormDataRecord, 0, len(keys))
	for _, k := range keys {
		v := values[k]
		value := v.Value
		if value == nil {
			value = json.RawMessage("null")
		}
		out = append(out, models.FormDataRecord{
			FieldName:  k,
			SchemaName: k,
			Value:      value,
			Comment:    v.CommentValue,
			Deficiency: v.DeficiencyValue,
		})
	}
	return out
}

// mergeData overlays updates on base by field name, keeping base's order.
func mergeData(base, updates []models.FormDataRecord) []models.FormDataRecord {
	if len(updates) == 0 {
		return base
	}
	idx := make(map[string]int, len(base))
	out := append([]models.FormDataRecord{}, base...)
	for i, d := range out {
		idx[d.FieldName] = i
	}
	for _, d := range updates {
		if i, ok := idx[d.FieldName]; ok {
			out[i] = d
			continue
		}
		idx[d.FieldName] = len(out)
		out = append(out, d)
	}
	return out
}

func cloneID(id *int64) *int64 {
	if id == nil {
		return nil
	}
	return models.Int64(*id)
}
