package callemail

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/freedom_case_2/callemail/internal/api"
	"github.com/freedom_case_2/callemail/internal/dates"
	"github.com/freedom_case_2/callemail/internal/geocode"
	"github.com/freedom_case_2/callemail/internal/models"
	"github.com/freedom_case_2/callemail/internal/notify"
)

// Crud selects the endpoint SaveCallEmail writes to.
type Crud string

const (
	CrudCreate    Crud = "create"
	CrudDuplicate Crud = "duplicate"
	CrudSave      Crud = "save"
	CrudUpdate    Crud = "update"
)

type SaveOptions struct {
	Crud Crud
	// Internal hands failures and the saved record back to the caller
	// instead of showing dialogs.
	Internal bool
}

var ErrNoAPI = errors.New("callemail: store has no api client")

// LoadCallEmail fetches record id, holds it and seeds the form values from
// its data records. Failures leave the store as it was and are only logged.
func (s *Store) LoadCallEmail(ctx context.Context, id int64) {
	if s.api == nil {
		s.logger.Warn().Err(ErrNoAPI).Msg("load skipped")
		return
	}
	rec, err := s.api.Get(ctx, id)
	if err != nil {
		s.logger.Warn().Err(err).Int64("call_email_id", id).Msg("failed to load call/email")
		return
	}
	s.UpdateCallEmail(rec)

	if s.forms == nil {
		return
	}
	for _, d := range rec.Data {
		s.forms.SetFormValue(d.FieldName, models.FormValue{
			Value:           d.Value,
			CommentValue:    d.Comment,
			DeficiencyValue: d.Deficiency,
		})
	}
}

// SaveCallEmailPerson saves the record's reporter and holds the saved copy.
func (s *Store) SaveCallEmailPerson(ctx context.Context) error {
	rec := s.CallEmail()
	if s.api == nil {
		return ErrNoAPI
	}
	saved, err := s.api.SavePerson(ctx, rec.ID, rec)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to save call/email person")
		text := notify.TextSaveError
		var apiErr *api.Error
		if errors.As(err, &apiErr) && len(apiErr.NonFieldErrors()) > 0 {
			text = apiErr.NonFieldErrors()[0]
		}
		s.notify(ctx, notify.Failure(text))
		return err
	}
	s.UpdateEmailUser(&saved)
	s.notify(ctx, notify.Success(notify.TextSaved))
	return nil
}

// BuildPayload is the record as it is sent for opts: a copy with dates and
// times in wire format, ids cleared for duplication and the renderer form
// data attached when the record has a schema.
func (s *Store) BuildPayload(opts SaveOptions) (models.CallEmail, error) {
	payload := s.CallEmail()
	if err := dates.ToWire(&payload); err != nil {
		return models.CallEmail{}, err
	}
	if opts.Crud == CrudDuplicate {
		payload.ID = nil
		payload.LocationID = nil
		if payload.Location != nil {
			payload.Location.ID = nil
		}
	}
	if len(payload.Schema) > 0 && s.forms != nil {
		payload.RendererData = s.forms.RendererFormData()
	}
	return payload, nil
}

// SaveCallEmail writes the record according to opts.Crud and holds the
// saved copy the API returns. See SaveOptions for how Internal changes what
// the operator sees.
func (s *Store) SaveCallEmail(ctx context.Context, opts SaveOptions) (*models.CallEmail, error) {
	saved, err := s.save(ctx, opts)
	if err != nil {
		s.logger.Warn().Err(err).Str("crud", string(opts.Crud)).Msg("failed to save call/email")
		if !opts.Internal {
			s.notify(ctx, notify.Failure(notify.TextSaveError))
		}
		return nil, err
	}

	switch {
	case opts.Crud == CrudDuplicate:
		if s.navigator != nil {
			s.navigator.Redirect(DetailURL(saved.ID))
		}
	case opts.Crud != CrudCreate && !opts.Internal:
		s.notify(ctx, notify.Success(notify.TextSaved))
	}
	return saved, nil
}

func (s *Store) save(ctx context.Context, opts SaveOptions) (*models.CallEmail, error) {
	if s.api == nil {
		return nil, ErrNoAPI
	}
	var (
		saved models.CallEmail
		err   error
	)
	if opts.Crud == CrudCreate {
		saved, err = s.api.Create(ctx)
	} else {
		// Only branches that send the record need its wire form.
		var payload models.CallEmail
		if payload, err = s.BuildPayload(opts); err != nil {
			return nil, err
		}
		saved, err = s.write(ctx, opts, payload)
	}
	if err != nil {
		return nil, fmt.Errorf("%s call/email: %w", opts.Crud, err)
	}

	s.UpdateCallEmail(saved)
	held := s.CallEmail()
	return &held, nil
}

func (s *Store) write(ctx context.Context, opts SaveOptions, payload models.CallEmail) (models.CallEmail, error) {
	id := s.CallEmail().ID
	switch opts.Crud {
	case CrudDuplicate:
		return s.api.Duplicate(ctx, payload)
	case CrudSave:
		saved, err := s.api.SaveDraft(ctx, id, payload)
		if err != nil {
			s.notify(ctx, notify.Dialog{Title: notify.TitleError, HTML: api.FormatError(err), Kind: notify.KindError})
		}
		return saved, err
	default:
		saved, err := s.api.Update(ctx, id, payload)
		if err != nil {
			s.notify(ctx, notify.Dialog{Title: notify.TitleMandatoryField, HTML: api.FormatError(err), Kind: notify.KindError})
		}
		return saved, err
	}
}

// LoadReferenceData replaces every lookup list with the API's current
// entries. The lists are fetched concurrently; nothing is replaced unless all
// of them load.
func (s *Store) LoadReferenceData(ctx context.Context) error {
	if s.references == nil {
		return ErrNoAPI
	}
	var (
		classifications []models.Reference
		callTypes       []models.Reference
		reportTypes     []models.ReportType
		referrers       []models.Reference
		statuses        []models.Choice
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		classifications, err = s.references.ClassificationTypes(gctx)
		return err
	})
	g.Go(func() (err error) {
		callTypes, err = s.references.CallTypes(gctx)
		return err
	})
	g.Go(func() (err error) {
		reportTypes, err = s.references.ReportTypes(gctx)
		return err
	})
	g.Go(func() (err error) {
		referrers, err = s.references.Referrers(gctx)
		return err
	})
	g.Go(func() (err error) {
		statuses, err = s.references.StatusChoices(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("load reference data: %w", err)
	}

	s.UpdateClassificationTypes(nil)
	s.AppendClassificationChoices(classifications)
	s.UpdateCallTypes(nil)
	for i := range callTypes {
		s.UpdateCallTypes(&callTypes[i])
	}
	s.UpdateReportTypes(nil)
	for i := range reportTypes {
		s.UpdateReportTypes(&reportTypes[i])
	}
	s.UpdateReferrers(nil)
	for i := range referrers {
		s.UpdateReferrers(&referrers[i])
	}
	s.UpdateStatusChoices(nil)
	s.AppendStatusChoices(statuses)
	return nil
}

// GeocodeLocation looks up the record's address and places the point on it.
// A record that already has a point is left alone unless force is set.
func (s *Store) GeocodeLocation(ctx context.Context, force bool) (geocode.Result, error) {
	if s.geocoder == nil {
		return geocode.Result{}, errors.New("callemail: store has no geocoder")
	}
	loc := s.CallEmail().Location
	if !geocode.ShouldGeocode(loc, force) {
		return geocode.Result{}, nil
	}
	res, err := s.geocoder.Geocode(ctx, geocode.LocationQuery(loc))
	if err != nil {
		return geocode.Result{}, err
	}
	s.UpdateLocationPoint([]float64{res.Lon, res.Lat})
	return res, nil
}

func (s *Store) notify(ctx context.Context, d notify.Dialog) {
	if err := s.notifier.Notify(ctx, d); err != nil {
		s.logger.Error().Err(err).Str("title", d.Title).Msg("failed to show dialog")
	}
}
