package callemail

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/freedom_case_2/callemail/internal/api"
	"github.com/freedom_case_2/callemail/internal/formvalues"
	"github.com/freedom_case_2/callemail/internal/geocode"
	"github.com/freedom_case_2/callemail/internal/models"
	"github.com/freedom_case_2/callemail/internal/notify"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeAPI struct {
	record    models.CallEmail
	getErr    error
	writeErr  error
	personErr error
	person    models.EmailUser
	newID     int64
	calls     []string
	payloads  []models.CallEmail
	refErr    error
}

func (f *fakeAPI) Get(_ context.Context, id int64) (models.CallEmail, error) {
	f.calls = append(f.calls, "get")
	if f.getErr != nil {
		return models.CallEmail{}, f.getErr
	}
	return f.record, nil
}

func (f *fakeAPI) Create(_ context.Context) (models.CallEmail, error) {
	f.calls = append(f.calls, "create")
	if f.writeErr != nil {
		return models.CallEmail{}, f.writeErr
	}
	return models.CallEmail{ID: models.Int64(f.newID), Number: "CE000001"}, nil
}

func (f *fakeAPI) Duplicate(_ context.Context, payload models.CallEmail) (models.CallEmail, error) {
	f.calls = append(f.calls, "duplicate")
	f.payloads = append(f.payloads, payload)
	if f.writeErr != nil {
		return models.CallEmail{}, f.writeErr
	}
	payload.ID = models.Int64(f.newID)
	return payload, nil
}

func (f *fakeAPI) SaveDraft(_ context.Context, id *int64, payload models.CallEmail) (models.CallEmail, error) {
	f.calls = append(f.calls, "draft")
	f.payloads = append(f.payloads, payload)
	if f.writeErr != nil {
		return models.CallEmail{}, f.writeErr
	}
	return payload, nil
}

func (f *fakeAPI) Update(_ context.Context, id *int64, payload models.CallEmail) (models.CallEmail, error) {
	f.calls = append(f.calls, "update")
	f.payloads = append(f.payloads, payload)
	if f.writeErr != nil {
		return models.CallEmail{}, f.writeErr
	}
	return payload, nil
}

func (f *fakeAPI) SavePerson(_ context.Context, id *int64, payload models.CallEmail) (models.EmailUser, error) {
	f.calls = append(f.calls, "person")
	if f.personErr != nil {
		return models.EmailUser{}, f.personErr
	}
	return f.person, nil
}

func (f *fakeAPI) ClassificationTypes(context.Context) ([]models.Reference, error) {
	return []models.Reference{{ID: models.Int64(1), Name: "Complaint"}}, f.refErr
}

func (f *fakeAPI) CallTypes(context.Context) ([]models.Reference, error) {
	return []models.Reference{{ID: models.Int64(2), Name: "Phone"}}, nil
}

func (f *fakeAPI) ReportTypes(context.Context) ([]models.ReportType, error) {
	return []models.ReportType{{ID: models.Int64(3), ReportType: "Snake", Version: 1}}, nil
}

func (f *fakeAPI) Referrers(context.Context) ([]models.Reference, error) {
	return []models.Reference{{ID: models.Int64(4), Name: "Police"}}, nil
}

func (f *fakeAPI) StatusChoices(context.Context) ([]models.Choice, error) {
	return []models.Choice{{ID: "draft", Name: "Draft"}, {ID: "open", Name: "Open"}}, nil
}

type fakeNavigator struct {
	urls []string
}

func (n *fakeNavigator) Redirect(url string) {
	n.urls = append(n.urls, url)
}

type fixture struct {
	store *Store
	api   *fakeAPI
	forms *formvalues.Store
	rec   *notify.Recorder
	nav   *fakeNavigator
}

func newFixture() fixture {
	f := fixture{
		api:   &fakeAPI{newID: 42},
		forms: formvalues.New(),
		rec:   &notify.Recorder{},
		nav:   &fakeNavigator{},
	}
	f.store = New(Options{
		API:       f.api,
		Forms:     f.forms,
		Notifier:  f.rec,
		Navigator: f.nav,
		Logger:    zerolog.Nop(),
	})
	return f
}

func TestInitialState(t *testing.T) {
	s := newFixture().store
	rec := s.CallEmail()
	require.NotNil(t, rec.Location)
	assert.Equal(t, "WA", *rec.Location.Properties.State)
	assert.Equal(t, "Australia", *rec.Location.Properties.Country)
	assert.Nil(t, rec.ID)
	assert.Empty(t, rec.Schema)
	assert.Empty(t, s.ClassificationTypes())
	assert.Equal(t, "", s.CallLatitude())
	assert.Equal(t, "", s.CallLongitude())
}

func TestUpdateCallEmailInstallsDefaults(t *testing.T) {
	s := newFixture().store

	s.UpdateCallEmail(models.CallEmail{ID: models.Int64(5)})
	rec := s.CallEmail()
	require.NotNil(t, rec.Location)
	assert.Equal(t, "Feature", rec.Location.Type)
	assert.Nil(t, rec.Location.ID)
	assert.Nil(t, rec.Location.Properties.TownSuburb)
	assert.Nil(t, rec.Location.Properties.Country)
	require.NotNil(t, rec.Location.Geometry)
	assert.Equal(t, "Point", rec.Location.Geometry.Type)
	assert.Empty(t, rec.Location.Geometry.Coordinates)
	require.NotNil(t, rec.EmailUser)
	assert.Equal(t, "", rec.EmailUser.FirstName)
	assert.Nil(t, rec.EmailUser.Dob)
	require.NotNil(t, rec.EmailUser.ResidentialAddress)
	assert.Equal(t, "WA", rec.EmailUser.ResidentialAddress.State)
	assert.Equal(t, "AU", rec.EmailUser.ResidentialAddress.Country)
	assert.Equal(t, "/api/call_email/5/process_renderer_document/", rec.RendererDocumentURL)
	assert.Equal(t, "/api/call_email/5/process_comms_log_document/", rec.CommsLogsDocumentURL)
}

func TestUpdateCallEmailDefaultsOnlyMissingAddress(t *testing.T) {
	s := newFixture().store
	in := models.CallEmail{EmailUser: &models.EmailUser{FirstName: "Ada", LastName: "Lovelace"}}

	s.UpdateCallEmail(in)
	rec := s.CallEmail()
	assert.Equal(t, "Ada", rec.EmailUser.FirstName)
	require.NotNil(t, rec.EmailUser.ResidentialAddress)
	assert.Equal(t, "AU", rec.EmailUser.ResidentialAddress.Country)
	assert.Nil(t, in.EmailUser.ResidentialAddress, "caller's record must not be modified")
	assert.Equal(t, "/api/call_email/null/process_renderer_document/", rec.RendererDocumentURL)
}

func TestUpdateCallEmailConvertsDatesAndVolunteer(t *testing.T) {
	s := newFixture().store
	s.UpdateCallEmail(models.CallEmail{
		OccurrenceDateFrom:  models.Some("2024-03-05"),
		OccurrenceTimeStart: models.Some("13:05:00"),
		OccurrenceTimeEnd:   models.Some(""),
		DateOfCall:          models.Some(""),
		CurrentUserID:       models.Int64(77),
	})
	rec := s.CallEmail()
	assert.Equal(t, models.Some("05/03/2024"), rec.OccurrenceDateFrom)
	assert.Equal(t, models.Some("01:05 PM"), rec.OccurrenceTimeStart)
	assert.True(t, rec.OccurrenceTimeEnd.IsNull())
	assert.True(t, rec.DateOfCall.IsNull())
	assert.False(t, rec.OccurrenceDateTo.Present)
	assert.False(t, rec.TimeOfCall.Present)
	require.NotNil(t, rec.VolunteerID)
	assert.Equal(t, int64(77), *rec.VolunteerID)
}

func TestUpdateCallEmailKeepsVolunteer(t *testing.T) {
	s := newFixture().store
	s.UpdateCallEmail(models.CallEmail{VolunteerID: models.Int64(3), CurrentUserID: models.Int64(77)})
	assert.Equal(t, int64(3), *s.CallEmail().VolunteerID)
}

func TestCoordinates(t *testing.T) {
	s := newFixture().store
	s.UpdateLocationPoint([]float64{115.8613, -31.9523})
	assert.Equal(t, "-31.9523", s.CallLatitude())
	assert.Equal(t, "115.8613", s.CallLongitude())

	s.UpdateLocation(&models.Location{Type: "Feature"})
	assert.Equal(t, "", s.CallLatitude())

	s.UpdateLocation(nil)
	assert.Equal(t, "", s.CallLongitude())
}

func TestReferenceListsAppendAndReset(t *testing.T) {
	s := newFixture().store
	s.UpdateReferrers(&models.Reference{ID: models.Int64(1), Name: "Police"})
	s.UpdateReferrers(&models.Reference{ID: models.Int64(2), Name: "Council"})
	assert.Len(t, s.Referrers(), 2)
	s.UpdateReferrers(nil)
	assert.Empty(t, s.Referrers())

	s.AppendStatusChoices([]models.Choice{{ID: "draft"}, {ID: "open"}})
	s.UpdateStatusChoices(&models.Choice{ID: "closed"})
	assert.Len(t, s.StatusChoices(), 3)
}

func TestUpdateCaller(t *testing.T) {
	s := newFixture().store
	s.UpdateCaller(models.CallerSelection{DataType: "organisation", ID: 7})
	assert.Nil(t, s.CallEmail().EmailUserID)

	s.UpdateCaller(models.CallerSelection{DataType: models.CallerIndividual, ID: 7})
	require.NotNil(t, s.CallEmail().EmailUserID)
	assert.Equal(t, int64(7), *s.CallEmail().EmailUserID)
}

func TestLocationSettersKeepGeometry(t *testing.T) {
	s := newFixture().store
	s.UpdateLocationAddress(models.LocationProperties{Street: models.String("1 Main St")})
	s.UpdateLocationPoint([]float64{1, 2})
	s.UpdateLocationDetailsFieldEmpty()
	rec := s.CallEmail()
	assert.Equal(t, "1 Main St", *rec.Location.Properties.Street)
	assert.Equal(t, "", *rec.Location.Properties.Details)
	assert.Equal(t, []float64{1, 2}, rec.Location.Geometry.Coordinates)

	s.UpdateLocationAddressEmpty()
	rec = s.CallEmail()
	assert.Equal(t, "", *rec.Location.Properties.Street)
	assert.Equal(t, "", *rec.Location.Properties.Country)
	assert.Equal(t, []float64{1, 2}, rec.Location.Geometry.Coordinates)
}

func TestGettersReturnCopies(t *testing.T) {
	s := newFixture().store
	rec := s.CallEmail()
	rec.Location.Properties.State = models.String("NSW")
	assert.Equal(t, "WA", *s.CallEmail().Location.Properties.State)
}

func TestLoadCallEmail(t *testing.T) {
	f := newFixture()
	f.api.record = models.CallEmail{
		ID: models.Int64(5),
		Data: []models.FormDataRecord{
			{FieldName: "species", Value: json.RawMessage(`"tiger snake"`), Comment: "seen twice", Deficiency: ""},
		},
	}

	f.store.LoadCallEmail(context.Background(), 5)
	rec := f.store.CallEmail()
	require.NotNil(t, rec.Location)
	assert.Equal(t, "Point", rec.Location.Geometry.Type)
	assert.Nil(t, rec.Location.Properties.Street)
	assert.Regexp(t, `5/process_renderer_document/$`, rec.RendererDocumentURL)

	v, ok := f.forms.FormValue("species")
	require.True(t, ok)
	assert.JSONEq(t, `"tiger snake"`, string(v.Value))
	assert.Equal(t, "seen twice", v.CommentValue)
}

func TestLoadCallEmailFailureIsSilent(t *testing.T) {
	f := newFixture()
	f.api.getErr = errors.New("boom")
	before := f.store.CallEmail()

	f.store.LoadCallEmail(context.Background(), 5)
	assert.Equal(t, before, f.store.CallEmail())
	assert.Empty(t, f.rec.Dialogs())
}

func TestSaveDuplicate(t *testing.T) {
	f := newFixture()
	f.store.UpdateCallEmail(models.CallEmail{
		ID:         models.Int64(5),
		LocationID: models.Int64(9),
		Location:   &models.Location{Type: "Feature", ID: models.Int64(9), Geometry: &models.Geometry{Type: "Point"}},
		DateOfCall: models.Some("2024-01-31"),
	})

	saved, err := f.store.SaveCallEmail(context.Background(), SaveOptions{Crud: CrudDuplicate})
	require.NoError(t, err)
	require.Len(t, f.api.payloads, 1)
	payload := f.api.payloads[0]
	assert.Nil(t, payload.ID)
	assert.Nil(t, payload.LocationID)
	assert.Nil(t, payload.Location.ID)
	assert.Equal(t, models.Some("2024-01-31"), payload.DateOfCall)

	b, err := json.Marshal(payload)
	require.NoError(t, err)
	var wire map[string]any
	require.NoError(t, json.Unmarshal(b, &wire))
	assert.Nil(t, wire["id"])
	assert.Contains(t, wire, "id")
	assert.Nil(t, wire["location_id"])
	assert.Nil(t, wire["location"].(map[string]any)["id"])

	assert.Equal(t, []string{"/internal/call_email/42"}, f.nav.urls)
	assert.Equal(t, int64(42), *saved.ID)
	assert.Empty(t, f.rec.Dialogs())
	assert.Equal(t, models.Some("31/01/2024"), f.store.CallEmail().DateOfCall, "held record stays in display format")
}

func TestSaveDoesNotTouchLiveRecord(t *testing.T) {
	f := newFixture()
	f.api.writeErr = errors.New("offline")
	f.store.UpdateCallEmail(models.CallEmail{ID: models.Int64(5), OccurrenceDateFrom: models.Some("2024-03-05"), Location: &models.Location{ID: models.Int64(9)}})

	_, err := f.store.SaveCallEmail(context.Background(), SaveOptions{Crud: CrudDuplicate, Internal: true})
	require.Error(t, err)
	rec := f.store.CallEmail()
	assert.Equal(t, models.Some("05/03/2024"), rec.OccurrenceDateFrom)
	assert.Equal(t, int64(9), *rec.Location.ID)
}

func TestSaveDraftInternalFailureReturnsError(t *testing.T) {
	f := newFixture()
	f.api.writeErr = &api.Error{StatusCode: 400, Status: "400 Bad Request", Fields: map[string][]string{"occurrence_date_from": {"Enter a valid date."}}}
	f.store.UpdateCallEmail(models.CallEmail{ID: models.Int64(5)})

	saved, err := f.store.SaveCallEmail(context.Background(), SaveOptions{Crud: CrudSave, Internal: true})
	require.Error(t, err)
	assert.Nil(t, saved)
	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)

	dialogs := f.rec.Dialogs()
	require.Len(t, dialogs, 1, "only the branch dialog is shown")
	assert.Equal(t, notify.TitleError, dialogs[0].Title)
	assert.Contains(t, dialogs[0].HTML, "occurrence_date_from")
}

func TestSaveUpdateFailureShowsMandatoryFieldThenError(t *testing.T) {
	f := newFixture()
	f.api.writeErr = &api.Error{StatusCode: 400, Status: "400 Bad Request", Fields: map[string][]string{"classification": {"This field is required."}}}
	f.store.UpdateCallEmail(models.CallEmail{ID: models.Int64(5)})

	_, err := f.store.SaveCallEmail(context.Background(), SaveOptions{})
	require.Error(t, err)
	assert.Equal(t, []string{"update"}, f.api.calls)
	dialogs := f.rec.Dialogs()
	require.Len(t, dialogs, 2)
	assert.Equal(t, notify.TitleMandatoryField, dialogs[0].Title)
	assert.Equal(t, notify.Failure(notify.TextSaveError), dialogs[1])
}

func TestSaveSuccessNotifications(t *testing.T) {
	f := newFixture()
	f.store.UpdateCallEmail(models.CallEmail{ID: models.Int64(5), OccurrenceTimeStart: models.Some("09:30")})

	saved, err := f.store.SaveCallEmail(context.Background(), SaveOptions{Crud: CrudSave})
	require.NoError(t, err)
	assert.Equal(t, models.Some("09:30"), f.api.payloads[0].OccurrenceTimeStart)
	assert.Equal(t, models.Some("09:30 AM"), saved.OccurrenceTimeStart)
	assert.Equal(t, []notify.Dialog{notify.Success(notify.TextSaved)}, f.rec.Dialogs())

	f.rec.Reset()
	_, err = f.store.SaveCallEmail(context.Background(), SaveOptions{Crud: CrudUpdate, Internal: true})
	require.NoError(t, err)
	assert.Empty(t, f.rec.Dialogs())

	_, err = f.store.SaveCallEmail(context.Background(), SaveOptions{Crud: CrudCreate})
	require.NoError(t, err)
	assert.Empty(t, f.rec.Dialogs())
	assert.Empty(t, f.nav.urls)
	assert.Equal(t, int64(42), *f.store.CallEmail().ID)
}

func TestSaveAttachesRendererData(t *testing.T) {
	f := newFixture()
	f.forms.SetFormValue("species", models.FormValue{Value: json.RawMessage(`"dugite"`)})
	f.store.UpdateCallEmail(models.CallEmail{ID: models.Int64(5)})

	_, err := f.store.SaveCallEmail(context.Background(), SaveOptions{Crud: CrudSave})
	require.NoError(t, err)
	assert.Nil(t, f.api.payloads[0].RendererData, "no schema, no renderer data")

	f.store.UpdateSchema([]json.RawMessage{json.RawMessage(`{"name":"species"}`)})
	_, err = f.store.SaveCallEmail(context.Background(), SaveOptions{Crud: CrudSave})
	require.NoError(t, err)
	require.Contains(t, f.api.payloads[1].RendererData, "species")
}

func TestSaveInvalidDisplayDate(t *testing.T) {
	f := newFixture()
	f.store.UpdateDateOfCall(models.Some("someday"))

	_, err := f.store.SaveCallEmail(context.Background(), SaveOptions{Crud: CrudSave})
	require.Error(t, err)
	assert.Empty(t, f.api.calls)
	assert.Equal(t, []notify.Dialog{notify.Failure(notify.TextSaveError)}, f.rec.Dialogs())
}

func TestCreateIgnoresUnparseableDisplayDate(t *testing.T) {
	f := newFixture()
	f.store.UpdateDateOfCall(models.Some("someday"))

	saved, err := f.store.SaveCallEmail(context.Background(), SaveOptions{Crud: CrudCreate})
	require.NoError(t, err)
	assert.Equal(t, int64(42), *saved.ID)
	assert.Equal(t, []string{"create"}, f.api.calls)
	assert.Empty(t, f.rec.Dialogs())
}

func TestSaveCallEmailPerson(t *testing.T) {
	f := newFixture()
	f.api.person = models.EmailUser{ID: models.Int64(12), FirstName: "Ada", ResidentialAddress: models.DefaultAddress()}
	f.store.UpdateCallEmail(models.CallEmail{ID: models.Int64(5)})

	require.NoError(t, f.store.SaveCallEmailPerson(context.Background()))
	assert.Equal(t, int64(12), *f.store.CallEmail().EmailUser.ID)
	assert.Equal(t, []notify.Dialog{notify.Success(notify.TextSaved)}, f.rec.Dialogs())
}

func TestSaveCallEmailPersonErrors(t *testing.T) {
	f := newFixture()
	f.api.personErr = &api.Error{StatusCode: 400, Fields: map[string][]string{api.NonFieldErrors: {"First name is required"}}}
	require.Error(t, f.store.SaveCallEmailPerson(context.Background()))
	assert.Equal(t, []notify.Dialog{notify.Failure("First name is required")}, f.rec.Dialogs())

	f.rec.Reset()
	f.api.personErr = errors.New("connection refused")
	require.Error(t, f.store.SaveCallEmailPerson(context.Background()))
	assert.Equal(t, []notify.Dialog{notify.Failure(notify.TextSaveError)}, f.rec.Dialogs())
}

func TestLoadReferenceData(t *testing.T) {
	f := newFixture()
	f.store.UpdateReferrers(&models.Reference{Name: "stale"})

	require.NoError(t, f.store.LoadReferenceData(context.Background()))
	assert.Equal(t, []models.Reference{{ID: models.Int64(4), Name: "Police"}}, f.store.Referrers())
	assert.Len(t, f.store.ClassificationTypes(), 1)
	assert.Len(t, f.store.CallTypes(), 1)
	assert.Len(t, f.store.ReportTypes(), 1)
	assert.Len(t, f.store.StatusChoices(), 2)
}

func TestLoadReferenceDataFailureKeepsLists(t *testing.T) {
	f := newFixture()
	f.api.refErr = errors.New("unavailable")
	f.store.UpdateReferrers(&models.Reference{Name: "kept"})

	require.Error(t, f.store.LoadReferenceData(context.Background()))
	assert.Len(t, f.store.Referrers(), 1)
}

type fakeGeocoder struct {
	query string
}

func (g *fakeGeocoder) Geocode(_ context.Context, query string) (geocode.Result, error) {
	g.query = query
	return geocode.Result{Lat: -31.95, Lon: 115.86}, nil
}

func TestGeocodeLocation(t *testing.T) {
	f := newFixture()
	g := &fakeGeocoder{}
	f.store.geocoder = g
	f.store.UpdateLocationAddress(models.LocationProperties{
		TownSuburb: models.String("Perth"),
		Country:    models.String("Australia"),
	})

	_, err := f.store.GeocodeLocation(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, "Australia, Perth", g.query)
	assert.Equal(t, "-31.95", f.store.CallLatitude())
	assert.Equal(t, "115.86", f.store.CallLongitude())

	g.query = ""
	_, err = f.store.GeocodeLocation(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, "", g.query, "a placed point is not looked up again")
}
