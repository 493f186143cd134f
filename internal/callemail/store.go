// Package callemail keeps the state of the call/email record being edited and
// synchronises it with the intake API.
//
// State is changed only through mutations, which apply atomically under the
// store lock and never touch the network. Actions perform the network calls
// and commit their results through mutations; they hold no lock while a
// request is in flight, so an action may observe state changed by another
// mutation between its own steps.
package callemail

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/freedom_case_2/callemail/internal/api"
	"github.com/freedom_case_2/callemail/internal/geocode"
	"github.com/freedom_case_2/callemail/internal/models"
	"github.com/freedom_case_2/callemail/internal/notify"
)

// API is the subset of the intake client the store depends on.
type API interface {
	Get(ctx context.Context, id int64) (models.CallEmail, error)
	Create(ctx context.Context) (models.CallEmail, error)
	Duplicate(ctx context.Context, payload models.CallEmail) (models.CallEmail, error)
	SaveDraft(ctx context.Context, id *int64, payload models.CallEmail) (models.CallEmail, error)
	Update(ctx context.Context, id *int64, payload models.CallEmail) (models.CallEmail, error)
	SavePerson(ctx context.Context, id *int64, payload models.CallEmail) (models.EmailUser, error)
}

// ReferenceAPI serves the lookup lists shown next to the record.
type ReferenceAPI interface {
	ClassificationTypes(ctx context.Context) ([]models.Reference, error)
	CallTypes(ctx context.Context) ([]models.Reference, error)
	ReportTypes(ctx context.Context) ([]models.ReportType, error)
	Referrers(ctx context.Context) ([]models.Reference, error)
	StatusChoices(ctx context.Context) ([]models.Choice, error)
}

// FormValues is the application-wide store of report form values.
type FormValues interface {
	SetFormValue(key string, v models.FormValue)
	RendererFormData() map[string]models.FormValue
}

// Navigator moves the operator to another page.
type Navigator interface {
	Redirect(url string)
}

const detailPath = "/internal/call_email/"

// DetailURL is the page of a saved record.
func DetailURL(id *int64) string {
	return detailPath + api.IDSegment(id)
}

type Options struct {
	API        API
	References ReferenceAPI
	Forms      FormValues
	Notifier   notify.Notifier
	Navigator  Navigator
	Geocoder   geocode.Geocoder
	Logger     zerolog.Logger
	// BasePath is the API path the derived document URLs are built on.
	BasePath string
}

type Store struct {
	api        API
	references ReferenceAPI
	forms      FormValues
	notifier   notify.Notifier
	navigator  Navigator
	geocoder   geocode.Geocoder
	logger     zerolog.Logger
	basePath   string

	mu                  sync.RWMutex
	callEmail           models.CallEmail
	classificationTypes []models.Reference
	callTypes           []models.Reference
	reportTypes         []models.ReportType
	referrers           []models.Reference
	statusChoices       []models.Choice
}

func New(opts Options) *Store {
	s := &Store{
		api:        opts.API,
		references: opts.References,
		forms:      opts.Forms,
		notifier:   opts.Notifier,
		navigator:  opts.Navigator,
		geocoder:   opts.Geocoder,
		logger:     opts.Logger,
		basePath:   strings.TrimRight(opts.BasePath, "/"),
	}
	if s.basePath == "" {
		s.basePath = api.DefaultBasePath
	}
	if s.notifier == nil {
		s.notifier = notify.LogNotifier{Logger: opts.Logger}
	}
	if s.references == nil {
		if r, ok := opts.API.(ReferenceAPI); ok {
			s.references = r
		}
	}
	s.Reset()
	return s
}

// Reset puts the store back in its initial, empty state.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.callEmail = models.NewCallEmail()
	s.classificationTypes = []models.Reference{}
	s.callTypes = []models.Reference{}
	s.reportTypes = []models.ReportType{}
	s.referrers = []models.Reference{}
	s.statusChoices = []models.Choice{}
}

// CallEmail returns a copy of the current record.
func (s *Store) CallEmail() models.CallEmail {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.callEmail.Clone()
}

func (s *Store) ClassificationTypes() []models.Reference {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Reference{}, s.classificationTypes...)
}

func (s *Store) CallTypes() []models.Reference {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Reference{}, s.callTypes...)
}

func (s *Store) ReportTypes() []models.ReportType {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.ReportType{}, s.reportTypes...)
}

func (s *Store) Referrers() []models.Reference {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Reference{}, s.referrers...)
}

func (s *Store) StatusChoices() []models.Choice {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Choice{}, s.statusChoices...)
}

// CallLatitude is the point's latitude, or "" when the record has no point.
func (s *Store) CallLatitude() string {
	return s.coordinate(1)
}

// CallLongitude is the point's longitude, or "" when the record has no point.
func (s *Store) CallLongitude() string {
	return s.coordinate(0)
}

func (s *Store) coordinate(i int) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	loc := s.callEmail.Location
	if loc == nil || loc.Geometry == nil || len(loc.Geometry.Coordinates) <= i {
		return ""
	}
	return strconv.FormatFloat(loc.Geometry.Coordinates[i], 'f', -1, 64)
}

func (s *Store) documentURL(id *int64, name string) string {
	return s.basePath + "/" + api.IDSegment(id) + "/" + name + "/"
}
