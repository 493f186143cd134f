// Package refdata holds the lookup lists the intake backend serves next to
// call/email records.
package refdata

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/freedom_case_2/callemail/internal/models"
)

type Set struct {
	Classifications []models.Reference  `yaml:"classifications"`
	CallTypes       []models.Reference  `yaml:"call_types"`
	ReportTypes     []models.ReportType `yaml:"report_types"`
	Referrers       []models.Reference  `yaml:"referrers"`
	StatusChoices   []models.Choice     `yaml:"status_choices"`
}

// Default is the built-in seed used when no file is configured.
func Default() Set {
	return Set{
		Classifications: []models.Reference{
			{ID: models.Int64(1), Name: "Complaint"},
			{ID: models.Int64(2), Name: "Enquiry"},
			{ID: models.Int64(3), Name: "Incident"},
		},
		CallTypes: []models.Reference{
			{ID: models.Int64(1), Name: "Phone"},
			{ID: models.Int64(2), Name: "Email"},
			{ID: models.Int64(3), Name: "Walk-in"},
		},
		ReportTypes: []models.ReportType{
			{ID: models.Int64(1), ReportType: "Snake Removal", Version: 1},
			{ID: models.Int64(2), ReportType: "Injured Wildlife", Version: 1},
		},
		Referrers: []models.Reference{
			{ID: models.Int64(1), Name: "Police"},
			{ID: models.Int64(2), Name: "Local Government"},
			{ID: models.Int64(3), Name: "Member of Parliament"},
		},
		StatusChoices: []models.Choice{
			{ID: models.StatusDraft, Name: "Draft"},
			{ID: models.StatusOpen, Name: "Open"},
			{ID: models.StatusClosed, Name: "Closed"},
		},
	}
}

// Load reads a YAML seed. An empty path yields Default; lists missing from
// the file keep their defaults.
func Load(path string) (Set, error) {
	set := Default()
	if path == "" {
		return set, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Set{}, fmt.Errorf("read reference data: %w", err)
	}
	return Parse(b)
}

func Parse(b []byte) (Set, error) {
	var file Set
	if err := yaml.Unmarshal(b, &file); err != nil {
		return Set{}, fmt.Errorf("parse reference data: %w", err)
	}
	set := Default()
	if file.Classifications != nil {
		set.Classifications = file.Classifications
	}
	if file.CallTypes != nil {
		set.CallTypes = file.CallTypes
	}
	if file.ReportTypes != nil {
		set.ReportTypes = file.ReportTypes
	}
	if file.Referrers != nil {
		set.Referrers = file.Referrers
	}
	if file.StatusChoices != nil {
		set.StatusChoices = file.StatusChoices
	}
	return set, nil
}

// Classification looks an entry up by id.
func (s Set) Classification(id int64) (models.Reference, bool) {
	return findRef(s.Classifications, id)
}

func (s Set) CallType(id int64) (models.Reference, bool) {
	return findRef(s.CallTypes, id)
}

func (s Set) ReportType(id int64) (models.ReportType, bool) {
	for _, rt := range s.ReportTypes {
		if rt.ID != nil && *rt.ID == id {
			return rt, true
		}
	}
	return models.ReportType{}, false
}

func (s Set) Status(id string) (models.Choice, bool) {
	for _, c := range s.StatusChoices {
		if c.ID == id {
			return c, true
		}
	}
	return models.Choice{}, false
}

func findRef(list []models.Reference, id int64) (models.Reference, bool) {
	for _, r := range list {
		if r.ID != nil && *r.ID == id {
			return r, true
		}
	}
	return models.Reference{}, false
}
