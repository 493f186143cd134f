package models

// Reference is a lookup entry (classification, call type, referrer) whose id
// stays null until the operator picks one.
type Reference struct {
	ID   *int64 `json:"id" yaml:"id"`
	Name string `json:"name,omitempty" yaml:"name"`
}

func (r *Reference) Clone() *Reference {
	if r == nil {
		return nil
	}
	out := *r
	out.ID = cloneInt(r.ID)
	return &out
}

type ReportType struct {
	ID         *int64 `json:"id" yaml:"id"`
	ReportType string `json:"report_type,omitempty" yaml:"report_type"`
	Version    int    `json:"version,omitempty" yaml:"version"`
}

// Choice is a status option such as {"id": "draft", "name": "Draft"}.
type Choice struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

const (
	StatusDraft  = "draft"
	StatusOpen   = "open"
	StatusClosed = "closed"
)

// CallerSelection is what the caller picker emits; it may describe an
// individual or an organisation.
type CallerSelection struct {
	DataType string `json:"data_type"`
	ID       int64  `json:"id"`
}

const CallerIndividual = "individual"
