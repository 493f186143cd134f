package models

import "encoding/json"

// CallEmail is a call/email incident record as exchanged with the intake API.
type CallEmail struct {
	ID                            *int64               `json:"id"`
	Number                        string               `json:"number,omitempty"`
	Status                        *Choice              `json:"status,omitempty"`
	LodgementDate                 string               `json:"lodgement_date,omitempty"`
	Caller                        string               `json:"caller,omitempty"`
	CallerPhoneNumber             string               `json:"caller_phone_number,omitempty"`
	AnonymousCall                 bool                 `json:"anonymous_call"`
	CallerWishesToRemainAnonymous bool                 `json:"caller_wishes_to_remain_anonymous"`
	OccurrenceFromTo              bool                 `json:"occurrence_from_to"`
	AdviceGiven                   bool                 `json:"advice_given"`
	AdviceDetails                 string               `json:"advice_details,omitempty"`
	Classification                *Reference           `json:"classification,omitempty"`
	ClassificationID              *int64               `json:"classification_id,omitempty"`
	CallType                      *Reference           `json:"call_type,omitempty"`
	ReportType                    *ReportType          `json:"report_type,omitempty"`
	ReportTypeID                  *int64               `json:"report_type_id,omitempty"`
	Location                      *Location            `json:"location"`
	LocationID                    *int64               `json:"location_id"`
	EmailUser                     *EmailUser           `json:"email_user"`
	EmailUserID                   *int64               `json:"email_user_id,omitempty"`
	OccurrenceDateFrom            OptionalString       `json:"occurrence_date_from,omitzero"`
	OccurrenceTimeStart           OptionalString       `json:"occurrence_time_start,omitzero"`
	OccurrenceDateTo              OptionalString       `json:"occurrence_date_to,omitzero"`
	OccurrenceTimeEnd             OptionalString       `json:"occurrence_time_end,omitzero"`
	DateOfCall                    OptionalString       `json:"date_of_call,omitzero"`
	TimeOfCall                    OptionalString       `json:"time_of_call,omitzero"`
	AllocatedGroup                []Member             `json:"allocated_group"`
	AllocatedGroupID              *int64               `json:"allocated_group_id,omitempty"`
	VolunteerList                 []Member             `json:"volunteer_list"`
	VolunteerID                   *int64               `json:"volunteer_id,omitempty"`
	CurrentUserID                 *int64               `json:"current_user_id,omitempty"`
	AssignedToID                  *int64               `json:"assigned_to_id,omitempty"`
	RegionID                      *int64               `json:"region_id,omitempty"`
	DistrictID                    *int64               `json:"district_id,omitempty"`
	CasePriorityID                *int64               `json:"case_priority_id,omitempty"`
	InspectionTypeID              *int64               `json:"inspection_type_id,omitempty"`
	Referrer                      []Reference          `json:"referrer,omitempty"`
	SelectedReferrers             []int64              `json:"selected_referrers,omitempty"`
	RelatedItems                  []json.RawMessage    `json:"related_items,omitempty"`
	UserInGroup                   bool                 `json:"user_in_group,omitempty"`
	ReadonlyUser                  bool                 `json:"readonly_user,omitempty"`
	UserIsAssignee                bool                 `json:"user_is_assignee,omitempty"`
	Schema                        []json.RawMessage    `json:"schema"`
	Data                          []FormDataRecord     `json:"data,omitempty"`
	RendererData                  map[string]FormValue `json:"renderer_data,omitempty"`
	RendererDocumentURL           string               `json:"rendererDocumentUrl,omitempty"`
	CommsLogsDocumentURL          string               `json:"commsLogsDocumentUrl,omitempty"`
}

// Location is a GeoJSON Feature carrying the incident address.
type Location struct {
	Type       string             `json:"type"`
	ID         *int64             `json:"id"`
	Properties LocationProperties `json:"properties"`
	Geometry   *Geometry          `json:"geometry"`
}

type LocationProperties struct {
	TownSuburb *string `json:"town_suburb"`
	Street     *string `json:"street"`
	State      *string `json:"state"`
	Postcode   *string `json:"postcode"`
	Country    *string `json:"country"`
	Details    *string `json:"details,omitempty"`
}

type Geometry struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

// EmailUser is the person who reported the incident.
type EmailUser struct {
	ID                   *int64   `json:"id,omitempty"`
	Email                string   `json:"email,omitempty"`
	FirstName            string   `json:"first_name"`
	LastName             string   `json:"last_name"`
	Dob                  *string  `json:"dob"`
	PhoneNumber          string   `json:"phone_number,omitempty"`
	MobileNumber         string   `json:"mobile_number,omitempty"`
	Organisation         string   `json:"organisation,omitempty"`
	ResidentialAddress   *Address `json:"residential_address"`
	ResidentialAddressID *int64   `json:"residential_address_id,omitempty"`
}

type Address struct {
	ID       *int64 `json:"id,omitempty"`
	Line1    string `json:"line1"`
	Locality string `json:"locality"`
	State    string `json:"state"`
	Postcode string `json:"postcode"`
	Country  string `json:"country"`
}

// Member is an officer listed in an allocated group or volunteer list.
type Member struct {
	ID       int64  `json:"id"`
	FullName string `json:"full_name,omitempty"`
	Email    string `json:"email,omitempty"`
}

// FormDataRecord is one saved value of the dynamic report form.
type FormDataRecord struct {
	FieldName     string          `json:"field_name"`
	SchemaName    string          `json:"schema_name,omitempty"`
	ComponentType string          `json:"component_type,omitempty"`
	InstanceName  string          `json:"instance_name,omitempty"`
	Comment       string          `json:"comment"`
	Deficiency    string          `json:"deficiency"`
	Value         json.RawMessage `json:"value"`
}

// FormValue is the renderer's view of a form field.
type FormValue struct {
	Value           json.RawMessage `json:"value"`
	CommentValue    string          `json:"comment_value"`
	DeficiencyValue string          `json:"deficiency_value"`
}

// DateTimeFields returns pointers to the six date/time fields, in a stable order.
func (c *CallEmail) DateTimeFields() []DateTimeField {
	return []DateTimeField{
		{Name: "occurrence_date_from", Kind: KindDate, Value: &c.OccurrenceDateFrom},
		{Name: "occurrence_time_start", Kind: KindTime, Value: &c.OccurrenceTimeStart},
		{Name: "occurrence_date_to", Kind: KindDate, Value: &c.OccurrenceDateTo},
		{Name: "occurrence_time_end", Kind: KindTime, Value: &c.OccurrenceTimeEnd},
		{Name: "date_of_call", Kind: KindDate, Value: &c.DateOfCall},
		{Name: "time_of_call", Kind: KindTime, Value: &c.TimeOfCall},
	}
}

type FieldKind int

const (
	KindDate FieldKind = iota
	KindTime
)

type DateTimeField struct {
	Name  string
	Kind  FieldKind
	Value *OptionalString
}

// Clone returns a deep copy of the record.
func (c CallEmail) Clone() CallEmail {
	out := c
	out.ID = cloneInt(c.ID)
	if c.Status != nil {
		s := *c.Status
		out.Status = &s
	}
	out.Classification = c.Classification.Clone()
	out.ClassificationID = cloneInt(c.ClassificationID)
	out.CallType = c.CallType.Clone()
	if c.ReportType != nil {
		rt := *c.ReportType
		rt.ID = cloneInt(c.ReportType.ID)
		out.ReportType = &rt
	}
	out.ReportTypeID = cloneInt(c.ReportTypeID)
	out.Location = c.Location.Clone()
	out.LocationID = cloneInt(c.LocationID)
	out.EmailUser = c.EmailUser.Clone()
	out.EmailUserID = cloneInt(c.EmailUserID)
	out.AllocatedGroup = cloneSlice(c.AllocatedGroup)
	out.AllocatedGroupID = cloneInt(c.AllocatedGroupID)
	out.VolunteerList = cloneSlice(c.VolunteerList)
	out.VolunteerID = cloneInt(c.VolunteerID)
	out.CurrentUserID = cloneInt(c.CurrentUserID)
	out.AssignedToID = cloneInt(c.AssignedToID)
	out.RegionID = cloneInt(c.RegionID)
	out.DistrictID = cloneInt(c.DistrictID)
	out.CasePriorityID = cloneInt(c.CasePriorityID)
	out.InspectionTypeID = cloneInt(c.InspectionTypeID)
	if c.Referrer != nil {
		out.Referrer = make([]Reference, len(c.Referrer))
		for i, r := range c.Referrer {
			out.Referrer[i] = *r.Clone()
		}
	}
	out.SelectedReferrers = cloneSlice(c.SelectedReferrers)
	out.RelatedItems = cloneRaw(c.RelatedItems)
	out.Schema = cloneRaw(c.Schema)
	if c.Data != nil {
		out.Data = make([]FormDataRecord, len(c.Data))
		for i, d := range c.Data {
			d.Value = cloneBytes(d.Value)
			out.Data[i] = d
		}
	}
	if c.RendererData != nil {
		out.RendererData = make(map[string]FormValue, len(c.RendererData))
		for k, v := range c.RendererData {
			v.Value = cloneBytes(v.Value)
			out.RendererData[k] = v
		}
	}
	return out
}

func (l *Location) Clone() *Location {
	if l == nil {
		return nil
	}
	out := *l
	out.ID = cloneInt(l.ID)
	out.Properties = LocationProperties{
		TownSuburb: cloneString(l.Properties.TownSuburb),
		Street:     cloneString(l.Properties.Street),
		State:      cloneString(l.Properties.State),
		Postcode:   cloneString(l.Properties.Postcode),
		Country:    cloneString(l.Properties.Country),
		Details:    cloneString(l.Properties.Details),
	}
	if l.Geometry != nil {
		g := *l.Geometry
		g.Coordinates = cloneSlice(l.Geometry.Coordinates)
		out.Geometry = &g
	}
	return &out
}

func (u *EmailUser) Clone() *EmailUser {
	if u == nil {
		return nil
	}
	out := *u
	out.ID = cloneInt(u.ID)
	out.Dob = cloneString(u.Dob)
	out.ResidentialAddressID = cloneInt(u.ResidentialAddressID)
	out.ResidentialAddress = u.ResidentialAddress.Clone()
	return &out
}

func (a *Address) Clone() *Address {
	if a == nil {
		return nil
	}
	out := *a
	out.ID = cloneInt(a.ID)
	return &out
}

func cloneInt(p *int64) *int64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneString(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}

func cloneBytes(in json.RawMessage) json.RawMessage {
	if in == nil {
		return nil
	}
	out := make(json.RawMessage, len(in))
	copy(out, in)
	return out
}

func cloneRaw(in []json.RawMessage) []json.RawMessage {
	if in == nil {
		return nil
	}
	out := make([]json.RawMessage, len(in))
	for i, r := range in {
		out[i] = cloneBytes(r)
	}
	return out
}

// Int64 and String are small helpers for building nullable fields.
func Int64(v int64) *int64 { return &v }

func String(v string) *string { return &v }
