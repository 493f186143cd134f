package models

import "encoding/json"

const (
	DefaultAddressState    = "WA"
	DefaultAddressCountry  = "AU"
	DefaultLocationCountry = "Australia"
)

// DefaultLocation is installed when a loaded record carries no location.
func DefaultLocation() *Location {
	return &Location{
		Type: "Feature",
		Geometry: &Geometry{
			Type:        "Point",
			Coordinates: []float64{},
		},
	}
}

// InitialLocation is the location of a record before anything was loaded.
func InitialLocation() *Location {
	l := DefaultLocation()
	l.Properties.State = String(DefaultAddressState)
	l.Properties.Country = String(DefaultLocationCountry)
	l.Properties.Details = String("")
	return l
}

func DefaultAddress() *Address {
	return &Address{
		State:   DefaultAddressState,
		Country: DefaultAddressCountry,
	}
}

func DefaultEmailUser() *EmailUser {
	return &EmailUser{ResidentialAddress: DefaultAddress()}
}

// NewCallEmail is the empty record a fresh store starts with.
func NewCallEmail() CallEmail {
	return CallEmail{
		Schema:         []json.RawMessage{},
		Classification: &Reference{},
		CallType:       &Reference{},
		ReportType:     &ReportType{},
		Location:       InitialLocation(),
		AllocatedGroup: []Member{},
		VolunteerList:  []Member{},
	}
}
