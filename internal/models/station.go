package models

import (
	"strconv"
	"time"
)

var stationFields = FieldTable{
	"S":   "site id",
	"A":   "address",
	"N":   "name",
	"B":   "brand id",
	"P":   "postcode",
	"G1":  "suburb region id",
	"G2":  "city region id",
	"G3":  "state region id",
	"G4":  "extra region id",
	"G5":  "second extra region id",
	"Lat": "latitude",
	"Lng": "longitude",
	"M":   "last modified",
	"GPI": "google place id",
	"MO":  "monday open",
	"MC":  "monday close",
	"TO":  "tuesday open",
	"TC":  "tuesday close",
	"WO":  "wednesday open",
	"WC":  "wednesday close",
	"THO": "thursday open",
	"THC": "thursday close",
	"FO":  "friday open",
	"FC":  "friday close",
	"SO":  "saturday open",
	"SC":  "saturday close",
	"SUO": "sunday open",
	"SUC": "sunday close",
}

var openingHourFields = []struct {
	day         time.Weekday
	open, close string
}{
	{time.Monday, "MO", "MC"},
	{time.Tuesday, "TO", "TC"},
	{time.Wednesday, "WO", "WC"},
	{time.Thursday, "THO", "THC"},
	{time.Friday, "FO", "FC"},
	{time.Saturday, "SO", "SC"},
	{time.Sunday, "SUO", "SUC"},
}

type StationRegions struct {
	Suburb int `json:"suburb"`
	City   int `json:"city"`
	State  int `json:"state"`
	Extra  int `json:"extra"`
	Extra2 int `json:"extra2"`
}

// Station is one fuel retail site from a full site details snapshot.
type Station struct {
	ID           int            `json:"id"`
	Address      string         `json:"address"`
	Name         string         `json:"name"`
	BrandID      int            `json:"brand_id"`
	Postcode     string         `json:"postcode"`
	Regions      StationRegions `json:"regions"`
	Latitude     float64        `json:"latitude"`
	Longitude    float64        `json:"longitude"`
	LastModified time.Time      `json:"last_modified"`
	PlaceID      string         `json:"place_id"`
	OpeningHours OpeningHours   `json:"opening_hours"`
}

// ParseStation reads a full site details record. The last modified timestamp
// and opening hours are local to loc.
func ParseStation(rec Record, loc *time.Location) (Station, error) {
	f := fields{rec, stationFields}
	var s Station
	var err error

	if s.ID, err = f.Int("S"); err != nil {
		return Station{}, err
	}
	if s.Address, err = f.String("A"); err != nil {
		return Station{}, err
	}
	if s.Name, err = f.String("N"); err != nil {
		return Station{}, err
	}
	if s.BrandID, err = f.Int("B"); err != nil {
		return Station{}, err
	}
	if s.Postcode, err = f.String("P"); err != nil {
		return Station{}, err
	}

	for code, dst := range map[string]*int{
		"G1": &s.Regions.Suburb,
		"G2": &s.Regions.City,
		"G3": &s.Regions.State,
		"G4": &s.Regions.Extra,
		"G5": &s.Regions.Extra2,
	} {
		v, err := f.OptionalInt(code)
		if err != nil {
			return Station{}, err
		}
		if v != nil {
			*dst = *v
		}
	}

	if s.Latitude, err = f.Float("Lat"); err != nil {
		return Station{}, err
	}
	if s.Longitude, err = f.Float("Lng"); err != nil {
		return Station{}, err
	}
	if s.LastModified, err = f.Timestamp("M", loc); err != nil {
		return Station{}, err
	}
	if s.PlaceID, err = f.String("GPI"); err != nil {
		return Station{}, err
	}

	for _, h := range openingHourFields {
		var w Window
		if w.Open, err = f.TimeOfDay(h.open); err != nil {
			return Station{}, err
		}
		if w.Close, err = f.TimeOfDay(h.close); err != nil {
			return Station{}, err
		}
		s.OpeningHours[h.day] = w
	}

	return s, nil
}

// Record renders the station back into its wire form.
func (s Station) Record() Record {
	rec := recordBuilder{}
	rec.set("S", s.ID)
	rec.set("A", s.Address)
	rec.set("N", s.Name)
	rec.set("B", s.BrandID)
	rec.set("P", s.Postcode)
	rec.set("G1", s.Regions.Suburb)
	rec.set("G2", s.Regions.City)
	rec.set("G3", s.Regions.State)
	rec.set("G4", s.Regions.Extra)
	rec.set("G5", s.Regions.Extra2)
	rec.setRaw("Lat", strconv.FormatFloat(s.Latitude, 'f', -1, 64))
	rec.setRaw("Lng", strconv.FormatFloat(s.Longitude, 'f', -1, 64))
	rec.set("M", FormatTimestamp(s.LastModified))
	rec.set("GPI", s.PlaceID)
	for _, h := range openingHourFields {
		w := s.OpeningHours[h.day]
		rec.setTimeOfDay(h.open, w.Open)
		rec.setTimeOfDay(h.close, w.Close)
	}
	return Record(rec)
}

func (s Station) Identity() int { return s.ID }
func (s Station) DisplayName() string { return s.Name }

// ClosedAllWeek reports whether no weekday has a complete opening window.
func (s Station) ClosedAllWeek() bool {
	for _, w := range s.OpeningHours {
		if w.IsSet() {
			return false
		}
	}
	return true
}
