package models

const (
	LevelSuburb = 1
	LevelCity   = 2
	LevelState  = 3
)

var regionFields = FieldTable{
	"GeoRegionId":       "region id",
	"GeoRegionLevel":    "region level",
	"Name":              "name",
	"Abbrev":            "abbreviation",
	"GeoRegionParentId": "parent region id",
}

// Region is a node in the geographic region forest. Roots have no ParentID.
type Region struct {
	ID           int    `json:"id"`
	Level        int    `json:"level"`
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation"`
	ParentID     *int   `json:"parent_id,omitempty"`
}

func ParseRegion(rec Record) (Region, error) {
	f := fields{rec, regionFields}
	var r Region
	var err error
	if r.ID, err = f.Int("GeoRegionId"); err != nil {
		return Region{}, err
	}
	if r.Level, err = f.Int("GeoRegionLevel"); err != nil {
		return Region{}, err
	}
	// Name has been seen typed as a number; anything string-coercible is accepted.
	if r.Name, err = f.String("Name"); err != nil {
		return Region{}, err
	}
	if r.Abbreviation, err = f.String("Abbrev"); err != nil {
		return Region{}, err
	}
	if r.ParentID, err = f.OptionalInt("GeoRegionParentId"); err != nil {
		return Region{}, err
	}
	return r, nil
}

func (r Region) Record() Record {
	rec := recordBuilder{}
	rec.set("GeoRegionId", r.ID)
	rec.set("GeoRegionLevel", r.Level)
	rec.set("Name", r.Name)
	rec.set("Abbrev", r.Abbreviation)
	if r.ParentID != nil {
		rec.set("GeoRegionParentId", *r.ParentID)
	} else {
		rec.setRaw("GeoRegionParentId", "null")
	}
	return Record(rec)
}

func (r Region) IsRoot() bool { return r.ParentID == nil }

func (r Region) Identity() int { return r.ID }
func (r Region) DisplayName() string { return r.Name }
