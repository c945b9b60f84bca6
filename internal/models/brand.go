package models

var brandFields = FieldTable{
	"BrandId": "brand id",
	"Name":    "name",
}

var fuelFields = FieldTable{
	"FuelId": "fuel id",
	"Name":   "name",
}

type Brand struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

func ParseBrand(rec Record) (Brand, error) {
	f := fields{rec, brandFields}
	id, err := f.Int("BrandId")
	if err != nil {
		return Brand{}, err
	}
	name, err := f.String("Name")
	if err != nil {
		return Brand{}, err
	}
	return Brand{ID: id, Name: name}, nil
}

func (b Brand) Record() Record {
	rec := recordBuilder{}
	rec.set("BrandId", b.ID)
	rec.set("Name", b.Name)
	return Record(rec)
}

func (b Brand) Identity() int { return b.ID }
func (b Brand) DisplayName() string { return b.Name }

type Fuel struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

func ParseFuel(rec Record) (Fuel, error) {
	f := fields{rec, fuelFields}
	id, err := f.Int("FuelId")
	if err != nil {
		return Fuel{}, err
	}
	name, err := f.String("Name")
	if err != nil {
		return Fuel{}, err
	}
	return Fuel{ID: id, Name: name}, nil
}

func (fl Fuel) Record() Record {
	rec := recordBuilder{}
	rec.set("FuelId", fl.ID)
	rec.set("Name", fl.Name)
	return Record(rec)
}

func (fl Fuel) Identity() int { return fl.ID }
func (fl Fuel) DisplayName() string { return fl.Name }
