package models

import (
	"time"
)

var priceFields = FieldTable{
	"SiteId":             "site id",
	"FuelId":             "fuel id",
	"CollectionMethod":   "collection method",
	"TransactionDateUtc": "transaction timestamp",
	"Price":              "price",
}

// StationPrice is one fuel price observation at one station.
type StationPrice struct {
	StationID        int       `json:"station_id"`
	FuelID           int       `json:"fuel_id"`
	CollectionMethod string    `json:"collection_method"`
	TransactionDate  time.Time `json:"transaction_date"`
	Price            Money     `json:"price"`
}

func ParsePrice(rec Record) (StationPrice, error) {
	f := fields{rec, priceFields}
	var p StationPrice
	var err error

	if p.StationID, err = f.Int("SiteId"); err != nil {
		return StationPrice{}, err
	}
	if p.FuelID, err = f.Int("FuelId"); err != nil {
		return StationPrice{}, err
	}
	if p.CollectionMethod, err = f.String("CollectionMethod"); err != nil {
		return StationPrice{}, err
	}
	if p.TransactionDate, err = f.Timestamp("TransactionDateUtc", time.UTC); err != nil {
		return StationPrice{}, err
	}
	raw, err := f.Decimal("Price")
	if err != nil {
		return StationPrice{}, err
	}
	p.Price = PriceFromTenthsOfCent(raw)
	return p, nil
}

func (p StationPrice) Record() Record {
	rec := recordBuilder{}
	rec.set("SiteId", p.StationID)
	rec.set("FuelId", p.FuelID)
	rec.set("CollectionMethod", p.CollectionMethod)
	rec.set("TransactionDateUtc", FormatTimestamp(p.TransactionDate.UTC()))
	rec.setRaw("Price", p.Price.TenthsOfCent().String())
	return Record(rec)
}
