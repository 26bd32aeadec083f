// Package model defines the data structures used throughout the application.
// In Go, we use structs to represent our data — similar to classes in other languages,
// but without inheritance. Go favours composition over inheritance.
package model

import "time"

// CoffeeEntry represents one tasting record in the journal.
//
// OPTIONAL FIELDS AS POINTERS:
// Everything except CoffeeName is optional. We model "not recorded" as a nil
// pointer, never as an empty string. Combined with `omitempty`, absent fields
// disappear from the JSON entirely:
//
//	{"id":"cv37...","coffee_name":"Ethiopian Keramo","roaster":"Rowan","rating":8.5,...}
//
// A client that sends "" for an optional field gets it normalised to absent
// by the service layer before it ever reaches the database.
type CoffeeEntry struct {
	ID            string    `json:"id"`
	CoffeeName    string    `json:"coffee_name"`
	Roaster       *string   `json:"roaster,omitempty"`
	Origin        *string   `json:"origin,omitempty"`
	Processing    *string   `json:"processing,omitempty"`
	RoastLevel    *string   `json:"roast_level,omitempty"`
	BrewingMethod *string   `json:"brewing_method,omitempty"`
	Rating        *float64  `json:"rating,omitempty"`
	TastingNotes  *string   `json:"tasting_notes,omitempty"`
	DateTried     *Date     `json:"date_tried,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}
