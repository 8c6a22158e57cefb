/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package testmodels holds polymorphic entities shared by the datastore
// tests.
package testmodels

import (
	"reflect"

	"github.com/go-openapi/strfmt"

	"github.com/suparena/polycodec/registry"
)

// Rater is implemented by every stored rating system.
type Rater interface {
	SystemID() string
}

type RatingSystem struct {

	// Timestamp when the rating system was created.
	// Required: true
	// Format: date-time
	CreatedAt *strfmt.DateTime `json:"CreatedAt"`

	// A description of the rating system.
	// Required: true
	Description *string `json:"Description"`

	// Unique identifier for the rating system.
	// Required: true
	ID *string `json:"Id"`

	// Name of the rating system.
	// Required: true
	Name *string `json:"Name"`

	// site Url
	SiteURL string `json:"SiteUrl,omitempty"`

	// Timestamp when the rating system was last updated.
	// Required: true
	// Format: date-time
	UpdatedAt *strfmt.DateTime `json:"UpdatedAt"`
}

func (r RatingSystem) SystemID() string {
	if r.ID == nil {
		return ""
	}
	return *r.ID
}

// EloSystem is a rating system with a fixed K-factor.
type EloSystem struct {
	RatingSystem

	// Maximum rating change per game.
	KFactor int `json:"KFactor"`
}

func (EloSystem) DiscriminatorValue() string { return "elo" }

// GlickoSystem tracks rating deviation and volatility.
type GlickoSystem struct {
	RatingSystem

	// System constant constraining volatility over time.
	Tau float64 `json:"Tau"`

	// Initial rating deviation.
	InitialRD float64 `json:"InitialRD,omitempty"`
}

func (GlickoSystem) DiscriminatorValue() string { return "glicko" }

// Types lists the concrete Rater implementations.
func Types() []reflect.Type {
	return []reflect.Type{
		reflect.TypeOf(EloSystem{}),
		reflect.TypeOf(GlickoSystem{}),
	}
}

// IndexMaps returns the key layout of every rating system type. Macros name
// encoded properties.
func IndexMaps() *registry.IndexMaps {
	maps := registry.NewIndexMaps()
	registry.RegisterIndexMap[EloSystem](maps, map[string]string{
		"PK":     "RS#{Id}",
		"SK":     "RS#{Id}",
		"GSI1PK": "KIND#elo",
		"GSI1SK": "{Name}",
	})
	registry.RegisterIndexMap[GlickoSystem](maps, map[string]string{
		"PK":     "RS#{Id}",
		"SK":     "RS#{Id}",
		"GSI1PK": "KIND#glicko",
		"GSI1SK": "{Name}",
	})
	return maps
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}
