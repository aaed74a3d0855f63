package geo

import (
	"context"
	"fmt"
	"strings"

	"github.com/guardknight/guardknight-api/schema"
)

var ErrNoGeocoder = fmt.Errorf("no geocoder configured")

type MultipleGeocoderErrors struct {
	errors []error
}

func (e *MultipleGeocoderErrors) Error() string {
	errorStrings := make([]string, len(e.errors))
	for i, err := range e.errors {
		errorStrings[i] = fmt.Sprintf("#%d: %s", i, err.Error())
	}
	return strings.Join(errorStrings, "\n")
}

// Unwrap lets errors.Is see through to the individual geocoder errors.
func (e *MultipleGeocoderErrors) Unwrap() []error {
	return e.errors
}

func NewMultipleGeocoderErrors(errors []error) *MultipleGeocoderErrors {
	return &MultipleGeocoderErrors{
		errors: errors,
	}
}

// MultipleGeocoder asks each geocoder in turn and returns the first success.
type MultipleGeocoder struct {
	geocoders []Geocoder
}

func NewMultipleGeocoder(geocoders ...Geocoder) *MultipleGeocoder {
	return &MultipleGeocoder{
		geocoders: geocoders,
	}
}

func (m *MultipleGeocoder) ReverseGeocode(ctx context.Context, lat, lng float64) (string, error) {
	if len(m.geocoders) == 0 {
		return "", ErrNoGeocoder
	}

	var errors []error
	for _, g := range m.geocoders {
		address, err := g.ReverseGeocode(ctx, lat, lng)
		if err != nil {
			errors = append(errors, err)
		} else {
			return address, nil
		}
	}

	return "", NewMultipleGeocoderErrors(errors)
}

func (m *MultipleGeocoder) SearchPlaces(ctx context.Context, query string, viewport *schema.Viewport) ([]schema.Place, error) {
	if len(m.geocoders) == 0 {
		return nil, ErrNoGeocoder
	}

	var errors []error
	for _, g := range m.geocoders {
		places, err := g.SearchPlaces(ctx, query, viewport)
		if err != nil {
			errors = append(errors, err)
		} else {
			return places, nil
		}
	}

	return nil, NewMultipleGeocoderErrors(errors)
}
