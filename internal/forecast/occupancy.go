package forecast

import (
	"encoding/json"
	"fmt"
	"io"

	"fwowebserver/internal/models"
)

// decodeOccupancy reads {"<restaurant>": {"<key>": [hourly...], ...}, ...}.
// The inner keys carry no weekday information, so their document order is
// kept; encoding/json maps would lose it.
func decodeOccupancy(r io.Reader) (models.Occupancy, error) {
	dec := json.NewDecoder(r)
	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}

	occ := make(models.Occupancy)
	for dec.More() {
		name, err := readKey(dec)
		if err != nil {
			return nil, err
		}
		days, err := decodeRestaurant(dec)
		if err != nil {
			return nil, fmt.Errorf("restaurant %s: %w", name, err)
		}
		occ[models.Location(name)] = days
	}
	if err := expectDelim(dec, '}'); err != nil {
		return nil, err
	}
	return occ, nil
}

func decodeRestaurant(dec *json.Decoder) ([]models.OccupancyDay, error) {
	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}
	var days []models.OccupancyDay
	for dec.More() {
		key, err := readKey(dec)
		if err != nil {
			return nil, err
		}
		var hourly []float64
		if err := dec.Decode(&hourly); err != nil {
			return nil, fmt.Errorf("day %s: %w", key, err)
		}
		days = append(days, models.OccupancyDay{Key: key, Hourly: hourly})
	}
	if err := expectDelim(dec, '}'); err != nil {
		return nil, err
	}
	return days, nil
}

func readKey(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", err
	}
	key, ok := tok.(string)
	if !ok {
		return "", fmt.Errorf("expected object key, got %v", tok)
	}
	return key, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}
