// Package ratio normalizes counts against a population or an area.
package ratio

import (
	"errors"
	"fmt"
)

// ErrZeroDenominator is returned when the population or area is zero.
var ErrZeroDenominator = errors.New("zero denominator")

// PerCapitaUnit is the population size PerCapita reports against.
const PerCapitaUnit = 10_000

// PerCapita returns value per 10,000 people.
func PerCapita(value, population float64) (float64, error) {
	return PerCapitaScaled(value, population, PerCapitaUnit)
}

// PerCapitaScaled returns value per `per` people.
func PerCapitaScaled(value, population, per float64) (float64, error) {
	if population == 0 {
		return 0, fmt.Errorf("per capita: %w", ErrZeroDenominator)
	}

	return value / population * per, nil
}

// PerSquareMile returns value divided by area in square miles.
func PerSquareMile(value, area float64) (float64, error) {
	if area == 0 {
		return 0, fmt.Errorf("per square mile: %w", ErrZeroDenominator)
	}

	return value / area, nil
}
