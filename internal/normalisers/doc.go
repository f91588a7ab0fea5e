// Package normalisers provides implementations of the Normaliser
// interface. Each normaliser turns raw fetched text into a structured
// FAQ document.
package normalisers
