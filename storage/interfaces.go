package storage

import "travel-search/models"

// ResultWriter is the interface any results sink must satisfy.
type ResultWriter interface {
	Write(results []models.RankedResult) error
	Close() error
}
