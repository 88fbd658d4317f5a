package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"travel-search/models"
)

// CSVWriter writes ranked results to a CSV file.
// It is safe for concurrent use.
type CSVWriter struct {
	mu     sync.Mutex
	file   *os.File
	writer *csv.Writer
}

// NewCSVWriter creates (or truncates) the CSV file at the given path and
// writes the header row. Intermediate directories are created automatically.
func NewCSVWriter(path string) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}

	w := csv.NewWriter(f)

	if err := w.Write([]string{
		"id", "title", "location", "price", "currency", "rating", "bedrooms", "score", "url",
	}); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("csv: write header: %w", err)
	}
	w.Flush()

	return &CSVWriter{file: f, writer: w}, nil
}

// Write appends the given results to the CSV file.
func (c *CSVWriter) Write(results []models.RankedResult) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, r := range results {
		price := ""
		if r.PriceKnown {
			price = strconv.FormatFloat(r.ConvertedPrice.Amount, 'f', 2, 64)
		}
		rating := ""
		if r.Rating != nil {
			rating = strconv.FormatFloat(*r.Rating, 'f', 1, 64)
		}
		bedrooms := ""
		if r.Bedrooms != nil {
			bedrooms = strconv.Itoa(*r.Bedrooms)
		}

		row := []string{
			r.ID,
			r.Title,
			r.Location,
			price,
			r.ConvertedPrice.Currency,
			rating,
			bedrooms,
			strconv.FormatFloat(r.Score, 'f', 2, 64),
			r.URL,
		}
		if err := c.writer.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	c.writer.Flush()
	return c.writer.Error()
}

// Close flushes and closes the underlying file.
func (c *CSVWriter) Close() error {
	c.writer.Flush()
	return c.file.Close()
}
