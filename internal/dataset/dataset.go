// Package dataset provides access to named benchmark instances: a Solomon
// format parser and store backends for Postgres, memory, and a Redis
// read-through cache.
package dataset

import (
	"context"
	"errors"

	"github.com/dkvc/AutumSem-OR/internal/vrp"
)

// Dataset is a parsed benchmark instance addressable by name.
type Dataset struct {
	Name     string       `json:"name"`
	Instance vrp.Instance `json:"instance"`
}

// Store is the dataset lookup interface used by the API server.
type Store interface {
	GetDataset(ctx context.Context, name string) (Dataset, error)
	ListDatasets(ctx context.Context) ([]string, error)
}

var ErrNotFound = errors.New("dataset not found")

// Info is the summary shape returned by dataset listings.
type Info struct {
	Name        string `json:"name"`
	Customers   int    `json:"customers"`
	NumVehicles int    `json:"num_vehicles"`
	Capacity    int    `json:"vehicle_capacity"`
}

// Describe summarizes a dataset for listing endpoints.
func Describe(d Dataset) Info {
	customers := len(d.Instance.X)
	if customers > 0 {
		customers--
	}
	return Info{
		Name:        d.Name,
		Customers:   customers,
		NumVehicles: d.Instance.NumVehicles,
		Capacity:    d.Instance.Capacity,
	}
}
