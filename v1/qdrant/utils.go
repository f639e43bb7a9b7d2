package qdrant

import (
	"fmt"
)

// validateSearchInput validates common search parameters
func validateSearchInput(collectionName string, vector []float32, topK uint64) error {
	if collectionName == "" {
		return fmt.Errorf("collection name cannot be empty")
	}
	if len(vector) == 0 {
		return fmt.Errorf("vector cannot be empty")
	}
	if topK == 0 {
		return fmt.Errorf("topK must be greater than 0")
	}
	return nil
}
