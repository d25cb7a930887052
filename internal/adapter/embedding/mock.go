package embedding

import "context"

// MockModel is a deterministic model client for tests and local runs.
// Each character of the input contributes to one dimension.
type MockModel struct {
	dimension int
}

// NewMockModel creates a mock model emitting vectors of the given native
// dimension.
func NewMockModel(dimension int) *MockModel {
	return &MockModel{dimension: dimension}
}

// Run implements port.ModelClient.
func (m *MockModel) Run(_ context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vec := make([]float32, m.dimension)
		for j, r := range text {
			if j >= m.dimension {
				break
			}
			vec[j] = float32(r) / 1000.0
		}
		vectors[i] = vec
	}
	return vectors, nil
}

// ModelName implements port.ModelClient.
func (m *MockModel) ModelName() string {
	return "mock"
}
