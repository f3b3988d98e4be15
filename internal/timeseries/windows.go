package timeseries

import "flusignal/internal/model"

// SlidingWindows cuts a weekly matrix into overlapping training windows for
// downstream sequence models: inputs of inputLen weeks paired with the
// predLen weeks that follow. Returns empty slices when the series is too
// short to cut a single window.
func SlidingWindows(matrix model.FrequencyMatrix, inputLen, predLen int) (inputs, targets [][][]float64) {
	data := matrix.Values
	if inputLen <= 0 || predLen <= 0 || len(data) < inputLen+predLen {
		return nil, nil
	}

	for i := 0; i+inputLen+predLen <= len(data); i++ {
		inputs = append(inputs, copyRows(data[i:i+inputLen]))
		targets = append(targets, copyRows(data[i+inputLen:i+inputLen+predLen]))
	}
	return inputs, targets
}

func copyRows(rows [][]float64) [][]float64 {
	out := make([][]float64, len(rows))
	for i, row := range rows {
		out[i] = append([]float64(nil), row...)
	}
	return out
}
