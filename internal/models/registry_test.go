package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestModelID(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "dots and case",
			input:    "Mistral-7B-Instruct-v0.3",
			expected: "mistral-7b-instruct-v0-3",
		},
		{
			name:     "already kebab",
			input:    "resnet-50",
			expected: "resnet-50",
		},
		{
			name:     "underscores",
			input:    "some_model_name",
			expected: "some-model-name",
		},
		{
			name:     "spaces",
			input:    "My Model v2",
			expected: "my-model-v2",
		},
		{
			name:     "mixed separators",
			input:    "Qwen2.5-VL-7B-Instruct",
			expected: "qwen2-5-vl-7b-instruct",
		},
		{
			name:     "empty",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ModelID(tt.input))
		})
	}
}

func TestIsAcceptedMetric(t *testing.T) {
	assert.True(t, IsAcceptedMetric(MetricMeanTTFTMs))
	assert.True(t, IsAcceptedMetric(MetricTTFT))
	assert.True(t, IsAcceptedMetric(MetricMeanTPS))
	assert.True(t, IsAcceptedMetric(MetricAccuracyCheck))
	assert.False(t, IsAcceptedMetric("p99_latency"))
	assert.False(t, IsAcceptedMetric(""))
}
