package verify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_SourceConfidence(t *testing.T) {
	tests := []struct {
		host     string
		expected float64
	}{
		{"defillama.com", 0.9},
		{"www.defillama.com", 0.9},
		{"dune.com", 0.85},
		{"etherscan.io", 0.95},
		{"defiexplorer.com", 0.8},
		// lookalike hosts must not inherit trust
		{"evil-defillama.com", defaultSourceConfidence},
		{"defillama.com.attacker.io", defaultSourceConfidence},
		{"notdune.com", defaultSourceConfidence},
		{"docs.lido.fi", defaultSourceConfidence},
	}

	for _, tt := range tests {
		t.Run(tt.host, func(t *testing.T) {
			assert.Equal(t, tt.expected, sourceConfidence(tt.host))
		})
	}
}
