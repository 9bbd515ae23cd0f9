package id

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAccountID(t *testing.T) {
	got, err := NewAccountID()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(got, "acc_"))
	assert.Len(t, got, len("acc_")+DefaultLength)
	assert.NoError(t, Validate(PrefixAccount, got))
}

func TestGenerate_Unique(t *testing.T) {
	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		s, err := Generate(DefaultLength)
		require.NoError(t, err)
		_, dup := seen[s]
		require.False(t, dup, "duplicate id %s", s)
		seen[s] = struct{}{}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		prefix  string
		input   string
		wantErr bool
	}{
		{"valid artifact", PrefixArtifact, "art_0123456789abcdef", false},
		{"wrong prefix", PrefixAccount, "art_0123456789abcdef", true},
		{"too short", PrefixAccount, "acc_abc", true},
		{"bad char", PrefixAccount, "acc_0123456789abcde-", true},
		{"empty", PrefixAccount, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.prefix, tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func FuzzValidate(f *testing.F) {
	f.Add("acc_0123456789abcdef")
	f.Add("acc_")
	f.Add("")
	f.Fuzz(func(t *testing.T, s string) {
		_ = Validate(PrefixAccount, s)
	})
}
