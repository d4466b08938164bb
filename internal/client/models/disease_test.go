package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDisplayName_ReplacesUnderscores(t *testing.T) {
	r := AnalysisResult{DiseaseName: "Tomato__Late_blight"}
	require.Equal(t, "Tomato  Late blight", r.DisplayName())
	require.Equal(t, "Healthy", DisplayName("Healthy"))
	require.Equal(t, "", DisplayName(""))
}

func TestRegistrationRequest_ConfirmPasswordNotSerialized(t *testing.T) {
	b, err := json.Marshal(RegistrationRequest{
		Name: "Ann", Email: "ann@example.org", Password: "secret77", ConfirmPassword: "secret77",
	})
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	require.Equal(t, map[string]any{"name": "Ann", "email": "ann@example.org", "password": "secret77"}, m)
}

func TestAnalysisResult_DecodesCanonicalFields(t *testing.T) {
	var r AnalysisResult
	err := json.Unmarshal([]byte(`{"diseases_name":"Apple_scab","reason":"fungus","recommendation":"spray","image_url":"u/1.png"}`), &r)
	require.NoError(t, err)
	require.Equal(t, AnalysisResult{
		DiseaseName: "Apple_scab", Reason: "fungus", Recommendation: "spray", ImageURL: "u/1.png",
	}, r)
}
