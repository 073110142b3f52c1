package store_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielpatrickdp/crop-advisor/go-service/internal/diagnosis"
	"github.com/danielpatrickdp/crop-advisor/go-service/internal/ensemble"
	"github.com/danielpatrickdp/crop-advisor/go-service/internal/factors"
	"github.com/danielpatrickdp/crop-advisor/go-service/internal/logging"
	"github.com/danielpatrickdp/crop-advisor/go-service/internal/store"
)

func tempStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.NewStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestNewStore_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.db")
	s, err := store.NewStore(path)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = store.NewStore(path)
	require.NoError(t, err, "migrations must be idempotent")
	require.NoError(t, s.Close())
}

func TestListPredictions_NewestFirst(t *testing.T) {
	s := tempStore(t)
	p := ensemble.NewPredictor(ensemble.DefaultCatalog(), nil, nil)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i, crop := range []string{"Rice", "Wheat", "Maize"} {
		req := ensemble.Request{
			CropType: crop, FarmSize: float64(i + 1),
			Soil:    factors.SoilInput{PH: 7, SoilType: "Loamy"},
			Weather: factors.WeatherInput{Rainfall: 800, Temperature: 25, Humidity: 60},
		}
		out, err := p.Predict(t.Context(), req)
		require.NoError(t, err)
		_, err = logging.LogPrediction(s.DB(), logging.PredictionEntry{
			Request: req, Outcome: out, CreatedAt: base.Add(time.Duration(i) * time.Millisecond),
		})
		require.NoError(t, err)
	}

	recs, err := s.ListPredictions(2)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "Maize", recs[0].CropType)
	assert.Equal(t, "Wheat", recs[1].CropType)
	assert.Equal(t, "synergy", recs[0].FusionMode)
	assert.Equal(t, "heuristic", recs[0].Source)
	assert.Equal(t, "Loamy", recs[0].SoilType)
	assert.Equal(t, 3.0, recs[0].FarmSize)
	assert.True(t, recs[0].CreatedAt.Equal(base.Add(2*time.Millisecond)))
	assert.Empty(t, recs[0].Location)
}

func TestListRecent(t *testing.T) {
	s := tempStore(t)
	tbl, err := diagnosis.DefaultTable()
	require.NoError(t, err)
	d := diagnosis.NewDiagnoser(tbl)

	for _, img := range []string{"leaf-image-1", "\x89PNG\r\n\x1a\n"} {
		_, err := logging.LogDiagnosis(s.DB(), logging.DiagnosisEntry{
			RequestID: "req", Result: d.DiagnoseBytes([]byte(img), "hi"),
		})
		require.NoError(t, err)
	}

	recent, err := s.ListRecent(10)
	require.NoError(t, err)
	assert.Empty(t, recent.Predictions)
	require.Len(t, recent.Diagnoses, 2)
	for _, r := range recent.Diagnoses {
		assert.Equal(t, "hi", r.Language)
		assert.Equal(t, "req", r.RequestID)
		assert.Len(t, r.Digest, 32)
	}
}

func TestListPredictions_ClosedDB(t *testing.T) {
	s := tempStore(t)
	s.Close()
	_, err := s.ListPredictions(1)
	assert.Error(t, err)
}
