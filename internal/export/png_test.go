package export

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"immichart/internal/chart"
	"immichart/internal/core"
)

func records() []core.Record {
	out := make([]core.Record, 0, len(core.Months))
	for i, m := range core.Months {
		out = append(out, core.Record{Month: m, Values: map[core.Category]float64{
			core.Economic:          float64(1000 + i*100),
			core.FamilySponsorship: float64(400 + i*10),
			core.Refugee:           float64(200 + i*5),
			core.Other:             50,
		}})
	}
	return out
}

func TestPNGRendersVisibleSeries(t *testing.T) {
	ctrl := chart.New(records(), chart.Options{})
	_, err := ctrl.Toggle(core.Other)
	require.NoError(t, err)

	snap := ctrl.Snapshot()
	graph := build(snap)
	assert.Len(t, graph.Series, 3)
	assert.Len(t, graph.XAxis.Ticks, 12)
	assert.Equal(t, "Jan", graph.XAxis.Ticks[0].Label)
	assert.Equal(t, snap.YMax, graph.YAxis.Range.GetMax())

	var buf bytes.Buffer
	require.NoError(t, PNG(&buf, snap))
	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 960, img.Bounds().Dx())
	assert.Equal(t, 480, img.Bounds().Dy())
}

func TestPNGWithEverythingHidden(t *testing.T) {
	ctrl := chart.New(records(), chart.Options{})
	for _, c := range core.Categories {
		_, err := ctrl.Toggle(c)
		require.NoError(t, err)
	}
	var buf bytes.Buffer
	require.NoError(t, PNG(&buf, ctrl.Snapshot()))
	assert.NotZero(t, buf.Len())
}

func TestPointsSkipsUnknownMonths(t *testing.T) {
	xs, ys := points(core.Series{Key: core.Refugee, Values: []core.Point{{Month: "Feb", Value: 2}, {Month: "Foo", Value: 9}}})
	assert.Equal(t, []float64{1}, xs)
	assert.Equal(t, []float64{2}, ys)
}
