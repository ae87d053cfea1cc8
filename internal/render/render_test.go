package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"immichart/internal/core"
	"immichart/internal/scale"
)

func fullYear() []core.Record {
	recs := make([]core.Record, 0, len(core.Months))
	for i, m := range core.Months {
		recs = append(recs, core.Record{Month: m, Values: map[core.Category]float64{
			core.Economic:          float64(1000 + 100*i),
			core.FamilySponsorship: float64(400 + 10*i),
			core.Refugee:           float64(300 + 50*i),
			core.Other:             float64(50 + i),
		}})
	}
	return recs
}

func snapshot[K comparable](l *Layer[K]) map[K]map[string]string {
	out := make(map[K]map[string]string, l.Len())
	for _, k := range l.Keys() {
		n, _ := l.Get(k)
		out[k] = n.Attrs()
	}
	return out
}

func newTestRenderer(t *testing.T, bind PointBinder) (*Renderer, []core.Record, scale.Scales) {
	t.Helper()
	layout := DefaultLayout()
	require.NoError(t, layout.Validate())
	recs := fullYear()
	sc := scale.Build(recs, core.Categories, layout.Frame())
	r := New(layout, core.DefaultPalette(), bind)
	r.DrawXAxis(sc.X)
	r.DrawYAxis(sc.Y)
	return r, recs, sc
}

func TestReconcileDiff(t *testing.T) {
	l := NewLayer[string](NewNode("g"))
	mk := func(s string) *Node { return NewNode("rect").Set("id", s) }
	upd := func(n *Node, s string) { n.Set("data-seen", "1") }
	id := func(s string) string { return s }

	d := Reconcile(l, []string{"a", "b", "c"}, id, mk, upd)
	assert.Equal(t, []string{"a", "b", "c"}, d.Enter)
	assert.Empty(t, d.Update)
	assert.Empty(t, d.Exit)

	b, _ := l.Get("b")
	d = Reconcile(l, []string{"c", "b", "d"}, id, mk, upd)
	assert.Equal(t, []string{"d"}, d.Enter)
	assert.Equal(t, []string{"c", "b"}, d.Update)
	assert.Equal(t, []string{"a"}, d.Exit)
	assert.Equal(t, []string{"c", "b", "d"}, l.Keys(), "children follow target order")

	b2, _ := l.Get("b")
	assert.Same(t, b, b2, "updated elements are reused")
	require.Len(t, l.Group.Children, 3)
	assert.Same(t, b, l.Group.Children[1])

	d = Reconcile(l, []string{"x", "x"}, id, mk, upd)
	assert.Equal(t, []string{"x"}, d.Enter)
	assert.Equal(t, 1, l.Len())
}

func TestDrawInitialCounts(t *testing.T) {
	bound := 0
	r, recs, sc := newTestRenderer(t, func(n *Node, d PointDatum) {
		bound++
		n.Set("data-key", string(d.Key.Category)+d.Key.Month)
	})
	lines, points := r.Draw(core.BuildSeries(recs), sc)

	assert.Len(t, lines.Enter, 4)
	assert.Len(t, points.Enter, 48)
	assert.Equal(t, 4, r.Lines().Len())
	assert.Equal(t, 48, r.Points().Len())
	assert.Equal(t, 48, bound, "every new marker gets hover behaviour")

	n, ok := r.Lines().Get(core.Refugee)
	require.True(t, ok)
	stroke, _ := n.Get("stroke")
	assert.Equal(t, "#c62828", stroke)
	d, _ := n.Get("d")
	assert.Equal(t, 12, strings.Count(d, ","), "one coordinate pair per month")
	assert.True(t, strings.HasPrefix(d, "M"))
}

func TestDrawIdempotent(t *testing.T) {
	bound := 0
	r, recs, sc := newTestRenderer(t, func(*Node, PointDatum) { bound++ })
	series := core.BuildSeries(recs)
	r.Draw(series, sc)
	beforeLines, beforePoints := snapshot(r.Lines()), snapshot(r.Points())
	svg := r.SVG()

	lines, points := r.Draw(series, sc)
	assert.True(t, lines.Empty())
	assert.True(t, points.Empty())
	assert.Equal(t, beforeLines, snapshot(r.Lines()))
	assert.Equal(t, beforePoints, snapshot(r.Points()))
	assert.Equal(t, svg, r.SVG())
	assert.Equal(t, 48, bound, "no rebinding on update")
}

func TestDrawExitAndReenter(t *testing.T) {
	r, recs, sc := newTestRenderer(t, nil)
	series := core.BuildSeries(recs)
	r.Draw(series, sc)
	before := snapshot(r.Points())
	beforeLine := snapshot(r.Lines())[core.Other]

	without := series[:3]
	_, points := r.Draw(without, sc)
	assert.Len(t, points.Exit, 12)
	assert.Equal(t, 36, r.Points().Len())
	_, ok := r.Lines().Get(core.Other)
	assert.False(t, ok)

	_, points = r.Draw(series, sc)
	assert.Len(t, points.Enter, 12)
	assert.Equal(t, before, snapshot(r.Points()))
	assert.Equal(t, beforeLine, snapshot(r.Lines())[core.Other])
}

func TestDuplicateMonthsKeepAllMarkers(t *testing.T) {
	r, _, sc := newTestRenderer(t, nil)
	s := core.Series{Key: core.Economic, Values: []core.Point{
		{Month: "Jan", Value: 1}, {Month: "Jan", Value: 2}, {Month: "Feb", Value: 3},
	}}
	_, points := r.Draw([]core.Series{s}, sc)
	assert.Len(t, points.Enter, 3)
	_, ok := r.Points().Get(PointKey{Category: core.Economic, Month: "Jan", Seq: 1})
	assert.True(t, ok)
}

func TestLinePath(t *testing.T) {
	sc := scale.Scales{
		X: scale.NewPoint(core.Months, 0, 1200),
		Y: scale.NewLinear(0, 1000, 400, 0),
	}
	got := LinePath([]core.Point{{Month: "Jan", Value: 0}, {Month: "Feb", Value: 500}, {Month: "Bogus", Value: 9}}, sc)
	assert.Equal(t, "M50,400L150,200", got)
}

func TestAxes(t *testing.T) {
	r, _, sc := newTestRenderer(t, nil)
	root := r.Root()

	x := root.Find("x")
	require.NotNil(t, x)
	assert.Len(t, x.Children, 1+12, "domain path plus one tick per month")
	assert.Equal(t, "Jan", x.Children[1].Children[1].Text)

	y := root.Find("y")
	require.NotNil(t, y)
	ticks := sc.Y.Ticks(6)
	assert.Len(t, y.Children, 1+len(ticks))
	assert.Equal(t, "2,000", y.Children[len(y.Children)-1].Children[1].Text)

	narrowed := sc.WithActive(fullYear(), []core.Category{core.Other}, r.layout.Frame())
	diff := r.DrawYAxis(narrowed.Y)
	assert.NotEmpty(t, diff.Exit)
	assert.Len(t, y.Children, 1+len(narrowed.Y.Ticks(6)))
}

func TestSerialisation(t *testing.T) {
	n := NewNode("text").Set("class", "a").Set("class", "b")
	n.Text = `Family & "Friends" <x>`
	assert.Equal(t, `<text class="b">Family &amp; &#34;Friends&#34; &lt;x&gt;</text>`, n.String())
	assert.Equal(t, `<line x2="-6"/>`, NewNode("line").SetFloat("x2", -6).String())
	assert.Equal(t, "33.333", formatNum(100.0/3))
	assert.Equal(t, "0", formatNum(-0.0001))
}
