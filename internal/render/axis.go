package render

import (
	"immichart/internal/scale"
)

const (
	tickSize    = 6
	tickPadding = 3
	axisOffset  = 0.5
)

func axisGroup(n *Node, anchor string) {
	n.Set("fill", "none").
		Set("font-size", "10").
		Set("font-family", "sans-serif").
		Set("text-anchor", anchor)
}

// DrawXAxis renders the bottom axis with one tick per month label.
func (r *Renderer) DrawXAxis(x *scale.Point) {
	axisGroup(r.xAxis, "middle")
	f := r.layout.Frame()
	r.xAxis.Children = nil
	r.xAxis.Append(NewNode("path").
		Set("class", "domain").
		Set("stroke", "currentColor").
		Set("d", "M"+formatNum(axisOffset)+","+formatNum(tickSize)+
			"V"+formatNum(axisOffset)+
			"H"+formatNum(f.InnerWidth+axisOffset)+
			"V"+formatNum(tickSize)))
	for _, label := range x.Domain() {
		pos, _ := x.Map(label)
		tick := r.xAxis.Append(NewNode("g").
			Set("class", "tick").
			Set("opacity", "1").
			Set("transform", translate(pos+axisOffset, 0)))
		tick.Append(NewNode("line").Set("stroke", "currentColor").SetFloat("y2", tickSize))
		text := NewNode("text").
			Set("fill", "currentColor").
			SetFloat("y", tickSize+tickPadding).
			Set("dy", "0.71em")
		text.Text = label
		tick.Append(text)
	}
}

// DrawYAxis renders the left value axis for the current domain. Ticks are
// reconciled by value so unchanged ticks keep their element.
func (r *Renderer) DrawYAxis(y *scale.Linear) Diff[float64] {
	axisGroup(r.yAxis, "end")
	r0, r1 := y.Range()
	domain := NewNode("path").
		Set("class", "domain").
		Set("stroke", "currentColor").
		Set("d", "M"+formatNum(-tickSize)+","+formatNum(r0+axisOffset)+
			"H"+formatNum(axisOffset)+
			"V"+formatNum(r1+axisOffset)+
			"H"+formatNum(-tickSize))

	place := func(n *Node, v float64) {
		n.Set("transform", translate(0, y.Map(v)+axisOffset))
	}
	diff := Reconcile(r.yTicks, y.Ticks(r.layout.YTicks),
		func(v float64) float64 { return v },
		func(v float64) *Node {
			tick := NewNode("g").Set("class", "tick").Set("opacity", "1")
			place(tick, v)
			tick.Append(NewNode("line").Set("stroke", "currentColor").SetFloat("x2", -tickSize))
			text := NewNode("text").
				Set("fill", "currentColor").
				SetFloat("x", -(tickSize+tickPadding)).
				Set("dy", "0.32em")
			text.Text = scale.FormatTick(v)
			tick.Append(text)
			return tick
		},
		place,
	)
	r.yAxis.Children = append([]*Node{domain}, r.yTicks.Group.Children...)
	return diff
}
