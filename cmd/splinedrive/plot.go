package main

import (
	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"go.viam.com/splinedrive/planner"
	"go.viam.com/splinedrive/trajectory"
)

const pathPlotPoints = 400

func pointsXY(pts []r2.Point) plotter.XYs {
	return lo.Map(pts, func(p r2.Point, _ int) plotter.XY { return plotter.XY{X: p.X, Y: p.Y} })
}

func velocityXY(seq []trajectory.TimedVelocity) plotter.XYs {
	return lo.Map(seq, func(tv trajectory.TimedVelocity, _ int) plotter.XY { return plotter.XY{X: tv.Time, Y: tv.Velocity} })
}

// savePathPlot draws the fitted curve and its waypoints.
func savePathPlot(res *planner.Result, path string) error {
	p := plot.New()
	p.Title.Text = "Path"
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"

	curve, err := plotter.NewLine(pointsXY(res.Curve.Points(pathPlotPoints)))
	if err != nil {
		return errors.Wrap(err, "plotting curve")
	}
	curve.Color = plotutil.Color(0)
	waypoints, err := plotter.NewScatter(pointsXY(res.Curve.Waypoints()))
	if err != nil {
		return errors.Wrap(err, "plotting waypoints")
	}
	waypoints.Color = plotutil.Color(1)
	waypoints.Shape = plotutil.Shape(0)

	p.Add(plotter.NewGrid(), curve, waypoints)
	p.Legend.Add("spline", curve)
	p.Legend.Add("waypoints", waypoints)
	return errors.Wrapf(p.Save(6*vg.Inch, 8*vg.Inch, path), "saving %s", path)
}

// saveVelocityPlot draws the raw and smoothed wheel velocities over time.
func saveVelocityPlot(res *planner.Result, path string) error {
	p := plot.New()
	p.Title.Text = "Wheel velocities"
	p.X.Label.Text = "t (s)"
	p.Y.Label.Text = "v"
	p.Add(plotter.NewGrid())

	series := []struct {
		name string
		seq  []trajectory.TimedVelocity
		raw  bool
	}{
		{"left", res.Profile.Left, false},
		{"right", res.Profile.Right, false},
		{"left (raw)", res.RawLeft, true},
		{"right (raw)", res.RawRight, true},
	}
	for i, s := range series {
		line, err := plotter.NewLine(velocityXY(s.seq))
		if err != nil {
			return errors.Wrapf(err, "plotting %s", s.name)
		}
		line.Color = plotutil.Color(i % 2)
		if s.raw {
			line.Dashes = plotutil.Dashes(1)
		}
		p.Add(line)
		p.Legend.Add(s.name, line)
	}
	return errors.Wrapf(p.Save(8*vg.Inch, 4*vg.Inch, path), "saving %s", path)
}
