package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"

	"go.viam.com/splinedrive/kinematics"
	"go.viam.com/splinedrive/planner"
)

// planTable prints every nth planned sample with its raw and smoothed wheel velocities.
// The last sample is always included. RPM columns are added when wheelCircumference is set.
func planTable(res *planner.Result, every int, wheelCircumference float64) string {
	t := table.NewWriter()
	header := table.Row{"#", "T", "X", "Y", "Heading", "V", "W", "Left", "Right", "Left (raw)", "Right (raw)"}
	if wheelCircumference > 0 {
		header = append(header, "Left RPM", "Right RPM")
	}
	t.AppendHeader(header)
	last := len(res.Samples) - 1
	for i, s := range res.Samples {
		if i%every != 0 && i != last {
			continue
		}
		left, right := res.Profile.At(i)
		row := table.Row{
			fmt.Sprintf("%d", i),
			fmt.Sprintf("%.2f", s.Time),
			fmt.Sprintf("%.3f", s.Position.X),
			fmt.Sprintf("%.3f", s.Position.Y),
			fmt.Sprintf("%.3f", s.Heading),
			fmt.Sprintf("%.3f", s.LinearVelocity),
			fmt.Sprintf("%.3f", s.AngularVelocity),
			fmt.Sprintf("%.3f", left),
			fmt.Sprintf("%.3f", right),
			fmt.Sprintf("%.3f", res.RawLeft[i].Velocity),
			fmt.Sprintf("%.3f", res.RawRight[i].Velocity),
		}
		if wheelCircumference > 0 {
			row = append(row,
				fmt.Sprintf("%.1f", kinematics.WheelRPM(left, wheelCircumference)),
				fmt.Sprintf("%.1f", kinematics.WheelRPM(right, wheelCircumference)))
		}
		t.AppendRow(row)
	}
	return t.Render() + "\n"
}
