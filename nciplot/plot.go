/*
 * plot.go, part of qfield.
 *
 *
 * Copyright 2024 The qfield authors
 *
    This program is free software: you can redistribute it and/or modify
    it under the terms of the GNU Lesser General Public License as published by
    the Free Software Foundation, either version 2 of the License, or
    (at your option) any later version.

    This program is distributed in the hope that it will be useful,
    but WITHOUT ANY WARRANTY; without even the implied warranty of
    MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
    GNU General Public License for more details.

    You should have received a copy of the GNU Lesser General Public License
    along with this program.  If not, see <http://www.gnu.org/licenses/>.
 *
 *
 */

package nciplot

import (
	"image/color"
	"math"

	"github.com/rmera/qfield"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

//PlotOptions controls the scatter plot.
type PlotOptions struct {
	Title  string
	RhoMax float64 //the x axis goes from -RhoMax to RhoMax
	SMax   float64 //the y axis goes from 0 to SMax
	Size   vg.Length
}

//DefaultPlotOptions returns the usual NCIPLOT ranges: sign(lambda2)*rho in [-0.05,0.05] au
//and s in [0,1].
func DefaultPlotOptions() *PlotOptions {
	return &PlotOptions{Title: "NCI", RhoMax: 0.05, SMax: 1, Size: 5 * vg.Inch}
}

//colorFor gives blue to attractive, green to weak, and red to repulsive interactions.
func colorFor(signrho, rhomax float64) color.RGBA {
	f := math.Max(-1, math.Min(1, signrho/rhomax))
	if f < 0 {
		return color.RGBA{R: 0, G: uint8(255 * (1 + f)), B: uint8(255 * -f), A: 255}
	}
	return color.RGBA{R: uint8(255 * f), G: uint8(255 * (1 - f)), B: 0, A: 255}
}

func basicNCIPlot(o *PlotOptions) *plot.Plot {
	p := plot.New()
	p.Title.Padding = 3 * vg.Millimeter
	p.Title.Text = o.Title
	p.X.Label.Text = "sign(λ2)ρ (au)"
	p.Y.Label.Text = "s"
	p.X.Min = -o.RhoMax
	p.X.Max = o.RhoMax
	p.Y.Min = 0
	p.Y.Max = o.SMax
	p.Add(plotter.NewGrid())
	return p
}

//Plot produces the s vs sign(lambda2)*rho scatter plot of the points and saves it to filename.
//The format is given by the extension of filename (png, svg, pdf...). Points out of the ranges
//of the plot are not drawn.
func Plot(points []Point, filename string, options ...*PlotOptions) error {
	o := DefaultPlotOptions()
	if len(options) > 0 && options[0] != nil {
		o = options[0]
		d := DefaultPlotOptions()
		if o.RhoMax <= 0 {
			o.RhoMax = d.RhoMax
		}
		if o.SMax <= 0 {
			o.SMax = d.SMax
		}
		if o.Size <= 0 {
			o.Size = d.Size
		}
	}
	p := basicNCIPlot(o)
	//one scatter per color band, so we don't need one per point.
	const bands = 9
	xys := make([]plotter.XYs, bands)
	for _, v := range points {
		if math.Abs(v.SignRho) > o.RhoMax || v.S > o.SMax {
			continue
		}
		b := int(math.Round((v.SignRho/o.RhoMax + 1) / 2 * (bands - 1)))
		xys[b] = append(xys[b], plotter.XY{X: v.SignRho, Y: v.S})
	}
	for b, pts := range xys {
		if len(pts) == 0 {
			continue
		}
		s, err := plotter.NewScatter(pts)
		if err != nil {
			return qfield.NewError(err.Error(), true, "nciplot.Plot")
		}
		s.GlyphStyle.Shape = draw.CircleGlyph{}
		s.GlyphStyle.Radius = vg.Points(1)
		s.GlyphStyle.Color = colorFor((float64(b)/(bands-1)*2-1)*o.RhoMax, o.RhoMax)
		p.Add(s)
	}
	if err := p.Save(o.Size, o.Size, filename); err != nil {
		return qfield.NewError(err.Error(), true, "nciplot.Plot")
	}
	return nil
}
