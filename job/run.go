/*
 * run.go, part of qfield.
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

package job

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/rmera/qfield"
	"github.com/rmera/qfield/basis"
	"github.com/rmera/qfield/cube"
	"github.com/rmera/qfield/grid"
	"github.com/rmera/qfield/histo"
	"github.com/rmera/qfield/mo"
	"github.com/rmera/qfield/nci"
	"github.com/rmera/qfield/nciplot"
	"github.com/rmera/qfield/potential"
	"github.com/rmera/qfield/v3"
	"golang.org/x/sync/errgroup"
)

//Result contains the fields computed by a job.
type Result struct {
	Job      *Job
	Spec     grid.Spec
	Fields   []*grid.Volume //one per requested orbital for mo jobs, one for the others.
	Color    *grid.Volume   //sign(lambda2)*rho, for NCI jobs.
	Points   []nciplot.Point
	Disabled []basis.ShellKind //shell kinds that didn't contribute to an orbital or density.

	atoms  []*qfield.Atom
	coords *v3.Matrix
}

//Run computes the field of the job, which must have been checked.
func (J *Job) Run(ctx context.Context) (*Result, error) {
	R := &Result{Job: J, Spec: J.spec}
	if J.top != nil {
		R.atoms, R.coords = J.top.Atoms, J.coords
	}
	var err error
	switch J.Field {
	case FieldMO, FieldDensity:
		err = J.runMO(ctx, R)
	case FieldMEP, FieldMLP:
		err = J.runPotential(ctx, R)
	case FieldNCI:
		err = J.runNCI(ctx, R)
	default:
		err = qfield.NewError(fmt.Sprintf("Unknown field %q", J.Field), true)
	}
	if err != nil {
		return nil, qfield.ErrDecorate(err, "Job.Run")
	}
	return R, nil
}

func (J *Job) runMO(ctx context.Context, R *Result) error {
	b, err := J.basis()
	if err != nil {
		return err
	}
	o, err := J.moOptions()
	if err != nil {
		return err
	}
	C, err := mo.NewCalculation(J.coords, b, J.spec, J.Selection, o)
	if err != nil {
		return err
	}
	if J.Field == FieldDensity {
		mos := make([][]float64, len(J.MOs))
		occ := make([]float64, len(J.MOs))
		for i, m := range J.MOs {
			mos[i], occ[i] = m.Coefficients, m.Occupation
		}
		vol := grid.NewVolumeFor(J.spec)
		if err := C.Density(ctx, mos, occ, vol); err != nil {
			return err
		}
		R.Fields = []*grid.Volume{vol}
	} else {
		mos := make([][]float64, len(J.Orbitals))
		for i, o := range J.Orbitals {
			mos[i] = J.MOs[o].Coefficients
		}
		R.Fields, err = C.Orbitals(ctx, mos)
		if err != nil {
			return err
		}
	}
	R.Disabled = C.Disabled()
	return nil
}

func (J *Job) runPotential(ctx context.Context, R *Result) error {
	vol := grid.NewVolumeFor(J.spec)
	var err error
	if J.Field == FieldMEP {
		P := potential.NewMEP()
		P.Range = J.MEP.Range
		if P.Mode, err = potential.ParseMode(J.MEP.Mode); err != nil {
			return err
		}
		err = P.Grid(ctx, J.top, J.coords, J.Selection, J.spec, vol)
	} else {
		P := potential.NewMLP()
		P.Range = J.MLP.Range
		if P.Mode, err = potential.ParseMode(J.MLP.Mode); err != nil {
			return err
		}
		err = P.Grid(ctx, J.top, J.coords, J.Selection, J.spec, vol)
	}
	if err != nil {
		return err
	}
	R.Fields = []*grid.Volume{vol}
	return nil
}

func (J *Job) runNCI(ctx context.Context, R *Result) error {
	o, err := J.nciOptions()
	if err != nil {
		return err
	}
	if J.Density == "" {
		vol := grid.NewVolumeFor(J.spec)
		o.Color = grid.NewVolumeFor(J.spec)
		if err := nci.Promolecular(ctx, J.top, J.coords, J.Selection, J.spec, vol, o); err != nil {
			return err
		}
		return J.nciResult(R, vol, o.Color)
	}
	P, err := cube.OpenPlanes(J.Density)
	if err != nil {
		return err
	}
	defer P.Close()
	h := P.Header()
	J.spec, R.Spec = h.Spec, h.Spec
	if J.top == nil {
		R.atoms, R.coords = h.Atoms, h.Coords
	}
	var class *nci.Model
	if J.top != nil && o.Type != nci.All {
		if class, err = nci.NewModel(J.top, J.coords, J.Selection, o); err != nil {
			return err
		}
	}
	o.Color = grid.NewVolumeFor(h.Spec)
	S, err := nci.NewScanner(P, h.Spec, class, o)
	if err != nil {
		return err
	}
	vol := grid.NewVolumeFor(h.Spec)
	if err := S.Run(ctx, vol); err != nil {
		return err
	}
	return J.nciResult(R, vol, o.Color)
}

func (J *Job) nciResult(R *Result, vol, color *grid.Volume) error {
	R.Fields = []*grid.Volume{vol}
	R.Color = color
	pts, err := nciplot.Collect(R.Spec, vol, color, J.NCI.SMax)
	if err != nil {
		return err
	}
	R.Points = pts
	return nil
}

//indexed inserts _i before the extension of name, keeping a final .zst.
func indexed(name string, i int) string {
	zst := ""
	if strings.HasSuffix(strings.ToLower(name), cube.ZstdExt) {
		zst = name[len(name)-len(cube.ZstdExt):]
		name = name[:len(name)-len(cube.ZstdExt)]
	}
	ext := filepath.Ext(name)
	return fmt.Sprintf("%s_%d%s%s", strings.TrimSuffix(name, ext), i, ext, zst)
}

func (R *Result) header(comment string) *cube.Header {
	return &cube.Header{
		Comments: [2]string{R.Job.Title, comment},
		Spec:     R.Spec,
		Atoms:    R.atoms,
		Coords:   R.coords,
	}
}

//Write writes all the outputs requested by the job.
func (R *Result) Write() error {
	J := R.Job
	out := J.Output
	if out.Cube != "" {
		for i, v := range R.Fields {
			name := out.Cube
			h := R.header(J.Field)
			if J.Field == FieldMO {
				h.MOs = []int{J.Orbitals[i] + 1}
				h.Comments[1] = fmt.Sprintf("orbital %d", J.Orbitals[i]+1)
				if len(R.Fields) > 1 {
					name = indexed(name, J.Orbitals[i]+1)
				}
			}
			if err := cube.WriteFile(name, h, v); err != nil {
				return qfield.ErrDecorate(err, "Result.Write")
			}
		}
	}
	if out.ColorCube != "" && R.Color != nil {
		if err := cube.WriteFile(out.ColorCube, R.header("sign(lambda2)*rho"), R.Color); err != nil {
			return qfield.ErrDecorate(err, "Result.Write")
		}
	}
	if out.CSV != "" {
		if err := nciplot.WriteCSVFile(out.CSV, R.Points); err != nil {
			return qfield.ErrDecorate(err, "Result.Write")
		}
	}
	if out.Plot != "" {
		o := nciplot.DefaultPlotOptions()
		o.Title = J.Title
		o.RhoMax = J.NCI.Cutoff
		if J.NCI.SMax > 0 {
			o.SMax = J.NCI.SMax
		}
		if err := nciplot.Plot(R.Points, out.Plot, o); err != nil {
			return qfield.ErrDecorate(err, "Result.Write")
		}
	}
	if out.Fingerprint != "" {
		smax := J.NCI.SMax
		if smax <= 0 {
			smax = 1
		}
		M := nciplot.Fingerprint(R.Points, 100, 50, J.NCI.Cutoff, smax)
		if err := writeJSON(out.Fingerprint, M); err != nil {
			return qfield.ErrDecorate(err, "Result.Write")
		}
	}
	if out.Spectrum != "" {
		D := R.spectrum(100)
		D.Normalize()
		if err := writeJSON(out.Spectrum, D); err != nil {
			return qfield.ErrDecorate(err, "Result.Write")
		}
	}
	return nil
}

func writeJSON(name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return qfield.NewError(err.Error(), true, "writeJSON")
	}
	if err := os.WriteFile(name, data, 0644); err != nil {
		return qfield.NewError(err.Error(), true, "writeJSON")
	}
	return nil
}

func (R *Result) spectrumS() float64 {
	if t := R.Job.NCI.SpectrumS; t > 0 {
		return t
	}
	return 0.5
}

//spectrum returns the histogram of sign(lambda2)*rho, in n bins between -cutoff and cutoff,
//of the NCI points with s below the job's threshold.
func (R *Result) spectrum(n int) *histo.Data {
	return nciplot.Spectrum(R.Points, n, R.Job.NCI.Cutoff, R.spectrumS())
}

//Summary returns a short description of the fields obtained.
func (R *Result) Summary() string {
	s := make([]string, 0, len(R.Fields)+1)
	var exclude []float64
	if R.Job.Field == FieldNCI {
		exclude = []float64{nci.NoValue}
	}
	for i, v := range R.Fields {
		s = append(s, fmt.Sprintf("%s field %d: %s", R.Job.Field, i, v.Stats(exclude...)))
	}
	if R.Job.Field == FieldNCI {
		s = append(s, fmt.Sprintf("%d NCI points with s <= %g", len(R.Points), R.Job.NCI.SMax))
		sp := R.spectrum(2).View()
		s = append(s, fmt.Sprintf("with s < %g: %g attractive, %g repulsive", R.spectrumS(), sp[0], sp[1]))
	}
	if len(R.Disabled) > 0 {
		s = append(s, fmt.Sprintf("shell kinds without contribution: %v", R.Disabled))
	}
	return strings.Join(s, "\n")
}

//RunAll runs and writes the jobs, up to cpus at the same time (all the logical CPUs if cpus<1).
//The first failure cancels the jobs still running.
func RunAll(ctx context.Context, jobs []*Job, cpus int) ([]*Result, error) {
	if cpus < 1 {
		cpus = runtime.NumCPU()
	}
	ret := make([]*Result, len(jobs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cpus)
	for i, J := range jobs {
		i, J := i, J // per-iteration copies (go directive < 1.22)
		g.Go(func() error {
			R, err := J.Run(ctx)
			if err != nil {
				return qfield.ErrDecorate(err, fmt.Sprintf("RunAll (job %d, %s)", i, J.Title))
			}
			if err := R.Write(); err != nil {
				return qfield.ErrDecorate(err, fmt.Sprintf("RunAll (job %d, %s)", i, J.Title))
			}
			log.Printf("qfield/job: %s done", J.Title)
			ret[i] = R
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return ret, nil
}
