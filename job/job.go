/*
 * job.go, part of qfield.
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

//Package job describes complete field calculations in YAML files: the molecule, the grid,
//the basis and orbitals, the field to compute, the options for each engine and the outputs.
//It checks the descriptions, runs them, and writes the results.
package job

import (
	_ "embed"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/rmera/qfield"
	"github.com/rmera/qfield/basis"
	"github.com/rmera/qfield/grid"
	"github.com/rmera/qfield/mo"
	"github.com/rmera/qfield/nci"
	"github.com/rmera/qfield/potential"
	"github.com/rmera/qfield/v3"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

//The fields a job can compute.
const (
	FieldMO      = "mo"
	FieldDensity = "density"
	FieldMEP     = "mep"
	FieldMLP     = "mlp"
	FieldNCI     = "nci"
)

var fields = []string{FieldMO, FieldDensity, FieldMEP, FieldMLP, FieldNCI}

//Job is one field calculation.
type Job struct {
	Title        string           `yaml:"title"`
	Field        string           `yaml:"field"`
	Geometry     string           `yaml:"geometry"` //xyz or pdb file, used if Atoms is empty.
	Atoms        []AtomConfig     `yaml:"atoms"`
	Connectivity bool             `yaml:"connectivity"` //assign molecules and MLP flags from the bonds.
	Selection    []int            `yaml:"selection"`
	Grid         GridConfig       `yaml:"grid"`
	Basis        BasisConfig      `yaml:"basis"`
	MOs          []MOConfig       `yaml:"mos"`
	Orbitals     []int            `yaml:"orbitals"` //orbitals to evaluate for the mo field.
	Density      string           `yaml:"density"`  //density cube for SCF NCI.
	MO           MOOptions        `yaml:"mo"`
	NCI          NCIOptions       `yaml:"nci"`
	MEP          PotentialOptions `yaml:"mep"`
	MLP          PotentialOptions `yaml:"mlp"`
	Output       OutputConfig     `yaml:"output"`

	top    *qfield.Topology
	coords *v3.Matrix
	spec   grid.Spec
}

//AtomConfig is an atom, with its position in A.
type AtomConfig struct {
	Symbol   string    `yaml:"symbol"`
	Z        int       `yaml:"z"`
	Pos      []float64 `yaml:"pos"`
	Charge   float64   `yaml:"charge"`
	Molecule int       `yaml:"molecule"`
	Name     string    `yaml:"name"`
	Residue  string    `yaml:"residue"`
	ResID    int       `yaml:"resid"`
	Aromatic bool      `yaml:"aromatic"`
	Carbonyl bool      `yaml:"carbonyl"`
	Polar    bool      `yaml:"polar"`
}

//GridConfig is the grid, in A. If N is not given, the grid is built around the atoms,
//with the given step, leaving Margin on each side.
type GridConfig struct {
	Origin []float64 `yaml:"origin"`
	Step   []float64 `yaml:"step"`
	N      []int     `yaml:"n"`
	Margin float64   `yaml:"margin"`
}

//BasisConfig is a Gaussian (Shells) or Slater basis. Order names the component order of
//the program that produced the coefficients (see basis.Orders).
type BasisConfig struct {
	Order  string         `yaml:"order"`
	Shells []ShellConfig  `yaml:"shells"`
	Slater []SlaterConfig `yaml:"slater"`
}

//ShellConfig is a shell. Each primitive is exponent, coefficient, and, for SP shells, the p coefficient.
type ShellConfig struct {
	Atom       int         `yaml:"atom"`
	Kind       string      `yaml:"kind"`
	Primitives [][]float64 `yaml:"primitives"`
}

//SlaterConfig is one Slater term.
type SlaterConfig struct {
	Atom int     `yaml:"atom"`
	A    int     `yaml:"a"`
	B    int     `yaml:"b"`
	C    int     `yaml:"c"`
	D    int     `yaml:"d"`
	Zeta float64 `yaml:"zeta"`
	Coef float64 `yaml:"coef"`
}

//MOConfig is a molecular orbital.
type MOConfig struct {
	Occupation   float64   `yaml:"occupation"`
	Coefficients []float64 `yaml:"coefficients"`
}

type MOOptions struct {
	Range   float64  `yaml:"range"`
	CPUs    int      `yaml:"cpus"`
	Disable []string `yaml:"disable"`
}

type NCIOptions struct {
	Cutoff        float64 `yaml:"cutoff"`
	Type          string  `yaml:"type"`
	IntraFraction float64 `yaml:"intra_fraction"`
	DataScaling   float64 `yaml:"data_scaling"`
	Range         float64 `yaml:"range"`
	SMax          float64 `yaml:"smax"`       //largest s exported to the CSV and plot.
	SpectrumS     float64 `yaml:"spectrum_s"` //only points with s below this enter the spectrum.
}

type PotentialOptions struct {
	Mode  string  `yaml:"mode"`
	Range float64 `yaml:"range"`
}

//OutputConfig names the output files. Empty names are not written. Cube names ending in
//.zst are compressed.
type OutputConfig struct {
	Cube        string `yaml:"cube"`
	ColorCube   string `yaml:"color_cube"`  //sign(lambda2)*rho, for NCI.
	CSV         string `yaml:"csv"`         //NCI points.
	Plot        string `yaml:"plot"`        //NCI scatter plot.
	Fingerprint string `yaml:"fingerprint"` //NCI 2D histogram, as JSON.
	Spectrum    string `yaml:"spectrum"`    //NCI sign(lambda2)*rho histogram for low s, as JSON.
}

//Default returns a job with only the default values.
func Default() *Job {
	J := new(Job)
	if err := yaml.Unmarshal(defaultsYAML, J); err != nil {
		panic("qfield/job: parsing embedded defaults: " + err.Error())
	}
	return J
}

//Defaults returns the YAML with the default values.
func Defaults() string {
	return string(defaultsYAML)
}

//Parse reads a job from YAML data, on top of the defaults. The job is checked.
func Parse(data []byte) (*Job, error) {
	J := Default()
	if err := yaml.Unmarshal(data, J); err != nil {
		return nil, qfield.NewError("Parsing job: "+err.Error(), true, "job.Parse")
	}
	if err := J.Check(); err != nil {
		return nil, qfield.ErrDecorate(err, "job.Parse")
	}
	return J, nil
}

//Load reads and checks the job file name.
func Load(name string) (*Job, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, qfield.NewError(err.Error(), true, "job.Load")
	}
	J, err := Parse(data)
	if err != nil {
		return nil, qfield.ErrDecorate(err, "job.Load "+name)
	}
	return J, nil
}

//YAML returns the job as YAML.
func (J *Job) YAML() ([]byte, error) {
	return yaml.Marshal(J)
}

func jerr(format string, a ...any) error {
	return qfield.NewError(fmt.Sprintf(format, a...), true, "Job.Check")
}

//Check validates the job and builds the molecule and grid it describes. It returns an error for
//anything that would prevent the job from running. The option values are checked later,
//by each engine.
func (J *Job) Check() error {
	J.Field = strings.ToLower(strings.TrimSpace(J.Field))
	ok := false
	for _, f := range fields {
		ok = ok || f == J.Field
	}
	if !ok {
		return jerr("Unknown field %q, use one of %s", J.Field, strings.Join(fields, ", "))
	}
	scf := J.Field == FieldNCI && J.Density != ""
	if err := J.molecule(); err != nil {
		return qfield.ErrDecorate(err, "Job.Check")
	}
	if J.top == nil && !scf {
		return jerr("The job has no atoms")
	}
	if !scf {
		if err := J.setGrid(); err != nil {
			return qfield.ErrDecorate(err, "Job.Check")
		}
	}
	switch J.Field {
	case FieldMO, FieldDensity:
		b, err := J.basis()
		if err != nil {
			return qfield.ErrDecorate(err, "Job.Check")
		}
		if err := b.Check(J.top.Len()); err != nil {
			return qfield.ErrDecorate(err, "Job.Check")
		}
		if len(J.MOs) == 0 {
			return jerr("No molecular orbitals given")
		}
		for i, m := range J.MOs {
			if len(m.Coefficients) != b.Size() {
				return jerr("Orbital %d has %d coefficients, the basis has %d functions", i, len(m.Coefficients), b.Size())
			}
		}
		if J.Field == FieldMO {
			if len(J.Orbitals) == 0 {
				J.Orbitals = []int{0}
			}
			for _, o := range J.Orbitals {
				if o < 0 || o >= len(J.MOs) {
					return jerr("Orbital %d requested, but there are %d", o, len(J.MOs))
				}
			}
		}
		if _, err := J.moOptions(); err != nil {
			return qfield.ErrDecorate(err, "Job.Check")
		}
	case FieldMEP, FieldMLP:
		if _, err := potential.ParseMode(J.MEP.Mode); err != nil {
			return qfield.ErrDecorate(err, "Job.Check")
		}
		if _, err := potential.ParseMode(J.MLP.Mode); err != nil {
			return qfield.ErrDecorate(err, "Job.Check")
		}
	case FieldNCI:
		if _, err := J.nciOptions(); err != nil {
			return qfield.ErrDecorate(err, "Job.Check")
		}
	}
	if J.Field != FieldNCI && (J.Output.ColorCube != "" || J.Output.CSV != "" || J.Output.Plot != "" || J.Output.Fingerprint != "" || J.Output.Spectrum != "") {
		return jerr("Only NCI jobs can write color cubes, CSV files, plots or fingerprints")
	}
	return nil
}

//molecule builds the topology and coordinates from the atoms or the geometry file.
func (J *Job) molecule() error {
	if len(J.Atoms) == 0 {
		if J.Geometry == "" {
			return nil
		}
		top, coords, err := qfield.ReadFile(J.Geometry)
		if err != nil {
			return qfield.ErrDecorate(err, "molecule")
		}
		J.top, J.coords = top, coords
		return J.connect()
	}
	ats := make([]*qfield.Atom, len(J.Atoms))
	coords := v3.Zeros(len(J.Atoms))
	for i, a := range J.Atoms {
		if len(a.Pos) != 3 {
			return qfield.NewError(fmt.Sprintf("Atom %d has %d coordinates", i, len(a.Pos)), true, "molecule")
		}
		ats[i] = &qfield.Atom{
			ID:       i + 1,
			Symbol:   a.Symbol,
			Z:        a.Z,
			Charge:   a.Charge,
			Molecule: a.Molecule,
			Name:     a.Name,
			MolName:  a.Residue,
			MolID:    a.ResID,
			Aromatic: a.Aromatic,
			Carbonyl: a.Carbonyl,
			Polar:    a.Polar,
		}
		coords.SetVec3(i, [3]float64{a.Pos[0], a.Pos[1], a.Pos[2]})
	}
	top, err := qfield.NewTopology(ats)
	if err != nil {
		return qfield.ErrDecorate(err, "molecule")
	}
	J.top, J.coords = top, coords
	return J.connect()
}

func (J *Job) connect() error {
	if !J.Connectivity {
		return nil
	}
	if _, err := qfield.AssignMolecules(J.top, J.coords); err != nil {
		return qfield.ErrDecorate(err, "connect")
	}
	return nil
}

//setGrid builds the grid spec, from the explicit values or around the atoms.
func (J *Job) setGrid() error {
	g := J.Grid
	if len(g.Step) != 3 {
		return qfield.NewError(fmt.Sprintf("The grid step has %d values", len(g.Step)), true, "setGrid")
	}
	var s grid.Spec
	copy(s.Step[:], g.Step)
	if len(g.N) > 0 {
		if len(g.N) != 3 || len(g.Origin) != 3 {
			return qfield.NewError("Explicit grids need 3 point counts and a 3D origin", true, "setGrid")
		}
		copy(s.N[:], g.N)
		copy(s.Origin[:], g.Origin)
	} else {
		if g.Margin < 0 {
			return qfield.NewError(fmt.Sprintf("Negative grid margin %g", g.Margin), true, "setGrid")
		}
		s = AroundAtoms(J.coords, s.Step, g.Margin)
	}
	if err := s.Check(); err != nil {
		return qfield.ErrDecorate(err, "setGrid")
	}
	J.spec = s
	return nil
}

//AroundAtoms returns a grid with the given steps that contains all the atoms in coords,
//and extends margin beyond them in each direction. All values are in A.
func AroundAtoms(coords *v3.Matrix, step [3]float64, margin float64) grid.Spec {
	var s grid.Spec
	s.Step = step
	lo := [3]float64{math.Inf(1), math.Inf(1), math.Inf(1)}
	hi := [3]float64{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	for i := 0; i < coords.NVecs(); i++ {
		c := coords.Vec3(i)
		for j := range c {
			lo[j] = math.Min(lo[j], c[j])
			hi[j] = math.Max(hi[j], c[j])
		}
	}
	for j := 0; j < 3; j++ {
		s.Origin[j] = lo[j] - margin
		if step[j] > 0 {
			s.N[j] = int(math.Ceil((hi[j]-lo[j]+2*margin)/step[j])) + 1
		}
	}
	return s
}

//Spec returns the grid of the job. It is only set after Check, and, for SCF NCI jobs, after Run.
func (J *Job) Spec() grid.Spec {
	return J.spec
}

func (J *Job) basis() (*basis.Basis, error) {
	b := new(basis.Basis)
	orders, ok := basis.Orders(J.Basis.Order)
	if !ok {
		return nil, qfield.NewError(fmt.Sprintf("Unknown component order %q", J.Basis.Order), true, "basis")
	}
	b.Orders = orders
	for i, s := range J.Basis.Shells {
		k, err := basis.ParseShellKind(s.Kind)
		if err != nil {
			return nil, qfield.ErrDecorate(err, fmt.Sprintf("basis (shell %d)", i))
		}
		sh := basis.Shell{Atom: s.Atom, Kind: k, Offset: len(b.Primitives), N: len(s.Primitives)}
		for j, p := range s.Primitives {
			if len(p) < 2 || len(p) > 3 {
				return nil, qfield.NewError(fmt.Sprintf("Primitive %d of shell %d has %d values", j, i, len(p)), true, "basis")
			}
			prim := basis.Primitive{Exp: p[0], C1: p[1]}
			if len(p) == 3 {
				prim.C2 = p[2]
			}
			b.Primitives = append(b.Primitives, prim)
		}
		b.Shells = append(b.Shells, sh)
	}
	for _, t := range J.Basis.Slater {
		b.Slaters = append(b.Slaters, basis.SlaterTerm{Atom: t.Atom, A: t.A, B: t.B, C: t.C, D: t.D, Zeta: t.Zeta, Coef: t.Coef})
	}
	return b, nil
}

func (J *Job) moOptions() (*mo.Options, error) {
	o := mo.DefaultOptions()
	o.Range = J.MO.Range
	if J.MO.CPUs > 0 {
		o.CPUs = J.MO.CPUs
	}
	for _, s := range J.MO.Disable {
		k, err := basis.ParseShellKind(s)
		if err != nil {
			return nil, qfield.ErrDecorate(err, "moOptions")
		}
		o.Disable = append(o.Disable, k)
	}
	return o, nil
}

func (J *Job) nciOptions() (*nci.Options, error) {
	t, err := nci.ParseType(J.NCI.Type)
	if err != nil {
		return nil, qfield.ErrDecorate(err, "nciOptions")
	}
	return &nci.Options{
		Cutoff:        J.NCI.Cutoff,
		Type:          t,
		IntraFraction: J.NCI.IntraFraction,
		DataScaling:   J.NCI.DataScaling,
		Range:         J.NCI.Range,
	}, nil
}
