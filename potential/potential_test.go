package potential

import (
	"context"
	"math"
	"testing"

	"github.com/rmera/qfield"
	"github.com/rmera/qfield/grid"
	"github.com/rmera/qfield/v3"
	"gonum.org/v1/gonum/floats/scalar"
)

func mol(Te *testing.T, ats []*qfield.Atom, c ...float64) (*qfield.Topology, *v3.Matrix) {
	top, err := qfield.NewTopology(ats)
	if err != nil {
		Te.Fatal(err)
	}
	xyz, err := v3.NewMatrix(c)
	if err != nil {
		Te.Fatal(err)
	}
	return top, xyz
}

var unitGrid = grid.Spec{Step: [3]float64{1, 1, 1}, N: [3]int{5, 5, 5}}

func TestModes(Te *testing.T) {
	d := 2.0
	exp := map[Mode]float64{OneOverD: 0.5, OneOverOnePlusD: 1.0 / 3, EMinusDOverTwo: math.Exp(-1), EMinusD: math.Exp(-2)}
	for m, e := range exp {
		if m.F(d) != e {
			Te.Errorf("%s at %g: %g, expected %g", m, d, m.F(d), e)
		}
		p, err := ParseMode(m.String())
		if err != nil || p != m {
			Te.Errorf("Can't parse back %s", m)
		}
	}
}

//A voxel on top of an atom gets no contribution from it in the 1/d mode, and the finite
//value f(0) in the others. Atoms without charge contribute nothing.
func TestMEPGrid(Te *testing.T) {
	top, xyz := mol(Te, []*qfield.Atom{{Symbol: "N", Charge: 1}, {Symbol: "O", Charge: -0.5}, {Symbol: "C"}}, 0, 0, 0, 3, 0, 0, 0, 0, 0)
	for _, m := range []Mode{OneOverD, OneOverOnePlusD, EMinusDOverTwo, EMinusD} {
		M := &MEP{Mode: m}
		vol := grid.NewVolumeFor(unitGrid)
		if err := M.Grid(context.Background(), top, xyz, nil, unitGrid, vol); err != nil {
			Te.Fatal(err)
		}
		onatom := -0.5 * m.F(3)
		if m != OneOverD {
			onatom += m.F(0)
		}
		if got := vol.At(0, 0, 0); !scalar.EqualWithinAbs(got, onatom, 1e-12) {
			Te.Errorf("%s: %g on the first atom, expected %g", m, got, onatom)
		}
		exp := 1*m.F(math.Sqrt(1+4)) - 0.5*m.F(math.Sqrt(4+4))
		if got := vol.At(1, 2, 0); !scalar.EqualWithinAbs(got, exp, 1e-12) {
			Te.Errorf("%s: %g at (1,2,0), expected %g", m, got, exp)
		}
		for _, v := range vol.Data() {
			if math.IsInf(v, 0) || math.IsNaN(v) {
				Te.Fatalf("%s: non-finite value in the grid", m)
			}
		}
		pts, _ := v3.NewMatrix([]float64{1, 2, 0, 0, 0, 0})
		p, err := M.Points(top, xyz, nil, pts)
		if err != nil {
			Te.Fatal(err)
		}
		if !scalar.EqualWithinAbs(p[0], vol.At(1, 2, 0), 1e-12) || !scalar.EqualWithinAbs(p[1], vol.At(0, 0, 0), 1e-12) {
			Te.Errorf("%s: Points %v differ from the grid", m, p)
		}
	}
}

func TestRangeAndSelection(Te *testing.T) {
	top, xyz := mol(Te, []*qfield.Atom{{Symbol: "N", Charge: 1}, {Symbol: "O", Charge: -1}}, 0, 0, 0, 4, 4, 4)
	M := &MEP{Mode: OneOverD, Range: 2}
	vol := grid.NewVolumeFor(unitGrid)
	if err := M.Grid(context.Background(), top, xyz, []int{0}, unitGrid, vol); err != nil {
		Te.Fatal(err)
	}
	if vol.At(3, 3, 3) != 0 || vol.At(4, 4, 3) != 0 {
		Te.Error("Voxels beyond the range should be 0")
	}
	if vol.At(1, 1, 0) != 1/math.Sqrt(2) {
		Te.Errorf("%g at (1,1,0), expected %g", vol.At(1, 1, 0), 1/math.Sqrt(2))
	}
	if err := M.Grid(context.Background(), top, xyz, nil, unitGrid, grid.NewVolume([3]int{2, 2, 2})); err == nil {
		Te.Error("A volume of the wrong size should fail")
	}
}

func TestMLPContext(Te *testing.T) {
	cases := []struct {
		at  qfield.Atom
		exp string
	}{
		{qfield.Atom{Symbol: "C", Name: "CZ", MolName: "PHE"}, "C.ar"},
		{qfield.Atom{Symbol: "C", Name: "CB", MolName: "PHE"}, "C"},
		{qfield.Atom{Symbol: "C", Name: "C", MolName: "ALA"}, "C.co"},
		{qfield.Atom{Symbol: "C", Name: "C", MolName: "LIG"}, "C"},
		{qfield.Atom{Symbol: "C", Name: "C7", MolName: "LIG", Aromatic: true}, "C.ar"},
		{qfield.Atom{Symbol: "O", Name: "OXT", MolName: "GLY"}, "O.co"},
		{qfield.Atom{Symbol: "O", Name: "OG", MolName: "SER"}, "O"},
		{qfield.Atom{Symbol: "N", Name: "NE1", MolName: "TRP"}, "N.ar"},
		{qfield.Atom{Symbol: "H", Name: "HG", MolName: "SER"}, "H.pol"},
		{qfield.Atom{Symbol: "H", Name: "HZ1", MolName: "LYS"}, "H.pol"},
		{qfield.Atom{Symbol: "H", Name: "HE2", MolName: "LYS"}, "H"},
		{qfield.Atom{Symbol: "H", Name: "HE21", MolName: "GLN"}, "H.pol"},
		{qfield.Atom{Symbol: "H", Name: "HE1", MolName: "HIS"}, "H"},
		{qfield.Atom{Symbol: "H", Name: "HH12", MolName: "ARG"}, "H.pol"},
		{qfield.Atom{Symbol: "H", Name: "H", MolName: "ALA"}, "H.pol"},
		{qfield.Atom{Symbol: "H", Name: "H12", MolName: "LIG", Polar: true}, "H.pol"},
		{qfield.Atom{Symbol: "CL", Name: "CL1", MolName: "LIG"}, "Cl"},
	}
	for _, c := range cases {
		if got := MLPContext(&c.at); got != c.exp {
			Te.Errorf("%s %s: context %s, expected %s", c.at.MolName, c.at.Name, got, c.exp)
		}
	}
	if v := MLPContribution(&qfield.Atom{Symbol: "Xe"}); v != 0 {
		Te.Errorf("Unknown elements should contribute 0, got %g", v)
	}
}

func TestMLP(Te *testing.T) {
	top, xyz := mol(Te, []*qfield.Atom{{Symbol: "Cl", Name: "CL"}, {Symbol: "O", Name: "O", MolName: "ALA"}}, 0, 0, 0, 0, 0, 4)
	M := NewMLP()
	vol := grid.NewVolumeFor(unitGrid)
	if err := M.Grid(context.Background(), top, xyz, nil, unitGrid, vol); err != nil {
		Te.Fatal(err)
	}
	exp := 0.66*math.Exp(-2) - 0.27*math.Exp(-2)
	if got := vol.At(0, 0, 2); !scalar.EqualWithinAbs(got, exp, 1e-12) {
		Te.Errorf("MLP %g between the atoms, expected %g", got, exp)
	}
	//exp(-d) is finite at d=0, so the atom's own contribution stays.
	onatom := 0.66 - 0.27*math.Exp(-4)
	if got := vol.At(0, 0, 0); !scalar.EqualWithinAbs(got, onatom, 1e-12) {
		Te.Errorf("MLP %g on the Cl atom, expected %g", got, onatom)
	}
	pts, _ := v3.NewMatrix([]float64{0, 0, 0})
	p, err := M.Points(top, xyz, nil, pts)
	if err != nil {
		Te.Fatal(err)
	}
	if !scalar.EqualWithinAbs(p[0], onatom, 1e-12) {
		Te.Errorf("MLP Points %g on the Cl atom, expected %g", p[0], onatom)
	}
}
