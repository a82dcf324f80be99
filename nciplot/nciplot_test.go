package nciplot

import (
	"bytes"
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/rmera/qfield"
	"github.com/rmera/qfield/grid"
	"github.com/rmera/qfield/nci"
	"github.com/rmera/qfield/v3"
	"gonum.org/v1/gonum/floats"
)

//two water-like oxygens, so there is a region of low s between them.
func dimer(Te *testing.T) (grid.Spec, *grid.Volume, *grid.Volume) {
	top, err := qfield.NewTopology([]*qfield.Atom{{Symbol: "O", Molecule: 0}, {Symbol: "O", Molecule: 1}})
	if err != nil {
		Te.Fatal(err)
	}
	xyz, err := v3.NewMatrix([]float64{-1.4, 0, 0, 1.4, 0, 0})
	if err != nil {
		Te.Fatal(err)
	}
	spec := grid.Spec{Origin: [3]float64{-1, -1, -1}, Step: [3]float64{0.1, 0.1, 0.1}, N: [3]int{21, 21, 21}}
	s := grid.NewVolumeFor(spec)
	color := grid.NewVolumeFor(spec)
	o := nci.DefaultOptions()
	o.Color = color
	if err := nci.Promolecular(context.Background(), top, xyz, nil, spec, s, o); err != nil {
		Te.Fatal(err)
	}
	return spec, s, color
}

func TestCollect(Te *testing.T) {
	spec, s, color := dimer(Te)
	all, err := Collect(spec, s, color, 0)
	if err != nil {
		Te.Fatal(err)
	}
	low, err := Collect(spec, s, color, 0.5)
	if err != nil {
		Te.Fatal(err)
	}
	if len(all) == 0 || len(low) == 0 || len(low) > len(all) {
		Te.Fatalf("Wrong number of points: %d all, %d with s<0.5", len(all), len(low))
	}
	for _, p := range low {
		if p.S > 0.5 || p.S < 0 {
			Te.Errorf("Point with s=%g collected", p.S)
		}
		if math.Abs(p.SignRho) > 0.05 {
			Te.Errorf("Point above the density cutoff: %g", p.SignRho)
		}
	}
	if _, err := Collect(spec, s, grid.NewVolume([3]int{2, 2, 2}), 0); err == nil {
		Te.Error("Mismatched volumes should fail")
	}
	var b bytes.Buffer
	if err := WriteCSV(&b, low); err != nil {
		Te.Fatal(err)
	}
	back, err := ReadCSV(&b)
	if err != nil {
		Te.Fatal(err)
	}
	if len(back) != len(low) {
		Te.Fatalf("%d points read, %d written", len(back), len(low))
	}
	if math.Abs(back[0].S-low[0].S) > 1e-9 || math.Abs(back[0].X-low[0].X) > 1e-9 {
		Te.Errorf("CSV changed the first point: %v vs %v", back[0], low[0])
	}
}

func TestFingerprint(Te *testing.T) {
	pts := []Point{{SignRho: -0.025, S: 0.2}, {SignRho: -0.025, S: 0.3}, {SignRho: 0.01, S: 0.9}, {SignRho: 0.2, S: 0.1}}
	M := Fingerprint(pts, 10, 4, 0.05, 1)
	if r, c := M.Dims(); r != 10 || c != 4 {
		Te.Fatalf("Wrong dimensions %d %d", r, c)
	}
	if math.Abs(M.At(2, 0)+M.At(2, 1)-0.5) > 1e-12 {
		Te.Errorf("Wrong fingerprint:\n%s", M)
	}
	sp := Spectrum(pts, 10, 0.05, 0.5)
	if sp.Total() != 3 || floats.Sum(sp.View()) != 2 {
		Te.Errorf("Wrong spectrum: %s", sp)
	}
}

func TestPlot(Te *testing.T) {
	spec, s, color := dimer(Te)
	pts, err := Collect(spec, s, color, 1)
	if err != nil {
		Te.Fatal(err)
	}
	name := filepath.Join(Te.TempDir(), "nci.png")
	if err := Plot(pts, name); err != nil {
		Te.Fatal(err)
	}
	if st, err := os.Stat(name); err != nil || st.Size() == 0 {
		Te.Errorf("Plot not written: %v", err)
	}
}
