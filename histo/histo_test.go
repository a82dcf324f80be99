package histo

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"testing"

	"gonum.org/v1/gonum/floats"
)

func TestData(Te *testing.T) {
	div := []float64{0, 1, 2, 3, 4, 8}
	rawdata := []float64{1, 6, 3, 2, 4, 5, 7, 6, 3.5, 3, 5, 1, 1, 0, 0, 5, 8, 1, 2, 3, 44, 3, 7, 3, 1, 3, 5, 32, 1}
	D := NewData(div)
	D.AddData(rawdata...)
	fmt.Println(D.String())
	want := []float64{2, 6, 2, 7, 9}
	for i, v := range D.View() {
		if v != want[i] {
			Te.Errorf("Bin %d: %g, expected %g", i, v, want[i])
		}
	}
	//values out of range count for the total
	if D.Total() != len(rawdata) {
		Te.Errorf("Wrong total %d", D.Total())
	}
	D.Normalize()
	if !D.Normalized() || math.Abs(floats.Sum(D.View())-26.0/29) > 1e-12 {
		Te.Errorf("Normalized histogram sums %g", floats.Sum(D.View()))
	}
	D.AddData(0.5)
	if !D.Normalized() || D.Total() != 30 {
		Te.Errorf("AddData should keep the normalization, total %d", D.Total())
	}
	D.UnNormalize()
	if math.Abs(D.View()[0]-3) > 1e-9 {
		Te.Errorf("AddData on a normalized histogram: %v", D.View())
	}
	j, err := json.Marshal(D)
	if err != nil {
		Te.Fatal(err)
	}
	if !strings.Contains(string(j), `"total":30`) || !strings.Contains(string(j), `"dividers":[0,1,2,3,4,8]`) {
		Te.Errorf("Wrong JSON %s", j)
	}
}

func TestMatrix(Te *testing.T) {
	M := NewMatrix(Bins(4, 0, 2), Bins(2, -1, 1))
	r, c := M.Dims()
	if r != 4 || c != 2 {
		Te.Fatalf("Wrong dimensions %d %d", r, c)
	}
	M.AddData(0.1, -0.5)
	M.AddData(0.2, -0.5)
	M.AddData(1.9, 0.5)
	M.AddData(5, 0) //out of range
	fmt.Println(M)
	if M.At(0, 0) != 2 || M.At(3, 1) != 1 || M.Total() != 4 {
		Te.Errorf("Wrong counts:\n%s", M)
	}
	M.Normalize()
	if M.At(0, 0) != 0.5 {
		Te.Errorf("Wrong normalized count %g", M.At(0, 0))
	}
	M.AddData(0.1, 0.5)
	M.UnNormalize()
	if math.Abs(M.At(0, 1)-1) > 1e-9 || M.Total() != 5 {
		Te.Errorf("AddData on a normalized matrix:\n%s", M)
	}
	if err := M.Check(4, 0); err == nil {
		Te.Error("Row 4 should be out of range")
	}
	var a struct {
		Data  []float64 `json:"data"`
		Total int       `json:"total"`
	}
	j, err := json.Marshal(M)
	if err != nil {
		Te.Fatal(err)
	}
	if err := json.Unmarshal(j, &a); err != nil {
		Te.Fatal(err)
	}
	if len(a.Data) != 8 || a.Total != 5 || a.Data[7] != M.At(3, 1) {
		Te.Errorf("Wrong JSON %s", j)
	}
}
