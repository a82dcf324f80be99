package basis

import (
	"testing"
)

func TestKinds(Te *testing.T) {
	exp := map[ShellKind]int{S: 1, P: 3, SP: 4, D6: 6, D5: 5, F10: 10, F7: 7, G15: 15, G9: 9}
	for k, n := range exp {
		if k.Components() != n {
			Te.Errorf("%s should have %d components, has %d", k, n, k.Components())
		}
	}
	for _, name := range []string{"s", "L", "5d", "D", "10F", "7f", "9G"} {
		if _, err := ParseShellKind(name); err != nil {
			Te.Error(err)
		}
	}
	if _, err := ParseShellKind("H"); err == nil {
		Te.Error("H is not a shell kind")
	}
}

func TestSize(Te *testing.T) {
	b := &Basis{
		Shells:     []Shell{{0, S, 0, 3}, {0, SP, 3, 3}, {1, D5, 6, 1}, {1, F10, 7, 1}},
		Primitives: make([]Primitive, 8),
	}
	if b.Size() != 1+4+5+10 {
		Te.Errorf("Wrong size %d", b.Size())
	}
	if err := b.Check(2); err != nil {
		Te.Error(err)
	}
	if err := b.Check(1); err == nil {
		Te.Error("Shell on a missing atom not detected")
	}
	b.Shells = append(b.Shells, Shell{0, P, 7, 2})
	if err := b.Check(2); err == nil {
		Te.Error("Shell beyond the primitive table not detected")
	}
	sl := &Basis{Slaters: []SlaterTerm{{Zeta: 1}, {Zeta: -2}, {Zeta: 0.5}}}
	if sl.Size() != 2 {
		Te.Errorf("Contracted Slater terms share a coefficient, expected size 2, got %d", sl.Size())
	}
	sl.Slaters[0].Zeta = -1
	if err := sl.Check(1); err == nil {
		Te.Error("A first contracted Slater term should fail")
	}
}

func TestCursor(Te *testing.T) {
	c := NewCursor([]float64{1, 2, 3, 4, 5, 6, 7})
	c.Advance(1)
	if c.Next() != 2 {
		Te.Error("Next after Advance(1) should read the second coefficient")
	}
	c.Rewind(1)
	if c.Next() != 2 {
		Te.Error("Rewind didn't work")
	}
	t := c.Take(2, nil)
	if t[0] != 3 || t[1] != 4 || c.Pos() != 4 {
		Te.Errorf("Take misbehaves: %v %d", t, c.Pos())
	}
	if c.Done() == nil {
		Te.Error("Done should fail with coefficients left")
	}
	c.Advance(c.Remaining())
	if err := c.Done(); err != nil {
		Te.Error(err)
	}
	defer func() {
		if r := recover(); r == nil {
			Te.Error("Advancing past the end should panic")
		}
	}()
	c.Advance(1)
}

func TestOrders(Te *testing.T) {
	//xx xy xz yy yz zz, as an alphabetical program would print them
	src := []float64{1, 4, 5, 2, 6, 3}
	b := &Basis{Orders: Alphabetical()}
	c := NewCursor(src)
	got := c.TakeShell(D6, b.Order(D6), nil)
	exp := []float64{1, 2, 3, 4, 5, 6} //xx yy zz xy xz yz
	for i := range exp {
		if got[i] != exp[i] {
			Te.Fatalf("Reordered D6 %v, expected %v", got, exp)
		}
	}
	for _, m := range []map[ShellKind][]int{Alphabetical(), MOrdered()} {
		for k, o := range m {
			if err := checkOrder(k, o); err != nil {
				Te.Error(err)
			}
		}
	}
	if err := checkOrder(D5, []int{0, 1, 1, 2, 3}); err == nil {
		Te.Error("Repeated components not detected")
	}
	if _, ok := Orders("alphabetical+m"); !ok {
		Te.Error("alphabetical+m should be a known order")
	}
}
